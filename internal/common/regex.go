package common

import (
	"fmt"
	"regexp"
	"strings"
)

// CompilePatterns compiles each pattern case-insensitively unless it already
// carries its own flags. The first invalid pattern aborts compilation.
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		expr := p
		if !strings.HasPrefix(expr, "(?") {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// MustCompilePatterns is like CompilePatterns but panics on error. It is meant
// for package-level tables of literal patterns.
func MustCompilePatterns(patterns []string) []*regexp.Regexp {
	compiled, err := CompilePatterns(patterns)
	if err != nil {
		panic(err)
	}
	return compiled
}
