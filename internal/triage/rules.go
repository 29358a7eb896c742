package triage

import (
	"fmt"
	"regexp"

	"github.com/Veraticus/promptsmith/internal/common"
	"github.com/Veraticus/promptsmith/internal/model"
)

// categoryRule is the immutable weight-rule table entry for one category.
type categoryRule struct {
	id       model.CategoryID
	keywords []string
	patterns []string
	compiled []*regexp.Regexp
}

// ruleDefinitions is keyed by every member of the category enumeration.
// buildRules refuses to start if one is missing.
var ruleDefinitions = map[model.CategoryID]struct {
	keywords []string
	patterns []string
}{
	model.CategoryGrammarSpelling: {
		keywords: []string{
			"grammar", "spelling", "spell check", "proofread", "typo",
			"punctuation", "fix my", "correct this", "rephrase", "reword", "sentence",
		},
		patterns: []string{
			`\b(fix|correct|check)\b.*\b(grammar|spelling|typos?|punctuation)\b`,
			`\bproof\s*read`,
			`\b(rewrite|rephrase|reword)\b.*\b(text|message|sentence|email|paragraph)\b`,
		},
	},
	model.CategoryImageGeneration: {
		keywords: []string{
			"image", "picture", "photo", "drawing", "illustration", "render",
			"portrait", "wallpaper", "sketch", "logo", "icon", "midjourney", "dall-e",
			"aesthetic", "beautiful", "pretty", "colorful", "vibrant",
		},
		patterns: []string{
			`\b(create|generate|make|draw|design|paint|render)\b.{0,40}\b(image|picture|photo|illustration|logo|icon|poster|wallpaper|portrait|art(work)?)\b`,
			`\bin the style of\b`,
			`\b(4k|8k|hdr|hyper-?realistic|cinematic lighting|bokeh)\b`,
		},
	},
	model.CategoryCoding: {
		keywords: []string{
			"code", "function", "script", "python", "javascript", "typescript",
			"c++", "golang", "rust", "sql", "api", "bug", "debug", "compile",
			"algorithm", "program", "app", "website", "frontend", "backend",
		},
		patterns: []string{
			`\b(make|create|build|write|develop|implement)\b.{0,20}\b(app|application|program|script|website|function|bot|game|calculator|class|component)\b`,
			`\b(python|javascript|typescript|java|golang|rust|ruby|php|swift|kotlin|html|css|sql|react)\b|\bc\+\+|\bc#`,
			`\b(error|exception|stack trace|segfault|null pointer|undefined is not)\b`,
		},
	},
	model.CategoryResearchAnalysis: {
		keywords: []string{
			"research", "analyze", "analysis", "compare", "study", "statistics",
			"data", "evidence", "sources", "summarize", "summary", "pros and cons",
			"explain", "history of", "trend",
		},
		patterns: []string{
			`\b(compare|contrast|evaluate|assess|investigate)\b`,
			`\bwhat (is|are) the\b.{0,30}\b(differences?|impacts?|effects?|causes?)\b`,
			`\b(studies|papers|citations?|peer[- ]reviewed)\b`,
		},
	},
	model.CategoryContentCreation: {
		keywords: []string{
			"blog", "article", "essay", "story", "poem", "caption", "newsletter",
			"email", "headline", "tweet", "linkedin", "content", "copywriting", "slogan",
		},
		patterns: []string{
			`\b(write|draft|compose)\b.{0,30}\b(blog|article|essay|story|poem|post|caption|email|newsletter|speech|bio)\b`,
			`\b(tone|audience|seo|engaging)\b`,
		},
	},
	model.CategoryGeneral: {
		keywords: []string{
			"what is", "how do", "how to", "tell me", "can you", "help me",
			"question", "advice", "recommend", "suggest", "idea",
		},
		patterns: []string{
			`^\s*(what|who|where|when|why|how)\b`,
			`\?\s*$`,
		},
	},
}

// categoryRules holds the compiled table in enumeration order.
var categoryRules = buildRules()

func buildRules() []categoryRule {
	ids := model.AllCategories()
	rules := make([]categoryRule, 0, len(ids))
	for _, id := range ids {
		def, ok := ruleDefinitions[id]
		if !ok {
			panic(fmt.Sprintf("triage: no rule definition for category %s", id))
		}
		rules = append(rules, categoryRule{
			id:       id,
			keywords: def.keywords,
			patterns: def.patterns,
			compiled: common.MustCompilePatterns(def.patterns),
		})
	}
	if len(ruleDefinitions) != len(ids) {
		panic("triage: rule definitions contain categories outside the enumeration")
	}
	return rules
}

// Categories returns the category definitions in enumeration order.
func Categories() []model.Category {
	out := make([]model.Category, len(categoryRules))
	for i, rule := range categoryRules {
		out[i] = model.Category{
			ID:       rule.id,
			Name:     rule.id.DisplayName(),
			Keywords: append([]string(nil), rule.keywords...),
			Patterns: append([]string(nil), rule.patterns...),
		}
	}
	return out
}

// Heuristic signal tables used by the category bonuses.
var (
	casualTokens = wordSet(
		"youre", "wanna", "gonna", "dont", "cant", "wont", "aint", "bitsh", "heyy",
		"im", "ur", "pls", "plz", "thx", "ya", "yall", "lol", "gotta", "lemme", "whats",
	)
	greetingWords = wordSet("hey", "hi", "hello", "text", "message", "write")
	seriousWords  = wordSet("code", "research", "analyze", "help", "explain", "understand")

	alphaRunPattern   = regexp.MustCompile(`[A-Za-z]{4,}`)
	visualTermPattern = regexp.MustCompile(`(?i)\b(photorealistic|stylized|illustration|sticker|logo|mockup|art|drawing|painting)\b`)

	primarilyCodingPatterns = common.MustCompilePatterns([]string{
		`\b(make|create|build|write|develop|code)\s+(me\s+)?(a|an)\s+(\S+\s+){0,2}?(app|application|program|script|website|web\s*app|game|tool|bot|calculator|extension|api|function)\b`,
		`\b(make|create|build|write|develop)\s+(me\s+)?(a|an)\s+(python|javascript|typescript|java|c\+\+|c#|go|golang|rust|swift|kotlin|react|html)(\s|$)`,
		`\b(in|using|with)\s+(python|javascript|typescript|java|c\+\+|c#|golang|rust|swift|kotlin|react)(\W|$)`,
	})

	sharedImagePhrases = []string{
		"this photo", "this image", "this picture", "uploaded image", "attached image",
		"the image i", "edit this", "modify this image", "my photo", "the attached",
		"i uploaded", "based on this image",
	}
)

const (
	grammarCasualBonus    = 5
	grammarShortPromptLen = 100
	visualTermBonus       = 2
	conflictCodingBoost   = 5
	conflictImagePenalty  = 3
	keywordWeight         = 1
	patternWeight         = 2
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
