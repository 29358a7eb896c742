// Package engine ties triage, refinement and feedback together behind the two
// calls a caller makes: Classify and Refine.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/promptsmith/internal/common"
	"github.com/Veraticus/promptsmith/internal/feedback"
	"github.com/Veraticus/promptsmith/internal/llm"
	"github.com/Veraticus/promptsmith/internal/model"
	"github.com/Veraticus/promptsmith/internal/refine"
	"github.com/Veraticus/promptsmith/internal/triage"
)

// Store is the persistence the engine needs. storage.SQLiteStorage satisfies it.
type Store interface {
	triage.Corpus
	triage.GoldenSet
	feedback.Store
}

// Engine classifies and refines prompts.
type Engine struct {
	classifier *triage.Classifier
	dispatcher *refine.Dispatcher
	loop       *feedback.Loop
	logger     *slog.Logger
}

// New creates an engine. store may be nil, in which case there is no corpus,
// no golden set and corrections are not recorded. A nil generator keeps
// classification on the fast path and makes Refine fail with
// common.ErrMissingCredential.
func New(cfg triage.Config, store Store, generator llm.Generator, corrector feedback.Corrector, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		corpus triage.Corpus
		golden triage.GoldenSet
		sink   feedback.Store
	)
	if store != nil {
		corpus, golden, sink = store, store, store
	}

	classifier, err := triage.NewClassifier(cfg, corpus, golden, generator, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}

	e := &Engine{
		classifier: classifier,
		logger:     logger,
	}
	if generator != nil {
		e.dispatcher, err = refine.NewDispatcher(generator, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create dispatcher: %w", err)
		}
	}
	if sink != nil {
		e.loop = feedback.NewLoop(sink, corrector, logger)
	}
	return e, nil
}

// Classify triages a prompt. It never fails.
func (e *Engine) Classify(ctx context.Context, prompt string) model.ClassificationResult {
	return e.classifier.Classify(ctx, prompt)
}

// Refine classifies prompt and rewrites it for platform. taskCategory
// optionally names the category general refinement should aim for; an empty
// or unknown value means general.
//
// Errors: common.ErrMissingCredential when no generator is configured,
// checked before any other work; common.ErrUnsupportedPlatform for an unknown
// platform; *common.ServiceError when the generation call fails.
func (e *Engine) Refine(ctx context.Context, prompt, platform, taskCategory string) (feedback.Session, refine.Result, error) {
	if e.dispatcher == nil {
		return feedback.Session{}, refine.Result{}, common.ErrMissingCredential
	}

	target, err := model.ParsePlatform(platform)
	if err != nil {
		return feedback.Session{}, refine.Result{}, err
	}

	task := e.taskCategory(taskCategory)
	result := e.classifier.Classify(ctx, prompt)

	refined, err := e.dispatcher.Refine(ctx, refine.Request{
		Prompt:       prompt,
		Platform:     target,
		TaskCategory: task,
		Result:       result,
	})
	if err != nil {
		return feedback.Session{}, refine.Result{}, err
	}

	session := feedback.Session{
		Original: prompt,
		Refined:  refined.Text,
		Result:   result,
	}
	return session, refined, nil
}

// Observe hands the editor text after a refinement to the feedback loop. It
// returns the stored record, or nil when nothing was recorded.
func (e *Engine) Observe(ctx context.Context, session feedback.Session, current string) (*model.FeedbackRecord, error) {
	if e.loop == nil {
		if feedback.IsUndo(session, current) {
			e.logger.Warn("refinement undone but no feedback store is configured")
		}
		return nil, nil
	}
	return e.loop.Observe(ctx, session, current)
}

func (e *Engine) taskCategory(raw string) model.CategoryID {
	if strings.TrimSpace(raw) == "" {
		return model.CategoryGeneral
	}
	id, err := model.ParseCategoryID(raw)
	if err != nil {
		e.logger.Warn("unknown task category, using general", "task_category", raw)
		return model.CategoryGeneral
	}
	return id
}
