package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/promptsmith/internal/common"
	"github.com/Veraticus/promptsmith/internal/config"
	"github.com/Veraticus/promptsmith/internal/engine"
	"github.com/Veraticus/promptsmith/internal/feedback"
	"github.com/Veraticus/promptsmith/internal/llm"
	"github.com/Veraticus/promptsmith/internal/storage"
)

// SMITH_LLM_API_KEY maps to llm.api_key.
var envKeyReplacer = strings.NewReplacer(".", "_")

// initStorage opens the configured database and applies migrations.
func initStorage(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// createGenerator builds the configured text generator. It returns nil
// without error when no API key is configured.
func createGenerator(cfg *config.Config) (llm.Generator, error) {
	if !cfg.HasCredential() {
		slog.Debug("no API key configured, classification stays on the fast path",
			"provider", cfg.LLM.Provider)
		return nil, nil
	}
	gen, err := llm.NewGenerator(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s generator: %w", cfg.LLM.Provider, err)
	}
	return gen, nil
}

// app bundles what most commands need. Close releases the database.
type app struct {
	cfg    *config.Config
	store  *storage.SQLiteStorage
	engine *engine.Engine
}

func newApp(ctx context.Context, corrector feedback.Corrector) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gen, err := createGenerator(cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	eng, err := engine.New(cfg.Triage, store, gen, corrector, slog.Default())
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &app{cfg: cfg, store: store, engine: eng}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Error("Failed to close database", "error", err)
	}
}

// missingCredentialError explains how to configure an API key.
func missingCredentialError(cfg *config.Config, err error) error {
	return common.NewUserError(
		fmt.Sprintf("no API key configured for %s: set llm.api_key in the config file or the provider's API key environment variable", cfg.LLM.Provider),
		err)
}
