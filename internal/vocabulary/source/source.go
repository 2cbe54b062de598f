// Package source builds the vocabulary loader selected by configuration.
package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/vocabquiz/internal/config"
	"github.com/at-ishikawa/vocabquiz/internal/database"
	"github.com/at-ishikawa/vocabquiz/internal/vocabulary"
	"github.com/at-ishikawa/vocabquiz/internal/vocabulary/firestore"
	"github.com/at-ishikawa/vocabquiz/internal/vocabulary/sqlstore"
)

// Open returns the configured loader and a function releasing its connections
func Open(ctx context.Context, cfg *config.Config) (vocabulary.Loader, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Vocabulary.Source {
	case config.SourceFirestore:
		firestoreCfg := cfg.Vocabulary.Firestore
		loader := firestore.NewLoader(firestore.Config{
			BaseURL:     firestoreCfg.BaseURL,
			ProjectID:   firestoreCfg.ProjectID,
			DatabaseID:  firestoreCfg.DatabaseID,
			Collection:  cfg.Vocabulary.Collection,
			APIKey:      firestoreCfg.APIKey,
			AccessToken: firestoreCfg.AccessToken,
			PageSize:    firestoreCfg.PageSize,
		})
		return loader, noop, nil

	case config.SourceMySQL:
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("database.Open() > %w", err)
		}
		return sqlstore.NewMySQLLoader(db, cfg.Vocabulary.Collection), db.Close, nil

	case config.SourcePostgres:
		pool, err := database.OpenPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("database.OpenPostgres() > %w", err)
		}
		return sqlstore.NewPostgresLoader(pool, cfg.Vocabulary.Collection), func() error {
			pool.Close()
			return nil
		}, nil

	case config.SourceYAML:
		return vocabulary.NewYAMLLoader(cfg.Vocabulary.YAML.Path), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown vocabulary source %q", cfg.Vocabulary.Source)
}

// LoadAll fetches the configured collection once.
// A failure is logged and yields an empty list so the quiz can still start.
func LoadAll(ctx context.Context, cfg *config.Config) []vocabulary.Item {
	logger := slog.Default().With("source", cfg.Vocabulary.Source, "collection", cfg.Vocabulary.Collection)

	loader, closeFunc, err := Open(ctx, cfg)
	if err != nil {
		logger.Error("failed to open vocabulary source", "error", err)
		return nil
	}
	defer func() {
		if err := closeFunc(); err != nil {
			logger.Warn("failed to close vocabulary source", "error", err)
		}
	}()
	return fetch(ctx, loader, logger)
}

// fetch runs loader once and returns nil after logging any failure
func fetch(ctx context.Context, loader vocabulary.Loader, logger *slog.Logger) []vocabulary.Item {
	items, err := loader.LoadAll(ctx)
	if err != nil {
		logger.Error("failed to load vocabulary", "error", err)
		return nil
	}
	logger.Info("loaded vocabulary", "count", len(items))
	return items
}
