package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/vocabquiz/internal/bootstrap"
	"github.com/at-ishikawa/vocabquiz/internal/config"
	"github.com/at-ishikawa/vocabquiz/internal/inference/openai"
	"github.com/at-ishikawa/vocabquiz/internal/quiz"
	"github.com/at-ishikawa/vocabquiz/internal/server"
	"github.com/at-ishikawa/vocabquiz/internal/textmask"
	"github.com/at-ishikawa/vocabquiz/internal/vocabulary/source"
)

var configFile string

func main() {
	var debugMode bool
	rootCmd := &cobra.Command{
		Use:           "vocabquiz-server",
		Short:         "Vocabulary quiz HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug mode")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}

func run(ctx context.Context) error {
	app := bootstrap.New(bootstrap.DefaultShutdownTimeout)

	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("config.LoadDotEnv() > %w", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}
	if cfg.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	openaiClient := openai.NewClient(cfg.OpenAI.APIKey, openai.Options{
		BaseURL:          cfg.OpenAI.BaseURL,
		Model:            cfg.OpenAI.Model,
		Temperature:      cfg.OpenAI.Temperature,
		MaxRetryAttempts: cfg.OpenAI.MaxRetryAttempts,
		Timeout:          cfg.OpenAI.Timeout,
	})
	app.AddCloser("openai client", openaiClient.Close)

	order, err := quiz.ParseOrder(cfg.Quiz.Order)
	if err != nil {
		return fmt.Errorf("quiz.ParseOrder() > %w", err)
	}
	options := server.Options{DefaultOrder: order}
	if cfg.Quiz.MaskHints {
		masker, err := textmask.New()
		if err != nil {
			return fmt.Errorf("textmask.New() > %w", err)
		}
		options.Masker = masker
	}

	// The list is fetched once. Sessions started with an empty list fail with failed_precondition.
	items := source.LoadAll(ctx, cfg)

	store := server.NewSessionStore(cfg.Server.SessionIdleTimeout)
	handler, err := server.NewQuizHandler(items, openaiClient, store, options)
	if err != nil {
		return fmt.Errorf("server.NewQuizHandler() > %w", err)
	}
	path, quizHandler := server.NewQuizServiceHandler(handler)

	mux := http.NewServeMux()
	mux.Handle(path, quizHandler)
	mux.Handle("/", server.IndexHandler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.CORSMiddleware(h2c.NewHandler(mux, &http2.Server{}), cfg.Server.CORS.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
	app.AddShutdownHook("http server", srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		go store.Run(ctx)

		slog.Default().Info("starting server", "addr", srv.Addr, "words", len(items))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}
