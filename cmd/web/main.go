package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/de-tools/report-atlas/pkg/server"
	"github.com/de-tools/report-atlas/pkg/services/chunking"
	"github.com/de-tools/report-atlas/pkg/services/config"
	"github.com/de-tools/report-atlas/pkg/services/report"
	"github.com/de-tools/report-atlas/pkg/store/artifact"
	"github.com/de-tools/report-atlas/pkg/store/duckdb"
	"github.com/de-tools/report-atlas/pkg/store/duckdb/history"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Report Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a YAML config file (REPORT_ATLAS_* environment variables override it)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logger := zerolog.New(os.Stdout).Level(level).With().
		Timestamp().
		Str("app", cfg.AppName).
		Str("env", cfg.Env).
		Logger()
	ctx := logger.WithContext(cmd.Context())

	backend, err := newBackend(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create artifact backend: %w", err)
	}
	artifacts, err := artifact.NewStore(backend)
	if err != nil {
		return fmt.Errorf("failed to create artifact store: %w", err)
	}

	var ledger history.Store
	if cfg.History.DbPath != "" {
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: cfg.History.DbPath})
		if err != nil {
			return fmt.Errorf("failed to create DuckDB instance: %w", err)
		}
		defer func(db *sql.DB) {
			if err := db.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close DuckDB")
			}
		}(db)

		ledger, err = history.NewStore(db, history.WithRetention(cfg.History.KeepRuns))
		if err != nil {
			return fmt.Errorf("failed to create variance history store: %w", err)
		}
		logger.Info().
			Str("db_path", cfg.History.DbPath).
			Int("keep_runs", cfg.History.KeepRuns).
			Msg("variance history enabled")
	}

	svc, err := report.NewService(artifacts, ledger)
	if err != nil {
		return fmt.Errorf("failed to create report service: %w", err)
	}

	logger.Info().
		Str("storage_backend", cfg.Storage.Backend).
		Msg("configuration loaded")

	api := server.NewWebAPI(server.Config{
		AppName:         cfg.AppName,
		Env:             cfg.Env,
		Addr:            cfg.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Report: svc,
			Chunking: chunking.Options{
				MaxTokens:     cfg.Chunking.MaxTokens,
				OverlapTokens: cfg.Chunking.OverlapTokens,
				Meta:          chunking.DefaultMeta(),
			},
			TopN:   cfg.Narrative.TopN,
			Logger: logger,
		},
	})
	return api.Start()
}

func newBackend(ctx context.Context, cfg config.StorageConfig) (artifact.Backend, error) {
	switch cfg.Backend {
	case config.BackendS3:
		opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3.Region)}
		if cfg.S3.Profile != "" {
			opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.S3.Profile))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		return artifact.NewS3BackendFromConfig(awsCfg, cfg.S3.Bucket, cfg.S3.Prefix)
	default:
		return artifact.NewFileBackend(cfg.Dir)
	}
}

