// Command wikidump exports pages from a MediaWiki database (pre-1.31
// schema) to individual .text files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"

	"wikidump/app/internal/config"
	appdb "wikidump/app/internal/db"
	"wikidump/app/internal/export"
	applog "wikidump/app/internal/log"
	"wikidump/app/internal/wiki"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load(args)
	if err != nil {
		return eris.Wrap(err, "failure loading configuration")
	}

	logger, err := applog.NewLogger(cfg.LogLevel(), os.Getenv("WIKIDUMP_LOG_JSON") != "")
	if err != nil {
		return eris.Wrap(err, "failure initialising logger")
	}

	flush, err := applog.InitSentry(logger, applog.SentrySettings{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
	})
	if err != nil {
		return eris.Wrap(err, "failure initialising sentry")
	}
	defer flush()

	dbConn, err := appdb.Open(appdb.Options{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		Name:     cfg.Database,
	})
	if err != nil {
		return eris.Wrap(err, "connecting to database")
	}
	defer func() {
		if closeErr := appdb.Close(dbConn); closeErr != nil {
			logger.WithError(closeErr).Error("closing database")
		}
	}()

	logger.WithField("database", cfg.Database).Info("connected to wiki database")

	repository, err := wiki.NewRepository(dbConn, logger)
	if err != nil {
		return eris.Wrap(err, "building wiki repository")
	}

	exporter, err := export.New(repository, logger)
	if err != nil {
		return eris.Wrap(err, "building exporter")
	}

	summary, err := exporter.Export(ctx, export.Options{
		OutputDir: cfg.OutputDir,
		Namespace: cfg.Namespace,
		Limit:     cfg.Limit,
	})
	if err != nil {
		return eris.Wrap(err, "export failed")
	}

	fmt.Printf("Export completed: %d pages, %d exported, %d failed (output: %s)\n",
		summary.Total, summary.Succeeded, summary.Failed, cfg.OutputDir)

	return nil
}
