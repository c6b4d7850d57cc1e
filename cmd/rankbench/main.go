package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ringgrank/rankbench/internal/batch"
	"github.com/ringgrank/rankbench/internal/config"
	"github.com/ringgrank/rankbench/internal/executor"
	"github.com/ringgrank/rankbench/internal/output"
	"github.com/ringgrank/rankbench/internal/payload"
	"github.com/ringgrank/rankbench/internal/scenario"
	"github.com/ringgrank/rankbench/internal/tracing"
)

const progressInterval = time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var logger *zap.Logger
	if cfg.LogErrors {
		logger, err = zap.NewProduction()
		if err != nil {
			return err
		}
		defer logger.Sync()
	}

	provider, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := provider.Shutdown(shutdownCtx); err != nil && logger != nil {
			logger.Warn("trace exporter shutdown", zap.Error(err))
		}
	}()

	suite, err := buildSuite(cfg)
	if err != nil {
		return err
	}
	if len(suite) == 0 {
		return fmt.Errorf("no scenarios selected: check --scenario and per-scenario request counts")
	}

	driver := &scenario.Driver{
		Client:    executor.NewClient(cfg.Timeout, cfg.Concurrency),
		BaseURL:   cfg.BaseURL,
		Generator: payload.NewGenerator(cfg.GameID, cfg.IDOffset, cfg.Population, cfg.LeaderLimit, cfg.Window, cfg.Seed),
		Batch: batch.Options{
			Limit:   cfg.Concurrency,
			Rate:    cfg.Rate,
			Timeout: cfg.BatchTimeout,
		},
		Logger:           logger,
		Tracer:           provider.Tracer(),
		ProgressInterval: progressInterval,
	}
	if !cfg.JSONOutput {
		driver.ProgressWriter = os.Stdout
	}

	var failed []error
	for _, sc := range suite {
		report, err := driver.Run(ctx, sc)
		if err != nil && !errors.Is(err, scenario.ErrAssertionFailed) {
			return err
		}
		if err != nil {
			failed = append(failed, err)
		}

		if cfg.JSONOutput {
			if err := output.PrintJSONReport(os.Stdout, report); err != nil {
				return err
			}
		} else {
			output.PrintReport(os.Stdout, report)
		}

		if ctx.Err() != nil {
			break
		}
	}

	return errors.Join(failed...)
}

func buildSuite(cfg *config.Config) ([]scenario.Scenario, error) {
	if cfg.Suite != "" {
		return scenario.LoadSuite(cfg.Suite)
	}
	return scenario.DefaultSuite(cfg), nil
}
