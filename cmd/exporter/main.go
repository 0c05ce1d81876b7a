package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"fxrates-exporter/internal/application"
	"fxrates-exporter/internal/bootstrap"
	"fxrates-exporter/internal/config"
	"fxrates-exporter/internal/domain"
	"fxrates-exporter/internal/infrastructure/export"
	"fxrates-exporter/internal/infrastructure/logx"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	err := run(os.Args[1:])
	if code := exitCode(err); code != 0 {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(code)
	}
}

// exitCode maps a run error to the process status. -h has already printed
// usage and is not a failure.
func exitCode(err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return 0
	}
	return 1
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyFlags(&cfg, args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logx.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("env", cfg.Env))

	writers, err := export.Writers(cfg.OutputFormats)
	if err != nil {
		return err
	}
	if err := export.EnsureDir(cfg.OutputDir); err != nil {
		return err
	}

	exporter, cleanup, err := bootstrap.InitExporter(cfg, logger, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := exporter.Run(ctx, application.Request{
		Credential: cfg.APIKey,
		Query: domain.RateQuery{
			Base:    cfg.BaseCurrency,
			Timeout: cfg.RequestTimeout,
			Retries: cfg.FetchRetries,
		},
		OutputDir: cfg.OutputDir,
		Writers:   writers,
	})
	if err != nil {
		return err
	}
	printReport(os.Stdout, report, application.TopRows)
	return nil
}

// applyFlags lets command line flags override the environment.
func applyFlags(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("exporter", flag.ContinueOnError)
	base := fs.String("base", cfg.BaseCurrency, "base currency code")
	out := fs.String("out", cfg.OutputDir, "output directory")
	formats := fs.String("formats", strings.Join(cfg.OutputFormats, ","), "comma separated output formats (csv, xlsx)")
	onConflict := fs.String("on-conflict", cfg.OnConflict, "existing file policy: prompt, overwrite, rename or cancel")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.BaseCurrency = *base
	cfg.OutputDir = *out
	cfg.OnConflict = *onConflict
	cfg.OutputFormats = cfg.OutputFormats[:0:0]
	for _, f := range strings.Split(*formats, ",") {
		if f = strings.TrimSpace(f); f != "" {
			cfg.OutputFormats = append(cfg.OutputFormats, f)
		}
	}
	return nil
}
