// Package main provides the marketbrief CLI entry point.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/wneessen/go-mail"

	"marketbrief/internal/config"
	"marketbrief/internal/digest"
	"marketbrief/internal/mailer"
	"marketbrief/internal/output"
	"marketbrief/internal/render"
	"marketbrief/internal/service"
	"marketbrief/internal/source/rss"
	"marketbrief/internal/source/x"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, outputPath, format string

	cmd := &cobra.Command{
		Use:           "marketbrief",
		Short:         "Build a market news brief from RSS feeds and X posts",
		Long:          "Marketbrief fetches the configured RSS feeds (and optionally recent X posts), dedupes and scores the fresh items, and writes a Markdown or HTML newsletter.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, outputPath, format)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "override output path (empty keeps the configured path)")
	cmd.Flags().StringVar(&format, "format", "", "override output format (markdown or html)")

	return cmd
}

func run(configPath, outputPath, format string) error {
	logger := setupLogger("info")

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}
	logger = setupLogger(cfg.LogLevel)

	if outputPath != "" {
		cfg.Output.Path = outputPath
	}
	if format != "" {
		cfg.Output.Format = config.Format(format)
		if cfg.Output.Format != config.FormatMarkdown && cfg.Output.Format != config.FormatHTML {
			logger.Error("unknown output format", "format", format)
			return fmt.Errorf("unknown output format %q", format)
		}
	}

	loc, err := cfg.Output.Location()
	if err != nil {
		logger.Error("bad timezone", "error", err)
		return err
	}

	sources := make([]service.Source, 0, len(cfg.Sources)+1)
	for _, src := range cfg.Sources {
		sources = append(sources, rss.New(rss.Config{
			URL:            src.URL,
			Category:       src.Category,
			Timeout:        cfg.Fetch.Timeout,
			MaxAttempts:    cfg.Fetch.Retry.MaxAttempts,
			InitialBackoff: cfg.Fetch.Retry.InitialBackoff,
			MaxBackoff:     cfg.Fetch.Retry.MaxBackoff,
		}, logger))
	}

	var social service.Source = x.Noop{}
	if cfg.Social.Enabled {
		social = x.New(x.Config{
			BearerToken:  cfg.Social.BearerToken,
			Handles:      cfg.Social.Handles,
			MaxPerHandle: cfg.Social.MaxPerHandle,
			Category:     cfg.Social.Category,
			Window:       cfg.FreshnessWindow,
			Timeout:      cfg.Fetch.Timeout,
		}, logger)
	}
	sources = append(sources, social)

	var renderer service.Renderer = render.Markdown{}
	contentType := mail.TypeTextPlain
	if cfg.Output.Format == config.FormatHTML {
		renderer = render.NewHTML()
		contentType = mail.TypeTextHTML
	}

	var writer service.Writer = &output.StdoutWriter{Out: os.Stdout}
	if cfg.Output.Path != "" {
		writer = output.NewFileWriter(cfg.Output.Path)
	}

	var briefMailer service.Mailer
	if cfg.Email.Enabled {
		smtp, err := mailer.New(mailer.Config{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			FromName: cfg.Email.FromName,
			To:       cfg.Email.To,
		}, contentType, logger)
		if err != nil {
			logger.Warn("mailer unavailable, brief will not be emailed", "error", err)
		} else {
			briefMailer = smtp
		}
	}

	brief := service.NewBrief(
		sources,
		digest.New(cfg, logger),
		renderer,
		writer,
		briefMailer,
		cfg,
		loc,
		logger,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if _, err := brief.Run(ctx); err != nil {
		logger.Error("run failed", "error", err)
		return err
	}

	return nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}
