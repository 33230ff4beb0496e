package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/vilaca/gh-activity-digest/internal/api"
	"github.com/vilaca/gh-activity-digest/internal/api/github"
	"github.com/vilaca/gh-activity-digest/internal/config"
	"github.com/vilaca/gh-activity-digest/internal/mail"
	"github.com/vilaca/gh-activity-digest/internal/report"
	"github.com/vilaca/gh-activity-digest/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg).With("run_id", uuid.NewString())

	if err := cfg.ValidateReport(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if !cfg.HasGitHubConfig() {
		logger.Warn("GITHUB_TOKEN not set: requests are unauthenticated and notifications will fail")
	}

	reporter, err := buildReporter(cfg, logger)
	if err != nil {
		logger.Error("failed to build reporter", "error", err)
		os.Exit(1)
	}

	logger.Info("collecting activity", "user", cfg.GitHubUser, "repo_limit", cfg.RepoLimit)

	if err := reporter.Run(context.Background()); err != nil {
		logger.Error("error sending activity email", "error", err)
		os.Exit(1)
	}
	logger.Info("activity email sent successfully")
}

// buildReporter wires up all dependencies and returns the report service.
// This is the composition root where all dependencies are created and injected.
func buildReporter(cfg *config.Config, logger *slog.Logger) (*service.ReportService, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout(),
	}

	githubClient := github.NewClient(api.ClientConfig{
		BaseURL: cfg.GitHubURL,
		Token:   cfg.GitHubToken,
	}, httpClient)

	fetcher := service.NewActivityService(githubClient, service.ActivityOptions{
		User:        cfg.GitHubUser,
		RepoLimit:   cfg.RepoLimit,
		Window:      cfg.Window(),
		Concurrency: cfg.FetchConcurrency,
	}, logger)

	sender := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.FromEmail,
		Password: cfg.SMTPPassword,
		TLS:      cfg.SMTPTLS,
	})

	return service.NewReportService(
		fetcher,
		report.NewHTMLRenderer(loc),
		sender,
		service.Recipients{From: cfg.FromEmail, To: cfg.ToEmail},
		logger,
	), nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}
