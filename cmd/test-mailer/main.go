package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/vilaca/gh-activity-digest/internal/config"
	"github.com/vilaca/gh-activity-digest/internal/domain"
	"github.com/vilaca/gh-activity-digest/internal/mail"
)

const (
	testSubject = "Test email"
	testText    = "This is a test email sent through the Mailjet API."
	testHTML    = "<h3>Test email</h3><p>This is a test email sent through the Mailjet API.</p>"
)

// responseSender is satisfied by *mail.MailjetSender.
type responseSender interface {
	SendWithResponse(ctx context.Context, msg domain.Message) (string, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	if err := cfg.ValidateTestMailer(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	sender := mail.NewMailjetSender(cfg.MailjetURL, cfg.MailjetAPIKey, cfg.MailjetAPISecret, &http.Client{
		Timeout: cfg.HTTPTimeout(),
	})

	if err := run(context.Background(), sender, buildTestMessage(cfg), logger); err != nil {
		os.Exit(1)
	}
}

// buildTestMessage returns the fixed test message.
func buildTestMessage(cfg *config.Config) domain.Message {
	return domain.Message{
		From:    cfg.FromEmail,
		To:      cfg.ToEmail,
		Subject: testSubject,
		Text:    testText,
		HTML:    testHTML,
	}
}

// run sends msg exactly once and logs the outcome.
func run(ctx context.Context, sender responseSender, msg domain.Message, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	body, err := sender.SendWithResponse(ctx, msg)
	if err != nil {
		if code := mail.StatusCode(err); code != 0 {
			logger.Error("test email failed", "status_code", code)
		} else {
			logger.Error("test email failed", "error", err)
		}
		return err
	}

	logger.Info("test email sent", "response", body)
	return nil
}
