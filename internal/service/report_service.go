package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vilaca/gh-activity-digest/internal/domain"
	"github.com/vilaca/gh-activity-digest/internal/mail"
	"github.com/vilaca/gh-activity-digest/internal/report"
)

// SnapshotFetcher collects the activity of one run.
type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context) *domain.Snapshot
}

// Recipients holds the sender and recipient of the report email.
type Recipients struct {
	From string
	To   string
}

// ReportService fetches activity, renders it and emails the result.
type ReportService struct {
	fetcher    SnapshotFetcher
	renderer   report.Renderer
	sender     mail.Sender
	recipients Recipients
	logger     *slog.Logger
	now        func() time.Time
}

// NewReportService creates a new report service.
func NewReportService(fetcher SnapshotFetcher, renderer report.Renderer, sender mail.Sender, recipients Recipients, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		fetcher:    fetcher,
		renderer:   renderer,
		sender:     sender,
		recipients: recipients,
		logger:     logger,
		now:        time.Now,
	}
}

// SetClock replaces the time source (used by tests).
func (s *ReportService) SetClock(now func() time.Time) {
	s.now = now
}

// BuildMessage fetches the snapshot and renders the email without sending it.
func (s *ReportService) BuildMessage(ctx context.Context) (domain.Message, error) {
	snap := s.fetcher.FetchSnapshot(ctx)
	now := s.now()

	var body strings.Builder
	if err := s.renderer.RenderActivity(&body, snap, now); err != nil {
		return domain.Message{}, fmt.Errorf("rendering report: %w", err)
	}

	return domain.Message{
		From:    s.recipients.From,
		To:      s.recipients.To,
		Subject: s.renderer.Subject(now),
		HTML:    body.String(),
		Text:    report.PlainTextFallback,
	}, nil
}

// Run builds the report and sends it once. Fetch problems only degrade the
// report; the returned error is always a rendering or sending failure.
func (s *ReportService) Run(ctx context.Context) error {
	msg, err := s.BuildMessage(ctx)
	if err != nil {
		return err
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("sending activity email: %w", err)
	}

	s.logger.Info("activity email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}
