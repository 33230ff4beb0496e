package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vilaca/gh-activity-digest/internal/api"
	"github.com/vilaca/gh-activity-digest/internal/domain"
)

const (
	// DefaultRepoLimit caps how many repositories are queried for deployments.
	DefaultRepoLimit = 10
	// DefaultWindow is the trailing period covered by a report.
	DefaultWindow = 24 * time.Hour
)

// ActivityOptions configures what an ActivityService collects.
type ActivityOptions struct {
	User string

	// RepoLimit is the maximum number of repositories whose deployments
	// are fetched. Values <= 0 mean DefaultRepoLimit.
	RepoLimit int

	// Window is the trailing period to keep. Values <= 0 mean DefaultWindow.
	Window time.Duration

	// Concurrency bounds in-flight deployment requests.
	// Values <= 0 mean api.MaxConcurrentRequests.
	Concurrency int
}

// ActivityService collects a user's recent activity into a Snapshot.
// Categories are fetched concurrently and fail independently: an error in
// one category (or one repository) is logged and never cancels the others.
type ActivityService struct {
	client api.ActivityClient
	opts   ActivityOptions
	logger *slog.Logger
	now    func() time.Time
}

// NewActivityService creates a new activity service.
func NewActivityService(client api.ActivityClient, opts ActivityOptions, logger *slog.Logger) *ActivityService {
	if opts.RepoLimit <= 0 {
		opts.RepoLimit = DefaultRepoLimit
	}
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = api.MaxConcurrentRequests
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ActivityService{
		client: client,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock replaces the time source (used by tests).
func (s *ActivityService) SetClock(now func() time.Time) {
	s.now = now
}

// Options returns the effective options after defaults were applied.
func (s *ActivityService) Options() ActivityOptions {
	return s.opts
}

// FetchSnapshot collects events, notifications and deployments of the
// trailing window. It never fails: categories that could not be fetched
// are left empty (or partially filled) and the error is logged.
func (s *ActivityService) FetchSnapshot(ctx context.Context) *domain.Snapshot {
	window := domain.TrailingWindow(s.now(), s.opts.Window)
	snap := domain.NewSnapshot(s.opts.User, window)

	// A plain Group: no derived context, so one failure cancels nothing.
	var g errgroup.Group
	g.Go(func() error {
		snap.Events = s.fetchEvents(ctx, window)
		return nil
	})
	g.Go(func() error {
		snap.Notifications = s.fetchNotifications(ctx, window)
		return nil
	})
	g.Go(func() error {
		snap.Deployments = s.fetchDeployments(ctx, window)
		return nil
	})
	_ = g.Wait()

	if snap.IsEmpty() {
		s.logger.Warn("no activity found in window", "user", s.opts.User, "since", window.Start)
	}

	s.logger.Info("activity collected",
		"user", s.opts.User,
		"events", len(snap.Events),
		"notifications", len(snap.Notifications),
		"deployments", len(snap.Deployments),
	)

	return snap
}

func (s *ActivityService) fetchEvents(ctx context.Context, window domain.Window) []domain.Event {
	events, err := s.client.GetUserEvents(ctx, s.opts.User)
	if err != nil {
		s.logFetchError("events", err, "user", s.opts.User)
		return []domain.Event{}
	}
	return window.FilterEvents(events)
}

func (s *ActivityService) fetchNotifications(ctx context.Context, window domain.Window) []domain.Notification {
	notifications, err := s.client.GetNotifications(ctx, window.Start)
	if err != nil {
		s.logFetchError("notifications", err)
		return []domain.Notification{}
	}
	return window.FilterNotifications(notifications)
}

// fetchDeployments lists the user's repositories and queries deployments
// for at most RepoLimit of them. Results keep repository listing order.
func (s *ActivityService) fetchDeployments(ctx context.Context, window domain.Window) []domain.Deployment {
	repos, err := s.client.GetUserRepos(ctx, s.opts.User)
	if err != nil {
		s.logFetchError("repositories", err, "user", s.opts.User)
		return []domain.Deployment{}
	}

	if len(repos) > s.opts.RepoLimit {
		s.logger.Debug("limiting deployment lookups",
			"repositories", len(repos),
			"limit", s.opts.RepoLimit,
		)
		repos = repos[:s.opts.RepoLimit]
	}

	perRepo := make([][]domain.Deployment, len(repos))

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for i, repo := range repos {
		g.Go(func() error {
			deployments, err := s.client.GetDeployments(ctx, repo.FullName, window.Start)
			if err != nil {
				s.logFetchError("deployments", err, "repository", repo.FullName)
				return nil
			}
			perRepo[i] = deployments
			return nil
		})
	}
	_ = g.Wait()

	var all []domain.Deployment
	for _, deployments := range perRepo {
		all = append(all, deployments...)
	}

	return window.FilterDeployments(all)
}

// logFetchError records a failed category fetch. The run continues with
// whatever was collected.
func (s *ActivityService) logFetchError(category string, err error, attrs ...any) {
	attrs = append(attrs, "category", category, "error", err)
	if api.IsAuthError(err) {
		attrs = append(attrs, "hint", "check GITHUB_TOKEN")
	}
	s.logger.Error("error fetching GitHub data", attrs...)
}
