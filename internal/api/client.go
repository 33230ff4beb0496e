package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vilaca/gh-activity-digest/internal/domain"
)

// ActivityClient defines the read operations needed to build an activity report.
// Consumers depend on this interface, not on the GitHub implementation.
type ActivityClient interface {
	// GetUserEvents returns the most recent public events of a user (one page).
	GetUserEvents(ctx context.Context, user string) ([]domain.Event, error)

	// GetNotifications returns notifications updated since the given time.
	GetNotifications(ctx context.Context, since time.Time) ([]domain.Notification, error)

	// GetUserRepos returns repositories owned by the user (one page).
	GetUserRepos(ctx context.Context, user string) ([]domain.Repository, error)

	// GetDeployments returns deployments of a repository created since the given time.
	GetDeployments(ctx context.Context, fullName string, since time.Time) ([]domain.Deployment, error)
}

// ClientConfig holds common configuration for API clients.
type ClientConfig struct {
	BaseURL string
	Token   string
}

// AuthError is returned when the API rejects the configured token (HTTP 401).
type AuthError struct {
	Platform string
	Message  string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.Platform, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// StatusError is returned for any other non-2xx API response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
}
