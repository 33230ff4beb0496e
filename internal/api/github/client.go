package github

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/vilaca/gh-activity-digest/internal/api"
	"github.com/vilaca/gh-activity-digest/internal/domain"
)

const (
	// DefaultBaseURL is the public GitHub REST API endpoint.
	DefaultBaseURL = "https://api.github.com"

	apiVersion = "2022-11-28"
	userAgent  = "gh-activity-digest"
)

// Client implements api.ActivityClient for the GitHub REST API.
// Every method issues exactly one request and reads a single page.
type Client struct {
	base *api.BaseClient
}

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient = api.HTTPClient

// NewClient creates a new GitHub client.
// Uses dependency injection for HTTPClient.
func NewClient(config api.ClientConfig, httpClient HTTPClient) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	base := api.NewBaseClient("github", baseURL, config.Token, httpClient)
	base.AuthScheme = "token"
	base.Headers["Accept"] = "application/vnd.github.v3+json"
	base.Headers["X-GitHub-Api-Version"] = apiVersion
	base.Headers["User-Agent"] = userAgent

	return &Client{base: base}
}

// GetUserEvents retrieves the latest events performed by user.
func (c *Client) GetUserEvents(ctx context.Context, user string) ([]domain.Event, error) {
	path := fmt.Sprintf("/users/%s/events", url.PathEscape(user))

	var ghEvents []githubEvent
	if err := c.base.GetJSON(ctx, path, &ghEvents); err != nil {
		return nil, fmt.Errorf("failed to get events for %s: %w", user, err)
	}

	return convertEvents(ghEvents), nil
}

// GetNotifications retrieves notifications of the authenticated user updated since the given time.
func (c *Client) GetNotifications(ctx context.Context, since time.Time) ([]domain.Notification, error) {
	path := "/notifications?" + sinceQuery(since)

	var ghNotifications []githubNotification
	if err := c.base.GetJSON(ctx, path, &ghNotifications); err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}

	return convertNotifications(ghNotifications), nil
}

// GetUserRepos retrieves repositories owned by user.
func (c *Client) GetUserRepos(ctx context.Context, user string) ([]domain.Repository, error) {
	path := fmt.Sprintf("/users/%s/repos", url.PathEscape(user))

	var ghRepos []githubRepository
	if err := c.base.GetJSON(ctx, path, &ghRepos); err != nil {
		return nil, fmt.Errorf("failed to get repositories for %s: %w", user, err)
	}

	return convertRepositories(ghRepos), nil
}

// GetDeployments retrieves deployments of a repository.
// fullName format: "owner/repo". The since parameter is forwarded as-is;
// the API does not guarantee it is honored, callers filter locally.
func (c *Client) GetDeployments(ctx context.Context, fullName string, since time.Time) ([]domain.Deployment, error) {
	path := fmt.Sprintf("/repos/%s/deployments?%s", fullName, sinceQuery(since))

	var ghDeployments []githubDeployment
	if err := c.base.GetJSON(ctx, path, &ghDeployments); err != nil {
		return nil, fmt.Errorf("failed to get deployments for %s: %w", fullName, err)
	}

	return convertDeployments(ghDeployments, fullName), nil
}

func sinceQuery(since time.Time) string {
	q := url.Values{}
	q.Set("since", since.UTC().Format(time.RFC3339))
	return q.Encode()
}

// convertEvents converts GitHub events to domain models.
func convertEvents(ghEvents []githubEvent) []domain.Event {
	events := make([]domain.Event, 0, len(ghEvents))
	for _, e := range ghEvents {
		commits := make([]domain.Commit, 0, len(e.Payload.Commits))
		for _, c := range e.Payload.Commits {
			commits = append(commits, domain.Commit{SHA: c.SHA, Message: c.Message})
		}

		events = append(events, domain.Event{
			ID:        e.ID,
			Type:      domain.EventType(e.Type),
			Repo:      e.Repo.Name,
			CreatedAt: e.CreatedAt,
			Payload: domain.EventPayload{
				Action:  e.Payload.Action,
				RefType: e.Payload.RefType,
				Ref:     e.Payload.Ref,
				Size:    e.Payload.Size,
				Commits: commits,
			},
		})
	}
	return events
}

// convertNotifications converts GitHub notification threads to domain models.
func convertNotifications(ghNotifications []githubNotification) []domain.Notification {
	notifications := make([]domain.Notification, 0, len(ghNotifications))
	for _, n := range ghNotifications {
		notifications = append(notifications, domain.Notification{
			ID:        n.ID,
			Reason:    n.Reason,
			Unread:    n.Unread,
			UpdatedAt: n.UpdatedAt,
			Subject: domain.NotificationSubject{
				Type:  n.Subject.Type,
				Title: n.Subject.Title,
			},
			Repository: n.Repository.FullName,
		})
	}
	return notifications
}

// convertRepositories converts GitHub repositories to domain models.
func convertRepositories(ghRepos []githubRepository) []domain.Repository {
	repos := make([]domain.Repository, 0, len(ghRepos))
	for _, r := range ghRepos {
		repos = append(repos, domain.Repository{
			ID:       r.ID,
			Name:     r.Name,
			FullName: r.FullName,
			HTMLURL:  r.HTMLURL,
		})
	}
	return repos
}

// convertDeployments converts GitHub deployments to domain models.
// The deployments payload does not always embed the repository, so the
// queried repository is used as a fallback.
func convertDeployments(ghDeployments []githubDeployment, fullName string) []domain.Deployment {
	deployments := make([]domain.Deployment, 0, len(ghDeployments))
	for _, d := range ghDeployments {
		repo := fullName
		if d.Repository != nil && d.Repository.FullName != "" {
			repo = d.Repository.FullName
		}

		deployments = append(deployments, domain.Deployment{
			ID:          d.ID,
			Environment: d.Environment,
			Ref:         d.Ref,
			CreatedAt:   d.CreatedAt,
			Repository:  repo,
		})
	}
	return deployments
}

// GitHub API response types
type githubRepository struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
}

type githubEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Repo      struct {
		Name string `json:"name"`
	} `json:"repo"`
	Payload githubEventPayload `json:"payload"`
}

type githubEventPayload struct {
	Action  string         `json:"action"`
	RefType string         `json:"ref_type"`
	Ref     string         `json:"ref"`
	Size    int            `json:"size"`
	Commits []githubCommit `json:"commits"`
}

type githubCommit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
}

type githubNotification struct {
	ID        string    `json:"id"`
	Reason    string    `json:"reason"`
	Unread    bool      `json:"unread"`
	UpdatedAt time.Time `json:"updated_at"`
	Subject   struct {
		Type  string `json:"type"`
		Title string `json:"title"`
	} `json:"subject"`
	Repository githubRepository `json:"repository"`
}

type githubDeployment struct {
	ID          int64             `json:"id"`
	Environment string            `json:"environment"`
	Ref         string            `json:"ref"`
	CreatedAt   time.Time         `json:"created_at"`
	Repository  *githubRepository `json:"repository"`
}
