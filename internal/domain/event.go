package domain

import "time"

// EventType is the GitHub event type name (e.g. "PushEvent").
type EventType string

const (
	EventTypePush        EventType = "PushEvent"
	EventTypeCreate      EventType = "CreateEvent"
	EventTypeIssues      EventType = "IssuesEvent"
	EventTypePullRequest EventType = "PullRequestEvent"
)

// Event represents a public activity event of a user (push, issue, PR, etc.)
type Event struct {
	ID        string    // Event ID
	Type      EventType // Event type, unknown values are kept as-is
	Repo      string    // Repository name in owner/repo form
	CreatedAt time.Time // When the event occurred
	Payload   EventPayload
}

// EventPayload holds the type-specific fields used when describing an event.
// Only the fields relevant to Type are populated.
type EventPayload struct {
	Action  string   // issues / pull request: "opened", "closed", ...
	RefType string   // create: "repository", "branch", "tag"
	Ref     string   // create / push
	Size    int      // push: number of commits reported by the API
	Commits []Commit // push
}

// Commit is a single commit listed in a push payload.
type Commit struct {
	SHA     string
	Message string
}
