package domain

import "time"

// Notification is an entry of the authenticated user's notification inbox.
type Notification struct {
	ID         string
	Reason     string
	Unread     bool
	UpdatedAt  time.Time
	Subject    NotificationSubject
	Repository string // full_name of the repository the thread belongs to
}

// NotificationSubject describes what a notification thread is about.
type NotificationSubject struct {
	Type  string // "Issue", "PullRequest", "Release", ...
	Title string
}
