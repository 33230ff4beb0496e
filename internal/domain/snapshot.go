package domain

import "time"

// Snapshot is the activity collected for a single report run.
// It is built fresh on every run and never persisted.
type Snapshot struct {
	User          string
	Window        Window
	Events        []Event
	Notifications []Notification
	Deployments   []Deployment
	AuditLogs     []AuditLog
}

// NewSnapshot returns an empty snapshot with non-nil slices.
func NewSnapshot(user string, window Window) *Snapshot {
	return &Snapshot{
		User:          user,
		Window:        window,
		Events:        []Event{},
		Notifications: []Notification{},
		Deployments:   []Deployment{},
		AuditLogs:     []AuditLog{},
	}
}

// IsEmpty returns true if no activity of any kind was collected.
func (s *Snapshot) IsEmpty() bool {
	return len(s.Events) == 0 &&
		len(s.Notifications) == 0 &&
		len(s.Deployments) == 0 &&
		len(s.AuditLogs) == 0
}

// Window is a time range used to keep only recent activity.
type Window struct {
	Start time.Time
	End   time.Time
}

// TrailingWindow returns the window of length d ending at now.
func TrailingWindow(now time.Time, d time.Duration) Window {
	return Window{Start: now.Add(-d), End: now}
}

// Contains reports whether t is strictly after Start and not after End.
func (w Window) Contains(t time.Time) bool {
	return t.After(w.Start) && !t.After(w.End)
}

// FilterEvents returns the events that fall inside the window, preserving order.
func (w Window) FilterEvents(events []Event) []Event {
	result := make([]Event, 0, len(events))
	for _, e := range events {
		if w.Contains(e.CreatedAt) {
			result = append(result, e)
		}
	}
	return result
}

// FilterNotifications returns the notifications updated inside the window.
func (w Window) FilterNotifications(notifications []Notification) []Notification {
	result := make([]Notification, 0, len(notifications))
	for _, n := range notifications {
		if w.Contains(n.UpdatedAt) {
			result = append(result, n)
		}
	}
	return result
}

// FilterDeployments returns the deployments created inside the window.
func (w Window) FilterDeployments(deployments []Deployment) []Deployment {
	result := make([]Deployment, 0, len(deployments))
	for _, d := range deployments {
		if w.Contains(d.CreatedAt) {
			result = append(result, d)
		}
	}
	return result
}
