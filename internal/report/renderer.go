package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vilaca/gh-activity-digest/internal/domain"
)

const (
	// DefaultWebURL is the base of repository links.
	DefaultWebURL = "https://github.com"

	// PlainTextFallback is the text part sent alongside the HTML report.
	PlainTextFallback = "Please enable HTML to view this email."

	noEventsText        = "No recent activities in the past 24 hours."
	noNotificationsText = "No unread notifications."
)

// Renderer turns an activity snapshot into an email body.
type Renderer interface {
	RenderActivity(w io.Writer, snap *domain.Snapshot, now time.Time) error
	Subject(now time.Time) string
}

// HTMLRenderer implements Renderer for HTML email bodies.
// All HTML is built in code, no external templates are needed.
type HTMLRenderer struct {
	location *time.Location
	webURL   string
}

// NewHTMLRenderer creates a new HTML renderer. Times are shown in loc
// (time.Local when nil).
func NewHTMLRenderer(loc *time.Location) *HTMLRenderer {
	if loc == nil {
		loc = time.Local
	}
	return &HTMLRenderer{location: loc, webURL: DefaultWebURL}
}

// WithWebURL returns a copy of the renderer linking to a different web host
// (e.g. a GitHub Enterprise instance).
func (r *HTMLRenderer) WithWebURL(webURL string) *HTMLRenderer {
	cp := *r
	if webURL != "" {
		cp.webURL = webURL
	}
	return &cp
}

// RenderActivity writes the HTML report to w.
func (r *HTMLRenderer) RenderActivity(w io.Writer, snap *domain.Snapshot, now time.Time) error {
	_, err := io.WriteString(w, r.BuildActivityHTML(snap, now))
	return err
}

// Subject returns the email subject for a report generated at now.
func (r *HTMLRenderer) Subject(now time.Time) string {
	return "GitHub Activity Summary - " + now.In(r.location).Format("2006-01-02")
}

// BuildActivityHTML constructs the HTML document for a snapshot.
// The output depends only on the snapshot, now and the renderer location.
func (r *HTMLRenderer) BuildActivityHTML(snap *domain.Snapshot, now time.Time) string {
	var sb strings.Builder

	sb.WriteString(htmlHead("GitHub Activity Summary"))
	sb.WriteString(`
<body>
	<div class="container">`)
	sb.WriteString(r.buildHeader(snap.User, now))

	// Activities and notifications are always shown; deployments only when present.
	sb.WriteString(sectionStart("Recent Activities"))
	if len(snap.Events) == 0 {
		sb.WriteString(noActivity(noEventsText))
	} else {
		for _, event := range snap.Events {
			sb.WriteString(r.buildEventItem(event))
		}
	}
	sb.WriteString(sectionEnd())

	sb.WriteString(sectionStart("Unread Notifications"))
	if len(snap.Notifications) == 0 {
		sb.WriteString(noActivity(noNotificationsText))
	} else {
		for _, notification := range snap.Notifications {
			sb.WriteString(r.buildNotificationItem(notification))
		}
	}
	sb.WriteString(sectionEnd())

	if len(snap.Deployments) > 0 {
		sb.WriteString(sectionStart("Recent Deployments"))
		for _, deployment := range snap.Deployments {
			sb.WriteString(r.buildDeploymentItem(deployment))
		}
		sb.WriteString(sectionEnd())
	}

	sb.WriteString(htmlFooter())
	return sb.String()
}

func (r *HTMLRenderer) buildHeader(user string, now time.Time) string {
	return fmt.Sprintf(`
		<div class="header">
			<h1>GitHub Activity Summary</h1>
			<p>Last 24 hours of activity for %s</p>
			<p>%s</p>
		</div>`, escapeHTML(user), now.In(r.location).Format("January 2, 2006"))
}

func (r *HTMLRenderer) buildEventItem(event domain.Event) string {
	return fmt.Sprintf(`
			<div class="event-item"><span class="time">%s</span> - %s</div>`,
		r.clock(event.CreatedAt), r.describeEvent(event))
}

// describeEvent returns the display text of an event. Unknown event types
// fall back to a generic description instead of failing.
func (r *HTMLRenderer) describeEvent(event domain.Event) string {
	link := repoLink(r.webURL, event.Repo)

	switch event.Type {
	case domain.EventTypePush:
		return fmt.Sprintf("Pushed %d commit(s) to %s", len(event.Payload.Commits), link)
	case domain.EventTypeCreate:
		return fmt.Sprintf("Created %s in %s", escapeHTML(event.Payload.RefType), link)
	case domain.EventTypeIssues:
		return fmt.Sprintf("%s issue in %s", escapeHTML(event.Payload.Action), link)
	case domain.EventTypePullRequest:
		return fmt.Sprintf("%s PR in %s", escapeHTML(event.Payload.Action), link)
	default:
		return fmt.Sprintf("Activity in %s", link)
	}
}

func (r *HTMLRenderer) buildNotificationItem(n domain.Notification) string {
	return fmt.Sprintf(`
			<div class="notification">
				<span class="time">%s</span> - %s: %s
				<br>
				%s
			</div>`,
		r.clock(n.UpdatedAt), escapeHTML(n.Subject.Type), escapeHTML(n.Subject.Title),
		repoLink(r.webURL, n.Repository))
}

func (r *HTMLRenderer) buildDeploymentItem(d domain.Deployment) string {
	return fmt.Sprintf(`
			<div class="deployment">
				<span class="time">%s</span> - Deployment to %s for %s
			</div>`,
		r.clock(d.CreatedAt), escapeHTML(d.Environment), repoLink(r.webURL, d.Repository))
}

func (r *HTMLRenderer) clock(t time.Time) string {
	return t.In(r.location).Format("15:04")
}
