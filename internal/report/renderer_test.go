package report

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vilaca/gh-activity-digest/internal/domain"
)

// snapshotFixture mirrors testdata/snapshot.yaml.
type snapshotFixture struct {
	User   string    `yaml:"user"`
	Now    time.Time `yaml:"now"`
	Events []struct {
		ID        string    `yaml:"id"`
		Type      string    `yaml:"type"`
		Repo      string    `yaml:"repo"`
		CreatedAt time.Time `yaml:"created_at"`
		Commits   []string  `yaml:"commits"`
		RefType   string    `yaml:"ref_type"`
		Action    string    `yaml:"action"`
	} `yaml:"events"`
	Notifications []struct {
		ID           string    `yaml:"id"`
		UpdatedAt    time.Time `yaml:"updated_at"`
		SubjectType  string    `yaml:"subject_type"`
		SubjectTitle string    `yaml:"subject_title"`
		Repository   string    `yaml:"repository"`
	} `yaml:"notifications"`
	Deployments []struct {
		ID          int64     `yaml:"id"`
		Environment string    `yaml:"environment"`
		CreatedAt   time.Time `yaml:"created_at"`
		Repository  string    `yaml:"repository"`
	} `yaml:"deployments"`
}

func loadSnapshot(t *testing.T, path string) (*domain.Snapshot, time.Time) {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var fx snapshotFixture
	require.NoError(t, yaml.Unmarshal(data, &fx))

	snap := domain.NewSnapshot(fx.User, domain.TrailingWindow(fx.Now, 24*time.Hour))
	for _, e := range fx.Events {
		commits := make([]domain.Commit, len(e.Commits))
		for i, sha := range e.Commits {
			commits[i] = domain.Commit{SHA: sha}
		}
		snap.Events = append(snap.Events, domain.Event{
			ID:        e.ID,
			Type:      domain.EventType(e.Type),
			Repo:      e.Repo,
			CreatedAt: e.CreatedAt,
			Payload:   domain.EventPayload{Action: e.Action, RefType: e.RefType, Commits: commits},
		})
	}
	for _, n := range fx.Notifications {
		snap.Notifications = append(snap.Notifications, domain.Notification{
			ID:         n.ID,
			UpdatedAt:  n.UpdatedAt,
			Subject:    domain.NotificationSubject{Type: n.SubjectType, Title: n.SubjectTitle},
			Repository: n.Repository,
		})
	}
	for _, d := range fx.Deployments {
		snap.Deployments = append(snap.Deployments, domain.Deployment{
			ID:          d.ID,
			Environment: d.Environment,
			CreatedAt:   d.CreatedAt,
			Repository:  d.Repository,
		})
	}
	return snap, fx.Now
}

// TestBuildActivityHTML_EmptySnapshot tests the placeholders of an empty report.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestBuildActivityHTML_EmptySnapshot(t *testing.T) {
	// Arrange
	renderer := NewHTMLRenderer(time.UTC)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	snap := domain.NewSnapshot("octocat", domain.TrailingWindow(now, 24*time.Hour))

	// Act
	html := renderer.BuildActivityHTML(snap, now)

	// Assert
	assert.Equal(t, 2, strings.Count(html, `class="no-activity"`))
	assert.Contains(t, html, noEventsText)
	assert.Contains(t, html, noNotificationsText)
	assert.Contains(t, html, "Recent Activities")
	assert.Contains(t, html, "Unread Notifications")
	assert.NotContains(t, html, "Recent Deployments")
	assert.NotContains(t, html, `class="deployment"`)
}

// TestBuildActivityHTML_EventTypes tests one rendering per known event type
// plus the generic fallback for an unrecognized type.
func TestBuildActivityHTML_EventTypes(t *testing.T) {
	// Arrange
	renderer := NewHTMLRenderer(time.UTC)
	snap, now := loadSnapshot(t, "testdata/snapshot.yaml")

	// Act
	html := renderer.BuildActivityHTML(snap, now)

	// Assert
	assert.Equal(t, 5, strings.Count(html, `class="event-item"`))

	expected := []string{
		`Pushed 2 commit(s) to <a class="repo" href="https://github.com/octocat/hello">octocat/hello</a>`,
		`Created branch in <a class="repo" href="https://github.com/octocat/hello">octocat/hello</a>`,
		`opened issue in <a class="repo" href="https://github.com/acme/widgets">acme/widgets</a>`,
		`closed PR in <a class="repo" href="https://github.com/acme/widgets">acme/widgets</a>`,
		`Activity in <a class="repo" href="https://github.com/golang/go">golang/go</a>`,
	}
	for _, want := range expected {
		assert.Contains(t, html, want)
	}
	assert.Contains(t, html, `<span class="time">09:15</span>`)
	assert.Equal(t, 0, strings.Count(html, `class="no-activity"`))
}

// TestBuildActivityHTML_NotificationsAndDeployments tests the remaining sections.
func TestBuildActivityHTML_NotificationsAndDeployments(t *testing.T) {
	// Arrange
	renderer := NewHTMLRenderer(time.UTC)
	snap, now := loadSnapshot(t, "testdata/snapshot.yaml")

	// Act
	html := renderer.BuildActivityHTML(snap, now)

	// Assert
	assert.Contains(t, html, "PullRequest: Add &lt;retry&gt; support &amp; docs")
	assert.NotContains(t, html, "<retry>")
	assert.Contains(t, html, "Recent Deployments")
	assert.Contains(t, html, "Deployment to production for")
	assert.Contains(t, html, `<span class="time">07:05</span>`)
	assert.Contains(t, html, "March 10, 2024")
	assert.Contains(t, html, "Last 24 hours of activity for octocat")
}

// TestBuildActivityHTML_Deterministic tests that rendering is a pure function.
func TestBuildActivityHTML_Deterministic(t *testing.T) {
	renderer := NewHTMLRenderer(time.UTC)
	snap, now := loadSnapshot(t, "testdata/snapshot.yaml")

	assert.Equal(t, renderer.BuildActivityHTML(snap, now), renderer.BuildActivityHTML(snap, now))
}

// TestBuildActivityHTML_Location tests that times follow the renderer location.
func TestBuildActivityHTML_Location(t *testing.T) {
	// Arrange
	loc := time.FixedZone("UTC+2", 2*60*60)
	renderer := NewHTMLRenderer(loc)
	snap, now := loadSnapshot(t, "testdata/snapshot.yaml")

	// Act
	html := renderer.BuildActivityHTML(snap, now)

	// Assert
	assert.Contains(t, html, `<span class="time">11:15</span>`)
}

// TestRenderActivity tests writing the report to a writer.
func TestRenderActivity(t *testing.T) {
	// Arrange
	renderer := NewHTMLRenderer(time.UTC).WithWebURL("https://github.example.com/")
	snap, now := loadSnapshot(t, "testdata/snapshot.yaml")
	buf := &bytes.Buffer{}

	// Act
	err := renderer.RenderActivity(buf, snap, now)

	// Assert
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "<!DOCTYPE html>"))
	assert.Contains(t, buf.String(), `href="https://github.example.com/octocat/hello"`)
}

// TestSubject tests the subject line format.
func TestSubject(t *testing.T) {
	renderer := NewHTMLRenderer(time.UTC)
	now := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "GitHub Activity Summary - 2024-03-10", renderer.Subject(now))
}

// TestEscapeHTML tests escaping of special characters.
func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "&lt;a href=&quot;x&quot;&gt;&amp;&#39;", escapeHTML(`<a href="x">&'`))
}
