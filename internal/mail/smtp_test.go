package mail

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/smtp"
	"strings"
	"testing"
	"time"

	gomail "github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilaca/gh-activity-digest/internal/domain"
)

type submission struct {
	addr string
	from string
	to   []string
	raw  []byte
}

func newCapturingSender(err error) (*SMTPSender, *[]submission) {
	var subs []submission
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: "587", Username: "me@example.com", Password: "app-pass"})
	s.now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	s.submit = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		subs = append(subs, submission{addr: addr, from: from, to: to, raw: msg})
		return err
	}
	return s, &subs
}

func testMessage() domain.Message {
	return domain.Message{
		From:    "me@example.com",
		To:      "you@example.org",
		Subject: "GitHub Activity Summary - 2024-03-10",
		HTML:    "<p>hello</p>",
		Text:    "Please enable HTML to view this email.",
	}
}

// TestSMTPSender_Send tests message composition and a single submission.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestSMTPSender_Send(t *testing.T) {
	// Arrange
	sender, subs := newCapturingSender(nil)

	// Act
	err := sender.Send(context.Background(), testMessage())

	// Assert
	require.NoError(t, err)
	require.Len(t, *subs, 1)

	sub := (*subs)[0]
	assert.Equal(t, "smtp.example.com:587", sub.addr)
	assert.Equal(t, "me@example.com", sub.from)
	assert.Equal(t, []string{"you@example.org"}, sub.to)

	mr, err := gomail.CreateReader(bytes.NewReader(sub.raw))
	require.NoError(t, err)

	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "GitHub Activity Summary - 2024-03-10", subject)

	msgID, err := mr.Header.MessageID()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(msgID, "@example.com"), msgID)

	parts := map[string]string{}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		h, ok := part.Header.(*gomail.InlineHeader)
		require.True(t, ok)
		contentType, _, _ := h.ContentType()
		body, err := io.ReadAll(part.Body)
		require.NoError(t, err)
		parts[contentType] = string(body)
	}

	assert.Equal(t, "Please enable HTML to view this email.", parts["text/plain"])
	assert.Equal(t, "<p>hello</p>", parts["text/html"])
}

// TestSMTPSender_SendFailure tests that a submit error is returned without retry.
func TestSMTPSender_SendFailure(t *testing.T) {
	// Arrange
	boom := errors.New("535 authentication failed")
	sender, subs := newCapturingSender(boom)

	// Act
	err := sender.Send(context.Background(), testMessage())

	// Assert
	assert.ErrorIs(t, err, boom)
	assert.Len(t, *subs, 1)
}

// TestSMTPSender_Validation tests that incomplete messages are rejected.
func TestSMTPSender_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *domain.Message)
	}{
		{"no sender", func(m *domain.Message) { m.From = "" }},
		{"no recipient", func(m *domain.Message) { m.To = "" }},
		{"no subject", func(m *domain.Message) { m.Subject = "" }},
		{"no body", func(m *domain.Message) { m.HTML, m.Text = "", "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender, subs := newCapturingSender(nil)
			msg := testMessage()
			tt.mutate(&msg)

			err := sender.Send(context.Background(), msg)

			assert.Error(t, err)
			assert.Empty(t, *subs)
		})
	}
}

// TestSMTPSender_CanceledContext tests that nothing is sent after cancellation.
func TestSMTPSender_CanceledContext(t *testing.T) {
	sender, subs := newCapturingSender(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sender.Send(ctx, testMessage())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, *subs)
}

// TestMessageID tests the Message-ID host selection.
func TestMessageID(t *testing.T) {
	assert.True(t, strings.HasSuffix(messageID("a@b.example"), "@b.example"))
	assert.True(t, strings.HasSuffix(messageID("broken"), "@localhost"))
	assert.NotEqual(t, messageID("a@b"), messageID("a@b"))
}
