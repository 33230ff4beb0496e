package main

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilaca/gh-activity-digest/internal/config"
	"github.com/vilaca/gh-activity-digest/internal/mail"
)

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

// TestBuildTestMessage tests the fixed message content.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestBuildTestMessage(t *testing.T) {
	// Arrange
	cfg := &config.Config{FromEmail: "me@example.com", ToEmail: "you@example.com"}

	// Act
	msg := buildTestMessage(cfg)

	// Assert
	assert.Equal(t, "me@example.com", msg.From)
	assert.Equal(t, "you@example.com", msg.To)
	assert.Equal(t, testSubject, msg.Subject)
	assert.Equal(t, testText, msg.Text)
	assert.Equal(t, testHTML, msg.HTML)
}

// TestRun_Success tests that one request is issued and the body is logged.
func TestRun_Success(t *testing.T) {
	// Arrange
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"Messages":[{"Status":"success"}]}`))
	}))
	defer server.Close()

	sender := mail.NewMailjetSender(server.URL, "k", "s", server.Client())
	logs := &bytes.Buffer{}
	msg := buildTestMessage(&config.Config{FromEmail: "me@example.com", ToEmail: "you@example.com"})

	// Act
	err := run(context.Background(), sender, msg, bufferLogger(logs))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Contains(t, logs.String(), "test email sent")
	assert.Contains(t, logs.String(), "success")
}

// TestRun_FailureNoRetry tests that a failure status is logged once and
// never retried.
func TestRun_FailureNoRetry(t *testing.T) {
	// Arrange
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ErrorMessage":"invalid"}`))
	}))
	defer server.Close()

	sender := mail.NewMailjetSender(server.URL, "k", "s", server.Client())
	logs := &bytes.Buffer{}
	msg := buildTestMessage(&config.Config{FromEmail: "me@example.com", ToEmail: "you@example.com"})

	// Act
	err := run(context.Background(), sender, msg, bufferLogger(logs))

	// Assert
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Contains(t, logs.String(), "status_code=400")
}
