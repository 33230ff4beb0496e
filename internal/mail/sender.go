// Package mail delivers rendered messages through SMTP or the Mailjet HTTP API.
package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/vilaca/gh-activity-digest/internal/domain"
)

// Sender abstracts email sending for DI and testing.
// A call is a single attempt; implementations never retry.
type Sender interface {
	Send(ctx context.Context, msg domain.Message) error
}

// StatusError is returned when a provider answers with a non-2xx status.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// StatusCode extracts the provider status code from err, or 0.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

func validate(msg domain.Message) error {
	switch {
	case msg.From == "":
		return errors.New("message has no sender")
	case msg.To == "":
		return errors.New("message has no recipient")
	case msg.Subject == "":
		return errors.New("message has no subject")
	case msg.HTML == "" && msg.Text == "":
		return errors.New("message has no body")
	}
	return nil
}
