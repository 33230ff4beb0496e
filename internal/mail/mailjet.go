package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/vilaca/gh-activity-digest/internal/domain"
)

// DefaultMailjetURL is the Mailjet API root.
const DefaultMailjetURL = "https://api.mailjet.com"

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// MailjetSender sends messages through the Mailjet v3.1 send API.
type MailjetSender struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient HTTPClient
}

// NewMailjetSender creates a Mailjet sender authenticated with an API key pair.
func NewMailjetSender(baseURL, apiKey, apiSecret string, httpClient HTTPClient) *MailjetSender {
	if baseURL == "" {
		baseURL = DefaultMailjetURL
	}
	return &MailjetSender{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		httpClient: httpClient,
	}
}

// Send submits msg once and discards the response body.
func (s *MailjetSender) Send(ctx context.Context, msg domain.Message) error {
	_, err := s.SendWithResponse(ctx, msg)
	return err
}

// SendWithResponse submits msg once and returns the raw response body.
// Non-2xx answers are returned as *StatusError.
func (s *MailjetSender) SendWithResponse(ctx context.Context, msg domain.Message) (string, error) {
	if err := validate(msg); err != nil {
		return "", err
	}

	payload, err := json.Marshal(mailjetRequest{
		Messages: []mailjetMessage{{
			From:     mailjetAddress{Email: msg.From, Name: msg.FromName},
			To:       []mailjetAddress{{Email: msg.To, Name: msg.ToName}},
			Subject:  msg.Subject,
			TextPart: msg.Text,
			HTMLPart: msg.HTML,
			CustomID: uuid.NewString(),
		}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v3.1/send", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(s.apiKey, s.apiSecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request POST /v3.1/send: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{Provider: "mailjet", StatusCode: resp.StatusCode, Body: string(body)}
	}

	return string(body), nil
}

// Mailjet API request types
type mailjetRequest struct {
	Messages []mailjetMessage `json:"Messages"`
}

type mailjetMessage struct {
	From     mailjetAddress   `json:"From"`
	To       []mailjetAddress `json:"To"`
	Subject  string           `json:"Subject"`
	TextPart string           `json:"TextPart,omitempty"`
	HTMLPart string           `json:"HTMLPart,omitempty"`
	CustomID string           `json:"CustomID,omitempty"`
}

type mailjetAddress struct {
	Email string `json:"Email"`
	Name  string `json:"Name,omitempty"`
}
