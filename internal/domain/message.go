package domain

// Message is an email ready to be handed to a mail transport.
// It is built once per run and sent at most once.
type Message struct {
	From     string
	FromName string
	To       string
	ToName   string
	Subject  string
	HTML     string
	Text     string // plain text fallback for clients without HTML support
}
