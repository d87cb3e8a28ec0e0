// Package notify delivers WhatsApp messages through the remote API, either
// directly or through the background queue.
package notify

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/sevadhara/console/internal/shared"
	"github.com/sevadhara/console/internal/upstream"
)

const (
	sendTextPath     = "/api/whatsapp/send"
	sendDocumentPath = "/api/whatsapp/send-document"
	countryCode      = "91"
)

// ErrInvalidPhone is returned when a recipient number cannot be normalised.
var ErrInvalidPhone = errors.New("notify: invalid phone number")

// ErrAlreadyQueued is returned when the same message is still waiting in the
// queue.
var ErrAlreadyQueued = errors.New("notify: message already queued")

// Message is a plain text WhatsApp message.
type Message struct {
	Phone string `json:"phone"`
	Text  string `json:"message"`
}

// Document is a file sent with a caption.
type Document struct {
	Phone    string `json:"phone"`
	Caption  string `json:"caption"`
	FileName string `json:"fileName"`
	Content  []byte `json:"content"`
}

// Notification is what the dispatcher and the queue carry: a text, or a
// document when Document is set.
type Notification struct {
	Phone    string    `json:"phone"`
	Text     string    `json:"text,omitempty"`
	Document *Document `json:"document,omitempty"`
}

// NormalizePhone strips separators and prefixes 10-digit numbers with the
// country code.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	switch {
	case len(digits) == 10:
		return countryCode + digits, nil
	case len(digits) == 12 && strings.HasPrefix(digits, countryCode):
		return digits, nil
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		return countryCode + digits[1:], nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
}

// Client calls the remote WhatsApp endpoints.
type Client struct {
	api *upstream.Client
}

// NewClient wraps the API client.
func NewClient(api *upstream.Client) *Client {
	return &Client{api: api}
}

// SendText sends a text message.
func (c *Client) SendText(ctx context.Context, msg Message) error {
	phone, err := NormalizePhone(msg.Phone)
	if err != nil {
		return err
	}
	if strings.TrimSpace(msg.Text) == "" {
		return shared.NewValidationError(map[string]string{"message": "is required"})
	}
	body := map[string]string{"phone": phone, "message": msg.Text}
	if err := c.api.Post(ctx, sendTextPath, body, nil); err != nil {
		return fmt.Errorf("send whatsapp text: %w", err)
	}
	return nil
}

// SendDocument sends a PDF with a caption. The file travels base64 encoded.
func (c *Client) SendDocument(ctx context.Context, doc Document) error {
	phone, err := NormalizePhone(doc.Phone)
	if err != nil {
		return err
	}
	if len(doc.Content) == 0 {
		return shared.NewValidationError(map[string]string{"document": "is empty"})
	}
	body := map[string]string{
		"phone":    phone,
		"caption":  doc.Caption,
		"fileName": doc.FileName,
		"document": base64.StdEncoding.EncodeToString(doc.Content),
		"mimeType": "application/pdf",
	}
	if err := c.api.Post(ctx, sendDocumentPath, body, nil); err != nil {
		return fmt.Errorf("send whatsapp document: %w", err)
	}
	return nil
}

// Send delivers n as a document or text.
func (c *Client) Send(ctx context.Context, n Notification) error {
	if n.Document != nil {
		doc := *n.Document
		if doc.Phone == "" {
			doc.Phone = n.Phone
		}
		return c.SendDocument(ctx, doc)
	}
	return c.SendText(ctx, Message{Phone: n.Phone, Text: n.Text})
}

// OutstandingReminder is the text sent to a buyer or seller with a balance.
func OutstandingReminder(org, name string, amount float64) string {
	return fmt.Sprintf("नमस्कार %s,\nYour outstanding balance with %s is ₹%s.\nPlease clear it at the earliest. Thank you.",
		name, org, shared.FormatAmount(amount))
}
