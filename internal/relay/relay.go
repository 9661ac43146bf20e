// Package relay delivers contact messages through a remote email service.
package relay

import (
	"context"
	"fmt"
	"strings"
)

// PlaceholderMarker marks sample credentials copied from documentation.
const PlaceholderMarker = "YOUR_"

// Payload is the message handed to a relay.
type Payload struct {
	SenderName    string
	SenderEmail   string
	Subject       string
	Message       string
	RecipientName string
}

// Sender is implemented by every relay transport.
type Sender interface {
	Send(ctx context.Context, p Payload) error
}

// Configured reports whether every value is present and none is a
// documentation placeholder.
func Configured(values ...string) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || strings.Contains(v, PlaceholderMarker) {
			return false
		}
	}
	return true
}

// StatusError is returned when the relay answers with a non-success status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("relay: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("relay: unexpected status %d: %s", e.StatusCode, e.Body)
}
