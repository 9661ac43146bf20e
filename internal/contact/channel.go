package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/akashsharma1462/portfolio/internal/relay"
)

// Recipient is the portfolio owner who receives contact messages.
type Recipient struct {
	Email string
	Name  string
}

// Receipt describes a successful delivery.
type Receipt struct {
	// Handoff is a URI the visitor's browser must open to finish sending.
	// Empty when the message has already left.
	Handoff string
	Notice  Notice
}

// Channel delivers a validated message. Implementations are selected once
// at construction; the controller never branches on the concrete type.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, f Fields) (Receipt, error)
}

// RemoteRelay sends the message through a relay service.
type RemoteRelay struct {
	sender    relay.Sender
	recipient Recipient
}

func NewRemoteRelay(sender relay.Sender, recipient Recipient) *RemoteRelay {
	return &RemoteRelay{sender: sender, recipient: recipient}
}

func (r *RemoteRelay) Name() string { return "relay" }

func (r *RemoteRelay) Deliver(ctx context.Context, f Fields) (Receipt, error) {
	err := r.sender.Send(ctx, relay.Payload{
		SenderName:    f.SenderName,
		SenderEmail:   f.SenderEmail,
		Subject:       f.SubjectOrDefault(),
		Message:       f.Message,
		RecipientName: r.recipient.Name,
	})
	if err != nil {
		return Receipt{}, err
	}
	return Receipt{Notice: Notice{
		Kind:        NoticeSuccess,
		Title:       "Message sent successfully!",
		Description: "Thank you for reaching out. I will get back to you soon!",
	}}, nil
}

// LocalMailClient hands composition over to the visitor's mail client.
type LocalMailClient struct {
	recipient Recipient
}

func NewLocalMailClient(recipient Recipient) *LocalMailClient {
	return &LocalMailClient{recipient: recipient}
}

func (m *LocalMailClient) Name() string { return "mailto" }

func (m *LocalMailClient) Deliver(_ context.Context, f Fields) (Receipt, error) {
	return Receipt{
		Handoff: MailtoLink(m.recipient.Email, f),
		Notice: Notice{
			Kind:        NoticeInfo,
			Title:       "Opening email client...",
			Description: "Email relay not configured. Using email client as fallback.",
		},
	}, nil
}

// MailtoLink builds a mailto URI with the subject and a plain-text body.
func MailtoLink(to string, f Fields) string {
	body := fmt.Sprintf("Name: %s\nEmail: %s\n\nMessage:\n%s", f.SenderName, f.SenderEmail, f.Message)
	return "mailto:" + to +
		"?subject=" + encodeURIComponent(f.SubjectOrDefault()) +
		"&body=" + encodeURIComponent(body)
}

// encodeURIComponent percent-encodes every UTF-8 byte of s except ASCII
// letters, digits and - _ . ! ~ * ' ( ). Spaces become %20, never "+".
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if uriUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func uriUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
