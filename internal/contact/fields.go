package contact

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// FieldName identifies one input of the contact form.
type FieldName string

const (
	FieldSenderName  FieldName = "senderName"
	FieldSenderEmail FieldName = "senderEmail"
	FieldSubject     FieldName = "subject"
	FieldMessage     FieldName = "message"
)

// DefaultSubject is used when the visitor leaves the subject empty.
const DefaultSubject = "Portfolio Contact"

var ErrUnknownField = errors.New("contact: unknown field")

var maxLengths = map[FieldName]int{
	FieldSenderName:  100,
	FieldSenderEmail: 255,
	FieldSubject:     200,
	FieldMessage:     2000,
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Fields is the form contents. JSON names double as RFC 6902 paths.
type Fields struct {
	SenderName  string `json:"senderName"`
	SenderEmail string `json:"senderEmail"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
}

// FieldNames lists the form inputs in display order.
func FieldNames() []FieldName {
	return []FieldName{FieldSenderName, FieldSenderEmail, FieldSubject, FieldMessage}
}

// MaxLength returns the rune limit for name, or 0 for unknown fields.
func MaxLength(name FieldName) int {
	return maxLengths[name]
}

// Clamp truncates value to the field's limit, counting runes.
func Clamp(name FieldName, value string) string {
	limit := maxLengths[name]
	if limit == 0 || utf8.RuneCountInString(value) <= limit {
		return value
	}
	return string([]rune(value)[:limit])
}

func (f Fields) Get(name FieldName) (string, error) {
	switch name {
	case FieldSenderName:
		return f.SenderName, nil
	case FieldSenderEmail:
		return f.SenderEmail, nil
	case FieldSubject:
		return f.Subject, nil
	case FieldMessage:
		return f.Message, nil
	}
	return "", ErrUnknownField
}

func (f *Fields) set(name FieldName, value string) error {
	switch name {
	case FieldSenderName:
		f.SenderName = value
	case FieldSenderEmail:
		f.SenderEmail = value
	case FieldSubject:
		f.Subject = value
	case FieldMessage:
		f.Message = value
	default:
		return ErrUnknownField
	}
	return nil
}

// SubjectOrDefault returns the subject, falling back to DefaultSubject.
func (f Fields) SubjectOrDefault() string {
	if f.Subject == "" {
		return DefaultSubject
	}
	return f.Subject
}

// Validate runs the required-field check, then the email format check, and
// stops at the first failure.
func (f Fields) Validate() error {
	if strings.TrimSpace(f.SenderName) == "" ||
		strings.TrimSpace(f.SenderEmail) == "" ||
		strings.TrimSpace(f.Message) == "" {
		return &ValidationError{Reason: ReasonMissingRequired, Message: MsgMissingRequired}
	}
	if !emailPattern.MatchString(f.SenderEmail) {
		return &ValidationError{Reason: ReasonInvalidEmail, Message: MsgInvalidEmail}
	}
	return nil
}
