package contact

import "errors"

const (
	MsgMissingRequired = "Please fill in all required fields"
	MsgInvalidEmail    = "Please enter a valid email address"
	MsgDeliveryFailed  = "Failed to send message. Please try again or use the email link."
)

var (
	// ErrSubmitInFlight is returned when Submit is called while a delivery
	// is still pending.
	ErrSubmitInFlight = errors.New("contact: submission already in flight")
	// ErrAlreadySubmitted is returned while the post-submit confirmation is
	// showing and the form has not reset yet.
	ErrAlreadySubmitted = errors.New("contact: submission already completed")
	ErrClosed           = errors.New("contact: controller closed")
)

type ValidationReason string

const (
	ReasonMissingRequired ValidationReason = "missing_required"
	ReasonInvalidEmail    ValidationReason = "invalid_email"
)

// ValidationError is a local, recoverable input problem. It never reaches a
// delivery channel.
type ValidationError struct {
	Reason  ValidationReason
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// DeliveryError wraps a failed channel delivery. Message is safe to show to
// the visitor; Cause is for logs.
type DeliveryError struct {
	Channel string
	Message string
	Cause   error
}

func (e *DeliveryError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Channel + ": " + e.Cause.Error()
}

func (e *DeliveryError) Unwrap() error { return e.Cause }
