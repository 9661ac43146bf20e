// Package contact owns the contact form: field state, validation, delivery
// through a channel chosen at startup, visitor notices and the timed reset
// after a successful submission.
package contact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultResetDelay is how long the confirmation stays before the form
// returns to Idle.
const DefaultResetDelay = 3 * time.Second

type Status int

const (
	Idle Status = iota
	Submitting
	Submitted
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Submitted:
		return "submitted"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	for _, candidate := range []Status{Idle, Submitting, Submitted, Failed} {
		if candidate.String() == string(b) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("contact: unknown status %q", b)
}

// State is what the presentation layer renders.
type State struct {
	Fields          Fields `json:"fields"`
	Status          Status `json:"status"`
	ValidationError string `json:"validationError,omitempty"`
}

// CanSubmit mirrors the submit button: disabled while sending and while
// the confirmation is showing.
func (s State) CanSubmit() bool {
	return s.Status != Submitting && s.Status != Submitted
}

// Result reports what a Submit call did.
type Result struct {
	Status  Status
	Channel string
	// Handoff is set when the browser has to navigate to finish delivery.
	Handoff string
	// Message is the submitted form contents, captured before any reset.
	Message Fields
}

// Timer is the subset of *time.Timer the controller needs.
type Timer interface {
	Stop() bool
}

// Clock schedules the post-submit reset.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Option func(*Controller)

func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

func WithClock(clock Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

func WithResetDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.resetDelay = d
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller is safe for concurrent use. The status itself is the guard
// against overlapping submissions.
type Controller struct {
	channel    Channel
	notifier   Notifier
	clock      Clock
	resetDelay time.Duration
	logger     *log.Logger

	mu            sync.Mutex
	fields        Fields
	status        Status
	validationErr string
	reset         Timer
	generation    uint64
	closed        bool
}

func NewController(ch Channel, opts ...Option) *Controller {
	c := &Controller{
		channel:    ch,
		notifier:   NotifierFunc(func(Notice) {}),
		clock:      systemClock{},
		resetDelay: DefaultResetDelay,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) ChannelName() string {
	return c.channel.Name()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Fields:          c.fields,
		Status:          c.status,
		ValidationError: c.validationErr,
	}
}

// UpdateField assigns value, truncated to the field's limit. It does not
// validate.
func (c *Controller) UpdateField(name FieldName, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return c.fields.set(name, Clamp(name, value))
}

// Submit validates the form and delivers it through the channel. Validation
// failures leave the status untouched and return a *ValidationError; a
// failed delivery moves to Failed, keeps the fields and returns a
// *DeliveryError. Calls made while a delivery is pending, or while the
// confirmation is showing, change nothing.
func (c *Controller) Submit(ctx context.Context) (Result, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Result{}, ErrClosed
	}
	switch c.status {
	case Submitting:
		c.mu.Unlock()
		return Result{Status: Submitting}, ErrSubmitInFlight
	case Submitted:
		c.mu.Unlock()
		return Result{Status: Submitted}, ErrAlreadySubmitted
	}

	c.validationErr = ""
	if err := c.fields.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			c.validationErr = verr.Message
		}
		status := c.status
		c.mu.Unlock()
		return Result{Status: status}, err
	}

	c.status = Submitting
	msg := c.fields
	c.mu.Unlock()

	channel := c.channel.Name()
	receipt, err := c.channel.Deliver(ctx, msg)

	c.mu.Lock()
	if err != nil {
		c.status = Failed
		c.validationErr = MsgDeliveryFailed
		c.mu.Unlock()

		c.logger.Warn("contact delivery failed", "channel", channel, "err", err)
		c.notifier.Notify(failureNotice)
		return Result{Status: Failed, Channel: channel, Message: msg},
			&DeliveryError{Channel: channel, Message: MsgDeliveryFailed, Cause: err}
	}

	c.status = Submitted
	handedOff := receipt.Handoff != ""
	if !handedOff {
		c.fields = Fields{}
	}
	c.scheduleResetLocked(handedOff)
	c.mu.Unlock()

	c.logger.Info("contact delivered", "channel", channel, "handoff", handedOff)
	c.notifier.Notify(receipt.Notice)
	return Result{Status: Submitted, Channel: channel, Handoff: receipt.Handoff, Message: msg}, nil
}

func (c *Controller) scheduleResetLocked(clearFields bool) {
	if c.reset != nil {
		c.reset.Stop()
		c.reset = nil
	}
	if c.closed {
		return
	}
	c.generation++
	gen := c.generation
	c.reset = c.clock.AfterFunc(c.resetDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || gen != c.generation || c.status != Submitted {
			return
		}
		if clearFields {
			c.fields = Fields{}
		}
		c.status = Idle
		c.reset = nil
	})
}

// Close cancels the pending reset. Later calls to UpdateField and Submit
// return ErrClosed.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.generation++
	if c.reset != nil {
		c.reset.Stop()
		c.reset = nil
	}
	return nil
}
