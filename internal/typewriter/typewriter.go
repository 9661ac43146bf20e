// Package typewriter cycles through a fixed list of phrases, typing each one
// character by character, dwelling on it, then erasing it again.
package typewriter

import (
	"context"
	"errors"
	"time"
)

// ErrNoPhrases is returned by New when the phrase list is empty.
var ErrNoPhrases = errors.New("typewriter: at least one phrase is required")

// Mode is the current phase of the engine.
type Mode int

const (
	Typing Mode = iota
	Pausing
	Deleting
)

func (m Mode) String() string {
	switch m {
	case Typing:
		return "typing"
	case Pausing:
		return "pausing"
	case Deleting:
		return "deleting"
	default:
		return "unknown"
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Timing holds the tick cadences and the dwell delay.
type Timing struct {
	Type   time.Duration
	Delete time.Duration
	Dwell  time.Duration
}

// DefaultTiming types every 100ms, deletes every 50ms and dwells for two
// seconds on a finished phrase.
func DefaultTiming() Timing {
	return Timing{
		Type:   100 * time.Millisecond,
		Delete: 50 * time.Millisecond,
		Dwell:  2 * time.Second,
	}
}

// Frame is a read-only snapshot of the engine.
type Frame struct {
	Text   string `json:"text"`
	Index  int    `json:"index"`
	Cursor int    `json:"cursor"`
	Mode   Mode   `json:"mode"`
}

type Option func(*Engine)

// WithTiming overrides DefaultTiming. Zero fields keep their defaults.
func WithTiming(t Timing) Option {
	return func(e *Engine) {
		if t.Type > 0 {
			e.timing.Type = t.Type
		}
		if t.Delete > 0 {
			e.timing.Delete = t.Delete
		}
		if t.Dwell > 0 {
			e.timing.Dwell = t.Dwell
		}
	}
}

// Engine is not safe for concurrent use; Run owns it while it is running.
type Engine struct {
	phrases [][]rune
	timing  Timing

	index  int
	cursor int
	mode   Mode
}

// New builds an engine positioned at the start of the first phrase.
func New(phrases []string, opts ...Option) (*Engine, error) {
	if len(phrases) == 0 {
		return nil, ErrNoPhrases
	}

	e := &Engine{
		phrases: make([][]rune, len(phrases)),
		timing:  DefaultTiming(),
		mode:    Typing,
	}
	for i, p := range phrases {
		e.phrases[i] = []rune(p)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) active() []rune {
	return e.phrases[e.index]
}

// DisplayText is the visible prefix of the active phrase.
func (e *Engine) DisplayText() string {
	return string(e.active()[:e.cursor])
}

func (e *Engine) Frame() Frame {
	return Frame{
		Text:   e.DisplayText(),
		Index:  e.index,
		Cursor: e.cursor,
		Mode:   e.mode,
	}
}

// Delay reports how long to wait before the next Step in the current mode.
func (e *Engine) Delay() time.Duration {
	switch e.mode {
	case Pausing:
		return e.timing.Dwell
	case Deleting:
		return e.timing.Delete
	default:
		return e.timing.Type
	}
}

// Step applies exactly one transition and returns the delay before the next.
func (e *Engine) Step() time.Duration {
	switch e.mode {
	case Typing:
		if e.cursor < len(e.active()) {
			e.cursor++
		}
		if e.cursor == len(e.active()) {
			e.mode = Pausing
		}
	case Pausing:
		e.mode = Deleting
		if e.cursor == 0 {
			e.advance()
		}
	case Deleting:
		if e.cursor > 0 {
			e.cursor--
		}
		if e.cursor == 0 {
			e.advance()
		}
	}
	return e.Delay()
}

func (e *Engine) advance() {
	e.index = (e.index + 1) % len(e.phrases)
	e.mode = Typing
}

// Run steps the engine until ctx is cancelled, calling emit after every
// step. The next timer is armed only after emit returns, so steps never
// overlap. Run always returns ctx.Err().
func (e *Engine) Run(ctx context.Context, emit func(Frame)) error {
	timer := time.NewTimer(e.Delay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			next := e.Step()
			if emit != nil {
				emit(e.Frame())
			}
			timer.Reset(next)
		}
	}
}
