package typewriter

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

var heroPhrases = []string{
	"Scalable Web Apps",
	"Real-time Chat Systems",
	"MERN Stack Platforms",
}

func TestNewRejectsEmptyPhrases(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNoPhrases) {
		t.Fatalf("New(nil) error = %v, want ErrNoPhrases", err)
	}
}

func TestNewStartsTyping(t *testing.T) {
	e, err := New(heroPhrases)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	f := e.Frame()
	if f.Index != 0 || f.Cursor != 0 || f.Mode != Typing || f.Text != "" {
		t.Fatalf("initial frame = %+v", f)
	}
	if got := e.Delay(); got != 100*time.Millisecond {
		t.Fatalf("Delay() = %s, want 100ms", got)
	}
}

func TestStepDelays(t *testing.T) {
	e, _ := New([]string{"ab"})

	steps := []struct {
		wantText  string
		wantMode  Mode
		wantDelay time.Duration
	}{
		{"a", Typing, 100 * time.Millisecond},
		{"ab", Pausing, 2 * time.Second},
		{"ab", Deleting, 50 * time.Millisecond},
		{"a", Deleting, 50 * time.Millisecond},
		{"", Typing, 100 * time.Millisecond},
	}
	for i, want := range steps {
		delay := e.Step()
		f := e.Frame()
		if f.Text != want.wantText || f.Mode != want.wantMode || delay != want.wantDelay {
			t.Fatalf("step %d: frame=%+v delay=%s, want text=%q mode=%s delay=%s",
				i, f, delay, want.wantText, want.wantMode, want.wantDelay)
		}
	}
}

func TestDisplayTextIsAlwaysPrefix(t *testing.T) {
	e, _ := New(heroPhrases)

	prevLen := 0
	prevMode := e.Frame().Mode
	prevIndex := 0
	for i := 0; i < 500; i++ {
		e.Step()
		f := e.Frame()
		phrase := heroPhrases[f.Index]
		if !strings.HasPrefix(phrase, f.Text) {
			t.Fatalf("step %d: %q is not a prefix of %q", i, f.Text, phrase)
		}
		if f.Cursor < 0 || f.Cursor > len([]rune(phrase)) {
			t.Fatalf("step %d: cursor %d out of range for %q", i, f.Cursor, phrase)
		}
		n := len([]rune(f.Text))
		if f.Index == prevIndex {
			if prevMode == Typing && f.Mode == Typing && n < prevLen {
				t.Fatalf("step %d: text shrank while typing", i)
			}
			if prevMode == Deleting && f.Mode == Deleting && n > prevLen {
				t.Fatalf("step %d: text grew while deleting", i)
			}
		}
		prevLen, prevMode, prevIndex = n, f.Mode, f.Index
	}
}

func TestFullCycleReturnsToNextPhrase(t *testing.T) {
	e, _ := New(heroPhrases)

	for i, phrase := range heroPhrases {
		n := len([]rune(phrase))
		// n typing steps, one dwell, n deleting steps.
		for s := 0; s < 2*n+1; s++ {
			e.Step()
		}
		f := e.Frame()
		wantIndex := (i + 1) % len(heroPhrases)
		if f.Index != wantIndex || f.Cursor != 0 || f.Mode != Typing {
			t.Fatalf("after phrase %d: frame = %+v, want index %d at cursor 0 typing", i, f, wantIndex)
		}
	}
	if got := e.Frame().Index; got != 0 {
		t.Fatalf("index after full rotation = %d, want 0", got)
	}
}

func TestEmptyPhraseIsSkipped(t *testing.T) {
	e, _ := New([]string{"", "x"})

	e.Step() // nothing to type, dwell
	if f := e.Frame(); f.Mode != Pausing || f.Index != 0 {
		t.Fatalf("frame = %+v, want pausing on phrase 0", f)
	}
	e.Step()
	if f := e.Frame(); f.Mode != Typing || f.Index != 1 {
		t.Fatalf("frame = %+v, want typing phrase 1", f)
	}
}

func TestMultibytePhrasesCountRunes(t *testing.T) {
	e, _ := New([]string{"héllo"})
	for i := 0; i < 2; i++ {
		e.Step()
	}
	if got := e.DisplayText(); got != "hé" {
		t.Fatalf("DisplayText() = %q, want %q", got, "hé")
	}
}

func TestWithTimingKeepsDefaultsForZeroFields(t *testing.T) {
	e, _ := New(heroPhrases, WithTiming(Timing{Dwell: time.Second}))
	if e.timing.Type != 100*time.Millisecond || e.timing.Delete != 50*time.Millisecond || e.timing.Dwell != time.Second {
		t.Fatalf("timing = %+v", e.timing)
	}
}

func TestRunEmitsUntilCancelled(t *testing.T) {
	e, _ := New([]string{"go"}, WithTiming(Timing{
		Type:   time.Millisecond,
		Delete: time.Millisecond,
		Dwell:  time.Millisecond,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	frames := make(chan Frame, 64)
	done := make(chan error, 1)
	go func() {
		done <- e.Run(ctx, func(f Frame) {
			select {
			case frames <- f:
			default:
			}
		})
	}()

	var seen []string
	for len(seen) < 5 {
		select {
		case f := <-frames:
			seen = append(seen, f.Text)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for frames, got %q", seen)
		}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	want := []string{"g", "go", "go", "g", ""}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("frames = %q, want prefix %q", seen, want)
		}
	}
}

func TestModeMarshalText(t *testing.T) {
	b, err := Deleting.MarshalText()
	if err != nil || string(b) != "deleting" {
		t.Fatalf("MarshalText() = %q, %v", b, err)
	}
}
