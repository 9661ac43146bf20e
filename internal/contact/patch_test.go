package contact

import (
	"errors"
	"strings"
	"testing"
)

func TestApplyPatchUpdatesFields(t *testing.T) {
	c := NewController(NewLocalMailClient(owner))
	if err := c.UpdateField(FieldSubject, "old"); err != nil {
		t.Fatal(err)
	}

	doc := `[
		{"op": "replace", "path": "/senderName", "value": "Jane"},
		{"op": "replace", "path": "/senderEmail", "value": "jane@example.com"},
		{"op": "remove", "path": "/subject"}
	]`
	if err := c.ApplyPatch([]byte(doc)); err != nil {
		t.Fatalf("ApplyPatch() error = %v", err)
	}

	got := c.State().Fields
	want := Fields{SenderName: "Jane", SenderEmail: "jane@example.com"}
	if got != want {
		t.Fatalf("fields = %+v, want %+v", got, want)
	}
}

func TestApplyPatchClampsValues(t *testing.T) {
	c := NewController(NewLocalMailClient(owner))
	doc := `[{"op": "replace", "path": "/subject", "value": "` + strings.Repeat("s", 250) + `"}]`
	if err := c.ApplyPatch([]byte(doc)); err != nil {
		t.Fatalf("ApplyPatch() error = %v", err)
	}
	if got := len(c.State().Fields.Subject); got != 200 {
		t.Fatalf("subject length = %d, want 200", got)
	}
}

func TestApplyPatchRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"unknown path", `[{"op": "add", "path": "/phone", "value": "1"}]`},
		{"nested path", `[{"op": "replace", "path": "/message/0", "value": "x"}]`},
		{"copy from outside", `[{"op": "copy", "from": "/status", "path": "/message"}]`},
		{"wrong type", `[{"op": "replace", "path": "/message", "value": 42}]`},
		{"failed test", `[{"op": "test", "path": "/message", "value": "nope"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(NewLocalMailClient(owner))
			if err := c.ApplyPatch([]byte(tt.doc)); !errors.Is(err, ErrInvalidPatch) {
				t.Fatalf("ApplyPatch() error = %v, want ErrInvalidPatch", err)
			}
			if c.State().Fields != (Fields{}) {
				t.Fatalf("fields changed: %+v", c.State().Fields)
			}
		})
	}
}
