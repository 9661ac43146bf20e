package contact

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

var ErrInvalidPatch = errors.New("contact: invalid patch")

// ApplyPatch applies an RFC 6902 document to the form fields, e.g.
//
//	[{"op": "replace", "path": "/senderName", "value": "Jane"}]
//
// Only top-level field paths are accepted. Every changed field goes through
// UpdateField, so limits apply as for single updates.
func (c *Controller) ApplyPatch(doc []byte) error {
	patch, err := jsonpatch.DecodePatch(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	for i, op := range patch {
		if err := validateOperation(op); err != nil {
			return fmt.Errorf("%w: operation %d: %v", ErrInvalidPatch, i, err)
		}
	}

	current := c.State().Fields
	currentJSON, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}
	modifiedJSON, err := patch.Apply(currentJSON)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	var next Fields
	if err := json.Unmarshal(modifiedJSON, &next); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	for _, name := range FieldNames() {
		before, _ := current.Get(name)
		after, _ := next.Get(name)
		if before == after {
			continue
		}
		if err := c.UpdateField(name, after); err != nil {
			return err
		}
	}
	return nil
}

func validateOperation(op jsonpatch.Operation) error {
	path, err := op.Path()
	if err != nil {
		return err
	}
	if !isFieldPath(path) {
		return fmt.Errorf("path %q is not a form field", path)
	}
	switch op.Kind() {
	case "move", "copy":
		from, err := op.From()
		if err != nil {
			return err
		}
		if !isFieldPath(from) {
			return fmt.Errorf("from %q is not a form field", from)
		}
	}
	return nil
}

func isFieldPath(path string) bool {
	name, ok := strings.CutPrefix(path, "/")
	if !ok {
		return false
	}
	return MaxLength(FieldName(name)) > 0
}
