// Package codec moves control-tree values across byte representations: it
// populates a tree from JSON or YAML payloads and snapshots a tree's value
// back out. It performs no I/O; callers bring the bytes.
//
// Apply* uses strict SetValue semantics: the payload must cover every
// registered child exactly. Because payloads are data rather than code, the
// strict-mismatch panics of the model are converted to returned errors here.
// Merge* uses PatchValue semantics and skips unknown keys and indices.
package codec

import (
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/go-forms/forms"
)

// ApplyJSON decodes data and applies it to c with strict SetValue semantics.
func ApplyJSON(c forms.Control, data []byte, opts ...forms.Option) error {
	v, err := decodeJSON(data)
	if err != nil {
		return err
	}
	return apply(c, v, true, opts)
}

// MergeJSON decodes data and applies it to c with PatchValue semantics.
func MergeJSON(c forms.Control, data []byte, opts ...forms.Option) error {
	v, err := decodeJSON(data)
	if err != nil {
		return err
	}
	return apply(c, v, false, opts)
}

// SnapshotJSON marshals the control's raw value, disabled children included.
func SnapshotJSON(c forms.Control) ([]byte, error) {
	return json.Marshal(c.RawValue())
}

// ValueJSON marshals the control's aggregate value, which excludes disabled
// children.
func ValueJSON(c forms.Control) ([]byte, error) {
	return json.Marshal(c.Value())
}

// ApplyYAML decodes data and applies it to c with strict SetValue semantics.
func ApplyYAML(c forms.Control, data []byte, opts ...forms.Option) error {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("codec: decode yaml: %w", err)
	}
	return apply(c, v, true, opts)
}

// MergeYAML decodes data and applies it to c with PatchValue semantics.
func MergeYAML(c forms.Control, data []byte, opts ...forms.Option) error {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("codec: decode yaml: %w", err)
	}
	return apply(c, v, false, opts)
}

// SnapshotYAML marshals the control's raw value as YAML.
func SnapshotYAML(c forms.Control) ([]byte, error) {
	return yaml.Marshal(c.RawValue())
}

func decodeJSON(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("codec: decode json: %w", err)
	}
	return v, nil
}

// apply funnels the decoded payload into the tree. A structural mismatch
// makes the model panic; here the payload is external data, so the panic is
// recovered into an error for the caller to handle.
func apply(c forms.Control, v any, strict bool, opts []forms.Option) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("codec: apply value: %v", r)
		}
	}()
	if strict {
		c.SetValue(v, opts...)
	} else {
		c.PatchValue(v, opts...)
	}
	return nil
}
