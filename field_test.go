package forms_test

import (
	"testing"

	"github.com/go-forms/forms"
)

func requireNonEmpty(c forms.Control) forms.Errors {
	if s, _ := c.Value().(string); s == "" {
		return forms.Errors{forms.CodeRequired: true}
	}
	return nil
}

func TestField_InitialState(t *testing.T) {
	f := forms.NewField("hello")
	if f.Value() != "hello" {
		t.Fatalf("value = %v, want hello", f.Value())
	}
	if f.Status() != forms.StatusValid {
		t.Fatalf("status = %s, want VALID", f.Status())
	}
	if !f.Pristine() || f.Touched() {
		t.Fatalf("fresh field should be pristine and untouched")
	}
	if f.Errors() != nil {
		t.Fatalf("fresh field without validators should have nil errors, got %v", f.Errors())
	}
}

func TestField_ValidatorDrivesStatus(t *testing.T) {
	f := forms.NewField("", requireNonEmpty)
	if f.Status() != forms.StatusInvalid {
		t.Fatalf("status = %s, want INVALID", f.Status())
	}

	f.SetValue("x")
	if f.Status() != forms.StatusValid {
		t.Fatalf("status = %s, want VALID after set", f.Status())
	}

	// Manual override: value is fine, errors are forced.
	f.SetErrors(forms.Errors{"custom": true})
	if f.Status() != forms.StatusInvalid {
		t.Fatalf("status = %s, want INVALID after SetErrors", f.Status())
	}
	if f.Errors()["custom"] != true {
		t.Fatalf("errors = %v, want custom override", f.Errors())
	}

	// The next validation pass replaces the manual override.
	f.UpdateValueAndValidity()
	if !f.Valid() {
		t.Fatalf("status = %s, want VALID after revalidation", f.Status())
	}
}

func TestField_SetErrorsEmptyMapIsInvalid(t *testing.T) {
	f := forms.NewField("x")
	f.SetErrors(forms.Errors{})
	if !f.Invalid() {
		t.Fatalf("a non-nil errors map, even empty, must mark the control invalid")
	}
}

func TestField_ResetRestoresConstructionValue(t *testing.T) {
	f := forms.NewField("initial")
	f.SetValue("changed")
	f.MarkAsTouched()
	f.MarkAsDirty()

	f.Reset(nil)
	if f.Value() != "initial" {
		t.Fatalf("value = %v, want construction value restored", f.Value())
	}
	if !f.Pristine() || f.Touched() {
		t.Fatalf("reset must restore pristine/untouched, got pristine=%v touched=%v",
			f.Pristine(), f.Touched())
	}
}

func TestField_ResetWithoutInitialValueYieldsNil(t *testing.T) {
	f := forms.NewField(nil)
	f.SetValue("x")
	f.Reset(nil)
	if f.Value() != nil {
		t.Fatalf("value = %v, want nil", f.Value())
	}
}

func TestField_ResetWithBoxedState(t *testing.T) {
	f := forms.NewField("a")
	f.Reset(forms.State{Value: "b", Disabled: true})
	if f.Value() != "b" {
		t.Fatalf("value = %v, want b", f.Value())
	}
	if !f.Disabled() {
		t.Fatalf("expected disabled after boxed reset, got %s", f.Status())
	}

	f.Reset(forms.State{Value: "c", Disabled: false})
	if !f.Enabled() || f.Value() != "c" {
		t.Fatalf("expected enabled with value c, got %s %v", f.Status(), f.Value())
	}
}

func TestField_BoxedStateDetectionIsExact(t *testing.T) {
	// Exactly the two keys "value" and "disabled": boxed.
	f := forms.NewField(map[string]any{"value": "n/a", "disabled": true})
	if !f.Disabled() || f.Value() != "n/a" {
		t.Fatalf("two-key map should be unboxed into value+disabled, got %s %v", f.Status(), f.Value())
	}

	// A third key breaks the shape: the whole map is the value.
	raw := map[string]any{"value": "n/a", "disabled": true, "extra": 1}
	g := forms.NewField(raw)
	if g.Disabled() {
		t.Fatalf("three-key map must not be treated as a boxed state")
	}
	if _, ok := g.Value().(map[string]any); !ok {
		t.Fatalf("value should be the map itself, got %T", g.Value())
	}
}

func TestField_ConstructedDisabled(t *testing.T) {
	f := forms.NewField(forms.State{Value: "n/a", Disabled: true}, requireNonEmpty)
	if f.Status() != forms.StatusDisabled {
		t.Fatalf("status = %s, want DISABLED", f.Status())
	}
	if f.Errors() != nil {
		t.Fatalf("disabled control must carry no errors, got %v", f.Errors())
	}
}

func TestField_RegisterOnChangeCallbacks(t *testing.T) {
	f := forms.NewField("a")
	var first, second []any
	f.RegisterOnChange(func(v any, viewToModel bool) { first = append(first, v) })
	f.RegisterOnChange(func(v any, viewToModel bool) { second = append(second, v) })

	f.SetValue("b")
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("both registered callbacks must fire, got %d and %d", len(first), len(second))
	}

	f.SetValue("c", forms.WithoutViewNotification())
	if len(first) != 1 {
		t.Fatalf("suppressed write must not notify the view, got %d calls", len(first))
	}
	if f.Value() != "c" {
		t.Fatalf("value should still change, got %v", f.Value())
	}
}

func TestField_RegisterOnDisabledChange(t *testing.T) {
	f := forms.NewField("a")
	var states []bool
	f.RegisterOnDisabledChange(func(disabled bool) { states = append(states, disabled) })

	f.Disable()
	f.Enable()
	if len(states) != 2 || states[0] != true || states[1] != false {
		t.Fatalf("disabled-change callbacks = %v, want [true false]", states)
	}
}

func TestField_UpdateOnBlurDefersCommit(t *testing.T) {
	f := forms.NewField("", forms.Config{
		Validators: []forms.Validator{requireNonEmpty},
		UpdateOn:   forms.UpdateOnBlur,
	})

	f.ViewChange("typed")
	if f.Value() != "" {
		t.Fatalf("blur strategy must buffer the view change, got value %v", f.Value())
	}
	if !f.Pristine() {
		t.Fatalf("buffered change must not dirty the control yet")
	}

	f.ViewBlur()
	if f.Value() != "typed" {
		t.Fatalf("blur must commit the buffered value, got %v", f.Value())
	}
	if !f.Dirty() || !f.Touched() {
		t.Fatalf("commit on blur must mark dirty and touched")
	}
	if !f.Valid() {
		t.Fatalf("committed value should validate, got %s", f.Status())
	}
}

func TestField_UpdateOnSubmitBuffersUntilSync(t *testing.T) {
	f := forms.NewField("", forms.Config{UpdateOn: forms.UpdateOnSubmit})

	f.ViewChange("typed")
	f.ViewBlur()
	if f.Value() != "" || f.Touched() {
		t.Fatalf("submit strategy must buffer through blur, value=%v touched=%v",
			f.Value(), f.Touched())
	}

	if !f.SyncPendingControls() {
		t.Fatalf("sync must report that a value was committed")
	}
	if f.Value() != "typed" || !f.Dirty() || !f.Touched() {
		t.Fatalf("sync must commit value and interaction flags, value=%v dirty=%v touched=%v",
			f.Value(), f.Dirty(), f.Touched())
	}

	if f.SyncPendingControls() {
		t.Fatalf("second sync with nothing buffered must report false")
	}
}

func TestField_UpdateOnChangeCommitsImmediately(t *testing.T) {
	f := forms.NewField("")
	f.ViewChange("typed")
	if f.Value() != "typed" || !f.Dirty() {
		t.Fatalf("change strategy must commit immediately, value=%v dirty=%v", f.Value(), f.Dirty())
	}
}

func TestField_ViewCommitDoesNotEchoToView(t *testing.T) {
	f := forms.NewField("")
	calls := 0
	f.RegisterOnChange(func(any, bool) { calls++ })

	f.ViewChange("typed")
	if calls != 0 {
		t.Fatalf("a view-originated commit must not be pushed back to the view, got %d calls", calls)
	}
}
