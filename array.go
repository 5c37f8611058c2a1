package forms

import (
	"fmt"
	"strconv"
)

// Array is a composite control whose children are addressed by position. Its
// value is the ordered slice of its enabled children's values.
type Array struct {
	base
	controls []Control
}

// NewArray builds an array owning the given children in order. Validator
// arguments follow the same conventions as NewField.
func NewArray(controls []Control, args ...any) *Array {
	a := &Array{controls: append([]Control(nil), controls...)}
	a.init(a, normalizeArgs(args))
	for _, c := range a.controls {
		a.registerControl(c)
	}
	a.updateValueAndValidity(updateOpts{onlySelf: true})
	return a
}

// Controls exposes the child slice. Treat it as read-only; structural changes
// must go through Push/Insert/RemoveAt/SetControl.
func (a *Array) Controls() []Control { return a.controls }

// Length is the number of children, enabled or not.
func (a *Array) Length() int { return len(a.controls) }

// At returns the child at index, or nil when out of range. A negative index
// counts back from the end.
func (a *Array) At(index int) Control {
	i := a.adjustIndex(index)
	if i < 0 || i >= len(a.controls) {
		return nil
	}
	return a.controls[i]
}

// Push appends a child, revalidates, and notifies the collection-change
// callback.
func (a *Array) Push(c Control, opts ...Option) {
	a.controls = append(a.controls, c)
	a.registerControl(c)
	o := applyOptions(opts)
	o.onlySelf = false
	a.updateValueAndValidity(o)
	a.onCollectionChange()
}

// Insert places a child at index, shifting later children up.
func (a *Array) Insert(index int, c Control, opts ...Option) {
	i := a.adjustIndex(index)
	if i < 0 {
		i = 0
	}
	if i > len(a.controls) {
		i = len(a.controls)
	}
	a.controls = append(a.controls, nil)
	copy(a.controls[i+1:], a.controls[i:])
	a.controls[i] = c
	a.registerControl(c)
	o := applyOptions(opts)
	o.onlySelf = false
	a.updateValueAndValidity(o)
}

// RemoveAt detaches the child at index, clearing its collection-change
// registration first.
func (a *Array) RemoveAt(index int, opts ...Option) {
	i := a.adjustIndex(index)
	if i < 0 || i >= len(a.controls) {
		return
	}
	a.controls[i].node().RegisterOnCollectionChange(func() {})
	a.controls = append(a.controls[:i], a.controls[i+1:]...)
	o := applyOptions(opts)
	o.onlySelf = false
	a.updateValueAndValidity(o)
}

// SetControl replaces the child at index (or removes it when c is nil).
func (a *Array) SetControl(index int, c Control, opts ...Option) {
	i := a.adjustIndex(index)
	if i >= 0 && i < len(a.controls) {
		a.controls[i].node().RegisterOnCollectionChange(func() {})
		a.controls = append(a.controls[:i], a.controls[i+1:]...)
	}
	if c != nil {
		if i < 0 {
			i = 0
		}
		if i > len(a.controls) {
			i = len(a.controls)
		}
		a.controls = append(a.controls, nil)
		copy(a.controls[i+1:], a.controls[i:])
		a.controls[i] = c
		a.registerControl(c)
	}
	o := applyOptions(opts)
	o.onlySelf = false
	a.updateValueAndValidity(o)
	a.onCollectionChange()
}

// Clear removes every child in one structural pass.
func (a *Array) Clear(opts ...Option) {
	if len(a.controls) == 0 {
		return
	}
	for _, c := range a.controls {
		c.node().RegisterOnCollectionChange(func() {})
	}
	a.controls = nil
	o := applyOptions(opts)
	o.onlySelf = false
	a.updateValueAndValidity(o)
}

// SetValue replaces the whole aggregate value. The payload must be a []any
// covering every index; mismatches are programming errors and panic.
func (a *Array) SetValue(value any, opts ...Option) {
	o := applyOptions(opts)
	vals := a.mustSlice(value)
	if len(a.controls) == 0 {
		panicNoControls(kindArray)
	}
	a.checkAllValuesPresent(vals)
	for i, v := range vals {
		if i >= len(a.controls) {
			panicControlNotFound(kindArray, strconv.Itoa(i))
		}
		childOpts := defaultUpdateOpts()
		childOpts.onlySelf = true
		childOpts.emitEvent = o.emitEvent
		a.controls[i].SetValue(v, withOpts(childOpts))
	}
	a.updateValueAndValidity(o)
}

// PatchValue applies the payload positionally, ignoring indices beyond the
// current length. A nil payload patches nothing and does not revalidate.
func (a *Array) PatchValue(value any, opts ...Option) {
	if value == nil {
		return
	}
	o := applyOptions(opts)
	for i, v := range a.mustSlice(value) {
		if i >= len(a.controls) {
			break
		}
		childOpts := defaultUpdateOpts()
		childOpts.onlySelf = true
		childOpts.emitEvent = o.emitEvent
		a.controls[i].PatchValue(v, withOpts(childOpts))
	}
	a.updateValueAndValidity(o)
}

// Reset resets every child with its positional slot of state (absent slots
// reset the child to its own default), then re-derives this array's value,
// validity, and aggregate pristine/touched flags.
func (a *Array) Reset(state any, opts ...Option) {
	o := applyOptions(opts)
	var vals []any
	if state != nil {
		vals = a.mustSlice(state)
	}
	for i, c := range a.controls {
		var slot any
		if i < len(vals) {
			slot = vals[i]
		}
		childOpts := defaultUpdateOpts()
		childOpts.onlySelf = true
		childOpts.emitEvent = o.emitEvent
		c.Reset(slot, withOpts(childOpts))
	}
	a.updatePristine(o)
	a.updateTouched(o)
	a.updateValueAndValidity(o)
}

// RawValue is the aggregate value including disabled children.
func (a *Array) RawValue() any {
	vals := make([]any, len(a.controls))
	for i, c := range a.controls {
		vals[i] = c.RawValue()
	}
	return vals
}

// SyncPendingControls commits buffered state across the subtree and
// revalidates this array if anything was committed.
func (a *Array) SyncPendingControls() bool {
	updated := false
	for _, c := range a.controls {
		if c.SyncPendingControls() {
			updated = true
		}
	}
	if updated {
		a.updateValueAndValidity(updateOpts{onlySelf: true, emitEvent: true})
	}
	return updated
}

func (a *Array) registerControl(c Control) {
	c.node().SetParent(a)
	c.node().RegisterOnCollectionChange(a.onCollectionChange)
}

// adjustIndex maps a negative index to a position counted from the end.
func (a *Array) adjustIndex(index int) int {
	if index < 0 {
		return index + len(a.controls)
	}
	return index
}

func (a *Array) mustSlice(value any) []any {
	vals, ok := value.([]any)
	if !ok {
		panic(fmt.Sprintf("forms: array value must be a []any, got %T", value))
	}
	return vals
}

func (a *Array) checkAllValuesPresent(value []any) {
	for i := range a.controls {
		if i >= len(value) {
			panicMissingValue(kindArray, strconv.Itoa(i))
		}
	}
}

// ---- variant hooks ----

func (a *Array) updateValue() {
	vals := make([]any, 0, len(a.controls))
	for _, c := range a.controls {
		if c.Enabled() || a.Disabled() {
			vals = append(vals, c.Value())
		}
	}
	a.value = vals
}

func (a *Array) forEachChild(fn func(Control)) {
	for _, c := range a.controls {
		fn(c)
	}
}

func (a *Array) anyControls(pred func(Control) bool) bool {
	for _, c := range a.controls {
		if c.Enabled() && pred(c) {
			return true
		}
	}
	return false
}

func (a *Array) allControlsDisabled() bool {
	for _, c := range a.controls {
		if c.Enabled() {
			return false
		}
	}
	return len(a.controls) > 0 || a.Disabled()
}
