package forms

// Field is the terminal node of a control tree: it holds a single scalar or
// opaque value and owns it outright. Composite aggregation never mutates a
// field's value in place.
type Field struct {
	base

	// defaultValue is what Reset restores when given no state: the value the
	// field was constructed with.
	defaultValue any

	// Buffered state for deferred update strategies (blur/submit). The view
	// writes here through ViewChange/ViewBlur; commit happens on the strategy
	// event or through SyncPendingControls.
	pendingValue  any
	pendingChange bool

	onChange []ChangeFunc
}

// ChangeFunc is the push-style callback a value accessor registers to mirror
// model writes into its widget. emitViewToModel is false when the write is an
// echo of a change the view itself reported.
type ChangeFunc func(value any, emitViewToModel bool)

// State is the boxed construction/reset form carrying a value together with a
// disabled flag.
type State struct {
	Value    any
	Disabled bool
}

// NewField builds a leaf control. value is the initial value, or a State (or
// a two-key map{"value","disabled"}) to start disabled. The remaining
// arguments accept validators, slices of validators, async validators, or a
// Config, in any mix; the legacy positional (validator, asyncValidator) style
// and the Config style are normalized identically.
func NewField(value any, args ...any) *Field {
	f := &Field{}
	f.init(f, normalizeArgs(args))
	f.applyState(value)
	f.defaultValue = f.value
	f.updateValueAndValidity(updateOpts{onlySelf: true})
	return f
}

// applyState unboxes a State (or its exact two-key map form) into value and
// disabled status; anything else is taken as the bare value.
func (f *Field) applyState(state any) {
	if st, ok := boxedState(state); ok {
		f.value = st.Value
		f.pendingValue = st.Value
		if st.Disabled {
			f.disable(updateOpts{onlySelf: true})
		} else {
			f.enable(updateOpts{onlySelf: true})
		}
		return
	}
	f.value = state
	f.pendingValue = state
}

// boxedState detects the {value, disabled} pair shape. For maps the rule is
// exact: two keys named "value" and "disabled", nothing else.
func boxedState(state any) (State, bool) {
	switch v := state.(type) {
	case State:
		return v, true
	case *State:
		if v != nil {
			return *v, true
		}
	case map[string]any:
		if len(v) == 2 {
			value, hasValue := v["value"]
			rawDisabled, hasDisabled := v["disabled"]
			if hasValue && hasDisabled {
				disabled, _ := rawDisabled.(bool)
				return State{Value: value, Disabled: disabled}, true
			}
		}
	}
	return State{}, false
}

// SetValue replaces the field's value, notifies registered change callbacks,
// and revalidates.
func (f *Field) SetValue(value any, opts ...Option) {
	f.setValue(value, applyOptions(opts))
}

func (f *Field) setValue(value any, o updateOpts) {
	f.value = value
	f.pendingValue = value
	if len(f.onChange) > 0 && o.emitModelToView {
		for _, fn := range f.onChange {
			fn(value, o.emitViewToModel)
		}
	}
	f.updateValueAndValidity(o)
}

// PatchValue is SetValue; the distinction only matters for composites.
func (f *Field) PatchValue(value any, opts ...Option) {
	f.SetValue(value, opts...)
}

// Reset restores the field to pristine and untouched and applies state: a
// bare value, a State box (which may also flip disabled status), or nil to
// restore the construction-time value.
func (f *Field) Reset(state any, opts ...Option) {
	o := applyOptions(opts)
	if state == nil {
		state = f.defaultValue
	}
	f.applyState(state)
	f.markAsPristine(o)
	f.markAsUntouched(o)
	f.setValue(f.value, o)
	f.pendingChange = false
}

// RawValue is the field's value; leaves have no disabled children to differ
// over.
func (f *Field) RawValue() any { return f.value }

// RegisterOnChange appends a change callback. Several collaborators may bind
// to one field; each registration is invoked on every model write.
func (f *Field) RegisterOnChange(fn ChangeFunc) {
	f.onChange = append(f.onChange, fn)
}

// ViewChange records a value change reported by the bound view and commits it
// now or at the strategy event, per the effective update strategy.
func (f *Field) ViewChange(value any) {
	f.pendingValue = value
	f.pendingChange = true
	f.pendingDirty = true
	if f.UpdateOn() == UpdateOnChange {
		f.commitPending()
	}
}

// ViewBlur records that the bound view lost focus. Under UpdateOnBlur a
// buffered value change is committed; under UpdateOnSubmit everything stays
// buffered until SyncPendingControls.
func (f *Field) ViewBlur() {
	f.pendingTouched = true
	if f.UpdateOn() == UpdateOnBlur && f.pendingChange {
		f.commitPending()
	}
	if f.UpdateOn() != UpdateOnSubmit {
		f.MarkAsTouched()
	}
}

func (f *Field) commitPending() {
	if f.pendingDirty {
		f.MarkAsDirty()
	}
	o := defaultUpdateOpts()
	o.emitModelToView = false
	f.setValue(f.pendingValue, o)
	f.pendingChange = false
}

// SyncPendingControls applies buffered dirty/touched/value state held back by
// an UpdateOnSubmit strategy. It reports whether a value was committed.
func (f *Field) SyncPendingControls() bool {
	if f.UpdateOn() != UpdateOnSubmit {
		return false
	}
	if f.pendingDirty {
		f.MarkAsDirty()
	}
	if f.pendingTouched {
		f.MarkAsTouched()
	}
	if f.pendingChange {
		o := defaultUpdateOpts()
		o.onlySelf = true
		o.emitModelToView = false
		f.setValue(f.pendingValue, o)
		f.pendingChange = false
		return true
	}
	return false
}

// ---- variant hooks ----

func (f *Field) updateValue() {}

func (f *Field) forEachChild(func(Control)) {}

func (f *Field) anyControls(func(Control) bool) bool { return false }

func (f *Field) allControlsDisabled() bool { return f.Disabled() }
