package forms

import (
	"strconv"
	"strings"

	"github.com/go-forms/forms/streams"
)

// Control is any node of the reactive tree: a Field, a Group, or an Array.
// All three embed the shared base, so the interface is satisfied by
// construction; it cannot be implemented outside this package.
type Control interface {
	// Read surface.
	Value() any
	RawValue() any
	Status() Status
	Errors() Errors
	Valid() bool
	Invalid() bool
	Pending() bool
	Enabled() bool
	Disabled() bool
	Pristine() bool
	Dirty() bool
	Touched() bool
	Untouched() bool
	UpdateOn() UpdateOn
	Parent() Control
	Root() Control
	Get(path ...any) Control
	GetError(code string, path ...any) any
	HasError(code string, path ...any) bool
	ValueChanges() *streams.Stream[any]
	StatusChanges() *streams.Stream[Status]

	// Mutation surface.
	SetValue(value any, opts ...Option)
	PatchValue(value any, opts ...Option)
	Reset(state any, opts ...Option)
	SetErrors(errs Errors, opts ...Option)
	UpdateValueAndValidity(opts ...Option)
	MarkAsTouched(opts ...Option)
	MarkAllAsTouched()
	MarkAsUntouched(opts ...Option)
	MarkAsDirty(opts ...Option)
	MarkAsPristine(opts ...Option)
	MarkAsPending(opts ...Option)
	Disable(opts ...Option)
	Enable(opts ...Option)
	SetValidators(vs ...Validator)
	AddValidators(vs ...Validator)
	RemoveValidators(vs ...Validator)
	HasValidator(v Validator) bool
	ClearValidators()
	SetAsyncValidators(vs ...AsyncValidator)
	AddAsyncValidators(vs ...AsyncValidator)
	RemoveAsyncValidators(vs ...AsyncValidator)
	HasAsyncValidator(v AsyncValidator) bool
	ClearAsyncValidators()
	SyncPendingControls() bool

	// Variant hooks: the one shared algorithm below runs against these three
	// data shapes.
	node() *base
	updateValue()
	forEachChild(fn func(Control))
	anyControls(pred func(Control) bool) bool
	allControlsDisabled() bool
}

var (
	_ Control = (*Field)(nil)
	_ Control = (*Group)(nil)
	_ Control = (*Array)(nil)
)

// base carries the state and behavior shared by every node kind. The concrete
// types embed it and plug in their shape through the hook methods of Control;
// self is the embedding node, needed so hooks dispatch to the right shape and
// so validators receive the concrete control.
type base struct {
	self Control

	value  any
	status Status
	errors Errors

	pristine bool
	touched  bool

	// Deferred interaction state, committed by SyncPendingControls when the
	// update strategy is not UpdateOnChange.
	pendingDirty   bool
	pendingTouched bool

	rawValidators      []Validator
	validator          Validator
	rawAsyncValidators []AsyncValidator
	asyncValidator     AsyncValidator

	// At most one async validation is in flight per node; the subscription is
	// canceled before every new pass so a stale resolution can never land.
	asyncSub        *streams.Subscription
	hasPendingAsync bool

	// parent is a non-owning back reference to the composite that currently
	// holds this node; nil for roots.
	parent Control

	updateOn UpdateOn

	valueChanges  *streams.Stream[any]
	statusChanges *streams.Stream[Status]

	// onCollectionChange is handed down by the owning composite at
	// registration time so structural changes anywhere in a subtree reach the
	// collaborator registered at the top. Replaced with a no-op on detach.
	onCollectionChange func()

	onDisabledChange []func(disabled bool)
}

func (b *base) init(self Control, cfg config) {
	b.self = self
	b.pristine = true
	b.status = StatusValid
	b.rawValidators = cfg.validators
	b.validator = Compose(cfg.validators...)
	b.rawAsyncValidators = cfg.asyncValidators
	b.asyncValidator = ComposeAsync(cfg.asyncValidators...)
	b.updateOn = cfg.updateOn
	b.valueChanges = streams.New[any]()
	b.statusChanges = streams.New[Status]()
	b.onCollectionChange = func() {}
}

// node exposes the embedded base; a method named after the struct would be
// shadowed by the field promotion.
func (b *base) node() *base { return b }

// ---- read surface ----

func (b *base) Value() any      { return b.value }
func (b *base) Status() Status  { return b.status }
func (b *base) Errors() Errors  { return b.errors }
func (b *base) Valid() bool     { return b.status == StatusValid }
func (b *base) Invalid() bool   { return b.status == StatusInvalid }
func (b *base) Pending() bool   { return b.status == StatusPending }
func (b *base) Disabled() bool  { return b.status == StatusDisabled }
func (b *base) Enabled() bool   { return b.status != StatusDisabled }
func (b *base) Pristine() bool  { return b.pristine }
func (b *base) Dirty() bool     { return !b.pristine }
func (b *base) Touched() bool   { return b.touched }
func (b *base) Untouched() bool { return !b.touched }
func (b *base) Parent() Control { return b.parent }

func (b *base) Root() Control {
	c := b.self
	for c.node().parent != nil {
		c = c.node().parent
	}
	return c
}

// UpdateOn resolves the effective update strategy: the node's own if set,
// otherwise the parent's, defaulting to UpdateOnChange at the root.
func (b *base) UpdateOn() UpdateOn {
	if b.updateOn != "" {
		return b.updateOn
	}
	if b.parent != nil {
		return b.parent.UpdateOn()
	}
	return UpdateOnChange
}

// ValueChanges is the multicast stream of aggregate values, emitted after
// every recomputation unless the triggering call suppressed events.
func (b *base) ValueChanges() *streams.Stream[any] { return b.valueChanges }

// StatusChanges is the multicast stream of derived statuses. An async
// validation pass emits twice: PENDING synchronously, then the settled status
// when the validator resolves.
func (b *base) StatusChanges() *streams.Stream[Status] { return b.statusChanges }

// ---- path lookup ----

// Get walks the tree by path and returns the control it lands on, or nil.
// Each element is a string key, an int index, or a dot-delimited string whose
// segments are applied one by one; numeric segments index into Arrays, with
// negative indices counting back from the end as At does. An empty path
// returns nil rather than the receiver.
func (b *base) Get(path ...any) Control {
	var segs []string
	for _, p := range path {
		switch v := p.(type) {
		case string:
			segs = append(segs, strings.Split(v, ".")...)
		case int:
			segs = append(segs, strconv.Itoa(v))
		default:
			return nil
		}
	}
	if len(segs) == 0 {
		return nil
	}
	cur := b.self
	for _, seg := range segs {
		if cur == nil {
			return nil
		}
		switch node := cur.(type) {
		case *Group:
			child, ok := node.controls[seg]
			if !ok {
				return nil
			}
			cur = child
		case *Array:
			idx, err := strconv.Atoi(seg)
			if err != nil {
				return nil
			}
			// At applies the same negative back-indexing the direct accessor
			// does and yields nil when out of range.
			cur = node.At(idx)
		default:
			// Fields have no children; any further segment fails.
			return nil
		}
	}
	return cur
}

// GetError returns the detail reported under code by the control at path (the
// receiver when path is empty), or nil.
func (b *base) GetError(code string, path ...any) any {
	c := b.self
	if len(path) > 0 {
		c = b.Get(path...)
	}
	if c == nil {
		return nil
	}
	return c.Errors().Get(code)
}

// HasError reports whether GetError finds a non-nil detail.
func (b *base) HasError(code string, path ...any) bool {
	return b.GetError(code, path...) != nil
}

// ---- validator management ----

// SetValidators replaces the control's synchronous validators. The control is
// not revalidated; call UpdateValueAndValidity for the change to take effect.
func (b *base) SetValidators(vs ...Validator) {
	b.rawValidators = vs
	b.validator = Compose(vs...)
}

// AddValidators appends validators not already present (by function
// identity).
func (b *base) AddValidators(vs ...Validator) {
	b.SetValidators(addValidators(b.rawValidators, vs)...)
}

// RemoveValidators removes validators by function identity.
func (b *base) RemoveValidators(vs ...Validator) {
	b.SetValidators(removeValidators(b.rawValidators, vs)...)
}

// HasValidator reports whether v is among the control's validators, compared
// by function identity.
func (b *base) HasValidator(v Validator) bool {
	return containsValidator(b.rawValidators, v)
}

// ClearValidators removes all synchronous validators without revalidating.
func (b *base) ClearValidators() {
	b.rawValidators = nil
	b.validator = nil
}

// SetAsyncValidators replaces the control's async validators without
// revalidating.
func (b *base) SetAsyncValidators(vs ...AsyncValidator) {
	b.rawAsyncValidators = vs
	b.asyncValidator = ComposeAsync(vs...)
}

func (b *base) AddAsyncValidators(vs ...AsyncValidator) {
	b.SetAsyncValidators(addValidators(b.rawAsyncValidators, vs)...)
}

func (b *base) RemoveAsyncValidators(vs ...AsyncValidator) {
	b.SetAsyncValidators(removeValidators(b.rawAsyncValidators, vs)...)
}

func (b *base) HasAsyncValidator(v AsyncValidator) bool {
	return containsValidator(b.rawAsyncValidators, v)
}

func (b *base) ClearAsyncValidators() {
	b.rawAsyncValidators = nil
	b.asyncValidator = nil
}

// ---- interaction flags ----

// MarkAsTouched flags the control as having received and lost focus, and by
// default every ancestor with it.
func (b *base) MarkAsTouched(opts ...Option) {
	b.markAsTouched(applyOptions(opts))
}

func (b *base) markAsTouched(o updateOpts) {
	b.touched = true
	if b.parent != nil && !o.onlySelf {
		b.parent.node().markAsTouched(o)
	}
}

// MarkAllAsTouched marks the control and every descendant as touched.
func (b *base) MarkAllAsTouched() {
	b.markAsTouched(updateOpts{onlySelf: true})
	b.self.forEachChild(func(c Control) { c.MarkAllAsTouched() })
}

// MarkAsUntouched clears the touched flag on the control and its whole
// subtree, then re-derives each ancestor's flag from its children.
func (b *base) MarkAsUntouched(opts ...Option) {
	b.markAsUntouched(applyOptions(opts))
}

func (b *base) markAsUntouched(o updateOpts) {
	b.touched = false
	b.pendingTouched = false
	b.self.forEachChild(func(c Control) {
		c.node().markAsUntouched(updateOpts{onlySelf: true})
	})
	if b.parent != nil && !o.onlySelf {
		b.parent.node().updateTouched(o)
	}
}

// MarkAsDirty flags the control's value as changed by user interaction, and
// by default every ancestor with it.
func (b *base) MarkAsDirty(opts ...Option) {
	b.markAsDirty(applyOptions(opts))
}

func (b *base) markAsDirty(o updateOpts) {
	b.pristine = false
	if b.parent != nil && !o.onlySelf {
		b.parent.node().markAsDirty(o)
	}
}

// MarkAsPristine clears the dirty flag on the control and its whole subtree,
// then re-derives each ancestor's flag from its children.
func (b *base) MarkAsPristine(opts ...Option) {
	b.markAsPristine(applyOptions(opts))
}

func (b *base) markAsPristine(o updateOpts) {
	b.pristine = true
	b.pendingDirty = false
	b.self.forEachChild(func(c Control) {
		c.node().markAsPristine(updateOpts{onlySelf: true})
	})
	if b.parent != nil && !o.onlySelf {
		b.parent.node().updatePristine(o)
	}
}

// MarkAsPending forces the status to PENDING, typically while a collaborator
// performs work outside the validator protocol.
func (b *base) MarkAsPending(opts ...Option) {
	b.markAsPending(applyOptions(opts))
}

func (b *base) markAsPending(o updateOpts) {
	b.status = StatusPending
	if o.emitEvent {
		b.statusChanges.Next(b.status)
	}
	if b.parent != nil && !o.onlySelf {
		b.parent.node().markAsPending(o)
	}
}

func (b *base) updatePristine(o updateOpts) {
	b.pristine = !b.anyControlsDirty()
	if b.parent != nil && !o.onlySelf {
		b.parent.node().updatePristine(o)
	}
}

func (b *base) updateTouched(o updateOpts) {
	b.touched = b.anyControlsTouched()
	if b.parent != nil && !o.onlySelf {
		b.parent.node().updateTouched(o)
	}
}

func (b *base) anyControlsDirty() bool {
	return b.self.anyControls(func(c Control) bool { return c.Dirty() })
}

func (b *base) anyControlsTouched() bool {
	return b.self.anyControls(func(c Control) bool { return c.Touched() })
}

func (b *base) anyControlsHaveStatus(s Status) bool {
	return b.self.anyControls(func(c Control) bool { return c.Status() == s })
}

// ---- enable/disable ----

// Disable exempts the control and its whole subtree from validation: status
// becomes DISABLED, errors are cleared, and the subtree stops contributing to
// ancestor aggregates. Ancestors are revalidated afterwards.
func (b *base) Disable(opts ...Option) {
	b.disable(applyOptions(opts))
}

func (b *base) disable(o updateOpts) {
	// Decide before mutating whether the parent's dirty state was set by hand
	// rather than derived from children; such a flag must survive the cascade.
	skipPristine := b.parentMarkedDirty(o.onlySelf)
	b.status = StatusDisabled
	b.errors = nil
	b.self.forEachChild(func(c Control) {
		c.node().disable(updateOpts{onlySelf: true, emitEvent: o.emitEvent})
	})
	b.self.updateValue()
	if o.emitEvent {
		b.valueChanges.Next(b.value)
		b.statusChanges.Next(b.status)
	}
	b.updateAncestors(o, skipPristine)
	for _, fn := range b.onDisabledChange {
		fn(true)
	}
}

// Enable re-admits the control and its subtree to validation and recomputes
// validity bottom-up from here.
func (b *base) Enable(opts ...Option) {
	b.enable(applyOptions(opts))
}

func (b *base) enable(o updateOpts) {
	skipPristine := b.parentMarkedDirty(o.onlySelf)
	b.status = StatusValid
	b.self.forEachChild(func(c Control) {
		c.node().enable(updateOpts{onlySelf: true, emitEvent: o.emitEvent})
	})
	b.updateValueAndValidity(updateOpts{onlySelf: true, emitEvent: o.emitEvent,
		emitModelToView: o.emitModelToView, emitViewToModel: o.emitViewToModel})
	b.updateAncestors(o, skipPristine)
	for _, fn := range b.onDisabledChange {
		fn(false)
	}
}

func (b *base) updateAncestors(o updateOpts, skipPristine bool) {
	if b.parent == nil || o.onlySelf {
		return
	}
	b.parent.node().updateValueAndValidity(o)
	if !skipPristine {
		b.parent.node().updatePristine(updateOpts{})
	}
	b.parent.node().updateTouched(updateOpts{})
}

// parentMarkedDirty reports whether the parent is dirty only because of an
// explicit MarkAsDirty, with no dirty child to back it up. In that case the
// enable/disable cascade must not recompute the parent's pristine flag.
func (b *base) parentMarkedDirty(onlySelf bool) bool {
	return !onlySelf && b.parent != nil &&
		b.parent.Dirty() && !b.parent.node().anyControlsDirty()
}

// RegisterOnDisabledChange appends a callback invoked with the new disabled
// state after every Enable/Disable. Multiple collaborators may register.
func (b *base) RegisterOnDisabledChange(fn func(disabled bool)) {
	b.onDisabledChange = append(b.onDisabledChange, fn)
}

// ---- validity recomputation ----

// UpdateValueAndValidity recomputes the control's aggregate value, reruns its
// validators, re-derives status, and by default repeats the operation on each
// ancestor up to the root.
func (b *base) UpdateValueAndValidity(opts ...Option) {
	b.updateValueAndValidity(applyOptions(opts))
}

func (b *base) updateValueAndValidity(o updateOpts) {
	b.setInitialStatus()
	b.self.updateValue()
	if b.Enabled() {
		b.cancelExistingSubscription()
		b.errors = b.runValidator()
		b.status = b.calculateStatus()
		if b.status == StatusValid || b.status == StatusPending {
			b.runAsyncValidator(o.emitEvent)
		}
	}
	if o.emitEvent {
		b.valueChanges.Next(b.value)
		b.statusChanges.Next(b.status)
	}
	if b.parent != nil && !o.onlySelf {
		b.parent.node().updateValueAndValidity(o)
	}
}

func (b *base) setInitialStatus() {
	if b.self.allControlsDisabled() {
		b.status = StatusDisabled
	} else {
		b.status = StatusValid
	}
}

func (b *base) runValidator() Errors {
	if b.validator == nil {
		return nil
	}
	return b.validator(b.self)
}

func (b *base) runAsyncValidator(emitEvent bool) {
	if b.asyncValidator == nil {
		return
	}
	b.status = StatusPending
	b.hasPendingAsync = true
	result := b.asyncValidator(b.self)
	b.asyncSub = result.Subscribe(func(errs Errors) {
		b.hasPendingAsync = false
		// The emit-events decision of the triggering call carries over to the
		// deferred settle.
		b.setErrors(errs, emitEvent)
	})
}

func (b *base) cancelExistingSubscription() {
	if b.asyncSub != nil {
		b.asyncSub.Unsubscribe()
		b.asyncSub = nil
		b.hasPendingAsync = false
	}
}

func (b *base) calculateStatus() Status {
	switch {
	case b.self.allControlsDisabled():
		return StatusDisabled
	case b.errors != nil:
		return StatusInvalid
	case b.hasPendingAsync:
		return StatusPending
	case b.anyControlsHaveStatus(StatusPending):
		return StatusPending
	case b.anyControlsHaveStatus(StatusInvalid):
		return StatusInvalid
	}
	return StatusValid
}

// SetErrors overrides the control's errors and re-derives status from them,
// without rerunning validators. The next validation pass replaces manual
// errors with whatever the validators report.
func (b *base) SetErrors(errs Errors, opts ...Option) {
	o := applyOptions(opts)
	b.setErrors(errs, o.emitEvent)
}

func (b *base) setErrors(errs Errors, emitEvent bool) {
	b.errors = errs
	b.updateControlsErrors(emitEvent)
}

// updateControlsErrors re-derives status after an errors change and walks the
// ancestor chain doing the same, without revalidating values.
func (b *base) updateControlsErrors(emitEvent bool) {
	b.status = b.calculateStatus()
	if emitEvent {
		b.statusChanges.Next(b.status)
	}
	if b.parent != nil {
		b.parent.node().updateControlsErrors(emitEvent)
	}
}

// ---- parent linkage ----

// SetParent re-points the control's non-owning parent reference. Composites
// call this on registration; it is exported for collaborators that manage
// standalone controls.
func (b *base) SetParent(p Control) {
	b.parent = p
}

// RegisterOnCollectionChange sets the callback invoked after structural
// mutation (add/remove/replace child) anywhere in the subtree rooted here.
// Composites hand their own callback down to children at registration time
// and replace a detached child's callback with a no-op, so orphan events
// never leak into an old parent. There is exactly one callback per control;
// registering replaces the previous one.
func (b *base) RegisterOnCollectionChange(fn func()) {
	if fn == nil {
		fn = func() {}
	}
	b.onCollectionChange = fn
}
