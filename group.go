package forms

import "fmt"

// Group is a composite control whose children are addressed by string key.
// Its value is a map from key to each enabled child's value; its status is
// derived from its own validators and its children's statuses.
type Group struct {
	base
	controls map[string]Control
}

// NewGroup builds a group owning the given children. Validator arguments
// follow the same conventions as NewField. Children are registered before the
// initial validation pass, which runs with event emission suppressed.
func NewGroup(controls map[string]Control, args ...any) *Group {
	g := &Group{controls: make(map[string]Control, len(controls))}
	g.init(g, normalizeArgs(args))
	for name, c := range controls {
		g.RegisterControl(name, c)
	}
	g.updateValueAndValidity(updateOpts{onlySelf: true})
	return g
}

// Controls exposes the child map. Treat it as read-only; structural changes
// must go through AddControl/RemoveControl/SetControl so ownership and
// revalidation stay consistent.
func (g *Group) Controls() map[string]Control { return g.controls }

// RegisterControl attaches a child without triggering revalidation or the
// collection-change notification. If the name is already taken the existing
// child is kept and returned.
func (g *Group) RegisterControl(name string, c Control) Control {
	if existing, ok := g.controls[name]; ok {
		return existing
	}
	g.controls[name] = c
	c.node().SetParent(g)
	c.node().RegisterOnCollectionChange(g.onCollectionChange)
	return c
}

// AddControl attaches a child, revalidates the group, and notifies the
// collection-change callback.
func (g *Group) AddControl(name string, c Control, opts ...Option) {
	g.RegisterControl(name, c)
	o := applyOptions(opts)
	o.onlySelf = false
	g.updateValueAndValidity(o)
	g.onCollectionChange()
}

// RemoveControl detaches the named child. The child's collection-change
// registration is cleared first so later structural events from it cannot
// leak into this group.
func (g *Group) RemoveControl(name string, opts ...Option) {
	if c, ok := g.controls[name]; ok {
		c.node().RegisterOnCollectionChange(func() {})
	}
	delete(g.controls, name)
	o := applyOptions(opts)
	o.onlySelf = false
	g.updateValueAndValidity(o)
	g.onCollectionChange()
}

// SetControl replaces the named child (or removes it when c is nil),
// detaching the old child's collection-change registration first.
func (g *Group) SetControl(name string, c Control, opts ...Option) {
	if old, ok := g.controls[name]; ok {
		old.node().RegisterOnCollectionChange(func() {})
	}
	delete(g.controls, name)
	if c != nil {
		g.RegisterControl(name, c)
	}
	o := applyOptions(opts)
	o.onlySelf = false
	g.updateValueAndValidity(o)
	g.onCollectionChange()
}

// Contains reports whether the named child exists and is currently enabled.
// Get is the looser check; it finds disabled children too.
func (g *Group) Contains(name string) bool {
	c, ok := g.controls[name]
	return ok && c.Enabled()
}

// SetValue replaces the whole aggregate value. The payload must be a
// map[string]any supplying a value for every registered child and naming no
// unknown children; mismatches are programming errors and panic.
func (g *Group) SetValue(value any, opts ...Option) {
	o := applyOptions(opts)
	m := g.mustStringMap(value)
	if len(g.controls) == 0 {
		panicNoControls(kindGroup)
	}
	g.checkAllValuesPresent(m)
	for name, v := range m {
		child, ok := g.controls[name]
		if !ok {
			panicControlNotFound(kindGroup, name)
		}
		childOpts := defaultUpdateOpts()
		childOpts.onlySelf = true
		childOpts.emitEvent = o.emitEvent
		child.SetValue(v, withOpts(childOpts))
	}
	g.updateValueAndValidity(o)
}

// PatchValue applies the subset of the payload that matches registered
// children and silently ignores the rest. A nil payload patches nothing and
// does not revalidate.
func (g *Group) PatchValue(value any, opts ...Option) {
	if value == nil {
		return
	}
	o := applyOptions(opts)
	for name, v := range g.mustStringMap(value) {
		child, ok := g.controls[name]
		if !ok {
			continue
		}
		childOpts := defaultUpdateOpts()
		childOpts.onlySelf = true
		childOpts.emitEvent = o.emitEvent
		child.PatchValue(v, withOpts(childOpts))
	}
	g.updateValueAndValidity(o)
}

// Reset resets every child with its slot of state (absent slots reset the
// child to its own default), then re-derives this group's value, validity,
// and aggregate pristine/touched flags.
func (g *Group) Reset(state any, opts ...Option) {
	o := applyOptions(opts)
	var m map[string]any
	if state != nil {
		m = g.mustStringMap(state)
	}
	for name, c := range g.controls {
		childOpts := defaultUpdateOpts()
		childOpts.onlySelf = true
		childOpts.emitEvent = o.emitEvent
		c.Reset(m[name], withOpts(childOpts))
	}
	g.updatePristine(o)
	g.updateTouched(o)
	g.updateValueAndValidity(o)
}

// RawValue is the aggregate value including disabled children.
func (g *Group) RawValue() any {
	m := make(map[string]any, len(g.controls))
	for name, c := range g.controls {
		m[name] = c.RawValue()
	}
	return m
}

// SyncPendingControls commits buffered state across the subtree and
// revalidates this group if anything was committed.
func (g *Group) SyncPendingControls() bool {
	updated := false
	for _, c := range g.controls {
		if c.SyncPendingControls() {
			updated = true
		}
	}
	if updated {
		g.updateValueAndValidity(updateOpts{onlySelf: true, emitEvent: true})
	}
	return updated
}

func (g *Group) mustStringMap(value any) map[string]any {
	m, ok := value.(map[string]any)
	if !ok {
		panic(fmt.Sprintf("forms: group value must be a map[string]any, got %T", value))
	}
	return m
}

func (g *Group) checkAllValuesPresent(value map[string]any) {
	for name := range g.controls {
		if _, ok := value[name]; !ok {
			panicMissingValue(kindGroup, name)
		}
	}
}

// ---- variant hooks ----

func (g *Group) updateValue() {
	m := make(map[string]any, len(g.controls))
	for name, c := range g.controls {
		if c.Enabled() || g.Disabled() {
			m[name] = c.Value()
		}
	}
	g.value = m
}

func (g *Group) forEachChild(fn func(Control)) {
	for _, c := range g.controls {
		fn(c)
	}
}

func (g *Group) anyControls(pred func(Control) bool) bool {
	for _, c := range g.controls {
		if c.Enabled() && pred(c) {
			return true
		}
	}
	return false
}

func (g *Group) allControlsDisabled() bool {
	for _, c := range g.controls {
		if c.Enabled() {
			return false
		}
	}
	return len(g.controls) > 0 || g.Disabled()
}
