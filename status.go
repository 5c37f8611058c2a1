package forms

// Status is the derived validity state of a control. It is always exactly one
// of the four values below; it is recomputed by the validation protocol and by
// the enable/disable transition, never assigned directly by callers.
type Status string

const (
	// StatusValid means the control passed all validation checks.
	StatusValid Status = "VALID"
	// StatusInvalid means the control failed at least one validation check.
	StatusInvalid Status = "INVALID"
	// StatusPending means an async validation pass is in flight. PENDING is
	// never a resting state: it always settles to VALID or INVALID once the
	// async validator resolves, unless a newer pass cancels it first.
	StatusPending Status = "PENDING"
	// StatusDisabled means the control is exempt from validation. A disabled
	// control contributes neither value nor status to its parent's aggregate
	// unless the parent itself is entirely disabled.
	StatusDisabled Status = "DISABLED"
)

// UpdateOn names the event that commits a control's buffered value and
// interaction state. Controls without an explicit strategy inherit their
// parent's, defaulting to UpdateOnChange at the root.
type UpdateOn string

const (
	UpdateOnChange UpdateOn = "change"
	UpdateOnBlur   UpdateOn = "blur"
	UpdateOnSubmit UpdateOn = "submit"
)
