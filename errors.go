package forms

import "fmt"

// Error codes reported by the built-in validators (exported consts for IDE
// completion and type safety by convention).
const (
	CodeRequired  = "required"
	CodeMin       = "min"
	CodeMax       = "max"
	CodeMinLength = "minlength"
	CodeMaxLength = "maxlength"
	CodePattern   = "pattern"
	CodeEmail     = "email"
)

// Errors maps an error code to detail about the failure. A nil map means the
// control's own validator reported nothing; a non-nil map, even an empty one,
// marks the control invalid. Child validation errors never appear here; they
// influence the parent's status only.
type Errors map[string]any

// Get returns the detail stored under code, or nil.
func (e Errors) Get(code string) any {
	if e == nil {
		return nil
	}
	return e[code]
}

// Has reports whether code is present.
func (e Errors) Has(code string) bool {
	_, ok := e[code]
	return ok
}

// Structural misuse of a composite control is a programming error, not a
// runtime condition: these calls panic and the panic is deliberately not
// recovered anywhere in the package.

func panicMissingValue(kind controlKind, key string) {
	if kind == kindArray {
		panic(fmt.Sprintf("forms: must supply a value for control at index: %s", key))
	}
	panic(fmt.Sprintf("forms: must supply a value for control with name: %q", key))
}

func panicControlNotFound(kind controlKind, key string) {
	if kind == kindArray {
		panic(fmt.Sprintf("forms: cannot find control at index: %s", key))
	}
	panic(fmt.Sprintf("forms: cannot find control with name: %q", key))
}

func panicNoControls(kind controlKind) {
	if kind == kindArray {
		panic("forms: there are no controls registered with this array yet; register some before calling SetValue")
	}
	panic("forms: there are no controls registered with this group yet; register some before calling SetValue")
}

type controlKind int

const (
	kindField controlKind = iota
	kindGroup
	kindArray
)
