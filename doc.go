// Package forms implements a reactive control tree for form state: leaf
// fields, keyed groups, and indexed arrays that keep an aggregate data model
// synchronized with widget state (value, validity, touched/dirty interaction
// flags, and enabled/disabled status) under synchronous and asynchronous
// validation.
//
// A tree is built bottom-up:
//
//	profile := forms.NewGroup(map[string]forms.Control{
//		"first": forms.NewField("Nancy", forms.Required),
//		"last":  forms.NewField("Drew", forms.Required),
//	})
//	profile.Get("first").SetValue("Ned")
//	ok := profile.Valid()
//
// Every mutation revalidates the node and, by default, each ancestor up to
// the root in the same call stack. Status is one of VALID, INVALID, PENDING,
// or DISABLED, derived bottom-up; disabled subtrees are excluded from parent
// aggregation. Async validators return a cancelable one-shot result and hold
// the node in PENDING until they settle; starting a new validation pass
// cancels the previous in-flight one.
//
// Design policy:
//   - Keep the public model in the root package; notification primitives live
//     under streams/, byte-level population and snapshots under codec/.
//   - A control tree is owned by a single goroutine. Mutations and async
//     settlements must be delivered on that goroutine; the package adds no
//     locking around node state.
//   - Validation errors are data (the Errors map); structural misuse of a
//     composite (missing keys in SetValue, unknown child names) is a
//     programming error and panics.
package forms
