package forms

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-forms/forms/streams"
)

// Validator inspects a control and reports its errors keyed by code, or nil
// when the control is acceptable.
type Validator func(Control) Errors

// AsyncResult is the one-shot, cancelable delivery an async validator
// returns. Resolve it with the validator's errors (nil for success).
type AsyncResult = streams.Single[Errors]

// AsyncValidator inspects a control and returns an AsyncResult that settles
// once the check completes. The control sits in StatusPending until then.
type AsyncValidator func(Control) *AsyncResult

// Compose folds an ordered list of validators into one. Every validator runs;
// their error maps are merged with last-match-wins on colliding codes. Nil
// entries are skipped, and an empty list composes to nil (no validator at
// all, not an always-passing one).
func Compose(validators ...Validator) Validator {
	present := make([]Validator, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return func(c Control) Errors {
		results := make([]Errors, len(present))
		for i, v := range present {
			results[i] = v(c)
		}
		return mergeErrors(results)
	}
}

// ComposeAsync folds async validators into one that runs them all
// concurrently and resolves only once every underlying result has resolved,
// with the same merge rule as Compose. An empty list composes to nil.
func ComposeAsync(validators ...AsyncValidator) AsyncValidator {
	present := make([]AsyncValidator, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return func(c Control) *AsyncResult {
		out := streams.NewSingle[Errors]()
		var mu sync.Mutex
		results := make([]Errors, len(present))
		remaining := len(present)
		for i, v := range present {
			i := i
			v(c).Subscribe(func(errs Errors) {
				mu.Lock()
				results[i] = errs
				remaining--
				done := remaining == 0
				mu.Unlock()
				if done {
					out.Resolve(mergeErrors(results))
				}
			})
		}
		return out
	}
}

func mergeErrors(list []Errors) Errors {
	var res Errors
	for _, e := range list {
		if e == nil {
			continue
		}
		if res == nil {
			res = Errors{}
		}
		for code, detail := range e {
			res[code] = detail
		}
	}
	if len(res) == 0 {
		return nil
	}
	return res
}

// funcID identifies a validator for Add/Remove/Has bookkeeping. Function
// values are not comparable in Go, so identity is the code pointer.
func funcID(fn any) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

func containsValidator[T any](list []T, fn T) bool {
	want := funcID(fn)
	for _, v := range list {
		if funcID(v) == want {
			return true
		}
	}
	return false
}

func addValidators[T any](list []T, add []T) []T {
	for _, v := range add {
		if !containsValidator(list, v) {
			list = append(list, v)
		}
	}
	return list
}

func removeValidators[T any](list []T, remove []T) []T {
	kept := make([]T, 0, len(list))
	for _, v := range list {
		if !containsValidator(remove, v) {
			kept = append(kept, v)
		}
	}
	return kept
}

// ---- built-in validators ----

// Required reports CodeRequired when the control's value is empty: nil, an
// empty string, or an empty slice.
func Required(c Control) Errors {
	if isEmptyValue(c.Value()) {
		return Errors{CodeRequired: true}
	}
	return nil
}

// RequiredTrue reports CodeRequired unless the value is boolean true. Meant
// for checkbox-style controls.
func RequiredTrue(c Control) Errors {
	if v, ok := c.Value().(bool); !ok || !v {
		return Errors{CodeRequired: true}
	}
	return nil
}

// Min reports CodeMin when the value parses as a number smaller than min.
// Empty and non-numeric values pass; combine with Required to reject those.
func Min(min float64) Validator {
	return func(c Control) Errors {
		n, ok := toFloat(c.Value())
		if !ok || n >= min {
			return nil
		}
		return Errors{CodeMin: map[string]any{"min": min, "actual": n}}
	}
}

// Max reports CodeMax when the value parses as a number greater than max.
func Max(max float64) Validator {
	return func(c Control) Errors {
		n, ok := toFloat(c.Value())
		if !ok || n <= max {
			return nil
		}
		return Errors{CodeMax: map[string]any{"max": max, "actual": n}}
	}
}

// MinLength reports CodeMinLength when the value's length is below n. Empty
// values pass, mirroring Min/Max.
func MinLength(n int) Validator {
	return func(c Control) Errors {
		length, ok := valueLength(c.Value())
		if !ok || length == 0 || length >= n {
			return nil
		}
		return Errors{CodeMinLength: map[string]any{"requiredLength": n, "actualLength": length}}
	}
}

// MaxLength reports CodeMaxLength when the value's length exceeds n.
func MaxLength(n int) Validator {
	return func(c Control) Errors {
		length, ok := valueLength(c.Value())
		if !ok || length <= n {
			return nil
		}
		return Errors{CodeMaxLength: map[string]any{"requiredLength": n, "actualLength": length}}
	}
}

// Pattern reports CodePattern when a string value does not match the given
// expression. The pattern is anchored to the full string unless it already
// carries its own anchors.
func Pattern(pattern string) Validator {
	anchored := pattern
	if !strings.HasPrefix(anchored, "^") {
		anchored = "^" + anchored
	}
	if !strings.HasSuffix(anchored, "$") {
		anchored = anchored + "$"
	}
	re := regexp.MustCompile(anchored)
	return func(c Control) Errors {
		s, ok := c.Value().(string)
		if !ok || s == "" || re.MatchString(s) {
			return nil
		}
		return Errors{CodePattern: map[string]any{"requiredPattern": anchored, "actualValue": s}}
	}
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Email reports CodeEmail when a non-empty string value is not a plausible
// email address.
func Email(c Control) Errors {
	s, ok := c.Value().(string)
	if !ok || s == "" || emailRe.MatchString(s) {
		return nil
	}
	return Errors{CodeEmail: true}
}

// ---- value coercion helpers ----

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	}
	return false
}

func valueLength(v any) (int, bool) {
	switch t := v.(type) {
	case string:
		return utf8.RuneCountInString(t), true
	case []any:
		return len(t), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case string:
		n, err := strconv.ParseFloat(t, 64)
		return n, err == nil
	case fmt.Stringer:
		n, err := strconv.ParseFloat(t.String(), 64)
		return n, err == nil
	}
	return 0, false
}
