package forms_test

import (
	"testing"

	"github.com/go-forms/forms"
	"github.com/go-forms/forms/streams"
)

func codeError(code string) forms.Validator {
	return func(forms.Control) forms.Errors {
		return forms.Errors{code: true}
	}
}

func TestCompose_MergesAllErrors(t *testing.T) {
	v := forms.Compose(codeError("a"), codeError("b"))
	errs := v(forms.NewField(nil))
	if !errs.Has("a") || !errs.Has("b") {
		t.Fatalf("expected both codes merged, got %v", errs)
	}
}

func TestCompose_LastMatchWinsOnCollision(t *testing.T) {
	first := func(forms.Control) forms.Errors { return forms.Errors{"dup": "first"} }
	second := func(forms.Control) forms.Errors { return forms.Errors{"dup": "second"} }
	v := forms.Compose(first, second)
	errs := v(forms.NewField(nil))
	if errs["dup"] != "second" {
		t.Fatalf("expected last validator to win on collision, got %v", errs["dup"])
	}
}

func TestCompose_EmptyAndNilComposeToNil(t *testing.T) {
	if forms.Compose() != nil {
		t.Fatalf("empty compose should be nil, not an always-passing validator")
	}
	if forms.Compose(nil, nil) != nil {
		t.Fatalf("all-nil compose should be nil")
	}
	if forms.ComposeAsync() != nil {
		t.Fatalf("empty async compose should be nil")
	}
}

func TestCompose_AllPassingReportsNil(t *testing.T) {
	pass := func(forms.Control) forms.Errors { return nil }
	v := forms.Compose(pass, pass)
	if errs := v(forms.NewField(nil)); errs != nil {
		t.Fatalf("expected nil errors, got %v", errs)
	}
}

func TestComposeAsync_ResolvesOnceAllResolve(t *testing.T) {
	first := streams.NewSingle[forms.Errors]()
	second := streams.NewSingle[forms.Errors]()
	v := forms.ComposeAsync(
		func(forms.Control) *forms.AsyncResult { return first },
		func(forms.Control) *forms.AsyncResult { return second },
	)

	var got forms.Errors
	settled := false
	v(forms.NewField(nil)).Subscribe(func(errs forms.Errors) {
		settled = true
		got = errs
	})

	first.Resolve(forms.Errors{"a": true})
	if settled {
		t.Fatalf("composed async result settled before all validators resolved")
	}
	second.Resolve(forms.Errors{"b": true})
	if !settled {
		t.Fatalf("composed async result never settled")
	}
	if !got.Has("a") || !got.Has("b") {
		t.Fatalf("expected merged async errors, got %v", got)
	}
}

func TestComposeAsync_AllNilResolvesNil(t *testing.T) {
	v := forms.ComposeAsync(
		func(forms.Control) *forms.AsyncResult { return streams.Resolved[forms.Errors](nil) },
		func(forms.Control) *forms.AsyncResult { return streams.Resolved[forms.Errors](nil) },
	)
	var got forms.Errors = forms.Errors{"sentinel": true}
	v(forms.NewField(nil)).Subscribe(func(errs forms.Errors) { got = errs })
	if got != nil {
		t.Fatalf("expected nil merge of all-nil async results, got %v", got)
	}
}

func TestConstructorArgConventions_NormalizeIdentically(t *testing.T) {
	// Legacy positional style: validator, then async validator.
	legacy := forms.NewField("", forms.Required,
		func(forms.Control) *forms.AsyncResult { return streams.Resolved[forms.Errors](nil) })
	// Options-object style.
	configured := forms.NewField("", forms.Config{
		Validators: []forms.Validator{forms.Required},
		AsyncValidators: []forms.AsyncValidator{
			func(forms.Control) *forms.AsyncResult { return streams.Resolved[forms.Errors](nil) },
		},
	})

	if legacy.Status() != configured.Status() {
		t.Fatalf("conventions disagree: legacy=%s configured=%s", legacy.Status(), configured.Status())
	}
	if !legacy.HasError(forms.CodeRequired) || !configured.HasError(forms.CodeRequired) {
		t.Fatalf("both conventions should wire the required validator")
	}
}

func TestConstructorArgs_SliceOfValidators(t *testing.T) {
	f := forms.NewField("", []forms.Validator{forms.Required, forms.MinLength(2)})
	if !f.HasError(forms.CodeRequired) {
		t.Fatalf("expected required error from slice-wired validators, got %v", f.Errors())
	}
}

func TestConstructorArgs_UpdateOnFromConfig(t *testing.T) {
	f := forms.NewField("x", forms.Config{UpdateOn: forms.UpdateOnBlur})
	if f.UpdateOn() != forms.UpdateOnBlur {
		t.Fatalf("expected blur strategy, got %s", f.UpdateOn())
	}
}

func TestBuiltinValidators(t *testing.T) {
	cases := []struct {
		name    string
		v       forms.Validator
		value   any
		wantErr string // empty means valid
	}{
		{"required rejects empty string", forms.Required, "", forms.CodeRequired},
		{"required rejects nil", forms.Required, nil, forms.CodeRequired},
		{"required accepts zero", forms.Required, 0, ""},
		{"requiredTrue rejects false", forms.RequiredTrue, false, forms.CodeRequired},
		{"requiredTrue accepts true", forms.RequiredTrue, true, ""},
		{"min rejects smaller", forms.Min(3), 2, forms.CodeMin},
		{"min accepts equal", forms.Min(3), 3, ""},
		{"min skips non-numeric", forms.Min(3), "abc", ""},
		{"max rejects larger", forms.Max(3), 4.5, forms.CodeMax},
		{"minlength rejects short", forms.MinLength(3), "ab", forms.CodeMinLength},
		{"minlength skips empty", forms.MinLength(3), "", ""},
		{"maxlength rejects long", forms.MaxLength(2), "abc", forms.CodeMaxLength},
		{"maxlength counts slice items", forms.MaxLength(1), []any{1, 2}, forms.CodeMaxLength},
		{"pattern anchors the expression", forms.Pattern(`\d+`), "12a", forms.CodePattern},
		{"pattern accepts match", forms.Pattern(`\d+`), "123", ""},
		{"email rejects junk", forms.Email, "not-an-email", forms.CodeEmail},
		{"email accepts plausible address", forms.Email, "a@b.co", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.v(forms.NewField(tc.value))
			if tc.wantErr == "" {
				if errs != nil {
					t.Fatalf("expected no error, got %v", errs)
				}
				return
			}
			if !errs.Has(tc.wantErr) {
				t.Fatalf("expected %q error, got %v", tc.wantErr, errs)
			}
		})
	}
}

func TestValidatorManagement_AddRemoveHas(t *testing.T) {
	f := forms.NewField("")
	if f.HasValidator(forms.Required) {
		t.Fatalf("fresh field should have no validators")
	}

	f.AddValidators(forms.Required)
	if !f.HasValidator(forms.Required) {
		t.Fatalf("expected validator to be registered")
	}

	// Adding the same function again is a no-op.
	f.AddValidators(forms.Required)
	f.UpdateValueAndValidity()
	if !f.Invalid() {
		t.Fatalf("expected invalid after wiring required, got %s", f.Status())
	}

	f.RemoveValidators(forms.Required)
	if f.HasValidator(forms.Required) {
		t.Fatalf("expected validator to be removed")
	}
	f.UpdateValueAndValidity()
	if !f.Valid() {
		t.Fatalf("expected valid after removing required, got %s", f.Status())
	}
}

func TestSetValidators_TakesEffectOnNextPass(t *testing.T) {
	f := forms.NewField("")
	f.SetValidators(forms.Required)
	if !f.Valid() {
		t.Fatalf("SetValidators alone must not revalidate")
	}
	f.UpdateValueAndValidity()
	if !f.Invalid() {
		t.Fatalf("expected invalid after explicit revalidation")
	}

	f.ClearValidators()
	f.UpdateValueAndValidity()
	if !f.Valid() {
		t.Fatalf("expected valid after clearing validators")
	}
}
