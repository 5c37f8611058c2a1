package forms

import "fmt"

// updateOpts carries the flags threaded through every mutation. The zero
// value is not meaningful; build one with applyOptions so the emit flags
// default to true.
type updateOpts struct {
	// onlySelf stops the operation from propagating to ancestors.
	onlySelf bool
	// emitEvent gates the ValueChanges/StatusChanges notifications.
	emitEvent bool
	// emitModelToView gates the RegisterOnChange callbacks (the push path a
	// bound view widget uses to refresh itself).
	emitModelToView bool
	// emitViewToModel is forwarded to RegisterOnChange callbacks so a view
	// collaborator can tell a model-originated write from an echo of its own.
	emitViewToModel bool
}

func defaultUpdateOpts() updateOpts {
	return updateOpts{emitEvent: true, emitModelToView: true, emitViewToModel: true}
}

// Option adjusts how a single mutation call behaves. All mutators accept a
// trailing list of options; with none, changes propagate to ancestors and all
// notifications fire.
type Option func(*updateOpts)

// OnlySelf restricts the operation to the receiving control: ancestors are
// not revalidated or re-marked.
func OnlySelf() Option {
	return func(o *updateOpts) { o.onlySelf = true }
}

// WithoutEvents suppresses the ValueChanges and StatusChanges notifications
// for this operation. An async validator triggered by the operation inherits
// the suppression when it eventually settles.
func WithoutEvents() Option {
	return func(o *updateOpts) { o.emitEvent = false }
}

// WithoutViewNotification suppresses the callbacks registered with
// RegisterOnChange, for writes that must not be pushed back to a bound view.
func WithoutViewNotification() Option {
	return func(o *updateOpts) { o.emitModelToView = false }
}

// WithoutModelEvent marks the write as an echo of a view change: change
// callbacks still run but receive emitViewToModel=false.
func WithoutModelEvent() Option {
	return func(o *updateOpts) { o.emitViewToModel = false }
}

// withOpts replays an already-resolved option set on an internal call.
func withOpts(o updateOpts) Option {
	return func(dst *updateOpts) { *dst = o }
}

func applyOptions(opts []Option) updateOpts {
	o := defaultUpdateOpts()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Config is the options-object form of the constructor's validator argument.
type Config struct {
	Validators      []Validator
	AsyncValidators []AsyncValidator
	UpdateOn        UpdateOn
}

// config is the canonical form every constructor argument list is reduced to.
type config struct {
	validators      []Validator
	asyncValidators []AsyncValidator
	updateOn        UpdateOn
}

// normalizeArgs reduces the flexible constructor arguments to canonical
// validator slots. Accepted shapes: a Validator or AsyncValidator (bare
// function or named type), a slice of either, a Config or *Config, or nil.
// The legacy positional convention (validator, then asyncValidator) and the
// options-object convention both pass through here and come out identical.
func normalizeArgs(args []any) config {
	var cfg config
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
		case Validator:
			cfg.validators = append(cfg.validators, v)
		case func(Control) Errors:
			cfg.validators = append(cfg.validators, Validator(v))
		case []Validator:
			cfg.validators = append(cfg.validators, v...)
		case AsyncValidator:
			cfg.asyncValidators = append(cfg.asyncValidators, v)
		case func(Control) *AsyncResult:
			cfg.asyncValidators = append(cfg.asyncValidators, AsyncValidator(v))
		case []AsyncValidator:
			cfg.asyncValidators = append(cfg.asyncValidators, v...)
		case Config:
			cfg.merge(v)
		case *Config:
			if v != nil {
				cfg.merge(*v)
			}
		default:
			panic(fmt.Sprintf("forms: unsupported constructor argument of type %T", arg))
		}
	}
	return cfg
}

func (c *config) merge(in Config) {
	c.validators = append(c.validators, in.Validators...)
	c.asyncValidators = append(c.asyncValidators, in.AsyncValidators...)
	if in.UpdateOn != "" {
		c.updateOn = in.UpdateOn
	}
}
