package vi

import "errors"

var (
	// ErrInvalidParameter is returned for a time horizon or accuracy outside its domain,
	// negative rates and lattices larger than the configured bound
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrDegenerateModel is returned when no action has a nonzero rate anywhere
	ErrDegenerateModel = errors.New("degenerate model: no enabled transitions")
	// ErrUnreachableState is returned when induction references a product state
	// that was never initialized
	ErrUnreachableState = errors.New("unreachable product state access")
)
