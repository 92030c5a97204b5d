package nitrogen

import "errors"

var (
	// ErrInvalidParameter reports a perturbation outside its domain.
	// Recoverable: callers reject the input and keep the previous result.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDegenerateBaseline reports a partition group whose baseline total is zero.
	// Fatal at startup: the reference dataset is defective.
	ErrDegenerateBaseline = errors.New("degenerate baseline")

	// ErrMissingFlowKey reports a flow table lacking one of the graph's keys.
	ErrMissingFlowKey = errors.New("missing flow key")

	// ErrUnknownFlowKey reports a flow table carrying a key the graph does not define.
	ErrUnknownFlowKey = errors.New("unknown flow key")
)
