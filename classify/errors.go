package classify

import "errors"

// Evaluation error kinds. Both are per-packet conditions the policy
// layer treats as "rule does not match"; they never bubble up as server
// failures.
var (
	// ErrTypeMismatch reports an operand of the wrong kind: non-boolean
	// logic operands, incomparable equality operands, a .hex or .exists
	// on something that has no byte form or is not an option access, or
	// a rule whose top-level result is not boolean.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrMissingField reports a use of an absent option or sub-option
	// anywhere other than under .exists.
	ErrMissingField = errors.New("missing field")
)
