// Package dispute implements the interactive bisection protocol that
// narrows a disputed range of state transitions down to a single index,
// and the single-step verifier that adjudicates it.
package dispute

import "errors"

// Sentinel errors for the bisection protocol and single-step verifier.
var (
	ErrInvalidState        = errors.New("dispute: operation invalid in current state")
	ErrInvalidRange        = errors.New("dispute: challenge range must satisfy 0 <= lo < hi <= leaf count")
	ErrInvalidMidpoint     = errors.New("dispute: midpoint out of bounds for current range")
	ErrNoResponse          = errors.New("dispute: no response recorded for current round")
	ErrRoundLimitExceeded  = errors.New("dispute: maximum bisection rounds exceeded")
	ErrInsufficientBalance = errors.New("dispute: transition debits more than the pre-state balance")
)
