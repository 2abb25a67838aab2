package idrpseudo

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidParameter reports a precondition violation: sigma <= 0, lambda outside [0,1],
	// a negative rank, or an unusable configuration value. It is not recoverable.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNumericalDivergence reports that an iterative solve did not converge within its
	// iteration cap, left the bracket, or hit a vanishing denominator.
	ErrNumericalDivergence = errors.New("numerical divergence")
)

// BracketError is returned when the target is not strictly between CDF(Lower) and CDF(Upper),
// i.e. the root is not isolated by the bracket. Callers should retry with a wider bracket.
type BracketError struct {
	Target   float64
	Lower    float64
	Upper    float64
	CDFLower float64
	CDFUpper float64
}

func (e *BracketError) Error() string {
	return fmt.Sprintf("root not bracketed: target %g not in (CDF(%g)=%g, CDF(%g)=%g)",
		e.Target, e.Lower, e.CDFLower, e.Upper, e.CDFUpper)
}
