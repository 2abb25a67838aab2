package idrpseudo

import (
	"math"

	"github.com/cockroachdb/errors"
)

// Bracket is a closed interval [Lower, Upper] assumed to contain the root of CDF(x) = target.
type Bracket struct {
	Lower float64
	Upper float64
}

// DefaultBracket is wide enough that CDF(-10) is about 0 and CDF(10) is about 1 for realistic
// mixture parameters. Callers with wider-tailed mixtures must supply their own.
var DefaultBracket = Bracket{Lower: -10, Upper: 10}

func (b Bracket) validate() error {
	if math.IsNaN(b.Lower) || math.IsNaN(b.Upper) || !(b.Lower < b.Upper) {
		return errors.Wrapf(ErrInvalidParameter, "bracket [%g, %g] is empty", b.Lower, b.Upper)
	}
	return nil
}

// isolate checks that CDF(Lower) < target < CDF(Upper) and returns the two end-point values
// of f(x) = CDF(x) - target.
func (b Bracket) isolate(p MixtureParams, target float64) (flow, fhigh float64, err error) {
	if err := p.Validate(); err != nil {
		return 0, 0, err
	}
	if err := b.validate(); err != nil {
		return 0, 0, err
	}
	cl, cu := p.CDF(b.Lower), p.CDF(b.Upper)
	if !(cl < target && target < cu) {
		return 0, 0, &BracketError{Target: target, Lower: b.Lower, Upper: b.Upper, CDFLower: cl, CDFUpper: cu}
	}
	return cl - target, cu - target, nil
}

// Solver finds x in b with CDF(x; p) = target. Implementations must be safe for concurrent use.
type Solver interface {
	Solve(p MixtureParams, target float64, b Bracket) (float64, error)
}

const (
	DefaultTolerance         = 1e-10
	defaultBrentMaxIteration = 1000
)

// BrentSolver inverts the mixture CDF with Brent's method (bisection combined with secant
// and inverse quadratic interpolation). Only CDF is evaluated. As long as the bracket isolates
// the root, it converges to within Tolerance of the root.
//
// At every step three abscissae are tracked:
//
//	b - the best approximation so far
//	a - the previous approximation
//	c - an earlier approximation with f(b) and f(c) of opposite sign, |f(b)| <= |f(c)|
//
// An interpolated step is taken when it lands well inside [b,c]; otherwise the interval is bisected.
type BrentSolver struct {
	// Tolerance is the absolute tolerance on x. Zero means DefaultTolerance.
	Tolerance float64
	// MaxIterations caps the number of steps. Zero means 1000.
	MaxIterations int
}

func (s BrentSolver) Solve(mp MixtureParams, target float64, br Bracket) (float64, error) {
	fa, fb, err := br.isolate(mp, target)
	if err != nil {
		return math.NaN(), err
	}
	tol := s.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	maxIter := s.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultBrentMaxIteration
	}
	f := func(x float64) float64 { return mp.CDF(x) - target }

	a, b := br.Lower, br.Upper
	c, fc := a, fa
	epsilon := math.Nextafter(1.0, 2.0) - 1.0

	for it := 0; it < maxIter; it++ {
		prevStep := b - a

		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tolAct := 2*epsilon*math.Abs(b) + tol/2
		newStep := (c - b) / 2

		if math.Abs(newStep) <= tolAct || fb == 0 {
			return b, nil
		}

		if math.Abs(prevStep) >= tolAct && math.Abs(fa) > math.Abs(fb) {
			var p, q float64
			cb := c - b
			if a == c {
				// linear interpolation
				t1 := fb / fa
				p = cb * t1
				q = 1.0 - t1
			} else {
				// inverse quadratic interpolation
				q = fa / fc
				t1 := fb / fc
				t2 := fb / fa
				p = t2 * (cb*q*(q-t1) - (b-a)*(t1-1.0))
				q = (q - 1.0) * (t1 - 1.0) * (t2 - 1.0)
			}
			if p > 0 {
				q = -q
			} else {
				p = -p
			}
			if p < (0.75*cb*q-math.Abs(tolAct*q)/2) && p < math.Abs(prevStep*q/2) {
				newStep = p / q
			}
		}
		if math.Abs(newStep) < tolAct {
			if newStep > 0 {
				newStep = tolAct
			} else {
				newStep = -tolAct
			}
		}

		a, fa = b, fb
		b += newStep
		fb = f(b)
		if (fb > 0 && fc > 0) || (fb < 0 && fc < 0) {
			c, fc = a, fa
		}
	}
	return math.NaN(), errors.Wrapf(ErrNumericalDivergence, "brent: no convergence after %d iterations (target %g)", maxIter, target)
}
