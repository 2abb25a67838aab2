package idrpseudo

import (
	"math"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Method selects the update rule of an AcceleratedSolver.
type Method int

const (
	Halley Method = iota
	Newton
)

func (m Method) String() string {
	switch m {
	case Halley:
		return "halley"
	case Newton:
		return "newton"
	}
	return "unknown"
}

const (
	DefaultMaxIterations = 50
	DefaultStepTolerance = 1e-6
	DefaultMinDensity    = 0.1

	// below this magnitude a Halley denominator is treated as zero
	halleyDenomFloor = 1e-300
)

// NewtonStep performs one damped Newton update for CDF(x; p) = target:
//
//	x - f(x) / max(minDensity, 1e-12 + f'(x)),  f(x) = CDF(x) - target
//
// The density floor keeps the step bounded where the density vanishes, at the price of
// linear rather than quadratic convergence in that region.
func NewtonStep(p MixtureParams, target, x, minDensity float64) float64 {
	f := p.CDF(x) - target
	d := 1e-12 + p.CDFD1(x)
	return x - f/math.Max(minDensity, d)
}

// HalleyStep performs one Halley update for CDF(x; p) = target:
//
//	x - 2*f*d1 / (2*d1^2 - f*d2)
//
// It returns ErrNumericalDivergence if the denominator underflows to (near) zero.
func HalleyStep(p MixtureParams, target, x float64) (float64, error) {
	f := p.CDF(x) - target
	d1, d2 := p.CDFD1And2(x)
	num := 2 * f * d1
	denom := 2*d1*d1 - f*d2
	if math.Abs(denom) < halleyDenomFloor || math.IsNaN(denom) {
		return math.NaN(), errors.Wrapf(ErrNumericalDivergence, "halley: denominator %g at x=%g", denom, x)
	}
	return x - num/denom, nil
}

// AcceleratedSolver inverts the mixture CDF with Newton or Halley iterations started from
// a guess. It has no convergence guarantee of its own: when the iteration diverges, leaves the
// bracket or runs out of iterations, the solve is handed to Fallback. With a nil Fallback the
// ErrNumericalDivergence is returned instead. An unconverged iterate is never returned.
type AcceleratedSolver struct {
	Method Method

	// MaxIterations caps the number of updates. Zero means DefaultMaxIterations.
	MaxIterations int
	// StepTolerance stops the iteration once |x_{n+1} - x_n| falls below it.
	// Zero means DefaultStepTolerance.
	StepTolerance float64
	// MinDensity is the derivative floor of NewtonStep. Zero means DefaultMinDensity.
	MinDensity float64

	// Guess returns the starting point. Nil means target*Mu, clamped into the bracket.
	Guess func(p MixtureParams, target float64) float64

	Fallback Solver
	Logger   *zap.Logger
}

// NewAcceleratedSolver returns an AcceleratedSolver using m with default settings and a
// BrentSolver with the given tolerance as fallback.
func NewAcceleratedSolver(m Method, tolerance float64, logger *zap.Logger) AcceleratedSolver {
	return AcceleratedSolver{
		Method:   m,
		Fallback: BrentSolver{Tolerance: tolerance},
		Logger:   logger,
	}
}

func (s AcceleratedSolver) Solve(p MixtureParams, target float64, br Bracket) (float64, error) {
	if _, _, err := br.isolate(p, target); err != nil {
		return math.NaN(), err
	}
	x0 := p.Mu * target
	if s.Guess != nil {
		x0 = s.Guess(p, target)
	}
	x0 = math.Min(math.Max(x0, br.Lower), br.Upper)

	x, steps, err := s.Iterate(p, target, x0, br)
	if err == nil {
		return x, nil
	}
	if s.Fallback == nil || !errors.Is(err, ErrNumericalDivergence) {
		return math.NaN(), err
	}
	s.logger().Debug("accelerated solve diverged, falling back",
		zap.Stringer("method", s.Method),
		zap.Float64("target", target),
		zap.Float64("x0", x0),
		zap.Int("steps", steps),
		zap.Error(err))
	return s.Fallback.Solve(p, target, br)
}

// Iterate runs the update rule from x0 and returns the converged root together with the
// number of updates performed. It does not consult Fallback.
func (s AcceleratedSolver) Iterate(p MixtureParams, target, x0 float64, br Bracket) (float64, int, error) {
	maxIter := s.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	tol := s.StepTolerance
	if tol <= 0 {
		tol = DefaultStepTolerance
	}
	minDensity := s.MinDensity
	if minDensity <= 0 {
		minDensity = DefaultMinDensity
	}

	x := x0
	for i := 1; i <= maxIter; i++ {
		var next float64
		switch s.Method {
		case Newton:
			next = NewtonStep(p, target, x, minDensity)
		case Halley:
			var err error
			if next, err = HalleyStep(p, target, x); err != nil {
				return math.NaN(), i, err
			}
		default:
			return math.NaN(), 0, errors.Wrapf(ErrInvalidParameter, "unknown method %d", int(s.Method))
		}
		if math.IsNaN(next) || math.IsInf(next, 0) || next < br.Lower || next > br.Upper {
			return math.NaN(), i, errors.Wrapf(ErrNumericalDivergence, "%s: iterate %g left bracket [%g, %g]", s.Method, next, br.Lower, br.Upper)
		}
		if math.Abs(next-x) < tol {
			return next, i, nil
		}
		x = next
	}
	return math.NaN(), maxIter, errors.Wrapf(ErrNumericalDivergence, "%s: no convergence after %d iterations (target %g)", s.Method, maxIter, target)
}

func (s AcceleratedSolver) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
