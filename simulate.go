package idrpseudo

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// SimulationParams describes two replicate measurements of a mixture of reproducible
// signal and independent noise. Signal pairs are bivariate normal with mean (Mu, Mu),
// per-replicate standard deviation Sigma and correlation Rho, i.e. covariance
// [[Sigma², Rho·Sigma²], [Rho·Sigma², Sigma²]]; noise pairs are independent standard normals. SignalFraction is the share of signal pairs.
type SimulationParams struct {
	Mu             float64
	Sigma          float64
	Rho            float64
	SignalFraction float64
}

func (sp SimulationParams) validate() error {
	if math.IsNaN(sp.Mu) || math.IsInf(sp.Mu, 0) {
		return errors.Wrapf(ErrInvalidParameter, "mu must be finite, got %g", sp.Mu)
	}
	if !(sp.Sigma > 0) || math.IsInf(sp.Sigma, 0) {
		return errors.Wrapf(ErrInvalidParameter, "sigma must be positive and finite, got %g", sp.Sigma)
	}
	if !(sp.Rho >= -1 && sp.Rho <= 1) {
		return errors.Wrapf(ErrInvalidParameter, "rho must be in [-1,1], got %g", sp.Rho)
	}
	if !(sp.SignalFraction >= 0 && sp.SignalFraction <= 1) {
		return errors.Wrapf(ErrInvalidParameter, "signal fraction must be in [0,1], got %g", sp.SignalFraction)
	}
	return nil
}

// Replicates holds simulated values of two replicates and their 0-indexed ranks.
// Index i refers to the same simulated pair in every slice.
type Replicates struct {
	Values1 []float64
	Values2 []float64
	Ranks1  []int
	Ranks2  []int
	// Signal[i] reports whether pair i was drawn from the signal component.
	Signal []bool
}

// Simulate draws n pairs: the first int(n*SignalFraction) from the signal component,
// the rest from the noise component. The same seed yields the same replicates; seed 0
// picks a random seed.
func Simulate(n int, sp SimulationParams, seed uint64) (Replicates, error) {
	if n < 0 {
		return Replicates{}, errors.Wrapf(ErrInvalidParameter, "n must not be negative, got %d", n)
	}
	if err := sp.validate(); err != nil {
		return Replicates{}, err
	}

	src := NewDPRNG(seed)
	unit := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	nSignal := int(float64(n) * sp.SignalFraction)
	rep := Replicates{
		Values1: make([]float64, n),
		Values2: make([]float64, n),
		Signal:  make([]bool, n),
	}
	signal, err := sp.signalPairs(src)
	if err != nil {
		return Replicates{}, err
	}
	pair := make([]float64, 2)
	for i := range n {
		if i < nSignal {
			signal(pair)
			rep.Values1[i], rep.Values2[i] = pair[0], pair[1]
			rep.Signal[i] = true
		} else {
			rep.Values1[i] = unit.Rand()
			rep.Values2[i] = unit.Rand()
		}
	}
	rep.Ranks1 = Ranks(rep.Values1)
	rep.Ranks2 = Ranks(rep.Values2)
	return rep, nil
}

// signalPairs returns a function filling dst with one signal pair. For |Rho| = 1 the
// covariance is singular, so the second value is derived from the first.
func (sp SimulationParams) signalPairs(src *DPRNG) (func(dst []float64), error) {
	if math.Abs(sp.Rho) == 1 {
		marginal := distuv.Normal{Mu: sp.Mu, Sigma: sp.Sigma, Src: src}
		return func(dst []float64) {
			dst[0] = marginal.Rand()
			if sp.Rho > 0 {
				dst[1] = dst[0]
			} else {
				dst[1] = 2*sp.Mu - dst[0]
			}
		}, nil
	}
	v := sp.Sigma * sp.Sigma
	cov := mat.NewSymDense(2, []float64{v, sp.Rho * v, sp.Rho * v, v})
	normal, ok := distmv.NewNormal([]float64{sp.Mu, sp.Mu}, cov, src)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidParameter, "covariance not positive definite (sigma %g, rho %g)", sp.Sigma, sp.Rho)
	}
	return func(dst []float64) { normal.Rand(dst) }, nil
}

// Ranks returns the 0-indexed rank of each value in xs, i.e. argsort(argsort(xs)).
// Ties are ranked in an unspecified but consistent order. xs is not modified.
func Ranks(xs []float64) []int {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	inds := make([]int, len(xs))
	floats.Argsort(sorted, inds)
	ranks := make([]int, len(xs))
	for r, i := range inds {
		ranks[i] = r
	}
	return ranks
}
