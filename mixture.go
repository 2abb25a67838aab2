package idrpseudo

import (
	"math"

	"github.com/cockroachdb/errors"
)

// 1/sqrt(2 * pi)
const invSqrt2Pi = 0.39894228040143267793994605993438186847585863116493465766592583

// MixtureParams describes a two-component Gaussian mixture. The signal component is
// N(Mu, Sigma) with weight Lambda, the noise component is the standard normal with
// weight 1-Lambda. MixtureParams is a plain value; every method is a pure function.
type MixtureParams struct {
	Mu     float64
	Sigma  float64
	Lambda float64
}

// Validate returns an error wrapping ErrInvalidParameter if Sigma is not strictly positive,
// Lambda is outside [0,1], or any field is NaN or infinite.
func (p MixtureParams) Validate() error {
	if math.IsNaN(p.Mu) || math.IsInf(p.Mu, 0) {
		return errors.Wrapf(ErrInvalidParameter, "mu must be finite, got %g", p.Mu)
	}
	if !(p.Sigma > 0) || math.IsInf(p.Sigma, 0) {
		return errors.Wrapf(ErrInvalidParameter, "sigma must be positive and finite, got %g", p.Sigma)
	}
	if !(p.Lambda >= 0 && p.Lambda <= 1) {
		return errors.Wrapf(ErrInvalidParameter, "lambda must be in [0,1], got %g", p.Lambda)
	}
	return nil
}

// CDF returns the mixture cumulative distribution function at x:
//
//	0.5 * [ (1-lambda)*erf(x/sqrt2) + lambda*erf((x-mu)/(sigma*sqrt2)) + 1 ]
//
// sigma must be positive; this is not checked.
func CDF(x, mu, sigma, lambda float64) float64 {
	return 0.5 * ((1-lambda)*math.Erf(x/math.Sqrt2) + lambda*math.Erf((x-mu)/(sigma*math.Sqrt2)) + 1)
}

// CDFD1 returns the first derivative of CDF with respect to x.
//
// The signal term is not divided by sigma, so for sigma != 1 this is not the exact
// derivative of CDF. The closed form is kept as is because existing pseudo-values
// were computed with it.
func CDFD1(x, mu, sigma, lambda float64) float64 {
	z := (x - mu) / sigma
	return invSqrt2Pi * (lambda*math.Exp(-0.5*z*z) + (1-lambda)*math.Exp(-0.5*x*x))
}

// CDFD1And2 returns the first and second derivatives of CDF with respect to x.
// d1 is identical to CDFD1.
func CDFD1And2(x, mu, sigma, lambda float64) (d1, d2 float64) {
	z := (x - mu) / sigma
	noise := (1 - lambda) * math.Exp(-0.5*x*x)
	signal := lambda * math.Exp(-0.5*z*z)
	d1 = invSqrt2Pi * (signal + noise)
	d2 = -invSqrt2Pi * (x*noise + (z/(sigma*sigma))*signal)
	return d1, d2
}

func (p MixtureParams) CDF(x float64) float64 {
	return CDF(x, p.Mu, p.Sigma, p.Lambda)
}

func (p MixtureParams) CDFD1(x float64) float64 {
	return CDFD1(x, p.Mu, p.Sigma, p.Lambda)
}

func (p MixtureParams) CDFD1And2(x float64) (float64, float64) {
	return CDFD1And2(x, p.Mu, p.Sigma, p.Lambda)
}

// CDFEach returns CDF(xs[i]) for each i.
func (p MixtureParams) CDFEach(xs []float64) []float64 {
	res := make([]float64, len(xs))
	a := 1 / (p.Sigma * math.Sqrt2)
	for i, x := range xs {
		res[i] = 0.5 * ((1-p.Lambda)*math.Erf(x/math.Sqrt2) + p.Lambda*math.Erf((x-p.Mu)*a) + 1)
	}
	return res
}
