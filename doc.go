// Package idrpseudo converts ranks into pseudo-values under a two-component Gaussian mixture.
//
// The mixture has a standard-normal noise component with weight 1-lambda and a N(mu, sigma)
// signal component with weight lambda. For a sequence of N 0-indexed ranks, rank r is mapped to
// p = (r+1)/(N+1) and the pseudo-value is the x with CDF(x) = p.
//
// The inverse has no closed form. BrentSolver is the default and always converges for a bracket
// that isolates the root. AcceleratedSolver uses Newton or Halley steps built on the closed-form
// derivatives CDFD1 and CDFD1And2 and falls back to BrentSolver when it diverges.
//
//	pv, err := idrpseudo.ComputePseudoValues([]int{0, 1, 2}, 1, 1, 0.5)
//
// Simulate produces synthetic replicate ranks from a known mixture, and TimeStrategy together
// with CompareStrategies measures which solver is faster on a given batch.
package idrpseudo
