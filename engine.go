package idrpseudo

import (
	"context"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Strategy names the root-finding strategy an Engine uses.
type Strategy string

const (
	// StrategyBracketing uses BrentSolver only. It always converges for an isolating bracket.
	StrategyBracketing Strategy = "bracketing"
	// StrategyHalley and StrategyNewton use an AcceleratedSolver that falls back to BrentSolver.
	StrategyHalley Strategy = "halley"
	StrategyNewton Strategy = "newton"
)

// ParseStrategy maps a case-insensitive name to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyBracketing, StrategyHalley, StrategyNewton:
		return st, nil
	case "", "brent":
		return StrategyBracketing, nil
	}
	return "", errors.Wrapf(ErrInvalidParameter, "unknown strategy %q", s)
}

// Config controls how an Engine computes pseudo-values.
type Config struct {
	Strategy Strategy
	Bracket  Bracket

	// Tolerance is the absolute x tolerance of the bracketing solver.
	Tolerance float64

	// Settings of the accelerated strategies; ignored for StrategyBracketing.
	MaxIterations int
	StepTolerance float64
	MinDensity    float64

	// Workers > 1 spreads ranks over that many goroutines.
	Workers int

	Logger *zap.Logger
}

// DefaultConfig returns the configuration used by ComputePseudoValues.
func DefaultConfig() Config {
	return Config{
		Strategy:      StrategyBracketing,
		Bracket:       DefaultBracket,
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
		StepTolerance: DefaultStepTolerance,
		MinDensity:    DefaultMinDensity,
		Workers:       1,
	}
}

func (c Config) Validate() error {
	if _, err := ParseStrategy(string(c.Strategy)); err != nil {
		return err
	}
	if err := c.Bracket.validate(); err != nil {
		return err
	}
	if !(c.Tolerance > 0) {
		return errors.Wrapf(ErrInvalidParameter, "tolerance must be positive, got %g", c.Tolerance)
	}
	if c.MaxIterations < 1 {
		return errors.Wrapf(ErrInvalidParameter, "max iterations must be at least 1, got %d", c.MaxIterations)
	}
	if !(c.StepTolerance > 0) {
		return errors.Wrapf(ErrInvalidParameter, "step tolerance must be positive, got %g", c.StepTolerance)
	}
	if !(c.MinDensity > 0) {
		return errors.Wrapf(ErrInvalidParameter, "min density must be positive, got %g", c.MinDensity)
	}
	if c.Workers < 1 {
		return errors.Wrapf(ErrInvalidParameter, "workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// Engine converts ranks into pseudo-values. An Engine is immutable after construction and
// may be shared between goroutines.
type Engine struct {
	cfg    Config
	solver Solver
	logger *zap.Logger
}

// NewEngine validates cfg and builds the solver it selects.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Strategy, _ = ParseStrategy(string(cfg.Strategy))
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var solver Solver
	switch cfg.Strategy {
	case StrategyBracketing:
		solver = BrentSolver{Tolerance: cfg.Tolerance}
	case StrategyHalley, StrategyNewton:
		method := Halley
		if cfg.Strategy == StrategyNewton {
			method = Newton
		}
		solver = AcceleratedSolver{
			Method:        method,
			MaxIterations: cfg.MaxIterations,
			StepTolerance: cfg.StepTolerance,
			MinDensity:    cfg.MinDensity,
			Fallback:      BrentSolver{Tolerance: cfg.Tolerance},
			Logger:        logger,
		}
	}
	return &Engine{cfg: cfg, solver: solver, logger: logger}, nil
}

// Config returns the validated configuration of e.
func (e *Engine) Config() Config {
	return e.cfg
}

// Solver returns the solver e drives per rank.
func (e *Engine) Solver() Solver {
	return e.solver
}

// NormalizeRanks maps each 0-indexed rank r of a sequence of length N to (r+1)/(N+1).
func NormalizeRanks(ranks []int) []float64 {
	res := make([]float64, len(ranks))
	denom := float64(len(ranks) + 1)
	for i, r := range ranks {
		res[i] = float64(r+1) / denom
	}
	return res
}

// ComputePseudoValues returns, for each ranks[i], the x with CDF(x; p) = (ranks[i]+1)/(N+1),
// where N = len(ranks). The result has the same length and order as ranks. Repeated ranks are
// solved independently. A root outside the configured bracket is reported as a *BracketError;
// it is up to the caller to widen the bracket.
func (e *Engine) ComputePseudoValues(ranks []int, p MixtureParams) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	for i, r := range ranks {
		if r < 0 {
			return nil, errors.Wrapf(ErrInvalidParameter, "rank at index %d is negative (%d)", i, r)
		}
	}

	targets := NormalizeRanks(ranks)
	out := make([]float64, len(ranks))
	e.logger.Debug("computing pseudo-values",
		zap.Int("ranks", len(ranks)),
		zap.String("strategy", string(e.cfg.Strategy)),
		zap.Float64("mu", p.Mu),
		zap.Float64("sigma", p.Sigma),
		zap.Float64("lambda", p.Lambda),
		zap.Int("workers", e.cfg.Workers))

	solveAt := func(i int) error {
		x, err := e.solver.Solve(p, targets[i], e.cfg.Bracket)
		if err != nil {
			return errors.Wrapf(err, "rank %d at index %d", ranks[i], i)
		}
		out[i] = x
		return nil
	}

	if e.cfg.Workers <= 1 || len(ranks) < 2 {
		for i := range ranks {
			if err := solveAt(i); err != nil {
				return nil, err
			}
		}
	} else if err := e.solveParallel(len(ranks), solveAt); err != nil {
		return nil, err
	}

	e.logger.Debug("computed pseudo-values", zap.Int("ranks", len(out)))
	return out, nil
}

// solveParallel splits [0,n) into contiguous chunks, one goroutine per chunk, at most
// cfg.Workers running at a time. Each index is written by exactly one goroutine.
// The first error stops all chunks.
func (e *Engine) solveParallel(n int, solveAt func(int) error) error {
	workers := min(e.cfg.Workers, n)
	chunk := int(math.Ceil(float64(n) / float64(workers*4)))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := solveAt(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// ComputePseudoValues converts ranks with DefaultConfig, i.e. Brent's method on [-10, 10].
func ComputePseudoValues(ranks []int, mu, sigma, lambda float64) ([]float64, error) {
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		return nil, err
	}
	return e.ComputePseudoValues(ranks, MixtureParams{Mu: mu, Sigma: sigma, Lambda: lambda})
}
