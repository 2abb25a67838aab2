package idrpseudo

import (
	"math"
	"slices"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/stat"
)

// MinimumDataPoints is the smallest number of timing runs per side CompareStrategies accepts.
const MinimumDataPoints = 11

// TimeStrategy runs e.ComputePseudoValues(ranks, p) runs times and returns the wall time of
// each run in nanoseconds.
func TimeStrategy(e *Engine, ranks []int, p MixtureParams, runs int) ([]float64, error) {
	if runs < 1 {
		return nil, errors.Wrapf(ErrInvalidParameter, "runs must be at least 1, got %d", runs)
	}
	times := make([]float64, runs)
	for i := range runs {
		start := SampleTime()
		if _, err := e.ComputePseudoValues(ranks, p); err != nil {
			return nil, errors.Wrapf(err, "timing run %d", i)
		}
		times[i] = float64(DiffTimeStamps(start, SampleTime()))
	}
	return times, nil
}

// TimingSummary condenses the run times of one strategy.
type TimingSummary struct {
	Runs   int
	Median float64
	Mean   float64
	StdDev float64
}

func SummarizeTimes(times []float64) TimingSummary {
	s := TimingSummary{Runs: len(times), Median: Median(times), Mean: math.NaN(), StdDev: math.NaN()}
	if len(times) > 0 {
		s.Mean = stat.Mean(times, nil)
	}
	if len(times) > 1 {
		s.StdDev = stat.StdDev(times, nil)
	}
	return s
}

// SpeedupConfidence is the estimated probability that sample A is faster than sample B by
// at least RelativeSpeedup (0.1 means 10% faster).
type SpeedupConfidence struct {
	RelativeSpeedup float64
	Confidence      float64
}

// CompareStrategies estimates, for each relative speedup in thresholds, the confidence that the
// run times in timesA are faster than those in timesB by at least that amount. Confidences come
// from reps bootstrap replicates of the median ratio, drawn with a DPRNG seeded with seed
// (0 for a random seed). Without thresholds, 0 is tested. The result is sorted by threshold.
func CompareStrategies(timesA, timesB, thresholds []float64, reps uint64, seed uint64) ([]SpeedupConfidence, error) {
	if len(timesA) < MinimumDataPoints || len(timesB) < MinimumDataPoints {
		return nil, errors.Wrapf(ErrInvalidParameter, "not enough data points: need at least %d runs per strategy, got %d and %d",
			MinimumDataPoints, len(timesA), len(timesB))
	}
	if reps == 0 {
		return nil, errors.Wrap(ErrInvalidParameter, "reps must be positive")
	}
	if len(thresholds) == 0 {
		thresholds = []float64{0}
	}
	thresholds = slices.Clone(thresholds)
	slices.Sort(thresholds)

	conf := bootstrapConfidence(timesA, timesB, thresholds, reps, NewDPRNG(seed))
	res := make([]SpeedupConfidence, 0, len(thresholds))
	for _, t := range thresholds {
		res = append(res, SpeedupConfidence{RelativeSpeedup: t, Confidence: conf[t]})
	}
	return res, nil
}

// bootstrapSample draws len(xs) elements of xs with replacement.
func bootstrapSample(xs []float64, rng *DPRNG) []float64 {
	sample := make([]float64, len(xs))
	if len(xs) == 0 {
		return sample
	}
	for i := range sample {
		sample[i] = xs[rng.UInt32N(uint32(len(xs)))]
	}
	return sample
}

// bootstrapConfidence counts, over reps replicates, how often 1 - median(A*)/median(B*) reaches
// each threshold. Replicates with a NaN delta count for no threshold. A vanishing median(B*)
// is replaced by a tiny scale-aware epsilon to keep the ratio finite.
func bootstrapConfidence(a, b, thresholds []float64, reps uint64, rng *DPRNG) map[float64]float64 {
	counts := make(map[float64]uint64, len(thresholds))
	for range reps {
		medA := QuickMedian(bootstrapSample(a, rng))
		medB := QuickMedian(bootstrapSample(b, rng))

		var delta float64
		switch {
		case math.IsNaN(medA) || math.IsNaN(medB):
			delta = math.NaN()
		case medA == medB:
			delta = 0
		default:
			denom := medB
			if eps := math.Max(math.Abs(medB)*1e-12, math.SmallestNonzeroFloat64); math.Abs(medB) < eps {
				denom = eps
			}
			delta = 1 - medA/denom
		}
		for _, t := range thresholds {
			if delta >= t {
				counts[t]++
			}
		}
	}

	conf := make(map[float64]float64, len(thresholds))
	for _, t := range thresholds {
		conf[t] = float64(counts[t]) / float64(reps)
	}
	return conf
}
