package idrpseudo

import (
	"math"
	"slices"
)

// Median returns the median of data without modifying it. For an even number of
// elements it returns the mean of the two middle ones. Median of no data is NaN.
func Median(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(data)
	slices.Sort(sorted)
	l := len(sorted)
	if l%2 == 0 {
		return (sorted[l/2-1] + sorted[l/2]) / 2
	}
	return sorted[l/2]
}

// partition rearranges xs[low..high] around xs[high] and returns the pivot's final index.
func partition(xs []float64, low, high int) int {
	pivot := xs[high]
	i := low
	for j := low; j < high; j++ {
		if xs[j] < pivot {
			xs[i], xs[j] = xs[j], xs[i]
			i++
		}
	}
	xs[i], xs[high] = xs[high], xs[i]
	return i
}

// quickselect finds the k-th smallest element (0-based) in expected O(n) time.
// see https://en.wikipedia.org/wiki/Quickselect
func quickselect(xs []float64, k int, rng *DPRNG) float64 {
	low, high := 0, len(xs)-1
	for low < high {
		pivotIndex := low + int(rng.UInt32N(uint32(high-low+1)))
		xs[pivotIndex], xs[high] = xs[high], xs[pivotIndex]
		p := partition(xs, low, high)
		switch {
		case p == k:
			return xs[p]
		case p < k:
			low = p + 1
		default:
			high = p - 1
		}
	}
	return xs[k]
}

// QuickMedian returns the median of xs in expected O(n) time. For an even number of
// elements it returns the higher of the two middle ones. QuickMedian reorders xs; pass a
// copy if the order matters. QuickMedian of no data is NaN.
func QuickMedian(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return quickselect(xs, len(xs)/2, NewDPRNG())
}
