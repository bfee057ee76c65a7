package sim

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// DiscreteDistribution is a precomputed probability table over a fixed
// integer support, sampled by inverse CDF via binary search.
type DiscreteDistribution struct {
	values []int     // support, ascending
	cdf    []float64 // cumulative probabilities (same length as values)
}

// NewDiscreteDistribution builds a table from parallel value/weight slices.
// Weights are normalized; non-positive weights drop their value from the
// support. If no weight is positive the support is sampled uniformly.
func NewDiscreteDistribution(values []int, weights []float64) *DiscreteDistribution {
	type bin struct {
		value  int
		weight float64
	}
	bins := make([]bin, 0, len(values))
	total := 0.0
	for i, v := range values {
		w := weights[i]
		if w <= 0 {
			continue
		}
		bins = append(bins, bin{v, w})
		total += w
	}
	if len(bins) == 0 {
		for _, v := range values {
			bins = append(bins, bin{v, 1})
		}
		total = float64(len(values))
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].value < bins[j].value })

	d := &DiscreteDistribution{
		values: make([]int, 0, len(bins)),
		cdf:    make([]float64, 0, len(bins)),
	}
	cumulative := 0.0
	for _, b := range bins {
		cumulative += b.weight / total
		d.values = append(d.values, b.value)
		d.cdf = append(d.cdf, cumulative)
	}
	// Ensure last CDF entry is exactly 1.0
	if len(d.cdf) > 0 {
		d.cdf[len(d.cdf)-1] = 1.0
	}
	return d
}

// NewTruncatedNormal discretizes a normal distribution onto the whole days
// [Min, Max]: day k gets the normal mass of [k-0.5, k+0.5), renormalized over
// the support.
func NewTruncatedNormal(cfg DurationConfig) *DiscreteDistribution {
	normal := distuv.Normal{Mu: cfg.Mean, Sigma: cfg.StdDev}
	values := make([]int, 0, cfg.Max-cfg.Min+1)
	weights := make([]float64, 0, cfg.Max-cfg.Min+1)
	for k := cfg.Min; k <= cfg.Max; k++ {
		values = append(values, k)
		weights = append(weights, normal.CDF(float64(k)+0.5)-normal.CDF(float64(k)-0.5))
	}
	return NewDiscreteDistribution(values, weights)
}

// Sample draws one value from the table. Consumes exactly one draw.
func (d *DiscreteDistribution) Sample(rng *rand.Rand) int {
	u := rng.Float64()
	if len(d.values) == 0 {
		return 0
	}
	idx := sort.SearchFloat64s(d.cdf, u)
	if idx >= len(d.values) {
		idx = len(d.values) - 1
	}
	return d.values[idx]
}

// Support returns the values with non-zero probability.
func (d *DiscreteDistribution) Support() []int {
	return append([]int(nil), d.values...)
}

// Probability returns the probability mass of v.
func (d *DiscreteDistribution) Probability(v int) float64 {
	idx := sort.SearchInts(d.values, v)
	if idx >= len(d.values) || d.values[idx] != v {
		return 0
	}
	if idx == 0 {
		return d.cdf[0]
	}
	return d.cdf[idx] - d.cdf[idx-1]
}
