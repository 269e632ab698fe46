// Package frame provides the small group-by and join primitives used to
// aggregate customer rows and broadcast the aggregates back onto them.
package frame

import "math"

// KeyFunc returns the group key of row i. ok is false for rows that belong
// to no group.
type KeyFunc[K comparable] func(i int) (key K, ok bool)

// Groups holds row indices per key, with keys in first-seen order.
type Groups[K comparable] struct {
	Keys []K
	Rows map[K][]int
}

// GroupBy partitions rows 0..n-1 by key.
func GroupBy[K comparable](n int, key KeyFunc[K]) *Groups[K] {
	g := &Groups[K]{Rows: make(map[K][]int)}
	for i := 0; i < n; i++ {
		k, ok := key(i)
		if !ok {
			continue
		}
		if _, seen := g.Rows[k]; !seen {
			g.Keys = append(g.Keys, k)
		}
		g.Rows[k] = append(g.Rows[k], i)
	}
	return g
}

// Len returns the number of groups.
func (g *Groups[K]) Len() int { return len(g.Keys) }

// Count returns the number of rows per group.
func (g *Groups[K]) Count() map[K]float64 {
	out := make(map[K]float64, len(g.Keys))
	for _, k := range g.Keys {
		out[k] = float64(len(g.Rows[k]))
	}
	return out
}

// Sum returns the per-group sum of value, skipping NaN values.
func (g *Groups[K]) Sum(value func(i int) float64) map[K]float64 {
	out := make(map[K]float64, len(g.Keys))
	for _, k := range g.Keys {
		out[k] = SumRows(g.Rows[k], value)
	}
	return out
}

// Rollup re-groups the aggregate agg by a coarser key and sums it. It is the
// "share within parent" denominator: e.g. (rep, class) totals rolled up by
// class.
func Rollup[K, P comparable](agg map[K]float64, parent func(K) P) map[P]float64 {
	out := make(map[P]float64)
	for k, v := range agg {
		if math.IsNaN(v) {
			continue
		}
		out[parent(k)] += v
	}
	return out
}

// Broadcast left-joins agg onto rows 0..n-1. Rows without a key, or whose
// key has no aggregate, get missing.
func Broadcast[K comparable, V any](n int, key KeyFunc[K], agg map[K]V, missing V) []V {
	out := make([]V, n)
	for i := range out {
		out[i] = missing
		k, ok := key(i)
		if !ok {
			continue
		}
		if v, found := agg[k]; found {
			out[i] = v
		}
	}
	return out
}

// SumRows sums value over the given rows, skipping NaN.
func SumRows(rows []int, value func(i int) float64) float64 {
	var sum float64
	for _, i := range rows {
		if v := value(i); !math.IsNaN(v) && !math.IsInf(v, 0) {
			sum += v
		}
	}
	return sum
}

// MeanRows averages value over the given rows, skipping NaN. It returns NaN
// when no row has a value.
func MeanRows(rows []int, value func(i int) float64) float64 {
	var sum float64
	var n int
	for _, i := range rows {
		if v := value(i); !math.IsNaN(v) && !math.IsInf(v, 0) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
