package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	rep   string
	class string
}

func TestGroupBy_FirstSeenOrderAndSkips(t *testing.T) {
	keys := []string{"b", "a", "", "b", "c", "a"}
	g := GroupBy(len(keys), func(i int) (string, bool) {
		return keys[i], keys[i] != ""
	})

	require.Equal(t, []string{"b", "a", "c"}, g.Keys)
	assert.Equal(t, []int{0, 3}, g.Rows["b"])
	assert.Equal(t, []int{1, 5}, g.Rows["a"])
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, map[string]float64{"b": 2, "a": 2, "c": 1}, g.Count())
}

func TestGroups_SumSkipsNaN(t *testing.T) {
	keys := []string{"x", "x", "y", "y"}
	vals := []float64{100, 200, math.NaN(), math.NaN()}
	g := GroupBy(len(keys), func(i int) (string, bool) { return keys[i], true })

	sum := g.Sum(func(i int) float64 { return vals[i] })
	assert.Equal(t, 300.0, sum["x"])
	assert.Equal(t, 0.0, sum["y"])

	value := func(i int) float64 { return vals[i] }
	assert.Equal(t, 150.0, MeanRows(g.Rows["x"], value))
	assert.True(t, math.IsNaN(MeanRows(g.Rows["y"], value)))
	assert.True(t, math.IsNaN(MeanRows(nil, value)))
}

func TestRollup(t *testing.T) {
	agg := map[pair]float64{
		{"r1", "good"}: 100,
		{"r2", "good"}: 300,
		{"r1", "bad"}:  50,
		{"r3", "bad"}:  math.NaN(),
	}
	byClass := Rollup(agg, func(p pair) string { return p.class })
	assert.Equal(t, 400.0, byClass["good"])
	assert.Equal(t, 50.0, byClass["bad"])
}

func TestBroadcast_LeftJoin(t *testing.T) {
	keys := []string{"a", "", "b", "z"}
	agg := map[string]float64{"a": 1.5, "b": 2.5}
	got := Broadcast(len(keys), func(i int) (string, bool) {
		return keys[i], keys[i] != ""
	}, agg, math.NaN())

	require.Len(t, got, 4)
	assert.Equal(t, 1.5, got[0])
	assert.True(t, math.IsNaN(got[1]))
	assert.Equal(t, 2.5, got[2])
	assert.True(t, math.IsNaN(got[3]))
}
