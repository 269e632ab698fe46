package returns

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/debtrisk-cli/internal/config"
	"github.com/sells-group/debtrisk-cli/internal/model"
)

var nan = math.NaN()

func TestLabel(t *testing.T) {
	cfg := config.DefaultScoringConfig().Returns
	tests := []struct {
		ratio float64
		want  model.ReturnsLabel
	}{
		{0, model.ReturnsWithinStandard},
		{1.0, model.ReturnsWithinStandard},
		{1.01, model.ReturnsNeedsMonitoring},
		{1.5, model.ReturnsNeedsMonitoring},
		{2.0, model.ReturnsElevated},
		{2.01, model.ReturnsVeryElevated},
		{nan, model.ReturnsInsufficientData},
		{math.Inf(1), model.ReturnsInsufficientData},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.ratio, cfg), "ratio=%v", tt.ratio)
	}
}

func TestBenchmark(t *testing.T) {
	assert.Equal(t, 3.0, Benchmark([]float64{2, 4, 100}, []bool{true, true, false}))
	assert.Equal(t, 0.3333, Benchmark([]float64{1.0 / 3, nan}, []bool{true, true}))
	assert.True(t, math.IsNaN(Benchmark([]float64{0, 0}, []bool{true, true})))
	assert.True(t, math.IsNaN(Benchmark([]float64{nan, 5}, []bool{true, false})))
	assert.True(t, math.IsNaN(Benchmark(nil, nil)))
}

func TestCohort(t *testing.T) {
	recs := []model.CustomerRecord{
		{AvgQuarterlyPayment: 1000}, // 100% -> 10
		{AvgQuarterlyPayment: 50},   // 5% -> 5
		{AvgQuarterlyPayment: 40},   // 4% -> 4
		{AvgQuarterlyPayment: nan},
	}
	assert.Equal(t, []bool{true, true, false, false}, Cohort(recs, config.DefaultScoringConfig().PurchasePower))
}

func dataset(recs []model.CustomerRecord, roles ...model.Role) *model.Dataset {
	m := map[model.Role]string{model.RoleAvgQuarterlyPayment: "avg"}
	for _, r := range roles {
		m[r] = string(r)
	}
	return &model.Dataset{Records: recs, Mapping: m}
}

func TestClassify(t *testing.T) {
	recs := []model.CustomerRecord{
		{AvgQuarterlyPayment: 1000, ReturnsFromSales: 2, ReturnsNewType: 1},
		{AvgQuarterlyPayment: 500, ReturnsFromSales: 4, ReturnsNewType: nan},
		{AvgQuarterlyPayment: 10, ReturnsFromSales: 9, ReturnsNewType: 1},
		{AvgQuarterlyPayment: 800, ReturnsFromSales: nan, ReturnsNewType: math.Inf(1)},
	}
	res := Classify(dataset(recs, model.RoleReturnsFromSales, model.RoleReturnsNewType), config.DefaultScoringConfig())
	require.Len(t, res, 2)

	sales := res[0]
	assert.Equal(t, "from_sales", sales.Metric.Key)
	assert.Equal(t, 3.0, sales.Benchmark)
	assert.InDelta(t, 2.0/3, sales.Ratios[0], 1e-12)
	assert.Equal(t, model.ReturnsWithinStandard, sales.Labels[0])
	assert.Equal(t, model.ReturnsNeedsMonitoring, sales.Labels[1])
	assert.Equal(t, model.ReturnsVeryElevated, sales.Labels[2])
	assert.Equal(t, model.ReturnsInsufficientData, sales.Labels[3])

	newType := res[1]
	assert.Equal(t, 1.0, newType.Benchmark)
	assert.True(t, math.IsNaN(newType.Values[3]))
	assert.Equal(t, model.ReturnsInsufficientData, newType.Labels[3])

	tbl := Table(res)
	require.NotNil(t, tbl)
	assert.Len(t, tbl.Columns, 8)
	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, string(model.ReturnsVeryElevated), tbl.String(2, "from_sales"+SuffixLabel))
	assert.Equal(t, 3.0, tbl.Float(0, "from_sales"+SuffixBenchmark))
}

func TestClassify_EmptyCohortIsInsufficientData(t *testing.T) {
	// Leader alone scores 10; everybody else is below 5% of it.
	recs := []model.CustomerRecord{
		{AvgQuarterlyPayment: 1000, ReturnsCompensation: nan},
		{AvgQuarterlyPayment: 10, ReturnsCompensation: 3},
		{AvgQuarterlyPayment: 20, ReturnsCompensation: 5},
	}
	res := Classify(dataset(recs, model.RoleReturnsCompensation), config.DefaultScoringConfig())
	require.Len(t, res, 1)
	assert.True(t, math.IsNaN(res[0].Benchmark))
	for i, l := range res[0].Labels {
		assert.Equal(t, model.ReturnsInsufficientData, l, "row %d", i)
		assert.True(t, math.IsNaN(res[0].Ratios[i]))
	}

	// No record in the cohort at all.
	res = Classify(dataset([]model.CustomerRecord{{AvgQuarterlyPayment: 0, ReturnsCompensation: 3}}, model.RoleReturnsCompensation), config.DefaultScoringConfig())
	require.Len(t, res, 1)
	assert.Equal(t, model.ReturnsInsufficientData, res[0].Labels[0])
}

func TestClassify_Absent(t *testing.T) {
	recs := []model.CustomerRecord{{AvgQuarterlyPayment: 1}}
	assert.Nil(t, Classify(dataset(recs), config.DefaultScoringConfig()))
	assert.Nil(t, Table(nil))

	ds := &model.Dataset{Records: recs, Mapping: map[model.Role]string{model.RoleReturnsFromSales: "r"}}
	assert.Nil(t, Classify(ds, config.DefaultScoringConfig()))
}
