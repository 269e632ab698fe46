// Package returns classifies each customer's returns rates against a
// benchmark built from the mid purchase-power cohort of the same dataset.
package returns

import (
	"math"

	"github.com/sells-group/debtrisk-cli/internal/classify"
	"github.com/sells-group/debtrisk-cli/internal/config"
	"github.com/sells-group/debtrisk-cli/internal/frame"
	"github.com/sells-group/debtrisk-cli/internal/model"
	"github.com/sells-group/debtrisk-cli/internal/numeric"
	"github.com/sells-group/debtrisk-cli/internal/scoring"
)

// Purchase-power score range of the benchmark cohort, inclusive.
const (
	cohortMinScore = 5
	cohortMaxScore = 10
)

// TableName is the name of the returns table.
const TableName = "returns"

// Metric is one returns column.
type Metric struct {
	Key   string
	Role  model.Role
	Value func(model.CustomerRecord) float64
}

// Metrics lists the returns metrics in output order.
var Metrics = []Metric{
	{Key: "from_sales", Role: model.RoleReturnsFromSales, Value: func(r model.CustomerRecord) float64 { return r.ReturnsFromSales }},
	{Key: "new_type", Role: model.RoleReturnsNewType, Value: func(r model.CustomerRecord) float64 { return r.ReturnsNewType }},
	{Key: "compensation", Role: model.RoleReturnsCompensation, Value: func(r model.CustomerRecord) float64 { return r.ReturnsCompensation }},
}

// Column suffixes for each metric.
const (
	SuffixValue     = "_value"
	SuffixBenchmark = "_benchmark"
	SuffixRatio     = "_ratio"
	SuffixLabel     = "_label"
)

// Result is the classification of one metric.
type Result struct {
	Metric    Metric
	Benchmark float64
	Values    []float64
	Ratios    []float64
	Labels    []model.ReturnsLabel
}

// Cohort returns a mask of the records whose purchase-power score falls in
// the benchmark range.
func Cohort(recs []model.CustomerRecord, cfg config.PurchasePowerConfig) []bool {
	pct := classify.PurchasePowerPct(recs)
	out := make([]bool, len(recs))
	for i, p := range pct {
		if numeric.IsMissing(p) {
			continue
		}
		s := scoring.PurchasePower(p, cfg)
		out[i] = s >= cohortMinScore && s <= cohortMaxScore
	}
	return out
}

// Benchmark averages values over the cohort, rounded to 4 places. It is NaN
// when the cohort has no values or the mean is 0.
func Benchmark(values []float64, cohort []bool) float64 {
	var rows []int
	for i, in := range cohort {
		if in {
			rows = append(rows, i)
		}
	}
	mean := frame.MeanRows(rows, func(i int) float64 { return values[i] })
	if math.IsNaN(mean) || mean == 0 {
		return math.NaN()
	}
	return numeric.Round(mean, 4)
}

// Label classifies a returns-to-benchmark ratio.
func Label(ratio float64, cfg config.ReturnsConfig) model.ReturnsLabel {
	switch {
	case numeric.IsMissing(ratio):
		return model.ReturnsInsufficientData
	case ratio <= cfg.WithinStandard:
		return model.ReturnsWithinStandard
	case ratio <= cfg.NeedsMonitoring:
		return model.ReturnsNeedsMonitoring
	case ratio <= cfg.Elevated:
		return model.ReturnsElevated
	default:
		return model.ReturnsVeryElevated
	}
}

// ClassifyMetric classifies one metric over every record.
func ClassifyMetric(recs []model.CustomerRecord, m Metric, cohort []bool, cfg config.ReturnsConfig) Result {
	n := len(recs)
	res := Result{
		Metric: m,
		Values: make([]float64, n),
		Ratios: make([]float64, n),
		Labels: make([]model.ReturnsLabel, n),
	}
	for i, r := range recs {
		v := m.Value(r)
		if math.IsInf(v, 0) {
			v = math.NaN()
		}
		res.Values[i] = v
	}

	res.Benchmark = Benchmark(res.Values, cohort)
	for i, v := range res.Values {
		res.Ratios[i] = numeric.Ratio(v, res.Benchmark)
		res.Labels[i] = Label(res.Ratios[i], cfg)
	}
	return res
}

// Classify classifies every mapped returns metric. It returns nil when the
// average payment or all returns columns are unmapped.
func Classify(ds *model.Dataset, cfg config.ScoringConfig) []Result {
	if !ds.Has(model.RoleAvgQuarterlyPayment) {
		return nil
	}

	var cohort []bool
	var out []Result
	for _, m := range Metrics {
		if !ds.Has(m.Role) {
			continue
		}
		if cohort == nil {
			cohort = Cohort(ds.Records, cfg.PurchasePower)
		}
		out = append(out, ClassifyMetric(ds.Records, m, cohort, cfg.Returns))
	}
	return out
}

// Table renders the results side by side, four columns per metric. It
// returns nil for no results.
func Table(results []Result) *model.Table {
	if len(results) == 0 {
		return nil
	}

	var cols []string
	for _, r := range results {
		k := r.Metric.Key
		cols = append(cols, k+SuffixValue, k+SuffixBenchmark, k+SuffixRatio, k+SuffixLabel)
	}
	t := model.NewTable(TableName, cols...)

	n := len(results[0].Values)
	for i := 0; i < n; i++ {
		row := make([]any, 0, len(cols))
		for _, r := range results {
			row = append(row, r.Values[i], r.Benchmark, r.Ratios[i], string(r.Labels[i]))
		}
		t.Append(row...)
	}
	return t
}
