// Package report runs every analysis over one dataset and assembles the
// output tables, including the unified table that merges them all onto the
// input columns.
package report

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/debtrisk-cli/internal/classify"
	"github.com/sells-group/debtrisk-cli/internal/config"
	"github.com/sells-group/debtrisk-cli/internal/delta"
	"github.com/sells-group/debtrisk-cli/internal/model"
	"github.com/sells-group/debtrisk-cli/internal/returns"
	"github.com/sells-group/debtrisk-cli/internal/turnover"
)

// Column prefixes of the unified table.
const (
	PrefixMain    = "[main] "
	PrefixDelta   = "[delta] "
	PrefixReturns = "[returns] "
	PrefixRep     = "[rep] "
)

// UnifiedTableName is the name of the unified table.
const UnifiedTableName = "unified"

// Report holds every output table of one run. Optional tables are nil when
// their inputs are not mapped.
type Report struct {
	RunID     string
	Source    string
	Mapping   map[model.Role]string
	Result    *classify.Result
	Main      *model.Table
	Delta     *model.Table
	Returns   *model.Table
	Turnover  *model.Table
	Summaries []turnover.Summary
	Unified   *model.Table
}

// Tables returns the non-nil tables in sheet order, without the unified one.
func (r *Report) Tables() []*model.Table {
	var out []*model.Table
	for _, t := range []*model.Table{r.Main, r.Delta, r.Returns, r.Turnover} {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

// Build classifies ds and computes the auxiliary tables. It fails only when
// a required column is missing, in which case no report is produced.
func Build(ds *model.Dataset, cfg config.ScoringConfig, source string) (*Report, error) {
	start := time.Now()
	runID := uuid.New().String()
	log := zap.L().With(zap.String("run_id", runID), zap.String("source", source))

	res, err := classify.Classify(ds, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "report: classify")
	}

	r := &Report{
		RunID:   runID,
		Source:  source,
		Mapping: ds.Mapping,
		Result:  res,
		Main:    res.Table(),
		Delta:   delta.Compute(ds, cfg.Delta),
		Returns: returns.Table(returns.Classify(ds, cfg)),
	}

	r.Summaries = turnover.Aggregate(ds)
	if r.Summaries != nil {
		r.Turnover = turnover.SummaryTable(r.Summaries)
	}
	r.Unified = unify(ds, r)

	counts := res.Counts()
	fields := []zap.Field{
		zap.Int("rows", ds.Len()),
		zap.Bool("delta", r.Delta != nil),
		zap.Bool("returns", r.Returns != nil),
		zap.Int("representatives", len(r.Summaries)),
		zap.Duration("elapsed", time.Since(start)),
	}
	for _, c := range model.Classes {
		fields = append(fields, zap.Int("class_"+string(c), counts[c]))
	}
	log.Info("report: built", fields...)

	return r, nil
}

// unify merges the input columns with the prefixed result columns of
// every table, row by row. Turnover is joined on the representative key and
// is always present, NaN when no representative column is mapped.
func unify(ds *model.Dataset, r *Report) *model.Table {
	cols := append([]string(nil), ds.Header...)

	type part struct {
		table  *model.Table
		prefix string
		skip   map[string]bool
	}
	parts := []part{
		{table: r.Main, prefix: PrefixMain},
		{table: r.Delta, prefix: PrefixDelta, skip: map[string]bool{delta.ColAvg: true, delta.ColHigh: true}},
		{table: r.Returns, prefix: PrefixReturns},
		{table: turnover.Join(ds, r.Summaries), prefix: PrefixRep, skip: map[string]bool{turnover.ColCustomers: true}},
	}

	type source struct {
		table *model.Table
		col   int
	}
	var sources []source
	for _, p := range parts {
		if p.table == nil {
			continue
		}
		for j, c := range p.table.Columns {
			if p.skip[c] {
				continue
			}
			cols = append(cols, p.prefix+c)
			sources = append(sources, source{table: p.table, col: j})
		}
	}

	t := model.NewTable(UnifiedTableName, cols...)
	t.InputColumns = len(ds.Header)
	for i := 0; i < ds.Len(); i++ {
		row := make([]any, 0, len(cols))
		var raw []string
		if i < len(ds.Raw) {
			raw = ds.Raw[i]
		}
		for j := range ds.Header {
			if j < len(raw) {
				row = append(row, raw[j])
			} else {
				row = append(row, "")
			}
		}
		for _, s := range sources {
			if i < s.table.Len() {
				row = append(row, s.table.Rows[i][s.col])
			} else {
				row = append(row, math.NaN())
			}
		}
		t.Append(row...)
	}
	return t
}
