package report

import (
	"math"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/debtrisk-cli/internal/classify"
	"github.com/sells-group/debtrisk-cli/internal/config"
	"github.com/sells-group/debtrisk-cli/internal/ingest"
	"github.com/sells-group/debtrisk-cli/internal/model"
	"github.com/sells-group/debtrisk-cli/internal/turnover"
)

func loadSheet(t *testing.T, header []string, rows ...[]string) *model.Dataset {
	t.Helper()
	ds, err := ingest.Load(&ingest.Sheet{Header: header, Rows: rows}, ingest.DefaultAliases, nil)
	require.NoError(t, err)
	return ds
}

func TestBuild_Full(t *testing.T) {
	ds := loadSheet(t,
		[]string{"customer", "debt", "avg_quarterly_payment", "peer_high_avg", "representative_id", "representative_name", "monthly_payment", "returns pct from sales"},
		[]string{"c1", "1000", "200", "250", "7", "Sami", "50", "2"},
		[]string{"c2", "100", "100", "100", "7", "Sami", "30", "4"},
		[]string{"c3", "50", "0", "", "", "", "", ""},
	)

	r, err := Build(ds, config.DefaultScoringConfig(), "test.csv")
	require.NoError(t, err)

	assert.NotEmpty(t, r.RunID)
	assert.Equal(t, "test.csv", r.Source)
	require.NotNil(t, r.Main)
	require.NotNil(t, r.Delta)
	require.NotNil(t, r.Returns)
	require.NotNil(t, r.Turnover)
	assert.Len(t, r.Tables(), 4)
	assert.Equal(t, 3, r.Main.Len())

	require.Len(t, r.Summaries, 1)
	assert.InDelta(t, 300.0/1100, r.Summaries[0].QuarterlyTurnover, 1e-12)

	u := r.Unified
	require.NotNil(t, u)
	assert.Equal(t, 3, u.Len())
	assert.Equal(t, "customer", u.Columns[0])
	assert.Equal(t, len(ds.Header), u.InputColumns)
	assert.Equal(t, "c1", u.String(0, "customer"))
	assert.Equal(t, "1000", u.String(0, "debt"))
	assert.Equal(t, string(r.Result.Rows[0].Class), u.String(0, PrefixMain+classify.ColFinalClass))
	assert.Equal(t, -0.25, u.Float(0, PrefixDelta+"delta_ratio"))
	assert.Equal(t, -1, u.Index(PrefixDelta+"avg_quarterly_payment"))
	assert.Equal(t, "within_standard", u.String(0, PrefixReturns+"from_sales_label"))
	assert.InDelta(t, 300.0/1100, u.Float(1, PrefixRep+turnover.ColQuarterlyTurnover), 1e-12)
	assert.True(t, math.IsNaN(u.Float(2, PrefixRep+turnover.ColQuarterlyTurnover)))
	assert.Equal(t, -1, u.Index(PrefixRep+turnover.ColCustomers))
}

func TestBuild_RequiredOnly(t *testing.T) {
	ds := loadSheet(t, []string{"debt", "avg_quarterly_payment"}, []string{"10", "x"})

	r, err := Build(ds, config.DefaultScoringConfig(), "min.csv")
	require.NoError(t, err)
	assert.Nil(t, r.Delta)
	assert.Nil(t, r.Returns)
	assert.Nil(t, r.Turnover)
	assert.Len(t, r.Tables(), 1)

	// Turnover columns are still part of the unified table.
	assert.True(t, math.IsNaN(r.Unified.Float(0, PrefixRep+turnover.ColMonthlyTurnover)))
	assert.False(t, math.IsNaN(r.Unified.Float(0, PrefixMain+classify.ColTotalScore)))
}

func TestBuild_MissingColumn(t *testing.T) {
	ds := loadSheet(t, []string{"debt", "other"}, []string{"10", "1"})

	r, err := Build(ds, config.DefaultScoringConfig(), "bad.csv")
	require.Error(t, err)
	assert.Nil(t, r)
	assert.True(t, eris.Is(err, classify.ErrMissingColumn))
}

func TestDiagnose(t *testing.T) {
	rows := [][]string{{"5", "0"}, {"6", "10"}, {"7", ""}}
	for i := 0; i < 12; i++ {
		rows = append(rows, []string{"1", "0"})
	}
	ds := loadSheet(t, []string{"debt", "avg_quarterly_payment"}, rows...)

	d := Diagnose(ds)
	assert.Equal(t, 15, d.Rows)
	assert.Equal(t, 13, d.ZeroAvgCount)
	require.Len(t, d.ZeroAvgSample, diagSampleSize)
	assert.Equal(t, ZeroPayment{Row: 1, Debt: 5, Avg: 0}, d.ZeroAvgSample[0])
	assert.Equal(t, 4, d.ZeroAvgSample[1].Row)
	assert.Contains(t, d.Unmapped, model.RoleDebtAge)
	assert.NotContains(t, d.Unmapped, model.RoleDebt)
}

func TestDiagnose_NoAvgColumn(t *testing.T) {
	ds := loadSheet(t, []string{"debt"}, []string{"5"})
	d := Diagnose(ds)
	assert.Zero(t, d.ZeroAvgCount)
	assert.Contains(t, d.Unmapped, model.RoleAvgQuarterlyPayment)
}
