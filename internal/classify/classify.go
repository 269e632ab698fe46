// Package classify runs the scoring rules over every customer record,
// attaches representative and class aggregates, and derives the treatment
// plan.
package classify

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/debtrisk-cli/internal/config"
	"github.com/sells-group/debtrisk-cli/internal/frame"
	"github.com/sells-group/debtrisk-cli/internal/model"
	"github.com/sells-group/debtrisk-cli/internal/numeric"
	"github.com/sells-group/debtrisk-cli/internal/scoring"
)

// ErrMissingColumn is returned when a required role (debt or average
// payment) is not mapped to any input column.
var ErrMissingColumn = eris.New("classify: missing required column")

// Row holds the derived fields for one customer record.
type Row struct {
	PurchasePowerPct   float64          `json:"purchase_power_pct"`
	PurchasePowerScore float64          `json:"purchase_power_score"`
	CommitmentScore    float64          `json:"commitment_score"`
	RiskRatio          float64          `json:"risk_ratio"`
	RiskScore          float64          `json:"risk_score"`
	TotalScore         float64          `json:"total_score"`
	Class              model.FinalClass `json:"final_class"`

	RepShareCountPct float64 `json:"rep_share_count_pct"`
	RepShareDebtPct  float64 `json:"rep_share_debt_pct"`
	RepTotalDebt     float64 `json:"rep_total_debt"`
	RepClassDebt     float64 `json:"rep_class_debt"`
	RepClassSharePct float64 `json:"rep_class_share_pct"`

	ClassDebtSharePct float64 `json:"class_debt_share_pct"`

	Plan Plan `json:"plan"`
}

// Result is the classified dataset, one Row per input record.
type Result struct {
	Rows []Row
}

// Counts returns the number of records per final class.
func (r *Result) Counts() map[model.FinalClass]int {
	out := make(map[model.FinalClass]int, len(model.Classes))
	for _, row := range r.Rows {
		out[row.Class]++
	}
	return out
}

// Classify scores every record of ds. It fails only when debt or average
// payment is unmapped; every other gap degrades to NaN or a neutral score.
func Classify(ds *model.Dataset, cfg config.ScoringConfig) (*Result, error) {
	for _, role := range []model.Role{model.RoleDebt, model.RoleAvgQuarterlyPayment} {
		if !ds.Has(role) {
			return nil, eris.Wrapf(ErrMissingColumn, "classify: role %s", role)
		}
	}

	recs := ds.Records
	rows := make([]Row, len(recs))
	hasAge := ds.Has(model.RoleDebtAge)

	pct := PurchasePowerPct(recs)
	for i, rec := range recs {
		row := &rows[i]
		row.PurchasePowerPct = pct[i]
		row.PurchasePowerScore = scoring.PurchasePower(pct[i], cfg.PurchasePower)
		if hasAge {
			row.CommitmentScore = scoring.Commitment(rec.DebtAgeDays, cfg.DebtAge)
		}
		row.RiskRatio = numeric.Round(scoring.RiskRatio(rec.Debt, rec.AvgQuarterlyPayment), 3)
		row.RiskScore = scoring.Risk(rec.Debt, rec.AvgQuarterlyPayment, cfg.Risk)
		row.TotalScore = scoring.Total(row.PurchasePowerScore, row.CommitmentScore, row.RiskScore)
		row.Class = scoring.Classify(row.TotalScore, cfg.Final)
	}

	applyRepresentativeShares(recs, rows)
	applyClassShares(recs, rows)

	for i, rec := range recs {
		rows[i].Plan = BuildPlan(rows[i], rec)
	}

	return &Result{Rows: rows}, nil
}

// PurchasePowerPct returns each record's average payment as a percent of
// the dataset maximum, rounded to 2 places. When the maximum is not
// positive every record gets 0.
func PurchasePowerPct(recs []model.CustomerRecord) []float64 {
	maxAvg := math.NaN()
	for _, r := range recs {
		v := r.AvgQuarterlyPayment
		if numeric.IsMissing(v) {
			continue
		}
		if math.IsNaN(maxAvg) || v > maxAvg {
			maxAvg = v
		}
	}

	out := make([]float64, len(recs))
	if math.IsNaN(maxAvg) || maxAvg <= 0 {
		return out
	}
	for i, r := range recs {
		out[i] = numeric.Round(r.AvgQuarterlyPayment/maxAvg*100, 2)
	}
	return out
}

type repClass struct {
	rep   string
	class model.FinalClass
}

// applyRepresentativeShares fills the per-representative share columns.
// Records without a representative key keep NaN in all of them.
func applyRepresentativeShares(recs []model.CustomerRecord, rows []Row) {
	n := len(recs)
	debt := func(i int) float64 { return recs[i].Debt }

	byRepClass := func(i int) (repClass, bool) {
		rep, ok := recs[i].RepresentativeKey()
		return repClass{rep, rows[i].Class}, ok
	}
	byRep := func(i int) (string, bool) { return recs[i].RepresentativeKey() }

	pairs := frame.GroupBy(n, byRepClass)
	pairCount := pairs.Count()
	pairDebt := pairs.Sum(debt)
	classCount := frame.Rollup(pairCount, func(k repClass) model.FinalClass { return k.class })
	classDebt := frame.Rollup(pairDebt, func(k repClass) model.FinalClass { return k.class })

	shareCount := make(map[repClass]float64, len(pairCount))
	shareDebt := make(map[repClass]float64, len(pairDebt))
	for _, k := range pairs.Keys {
		shareCount[k] = pct(pairCount[k], classCount[k.class])
		shareDebt[k] = pct(pairDebt[k], classDebt[k.class])
	}

	repTotal := frame.GroupBy(n, byRep).Sum(debt)

	nan := math.NaN()
	countCol := frame.Broadcast(n, byRepClass, shareCount, nan)
	debtCol := frame.Broadcast(n, byRepClass, shareDebt, nan)
	repClassDebt := frame.Broadcast(n, byRepClass, pairDebt, nan)
	repTotalCol := frame.Broadcast(n, byRep, repTotal, nan)

	for i := range rows {
		rows[i].RepShareCountPct = countCol[i]
		rows[i].RepShareDebtPct = debtCol[i]
		rows[i].RepClassDebt = repClassDebt[i]
		rows[i].RepTotalDebt = repTotalCol[i]
		rows[i].RepClassSharePct = pct(repClassDebt[i], repTotalCol[i])
	}
}

// applyClassShares fills each record with its class's share of total debt.
func applyClassShares(recs []model.CustomerRecord, rows []Row) {
	n := len(recs)
	debt := func(i int) float64 { return recs[i].Debt }
	byClass := func(i int) (model.FinalClass, bool) { return rows[i].Class, true }

	total := frame.SumRows(allRows(n), debt)
	classDebt := frame.GroupBy(n, byClass).Sum(debt)

	share := make(map[model.FinalClass]float64, len(classDebt))
	for c, d := range classDebt {
		share[c] = pct(d, total)
	}

	col := frame.Broadcast(n, byClass, share, math.NaN())
	for i := range rows {
		rows[i].ClassDebtSharePct = col[i]
	}
}

// pct returns part/whole*100 rounded to 2 places, NaN when whole is 0.
func pct(part, whole float64) float64 {
	return numeric.Round(numeric.Ratio(part, whole)*100, 2)
}

func allRows(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
