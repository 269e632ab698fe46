// Package turnover aggregates debt and payments per representative and
// derives the quarterly and monthly debt turnover ratios.
package turnover

import (
	"cmp"
	"math"
	"slices"

	"github.com/sells-group/debtrisk-cli/internal/frame"
	"github.com/sells-group/debtrisk-cli/internal/model"
	"github.com/sells-group/debtrisk-cli/internal/numeric"
)

// Table names.
const (
	SummaryTableName = "turnover"
	JoinTableName    = "turnover_by_customer"
)

// Column names of the summary table.
const (
	ColRepID                 = "representative_id"
	ColRepName               = "representative_name"
	ColCustomers             = "customers"
	ColTotalDebt             = "total_debt"
	ColTotalQuarterlyPayment = "total_quarterly_payment"
	ColTotalMonthlyPayment   = "total_monthly_payment"
	ColQuarterlyTurnover     = "quarterly_turnover"
	ColMonthlyTurnover       = "monthly_turnover"
)

// SummaryColumns lists the summary table columns in output order.
var SummaryColumns = []string{
	ColRepID,
	ColRepName,
	ColCustomers,
	ColTotalDebt,
	ColTotalQuarterlyPayment,
	ColTotalMonthlyPayment,
	ColQuarterlyTurnover,
	ColMonthlyTurnover,
}

// JoinColumns lists the per-customer columns produced by Join.
var JoinColumns = []string{ColCustomers, ColQuarterlyTurnover, ColMonthlyTurnover}

// Key identifies a representative.
type Key struct {
	ID   string
	Name string
}

// KeyOf returns the representative key of a record. ok is false when the
// record has neither an id nor a name.
func KeyOf(r model.CustomerRecord) (Key, bool) {
	if r.RepresentativeID == "" && r.RepresentativeName == "" {
		return Key{}, false
	}
	return Key{ID: r.RepresentativeID, Name: r.RepresentativeName}, true
}

// Summary is the turnover of one representative.
type Summary struct {
	RepresentativeID      string  `json:"representative_id" csv:"representative_id"`
	RepresentativeName    string  `json:"representative_name" csv:"representative_name"`
	Customers             int     `json:"customers" csv:"customers"`
	TotalDebt             float64 `json:"total_debt" csv:"total_debt"`
	TotalQuarterlyPayment float64 `json:"total_quarterly_payment" csv:"total_quarterly_payment"`
	TotalMonthlyPayment   float64 `json:"total_monthly_payment" csv:"total_monthly_payment"`
	QuarterlyTurnover     float64 `json:"quarterly_turnover" csv:"quarterly_turnover"`
	MonthlyTurnover       float64 `json:"monthly_turnover" csv:"monthly_turnover"`
}

// Key returns the summary's representative key.
func (s Summary) Key() Key { return Key{ID: s.RepresentativeID, Name: s.RepresentativeName} }

// Aggregate groups records by representative and computes the turnover of
// each group, highest quarterly turnover first. Missing amounts count as 0.
// It returns nil when no representative column is mapped.
func Aggregate(ds *model.Dataset) []Summary {
	if !ds.Has(model.RoleRepresentativeID) && !ds.Has(model.RoleRepresentativeName) {
		return nil
	}
	hasMonthly := ds.Has(model.RoleMonthlyPayment)

	recs := ds.Records
	groups := frame.GroupBy(len(recs), func(i int) (Key, bool) { return KeyOf(recs[i]) })
	count := groups.Count()
	debt := groups.Sum(func(i int) float64 { return recs[i].Debt })
	quarterly := groups.Sum(func(i int) float64 { return recs[i].AvgQuarterlyPayment })
	monthly := groups.Sum(func(i int) float64 { return recs[i].MonthlyPayment })

	out := make([]Summary, 0, groups.Len())
	for _, k := range groups.Keys {
		s := Summary{
			RepresentativeID:      k.ID,
			RepresentativeName:    k.Name,
			Customers:             int(count[k]),
			TotalDebt:             debt[k],
			TotalQuarterlyPayment: quarterly[k],
			TotalMonthlyPayment:   monthly[k],
			QuarterlyTurnover:     numeric.Ratio(quarterly[k], debt[k]),
			MonthlyTurnover:       numeric.Ratio(monthly[k], debt[k]),
		}
		if !hasMonthly {
			s.TotalMonthlyPayment = math.NaN()
			s.MonthlyTurnover = math.NaN()
		}
		out = append(out, s)
	}

	slices.SortStableFunc(out, func(a, b Summary) int {
		an, bn := math.IsNaN(a.QuarterlyTurnover), math.IsNaN(b.QuarterlyTurnover)
		switch {
		case an && bn:
			return 0
		case an:
			return 1
		case bn:
			return -1
		}
		return cmp.Compare(b.QuarterlyTurnover, a.QuarterlyTurnover)
	})
	return out
}

// SummaryTable renders one row per representative.
func SummaryTable(sums []Summary) *model.Table {
	t := model.NewTable(SummaryTableName, SummaryColumns...)
	for _, s := range sums {
		t.Append(
			s.RepresentativeID,
			s.RepresentativeName,
			s.Customers,
			s.TotalDebt,
			s.TotalQuarterlyPayment,
			s.TotalMonthlyPayment,
			s.QuarterlyTurnover,
			s.MonthlyTurnover,
		)
	}
	return t
}

// Join broadcasts each representative's turnover onto every record with the
// same key. Records without a match keep NaN.
func Join(ds *model.Dataset, sums []Summary) *model.Table {
	byKey := make(map[Key]Summary, len(sums))
	for _, s := range sums {
		byKey[s.Key()] = s
	}

	recs := ds.Records
	key := func(i int) (Key, bool) { return KeyOf(recs[i]) }
	matched := frame.Broadcast(len(recs), key, byKey, Summary{Customers: -1})

	t := model.NewTable(JoinTableName, JoinColumns...)
	for _, s := range matched {
		if s.Customers < 0 {
			t.Append(math.NaN(), math.NaN(), math.NaN())
			continue
		}
		t.Append(float64(s.Customers), s.QuarterlyTurnover, s.MonthlyTurnover)
	}
	return t
}
