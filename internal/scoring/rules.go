package scoring

import (
	"math"

	"github.com/sells-group/debtrisk-cli/internal/config"
	"github.com/sells-group/debtrisk-cli/internal/model"
	"github.com/sells-group/debtrisk-cli/internal/numeric"
)

// NearFinalMin is the lowest total score that still avoids "not viable".
const NearFinalMin = 8.0

// Fixed risk bands applied past the configured ladder.
const (
	riskNeutralMax = 4.0
	riskHighMax    = 6.0
	riskSevereMax  = 12.0
)

// PurchasePower scores a customer's average payment expressed as a percent
// of the portfolio leader. NaN scores 0.
func PurchasePower(pct float64, c config.PurchasePowerConfig) float64 {
	if numeric.IsMissing(pct) {
		return 0
	}
	switch {
	case pct >= c.Score10:
		return 10
	case pct >= c.Score8:
		return 8
	case pct >= c.Score7:
		return 7
	case pct >= c.Score6:
		return 6
	case pct >= c.Score5:
		return 5
	case pct >= c.Score4:
		return 4
	case pct >= c.Score3:
		return 3
	case pct >= c.Score2:
		return 2
	case pct >= c.Score1:
		return 1
	default:
		return 0
	}
}

// Commitment scores the debt age in days. Unknown ages get the benefit of
// the doubt (5). Past the last threshold the score turns negative by one
// point per 30 days; fractional penalties are rounded to 2 places.
func Commitment(days float64, c config.DebtAgeConfig) float64 {
	if numeric.IsMissing(days) {
		return 5
	}
	switch {
	case days <= c.Score5:
		return 5
	case days <= c.Score4:
		return 4
	case days <= c.Score3:
		return 3
	case days <= c.Score2:
		return 2
	}
	penalty := (days - c.Score2) / 30
	if penalty == math.Trunc(penalty) {
		return -penalty
	}
	return -numeric.Round(penalty, 2)
}

// RiskRatio returns debt divided by the average payment. A missing debt
// counts as 0; a zero or missing payment leaves the ratio undefined (NaN).
func RiskRatio(debt, avgPayment float64) float64 {
	return numeric.Ratio(numeric.OrZero(debt), numeric.OrZero(avgPayment))
}

// Risk scores the debt/avg-payment ratio. An undefined ratio scores 0.
//
// The fixed bands are not monotonic: ratios in (6, 12] score -10 while
// anything above 12 resets to 0.
func Risk(debt, avgPayment float64, c config.RiskConfig) float64 {
	ratio := RiskRatio(debt, avgPayment)
	if math.IsNaN(ratio) {
		return 0
	}
	switch {
	case ratio <= c.Score5:
		return 5
	case ratio <= c.Score4:
		return 4
	case ratio <= c.Score2:
		return 2
	case ratio <= c.Score1:
		return 1
	case ratio <= c.Score0:
		return 0
	case ratio <= riskNeutralMax:
		return 0
	case ratio <= riskHighMax:
		return -5
	case ratio <= riskSevereMax:
		return -10
	default:
		return 0
	}
}

// Total sums score terms, treating missing terms as 0.
func Total(scores ...float64) float64 {
	var sum float64
	for _, s := range scores {
		sum += numeric.OrZero(s)
	}
	return sum
}

// Classify maps a total score onto one of the six final classes.
func Classify(total float64, c config.FinalConfig) model.FinalClass {
	switch {
	case total >= c.Committed:
		return model.ClassCommitted
	case total >= c.Good:
		return model.ClassGood
	case total >= c.RescheduleCap:
		return model.ClassRescheduleCap
	case total >= c.RescheduleReduce:
		return model.ClassRescheduleReduce
	case total >= NearFinalMin:
		return model.ClassNearFinal
	default:
		return model.ClassNotViable
	}
}
