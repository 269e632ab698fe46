package classify

import (
	"math"

	"github.com/sells-group/debtrisk-cli/internal/model"
	"github.com/sells-group/debtrisk-cli/internal/numeric"
)

// Customers below this purchase-power score are asked to repay the full
// debt with no sales growth.
const minGrowthScore = 5

// deviationMonths is the window the deviation amount is spread over.
const deviationMonths = 3

// Plan is the treatment plan for one customer.
type Plan struct {
	DeviationAmount    float64        `json:"deviation_amount"`
	MonthlyInstallment float64        `json:"monthly_installment"`
	NeedsSurcharge     bool           `json:"needs_surcharge"`
	PayTargetBase      float64        `json:"pay_target_base"`
	SalesTarget        float64        `json:"sales_target"`
	PayTargetFinal     float64        `json:"pay_target_final"`
	Note               model.PlanNote `json:"note"`
}

// BaseTargets returns the monthly payment target and sales ceiling for a
// class before any surcharge. Missing amounts count as 0.
func BaseTargets(class model.FinalClass, purchasePowerScore, avgPayment, debt float64) (pay, sales float64) {
	avg := numeric.OrZero(avgPayment)
	d := numeric.OrZero(debt)

	if numeric.OrZero(purchasePowerScore) < minGrowthScore {
		return numeric.Round(d, 2), numeric.Round(avg, 2)
	}

	switch class {
	case model.ClassCommitted:
		pay, sales = avg, avg
	case model.ClassGood:
		pay, sales = avg*1.10, avg
	case model.ClassRescheduleCap:
		pay, sales = avg*1.15, avg
	case model.ClassRescheduleReduce:
		pay, sales = avg*1.15, avg*0.90
	case model.ClassNearFinal:
		pay, sales = avg*1.15, avg*0.85
	default:
		pay, sales = 0, 0
	}
	return numeric.Round(pay, 2), numeric.Round(sales, 2)
}

// BuildPlan derives the treatment plan for a classified record. A customer
// who lost commitment or risk points gets the monthly deviation installment
// added on top of the base payment target.
func BuildPlan(row Row, rec model.CustomerRecord) Plan {
	debt := numeric.OrZero(rec.Debt)
	avg := numeric.OrZero(rec.AvgQuarterlyPayment)

	deviation := numeric.Round(math.Max(0, debt-deviationMonths*avg), 2)
	installment := numeric.Round(deviation/deviationMonths, 2)

	p := Plan{
		DeviationAmount:    deviation,
		MonthlyInstallment: installment,
		NeedsSurcharge:     row.CommitmentScore < 5 || row.RiskScore < 5,
	}
	p.PayTargetBase, p.SalesTarget = BaseTargets(row.Class, row.PurchasePowerScore, rec.AvgQuarterlyPayment, rec.Debt)

	p.PayTargetFinal = p.PayTargetBase
	p.Note = model.PlanNoteBaseOnly
	if p.NeedsSurcharge {
		p.PayTargetFinal = numeric.Round(p.PayTargetBase+installment, 2)
		p.Note = model.PlanNoteSurcharge
	}
	return p
}
