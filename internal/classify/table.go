package classify

import "github.com/sells-group/debtrisk-cli/internal/model"

// Column names of the classification table.
const (
	ColPurchasePowerPct   = "purchase_power_pct"
	ColPurchasePowerScore = "purchase_power_score"
	ColCommitmentScore    = "commitment_score"
	ColRiskRatio          = "risk_ratio"
	ColRiskScore          = "risk_score"
	ColTotalScore         = "total_score"
	ColFinalClass         = "final_class"
	ColRepShareCountPct   = "rep_share_count_pct"
	ColRepShareDebtPct    = "rep_share_debt_pct"
	ColRepTotalDebt       = "rep_total_debt"
	ColRepClassDebt       = "rep_class_debt"
	ColRepClassSharePct   = "rep_class_share_pct"
	ColClassDebtSharePct  = "class_debt_share_pct"
	ColDeviationAmount    = "deviation_amount"
	ColMonthlyInstallment = "monthly_installment"
	ColNeedsSurcharge     = "needs_surcharge"
	ColPayTargetBase      = "pay_target_base"
	ColSalesTarget        = "sales_target"
	ColPayTargetFinal     = "pay_target_final"
	ColPlanNote           = "plan_note"
)

// Columns lists the classification table columns in output order.
var Columns = []string{
	ColPurchasePowerPct,
	ColPurchasePowerScore,
	ColCommitmentScore,
	ColRiskRatio,
	ColRiskScore,
	ColTotalScore,
	ColFinalClass,
	ColRepShareCountPct,
	ColRepShareDebtPct,
	ColRepTotalDebt,
	ColRepClassDebt,
	ColRepClassSharePct,
	ColClassDebtSharePct,
	ColDeviationAmount,
	ColMonthlyInstallment,
	ColNeedsSurcharge,
	ColPayTargetBase,
	ColSalesTarget,
	ColPayTargetFinal,
	ColPlanNote,
}

// TableName is the name of the classification table.
const TableName = "classification"

// Table renders the result with one row per input record.
func (r *Result) Table() *model.Table {
	t := model.NewTable(TableName, Columns...)
	for _, row := range r.Rows {
		t.Append(
			row.PurchasePowerPct,
			row.PurchasePowerScore,
			row.CommitmentScore,
			row.RiskRatio,
			row.RiskScore,
			row.TotalScore,
			string(row.Class),
			row.RepShareCountPct,
			row.RepShareDebtPct,
			row.RepTotalDebt,
			row.RepClassDebt,
			row.RepClassSharePct,
			row.ClassDebtSharePct,
			row.Plan.DeviationAmount,
			row.Plan.MonthlyInstallment,
			row.Plan.NeedsSurcharge,
			row.Plan.PayTargetBase,
			row.Plan.SalesTarget,
			row.Plan.PayTargetFinal,
			string(row.Plan.Note),
		)
	}
	return t
}
