// Package scoring implements the threshold ladders that turn raw customer
// metrics into purchase-power, commitment and risk points, and the reducer
// that maps the total onto a final class.
package scoring

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/debtrisk-cli/internal/config"
)

// ValidateConfig checks that every ladder is ordered so that the first
// matching threshold is also the most favorable one.
func ValidateConfig(c config.ScoringConfig) error {
	var errs []string

	pp := c.PurchasePower
	if !descending(pp.Score10, pp.Score8, pp.Score7, pp.Score6, pp.Score5, pp.Score4, pp.Score3, pp.Score2, pp.Score1) {
		errs = append(errs, "purchase_power thresholds must be non-increasing from score_10 to score_1")
	}
	if pp.Score1 < 0 {
		errs = append(errs, "purchase_power.score_1 must be >= 0")
	}

	age := c.DebtAge
	if !ascending(age.Score5, age.Score4, age.Score3, age.Score2) {
		errs = append(errs, "debt_age thresholds must be non-decreasing from score_5 to score_2")
	}

	r := c.Risk
	if !ascending(r.Score5, r.Score4, r.Score2, r.Score1, r.Score0) {
		errs = append(errs, "risk thresholds must be non-decreasing from score_5 to score_0")
	}

	if c.Delta.DecimalsPct < 0 || c.Delta.DecimalsPct > 4 {
		errs = append(errs, fmt.Sprintf("delta.decimals_pct must be between 0 and 4 (got %d)", c.Delta.DecimalsPct))
	}

	ret := c.Returns
	if !ascending(ret.WithinStandard, ret.NeedsMonitoring, ret.Elevated) {
		errs = append(errs, "returns multiples must be non-decreasing from within_standard to elevated")
	}

	f := c.Final
	if !descending(f.Committed, f.Good, f.RescheduleCap, f.RescheduleReduce) {
		errs = append(errs, "final thresholds must be non-increasing from committed to reschedule_reduce")
	}
	if f.RescheduleReduce < NearFinalMin {
		errs = append(errs, fmt.Sprintf("final.reschedule_reduce must be >= %g", NearFinalMin))
	}

	if len(errs) > 0 {
		return eris.Errorf("scoring: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func descending(vals ...float64) bool {
	for i := 1; i < len(vals); i++ {
		if vals[i] > vals[i-1] {
			return false
		}
	}
	return true
}

func ascending(vals ...float64) bool {
	for i := 1; i < len(vals); i++ {
		if vals[i] < vals[i-1] {
			return false
		}
	}
	return true
}
