// Package delta computes the simplified payment-trend columns: the relative
// gap between a customer's average payment and the peer "high" average.
package delta

import (
	"math"

	"github.com/sells-group/debtrisk-cli/internal/config"
	"github.com/sells-group/debtrisk-cli/internal/model"
	"github.com/sells-group/debtrisk-cli/internal/numeric"
)

// Magnitude band upper bounds, in percent.
const (
	lightMax  = 10.0
	mediumMax = 30.0
)

// Column names of the delta table.
const (
	ColAvg       = "avg_quarterly_payment"
	ColHigh      = "peer_high_avg"
	ColRatio     = "delta_ratio"
	ColPct       = "delta_pct"
	ColDirection = "direction"
	ColMagnitude = "magnitude"
)

// Columns lists the delta table columns in output order.
var Columns = []string{ColAvg, ColHigh, ColRatio, ColPct, ColDirection, ColMagnitude}

// TableName is the name of the delta table.
const TableName = "delta"

// Ratio returns (avg-high)/avg, NaN when avg is zero or missing.
func Ratio(avg, high float64) float64 {
	if numeric.IsMissing(avg) || avg == 0 || numeric.IsMissing(high) {
		return math.NaN()
	}
	return (avg - high) / avg
}

// Pct returns |ratio|*100 rounded to the given places.
func Pct(ratio float64, decimals int) float64 {
	return numeric.Round(math.Abs(ratio)*100, int32(decimals))
}

// DirectionOf labels the sign of ratio. A negative ratio means the customer
// pays below the peer high, which is reported as room to increase.
func DirectionOf(ratio float64) model.Direction {
	switch {
	case math.IsNaN(ratio):
		return model.DirectionUnknown
	case ratio < 0:
		return model.DirectionIncrease
	case ratio > 0:
		return model.DirectionDecrease
	default:
		return model.DirectionStable
	}
}

// MagnitudeOf buckets a delta percentage.
func MagnitudeOf(pct float64) model.Magnitude {
	switch {
	case math.IsNaN(pct):
		return model.MagnitudeUnknown
	case pct < lightMax:
		return model.MagnitudeLight
	case pct < mediumMax:
		return model.MagnitudeMedium
	default:
		return model.MagnitudeStrong
	}
}

// Compute builds the delta table. It returns nil when either the average
// payment or the peer high average is not mapped.
func Compute(ds *model.Dataset, cfg config.DeltaConfig) *model.Table {
	if !ds.Has(model.RoleAvgQuarterlyPayment) || !ds.Has(model.RolePeerHighAvg) {
		return nil
	}

	t := model.NewTable(TableName, Columns...)
	for _, rec := range ds.Records {
		ratio := Ratio(rec.AvgQuarterlyPayment, rec.PeerHighAvg)
		pct := Pct(ratio, cfg.DecimalsPct)
		t.Append(
			rec.AvgQuarterlyPayment,
			rec.PeerHighAvg,
			ratio,
			pct,
			string(DirectionOf(ratio)),
			string(MagnitudeOf(pct)),
		)
	}
	return t
}
