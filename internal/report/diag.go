package report

import (
	"github.com/sells-group/debtrisk-cli/internal/model"
)

// diagSampleSize bounds the zero-payment sample.
const diagSampleSize = 10

// ZeroPayment is one sampled record whose average payment is 0.
type ZeroPayment struct {
	Row  int     `json:"row" yaml:"row"`
	Debt float64 `json:"debt" yaml:"debt"`
	Avg  float64 `json:"avg_quarterly_payment" yaml:"avg_quarterly_payment"`
}

// Diagnosis explains why records score 0 risk points: the resolved column
// mapping and the records with a zero average payment.
type Diagnosis struct {
	Rows          int                   `json:"rows" yaml:"rows"`
	Mapping       map[model.Role]string `json:"mapping" yaml:"mapping"`
	Unmapped      []model.Role          `json:"unmapped" yaml:"unmapped"`
	ZeroAvgCount  int                   `json:"zero_avg_count" yaml:"zero_avg_count"`
	ZeroAvgSample []ZeroPayment         `json:"zero_avg_sample" yaml:"zero_avg_sample"`
}

// Diagnose inspects ds. Rows are numbered from 1, matching the data rows
// of the input file.
func Diagnose(ds *model.Dataset) *Diagnosis {
	d := &Diagnosis{Rows: ds.Len(), Mapping: ds.Mapping}
	for _, role := range model.Roles {
		if !ds.Has(role) {
			d.Unmapped = append(d.Unmapped, role)
		}
	}
	if !ds.Has(model.RoleAvgQuarterlyPayment) {
		return d
	}

	for i, rec := range ds.Records {
		if rec.AvgQuarterlyPayment != 0 {
			continue
		}
		d.ZeroAvgCount++
		if len(d.ZeroAvgSample) < diagSampleSize {
			d.ZeroAvgSample = append(d.ZeroAvgSample, ZeroPayment{Row: i + 1, Debt: rec.Debt, Avg: rec.AvgQuarterlyPayment})
		}
	}
	return d
}
