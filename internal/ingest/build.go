package ingest

import (
	"math"
	"strings"

	"github.com/sells-group/debtrisk-cli/internal/model"
	"github.com/sells-group/debtrisk-cli/internal/numeric"
)

// Build converts a sheet into a dataset using the role mapping. Unmapped
// numeric roles are NaN in every record; cells that fail to parse are NaN.
// Missing required roles are not checked here: the classification pipeline
// reports them.
func Build(s *Sheet, m Mapping) *model.Dataset {
	idx := make(map[model.Role]int, len(m))
	for role, col := range m {
		for i, h := range s.Header {
			if h == col {
				idx[role] = i
				break
			}
		}
	}

	num := func(row []string, role model.Role) float64 {
		i, ok := idx[role]
		if !ok || i >= len(row) {
			return math.NaN()
		}
		return numeric.Parse(row[i])
	}
	str := func(row []string, role model.Role) string {
		i, ok := idx[role]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	ds := &model.Dataset{
		Records: make([]model.CustomerRecord, len(s.Rows)),
		Mapping: make(map[model.Role]string, len(idx)),
		Header:  s.Header,
		Raw:     s.Rows,
	}
	for role := range idx {
		ds.Mapping[role] = m[role]
	}

	for i, row := range s.Rows {
		ds.Records[i] = model.CustomerRecord{
			Debt:                num(row, model.RoleDebt),
			AvgQuarterlyPayment: num(row, model.RoleAvgQuarterlyPayment),
			DebtAgeDays:         num(row, model.RoleDebtAge),
			PeerHighAvg:         num(row, model.RolePeerHighAvg),
			MonthlyPayment:      num(row, model.RoleMonthlyPayment),
			RepresentativeID:    str(row, model.RoleRepresentativeID),
			RepresentativeName:  str(row, model.RoleRepresentativeName),
			ReturnsFromSales:    num(row, model.RoleReturnsFromSales),
			ReturnsNewType:      num(row, model.RoleReturnsNewType),
			ReturnsCompensation: num(row, model.RoleReturnsCompensation),
		}
	}
	return ds
}

// Load reads, resolves and builds a dataset in one step.
func Load(s *Sheet, aliases map[model.Role][]string, overrides map[model.Role]string) (*model.Dataset, error) {
	m, err := Resolve(s.Header, aliases, overrides)
	if err != nil {
		return nil, err
	}
	return Build(s, m), nil
}
