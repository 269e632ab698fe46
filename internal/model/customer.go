package model

// Role names a logical input column.
type Role string

const (
	RoleDebt                Role = "debt"
	RoleAvgQuarterlyPayment Role = "avg_quarterly_payment"
	RoleDebtAge             Role = "debt_age"
	RolePeerHighAvg         Role = "peer_high_avg"
	RoleRepresentativeID    Role = "representative_id"
	RoleRepresentativeName  Role = "representative_name"
	RoleMonthlyPayment      Role = "monthly_payment"
	RoleReturnsFromSales    Role = "returns_from_sales"
	RoleReturnsNewType      Role = "returns_new_type"
	RoleReturnsCompensation Role = "returns_compensation"
)

// Roles lists every role in resolution order.
var Roles = []Role{
	RoleDebt,
	RoleAvgQuarterlyPayment,
	RoleDebtAge,
	RolePeerHighAvg,
	RoleRepresentativeID,
	RoleRepresentativeName,
	RoleMonthlyPayment,
	RoleReturnsFromSales,
	RoleReturnsNewType,
	RoleReturnsCompensation,
}

// CustomerRecord is one input row. Missing or unparsable numerics are NaN.
type CustomerRecord struct {
	Debt                float64 `json:"debt"`
	AvgQuarterlyPayment float64 `json:"avg_quarterly_payment"`
	DebtAgeDays         float64 `json:"debt_age_days"`
	PeerHighAvg         float64 `json:"peer_high_avg"`
	MonthlyPayment      float64 `json:"monthly_payment"`
	RepresentativeID    string  `json:"representative_id,omitempty"`
	RepresentativeName  string  `json:"representative_name,omitempty"`
	ReturnsFromSales    float64 `json:"returns_from_sales"`
	ReturnsNewType      float64 `json:"returns_new_type"`
	ReturnsCompensation float64 `json:"returns_compensation"`
}

// RepresentativeKey returns the key used for representative shares: the
// name, falling back to the id. ok is false when neither is set.
func (r CustomerRecord) RepresentativeKey() (string, bool) {
	if r.RepresentativeName != "" {
		return r.RepresentativeName, true
	}
	if r.RepresentativeID != "" {
		return r.RepresentativeID, true
	}
	return "", false
}

// Dataset is the ingested input: one record per data row plus the set of
// roles that were mapped and the raw cells for re-export.
type Dataset struct {
	Records []CustomerRecord
	Mapping map[Role]string
	Header  []string
	Raw     [][]string
}

// Has reports whether role was mapped to a column.
func (d *Dataset) Has(role Role) bool {
	_, ok := d.Mapping[role]
	return ok
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.Records) }
