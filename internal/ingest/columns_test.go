package ingest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/debtrisk-cli/internal/model"
)

func TestNormKey(t *testing.T) {
	assert.Equal(t, NormKey("إجمالي المديونية"), NormKey("اجمالي المديونية"))
	assert.Equal(t, NormKey("أعلى متوسط السداد الربعي"), NormKey("اعلى متوسط السداد الربعي"))
	assert.Equal(t, NormKey("متوسط السداد ٣ اشهر"), NormKey("متوسط السداد 3 اشهر"))
	assert.Equal(t, NormKey("عمر المديونية (يوم)"), NormKey("عمر المديونيه يوم"))
	assert.Equal(t, NormKey("المـديونية"), NormKey("المديونية"))
	assert.Equal(t, "avgpayment", NormKey(" Avg-Payment "))
}

func TestResolve_ArabicAliases(t *testing.T) {
	header := []string{"اسم العميل", "رصيد المديونية", "متوسط السداد الربعي", "عمر المديونيه", "اعلى متوسط السداد الربعي", "اسم المندوب", "رقم المندوب"}
	m, err := Resolve(header, DefaultAliases, nil)
	require.NoError(t, err)

	assert.Equal(t, "رصيد المديونية", m[model.RoleDebt])
	assert.Equal(t, "متوسط السداد الربعي", m[model.RoleAvgQuarterlyPayment])
	assert.Equal(t, "عمر المديونيه", m[model.RoleDebtAge])
	assert.Equal(t, "اعلى متوسط السداد الربعي", m[model.RolePeerHighAvg])
	assert.Equal(t, "اسم المندوب", m[model.RoleRepresentativeName])
	assert.Equal(t, "رقم المندوب", m[model.RoleRepresentativeID])
	_, ok := m[model.RoleMonthlyPayment]
	assert.False(t, ok)
}

func TestResolve_OverridesWin(t *testing.T) {
	header := []string{"debt", "Balance", "avg payment"}
	m, err := Resolve(header, DefaultAliases, map[model.Role]string{model.RoleDebt: "Balance"})
	require.NoError(t, err)
	assert.Equal(t, "Balance", m[model.RoleDebt])
	assert.Equal(t, "avg payment", m[model.RoleAvgQuarterlyPayment])
}

func TestResolve_OverrideUnknownColumn(t *testing.T) {
	_, err := Resolve([]string{"debt"}, DefaultAliases, map[model.Role]string{model.RoleDebt: "nope"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestResolve_ColumnUsedOnce(t *testing.T) {
	aliases := map[model.Role][]string{
		model.RoleDebt:                {"amount"},
		model.RoleAvgQuarterlyPayment: {"amount"},
	}
	m, err := Resolve([]string{"amount"}, aliases, nil)
	require.NoError(t, err)
	assert.Equal(t, "amount", m[model.RoleDebt])
	_, ok := m[model.RoleAvgQuarterlyPayment]
	assert.False(t, ok)
}

func TestParseRole(t *testing.T) {
	for name, want := range map[string]model.Role{
		"debt":             model.RoleDebt,
		"avg":              model.RoleAvgQuarterlyPayment,
		"AGE":              model.RoleDebtAge,
		"high":             model.RolePeerHighAvg,
		"rep_id":           model.RoleRepresentativeID,
		"rep_name":         model.RoleRepresentativeName,
		"monthly":          model.RoleMonthlyPayment,
		"returns_new_type": model.RoleReturnsNewType,
	} {
		got, err := ParseRole(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseRole("bogus")
	assert.Error(t, err)
}

func TestMergeAliases(t *testing.T) {
	merged, err := MergeAliases(map[string][]string{"debt": {"Outstanding"}})
	require.NoError(t, err)
	assert.Equal(t, "Outstanding", merged[model.RoleDebt][0])
	assert.Greater(t, len(merged[model.RoleDebt]), 1)
	assert.NotEqual(t, "Outstanding", DefaultAliases[model.RoleDebt][0])

	_, err = MergeAliases(map[string][]string{"bogus": {"x"}})
	assert.Error(t, err)
}

func TestLoad_BuildsRecords(t *testing.T) {
	s := &Sheet{
		Header: []string{"المديونية", "متوسط السداد الربعي", "اسم المندوب", "نسبة المرتجع من المباع"},
		Rows: [][]string{
			{"١٬٠٠٠", "٢٠٠", "أحمد", "٣٫٥%"},
			{"bad", "", "", ""},
		},
	}

	ds, err := Load(s, DefaultAliases, nil)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	r := ds.Records[0]
	assert.Equal(t, 1000.0, r.Debt)
	assert.Equal(t, 200.0, r.AvgQuarterlyPayment)
	assert.Equal(t, "أحمد", r.RepresentativeName)
	assert.InDelta(t, 3.5, r.ReturnsFromSales, 1e-9)
	assert.True(t, math.IsNaN(r.DebtAgeDays))

	bad := ds.Records[1]
	assert.True(t, math.IsNaN(bad.Debt))
	assert.True(t, math.IsNaN(bad.AvgQuarterlyPayment))

	assert.True(t, ds.Has(model.RoleDebt))
	assert.True(t, ds.Has(model.RoleReturnsFromSales))
	assert.False(t, ds.Has(model.RoleDebtAge))
	assert.Equal(t, s.Header, ds.Header)
}
