package ingest

import (
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/sells-group/debtrisk-cli/internal/model"
)

// DefaultAliases lists the common header spellings for each role.
var DefaultAliases = map[model.Role][]string{
	model.RoleDebt: {
		"المديونية", "رصيد المديونية", "إجمالي المديونية", "اجمالي المديونية",
		"رصيد", "مستحقات", "رصيد مستحق",
		"debt", "balance", "total debt",
	},
	model.RoleAvgQuarterlyPayment: {
		"متوسط السداد الربعي", "متوسط السداد", "متوسط السداد 3 اشهر",
		"متوسط السداد ٣ اشهر", "متوسط السداد الشهري", "المتوسط الشهري للسداد",
		"avg quarterly payment", "average quarterly payment", "avg payment",
	},
	model.RoleDebtAge: {
		"عمر المديونية (يوم)", "عمر المديونية", "أيام المديونية",
		"ايام المديونية", "عمر الدين", "عدد الايام",
		"debt age", "debt age days", "days outstanding",
	},
	model.RolePeerHighAvg: {
		"أعلى متوسط السداد الربعي", "اعلى متوسط السداد الربعي",
		"أقصى متوسط السداد الربعي", "اقصى متوسط السداد",
		"high avg quarterly payment", "peer high avg",
	},
	model.RoleRepresentativeID: {
		"رقم المندوب", "كود المندوب",
		"rep id", "representative id",
	},
	model.RoleRepresentativeName: {
		"اسم المندوب", "المندوب", "مندوب", "اسم مندوب",
		"rep name", "representative", "representative name",
	},
	model.RoleMonthlyPayment: {
		"السداد الشهري للعميل", "السداد الشهري",
		"monthly payment",
	},
	model.RoleReturnsFromSales: {
		"نسبة المرتجع من المباع",
		"returns pct from sales",
	},
	model.RoleReturnsNewType: {
		"نسبة نوع جديد من مرتجعات العميل",
		"returns pct new type",
	},
	model.RoleReturnsCompensation: {
		"نسبة نوع تعويض من مرتجعات العميل",
		"returns pct compensation",
	},
}

var nonAlnum = runes.Predicate(func(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
})

// keyFolder is built per call; chains carry buffers.
func keyFolder() transform.Transformer {
	return transform.Chain(runes.Map(foldArabic), cases.Fold(), runes.Remove(nonAlnum))
}

func foldArabic(r rune) rune {
	switch r {
	case 'آ', 'أ', 'إ':
		return 'ا'
	case 'ى', 'ئ':
		return 'ي'
	case 'ة':
		return 'ه'
	case 'ؤ':
		return 'و'
	case 'ـ':
		return ' '
	}
	if r >= '٠' && r <= '٩' {
		return '0' + (r - '٠')
	}
	return r
}

// NormKey folds a header into a matching key: Arabic letter variants are
// unified, digits become ASCII, case is folded and everything except
// letters and digits is dropped.
func NormKey(s string) string {
	out, _, err := transform.String(keyFolder(), NormalizeHeader(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// Mapping assigns header names to roles.
type Mapping map[model.Role]string

// Resolve maps header columns onto roles. Explicit overrides win; the rest
// are matched by alias after NormKey folding, in alias order. A column is
// assigned to at most one role. Overrides naming a column that is not in
// the header are an error.
func Resolve(header []string, aliases map[model.Role][]string, overrides map[model.Role]string) (Mapping, error) {
	byKey := make(map[string]string, len(header))
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
		k := NormKey(h)
		if _, dup := byKey[k]; !dup && k != "" {
			byKey[k] = h
		}
	}

	m := make(Mapping)
	used := make(map[string]bool)

	for _, role := range model.Roles {
		col, ok := overrides[role]
		if !ok || col == "" {
			continue
		}
		col = NormalizeHeader(col)
		if !present[col] {
			return nil, eris.Errorf("ingest: column %q for role %s not found in header", col, role)
		}
		m[role] = col
		used[col] = true
	}

	for _, role := range model.Roles {
		if _, done := m[role]; done {
			continue
		}
		for _, alias := range aliases[role] {
			col, ok := byKey[NormKey(alias)]
			if ok && !used[col] {
				m[role] = col
				used[col] = true
				break
			}
		}
	}

	return m, nil
}

// MergeAliases appends extra aliases (keyed by role name) to the defaults.
// Unknown role names are reported as an error.
func MergeAliases(extra map[string][]string) (map[model.Role][]string, error) {
	out := make(map[model.Role][]string, len(DefaultAliases))
	for role, list := range DefaultAliases {
		out[role] = append([]string(nil), list...)
	}
	for name, list := range extra {
		role, err := ParseRole(name)
		if err != nil {
			return nil, err
		}
		out[role] = append(append([]string(nil), list...), out[role]...)
	}
	return out, nil
}

// ParseOverrides converts role-name keyed column overrides into a role map.
func ParseOverrides(cols map[string]string) (map[model.Role]string, error) {
	out := make(map[model.Role]string, len(cols))
	for name, col := range cols {
		role, err := ParseRole(name)
		if err != nil {
			return nil, err
		}
		out[role] = col
	}
	return out, nil
}

// ParseRole resolves a role name, accepting the short forms used in config
// files ("avg", "age", "high", "rep_id", "rep_name", "monthly").
func ParseRole(name string) (model.Role, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "avg", "avgq":
		return model.RoleAvgQuarterlyPayment, nil
	case "age":
		return model.RoleDebtAge, nil
	case "high", "high_avgq":
		return model.RolePeerHighAvg, nil
	case "rep_id":
		return model.RoleRepresentativeID, nil
	case "rep_name", "rep":
		return model.RoleRepresentativeName, nil
	case "monthly":
		return model.RoleMonthlyPayment, nil
	}
	for _, r := range model.Roles {
		if string(r) == n {
			return r, nil
		}
	}
	return "", eris.Errorf("ingest: unknown column role %q", name)
}
