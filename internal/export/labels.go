package export

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/debtrisk-cli/internal/classify"
	"github.com/sells-group/debtrisk-cli/internal/delta"
	"github.com/sells-group/debtrisk-cli/internal/model"
	"github.com/sells-group/debtrisk-cli/internal/report"
	"github.com/sells-group/debtrisk-cli/internal/returns"
	"github.com/sells-group/debtrisk-cli/internal/turnover"
)

// Supported output languages.
const (
	LangArabic  = "ar"
	LangEnglish = "en"
)

var arabicHeaders = map[string]string{
	classify.ColPurchasePowerPct:   "نسبة من القائد (متوسط)",
	classify.ColPurchasePowerScore: "نقاط القوة الشرائية",
	classify.ColCommitmentScore:    "نقاط الالتزام",
	classify.ColRiskRatio:          "مؤشر المخاطرة (مديونية/متوسط)",
	classify.ColRiskScore:          "نقاط المخاطرة",
	classify.ColTotalScore:         "إجمالي النقاط",
	classify.ColFinalClass:         "التصنيف النهائي",
	classify.ColRepShareCountPct:   "نسبة المندوب من فئة العميل (بالعدد %)",
	classify.ColRepShareDebtPct:    "نسبة المندوب من فئة العميل (بالمديونية %)",
	classify.ColRepTotalDebt:       "إجمالي مديونية المندوب",
	classify.ColRepClassDebt:       "مديونية المندوب ضمن هذه الفئة",
	classify.ColRepClassSharePct:   "نسبة الفئة داخل مديونية المندوب (%)",
	classify.ColClassDebtSharePct:  "نسبة التصنيف من إجمالي المديونية (%)",
	classify.ColDeviationAmount:    "مبلغ الانحراف (للـ3 أشهر)",
	classify.ColMonthlyInstallment: "قسط الانحراف الشهري",
	classify.ColNeedsSurcharge:     "فقد نقاط التزام/مخاطرة؟",
	classify.ColPayTargetBase:      "هدف السداد الشهري (أساس)",
	classify.ColSalesTarget:        "هدف المبيعات الشهري",
	classify.ColPayTargetFinal:     "هدف السداد الشهري (بعد المعالجة)",
	classify.ColPlanNote:           "ملاحظة خطة السداد",

	delta.ColAvg:       "متوسط السداد الربعي",
	delta.ColHigh:      "أعلى متوسط السداد الربعي",
	delta.ColRatio:     "فارق التغير (نسبي)",
	delta.ColPct:       "فئة نسبة الفارق %",
	delta.ColDirection: "اتجاه مبسط",
	delta.ColMagnitude: "شدة الفارق",

	turnover.ColRepID:                 "رقم المندوب",
	turnover.ColRepName:               "اسم المندوب",
	turnover.ColCustomers:             "عدد العملاء",
	turnover.ColTotalDebt:             "إجمالي المديونية",
	turnover.ColTotalQuarterlyPayment: "إجمالي متوسط السداد الربعي",
	turnover.ColTotalMonthlyPayment:   "إجمالي السداد الشهري",
	turnover.ColQuarterlyTurnover:     "الدوران الربعي للمندوب",
	turnover.ColMonthlyTurnover:       "الدوران الشهري للمندوب",
}

var arabicMetrics = map[string]string{
	"from_sales":   "المرتجع من المباع",
	"new_type":     "النوع الجديد",
	"compensation": "نوع تعويض",
}

var arabicMetricColumns = map[string]string{
	returns.SuffixValue:     "قيمة (%s)",
	returns.SuffixBenchmark: "معيار (%s 10–5)",
	returns.SuffixRatio:     "مضاعف (%s) مقابل المعيار",
	returns.SuffixLabel:     "تصنيف (%s)",
}

var arabicValues = map[string]string{
	string(model.ClassCommitted):        "ملتزم",
	string(model.ClassGood):             "جيد",
	string(model.ClassRescheduleCap):    "جدوله مديونية وتثبيت السقف (حد أعلى المبيعات الآجل)",
	string(model.ClassRescheduleReduce): "جدوله مديونية وتخفيف المبيعات الآجل",
	string(model.ClassNearFinal):        "قبل النهاية",
	string(model.ClassNotViable):        "عميل غير مجدي",

	string(model.DirectionIncrease): "ارتفاع",
	string(model.DirectionDecrease): "انخفاض",
	string(model.DirectionStable):   "مستقر",

	string(model.MagnitudeLight):  "خفيف",
	string(model.MagnitudeMedium): "متوسط",
	string(model.MagnitudeStrong): "قوي",

	string(model.ReturnsWithinStandard):   "ضمن المعيار",
	string(model.ReturnsNeedsMonitoring):  "يحتاج متابعة",
	string(model.ReturnsElevated):         "مرتفع",
	string(model.ReturnsVeryElevated):     "مرتفع جدًا",
	string(model.ReturnsInsufficientData): "بيانات غير كافية",

	string(model.PlanNoteSurcharge): "تفعيل الخطة: تمت إضافة قسط الانحراف الشهري",
	string(model.PlanNoteBaseOnly):  "لا توجد خسارة نقاط في الالتزام/المخاطرة، الاكتفاء بالهدف الأساسي",
}

var arabicPrefixes = map[string]string{
	report.PrefixMain:    "[أساسي] ",
	report.PrefixDelta:   "[فارق] ",
	report.PrefixReturns: "[مرتجع] ",
	report.PrefixRep:     "[مندوب] ",
}

// labelColumns hold enumerated values rather than numbers or free text.
var labelColumns = map[string]bool{
	classify.ColFinalClass:     true,
	classify.ColNeedsSurcharge: true,
	classify.ColPlanNote:       true,
	delta.ColDirection:         true,
	delta.ColMagnitude:         true,
}

var arabicSheets = map[string]string{
	classify.TableName:        "التصنيف",
	delta.TableName:           "الفارق",
	returns.TableName:         "المرتجع",
	turnover.SummaryTableName: "دوران المندوبين",
	report.UnifiedTableName:   "موحد",
}

// Translator renders column names and label values in one language.
// English output uses the canonical identifiers unchanged.
type Translator struct {
	lang string
}

// NewTranslator returns a translator for lang ("ar" or "en").
func NewTranslator(lang string) (*Translator, error) {
	switch lang {
	case LangArabic, LangEnglish:
		return &Translator{lang: lang}, nil
	}
	return nil, eris.Errorf("export: unsupported language %q", lang)
}

// Language returns the translator's language code.
func (t *Translator) Language() string { return t.lang }

// Header translates a column name, including unified-table prefixes.
// Unknown names, such as the input file's own columns, pass through.
func (t *Translator) Header(col string) string {
	if t.lang == LangEnglish {
		return col
	}
	for p, ar := range arabicPrefixes {
		if rest, ok := strings.CutPrefix(col, p); ok {
			return ar + t.Header(rest)
		}
	}
	if ar, ok := arabicHeaders[col]; ok {
		return ar
	}
	for metric, label := range arabicMetrics {
		for suffix, pattern := range arabicMetricColumns {
			if col == metric+suffix {
				return strings.Replace(pattern, "%s", label, 1)
			}
		}
	}
	return col
}

// Headers translates every column name.
func (t *Translator) Headers(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = t.Header(c)
	}
	return out
}

// Columns translates the column names of t. Input columns keep their names.
func (t *Translator) Columns(tbl *model.Table) []string {
	out := make([]string, len(tbl.Columns))
	for j, c := range tbl.Columns {
		if j < tbl.InputColumns {
			out[j] = c
			continue
		}
		out[j] = t.Header(c)
	}
	return out
}

// Cell translates the value at column j of tbl. Only label columns are
// translated; input cells and free text such as representative names pass
// through.
func (t *Translator) Cell(tbl *model.Table, j int, v any) any {
	if j < tbl.InputColumns || j >= len(tbl.Columns) || !isLabelColumn(tbl.Columns[j]) {
		return v
	}
	return t.Value(v)
}

func isLabelColumn(col string) bool {
	for p := range arabicPrefixes {
		if rest, ok := strings.CutPrefix(col, p); ok {
			col = rest
			break
		}
	}
	return labelColumns[col] || strings.HasSuffix(col, returns.SuffixLabel)
}

// Value translates a label value. Non-label values pass through.
func (t *Translator) Value(v any) any {
	if t.lang == LangEnglish {
		return v
	}
	switch x := v.(type) {
	case string:
		if ar, ok := arabicValues[x]; ok {
			return ar
		}
	case bool:
		if x {
			return "نعم"
		}
		return "لا"
	}
	return v
}

// Sheet translates a table name into a sheet or file title.
func (t *Translator) Sheet(name string) string {
	if t.lang == LangEnglish {
		return name
	}
	if ar, ok := arabicSheets[name]; ok {
		return ar
	}
	return name
}
