package export

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/debtrisk-cli/internal/model"
	"github.com/sells-group/debtrisk-cli/internal/report"
	"github.com/sells-group/debtrisk-cli/internal/turnover"
)

// utf8BOM lets spreadsheet apps detect UTF-8 in Arabic output.
const utf8BOM = "\ufeff"

// WriteCSV writes one <table>.csv per table into dir. The turnover summary
// is encoded from the typed summaries rather than the generic table.
func WriteCSV(dir string, r *report.Report, tables []*model.Table, tr *Translator) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "export: create dir %s", dir)
	}

	for _, t := range tables {
		path := filepath.Join(dir, t.Name+".csv")
		err := writeFile(path, func(f *os.File) error {
			if _, err := f.WriteString(utf8BOM); err != nil {
				return eris.Wrap(err, "export: write bom")
			}
			w := csv.NewWriter(f)
			if t.Name == turnover.SummaryTableName {
				if err := encodeSummaries(w, r.Summaries, tr); err != nil {
					return err
				}
			} else if err := encodeTable(w, t, tr); err != nil {
				return err
			}
			w.Flush()
			return eris.Wrapf(w.Error(), "export: flush %s", path)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func encodeTable(w *csv.Writer, t *model.Table, tr *Translator) error {
	if err := w.Write(tr.Columns(t)); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	rec := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for j := range rec {
			rec[j] = ""
			if j < len(row) {
				rec[j] = FormatCell(tr.Cell(t, j, row[j]))
			}
		}
		if err := w.Write(rec); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}
	return nil
}

// cellFloat renders NaN as an empty CSV field.
type cellFloat float64

func (c cellFloat) MarshalText() ([]byte, error) {
	return []byte(FormatCell(float64(c))), nil
}

type summaryRow struct {
	RepresentativeID      string    `csv:"representative_id"`
	RepresentativeName    string    `csv:"representative_name"`
	Customers             int       `csv:"customers"`
	TotalDebt             cellFloat `csv:"total_debt"`
	TotalQuarterlyPayment cellFloat `csv:"total_quarterly_payment"`
	TotalMonthlyPayment   cellFloat `csv:"total_monthly_payment"`
	QuarterlyTurnover     cellFloat `csv:"quarterly_turnover"`
	MonthlyTurnover       cellFloat `csv:"monthly_turnover"`
}

func encodeSummaries(w *csv.Writer, sums []turnover.Summary, tr *Translator) error {
	header, err := csvutil.Header(summaryRow{}, "csv")
	if err != nil {
		return eris.Wrap(err, "export: turnover header")
	}
	if err := w.Write(tr.Headers(header)); err != nil {
		return eris.Wrap(err, "export: write header")
	}

	enc := csvutil.NewEncoder(w)
	enc.AutoHeader = false
	for _, s := range sums {
		row := summaryRow{
			RepresentativeID:      s.RepresentativeID,
			RepresentativeName:    s.RepresentativeName,
			Customers:             s.Customers,
			TotalDebt:             cellFloat(s.TotalDebt),
			TotalQuarterlyPayment: cellFloat(s.TotalQuarterlyPayment),
			TotalMonthlyPayment:   cellFloat(s.TotalMonthlyPayment),
			QuarterlyTurnover:     cellFloat(s.QuarterlyTurnover),
			MonthlyTurnover:       cellFloat(s.MonthlyTurnover),
		}
		if err := enc.Encode(row); err != nil {
			return eris.Wrap(err, "export: encode turnover")
		}
	}
	return nil
}
