package export

import (
	"io"
	"math"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/debtrisk-cli/internal/model"
)

// maxSheetName is the Excel limit on sheet title length.
const maxSheetName = 31

// WriteXLSX writes one sheet per table.
func WriteXLSX(w io.Writer, tables []*model.Table, tr *Translator) error {
	f := xlsx.NewFile()
	for _, t := range tables {
		sheet, err := f.AddSheet(sheetName(tr.Sheet(t.Name)))
		if err != nil {
			return eris.Wrapf(err, "export: add sheet %s", t.Name)
		}

		header := sheet.AddRow()
		for _, c := range tr.Columns(t) {
			header.AddCell().SetString(c)
		}

		for _, row := range t.Rows {
			r := sheet.AddRow()
			for j, v := range row {
				setCell(r.AddCell(), tr.Cell(t, j, v))
			}
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

func setCell(cell *xlsx.Cell, v any) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return
		}
		cell.SetFloat(x)
	case int:
		cell.SetInt(x)
	case bool:
		cell.SetBool(x)
	default:
		cell.SetString(FormatCell(v))
	}
}

func sheetName(name string) string {
	r := []rune(name)
	if len(r) > maxSheetName {
		return string(r[:maxSheetName])
	}
	return name
}
