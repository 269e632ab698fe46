// Package ingest reads customer spreadsheets (CSV or XLSX), resolves their
// columns onto logical roles, and builds the dataset the scoring engine
// consumes.
package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Sheet is a raw table: a normalized header row plus data rows.
type Sheet struct {
	Header []string
	Rows   [][]string
}

// Options configures file reading.
type Options struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// ReadFile reads a .csv or .xlsx file.
func ReadFile(path string, opts Options) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return Read(f, filepath.Base(path), opts)
}

// Read parses r according to the extension of name.
func Read(r io.Reader, name string, opts Options) (*Sheet, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return ReadCSV(r)
	case ".xlsx":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read xlsx")
		}
		return ReadXLSX(data, opts)
	default:
		return nil, eris.Errorf("ingest: unsupported file type %q (want .csv or .xlsx)", filepath.Ext(name))
	}
}

// ReadCSV parses a comma-separated table whose first row is the header.
func ReadCSV(r io.Reader) (*Sheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "csv: read rows")
	}
	return newSheet(records)
}

// ReadXLSX parses the selected worksheet of an XLSX workbook. Numeric cells
// are read as their stored value, not their display format, so currency and
// percent formats do not leak into the parsed numbers.
func ReadXLSX(data []byte, opts Options) (*Sheet, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	ws, err := selectSheet(f, opts)
	if err != nil {
		return nil, err
	}

	records := make([][]string, len(ws.Rows))
	for i, row := range ws.Rows {
		if row == nil {
			continue
		}
		rec := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			rec[j] = cellText(cell)
		}
		records[i] = rec
	}
	return newSheet(records)
}

// selectSheet picks the worksheet by name when one is given, else by index.
func selectSheet(f *xlsx.File, opts Options) (*xlsx.Sheet, error) {
	if opts.SheetName == "" {
		if opts.SheetIndex < 0 || opts.SheetIndex >= len(f.Sheets) {
			return nil, eris.Errorf("xlsx: sheet index %d out of range (workbook has %d sheets)", opts.SheetIndex, len(f.Sheets))
		}
		return f.Sheets[opts.SheetIndex], nil
	}
	if ws, ok := f.Sheet[opts.SheetName]; ok {
		return ws, nil
	}
	return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
}

// cellText returns the raw stored value of numeric cells and the display
// text of everything else.
func cellText(cell *xlsx.Cell) string {
	if cell == nil {
		return ""
	}
	if cell.Type() == xlsx.CellTypeNumeric {
		return cell.Value
	}
	return cell.String()
}

// newSheet splits records into header and rows, pads short rows to the
// header width and drops fully blank rows.
func newSheet(records [][]string) (*Sheet, error) {
	if len(records) == 0 {
		return nil, eris.New("ingest: file has no header row")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = NormalizeHeader(h)
	}

	s := &Sheet{Header: header}
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		row := make([]string, len(header))
		copy(row, rec)
		s.Rows = append(s.Rows, row)
	}
	return s, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// NormalizeHeader trims a header cell and strips bidi marks.
func NormalizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\u200f", "")
	s = strings.ReplaceAll(s, "\u200e", "")
	return strings.TrimSpace(s)
}
