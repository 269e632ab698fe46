// Package export serializes a report as an XLSX workbook, a directory of
// CSV files, a JSON document or a SQLite file. Labels and headers are
// rendered in Arabic or English.
package export

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/debtrisk-cli/internal/model"
	"github.com/sells-group/debtrisk-cli/internal/report"
)

// Output formats.
const (
	FormatXLSX   = "xlsx"
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

// Table layouts.
const (
	LayoutSheets  = "sheets"
	LayoutUnified = "unified"
)

// Options selects the output shape.
type Options struct {
	Format   string
	Layout   string
	Language string
}

// Extension returns the file extension for a format. CSV output is a
// directory and has none.
func Extension(format string) string {
	switch format {
	case FormatXLSX:
		return ".xlsx"
	case FormatJSON:
		return ".json"
	case FormatSQLite:
		return ".sqlite"
	}
	return ""
}

// Write exports r to path. For CSV, path is a directory that is created if
// needed.
func Write(ctx context.Context, r *report.Report, path string, opts Options) error {
	tr, err := NewTranslator(opts.Language)
	if err != nil {
		return err
	}
	tables, err := Tables(r, opts.Layout)
	if err != nil {
		return err
	}

	if Extension(opts.Format) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return eris.Wrapf(err, "export: create dir for %s", path)
		}
	}

	switch opts.Format {
	case FormatXLSX:
		return writeFile(path, func(f *os.File) error { return WriteXLSX(f, tables, tr) })
	case FormatJSON:
		return writeFile(path, func(f *os.File) error { return WriteJSON(f, r, tables, tr) })
	case FormatCSV:
		return WriteCSV(path, r, tables, tr)
	case FormatSQLite:
		return WriteSQLite(ctx, path, tables, tr)
	}
	return eris.Errorf("export: unsupported format %q", opts.Format)
}

// Tables returns the tables exported for a layout.
func Tables(r *report.Report, layout string) ([]*model.Table, error) {
	switch layout {
	case LayoutSheets:
		return r.Tables(), nil
	case LayoutUnified:
		return []*model.Table{r.Unified}, nil
	}
	return nil, eris.Errorf("export: unsupported layout %q", layout)
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "export: close %s", path)
}

// FormatCell renders a cell as text. Missing numbers render empty.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}

// jsonCell returns a JSON-safe cell value: missing numbers become null.
func jsonCell(v any) any {
	if x, ok := v.(float64); ok && (math.IsNaN(x) || math.IsInf(x, 0)) {
		return nil
	}
	return v
}
