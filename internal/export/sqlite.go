package export

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/debtrisk-cli/internal/model"
)

// WriteSQLite writes every table into a fresh SQLite file at path. An
// existing file is replaced. Column names stay canonical so the file can be
// queried the same way in either language; label values are translated.
func WriteSQLite(ctx context.Context, path string, tables []*model.Table, tr *Translator) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return eris.Wrapf(err, "export: remove %s", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return eris.Wrap(err, "export: open sqlite")
	}
	defer db.Close() //nolint:errcheck

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "export: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, t := range tables {
		if err := insertTable(ctx, tx, t, tr); err != nil {
			return err
		}
	}

	return eris.Wrap(tx.Commit(), "export: commit sqlite")
}

func insertTable(ctx context.Context, tx *sql.Tx, t *model.Table, tr *Translator) error {
	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range uniqueColumns(t.Columns) {
		cols[i] = quoteIdent(c)
		marks[i] = "?"
	}

	create := "CREATE TABLE " + quoteIdent(t.Name) + " (row_id INTEGER PRIMARY KEY, " + strings.Join(cols, ", ") + ")"
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return eris.Wrapf(err, "export: create table %s", t.Name)
	}

	insert := "INSERT INTO " + quoteIdent(t.Name) + " (row_id, " + strings.Join(cols, ", ") + ") VALUES (?, " + strings.Join(marks, ", ") + ")"
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return eris.Wrapf(err, "export: prepare insert %s", t.Name)
	}
	defer stmt.Close() //nolint:errcheck

	args := make([]any, len(cols)+1)
	for i, row := range t.Rows {
		args[0] = i + 1
		for j := range cols {
			args[j+1] = nil
			if j < len(row) {
				args[j+1] = sqlValue(tr.Cell(t, j, row[j]))
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return eris.Wrapf(err, "export: insert %s row %d", t.Name, i+1)
		}
	}
	return nil
}

// sqlValue maps a cell to a driver value; missing numbers become NULL.
func sqlValue(v any) any {
	if x, ok := v.(float64); ok && (math.IsNaN(x) || math.IsInf(x, 0)) {
		return nil
	}
	return v
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// uniqueColumns suffixes repeated column names, which input files may
// contain but SQLite rejects. Names compare case-insensitively and a suffix
// never reuses a name already taken.
func uniqueColumns(cols []string) []string {
	used := map[string]bool{"row_id": true}
	out := make([]string, len(cols))
	for i, c := range cols {
		if c == "" {
			c = "column_" + strconv.Itoa(i+1)
		}
		name := c
		for n := 2; used[strings.ToLower(name)]; n++ {
			name = c + "_" + strconv.Itoa(n)
		}
		used[strings.ToLower(name)] = true
		out[i] = name
	}
	return out
}
