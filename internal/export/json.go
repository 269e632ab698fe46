package export

import (
	"io"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"github.com/sells-group/debtrisk-cli/internal/model"
	"github.com/sells-group/debtrisk-cli/internal/report"
)

// Document is the JSON form of a report.
type Document struct {
	RunID    string         `json:"run_id"`
	Source   string         `json:"source"`
	Language string         `json:"language"`
	Rows     int            `json:"rows"`
	Classes  map[string]int `json:"classes"`
	Tables   []JSONTable    `json:"tables"`
}

// JSONTable is one table with translated headers. Missing numbers are null.
type JSONTable struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// NewDocument builds the JSON document for the given tables.
func NewDocument(r *report.Report, tables []*model.Table, tr *Translator) *Document {
	doc := &Document{
		RunID:    r.RunID,
		Source:   r.Source,
		Language: tr.Language(),
		Classes:  make(map[string]int, len(model.Classes)),
	}
	if r.Result != nil {
		doc.Rows = len(r.Result.Rows)
		for c, n := range r.Result.Counts() {
			doc.Classes[string(c)] = n
		}
	}

	for _, t := range tables {
		jt := JSONTable{
			Name:    t.Name,
			Columns: tr.Columns(t),
			Rows:    make([][]any, len(t.Rows)),
		}
		for i, row := range t.Rows {
			out := make([]any, len(row))
			for j, v := range row {
				out[j] = jsonCell(tr.Cell(t, j, v))
			}
			jt.Rows[i] = out
		}
		doc.Tables = append(doc.Tables, jt)
	}
	return doc
}

// WriteJSON encodes the report document to w.
func WriteJSON(w io.Writer, r *report.Report, tables []*model.Table, tr *Translator) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(r, tables, tr)); err != nil {
		return eris.Wrap(err, "export: encode json")
	}
	return nil
}
