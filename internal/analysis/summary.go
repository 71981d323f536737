package analysis

import "github.com/KaramelBytes/csvlens/internal/table"

// ColumnType pairs a column name with its inferred kind.
type ColumnType struct {
	Name string     `json:"name"`
	Kind table.Kind `json:"kind"`
}

// ColumnMissing is a column's missing-cell count and its share of rows.
type ColumnMissing struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Pct   float64 `json:"pct"`
}

// DatasetSummary is a read-only snapshot of whole-table metadata.
type DatasetSummary struct {
	Name         string          `json:"name"`
	Rows         int             `json:"rows"`
	Cols         int             `json:"cols"`
	Columns      []ColumnType    `json:"columns"`
	MissingTotal int             `json:"missing_total"`
	Missing      []ColumnMissing `json:"missing"`
}

// Summarize computes the dataset summary of t. An empty table yields zero counts.
func Summarize(t *table.Table) DatasetSummary {
	s := DatasetSummary{
		Name:    t.Name(),
		Rows:    t.NumRows(),
		Cols:    t.NumCols(),
		Columns: make([]ColumnType, 0, t.NumCols()),
		Missing: make([]ColumnMissing, 0, t.NumCols()),
	}
	for _, c := range t.Columns() {
		s.Columns = append(s.Columns, ColumnType{Name: c.Name, Kind: c.Kind})
		m := ColumnMissing{Name: c.Name, Count: c.MissingCount()}
		if s.Rows > 0 {
			m.Pct = float64(m.Count) * 100.0 / float64(s.Rows)
		}
		s.Missing = append(s.Missing, m)
		s.MissingTotal += m.Count
	}
	return s
}

// Cells returns the total number of cells.
func (s DatasetSummary) Cells() int { return s.Rows * s.Cols }

// CompletePct is the share of non-missing cells; 100 for an empty table.
func (s DatasetSummary) CompletePct() float64 {
	if s.Cells() == 0 {
		return 100
	}
	return 100 - float64(s.MissingTotal)*100.0/float64(s.Cells())
}
