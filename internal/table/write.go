package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/KaramelBytes/csvlens/internal/utils"
)

// WriteCSV writes t with a header row. Missing cells are written as empty fields.
// A table without columns is written as a single empty header line.
func WriteCSV(w io.Writer, t *Table, delim rune) error {
	cw := csv.NewWriter(w)
	if delim != 0 {
		cw.Comma = delim
	}
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if t.NumCols() == 0 {
		cw.Flush()
		return cw.Error()
	}
	rec := make([]string, t.NumCols())
	for i := 0; i < t.NumRows(); i++ {
		for j, c := range t.Columns() {
			rec[j] = c.Cells[i].Raw()
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes t to path atomically.
func SaveCSV(path string, t *Table, delim rune) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t, delim); err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
