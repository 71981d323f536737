// Package cleaning implements table-to-table cleaning operations. Every
// operation returns a new table and leaves its input untouched.
package cleaning

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/csvlens/internal/table"
)

// ErrUnknownOp is returned by ParseOp and Apply for an unrecognized operation.
var ErrUnknownOp = errors.New("unknown cleaning operation")

// Op names a cleaning operation.
type Op string

const (
	DropRows Op = "drop-rows"
	DropCols Op = "drop-cols"
	Fill     Op = "fill"
)

// Ops lists the supported operations in display order.
var Ops = []Op{DropRows, DropCols, Fill}

// ParseOp resolves an operation name. Underscores are accepted in place of dashes.
func ParseOp(s string) (Op, error) {
	op := Op(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	for _, known := range Ops {
		if op == known {
			return op, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOp, s)
}

// Apply runs op on t. value is only used by Fill.
func Apply(t *table.Table, op Op, value string) (*table.Table, error) {
	switch op {
	case DropRows:
		return DropRowsWithMissing(t)
	case DropCols:
		return DropColumnsWithMissing(t)
	case Fill:
		return FillMissing(t, value)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOp, string(op))
}

// FillMissing replaces every missing cell with value.
//
// A numeric column stays numeric only if value is a finite number and a
// boolean column stays boolean only if value is true/false; otherwise the
// column becomes text and its existing cells keep their original tokens.
// Columns without missing cells are copied unchanged.
func FillMissing(t *table.Table, value string) (*table.Table, error) {
	num, isNum := table.ParseNumber(value)
	b, isBool := table.ParseBool(value)

	cols := make([]*table.Column, 0, t.NumCols())
	for _, c := range t.Columns() {
		out := c.Clone()
		if c.MissingCount() == 0 {
			cols = append(cols, out)
			continue
		}
		var fill table.Cell
		switch {
		case c.Kind == table.Numeric && isNum:
			fill = table.NumberCell(num, value)
		case c.Kind == table.Boolean && isBool:
			fill = table.BoolCell(b, value)
		default:
			out.Kind = table.Text
			fill = table.TextCell(value)
		}
		for i, cell := range out.Cells {
			switch {
			case cell.IsMissing():
				out.Cells[i] = fill
			case out.Kind == table.Text:
				out.Cells[i] = cell.AsText()
			}
		}
		cols = append(cols, out)
	}
	return table.New(t.Name(), cols...)
}

// DropRowsWithMissing keeps only rows without any missing cell.
func DropRowsWithMissing(t *table.Table) (*table.Table, error) {
	keep := make([]int, 0, t.NumRows())
	for r := 0; r < t.NumRows(); r++ {
		complete := true
		for _, c := range t.Columns() {
			if c.Cells[r].IsMissing() {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, r)
		}
	}

	cols := make([]*table.Column, 0, t.NumCols())
	for _, c := range t.Columns() {
		cells := make([]table.Cell, len(keep))
		for i, r := range keep {
			cells[i] = c.Cells[r]
		}
		cols = append(cols, &table.Column{Name: c.Name, Kind: c.Kind, Cells: cells})
	}
	return table.New(t.Name(), cols...)
}

// DropColumnsWithMissing keeps only columns without any missing cell. The
// row count is preserved even when every column is dropped.
func DropColumnsWithMissing(t *table.Table) (*table.Table, error) {
	cols := make([]*table.Column, 0, t.NumCols())
	for _, c := range t.Columns() {
		if c.MissingCount() == 0 {
			cols = append(cols, c.Clone())
		}
	}
	return table.NewWithRows(t.Name(), t.NumRows(), cols...)
}
