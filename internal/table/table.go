package table

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the inferred type of a column.
type Kind uint8

const (
	Text Kind = iota
	Numeric
	Boolean
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Boolean:
		return "boolean"
	}
	return "text"
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "numeric":
		*k = Numeric
	case "boolean":
		*k = Boolean
	default:
		*k = Text
	}
	return nil
}

type cellTag uint8

const (
	tagMissing cellTag = iota
	tagNumber
	tagText
	tagBool
)

// Cell is a single table value. The zero Cell is missing.
// Non-missing cells keep the raw token they were parsed from.
type Cell struct {
	tag cellTag
	num float64
	b   bool
	raw string
}

// MissingCell returns a missing cell.
func MissingCell() Cell { return Cell{} }

// NumberCell returns a numeric cell; raw is the original token.
func NumberCell(v float64, raw string) Cell {
	if raw == "" {
		raw = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return Cell{tag: tagNumber, num: v, raw: raw}
}

// TextCell returns a text cell.
func TextCell(s string) Cell { return Cell{tag: tagText, raw: s} }

// BoolCell returns a boolean cell; raw is the original token.
func BoolCell(v bool, raw string) Cell {
	if raw == "" {
		raw = strconv.FormatBool(v)
	}
	return Cell{tag: tagBool, b: v, raw: raw}
}

func (c Cell) IsMissing() bool { return c.tag == tagMissing }
func (c Cell) IsNumber() bool  { return c.tag == tagNumber }
func (c Cell) IsBool() bool    { return c.tag == tagBool }

// Number returns the numeric value and whether the cell is numeric.
func (c Cell) Number() (float64, bool) { return c.num, c.tag == tagNumber }

// Bool returns the boolean value and whether the cell is boolean.
func (c Cell) Bool() (bool, bool) { return c.b, c.tag == tagBool }

// Raw returns the original token ("" for missing cells).
func (c Cell) Raw() string { return c.raw }

// Key is the canonical value used for equality and frequency counting.
// Numeric cells are keyed by their float value so "1" and "1.0" collapse.
func (c Cell) Key() string {
	switch c.tag {
	case tagNumber:
		return strconv.FormatFloat(c.num, 'g', -1, 64)
	case tagBool:
		return strconv.FormatBool(c.b)
	case tagMissing:
		return ""
	}
	return c.raw
}

// AsText returns the cell demoted to text, keeping its raw token.
func (c Cell) AsText() Cell {
	if c.tag == tagMissing {
		return c
	}
	return TextCell(c.raw)
}

func (c Cell) String() string {
	if c.tag == tagMissing {
		return "NaN"
	}
	return c.raw
}

// Column is a named, uniformly typed sequence of cells.
type Column struct {
	Name  string
	Kind  Kind
	Cells []Cell
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.Cells) }

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.IsMissing() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	cells := make([]Cell, len(c.Cells))
	copy(cells, c.Cells)
	return &Column{Name: c.Name, Kind: c.Kind, Cells: cells}
}

var (
	// ErrRaggedColumns is returned when columns have different lengths.
	ErrRaggedColumns = errors.New("columns have different lengths")
	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column name")
)

// Table is an ordered set of equal-length named columns. A Table is not
// modified after construction; operations that change data return a new one.
type Table struct {
	name  string
	cols  []*Column
	index map[string]int
	rows  int
}

// New builds a table from columns. The columns are owned by the table
// afterwards and must not be modified by the caller. The row count is taken
// from the first column, or 0 when there are none.
func New(name string, cols ...*Column) (*Table, error) {
	rows := 0
	if len(cols) > 0 && cols[0] != nil {
		rows = cols[0].Len()
	}
	return NewWithRows(name, rows, cols...)
}

// NewWithRows is New with an explicit row count, so a table whose columns
// were all removed still reports how many rows it had.
func NewWithRows(name string, rows int, cols ...*Column) (*Table, error) {
	if rows < 0 {
		return nil, fmt.Errorf("negative row count %d", rows)
	}
	t := &Table{name: name, cols: cols, index: make(map[string]int, len(cols)), rows: rows}
	for i, c := range cols {
		if c == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if c.Len() != t.rows {
			return nil, fmt.Errorf("%w: %q has %d rows, want %d", ErrRaggedColumns, c.Name, c.Len(), t.rows)
		}
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		t.index[c.Name] = i
	}
	return t, nil
}

// Name returns the table name (usually the source file base name).
func (t *Table) Name() string { return t.name }

// NumRows returns the row count.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// Columns returns the columns in order. The slice and columns must be treated as read-only.
func (t *Table) Columns() []*Column { return t.cols }

// ColumnAt returns the i-th column.
func (t *Table) ColumnAt(i int) *Column { return t.cols[i] }

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// Row returns a copy of the cells of row i across all columns.
func (t *Table) Row(i int) []Cell {
	row := make([]Cell, len(t.cols))
	for j, c := range t.cols {
		row[j] = c.Cells[i]
	}
	return row
}

// MissingCount returns the total number of missing cells.
func (t *Table) MissingCount() int {
	n := 0
	for _, c := range t.cols {
		n += c.MissingCount()
	}
	return n
}

// Equal reports whether both tables have the same shape, column names,
// kinds and cell values.
func (t *Table) Equal(o *Table) bool {
	if t.rows != o.rows || len(t.cols) != len(o.cols) {
		return false
	}
	for i, c := range t.cols {
		oc := o.cols[i]
		if c.Name != oc.Name || c.Kind != oc.Kind {
			return false
		}
		for r := range c.Cells {
			a, b := c.Cells[r], oc.Cells[r]
			if a.IsMissing() != b.IsMissing() || a.Key() != b.Key() {
				return false
			}
		}
	}
	return true
}
