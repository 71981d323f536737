// Package testkit builds randomized tables for property-style tests.
package testkit

import (
	"fmt"
	"strconv"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/KaramelBytes/csvlens/internal/table"
)

// Shape describes a random table to generate.
type Shape struct {
	Rows int
	Cols int
	// MissingRate is the probability in [0,1] that a cell is missing.
	MissingRate float64
}

// RandomTable generates a deterministic table for seed with a mix of
// numeric, text and boolean columns.
func RandomTable(seed int64, s Shape) *table.Table {
	f := gofakeit.New(seed)
	cols := make([]*table.Column, s.Cols)
	for j := range cols {
		kind := table.Kind(j % 3)
		col := &table.Column{Name: fmt.Sprintf("c%d_%s", j, kind), Kind: kind, Cells: make([]table.Cell, s.Rows)}
		for i := range col.Cells {
			if f.Float64Range(0, 1) < s.MissingRate {
				continue
			}
			switch kind {
			case table.Numeric:
				x := float64(f.IntRange(-500, 500)) / 4
				col.Cells[i] = table.NumberCell(x, strconv.FormatFloat(x, 'g', -1, 64))
			case table.Boolean:
				v := f.Bool()
				col.Cells[i] = table.BoolCell(v, strconv.FormatBool(v))
			default:
				col.Cells[i] = table.TextCell(f.Word())
			}
		}
		cols[j] = col
	}
	t, err := table.New(fmt.Sprintf("random-%d", seed), cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// Seeds returns n deterministic seeds.
func Seeds(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i*7919 + 17)
	}
	return out
}
