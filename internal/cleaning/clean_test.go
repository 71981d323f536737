package cleaning_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/csvlens/internal/cleaning"
	"github.com/KaramelBytes/csvlens/internal/table"
	"github.com/KaramelBytes/csvlens/internal/testkit"
)

func mustRead(t *testing.T, in string) *table.Table {
	t.Helper()
	tbl, err := table.ReadCSV(strings.NewReader(in), "t.csv", table.DefaultOptions())
	require.NoError(t, err)
	return tbl
}

func TestDropColumnsScenario(t *testing.T) {
	tbl := mustRead(t, "a,b\n1,x\n2,\n3,z\n")
	out, err := cleaning.DropColumnsWithMissing(tbl)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, out.Names())
	assert.Equal(t, 3, out.NumRows())
}

func TestDropRowsScenario(t *testing.T) {
	tbl := mustRead(t, "a,b\n1,x\n2,\n3,z\n")
	out, err := cleaning.DropRowsWithMissing(tbl)
	require.NoError(t, err)
	assert.Equal(t, 2, out.NumRows())
	assert.Equal(t, 2, out.NumCols())
	b, _ := out.Column("b")
	assert.Equal(t, "z", b.Cells[1].Raw())
}

func TestFillScenario(t *testing.T) {
	tbl := mustRead(t, "a,b\n1,x\n2,\n3,z\n")
	out, err := cleaning.FillMissing(tbl, "0")
	require.NoError(t, err)
	assert.Zero(t, out.MissingCount())
	b, _ := out.Column("b")
	assert.Equal(t, table.Text, b.Kind)
	assert.Equal(t, "0", b.Cells[1].Raw())
	a, _ := out.Column("a")
	assert.Equal(t, table.Numeric, a.Kind)
}

func TestFillKindRules(t *testing.T) {
	tbl := mustRead(t, "n,f,full\n1,true,7\n,,8\n2.5,false,9\n")

	out, err := cleaning.FillMissing(tbl, "0")
	require.NoError(t, err)
	n, _ := out.Column("n")
	assert.Equal(t, table.Numeric, n.Kind)
	x, ok := n.Cells[1].Number()
	require.True(t, ok)
	assert.Equal(t, 0.0, x)
	f, _ := out.Column("f")
	assert.Equal(t, table.Text, f.Kind)
	assert.Equal(t, "true", f.Cells[0].Raw())

	out, err = cleaning.FillMissing(tbl, "FALSE")
	require.NoError(t, err)
	f, _ = out.Column("f")
	assert.Equal(t, table.Boolean, f.Kind)
	v, ok := f.Cells[1].Bool()
	require.True(t, ok)
	assert.False(t, v)
	n, _ = out.Column("n")
	assert.Equal(t, table.Text, n.Kind)
	assert.Equal(t, "2.5", n.Cells[2].Raw())
	assert.False(t, n.Cells[2].IsNumber())

	full, _ := out.Column("full")
	assert.Equal(t, table.Numeric, full.Kind)
}

func TestAllDroppedIsValid(t *testing.T) {
	tbl := mustRead(t, "a,b\n,1\n2,\n")

	rows, err := cleaning.DropRowsWithMissing(tbl)
	require.NoError(t, err)
	assert.Equal(t, 0, rows.NumRows())
	assert.Equal(t, 2, rows.NumCols())

	cols, err := cleaning.DropColumnsWithMissing(tbl)
	require.NoError(t, err)
	assert.Equal(t, 0, cols.NumCols())
	assert.Equal(t, 2, cols.NumRows())
}

func TestFillAllMissingColumnStaysNumeric(t *testing.T) {
	tbl := mustRead(t, "a,b\n1,\n2,\n")
	out, err := cleaning.FillMissing(tbl, "0")
	require.NoError(t, err)
	b, _ := out.Column("b")
	assert.Equal(t, table.Numeric, b.Kind)
	x, ok := b.Cells[0].Number()
	require.True(t, ok)
	assert.Equal(t, 0.0, x)
}

func TestCleaningProperties(t *testing.T) {
	for _, seed := range testkit.Seeds(12) {
		tbl := testkit.RandomTable(seed, testkit.Shape{Rows: 30, Cols: 6, MissingRate: 0.15})
		snapshot := testkit.RandomTable(seed, testkit.Shape{Rows: 30, Cols: 6, MissingRate: 0.15})

		filled, err := cleaning.FillMissing(tbl, "0")
		require.NoError(t, err)
		assert.Zero(t, filled.MissingCount())
		assert.Equal(t, tbl.NumRows(), filled.NumRows())
		assert.Equal(t, tbl.Names(), filled.Names())
		again, err := cleaning.FillMissing(filled, "0")
		require.NoError(t, err)
		assert.True(t, again.Equal(filled), "fill is idempotent")

		rows, err := cleaning.DropRowsWithMissing(tbl)
		require.NoError(t, err)
		assert.Zero(t, rows.MissingCount())
		assert.LessOrEqual(t, rows.NumRows(), tbl.NumRows())
		assert.Equal(t, tbl.NumCols(), rows.NumCols())

		cols, err := cleaning.DropColumnsWithMissing(tbl)
		require.NoError(t, err)
		assert.Zero(t, cols.MissingCount())
		assert.LessOrEqual(t, cols.NumCols(), tbl.NumCols())
		assert.Equal(t, tbl.NumRows(), cols.NumRows())

		assert.True(t, tbl.Equal(snapshot), "input must not be mutated")
	}
}

func TestNoMissingIsIdentity(t *testing.T) {
	tbl := testkit.RandomTable(99, testkit.Shape{Rows: 20, Cols: 5})
	for _, op := range cleaning.Ops {
		out, err := cleaning.Apply(tbl, op, "x")
		require.NoError(t, err)
		assert.True(t, out.Equal(tbl), "op %s", op)
	}
}

func TestParseOp(t *testing.T) {
	op, err := cleaning.ParseOp("Drop_Rows")
	require.NoError(t, err)
	assert.Equal(t, cleaning.DropRows, op)

	_, err = cleaning.ParseOp("shuffle")
	assert.ErrorIs(t, err, cleaning.ErrUnknownOp)

	_, err = cleaning.Apply(mustRead(t, "a\n1\n"), cleaning.Op("nope"), "")
	assert.ErrorIs(t, err, cleaning.ErrUnknownOp)
}
