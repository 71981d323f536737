package analysis_test

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/csvlens/internal/analysis"
	"github.com/KaramelBytes/csvlens/internal/table"
	"github.com/KaramelBytes/csvlens/internal/testkit"
)

func mustRead(t *testing.T, in string) *table.Table {
	t.Helper()
	tbl, err := table.ReadCSV(strings.NewReader(in), "t.csv", table.DefaultOptions())
	require.NoError(t, err)
	return tbl
}

func TestScenarioSmallTable(t *testing.T) {
	tbl := mustRead(t, "a,b\n1,x\n2,\n3,z\n")

	s := analysis.Summarize(tbl)
	assert.Equal(t, 3, s.Rows)
	assert.Equal(t, 2, s.Cols)
	assert.Equal(t, 1, s.MissingTotal)
	assert.Equal(t, []analysis.ColumnType{{Name: "a", Kind: table.Numeric}, {Name: "b", Kind: table.Text}}, s.Columns)

	b, err := analysis.ProfileColumn(tbl, "b", analysis.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, b.NonMissing)
	assert.Equal(t, 1, b.Missing)
	assert.Equal(t, 2, b.Unique)
	assert.Equal(t, "x", b.Mode)
	assert.Equal(t, 1, b.ModeCount)
	assert.Nil(t, b.Numeric)

	a, err := analysis.ProfileColumn(tbl, "a", analysis.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, a.Numeric)
	assert.Equal(t, 1.0, a.Numeric.Min)
	assert.Equal(t, 3.0, a.Numeric.Max)
	assert.InDelta(t, 2.0, a.Numeric.Mean, 1e-12)
	require.NotNil(t, a.Numeric.Std)
	assert.InDelta(t, 1.0, *a.Numeric.Std, 1e-12)
	assert.Equal(t, 2.0, a.Numeric.Median)
}

func TestProfileUnknownColumn(t *testing.T) {
	tbl := mustRead(t, "a\n1\n")
	_, err := analysis.ProfileColumn(tbl, "nope", analysis.DefaultOptions())
	var uc *analysis.UnknownColumnError
	require.ErrorAs(t, err, &uc)
	assert.Equal(t, "nope", uc.Name)
}

func TestModeTieBreakIsFirstSeen(t *testing.T) {
	tbl := mustRead(t, "v\nb\na\na\nb\nc\n")
	p, err := analysis.ProfileColumn(tbl, "v", analysis.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "b", p.Mode)
	assert.Equal(t, 2, p.ModeCount)
	assert.Equal(t, []analysis.ValueCount{{Value: "b", Count: 2}, {Value: "a", Count: 2}, {Value: "c", Count: 1}}, p.TopValues)
}

func TestNumericValuesCollapseByValue(t *testing.T) {
	tbl := mustRead(t, "v\n1\n1.0\n2\n")
	p, err := analysis.ProfileColumn(tbl, "v", analysis.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, p.Unique)
	assert.Equal(t, "1", p.Mode)
	assert.Equal(t, 2, p.ModeCount)
}

func TestStdAbsentBelowTwoValues(t *testing.T) {
	tbl := mustRead(t, "v,w\n5,\nNA,\n")
	p, err := analysis.ProfileColumn(tbl, "v", analysis.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, p.Numeric)
	assert.Nil(t, p.Numeric.Std)
	assert.Equal(t, 5.0, p.Numeric.Mean)
	assert.Equal(t, 5.0, p.Numeric.Q1)

	w, err := analysis.ProfileColumn(tbl, "w", analysis.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, table.Numeric, w.Kind)
	assert.Nil(t, w.Numeric)
	assert.Equal(t, 0, w.ModeCount)
	assert.Equal(t, "", w.Mode)
	assert.Equal(t, 100.0, w.MissingPct)
}

func TestNumericAggregatesAgainstOracle(t *testing.T) {
	for _, seed := range testkit.Seeds(10) {
		tbl := testkit.RandomTable(seed, testkit.Shape{Rows: 60, Cols: 3, MissingRate: 0.2})
		col := tbl.ColumnAt(1)
		require.Equal(t, table.Numeric, col.Kind)

		vals, err := analysis.NumericValues(tbl, col.Name)
		require.NoError(t, err)
		p, err := analysis.ProfileColumn(tbl, col.Name, analysis.DefaultOptions())
		require.NoError(t, err)
		if len(vals) == 0 {
			assert.Nil(t, p.Numeric)
			continue
		}
		n := p.Numeric
		require.NotNil(t, n)
		assert.LessOrEqual(t, n.Min, n.Mean)
		assert.LessOrEqual(t, n.Mean, n.Max)
		assert.LessOrEqual(t, n.Q1, n.Median)
		assert.LessOrEqual(t, n.Median, n.Q3)

		mean, _ := stats.Mean(vals)
		assert.InDelta(t, mean, n.Mean, 1e-9)
		median, _ := stats.Median(vals)
		assert.InDelta(t, median, n.Median, 1e-9)
		if len(vals) >= 2 {
			sd, _ := stats.StandardDeviationSample(vals)
			require.NotNil(t, n.Std)
			assert.InDelta(t, sd, *n.Std, 1e-9)
		}
	}
}

func TestMeanWithinBoundsForConstantColumn(t *testing.T) {
	tbl := mustRead(t, "v\n0.1\n0.1\n0.1\n0.1\n0.1\n0.1\n0.1\n")
	p, err := analysis.ProfileColumn(tbl, "v", analysis.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0.1, p.Numeric.Mean)
	assert.Equal(t, 0.0, *p.Numeric.Std)
}

func TestExtremeMagnitudesStayFinite(t *testing.T) {
	cases := []struct {
		in      string
		wantStd float64
	}{
		{"v\n1e308\n-1e308\n", math.Sqrt2 * 1e308},
		{"v\n1e200\n-1e200\n", math.Sqrt2 * 1e200},
	}
	for _, tc := range cases {
		tbl := mustRead(t, tc.in)
		p, err := analysis.ProfileColumn(tbl, "v", analysis.DefaultOptions())
		require.NoError(t, err)
		require.NotNil(t, p.Numeric)
		assert.Equal(t, 0.0, p.Numeric.Mean)
		require.NotNil(t, p.Numeric.Std)
		assert.InEpsilon(t, tc.wantStd, *p.Numeric.Std, 1e-12)

		_, err = json.Marshal(p)
		assert.NoError(t, err)

		bins, err := analysis.Histogram(tbl, "v", 4)
		require.NoError(t, err)
		for _, b := range bins {
			assert.False(t, math.IsInf(b.Lo, 0) || math.IsNaN(b.Lo), "bin lo %v", b.Lo)
			assert.False(t, math.IsInf(b.Hi, 0) || math.IsNaN(b.Hi), "bin hi %v", b.Hi)
		}
		assert.Equal(t, 1, bins[0].Count)
		assert.Equal(t, 1, bins[3].Count)
		_, err = json.Marshal(bins)
		assert.NoError(t, err)
	}
}

func TestQuartilesOfHugeEqualValues(t *testing.T) {
	tbl := mustRead(t, "v\n1e308\n1e308\n1e308\n1e308\n")
	p, err := analysis.ProfileColumn(tbl, "v", analysis.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1e308, p.Numeric.Median)
	assert.Equal(t, 1e308, p.Numeric.Q1)
	assert.Equal(t, 1e308, p.Numeric.Mean)
	assert.Equal(t, 0.0, *p.Numeric.Std)
}

func TestStdOmittedWhenSpreadOverflows(t *testing.T) {
	tbl := mustRead(t, "v\n1.7e308\n-1.7e308\n")
	p, err := analysis.ProfileColumn(tbl, "v", analysis.DefaultOptions())
	require.NoError(t, err)
	assert.Nil(t, p.Numeric.Std)
	assert.Equal(t, 0.0, p.Numeric.Mean)
	_, err = json.Marshal(p)
	assert.NoError(t, err)
}

func TestNumericValuesTypeMismatch(t *testing.T) {
	tbl := mustRead(t, "a,b\n1,x\n")
	_, err := analysis.NumericValues(tbl, "b")
	var tm *analysis.TypeMismatchError
	require.ErrorAs(t, err, &tm)
	assert.Equal(t, table.Text, tm.Kind)

	_, err = analysis.NumericValues(tbl, "zzz")
	var uc *analysis.UnknownColumnError
	assert.ErrorAs(t, err, &uc)
}

func TestValueCounts(t *testing.T) {
	tbl := mustRead(t, "v\nTrue\nfalse\nTRUE\n\n")
	vc, err := analysis.ValueCounts(tbl, "v")
	require.NoError(t, err)
	assert.Equal(t, []analysis.ValueCount{{Value: "True", Count: 2}, {Value: "false", Count: 1}}, vc)
}

func TestTopNLimit(t *testing.T) {
	tbl := mustRead(t, "v\na\nb\nc\nd\n")
	p, err := analysis.ProfileColumn(tbl, "v", analysis.Options{TopN: 2})
	require.NoError(t, err)
	assert.Len(t, p.TopValues, 2)
	assert.Equal(t, 4, p.Unique)
}

func TestProfileAllMatchesSequential(t *testing.T) {
	tbl := testkit.RandomTable(42, testkit.Shape{Rows: 200, Cols: 12, MissingRate: 0.1})
	got, err := analysis.ProfileAll(context.Background(), tbl, analysis.Options{Workers: 4})
	require.NoError(t, err)
	require.Len(t, got, tbl.NumCols())
	for i, name := range tbl.Names() {
		want, err := analysis.ProfileColumn(tbl, name, analysis.Options{})
		require.NoError(t, err)
		assert.Equal(t, want, got[i])
	}
}

func TestProfileAllCanceled(t *testing.T) {
	tbl := testkit.RandomTable(1, testkit.Shape{Rows: 10, Cols: 4})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := analysis.ProfileAll(ctx, tbl, analysis.DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProfileJSON(t *testing.T) {
	tbl := mustRead(t, "a\n1\n")
	p, err := analysis.ProfileColumn(tbl, "a", analysis.DefaultOptions())
	require.NoError(t, err)
	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"kind":"numeric"`)
	assert.Contains(t, string(b), `"std":null`)
}
