package analysis

import (
	"context"
	"math"
	"runtime"
	"sort"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/csvlens/internal/table"
)

// DefaultTopN is the number of most frequent values kept in a profile.
const DefaultTopN = 8

// Options controls profiling.
type Options struct {
	// TopN limits ColumnProfile.TopValues; <= 0 means DefaultTopN.
	TopN int
	// Workers bounds concurrent column profiling in ProfileAll; <= 0 means GOMAXPROCS.
	Workers int
}

// DefaultOptions returns the default profiling options.
func DefaultOptions() Options {
	return Options{TopN: DefaultTopN}
}

// ValueCount is a distinct value and how often it occurs.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// NumericSummary holds aggregates of a numeric column's non-missing values.
type NumericSummary struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	// Std is the sample standard deviation; nil when Count < 2.
	Std    *float64 `json:"std"`
	Q1     float64  `json:"q1"`
	Median float64  `json:"median"`
	Q3     float64  `json:"q3"`
}

// ColumnProfile is a read-only snapshot of one column's statistics.
type ColumnProfile struct {
	Name       string       `json:"name"`
	Kind       table.Kind   `json:"kind"`
	Rows       int          `json:"rows"`
	NonMissing int          `json:"non_missing"`
	Missing    int          `json:"missing"`
	MissingPct float64      `json:"missing_pct"`
	Unique     int          `json:"unique"`
	Mode       string       `json:"mode,omitempty"`
	ModeCount  int          `json:"mode_count"`
	TopValues  []ValueCount `json:"top_values,omitempty"`
	// Numeric is set only for numeric columns with at least one value.
	Numeric *NumericSummary `json:"numeric,omitempty"`
}

// ProfileColumn computes the profile of the named column.
func ProfileColumn(t *table.Table, name string, opt Options) (ColumnProfile, error) {
	col, ok := t.Column(name)
	if !ok {
		return ColumnProfile{}, &UnknownColumnError{Name: name}
	}
	return profileColumn(col, opt), nil
}

// ProfileAll profiles every column of t concurrently. Results are in column order.
func ProfileAll(ctx context.Context, t *table.Table, opt Options) ([]ColumnProfile, error) {
	out := make([]ColumnProfile, t.NumCols())
	workers := opt.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, col := range t.Columns() {
		if gctx.Err() != nil {
			break
		}
		i, col := i, col
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = profileColumn(col, opt)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ValueCounts returns every distinct non-missing value of the column with its
// frequency, most frequent first; ties keep first-seen order.
func ValueCounts(t *table.Table, name string) ([]ValueCount, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, &UnknownColumnError{Name: name}
	}
	return countValues(col).sorted(), nil
}

// NumericValues returns the non-missing values of a numeric column in row order.
func NumericValues(t *table.Table, name string) ([]float64, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, &UnknownColumnError{Name: name}
	}
	if col.Kind != table.Numeric {
		return nil, &TypeMismatchError{Column: name, Kind: col.Kind}
	}
	vals := make([]float64, 0, col.Len())
	for _, c := range col.Cells {
		if x, ok := c.Number(); ok {
			vals = append(vals, x)
		}
	}
	return vals, nil
}

type freq struct {
	value string
	count int
}

// frequencies tracks value counts in first-seen order.
type frequencies struct {
	index map[string]int
	order []freq
}

func (f *frequencies) add(c table.Cell) {
	k := c.Key()
	if i, ok := f.index[k]; ok {
		f.order[i].count++
		return
	}
	f.index[k] = len(f.order)
	f.order = append(f.order, freq{value: c.Raw(), count: 1})
}

// mode returns the first-seen value with the highest count.
func (f *frequencies) mode() (string, int) {
	var best freq
	for _, v := range f.order {
		if v.count > best.count {
			best = v
		}
	}
	return best.value, best.count
}

func (f *frequencies) sorted() []ValueCount {
	out := make([]ValueCount, len(f.order))
	for i, v := range f.order {
		out[i] = ValueCount{Value: v.value, Count: v.count}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func countValues(col *table.Column) *frequencies {
	f := &frequencies{index: make(map[string]int)}
	for _, c := range col.Cells {
		if !c.IsMissing() {
			f.add(c)
		}
	}
	return f
}

// profileColumn makes a single pass over the cells, feeding the frequency
// table and collecting numeric values with their range.
func profileColumn(col *table.Column, opt Options) ColumnProfile {
	p := ColumnProfile{Name: col.Name, Kind: col.Kind, Rows: col.Len()}
	f := &frequencies{index: make(map[string]int)}

	var (
		lo, hi = math.Inf(1), math.Inf(-1)
		vals   []float64
	)
	for _, c := range col.Cells {
		if c.IsMissing() {
			p.Missing++
			continue
		}
		p.NonMissing++
		f.add(c)
		x, ok := c.Number()
		if !ok {
			continue
		}
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
		vals = append(vals, x)
	}

	if p.Rows > 0 {
		p.MissingPct = float64(p.Missing) * 100.0 / float64(p.Rows)
	}
	p.Unique = len(f.order)
	p.Mode, p.ModeCount = f.mode()
	topN := opt.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	top := f.sorted()
	if len(top) > topN {
		top = top[:topN]
	}
	p.TopValues = top

	if col.Kind == table.Numeric && len(vals) > 0 {
		mean, sd := moments(vals, math.Max(math.Abs(lo), math.Abs(hi)))
		// rounding can push the running mean a hair outside [lo, hi]
		mean = math.Min(math.Max(mean, lo), hi)
		ns := &NumericSummary{Count: len(vals), Min: lo, Max: hi, Mean: mean}
		// a spread beyond MaxFloat64 has no finite std
		if len(vals) >= 2 && !math.IsInf(sd, 0) && !math.IsNaN(sd) {
			ns.Std = &sd
		}
		ns.Q1, ns.Median, ns.Q3 = quartiles(vals)
		p.Numeric = ns
	}
	return p
}

// moments returns the mean and sample standard deviation of vals using
// Welford's update. Values are divided by a power of two so that every
// scaled value lies in (-2, 2) and the running sums cannot overflow; the
// division is exact.
func moments(vals []float64, maxAbs float64) (mean, sd float64) {
	scale := 1.0
	if maxAbs > 0 {
		_, exp := math.Frexp(maxAbs)
		scale = math.Ldexp(1, exp-1)
	}
	var m2 float64
	for i, x := range vals {
		x /= scale
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
	}
	if len(vals) >= 2 {
		sd = math.Sqrt(m2/float64(len(vals)-1)) * scale
	}
	return mean * scale, sd
}

func quartiles(vals []float64) (q1, median, q3 float64) {
	if len(vals) == 1 {
		return vals[0], vals[0], vals[0]
	}
	// medians average two values, so work on halves to stay finite
	half := make([]float64, len(vals))
	for i, x := range vals {
		half[i] = x / 2
	}
	q, err := stats.Quartile(half)
	if err != nil {
		return math.NaN(), math.NaN(), math.NaN()
	}
	return q.Q1 * 2, q.Q2 * 2, q.Q3 * 2
}
