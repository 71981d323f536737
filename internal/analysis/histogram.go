package analysis

import "github.com/KaramelBytes/csvlens/internal/table"

// Bin is one equal-width histogram bucket covering [Lo, Hi).
// The last bin also includes Hi.
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Histogram buckets the non-missing values of a numeric column into bins
// equal-width bins spanning [min, max]. A constant column spans [v-0.5, v+0.5].
func Histogram(t *table.Table, name string, bins int) ([]Bin, error) {
	vals, err := NumericValues(t, name)
	if err != nil {
		return nil, err
	}
	if bins <= 0 {
		bins = 10
	}
	if len(vals) == 0 {
		return nil, nil
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	// halved operands keep hi-lo finite across the whole float range
	span := hi/2 - lo/2
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lo = lerp(lo, hi, float64(i)/float64(bins))
		out[i].Hi = lerp(lo, hi, float64(i+1)/float64(bins))
	}
	out[bins-1].Hi = hi
	for _, v := range vals {
		i := int((v/2 - lo/2) / span * float64(bins))
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		out[i].Count++
	}
	return out, nil
}

func lerp(lo, hi, f float64) float64 {
	if f == 0 {
		return lo
	}
	return lo*(1-f) + hi*f
}
