package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/KaramelBytes/csvlens/internal/table"
)

// Report bundles the dataset summary with every column profile.
type Report struct {
	Summary  DatasetSummary  `json:"summary"`
	Profiles []ColumnProfile `json:"profiles"`
}

// Analyze summarizes t and profiles all of its columns.
func Analyze(ctx context.Context, t *table.Table, opt Options) (*Report, error) {
	profiles, err := ProfileAll(ctx, t, opt)
	if err != nil {
		return nil, err
	}
	return &Report{Summary: Summarize(t), Profiles: profiles}, nil
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	s := r.Summary
	b.WriteString("[DATASET SUMMARY]\n")
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %s\n", humanize.Comma(int64(s.Rows))))
	b.WriteString(fmt.Sprintf("Columns: %d\n", s.Cols))
	b.WriteString(fmt.Sprintf("Missing cells: %s (%.1f%% complete)\n\n", humanize.Comma(int64(s.MissingTotal)), s.CompletePct()))

	b.WriteString("[SCHEMA]\n")
	for _, p := range r.Profiles {
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(p.Name), p.Kind, p.NonMissing, p.MissingPct))
		switch {
		case p.Numeric != nil:
			n := p.Numeric
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %s", n.Min, n.Max, n.Mean, fmtStd(n.Std)))
		case len(p.TopValues) > 0:
			b.WriteString(" — top: ")
			for i, kv := range p.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
			if p.Unique > len(p.TopValues) {
				b.WriteString(fmt.Sprintf("; unique=%d", p.Unique))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(MissingMarkdown(s))
	return b.String()
}

// MissingMarkdown renders the per-column missing-value table.
func MissingMarkdown(s DatasetSummary) string {
	var b strings.Builder
	b.WriteString("[MISSING VALUES]\n")
	b.WriteString("| Column | Missing | Percentage (%) |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, m := range s.Missing {
		b.WriteString(fmt.Sprintf("| %s | %d | %.2f |\n", safeVal(safeName(m.Name)), m.Count, m.Pct))
	}
	if s.MissingTotal == 0 {
		b.WriteString("\nNo missing values found!\n")
	}
	return b.String()
}

// Markdown renders the statistics of a single column.
func (p ColumnProfile) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[COLUMN STATS: %s]\n", safeName(p.Name)))
	b.WriteString("| Statistic | Value |\n")
	b.WriteString("| --- | --- |\n")
	row := func(k, v string) { b.WriteString(fmt.Sprintf("| %s | %s |\n", k, v)) }
	row("Data Type", p.Kind.String())
	row("Non-Null", fmt.Sprintf("%d", p.NonMissing))
	row("Missing", fmt.Sprintf("%d (%.2f%%)", p.Missing, p.MissingPct))
	row("Unique Values", fmt.Sprintf("%d", p.Unique))
	if p.ModeCount > 0 {
		row("Top Value", fmt.Sprintf("%s (%d)", safeVal(p.Mode), p.ModeCount))
	} else {
		row("Top Value", "N/A")
	}
	if n := p.Numeric; n != nil {
		row("Mean", fmt.Sprintf("%.4g", n.Mean))
		row("Std", fmtStd(n.Std))
		row("Min", fmt.Sprintf("%.4g", n.Min))
		row("25%", fmt.Sprintf("%.4g", n.Q1))
		row("50%", fmt.Sprintf("%.4g", n.Median))
		row("75%", fmt.Sprintf("%.4g", n.Q3))
		row("Max", fmt.Sprintf("%.4g", n.Max))
	} else {
		row("Mean", "N/A")
	}
	return b.String()
}

func fmtStd(sd *float64) string {
	if sd == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4g", *sd)
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
