package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const bom = "\ufeff"

// DefaultMissingTokens are the NA spellings most dataframe tools treat as missing.
var DefaultMissingTokens = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// Options controls how files are parsed into tables.
type Options struct {
	// Delimiter for CSV. If 0, ',' is used (tab for .tsv files).
	Delimiter rune
	// MissingTokens are cell values treated as missing. nil means DefaultMissingTokens.
	MissingTokens []string
	// TrimSpace trims surrounding whitespace from every cell before matching and parsing.
	TrimSpace bool
	// Sheet selects an XLSX sheet by name; SheetIndex (1-based) is used when empty.
	Sheet      string
	SheetIndex int
}

// DefaultOptions returns comma-delimited parsing with the default NA tokens.
func DefaultOptions() Options {
	return Options{
		Delimiter:  ',',
		TrimSpace:  true,
		SheetIndex: 1,
	}
}

// ParseDelimiter converts a user-supplied delimiter into a rune. "" yields 0
// (auto), and "tab" or "\t" yields a tab.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 || r[0] == '"' || r[0] == '\r' || r[0] == '\n' {
		return 0, fmt.Errorf("invalid delimiter %q: want a single character", s)
	}
	return r[0], nil
}

func (o Options) missingSet() map[string]struct{} {
	toks := o.MissingTokens
	if toks == nil {
		toks = DefaultMissingTokens
	}
	set := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		set[t] = struct{}{}
	}
	return set
}

// Load parses the file at path. XLSX files are read with the sheet selected
// in opt; anything else is treated as delimited text.
func Load(path string, opt Options) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return LoadXLSX(path, opt)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	if opt.Delimiter == 0 && strings.EqualFold(filepath.Ext(path), ".tsv") {
		opt.Delimiter = '\t'
	}
	return readCSV(f, path, opt)
}

// ReadCSV parses delimited text with a header row from r. name is used for
// the table name and in error messages.
func ReadCSV(r io.Reader, name string, opt Options) (*Table, error) {
	return readCSV(r, name, opt)
}

func readCSV(r io.Reader, path string, opt Options) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.Comma = opt.Delimiter
	if cr.Comma == 0 {
		cr.Comma = ','
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Path: path, Err: ErrEmptyFile}
		}
		return nil, &LoadError{Path: path, Line: 1, Err: err}
	}
	header = append([]string(nil), header...)
	if len(header) == 1 && strings.TrimSpace(strings.TrimPrefix(header[0], bom)) == "" {
		return nil, &LoadError{Path: path, Err: ErrEmptyFile}
	}

	raw := make([][]string, len(header))
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.StartLine
			}
			return nil, &LoadError{Path: path, Line: line, Err: err}
		}
		if len(rec) != len(header) {
			line, _ := cr.FieldPos(0)
			return nil, &LoadError{
				Path: path,
				Line: line,
				Err:  fmt.Errorf("%w: got %d fields, want %d", ErrRowWidth, len(rec), len(header)),
			}
		}
		for j, v := range rec {
			raw[j] = append(raw[j], v)
		}
	}
	return build(path, header, raw, opt)
}

// LoadXLSX reads one sheet of an XLSX workbook. The first row is the header.
func LoadXLSX(path string, opt Options) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &LoadError{Path: path, Err: ErrEmptyFile}
	}
	sheet := ""
	if opt.Sheet != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.Sheet) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("sheet %q not found", opt.Sheet)}
		}
	} else {
		idx := opt.SheetIndex
		if idx <= 0 {
			idx = 1
		}
		if idx > len(sheets) {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("sheet index %d out of range (1..%d)", idx, len(sheets))}
		}
		sheet = sheets[idx-1]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("read sheet %q: %w", sheet, err)}
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, &LoadError{Path: path, Err: ErrEmptyFile}
	}
	header := rows[0]
	raw := make([][]string, len(header))
	for i, rec := range rows[1:] {
		// GetRows drops trailing blank cells, so short rows are padded.
		if len(rec) > len(header) {
			return nil, &LoadError{
				Path: path,
				Line: i + 2,
				Err:  fmt.Errorf("%w: got %d fields, want %d", ErrRowWidth, len(rec), len(header)),
			}
		}
		for j := range header {
			v := ""
			if j < len(rec) {
				v = rec[j]
			}
			raw[j] = append(raw[j], v)
		}
	}
	return build(path, header, raw, opt)
}

// build infers column kinds from raw string columns and assembles the table.
func build(path string, header []string, raw [][]string, opt Options) (*Table, error) {
	names := normalizeHeader(header)
	missing := opt.missingSet()
	cols := make([]*Column, len(names))
	for j, name := range names {
		cols[j] = inferColumn(name, raw[j], missing, opt.TrimSpace)
	}
	t, err := New(filepath.Base(path), cols...)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return t, nil
}

// normalizeHeader strips a UTF-8 BOM, names blank headers "Unnamed: i" and
// suffixes repeated names with ".1", ".2", ... so names stay unique.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, bom)
		}
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[h]; dup {
			for {
				n++
				cand := fmt.Sprintf("%s.%d", h, n)
				if _, taken := seen[cand]; !taken {
					seen[h] = n
					h = cand
					break
				}
			}
		}
		seen[h] = 0
		out[i] = h
	}
	return out
}

func inferColumn(name string, vals []string, missing map[string]struct{}, trim bool) *Column {
	cells := make([]Cell, len(vals))
	present := 0
	numeric, boolean := true, true
	for i, v := range vals {
		if trim {
			v = strings.TrimSpace(v)
		}
		if _, ok := missing[v]; ok {
			cells[i] = MissingCell()
			continue
		}
		present++
		cells[i] = TextCell(v)
		if numeric {
			if _, ok := ParseNumber(v); !ok {
				numeric = false
			}
		}
		if boolean {
			if _, ok := ParseBool(v); !ok {
				boolean = false
			}
		}
	}
	col := &Column{Name: name, Kind: Text, Cells: cells}
	if present == 0 {
		// rows that are all missing read as numeric; a header-only column stays text
		if len(cells) > 0 {
			col.Kind = Numeric
		}
		return col
	}
	switch {
	case numeric:
		col.Kind = Numeric
		for i, c := range cells {
			if c.IsMissing() {
				continue
			}
			x, _ := ParseNumber(c.Raw())
			cells[i] = NumberCell(x, c.Raw())
		}
	case boolean:
		col.Kind = Boolean
		for i, c := range cells {
			if c.IsMissing() {
				continue
			}
			b, _ := ParseBool(c.Raw())
			cells[i] = BoolCell(b, c.Raw())
		}
	}
	return col
}

// ParseNumber parses a finite decimal number. Infinities, NaN and digit
// separators are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsRune(s, '_') {
		return 0, false
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(x, 0) || math.IsNaN(x) {
		return 0, false
	}
	return x, true
}

// ParseBool accepts true/false in any letter case.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}
