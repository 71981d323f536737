// Package workspace persists named collections of datasets, per-workspace
// parsing settings and generated reports.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/csvlens/internal/table"
	"github.com/KaramelBytes/csvlens/internal/utils"
)

const (
	fileName   = "workspace.json"
	reportsDir = "reports"
)

// ErrUnknownSetting is returned by Set for an unrecognized key.
var ErrUnknownSetting = errors.New("unknown workspace setting")

// SettingKeys lists the keys accepted by Set.
var SettingKeys = []string{"delimiter", "missing_tokens", "fill_value"}

// Workspace is a directory holding workspace.json and a reports/ folder.
type Workspace struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Datasets    map[string]*Dataset `json:"datasets"`
	Settings    Settings            `json:"settings"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	dir string
}

// New constructs an in-memory workspace rooted at dir. Call Save to persist.
func New(name, description, dir string) *Workspace {
	now := time.Now()
	return &Workspace{
		Name:        name,
		Description: description,
		Datasets:    make(map[string]*Dataset),
		CreatedAt:   now,
		UpdatedAt:   now,
		dir:         dir,
	}
}

// Load reads workspace.json from dir.
func Load(dir string) (*Workspace, error) {
	path := filepath.Join(dir, fileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("workspace not found at %s: %w", dir, err)
		}
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	var w Workspace
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("parse workspace: %w", err)
	}
	if w.Datasets == nil {
		w.Datasets = make(map[string]*Dataset)
	}
	w.dir = dir
	return &w, nil
}

// Exists reports whether dir already holds a workspace.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, fileName))
	return err == nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string { return w.dir }

// Save writes workspace.json atomically.
func (w *Workspace) Save() error {
	if w.dir == "" {
		return errors.New("workspace directory not set")
	}
	if err := utils.EnsureDir(w.dir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	w.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(w)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(w.dir, fileName), data)
}

// AddDataset loads the file at path with opt to validate it and records it
// with its dimensions. The loaded table is returned for further use.
func (w *Workspace) AddDataset(path, description string, opt table.Options) (*Dataset, *table.Table, error) {
	t, err := table.Load(path, opt)
	if err != nil {
		return nil, nil, err
	}
	return w.Record(path, description, t), t, nil
}

// Record registers an already loaded table under path. A dataset with the
// same absolute path is updated in place rather than duplicated.
func (w *Workspace) Record(path, description string, t *table.Table) *Dataset {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if w.Datasets == nil {
		w.Datasets = make(map[string]*Dataset)
	}
	now := time.Now()
	for _, d := range w.Datasets {
		if d.Path == abs {
			d.Rows, d.Cols = t.NumRows(), t.NumCols()
			if description != "" {
				d.Description = description
			}
			w.UpdatedAt = now
			return d
		}
	}
	d := &Dataset{
		ID:          uuid.NewString(),
		Path:        abs,
		Name:        filepath.Base(path),
		Description: description,
		Rows:        t.NumRows(),
		Cols:        t.NumCols(),
		AddedAt:     now,
	}
	w.Datasets[d.ID] = d
	w.UpdatedAt = now
	return d
}

// SortedDatasets returns the datasets ordered by time added, then name.
func (w *Workspace) SortedDatasets() []*Dataset {
	out := make([]*Dataset, 0, len(w.Datasets))
	for _, d := range w.Datasets {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].AddedAt.Before(out[j].AddedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Find returns the dataset whose ID or file name matches key.
func (w *Workspace) Find(key string) (*Dataset, bool) {
	if d, ok := w.Datasets[key]; ok {
		return d, true
	}
	for _, d := range w.SortedDatasets() {
		if d.Name == key {
			return d, true
		}
	}
	return nil, false
}

// LoadOptions applies the workspace settings on top of base.
func (w *Workspace) LoadOptions(base table.Options) (table.Options, error) {
	opt := base
	if w.Settings.Delimiter != "" {
		r, err := table.ParseDelimiter(w.Settings.Delimiter)
		if err != nil {
			return opt, err
		}
		opt.Delimiter = r
	}
	if len(w.Settings.MissingTokens) > 0 {
		opt.MissingTokens = append([]string(nil), w.Settings.MissingTokens...)
	}
	return opt, nil
}

// Set updates one setting. missing_tokens takes a comma-separated list; an
// empty value clears the override.
func (w *Workspace) Set(key, value string) error {
	switch strings.ToLower(key) {
	case "delimiter":
		if _, err := table.ParseDelimiter(value); err != nil {
			return err
		}
		w.Settings.Delimiter = value
	case "missing_tokens", "na":
		w.Settings.MissingTokens = splitTokens(value)
	case "fill_value", "fill":
		w.Settings.FillValue = value
	default:
		return fmt.Errorf("%w: %q (valid: %s)", ErrUnknownSetting, key, strings.Join(SettingKeys, ", "))
	}
	w.UpdatedAt = time.Now()
	return nil
}

// AddReport writes md to reports/<name>.summary.md, adding a numeric suffix
// instead of overwriting an earlier report. It returns the written path.
func (w *Workspace) AddReport(name, md string) (string, error) {
	dir := filepath.Join(w.dir, reportsDir)
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("ensure reports dir: %w", err)
	}
	base := utils.Slug(strings.TrimSuffix(name, filepath.Ext(name)))
	if base == "" {
		base = "dataset"
	}
	path := utils.UniquePath(dir, base, ".summary.md")
	if err := utils.SafeWriteFile(path, []byte(md)); err != nil {
		return "", err
	}
	return path, nil
}

func splitTokens(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
