package workspace_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/csvlens/internal/table"
	"github.com/KaramelBytes/csvlens/internal/workspace"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	tdir := t.TempDir()
	csvPath := filepath.Join(tdir, "sales.csv")
	if err := os.WriteFile(csvPath, []byte("region;amount\nnorth;10\nsouth;-\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ws := workspace.New("q3", "quarterly numbers", filepath.Join(tdir, "ws"))
	if err := ws.Set("delimiter", ";"); err != nil {
		t.Fatalf("set delimiter: %v", err)
	}
	if err := ws.Set("missing_tokens", "-, NA"); err != nil {
		t.Fatalf("set tokens: %v", err)
	}
	opt, err := ws.LoadOptions(table.DefaultOptions())
	if err != nil {
		t.Fatalf("load options: %v", err)
	}
	d, tbl, err := ws.AddDataset(csvPath, "raw export", opt)
	if err != nil {
		t.Fatalf("add dataset: %v", err)
	}
	if d.Rows != 2 || d.Cols != 2 {
		t.Fatalf("unexpected dims %dx%d", d.Rows, d.Cols)
	}
	if tbl.MissingCount() != 1 {
		t.Fatalf("expected 1 missing cell, got %d", tbl.MissingCount())
	}
	if err := ws.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	back, err := workspace.Load(ws.Dir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if back.Name != "q3" || back.Description != "quarterly numbers" {
		t.Fatalf("metadata lost: %+v", back)
	}
	got, ok := back.Find("sales.csv")
	if !ok || got.ID != d.ID {
		t.Fatalf("dataset not found by name")
	}
	if _, ok := back.Find(d.ID); !ok {
		t.Fatalf("dataset not found by id")
	}
	if back.Settings.Delimiter != ";" || len(back.Settings.MissingTokens) != 2 || back.Settings.MissingTokens[1] != "NA" {
		t.Fatalf("settings lost: %+v", back.Settings)
	}
	if !workspace.Exists(ws.Dir()) {
		t.Fatalf("expected workspace to exist")
	}
}

func TestLoadMissingWorkspace(t *testing.T) {
	_, err := workspace.Load(t.TempDir())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestAddDatasetRejectsBadFile(t *testing.T) {
	ws := workspace.New("w", "", t.TempDir())
	_, _, err := ws.AddDataset(filepath.Join(t.TempDir(), "nope.csv"), "", table.DefaultOptions())
	var le *table.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoadError, got %v", err)
	}
	if len(ws.Datasets) != 0 {
		t.Fatalf("failed add must not record a dataset")
	}
}

func TestSetValidation(t *testing.T) {
	ws := workspace.New("w", "", t.TempDir())
	if err := ws.Set("colour", "red"); !errors.Is(err, workspace.ErrUnknownSetting) {
		t.Fatalf("expected ErrUnknownSetting, got %v", err)
	}
	if err := ws.Set("delimiter", "::"); err == nil {
		t.Fatalf("expected invalid delimiter error")
	}
	if err := ws.Set("fill", "0"); err != nil || ws.Settings.FillValue != "0" {
		t.Fatalf("fill not set: %v", err)
	}
	if err := ws.Set("na", ""); err != nil || ws.Settings.MissingTokens != nil {
		t.Fatalf("empty na should clear override")
	}
}

func TestAddReportDoesNotOverwrite(t *testing.T) {
	ws := workspace.New("w", "", t.TempDir())
	p1, err := ws.AddReport("Sales Data.csv", "one")
	if err != nil {
		t.Fatal(err)
	}
	p2, err := ws.AddReport("Sales Data.csv", "two")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(p1) != "sales-data.summary.md" || filepath.Base(p2) != "sales-data__2.summary.md" {
		t.Fatalf("unexpected report paths %s, %s", p1, p2)
	}
	b, _ := os.ReadFile(p1)
	if string(b) != "one" {
		t.Fatalf("first report overwritten")
	}
}

func TestRecordUpdatesExistingPath(t *testing.T) {
	tdir := t.TempDir()
	csvPath := filepath.Join(tdir, "a.csv")
	if err := os.WriteFile(csvPath, []byte("x\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ws := workspace.New("w", "", filepath.Join(tdir, "ws"))
	d1, _, err := ws.AddDataset(csvPath, "first", table.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(csvPath, []byte("x,y\n1,2\n3,4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	d2, _, err := ws.AddDataset(csvPath, "", table.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if d1.ID != d2.ID || len(ws.Datasets) != 1 {
		t.Fatalf("expected the dataset to be updated in place")
	}
	if d2.Rows != 2 || d2.Cols != 2 || d2.Description != "first" {
		t.Fatalf("unexpected dataset after update: %+v", d2)
	}
}
