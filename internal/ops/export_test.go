package ops

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ishfaqbuilds/commandghost/internal/command"
	"github.com/ishfaqbuilds/commandghost/internal/config"
	"github.com/ishfaqbuilds/commandghost/internal/errors"
)

// exportConfig allows backups in a fresh temp directory and points the base
// directory somewhere harmless.
func exportConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	t.Setenv("GHOST_HOME", t.TempDir())
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.AllowedPaths = []string{dir}
	return cfg, dir
}

func readExportLines(t *testing.T, path string) []command.ExportRecord {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open export file: %v", err)
	}
	defer f.Close()

	var lines []command.ExportRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec command.ExportRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("invalid export line %q: %v", scanner.Text(), err)
		}
		lines = append(lines, rec)
	}
	return lines
}

func TestExport_HappyPath(t *testing.T) {
	cfg, dir := exportConfig(t)
	s := newMemory(t, []string{"ls|List|Linux", "broken"}, []string{"deploy|Ship it|Work"})
	ctx := context.Background()
	if _, err := CreateCategory(ctx, s, CreateCategoryInput{Kind: command.Personal, Name: "Later"}); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	path := filepath.Join(dir, "backup.jsonl")
	out, err := Export(ctx, s, cfg, ExportInput{Path: path})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if out.Path != path || out.Count != 2 || out.ExportedAt == 0 {
		t.Errorf("output = %+v", out)
	}

	lines := readExportLines(t, path)
	// header + ls + Later + deploy
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4", len(lines))
	}
	if !lines[0].GhostExport || lines[0].SchemaVersion != ExportSchemaVersion {
		t.Errorf("header = %+v", lines[0])
	}
	if lines[1].Library != command.Builtin || lines[1].Command != "ls" || !command.ValidID(lines[1].ID) {
		t.Errorf("builtin line = %+v", lines[1])
	}
	if lines[2].Library != command.Personal || lines[2].Category != "Later" || lines[2].Command != "" {
		t.Errorf("category line = %+v", lines[2])
	}
	if lines[3].Command != "deploy" || lines[3].Category != "Work" {
		t.Errorf("personal line = %+v", lines[3])
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestExport_SingleLibrary(t *testing.T) {
	cfg, dir := exportConfig(t)
	s := newMemory(t, []string{"ls|List|Linux"}, []string{"deploy|Ship it|Work"})

	path := filepath.Join(dir, "personal.jsonl")
	out, err := Export(context.Background(), s, cfg, ExportInput{Path: path, Kind: kindPtr(command.Personal)})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if out.Count != 1 {
		t.Errorf("Count = %d, want 1", out.Count)
	}
	for _, l := range readExportLines(t, path)[1:] {
		if l.Library != command.Personal {
			t.Errorf("unexpected library in line %+v", l)
		}
	}
}

func TestExport_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("GHOST_HOME", home)
	s := newMemory(t, []string{"ls|List|Linux"}, nil)

	out, err := Export(context.Background(), s, config.DefaultConfig(), ExportInput{Kind: kindPtr(command.Builtin)})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if filepath.Dir(out.Path) != filepath.Join(home, "exports") {
		t.Errorf("Path = %q, want inside %s/exports", out.Path, home)
	}
	if !strings.HasPrefix(filepath.Base(out.Path), "builtin-") {
		t.Errorf("Path = %q, want builtin- prefix", out.Path)
	}
}

func TestExport_PathOutsideAllowedDirs(t *testing.T) {
	cfg, _ := exportConfig(t)
	s := newMemory(t, nil, nil)

	_, err := Export(context.Background(), s, cfg, ExportInput{Path: filepath.Join(t.TempDir(), "x.jsonl")})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected INVALID_REQUEST, got %v", err)
	}
}

func TestExport_PreservesExistingFileOnFailure(t *testing.T) {
	cfg, dir := exportConfig(t)
	path := filepath.Join(dir, "backup.jsonl")
	if err := os.WriteFile(path, []byte("original\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := Export(context.Background(), newMemory(t, nil, nil), cfg, ExportInput{Path: path, Kind: kindPtr("shared")})
	if err == nil {
		t.Fatal("expected error for unknown library")
	}
	data, _ := os.ReadFile(path)
	if string(data) != "original\n" {
		t.Errorf("existing file overwritten: %q", data)
	}
}
