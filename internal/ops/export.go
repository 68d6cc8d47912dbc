package ops

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ishfaqbuilds/commandghost/internal/command"
	"github.com/ishfaqbuilds/commandghost/internal/config"
	"github.com/ishfaqbuilds/commandghost/internal/errors"
	"github.com/ishfaqbuilds/commandghost/internal/settings"
)

// ExportSchemaVersion is written into every export header.
const ExportSchemaVersion = "1.0"

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path string        // optional, default: <base>/exports/<library|all>-<timestamp>.jsonl
	Kind *command.Kind // optional, default: both libraries
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// Export writes libraries to a JSONL file: a header line, then one line per
// explicit category, then one line per record. Malformed stored entries are
// not exported.
func Export(ctx context.Context, s settings.Settings, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	kinds := command.Kinds
	if input.Kind != nil {
		if err := ValidateKind(*input.Kind); err != nil {
			return nil, err
		}
		kinds = []command.Kind{*input.Kind}
	}

	now := time.Now()
	exportPath := input.Path
	if exportPath == "" {
		var err error
		if exportPath, err = defaultExportPath(input.Kind, now); err != nil {
			return nil, err
		}
	}
	if err := ValidatePath(exportPath, PathCheckWrite, cfg); err != nil {
		return nil, err
	}

	// Read everything first so a settings failure never leaves a partial file.
	lines := []*command.ExportRecord{{
		GhostExport:   true,
		SchemaVersion: ExportSchemaVersion,
		ExportedAt:    now.Unix(),
	}}
	count := 0
	for _, kind := range kinds {
		c, err := loadCollection(ctx, s, kind)
		if err != nil {
			return nil, err
		}
		for _, name := range c.categories {
			lines = append(lines, &command.ExportRecord{Library: kind, Category: name})
		}
		for _, r := range c.records() {
			lines = append(lines, command.ToExportRecord(kind, r))
			count++
		}
	}

	if err := writeJSONLAtomic(exportPath, lines); err != nil {
		return nil, err
	}

	return &ExportOutput{
		Path:       exportPath,
		Count:      count,
		ExportedAt: now.Unix(),
	}, nil
}

// writeJSONLAtomic writes lines to a temp file next to path and renames it
// into place, so an existing file survives any failure.
func writeJSONLAtomic(path string, lines []*command.ExportRecord) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(suffix) + ".tmp"

	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}
	defer func() {
		if file != nil {
			file.Close()
		}
		if err != nil {
			os.Remove(tempPath)
		}
	}()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, line := range lines {
		if err := enc.Encode(line); err != nil {
			return errors.NewInternal(err)
		}
	}
	if err := w.Flush(); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}
	// Close before rename; Windows refuses to rename open files.
	if err := file.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	if isSymlink(path) {
		return errors.NewInvalidRequest("export path is a symlink")
	}
	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return errors.NewInvalidRequest("export destination already exists; choose a new path or delete the existing file")
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}
	return nil
}

// defaultExportPath returns <base>/exports/<library|all>-<timestamp>.jsonl.
func defaultExportPath(kind *command.Kind, now time.Time) (string, error) {
	dir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}
	name := "all"
	if kind != nil {
		name = SanitizeForFilename(string(*kind))
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%s.jsonl", name, now.Format("2006-01-02T150405"))), nil
}
