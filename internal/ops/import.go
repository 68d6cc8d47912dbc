package ops

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/ishfaqbuilds/commandghost/internal/command"
	"github.com/ishfaqbuilds/commandghost/internal/config"
	"github.com/ishfaqbuilds/commandghost/internal/errors"
	"github.com/ishfaqbuilds/commandghost/internal/settings"
)

// ImportMode controls how imported records meet existing ones.
type ImportMode string

const (
	ImportModeAppend  ImportMode = "append"  // add records not already present
	ImportModeReplace ImportMode = "replace" // overwrite every library in the file (atomic per file)
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string        // required
	Mode ImportMode    // default: append
	Kind *command.Kind // optional: import every line into this library
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError describes a line that was not imported.
type ImportError struct {
	Line    int    `json:"line"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// importLine is a parsed export line bound to its target library.
type importLine struct {
	line     int
	kind     command.Kind
	record   command.Record
	category string // set for category-only lines
}

// Import loads records from a JSONL export.
// In replace mode any unparseable line aborts the import before anything is
// written. In append mode bad lines and records already present are skipped.
func Import(ctx context.Context, s settings.Settings, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Mode == "" {
		input.Mode = ImportModeAppend
	}
	if input.Mode != ImportModeAppend && input.Mode != ImportModeReplace {
		return nil, errors.NewInvalidRequest("mode must be one of: append, replace")
	}
	if input.Kind != nil {
		if err := ValidateKind(*input.Kind); err != nil {
			return nil, err
		}
	}
	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	lines, parseErrors, err := parseExportFile(input.Path, input.Kind)
	if err != nil {
		return nil, err
	}

	if input.Mode == ImportModeReplace && len(parseErrors) > 0 {
		return &ImportOutput{Errors: parseErrors}, nil
	}

	// Group by library, keeping file order.
	var kinds []command.Kind
	byKind := make(map[command.Kind][]importLine)
	for _, l := range lines {
		if _, ok := byKind[l.kind]; !ok {
			kinds = append(kinds, l.kind)
		}
		byKind[l.kind] = append(byKind[l.kind], l)
	}

	out := &ImportOutput{Skipped: len(parseErrors), Errors: parseErrors}
	err = s.Update(ctx, func(tx settings.Settings) error {
		for _, kind := range kinds {
			c := &collection{kind: kind, raws: []string{}, ids: []string{}, categories: []string{}}
			if input.Mode == ImportModeAppend {
				var err error
				if c, err = loadCollection(ctx, tx, kind); err != nil {
					return err
				}
			}

			imported, dupes := mergeLines(c, byKind[kind])
			out.Imported += imported
			out.Skipped += len(dupes)
			out.Errors = append(out.Errors, dupes...)

			if err := c.save(ctx, tx, recordsPart|categoriesPart); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out.Errors == nil {
		out.Errors = []ImportError{}
	}
	return out, nil
}

// mergeLines appends lines to c. Records whose encoded form is already
// present are reported as duplicates. Ids are kept unless they collide.
func mergeLines(c *collection, lines []importLine) (int, []ImportError) {
	imported := 0
	var dupes []ImportError
	for _, l := range lines {
		if l.category != "" {
			if !slices.Contains(c.categories, l.category) {
				c.categories = append(c.categories, l.category)
			}
			continue
		}

		raw := command.Encode(l.record)
		if slices.Contains(c.raws, raw) {
			dupes = append(dupes, ImportError{
				Line:    l.line,
				Code:    "DUPLICATE",
				Message: fmt.Sprintf("%s already has %q", c.kind, l.record.Command),
			})
			continue
		}

		id := l.record.ID
		if !command.ValidID(id) || slices.Contains(c.ids, id) {
			var err error
			if id, err = command.NewID(); err != nil {
				dupes = append(dupes, ImportError{Line: l.line, Code: "INTERNAL", Message: err.Error()})
				continue
			}
		}
		c.raws = append(c.raws, raw)
		c.ids = append(c.ids, id)
		imported++
	}
	return imported, dupes
}

// parseExportFile reads every line of an export. An unreadable file is an
// error; bad lines are reported individually.
func parseExportFile(path string, override *command.Kind) ([]importLine, []ImportError, error) {
	file, err := openFileNoFollowRead(path)
	if err != nil {
		if errors.Is(err, errors.ErrFileNotFound) || errors.Is(err, errors.ErrInvalidRequest) {
			return nil, nil, err
		}
		return nil, nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	var lines []importLine
	var parseErrors []ImportError
	bad := func(n int, code, msg string) {
		parseErrors = append(parseErrors, ImportError{Line: n, Code: code, Message: msg})
	}

	scanner := bufio.NewScanner(file)
	n := 0
	for scanner.Scan() {
		n++
		if len(scanner.Bytes()) == 0 {
			continue
		}

		var rec command.ExportRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			bad(n, "PARSE_ERROR", fmt.Sprintf("invalid JSON: %v", err))
			continue
		}
		if rec.GhostExport {
			continue
		}

		kind := rec.Library
		if override != nil {
			kind = *override
		}
		if ValidateKind(kind) != nil {
			bad(n, "INVALID_RECORD", fmt.Sprintf("unknown library %q", rec.Library))
			continue
		}

		if rec.Command == "" && rec.Description == "" {
			if command.ValidateCategory(rec.Category) != nil {
				bad(n, "INVALID_RECORD", "line has neither a record nor a valid category")
				continue
			}
			lines = append(lines, importLine{line: n, kind: kind, category: strings.TrimSpace(rec.Category)})
			continue
		}

		r, ok := rec.ToRecord(kind)
		if !ok {
			bad(n, "INVALID_RECORD", "record fails validation")
			continue
		}
		lines = append(lines, importLine{line: n, kind: kind, record: r})
	}
	if err := scanner.Err(); err != nil {
		bad(n, "READ_ERROR", fmt.Sprintf("failed to read file: %v", err))
	}

	return lines, parseErrors, nil
}
