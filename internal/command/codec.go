package command

import (
	"strings"

	"github.com/ishfaqbuilds/commandghost/internal/errors"
)

// Delimiter separates the fields of an encoded record.
const Delimiter = "|"

// Skipped is a raw entry that could not be decoded.
type Skipped struct {
	Index int    `json:"index"`
	Raw   string `json:"raw"`
}

// Encode serializes r as "command|description|category".
func Encode(r Record) string {
	return strings.Join([]string{
		strings.TrimSpace(r.Command),
		strings.TrimSpace(r.Description),
		strings.TrimSpace(r.Category),
	}, Delimiter)
}

// Decode parses one encoded entry. ok is false when the command or the
// description is blank after trimming. Segments past the third are ignored
// and a missing or blank category falls back to kind's default.
func Decode(raw string, kind Kind) (Record, bool) {
	parts := strings.Split(raw, Delimiter)
	if len(parts) < 2 {
		return Record{}, false
	}

	r := Record{
		Command:     strings.TrimSpace(parts[0]),
		Description: strings.TrimSpace(parts[1]),
	}
	if r.Command == "" || r.Description == "" {
		return Record{}, false
	}
	if len(parts) > 2 {
		r.Category = strings.TrimSpace(parts[2])
	}
	if r.Category == "" {
		r.Category = kind.DefaultCategory()
	}
	return r, true
}

// DecodeAll decodes every entry, keeping order. Malformed entries are left
// out of the records and reported in skipped with their raw position.
func DecodeAll(raws []string, kind Kind) (records []Record, skipped []Skipped) {
	records = make([]Record, 0, len(raws))
	for i, raw := range raws {
		r, ok := Decode(raw, kind)
		if !ok {
			skipped = append(skipped, Skipped{Index: i, Raw: raw})
			continue
		}
		records = append(records, r)
	}
	return records, skipped
}

// Validate checks user-supplied fields before they are encoded.
// The delimiter and line breaks are rejected in every field because the
// encoding has no escaping.
func Validate(cmd, description, category string) error {
	if strings.TrimSpace(cmd) == "" {
		return errors.NewInvalidRequest("command is required")
	}
	if strings.TrimSpace(description) == "" {
		return errors.NewInvalidRequest("description is required")
	}
	fields := map[string]string{"command": cmd, "description": description, "category": category}
	for _, name := range []string{"command", "description", "category"} {
		if strings.ContainsAny(fields[name], Delimiter+"\r\n") {
			return errors.NewInvalidRequest(name + " must not contain '|' or line breaks")
		}
	}
	return nil
}

// ValidateCategory checks a category name used on its own.
func ValidateCategory(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewInvalidRequest("category name is required")
	}
	if strings.ContainsAny(name, Delimiter+"\r\n") {
		return errors.NewInvalidRequest("category must not contain '|' or line breaks")
	}
	return nil
}

// New builds a trimmed record, defaulting a blank category for kind.
func New(cmd, description, category string, kind Kind) Record {
	r := Record{
		Command:     strings.TrimSpace(cmd),
		Description: strings.TrimSpace(description),
		Category:    strings.TrimSpace(category),
	}
	if r.Category == "" {
		r.Category = kind.DefaultCategory()
	}
	return r
}
