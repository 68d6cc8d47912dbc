// Package command defines command records, the two libraries they live in,
// and the flat "command|description|category" encoding they are persisted as.
package command

import (
	"fmt"
	"strings"
)

// Kind identifies one of the two independent command libraries.
type Kind string

const (
	Builtin  Kind = "builtin"
	Personal Kind = "personal"
)

// Kinds lists the libraries in suggestion order: builtin records rank
// ahead of personal ones when everything else ties.
var Kinds = []Kind{Builtin, Personal}

// ParseKind validates a library name.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Builtin:
		return Builtin, nil
	case Personal:
		return Personal, nil
	default:
		return "", fmt.Errorf("unknown library %q (want builtin or personal)", s)
	}
}

// DefaultCategory is applied when a record has no (or a blank) category.
func (k Kind) DefaultCategory() string {
	if k == Personal {
		return "Personal"
	}
	return "Linux"
}

// SettingsKey is the settings key holding the encoded records.
func (k Kind) SettingsKey() string { return string(k) + "-commands" }

// IDsKey is the settings key holding record ids, parallel to SettingsKey.
func (k Kind) IDsKey() string { return string(k) + "-commands-ids" }

// CategoriesKey is the settings key holding explicitly created categories.
func (k Kind) CategoriesKey() string { return string(k) + "-categories" }

// Record is a single command suggestion.
type Record struct {
	// ID is a ULID assigned when the record enters a library. It is not part
	// of the encoded form.
	ID string `json:"id,omitempty"`

	// Command is the literal text to suggest
	Command string `json:"command"`

	// Description is a human-readable explanation
	Description string `json:"description"`

	// Category groups records within a library
	Category string `json:"category"`
}

// CategorySummary is a category with the number of records carrying it.
type CategorySummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
