// Package ops implements the command library operations shared by the CLI,
// the MCP tools and the web UI. Every operation reads the affected
// collection whole, computes the new state in memory, and persists it with
// one write per settings key.
package ops

import (
	"strings"

	"github.com/ishfaqbuilds/commandghost/internal/command"
	"github.com/ishfaqbuilds/commandghost/internal/errors"
)

// Item is a decoded record together with its position in the raw collection.
// Index is only valid until the next mutation; ID is stable.
type Item struct {
	Index int `json:"index"`
	command.Record
}

// Address represents a validated record address.
type Address struct {
	ByID  bool
	ID    string
	Index int
}

// ValidateAddress validates addressing parameters and returns an Address.
// Rules:
// - Must specify exactly one addressing mode: id OR index
// - If both are provided → INVALID_REQUEST
// - If neither is provided → INVALID_REQUEST
func ValidateAddress(index *int, id string) (*Address, error) {
	id = strings.TrimSpace(id)

	if id != "" && index != nil {
		return nil, errors.NewInvalidRequest("specify either id or index, not both")
	}
	if id == "" && index == nil {
		return nil, errors.NewInvalidRequest("must specify either id or index")
	}

	if id != "" {
		return &Address{ByID: true, ID: id}, nil
	}
	return &Address{Index: *index}, nil
}

// ValidateKind rejects anything other than the two known libraries.
func ValidateKind(kind command.Kind) error {
	if kind != command.Builtin && kind != command.Personal {
		return errors.NewInvalidRequest("library must be builtin or personal")
	}
	return nil
}

// cleanOptionalString trims an optional filter, mapping blank to nil.
func cleanOptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
