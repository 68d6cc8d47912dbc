package ops

import (
	"context"
	"strings"

	"github.com/ishfaqbuilds/commandghost/internal/command"
	"github.com/ishfaqbuilds/commandghost/internal/settings"
	"github.com/ishfaqbuilds/commandghost/internal/suggest"
)

// SuggestInput contains parameters for the Suggest operation.
type SuggestInput struct {
	Query string
}

// SuggestOutput contains the result of the Suggest operation.
type SuggestOutput struct {
	Visible bool             `json:"visible"`
	Query   string           `json:"query"`
	Items   []command.Record `json:"items"`
}

// Suggest ranks both libraries against the typed query. Nothing is shown
// when suggestions are disabled, the query is blank, or nothing matches.
// Libraries are read as stored; seeding happens once at startup, so deleted
// catalog entries stay deleted.
func Suggest(ctx context.Context, s settings.Settings, input SuggestInput) (*SuggestOutput, error) {
	query := strings.TrimSpace(input.Query)
	out := &SuggestOutput{Query: query, Items: []command.Record{}}

	enabled, err := s.GetBool(ctx, PrefEnabled, true)
	if err != nil {
		return nil, err
	}
	if !enabled || query == "" {
		return out, nil
	}

	var records []command.Record
	for _, kind := range command.Kinds {
		c, err := loadCollection(ctx, s, kind)
		if err != nil {
			return nil, err
		}
		records = append(records, c.records()...)
	}

	out.Items = suggest.Rank(query, records)
	out.Visible = len(out.Items) > 0
	return out, nil
}
