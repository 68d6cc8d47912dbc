package ops

import (
	"context"

	"github.com/ishfaqbuilds/commandghost/internal/command"
	"github.com/ishfaqbuilds/commandghost/internal/settings"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Kind     command.Kind // required
	Category *string      // optional exact-match filter
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Kind    command.Kind      `json:"library"`
	Items   []Item            `json:"items"`
	Skipped []command.Skipped `json:"skipped,omitempty"`
	Total   int               `json:"total"`
}

// List returns the decoded records of a library in stored order.
// Malformed entries are left out of Items and reported in Skipped.
func List(ctx context.Context, s settings.Settings, input ListInput) (*ListOutput, error) {
	if err := ValidateKind(input.Kind); err != nil {
		return nil, err
	}

	c, err := loadCollection(ctx, s, input.Kind)
	if err != nil {
		return nil, err
	}

	items, skipped := c.items()
	total := len(items)

	if category := cleanOptionalString(input.Category); category != nil {
		filtered := make([]Item, 0, len(items))
		for _, it := range items {
			if it.Category == *category {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}

	return &ListOutput{
		Kind:    input.Kind,
		Items:   items,
		Skipped: skipped,
		Total:   total,
	}, nil
}
