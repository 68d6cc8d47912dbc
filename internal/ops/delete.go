package ops

import (
	"context"

	"github.com/ishfaqbuilds/commandghost/internal/command"
	"github.com/ishfaqbuilds/commandghost/internal/settings"
)

// DeleteInput contains parameters for the Delete operation.
// Exactly one of Index or ID addresses the record.
type DeleteInput struct {
	Kind  command.Kind // required
	Index *int
	ID    string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
	Index   int    `json:"index"`
	Raw     string `json:"raw"`
}

// Delete removes a record. Later records shift down by one position.
func Delete(ctx context.Context, s settings.Settings, input DeleteInput) (*DeleteOutput, error) {
	if err := ValidateKind(input.Kind); err != nil {
		return nil, err
	}
	addr, err := ValidateAddress(input.Index, input.ID)
	if err != nil {
		return nil, err
	}

	var out *DeleteOutput
	err = s.Update(ctx, func(tx settings.Settings) error {
		c, err := loadCollection(ctx, tx, input.Kind)
		if err != nil {
			return err
		}
		i, err := c.resolve(addr)
		if err != nil {
			return err
		}

		out = &DeleteOutput{Deleted: true, ID: c.ids[i], Index: i, Raw: c.raws[i]}
		c.remove(i)
		return c.save(ctx, tx, recordsPart)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
