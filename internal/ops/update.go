package ops

import (
	"context"

	"github.com/ishfaqbuilds/commandghost/internal/command"
	"github.com/ishfaqbuilds/commandghost/internal/settings"
)

// EditInput contains parameters for the Edit operation.
// Exactly one of Index or ID addresses the record.
type EditInput struct {
	Kind        command.Kind // required
	Index       *int         // raw position from a prior listing
	ID          string       // stable record id
	Command     string       // required
	Description string       // required
	Category    string       // optional, defaults per library
}

// EditOutput contains the result of the Edit operation.
type EditOutput struct {
	Item
}

// Edit replaces a record in place. The record keeps its position and id.
func Edit(ctx context.Context, s settings.Settings, input EditInput) (*EditOutput, error) {
	if err := ValidateKind(input.Kind); err != nil {
		return nil, err
	}
	addr, err := ValidateAddress(input.Index, input.ID)
	if err != nil {
		return nil, err
	}

	var out *EditOutput
	err = s.Update(ctx, func(tx settings.Settings) error {
		c, err := loadCollection(ctx, tx, input.Kind)
		if err != nil {
			return err
		}
		i, err := c.resolve(addr)
		if err != nil {
			return err
		}
		if err := command.Validate(input.Command, input.Description, input.Category); err != nil {
			return err
		}

		r := command.New(input.Command, input.Description, input.Category, input.Kind)
		c.raws[i] = command.Encode(r)
		if err := c.save(ctx, tx, recordsPart); err != nil {
			return err
		}

		r.ID = c.ids[i]
		out = &EditOutput{Item: Item{Index: i, Record: r}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
