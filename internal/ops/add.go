package ops

import (
	"context"

	"github.com/ishfaqbuilds/commandghost/internal/command"
	"github.com/ishfaqbuilds/commandghost/internal/settings"
)

// AddInput contains parameters for the Add operation.
type AddInput struct {
	Kind        command.Kind // required
	Command     string       // required
	Description string       // required
	Category    string       // optional, defaults per library
}

// AddOutput contains the result of the Add operation.
type AddOutput struct {
	Item
}

// Add validates a record and appends it to the end of a library.
func Add(ctx context.Context, s settings.Settings, input AddInput) (*AddOutput, error) {
	if err := ValidateKind(input.Kind); err != nil {
		return nil, err
	}
	if err := command.Validate(input.Command, input.Description, input.Category); err != nil {
		return nil, err
	}

	r := command.New(input.Command, input.Description, input.Category, input.Kind)
	var index int
	err := s.Update(ctx, func(tx settings.Settings) error {
		c, err := loadCollection(ctx, tx, input.Kind)
		if err != nil {
			return err
		}
		if index, r.ID, err = c.add(r); err != nil {
			return err
		}
		return c.save(ctx, tx, recordsPart)
	})
	if err != nil {
		return nil, err
	}

	return &AddOutput{Item: Item{Index: index, Record: r}}, nil
}
