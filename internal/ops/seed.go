package ops

import (
	"context"

	"github.com/ishfaqbuilds/commandghost/internal/command"
	"github.com/ishfaqbuilds/commandghost/internal/logger"
	"github.com/ishfaqbuilds/commandghost/internal/settings"
)

// EnsureSeededOutput contains the result of the EnsureSeeded operation.
type EnsureSeededOutput struct {
	Seeded bool `json:"seeded"`
	Count  int  `json:"count"`
}

// EnsureSeeded fills the builtin library with the default catalog when it
// is empty. Calling it again is a no-op.
func EnsureSeeded(ctx context.Context, s settings.Settings) (*EnsureSeededOutput, error) {
	out := &EnsureSeededOutput{}
	err := s.Update(ctx, func(tx settings.Settings) error {
		c, err := loadCollection(ctx, tx, command.Builtin)
		if err != nil {
			return err
		}
		if len(c.raws) > 0 {
			out.Count = len(c.raws)
			return nil
		}

		c.raws = command.DefaultCatalog()
		if err := c.regenerateIDs(); err != nil {
			return err
		}
		out.Seeded, out.Count = true, len(c.raws)
		return c.save(ctx, tx, recordsPart)
	})
	if err != nil {
		return nil, err
	}

	if out.Seeded {
		logger.Info("seeded builtin catalog", "records", out.Count)
	}
	return out, nil
}

// ResetInput contains parameters for the Reset operation.
type ResetInput struct {
	Kind command.Kind
}

// ResetOutput contains the result of the Reset operation.
type ResetOutput struct {
	Kind  command.Kind `json:"library"`
	Count int          `json:"count"`
}

// Reset restores a library to its initial state: the default catalog for
// builtin, empty for personal. Explicit categories are cleared.
func Reset(ctx context.Context, s settings.Settings, input ResetInput) (*ResetOutput, error) {
	if err := ValidateKind(input.Kind); err != nil {
		return nil, err
	}

	c := &collection{kind: input.Kind, raws: []string{}, categories: []string{}}
	if input.Kind == command.Builtin {
		c.raws = command.DefaultCatalog()
	}
	if err := c.regenerateIDs(); err != nil {
		return nil, err
	}
	err := s.Update(ctx, func(tx settings.Settings) error {
		return c.save(ctx, tx, recordsPart|categoriesPart)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("reset library", "library", input.Kind, "records", len(c.raws))
	return &ResetOutput{Kind: input.Kind, Count: len(c.raws)}, nil
}
