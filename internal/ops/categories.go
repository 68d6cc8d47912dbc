package ops

import (
	"context"
	"slices"
	"strings"

	"github.com/ishfaqbuilds/commandghost/internal/command"
	"github.com/ishfaqbuilds/commandghost/internal/errors"
	"github.com/ishfaqbuilds/commandghost/internal/settings"
)

// CategoriesInput contains parameters for the Categories operation.
type CategoriesInput struct {
	Kind command.Kind // required
}

// CategoriesOutput contains the result of the Categories operation.
type CategoriesOutput struct {
	Kind       command.Kind              `json:"library"`
	Categories []command.CategorySummary `json:"categories"`
}

// Categories returns the sorted category names of a library with record counts.
// Explicitly created categories without records are reported with a zero count.
func Categories(ctx context.Context, s settings.Settings, input CategoriesInput) (*CategoriesOutput, error) {
	if err := ValidateKind(input.Kind); err != nil {
		return nil, err
	}

	c, err := loadCollection(ctx, s, input.Kind)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, r := range c.records() {
		counts[r.Category]++
	}

	names := c.categoryNames()
	summaries := make([]command.CategorySummary, len(names))
	for i, name := range names {
		summaries[i] = command.CategorySummary{Name: name, Count: counts[name]}
	}

	return &CategoriesOutput{Kind: input.Kind, Categories: summaries}, nil
}

// CreateCategoryInput contains parameters for the CreateCategory operation.
type CreateCategoryInput struct {
	Kind command.Kind
	Name string
}

// CreateCategoryOutput contains the result of the CreateCategory operation.
type CreateCategoryOutput struct {
	Kind    command.Kind `json:"library"`
	Name    string       `json:"name"`
	Created bool         `json:"created"`
}

// CreateCategory registers an empty category. No record is inserted.
func CreateCategory(ctx context.Context, s settings.Settings, input CreateCategoryInput) (*CreateCategoryOutput, error) {
	if err := ValidateKind(input.Kind); err != nil {
		return nil, err
	}
	if err := command.ValidateCategory(input.Name); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)

	err := s.Update(ctx, func(tx settings.Settings) error {
		c, err := loadCollection(ctx, tx, input.Kind)
		if err != nil {
			return err
		}
		if slices.Contains(c.categoryNames(), name) {
			return errors.NewConflict("category " + name + " already exists")
		}

		c.categories = append(c.categories, name)
		return c.save(ctx, tx, categoriesPart)
	})
	if err != nil {
		return nil, err
	}
	return &CreateCategoryOutput{Kind: input.Kind, Name: name, Created: true}, nil
}

// RenameCategoryInput contains parameters for the RenameCategory operation.
type RenameCategoryInput struct {
	Kind command.Kind
	Old  string
	New  string
}

// RenameCategoryOutput contains the result of the RenameCategory operation.
type RenameCategoryOutput struct {
	Kind    command.Kind `json:"library"`
	Old     string       `json:"old"`
	New     string       `json:"new"`
	Renamed int          `json:"renamed"` // records rewritten
}

// RenameCategory rewrites the category of every record labelled Old.
// A blank New, or New equal to Old, is a no-op. Renaming onto an existing
// category merges the two.
func RenameCategory(ctx context.Context, s settings.Settings, input RenameCategoryInput) (*RenameCategoryOutput, error) {
	if err := ValidateKind(input.Kind); err != nil {
		return nil, err
	}

	oldName := strings.TrimSpace(input.Old)
	newName := strings.TrimSpace(input.New)
	out := &RenameCategoryOutput{Kind: input.Kind, Old: oldName, New: newName}
	if newName == "" || newName == oldName {
		return out, nil
	}
	if err := command.ValidateCategory(newName); err != nil {
		return nil, err
	}

	err := s.Update(ctx, func(tx settings.Settings) error {
		c, err := loadCollection(ctx, tx, input.Kind)
		if err != nil {
			return err
		}

		parts := 0
		for i, raw := range c.raws {
			r, ok := command.Decode(raw, input.Kind)
			if !ok || r.Category != oldName {
				continue
			}
			r.Category = newName
			c.raws[i] = command.Encode(r)
			out.Renamed++
			parts |= recordsPart
		}

		renamed := make([]string, 0, len(c.categories))
		for _, name := range c.categories {
			if name == oldName {
				parts |= categoriesPart
				name = newName
			}
			if !slices.Contains(renamed, name) {
				renamed = append(renamed, name)
			}
		}
		if parts&categoriesPart != 0 {
			c.categories = renamed
		}

		return c.save(ctx, tx, parts)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteCategoryInput contains parameters for the DeleteCategory operation.
type DeleteCategoryInput struct {
	Kind command.Kind
	Name string
}

// DeleteCategoryOutput contains the result of the DeleteCategory operation.
type DeleteCategoryOutput struct {
	Kind    command.Kind `json:"library"`
	Name    string       `json:"name"`
	Removed int          `json:"removed"` // records deleted
}

// DeleteCategory removes every record labelled Name, and the category itself.
func DeleteCategory(ctx context.Context, s settings.Settings, input DeleteCategoryInput) (*DeleteCategoryOutput, error) {
	if err := ValidateKind(input.Kind); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.NewInvalidRequest("category name is required")
	}

	out := &DeleteCategoryOutput{Kind: input.Kind, Name: name}
	err := s.Update(ctx, func(tx settings.Settings) error {
		c, err := loadCollection(ctx, tx, input.Kind)
		if err != nil {
			return err
		}

		parts := 0
		keptRaws := make([]string, 0, len(c.raws))
		keptIDs := make([]string, 0, len(c.ids))
		for i, raw := range c.raws {
			if r, ok := command.Decode(raw, input.Kind); ok && r.Category == name {
				out.Removed++
				continue
			}
			keptRaws = append(keptRaws, raw)
			keptIDs = append(keptIDs, c.ids[i])
		}
		if out.Removed > 0 {
			c.raws, c.ids = keptRaws, keptIDs
			parts |= recordsPart
		}
		if i := slices.Index(c.categories, name); i >= 0 {
			c.categories = slices.Delete(c.categories, i, i+1)
			parts |= categoriesPart
		}

		return c.save(ctx, tx, parts)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
