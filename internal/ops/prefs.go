package ops

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ishfaqbuilds/commandghost/internal/errors"
	"github.com/ishfaqbuilds/commandghost/internal/settings"
)

// Preference keys in the settings store.
const (
	PrefTheme     = "theme"
	PrefBoxWidth  = "box-width"
	PrefShowEmoji = "show-emoji"
	PrefEnabled   = "enabled"
)

// Preference bounds and defaults.
const (
	DefaultTheme    = "hacker"
	DefaultBoxWidth = 500
	MinBoxWidth     = 300
	MaxBoxWidth     = 800
	BoxWidthStep    = 50
)

// Themes lists the selectable suggestion box themes.
var Themes = []string{"hacker", "purple", "dark", "light"}

// Prefs holds the suggestion display preferences.
type Prefs struct {
	Theme     string `json:"theme"`
	BoxWidth  int    `json:"box_width"`
	ShowEmoji bool   `json:"show_emoji"`
	Enabled   bool   `json:"enabled"`
}

// DefaultPrefs returns the preferences of a fresh install.
func DefaultPrefs() Prefs {
	return Prefs{
		Theme:     DefaultTheme,
		BoxWidth:  DefaultBoxWidth,
		ShowEmoji: true,
		Enabled:   true,
	}
}

// GetPrefs reads the preferences. Unset or out-of-range stored values
// fall back to their defaults.
func GetPrefs(ctx context.Context, s settings.Settings) (*Prefs, error) {
	p := DefaultPrefs()

	theme, err := s.GetString(ctx, PrefTheme, DefaultTheme)
	if err != nil {
		return nil, err
	}
	if slices.Contains(Themes, theme) {
		p.Theme = theme
	}

	width, err := s.GetInt(ctx, PrefBoxWidth, DefaultBoxWidth)
	if err != nil {
		return nil, err
	}
	if validBoxWidth(width) {
		p.BoxWidth = width
	}

	if p.ShowEmoji, err = s.GetBool(ctx, PrefShowEmoji, true); err != nil {
		return nil, err
	}
	if p.Enabled, err = s.GetBool(ctx, PrefEnabled, true); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetPrefsInput contains parameters for the SetPrefs operation.
// Nil fields are left unchanged.
type SetPrefsInput struct {
	Theme     *string
	BoxWidth  *int
	ShowEmoji *bool
	Enabled   *bool
}

// SetPrefs validates and stores the given preferences, then returns the
// resulting full set. Nothing is written if any field is invalid.
func SetPrefs(ctx context.Context, s settings.Settings, input SetPrefsInput) (*Prefs, error) {
	var theme string
	if input.Theme != nil {
		theme = strings.ToLower(strings.TrimSpace(*input.Theme))
		if !slices.Contains(Themes, theme) {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("theme must be one of: %s", strings.Join(Themes, ", ")))
		}
	}
	if input.BoxWidth != nil && !validBoxWidth(*input.BoxWidth) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("box_width must be between %d and %d in steps of %d",
			MinBoxWidth, MaxBoxWidth, BoxWidthStep))
	}

	err := s.Update(ctx, func(tx settings.Settings) error {
		if input.Theme != nil {
			if err := tx.SetString(ctx, PrefTheme, theme); err != nil {
				return err
			}
		}
		if input.BoxWidth != nil {
			if err := tx.SetInt(ctx, PrefBoxWidth, *input.BoxWidth); err != nil {
				return err
			}
		}
		if input.ShowEmoji != nil {
			if err := tx.SetBool(ctx, PrefShowEmoji, *input.ShowEmoji); err != nil {
				return err
			}
		}
		if input.Enabled != nil {
			return tx.SetBool(ctx, PrefEnabled, *input.Enabled)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetPrefs(ctx, s)
}

func validBoxWidth(w int) bool {
	return w >= MinBoxWidth && w <= MaxBoxWidth && (w-MinBoxWidth)%BoxWidthStep == 0
}
