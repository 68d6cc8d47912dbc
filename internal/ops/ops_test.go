package ops

import (
	"context"
	"testing"

	"github.com/ishfaqbuilds/commandghost/internal/command"
	"github.com/ishfaqbuilds/commandghost/internal/db"
	"github.com/ishfaqbuilds/commandghost/internal/errors"
	"github.com/ishfaqbuilds/commandghost/internal/settings"
)

func intPtr(i int) *int          { return &i }
func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }
func kindPtr(k command.Kind) *command.Kind {
	return &k
}

// newMemory returns an in-memory store seeded with raw entries per library.
func newMemory(t *testing.T, builtin, personal []string) *settings.Memory {
	t.Helper()
	m := settings.NewMemory()
	ctx := context.Background()
	if builtin != nil {
		if err := m.SetStringList(ctx, command.Builtin.SettingsKey(), builtin); err != nil {
			t.Fatalf("seed builtin: %v", err)
		}
	}
	if personal != nil {
		if err := m.SetStringList(ctx, command.Personal.SettingsKey(), personal); err != nil {
			t.Fatalf("seed personal: %v", err)
		}
	}
	clear(m.Writes)
	return m
}

// newSQLite returns a settings store backed by a fresh database.
func newSQLite(t *testing.T) settings.Settings {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return settings.NewSQLite(database)
}

func rawList(t *testing.T, s settings.Settings, key string) []string {
	t.Helper()
	got, err := s.GetStringList(context.Background(), key)
	if err != nil {
		t.Fatalf("GetStringList(%s): %v", key, err)
	}
	return got
}

func TestValidateAddress_ByID(t *testing.T) {
	addr, err := ValidateAddress(nil, " 01ARZ3NDEKTSV4RRFFQ69G5FAV ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !addr.ByID || addr.ID != "01ARZ3NDEKTSV4RRFFQ69G5FAV" {
		t.Errorf("addr = %+v", addr)
	}
}

func TestValidateAddress_ByIndex(t *testing.T) {
	addr, err := ValidateAddress(intPtr(0), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr.ByID || addr.Index != 0 {
		t.Errorf("addr = %+v", addr)
	}
}

func TestValidateAddress_Ambiguous(t *testing.T) {
	_, err := ValidateAddress(intPtr(1), "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected INVALID_REQUEST, got %v", err)
	}
}

func TestValidateAddress_Neither(t *testing.T) {
	_, err := ValidateAddress(nil, "  ")
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected INVALID_REQUEST, got %v", err)
	}
}

func TestValidateKind(t *testing.T) {
	if err := ValidateKind(command.Builtin); err != nil {
		t.Errorf("builtin: %v", err)
	}
	if err := ValidateKind(command.Personal); err != nil {
		t.Errorf("personal: %v", err)
	}
	if err := ValidateKind("shared"); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("shared: expected INVALID_REQUEST, got %v", err)
	}
}
