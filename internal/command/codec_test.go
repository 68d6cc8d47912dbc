package command

import (
	"testing"

	"github.com/ishfaqbuilds/commandghost/internal/errors"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind Kind
		want Record
		ok   bool
	}{
		{"full", "git status|Show changed files|Git", Builtin, Record{Command: "git status", Description: "Show changed files", Category: "Git"}, true},
		{"trims", "  ls  |  List files |  Linux ", Builtin, Record{Command: "ls", Description: "List files", Category: "Linux"}, true},
		{"missing category builtin", "ls|List files", Builtin, Record{Command: "ls", Description: "List files", Category: "Linux"}, true},
		{"missing category personal", "deploy|Ship it", Personal, Record{Command: "deploy", Description: "Ship it", Category: "Personal"}, true},
		{"blank category", "deploy|Ship it|   ", Personal, Record{Command: "deploy", Description: "Ship it", Category: "Personal"}, true},
		{"extra segments ignored", "a|b|c|d|e", Builtin, Record{Command: "a", Description: "b", Category: "c"}, true},
		{"no delimiter", "lonely", Builtin, Record{}, false},
		{"blank command", "  |desc|Cat", Builtin, Record{}, false},
		{"blank description", "cmd|   |Cat", Builtin, Record{}, false},
		{"empty", "", Personal, Record{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Decode(tc.raw, tc.kind)
			if ok != tc.ok {
				t.Fatalf("Decode(%q) ok = %v, want %v", tc.raw, ok, tc.ok)
			}
			if got != tc.want {
				t.Errorf("Decode(%q) = %+v, want %+v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	r := Record{Command: "docker ps", Description: "List running containers", Category: "Docker"}
	raw := Encode(r)
	if raw != "docker ps|List running containers|Docker" {
		t.Fatalf("Encode = %q", raw)
	}
	got, ok := Decode(raw, Builtin)
	if !ok || got != r {
		t.Errorf("Decode(Encode(r)) = %+v, %v; want %+v", got, ok, r)
	}
}

func TestDecodeAll_ReportsSkipped(t *testing.T) {
	raws := []string{"ls|List|Linux", "garbage", "pwd|Print dir", "|x|y"}
	records, skipped := DecodeAll(raws, Builtin)

	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].Command != "ls" || records[1].Command != "pwd" {
		t.Errorf("records out of order: %+v", records)
	}
	if len(skipped) != 2 {
		t.Fatalf("len(skipped) = %d, want 2", len(skipped))
	}
	if skipped[0] != (Skipped{Index: 1, Raw: "garbage"}) || skipped[1] != (Skipped{Index: 3, Raw: "|x|y"}) {
		t.Errorf("skipped = %+v", skipped)
	}
}

func TestDecodeAll_Empty(t *testing.T) {
	records, skipped := DecodeAll(nil, Personal)
	if records == nil || len(records) != 0 {
		t.Errorf("records = %#v, want empty non-nil", records)
	}
	if skipped != nil {
		t.Errorf("skipped = %#v, want nil", skipped)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name                string
		cmd, desc, category string
		wantErr             bool
	}{
		{"ok", "ls", "List", "Linux", false},
		{"blank category ok", "ls", "List", "", false},
		{"blank command", "  ", "List", "Linux", true},
		{"blank description", "ls", "", "Linux", true},
		{"pipe in command", "ls | wc", "Count", "Linux", true},
		{"pipe in description", "ls", "a|b", "Linux", true},
		{"pipe in category", "ls", "List", "Li|nux", true},
		{"newline", "ls", "List\nfiles", "Linux", true},
		{"carriage return", "ls\r", "List", "Linux", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.cmd, tc.desc, tc.category)
			if tc.wantErr {
				if !errors.Is(err, errors.ErrInvalidRequest) {
					t.Errorf("Validate() = %v, want INVALID_REQUEST", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestNew_DefaultsCategory(t *testing.T) {
	r := New(" deploy ", " Ship it ", " ", Personal)
	want := Record{Command: "deploy", Description: "Ship it", Category: "Personal"}
	if r != want {
		t.Errorf("New() = %+v, want %+v", r, want)
	}
}
