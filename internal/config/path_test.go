package config

import (
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/testuser")
	t.Setenv("LEDGER_DIR", "/var/ledger")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty", "", ""},
		{"tilde prefix", "~/data/ledger.db", "/home/testuser/data/ledger.db"},
		{"bare tilde", "~", "/home/testuser"},
		{"env var", "$LEDGER_DIR/ledger.db", "/var/ledger/ledger.db"},
		{"absolute untouched", "/tmp/ledger.db", "/tmp/ledger.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.path); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestDefaultDatabasePath(t *testing.T) {
	t.Setenv("HOME", "/home/testuser")

	want := filepath.Join("/home/testuser", ".local", "share", "pocketledger", "pocketledger.db")
	if got := DefaultDatabasePath(); got != want {
		t.Errorf("DefaultDatabasePath() = %q, want %q", got, want)
	}
}
