package kit

import "testing"

func TestNewLoggerLevels(t *testing.T) {
	for _, level := range []string{"", "debug", "info", "warn", "error"} {
		l, err := NewLogger("inventory", level)
		if err != nil {
			t.Fatalf("NewLogger(%q): %v", level, err)
		}
		_ = l.Sync()
	}

	if _, err := NewLogger("inventory", "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
