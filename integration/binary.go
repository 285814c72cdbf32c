//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// buildBinary returns INVENTORY_BIN when set, otherwise builds cmd/inventory
// into a temp dir.
func buildBinary(t *testing.T, ctx context.Context) string {
	t.Helper()

	if bin := os.Getenv("INVENTORY_BIN"); bin != "" {
		return bin
	}

	bin := filepath.Join(t.TempDir(), "inventory")
	cmd := exec.CommandContext(ctx, "go", "build", "-o", bin, "../cmd/inventory")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(out))
	}
	return bin
}

func runBinary(t *testing.T, ctx context.Context, bin, dataDir, stdin string, args ...string) string {
	t.Helper()

	cmd := exec.CommandContext(ctx, bin, append([]string{"--data-dir", dataDir}, args...)...)
	cmd.Stdin = bytes.NewBufferString(stdin)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("inventory %v failed: %v\n%s", args, err, string(out))
	}
	return string(out)
}
