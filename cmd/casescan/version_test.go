package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestGetVersion tests version resolution.
func TestGetVersion(t *testing.T) {
	t.Run("prefers ldflags version", func(t *testing.T) {
		orig := version
		t.Cleanup(func() { version = orig })

		version = "v1.2.3"
		if got := getVersion(); got != "v1.2.3" {
			t.Errorf("getVersion() = %q, want %q", got, "v1.2.3")
		}
	})

	t.Run("falls back without ldflags", func(t *testing.T) {
		orig := version
		t.Cleanup(func() { version = orig })

		version = ""
		if got := getVersion(); got == "" {
			t.Error("expected non-empty version")
		}
	})
}

// TestNewVersionCmd tests the version command output.
func TestNewVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	cmd := NewVersionCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "casescan version") {
		t.Errorf("expected version line, got %q", output)
	}
	if !strings.Contains(output, "commit:") {
		t.Errorf("expected commit line, got %q", output)
	}
	if !strings.Contains(output, "built:") {
		t.Errorf("expected build date line, got %q", output)
	}
}
