package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/caseforge/casescan/internal/model"
)

// TestRunStatsCmd tests the stats command end to end.
func TestRunStatsCmd(t *testing.T) {
	t.Run("empty index reports zeros", func(t *testing.T) {
		var buf bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&buf)
		root.SetErr(&buf)
		root.SetArgs([]string{"stats", "--db-dir", t.TempDir()})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Volumes:    0 (0 indexed)") {
			t.Errorf("expected zero counts, got %q", buf.String())
		}
	})

	t.Run("json output decodes as statistics", func(t *testing.T) {
		dbDir := t.TempDir()
		seedSearchDB(t, dbDir, "протокол осмотра места происшествия")

		var buf bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&buf)
		root.SetErr(&buf)
		root.SetArgs([]string{"stats", "--db-dir", dbDir, "--json"})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var stats model.CaseStatistics
		if err := json.Unmarshal(buf.Bytes(), &stats); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if stats.TotalVolumes != 1 || stats.TotalPages != 1 {
			t.Errorf("stats = %+v, expected one volume with one page", stats)
		}
	})

	t.Run("conflicting formats fail", func(t *testing.T) {
		root := NewRootCmd()
		root.SetOut(new(bytes.Buffer))
		root.SetErr(new(bytes.Buffer))
		root.SetArgs([]string{"stats", "--db-dir", t.TempDir(), "--json", "--markdown"})

		if err := root.Execute(); err == nil {
			t.Error("expected error for conflicting report formats")
		}
	})

	t.Run("volume listing", func(t *testing.T) {
		dbDir := t.TempDir()
		seedSearchDB(t, dbDir, "протокол осмотра места происшествия")

		var buf bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&buf)
		root.SetErr(&buf)
		root.SetArgs([]string{"stats", "--db-dir", dbDir, "--volumes"})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "том 1.pdf") {
			t.Errorf("expected the volume path in the listing, got %q", buf.String())
		}
	})
}
