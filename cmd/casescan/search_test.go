package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/caseforge/casescan/internal/database"
	"github.com/caseforge/casescan/internal/model"
)

// seedSearchDB indexes a volume with one page per given text directly
// in the store, bypassing ingestion.
func seedSearchDB(t *testing.T, dbDir string, texts ...string) {
	t.Helper()

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	volume := model.NewVolume("/case/том 1.pdf")
	volume.VolumeNumber = 1
	volume.TotalPages = len(texts)
	volume.IndexingStatus = model.IndexingStatusCompleted

	id, err := db.UpsertVolume(ctx, volume)
	if err != nil {
		t.Fatal(err)
	}
	for i, text := range texts {
		page := &model.Page{VolumeNumber: 1, PageNumber: i + 1, Text: text}
		if err := db.SavePage(ctx, id, page); err != nil {
			t.Fatal(err)
		}
	}
}

// TestRunSearchCmd tests the search command end to end.
func TestRunSearchCmd(t *testing.T) {
	t.Run("finds seeded page", func(t *testing.T) {
		dbDir := t.TempDir()
		seedSearchDB(t, dbDir, "протокол осмотра места происшествия составлен следователем")

		var buf bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&buf)
		root.SetErr(&buf)
		root.SetArgs([]string{"search", "--db-dir", dbDir, "осмотра"})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "vol 1 p.1") {
			t.Errorf("expected a hit for volume 1 page 1, got %q", buf.String())
		}
	})

	t.Run("no hits prints no matches", func(t *testing.T) {
		dbDir := t.TempDir()
		seedSearchDB(t, dbDir, "протокол осмотра места происшествия")

		var buf bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&buf)
		root.SetErr(&buf)
		root.SetArgs([]string{"search", "--db-dir", dbDir, "несуществующее"})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No matches found") {
			t.Errorf("expected no-matches message, got %q", buf.String())
		}
	})

	t.Run("structured filter drops non-matching hits", func(t *testing.T) {
		dbDir := t.TempDir()
		seedSearchDB(t, dbDir, "протокол осмотра места происшествия составлен следователем")

		var buf bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&buf)
		root.SetErr(&buf)
		root.SetArgs([]string{
			"search", "--db-dir", dbDir,
			"--case-number", "999/2020",
			"осмотра",
		})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No matches found") {
			t.Errorf("expected the filter to drop the hit, got %q", buf.String())
		}
	})

	t.Run("filter reaches past the ranked limit", func(t *testing.T) {
		dbDir := t.TempDir()
		// Page 1 outranks page 2 on term frequency but carries no case
		// number; only page 2 survives the structured filter.
		seedSearchDB(t, dbDir,
			strings.Repeat("осмотр места происшествия ", 12),
			"осмотр проведен по уголовному делу № 123/2024 в установленном порядке")

		var buf bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&buf)
		root.SetErr(&buf)
		root.SetArgs([]string{
			"search", "--db-dir", dbDir,
			"-n", "1",
			"--case-number", "123/2024",
			"осмотр",
		})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "vol 1 p.2") {
			t.Errorf("expected the filtered hit past the ranked limit, got %q", buf.String())
		}
	})

	t.Run("empty query fails", func(t *testing.T) {
		root := NewRootCmd()
		root.SetOut(new(bytes.Buffer))
		root.SetErr(new(bytes.Buffer))
		root.SetArgs([]string{"search", "--db-dir", t.TempDir(), "   "})

		if err := root.Execute(); err == nil {
			t.Error("expected error for an empty query")
		}
	})
}
