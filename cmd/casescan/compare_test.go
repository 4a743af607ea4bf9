package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/caseforge/casescan/internal/database"
	"github.com/caseforge/casescan/internal/model"
)

// seedCompareDB stores one single-page volume per entry of texts,
// numbered from 1.
func seedCompareDB(t *testing.T, dbDir string, texts ...string) {
	t.Helper()

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	for i, text := range texts {
		volume := model.NewVolume("/case/том " + string(rune('0'+i+1)) + ".pdf")
		volume.VolumeNumber = i + 1
		volume.TotalPages = 1
		volume.IndexingStatus = model.IndexingStatusCompleted

		id, err := db.UpsertVolume(ctx, volume)
		if err != nil {
			t.Fatal(err)
		}
		page := &model.Page{VolumeNumber: i + 1, PageNumber: 1, Text: text}
		if err := db.SavePage(ctx, id, page); err != nil {
			t.Fatal(err)
		}
	}
}

// TestRunCompareCmd tests the compare command end to end.
func TestRunCompareCmd(t *testing.T) {
	identical := strings.Repeat("Следователь произвел осмотр изъятых документов по уголовному делу. ", 6)

	t.Run("identical volumes are suspicious", func(t *testing.T) {
		dbDir := t.TempDir()
		seedCompareDB(t, dbDir, identical, identical)

		var buf bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&buf)
		root.SetErr(&buf)
		root.SetArgs([]string{"compare", "--db-dir", dbDir, "1", "2"})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Text similarity:   100.00%") {
			t.Errorf("expected 100%% similarity, got %q", output)
		}
		if !strings.Contains(output, "SUSPICIOUS") {
			t.Errorf("expected suspicious verdict, got %q", output)
		}
	})

	t.Run("json output decodes as comparison", func(t *testing.T) {
		dbDir := t.TempDir()
		seedCompareDB(t, dbDir, identical, identical)

		var buf bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&buf)
		root.SetErr(&buf)
		root.SetArgs([]string{"compare", "--db-dir", dbDir, "--json", "1", "2"})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var c model.Comparison
		if err := json.Unmarshal(buf.Bytes(), &c); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if c.TextSimilarity != 100 {
			t.Errorf("TextSimilarity = %v", c.TextSimilarity)
		}
		if !c.IsSuspicious {
			t.Error("expected the pair to be suspicious")
		}
	})

	t.Run("unindexed volume fails", func(t *testing.T) {
		dbDir := t.TempDir()
		seedCompareDB(t, dbDir, identical)

		root := NewRootCmd()
		root.SetOut(new(bytes.Buffer))
		root.SetErr(new(bytes.Buffer))
		root.SetArgs([]string{"compare", "--db-dir", dbDir, "1", "9"})

		err := root.Execute()
		if err == nil || !strings.Contains(err.Error(), "no indexed pages") {
			t.Errorf("expected no-indexed-pages error, got %v", err)
		}
	})

	t.Run("same volume twice fails", func(t *testing.T) {
		root := NewRootCmd()
		root.SetOut(new(bytes.Buffer))
		root.SetErr(new(bytes.Buffer))
		root.SetArgs([]string{"compare", "--db-dir", t.TempDir(), "3", "3"})

		err := root.Execute()
		if err == nil || !strings.Contains(err.Error(), "itself") {
			t.Errorf("expected self-comparison error, got %v", err)
		}
	})

	t.Run("non-numeric volume fails", func(t *testing.T) {
		root := NewRootCmd()
		root.SetOut(new(bytes.Buffer))
		root.SetErr(new(bytes.Buffer))
		root.SetArgs([]string{"compare", "--db-dir", t.TempDir(), "один", "2"})

		err := root.Execute()
		if err == nil || !strings.Contains(err.Error(), "invalid volume number") {
			t.Errorf("expected invalid-volume error, got %v", err)
		}
	})
}
