package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/caseforge/casescan/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *CaseDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testVolume(number int, path string) *model.Volume {
	v := model.NewVolume(path)
	v.VolumeNumber = number
	v.FileSize = 1024
	v.TotalPages = 3
	return v
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, dbFileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "nonexistent-db")
		_, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err == nil {
			t.Fatal("expected error when CreateIfNotExists=false and database does not exist")
		}
		if !strings.Contains(err.Error(), "database not found") {
			t.Errorf("expected informative error, got %q", err.Error())
		}
	})

	t.Run("schema creation is idempotent", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		db1, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("first open: %v", err)
		}
		if err := db1.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}

		db2, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("second open over existing schema: %v", err)
		}
		defer db2.Close()
	})
}

// TestUpsertVolume tests volume persistence keyed by file path.
func TestUpsertVolume(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	v := testVolume(1, "/case/том 1.pdf")
	v.Metadata.Author = "канцелярия"

	id1, err := db.UpsertVolume(ctx, v)
	if err != nil {
		t.Fatalf("UpsertVolume() error = %v", err)
	}

	v.IndexingStatus = model.IndexingStatusCompleted
	v.IndexingProgress = 100
	id2, err := db.UpsertVolume(ctx, v)
	if err != nil {
		t.Fatalf("UpsertVolume() second call error = %v", err)
	}
	if id1 != id2 {
		t.Errorf("upsert created a new row: id %d then %d", id1, id2)
	}

	got, err := db.GetVolume(ctx, v.FilePath)
	if err != nil {
		t.Fatalf("GetVolume() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetVolume() = nil for stored volume")
	}
	if got.IndexingStatus != model.IndexingStatusCompleted {
		t.Errorf("IndexingStatus = %q, expected completed", got.IndexingStatus)
	}
	if got.Metadata.Author != "канцелярия" {
		t.Errorf("Metadata.Author = %q", got.Metadata.Author)
	}

	missing, err := db.GetVolume(ctx, "/case/absent.pdf")
	if err != nil {
		t.Fatalf("GetVolume() for missing path error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetVolume() = %+v, expected nil for missing path", missing)
	}
}

// TestUpdateVolumeStatus tests the lifecycle field update.
func TestUpdateVolumeStatus(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	v := testVolume(2, "/case/том 2.pdf")
	if _, err := db.UpsertVolume(ctx, v); err != nil {
		t.Fatal(err)
	}

	if err := db.UpdateVolumeStatus(ctx, v.FilePath, model.IndexingStatusProcessing, 42.5); err != nil {
		t.Fatalf("UpdateVolumeStatus() error = %v", err)
	}

	got, err := db.GetVolume(ctx, v.FilePath)
	if err != nil {
		t.Fatal(err)
	}
	if got.IndexingStatus != model.IndexingStatusProcessing || got.IndexingProgress != 42.5 {
		t.Errorf("got status %q progress %v", got.IndexingStatus, got.IndexingProgress)
	}
}

// TestSavePage tests page persistence and that re-saving produces no
// duplicate rows.
func TestSavePage(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	volumeID, err := db.UpsertVolume(ctx, testVolume(1, "/case/том 1.pdf"))
	if err != nil {
		t.Fatal(err)
	}

	confidence := 0.87
	page := &model.Page{
		VolumeNumber:  1,
		PageNumber:    1,
		Text:          "постановление о возбуждении уголовного дела",
		ImagePath:     "/cache/vol_p1.png",
		OCRConfidence: &confidence,
		Metadata:      model.PageMetadata{DocumentType: "постановление", Author: "investigator"},
	}

	for i := 0; i < 3; i++ {
		if err := db.SavePage(ctx, volumeID, page); err != nil {
			t.Fatalf("SavePage() attempt %d error = %v", i, err)
		}
	}

	pages, err := db.PagesForVolume(ctx, 1)
	if err != nil {
		t.Fatalf("PagesForVolume() error = %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("got %d page rows after repeated saves, expected 1", len(pages))
	}

	got := pages[0]
	if got.Text != page.Text {
		t.Errorf("Text = %q", got.Text)
	}
	if got.OCRConfidence == nil || *got.OCRConfidence != confidence {
		t.Errorf("OCRConfidence = %v, expected %v", got.OCRConfidence, confidence)
	}
	if got.Metadata.Author != "investigator" {
		t.Errorf("Metadata.Author = %q", got.Metadata.Author)
	}
}

// TestSearch tests ranked full-text search with filters.
func TestSearch(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	id1, err := db.UpsertVolume(ctx, testVolume(1, "/case/том 1.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	id2, err := db.UpsertVolume(ctx, testVolume(2, "/case/том 2.pdf"))
	if err != nil {
		t.Fatal(err)
	}

	seed := []struct {
		volumeID int64
		page     model.Page
	}{
		{id1, model.Page{VolumeNumber: 1, PageNumber: 1,
			Text:     "протокол осмотра места происшествия составлен следователем",
			Metadata: model.PageMetadata{DocumentType: "протокол"}}},
		{id1, model.Page{VolumeNumber: 1, PageNumber: 2,
			Text:     "заключение эксперта по результатам исследования",
			Metadata: model.PageMetadata{DocumentType: "заключение"}}},
		{id2, model.Page{VolumeNumber: 2, PageNumber: 1,
			Text:     "протокол допроса свидетеля проведен следователем в присутствии защитника",
			Metadata: model.PageMetadata{DocumentType: "протокол"}}},
	}
	for _, s := range seed {
		if err := db.SavePage(ctx, s.volumeID, &s.page); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("keyword search ranks and bounds relevance", func(t *testing.T) {
		t.Parallel()
		results, err := db.Search(ctx, SearchQuery{Text: "протокол следователем"})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("got %d hits, expected 2", len(results))
		}
		for i, r := range results {
			if r.Relevance <= 0 || r.Relevance > 1 {
				t.Errorf("hit %d relevance %v outside (0,1]", i, r.Relevance)
			}
			if i > 0 && r.Relevance > results[i-1].Relevance {
				t.Error("hits not ordered by descending relevance")
			}
		}
	})

	t.Run("volume filter", func(t *testing.T) {
		t.Parallel()
		results, err := db.Search(ctx, SearchQuery{Text: "протокол", Volumes: []int{2}})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(results) != 1 || results[0].Page.VolumeNumber != 2 {
			t.Fatalf("got %+v, expected only the volume 2 hit", results)
		}
	})

	t.Run("document type filter", func(t *testing.T) {
		t.Parallel()
		results, err := db.Search(ctx, SearchQuery{Text: "эксперта", DocumentType: "заключение"})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(results) != 1 || results[0].Page.PageNumber != 2 {
			t.Fatalf("got %+v, expected the expert report page", results)
		}
	})

	t.Run("limit", func(t *testing.T) {
		t.Parallel()
		results, err := db.Search(ctx, SearchQuery{Text: "протокол", Limit: 1})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("got %d hits, expected limit of 1", len(results))
		}
	})

	t.Run("empty query is an error", func(t *testing.T) {
		t.Parallel()
		if _, err := db.Search(ctx, SearchQuery{Text: "   "}); err == nil {
			t.Error("expected error for empty query")
		}
	})
}

// TestBuildMatchExpr tests MATCH expression construction.
func TestBuildMatchExpr(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"single keyword", "протокол", `"протокол"`},
		{"keywords are AND-combined", "протокол осмотра", `"протокол" AND "осмотра"`},
		{"quoted phrase", `"протокол осмотра"`, `"протокол осмотра"`},
		{"operators stay inert", "протокол OR взлом", `"протокол" AND "OR" AND "взлом"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := buildMatchExpr(tc.input); got != tc.expected {
				t.Errorf("buildMatchExpr(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

// TestComparisons tests comparison persistence and the suspicious
// listing.
func TestComparisons(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	visual := 91.5
	records := []model.Comparison{
		{ID: "c-low", Doc1: model.DocumentRef{VolumeNumber: 1}, Doc2: model.DocumentRef{VolumeNumber: 2},
			TextSimilarity: 12.5, HumanReview: "routine check: no significant overlap detected"},
		{ID: "c-high", Doc1: model.DocumentRef{VolumeNumber: 1}, Doc2: model.DocumentRef{VolumeNumber: 3},
			TextSimilarity: 96.4, IsSuspicious: true, SuspiciousReason: "high textual overlap: 96.40%"},
		{ID: "c-visual", Doc1: model.DocumentRef{VolumeNumber: 2}, Doc2: model.DocumentRef{VolumeNumber: 3},
			TextSimilarity: 44.1, VisualSimilarity: &visual, IsSuspicious: true,
			SuspiciousReason: "high visual similarity: 91.50%"},
	}
	for i := range records {
		if err := db.SaveComparison(ctx, &records[i]); err != nil {
			t.Fatalf("SaveComparison(%s) error = %v", records[i].ID, err)
		}
	}

	suspicious, err := db.SuspiciousComparisons(ctx)
	if err != nil {
		t.Fatalf("SuspiciousComparisons() error = %v", err)
	}
	if len(suspicious) != 2 {
		t.Fatalf("got %d suspicious records, expected 2", len(suspicious))
	}
	if suspicious[0].ID != "c-high" || suspicious[1].ID != "c-visual" {
		t.Errorf("order = [%s, %s], expected descending text similarity", suspicious[0].ID, suspicious[1].ID)
	}
	if suspicious[1].VisualSimilarity == nil || *suspicious[1].VisualSimilarity != visual {
		t.Errorf("VisualSimilarity = %v, expected %v", suspicious[1].VisualSimilarity, visual)
	}

	t.Run("rerun overwrites by ID", func(t *testing.T) {
		updated := records[1]
		updated.TextSimilarity = 97.0
		if err := db.SaveComparison(ctx, &updated); err != nil {
			t.Fatal(err)
		}
		got, err := db.SuspiciousComparisons(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d records after overwrite, expected 2", len(got))
		}
		if got[0].TextSimilarity != 97.0 {
			t.Errorf("TextSimilarity = %v, expected overwrite to 97", got[0].TextSimilarity)
		}
	})
}

// TestCaseStatistics tests aggregate counts.
func TestCaseStatistics(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	v1 := testVolume(1, "/case/том 1.pdf")
	v1.IndexingStatus = model.IndexingStatusCompleted
	id1, err := db.UpsertVolume(ctx, v1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.UpsertVolume(ctx, testVolume(2, "/case/том 2.pdf")); err != nil {
		t.Fatal(err)
	}

	for p := 1; p <= 2; p++ {
		if err := db.SavePage(ctx, id1, &model.Page{VolumeNumber: 1, PageNumber: p, Text: "текст"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.SaveComparison(ctx, &model.Comparison{ID: "s1", TextSimilarity: 99, IsSuspicious: true}); err != nil {
		t.Fatal(err)
	}

	stats, err := db.CaseStatistics(ctx)
	if err != nil {
		t.Fatalf("CaseStatistics() error = %v", err)
	}
	expected := model.CaseStatistics{TotalVolumes: 2, CompletedVolumes: 1, TotalPages: 2, SuspiciousComparisons: 1}
	if *stats != expected {
		t.Errorf("CaseStatistics() = %+v, expected %+v", *stats, expected)
	}
}
