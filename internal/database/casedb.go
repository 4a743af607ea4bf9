package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/caseforge/casescan/internal/model"
)

// dbFileName is the SQLite file created inside the database directory.
const dbFileName = "casescan.db"

// CaseDB provides SQLite-based storage for the case index: volumes,
// pages, the full-text index, and comparison records.
//
// Design decision: one database file per case directory rather than
// per volume. Search and the comparison sweep are cross-volume
// operations; a single file keeps them one query away and makes
// backup/restore a file copy.
type CaseDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CaseDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CaseDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are
// created; otherwise a missing database is an error.
func Open(dbDir string, opts Options) (*CaseDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single pooled connection also
	// keeps PRAGMA settings applied to every statement.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CaseDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CaseDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CaseDB) createTables() error {
	schema := `
	-- Volumes are case-file PDFs; file_path is the identity key.
	CREATE TABLE IF NOT EXISTS volumes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		volume_number INTEGER NOT NULL DEFAULT 0,
		file_path TEXT NOT NULL UNIQUE,
		file_size INTEGER NOT NULL DEFAULT 0,
		total_pages INTEGER NOT NULL DEFAULT 0,
		document_type TEXT NOT NULL DEFAULT 'scanned',
		metadata TEXT,
		indexing_status TEXT NOT NULL DEFAULT 'pending',
		indexing_progress REAL NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_volumes_number ON volumes(volume_number);
	CREATE INDEX IF NOT EXISTS idx_volumes_status ON volumes(indexing_status);

	-- Pages store extracted text keyed by (volume_number, page_number).
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		volume_id INTEGER NOT NULL REFERENCES volumes(id) ON DELETE CASCADE,
		volume_number INTEGER NOT NULL,
		page_number INTEGER NOT NULL,
		text TEXT NOT NULL DEFAULT '',
		image_path TEXT,
		ocr_confidence REAL,
		metadata TEXT,
		UNIQUE(volume_number, page_number)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_volume ON pages(volume_id);

	-- Full-text index over page text, content-synced with pages.
	CREATE VIRTUAL TABLE IF NOT EXISTS pages_fts USING fts5(
		text,
		content='pages',
		content_rowid='id',
		tokenize='unicode61'
	);

	CREATE TRIGGER IF NOT EXISTS pages_fts_insert AFTER INSERT ON pages BEGIN
		INSERT INTO pages_fts(rowid, text) VALUES (new.id, new.text);
	END;
	CREATE TRIGGER IF NOT EXISTS pages_fts_delete AFTER DELETE ON pages BEGIN
		INSERT INTO pages_fts(pages_fts, rowid, text) VALUES ('delete', old.id, old.text);
	END;
	CREATE TRIGGER IF NOT EXISTS pages_fts_update AFTER UPDATE OF text ON pages BEGIN
		INSERT INTO pages_fts(pages_fts, rowid, text) VALUES ('delete', old.id, old.text);
		INSERT INTO pages_fts(rowid, text) VALUES (new.id, new.text);
	END;

	-- Comparison records, overwritten by ID on rerun.
	CREATE TABLE IF NOT EXISTS comparisons (
		id TEXT PRIMARY KEY,
		volume1 INTEGER NOT NULL,
		volume2 INTEGER NOT NULL,
		text_similarity REAL NOT NULL,
		visual_similarity REAL,
		is_suspicious INTEGER NOT NULL DEFAULT 0,
		record_json TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_comparisons_suspicious ON comparisons(is_suspicious, text_similarity);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// UpsertVolume inserts or updates a volume record keyed by file path
// and returns its database ID.
func (cdb *CaseDB) UpsertVolume(ctx context.Context, v *model.Volume) (int64, error) {
	metadataJSON, err := json.Marshal(v.Metadata)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize volume metadata: %w", err)
	}

	query := `
	INSERT INTO volumes (volume_number, file_path, file_size, total_pages, document_type, metadata, indexing_status, indexing_progress)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(file_path) DO UPDATE SET
		volume_number = excluded.volume_number,
		file_size = excluded.file_size,
		total_pages = excluded.total_pages,
		document_type = excluded.document_type,
		metadata = excluded.metadata,
		indexing_status = excluded.indexing_status,
		indexing_progress = excluded.indexing_progress,
		updated_at = CURRENT_TIMESTAMP
	`

	if _, err := cdb.db.ExecContext(ctx, query,
		v.VolumeNumber,
		v.FilePath,
		v.FileSize,
		v.TotalPages,
		string(v.DocumentType),
		string(metadataJSON),
		string(v.IndexingStatus),
		v.IndexingProgress,
	); err != nil {
		return 0, fmt.Errorf("failed to upsert volume: %w", err)
	}

	// LastInsertId is unreliable under DO UPDATE; read the ID back.
	var id int64
	if err := cdb.db.QueryRowContext(ctx, "SELECT id FROM volumes WHERE file_path = ?", v.FilePath).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read volume id: %w", err)
	}
	return id, nil
}

// GetVolume retrieves a volume by file path. Returns (nil, nil) when
// the volume is not in the store.
func (cdb *CaseDB) GetVolume(ctx context.Context, filePath string) (*model.Volume, error) {
	query := `
	SELECT volume_number, file_path, file_size, total_pages, document_type, metadata, indexing_status, indexing_progress
	FROM volumes
	WHERE file_path = ?
	`

	v, err := scanVolume(cdb.db.QueryRowContext(ctx, query, filePath))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get volume: %w", err)
	}
	return v, nil
}

// ListVolumes returns all volume records ordered by volume number.
func (cdb *CaseDB) ListVolumes(ctx context.Context) ([]model.Volume, error) {
	query := `
	SELECT volume_number, file_path, file_size, total_pages, document_type, metadata, indexing_status, indexing_progress
	FROM volumes
	ORDER BY volume_number, file_path
	`

	rows, err := cdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list volumes: %w", err)
	}
	defer rows.Close()

	var volumes []model.Volume
	for rows.Next() {
		v, err := scanVolume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan volume: %w", err)
		}
		volumes = append(volumes, *v)
	}
	return volumes, rows.Err()
}

// UpdateVolumeStatus updates the indexing lifecycle fields of a volume.
func (cdb *CaseDB) UpdateVolumeStatus(ctx context.Context, filePath string, status model.IndexingStatus, progress float64) error {
	query := `
	UPDATE volumes
	SET indexing_status = ?, indexing_progress = ?, updated_at = CURRENT_TIMESTAMP
	WHERE file_path = ?
	`

	if _, err := cdb.db.ExecContext(ctx, query, string(status), progress, filePath); err != nil {
		return fmt.Errorf("failed to update volume status: %w", err)
	}
	return nil
}

// scannable is satisfied by *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanVolume(row scannable) (*model.Volume, error) {
	var v model.Volume
	var docType, status string
	var metadataJSON sql.NullString

	if err := row.Scan(
		&v.VolumeNumber,
		&v.FilePath,
		&v.FileSize,
		&v.TotalPages,
		&docType,
		&metadataJSON,
		&status,
		&v.IndexingProgress,
	); err != nil {
		return nil, err
	}

	v.DocumentType = model.DocumentType(docType)
	v.IndexingStatus = model.IndexingStatus(status)
	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &v.Metadata); err != nil {
			return nil, fmt.Errorf("failed to parse volume metadata: %w", err)
		}
	}
	return &v, nil
}

// SavePage inserts or updates a page keyed by (volume number, page
// number). The FTS index follows through triggers, so re-indexing an
// unchanged volume produces no duplicate rows.
func (cdb *CaseDB) SavePage(ctx context.Context, volumeID int64, p *model.Page) error {
	metadataJSON, err := json.Marshal(p.Metadata)
	if err != nil {
		return fmt.Errorf("failed to serialize page metadata: %w", err)
	}

	query := `
	INSERT INTO pages (volume_id, volume_number, page_number, text, image_path, ocr_confidence, metadata)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(volume_number, page_number) DO UPDATE SET
		volume_id = excluded.volume_id,
		text = excluded.text,
		image_path = excluded.image_path,
		ocr_confidence = excluded.ocr_confidence,
		metadata = excluded.metadata
	`

	var imagePath sql.NullString
	if p.ImagePath != "" {
		imagePath = sql.NullString{String: p.ImagePath, Valid: true}
	}
	var confidence sql.NullFloat64
	if p.OCRConfidence != nil {
		confidence = sql.NullFloat64{Float64: *p.OCRConfidence, Valid: true}
	}

	if _, err := cdb.db.ExecContext(ctx, query,
		volumeID,
		p.VolumeNumber,
		p.PageNumber,
		p.Text,
		imagePath,
		confidence,
		string(metadataJSON),
	); err != nil {
		return fmt.Errorf("failed to save page: %w", err)
	}
	return nil
}

// PagesForVolume returns all pages of one volume in page order.
func (cdb *CaseDB) PagesForVolume(ctx context.Context, volumeNumber int) ([]model.Page, error) {
	return cdb.queryPages(ctx, "WHERE volume_number = ? ORDER BY page_number", volumeNumber)
}

// AllPages returns every indexed page ordered by volume then page.
// The comparison sweep consumes this to build attributed documents.
func (cdb *CaseDB) AllPages(ctx context.Context) ([]model.Page, error) {
	return cdb.queryPages(ctx, "ORDER BY volume_number, page_number")
}

func (cdb *CaseDB) queryPages(ctx context.Context, tail string, args ...any) ([]model.Page, error) {
	query := `
	SELECT volume_number, page_number, text, image_path, ocr_confidence, metadata
	FROM pages
	` + tail

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var pages []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, *p)
	}
	return pages, rows.Err()
}

func scanPage(row scannable) (*model.Page, error) {
	var p model.Page
	var imagePath sql.NullString
	var confidence sql.NullFloat64
	var metadataJSON sql.NullString

	if err := row.Scan(
		&p.VolumeNumber,
		&p.PageNumber,
		&p.Text,
		&imagePath,
		&confidence,
		&metadataJSON,
	); err != nil {
		return nil, err
	}

	if imagePath.Valid {
		p.ImagePath = imagePath.String
	}
	if confidence.Valid {
		c := confidence.Float64
		p.OCRConfidence = &c
	}
	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &p.Metadata); err != nil {
			return nil, fmt.Errorf("failed to parse page metadata: %w", err)
		}
	}
	return &p, nil
}

// CaseStatistics aggregates the store. Pure aggregation; no side
// effects.
func (cdb *CaseDB) CaseStatistics(ctx context.Context) (*model.CaseStatistics, error) {
	query := `
	SELECT
		(SELECT COUNT(*) FROM volumes),
		(SELECT COUNT(*) FROM volumes WHERE indexing_status = 'completed'),
		(SELECT COUNT(*) FROM pages),
		(SELECT COUNT(*) FROM comparisons WHERE is_suspicious = 1)
	`

	var stats model.CaseStatistics
	if err := cdb.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalVolumes,
		&stats.CompletedVolumes,
		&stats.TotalPages,
		&stats.SuspiciousComparisons,
	); err != nil {
		return nil, fmt.Errorf("failed to aggregate statistics: %w", err)
	}
	return &stats, nil
}
