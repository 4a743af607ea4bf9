package cache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/crypto/blake2b"
)

// Extraction methods recorded in cache entries.
const (
	// MethodTextLayer marks text taken from the PDF text layer.
	MethodTextLayer = "text-layer"

	// MethodOCR marks text produced by the OCR engine.
	MethodOCR = "ocr"
)

// Entry is one cached page extraction.
//
// Confidence is persisted alongside the text so that a cache hit
// returns the true extraction confidence instead of pretending
// certainty. Text-layer entries carry confidence 1.
type Entry struct {
	// Text is the extracted page text.
	Text string `json:"text"`

	// Confidence is the extraction confidence in [0,1].
	Confidence float64 `json:"confidence"`

	// Method records how the text was produced (MethodTextLayer or
	// MethodOCR).
	Method string `json:"method"`
}

// TextCache is a filesystem-backed cache of page extractions.
// One JSON file per (path, page) key under the cache directory.
type TextCache struct {
	// dir is the cache directory.
	dir string
}

// New creates the cache directory if needed and returns a TextCache.
func New(dir string) (*TextCache, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &TextCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *TextCache) Dir() string {
	return c.dir
}

// Key returns the deterministic cache key for a (path, page) pair.
//
// BLAKE2b over "path|page", hex encoded. The key depends only on the
// identity of the page, not its content: the cache assumes case files
// are immutable evidence, which holds for court archives. A modified
// PDF must be re-ingested under a new path.
func (c *TextCache) Key(path string, page int) string {
	sum := blake2b.Sum256([]byte(path + "|" + strconv.Itoa(page)))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached entry for the page, or ok=false on a miss.
// A corrupt entry counts as a miss; it will be overwritten by the next
// Put.
func (c *TextCache) Get(path string, page int) (Entry, bool) {
	data, err := os.ReadFile(c.entryPath(path, page)) //nolint:gosec // Path is derived from our own key
	if err != nil {
		return Entry{}, false
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, false
	}
	return e, true
}

// Put stores an entry for the page. The write is atomic: concurrent
// writers of the same key cannot interleave, the last rename wins.
func (c *TextCache) Put(path string, page int, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	dest := c.entryPath(path, page)
	tmp, err := os.CreateTemp(c.dir, "entry-*")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to commit cache entry: %w", err)
	}
	return nil
}

// ImagePath returns the deterministic path for the rasterized image of
// a page. The naming scheme is fixed so OCR and visual comparison
// reference the same file.
func (c *TextCache) ImagePath(path string, page int) string {
	key := c.Key(path, page)
	return filepath.Join(c.dir, fmt.Sprintf("vol%s_p%d.png", key[:16], page))
}

// entryPath returns the JSON entry path for a key.
func (c *TextCache) entryPath(path string, page int) string {
	return filepath.Join(c.dir, c.Key(path, page)+".json")
}
