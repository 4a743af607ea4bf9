package pdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// FileReader implements Reader for PDFs on the local filesystem.
//
// It combines two libraries: pdfcpu for structural operations (page
// count, embedded image extraction) and ledongthuc/pdf for text-layer
// and document-information access. Neither library alone covers both
// concerns well.
type FileReader struct {
	// conf is the pdfcpu configuration shared by all calls.
	conf *model.Configuration

	// logger for extraction warnings.
	logger *slog.Logger
}

// NewFileReader creates a FileReader.
// Validation is relaxed because real case files are produced by a zoo
// of scanner firmware and frequently violate the PDF spec in harmless
// ways.
func NewFileReader(logger *slog.Logger) *FileReader {
	if logger == nil {
		logger = slog.Default()
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &FileReader{conf: conf, logger: logger}
}

// Info returns document information for the PDF at path.
func (r *FileReader) Info(ctx context.Context, path string) (info *Info, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// ledongthuc/pdf panics on some malformed files; contain it here
	// so one corrupt volume cannot take down the indexing run.
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("pdf parse failure for %s: %v", path, p)
		}
	}()

	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page count: %w", err)
	}

	info = &Info{PageCount: pageCount}

	f, doc, err := pdflib.Open(path)
	if err != nil {
		// Page count alone is enough to ingest; metadata is optional.
		r.logger.Warn("failed to read document information",
			"path", path,
			"error", err,
		)
		return info, nil
	}
	defer f.Close() //nolint:errcheck // Read-only file

	infoDict := doc.Trailer().Key("Info")
	if infoDict.Kind() == pdflib.Dict {
		info.Title = stringValue(infoDict.Key("Title"))
		info.Author = stringValue(infoDict.Key("Author"))
		info.CreationDate = parsePDFDate(stringValue(infoDict.Key("CreationDate")))
		info.ModificationDate = parsePDFDate(stringValue(infoDict.Key("ModDate")))
	}

	return info, nil
}

// PageText extracts the text layer of the given 1-based page.
func (r *FileReader) PageText(ctx context.Context, path string, page int) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("pdf text extraction failure for %s page %d: %v", path, page, p)
		}
	}()

	f, doc, err := pdflib.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	if page < 1 || page > doc.NumPage() {
		return "", fmt.Errorf("page %d out of range [1,%d]", page, doc.NumPage())
	}

	p := doc.Page(page)
	if p.V.IsNull() {
		return "", nil
	}

	text, err = p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract text layer: %w", err)
	}

	return text, nil
}

// PageImage extracts the page's embedded scan image to destPath.
//
// pdfcpu writes every image of the selected page into a directory with
// names of its own choosing, so extraction goes through a scratch
// directory and the largest image wins. For scanned case files a page
// has exactly one full-page image; the size rule only matters for
// pages that additionally embed stamps or signatures.
func (r *FileReader) PageImage(ctx context.Context, path string, page int, destPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	scratch, err := os.MkdirTemp(filepath.Dir(destPath), "extract-*")
	if err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch) //nolint:errcheck // Best-effort cleanup

	if err := api.ExtractImagesFile(path, scratch, []string{strconv.Itoa(page)}, r.conf); err != nil {
		return fmt.Errorf("failed to extract page images: %w", err)
	}

	largest, err := largestFile(scratch)
	if err != nil {
		return err
	}
	if largest == "" {
		return ErrNoPageImage
	}

	if err := copyFile(largest, destPath); err != nil {
		return fmt.Errorf("failed to place page image: %w", err)
	}

	return nil
}

// largestFile returns the largest regular file in dir, or "" when the
// directory is empty.
func largestFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read scratch directory: %w", err)
	}

	var (
		best     string
		bestSize int64
	)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		if fi.Size() > bestSize {
			best = filepath.Join(dir, entry.Name())
			bestSize = fi.Size()
		}
	}
	return best, nil
}

// copyFile copies src to dst, creating parent directories.
func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return err
	}

	in, err := os.Open(src) //nolint:gosec // Path is inside our scratch directory
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // Read-only file

	out, err := os.Create(dst) //nolint:gosec // Destination is inside our cache directory
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// stringValue safely extracts a string from a PDF value.
func stringValue(v pdflib.Value) string {
	if v.Kind() != pdflib.String {
		return ""
	}
	return strings.TrimSpace(v.Text())
}

// pdfDateFormats lists PDF date spellings seen in the wild, most
// specific first. The canonical form is "D:YYYYMMDDHHmmSSOHH'mm'" but
// scanner firmware truncates it at every imaginable point.
var pdfDateFormats = []string{
	"20060102150405-07'00'",
	"20060102150405Z07'00'",
	"20060102150405-0700",
	"20060102150405Z",
	"20060102150405",
	"200601021504",
	"20060102",
}

// parsePDFDate parses a PDF date string, returning zero time when the
// value is absent or unparseable. Metadata dates are advisory; a bad
// date never fails ingestion.
func parsePDFDate(s string) time.Time {
	s = strings.TrimSpace(strings.TrimPrefix(s, "D:"))
	if s == "" {
		return time.Time{}
	}
	for _, format := range pdfDateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
