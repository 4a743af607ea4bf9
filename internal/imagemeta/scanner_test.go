package imagemeta

import (
	"os"
	"path/filepath"
	"testing"
)

// TestFromBytesNoEXIF tests that images without EXIF yield nil, not an
// error. PDF producers usually strip EXIF on re-encode, so this is the
// common path.
func TestFromBytesNoEXIF(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not an image", []byte("постановление суда")},
		{"png header only", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}},
		{"jpeg header without exif", []byte{0xff, 0xd8, 0xff, 0xdb, 0x00, 0x04, 0x00, 0x00}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if fp := FromBytes(tc.data); fp != nil {
				t.Errorf("FromBytes() = %+v, expected nil", fp)
			}
		})
	}
}

// TestFromFile tests the file path variants.
func TestFromFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		if _, err := FromFile(filepath.Join(t.TempDir(), "absent.jpg")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("file without exif", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "plain.jpg")
		if err := os.WriteFile(path, []byte{0xff, 0xd8, 0xff, 0xdb, 0x00, 0x04, 0x00, 0x00}, 0600); err != nil {
			t.Fatal(err)
		}
		fp, err := FromFile(path)
		if err != nil {
			t.Fatalf("FromFile() error = %v", err)
		}
		if fp != nil {
			t.Errorf("FromFile() = %+v, expected nil for EXIF-less image", fp)
		}
	})
}
