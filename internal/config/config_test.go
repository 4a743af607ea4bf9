package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestNewConfigDefaults tests that defaults are populated.
func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	c := NewConfig()

	if c.OCRLanguage != DefaultOCRLanguage {
		t.Errorf("OCRLanguage = %q, expected %q", c.OCRLanguage, DefaultOCRLanguage)
	}
	if c.OCRWorkers != DefaultOCRWorkers {
		t.Errorf("OCRWorkers = %d, expected %d", c.OCRWorkers, DefaultOCRWorkers)
	}
	if c.SuspiciousTextThreshold != DefaultSuspiciousTextThreshold {
		t.Errorf("SuspiciousTextThreshold = %v, expected %v", c.SuspiciousTextThreshold, DefaultSuspiciousTextThreshold)
	}
	if !c.UseOCR {
		t.Error("UseOCR should default to true")
	}
	if c.DBDir == "" || c.CacheDir == "" {
		t.Error("DBDir and CacheDir should default to XDG directories")
	}
}

// TestConfigValidate tests validation of each rejected configuration.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		c := NewConfig()
		c.CaseDir = "/cases/108"
		return c
	}

	testCases := []struct {
		name     string
		mutate   func(*Config)
		expected error
	}{
		{"valid", func(*Config) {}, nil},
		{"no case dir", func(c *Config) { c.CaseDir = "" }, ErrNoCaseDir},
		{"zero ocr workers", func(c *Config) { c.OCRWorkers = 0 }, ErrInvalidWorkerCount},
		{"negative compare workers", func(c *Config) { c.CompareWorkers = -1 }, ErrInvalidWorkerCount},
		{"zero match length", func(c *Config) { c.MinMatchLength = 0 }, ErrInvalidMinMatchLength},
		{"text threshold above 100", func(c *Config) { c.SuspiciousTextThreshold = 101 }, ErrInvalidThreshold},
		{"negative visual threshold", func(c *Config) { c.SuspiciousVisualThreshold = -5 }, ErrInvalidThreshold},
		{"zero search limit", func(c *Config) { c.SearchLimit = 0 }, ErrInvalidSearchLimit},
		{"conflicting formats", func(c *Config) { c.JSONReport = true; c.MarkdownReport = true }, ErrConflictingReportFormats},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := valid()
			tc.mutate(c)
			err := c.Validate()
			if !errors.Is(err, tc.expected) {
				t.Errorf("Validate() = %v, expected %v", err, tc.expected)
			}
		})
	}
}

// TestRoleFor tests attribution rule evaluation.
func TestRoleFor(t *testing.T) {
	t.Parallel()

	cf := &File{
		Attribution: []AttributionRule{
			{Volume: 1, Pages: "1-120", Role: "investigator"},
			{Volume: 1, Pages: "121-200", Role: "prosecutor"},
			{Volume: 2, Role: "court"},
			{Volume: 3, Pages: "37", Role: "defense"},
		},
	}

	testCases := []struct {
		name     string
		volume   int
		page     int
		expected string
	}{
		{"first range", 1, 1, "investigator"},
		{"range boundary", 1, 120, "investigator"},
		{"second range", 1, 121, "prosecutor"},
		{"past all ranges", 1, 201, ""},
		{"whole volume rule", 2, 999, "court"},
		{"single page rule", 3, 37, "defense"},
		{"single page miss", 3, 38, ""},
		{"unknown volume", 9, 1, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := cf.RoleFor(tc.volume, tc.page); got != tc.expected {
				t.Errorf("RoleFor(%d, %d) = %q, expected %q", tc.volume, tc.page, got, tc.expected)
			}
		})
	}

	t.Run("nil file", func(t *testing.T) {
		t.Parallel()
		var nilFile *File
		if got := nilFile.RoleFor(1, 1); got != "" {
			t.Errorf("nil file RoleFor = %q, expected empty", got)
		}
		if nilFile.HasAttribution() {
			t.Error("nil file must not report attribution")
		}
	})
}

// TestLoadConfigFile tests YAML loading including the not-found path.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("valid file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		content := `
boilerplate:
  - "рассмотрев материалы уголовного дела"
documentTypes:
  - keyword: "обвинительное заключение"
    label: "обвинительное заключение"
attribution:
  - volume: 1
    pages: "1-50"
    role: investigator
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}
		if len(cf.Boilerplate) != 1 {
			t.Errorf("Boilerplate count = %d, expected 1", len(cf.Boilerplate))
		}
		if len(cf.DocumentTypeKeywords) != 1 || cf.DocumentTypeKeywords[0].Label != "обвинительное заключение" {
			t.Errorf("unexpected DocumentTypeKeywords: %+v", cf.DocumentTypeKeywords)
		}
		if got := cf.RoleFor(1, 25); got != "investigator" {
			t.Errorf("RoleFor(1, 25) = %q, expected investigator", got)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, expected ErrConfigNotFound", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("boilerplate: {{"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for malformed YAML")
		}
	})
}
