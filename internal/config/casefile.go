package config

import (
	"fmt"
	"strconv"
	"strings"
)

// File represents the structure of the .casescan configuration file.
// It carries per-case knowledge that cannot be derived from the PDFs:
// boilerplate phrase lists, document type keywords, and author
// attribution rules.
type File struct {
	// Boilerplate lists standard legal phrases stripped from both
	// texts before similarity scoring. Matching is case-insensitive.
	Boilerplate []string `yaml:"boilerplate,omitempty"`

	// DocumentTypeKeywords maps a keyword to the document type label
	// assigned when the keyword occurs in the page text. Checked
	// before the built-in domain keyword list.
	DocumentTypeKeywords []KeywordLabel `yaml:"documentTypes,omitempty"`

	// Attribution assigns organizational roles to page ranges.
	// Attribution is a required external input for the suspicious-pair
	// sweep; casescan deliberately has no content heuristic for it.
	Attribution []AttributionRule `yaml:"attribution,omitempty"`
}

// KeywordLabel pairs a search keyword with the document type label it
// implies.
type KeywordLabel struct {
	// Keyword is matched case-insensitively against the page text.
	Keyword string `yaml:"keyword"`

	// Label is the document type assigned on match.
	Label string `yaml:"label"`
}

// AttributionRule assigns a role to a span of pages in one volume.
type AttributionRule struct {
	// Volume is the volume number the rule applies to.
	Volume int `yaml:"volume"`

	// Pages is an optional 1-based inclusive page range, e.g. "1-120"
	// or "37". Empty means the whole volume.
	Pages string `yaml:"pages,omitempty"`

	// Role is the organizational role, e.g. "investigator" or
	// "prosecutor".
	Role string `yaml:"role"`
}

// RoleFor returns the role attributed to the given page, or "" when no
// rule covers it. Rules are evaluated in file order, first match wins.
func (cf *File) RoleFor(volume, page int) string {
	if cf == nil {
		return ""
	}
	for _, rule := range cf.Attribution {
		if rule.Volume != volume {
			continue
		}
		if rule.Pages == "" {
			return rule.Role
		}
		first, last, err := parsePageRange(rule.Pages)
		if err != nil {
			continue
		}
		if page >= first && page <= last {
			return rule.Role
		}
	}
	return ""
}

// HasAttribution reports whether any attribution rules are configured.
// The suspicious-pair sweep is skipped, with a warning, when none are.
func (cf *File) HasAttribution() bool {
	return cf != nil && len(cf.Attribution) > 0
}

// parsePageRange parses "7" or "1-120" into an inclusive range.
func parsePageRange(s string) (first, last int, err error) {
	s = strings.TrimSpace(s)
	if before, after, found := strings.Cut(s, "-"); found {
		first, err = strconv.Atoi(strings.TrimSpace(before))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid page range %q: %w", s, err)
		}
		last, err = strconv.Atoi(strings.TrimSpace(after))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid page range %q: %w", s, err)
		}
		if last < first {
			return 0, 0, fmt.Errorf("invalid page range %q: end before start", s)
		}
		return first, last, nil
	}
	first, err = strconv.Atoi(s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid page range %q: %w", s, err)
	}
	return first, first, nil
}
