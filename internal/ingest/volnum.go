package ingest

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// volumeNumberPatterns is the filename cascade for volume numbers,
// tried in order. Archives name files "том 3.pdf", "volume_7.pdf", or
// just "3.pdf"; the first digit run is the last resort.
var volumeNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)том\s*№?\s*(\d+)`),
	regexp.MustCompile(`(?i)volume[_\s-]*(\d+)`),
	regexp.MustCompile(`(\d+)`),
}

// InferVolumeNumber derives a volume number from the file name.
// Returns 0 when the name carries no number. Collisions between files
// are tolerated: FilePath is the volume identity, the number is
// informational.
func InferVolumeNumber(path string) int {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	for _, re := range volumeNumberPatterns {
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return n
	}
	return 0
}
