package scan

import (
	"os"
	"path/filepath"
)

// Progress is the share of an expected-file manifest present on disk.
type Progress struct {
	Existing int
	Total    int
	Percent  int
}

// ExpectedProgress reports how many of the relative paths exist under root.
// Percent is round(100*existing/total), 0 for an empty manifest.
func ExpectedProgress(root string, expected []string) Progress {
	p := Progress{Total: len(expected)}
	for _, rel := range expected {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); err == nil {
			p.Existing++
		}
	}
	p.Percent = Percent(p.Existing, p.Total)
	return p
}

// Percent returns round(100*part/whole) with halves rounded up, or 0 when
// whole is not positive.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return (200*part + whole) / (2 * whole)
}
