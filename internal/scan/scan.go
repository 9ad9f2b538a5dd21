// Package scan walks workstream trees and measures what is on disk.
package scan

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Options filters a scan.
type Options struct {
	// Extensions to count, without the leading dot. Empty matches every file.
	Extensions []string
	// SkipDirs are directory names never descended into, in addition to
	// hidden directories.
	SkipDirs []string
}

// Stats is the result of a scan.
type Stats struct {
	Files        int
	Lines        int
	LastModified time.Time // newest mtime among matching files
}

// Scan recursively counts files matching opts under root and the newlines
// they contain. Unreadable entries are skipped and a missing root yields
// zero Stats; Scan never fails.
func Scan(root string, opts Options) Stats {
	var stats Stats
	exts := newExtensionSet(opts.Extensions)
	skip := make(map[string]bool, len(opts.SkipDirs))
	for _, d := range opts.SkipDirs {
		skip[d] = true
	}

	// WalkDir does not follow a symlinked root.
	root, err := filepath.EvalSymlinks(root)
	if err != nil {
		return stats
	}

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && (strings.HasPrefix(d.Name(), ".") || skip[d.Name()]) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !exts.match(d.Name()) {
			return nil
		}
		lines, err := countLines(path)
		if err != nil {
			return nil
		}
		stats.Files++
		stats.Lines += lines
		if info, err := d.Info(); err == nil && info.ModTime().After(stats.LastModified) {
			stats.LastModified = info.ModTime()
		}
		return nil
	})
	return stats
}

// RootModTime returns the modification time of root itself, or the zero
// time if root cannot be stat'ed.
func RootModTime(root string) time.Time {
	info, err := os.Stat(root)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

type extensionSet map[string]bool

func newExtensionSet(exts []string) extensionSet {
	set := make(extensionSet, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			set[e] = true
		}
	}
	return set
}

func (s extensionSet) match(name string) bool {
	if len(s) == 0 {
		return true
	}
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	return ext != "" && s[strings.ToLower(ext)]
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	buf := make([]byte, 32*1024)
	n := 0
	for {
		c, err := f.Read(buf)
		n += bytes.Count(buf[:c], []byte{'\n'})
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return 0, err
		}
	}
}
