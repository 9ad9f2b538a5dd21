package scan

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	write(t, root, "main.py", "a\nb\nc\n")
	write(t, root, "app/page.tsx", "x\ny\n")
	write(t, root, "app/deep/util.ts", "no trailing newline")
	write(t, root, "README.md", "ignored\nignored\n")
	write(t, root, ".git/hooks/pre-commit.py", "1\n2\n3\n4\n")
	write(t, root, "node_modules/lib/index.ts", "1\n2\n")
	write(t, root, "pkg/__pycache__/mod.py", "1\n")
	write(t, root, "UPPER.PY", "1\n")

	tests := []struct {
		name      string
		opts      Options
		wantFiles int
		wantLines int
	}{
		{
			name:      "source extensions",
			opts:      Options{Extensions: []string{"py", "ts", "tsx"}, SkipDirs: []string{"node_modules", "__pycache__"}},
			wantFiles: 4,
			wantLines: 6,
		},
		{
			name:      "dotted extensions",
			opts:      Options{Extensions: []string{".tsx"}, SkipDirs: []string{"node_modules"}},
			wantFiles: 1,
			wantLines: 2,
		},
		{
			name:      "no skip dirs still skips hidden",
			opts:      Options{Extensions: []string{"ts"}},
			wantFiles: 2,
			wantLines: 2,
		},
		{
			name:      "empty filter matches all",
			opts:      Options{SkipDirs: []string{"node_modules", "__pycache__"}},
			wantFiles: 5,
			wantLines: 8,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scan(root, tt.opts)
			if got.Files != tt.wantFiles || got.Lines != tt.wantLines {
				t.Errorf("Scan() = (%d, %d), want (%d, %d)", got.Files, got.Lines, tt.wantFiles, tt.wantLines)
			}
		})
	}
}

func TestScanMissingRoot(t *testing.T) {
	got := Scan(filepath.Join(t.TempDir(), "does-not-exist"), Options{Extensions: []string{"py"}})
	if got.Files != 0 || got.Lines != 0 || !got.LastModified.IsZero() {
		t.Errorf("Scan(missing) = %+v, want zero", got)
	}
}

func TestScanSymlinkedRoot(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real")
	write(t, target, "main.py", "a\nb\n")
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got := Scan(link, Options{Extensions: []string{"py"}})
	if got.Files != 1 || got.Lines != 2 {
		t.Errorf("Scan(link) = (%d, %d), want (1, 2)", got.Files, got.Lines)
	}
	if p := ExpectedProgress(link, []string{"main.py"}); p.Percent != 100 {
		t.Errorf("ExpectedProgress(link) = %d%%, want 100", p.Percent)
	}

	dangling := filepath.Join(dir, "dangling")
	if err := os.Symlink(filepath.Join(dir, "gone"), dangling); err != nil {
		t.Fatal(err)
	}
	if got := Scan(dangling, Options{}); got.Files != 0 || got.Lines != 0 {
		t.Errorf("Scan(dangling) = %+v, want zero", got)
	}
}

func TestScanSkipsUnreadable(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	write(t, root, "ok.py", "1\n")
	write(t, root, "locked/secret.py", "1\n2\n")
	write(t, root, "private.py", "1\n2\n3\n")
	if err := os.Chmod(filepath.Join(root, "locked"), 0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(filepath.Join(root, "locked"), 0755) })
	if err := os.Chmod(filepath.Join(root, "private.py"), 0); err != nil {
		t.Fatal(err)
	}

	got := Scan(root, Options{Extensions: []string{"py"}})
	if got.Files != 1 || got.Lines != 1 {
		t.Errorf("Scan() = (%d, %d), want (1, 1)", got.Files, got.Lines)
	}
}

func TestScanLastModified(t *testing.T) {
	root := t.TempDir()
	write(t, root, "old.py", "1\n")
	write(t, root, "new.py", "1\n")
	old := time.Now().Add(-2 * time.Hour)
	newer := time.Now().Add(-time.Minute).Truncate(time.Second)
	_ = os.Chtimes(filepath.Join(root, "old.py"), old, old)
	_ = os.Chtimes(filepath.Join(root, "new.py"), newer, newer)

	got := Scan(root, Options{Extensions: []string{"py"}})
	if !got.LastModified.Equal(newer) {
		t.Errorf("LastModified = %v, want %v", got.LastModified, newer)
	}
}

func TestRootModTime(t *testing.T) {
	root := t.TempDir()
	when := time.Now().Add(-10 * time.Minute).Truncate(time.Second)
	if err := os.Chtimes(root, when, when); err != nil {
		t.Fatal(err)
	}
	if got := RootModTime(root); !got.Equal(when) {
		t.Errorf("RootModTime = %v, want %v", got, when)
	}
	if got := RootModTime(filepath.Join(root, "missing")); !got.IsZero() {
		t.Errorf("RootModTime(missing) = %v, want zero", got)
	}
}
