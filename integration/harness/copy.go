package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Fixture returns the path of a file under integration/fixtures.
func Fixture(t *testing.T, parts ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{RepoRoot(t), "integration", "fixtures"}, parts...)...)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("fixture %s: %v", path, err)
	}
	return path
}

// CopyFixture copies a fixture file into dir and returns the new path.
func CopyFixture(t *testing.T, dir string, parts ...string) string {
	t.Helper()
	src := Fixture(t, parts...)
	dst := filepath.Join(dir, filepath.Base(src))
	if err := copyFile(src, dst); err != nil {
		t.Fatalf("copy fixture %s to %s: %v", src, dst, err)
	}
	return dst
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("fixture is a directory: %s", src)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, info.Mode())
}
