// Package testutil holds fixtures shared by unit and integration tests.
package testutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// ProjectRoot walks up from this file to the directory holding go.mod and
// checks that it contains the dmscan command.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("failed to get caller information")
	}

	for dir := filepath.Dir(filename); ; {
		if FileExists(filepath.Join(dir, "go.mod")) {
			if info, err := os.Stat(filepath.Join(dir, "cmd", "dmscan")); err != nil || !info.IsDir() {
				return "", fmt.Errorf("invalid project root %s: cmd/dmscan not found", dir)
			}
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find go.mod above %s", filepath.Dir(filename))
		}
		dir = parent
	}
}

// CreateTempDir creates a temporary directory removed with the test.
func CreateTempDir(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o750)
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
