package batch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MeKo-Tech/dmscan/internal/utils"
)

// Discover lists the files directly inside dir whose name ends with ext
// (case-insensitive) and that match none of the exclude patterns. Symlinks
// count when they resolve to a regular file. The listing is not recursive
// and is sorted by name.
func Discover(dir, ext string, exclude []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot list %s: %w", dir, err)
	}
	if !utils.IsSupportedImage("image" + ext) {
		slog.Warn("Extension is not a supported image format, files will fail to load", "ext", ext)
	}

	ext = strings.ToLower(ext)
	var files []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ext) {
			continue
		}
		if matchesAnyPattern(name, exclude) {
			continue
		}
		path := filepath.Join(dir, name)
		if !isRegular(e, path) {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

// isRegular reports whether the entry is a regular file, following symlinks.
func isRegular(e os.DirEntry, path string) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// matchesAnyPattern checks if a file name matches any of the given glob patterns.
func matchesAnyPattern(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
