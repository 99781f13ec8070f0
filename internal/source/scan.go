package source

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// extRank orders the extensions accepted by Scan. When several files share
// a stem in the same directory, the lowest rank wins: vector first, then
// lossless, then lossy.
var extRank = map[string]int{
	".svg":  0,
	".png":  1,
	".webp": 2,
	".tga":  3,
	".jpg":  4,
	".jpeg": 4,
}

// Scan walks dir and returns the paths of every supported source image,
// sorted. Files that share a directory and a case-insensitive stem are
// collapsed into the best-ranked one.
func Scan(dir string) ([]string, error) {
	best := make(map[string]string) // dir + lower(stem) → path

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		rank, ok := extRank[ext]
		if !ok {
			return nil
		}
		key := filepath.Join(filepath.Dir(path), strings.ToLower(strings.TrimSuffix(d.Name(), filepath.Ext(path))))

		existing, exists := best[key]
		if !exists || rank < extRank[strings.ToLower(filepath.Ext(existing))] {
			best[key] = path
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(best))
	for _, p := range best {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

// IsDir reports whether path names an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Stem returns the file name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
