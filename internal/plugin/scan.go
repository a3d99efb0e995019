package plugin

import (
	"io/fs"
	"iter"
)

// ScanFiles returns a lazy, restartable sequence of the files under fsys
// whose base name satisfies match, in filesystem traversal order. Paths
// are relative to the root of fsys. Directories that cannot be read are
// skipped; collection degrades rather than fails on unreadable trees.
func ScanFiles(fsys fs.FS, match func(name string) bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() || !match(d.Name()) {
				return nil
			}
			if !yield(path) {
				return fs.SkipAll
			}
			return nil
		})
	}
}
