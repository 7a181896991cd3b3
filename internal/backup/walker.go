package backup

import (
	"io/fs"
	"path/filepath"
)

// WalkFunc is invoked once per regular file with its slash-separated path
// relative to the walk root.
type WalkFunc func(relPath string) error

// Walk enumerates every regular file under root in lexical order and invokes
// fn for each. Directories and non-regular files are excluded; symlinks are
// never followed, whether they point at files or directories, so cycles
// cannot occur and only real file content is backed up. Each call re-reads
// the tree from disk, so a walk can be repeated and observes the state at
// enumeration time.
func Walk(root string, fn WalkFunc) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return NewIOError("failed to enumerate source tree", err)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return NewIOError("failed to resolve relative path", err)
		}
		return fn(filepath.ToSlash(rel))
	})
}

// CountFiles returns the number of regular files under root. Strategies use
// it for progress totals before the copy pass.
func CountFiles(root string) (int, error) {
	count := 0
	err := Walk(root, func(string) error {
		count++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
