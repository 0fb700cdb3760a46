package fs

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"docseek/internal/domain"
	"docseek/internal/port"
)

type Walker struct {
	includes  []string
	excludes  []string
	recursive bool
}

func NewWalker(includes, excludes []string, recursive bool) *Walker {
	if len(includes) == 0 {
		includes = []string{"*"}
	}
	return &Walker{
		includes:  includes,
		excludes:  excludes,
		recursive: recursive,
	}
}

type FileInfo = port.FileInfo

// Walk lists the documents under root in lexical order. Sub-directories
// are only entered when the walker is recursive. Returned paths keep root
// as given, so a relative root yields relative document paths.
func (w *Walker) Walk(root string) ([]FileInfo, error) {
	var files []FileInfo

	given := root
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, domain.NewIOError("walk", given, err)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if path == root {
				return nil
			}
			if !w.recursive || w.shouldExclude(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if w.shouldInclude(relPath) && !w.shouldExclude(relPath) {
			info, err := d.Info()
			if err != nil {
				return err
			}
			files = append(files, FileInfo{
				Path:    filepath.Join(given, filepath.FromSlash(relPath)),
				ModTime: info.ModTime().Unix(),
				Size:    info.Size(),
			})
		}

		return nil
	})
	if err != nil {
		return nil, domain.NewIOError("walk", given, err)
	}

	return files, nil
}

// shouldInclude matches patterns without a slash against the base name so
// "*.xhtml" selects pages at any depth.
func (w *Walker) shouldInclude(relPath string) bool {
	return matchAny(w.includes, relPath)
}

func (w *Walker) shouldExclude(relPath string) bool {
	return matchAny(w.excludes, relPath)
}

func matchAny(patterns []string, relPath string) bool {
	base := relPath
	if i := strings.LastIndex(strings.TrimSuffix(relPath, "/"), "/"); i >= 0 {
		base = relPath[i+1:]
	}
	for _, pattern := range patterns {
		target := relPath
		if !strings.Contains(pattern, "/") {
			target = base
		}
		matched, err := doublestar.Match(pattern, target)
		if err == nil && matched {
			return true
		}
	}
	return false
}
