package solution

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/willibrandon/gotctools/project"
)

// IsSolutionFile checks if a file path has a solution file extension
func IsSolutionFile(path string) bool {
	return path != "" && strings.EqualFold(filepath.Ext(path), Extension)
}

// IsXaeProjectFile checks if a file path has an XAE project extension
func IsXaeProjectFile(path string) bool {
	if path == "" {
		return false
	}
	ext := filepath.Ext(path)
	return strings.EqualFold(ext, project.XaeExtension) || strings.EqualFold(ext, project.XaeSeparateExtension)
}

// skipDir reports whether a directory is never searched for solutions.
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "bin" || name == "obj" || name == "_Boot"
}

// FindAll returns the absolute paths of all solution files below dir,
// sorted. Hidden and build output directories are skipped.
func FindAll(dir string) ([]string, error) {
	root, err := project.ResolvePath(dir, project.Directory)
	if err != nil {
		return nil, err
	}

	var found []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSolutionFile(path) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error searching for solution files: %w", err)
	}

	sort.Strings(found)
	return found, nil
}

// LoadAll loads every solution below dir.
func LoadAll(dir string) ([]*Solution, error) {
	paths, err := FindAll(dir)
	if err != nil {
		return nil, err
	}

	solutions := make([]*Solution, 0, len(paths))
	for _, p := range paths {
		s, err := Load(p)
		if err != nil {
			return nil, err
		}
		solutions = append(solutions, s)
	}
	return solutions, nil
}
