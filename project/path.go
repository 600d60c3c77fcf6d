package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnexpectedType is returned when a path exists but is not of an allowed type.
var ErrUnexpectedType = errors.New("unexpected path type")

// Directory can be passed to ResolvePath to accept directories.
const Directory = ""

// PathError describes a project path that does not exist or has the wrong type.
type PathError struct {
	Path    string
	Allowed []string
	Err     error
}

func (e *PathError) Error() string {
	if errors.Is(e.Err, ErrUnexpectedType) {
		types := make([]string, len(e.Allowed))
		for i, t := range e.Allowed {
			if t == Directory {
				types[i] = "Directory"
			} else {
				types[i] = fmt.Sprintf("%q", t)
			}
		}
		return fmt.Sprintf("'%s' does not match expected type: %s", e.Path, strings.Join(types, ", "))
	}
	if errors.Is(e.Err, fs.ErrNotExist) {
		return fmt.Sprintf("'%s' does not exist", e.Path)
	}
	return fmt.Sprintf("'%s': %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// ResolvePath returns the absolute, cleaned form of path after checking that
// it exists and carries one of the allowed extensions. Directory accepts a
// directory; with no allowed types any regular file is accepted.
func ResolvePath(path string, allowed ...string) (string, error) {
	abs, err := filepath.Abs(NormalizePath(path))
	if err != nil {
		return "", &PathError{Path: path, Allowed: allowed, Err: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", &PathError{Path: abs, Allowed: allowed, Err: err}
	}

	if len(allowed) == 0 {
		if info.Mode().IsRegular() {
			return abs, nil
		}
		return "", &PathError{Path: abs, Allowed: allowed, Err: ErrUnexpectedType}
	}

	ext := filepath.Ext(abs)
	for _, t := range allowed {
		if t == Directory && info.IsDir() {
			return abs, nil
		}
		if t != Directory && !info.IsDir() && strings.EqualFold(ext, t) {
			return abs, nil
		}
	}
	return "", &PathError{Path: abs, Allowed: allowed, Err: ErrUnexpectedType}
}

// NormalizePath converts the Windows separators used inside TwinCAT project
// files to the separator of the current OS.
func NormalizePath(path string) string {
	if path == "" {
		return ""
	}
	return filepath.FromSlash(strings.ReplaceAll(path, `\`, "/"))
}

// Join resolves a project-relative path found in a project file against dir.
func Join(dir, rel string) string {
	rel = NormalizePath(rel)
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(dir, rel)
}

// Stem returns the file name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
