// Package repository reads the TwinCAT library repository: the directory
// tree where installed PLC libraries live, one directory per library
// version, each described by a browsercache file.
package repository

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/net/html/charset"

	"github.com/willibrandon/gotctools/library"
	"github.com/willibrandon/gotctools/observability"
)

// DefaultPath is the library repository of a default TwinCAT 3.1 installation.
const DefaultPath = `C:\TwinCAT\3.1\Components\Plc\Managed Libraries`

// BrowserCacheFile names the file describing an installed library.
const BrowserCacheFile = "browsercache"

// PathNotFoundError is returned when the repository root does not exist.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("Path '%s' does not exist!", e.Path)
}

// Is reports true for fs.ErrNotExist.
func (e *PathNotFoundError) Is(target error) bool {
	return target == fs.ErrNotExist
}

// InvalidLibraryError is returned for a browsercache file that cannot be read
// as a library reference.
type InvalidLibraryError struct {
	Path string
	Err  error
}

func (e *InvalidLibraryError) Error() string {
	return fmt.Sprintf("Invalid browsercache file: %q: %v", e.Path, e.Err)
}

func (e *InvalidLibraryError) Unwrap() error {
	return e.Err
}

// Library is an installed, pre-built library.
type Library struct {
	// Dir is the library directory holding the browsercache file.
	Dir string

	ref library.Reference
}

// Reference returns the library reference read from the browsercache file.
func (l *Library) Reference() library.Reference {
	return l.ref
}

func (l *Library) String() string {
	return l.ref.String()
}

// Open reads the installed library in dir.
func Open(dir string) (*Library, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("'%s' is not a directory", dir)
	}

	cache := filepath.Join(dir, BrowserCacheFile)
	if _, err := os.Stat(cache); err != nil {
		return nil, fmt.Errorf("missing browsercache file in directory '%s': %w", dir, err)
	}

	name, err := readName(cache)
	if err != nil {
		return nil, &InvalidLibraryError{Path: cache, Err: err}
	}
	ref, err := library.Parse(name)
	if err != nil {
		return nil, &InvalidLibraryError{Path: cache, Err: err}
	}
	return &Library{Dir: dir, ref: ref}, nil
}

// readName returns the Name attribute of the document element.
func readName(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	d := xml.NewDecoder(f)
	d.CharsetReader = charset.NewReaderLabel
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return "", errors.New("no document element")
		}
		if err != nil {
			return "", err
		}
		if el, ok := tok.(xml.StartElement); ok {
			for _, a := range el.Attr {
				if a.Name.Local == "Name" {
					return a.Value, nil
				}
			}
			return "", fmt.Errorf("element <%s> has no Name attribute", el.Name.Local)
		}
	}
}

// Scan returns every library below root, sorted by reference key.
func Scan(ctx context.Context, root string) (libs []*Library, err error) {
	ctx, span := observability.StartRepositoryScanSpan(ctx, root)
	defer func() { observability.EndSpanWithError(span, err) }()

	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &PathNotFoundError{Path: root}
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &PathNotFoundError{Path: root}
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || d.Name() != BrowserCacheFile {
			return nil
		}
		lib, err := Open(filepath.Dir(path))
		if err != nil {
			return err
		}
		libs = append(libs, lib)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(libs, func(i, j int) bool { return libs[i].ref.Key() < libs[j].ref.Key() })
	observability.RepositoryLibraries.Set(float64(len(libs)))
	return libs, nil
}
