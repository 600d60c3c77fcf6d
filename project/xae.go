// Package project loads TwinCAT XAE projects (.tsproj, .tspproj) and the
// PLC projects (.plcproj) they contain.
package project

import (
	"encoding/xml"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/willibrandon/gotctools/dependency"
)

// XAE project file extensions.
const (
	XaeExtension         = ".tsproj"
	XaeSeparateExtension = ".tspproj"
)

// Owner is the solution an XAE project belongs to.
type Owner interface {
	Path() string
}

// plcEntry is one Plc/Project element of an XAE project.
type plcEntry struct {
	prjFilePath string
	file        string
}

// XaeProject is a TwinCAT XAE project: the system configuration holding one
// or more PLC projects.
type XaeProject struct {
	path    string
	owner   Owner
	entries []plcEntry

	loaded bool
	units  []*PlcProject
}

// LoadXaeProject reads the XAE project at path. owner may be nil.
func LoadXaeProject(path string, owner Owner) (*XaeProject, error) {
	abs, err := ResolvePath(path, XaeExtension, XaeSeparateExtension)
	if err != nil {
		return nil, err
	}

	x := &XaeProject{path: abs, owner: owner}
	err = walkFile(abs, func(_ *xml.Decoder, el xml.StartElement, ancestors []string) (bool, error) {
		if el.Name.Local != "Project" || !parentIs(ancestors, "Plc") {
			return false, nil
		}
		var entry plcEntry
		if v, ok := attr(el, "PrjFilePath"); ok {
			entry.prjFilePath = v
		} else if v, ok := attr(el, "File"); ok {
			entry.file = v
		} else {
			return false, nil
		}
		x.entries = append(x.entries, entry)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return x, nil
}

// Path returns the absolute path of the project file.
func (x *XaeProject) Path() string {
	return x.path
}

// Name returns the project name tcbuild uses: the file name without extension.
func (x *XaeProject) Name() string {
	return Stem(x.path)
}

// Owner returns the solution holding x, or nil.
func (x *XaeProject) Owner() Owner {
	return x.owner
}

// PlcProjects returns the PLC projects of x sorted by path. Projects stored
// in an independent project file are read from _Config/PLC.
func (x *XaeProject) PlcProjects() ([]*PlcProject, error) {
	if x.loaded {
		return x.units, nil
	}

	dir := filepath.Dir(x.path)
	seen := make(map[string]bool)
	var units []*PlcProject
	for _, entry := range x.entries {
		var plcPath string
		if entry.prjFilePath != "" {
			plcPath = Join(dir, entry.prjFilePath)
		} else {
			p, err := x.independentProject(Join(filepath.Join(dir, "_Config", "PLC"), entry.file))
			if err != nil {
				return nil, err
			}
			plcPath = p
		}

		plcPath = filepath.Clean(plcPath)
		if seen[plcPath] {
			continue
		}
		seen[plcPath] = true

		unit, err := LoadPlcProject(plcPath, x)
		if err != nil {
			return nil, fmt.Errorf("load PLC project of %s: %w", x.path, err)
		}
		units = append(units, unit)
	}

	sort.Slice(units, func(i, j int) bool { return units[i].Path() < units[j].Path() })
	x.units = units
	x.loaded = true
	return x.units, nil
}

// independentProject reads the PLC project path from an .xti file. The path
// inside is relative to the directory of the .xti file.
func (x *XaeProject) independentProject(xti string) (string, error) {
	if _, err := ResolvePath(xti); err != nil {
		return "", fmt.Errorf("missing independent project file %s: %w", xti, fs.ErrNotExist)
	}

	var prjFilePath string
	found := false
	err := walkFile(xti, func(_ *xml.Decoder, el xml.StartElement, ancestors []string) (bool, error) {
		if el.Name.Local != "Project" || len(ancestors) == 0 {
			return false, nil
		}
		prjFilePath, found = attr(el, "PrjFilePath")
		return false, errStop
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("independent project file %s has no PrjFilePath", xti)
	}
	return Join(filepath.Dir(xti), prjFilePath), nil
}

// BuildUnits returns the PLC projects as dependency build units.
func (x *XaeProject) BuildUnits() ([]dependency.BuildUnit, error) {
	units, err := x.PlcProjects()
	if err != nil {
		return nil, err
	}
	out := make([]dependency.BuildUnit, len(units))
	for i, u := range units {
		out[i] = u
	}
	return out, nil
}

func (x *XaeProject) String() string {
	return x.path
}
