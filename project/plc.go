package project

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/willibrandon/gotctools/library"
)

// PlcExtension is the file extension of PLC projects.
const PlcExtension = ".plcproj"

// PlcProject is a TwinCAT PLC project, the unit tcbuild compiles and
// installs as a library.
type PlcProject struct {
	path  string
	owner *XaeProject

	// Raw values read from the project file.
	resolutions []string
	title       *string
	version     *string
	company     *string

	loaded bool
	refs   []library.Reference
}

type placeholderReference struct {
	Include           string  `xml:"Include,attr"`
	DefaultResolution *string `xml:"DefaultResolution"`
}

// LoadPlcProject reads the PLC project at path. owner is the XAE project
// holding it and may be nil for a stand-alone project.
func LoadPlcProject(path string, owner *XaeProject) (*PlcProject, error) {
	abs, err := ResolvePath(path, PlcExtension)
	if err != nil {
		return nil, err
	}

	p := &PlcProject{path: abs, owner: owner}
	err = walkFile(abs, func(d *xml.Decoder, el xml.StartElement, ancestors []string) (bool, error) {
		switch {
		case el.Name.Local == "PlaceholderReference" && len(ancestors) > 0:
			var ph placeholderReference
			if err := d.DecodeElement(&ph, &el); err != nil {
				return true, err
			}
			if ph.DefaultResolution == nil {
				return true, fmt.Errorf("placeholder %q has no default resolution", ph.Include)
			}
			p.resolutions = append(p.resolutions, strings.TrimSpace(*ph.DefaultResolution))
			return true, nil

		case len(ancestors) == 2 && ancestors[1] == "PropertyGroup":
			var field **string
			switch el.Name.Local {
			case "Title":
				field = &p.title
			case "ProjectVersion":
				field = &p.version
			case "Company":
				field = &p.company
			default:
				return false, nil
			}
			if *field != nil {
				return false, nil
			}
			var text string
			if err := d.DecodeElement(&text, &el); err != nil {
				return true, err
			}
			*field = &text
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Path returns the absolute path of the project file.
func (p *PlcProject) Path() string {
	return p.path
}

// Name returns the project name tcbuild uses: the file name without extension.
func (p *PlcProject) Name() string {
	return Stem(p.path)
}

// XaeProject returns the XAE project holding p, or nil.
func (p *PlcProject) XaeProject() *XaeProject {
	return p.owner
}

// References returns the libraries the project depends on, de-duplicated
// by reference key in declaration order.
func (p *PlcProject) References() ([]library.Reference, error) {
	if p.loaded {
		return p.refs, nil
	}

	seen := make(map[string]bool, len(p.resolutions))
	refs := make([]library.Reference, 0, len(p.resolutions))
	for _, text := range p.resolutions {
		ref, err := library.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.path, err)
		}
		if seen[ref.Key()] {
			continue
		}
		seen[ref.Key()] = true
		refs = append(refs, ref)
	}

	p.refs = refs
	p.loaded = true
	return p.refs, nil
}

// AsReference returns the library this project is installed as. Projects
// without a title, company or valid version are not libraries.
func (p *PlcProject) AsReference() (library.Reference, bool) {
	if p.title == nil || p.version == nil || p.company == nil {
		return library.Reference{}, false
	}
	v := strings.TrimSpace(*p.version)
	if v == library.AnyVersion {
		return library.Reference{}, false
	}
	ref, err := library.New(strings.TrimSpace(*p.title), v, strings.TrimSpace(*p.company))
	if err != nil {
		return library.Reference{}, false
	}
	return ref, true
}

func (p *PlcProject) String() string {
	return p.path
}
