// Package solution reads TwinCAT XAE Shell solution files (.sln) and the
// XAE projects they list.
package solution

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/willibrandon/gotctools/dependency"
	"github.com/willibrandon/gotctools/library"
	"github.com/willibrandon/gotctools/project"
)

// Extension is the solution file extension.
const Extension = ".sln"

// projectLine matches a solution entry pointing at an XAE project, e.g.
// Project("{B1E792BE-AA5F-4E3C-8C82-674BF9C0715B}") = "App", "App\App.tsproj", "{...}"
var projectLine = regexp.MustCompile(`^Project\("\{.*?\}"\).*?,\s"(.+tsp{1,2}roj)"`)

// Solution is a TwinCAT solution.
type Solution struct {
	path         string
	projectPaths []string

	loaded   bool
	projects []*project.XaeProject
}

// Load reads the solution at path. XAE projects are loaded on first use.
func Load(path string) (*Solution, error) {
	abs, err := project.ResolvePath(path, Extension)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	rel, err := ParseProjectPaths(f)
	if err != nil {
		return nil, fmt.Errorf("read solution %s: %w", abs, err)
	}

	dir := filepath.Dir(abs)
	s := &Solution{path: abs}
	for _, r := range rel {
		s.projectPaths = append(s.projectPaths, project.Join(dir, r))
	}
	return s, nil
}

// ParseProjectPaths returns the XAE project paths listed in a solution, as
// written in the file.
func ParseProjectPaths(r io.Reader) ([]string, error) {
	var paths []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for scanner.Scan() {
		line := scanner.Bytes()
		if first {
			line = bytes.TrimPrefix(line, []byte("\xef\xbb\xbf"))
			first = false
		}
		if m := projectLine.FindSubmatch(line); m != nil {
			paths = append(paths, string(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}

// Path returns the absolute path of the solution file.
func (s *Solution) Path() string {
	return s.path
}

// Name returns the solution file name without extension.
func (s *Solution) Name() string {
	return project.Stem(s.path)
}

// ProjectPaths returns the absolute paths of the XAE projects in the solution.
func (s *Solution) ProjectPaths() []string {
	return s.projectPaths
}

// XaeProjects loads the XAE projects of the solution, sorted by path and
// de-duplicated.
func (s *Solution) XaeProjects() ([]*project.XaeProject, error) {
	if s.loaded {
		return s.projects, nil
	}

	seen := make(map[string]bool, len(s.projectPaths))
	var projects []*project.XaeProject
	for _, p := range s.projectPaths {
		p = filepath.Clean(p)
		if seen[p] {
			continue
		}
		seen[p] = true

		x, err := project.LoadXaeProject(p, s)
		if err != nil {
			return nil, fmt.Errorf("load XAE project of %s: %w", s.path, err)
		}
		projects = append(projects, x)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Path() < projects[j].Path() })

	s.projects = projects
	s.loaded = true
	return s.projects, nil
}

// SubProjects returns the XAE projects as dependency sub-projects.
func (s *Solution) SubProjects() ([]dependency.SubProject, error) {
	projects, err := s.XaeProjects()
	if err != nil {
		return nil, err
	}
	out := make([]dependency.SubProject, len(projects))
	for i, p := range projects {
		out[i] = p
	}
	return out, nil
}

// PlcProjects returns the PLC projects of every XAE project in the solution.
func (s *Solution) PlcProjects() ([]*project.PlcProject, error) {
	projects, err := s.XaeProjects()
	if err != nil {
		return nil, err
	}
	var out []*project.PlcProject
	for _, x := range projects {
		plcs, err := x.PlcProjects()
		if err != nil {
			return nil, err
		}
		out = append(out, plcs...)
	}
	return out, nil
}

// LibraryReferences returns every library referenced by any PLC project in
// the solution, de-duplicated and sorted by key.
func (s *Solution) LibraryReferences() ([]library.Reference, error) {
	plcs, err := s.PlcProjects()
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]library.Reference)
	for _, p := range plcs {
		refs, err := p.References()
		if err != nil {
			return nil, err
		}
		for _, r := range refs {
			byKey[r.Key()] = r
		}
	}

	out := make([]library.Reference, 0, len(byKey))
	for _, r := range byKey {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out, nil
}

func (s *Solution) String() string {
	return s.path
}
