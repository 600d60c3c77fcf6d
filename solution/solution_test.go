package solution

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/gotctools/project"
)

const slnHeader = "\nMicrosoft Visual Studio Solution File, Format Version 12.00\n# Visual Studio Version 16\n"

func slnWith(lines ...string) string {
	return slnHeader + strings.Join(lines, "\n") + "\nGlobal\nEndGlobal\n"
}

func xaeLine(name, rel string) string {
	return `Project("{B1E792BE-AA5F-4E3C-8C82-674BF9C0715B}") = "` + name + `", "` + rel + `", "{11111111-1111-1111-1111-111111111111}"` + "\nEndProject"
}

func plcproj(title, version string, refs ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?><Project><PropertyGroup>`)
	if title != "" {
		b.WriteString("<Title>" + title + "</Title><ProjectVersion>" + version + "</ProjectVersion><Company>Industrial Brains B.V.</Company>")
	}
	b.WriteString("</PropertyGroup><ItemGroup>")
	for _, r := range refs {
		b.WriteString(`<PlaceholderReference Include="x"><DefaultResolution>` + r + `</DefaultResolution></PlaceholderReference>`)
	}
	b.WriteString("</ItemGroup></Project>")
	return b.String()
}

func tsproj(plcPaths ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><TcSmProject><Project><Plc>`)
	for _, p := range plcPaths {
		b.WriteString(`<Project PrjFilePath="` + p + `"/>`)
	}
	b.WriteString("</Plc></Project></TcSmProject>")
	return b.String()
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeApp creates a solution with one XAE project holding an application
// PLC project and a library PLC project.
func writeApp(t *testing.T, dir string) string {
	t.Helper()
	writeFile(t, filepath.Join(dir, "App", "PLC", "PLC.plcproj"),
		plcproj("", "", "LibA, * (Industrial Brains B.V.)", "Tc2_Standard, * (Beckhoff Automation GmbH)"))
	writeFile(t, filepath.Join(dir, "App", "Helpers", "Helpers.plcproj"),
		plcproj("Helpers", "1.0.0.0", "Tc2_Standard, * (Beckhoff Automation GmbH)"))
	writeFile(t, filepath.Join(dir, "App", "App.tsproj"), tsproj(`PLC\PLC.plcproj`, `Helpers\Helpers.plcproj`))
	return writeFile(t, filepath.Join(dir, "App.sln"), slnWith(
		xaeLine("App", `App\App.tsproj`),
		`Project("{2150E333-8FDC-42A3-9474-1A3956D46DE8}") = "Docs", "Docs", "{33333333-3333-3333-3333-333333333333}"`,
		"EndProject",
	))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	slnPath := writeApp(t, dir)

	s, err := Load(slnPath)
	require.NoError(t, err)
	assert.Equal(t, "App", s.Name())
	assert.Equal(t, []string{filepath.Join(dir, "App", "App.tsproj")}, s.ProjectPaths())

	xaes, err := s.XaeProjects()
	require.NoError(t, err)
	require.Len(t, xaes, 1)
	assert.Equal(t, s, xaes[0].Owner())

	subs, err := s.SubProjects()
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "App", subs[0].Name())

	plcs, err := s.PlcProjects()
	require.NoError(t, err)
	assert.Len(t, plcs, 2)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "Missing.sln"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	tsprojPath := writeFile(t, filepath.Join(dir, "App.tsproj"), tsproj())
	_, err = Load(tsprojPath)
	assert.ErrorIs(t, err, project.ErrUnexpectedType)
	var pathErr *project.PathError
	assert.ErrorAs(t, err, &pathErr)
}

func TestSolution_MissingXaeProject(t *testing.T) {
	dir := t.TempDir()
	slnPath := writeFile(t, filepath.Join(dir, "Broken.sln"), slnWith(xaeLine("Gone", `Gone\Gone.tsproj`)))

	s, err := Load(slnPath)
	require.NoError(t, err, "projects are loaded lazily")

	_, err = s.SubProjects()
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSolution_LibraryReferences(t *testing.T) {
	s, err := Load(writeApp(t, t.TempDir()))
	require.NoError(t, err)

	refs, err := s.LibraryReferences()
	require.NoError(t, err)

	keys := make([]string, len(refs))
	for i, r := range refs {
		keys[i] = r.Key()
	}
	assert.Equal(t, []string{
		"LibA, * (Industrial Brains B.V.)",
		"Tc2_Standard, * (Beckhoff Automation GmbH)",
	}, keys)
}

func TestParseProjectPaths(t *testing.T) {
	content := "\xef\xbb\xbf" + slnWith(
		xaeLine("A", `A\A.tsproj`),
		xaeLine("B", `B\B.tspproj`),
		`Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "Tool", "Tool\Tool.csproj", "{44444444-4444-4444-4444-444444444444}"`,
		"EndProject",
	)

	paths, err := ParseProjectPaths(strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, []string{`A\A.tsproj`, `B\B.tspproj`}, paths)
}

func TestFindAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b", "B.sln"), slnWith())
	writeFile(t, filepath.Join(dir, "a", "nested", "A.sln"), slnWith())
	writeFile(t, filepath.Join(dir, ".git", "Hidden.sln"), slnWith())
	writeFile(t, filepath.Join(dir, "a", "bin", "Output.sln"), slnWith())
	writeFile(t, filepath.Join(dir, "a", "readme.txt"), "")

	found, err := FindAll(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a", "nested", "A.sln"),
		filepath.Join(dir, "b", "B.sln"),
	}, found)

	solutions, err := LoadAll(dir)
	require.NoError(t, err)
	assert.Len(t, solutions, 2)

	_, err = FindAll(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFileKinds(t *testing.T) {
	tests := []struct {
		path     string
		solution bool
		xae      bool
	}{
		{"App.sln", true, false},
		{"App.SLN", true, false},
		{"App.tsproj", false, true},
		{"App.tspproj", false, true},
		{"App.plcproj", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.solution, IsSolutionFile(tt.path))
			assert.Equal(t, tt.xae, IsXaeProjectFile(tt.path))
		})
	}
}
