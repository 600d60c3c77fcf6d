package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/willibrandon/gotctools/cmd/gotctools/output"
)

const (
	ibCompany = "Industrial Brains B.V."
	beckhoff  = "Beckhoff Automation GmbH"
)

func newTestConsole(verbosity output.Verbosity) (*output.Console, *bytes.Buffer) {
	var out bytes.Buffer
	c := output.NewConsole(&out, &out, verbosity)
	c.SetColors(false)
	return c, &out
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func plcproj(title, version string, refs ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?><Project><PropertyGroup>`)
	if title != "" {
		b.WriteString("<Title>" + title + "</Title><ProjectVersion>" + version + "</ProjectVersion><Company>" + ibCompany + "</Company>")
	}
	b.WriteString("</PropertyGroup><ItemGroup>")
	for _, r := range refs {
		b.WriteString(`<PlaceholderReference Include="x"><DefaultResolution>` + r + `</DefaultResolution></PlaceholderReference>`)
	}
	b.WriteString("</ItemGroup></Project>")
	return b.String()
}

// writeSolution creates <dir>/<name>.sln with one XAE project <name> holding
// one PLC project <name>.
func writeSolution(t *testing.T, dir, name, plcContent string) string {
	t.Helper()
	writeFile(t, filepath.Join(dir, name, "PLC", name+".plcproj"), plcContent)
	writeFile(t, filepath.Join(dir, name, name+".tsproj"),
		`<?xml version="1.0"?><TcSmProject><Project><Plc><Project PrjFilePath="PLC\`+name+`.plcproj"/></Plc></Project></TcSmProject>`)
	return writeFile(t, filepath.Join(dir, name+".sln"),
		"\nMicrosoft Visual Studio Solution File, Format Version 12.00\n"+
			`Project("{B1E792BE-AA5F-4E3C-8C82-674BF9C0715B}") = "`+name+`", "`+name+`\`+name+`.tsproj", "{11111111-1111-1111-1111-111111111111}"`+
			"\nEndProject\nGlobal\nEndGlobal\n")
}

// writeMultiSolution creates <dir>/<name>.sln with one XAE project <name>
// holding two PLC projects.
func writeMultiSolution(t *testing.T, dir, name, first, firstContent, second, secondContent string) string {
	t.Helper()
	writeFile(t, filepath.Join(dir, name, "PLC", first+".plcproj"), firstContent)
	writeFile(t, filepath.Join(dir, name, "PLC", second+".plcproj"), secondContent)
	writeFile(t, filepath.Join(dir, name, name+".tsproj"),
		`<?xml version="1.0"?><TcSmProject><Project><Plc>`+
			`<Project PrjFilePath="PLC\`+first+`.plcproj"/>`+
			`<Project PrjFilePath="PLC\`+second+`.plcproj"/>`+
			`</Plc></Project></TcSmProject>`)
	return writeFile(t, filepath.Join(dir, name+".sln"),
		"\nMicrosoft Visual Studio Solution File, Format Version 12.00\n"+
			`Project("{B1E792BE-AA5F-4E3C-8C82-674BF9C0715B}") = "`+name+`", "`+name+`\`+name+`.tsproj", "{11111111-1111-1111-1111-111111111111}"`+
			"\nEndProject\nGlobal\nEndGlobal\n")
}

func writeInstalledLibrary(t *testing.T, root, company, title, version string) {
	t.Helper()
	writeFile(t, filepath.Join(root, company, title, version, "browsercache"),
		`<?xml version="1.0" encoding="utf-8"?><BrowserCache Name="`+title+`, `+version+` (`+company+`)"/>`)
}

// testWorkspace lays out an application App that references LibA, which in
// turn references LibB. Tc2_Standard is installed in the repository.
type testWorkspace struct {
	dir        string
	app        string
	libs       string
	repository string
	configFile string
}

func newTestWorkspace(t *testing.T) *testWorkspace {
	t.Helper()
	dir := t.TempDir()
	ws := &testWorkspace{
		dir:        dir,
		libs:       filepath.Join(dir, "libs"),
		repository: filepath.Join(dir, "repo"),
		configFile: filepath.Join(dir, "gotctools.config"),
	}

	ws.app = writeSolution(t, filepath.Join(dir, "app"), "App",
		plcproj("", "", "LibA, * ("+ibCompany+")", "Tc2_Standard, * ("+beckhoff+")"))
	writeSolution(t, filepath.Join(ws.libs, "LibA"), "LibA",
		plcproj("LibA", "1.0.0.0", "LibB, * ("+ibCompany+")"))
	writeSolution(t, filepath.Join(ws.libs, "LibB"), "LibB",
		plcproj("LibB", "1.2.0.0"))
	writeInstalledLibrary(t, ws.repository, beckhoff, "Tc2_Standard", "3.3.3.0")

	return ws
}

func (w *testWorkspace) options() workspaceOptions {
	return workspaceOptions{
		configFile: w.configFile,
		libraries:  []string{w.libs},
		repository: w.repository,
	}
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}
