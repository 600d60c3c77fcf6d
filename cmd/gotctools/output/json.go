package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/willibrandon/gotctools/observability"
)

// Format selects how structured command output is rendered
type Format string

// Supported output formats
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a --format value (case-insensitive)
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("invalid format %q: must be text, json or yaml", s)
}

// CurrentSchemaVersion is the schema version for all structured outputs
const CurrentSchemaVersion = "1.0.0"

// BuildStep is one entry of a build order
type BuildStep struct {
	Index   int    `json:"index" yaml:"index"`
	Kind    string `json:"kind" yaml:"kind"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	Library string `json:"library,omitempty" yaml:"library,omitempty"`
}

// OrderOutput represents the structured output of the order command
type OrderOutput struct {
	SchemaVersion string      `json:"schemaVersion" yaml:"schemaVersion"`
	SessionID     string      `json:"sessionId" yaml:"sessionId"`
	Solution      string      `json:"solution" yaml:"solution"`
	Steps         []BuildStep `json:"steps" yaml:"steps"`
	Missing       []string    `json:"missing" yaml:"missing"`
	ElapsedMs     int64       `json:"elapsedMs" yaml:"elapsedMs"`
}

// TreeNode is one node of a rendered dependency tree
type TreeNode struct {
	Kind     string      `json:"kind" yaml:"kind"`
	Name     string      `json:"name" yaml:"name"`
	Children []*TreeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// TreeOutput represents the structured output of the tree command
type TreeOutput struct {
	SchemaVersion string    `json:"schemaVersion" yaml:"schemaVersion"`
	SessionID     string    `json:"sessionId" yaml:"sessionId"`
	Root          *TreeNode `json:"root" yaml:"root"`
	Missing       []string  `json:"missing" yaml:"missing"`
	ElapsedMs     int64     `json:"elapsedMs" yaml:"elapsedMs"`
}

// LibraryEntry is a library installed in the library repository
type LibraryEntry struct {
	Title   string `json:"title" yaml:"title"`
	Version string `json:"version" yaml:"version"`
	Company string `json:"company" yaml:"company"`
	Path    string `json:"path" yaml:"path"`
}

// LibraryListOutput represents the structured output of the libraries command
type LibraryListOutput struct {
	SchemaVersion string         `json:"schemaVersion" yaml:"schemaVersion"`
	Repository    string         `json:"repository" yaml:"repository"`
	Libraries     []LibraryEntry `json:"libraries" yaml:"libraries"`
	ElapsedMs     int64          `json:"elapsedMs" yaml:"elapsedMs"`
}

// DoctorCheck is the named result of one environment check
type DoctorCheck struct {
	Name    string                     `json:"name" yaml:"name"`
	Status  observability.HealthStatus `json:"status" yaml:"status"`
	Message string                     `json:"message,omitempty" yaml:"message,omitempty"`
	Details map[string]string          `json:"details,omitempty" yaml:"details,omitempty"`
}

// DoctorOutput represents the structured output of the doctor command
type DoctorOutput struct {
	SchemaVersion string                     `json:"schemaVersion" yaml:"schemaVersion"`
	Status        observability.HealthStatus `json:"status" yaml:"status"`
	Checks        []DoctorCheck              `json:"checks" yaml:"checks"`
}

// SourceEntry is a configured library source
type SourceEntry struct {
	Name    string `json:"name" yaml:"name"`
	Path    string `json:"path" yaml:"path"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

// SourceListOutput represents the structured output of the source list command
type SourceListOutput struct {
	SchemaVersion string        `json:"schemaVersion" yaml:"schemaVersion"`
	ConfigFile    string        `json:"configFile" yaml:"configFile"`
	Sources       []SourceEntry `json:"sources" yaml:"sources"`
}

// NewOrderOutput creates an OrderOutput with schema version and empty lists
func NewOrderOutput(sessionID, solution string, start time.Time) *OrderOutput {
	return &OrderOutput{
		SchemaVersion: CurrentSchemaVersion,
		SessionID:     sessionID,
		Solution:      solution,
		Steps:         []BuildStep{},
		Missing:       []string{},
		ElapsedMs:     MeasureElapsed(start),
	}
}

// NewTreeOutput creates a TreeOutput with schema version
func NewTreeOutput(sessionID string, root *TreeNode, start time.Time) *TreeOutput {
	return &TreeOutput{
		SchemaVersion: CurrentSchemaVersion,
		SessionID:     sessionID,
		Root:          root,
		Missing:       []string{},
		ElapsedMs:     MeasureElapsed(start),
	}
}

// NewLibraryListOutput creates a LibraryListOutput with schema version
func NewLibraryListOutput(repository string, start time.Time) *LibraryListOutput {
	return &LibraryListOutput{
		SchemaVersion: CurrentSchemaVersion,
		Repository:    repository,
		Libraries:     []LibraryEntry{},
		ElapsedMs:     MeasureElapsed(start),
	}
}

// WriteJSON writes a JSON object to the specified writer (typically stdout)
// When --format json is used, ALL JSON goes to stdout and ALL messages go to stderr
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// WriteYAML writes v as a YAML document
func WriteYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

// WriteStructured writes v in the given structured format
func WriteStructured(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, v)
	case FormatYAML:
		return WriteYAML(w, v)
	}
	return fmt.Errorf("format %q is not a structured format", format)
}

// MeasureElapsed returns elapsed time in milliseconds since start
func MeasureElapsed(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
