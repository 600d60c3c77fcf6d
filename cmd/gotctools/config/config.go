// Package config implements gotctools.config loading and editing.
//
// The file is XML with key/value add elements:
//
//	<configuration>
//	  <librarySources>
//	    <add key="shared" value="..\libs" />
//	  </librarySources>
//	  <config>
//	    <add key="libraryRepository" value="C:\TwinCAT\3.1\Components\Plc\Managed Libraries" />
//	  </config>
//	</configuration>
package config

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Known keys of the config section.
const (
	KeyLibraryRepository = "libraryRepository"
	KeyTcBuildPath       = "tcbuildPath"
	KeyTrace             = "trace"
	KeyOTLPEndpoint      = "otlpEndpoint"
)

// KnownKeys lists the keys accepted by config set.
var KnownKeys = []string{KeyLibraryRepository, KeyTcBuildPath, KeyTrace, KeyOTLPEndpoint}

// IsKnownKey reports whether key is a valid config key (case-insensitive).
func IsKnownKey(key string) bool {
	for _, k := range KnownKeys {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

// Config represents a gotctools.config file
type Config struct {
	XMLName        xml.Name        `xml:"configuration"`
	LibrarySources *LibrarySources `xml:"librarySources"`
	Config         *Section        `xml:"config"`
}

// LibrarySources lists directories holding library solutions
type LibrarySources struct {
	Clear bool            `xml:"clear,omitempty"`
	Add   []LibrarySource `xml:"add"`
}

// LibrarySource is a named directory searched for library solutions
type LibrarySource struct {
	Key     string `xml:"key,attr"`
	Value   string `xml:"value,attr"`
	Enabled string `xml:"enabled,attr,omitempty"`
}

// IsEnabled reports whether the source is used. Sources are enabled unless
// marked enabled="false".
func (s LibrarySource) IsEnabled() bool {
	return !strings.EqualFold(s.Enabled, "false")
}

// Section contains configuration settings
type Section struct {
	Add []Item `xml:"add"`
}

// Item represents a configuration key-value pair
type Item struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

// NewConfig creates an empty config
func NewConfig() *Config {
	return &Config{
		LibrarySources: &LibrarySources{},
		Config:         &Section{},
	}
}

// LoadConfig loads a gotctools.config file
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseConfig(f)
}

// ParseConfig parses gotctools.config XML from a reader
func ParseConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := xml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config XML: %w", err)
	}
	return &cfg, nil
}

// SaveConfig writes cfg to path, creating the directory if needed
func SaveConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return WriteConfig(f, cfg)
}

// WriteConfig writes gotctools.config XML to a writer
func WriteConfig(w io.Writer, cfg *Config) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config XML: %w", err)
	}
	if err := encoder.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// GetConfigValue gets a configuration value by key (case-insensitive)
func (c *Config) GetConfigValue(key string) string {
	if c.Config == nil {
		return ""
	}
	for _, item := range c.Config.Add {
		if strings.EqualFold(item.Key, key) {
			return item.Value
		}
	}
	return ""
}

// SetConfigValue sets a configuration value
func (c *Config) SetConfigValue(key, value string) {
	if c.Config == nil {
		c.Config = &Section{}
	}
	for i := range c.Config.Add {
		if strings.EqualFold(c.Config.Add[i].Key, key) {
			c.Config.Add[i].Value = value
			return
		}
	}
	c.Config.Add = append(c.Config.Add, Item{Key: key, Value: value})
}

// DeleteConfigValue removes a configuration value, reporting whether it existed
func (c *Config) DeleteConfigValue(key string) bool {
	if c.Config == nil {
		return false
	}
	for i := range c.Config.Add {
		if strings.EqualFold(c.Config.Add[i].Key, key) {
			c.Config.Add = append(c.Config.Add[:i], c.Config.Add[i+1:]...)
			return true
		}
	}
	return false
}

// GetLibrarySource gets a library source by key
func (c *Config) GetLibrarySource(key string) *LibrarySource {
	if c.LibrarySources == nil {
		return nil
	}
	for i := range c.LibrarySources.Add {
		if strings.EqualFold(c.LibrarySources.Add[i].Key, key) {
			return &c.LibrarySources.Add[i]
		}
	}
	return nil
}

// AddLibrarySource adds or updates a library source
func (c *Config) AddLibrarySource(source LibrarySource) {
	if c.LibrarySources == nil {
		c.LibrarySources = &LibrarySources{}
	}
	if existing := c.GetLibrarySource(source.Key); existing != nil {
		*existing = source
		return
	}
	c.LibrarySources.Add = append(c.LibrarySources.Add, source)
}

// RemoveLibrarySource removes a library source by key
func (c *Config) RemoveLibrarySource(key string) bool {
	if c.LibrarySources == nil {
		return false
	}
	for i := range c.LibrarySources.Add {
		if strings.EqualFold(c.LibrarySources.Add[i].Key, key) {
			c.LibrarySources.Add = append(c.LibrarySources.Add[:i], c.LibrarySources.Add[i+1:]...)
			return true
		}
	}
	return false
}

// EnabledLibraryDirs returns the directories of all enabled library sources.
// Relative values are resolved against baseDir, the directory of the config
// file they were read from.
func (c *Config) EnabledLibraryDirs(baseDir string) []string {
	if c.LibrarySources == nil {
		return nil
	}
	var dirs []string
	for _, s := range c.LibrarySources.Add {
		if !s.IsEnabled() || s.Value == "" {
			continue
		}
		dirs = append(dirs, ResolveValuePath(baseDir, s.Value))
	}
	return dirs
}

// ResolveValuePath resolves a path stored in a config file. Windows
// separators are accepted on every platform.
func ResolveValuePath(baseDir, value string) string {
	p := filepath.FromSlash(strings.ReplaceAll(value, `\`, "/"))
	if filepath.IsAbs(p) || isWindowsAbs(value) || baseDir == "" {
		if isWindowsAbs(value) {
			return value
		}
		return p
	}
	return filepath.Join(baseDir, p)
}

// isWindowsAbs matches drive-letter paths like C:\TwinCAT on any OS.
func isWindowsAbs(p string) bool {
	return len(p) >= 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/') &&
		((p[0] >= 'A' && p[0] <= 'Z') || (p[0] >= 'a' && p[0] <= 'z'))
}
