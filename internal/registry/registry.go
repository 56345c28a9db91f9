// Package registry manages the ordered list of monitored source directories.
//
// Each directory carries a visibility flag and a derived display name. The
// list is persisted as a YAML document alongside a sidebar-collapse flag for
// the UI; a corrupt or missing file silently falls back to an empty default
// so startup never fails on bad state.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DirectoryConfig describes a single monitored directory.
type DirectoryConfig struct {
	// Path is the directory's filesystem location.
	Path string `yaml:"path"`

	// Visible controls whether aggregation includes this directory.
	Visible bool `yaml:"visible"`

	// DisplayName is derived from the path, never user-entered. It is
	// recomputed whenever the directory set changes.
	DisplayName string `yaml:"display_name,omitempty"`
}

// SourceName returns the name that aggregation stamps on issues from this
// directory: the display name, or the path's base name if none is set.
func (d *DirectoryConfig) SourceName() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return filepath.Base(d.Path)
}

// Config is the persisted registry state.
type Config struct {
	Directories      []DirectoryConfig `yaml:"directories"`
	SidebarCollapsed bool              `yaml:"sidebar_collapsed"`
}

// ConfigPath returns the registry file location:
// <user config dir>/beadboard/config.yaml.
func ConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config directory: %w", err)
	}
	return filepath.Join(base, "beadboard", "config.yaml"), nil
}

// Load reads the registry from disk. Missing or corrupt state returns an
// empty default, never an error.
func Load() *Config {
	path, err := ConfigPath()
	if err != nil {
		return &Config{}
	}
	return LoadFrom(path)
}

// LoadFrom reads the registry from an explicit path with the same fallback
// behavior as Load.
func LoadFrom(path string) *Config {
	data, err := os.ReadFile(path) // #nosec G304 - controlled config path
	if err != nil {
		return &Config{}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return &Config{}
	}
	return &cfg
}

// Save writes the registry to its default location, creating the parent
// directory if needed.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the registry to an explicit path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Register adds a directory to the registry if its path is not already
// present, recomputing display names when the set changes. Returns true if
// the directory was added.
func (c *Config) Register(path string) bool {
	clean := filepath.Clean(path)
	for _, dir := range c.Directories {
		if filepath.Clean(dir.Path) == clean {
			return false
		}
	}

	c.Directories = append(c.Directories, DirectoryConfig{
		Path:    clean,
		Visible: true,
	})
	c.ComputeDisplayNames()
	return true
}

// SetVisible updates a directory's visibility flag. Returns true if the
// path was found.
func (c *Config) SetVisible(path string, visible bool) bool {
	clean := filepath.Clean(path)
	for i := range c.Directories {
		if filepath.Clean(c.Directories[i].Path) == clean {
			c.Directories[i].Visible = visible
			return true
		}
	}
	return false
}

// Visible returns the visible directories in registration order.
func (c *Config) Visible() []DirectoryConfig {
	var out []DirectoryConfig
	for _, dir := range c.Directories {
		if dir.Visible {
			out = append(out, dir)
		}
	}
	return out
}

// ComputeDisplayNames recomputes every directory's display name. Base names
// unique across the registry are used as-is; duplicates are disambiguated
// as "base (abbreviated path)".
func (c *Config) ComputeDisplayNames() {
	byBase := make(map[string][]int)
	for i, dir := range c.Directories {
		base := filepath.Base(dir.Path)
		byBase[base] = append(byBase[base], i)
	}

	for base, indices := range byBase {
		if len(indices) == 1 {
			c.Directories[indices[0]].DisplayName = base
			continue
		}
		for _, i := range indices {
			abbrev := AbbreviatePath(c.Directories[i].Path)
			c.Directories[i].DisplayName = fmt.Sprintf("%s (%s)", base, abbrev)
		}
	}
}

// AbbreviatePath replaces a home-directory prefix with "~".
func AbbreviatePath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if rest, ok := strings.CutPrefix(path, home+string(filepath.Separator)); ok {
		return "~" + string(filepath.Separator) + rest
	}
	return path
}

// EnsureWorkingDirectory registers the process's working directory if it is
// absent, persisting the updated registry. Save errors are ignored: the
// in-memory registry is still usable for this session.
func (c *Config) EnsureWorkingDirectory() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}
	if c.Register(cwd) {
		_ = c.Save()
	}
}
