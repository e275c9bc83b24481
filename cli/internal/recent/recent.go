// ABOUTME: Remembers recently used project files across CLI runs
// ABOUTME: Stores absolute paths in the XDG config directory so --file can be omitted

package recent

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// MaxProjects is the maximum number of project files to keep
const MaxProjects = 5

// Projects manages the list of recently used project files
type Projects struct {
	configDir string
	files     []string
}

type recentData struct {
	Projects []string `json:"projects"`
}

// New creates a manager storing its list under configDir. An empty
// configDir disables persistence.
func New(configDir string) *Projects {
	return &Projects{configDir: configDir}
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "panel-planner")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "panel-planner")
}

func (p *Projects) configFile() string {
	return filepath.Join(p.configDir, "recent.json")
}

// Load reads the list from disk, dropping files that no longer exist
func (p *Projects) Load() ([]string, error) {
	p.files = []string{}
	if p.configDir == "" {
		return p.files, nil
	}

	data, err := os.ReadFile(p.configFile())
	if errors.Is(err, os.ErrNotExist) {
		return p.files, nil
	}
	if err != nil {
		return nil, err
	}

	var recent recentData
	if err := json.Unmarshal(data, &recent); err != nil {
		// Corrupt list, start fresh
		return p.files, nil
	}

	for _, path := range recent.Projects {
		if _, err := os.Stat(path); err == nil {
			p.files = append(p.files, path)
		}
	}
	return p.files, nil
}

func (p *Projects) save() error {
	if p.configDir == "" {
		return nil
	}
	if err := os.MkdirAll(p.configDir, 0o700); err != nil {
		return err
	}
	if len(p.files) > MaxProjects {
		p.files = p.files[:MaxProjects]
	}
	data, err := json.MarshalIndent(recentData{Projects: p.files}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.configFile(), data, 0o600)
}

// Remember moves path to the front of the list, storing it as an absolute path
func (p *Projects) Remember(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if p.files == nil {
		if _, err := p.Load(); err != nil {
			p.files = []string{}
		}
	}

	files := make([]string, 0, len(p.files)+1)
	files = append(files, abs)
	for _, f := range p.files {
		if f != abs {
			files = append(files, f)
		}
	}
	p.files = files
	return p.save()
}

// Latest returns the most recently used project file, if any
func (p *Projects) Latest() (string, bool) {
	if p.files == nil {
		if _, err := p.Load(); err != nil {
			return "", false
		}
	}
	if len(p.files) == 0 {
		return "", false
	}
	return p.files[0], true
}
