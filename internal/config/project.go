package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrProjectNotFound is returned when no project file exists. Callers can
// check for it with errors.Is(err, config.ErrProjectNotFound).
var ErrProjectNotFound = errors.New("project file not found")

// ProjectFileName is looked up in the CLI's working directory.
const ProjectFileName = "tmpdb.yaml"

// Project holds CLI defaults so teams can commit their local database
// setup next to the code.
type Project struct {
	URL           string `yaml:"url"`
	Template      string `yaml:"template,omitempty"`
	Guard         string `yaml:"guard,omitempty"`
	AdminDatabase string `yaml:"admin_database,omitempty"`
	TempDir       string `yaml:"temp_dir,omitempty"`
	MaxAttempts   int    `yaml:"max_attempts,omitempty"`
}

// LoadProject reads dir/tmpdb.yaml.
func LoadProject(dir string) (*Project, error) {
	data, err := os.ReadFile(filepath.Join(dir, ProjectFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
