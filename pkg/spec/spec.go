package spec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/errors"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/layout"
)

// ProjectFiles are the file names LoadProject looks for, in order.
var ProjectFiles = []string{"plant.yaml", "plant.yml", "plant.toml"}

// Load reads a plant spec from a YAML or TOML file, chosen by extension.
func Load(path string) (*PlantSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "spec file %s", path)
		}
		return nil, fmt.Errorf("reading spec file: %w", err)
	}

	s := &PlantSpec{Generation: layout.DefaultConfig()}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "parsing spec TOML")
		}
	default:
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "parsing spec YAML")
		}
	}
	s.Dir = filepath.Dir(path)
	return s, nil
}

// LoadProject loads the first project file found in projectDir.
func LoadProject(projectDir string) (*PlantSpec, error) {
	for _, name := range ProjectFiles {
		p := filepath.Join(projectDir, name)
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return nil, errors.New(errors.ErrCodeFileNotFound,
		"no project file (%s) in %s", strings.Join(ProjectFiles, ", "), projectDir)
}

// ResolvePath returns p relative to the project file's directory unless it is absolute.
func (s *PlantSpec) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Dir, p)
}
