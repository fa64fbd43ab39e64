// Package config loads the project release configuration and writes the
// package index credentials file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the project file omits a setting.
const (
	DefaultVersionFile = "VERSION"
	DefaultDistDir     = "dist"
	DefaultSourceDir   = "."
	DefaultRepository  = "https://upload.pypi.org/legacy/"
)

var defaultConfigNames = []string{"pkgship.yaml", ".pkgship.yaml"}

// Project is the per-repository release configuration.
type Project struct {
	Package     string   `yaml:"package"`
	VersionFile string   `yaml:"version_file"`
	SourceDir   string   `yaml:"source_dir"`
	DistDir     string   `yaml:"dist_dir"`
	Repository  string   `yaml:"repository"`
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
}

type service struct{}

// Service is the interface for project configuration loading.
type Service interface {
	Load(path string) (*Project, error)
}

// NewService creates a new config service.
func NewService() Service {
	return &service{}
}

// Load reads the project configuration. When path is empty the default
// file names are probed in the working directory.
func (s *service) Load(path string) (*Project, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		for _, name := range defaultConfigNames {
			if _, err := os.Stat(name); err == nil {
				resolved = name
				break
			}
		}
	}
	if resolved == "" {
		return nil, fmt.Errorf("no project config found (tried %s)", strings.Join(defaultConfigNames, ", "))
	}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", resolved, err)
	}
	var project Project
	if err := yaml.Unmarshal(raw, &project); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", resolved, err)
	}
	project.applyDefaults()
	if err := project.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", resolved, err)
	}
	return &project, nil
}

func (p *Project) applyDefaults() {
	if p.VersionFile == "" {
		p.VersionFile = DefaultVersionFile
	}
	if p.SourceDir == "" {
		p.SourceDir = DefaultSourceDir
	}
	if p.DistDir == "" {
		p.DistDir = DefaultDistDir
	}
	if p.Repository == "" {
		p.Repository = DefaultRepository
	}
}

func (p *Project) validate() error {
	if strings.TrimSpace(p.Package) == "" {
		return fmt.Errorf("package name is required")
	}
	if strings.ContainsAny(p.Package, " \t/\\") {
		return fmt.Errorf("package name %q must not contain whitespace or path separators", p.Package)
	}
	return nil
}

// ExpandHome resolves a leading ~ in a filesystem path.
func ExpandHome(p string) (string, error) {
	if strings.HasPrefix(p, "~/") || p == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home dir: %w", err)
		}
		if p == "~" {
			return home, nil
		}
		return filepath.Join(home, p[2:]), nil
	}
	return filepath.Clean(p), nil
}
