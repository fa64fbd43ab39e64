// Package version resolves the release version and stamps it into the
// version file consumed by the distribution builder.
package version

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// CITagEnv is the CI-provided tag used when no explicit version argument
// is supplied.
const CITagEnv = "CI_COMMIT_TAG"

// ErrNoVersionTag is returned when neither an argument nor a CI tag
// supplies the version.
var ErrNoVersionTag = errors.New("no version tag defined")

type service struct{}

// Service is the interface for version resolution and stamping.
type Service interface {
	Resolve(arg string) (string, error)
	Validate(version string) error
	Stamp(path, version string) error
}

// NewService creates a new version service.
func NewService() Service {
	return &service{}
}

// Resolve returns the release version. An explicit argument is
// authoritative; the CI tag environment variable is the fallback.
func (s *service) Resolve(arg string) (string, error) {
	v := strings.TrimSpace(arg)
	if v == "" {
		v = strings.TrimSpace(os.Getenv(CITagEnv))
	}
	if v == "" {
		return "", ErrNoVersionTag
	}
	if err := s.Validate(v); err != nil {
		return "", err
	}
	return v, nil
}

// Validate rejects version strings that cannot name a distribution file.
func (s *service) Validate(version string) error {
	if version == "" {
		return ErrNoVersionTag
	}
	if strings.ContainsAny(version, " \t\n/\\") {
		return fmt.Errorf("invalid version %q: must not contain whitespace or path separators", version)
	}
	if strings.HasPrefix(version, "-") || strings.HasPrefix(version, ".") {
		return fmt.Errorf("invalid version %q: must not start with %q", version, version[:1])
	}
	return nil
}

// Stamp overwrites the version file with the exact version string. The
// file holds nothing else: no trailing newline, no history.
func (s *service) Stamp(path, version string) error {
	if err := s.Validate(version); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(version), 0o644); err != nil {
		return fmt.Errorf("failed to write version file: %w", err)
	}
	return nil
}
