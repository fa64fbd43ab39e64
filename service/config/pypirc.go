package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
)

// Environment variables supplying the package index credentials.
const (
	UsernameEnv = "PKGSHIP_USERNAME"
	PasswordEnv = "PKGSHIP_PASSWORD"
)

const pypircName = ".pypirc"

// Credentials holds the package index account used for uploads.
type Credentials struct {
	Username string
	Password string
}

// CredentialsFromEnv reads the index credentials from the environment.
// When only the username is set and stdin is a terminal, the password is
// prompted. Returns nil when no credentials are available.
func CredentialsFromEnv() (*Credentials, error) {
	username := strings.TrimSpace(os.Getenv(UsernameEnv))
	if username == "" {
		return nil, nil
	}
	password := os.Getenv(PasswordEnv)
	if password == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, fmt.Errorf("%s is set but %s is empty", UsernameEnv, PasswordEnv)
		}
		fmt.Fprintf(os.Stderr, "Password for %s: ", username)
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
		password = string(raw)
	}
	return &Credentials{Username: username, Password: password}, nil
}

// WritePypirc writes the credentials file expected by the packaging tools
// to the given directory (the user's home directory when dir is empty).
// The file is overwritten on every call.
func WritePypirc(dir, repository string, creds *Credentials) (string, error) {
	if creds == nil {
		return "", fmt.Errorf("no credentials to write")
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home dir: %w", err)
		}
		dir = home
	}
	path := filepath.Join(dir, pypircName)

	// The .pypirc format is a fixed two-section INI; rendered inline
	// rather than pulling in an INI encoder.
	var b strings.Builder
	b.WriteString("[distutils]\n")
	b.WriteString("index-servers =\n")
	b.WriteString("    pkgship\n")
	b.WriteString("\n")
	b.WriteString("[pkgship]\n")
	fmt.Fprintf(&b, "repository = %s\n", repository)
	fmt.Fprintf(&b, "username = %s\n", creds.Username)
	fmt.Fprintf(&b, "password = %s\n", creds.Password)

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
