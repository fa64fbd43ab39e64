// Package tests contains unit tests for version resolution and stamping.
package tests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/surycat/pkgship/service/version"
)

// TestVersionResolve tests version resolution precedence
func TestVersionResolve(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		ciTag   string
		want    string
		wantErr error
	}{
		{
			name: "argument wins over ci tag",
			arg:  "1.2.3",
			ciTag: "9.9.9",
			want: "1.2.3",
		},
		{
			name:  "ci tag fallback",
			arg:   "",
			ciTag: "2.0.0",
			want:  "2.0.0",
		},
		{
			name:  "argument whitespace trimmed",
			arg:   "  1.0.0  ",
			ciTag: "",
			want:  "1.0.0",
		},
		{
			name:    "nothing defined",
			arg:     "",
			ciTag:   "",
			wantErr: version.ErrNoVersionTag,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(version.CITagEnv, tt.ciTag)
			svc := version.NewService()
			got, err := svc.Resolve(tt.arg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestVersionValidate tests rejection of versions that cannot name a file
func TestVersionValidate(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantErr bool
	}{
		{name: "plain semver", version: "1.2.3"},
		{name: "release candidate", version: "2.0.0rc1"},
		{name: "embedded space", version: "1.0 beta", wantErr: true},
		{name: "path separator", version: "1.0/evil", wantErr: true},
		{name: "leading dash", version: "-1.0", wantErr: true},
		{name: "leading dot", version: ".1.0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := version.NewService().Validate(tt.version)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestVersionStamp tests that the version file holds only the exact value
func TestVersionStamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "VERSION")
	svc := version.NewService()

	assert.NoError(t, svc.Stamp(path, "1.0.0"))
	assert.NoError(t, svc.Stamp(path, "2.0.0"))

	raw, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "2.0.0", string(raw))
}
