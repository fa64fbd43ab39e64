// Package sdist builds version-stamped source distribution archives.
package sdist

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/klauspost/compress/gzip"
)

// BuildInput describes a source distribution build.
type BuildInput struct {
	Package   string
	Version   string
	SourceDir string
	DistDir   string
	Include   []string
	Exclude   []string
}

// Archive describes a built source distribution.
type Archive struct {
	Path      string
	Size      int64
	FileCount int
}

type service struct{}

// Service is the interface for the source distribution builder.
type Service interface {
	Build(ctx context.Context, input BuildInput) (*Archive, error)
}

// NewService creates a new sdist service.
func NewService() Service {
	return &service{}
}

// ArchiveName returns the deterministic archive file name for a package
// and version.
func ArchiveName(pkg, version string) string {
	return fmt.Sprintf("%s-%s.tar.gz", pkg, version)
}

// Build collects the source files selected by the manifest rules and packs
// them into <dist-dir>/<package>-<version>.tar.gz. Entries are rooted under
// a <package>-<version>/ prefix and a generated PKG-INFO metadata file is
// added first.
func (s *service) Build(ctx context.Context, input BuildInput) (*Archive, error) {
	if input.Package == "" || input.Version == "" {
		return nil, fmt.Errorf("package and version are required")
	}
	if input.SourceDir == "" {
		input.SourceDir = "."
	}
	if input.DistDir == "" {
		input.DistDir = "dist"
	}

	files, err := collectFiles(input.SourceDir, input.DistDir, input.Include, input.Exclude)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no source files selected under %s", input.SourceDir)
	}
	sort.Strings(files)

	if err := os.MkdirAll(input.DistDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create dist dir: %w", err)
	}
	archivePath := filepath.Join(input.DistDir, ArchiveName(input.Package, input.Version))

	out, err := os.Create(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	prefix := fmt.Sprintf("%s-%s", input.Package, input.Version)
	now := time.Now().UTC()

	if err := writeMetadata(tw, prefix, input.Package, input.Version, now); err != nil {
		return nil, err
	}
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := addFile(tw, input.SourceDir, prefix, rel); err != nil {
			return nil, err
		}
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	info, err := os.Stat(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}
	return &Archive{Path: archivePath, Size: info.Size(), FileCount: len(files)}, nil
}

func writeMetadata(tw *tar.Writer, prefix, pkg, version string, when time.Time) error {
	body := fmt.Sprintf("Metadata-Version: 1.0\nName: %s\nVersion: %s\n", pkg, version)
	hdr := &tar.Header{
		Name:    prefix + "/PKG-INFO",
		Mode:    0o644,
		Size:    int64(len(body)),
		ModTime: when,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("failed to write PKG-INFO: %w", err)
	}
	if _, err := io.WriteString(tw, body); err != nil {
		return fmt.Errorf("failed to write PKG-INFO: %w", err)
	}
	return nil
}

func addFile(tw *tar.Writer, sourceDir, prefix, rel string) error {
	full := filepath.Join(sourceDir, rel)
	info, err := os.Stat(full)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", rel, err)
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("failed to build header for %s: %w", rel, err)
	}
	hdr.Name = prefix + "/" + filepath.ToSlash(rel)

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("failed to write header for %s: %w", rel, err)
	}
	f, err := os.Open(full)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", rel, err)
	}
	defer f.Close()
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("failed to archive %s: %w", rel, err)
	}
	return nil
}
