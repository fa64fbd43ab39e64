// Package upload publishes a built source distribution to a package index
// or an S3-backed artifact repository.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/surycat/pkgship/service/config"
)

// Input describes a single archive upload.
type Input struct {
	ArchivePath string
	Package     string
	Version     string
	Repository  string
	Credentials *config.Credentials
}

// Result describes a completed upload.
type Result struct {
	Destination string
	Size        int64
}

type service struct {
	client *http.Client
}

// Service is the interface for the archive uploader.
type Service interface {
	Upload(ctx context.Context, input Input) (*Result, error)
}

// NewService creates a new upload service.
func NewService() Service {
	return &service{client: &http.Client{Timeout: 5 * time.Minute}}
}

// NewServiceWithClient creates an upload service with a custom HTTP client.
func NewServiceWithClient(client *http.Client) Service {
	return &service{client: client}
}

// Upload publishes the archive. Repositories with an s3:// scheme go to S3;
// everything else is a multipart POST to the index upload endpoint.
// Index failures are not retried or translated; the status and response
// body propagate as the error.
func (s *service) Upload(ctx context.Context, input Input) (*Result, error) {
	if input.ArchivePath == "" {
		return nil, fmt.Errorf("archive path is required")
	}
	if input.Repository == "" {
		return nil, fmt.Errorf("repository is required")
	}
	if strings.HasPrefix(input.Repository, "s3://") {
		return s.uploadS3(ctx, input)
	}
	return s.uploadIndex(ctx, input)
}

func (s *service) uploadIndex(ctx context.Context, input Input) (*Result, error) {
	f, err := os.Open(input.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fields := map[string]string{
		":action":          "file_upload",
		"protocol_version": "1",
		"name":             input.Package,
		"version":          input.Version,
		"filetype":         "sdist",
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to encode form field %s: %w", k, err)
		}
	}
	part, err := w.CreateFormFile("content", filepath.Base(input.ArchivePath))
	if err != nil {
		return nil, fmt.Errorf("failed to encode archive: %w", err)
	}
	size, err := io.Copy(part, f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode archive: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, input.Repository, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if input.Credentials != nil {
		req.SetBasicAuth(input.Credentials.Username, input.Credentials.Password)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("index rejected upload: %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}
	return &Result{Destination: input.Repository, Size: size}, nil
}
