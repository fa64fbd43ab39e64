package upload

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/surycat/pkgship/service/config"
)

func writeArchive(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("gzip-bytes"), 0o644); err != nil {
		t.Fatalf("write archive failed: %v", err)
	}
	return path
}

func TestUploadIndexMultipart(t *testing.T) {
	archive := writeArchive(t, "tukio-1.2.3.tar.gz")

	var gotUser, gotPass, gotAction, gotName, gotVersion, gotFilename string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm failed: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		gotAction = r.FormValue(":action")
		gotName = r.FormValue("name")
		gotVersion = r.FormValue("version")
		file, header, err := r.FormFile("content")
		if err != nil {
			t.Errorf("FormFile failed: %v", err)
			http.Error(w, "no file", http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotFilename = header.Filename
		gotBody, _ = io.ReadAll(file)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewServiceWithClient(srv.Client())
	result, err := svc.Upload(context.Background(), Input{
		ArchivePath: archive,
		Package:     "tukio",
		Version:     "1.2.3",
		Repository:  srv.URL,
		Credentials: &config.Credentials{Username: "alice", Password: "s3cret"},
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if gotUser != "alice" || gotPass != "s3cret" {
		t.Fatalf("unexpected basic auth: %s/%s", gotUser, gotPass)
	}
	if gotAction != "file_upload" {
		t.Fatalf("unexpected action: %q", gotAction)
	}
	if gotName != "tukio" || gotVersion != "1.2.3" {
		t.Fatalf("unexpected metadata: %s %s", gotName, gotVersion)
	}
	if gotFilename != "tukio-1.2.3.tar.gz" {
		t.Fatalf("unexpected upload filename: %q", gotFilename)
	}
	if string(gotBody) != "gzip-bytes" {
		t.Fatalf("unexpected file body: %q", gotBody)
	}
	if result.Destination != srv.URL || result.Size != int64(len("gzip-bytes")) {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestUploadWithoutCredentials(t *testing.T) {
	archive := writeArchive(t, "pkg-1.0.tar.gz")
	var hadAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, hadAuth = r.BasicAuth()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	svc := NewServiceWithClient(srv.Client())
	if _, err := svc.Upload(context.Background(), Input{
		ArchivePath: archive,
		Package:     "pkg",
		Version:     "1.0",
		Repository:  srv.URL,
	}); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if hadAuth {
		t.Fatal("expected no auth header without credentials")
	}
}

func TestUploadIndexRejection(t *testing.T) {
	archive := writeArchive(t, "pkg-1.0.tar.gz")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid credentials", http.StatusForbidden)
	}))
	defer srv.Close()

	svc := NewServiceWithClient(srv.Client())
	_, err := svc.Upload(context.Background(), Input{
		ArchivePath: archive,
		Package:     "pkg",
		Version:     "1.0",
		Repository:  srv.URL,
	})
	if err == nil {
		t.Fatal("expected rejection error")
	}
}

func TestUploadMissingArchive(t *testing.T) {
	svc := NewService()
	_, err := svc.Upload(context.Background(), Input{
		ArchivePath: filepath.Join(t.TempDir(), "absent.tar.gz"),
		Package:     "pkg",
		Version:     "1.0",
		Repository:  "https://example.com/upload/",
	})
	if err == nil {
		t.Fatal("expected error for missing archive")
	}
}

func TestParseS3URL(t *testing.T) {
	tests := []struct {
		raw            string
		bucket, prefix string
		wantErr        bool
	}{
		{raw: "s3://releases/packages", bucket: "releases", prefix: "packages"},
		{raw: "s3://releases", bucket: "releases"},
		{raw: "s3://releases/a/b/", bucket: "releases", prefix: "a/b"},
		{raw: "https://example.com", wantErr: true},
		{raw: "s3://", wantErr: true},
	}
	for _, tt := range tests {
		bucket, prefix, err := parseS3URL(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseS3URL(%q) failed: %v", tt.raw, err)
		}
		if bucket != tt.bucket || prefix != tt.prefix {
			t.Fatalf("parseS3URL(%q) = %q/%q", tt.raw, bucket, prefix)
		}
	}
}
