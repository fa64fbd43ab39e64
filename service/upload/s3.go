package upload

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Environment variables overriding the default AWS credential chain for
// s3:// repositories.
const (
	S3AccessKeyEnv = "PKGSHIP_S3_ACCESS_KEY"
	S3SecretKeyEnv = "PKGSHIP_S3_SECRET_KEY"
)

func (s *service) uploadS3(ctx context.Context, input Input) (*Result, error) {
	bucket, prefix, err := parseS3URL(input.Repository)
	if err != nil {
		return nil, err
	}

	var opts []func(*awsconfig.LoadOptions) error
	if access := os.Getenv(S3AccessKeyEnv); access != "" {
		secret := os.Getenv(S3SecretKeyEnv)
		if secret == "" {
			return nil, fmt.Errorf("%s is set but %s is empty", S3AccessKeyEnv, S3SecretKeyEnv)
		}
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(access, secret, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)

	f, err := os.Open(input.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}

	key := path.Join(prefix, filepath.Base(input.ArchivePath))
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String("application/gzip"),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 upload failed: %w", err)
	}
	return &Result{Destination: fmt.Sprintf("s3://%s/%s", bucket, key), Size: info.Size()}, nil
}

func parseS3URL(raw string) (bucket, prefix string, err error) {
	trimmed := strings.TrimPrefix(raw, "s3://")
	if trimmed == raw || trimmed == "" {
		return "", "", fmt.Errorf("invalid s3 repository %q", raw)
	}
	parts := strings.SplitN(trimmed, "/", 2)
	bucket = parts[0]
	if bucket == "" {
		return "", "", fmt.Errorf("invalid s3 repository %q: missing bucket", raw)
	}
	if len(parts) == 2 {
		prefix = strings.Trim(parts[1], "/")
	}
	return bucket, prefix, nil
}
