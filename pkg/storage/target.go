package storage

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
)

// Target is a resolved output destination.
type Target struct {
	Store BlobStore
	Key   string
	// URI is the destination as the user wrote it, for logs and summaries.
	URI string
}

// ResolveTarget maps an output location to a store and key.
// "s3://bucket/path/file.png" uploads with the default AWS credential chain;
// anything else is a local path.
func ResolveTarget(ctx context.Context, output string) (Target, error) {
	if !strings.HasPrefix(output, "s3://") {
		return Target{
			Store: NewLocalStore(filepath.Dir(output)),
			Key:   filepath.Base(output),
			URI:   output,
		}, nil
	}

	u, err := url.Parse(output)
	if err != nil {
		return Target{}, fmt.Errorf("invalid s3 url: %w", err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return Target{}, fmt.Errorf("invalid s3 url %q: want s3://bucket/key", output)
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return Target{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return Target{
		Store: NewS3Store(cfg, u.Host),
		Key:   key,
		URI:   output,
	}, nil
}
