package artifact

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bibbank/bib/services/churn-service/internal/domain/port"
)

// NewStore returns the store for source. "s3://bucket/prefix" selects S3;
// "file:///dir" or a plain directory path selects the local file system.
func NewStore(source string, s3cfg S3Config) (port.ArtifactStore, error) {
	if source == "" {
		return nil, fmt.Errorf("artifact source is required")
	}
	if !strings.Contains(source, "://") {
		return NewFileStore(source), nil
	}

	u, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("invalid artifact source %q: %w", source, err)
	}
	switch u.Scheme {
	case "file":
		if u.Path == "" {
			return nil, fmt.Errorf("artifact source %q has no path", source)
		}
		return NewFileStore(u.Path), nil
	case "s3":
		if u.Host == "" {
			return nil, fmt.Errorf("artifact source %q has no bucket", source)
		}
		return NewS3Store(NewS3Client(s3cfg), u.Host, strings.Trim(u.Path, "/")), nil
	default:
		return nil, fmt.Errorf("unsupported artifact source scheme %q", u.Scheme)
	}
}
