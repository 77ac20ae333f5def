// Package assets loads the optional invoice logo, either from the local
// filesystem or from a Google Cloud Storage object.
package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"cloud.google.com/go/storage"
)

// LoadLogo reads the logo bytes from a local path or a gs:// URI. Callers
// treat a failed load as "no logo": the invoice is still rendered without it.
func LoadLogo(ctx context.Context, logoPath string) ([]byte, error) {
	if strings.HasPrefix(logoPath, "gs://") {
		return fetchFromGCS(ctx, logoPath)
	}

	data, err := os.ReadFile(logoPath)
	if err != nil {
		return nil, fmt.Errorf("LoadLogo: read %q: %w", logoPath, err)
	}
	return data, nil
}

// ImageType maps the file extension of a logo path onto the image-type label
// the PDF library expects. Unknown extensions default to PNG.
func ImageType(logoPath string) string {
	switch strings.ToLower(path.Ext(logoPath)) {
	case ".jpg", ".jpeg":
		return "JPG"
	case ".gif":
		return "GIF"
	default:
		return "PNG"
	}
}

// fetchFromGCS downloads the object bytes behind a gs://bucket/path URI.
// It assumes Application Default Credentials are configured.
func fetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	trimmed := strings.TrimPrefix(gcsURI, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("fetchFromGCS: invalid GCS URI (no object path): %s", gcsURI)
	}

	bucketName := parts[0]
	objectPath := parts[1]

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetchFromGCS: creating storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucketName).Object(objectPath).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetchFromGCS: reading object %s/%s: %w", bucketName, objectPath, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("fetchFromGCS: reading bytes: %w", err)
	}

	return data, nil
}
