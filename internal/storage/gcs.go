package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSStore keeps upload artifacts in a Cloud Storage bucket, for deployments
// where uploads should survive process restarts. Object layout:
// uploads/<kind>/<upload_id>.csv
type GCSStore struct {
	client *gcs.Client
	bucket string
}

// NewGCSStore creates a bucket-backed upload store. credentialsFile is
// optional; when empty, Application Default Credentials are used.
func NewGCSStore(ctx context.Context, bucket, credentialsFile string) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("NewGCSStore: bucket is required")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewGCSStore: create storage client: %w", err)
	}

	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) objectName(kind Kind, uploadID string) string {
	return fmt.Sprintf("uploads/%s/%s.csv", kind, uploadID)
}

// Put writes the bytes to the bucket.
func (s *GCSStore) Put(ctx context.Context, kind Kind, uploadID string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(s.objectName(kind, uploadID)).NewWriter(ctx)
	w.ContentType = "text/csv"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("GCSStore.Put: write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("GCSStore.Put: finalize upload: %w", err)
	}
	return nil
}

// Get reads the bytes back from the bucket.
func (s *GCSStore) Get(ctx context.Context, kind Kind, uploadID string) ([]byte, error) {
	rc, err := s.client.Bucket(s.bucket).Object(s.objectName(kind, uploadID)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GCSStore.Get: open reader: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("GCSStore.Get: read object: %w", err)
	}
	return data, nil
}

// Latest scans the kind's prefix and returns the most recently updated object.
func (s *GCSStore) Latest(ctx context.Context, kind Kind) (string, []byte, error) {
	prefix := fmt.Sprintf("uploads/%s/", kind)
	it := s.client.Bucket(s.bucket).Objects(ctx, &gcs.Query{Prefix: prefix})

	var (
		newestName string
		newestAt   time.Time
	)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("GCSStore.Latest: list objects: %w", err)
		}
		if newestName == "" || attrs.Updated.After(newestAt) {
			newestName = attrs.Name
			newestAt = attrs.Updated
		}
	}
	if newestName == "" {
		return "", nil, ErrNotFound
	}

	// uploads/<kind>/<upload_id>.csv → <upload_id>
	uploadID := newestName[len(prefix):]
	if len(uploadID) > 4 && uploadID[len(uploadID)-4:] == ".csv" {
		uploadID = uploadID[:len(uploadID)-4]
	}

	data, err := s.Get(ctx, kind, uploadID)
	if err != nil {
		return "", nil, err
	}
	return uploadID, data, nil
}

var _ UploadStore = (*GCSStore)(nil)
