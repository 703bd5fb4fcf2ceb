package audit

import (
	"context"
	"fmt"
	"os"

	"mreg-cli/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Archiver uploads finished transcripts to object storage so import runs
// stay reviewable after the local file is overwritten by the next run.
type Archiver struct {
	client storage.Client
	bucket string
	log    *zap.Logger
}

// NewArchiver creates an Archiver writing to the given bucket.
func NewArchiver(client storage.Client, bucket string, log *zap.Logger) *Archiver {
	return &Archiver{client: client, bucket: bucket, log: log}
}

// Upload stores the transcript at path under the run's id. The bucket is
// created on first use.
func (a *Archiver) Upload(ctx context.Context, runID, path string) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", a.bucket, err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("creating bucket %s: %w", a.bucket, err)
		}
		a.log.Info("created transcript archive bucket", zap.String("bucket", a.bucket))
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening transcript for upload: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat transcript: %w", err)
	}

	object := "imports/" + runID + ".log"
	_, err = a.client.PutObject(ctx, a.bucket, object, f, stat.Size(), minio.PutObjectOptions{
		ContentType: "text/plain",
	})
	if err != nil {
		return fmt.Errorf("uploading transcript: %w", err)
	}

	a.log.Info("archived import transcript",
		zap.String("bucket", a.bucket),
		zap.String("object", object))
	return nil
}
