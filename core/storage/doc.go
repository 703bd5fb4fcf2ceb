// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client with the narrow interface the import
// transcript archive uses: check the bucket, create it on first use, upload
// one object per run. The abstraction supports both AWS S3 and self-hosted
// MinIO instances, and the interface keeps storage easy to mock in tests
// (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg)
//	exists, err := client.BucketExists(ctx, cfg.Bucket)
package storage
