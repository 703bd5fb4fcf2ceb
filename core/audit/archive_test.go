package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mreg-cli/core/storage/mocks"
)

func writeTranscriptFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "subnets_import.log")
	content := "------ API REQUESTS START ------\n------ API REQUESTS END ------\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestArchiverUpload(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "mreg-audit").Return(true, nil)
	client.On("PutObject", mock.Anything, "mreg-audit", "imports/run-1.log",
		mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	archiver := NewArchiver(client, "mreg-audit", zap.NewNop())
	err := archiver.Upload(context.Background(), "run-1", writeTranscriptFile(t))

	require.NoError(t, err)
	client.AssertExpectations(t)
	client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func TestArchiverCreatesBucketOnFirstUse(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "mreg-audit").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "mreg-audit", mock.Anything).Return(nil)
	client.On("PutObject", mock.Anything, "mreg-audit", "imports/run-2.log",
		mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	archiver := NewArchiver(client, "mreg-audit", zap.NewNop())
	err := archiver.Upload(context.Background(), "run-2", writeTranscriptFile(t))

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestArchiverBucketCheckFails(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "mreg-audit").Return(false, assert.AnError)

	archiver := NewArchiver(client, "mreg-audit", zap.NewNop())
	err := archiver.Upload(context.Background(), "run-3", writeTranscriptFile(t))

	assert.ErrorContains(t, err, "checking bucket mreg-audit")
	client.AssertNotCalled(t, "PutObject",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestArchiverMissingTranscript(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "mreg-audit").Return(true, nil)

	archiver := NewArchiver(client, "mreg-audit", zap.NewNop())
	err := archiver.Upload(context.Background(), "run-4", filepath.Join(t.TempDir(), "absent.log"))

	assert.ErrorContains(t, err, "opening transcript for upload")
}
