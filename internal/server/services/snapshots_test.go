package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianrazif/kanban-mono-repo/internal/common"
	"github.com/julianrazif/kanban-mono-repo/internal/server/config"
	"github.com/julianrazif/kanban-mono-repo/internal/server/models"
)

type stubDetailer struct {
	detail *models.BoardDetail
	err    error
}

func (s *stubDetailer) Detail(context.Context, int64) (*models.BoardDetail, error) {
	return s.detail, s.err
}

// withS3Stubs swaps the S3 seams for the duration of the test.
func withS3Stubs(t *testing.T, put func(*s3.PutObjectInput) error, presignErr error) *s3.Options {
	t.Helper()
	oldLoad, oldNew, oldPut, oldPresign := loadDefaultAWSConfig, newS3ClientFromConfig, putObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, putObject, presignGetObject = oldLoad, oldNew, oldPut, oldPresign
	})

	captured := &s3.Options{}
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{Region: "us-east-1"}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(captured)
		}
		return s3.NewFromConfig(cfg, optFns...)
	}
	putObject = func(_ *s3.Client, _ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		if err := put(in); err != nil {
			return nil, err
		}
		return &s3.PutObjectOutput{}, nil
	}
	presignGetObject = func(_ *s3.PresignClient, _ context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if presignErr != nil {
			return nil, presignErr
		}
		return &v4.PresignedHTTPRequest{URL: "https://s3.local/" + *in.Bucket + "/" + *in.Key}, nil
	}
	return captured
}

func snapshotConfig() *config.Config {
	return &config.Config{
		S3BaseEndpoint:  "http://localhost:9000",
		S3Region:        "us-east-1",
		S3Bucket:        "kanban",
		S3AccessKey:     "minio",
		S3SecretKey:     "minio123",
		S3PresignExpiry: 15 * time.Minute,
	}
}

func TestSnapshotKey(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^boards/7/[0-9a-f-]{36}\.json$`), SnapshotKey(7))
	assert.NotEqual(t, SnapshotKey(7), SnapshotKey(7))
}

func TestSnapshotService_Create(t *testing.T) {
	var uploaded map[string]any
	opts := withS3Stubs(t, func(in *s3.PutObjectInput) error {
		assert.Equal(t, "kanban", *in.Bucket)
		assert.Equal(t, "application/json", *in.ContentType)
		b, err := io.ReadAll(in.Body)
		require.NoError(t, err)
		return json.Unmarshal(b, &uploaded)
	}, nil)

	detail := &models.BoardDetail{
		Board:   models.Board{ID: 3, Name: "Main"},
		Columns: []models.ColumnDetail{{Column: models.Column{ID: 4, Name: "Todo", BoardID: 3}, Cards: []models.Card{}}},
	}
	s := NewSnapshotService(&stubDetailer{detail: detail}, snapshotConfig())

	snap, err := s.Create(context.Background(), 3)
	require.NoError(t, err)
	assert.Regexp(t, `^boards/3/`, snap.Key)
	assert.Equal(t, "https://s3.local/kanban/"+snap.Key, snap.URL)

	board := uploaded["board"].(map[string]any)
	assert.Equal(t, "Main", board["name"])
	assert.Len(t, board["columns"], 1)

	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://localhost:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestSnapshotService_Create_Disabled(t *testing.T) {
	cfg := snapshotConfig()
	cfg.S3Bucket = ""
	s := NewSnapshotService(&stubDetailer{}, cfg)

	_, err := s.Create(context.Background(), 1)
	assert.ErrorIs(t, err, common.ErrorUnavailable)
	assert.EqualError(t, err, "Snapshots are not configured")
}

func TestSnapshotService_Create_Errors(t *testing.T) {
	detail := &models.BoardDetail{Board: models.Board{ID: 1, Name: "x"}}

	t.Run("board not found", func(t *testing.T) {
		withS3Stubs(t, func(*s3.PutObjectInput) error { return nil }, nil)
		notFound := common.NewError(common.ErrorNotFound, "Board not found")
		s := NewSnapshotService(&stubDetailer{err: notFound}, snapshotConfig())
		_, err := s.Create(context.Background(), 1)
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("load config", func(t *testing.T) {
		withS3Stubs(t, func(*s3.PutObjectInput) error { return nil }, nil)
		loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
			return aws.Config{}, errors.New("no config")
		}
		s := NewSnapshotService(&stubDetailer{detail: detail}, snapshotConfig())
		_, err := s.Create(context.Background(), 1)
		assert.ErrorContains(t, err, "no config")
	})

	t.Run("upload", func(t *testing.T) {
		withS3Stubs(t, func(*s3.PutObjectInput) error { return errors.New("put failed") }, nil)
		s := NewSnapshotService(&stubDetailer{detail: detail}, snapshotConfig())
		_, err := s.Create(context.Background(), 1)
		assert.ErrorContains(t, err, "put failed")
	})

	t.Run("presign", func(t *testing.T) {
		withS3Stubs(t, func(*s3.PutObjectInput) error { return nil }, errors.New("presign failed"))
		s := NewSnapshotService(&stubDetailer{detail: detail}, snapshotConfig())
		_, err := s.Create(context.Background(), 1)
		assert.ErrorContains(t, err, "presign failed")
	})
}
