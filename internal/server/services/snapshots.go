package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/julianrazif/kanban-mono-repo/internal/common"
	"github.com/julianrazif/kanban-mono-repo/internal/server/config"
	"github.com/julianrazif/kanban-mono-repo/internal/server/models"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// BoardDetailer loads a board with its columns and cards.
type BoardDetailer interface {
	Detail(ctx context.Context, id int64) (*models.BoardDetail, error)
}

// Snapshot locates an archived board document.
type Snapshot struct {
	Key string
	URL string
}

// SnapshotService archives board documents to S3 compatible storage.
type SnapshotService struct {
	boards BoardDetailer
	config *config.Config
}

func NewSnapshotService(boards BoardDetailer, cfg *config.Config) *SnapshotService {
	return &SnapshotService{boards: boards, config: cfg}
}

// SnapshotKey returns a fresh object key for boardID.
func SnapshotKey(boardID int64) string {
	return fmt.Sprintf("boards/%d/%s.json", boardID, uuid.New())
}

func (s *SnapshotService) client(ctx context.Context) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(s.config.S3Region)}
	if s.config.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading s3 config: %w", err)
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Create uploads the current board document and returns its key with a
// presigned download URL.
func (s *SnapshotService) Create(ctx context.Context, boardID int64) (*Snapshot, error) {
	if !s.config.SnapshotsEnabled() {
		return nil, common.NewError(common.ErrorUnavailable, "Snapshots are not configured")
	}

	detail, err := s.boards.Detail(ctx, boardID)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(map[string]any{"board": detail})
	if err != nil {
		return nil, fmt.Errorf("error encoding snapshot: %w", err)
	}

	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := SnapshotKey(boardID)

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return nil, fmt.Errorf("error uploading snapshot: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.S3PresignExpiry))
	if err != nil {
		return nil, fmt.Errorf("error presigning snapshot: %w", err)
	}

	return &Snapshot{Key: key, URL: req.URL}, nil
}
