package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/facefinder/facefinder-backend/internal/config"
	"github.com/facefinder/facefinder-backend/internal/jobs"
	"github.com/facefinder/facefinder-backend/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type awsRepository struct {
	client *s3.Client
	cfg    *config.S3Config
}

func NewAwsRepository(client *s3.Client, cfg *config.S3Config) jobs.AWSRepository {
	return &awsRepository{
		client: client,
		cfg:    cfg,
	}
}

func (a *awsRepository) PutObject(ctx context.Context, input *models.UploadInput) (string, error) {
	bucket := input.BucketName
	if bucket == "" {
		bucket = a.cfg.UploadBucket
	}
	key := input.Key
	if key == "" {
		// Fresh key per upload: retries create new objects, never collide.
		key = fmt.Sprintf("uploads/%s-%s", uuid.New().String(), sanitizeName(input.Name))
	}

	putInput := &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &input.MimeType,
		Body:        input.File,
	}
	if input.Size > 0 {
		putInput.ContentLength = &input.Size
	}
	if _, err := a.client.PutObject(ctx, putInput); err != nil {
		return "", errors.Wrap(err, "failed to upload file")
	}
	return a.objectURL(bucket, key), nil
}

// objectURL builds the durable path-style retrieval URL for an object.
func (a *awsRepository) objectURL(bucket, key string) string {
	base := a.cfg.PublicURL
	if base == "" {
		base = a.cfg.Endpoint
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), bucket, key)
}

func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	return strings.ReplaceAll(name, " ", "_")
}
