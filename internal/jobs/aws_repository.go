package jobs

import (
	"context"

	"github.com/facefinder/facefinder-backend/internal/models"
)

// AWSRepository is the blob store gateway. Every upload gets a fresh
// unique key, so retries write new objects instead of colliding.
type AWSRepository interface {
	// PutObject writes the file and returns its durable retrieval URL.
	PutObject(ctx context.Context, input *models.UploadInput) (string, error)
}
