package jobs

import (
	"context"

	"github.com/facefinder/facefinder-backend/internal/models"
	"github.com/google/uuid"
)

// RedisRepository reads the active status cache written by the detection
// backend while a job is in flight. The backend owns the writes; this
// side only reads entries and retires them once the result is durable.
type RedisRepository interface {
	// GetActiveStatus returns the cache entry for jobID, or nil when the
	// cache holds no record of the job.
	GetActiveStatus(ctx context.Context, jobID uuid.UUID) (*models.ActiveStatus, error)
	DeleteActiveStatus(ctx context.Context, jobID uuid.UUID) error
}
