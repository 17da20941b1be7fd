package jobs

import (
	"context"

	"github.com/facefinder/facefinder-backend/internal/models"
	"github.com/facefinder/facefinder-backend/pkg/utils"
	"github.com/google/uuid"
)

// UseCase is the job lifecycle coordinator.
type UseCase interface {
	// CreateJob persists a queued job for the calling user and hands it
	// off to the detection backend without blocking on acceptance.
	CreateJob(ctx context.Context, input *models.JobCreateInput) (*models.Job, error)
	// GetJob returns the reconciled view of one job, scoped to the caller.
	GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
	// ListJobs returns the caller's jobs newest-first, reconciling only
	// those still in flight.
	ListJobs(ctx context.Context, pq *utils.Pagination) (*models.JobList, error)
	// UploadFile writes one file to the blob store and returns its URL.
	UploadFile(ctx context.Context, input *models.UploadInput) (string, error)
}
