package jobs

import (
	"context"

	"github.com/facefinder/facefinder-backend/internal/models"
	"github.com/facefinder/facefinder-backend/pkg/utils"
	"github.com/google/uuid"
)

// Repository is the durable job record store.
type Repository interface {
	CreateJob(ctx context.Context, job *models.Job) (*models.Job, error)
	GetJobByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
	GetJobsByUserID(ctx context.Context, userID uuid.UUID, pq *utils.Pagination) (*models.JobList, error)
	// UpdateJobStatus advances a job's status and result. Rows already in
	// a terminal state are left untouched; the stored row is returned.
	UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status models.JobStatus, appearances models.AppearanceList) (*models.Job, error)
}
