package jobs

import (
	"context"

	"github.com/facefinder/facefinder-backend/internal/models"
	"github.com/google/uuid"
)

// DispatchInput carries one job handoff to the detection backend. The
// media files are spooled to local paths first so the dispatch can run
// after the originating request has completed.
type DispatchInput struct {
	JobID     uuid.UUID
	UserID    uuid.UUID
	VideoPath string
	VideoName string
	VideoURL  string
	FacePath  string
	FaceName  string
	FaceURL   string
}

// DetectRepository is the client for the external face-detection backend.
type DetectRepository interface {
	// Dispatch submits a job for processing. The call is synchronous but
	// only covers acceptance; processing itself is asynchronous.
	Dispatch(ctx context.Context, input *DispatchInput) error
	// GetJobStatus queries the backend's own status endpoint. A nil
	// result means the backend has no record of the job.
	GetJobStatus(ctx context.Context, jobID uuid.UUID) (*models.ActiveStatus, error)
}
