package usecase

import (
	"testing"

	"github.com/facefinder/facefinder-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile(t *testing.T) {
	jobID := uuid.New()
	durableAppearances := models.AppearanceList{{Start: 1, End: 2}}
	cacheAppearances := models.AppearanceList{{Start: 1, End: 2}, {Start: 5, End: 6}}

	cases := []struct {
		name            string
		jobStatus       models.JobStatus
		active          *models.ActiveStatus
		wantStatus      models.JobStatus
		wantAppearances models.AppearanceList
	}{
		{
			name:            "no cache entry keeps durable view",
			jobStatus:       models.JobStatusQueued,
			active:          nil,
			wantStatus:      models.JobStatusQueued,
			wantAppearances: durableAppearances,
		},
		{
			name:            "cache status wins for in-flight job",
			jobStatus:       models.JobStatusQueued,
			active:          &models.ActiveStatus{JobID: jobID, Status: models.JobStatusProcessing},
			wantStatus:      models.JobStatusProcessing,
			wantAppearances: durableAppearances,
		},
		{
			name:            "cache appearances overlay durable ones",
			jobStatus:       models.JobStatusProcessing,
			active:          &models.ActiveStatus{JobID: jobID, Status: models.JobStatusProcessing, Appearances: cacheAppearances},
			wantStatus:      models.JobStatusProcessing,
			wantAppearances: cacheAppearances,
		},
		{
			name:            "cache terminal status applies",
			jobStatus:       models.JobStatusProcessing,
			active:          &models.ActiveStatus{JobID: jobID, Status: models.JobStatusDone, Appearances: cacheAppearances},
			wantStatus:      models.JobStatusDone,
			wantAppearances: cacheAppearances,
		},
		{
			name:            "terminal record ignores cache",
			jobStatus:       models.JobStatusDone,
			active:          &models.ActiveStatus{JobID: jobID, Status: models.JobStatusProcessing, Appearances: cacheAppearances},
			wantStatus:      models.JobStatusDone,
			wantAppearances: durableAppearances,
		},
		{
			name:            "unknown cache status is ignored",
			jobStatus:       models.JobStatusQueued,
			active:          &models.ActiveStatus{JobID: jobID, Status: models.JobStatus("bogus")},
			wantStatus:      models.JobStatusQueued,
			wantAppearances: durableAppearances,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			job := &models.Job{
				JobID:       jobID,
				Status:      tc.jobStatus,
				Appearances: durableAppearances,
			}
			merged := reconcile(job, tc.active)
			require.NotNil(t, merged)
			assert.Equal(t, tc.wantStatus, merged.Status)
			assert.Equal(t, tc.wantAppearances, merged.Appearances)

			// The input record is never mutated.
			assert.Equal(t, tc.jobStatus, job.Status)
			assert.Equal(t, durableAppearances, job.Appearances)
		})
	}
}
