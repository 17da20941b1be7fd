package usecase

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/facefinder/facefinder-backend/internal/config"
	"github.com/facefinder/facefinder-backend/internal/jobs"
	"github.com/facefinder/facefinder-backend/internal/models"
	"github.com/facefinder/facefinder-backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) InitLogger()                          {}
func (nopLogger) Debug(args ...interface{})            {}
func (nopLogger) Debugf(t string, args ...interface{}) {}
func (nopLogger) Info(args ...interface{})             {}
func (nopLogger) Infof(t string, args ...interface{})  {}
func (nopLogger) Warn(args ...interface{})             {}
func (nopLogger) Warnf(t string, args ...interface{})  {}
func (nopLogger) Error(args ...interface{})            {}
func (nopLogger) Errorf(t string, args ...interface{}) {}
func (nopLogger) DPanic(args ...interface{})            {}
func (nopLogger) DPanicf(t string, args ...interface{}) {}
func (nopLogger) Fatal(args ...interface{})             {}
func (nopLogger) Fatalf(t string, args ...interface{}) {}

type stubJobsRepo struct {
	createFn func(ctx context.Context, job *models.Job) (*models.Job, error)
	getFn    func(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
	listFn   func(ctx context.Context, userID uuid.UUID, pq *utils.Pagination) (*models.JobList, error)
	updateFn func(ctx context.Context, jobID uuid.UUID, status models.JobStatus, appearances models.AppearanceList) (*models.Job, error)

	updateCalls []models.JobStatus
}

func (s *stubJobsRepo) CreateJob(ctx context.Context, job *models.Job) (*models.Job, error) {
	return s.createFn(ctx, job)
}

func (s *stubJobsRepo) GetJobByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	return s.getFn(ctx, jobID)
}

func (s *stubJobsRepo) GetJobsByUserID(ctx context.Context, userID uuid.UUID, pq *utils.Pagination) (*models.JobList, error) {
	return s.listFn(ctx, userID, pq)
}

func (s *stubJobsRepo) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status models.JobStatus, appearances models.AppearanceList) (*models.Job, error) {
	s.updateCalls = append(s.updateCalls, status)
	if s.updateFn != nil {
		return s.updateFn(ctx, jobID, status, appearances)
	}
	return &models.Job{JobID: jobID, Status: status, Appearances: appearances}, nil
}

type stubRedisRepo struct {
	getFn       func(ctx context.Context, jobID uuid.UUID) (*models.ActiveStatus, error)
	getCalls    int
	deleteCalls int
}

func (s *stubRedisRepo) GetActiveStatus(ctx context.Context, jobID uuid.UUID) (*models.ActiveStatus, error) {
	s.getCalls++
	if s.getFn != nil {
		return s.getFn(ctx, jobID)
	}
	return nil, nil
}

func (s *stubRedisRepo) DeleteActiveStatus(ctx context.Context, jobID uuid.UUID) error {
	s.deleteCalls++
	return nil
}

type stubAWSRepo struct {
	putFn func(ctx context.Context, input *models.UploadInput) (string, error)
}

func (s *stubAWSRepo) PutObject(ctx context.Context, input *models.UploadInput) (string, error) {
	return s.putFn(ctx, input)
}

type stubDetectRepo struct {
	dispatchFn func(ctx context.Context, input *jobs.DispatchInput) error
}

func (s *stubDetectRepo) Dispatch(ctx context.Context, input *jobs.DispatchInput) error {
	if s.dispatchFn != nil {
		return s.dispatchFn(ctx, input)
	}
	return nil
}

func (s *stubDetectRepo) GetJobStatus(ctx context.Context, jobID uuid.UUID) (*models.ActiveStatus, error) {
	return nil, nil
}

func newTestUC(repo *stubJobsRepo, redisRepo *stubRedisRepo, awsRepo *stubAWSRepo, detectRepo *stubDetectRepo) *jobsUC {
	cfg := &config.Config{}
	cfg.Detect.QueueStaleAfter = 30 * time.Minute
	return &jobsUC{
		cfg:        cfg,
		jobsRepo:   repo,
		redisRepo:  redisRepo,
		awsRepo:    awsRepo,
		detectRepo: detectRepo,
		logger:     nopLogger{},
		now:        time.Now,
	}
}

func userCtx(user *models.User) context.Context {
	return utils.WithUser(context.Background(), user)
}

func validCreateInput() *models.JobCreateInput {
	return &models.JobCreateInput{
		VideoName: "clip.mp4",
		VideoFile: strings.NewReader("video-bytes"),
		VideoURL:  "https://blobs.example.com/clip.mp4",
		FaceName:  "face.jpg",
		FaceFile:  strings.NewReader("face-bytes"),
		FaceURL:   "https://blobs.example.com/face.jpg",
	}
}

func TestCreateJobRequiresUser(t *testing.T) {
	uc := newTestUC(&stubJobsRepo{}, &stubRedisRepo{}, &stubAWSRepo{}, &stubDetectRepo{})

	_, err := uc.CreateJob(context.Background(), validCreateInput())
	assert.Error(t, err)
}

func TestCreateJobValidation(t *testing.T) {
	created := false
	repo := &stubJobsRepo{
		createFn: func(ctx context.Context, job *models.Job) (*models.Job, error) {
			created = true
			return job, nil
		},
	}
	uc := newTestUC(repo, &stubRedisRepo{}, &stubAWSRepo{}, &stubDetectRepo{})
	ctx := userCtx(&models.User{UserID: uuid.New()})

	cases := []struct {
		name   string
		mutate func(*models.JobCreateInput)
	}{
		{"missing video file", func(in *models.JobCreateInput) { in.VideoFile = nil }},
		{"missing face file", func(in *models.JobCreateInput) { in.FaceFile = nil }},
		{"missing video url", func(in *models.JobCreateInput) { in.VideoURL = "" }},
		{"missing face url", func(in *models.JobCreateInput) { in.FaceURL = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mutate(input)
			_, err := uc.CreateJob(ctx, input)
			require.Error(t, err)
			assert.ErrorIs(t, err, jobs.ErrValidation)
		})
	}
	assert.False(t, created, "no record may be written for invalid input")
}

func TestCreateJobDispatchesAsync(t *testing.T) {
	userID := uuid.New()
	jobID := uuid.New()
	repo := &stubJobsRepo{
		createFn: func(ctx context.Context, job *models.Job) (*models.Job, error) {
			assert.Equal(t, models.JobStatusQueued, job.Status)
			assert.Equal(t, userID, job.UserID)
			out := *job
			out.JobID = jobID
			return &out, nil
		},
	}

	dispatched := make(chan *jobs.DispatchInput, 1)
	detect := &stubDetectRepo{
		dispatchFn: func(ctx context.Context, input *jobs.DispatchInput) error {
			video, err := os.ReadFile(input.VideoPath)
			require.NoError(t, err)
			face, err := os.ReadFile(input.FacePath)
			require.NoError(t, err)
			assert.Equal(t, "video-bytes", string(video))
			assert.Equal(t, "face-bytes", string(face))
			dispatched <- input
			return nil
		},
	}
	uc := newTestUC(repo, &stubRedisRepo{}, &stubAWSRepo{}, detect)

	job, err := uc.CreateJob(userCtx(&models.User{UserID: userID}), validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, jobID, job.JobID)
	assert.Equal(t, models.JobStatusQueued, job.Status)

	select {
	case input := <-dispatched:
		assert.Equal(t, jobID, input.JobID)
		assert.Equal(t, userID, input.UserID)
		assert.Equal(t, "https://blobs.example.com/clip.mp4", input.VideoURL)
		assert.Equal(t, "https://blobs.example.com/face.jpg", input.FaceURL)
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch was never invoked")
	}
}

func TestCreateJobDispatchFailureLeavesJobQueued(t *testing.T) {
	jobID := uuid.New()
	repo := &stubJobsRepo{
		createFn: func(ctx context.Context, job *models.Job) (*models.Job, error) {
			out := *job
			out.JobID = jobID
			return &out, nil
		},
	}
	dispatched := make(chan struct{}, 1)
	detect := &stubDetectRepo{
		dispatchFn: func(ctx context.Context, input *jobs.DispatchInput) error {
			dispatched <- struct{}{}
			return jobs.ErrDispatch
		},
	}
	uc := newTestUC(repo, &stubRedisRepo{}, &stubAWSRepo{}, detect)

	job, err := uc.CreateJob(userCtx(&models.User{UserID: uuid.New()}), validCreateInput())
	require.NoError(t, err, "dispatch failure must not surface at create time")
	assert.Equal(t, models.JobStatusQueued, job.Status)

	select {
	case <-dispatched:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch was never invoked")
	}
	assert.Empty(t, repo.updateCalls, "a failed handoff leaves the record untouched")
}

func TestGetJobOwnerScoping(t *testing.T) {
	owner := uuid.New()
	repo := &stubJobsRepo{
		getFn: func(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
			return &models.Job{JobID: jobID, UserID: owner, Status: models.JobStatusProcessing}, nil
		},
	}
	uc := newTestUC(repo, &stubRedisRepo{}, &stubAWSRepo{}, &stubDetectRepo{})

	_, err := uc.GetJob(userCtx(&models.User{UserID: uuid.New()}), uuid.New())
	assert.ErrorIs(t, err, jobs.ErrJobNotFound)
}

func TestGetJobMergesActiveStatus(t *testing.T) {
	userID := uuid.New()
	jobID := uuid.New()
	appearances := models.AppearanceList{{Start: 3, End: 7.5}}

	repo := &stubJobsRepo{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.Job, error) {
			return &models.Job{JobID: id, UserID: userID, Status: models.JobStatusQueued, CreatedAt: time.Now()}, nil
		},
	}
	redisRepo := &stubRedisRepo{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.ActiveStatus, error) {
			return &models.ActiveStatus{JobID: id, Status: models.JobStatusProcessing, Appearances: appearances}, nil
		},
	}
	uc := newTestUC(repo, redisRepo, &stubAWSRepo{}, &stubDetectRepo{})

	job, err := uc.GetJob(userCtx(&models.User{UserID: userID}), jobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusProcessing, job.Status)
	assert.Equal(t, appearances, job.Appearances)
	require.Len(t, repo.updateCalls, 1)
	assert.Equal(t, models.JobStatusProcessing, repo.updateCalls[0])
}

func TestGetJobPersistsTerminalStatus(t *testing.T) {
	userID := uuid.New()
	appearances := models.AppearanceList{{Start: 1, End: 2}}

	repo := &stubJobsRepo{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.Job, error) {
			return &models.Job{JobID: id, UserID: userID, Status: models.JobStatusProcessing, CreatedAt: time.Now()}, nil
		},
	}
	redisRepo := &stubRedisRepo{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.ActiveStatus, error) {
			return &models.ActiveStatus{JobID: id, Status: models.JobStatusDone, Appearances: appearances}, nil
		},
	}
	uc := newTestUC(repo, redisRepo, &stubAWSRepo{}, &stubDetectRepo{})

	job, err := uc.GetJob(userCtx(&models.User{UserID: userID}), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusDone, job.Status)
	assert.Equal(t, appearances, job.Appearances)
	require.Len(t, repo.updateCalls, 1)
	assert.Equal(t, models.JobStatusDone, repo.updateCalls[0])
	assert.Equal(t, 1, redisRepo.deleteCalls, "cache entry is retired once the result is durable")
}

func TestGetJobCacheFailureDegradesToDurableView(t *testing.T) {
	userID := uuid.New()
	repo := &stubJobsRepo{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.Job, error) {
			return &models.Job{JobID: id, UserID: userID, Status: models.JobStatusProcessing, CreatedAt: time.Now()}, nil
		},
	}
	redisRepo := &stubRedisRepo{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.ActiveStatus, error) {
			return nil, errors.New("connection refused")
		},
	}
	uc := newTestUC(repo, redisRepo, &stubAWSRepo{}, &stubDetectRepo{})

	job, err := uc.GetJob(userCtx(&models.User{UserID: userID}), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusProcessing, job.Status)
	assert.Empty(t, repo.updateCalls)
}

func TestGetJobCacheFailureDoesNotPromoteStaleJob(t *testing.T) {
	userID := uuid.New()
	repo := &stubJobsRepo{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.Job, error) {
			return &models.Job{
				JobID:     id,
				UserID:    userID,
				Status:    models.JobStatusQueued,
				CreatedAt: time.Now().Add(-time.Hour),
			}, nil
		},
	}
	redisRepo := &stubRedisRepo{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.ActiveStatus, error) {
			return nil, errors.New("connection refused")
		},
	}
	uc := newTestUC(repo, redisRepo, &stubAWSRepo{}, &stubDetectRepo{})

	// An unreadable cache says nothing about the job; only a readable
	// cache with no entry counts toward the staleness window.
	job, err := uc.GetJob(userCtx(&models.User{UserID: userID}), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusQueued, job.Status)
	assert.Empty(t, repo.updateCalls)
}

func TestGetJobStaleQueuedPromotion(t *testing.T) {
	userID := uuid.New()
	repo := &stubJobsRepo{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.Job, error) {
			return &models.Job{
				JobID:     id,
				UserID:    userID,
				Status:    models.JobStatusQueued,
				CreatedAt: time.Now().Add(-time.Hour),
			}, nil
		},
	}
	uc := newTestUC(repo, &stubRedisRepo{}, &stubAWSRepo{}, &stubDetectRepo{})

	job, err := uc.GetJob(userCtx(&models.User{UserID: userID}), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, job.Status)
	require.Len(t, repo.updateCalls, 1)
	assert.Equal(t, models.JobStatusFailed, repo.updateCalls[0])
}

func TestGetJobStalePromotionDisabled(t *testing.T) {
	userID := uuid.New()
	repo := &stubJobsRepo{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.Job, error) {
			return &models.Job{
				JobID:     id,
				UserID:    userID,
				Status:    models.JobStatusQueued,
				CreatedAt: time.Now().Add(-24 * time.Hour),
			}, nil
		},
	}
	uc := newTestUC(repo, &stubRedisRepo{}, &stubAWSRepo{}, &stubDetectRepo{})
	uc.cfg.Detect.QueueStaleAfter = 0

	job, err := uc.GetJob(userCtx(&models.User{UserID: userID}), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusQueued, job.Status)
	assert.Empty(t, repo.updateCalls)
}

func TestListJobsSkipsTerminalRows(t *testing.T) {
	userID := uuid.New()
	terminalID := uuid.New()
	activeID := uuid.New()

	repo := &stubJobsRepo{
		listFn: func(ctx context.Context, uid uuid.UUID, pq *utils.Pagination) (*models.JobList, error) {
			assert.Equal(t, userID, uid)
			return &models.JobList{
				Jobs: []*models.Job{
					{JobID: terminalID, UserID: userID, Status: models.JobStatusDone, CreatedAt: time.Now()},
					{JobID: activeID, UserID: userID, Status: models.JobStatusQueued, CreatedAt: time.Now()},
				},
				TotalCount: 2,
			}, nil
		},
	}
	redisRepo := &stubRedisRepo{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.ActiveStatus, error) {
			assert.Equal(t, activeID, id, "terminal rows must not consult the cache")
			return &models.ActiveStatus{JobID: id, Status: models.JobStatusProcessing}, nil
		},
	}
	uc := newTestUC(repo, redisRepo, &stubAWSRepo{}, &stubDetectRepo{})

	list, err := uc.ListJobs(userCtx(&models.User{UserID: userID}), &utils.Pagination{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, list.Jobs, 2)
	assert.Equal(t, 1, redisRepo.getCalls)
	assert.Equal(t, models.JobStatusDone, list.Jobs[0].Status)
	assert.Equal(t, models.JobStatusProcessing, list.Jobs[1].Status)
}

func TestUploadFile(t *testing.T) {
	uc := newTestUC(&stubJobsRepo{}, &stubRedisRepo{}, &stubAWSRepo{
		putFn: func(ctx context.Context, input *models.UploadInput) (string, error) {
			return "https://blobs.example.com/uploads/abc-clip.mp4", nil
		},
	}, &stubDetectRepo{})

	url, err := uc.UploadFile(context.Background(), &models.UploadInput{
		File:     strings.NewReader("data"),
		Name:     "clip.mp4",
		MimeType: "video/mp4",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://blobs.example.com/uploads/abc-clip.mp4", url)
}

func TestUploadFileValidation(t *testing.T) {
	uc := newTestUC(&stubJobsRepo{}, &stubRedisRepo{}, &stubAWSRepo{}, &stubDetectRepo{})

	_, err := uc.UploadFile(context.Background(), &models.UploadInput{Name: "clip.mp4"})
	assert.ErrorIs(t, err, jobs.ErrValidation)

	_, err = uc.UploadFile(context.Background(), nil)
	assert.ErrorIs(t, err, jobs.ErrValidation)
}

func TestUploadFileStoreFailure(t *testing.T) {
	uc := newTestUC(&stubJobsRepo{}, &stubRedisRepo{}, &stubAWSRepo{
		putFn: func(ctx context.Context, input *models.UploadInput) (string, error) {
			return "", errors.New("bucket unavailable")
		},
	}, &stubDetectRepo{})

	_, err := uc.UploadFile(context.Background(), &models.UploadInput{
		File:     strings.NewReader("data"),
		Name:     "clip.mp4",
		MimeType: "video/mp4",
	})
	assert.ErrorIs(t, err, jobs.ErrUpload)
}
