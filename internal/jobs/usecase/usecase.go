package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/facefinder/facefinder-backend/internal/config"
	"github.com/facefinder/facefinder-backend/internal/jobs"
	"github.com/facefinder/facefinder-backend/internal/models"
	"github.com/facefinder/facefinder-backend/pkg/logger"
	"github.com/facefinder/facefinder-backend/pkg/utils"
	"github.com/google/uuid"
)

const defaultDispatchTimeout = 2 * time.Minute

type jobsUC struct {
	cfg        *config.Config
	jobsRepo   jobs.Repository
	redisRepo  jobs.RedisRepository
	awsRepo    jobs.AWSRepository
	detectRepo jobs.DetectRepository
	logger     logger.Logger
	now        func() time.Time
}

func NewJobsUseCase(
	cfg *config.Config,
	jobsRepo jobs.Repository,
	redisRepo jobs.RedisRepository,
	awsRepo jobs.AWSRepository,
	detectRepo jobs.DetectRepository,
	log logger.Logger,
) jobs.UseCase {
	return &jobsUC{
		cfg:        cfg,
		jobsRepo:   jobsRepo,
		redisRepo:  redisRepo,
		awsRepo:    awsRepo,
		detectRepo: detectRepo,
		logger:     log,
		now:        time.Now,
	}
}

func (u *jobsUC) CreateJob(ctx context.Context, input *models.JobCreateInput) (*models.Job, error) {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		u.logger.Errorf("CreateJob - GetUserFromCtx: %v", err)
		return nil, err
	}
	if err = validateCreateInput(input); err != nil {
		u.logger.Errorf("CreateJob - invalid input: %v", err)
		return nil, err
	}

	job := &models.Job{
		UserID:    user.UserID,
		Status:    models.JobStatusQueued,
		VideoName: input.VideoName,
		FaceName:  input.FaceName,
		VideoURL:  input.VideoURL,
		FaceURL:   input.FaceURL,
	}
	created, err := u.jobsRepo.CreateJob(ctx, job)
	if err != nil {
		u.logger.Errorf("CreateJob - CreateJob error: %v", err)
		return nil, err
	}

	// Spool the uploads so the handoff can outlive this request. A spool
	// or dispatch failure leaves the job queued; it is logged, never
	// surfaced to the client, and the record is not rolled back.
	videoPath, err := spoolToTemp(created.JobID, "video", input.VideoFile)
	if err != nil {
		u.logger.Errorf("CreateJob - failed to spool video for job %s: %v", created.JobID, err)
		return created, nil
	}
	facePath, err := spoolToTemp(created.JobID, "face", input.FaceFile)
	if err != nil {
		os.Remove(videoPath)
		u.logger.Errorf("CreateJob - failed to spool face for job %s: %v", created.JobID, err)
		return created, nil
	}

	go u.dispatch(&jobs.DispatchInput{
		JobID:     created.JobID,
		UserID:    created.UserID,
		VideoPath: videoPath,
		VideoName: created.VideoName,
		VideoURL:  created.VideoURL,
		FacePath:  facePath,
		FaceName:  created.FaceName,
		FaceURL:   created.FaceURL,
	})

	return created, nil
}

// dispatch runs detached from the originating request.
func (u *jobsUC) dispatch(input *jobs.DispatchInput) {
	defer os.Remove(input.VideoPath)
	defer os.Remove(input.FacePath)

	timeout := u.cfg.Detect.DispatchTimeout
	if timeout == 0 {
		timeout = defaultDispatchTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := u.detectRepo.Dispatch(ctx, input); err != nil {
		u.logger.Errorf("dispatch - job %s left queued: %v", input.JobID, err)
		return
	}
	u.logger.Infof("dispatch - job %s handed off to detection backend", input.JobID)
}

func (u *jobsUC) GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		u.logger.Errorf("GetJob - GetUserFromCtx: %v", err)
		return nil, err
	}

	job, err := u.jobsRepo.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != user.UserID {
		u.logger.Warnf("GetJob - job %s requested by non-owner %s", jobID, user.UserID)
		return nil, jobs.ErrJobNotFound
	}

	return u.refresh(ctx, job), nil
}

func (u *jobsUC) ListJobs(ctx context.Context, pq *utils.Pagination) (*models.JobList, error) {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		u.logger.Errorf("ListJobs - GetUserFromCtx: %v", err)
		return nil, err
	}
	if pq == nil {
		pq = &utils.Pagination{}
	}
	pq.Normalize()

	list, err := u.jobsRepo.GetJobsByUserID(ctx, user.UserID, pq)
	if err != nil {
		u.logger.Errorf("ListJobs - GetJobsByUserID error: %v", err)
		return nil, fmt.Errorf("failed to fetch jobs: %w", err)
	}

	// Terminal rows are immutable and their cache entries may already be
	// retired, so only in-flight rows consult the cache.
	for i, job := range list.Jobs {
		if job.Status.IsTerminal() {
			continue
		}
		list.Jobs[i] = u.refresh(ctx, job)
	}
	return list, nil
}

// refresh reconciles one in-flight job against the active cache and
// persists any observed status change.
func (u *jobsUC) refresh(ctx context.Context, job *models.Job) *models.Job {
	if job.Status.IsTerminal() {
		return job
	}

	active, err := u.redisRepo.GetActiveStatus(ctx, job.JobID)
	// Absence means the cache answered and holds no entry. An unreadable
	// cache is not absence; it only degrades to the durable view.
	cacheAbsent := err == nil && active == nil
	if err != nil {
		u.logger.Warnf("refresh - active status lookup for job %s: %v", job.JobID, err)
		active = nil
	}

	merged := reconcile(job, active)

	if merged.Status == models.JobStatusQueued && cacheAbsent && u.queuedStale(job) {
		u.logger.Warnf("refresh - job %s queued past staleness window, marking failed", job.JobID)
		merged.Status = models.JobStatusFailed
	}

	if merged.Status == job.Status {
		return merged
	}

	var appearances models.AppearanceList
	if active != nil {
		appearances = active.Appearances
	}
	updated, err := u.jobsRepo.UpdateJobStatus(ctx, job.JobID, merged.Status, appearances)
	if err != nil {
		u.logger.Errorf("refresh - failed to persist status %s for job %s: %v", merged.Status, job.JobID, err)
		return merged
	}

	// Once the terminal result is durable the cache entry is redundant.
	if active != nil && updated.Status.IsTerminal() {
		if err = u.redisRepo.DeleteActiveStatus(ctx, job.JobID); err != nil {
			u.logger.Warnf("refresh - failed to retire cache entry for job %s: %v", job.JobID, err)
		}
	}
	return updated
}

// queuedStale reports whether a queued job with no cache entry has
// outlived the configured staleness window, meaning its dispatch most
// likely never reached the backend.
func (u *jobsUC) queuedStale(job *models.Job) bool {
	staleAfter := u.cfg.Detect.QueueStaleAfter
	if staleAfter <= 0 {
		return false
	}
	return u.now().Sub(job.CreatedAt) > staleAfter
}

func (u *jobsUC) UploadFile(ctx context.Context, input *models.UploadInput) (string, error) {
	if input == nil || input.File == nil || input.Name == "" {
		return "", fmt.Errorf("%w: file is required", jobs.ErrValidation)
	}
	if err := utils.ValidateStruct(ctx, input); err != nil {
		u.logger.Errorf("UploadFile - ValidateStruct error: %v", err)
		return "", fmt.Errorf("%w: %v", jobs.ErrValidation, err)
	}

	url, err := u.awsRepo.PutObject(ctx, input)
	if err != nil {
		u.logger.Errorf("UploadFile - PutObject error: %v", err)
		return "", fmt.Errorf("%w: %v", jobs.ErrUpload, err)
	}
	return url, nil
}

func validateCreateInput(input *models.JobCreateInput) error {
	if input == nil {
		return fmt.Errorf("%w: input is nil", jobs.ErrValidation)
	}
	switch {
	case input.VideoFile == nil || input.VideoName == "":
		return fmt.Errorf("%w: video file is required", jobs.ErrValidation)
	case input.FaceFile == nil || input.FaceName == "":
		return fmt.Errorf("%w: face file is required", jobs.ErrValidation)
	case input.VideoURL == "":
		return fmt.Errorf("%w: video url is required", jobs.ErrValidation)
	case input.FaceURL == "":
		return fmt.Errorf("%w: face url is required", jobs.ErrValidation)
	}
	return nil
}

func spoolToTemp(jobID uuid.UUID, kind string, src io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", fmt.Sprintf("facefinder-%s-%s-*", jobID, kind))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err = io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to spool %s: %w", kind, err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return tmp.Name(), nil
}
