package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/facefinder/facefinder-backend/internal/jobs"
	"github.com/facefinder/facefinder-backend/internal/models"
	"github.com/facefinder/facefinder-backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type jobsRepo struct {
	db *sqlx.DB
}

func NewJobsRepo(db *sqlx.DB) jobs.Repository {
	return &jobsRepo{
		db: db,
	}
}

func (r *jobsRepo) CreateJob(ctx context.Context, job *models.Job) (*models.Job, error) {
	created := &models.Job{}
	if err := r.db.QueryRowxContext(
		ctx,
		createJobQuery,
		job.UserID,
		job.Status,
		job.VideoName,
		job.FaceName,
		job.VideoURL,
		job.FaceURL,
	).StructScan(created); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return created, nil
}

func (r *jobsRepo) GetJobByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	job := &models.Job{}
	if err := r.db.QueryRowxContext(
		ctx,
		getJobByIDQuery,
		jobID,
	).StructScan(job); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, jobs.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job by id: %w", err)
	}
	return job, nil
}

func (r *jobsRepo) GetJobsByUserID(ctx context.Context, userID uuid.UUID, pq *utils.Pagination) (*models.JobList, error) {
	var totalCount int
	if err := r.db.GetContext(
		ctx,
		&totalCount,
		getTotalJobsByUserIDQuery,
		userID,
	); err != nil {
		return nil, fmt.Errorf("failed to get total jobs count: %w", err)
	}
	if totalCount == 0 {
		return &models.JobList{
			Jobs:       make([]*models.Job, 0),
			TotalCount: 0,
			Page:       pq.GetPage(),
			PageSize:   pq.GetSize(),
			HasMore:    false,
		}, nil
	}

	rows, err := r.db.QueryxContext(
		ctx,
		getJobsByUserIDQuery,
		userID,
		pq.GetOffset(),
		pq.GetLimit(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs by user id: %w", err)
	}
	defer rows.Close()

	jobList := make([]*models.Job, 0, pq.GetSize())
	for rows.Next() {
		var job models.Job
		if err = rows.StructScan(&job); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobList = append(jobList, &job)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan jobs: %w", err)
	}
	return &models.JobList{
		Jobs:       jobList,
		TotalCount: totalCount,
		Page:       pq.GetPage(),
		PageSize:   pq.GetSize(),
		HasMore:    utils.GetHasMore(pq.GetPage(), totalCount, pq.GetSize()),
	}, nil
}

func (r *jobsRepo) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status models.JobStatus, appearances models.AppearanceList) (*models.Job, error) {
	// NULL leaves the stored appearances untouched.
	var appearancesArg interface{}
	if appearances != nil {
		data, err := json.Marshal(appearances)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal appearances: %w", err)
		}
		appearancesArg = data
	}

	job := &models.Job{}
	err := r.db.QueryRowxContext(
		ctx,
		updateJobStatusQuery,
		jobID,
		status,
		appearancesArg,
	).StructScan(job)
	if errors.Is(err, sql.ErrNoRows) {
		// Row is already terminal (or gone); return it as stored.
		return r.GetJobByID(ctx, jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}
	return job, nil
}
