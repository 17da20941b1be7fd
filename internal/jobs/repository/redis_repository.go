package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/facefinder/facefinder-backend/internal/jobs"
	"github.com/facefinder/facefinder-backend/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const defaultStatusPrefix = "job:"

// jobsRedisRepo reads the per-job status hash the detection backend
// maintains while it works: field "status" plus an optional
// "appearances" field holding a JSON array of [start, end] pairs.
type jobsRedisRepo struct {
	redisClient *redis.Client
	prefix      string
}

func NewJobsRedisRepo(redisClient *redis.Client, prefix string) jobs.RedisRepository {
	if prefix == "" {
		prefix = defaultStatusPrefix
	}
	return &jobsRedisRepo{
		redisClient: redisClient,
		prefix:      prefix,
	}
}

func (r *jobsRedisRepo) statusKey(jobID uuid.UUID) string {
	return r.prefix + jobID.String()
}

func (r *jobsRedisRepo) GetActiveStatus(ctx context.Context, jobID uuid.UUID) (*models.ActiveStatus, error) {
	fields, err := r.redisClient.HGetAll(ctx, r.statusKey(jobID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get active status: %w", err)
	}
	// HGetAll returns an empty map for a missing key.
	if len(fields) == 0 {
		return nil, nil
	}

	entry := &models.ActiveStatus{
		JobID:  jobID,
		Status: models.JobStatus(fields["status"]),
	}
	if raw, ok := fields["appearances"]; ok && raw != "" {
		if err = json.Unmarshal([]byte(raw), &entry.Appearances); err != nil {
			return nil, fmt.Errorf("failed to parse cached appearances: %w", err)
		}
	}
	return entry, nil
}

func (r *jobsRedisRepo) DeleteActiveStatus(ctx context.Context, jobID uuid.UUID) error {
	if err := r.redisClient.Del(ctx, r.statusKey(jobID)).Err(); err != nil {
		return fmt.Errorf("failed to delete active status: %w", err)
	}
	return nil
}
