package repository

const (
	createJobQuery = `INSERT INTO jobs (user_id, status, video_name, face_name, video_url, face_url, appearances)
					VALUES ($1, $2, $3, $4, $5, $6, '[]'::jsonb) RETURNING *`
	getJobByIDQuery = `SELECT job_id, user_id, status, video_name, face_name, video_url, face_url, appearances, created_at, updated_at
					FROM jobs WHERE job_id = $1`
	getJobsByUserIDQuery = `SELECT job_id, user_id, status, video_name, face_name, video_url, face_url, appearances, created_at, updated_at
					FROM jobs WHERE user_id = $1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`
	getTotalJobsByUserIDQuery = `SELECT COUNT(job_id) FROM jobs WHERE user_id = $1`
	updateJobStatusQuery      = `UPDATE jobs
					SET status = $2,
					    appearances = COALESCE($3, appearances),
					    updated_at = now()
					WHERE job_id = $1 AND status NOT IN ('done', 'failed')
					RETURNING job_id, user_id, status, video_name, face_name, video_url, face_url, appearances, created_at, updated_at`
)
