package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusDone       JobStatus = "done"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether no further status transition is permitted.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusDone || s == JobStatusFailed
}

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusQueued, JobStatusProcessing, JobStatusDone, JobStatusFailed:
		return true
	}
	return false
}

// Appearance is a time range in the source video where the reference face
// was detected. Wire format is the pair [start, end] in seconds.
type Appearance struct {
	Start float64
	End   float64
}

func (a Appearance) Validate() error {
	if a.Start < 0 {
		return fmt.Errorf("appearance start must be non-negative, got %v", a.Start)
	}
	if a.End < a.Start {
		return fmt.Errorf("appearance end %v precedes start %v", a.End, a.Start)
	}
	return nil
}

func (a Appearance) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{a.Start, a.End})
}

func (a *Appearance) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("appearance must be a [start, end] pair: %w", err)
	}
	a.Start = pair[0]
	a.End = pair[1]
	return nil
}

// AppearanceList is stored as jsonb and serialized as an array of pairs.
// A nil or empty list is a valid result: the face was never found.
type AppearanceList []Appearance

func (l AppearanceList) Value() (driver.Value, error) {
	if l == nil {
		l = AppearanceList{}
	}
	return json.Marshal(l)
}

func (l *AppearanceList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("cannot scan %T into AppearanceList", src)
}

func (l AppearanceList) Validate() error {
	for i, a := range l {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("appearance %d: %w", i, err)
		}
	}
	return nil
}

// Job is the durable record of one face-detection request.
type Job struct {
	JobID       uuid.UUID      `json:"id" db:"job_id" validate:"omitempty"`
	UserID      uuid.UUID      `json:"userId" db:"user_id" validate:"omitempty"`
	Status      JobStatus      `json:"status" db:"status" validate:"omitempty"`
	VideoName   string         `json:"videoName" db:"video_name" validate:"required,lte=255"`
	FaceName    string         `json:"faceName" db:"face_name" validate:"required,lte=255"`
	VideoURL    string         `json:"videoUrl" db:"video_url" validate:"required,url"`
	FaceURL     string         `json:"faceUrl" db:"face_url" validate:"required,url"`
	Appearances AppearanceList `json:"appearances" db:"appearances" validate:"omitempty"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at" validate:"omitempty"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at" validate:"omitempty"`
}

type JobList struct {
	Jobs       []*Job `json:"jobs"`
	TotalCount int    `json:"total_count"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	HasMore    bool   `json:"has_more"`
}

// ActiveStatus is the ephemeral cache entry written by the detection
// backend while a job is in flight. Keyed by job id; carries no identity
// of its own. A nil entry means the cache has no record of the job.
type ActiveStatus struct {
	JobID       uuid.UUID      `json:"id"`
	Status      JobStatus      `json:"status"`
	Appearances AppearanceList `json:"appearances,omitempty"`
}
