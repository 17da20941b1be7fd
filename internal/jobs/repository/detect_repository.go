package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/facefinder/facefinder-backend/internal/config"
	"github.com/facefinder/facefinder-backend/internal/jobs"
	"github.com/facefinder/facefinder-backend/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// detectRepository talks to the external face-detection backend over HTTP.
type detectRepository struct {
	baseURL        string
	dispatchClient *http.Client
	statusClient   *http.Client
}

func NewDetectRepository(cfg *config.DetectConfig) jobs.DetectRepository {
	dispatchTimeout := cfg.DispatchTimeout
	if dispatchTimeout == 0 {
		dispatchTimeout = 2 * time.Minute
	}
	statusTimeout := cfg.StatusTimeout
	if statusTimeout == 0 {
		statusTimeout = 10 * time.Second
	}
	return &detectRepository{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		dispatchClient: &http.Client{Timeout: dispatchTimeout},
		statusClient:   &http.Client{Timeout: statusTimeout},
	}
}

func (d *detectRepository) Dispatch(ctx context.Context, input *jobs.DispatchInput) error {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeDispatchBody(writer, input))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/jobs/", pr)
	if err != nil {
		return errors.Wrap(err, "failed to build dispatch request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := d.dispatchClient.Do(req)
	if err != nil {
		return errors.Wrap(jobs.ErrDispatch, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errors.Wrapf(jobs.ErrDispatch, "backend returned status %d", resp.StatusCode)
	}
	return nil
}

func writeDispatchBody(writer *multipart.Writer, input *jobs.DispatchInput) error {
	defer writer.Close()

	fields := map[string]string{
		"job_id":    input.JobID.String(),
		"user_id":   input.UserID.String(),
		"video_url": input.VideoURL,
		"face_url":  input.FaceURL,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return errors.Wrapf(err, "failed to write field %s", name)
		}
	}

	files := []struct {
		field, name, path string
	}{
		{"video", input.VideoName, input.VideoPath},
		{"face", input.FaceName, input.FacePath},
	}
	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.name)
		if err != nil {
			return errors.Wrapf(err, "failed to create form file %s", f.field)
		}
		src, err := os.Open(f.path)
		if err != nil {
			return errors.Wrapf(err, "failed to open spooled %s", f.field)
		}
		_, err = io.Copy(part, src)
		src.Close()
		if err != nil {
			return errors.Wrapf(err, "failed to stream %s", f.field)
		}
	}
	return nil
}

type backendStatusResponse struct {
	Status      string                `json:"status"`
	Appearances models.AppearanceList `json:"appearances"`
}

func (d *detectRepository) GetJobStatus(ctx context.Context, jobID uuid.UUID) (*models.ActiveStatus, error) {
	u := fmt.Sprintf("%s/jobs/%s", d.baseURL, jobID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build status request")
	}

	resp, err := d.statusClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query job status")
	}
	defer resp.Body.Close()

	// 404 is the backend's not-found sentinel: no active entry.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("backend status query returned %d", resp.StatusCode)
	}

	var body backendStatusResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "failed to decode status response")
	}
	return &models.ActiveStatus{
		JobID:       jobID,
		Status:      models.JobStatus(body.Status),
		Appearances: body.Appearances,
	}, nil
}
