package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/facefinder/facefinder-backend/internal/config"
	"github.com/facefinder/facefinder-backend/internal/jobs"
	"github.com/facefinder/facefinder-backend/internal/models"
	"github.com/facefinder/facefinder-backend/pkg/logger"
	"github.com/facefinder/facefinder-backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type jobsHandler struct {
	cfg    *config.Config
	jobsUC jobs.UseCase
	logger logger.Logger
}

func NewJobsHandler(cfg *config.Config, jobsUC jobs.UseCase, logger logger.Logger) jobs.Handler {
	return &jobsHandler{
		cfg:    cfg,
		jobsUC: jobsUC,
		logger: logger,
	}
}

func (h *jobsHandler) CreateJob() echo.HandlerFunc {
	return func(c echo.Context) error {
		videoHeader, err := c.FormFile("video")
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Video file is required"})
		}
		faceHeader, err := c.FormFile("face")
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Face file is required"})
		}

		video, err := videoHeader.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Failed to read video file"})
		}
		defer video.Close()
		face, err := faceHeader.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Failed to read face file"})
		}
		defer face.Close()

		input := &models.JobCreateInput{
			VideoName: videoHeader.Filename,
			VideoFile: video,
			VideoURL:  c.FormValue("videoUrl"),
			FaceName:  faceHeader.Filename,
			FaceFile:  face,
			FaceURL:   c.FormValue("faceUrl"),
		}
		job, err := h.jobsUC.CreateJob(c.Request().Context(), input)
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusCreated, job)
	}
}

// GetJobs serves both the single-job lookup (?id=...) and the owner's
// reconciled list.
func (h *jobsHandler) GetJobs() echo.HandlerFunc {
	return func(c echo.Context) error {
		if id := c.QueryParam("id"); id != "" {
			jobID, err := uuid.Parse(id)
			if err != nil {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "Job not found"})
			}
			job, err := h.jobsUC.GetJob(c.Request().Context(), jobID)
			if err != nil {
				return h.mapError(c, err)
			}
			return c.JSON(http.StatusOK, job)
		}

		pq, err := utils.GetPaginationFromCtx(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		list, err := h.jobsUC.ListJobs(c.Request().Context(), pq)
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

// WatchJob streams reconciled job snapshots as server-sent events and
// closes the stream after the terminal event.
func (h *jobsHandler) WatchJob() echo.HandlerFunc {
	return func(c echo.Context) error {
		jobID, err := uuid.Parse(c.Param("job_id"))
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Job not found"})
		}

		ctx := c.Request().Context()
		if _, err = h.jobsUC.GetJob(ctx, jobID); err != nil {
			return h.mapError(c, err)
		}

		resp := c.Response()
		resp.Header().Set(echo.HeaderContentType, "text/event-stream")
		resp.Header().Set("Cache-Control", "no-cache")
		resp.Header().Set("Connection", "keep-alive")
		resp.WriteHeader(http.StatusOK)

		poller := jobs.NewPoller(
			h.cfg.Detect.PollInterval,
			func(ctx context.Context) (*models.Job, error) {
				return h.jobsUC.GetJob(ctx, jobID)
			},
			func(job *models.Job) {
				if err := writeSSE(resp, job); err != nil {
					h.logger.Warnf("WatchJob - failed to write event for job %s: %v", jobID, err)
				}
			},
			h.logger,
		)
		if _, err = poller.Run(ctx); err != nil {
			// Client disconnects cancel the request context.
			h.logger.Infof("WatchJob - stream for job %s closed: %v", jobID, err)
		}
		return nil
	}
}

func (h *jobsHandler) UploadFile() echo.HandlerFunc {
	return func(c echo.Context) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "No file provided"})
		}
		file, err := fileHeader.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Failed to read file"})
		}
		defer file.Close()

		input := &models.UploadInput{
			File:     file,
			Name:     fileHeader.Filename,
			MimeType: fileHeader.Header.Get("Content-Type"),
			Size:     fileHeader.Size,
		}
		url, err := h.jobsUC.UploadFile(c.Request().Context(), input)
		if err != nil {
			if errors.Is(err, jobs.ErrValidation) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "No file provided"})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to upload file"})
		}
		return c.JSON(http.StatusOK, map[string]string{"url": url})
	}
}

func (h *jobsHandler) mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, jobs.ErrValidation):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, jobs.ErrJobNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Job not found"})
	default:
		h.logger.Errorf("jobs handler - internal error RequestID: %s: %v", utils.GetRequestID(c), err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}

func writeSSE(resp *echo.Response, job *models.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if _, err = fmt.Fprintf(resp, "data: %s\n\n", data); err != nil {
		return err
	}
	resp.Flush()
	return nil
}
