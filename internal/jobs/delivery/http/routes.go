package http

import (
	"github.com/facefinder/facefinder-backend/internal/jobs"
	"github.com/facefinder/facefinder-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

func MapJobsRoutes(jobsGroup *echo.Group, h jobs.Handler, mw *middleware.MiddlewareManager) {
	jobsGroup.Use(mw.AuthJWTMiddleware())
	jobsGroup.POST("", h.CreateJob())
	jobsGroup.GET("", h.GetJobs())
	jobsGroup.GET("/:job_id/watch", h.WatchJob())
}

func MapUploadRoutes(uploadGroup *echo.Group, h jobs.Handler) {
	uploadGroup.POST("", h.UploadFile())
}
