package server

import (
	"net/http"

	authHttp "github.com/facefinder/facefinder-backend/internal/auth/delivery/http"
	authRepository "github.com/facefinder/facefinder-backend/internal/auth/repository"
	authUsecase "github.com/facefinder/facefinder-backend/internal/auth/usecase"
	jobsHttp "github.com/facefinder/facefinder-backend/internal/jobs/delivery/http"
	jobsRepository "github.com/facefinder/facefinder-backend/internal/jobs/repository"
	jobsUsecase "github.com/facefinder/facefinder-backend/internal/jobs/usecase"
	"github.com/facefinder/facefinder-backend/internal/middleware"
	"github.com/facefinder/facefinder-backend/pkg/utils"
	"github.com/labstack/echo/v4"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	aRepo := authRepository.NewAuthRepo(s.db)
	jRepo := jobsRepository.NewJobsRepo(s.db)
	jRedisRepo := jobsRepository.NewJobsRedisRepo(s.redisClient, s.cfg.Redis.JobStatusPrefix)
	jAWSRepo := jobsRepository.NewAwsRepository(s.s3Client, &s.cfg.S3)
	jDetectRepo := jobsRepository.NewDetectRepository(&s.cfg.Detect)

	authUC := authUsecase.NewAuthUseCase(s.cfg, aRepo, s.logger)
	jobsUC := jobsUsecase.NewJobsUseCase(s.cfg, jRepo, jRedisRepo, jAWSRepo, jDetectRepo, s.logger)

	authHandlers := authHttp.NewAuthHandler(s.cfg, authUC, s.logger)
	jobsHandlers := jobsHttp.NewJobsHandler(s.cfg, jobsUC, s.logger)

	mw := middleware.NewMiddlewareManager(authUC, s.cfg, []string{"*"}, s.logger)

	v1 := e.Group("/api/v1")
	health := v1.Group("/health")
	authGroup := v1.Group("/auth")
	jobsGroup := v1.Group("/jobs")
	uploadGroup := v1.Group("/upload")

	authHttp.MapAuthRoutes(authGroup, authHandlers, mw)
	jobsHttp.MapJobsRoutes(jobsGroup, jobsHandlers, mw)
	jobsHttp.MapUploadRoutes(uploadGroup, jobsHandlers)
	health.GET("", func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
	})
	return nil
}
