package jobs

import "github.com/labstack/echo/v4"

type Handler interface {
	CreateJob() echo.HandlerFunc
	GetJobs() echo.HandlerFunc
	WatchJob() echo.HandlerFunc
	UploadFile() echo.HandlerFunc
}
