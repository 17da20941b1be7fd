package jobs

import (
	"context"
	"time"

	"github.com/facefinder/facefinder-backend/internal/models"
	"github.com/facefinder/facefinder-backend/pkg/logger"
)

const defaultPollInterval = 10 * time.Second

type FetchFunc func(ctx context.Context) (*models.Job, error)

type ListFetchFunc func(ctx context.Context) (*models.JobList, error)

// Poller queries one job's status on a fixed interval until a terminal
// status is observed or the context is cancelled. Transient fetch errors
// are logged and polling continues; the ticker always stops.
type Poller struct {
	interval time.Duration
	fetch    FetchFunc
	onUpdate func(*models.Job)
	logger   logger.Logger
}

func NewPoller(interval time.Duration, fetch FetchFunc, onUpdate func(*models.Job), log logger.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{
		interval: interval,
		fetch:    fetch,
		onUpdate: onUpdate,
		logger:   log,
	}
}

// Run blocks until a terminal status is observed, returning the terminal
// job exactly once, or until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) (*models.Job, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		job, err := p.fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.logger.Warnf("poller - fetch failed, continuing: %v", err)
		} else {
			if p.onUpdate != nil {
				p.onUpdate(job)
			}
			if job.Status.IsTerminal() {
				return job, nil
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// ListPoller refreshes an owner's job list on a fixed interval until the
// context is cancelled. A job list has no terminal state of its own.
type ListPoller struct {
	interval time.Duration
	fetch    ListFetchFunc
	onUpdate func(*models.JobList)
	logger   logger.Logger
}

func NewListPoller(interval time.Duration, fetch ListFetchFunc, onUpdate func(*models.JobList), log logger.Logger) *ListPoller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &ListPoller{
		interval: interval,
		fetch:    fetch,
		onUpdate: onUpdate,
		logger:   log,
	}
}

func (p *ListPoller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		list, err := p.fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Warnf("list poller - fetch failed, continuing: %v", err)
		} else if p.onUpdate != nil {
			p.onUpdate(list)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
