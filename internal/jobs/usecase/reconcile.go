package usecase

import (
	"github.com/facefinder/facefinder-backend/internal/models"
)

// reconcile merges the durable job record with the active cache entry
// into one authoritative view.
//
// Precedence: a present cache entry with a usable status wins for status
// and appearances, because the detection backend updates the cache
// continuously but may persist the durable record only at completion. The
// durable record keeps every field the cache does not carry (owner, names,
// URLs, timestamps) and wins outright when the cache entry is absent,
// reports an unknown status, or the record is already terminal.
func reconcile(job *models.Job, active *models.ActiveStatus) *models.Job {
	merged := *job
	if job.Status.IsTerminal() {
		return &merged
	}
	if active == nil || !active.Status.Valid() {
		return &merged
	}

	merged.Status = active.Status
	if active.Appearances != nil {
		merged.Appearances = active.Appearances
	}
	return &merged
}
