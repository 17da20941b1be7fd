package jobs

import "errors"

// Sentinel errors for the job lifecycle, mapped to HTTP statuses at the
// delivery boundary.
var (
	// ErrValidation covers missing or malformed job-creation input.
	ErrValidation = errors.New("invalid job input")
	// ErrJobNotFound is returned for unknown ids and for jobs owned by
	// another user. Non-owners must not learn that a job exists.
	ErrJobNotFound = errors.New("job not found")
	// ErrDispatch marks a failed handoff to the detection backend. It is
	// logged server-side and never surfaced to the client at create time.
	ErrDispatch = errors.New("failed to dispatch job to detection backend")
	// ErrUpload marks a blob store write failure.
	ErrUpload = errors.New("failed to upload file")
)
