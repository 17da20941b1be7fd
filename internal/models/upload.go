package models

import "io"

// UploadInput carries one file on its way into the blob store.
type UploadInput struct {
	File       io.Reader `json:"-"`
	Name       string    `json:"name" validate:"required,lte=255"`
	MimeType   string    `json:"mime_type" validate:"required,lte=100"`
	Size       int64     `json:"size" validate:"omitempty"`
	Key        string    `json:"key" validate:"omitempty"`
	BucketName string    `json:"bucket_name" validate:"omitempty"`
}

// JobCreateInput is the multipart payload for creating a detection job:
// both media files plus the durable URLs already obtained from the blob
// store gateway.
type JobCreateInput struct {
	VideoName string    `json:"video_name" validate:"required,lte=255"`
	VideoFile io.Reader `json:"-" validate:"required"`
	VideoURL  string    `json:"video_url" validate:"required,url"`
	FaceName  string    `json:"face_name" validate:"required,lte=255"`
	FaceFile  io.Reader `json:"-" validate:"required"`
	FaceURL   string    `json:"face_url" validate:"required,url"`
}
