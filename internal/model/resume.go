package model

import "time"

// Resume is an uploaded PDF resume and the metadata recorded about it.
// Text is only populated when the parsed content is loaded alongside the record.
type Resume struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Filename           string    `json:"filename"`
	StoragePath        string    `json:"storage_path"`
	Size               int64     `json:"size"`
	ContentType        string    `json:"content_type"`
	ExtractionStrategy string    `json:"extraction_strategy"`
	UploadedAt         time.Time `json:"uploaded_at"`
	Text               string    `json:"text,omitempty"`
}
