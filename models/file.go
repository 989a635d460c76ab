package models

import (
	"time"

	"github.com/google/uuid"
)

// File represents an uploaded source document
type File struct {
	ID          uuid.UUID  `json:"id"`
	MatterID    *uuid.UUID `json:"matter_id,omitempty"`
	Filename    string     `json:"filename"`
	MimeType    string     `json:"mime_type"`
	Size        int64      `json:"size"`
	StoragePath string     `json:"storage_path"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ExtractionStatus reports whether text extraction succeeded
type ExtractionStatus string

const (
	ExtractionSuccess ExtractionStatus = "success"
	ExtractionError   ExtractionStatus = "error"
)

// ExtractionOutput holds extracted document text
type ExtractionOutput struct {
	FullText string `json:"full_text"`
}

// ExtractionResult is returned by the file ingestion flow
type ExtractionResult struct {
	Status  ExtractionStatus `json:"status"`
	Output  ExtractionOutput `json:"output"`
	Details string           `json:"details,omitempty"`
}
