// Package documents implements the source-document domain for batesd.
// It provides types, data access, and business logic for document upload,
// preflight inspection, metadata management, and blob storage integration.
package documents

import (
	"time"

	"github.com/google/uuid"

	"github.com/whitfield-io/batesd/pkg/preflight"
)

// Preflight status values recorded at upload time.
const (
	PreflightPassed   = "passed"
	PreflightWarnings = "warnings"
	PreflightFailed   = "failed"
)

// Document represents a registered source document with its metadata and
// blob storage reference. PageCount is nil when the page count could not
// be read, which for encrypted documents is resolved at stamping time.
type Document struct {
	ID              uuid.UUID `json:"id"`
	Filename        string    `json:"filename"`
	ContentType     string    `json:"content_type"`
	SizeBytes       int64     `json:"size_bytes"`
	PageCount       *int      `json:"page_count"`
	Encrypted       bool      `json:"encrypted"`
	PreflightStatus string    `json:"preflight_status"`
	StorageKey      string    `json:"storage_key"`
	Status          string    `json:"status"`
	UploadedAt      time.Time `json:"uploaded_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to upload and register a new
// document. Data holds the raw file bytes.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
}

// BatchResult reports the outcome of a single file within a batch upload.
// On success, Document is populated and Error is empty.
// On failure, Error describes the problem and Document is nil.
type BatchResult struct {
	Document *Document `json:"document,omitempty"`
	Filename string    `json:"filename"`
	Error    string    `json:"error,omitempty"`
}

// preflightStatus grades a preflight report into the stored status value.
func preflightStatus(report preflight.Report) string {
	if !report.OK() {
		return PreflightFailed
	}
	if len(report.Issues) > 0 {
		return PreflightWarnings
	}
	return PreflightPassed
}
