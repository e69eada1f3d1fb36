// Package productions implements the production domain for batesd: a
// production is one stamping run over a set of registered documents,
// with its Bates sequence definition, overlay options, assembled output,
// mapping report, and the numbering ranges it consumed. Persisted ranges
// feed cross-production conflict validation.
package productions

import (
	"time"

	"github.com/google/uuid"

	"github.com/whitfield-io/batesd/pkg/bates"
	"github.com/whitfield-io/batesd/pkg/overlay"
)

// Production status values.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Production represents one stamping run. Result fields are nil until
// the run completes.
type Production struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Prefix       string     `json:"prefix"`
	Suffix       string     `json:"suffix"`
	StartNumber  int64      `json:"start_number"`
	Padding      int        `json:"padding"`
	Status       string     `json:"status"`
	FirstBates   *string    `json:"first_bates"`
	LastBates    *string    `json:"last_bates"`
	PageCount    *int       `json:"page_count"`
	OutputKey    *string    `json:"output_key"`
	ErrorMessage *string    `json:"error_message"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}

// CreateCommand carries the data needed to register a new production.
// Prefix, suffix, start number, and padding fix the numbering space for
// the run; they cannot change once stamping has started.
type CreateCommand struct {
	Name        string `json:"name"`
	Prefix      string `json:"prefix"`
	Suffix      string `json:"suffix"`
	StartNumber int64  `json:"start_number"`
	Padding     int    `json:"padding"`
}

// RunCommand selects the documents and overlay options for a stamping
// run. Documents are stamped in the order given; Passwords is keyed by
// document id for encrypted sources.
type RunCommand struct {
	DocumentIDs    []uuid.UUID       `json:"document_ids"`
	Passwords      map[string]string `json:"passwords,omitempty"`
	Overlay        overlay.Spec      `json:"overlay"`
	Separators     bool              `json:"separators"`
	IndexPage      bool              `json:"index_page"`
	BatesFilenames bool              `json:"bates_filenames"`
}

// RunResult is the response payload of a completed run.
type RunResult struct {
	Production *Production  `json:"production"`
	Ranges     []BatesRange `json:"ranges"`
	Warnings   []string     `json:"warnings,omitempty"`
}

// BatesRange is a persisted numbering range: the span one document
// consumed within a production, or an externally registered range from a
// production done elsewhere. Persisted ranges are the corpus that
// conflict validation and next-range suggestion run against.
type BatesRange struct {
	ID           uuid.UUID  `json:"id"`
	ProductionID *uuid.UUID `json:"production_id,omitempty"`
	DocumentName string     `json:"document_name"`
	NewName      string     `json:"new_name,omitempty"`
	Prefix       string     `json:"prefix"`
	Suffix       string     `json:"suffix"`
	FirstBates   string     `json:"first_bates"`
	LastBates    string     `json:"last_bates"`
	FirstNumber  int64      `json:"first_number"`
	LastNumber   int64      `json:"last_number"`
	PageCount    int        `json:"page_count"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Range converts the record into a validatable Bates range.
func (r BatesRange) Range() bates.Range {
	return bates.NewRange(r.FirstBates, r.LastBates, r.PageCount, r.Prefix, r.Suffix)
}

// RangeCommand registers an externally produced range for conflict
// validation. First and Last are formatted identifiers.
type RangeCommand struct {
	DocumentName string `json:"document_name"`
	Prefix       string `json:"prefix"`
	Suffix       string `json:"suffix"`
	First        string `json:"first"`
	Last         string `json:"last"`
	PageCount    int    `json:"page_count"`
}

// Suggestion is the first free range for a numbering space.
type Suggestion struct {
	Prefix    string `json:"prefix"`
	Suffix    string `json:"suffix"`
	First     string `json:"first"`
	Last      string `json:"last"`
	PageCount int    `json:"page_count"`
}
