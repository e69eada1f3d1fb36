package documents

import (
	"net/url"
	"strconv"

	"github.com/whitfield-io/batesd/pkg/query"
	"github.com/whitfield-io/batesd/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("encrypted", "Encrypted").
	Project("preflight_status", "PreflightStatus").
	Project("storage_key", "StorageKey").
	Project("status", "Status").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. Status, PreflightStatus, ContentType, and
// Encrypted use exact matching. Filename and StorageKey use
// case-insensitive contains matching.
type Filters struct {
	Status          *string `json:"status,omitempty"`
	Filename        *string `json:"filename,omitempty"`
	ContentType     *string `json:"content_type,omitempty"`
	StorageKey      *string `json:"storage_key,omitempty"`
	PreflightStatus *string `json:"preflight_status,omitempty"`
	Encrypted       *bool   `json:"encrypted,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("Filename", f.Filename).
		WhereEquals("ContentType", f.ContentType).
		WhereContains("StorageKey", f.StorageKey).
		WhereEquals("PreflightStatus", f.PreflightStatus).
		WhereEquals("Encrypted", f.Encrypted)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	if sk := values.Get("storage_key"); sk != "" {
		f.StorageKey = &sk
	}

	if ps := values.Get("preflight_status"); ps != "" {
		f.PreflightStatus = &ps
	}

	if enc := values.Get("encrypted"); enc != "" {
		if v, err := strconv.ParseBool(enc); err == nil {
			f.Encrypted = &v
		}
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.Encrypted,
		&d.PreflightStatus,
		&d.StorageKey,
		&d.Status,
		&d.UploadedAt,
		&d.UpdatedAt,
	)
	return d, err
}
