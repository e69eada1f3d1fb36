package productions

import (
	"net/url"

	"github.com/whitfield-io/batesd/pkg/query"
	"github.com/whitfield-io/batesd/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "productions", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("prefix", "Prefix").
	Project("suffix", "Suffix").
	Project("start_number", "StartNumber").
	Project("padding", "Padding").
	Project("status", "Status").
	Project("first_bates", "FirstBates").
	Project("last_bates", "LastBates").
	Project("page_count", "PageCount").
	Project("output_key", "OutputKey").
	Project("error_message", "ErrorMessage").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("completed_at", "CompletedAt")

var rangeProjection = query.
	NewProjectionMap("public", "bates_ranges", "r").
	Project("id", "ID").
	Project("production_id", "ProductionID").
	Project("document_name", "DocumentName").
	Project("new_name", "NewName").
	Project("prefix", "Prefix").
	Project("suffix", "Suffix").
	Project("first_bates", "FirstBates").
	Project("last_bates", "LastBates").
	Project("first_number", "FirstNumber").
	Project("last_number", "LastNumber").
	Project("page_count", "PageCount").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

var rangeSort = query.SortField{Field: "FirstNumber"}

// Filters contains optional filtering criteria for production queries.
// Nil fields are ignored. Status, Prefix, and Suffix use exact matching;
// Name uses case-insensitive contains matching.
type Filters struct {
	Status *string `json:"status,omitempty"`
	Name   *string `json:"name,omitempty"`
	Prefix *string `json:"prefix,omitempty"`
	Suffix *string `json:"suffix,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("Name", f.Name).
		WhereEquals("Prefix", f.Prefix).
		WhereEquals("Suffix", f.Suffix)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if p := values.Get("prefix"); p != "" {
		f.Prefix = &p
	}

	if s := values.Get("suffix"); s != "" {
		f.Suffix = &s
	}

	return f
}

func scanProduction(s repository.Scanner) (Production, error) {
	var p Production
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Prefix,
		&p.Suffix,
		&p.StartNumber,
		&p.Padding,
		&p.Status,
		&p.FirstBates,
		&p.LastBates,
		&p.PageCount,
		&p.OutputKey,
		&p.ErrorMessage,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.CompletedAt,
	)
	return p, err
}

func scanRange(s repository.Scanner) (BatesRange, error) {
	var r BatesRange
	err := s.Scan(
		&r.ID,
		&r.ProductionID,
		&r.DocumentName,
		&r.NewName,
		&r.Prefix,
		&r.Suffix,
		&r.FirstBates,
		&r.LastBates,
		&r.FirstNumber,
		&r.LastNumber,
		&r.PageCount,
		&r.CreatedAt,
	)
	return r, err
}
