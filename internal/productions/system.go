package productions

import (
	"context"

	"github.com/google/uuid"

	"github.com/whitfield-io/batesd/pkg/conflict"
	"github.com/whitfield-io/batesd/pkg/pagination"
	"github.com/whitfield-io/batesd/pkg/storage"
)

// ConflictReport combines findings with aggregate range statistics.
type ConflictReport struct {
	Findings []conflict.Finding `json:"findings"`
	Summary  conflict.Summary   `json:"summary"`
}

// System defines the public contract for production domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Production], error)

	Find(ctx context.Context, id uuid.UUID) (*Production, error)
	Create(ctx context.Context, cmd CreateCommand) (*Production, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Run stamps the selected documents under the production's sequence,
	// stores the assembled output and mapping reports, and persists the
	// consumed ranges. Cancellation via ctx aborts the run at the next
	// page boundary and marks the production cancelled.
	Run(ctx context.Context, id uuid.UUID, cmd RunCommand) (*RunResult, error)

	// Output streams the assembled production PDF.
	Output(ctx context.Context, id uuid.UUID) (*Production, *storage.DownloadResult, error)
	// Mapping renders the production's mapping report in the given
	// format (csv, json, or pdf), returning the payload and content type.
	Mapping(ctx context.Context, id uuid.UUID, format string) ([]byte, string, error)

	Ranges(ctx context.Context, productionID *uuid.UUID) ([]BatesRange, error)
	AddRange(ctx context.Context, cmd RangeCommand) (*BatesRange, error)
	Conflicts(ctx context.Context) (*ConflictReport, error)
	SuggestNext(ctx context.Context, prefix, suffix string, pageCount int) (*Suggestion, error)
}
