package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/whitfield-io/batesd/pkg/pagination"
	"github.com/whitfield-io/batesd/pkg/storage"
)

// System defines the public contract for document domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	// Content streams the stored bytes for a document.
	Content(ctx context.Context, id uuid.UUID) (*Document, *storage.DownloadResult, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	// CreateBatch uploads multiple documents concurrently, returning one
	// result per command in input order. Individual failures do not stop
	// the batch.
	CreateBatch(ctx context.Context, cmds []CreateCommand) []BatchResult
	Delete(ctx context.Context, id uuid.UUID) error
}
