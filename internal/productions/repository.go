package productions

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/whitfield-io/batesd/internal/documents"
	"github.com/whitfield-io/batesd/pkg/bates"
	"github.com/whitfield-io/batesd/pkg/conflict"
	"github.com/whitfield-io/batesd/pkg/pagination"
	"github.com/whitfield-io/batesd/pkg/query"
	"github.com/whitfield-io/batesd/pkg/repository"
	"github.com/whitfield-io/batesd/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	documents  documents.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a production repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	docs documents.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		documents:  docs,
		logger:     logger.With("system", "productions"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Production], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Prefix")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count productions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	prods, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanProduction)
	if err != nil {
		return nil, fmt.Errorf("query productions: %w", err)
	}

	result := pagination.NewPageResult(prods, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Production, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProduction)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Production, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalidRequest)
	}
	if strings.ContainsAny(cmd.Prefix+cmd.Suffix, "0123456789") {
		return nil, fmt.Errorf("%w: prefix and suffix must not contain digits", ErrInvalidRequest)
	}

	seq := bates.NewSequence(cmd.Prefix, cmd.Suffix, cmd.StartNumber, cmd.Padding)

	q := `
		INSERT INTO productions(id, name, prefix, suffix, start_number, padding)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + columns() + `
	`

	insertArgs := []any{
		uuid.New(),
		cmd.Name,
		seq.Prefix,
		seq.Suffix,
		seq.Next,
		seq.Padding,
	}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Production, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanProduction)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("production created",
		"id", p.ID,
		"name", p.Name,
		"start", bates.Format(p.StartNumber, p.Prefix, p.Suffix, p.Padding),
	)
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	prod, err := r.Find(ctx, id)
	if err != nil {
		return err
	}
	if prod.Status == StatusRunning {
		return ErrAlreadyRunning
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM bates_ranges WHERE production_id = $1", id,
		); err != nil {
			return struct{}{}, err
		}
		if err := repository.ExecExpectOne(ctx, tx,
			"DELETE FROM productions WHERE id = $1", id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	for _, key := range outputKeys(prod) {
		if delErr := r.storage.Delete(ctx, key); delErr != nil && delErr != storage.ErrNotFound {
			r.logger.Warn("blob delete failed after DB delete", "key", key, "error", delErr)
		}
	}

	r.logger.Info("production deleted", "id", id)
	return nil
}

func (r *repo) Output(ctx context.Context, id uuid.UUID) (*Production, *storage.DownloadResult, error) {
	prod, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if prod.OutputKey == nil {
		return nil, nil, ErrNotCompleted
	}

	dl, err := r.storage.Download(ctx, *prod.OutputKey)
	if err != nil {
		return nil, nil, fmt.Errorf("download production output: %w", err)
	}
	if dl.ContentType == "" {
		dl.ContentType = "application/pdf"
	}
	return prod, dl, nil
}

func (r *repo) Ranges(ctx context.Context, productionID *uuid.UUID) ([]BatesRange, error) {
	qb := query.NewBuilder(rangeProjection, rangeSort)
	if productionID != nil {
		qb.WhereEquals("ProductionID", *productionID)
	}

	q, args := qb.Build()
	ranges, err := repository.QueryMany(ctx, r.db, q, args, scanRange)
	if err != nil {
		return nil, fmt.Errorf("query bates ranges: %w", err)
	}
	return ranges, nil
}

func (r *repo) AddRange(ctx context.Context, cmd RangeCommand) (*BatesRange, error) {
	if cmd.First == "" || cmd.Last == "" || cmd.PageCount < 1 {
		return nil, fmt.Errorf("%w: first, last, and page_count required", ErrInvalidRequest)
	}

	br := bates.NewRange(cmd.First, cmd.Last, cmd.PageCount, cmd.Prefix, cmd.Suffix)

	stored, err := r.insertRange(ctx, r.db, nil, cmd.DocumentName, "", br)
	if err != nil {
		return nil, err
	}

	r.logger.Info("external range registered", "first", stored.FirstBates, "last", stored.LastBates)
	return stored, nil
}

func (r *repo) Conflicts(ctx context.Context) (*ConflictReport, error) {
	ranges, err := r.Ranges(ctx, nil)
	if err != nil {
		return nil, err
	}

	v := conflict.New(r.logger)
	for _, br := range ranges {
		v.Add(br.Range())
	}

	return &ConflictReport{
		Findings: v.Validate(),
		Summary:  v.Summarize(),
	}, nil
}

func (r *repo) SuggestNext(ctx context.Context, prefix, suffix string, pageCount int) (*Suggestion, error) {
	ranges, err := r.Ranges(ctx, nil)
	if err != nil {
		return nil, err
	}

	v := conflict.New(r.logger)
	for _, br := range ranges {
		v.Add(br.Range())
	}

	first, last := v.SuggestNextRange(prefix, suffix, pageCount)
	return &Suggestion{
		Prefix:    prefix,
		Suffix:    suffix,
		First:     first,
		Last:      last,
		PageCount: pageCount,
	}, nil
}

type execQuerier interface {
	repository.Querier
	repository.Executor
}

func (r *repo) insertRange(
	ctx context.Context,
	q execQuerier,
	productionID *uuid.UUID,
	documentName, newName string,
	br bates.Range,
) (*BatesRange, error) {
	stmt := `
		INSERT INTO bates_ranges(id, production_id, document_name, new_name, prefix, suffix, first_bates, last_bates, first_number, last_number, page_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + rangeColumns() + `
	`

	args := []any{
		uuid.New(),
		productionID,
		documentName,
		newName,
		br.Prefix,
		br.Suffix,
		br.First,
		br.Last,
		br.FirstNumber,
		br.LastNumber,
		br.PageCount,
	}

	stored, err := repository.QueryOne(ctx, q, stmt, args, scanRange)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &stored, nil
}

func (r *repo) setStatus(ctx context.Context, id uuid.UUID, status string, errorMessage *string) error {
	return repository.ExecExpectOne(ctx, r.db,
		"UPDATE productions SET status = $2, error_message = $3, updated_at = now() WHERE id = $1",
		id, status, errorMessage,
	)
}

func columns() string {
	return "id, name, prefix, suffix, start_number, padding, status, first_bates, last_bates, page_count, output_key, error_message, created_at, updated_at, completed_at"
}

func rangeColumns() string {
	return "id, production_id, document_name, new_name, prefix, suffix, first_bates, last_bates, first_number, last_number, page_count, created_at"
}

func outputKeys(p *Production) []string {
	keys := make([]string, 0, 4)
	if p.OutputKey != nil {
		keys = append(keys, *p.OutputKey)
	}
	base := fmt.Sprintf("productions/%s/", p.ID)
	keys = append(keys, base+"mapping.csv", base+"mapping.json", base+"mapping.pdf")
	return keys
}
