package productions

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/whitfield-io/batesd/pkg/assemble"
	"github.com/whitfield-io/batesd/pkg/bates"
	"github.com/whitfield-io/batesd/pkg/mapping"
	"github.com/whitfield-io/batesd/pkg/overlay"
	"github.com/whitfield-io/batesd/pkg/progress"
	"github.com/whitfield-io/batesd/pkg/repository"
)

func (r *repo) Run(ctx context.Context, id uuid.UUID, cmd RunCommand) (*RunResult, error) {
	prod, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if prod.Status == StatusRunning {
		return nil, ErrAlreadyRunning
	}
	if len(cmd.DocumentIDs) == 0 {
		return nil, ErrNoDocuments
	}

	if err := r.setStatus(ctx, id, StatusRunning, nil); err != nil {
		return nil, fmt.Errorf("mark production running: %w", err)
	}

	result, err := r.run(ctx, prod, cmd)
	if err != nil {
		// Status writes after a failed run use a fresh context: the most
		// common failure cause is the request context being cancelled.
		cleanup, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()

		status := StatusFailed
		var msg *string
		if err == ErrCancelled {
			status = StatusCancelled
		} else {
			s := err.Error()
			msg = &s
		}
		if setErr := r.setStatus(cleanup, id, status, msg); setErr != nil {
			r.logger.Error("status update failed after run error", "id", id, "error", setErr)
		}
		return nil, err
	}

	return result, nil
}

func (r *repo) run(ctx context.Context, prod *Production, cmd RunCommand) (*RunResult, error) {
	logger := r.logger.With("production", prod.ID)

	sources, err := r.loadSources(ctx, cmd)
	if err != nil {
		return nil, err
	}

	seq := bates.NewSequence(prod.Prefix, prod.Suffix, prod.StartNumber, prod.Padding)
	composer := overlay.New(&cmd.Overlay, logger)
	asm := assemble.New(seq, composer, progress.FromContext(ctx, nil), logger)

	out, meta, res := asm.Combine(sources, assemble.CombineOptions{
		Separators:     cmd.Separators,
		IndexPage:      cmd.IndexPage,
		BatesFilenames: cmd.BatesFilenames,
	})
	if res.Cancelled {
		return nil, ErrCancelled
	}
	if !res.Success {
		return nil, fmt.Errorf("%w: %s", ErrRunFailed, res.ErrorMessage)
	}

	outputKey, err := r.storeArtifacts(ctx, prod.ID, out, meta)
	if err != nil {
		return nil, err
	}

	updated, ranges, err := r.persistRun(ctx, prod.ID, outputKey, res, meta)
	if err != nil {
		return nil, err
	}

	logger.Info("production completed",
		"first", res.FirstBates,
		"last", res.LastBates,
		"pages", res.PageCount,
		"documents", len(meta),
		"warnings", len(res.Warnings),
	)

	return &RunResult{
		Production: updated,
		Ranges:     ranges,
		Warnings:   res.Warnings,
	}, nil
}

func (r *repo) loadSources(ctx context.Context, cmd RunCommand) ([]assemble.Source, error) {
	sources := make([]assemble.Source, 0, len(cmd.DocumentIDs))

	for _, docID := range cmd.DocumentIDs {
		doc, dl, err := r.documents.Content(ctx, docID)
		if err != nil {
			return nil, fmt.Errorf("load document %s: %w", docID, err)
		}

		data, err := io.ReadAll(dl.Body)
		dl.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read document %s: %w", docID, err)
		}

		sources = append(sources, assemble.Source{
			Name:     doc.Filename,
			Data:     data,
			Password: cmd.Passwords[docID.String()],
		})
	}

	return sources, nil
}

func (r *repo) storeArtifacts(
	ctx context.Context,
	id uuid.UUID,
	out *bytes.Buffer,
	meta []assemble.DocumentMetadata,
) (string, error) {
	base := fmt.Sprintf("productions/%s/", id)
	outputKey := base + "output.pdf"

	if err := r.storage.Upload(ctx, outputKey, bytes.NewReader(out.Bytes()), "application/pdf"); err != nil {
		return "", fmt.Errorf("upload production output: %w", err)
	}

	csvData, err := mapping.CSV(meta)
	if err != nil {
		return "", err
	}
	if err := r.storage.Upload(ctx, base+"mapping.csv", bytes.NewReader(csvData), "text/csv"); err != nil {
		return "", fmt.Errorf("upload mapping csv: %w", err)
	}

	jsonData, err := mapping.JSON(meta)
	if err != nil {
		return "", err
	}
	if err := r.storage.Upload(ctx, base+"mapping.json", bytes.NewReader(jsonData), "application/json"); err != nil {
		return "", fmt.Errorf("upload mapping json: %w", err)
	}

	pdfData, err := mapping.PDF(meta)
	if err != nil {
		return "", err
	}
	if err := r.storage.Upload(ctx, base+"mapping.pdf", bytes.NewReader(pdfData.Bytes()), "application/pdf"); err != nil {
		return "", fmt.Errorf("upload mapping pdf: %w", err)
	}

	return outputKey, nil
}

func (r *repo) persistRun(
	ctx context.Context,
	id uuid.UUID,
	outputKey string,
	res assemble.Result,
	meta []assemble.DocumentMetadata,
) (*Production, []BatesRange, error) {
	type runRow struct {
		production Production
		ranges     []BatesRange
	}

	q := `
		UPDATE productions
		SET status = $2, first_bates = $3, last_bates = $4, page_count = $5,
		    output_key = $6, error_message = NULL, updated_at = now(), completed_at = now()
		WHERE id = $1
		RETURNING ` + columns() + `
	`

	row, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (runRow, error) {
		updated, err := repository.QueryOne(ctx, tx, q,
			[]any{id, StatusCompleted, res.FirstBates, res.LastBates, res.PageCount, outputKey},
			scanProduction,
		)
		if err != nil {
			return runRow{}, err
		}

		ranges := make([]BatesRange, 0, len(meta))
		for _, m := range meta {
			stored, err := r.insertRange(ctx, tx, &id, m.OriginalName, m.NewName, m.Range())
			if err != nil {
				return runRow{}, err
			}
			ranges = append(ranges, *stored)
		}

		return runRow{production: updated, ranges: ranges}, nil
	})
	if err != nil {
		return nil, nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &row.production, row.ranges, nil
}

// Mapping renders the mapping report for a completed production from its
// persisted ranges.
func (r *repo) Mapping(ctx context.Context, id uuid.UUID, format string) ([]byte, string, error) {
	prod, err := r.Find(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if prod.Status != StatusCompleted {
		return nil, "", ErrNotCompleted
	}

	ranges, err := r.Ranges(ctx, &prod.ID)
	if err != nil {
		return nil, "", err
	}

	meta := make([]assemble.DocumentMetadata, 0, len(ranges))
	for _, br := range ranges {
		meta = append(meta, assemble.DocumentMetadata{
			OriginalName: br.DocumentName,
			NewName:      br.NewName,
			FirstBates:   br.FirstBates,
			LastBates:    br.LastBates,
			PageCount:    br.PageCount,
			Prefix:       br.Prefix,
			Suffix:       br.Suffix,
		})
	}

	switch format {
	case "", "csv":
		data, err := mapping.CSV(meta)
		return data, "text/csv", err
	case "json":
		data, err := mapping.JSON(meta)
		return data, "application/json", err
	case "pdf":
		buf, err := mapping.PDF(meta)
		if err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "application/pdf", nil
	}
	return nil, "", fmt.Errorf("%w: unknown mapping format %q", ErrInvalidRequest, format)
}
