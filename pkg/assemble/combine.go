package assemble

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/whitfield-io/batesd/pkg/overlay"
	"github.com/whitfield-io/batesd/pkg/progress"
)

// Combine stamps every source against the assembler's single sequence and
// merges the results into one production. Numbering is continuous across
// document boundaries; separator and index pages never consume numbers.
// The returned metadata has one entry per source in processing order.
//
// The combined output's page count is the sum of all content pages plus
// one page per separator plus the index pages when enabled.
func (a *Assembler) Combine(sources []Source, opts CombineOptions) (*bytes.Buffer, []DocumentMetadata, Result) {
	var res Result
	if len(sources) == 0 {
		return nil, nil, failure(res, errors.New("no source documents"))
	}

	meta := make([]DocumentMetadata, 0, len(sources))
	parts := make([]io.ReadSeeker, 0, len(sources))

	for i, src := range sources {
		if a.checkpoint(&res) {
			return nil, nil, res
		}
		a.reporter.Progress(
			fmt.Sprintf("Processing %s (%d of %d)", src.Name, i+1, len(sources)),
			progress.Update{Current: i + 1, Total: len(sources), FileName: src.Name},
		)

		buf, r := a.Process(src.Data, ProcessOptions{
			Name:         src.Name,
			Password:     src.Password,
			AddSeparator: opts.Separators,
		})
		if r.Cancelled {
			res.Cancelled = true
			return nil, nil, res
		}
		if !r.Success {
			return nil, nil, failure(res, fmt.Errorf("%s: %s", src.Name, r.ErrorMessage))
		}
		for _, w := range r.Warnings {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %s", src.Name, w))
		}

		m := DocumentMetadata{
			OriginalName: src.Name,
			FirstBates:   r.FirstBates,
			LastBates:    r.LastBates,
			PageCount:    r.PageCount,
			Prefix:       a.seq.Prefix,
			Suffix:       a.seq.Suffix,
		}
		if opts.BatesFilenames {
			m.NewName = r.FirstBates + ".pdf"
		}
		meta = append(meta, m)

		parts = append(parts, bytes.NewReader(buf.Bytes()))
		res.PageCount += r.PageCount
		if opts.Separators {
			res.PageCount++
		}
	}

	res.FirstBates = meta[0].FirstBates
	res.LastBates = meta[len(meta)-1].LastBates

	out, err := mergeParts(parts)
	if err != nil {
		return nil, nil, failure(res, fmt.Errorf("merge production: %w", err))
	}

	if opts.IndexPage {
		idx, pages, err := a.renderIndex(meta)
		if err != nil {
			// The production is complete without its index; keep the output.
			res.Warnings = append(res.Warnings, fmt.Sprintf("index page skipped: %v", err))
		} else {
			var prefixed bytes.Buffer
			err = api.MergeRaw(
				[]io.ReadSeeker{bytes.NewReader(idx.Bytes()), bytes.NewReader(out.Bytes())},
				&prefixed, false, newConfiguration(),
			)
			if err != nil {
				res.Warnings = append(res.Warnings, fmt.Sprintf("index page skipped: %v", err))
			} else {
				out = &prefixed
				res.PageCount += pages
			}
		}
	}

	res.Success = true
	return out, meta, res
}

func (a *Assembler) renderIndex(meta []DocumentMetadata) (*bytes.Buffer, int, error) {
	entries := make([]overlay.IndexEntry, 0, len(meta))
	for _, m := range meta {
		entries = append(entries, overlay.IndexEntry{
			Name:      m.OriginalName,
			First:     m.FirstBates,
			Last:      m.LastBates,
			PageCount: m.PageCount,
		})
	}

	idx, err := a.composer.RenderIndex(entries)
	if err != nil {
		return nil, 0, err
	}

	pages, err := api.PageCount(bytes.NewReader(idx.Bytes()), newConfiguration())
	if err != nil {
		return nil, 0, err
	}
	return idx, pages, nil
}

func mergeParts(parts []io.ReadSeeker) (*bytes.Buffer, error) {
	if len(parts) == 1 {
		data, err := io.ReadAll(parts[0])
		if err != nil {
			return nil, err
		}
		return bytes.NewBuffer(data), nil
	}
	var out bytes.Buffer
	if err := api.MergeRaw(parts, &out, false, newConfiguration()); err != nil {
		return nil, err
	}
	return &out, nil
}
