// Package mapping exports the production mapping report: the record of
// which Bates range landed on which document, in CSV, JSON, and PDF
// table form. The CSV column layout is fixed; downstream review
// platforms load it by header name.
package mapping

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/whitfield-io/batesd/pkg/assemble"
	"github.com/whitfield-io/batesd/pkg/overlay"
)

// columns is the fixed CSV header row.
var columns = []string{
	"Original Filename",
	"New Filename",
	"First Bates",
	"Last Bates",
	"Page Count",
}

// CSV renders the mapping report as CSV with the fixed column layout.
// Documents appear in the order they were processed.
func CSV(meta []assemble.DocumentMetadata) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return nil, fmt.Errorf("write mapping header: %w", err)
	}
	for _, m := range meta {
		record := []string{
			m.OriginalName,
			m.NewName,
			m.FirstBates,
			m.LastBates,
			strconv.Itoa(m.PageCount),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write mapping row %s: %w", m.OriginalName, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush mapping csv: %w", err)
	}
	return buf.Bytes(), nil
}

// JSON renders the mapping report as an indented JSON array.
func JSON(meta []assemble.DocumentMetadata) ([]byte, error) {
	if meta == nil {
		meta = []assemble.DocumentMetadata{}
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal mapping: %w", err)
	}
	return data, nil
}

// PDF renders the mapping report as a table PDF, chunked across pages for
// long productions.
func PDF(meta []assemble.DocumentMetadata) (*bytes.Buffer, error) {
	rows := make([][]string, 0, len(meta))
	for _, m := range meta {
		rows = append(rows, []string{
			m.OriginalName,
			m.NewName,
			m.FirstBates,
			m.LastBates,
			strconv.Itoa(m.PageCount),
		})
	}

	return overlay.RenderTable(
		"Bates Mapping Report",
		columns,
		[]int{30, 30, 15, 15, 10},
		rows,
	)
}

// BatesFilename derives an output filename from a document's first Bates
// identifier, preserving the original extension. Characters outside the
// portable filename set are replaced so identifiers with unusual prefixes
// or suffixes stay filesystem-safe.
func BatesFilename(firstBates, originalName string) string {
	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = ".pdf"
	}

	var b strings.Builder
	for _, r := range firstBates {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String() + ext
}
