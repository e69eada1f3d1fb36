package main

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/whitfield-io/batesd/pkg/bates"
	"github.com/whitfield-io/batesd/pkg/conflict"
)

// runCheck validates the ranges recorded in a mapping CSV export and
// optionally suggests the next free range in the file's numbering space.
func runCheck(opts *options, logger *slog.Logger) error {
	ranges, err := loadRanges(opts.check)
	if err != nil {
		return err
	}
	if len(ranges) == 0 {
		return fmt.Errorf("%s contains no ranges", opts.check)
	}

	validator := conflict.New(logger)
	for _, r := range ranges {
		validator.Add(r)
	}

	findings := validator.Validate()
	for _, f := range findings {
		fmt.Println(f)
	}
	if len(findings) == 0 {
		fmt.Println("no conflicts found")
	}

	summary := validator.Summarize()
	fmt.Printf(
		"%d ranges, %d pages, numbers %d-%d\n",
		summary.TotalRanges, summary.TotalPages,
		summary.LowestNumber, summary.HighestNumber,
	)

	if opts.suggestPages > 0 {
		first, last := validator.SuggestNextRange(opts.prefix, opts.suffix, opts.suggestPages)
		fmt.Printf("next free range for %d pages: %s - %s\n", opts.suggestPages, first, last)
	}

	errorCount := 0
	for _, f := range findings {
		if f.Severity == conflict.SeverityError {
			errorCount++
		}
	}
	if errorCount > 0 {
		return fmt.Errorf("%d conflict(s) detected", errorCount)
	}
	return nil
}

// loadRanges reads a mapping CSV (Original Filename, New Filename,
// First Bates, Last Bates, Page Count) into validatable ranges. Prefix
// and suffix are recovered from the Bates identifiers themselves.
func loadRanges(path string) ([]bates.Range, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	ranges := make([]bates.Range, 0, len(records))
	for i, record := range records {
		if i == 0 || len(record) < 5 {
			continue
		}

		first, last := record[2], record[3]
		pageCount, err := strconv.Atoi(record[4])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid page count %q", path, i+1, record[4])
		}

		prefix, _, suffix, err := bates.Parse(first)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+1, err)
		}

		ranges = append(ranges, bates.NewRange(first, last, pageCount, prefix, suffix))
	}
	return ranges, nil
}
