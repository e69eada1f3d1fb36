// Package conflict validates sets of Bates ranges for numbering integrity:
// duplicate numbers, overlapping ranges, gaps between ranges, and ranges
// whose page count disagrees with their numeric bounds.
package conflict

import (
	"fmt"

	"github.com/whitfield-io/batesd/pkg/bates"
)

// Type classifies a validation finding.
type Type string

const (
	TypeDuplicate  Type = "duplicate"
	TypeOverlap    Type = "overlap"
	TypeGap        Type = "gap"
	TypeSequential Type = "out_of_sequence"
)

// Severity grades a finding. Duplicates, overlaps, and sequential
// mismatches are errors; gaps are warnings, since numbers are often
// reserved deliberately (for example for a withheld document).
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Finding is one detected numbering conflict. It is a report, not an
// error: the processing that produced the ranges already completed.
type Finding struct {
	Type        Type          `json:"type"`
	Severity    Severity      `json:"severity"`
	Description string        `json:"description"`
	Ranges      []bates.Range `json:"ranges,omitempty"`
	Numbers     []string      `json:"numbers,omitempty"`
	GapSize     int64         `json:"gap_size,omitempty"`
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s: %s", f.Severity, f.Type, f.Description)
}

// Summary aggregates statistics over the ranges a Validator has seen.
type Summary struct {
	TotalRanges    int   `json:"total_ranges"`
	TotalPages     int   `json:"total_pages"`
	LowestNumber   int64 `json:"lowest_number"`
	HighestNumber  int64 `json:"highest_number"`
	UniquePrefixes int   `json:"unique_prefixes"`
	UniqueSuffixes int   `json:"unique_suffixes"`
}
