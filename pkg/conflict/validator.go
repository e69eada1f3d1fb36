package conflict

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/whitfield-io/batesd/pkg/bates"
)

// Validator accumulates Bates ranges and checks them for numbering
// conflicts. The zero value is not usable; create one with New.
type Validator struct {
	ranges []bates.Range
	logger *slog.Logger
}

// New creates a Validator. A nil logger disables diagnostic logging.
func New(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Validator{
		ranges: make([]bates.Range, 0),
		logger: logger.With("system", "conflict"),
	}
}

// Add registers a range for validation.
func (v *Validator) Add(r bates.Range) {
	v.ranges = append(v.ranges, r)
}

// AddRange builds a range from formatted identifiers and registers it.
func (v *Validator) AddRange(first, last string, pageCount int, prefix, suffix string) {
	v.Add(bates.NewRange(first, last, pageCount, prefix, suffix))
}

// Ranges returns the registered ranges in insertion order.
func (v *Validator) Ranges() []bates.Range {
	return v.ranges
}

// Clear removes all registered ranges.
func (v *Validator) Clear() {
	v.ranges = v.ranges[:0]
}

// Validate runs every check and returns the combined findings:
// overlaps, duplicates, gaps, then sequential mismatches.
func (v *Validator) Validate() []Finding {
	findings := make([]Finding, 0)
	findings = append(findings, v.checkOverlaps()...)
	findings = append(findings, v.checkDuplicates()...)
	findings = append(findings, v.checkGaps()...)
	findings = append(findings, v.checkSequential()...)

	v.logger.Info("validation complete", "ranges", len(v.ranges), "findings", len(findings))
	return findings
}

func (v *Validator) checkOverlaps() []Finding {
	findings := make([]Finding, 0)

	for i, a := range v.ranges {
		for _, b := range v.ranges[i+1:] {
			if !a.Overlaps(b) {
				continue
			}
			f := Finding{
				Type:     TypeOverlap,
				Severity: SeverityError,
				Description: fmt.Sprintf(
					"bates ranges overlap: %s-%s and %s-%s",
					a.First, a.Last, b.First, b.Last,
				),
				Ranges: []bates.Range{a, b},
			}
			findings = append(findings, f)
			v.logger.Warn("overlap detected", "first", a.First, "second", b.First)
		}
	}

	return findings
}

// checkDuplicates expands every range into its individual formatted
// numbers and reports any number produced by more than one range. The
// expansion is O(total pages) but catches collisions that interval math
// over (prefix, suffix) buckets would miss when padding differs.
func (v *Validator) checkDuplicates() []Finding {
	counts := make(map[string]int)

	for _, r := range v.ranges {
		width := r.PaddingWidth()
		for i := 0; i < r.PageCount; i++ {
			id := bates.Format(r.FirstNumber+int64(i), r.Prefix, r.Suffix, width)
			counts[id]++
		}
	}

	duplicates := make([]string, 0)
	for id, n := range counts {
		if n > 1 {
			duplicates = append(duplicates, id)
		}
	}
	if len(duplicates) == 0 {
		return nil
	}
	sort.Strings(duplicates)

	v.logger.Warn("duplicate numbers detected", "count", len(duplicates))

	return []Finding{{
		Type:        TypeDuplicate,
		Severity:    SeverityError,
		Description: fmt.Sprintf("found %d duplicate bates number(s)", len(duplicates)),
		Numbers:     duplicates,
	}}
}

func (v *Validator) checkGaps() []Finding {
	if len(v.ranges) < 2 {
		return nil
	}

	sorted := make([]bates.Range, len(v.ranges))
	copy(sorted, v.ranges)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FirstNumber < sorted[j].FirstNumber
	})

	findings := make([]Finding, 0)
	for i := 0; i < len(sorted)-1; i++ {
		current, next := sorted[i], sorted[i+1]
		if !current.SameSpace(next) {
			continue
		}

		gap := next.FirstNumber - current.LastNumber - 1
		if gap <= 0 {
			continue
		}

		findings = append(findings, Finding{
			Type:     TypeGap,
			Severity: SeverityWarning,
			Description: fmt.Sprintf(
				"gap of %d number(s) between %s and %s",
				gap, current.Last, next.First,
			),
			Ranges:  []bates.Range{current, next},
			GapSize: gap,
		})
	}

	return findings
}

func (v *Validator) checkSequential() []Finding {
	findings := make([]Finding, 0)

	for _, r := range v.ranges {
		if r.Sequential() {
			continue
		}
		expected := r.LastNumber - r.FirstNumber + 1
		findings = append(findings, Finding{
			Type:     TypeSequential,
			Severity: SeverityError,
			Description: fmt.Sprintf(
				"range %s-%s has %d pages but should have %d",
				r.First, r.Last, r.PageCount, expected,
			),
			Ranges: []bates.Range{r},
		})
	}

	return findings
}

// SuggestNextRange returns the first free (first, last) identifier pair
// immediately following the highest number seen for the given numbering
// space, formatted with the padding width observed on that highest range.
// With no prior ranges in the space, numbering starts at 1 with the
// default padding.
func (v *Validator) SuggestNextRange(prefix, suffix string, pageCount int) (first, last string) {
	if pageCount < 1 {
		pageCount = 1
	}

	var max int64
	width := bates.DefaultPadding

	for _, r := range v.ranges {
		if r.Prefix != prefix || r.Suffix != suffix {
			continue
		}
		if r.LastNumber > max {
			max = r.LastNumber
			if w := r.PaddingWidth(); w > 0 {
				width = w
			}
		}
	}

	firstNum := max + 1
	lastNum := firstNum + int64(pageCount) - 1

	return bates.Format(firstNum, prefix, suffix, width),
		bates.Format(lastNum, prefix, suffix, width)
}

// Summarize reports aggregate statistics across all registered ranges.
func (v *Validator) Summarize() Summary {
	s := Summary{TotalRanges: len(v.ranges)}
	if len(v.ranges) == 0 {
		return s
	}

	prefixes := make(map[string]struct{})
	suffixes := make(map[string]struct{})
	s.LowestNumber = v.ranges[0].FirstNumber

	for _, r := range v.ranges {
		s.TotalPages += r.PageCount
		if r.FirstNumber < s.LowestNumber {
			s.LowestNumber = r.FirstNumber
		}
		if r.LastNumber > s.HighestNumber {
			s.HighestNumber = r.LastNumber
		}
		prefixes[r.Prefix] = struct{}{}
		suffixes[r.Suffix] = struct{}{}
	}

	s.UniquePrefixes = len(prefixes)
	s.UniqueSuffixes = len(suffixes)
	return s
}
