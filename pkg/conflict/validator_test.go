package conflict_test

import (
	"testing"

	"github.com/whitfield-io/batesd/pkg/bates"
	"github.com/whitfield-io/batesd/pkg/conflict"
)

func findingsOfType(findings []conflict.Finding, typ conflict.Type) []conflict.Finding {
	out := make([]conflict.Finding, 0)
	for _, f := range findings {
		if f.Type == typ {
			out = append(out, f)
		}
	}
	return out
}

func TestValidateClean(t *testing.T) {
	v := conflict.New(nil)
	v.AddRange("CASE-0001", "CASE-0005", 5, "CASE-", "")
	v.AddRange("CASE-0006", "CASE-0010", 5, "CASE-", "")

	if findings := v.Validate(); len(findings) != 0 {
		t.Errorf("expected no findings, got %v", findings)
	}
}

func TestValidateOverlap(t *testing.T) {
	v := conflict.New(nil)
	v.AddRange("CASE-0001", "CASE-0005", 5, "CASE-", "")
	v.AddRange("CASE-0003", "CASE-0007", 5, "CASE-", "")

	findings := v.Validate()

	overlaps := findingsOfType(findings, conflict.TypeOverlap)
	if len(overlaps) != 1 {
		t.Fatalf("overlap findings = %d, want 1", len(overlaps))
	}
	if overlaps[0].Severity != conflict.SeverityError {
		t.Errorf("overlap severity = %s, want error", overlaps[0].Severity)
	}
	if len(overlaps[0].Ranges) != 2 {
		t.Errorf("overlap ranges = %d, want 2", len(overlaps[0].Ranges))
	}

	// The shared numbers 0003-0005 also surface as duplicates.
	dups := findingsOfType(findings, conflict.TypeDuplicate)
	if len(dups) != 1 {
		t.Fatalf("duplicate findings = %d, want 1", len(dups))
	}
	wantNumbers := []string{"CASE-0003", "CASE-0004", "CASE-0005"}
	if len(dups[0].Numbers) != len(wantNumbers) {
		t.Fatalf("duplicate numbers = %v, want %v", dups[0].Numbers, wantNumbers)
	}
	for i, n := range wantNumbers {
		if dups[0].Numbers[i] != n {
			t.Errorf("duplicate number %d = %q, want %q", i, dups[0].Numbers[i], n)
		}
	}
}

func TestValidateGap(t *testing.T) {
	v := conflict.New(nil)
	v.AddRange("P-0001", "P-0005", 5, "P-", "")
	v.AddRange("P-0010", "P-0012", 3, "P-", "")

	findings := v.Validate()

	gaps := findingsOfType(findings, conflict.TypeGap)
	if len(gaps) != 1 {
		t.Fatalf("gap findings = %d, want 1", len(gaps))
	}
	if gaps[0].Severity != conflict.SeverityWarning {
		t.Errorf("gap severity = %s, want warning", gaps[0].Severity)
	}
	if gaps[0].GapSize != 4 {
		t.Errorf("gap size = %d, want 4", gaps[0].GapSize)
	}
}

func TestValidateGapIgnoresOtherSpaces(t *testing.T) {
	v := conflict.New(nil)
	v.AddRange("A-0001", "A-0005", 5, "A-", "")
	v.AddRange("B-0100", "B-0104", 5, "B-", "")

	if gaps := findingsOfType(v.Validate(), conflict.TypeGap); len(gaps) != 0 {
		t.Errorf("cross-space gap reported: %v", gaps)
	}
}

func TestValidateSequentialMismatch(t *testing.T) {
	v := conflict.New(nil)
	v.AddRange("P-0001", "P-0010", 5, "P-", "")

	findings := v.Validate()

	seq := findingsOfType(findings, conflict.TypeSequential)
	if len(seq) != 1 {
		t.Fatalf("sequential findings = %d, want 1", len(seq))
	}
	if seq[0].Severity != conflict.SeverityError {
		t.Errorf("severity = %s, want error", seq[0].Severity)
	}
}

func TestValidateDifferentPaddingSameNumbers(t *testing.T) {
	// Same numeric interval written with different padding still collides.
	v := conflict.New(nil)
	v.AddRange("X-001", "X-003", 3, "X-", "")
	v.AddRange("X-0001", "X-0003", 3, "X-", "")

	overlaps := findingsOfType(v.Validate(), conflict.TypeOverlap)
	if len(overlaps) != 1 {
		t.Errorf("overlap findings = %d, want 1", len(overlaps))
	}
}

func TestSuggestNextRange(t *testing.T) {
	tests := []struct {
		name      string
		seed      []bates.Range
		prefix    string
		suffix    string
		pages     int
		wantFirst string
		wantLast  string
	}{
		{
			name: "follows highest in space",
			seed: []bates.Range{
				bates.NewRange("CASE-0001", "CASE-0005", 5, "CASE-", ""),
				bates.NewRange("CASE-0010", "CASE-0012", 3, "CASE-", ""),
			},
			prefix: "CASE-", suffix: "", pages: 4,
			wantFirst: "CASE-0013", wantLast: "CASE-0016",
		},
		{
			name:   "empty space starts at one",
			prefix: "NEW-", suffix: "", pages: 3,
			wantFirst: "NEW-0001", wantLast: "NEW-0003",
		},
		{
			name: "other spaces ignored",
			seed: []bates.Range{
				bates.NewRange("OTHER-0900", "OTHER-0950", 51, "OTHER-", ""),
			},
			prefix: "CASE-", suffix: "", pages: 1,
			wantFirst: "CASE-0001", wantLast: "CASE-0001",
		},
		{
			name: "padding follows observed width",
			seed: []bates.Range{
				bates.NewRange("P-000007", "P-000009", 3, "P-", ""),
			},
			prefix: "P-", suffix: "", pages: 2,
			wantFirst: "P-000010", wantLast: "P-000011",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := conflict.New(nil)
			for _, r := range tt.seed {
				v.Add(r)
			}

			first, last := v.SuggestNextRange(tt.prefix, tt.suffix, tt.pages)
			if first != tt.wantFirst || last != tt.wantLast {
				t.Errorf("SuggestNextRange = (%q, %q), want (%q, %q)",
					first, last, tt.wantFirst, tt.wantLast)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	v := conflict.New(nil)
	v.AddRange("A-0001", "A-0005", 5, "A-", "")
	v.AddRange("A-0006", "A-0015", 10, "A-", "")
	v.AddRange("B-0001", "B-0002", 2, "B-", "")

	s := v.Summarize()
	if s.TotalRanges != 3 {
		t.Errorf("TotalRanges = %d, want 3", s.TotalRanges)
	}
	if s.TotalPages != 17 {
		t.Errorf("TotalPages = %d, want 17", s.TotalPages)
	}
	if s.LowestNumber != 1 {
		t.Errorf("LowestNumber = %d, want 1", s.LowestNumber)
	}
	if s.HighestNumber != 15 {
		t.Errorf("HighestNumber = %d, want 15", s.HighestNumber)
	}
	if s.UniquePrefixes != 2 {
		t.Errorf("UniquePrefixes = %d, want 2", s.UniquePrefixes)
	}
}

func TestClear(t *testing.T) {
	v := conflict.New(nil)
	v.AddRange("A-0001", "A-0005", 5, "A-", "")
	v.Clear()

	if len(v.Ranges()) != 0 {
		t.Errorf("ranges after Clear = %d, want 0", len(v.Ranges()))
	}
}
