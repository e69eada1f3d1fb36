package bates_test

import (
	"testing"

	"github.com/whitfield-io/batesd/pkg/bates"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		number  int64
		prefix  string
		suffix  string
		padding int
		want    string
	}{
		{"prefix only", 1, "ABC-", "", 6, "ABC-000001"},
		{"no affixes", 42, "", "", 4, "0042"},
		{"prefix and suffix", 7, "DEF", "-CONF", 5, "DEF00007-CONF"},
		{"number wider than padding", 1234567, "ABC-", "", 4, "ABC-1234567"},
		{"single digit padding", 9, "X", "", 1, "X9"},
		{"production example", 1, "PLAINTIFF-PROD-", "", 6, "PLAINTIFF-PROD-000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bates.Format(tt.number, tt.prefix, tt.suffix, tt.padding)
			if got != tt.want {
				t.Errorf("Format(%d, %q, %q, %d) = %q, want %q",
					tt.number, tt.prefix, tt.suffix, tt.padding, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		wantPrefix string
		wantNumber int64
		wantSuffix string
		wantErr    bool
	}{
		{"prefix only", "ABC-000123", "ABC-", 123, "", false},
		{"bare number", "0042", "", 42, "", false},
		{"prefix and suffix", "DEF00007-CONF", "DEF", 7, "-CONF", false},
		{"no digits", "ABCDEF", "", 0, "", true},
		{"empty", "", "", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefix, number, suffix, err := bates.Parse(tt.id)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if prefix != tt.wantPrefix || number != tt.wantNumber || suffix != tt.wantSuffix {
				t.Errorf("Parse(%q) = (%q, %d, %q), want (%q, %d, %q)",
					tt.id, prefix, number, suffix, tt.wantPrefix, tt.wantNumber, tt.wantSuffix)
			}
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		number  int64
		prefix  string
		suffix  string
		padding int
	}{
		{"simple", 17, "ABC-", "", 6},
		{"suffixed", 305, "CASE", "-X", 4},
		{"plain", 9999, "", "", 4},
		{"beyond padding", 123456789, "P-", "", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := bates.Format(tt.number, tt.prefix, tt.suffix, tt.padding)
			prefix, number, suffix, err := bates.Parse(id)
			if err != nil {
				t.Fatalf("parse of formatted id %q: %v", id, err)
			}
			if prefix != tt.prefix || number != tt.number || suffix != tt.suffix {
				t.Errorf("round trip of %q: got (%q, %d, %q)", id, prefix, number, suffix)
			}
		})
	}
}

func TestExtractNumber(t *testing.T) {
	tests := []struct {
		id   string
		want int64
	}{
		{"ABC-000123", 123},
		{"0042", 42},
		{"no digits here", 0},
	}

	for _, tt := range tests {
		if got := bates.ExtractNumber(tt.id); got != tt.want {
			t.Errorf("ExtractNumber(%q) = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestPaddingOf(t *testing.T) {
	tests := []struct {
		id   string
		want int
	}{
		{"ABC-000123", 6},
		{"X9", 1},
		{"nodigits", 0},
	}

	for _, tt := range tests {
		if got := bates.PaddingOf(tt.id); got != tt.want {
			t.Errorf("PaddingOf(%q) = %d, want %d", tt.id, got, tt.want)
		}
	}
}
