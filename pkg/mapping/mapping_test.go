package mapping_test

import (
	"encoding/json"
	"testing"

	"github.com/whitfield-io/batesd/pkg/assemble"
	"github.com/whitfield-io/batesd/pkg/mapping"
)

func sampleMeta() []assemble.DocumentMetadata {
	return []assemble.DocumentMetadata{
		{
			OriginalName: "contract.pdf",
			NewName:      "ABC-000001.pdf",
			FirstBates:   "ABC-000001",
			LastBates:    "ABC-000010",
			PageCount:    10,
			Prefix:       "ABC-",
		},
		{
			OriginalName: "exhibit, A.pdf",
			NewName:      "ABC-000011.pdf",
			FirstBates:   "ABC-000011",
			LastBates:    "ABC-000013",
			PageCount:    3,
			Prefix:       "ABC-",
		},
	}
}

func TestCSV(t *testing.T) {
	data, err := mapping.CSV(sampleMeta())
	if err != nil {
		t.Fatalf("CSV failed: %v", err)
	}

	want := "Original Filename,New Filename,First Bates,Last Bates,Page Count\n" +
		"contract.pdf,ABC-000001.pdf,ABC-000001,ABC-000010,10\n" +
		"\"exhibit, A.pdf\",ABC-000011.pdf,ABC-000011,ABC-000013,3\n"

	if string(data) != want {
		t.Errorf("CSV output:\n%s\nwant:\n%s", data, want)
	}
}

func TestCSVEmpty(t *testing.T) {
	data, err := mapping.CSV(nil)
	if err != nil {
		t.Fatalf("CSV failed: %v", err)
	}

	want := "Original Filename,New Filename,First Bates,Last Bates,Page Count\n"
	if string(data) != want {
		t.Errorf("CSV output for empty input:\n%s\nwant header only", data)
	}
}

func TestJSON(t *testing.T) {
	data, err := mapping.JSON(sampleMeta())
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	var parsed []assemble.DocumentMetadata
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("parsed %d entries, want 2", len(parsed))
	}
	if parsed[0].FirstBates != "ABC-000001" {
		t.Errorf("first entry FirstBates = %s", parsed[0].FirstBates)
	}
}

func TestJSONNilIsEmptyArray(t *testing.T) {
	data, err := mapping.JSON(nil)
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("JSON(nil) = %s, want []", data)
	}
}

func TestPDF(t *testing.T) {
	buf, err := mapping.PDF(sampleMeta())
	if err != nil {
		t.Fatalf("PDF failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("PDF output is empty")
	}
	if string(buf.Bytes()[:5]) != "%PDF-" {
		t.Error("PDF output missing header")
	}
}

func TestBatesFilename(t *testing.T) {
	tests := []struct {
		name     string
		first    string
		original string
		want     string
	}{
		{"plain", "ABC-000001", "contract.pdf", "ABC-000001.pdf"},
		{"no extension defaults to pdf", "ABC-000001", "contract", "ABC-000001.pdf"},
		{"unsafe characters replaced", "A/B 0001", "doc.pdf", "A_B_0001.pdf"},
		{"extension preserved", "X-0001", "scan.PDF", "X-0001.PDF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapping.BatesFilename(tt.first, tt.original); got != tt.want {
				t.Errorf("BatesFilename(%q, %q) = %q, want %q", tt.first, tt.original, got, tt.want)
			}
		})
	}
}
