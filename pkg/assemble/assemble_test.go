package assemble_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/whitfield-io/batesd/pkg/assemble"
	"github.com/whitfield-io/batesd/pkg/bates"
	"github.com/whitfield-io/batesd/pkg/overlay"
	"github.com/whitfield-io/batesd/pkg/progress"
)

// makePDF renders an n-page PDF in memory for fixtures.
func makePDF(t *testing.T, pages int) []byte {
	t.Helper()

	pageMap := map[string]any{}
	for i := 1; i <= pages; i++ {
		pageMap[strconv.Itoa(i)] = map[string]any{
			"paper": "Letter",
			"content": map[string]any{
				"text": []map[string]any{{
					"value":  fmt.Sprintf("page %d", i),
					"anchor": "center",
					"font":   map[string]any{"name": "Helvetica", "size": 12},
				}},
			},
		}
	}

	data, err := json.Marshal(map[string]any{"pages": pageMap})
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	var buf bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(data), &buf, model.NewDefaultConfiguration()); err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	return buf.Bytes()
}

func encryptPDF(t *testing.T, data []byte, password string) []byte {
	t.Helper()

	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password

	var buf bytes.Buffer
	if err := api.Encrypt(bytes.NewReader(data), &buf, conf); err != nil {
		t.Fatalf("encrypt fixture: %v", err)
	}
	return buf.Bytes()
}

func countPages(t *testing.T, buf *bytes.Buffer) int {
	t.Helper()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	n, err := api.PageCount(bytes.NewReader(buf.Bytes()), conf)
	if err != nil {
		t.Fatalf("page count of output: %v", err)
	}
	return n
}

func newAssembler(t *testing.T, seq *bates.Sequence) *assemble.Assembler {
	t.Helper()
	return assemble.New(seq, overlay.New(&overlay.Spec{}, nil), nil, nil)
}

func TestProcessStampsAllPages(t *testing.T) {
	seq := bates.NewSequence("ABC-", "", 1, 6)
	a := newAssembler(t, seq)

	out, res := a.Process(makePDF(t, 3), assemble.ProcessOptions{Name: "doc.pdf"})
	if !res.Success {
		t.Fatalf("process failed: %s", res.ErrorMessage)
	}

	if res.FirstBates != "ABC-000001" {
		t.Errorf("first bates = %s, want ABC-000001", res.FirstBates)
	}
	if res.LastBates != "ABC-000003" {
		t.Errorf("last bates = %s, want ABC-000003", res.LastBates)
	}
	if res.PageCount != 3 {
		t.Errorf("page count = %d, want 3", res.PageCount)
	}
	if got := countPages(t, out); got != 3 {
		t.Errorf("output pages = %d, want 3", got)
	}

	// The sequence is positioned after the last allocation.
	if next := seq.Peek(); next != "ABC-000004" {
		t.Errorf("next allocation = %s, want ABC-000004", next)
	}
}

func TestProcessWithSeparator(t *testing.T) {
	seq := bates.NewSequence("P-", "", 1, 4)
	a := newAssembler(t, seq)

	out, res := a.Process(makePDF(t, 2), assemble.ProcessOptions{
		Name:         "doc.pdf",
		AddSeparator: true,
	})
	if !res.Success {
		t.Fatalf("process failed: %s", res.ErrorMessage)
	}

	// The separator page consumes no Bates numbers.
	if res.FirstBates != "P-0001" || res.LastBates != "P-0002" {
		t.Errorf("range = %s-%s, want P-0001-P-0002", res.FirstBates, res.LastBates)
	}
	if res.PageCount != 2 {
		t.Errorf("content page count = %d, want 2", res.PageCount)
	}
	if got := countPages(t, out); got != 3 {
		t.Errorf("output pages = %d, want 3 (separator + content)", got)
	}
}

func TestProcessUnreadable(t *testing.T) {
	a := newAssembler(t, bates.NewSequence("", "", 1, 4))

	out, res := a.Process([]byte("not a pdf at all"), assemble.ProcessOptions{Name: "junk.bin"})
	if res.Success {
		t.Fatal("expected failure for unreadable input")
	}
	if out != nil {
		t.Error("failed run should not return output")
	}
	if !strings.Contains(res.ErrorMessage, assemble.ErrUnreadable.Error()) {
		t.Errorf("error = %q, want unreadable", res.ErrorMessage)
	}
}

func TestProcessEncrypted(t *testing.T) {
	plain := makePDF(t, 2)
	secured := encryptPDF(t, plain, "s3cret")

	t.Run("no password", func(t *testing.T) {
		a := newAssembler(t, bates.NewSequence("E-", "", 1, 4))

		_, res := a.Process(secured, assemble.ProcessOptions{Name: "locked.pdf"})
		if res.Success {
			t.Fatal("expected failure without password")
		}
		if res.ErrorMessage != assemble.ErrPasswordRequired.Error() {
			t.Errorf("error = %q, want %q", res.ErrorMessage, assemble.ErrPasswordRequired.Error())
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		a := newAssembler(t, bates.NewSequence("E-", "", 1, 4))

		_, res := a.Process(secured, assemble.ProcessOptions{
			Name:     "locked.pdf",
			Password: "wrong",
		})
		if res.Success {
			t.Fatal("expected failure with wrong password")
		}
		if res.ErrorMessage != assemble.ErrWrongPassword.Error() {
			t.Errorf("error = %q, want %q", res.ErrorMessage, assemble.ErrWrongPassword.Error())
		}
	})

	t.Run("correct password", func(t *testing.T) {
		a := newAssembler(t, bates.NewSequence("E-", "", 1, 4))

		out, res := a.Process(secured, assemble.ProcessOptions{
			Name:     "locked.pdf",
			Password: "s3cret",
		})
		if !res.Success {
			t.Fatalf("process failed: %s", res.ErrorMessage)
		}
		if res.PageCount != 2 {
			t.Errorf("page count = %d, want 2", res.PageCount)
		}
		if out == nil || out.Len() == 0 {
			t.Error("expected stamped output")
		}
	})
}

func TestProcessCancellation(t *testing.T) {
	pagesStamped := 0
	reporter := progress.Funcs(
		func(message string, u progress.Update) { pagesStamped = u.Current },
		func() bool { return pagesStamped >= 2 },
	)

	seq := bates.NewSequence("C-", "", 1, 4)
	a := assemble.New(seq, overlay.New(&overlay.Spec{}, nil), reporter, nil)

	out, res := a.Process(makePDF(t, 5), assemble.ProcessOptions{Name: "doc.pdf"})

	if !res.Cancelled {
		t.Fatal("expected cancelled result")
	}
	if res.Success {
		t.Error("cancelled run must not report success")
	}
	if out != nil {
		t.Error("cancelled run must not return output")
	}
	if pagesStamped != 2 {
		t.Errorf("cancellation honored after page %d, want 2", pagesStamped)
	}
}

func TestCombineContinuity(t *testing.T) {
	seq := bates.NewSequence("PLAINTIFF-PROD-", "", 1, 6)
	a := newAssembler(t, seq)

	sources := []assemble.Source{
		{Name: "first.pdf", Data: makePDF(t, 2)},
		{Name: "second.pdf", Data: makePDF(t, 3)},
	}

	out, meta, res := a.Combine(sources, assemble.CombineOptions{})
	if !res.Success {
		t.Fatalf("combine failed: %s", res.ErrorMessage)
	}

	if len(meta) != 2 {
		t.Fatalf("metadata entries = %d, want 2", len(meta))
	}

	// Numbering is continuous across the document boundary.
	if meta[0].FirstBates != "PLAINTIFF-PROD-000001" || meta[0].LastBates != "PLAINTIFF-PROD-000002" {
		t.Errorf("first doc range = %s-%s", meta[0].FirstBates, meta[0].LastBates)
	}
	if meta[1].FirstBates != "PLAINTIFF-PROD-000003" || meta[1].LastBates != "PLAINTIFF-PROD-000005" {
		t.Errorf("second doc range = %s-%s", meta[1].FirstBates, meta[1].LastBates)
	}

	if res.FirstBates != meta[0].FirstBates || res.LastBates != meta[1].LastBates {
		t.Errorf("combined range = %s-%s", res.FirstBates, res.LastBates)
	}
	if res.PageCount != 5 {
		t.Errorf("combined page count = %d, want 5", res.PageCount)
	}
	if got := countPages(t, out); got != 5 {
		t.Errorf("output pages = %d, want 5", got)
	}
}

func TestCombineWithSeparatorsAndIndex(t *testing.T) {
	seq := bates.NewSequence("X-", "", 1, 4)
	a := newAssembler(t, seq)

	sources := []assemble.Source{
		{Name: "a.pdf", Data: makePDF(t, 2)},
		{Name: "b.pdf", Data: makePDF(t, 2)},
	}

	out, meta, res := a.Combine(sources, assemble.CombineOptions{
		Separators:     true,
		IndexPage:      true,
		BatesFilenames: true,
	})
	if !res.Success {
		t.Fatalf("combine failed: %s", res.ErrorMessage)
	}

	// 4 content pages + 2 separators + 1 index page.
	want := 7
	if res.PageCount != want {
		t.Errorf("page count = %d, want %d", res.PageCount, want)
	}
	if got := countPages(t, out); got != want {
		t.Errorf("output pages = %d, want %d", got, want)
	}

	// Separator and index pages never consume Bates numbers.
	if meta[1].LastBates != "X-0004" {
		t.Errorf("last bates = %s, want X-0004", meta[1].LastBates)
	}

	if meta[0].NewName != "X-0001.pdf" {
		t.Errorf("new name = %s, want X-0001.pdf", meta[0].NewName)
	}
}

func TestCombineNoSources(t *testing.T) {
	a := newAssembler(t, bates.NewSequence("", "", 1, 4))

	_, _, res := a.Combine(nil, assemble.CombineOptions{})
	if res.Success {
		t.Fatal("expected failure for empty source list")
	}
}

func TestCombineFailureNamesDocument(t *testing.T) {
	a := newAssembler(t, bates.NewSequence("F-", "", 1, 4))

	sources := []assemble.Source{
		{Name: "good.pdf", Data: makePDF(t, 1)},
		{Name: "bad.bin", Data: []byte("garbage")},
	}

	_, _, res := a.Combine(sources, assemble.CombineOptions{})
	if res.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(res.ErrorMessage, "bad.bin") {
		t.Errorf("error %q should name the failing document", res.ErrorMessage)
	}
}
