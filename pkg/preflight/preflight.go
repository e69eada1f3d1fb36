// Package preflight inspects candidate documents before a production
// run: size and page limits, header integrity, encryption status, and
// page geometry. A report never fails a run by itself; callers decide
// which issues block stamping.
package preflight

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/whitfield-io/batesd/pkg/formatting"
)

// Severity grades a preflight issue.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue codes.
const (
	CodeNotPDF       = "not_pdf"
	CodeTooLarge     = "too_large"
	CodeTooManyPages = "too_many_pages"
	CodeEncrypted    = "encrypted"
	CodeUnreadable   = "unreadable"
	CodeEmptyPages   = "empty"
	CodeOddPageSize  = "odd_page_size"
)

// Issue is one finding from a preflight check.
type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

// Report is the outcome of checking one document.
type Report struct {
	PageCount int     `json:"page_count"`
	Size      int64   `json:"size"`
	Encrypted bool    `json:"encrypted"`
	Issues    []Issue `json:"issues"`
}

// OK reports whether the document passed without error-grade issues.
func (r Report) OK() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return false
		}
	}
	return true
}

var pdfHeader = []byte("%PDF-")

// Validator checks documents against configured limits. Zero limits
// disable the corresponding check.
type Validator struct {
	MaxFileSize int64
	MaxPages    int

	logger *slog.Logger
}

// New creates a Validator. logger may be nil.
func New(maxFileSize int64, maxPages int, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Validator{
		MaxFileSize: maxFileSize,
		MaxPages:    maxPages,
		logger:      logger.With("system", "preflight"),
	}
}

// Check inspects data and returns a Report. It never returns an error;
// unreadable input is itself a finding.
func (v *Validator) Check(data []byte) Report {
	report := Report{Size: int64(len(data)), Issues: []Issue{}}

	if !bytes.HasPrefix(data, pdfHeader) {
		report.Issues = append(report.Issues, Issue{
			Severity: SeverityError,
			Code:     CodeNotPDF,
			Message:  "file does not begin with a PDF header",
		})
		return report
	}

	if v.MaxFileSize > 0 && report.Size > v.MaxFileSize {
		report.Issues = append(report.Issues, Issue{
			Severity: SeverityError,
			Code:     CodeTooLarge,
			Message: fmt.Sprintf("file size %s exceeds limit %s",
				formatting.FormatBytes(report.Size, 1),
				formatting.FormatBytes(v.MaxFileSize, 1)),
		})
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	count, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		if isEncryptionError(err) {
			report.Encrypted = true
			report.Issues = append(report.Issues, Issue{
				Severity: SeverityWarning,
				Code:     CodeEncrypted,
				Message:  "document is encrypted; a password will be required for stamping",
			})
			return report
		}
		report.Issues = append(report.Issues, Issue{
			Severity: SeverityError,
			Code:     CodeUnreadable,
			Message:  fmt.Sprintf("document could not be parsed: %v", err),
		})
		return report
	}
	report.PageCount = count

	if count < 1 {
		report.Issues = append(report.Issues, Issue{
			Severity: SeverityError,
			Code:     CodeEmptyPages,
			Message:  "document has no pages",
		})
		return report
	}
	if v.MaxPages > 0 && count > v.MaxPages {
		report.Issues = append(report.Issues, Issue{
			Severity: SeverityError,
			Code:     CodeTooManyPages,
			Message:  fmt.Sprintf("page count %d exceeds limit %d", count, v.MaxPages),
		})
	}

	v.checkPageGeometry(data, conf, &report)

	v.logger.Debug("preflight complete",
		"pages", report.PageCount,
		"size", report.Size,
		"issues", len(report.Issues))
	return report
}

// checkPageGeometry flags degenerate page dimensions, which produce
// misplaced stamps rather than failures.
func (v *Validator) checkPageGeometry(data []byte, conf *model.Configuration, report *Report) {
	dims, err := api.PageDims(bytes.NewReader(data), conf)
	if err != nil {
		return
	}
	for i, d := range dims {
		if d.Width < 72 || d.Height < 72 {
			report.Issues = append(report.Issues, Issue{
				Severity: SeverityWarning,
				Code:     CodeOddPageSize,
				Message:  fmt.Sprintf("page %d is %.0fx%.0fpt; stamps may not fit", i+1, d.Width, d.Height),
			})
			return
		}
	}
}

func isEncryptionError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password") || strings.Contains(msg, "encrypt")
}
