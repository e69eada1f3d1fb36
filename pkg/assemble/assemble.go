// Package assemble drives Bates stamping over whole documents and
// productions: it allocates identifiers, composes overlay passes, merges
// them onto source pages, and assembles combined outputs with separator
// and index pages under one continuous sequence. All intermediate
// artifacts are in-memory buffers; a 100-page document costs zero
// temp-file creates.
package assemble

import (
	"errors"
	"strings"

	"github.com/whitfield-io/batesd/pkg/bates"
)

var (
	// ErrPasswordRequired indicates an encrypted source with no password
	// supplied. Assembly never blocks on interactive input; interactive
	// callers collect a password and retry.
	ErrPasswordRequired = errors.New("document is encrypted and requires a password")
	// ErrWrongPassword indicates the supplied password failed to decrypt
	// the source.
	ErrWrongPassword = errors.New("invalid document password")
	// ErrUnreadable indicates the source could not be parsed as a PDF.
	ErrUnreadable = errors.New("document is corrupt or not a PDF")
)

// Source is one input document for a combine operation.
type Source struct {
	Name     string
	Data     []byte
	Password string
}

// ProcessOptions controls a single-document run.
type ProcessOptions struct {
	Name         string
	Password     string
	AddSeparator bool
}

// CombineOptions controls a multi-document combine run.
type CombineOptions struct {
	// Separators inserts a range-summary page before each document.
	Separators bool
	// IndexPage prepends a table of all documents and ranges to the
	// combined output.
	IndexPage bool
	// BatesFilenames records a first-Bates-derived name for each
	// document, consumed by mapping exports.
	BatesFilenames bool
}

// Result reports the outcome of one document or one combined run.
// Cancelled is distinct from failure: a cancelled run produced no usable
// output but nothing went wrong.
type Result struct {
	Success      bool     `json:"success"`
	Cancelled    bool     `json:"cancelled"`
	FirstBates   string   `json:"first_bates,omitempty"`
	LastBates    string   `json:"last_bates,omitempty"`
	PageCount    int      `json:"page_count"`
	Warnings     []string `json:"warnings,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty"`
}

// DocumentMetadata records the Bates range stamped onto one source
// document. Produced once per document in processing order and never
// mutated afterward; consumed by conflict validation and mapping exports.
type DocumentMetadata struct {
	OriginalName string `json:"original_name"`
	NewName      string `json:"new_name,omitempty"`
	FirstBates   string `json:"first_bates"`
	LastBates    string `json:"last_bates"`
	PageCount    int    `json:"page_count"`
	Prefix       string `json:"prefix"`
	Suffix       string `json:"suffix"`
}

// Range converts the metadata record into a validatable Bates range.
func (m DocumentMetadata) Range() bates.Range {
	return bates.NewRange(m.FirstBates, m.LastBates, m.PageCount, m.Prefix, m.Suffix)
}

// isPasswordError reports whether a pdfcpu failure looks like an
// encryption/password problem. pdfcpu surfaces these as plain errors, so
// message matching is the only discriminator available.
func isPasswordError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password") || strings.Contains(msg, "encrypt")
}
