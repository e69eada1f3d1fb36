package assemble

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/whitfield-io/batesd/pkg/bates"
	"github.com/whitfield-io/batesd/pkg/overlay"
	"github.com/whitfield-io/batesd/pkg/progress"
)

// Assembler stamps documents against one Bates sequence. It owns the
// sequence for the duration of a run; callers must not allocate from it
// concurrently. Overlay failures on optional elements (watermark, QR,
// logo, date line) degrade to warnings; only the Bates stamp itself and
// source readability are fatal.
type Assembler struct {
	seq      *bates.Sequence
	composer *overlay.Composer
	reporter progress.Reporter
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an Assembler. reporter and logger may be nil.
func New(seq *bates.Sequence, composer *overlay.Composer, reporter progress.Reporter, logger *slog.Logger) *Assembler {
	if reporter == nil {
		reporter = progress.Noop()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Assembler{
		seq:      seq,
		composer: composer,
		reporter: reporter,
		logger:   logger.With("system", "assemble"),
		now:      time.Now,
	}
}

// Sequence returns the assembler's sequence, positioned after the last
// allocation.
func (a *Assembler) Sequence() *bates.Sequence {
	return a.seq
}

// Process stamps a single document and returns the assembled output.
// The sequence advances once per content page. Cancellation is honored
// before the document is opened and before each page allocation; a
// cancelled run returns a nil buffer and a Result with Cancelled set.
func (a *Assembler) Process(src []byte, opts ProcessOptions) (*bytes.Buffer, Result) {
	var res Result
	if a.checkpoint(&res) {
		return nil, res
	}

	work, total, err := a.open(src, opts.Password)
	if err != nil {
		a.logger.Error("open failed", "name", opts.Name, "error", err)
		return nil, failure(res, err)
	}
	res.PageCount = total

	spec := a.composer.Spec()

	// Separator content is known before any allocation: the range the
	// document will occupy is [Peek, PeekAt(total-1)].
	var sep *bytes.Buffer
	if opts.AddSeparator {
		first, last := a.seq.Peek(), a.seq.PeekAt(int64(total)-1)
		width, height := a.pageSize(work)
		sep, err = a.composer.RenderSeparator(width, height, first, last)
		if err != nil {
			return nil, failure(res, err)
		}
		sep = a.decorateSeparator(sep, first, &res)
	}

	stamps := make(map[int]*model.Watermark, total)
	qrAll := spec.QR != nil && spec.QR.Placement == overlay.QRAllPages
	var qrStamps map[int]*model.Watermark
	if qrAll {
		qrStamps = make(map[int]*model.Watermark, total)
	}

	for i := 1; i <= total; i++ {
		if a.checkpoint(&res) {
			return nil, res
		}
		a.reporter.Progress(
			fmt.Sprintf("Stamping page %d of %d", i, total),
			progress.Update{
				Current:      i,
				Total:        total,
				FileName:     opts.Name,
				FileProgress: float64(i) / float64(total),
			},
		)

		id := a.seq.Allocate()
		if res.FirstBates == "" {
			res.FirstBates = id
		}
		res.LastBates = id

		wm, err := a.composer.BatesStamp(id)
		if err != nil {
			return nil, failure(res, err)
		}
		stamps[i] = wm

		if qrStamps != nil {
			q, err := a.composer.QRStamp(id)
			if err != nil {
				res.Warnings = append(res.Warnings, fmt.Sprintf("qr stamping skipped: %v", err))
				qrStamps = nil
			} else {
				qrStamps[i] = q
			}
		}
	}

	// Watermark goes down first so the identifiers render above it.
	if spec.Watermark != nil {
		if wm, err := a.composer.WatermarkStamp(); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("watermark skipped: %v", err))
		} else if work, err = applyAll(work, wm, nil); err != nil {
			return nil, failure(res, fmt.Errorf("apply watermark: %w", err))
		}
	}

	if work, err = applyMap(work, stamps); err != nil {
		return nil, failure(res, fmt.Errorf("apply bates stamps: %w", err))
	}

	if spec.IncludeDate {
		if wm, err := a.composer.DateStamp(a.now()); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("date line skipped: %v", err))
		} else if work, err = applyAll(work, wm, nil); err != nil {
			return nil, failure(res, fmt.Errorf("apply date line: %w", err))
		}
	}

	if len(qrStamps) > 0 {
		if work, err = applyMap(work, qrStamps); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("qr stamping skipped: %v", err))
		}
	}

	if spec.Logo != nil && spec.Logo.Placement != overlay.LogoSeparatorOnly {
		var pages []string
		if spec.Logo.Placement == overlay.LogoFirstPage {
			pages = []string{"1"}
		}
		if wm, err := a.composer.LogoStamp(); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("logo skipped: %v", err))
		} else if work, err = applyAll(work, wm, pages); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("logo skipped: %v", err))
		}
	}

	out := bytes.NewBuffer(work)
	if sep != nil {
		var merged bytes.Buffer
		err := api.MergeRaw(
			[]io.ReadSeeker{bytes.NewReader(sep.Bytes()), bytes.NewReader(work)},
			&merged, false, newConfiguration(),
		)
		if err != nil {
			return nil, failure(res, fmt.Errorf("merge separator: %w", err))
		}
		out = &merged
	}

	res.Success = true
	return out, res
}

// decorateSeparator applies separator-scoped overlay elements to a
// rendered separator page. Failures degrade to warnings and return the
// page undecorated.
func (a *Assembler) decorateSeparator(sep *bytes.Buffer, firstID string, res *Result) *bytes.Buffer {
	spec := a.composer.Spec()
	data := sep.Bytes()

	if spec.Watermark != nil && spec.Watermark.Scope == overlay.WatermarkAllPages {
		if wm, err := a.composer.WatermarkStamp(); err == nil {
			if stamped, err := applyAll(data, wm, nil); err == nil {
				data = stamped
			} else {
				res.Warnings = append(res.Warnings, fmt.Sprintf("separator watermark skipped: %v", err))
			}
		}
	}

	if spec.QR != nil && spec.QR.Placement == overlay.QRSeparatorOnly {
		if wm, err := a.composer.QRStamp(firstID); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("separator qr skipped: %v", err))
		} else if stamped, err := applyAll(data, wm, nil); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("separator qr skipped: %v", err))
		} else {
			data = stamped
		}
	}

	if spec.Logo != nil && spec.Logo.Placement == overlay.LogoSeparatorOnly {
		if wm, err := a.composer.LogoStamp(); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("separator logo skipped: %v", err))
		} else if stamped, err := applyAll(data, wm, nil); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("separator logo skipped: %v", err))
		} else {
			data = stamped
		}
	}

	return bytes.NewBuffer(data)
}

// open validates the source, resolves encryption, and returns the bytes
// to stamp plus the page count. Encrypted sources are decrypted in
// memory so later stamping passes see a plain document.
func (a *Assembler) open(src []byte, password string) ([]byte, int, error) {
	conf := newConfiguration()
	if password != "" {
		conf.UserPW = password
		conf.OwnerPW = password
	}

	total, err := api.PageCount(bytes.NewReader(src), conf)
	if err != nil {
		if isPasswordError(err) {
			if password == "" {
				return nil, 0, ErrPasswordRequired
			}
			return nil, 0, ErrWrongPassword
		}
		return nil, 0, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if total < 1 {
		return nil, 0, fmt.Errorf("%w: document has no pages", ErrUnreadable)
	}

	if password != "" {
		var out bytes.Buffer
		if err := api.Decrypt(bytes.NewReader(src), &out, conf); err == nil {
			return out.Bytes(), total, nil
		}
		// A password supplied for an unencrypted source is harmless.
	}
	return src, total, nil
}

// pageSize returns the first page's dimensions in points, falling back to
// Letter when they cannot be read.
func (a *Assembler) pageSize(data []byte) (width, height float64) {
	dims, err := api.PageDims(bytes.NewReader(data), newConfiguration())
	if err != nil || len(dims) == 0 {
		a.logger.Warn("page dimensions unavailable, using letter", "error", err)
		return 612, 792
	}
	return dims[0].Width, dims[0].Height
}

func (a *Assembler) checkpoint(res *Result) bool {
	if a.reporter.Cancelled() {
		res.Cancelled = true
		a.logger.Info("run cancelled")
		return true
	}
	return false
}

func failure(res Result, err error) Result {
	res.Success = false
	res.ErrorMessage = err.Error()
	return res
}

// applyMap stamps per-page watermarks over data, returning a new buffer.
func applyMap(data []byte, m map[int]*model.Watermark) ([]byte, error) {
	var out bytes.Buffer
	if err := api.AddWatermarksMap(bytes.NewReader(data), &out, m, newConfiguration()); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// applyAll stamps one watermark over the selected pages (nil for all).
func applyAll(data []byte, wm *model.Watermark, pages []string) ([]byte, error) {
	var out bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(data), &out, pages, wm, newConfiguration()); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
