package overlay

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/skip2/go-qrcode"
)

// pointsPerInch converts the inch-denominated spec fields to PDF points.
const pointsPerInch = 72.0

// Composer renders the overlay elements for one production as pdfcpu
// stamp descriptors and in-memory page buffers. Every product of a
// Composer is an owned in-memory value; the type performs no filesystem
// access, which is what keeps per-page stamping free of temp-file churn.
type Composer struct {
	spec   *Spec
	logger *slog.Logger
}

// New creates a Composer over the given spec, normalizing it if the
// caller has not already done so. Normalization warnings are logged.
func New(spec *Spec, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("system", "overlay")

	if !spec.normalized {
		for _, w := range spec.Normalize() {
			logger.Warn("spec degraded", "warning", w)
		}
	}

	return &Composer{spec: spec, logger: logger}
}

// Spec returns the composer's normalized spec.
func (c *Composer) Spec() *Spec {
	return c.spec
}

// BatesStamp builds the text stamp for one Bates identifier.
func (c *Composer) BatesStamp(id string) (*model.Watermark, error) {
	desc := c.textDesc(c.spec.Position, c.spec.font, c.spec.FontSize, c.spec.fontColor, 0)
	wm, err := api.TextWatermark(id, desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("bates stamp %s: %w", id, err)
	}
	return wm, nil
}

// DateStamp builds the date line rendered beneath the Bates identifier,
// sharing its anchor and background treatment.
func (c *Composer) DateStamp(now time.Time) (*model.Watermark, error) {
	drop := float64(c.spec.FontSize + 2)
	desc := c.textDesc(c.spec.Position, c.spec.font, c.spec.FontSize, c.spec.fontColor, -drop)
	wm, err := api.TextWatermark(c.spec.DateLine(now), desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("date stamp: %w", err)
	}
	return wm, nil
}

// WatermarkStamp builds the text watermark layer. It is applied before
// the Bates stamp so the identifier stays legible above it.
func (c *Composer) WatermarkStamp() (*model.Watermark, error) {
	w := c.spec.Watermark
	if w == nil {
		return nil, nil
	}

	desc := fmt.Sprintf(
		"fontname:Helvetica, points:%d, position:%s, scalefactor:1 abs, rotation:%.0f, opacity:%.2f, fillcolor:%s",
		w.FontSize, w.Position.Anchor(), w.Rotation, w.Opacity, w.color.Hex(),
	)

	wm, err := api.TextWatermark(w.Text, desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("watermark %q: %w", w.Text, err)
	}
	return wm, nil
}

// QRStamp renders a QR code carrying the given payload and wraps it as an
// image stamp. The PNG is generated in memory at 1pt per pixel.
func (c *Composer) QRStamp(payload string) (*model.Watermark, error) {
	q := c.spec.QR
	if q == nil {
		return nil, nil
	}

	code, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr encode %q: %w", payload, err)
	}
	code.ForegroundColor = q.fg.RGBA()
	code.BackgroundColor = q.bg.RGBA()

	size := int(q.Size * pointsPerInch)
	png, err := code.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("qr render %q: %w", payload, err)
	}

	dx, dy := q.Position.Offsets()
	desc := fmt.Sprintf(
		"position:%s, offset:%.0f %.0f, scalefactor:1 abs, opacity:1",
		q.Position.Anchor(), dx, dy,
	)

	wm, err := api.ImageWatermarkForReader(bytes.NewReader(png), desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("qr stamp %q: %w", payload, err)
	}
	return wm, nil
}

// LogoStamp wraps the configured logo image as a stamp, scaled down to
// honor the spec's maximum dimensions. Never scales up.
func (c *Composer) LogoStamp() (*model.Watermark, error) {
	l := c.spec.Logo
	if l == nil {
		return nil, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(l.Data))
	if err != nil {
		return nil, fmt.Errorf("logo decode: %w", err)
	}
	if cfg.Width < 1 || cfg.Height < 1 {
		return nil, fmt.Errorf("logo has empty dimensions")
	}

	scale := min(
		l.MaxWidth*pointsPerInch/float64(cfg.Width),
		l.MaxHeight*pointsPerInch/float64(cfg.Height),
		1.0,
	)

	dx, dy := l.Position.Offsets()
	desc := fmt.Sprintf(
		"position:%s, offset:%.0f %.0f, scalefactor:%.4f abs, opacity:1",
		l.Position.Anchor(), dx, dy, scale,
	)

	wm, err := api.ImageWatermarkForReader(bytes.NewReader(l.Data), desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("logo stamp: %w", err)
	}
	return wm, nil
}

// textDesc builds a pdfcpu watermark description for a single text line
// anchored at the given position, with the spec's background treatment.
// dropBelow shifts the line down from its anchor (used for the date line).
func (c *Composer) textDesc(pos Position, font string, points int, fill Color, dropBelow float64) string {
	dx, dy := pos.Offsets()
	dy += dropBelow

	desc := fmt.Sprintf(
		"fontname:%s, points:%d, position:%s, offset:%.0f %.0f, scalefactor:1 abs, rotation:0, opacity:1, fillcolor:%s",
		font, points, pos.Anchor(), dx, dy, fill.Hex(),
	)

	if *c.spec.AddBackground {
		desc += fmt.Sprintf(", backgroundcolor:%s, margins:%d", White.Hex(), c.spec.BackgroundPadding)
	}

	return desc
}
