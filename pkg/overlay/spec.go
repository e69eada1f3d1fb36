// Package overlay composes the visual layers stamped onto production
// pages: the Bates identifier with optional date line, QR code, logo,
// watermark, and the full separator and index pages. All rendering is
// in-memory; nothing in this package touches the filesystem.
package overlay

import (
	"fmt"
	"time"
)

// QRPlacement scopes where QR codes are stamped.
type QRPlacement string

const (
	QRAllPages      QRPlacement = "all-pages"
	QRSeparatorOnly QRPlacement = "separator-only"
)

// LogoPlacement scopes where the logo image is stamped.
type LogoPlacement string

const (
	LogoAllPages      LogoPlacement = "all-pages"
	LogoFirstPage     LogoPlacement = "first-page"
	LogoSeparatorOnly LogoPlacement = "separator-only"
)

// WatermarkScope scopes where the text watermark is applied.
type WatermarkScope string

const (
	WatermarkAllPages     WatermarkScope = "all-pages"
	WatermarkDocumentOnly WatermarkScope = "document-only"
)

// BorderStyle selects the separator-page border treatment.
type BorderStyle string

const (
	BorderSolid     BorderStyle = "solid"
	BorderDashed    BorderStyle = "dashed"
	BorderDouble    BorderStyle = "double"
	BorderAsterisks BorderStyle = "asterisks"
)

// QRSpec configures QR code stamping. The payload is always the Bates
// identifier of the page (or the first identifier of the document range
// for separator-only placement).
type QRSpec struct {
	Placement  QRPlacement `json:"placement" toml:"placement"`
	Position   Position    `json:"position" toml:"position"`
	Size       float64     `json:"size" toml:"size"` // inches
	Color      string      `json:"color" toml:"color"`
	Background string      `json:"background" toml:"background"`

	fg, bg Color
}

// LogoSpec configures logo stamping from an in-memory image payload
// (PNG or JPEG bytes).
type LogoSpec struct {
	Data      []byte        `json:"data" toml:"data"`
	Placement LogoPlacement `json:"placement" toml:"placement"`
	Position  Position      `json:"position" toml:"position"`
	MaxWidth  float64       `json:"max_width" toml:"max_width"`   // inches
	MaxHeight float64       `json:"max_height" toml:"max_height"` // inches
}

// WatermarkSpec configures the diagonal text watermark.
type WatermarkSpec struct {
	Text     string         `json:"text" toml:"text"`
	Scope    WatermarkScope `json:"scope" toml:"scope"`
	Opacity  float64        `json:"opacity" toml:"opacity"`
	Rotation float64        `json:"rotation" toml:"rotation"`
	Position Position       `json:"position" toml:"position"`
	FontSize int            `json:"font_size" toml:"font_size"`
	Color    string         `json:"color" toml:"color"`

	color Color
}

// BorderSpec configures the separator-page border.
type BorderSpec struct {
	Style        BorderStyle `json:"style" toml:"style"`
	Color        string      `json:"color" toml:"color"`
	Width        float64     `json:"width" toml:"width"`
	CornerRadius float64     `json:"corner_radius" toml:"corner_radius"`

	color Color
}

// Spec configures overlay composition for one production. Optional
// sub-specs are nil when the element is disabled. Raw string values
// (colors, positions, enums) are resolved exactly once by Normalize;
// invalid values degrade to safe defaults and are reported as warnings,
// never as failures.
type Spec struct {
	Position          Position `json:"position" toml:"position"`
	FontName          string   `json:"font_name" toml:"font_name"`
	FontSize          int      `json:"font_size" toml:"font_size"`
	FontColor         string   `json:"font_color" toml:"font_color"`
	Bold              *bool    `json:"bold,omitempty" toml:"bold"`
	Italic            bool     `json:"italic" toml:"italic"`
	IncludeDate       bool     `json:"include_date" toml:"include_date"`
	DateFormat        string   `json:"date_format" toml:"date_format"`
	AddBackground     *bool    `json:"add_background,omitempty" toml:"add_background"`
	BackgroundPadding int      `json:"background_padding" toml:"background_padding"`

	QR        *QRSpec        `json:"qr,omitempty" toml:"qr"`
	Logo      *LogoSpec      `json:"logo,omitempty" toml:"logo"`
	Watermark *WatermarkSpec `json:"watermark,omitempty" toml:"watermark"`
	Border    *BorderSpec    `json:"border,omitempty" toml:"border"`

	fontColor  Color
	font       string
	normalized bool
}

// Normalize applies defaults, resolves raw values into their typed forms,
// and clamps out-of-range settings. It returns one warning message per
// degraded value. Safe to call more than once.
func (s *Spec) Normalize() []string {
	warnings := make([]string, 0)

	if _, ok := ParsePosition(string(s.Position), BottomLeft); !ok {
		if s.Position != "" {
			warnings = append(warnings, fmt.Sprintf("invalid position %q, using %s", s.Position, BottomLeft))
		}
		s.Position = BottomLeft
	}

	if s.FontName == "" {
		s.FontName = "Helvetica"
	}
	if s.FontSize <= 0 {
		s.FontSize = 12
	}
	if s.Bold == nil {
		b := true
		s.Bold = &b
	}
	s.font = resolveFontName(s.FontName, *s.Bold, s.Italic)

	var ok bool
	if s.fontColor, ok = ParseColor(s.FontColor, Black); !ok && s.FontColor != "" {
		warnings = append(warnings, fmt.Sprintf("invalid font color %q, using black", s.FontColor))
	}

	if s.DateFormat == "" {
		s.DateFormat = "2006-01-02"
	}
	if s.AddBackground == nil {
		b := true
		s.AddBackground = &b
	}
	if s.BackgroundPadding < 0 {
		s.BackgroundPadding = 0
	} else if s.BackgroundPadding == 0 {
		s.BackgroundPadding = 3
	}

	warnings = append(warnings, s.normalizeQR()...)
	warnings = append(warnings, s.normalizeLogo()...)
	warnings = append(warnings, s.normalizeWatermark()...)
	warnings = append(warnings, s.normalizeBorder()...)

	s.normalized = true
	return warnings
}

func (s *Spec) normalizeQR() []string {
	if s.QR == nil {
		return nil
	}
	warnings := make([]string, 0)
	q := s.QR

	switch q.Placement {
	case QRAllPages, QRSeparatorOnly:
	case "":
		q.Placement = QRAllPages
	default:
		warnings = append(warnings, fmt.Sprintf("invalid qr placement %q, using %s", q.Placement, QRAllPages))
		q.Placement = QRAllPages
	}

	if _, ok := ParsePosition(string(q.Position), BottomRight); !ok {
		if q.Position != "" {
			warnings = append(warnings, fmt.Sprintf("invalid qr position %q, using %s", q.Position, BottomRight))
		}
		q.Position = BottomRight
	}
	if q.Size <= 0 {
		q.Size = 0.75
	}

	var ok bool
	if q.fg, ok = ParseColor(q.Color, Black); !ok && q.Color != "" {
		warnings = append(warnings, fmt.Sprintf("invalid qr color %q, using black", q.Color))
	}
	if q.bg, ok = ParseColor(q.Background, White); !ok && q.Background != "" {
		warnings = append(warnings, fmt.Sprintf("invalid qr background %q, using white", q.Background))
	}

	return warnings
}

func (s *Spec) normalizeLogo() []string {
	if s.Logo == nil {
		return nil
	}
	if len(s.Logo.Data) == 0 {
		s.Logo = nil
		return []string{"logo enabled without image data, skipping logo"}
	}

	warnings := make([]string, 0)
	l := s.Logo

	switch l.Placement {
	case LogoAllPages, LogoFirstPage, LogoSeparatorOnly:
	case "":
		l.Placement = LogoFirstPage
	default:
		warnings = append(warnings, fmt.Sprintf("invalid logo placement %q, using %s", l.Placement, LogoFirstPage))
		l.Placement = LogoFirstPage
	}

	if _, ok := ParsePosition(string(l.Position), TopRight); !ok {
		if l.Position != "" {
			warnings = append(warnings, fmt.Sprintf("invalid logo position %q, using %s", l.Position, TopRight))
		}
		l.Position = TopRight
	}
	if l.MaxWidth <= 0 {
		l.MaxWidth = 1.0
	}
	if l.MaxHeight <= 0 {
		l.MaxHeight = 1.0
	}

	return warnings
}

func (s *Spec) normalizeWatermark() []string {
	if s.Watermark == nil {
		return nil
	}
	if s.Watermark.Text == "" {
		s.Watermark = nil
		return []string{"watermark enabled without text, skipping watermark"}
	}

	warnings := make([]string, 0)
	w := s.Watermark

	switch w.Scope {
	case WatermarkAllPages, WatermarkDocumentOnly:
	case "":
		w.Scope = WatermarkAllPages
	default:
		warnings = append(warnings, fmt.Sprintf("invalid watermark scope %q, using %s", w.Scope, WatermarkAllPages))
		w.Scope = WatermarkAllPages
	}

	if w.Opacity <= 0 || w.Opacity > 1 {
		if w.Opacity != 0 {
			warnings = append(warnings, fmt.Sprintf("watermark opacity %.2f out of range, using 0.30", w.Opacity))
		}
		w.Opacity = 0.3
	}
	if w.Rotation == 0 {
		w.Rotation = 45
	}
	if _, ok := ParsePosition(string(w.Position), Center); !ok {
		if w.Position != "" {
			warnings = append(warnings, fmt.Sprintf("invalid watermark position %q, using %s", w.Position, Center))
		}
		w.Position = Center
	}
	if w.FontSize <= 0 {
		w.FontSize = 48
	}

	var ok bool
	if w.color, ok = ParseColor(w.Color, Gray); !ok && w.Color != "" {
		warnings = append(warnings, fmt.Sprintf("invalid watermark color %q, using gray", w.Color))
	}

	return warnings
}

func (s *Spec) normalizeBorder() []string {
	if s.Border == nil {
		return nil
	}
	warnings := make([]string, 0)
	b := s.Border

	switch b.Style {
	case BorderSolid, BorderDashed, BorderDouble, BorderAsterisks:
	case "":
		b.Style = BorderSolid
	default:
		warnings = append(warnings, fmt.Sprintf("invalid border style %q, using %s", b.Style, BorderSolid))
		b.Style = BorderSolid
	}

	var ok bool
	if b.color, ok = ParseColor(b.Color, Black); !ok && b.Color != "" {
		warnings = append(warnings, fmt.Sprintf("invalid border color %q, using black", b.Color))
	}
	if b.Width <= 0 {
		b.Width = 2
	}
	if b.CornerRadius < 0 {
		b.CornerRadius = 0
	}

	return warnings
}

// FontColor returns the resolved stamp text color.
func (s *Spec) ResolvedFontColor() Color {
	return s.fontColor
}

// ResolvedFont returns the full font name after bold/italic resolution.
func (s *Spec) ResolvedFont() string {
	return s.font
}

// DateLine formats now using the spec's date layout.
func (s *Spec) DateLine(now time.Time) string {
	return now.Format(s.DateFormat)
}

// resolveFontName maps a base family plus style flags onto the matching
// standard font name. Families outside the standard set are passed
// through unchanged; styles on such fonts are the caller's concern
// (user-installed fonts carry their style in the name).
func resolveFontName(base string, bold, italic bool) string {
	switch base {
	case "Helvetica":
		switch {
		case bold && italic:
			return "Helvetica-BoldOblique"
		case bold:
			return "Helvetica-Bold"
		case italic:
			return "Helvetica-Oblique"
		}
		return "Helvetica"
	case "Times-Roman", "Times":
		switch {
		case bold && italic:
			return "Times-BoldItalic"
		case bold:
			return "Times-Bold"
		case italic:
			return "Times-Italic"
		}
		return "Times-Roman"
	case "Courier":
		switch {
		case bold && italic:
			return "Courier-BoldOblique"
		case bold:
			return "Courier-Bold"
		case italic:
			return "Courier-Oblique"
		}
		return "Courier"
	}
	return base
}
