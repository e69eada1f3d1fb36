// Command bates stamps Bates numbers onto local PDF files without the
// service. It processes files individually or combines them into a single
// production, and can validate previously exported mapping files for
// range conflicts.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/whitfield-io/batesd/pkg/bates"
)

type options struct {
	output   string
	password string

	prefix  string
	suffix  string
	start   int64
	padding int

	position          string
	fontName          string
	fontSize          int
	fontColor         string
	bold              bool
	italic            bool
	includeDate       bool
	dateFormat        string
	background        bool
	backgroundPadding int

	combine        bool
	separators     bool
	indexPage      bool
	batesFilenames bool
	mapping        string

	qrPlacement  string
	qrPosition   string
	qrSize       float64
	qrColor      string
	qrBackground string

	logoPath      string
	logoPlacement string
	logoPosition  string
	logoMaxWidth  float64
	logoMaxHeight float64

	watermarkText     string
	watermarkScope    string
	watermarkOpacity  float64
	watermarkRotation float64
	watermarkPosition string
	watermarkFontSize int
	watermarkColor    string

	borderStyle  string
	borderColor  string
	borderWidth  float64
	borderRadius float64

	check        string
	suggestPages int
}

func main() {
	var opts options

	flag.StringVar(&opts.output, "output", ".", "Output file (combine) or directory (per-file)")
	flag.StringVar(&opts.password, "password", "", "Password for encrypted inputs")

	flag.StringVar(&opts.prefix, "prefix", "", "Bates number prefix")
	flag.StringVar(&opts.suffix, "suffix", "", "Bates number suffix")
	flag.Int64Var(&opts.start, "start", 1, "Starting Bates number")
	flag.IntVar(&opts.padding, "padding", bates.DefaultPadding, "Zero-padding width")

	flag.StringVar(&opts.position, "position", "bottom-left", "Stamp position")
	flag.StringVar(&opts.fontName, "font", "Helvetica", "Stamp font name")
	flag.IntVar(&opts.fontSize, "font-size", 10, "Stamp font size in points")
	flag.StringVar(&opts.fontColor, "color", "black", "Stamp color (name or #rrggbb)")
	flag.BoolVar(&opts.bold, "bold", true, "Bold stamp text")
	flag.BoolVar(&opts.italic, "italic", false, "Italic stamp text")
	flag.BoolVar(&opts.includeDate, "date", false, "Add a date line under the Bates number")
	flag.StringVar(&opts.dateFormat, "date-format", "", "Date line layout (Go reference time)")
	flag.BoolVar(&opts.background, "background", false, "Draw a background box behind the stamp")
	flag.IntVar(&opts.backgroundPadding, "background-padding", 0, "Background box padding in points")

	flag.BoolVar(&opts.combine, "combine", false, "Combine all inputs into a single output PDF")
	flag.BoolVar(&opts.separators, "separators", false, "Insert a separator page before each document")
	flag.BoolVar(&opts.indexPage, "index", false, "Prepend an index page (combine only)")
	flag.BoolVar(&opts.batesFilenames, "bates-filenames", false, "Name outputs by first Bates number")
	flag.StringVar(&opts.mapping, "mapping", "", "Mapping export path (.csv, .json or .pdf)")

	flag.StringVar(&opts.qrPlacement, "qr", "", "QR placement: all-pages or separator-only")
	flag.StringVar(&opts.qrPosition, "qr-position", "", "QR position")
	flag.Float64Var(&opts.qrSize, "qr-size", 0, "QR size in inches")
	flag.StringVar(&opts.qrColor, "qr-color", "", "QR foreground color")
	flag.StringVar(&opts.qrBackground, "qr-background", "", "QR background color")

	flag.StringVar(&opts.logoPath, "logo", "", "Logo image file (PNG or JPEG)")
	flag.StringVar(&opts.logoPlacement, "logo-placement", "", "Logo placement: first-page, all-pages or separator-only")
	flag.StringVar(&opts.logoPosition, "logo-position", "", "Logo position")
	flag.Float64Var(&opts.logoMaxWidth, "logo-max-width", 0, "Logo max width in inches")
	flag.Float64Var(&opts.logoMaxHeight, "logo-max-height", 0, "Logo max height in inches")

	flag.StringVar(&opts.watermarkText, "watermark", "", "Watermark text")
	flag.StringVar(&opts.watermarkScope, "watermark-scope", "", "Watermark scope: all-pages or content-only")
	flag.Float64Var(&opts.watermarkOpacity, "watermark-opacity", 0, "Watermark opacity (0..1)")
	flag.Float64Var(&opts.watermarkRotation, "watermark-rotation", 0, "Watermark rotation in degrees")
	flag.StringVar(&opts.watermarkPosition, "watermark-position", "", "Watermark position (empty for diagonal)")
	flag.IntVar(&opts.watermarkFontSize, "watermark-font-size", 0, "Watermark font size in points")
	flag.StringVar(&opts.watermarkColor, "watermark-color", "", "Watermark color")

	flag.StringVar(&opts.borderStyle, "border", "", "Separator border style: solid, dashed, double or asterisks")
	flag.StringVar(&opts.borderColor, "border-color", "", "Separator border color")
	flag.Float64Var(&opts.borderWidth, "border-width", 0, "Separator border width in points")
	flag.Float64Var(&opts.borderRadius, "border-corner-radius", 0, "Separator border corner radius in points")

	flag.StringVar(&opts.check, "check", "", "Validate ranges in a mapping CSV instead of stamping")
	flag.IntVar(&opts.suggestPages, "suggest-pages", 0, "With -check, suggest the next free range for this many pages")

	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	if opts.check != "" {
		if err := runCheck(&opts, logger); err != nil {
			log.Fatalf("check failed: %v", err)
		}
		return
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "usage: bates [flags] input.pdf [input.pdf ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := runStamp(&opts, inputs, logger); err != nil {
		log.Fatalf("stamping failed: %v", err)
	}
}
