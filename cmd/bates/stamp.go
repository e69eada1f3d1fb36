package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/whitfield-io/batesd/pkg/assemble"
	"github.com/whitfield-io/batesd/pkg/bates"
	"github.com/whitfield-io/batesd/pkg/mapping"
	"github.com/whitfield-io/batesd/pkg/overlay"
	"github.com/whitfield-io/batesd/pkg/progress"
)

func runStamp(opts *options, inputs []string, logger *slog.Logger) error {
	spec, err := buildSpec(opts)
	if err != nil {
		return err
	}

	seq := bates.NewSequence(opts.prefix, opts.suffix, opts.start, opts.padding)
	composer := overlay.New(spec, logger)
	reporter := progress.Funcs(func(message string, u progress.Update) {
		if u.Total > 0 {
			fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", u.Current, u.Total, message)
			return
		}
		fmt.Fprintln(os.Stderr, message)
	}, nil)

	assembler := assemble.New(seq, composer, reporter, logger)

	if opts.combine {
		return runCombine(assembler, opts, inputs)
	}
	return runEach(assembler, opts, inputs)
}

func runCombine(assembler *assemble.Assembler, opts *options, inputs []string) error {
	sources := make([]assemble.Source, 0, len(inputs))
	for _, path := range inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		sources = append(sources, assemble.Source{
			Name:     filepath.Base(path),
			Data:     data,
			Password: opts.password,
		})
	}

	out, meta, res := assembler.Combine(sources, assemble.CombineOptions{
		Separators:     opts.separators,
		IndexPage:      opts.indexPage,
		BatesFilenames: opts.batesFilenames,
	})
	printWarnings(res.Warnings)
	if !res.Success {
		return errors.New(res.ErrorMessage)
	}

	target := opts.output
	if isDir(target) {
		target = filepath.Join(target, "combined.pdf")
	}
	if err := os.WriteFile(target, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	fmt.Printf("%s: %s - %s (%d pages)\n", target, res.FirstBates, res.LastBates, res.PageCount)
	return writeMapping(opts.mapping, meta)
}

func runEach(assembler *assemble.Assembler, opts *options, inputs []string) error {
	outDir := opts.output
	if !isDir(outDir) {
		return fmt.Errorf("output %s is not a directory", outDir)
	}

	meta := make([]assemble.DocumentMetadata, 0, len(inputs))
	for _, path := range inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		name := filepath.Base(path)
		out, res := assembler.Process(data, assemble.ProcessOptions{
			Name:         name,
			Password:     opts.password,
			AddSeparator: opts.separators,
		})
		printWarnings(res.Warnings)
		if !res.Success {
			return fmt.Errorf("%s: %s", name, res.ErrorMessage)
		}

		outName := stampedName(name)
		if opts.batesFilenames {
			outName = mapping.BatesFilename(res.FirstBates, name)
		}
		target := filepath.Join(outDir, outName)
		if err := os.WriteFile(target, out.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}

		fmt.Printf("%s: %s - %s (%d pages)\n", target, res.FirstBates, res.LastBates, res.PageCount)
		meta = append(meta, assemble.DocumentMetadata{
			OriginalName: name,
			NewName:      outName,
			FirstBates:   res.FirstBates,
			LastBates:    res.LastBates,
			PageCount:    res.PageCount,
			Prefix:       opts.prefix,
			Suffix:       opts.suffix,
		})
	}

	return writeMapping(opts.mapping, meta)
}

func buildSpec(opts *options) (*overlay.Spec, error) {
	spec := &overlay.Spec{
		Position:          overlay.Position(opts.position),
		FontName:          opts.fontName,
		FontSize:          opts.fontSize,
		FontColor:         opts.fontColor,
		Bold:              &opts.bold,
		Italic:            opts.italic,
		IncludeDate:       opts.includeDate,
		DateFormat:        opts.dateFormat,
		AddBackground:     &opts.background,
		BackgroundPadding: opts.backgroundPadding,
	}

	if opts.qrPlacement != "" {
		spec.QR = &overlay.QRSpec{
			Placement:  overlay.QRPlacement(opts.qrPlacement),
			Position:   overlay.Position(opts.qrPosition),
			Size:       opts.qrSize,
			Color:      opts.qrColor,
			Background: opts.qrBackground,
		}
	}

	if opts.logoPath != "" {
		data, err := os.ReadFile(opts.logoPath)
		if err != nil {
			return nil, fmt.Errorf("read logo %s: %w", opts.logoPath, err)
		}
		spec.Logo = &overlay.LogoSpec{
			Data:      data,
			Placement: overlay.LogoPlacement(opts.logoPlacement),
			Position:  overlay.Position(opts.logoPosition),
			MaxWidth:  opts.logoMaxWidth,
			MaxHeight: opts.logoMaxHeight,
		}
	}

	if opts.watermarkText != "" {
		spec.Watermark = &overlay.WatermarkSpec{
			Text:     opts.watermarkText,
			Scope:    overlay.WatermarkScope(opts.watermarkScope),
			Opacity:  opts.watermarkOpacity,
			Rotation: opts.watermarkRotation,
			Position: overlay.Position(opts.watermarkPosition),
			FontSize: opts.watermarkFontSize,
			Color:    opts.watermarkColor,
		}
	}

	if opts.borderStyle != "" {
		spec.Border = &overlay.BorderSpec{
			Style:        overlay.BorderStyle(opts.borderStyle),
			Color:        opts.borderColor,
			Width:        opts.borderWidth,
			CornerRadius: opts.borderRadius,
		}
	}

	return spec, nil
}

func writeMapping(path string, meta []assemble.DocumentMetadata) error {
	if path == "" {
		return nil
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = mapping.JSON(meta)
	case ".pdf":
		var buf *bytes.Buffer
		buf, err = mapping.PDF(meta)
		if err == nil {
			data = buf.Bytes()
		}
	default:
		data, err = mapping.CSV(meta)
	}
	if err != nil {
		return fmt.Errorf("mapping export: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("mapping written to %s\n", path)
	return nil
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}

func stampedName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_stamped.pdf"
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
