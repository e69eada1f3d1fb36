package overlay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// IndexEntry is one row of a production index page.
type IndexEntry struct {
	Name      string
	First     string
	Last      string
	PageCount int
}

// tableRowsPerPage bounds index/mapping table chunks so long productions
// flow across pages.
const tableRowsPerPage = 32

// RenderSeparator produces a full separator page as an in-memory PDF:
// the first Bates identifier rendered prominently, the first-last range
// beneath it, and the spec's border treatment if one is configured.
// The logo, if scoped to separator pages, is stamped by the assembler in
// a later pass. Page dimensions follow the source document's first page.
func (c *Composer) RenderSeparator(pageWidth, pageHeight float64, first, last string) (*bytes.Buffer, error) {
	texts := []map[string]any{
		{
			"value":  first,
			"anchor": "center",
			"dy":     15,
			"font":   font("Helvetica-Bold", 20, Black),
		},
		{
			"value":  fmt.Sprintf("%s - %s", first, last),
			"anchor": "center",
			"dy":     -15,
			"font":   font("Helvetica-Oblique", 14, Black),
		},
	}

	content := map[string]any{"text": texts}
	c.applyBorder(content, pageWidth, pageHeight)

	buf, err := createPDF(map[string]any{
		"pages": map[string]any{
			"1": page(pageWidth, pageHeight, content),
		},
	})
	if err == nil {
		return buf, nil
	}

	if c.spec.Border == nil {
		return nil, fmt.Errorf("render separator: %w", err)
	}

	// Border rendering is an optional element; retry the page without it
	// rather than failing separator insertion.
	c.logger.Warn("separator border render failed, retrying without border", "error", err)
	buf, err = createPDF(map[string]any{
		"pages": map[string]any{
			"1": page(pageWidth, pageHeight, map[string]any{"text": texts}),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("render separator: %w", err)
	}
	return buf, nil
}

// RenderIndex produces the production index as an in-memory PDF: a table
// of every document with its Bates range and page count, chunked across
// pages for long productions.
func (c *Composer) RenderIndex(entries []IndexEntry) (*bytes.Buffer, error) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Name, e.First, e.Last, strconv.Itoa(e.PageCount),
		})
	}

	return RenderTable(
		"Document Index",
		[]string{"Document", "First Bates", "Last Bates", "Pages"},
		[]int{46, 20, 20, 14},
		rows,
	)
}

// RenderTable produces a titled, multi-page table PDF in memory. Column
// widths are percentages of the table width and must sum to 100. Used by
// the index page and by the mapping-report exporter.
func RenderTable(title string, headers []string, colWidths []int, rows [][]string) (*bytes.Buffer, error) {
	if len(headers) != len(colWidths) {
		return nil, fmt.Errorf("render table: %d headers for %d column widths", len(headers), len(colWidths))
	}

	const pageWidth, pageHeight = 612.0, 792.0

	if len(rows) == 0 {
		rows = [][]string{make([]string, len(headers))}
	}

	pages := map[string]any{}
	n := 0
	for start := 0; start == 0 || start < len(rows); start += tableRowsPerPage {
		end := min(start+tableRowsPerPage, len(rows))
		chunk := rows[start:end]
		n++

		content := map[string]any{
			"table": []map[string]any{{
				"anchor":    "tc",
				"dy":        -90,
				"width":     pageWidth - 2*EdgeMargin,
				"rows":      len(chunk),
				"cols":      len(headers),
				"colWidths": colWidths,
				"lineHeight": 18,
				"font":      font("Helvetica", 10, Black),
				"header": map[string]any{
					"values": headers,
					"font":   font("Helvetica-Bold", 10, Black),
				},
				"values": chunk,
			}},
		}

		if n == 1 {
			content["text"] = []map[string]any{{
				"value":  title,
				"anchor": "tc",
				"dy":     -EdgeMargin,
				"font":   font("Helvetica-Bold", 16, Black),
			}}
		}

		pages[strconv.Itoa(n)] = page(pageWidth, pageHeight, content)
	}

	buf, err := createPDF(map[string]any{"pages": pages})
	if err != nil {
		return nil, fmt.Errorf("render table %q: %w", title, err)
	}
	return buf, nil
}

// applyBorder adds the spec's border treatment to separator page content.
func (c *Composer) applyBorder(content map[string]any, pageWidth, pageHeight float64) {
	b := c.spec.Border
	if b == nil {
		return
	}

	switch b.Style {
	case BorderAsterisks:
		line := strings.Repeat("* ", int(pageWidth-2*EdgeMargin)/9)
		texts := content["text"].([]map[string]any)
		for _, dy := range []float64{-EdgeMargin, EdgeMargin} {
			anchor := "tc"
			if dy > 0 {
				anchor = "bc"
			}
			texts = append(texts, map[string]any{
				"value":  line,
				"anchor": anchor,
				"dy":     dy,
				"font":   font("Helvetica", 12, b.color),
			})
		}
		content["text"] = texts

	case BorderDouble:
		content["box"] = []map[string]any{
			borderBox(pageWidth-2*EdgeMargin, pageHeight-2*EdgeMargin, b),
			borderBox(pageWidth-2*EdgeMargin-12, pageHeight-2*EdgeMargin-12, b),
		}

	default:
		// solid and dashed both render as a single rule; pdfcpu's box
		// border has no dash pattern.
		content["box"] = []map[string]any{
			borderBox(pageWidth-2*EdgeMargin, pageHeight-2*EdgeMargin, b),
		}
	}
}

func borderBox(width, height float64, b *BorderSpec) map[string]any {
	border := map[string]any{
		"width": b.Width,
		"color": b.color.Hex(),
	}
	if b.CornerRadius > 0 {
		border["style"] = "round"
	}
	return map[string]any{
		"anchor": "center",
		"width":  width,
		"height": height,
		"border": border,
	}
}

func font(name string, size int, col Color) map[string]any {
	return map[string]any{
		"name":  name,
		"size":  size,
		"color": col.Hex(),
	}
}

// page wraps content with the named paper size nearest the given
// dimensions. The declarative create API sizes pages by paper format.
func page(width, height float64, content map[string]any) map[string]any {
	return map[string]any{
		"paper":   nearestPaper(width, height),
		"content": content,
	}
}

var paperSizes = []struct {
	name          string
	width, height float64
}{
	{"Letter", 612, 792},
	{"Legal", 612, 1008},
	{"A4", 595, 842},
	{"A3", 842, 1191},
	{"A5", 420, 595},
	{"Tabloid", 792, 1224},
}

func nearestPaper(width, height float64) string {
	best := paperSizes[0].name
	bestDist := -1.0
	for _, p := range paperSizes {
		dw, dh := p.width-width, p.height-height
		dist := dw*dw + dh*dh
		if bestDist < 0 || dist < bestDist {
			best, bestDist = p.name, dist
		}
	}
	return best
}

func createPDF(doc map[string]any) (*bytes.Buffer, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	conf := model.NewDefaultConfiguration()
	if err := api.Create(nil, bytes.NewReader(data), &buf, conf); err != nil {
		return nil, err
	}
	return &buf, nil
}
