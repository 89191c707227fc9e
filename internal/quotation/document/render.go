// internal/quotation/document/render.go
package document

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/charmap"

	"quotation-workers/internal/common/config"
)

const fontFamily = "Helvetica"

// newDocument returns an empty A4 portrait document in millimetres.
func newDocument() *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	return pdf
}

// A4Geometry returns the page geometry for the configured margins.
func A4Geometry(m config.MarginConfig) Geometry {
	w, h := newDocument().GetPageSize()
	return Geometry{
		PageWidth:  w,
		PageHeight: h,
		Top:        m.Top,
		Bottom:     m.Bottom,
		Left:       m.Left,
		Right:      m.Right,
	}
}

func fontStyle(bold bool) string {
	if bold {
		return "B"
	}
	return ""
}

// latin converts UTF-8 to the cp1252 bytes the core fonts are measured in.
// Runes outside the code page become '?'.
func latin(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x80 {
			b.WriteByte(byte(r))
			continue
		}
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}

// fromLatin reverses latin so plans carry readable text.
func fromLatin(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		b.WriteRune(charmap.Windows1252.DecodeByte(s[i]))
	}
	return b.String()
}

// pdfMeasurer measures text on a document that is never rendered.
type pdfMeasurer struct {
	pdf *gofpdf.Fpdf
}

func newMeasurer() *pdfMeasurer {
	pdf := newDocument()
	pdf.SetFont(fontFamily, "", 10)
	return &pdfMeasurer{pdf: pdf}
}

func (m *pdfMeasurer) Lines(text string, size float64, bold bool, width float64) []string {
	text = strings.ReplaceAll(text, "\r", "")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	m.pdf.SetFont(fontFamily, fontStyle(bold), size)

	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		if strings.TrimSpace(paragraph) == "" {
			out = append(out, "")
			continue
		}
		for _, line := range m.pdf.SplitLines([]byte(latin(paragraph)), width) {
			out = append(out, fromLatin(string(line)))
		}
	}
	return out
}

func (m *pdfMeasurer) Width(text string, size float64, bold bool) float64 {
	m.pdf.SetFont(fontFamily, fontStyle(bold), size)
	return m.pdf.GetStringWidth(latin(text))
}

type rgb struct{ r, g, b int }

// parseHex accepts #rrggbb.
func parseHex(hex string) (rgb, error) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return rgb{}, fmt.Errorf("invalid colour %q", hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return rgb{}, fmt.Errorf("invalid colour %q: %w", hex, err)
	}
	return rgb{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}, nil
}

type palette map[Role]rgb

func newPalette(b config.BrandingConfig) (palette, error) {
	p := palette{
		RoleWhite: {255, 255, 255},
		RolePanel: {240, 240, 240},
	}
	for role, hex := range map[Role]string{
		RolePrimary: b.Primary,
		RoleText:    b.Text,
		RoleMuted:   b.Muted,
	} {
		c, err := parseHex(hex)
		if err != nil {
			return nil, err
		}
		p[role] = c
	}
	return p, nil
}

// Metadata is written into the PDF info dictionary.
type Metadata struct {
	Title   string
	Author  string
	Subject string
}

// Render draws a plan onto a new document and returns the PDF bytes.
func Render(plan Plan, branding config.BrandingConfig, meta Metadata) ([]byte, error) {
	colours, err := newPalette(branding)
	if err != nil {
		return nil, err
	}

	pdf := newDocument()
	pdf.SetMargins(plan.Geometry.Left, plan.Geometry.Top, plan.Geometry.Right)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetCreator("quotation-workers", true)

	names := make([]string, 0, len(plan.Images))
	for name := range plan.Images {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(plan.Images[name]))
	}

	byPage := make([][]Placement, plan.Pages+1)
	for _, pl := range plan.Placements {
		if pl.Page < 1 || pl.Page > plan.Pages {
			return nil, fmt.Errorf("placement on page %d outside 1..%d", pl.Page, plan.Pages)
		}
		byPage[pl.Page] = append(byPage[pl.Page], pl)
	}

	for page := 1; page <= plan.Pages; page++ {
		pdf.AddPage()
		for _, pl := range byPage[page] {
			draw(pdf, colours, pl)
		}
	}

	if got := pdf.PageNo(); got != plan.Pages {
		return nil, fmt.Errorf("rendered %d pages, plan has %d", got, plan.Pages)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func draw(pdf *gofpdf.Fpdf, colours palette, pl Placement) {
	c := colours[pl.Role]
	switch pl.Op {
	case OpText:
		pdf.SetFont(fontFamily, fontStyle(pl.Bold), pl.Size)
		pdf.SetTextColor(c.r, c.g, c.b)
		pdf.Text(pl.X, pl.Y, latin(pl.Text))
	case OpRect:
		pdf.SetFillColor(c.r, c.g, c.b)
		pdf.Rect(pl.X, pl.Y, pl.W, pl.H, "F")
	case OpImage:
		pdf.ImageOptions(pl.Image, pl.X, pl.Y, pl.W, pl.H, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}
}
