// internal/quotation/document/layout.go
package document

import (
	"fmt"
	"strings"
)

// Kind identifies a content block.
type Kind int

const (
	KindHeader Kind = iota
	KindTitle
	KindSubtitle
	KindText
	KindSpacer
	KindBanner
	KindLinkBox
	KindImage
)

// Block is one unit of content inside a section. Blocks never carry layout
// state; their position is decided by Layout.Fold.
type Block struct {
	Kind   Kind
	Text   string
	Label  string
	Size   float64
	Bold   bool
	Height float64
	Image  string
	PNG    []byte
}

func Header(name, tagline string) Block {
	return Block{Kind: KindHeader, Text: name, Label: tagline}
}

func Title(text string, size float64) Block {
	return Block{Kind: KindTitle, Text: text, Size: size, Bold: true}
}

func Subtitle(text string) Block {
	return Block{Kind: KindSubtitle, Text: text, Size: 12, Bold: true}
}

func Text(text string, size float64, bold bool) Block {
	return Block{Kind: KindText, Text: text, Size: size, Bold: bold}
}

func Spacer(height float64) Block {
	return Block{Kind: KindSpacer, Height: height}
}

func Banner(text string) Block {
	return Block{Kind: KindBanner, Text: text, Size: 14, Bold: true}
}

func LinkBox(label, link string) Block {
	return Block{Kind: KindLinkBox, Label: label, Text: link, Size: 10}
}

// Image embeds a square PNG of the given side length.
func Image(name string, png []byte, side float64) Block {
	return Block{Kind: KindImage, Image: name, PNG: png, Height: side}
}

// Section is a named, ordered list of blocks. Every section starts on a
// fresh page.
type Section struct {
	Name   string
	Blocks []Block
}

// Geometry describes the page in millimetres.
type Geometry struct {
	PageWidth  float64
	PageHeight float64
	Top        float64
	Bottom     float64
	Left       float64
	Right      float64
}

// ContentWidth is the printable width between the side margins.
func (g Geometry) ContentWidth() float64 {
	return g.PageWidth - g.Left - g.Right
}

// Limit is the lowest baseline a block may reach before breaking.
func (g Geometry) Limit() float64 {
	return g.PageHeight - g.Bottom
}

// Measurer wraps and measures text in the renderer's fonts.
type Measurer interface {
	Lines(text string, size float64, bold bool, width float64) []string
	Width(text string, size float64, bold bool) float64
}

// Cursor is the write position. Page 0 means no page has been started.
type Cursor struct {
	Page int
	Y    float64
}

// Op is a drawing primitive.
type Op int

const (
	OpText Op = iota
	OpRect
	OpImage
)

// Role selects a colour from the branding palette.
type Role int

const (
	RoleText Role = iota
	RolePrimary
	RoleMuted
	RoleWhite
	RolePanel
)

// Placement is one positioned drawing operation.
type Placement struct {
	Op      Op
	Page    int
	Section string
	X, Y    float64
	W, H    float64
	Text    string
	Size    float64
	Bold    bool
	Role    Role
	Image   string
}

// SectionMark records the page span of a section.
type SectionMark struct {
	Name      string
	StartPage int
	EndPage   int
}

// Plan is the complete, positioned document.
type Plan struct {
	Geometry   Geometry
	Pages      int
	Sections   []SectionMark
	Placements []Placement
	Images     map[string][]byte
}

// Text returns every text placement in document order, one per line.
func (p Plan) Text() string {
	var b strings.Builder
	for _, pl := range p.Placements {
		if pl.Op == OpText {
			b.WriteString(pl.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// SectionText returns the text placed by one section, without footers.
func (p Plan) SectionText(name string) string {
	var b strings.Builder
	for _, pl := range p.Placements {
		if pl.Op == OpText && pl.Section == name {
			b.WriteString(pl.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// PageFooter is the footer text for page n of a document with total pages.
func PageFooter(n, total int) string {
	return fmt.Sprintf("Page %d of %d", n, total)
}

const (
	titleNeed       = 20.0
	titleAdvance    = 15.0
	subtitleNeed    = 15.0
	subtitleAdvance = 10.0
	textNeed        = 10.0
	lineNeed        = 8.0
	lineAdvance     = 6.0
	textTrailer     = 4.0
	bannerHeight    = 15.0
	bannerAdvance   = 20.0
	linkBoxHeight   = 20.0
	linkBoxAdvance  = 30.0
	headerAdvance   = 35.0
	footerSize      = 10.0
	footerOffset    = 10.0
)

// Layout folds sections into a Plan. It holds no mutable state.
type Layout struct {
	geo     Geometry
	measure Measurer
}

func NewLayout(geo Geometry, m Measurer) Layout {
	return Layout{geo: geo, measure: m}
}

// foldState is threaded through the fold by value.
type foldState struct {
	cursor     Cursor
	section    string
	placements []Placement
	marks      []SectionMark
	images     map[string][]byte
}

// Fold places every block of every section and stamps the footers once the
// page total is known.
func (l Layout) Fold(sections []Section) Plan {
	st := foldState{images: map[string][]byte{}}

	for _, s := range sections {
		st = l.startSection(st, s.Name)
		start := st.cursor.Page
		for _, b := range s.Blocks {
			st = l.place(st, b)
		}
		st.marks = append(st.marks, SectionMark{Name: s.Name, StartPage: start, EndPage: st.cursor.Page})
	}

	total := st.cursor.Page
	for page := 1; page <= total; page++ {
		footer := PageFooter(page, total)
		st.placements = append(st.placements, Placement{
			Op:   OpText,
			Page: page,
			X:    l.geo.PageWidth - l.geo.Right - l.measure.Width(footer, footerSize, false),
			Y:    l.geo.PageHeight - footerOffset,
			Text: footer,
			Size: footerSize,
			Role: RoleMuted,
		})
	}

	return Plan{
		Geometry:   l.geo,
		Pages:      total,
		Sections:   st.marks,
		Placements: st.placements,
		Images:     st.images,
	}
}

func (l Layout) startSection(st foldState, name string) foldState {
	st.section = name
	st.cursor = l.newPage(st.cursor)
	return st
}

func (l Layout) newPage(c Cursor) Cursor {
	return Cursor{Page: c.Page + 1, Y: l.geo.Top}
}

// ensure breaks the page when need does not fit above the bottom margin.
func (l Layout) ensure(c Cursor, need float64) Cursor {
	if c.Y+need > l.geo.Limit() {
		return l.newPage(c)
	}
	return c
}

func (l Layout) at(c Cursor, y float64) Cursor {
	return Cursor{Page: c.Page, Y: y}
}

func (st foldState) emit(p Placement) foldState {
	p.Page = st.cursor.Page
	p.Section = st.section
	st.placements = append(st.placements, p)
	return st
}

func (l Layout) place(st foldState, b Block) foldState {
	x := l.geo.Left
	width := l.geo.ContentWidth()

	switch b.Kind {
	case KindHeader:
		st.cursor = l.ensure(st.cursor, headerAdvance)
		y := st.cursor.Y
		st = st.emit(Placement{Op: OpText, X: x, Y: y, Text: b.Text, Size: 24, Bold: true, Role: RolePrimary})
		st = st.emit(Placement{Op: OpText, X: x, Y: y + 15, Text: b.Label, Size: 10, Role: RoleMuted})
		st.cursor = l.at(st.cursor, y+headerAdvance)

	case KindTitle:
		lines := l.measure.Lines(b.Text, b.Size, true, width)
		extra := lineHeight(b.Size) * float64(max(len(lines)-1, 0))
		st.cursor = l.ensure(st.cursor, titleNeed+extra)
		y := st.cursor.Y
		for i, line := range lines {
			st = st.emit(Placement{Op: OpText, X: x, Y: y + float64(i)*lineHeight(b.Size), Text: line, Size: b.Size, Bold: true, Role: RolePrimary})
		}
		st.cursor = l.at(st.cursor, y+titleAdvance+extra)

	case KindSubtitle:
		lines := l.measure.Lines(b.Text, b.Size, true, width)
		extra := lineHeight(b.Size) * float64(max(len(lines)-1, 0))
		st.cursor = l.ensure(st.cursor, subtitleNeed+extra)
		y := st.cursor.Y
		for i, line := range lines {
			st = st.emit(Placement{Op: OpText, X: x, Y: y + float64(i)*lineHeight(b.Size), Text: line, Size: b.Size, Bold: true, Role: RoleText})
		}
		st.cursor = l.at(st.cursor, y+subtitleAdvance+extra)

	case KindText:
		lines := l.measure.Lines(b.Text, b.Size, b.Bold, width)
		if len(lines) == 0 {
			return st
		}
		st.cursor = l.ensure(st.cursor, textNeed)
		for _, line := range lines {
			st.cursor = l.ensure(st.cursor, lineNeed)
			st = st.emit(Placement{Op: OpText, X: x, Y: st.cursor.Y, Text: line, Size: b.Size, Bold: b.Bold, Role: RoleText})
			st.cursor = l.at(st.cursor, st.cursor.Y+lineAdvance)
		}
		st.cursor = l.at(st.cursor, st.cursor.Y+textTrailer)

	case KindSpacer:
		st.cursor = l.at(st.cursor, st.cursor.Y+b.Height)

	case KindBanner:
		st.cursor = l.ensure(st.cursor, bannerAdvance)
		y := st.cursor.Y
		st = st.emit(Placement{Op: OpRect, X: x, Y: y - 5, W: width, H: bannerHeight, Role: RolePrimary})
		st = st.emit(Placement{Op: OpText, X: x + 5, Y: y + 5, Text: b.Text, Size: b.Size, Bold: true, Role: RoleWhite})
		st.cursor = l.at(st.cursor, y+bannerAdvance)

	case KindLinkBox:
		lines := l.measure.Lines(b.Text, b.Size, false, width-10)
		extra := lineHeight(b.Size) * float64(max(len(lines)-1, 0))
		st.cursor = l.ensure(st.cursor, linkBoxAdvance+extra)
		y := st.cursor.Y
		st = st.emit(Placement{Op: OpRect, X: x, Y: y - 5, W: width, H: linkBoxHeight + extra, Role: RolePanel})
		st = st.emit(Placement{Op: OpText, X: x + 5, Y: y + 5, Text: b.Label, Size: 12, Bold: true, Role: RolePrimary})
		for i, line := range lines {
			st = st.emit(Placement{Op: OpText, X: x + 5, Y: y + 12 + float64(i)*lineHeight(b.Size), Text: line, Size: b.Size, Role: RoleText})
		}
		st.cursor = l.at(st.cursor, y+linkBoxAdvance+extra)

	case KindImage:
		st.cursor = l.ensure(st.cursor, b.Height+5)
		y := st.cursor.Y
		st = st.emit(Placement{Op: OpImage, X: x, Y: y, W: b.Height, H: b.Height, Image: b.Image})
		st.images[b.Image] = b.PNG
		st.cursor = l.at(st.cursor, y+b.Height+5)
	}

	return st
}

// lineHeight converts a point size to a line pitch in millimetres.
func lineHeight(size float64) float64 {
	return size * 0.3528 * 1.25
}
