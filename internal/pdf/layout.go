package pdf

import (
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
)

// Геометрия страницы A4 в миллиметрах.
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginX      = 20.0
	marginTop    = 20.0
	marginBottom = 20.0
	safetyMargin = 4.0
	contentWidth = pageWidth - 2*marginX

	// 1pt = 0.3528mm, межстрочный интервал 1.3
	lineFactor = 0.3528 * 1.3
)

// Align - горизонтальное выравнивание строки.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Блоки документа, по которым размечены строки.
const (
	BlockHeader    = "header"
	BlockCompany   = "company"
	BlockParty     = "party"
	BlockClause    = "clause"
	BlockTitle     = "clause_title"
	BlockSignature = "signature"
	BlockFooter    = "footer"
)

// Line - одна выведенная строка текста.
type Line struct {
	Page  int
	X     float64
	Y     float64
	Width float64
	Align Align
	Block string
	Text  string
}

// composer ведёт курсор по страницам и раскладывает текст.
type composer struct {
	pdf    *fpdf.Fpdf
	encode func(string) string
	// visual переводит строку в порядок вывода; для LTR - тождественно
	visual func(string) string
	family string
	bold   bool // есть ли у семейства жирное начертание
	rtl    bool

	size       float64
	lineHeight float64
	y          float64
	page       int
	lines      []Line
}

func newComposer(pdf *fpdf.Fpdf, family string, encode, visual func(string) string, bold, rtl bool) *composer {
	return &composer{
		pdf:    pdf,
		encode: encode,
		visual: visual,
		family: family,
		bold:   bold,
		rtl:    rtl,
	}
}

func (c *composer) newPage() {
	c.pdf.AddPage()
	c.page++
	c.y = marginTop
}

func (c *composer) setFont(style string, size float64) {
	if !c.bold {
		style = ""
	}
	c.pdf.SetFont(c.family, style, size)
	c.size = size
	c.lineHeight = size * lineFactor
}

// ensure начинает новую страницу, если до нижнего поля осталось меньше h плюс запас.
func (c *composer) ensure(h float64) {
	if pageHeight-marginBottom-c.y < h+safetyMargin {
		c.newPage()
	}
}

func (c *composer) gap(h float64) {
	c.y += h
}

func (c *composer) width(s string) float64 {
	return c.pdf.GetStringWidth(c.encode(s))
}

// bodyAlign - выравнивание абзацев: по правому полю для RTL, иначе по левому.
func (c *composer) bodyAlign() Align {
	if c.rtl {
		return AlignRight
	}
	return AlignLeft
}

// wrap жадно набирает слова в строку, пока ширина не превышает maxWidth.
// Слово шире строки режется по символам.
func (c *composer) wrap(text string, maxWidth float64) []string {
	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		current := ""
		for _, word := range words {
			if c.width(word) > maxWidth {
				if current != "" {
					out = append(out, current)
					current = ""
				}
				pieces := c.breakWord(word, maxWidth)
				out = append(out, pieces[:len(pieces)-1]...)
				current = pieces[len(pieces)-1]
				continue
			}
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if c.width(candidate) <= maxWidth {
				current = candidate
				continue
			}
			out = append(out, current)
			current = word
		}
		out = append(out, current)
	}
	return out
}

func (c *composer) breakWord(word string, maxWidth float64) []string {
	var pieces []string
	current := ""
	for len(word) > 0 {
		r, size := utf8.DecodeRuneInString(word)
		word = word[size:]
		candidate := current + string(r)
		if current != "" && c.width(candidate) > maxWidth {
			pieces = append(pieces, current)
			current = string(r)
			continue
		}
		current = candidate
	}
	return append(pieces, current)
}

// text выводит переносимый текст блоком, проверяя место перед каждой строкой.
func (c *composer) text(block, text string, align Align) {
	for _, line := range c.wrap(text, contentWidth) {
		c.ensure(c.lineHeight)
		c.place(block, line, align)
		c.y += c.lineHeight
	}
}

// place выводит одну строку на текущей высоте без переноса.
func (c *composer) place(block, line string, align Align) {
	w := c.width(line)
	x := marginX
	switch align {
	case AlignCenter:
		x = marginX + (contentWidth-w)/2
	case AlignRight:
		x = pageWidth - marginX - w
	}
	c.placeAt(block, line, x, w, align)
}

func (c *composer) placeAt(block, line string, x, w float64, align Align) {
	if line != "" {
		c.pdf.SetXY(x, c.y)
		c.pdf.CellFormat(w, c.lineHeight, c.visual(c.encode(line)), "", 0, "L", false, 0, "")
	}
	c.lines = append(c.lines, Line{
		Page:  c.page,
		X:     x,
		Y:     c.y,
		Width: w,
		Align: align,
		Block: block,
		Text:  line,
	})
}
