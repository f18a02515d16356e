// Package pdf renders partnership and termination contracts into paginated
// A4 PDF documents in English, Dari/Persian and Pashto.
//
// Layout is computed by the package itself (greedy word wrap, manual page
// breaks, per-language alignment); fpdf is used only for font metrics and
// serialization. For a fixed input and font the result is stable: the same
// pages and the same line breaks.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/SulimanHakimi/volvera-sub000/models"
	"github.com/go-pdf/fpdf"
)

// ErrRender - неустранимая ошибка при сборке документа.
var ErrRender = errors.New("contract rendering failed")

// TemplateNumber подставляется вместо номера договора в режиме шаблона.
const TemplateNumber = "TEMPLATE"

// Размеры блока подписей.
const (
	signatureRuleWidth = 60.0
	signatureBlock     = 48.0
	signatureImageMaxW = 50.0
	signatureImageMaxH = 18.0
)

// documentEpoch - дата создания PDF в режиме шаблона.
var documentEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

var unsafeFileChars = regexp.MustCompile(`[^0-9A-Za-z._-]+`)

// Settings - данные компании для блока реквизитов и подписи.
type Settings struct {
	CompanyName        string
	Address            string
	RegistrationNumber string
	SignatureImagePath string
	RevenueShare       string
}

// SettingsFromMap собирает Settings из пар ключ/значение company_settings.
func SettingsFromMap(m map[string]string) Settings {
	return Settings{
		CompanyName:        m[models.SettingCompanyName],
		Address:            m[models.SettingCompanyAddress],
		RegistrationNumber: m[models.SettingRegistrationNumber],
		SignatureImagePath: m[models.SettingSignatureImagePath],
		RevenueShare:       m[models.SettingRevenueShare],
	}
}

// Input - что рендерить. Contract == nil означает шаблон с заглушками вместо данных сторон.
type Input struct {
	Contract *models.Contract
	// RelatedNumber - номер расторгаемого договора для type=termination.
	RelatedNumber string
	Language      string
	Settings      Settings
}

// Result - готовый документ и его раскладка.
type Result struct {
	Bytes     []byte
	Filename  string
	Language  string
	PageCount int
	Lines     []Line

	FontFamily        string
	FontFallback      bool
	SignatureEmbedded bool
}

// Renderer не хранит состояние между вызовами Render и безопасен для
// параллельного использования.
type Renderer struct {
	fonts  FontSource
	logger *slog.Logger
}

type Option func(*Renderer)

// WithFontSource задаёт источник шрифта для fa/ps.
func WithFontSource(src FontSource) Option {
	return func(r *Renderer) {
		r.fonts = src
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render собирает PDF. Ошибки загрузки шрифта и изображения подписи
// не фатальны: они пишутся в лог, документ собирается без них.
func (r *Renderer) Render(ctx context.Context, in Input) (res *Result, err error) {
	bundle := BundleFor(in.Language)
	if in.Language != "" && !IsSupported(in.Language) {
		r.logger.Warn("Unsupported contract language, using English", "lang", in.Language)
	}

	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = fmt.Errorf("%w: panic: %v", ErrRender, p)
		}
	}()

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(marginX, marginTop, marginX)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCellMargin(0)

	res = &Result{Language: bundle.Lang, FontFamily: latinFamily}
	encode := doc.UnicodeTranslatorFromDescriptor("")
	visual := func(s string) string { return s }
	bold := true
	if bundle.RTL {
		if r.loadRTLFont(ctx, doc) {
			res.FontFamily = rtlFamily
			encode = visual
			// fpdf.RTL() переворачивает строку целиком, вместе с латиницей
			// и цифрами, поэтому порядок вывода считаем сами
			visual = visualOrder
			bold = false
		} else {
			res.FontFallback = true
		}
	}

	c := newComposer(doc, res.FontFamily, encode, visual, bold, bundle.RTL)
	c.newPage()

	data, number, publicID, created := r.resolveParty(in, bundle)
	title := bundle.PartnershipTitle
	contractType := models.ContractTypePartnership
	if in.Contract != nil && in.Contract.Type == models.ContractTypeTermination {
		title = bundle.TerminationTitle
		contractType = models.ContractTypeTermination
	}

	r.header(c, bundle, title, number, created, in.Contract == nil)
	r.company(c, bundle, in.Settings)
	r.party(c, bundle, data, in.Contract == nil)
	r.clauses(c, bundle, in, contractType, len(data.Platforms))
	res.SignatureEmbedded = r.signatures(c, bundle, in.Settings, data.Name)
	r.footer(c, bundle, publicID)

	doc.SetTitle(title, true)
	doc.SetCreator("Volvera", true)
	doc.SetCreationDate(created)
	doc.SetModificationDate(created)
	doc.SetCatalogSort(true)

	if doc.Err() {
		return nil, fmt.Errorf("%w: %v", ErrRender, doc.Error())
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	res.Bytes = buf.Bytes()
	res.PageCount = c.page
	res.Lines = c.lines
	res.Filename = Filename(contractType, number, bundle.Lang, in.Contract == nil)
	return res, nil
}

// Filename строит имя файла: <Name>_<ContractNumber>_<lang>.pdf.
func Filename(t models.ContractType, number, lang string, template bool) string {
	name := "Partnership_Contract"
	if t == models.ContractTypeTermination {
		name = "Termination_Contract"
	}
	if template {
		number = TemplateNumber
	}
	number = unsafeFileChars.ReplaceAllString(number, "_")
	return fmt.Sprintf("%s_%s_%s.pdf", name, number, lang)
}

func (r *Renderer) loadRTLFont(ctx context.Context, doc *fpdf.Fpdf) bool {
	if r.fonts == nil {
		r.logger.Warn("No RTL font source configured, falling back to Latin font")
		return false
	}
	data, err := r.fonts.Fetch(ctx)
	if err != nil {
		r.logger.Warn("Could not fetch RTL font, falling back to Latin font", "error", err)
		return false
	}
	if err := probeUTF8Font(data); err != nil {
		r.logger.Warn("RTL font is not usable, falling back to Latin font", "error", err)
		return false
	}
	doc.AddUTF8FontFromBytes(rtlFamily, "", data)
	return !doc.Err()
}

func (r *Renderer) resolveParty(in Input, b *Bundle) (models.ContractData, string, string, time.Time) {
	if in.Contract == nil {
		p := b.Placeholders
		return models.ContractData{
			Name:      p.Name,
			Email:     p.Email,
			Phone:     p.Phone,
			Country:   p.Country,
			Platforms: []models.Platform{{PlatformName: p.Platforms, Link: b.PlaceholderLink}},
			Message:   p.Message,
		}, TemplateNumber, TemplateNumber, documentEpoch
	}
	created := in.Contract.CreatedAt.UTC()
	if created.IsZero() {
		created = documentEpoch
	}
	return in.Contract.DataFor(b.Lang), in.Contract.ContractNumber, in.Contract.PublicID, created
}

func (r *Renderer) header(c *composer, b *Bundle, title, number string, created time.Time, template bool) {
	c.setFont("B", 16)
	c.text(BlockHeader, title, AlignCenter)
	c.gap(2)

	c.setFont("", 10)
	if template {
		c.text(BlockHeader, b.TemplateNote, AlignCenter)
	} else {
		c.text(BlockHeader, fmt.Sprintf("%s %s  |  %s: %s", b.NumberLabel, number, b.DateLabel, created.Format("2006-01-02")), AlignCenter)
	}
	c.gap(6)
}

func (r *Renderer) company(c *composer, b *Bundle, s Settings) {
	orDash := func(v string) string {
		if strings.TrimSpace(v) == "" {
			return b.NotSpecified
		}
		return v
	}
	line := strings.NewReplacer(
		"{company}", orDash(s.CompanyName),
		"{registration}", orDash(s.RegistrationNumber),
		"{address}", orDash(s.Address),
	).Replace(b.CompanyLine)

	c.setFont("B", 12)
	c.text(BlockTitle, b.CompanyHeading, c.bodyAlign())
	c.setFont("", 10)
	c.text(BlockCompany, line, c.bodyAlign())
	c.gap(4)
}

func (r *Renderer) party(c *composer, b *Bundle, d models.ContractData, template bool) {
	c.setFont("B", 12)
	c.text(BlockTitle, b.ContractorHeading, c.bodyAlign())
	c.setFont("", 10)

	value := func(v string) string {
		if strings.TrimSpace(v) == "" {
			return b.NotSpecified
		}
		return v
	}
	c.text(BlockParty, b.Labels.Name+": "+value(d.Name), c.bodyAlign())
	c.text(BlockParty, b.Labels.Email+": "+value(d.Email), c.bodyAlign())
	c.text(BlockParty, b.Labels.Phone+": "+value(d.Phone), c.bodyAlign())
	c.text(BlockParty, b.Labels.Country+": "+value(d.Country), c.bodyAlign())

	c.text(BlockParty, b.Labels.Platforms+":", c.bodyAlign())
	if len(d.Platforms) == 0 {
		c.text(BlockParty, "  "+b.NotSpecified, c.bodyAlign())
	}
	for _, p := range d.Platforms {
		c.text(BlockParty, fmt.Sprintf("  - %s: %s", value(p.PlatformName), value(p.Link)), c.bodyAlign())
	}

	if template || strings.TrimSpace(d.Message) != "" {
		c.text(BlockParty, b.Labels.Message+": "+value(d.Message), c.bodyAlign())
	}
	c.gap(4)
}

func (r *Renderer) clauses(c *composer, b *Bundle, in Input, t models.ContractType, platforms int) {
	share, err := RevenueShare(in.Settings.RevenueShare, platforms)
	if err != nil {
		r.logger.Warn("Invalid revenue share setting, using default", "error", err, "default", DefaultRevenueShare)
	}
	related := in.RelatedNumber
	if related == "" {
		related = b.RelatedUnknown
	}
	repl := strings.NewReplacer(
		"{share}", fmt.Sprintf("%d", share),
		"{shareWords}", shareInWords(share),
		"{related}", related,
	)

	list := b.PartnershipClauses
	if t == models.ContractTypeTermination {
		list = b.TerminationClauses
	}
	for i, cl := range list {
		c.setFont("B", 11)
		// заголовок пункта не должен остаться внизу страницы без текста
		c.ensure(c.lineHeight + 2*10*lineFactor)
		c.text(BlockTitle, fmt.Sprintf("%d. %s", i+1, cl.Title), c.bodyAlign())
		c.setFont("", 10)
		c.text(BlockClause, repl.Replace(cl.Body), c.bodyAlign())
		c.gap(3)
	}
}

// signatures рисует две линии подписи (компания слева, создатель справа)
// и при наличии накладывает изображение подписи компании на левую линию.
func (r *Renderer) signatures(c *composer, b *Bundle, s Settings, contractorName string) bool {
	c.ensure(signatureBlock)
	c.gap(4)
	c.setFont("B", 12)
	c.text(BlockSignature, b.SignatureHeading, AlignCenter)

	ruleY := c.y + signatureImageMaxH + 4
	leftX := marginX
	rightX := pageWidth - marginX - signatureRuleWidth
	c.pdf.SetLineWidth(0.3)
	c.pdf.Line(leftX, ruleY, leftX+signatureRuleWidth, ruleY)
	c.pdf.Line(rightX, ruleY, rightX+signatureRuleWidth, ruleY)

	embedded := false
	if s.SignatureImagePath != "" {
		embedded = r.signatureImage(c.pdf, s.SignatureImagePath, leftX, ruleY)
	}

	c.y = ruleY + 2
	c.setFont("", 10)
	c.labelUnder(b.CompanySignature, leftX)
	c.labelUnder(b.ContractorSignature, rightX)
	c.y += c.lineHeight

	company := s.CompanyName
	if strings.TrimSpace(company) == "" {
		company = b.NotSpecified
	}
	if strings.TrimSpace(contractorName) == "" {
		contractorName = b.NotSpecified
	}
	c.setFont("", 9)
	c.labelUnder(company, leftX)
	c.labelUnder(contractorName, rightX)
	c.y += c.lineHeight
	return embedded
}

// labelUnder центрирует подпись под линией, начинающейся в x.
func (c *composer) labelUnder(text string, x float64) {
	w := c.width(text)
	if w > signatureRuleWidth {
		text = c.wrap(text, signatureRuleWidth)[0]
		w = c.width(text)
	}
	c.placeAt(BlockSignature, text, x+(signatureRuleWidth-w)/2, w, AlignCenter)
}

func (r *Renderer) signatureImage(doc *fpdf.Fpdf, path string, x, ruleY float64) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		r.logger.Warn("Could not read company signature image, skipping", "error", err, "path", path)
		return false
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		r.logger.Warn("Company signature image is not a valid image, skipping", "error", err, "path", path)
		return false
	}
	imageType := map[string]string{"png": "PNG", "jpeg": "JPG", "gif": "GIF"}[format]
	if imageType == "" {
		r.logger.Warn("Unsupported signature image format, skipping", "format", format, "path", path)
		return false
	}
	opts := fpdf.ImageOptions{ImageType: imageType}

	// fpdf переводит документ в состояние ошибки на неподдерживаемых
	// вариантах PNG, поэтому сначала пробуем на отдельном документе.
	probe := fpdf.New("P", "mm", "A4", "")
	probe.RegisterImageOptionsReader("signature", opts, bytes.NewReader(data))
	if probe.Err() {
		r.logger.Warn("Company signature image could not be embedded, skipping", "error", probe.Error(), "path", path)
		return false
	}

	w := signatureImageMaxW
	h := w * float64(cfg.Height) / float64(cfg.Width)
	if h > signatureImageMaxH {
		h = signatureImageMaxH
		w = h * float64(cfg.Width) / float64(cfg.Height)
	}

	doc.RegisterImageOptionsReader("signature", opts, bytes.NewReader(data))
	doc.ImageOptions("signature", x+(signatureRuleWidth-w)/2, ruleY-h-1, w, h, false, opts, 0, "")
	return true
}

// footer ставит идентификатор договора только на последней странице.
func (r *Renderer) footer(c *composer, b *Bundle, publicID string) {
	c.setFont("", 8)
	c.y = pageHeight - marginBottom + 6
	c.place(BlockFooter, b.FooterLabel+": "+publicID, AlignCenter)
}
