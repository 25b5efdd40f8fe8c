package utils

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Ukuran halaman A4 landscape dalam point
const (
	PageWidth  = 841.89
	PageHeight = 595.28
)

const (
	defaultFontSize = 12.0
	defaultQRSize   = 100.0
	qrPixelSize     = 512
)

// FetchFailureRecorder dipanggil setiap kali gambar remote gagal dan fallback dipakai
type FetchFailureRecorder interface {
	IncrImageFetchFailure(kind string)
}

// CertificateRenderData adalah semua data yang dibutuhkan renderer, sudah di-resolve dari DB
type CertificateRenderData struct {
	Code          string
	Type          model.CertificateType
	VisitorName   string
	TenantName    string
	GeneratedAt   time.Time
	Title         string
	CulturalHours *int
	VerifyURL     string

	// Template opsional; nil berarti layout default
	Template *model.CertificateTemplate

	// Background layout default: background acara menimpa background tenant
	BackgroundURL string
}

// ParticipationRenderData untuk sertifikat partisipasi acara yang dikirim via email
type ParticipationRenderData struct {
	CertificateRenderData
	EventDate    time.Time
	LogoURL      string
	SignatureURL string
}

type CertificateRenderer struct {
	fetcher  ImageFetcher
	logger   *zap.Logger
	recorder FetchFailureRecorder
	compress bool
}

func NewCertificateRenderer(fetcher ImageFetcher, logger *zap.Logger, recorder FetchFailureRecorder) *CertificateRenderer {
	return &CertificateRenderer{fetcher: fetcher, logger: logger, recorder: recorder, compress: true}
}

type pdfCanvas struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	images int
}

func newCanvas(compress bool) *pdfCanvas {
	pdf := gofpdf.New("L", "pt", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return &pdfCanvas{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (c *pdfCanvas) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("gagal generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *pdfCanvas) image(img *FetchedImage, x, y, w, h float64) {
	c.images++
	name := fmt.Sprintf("img-%d", c.images)
	opts := gofpdf.ImageOptions{ImageType: img.Type}
	c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	c.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}

func (c *pdfCanvas) qr(content string, x, y, w, h float64) error {
	png, err := GenerateQRCodePNG(content, qrPixelSize)
	if err != nil {
		return err
	}
	c.image(&FetchedImage{Data: png, Type: "PNG"}, x, y, w, h)
	return nil
}

func (c *pdfCanvas) fill(hex string) {
	r, g, b, _ := ParseHexColor(hex)
	c.pdf.SetFillColor(r, g, b)
	c.pdf.Rect(0, 0, PageWidth, PageHeight, "F")
}

// centered menulis satu baris teks di tengah halaman
func (c *pdfCanvas) centered(text, family, style string, size float64, color string, y float64) {
	r, g, b, _ := ParseHexColor(color)
	c.pdf.SetFont(family, style, size)
	c.pdf.SetTextColor(r, g, b)
	c.pdf.SetXY(0, y)
	c.pdf.CellFormat(PageWidth, size*1.2, c.tr(text), "", 0, "C", false, 0, "")
}

func (r *CertificateRenderer) fetch(ctx context.Context, url, kind string) *FetchedImage {
	if url == "" || r.fetcher == nil {
		return nil
	}
	img, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		r.logger.Warn("image fetch failed, using fallback",
			zap.String("kind", kind),
			zap.String("url", url),
			zap.Error(err),
		)
		if r.recorder != nil {
			r.recorder.IncrImageFetchFailure(kind)
		}
		return nil
	}
	return img
}

// Render menghasilkan PDF sertifikat: layout template bila ada, selain itu layout default
func (r *CertificateRenderer) Render(ctx context.Context, data CertificateRenderData) ([]byte, error) {
	c := newCanvas(r.compress)

	if data.Template != nil {
		if err := r.renderTemplate(ctx, c, data); err != nil {
			return nil, err
		}
	} else {
		if err := r.renderDefault(ctx, c, data); err != nil {
			return nil, err
		}
	}

	return c.output()
}

func (r *CertificateRenderer) renderTemplate(ctx context.Context, c *pdfCanvas, data CertificateRenderData) error {
	tpl := data.Template

	bgURL := ""
	if tpl.BackgroundURL != nil {
		bgURL = *tpl.BackgroundURL
	}
	if bg := r.fetch(ctx, bgURL, "template_background"); bg != nil {
		c.image(bg, 0, 0, PageWidth, PageHeight)
	} else {
		c.fill("#ffffff")
	}

	values := placeholderValuesFor(data)

	for i, el := range tpl.Elements {
		if err := el.Validate(); err != nil {
			r.logger.Warn("skipping invalid template element",
				zap.String("template_id", tpl.ID.String()),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}

		switch el.Type {
		case model.ElementText:
			drawTextElement(c, el, SubstitutePlaceholders(el.Text, values))
		case model.ElementQRCode:
			w := defaultQRSize
			if el.Width != nil {
				w = *el.Width
			}
			h := w
			if el.Height != nil {
				h = *el.Height
			}
			if err := c.qr(data.VerifyURL, el.X, el.Y, w, h); err != nil {
				return err
			}
		}
	}
	return nil
}

func placeholderValuesFor(data CertificateRenderData) PlaceholderValues {
	v := PlaceholderValues{
		VisitorName:   data.VisitorName,
		CompletedAt:   data.GeneratedAt,
		Code:          data.Code,
		CulturalHours: data.CulturalHours,
	}
	switch data.Type {
	case model.CertificateTrail:
		v.TrailName = data.Title
	case model.CertificateEvent:
		v.EventName = data.Title
	}
	return v
}

func drawTextElement(c *pdfCanvas, el model.TemplateElement, text string) {
	size := defaultFontSize
	if el.FontSize != nil {
		size = *el.FontSize
	}
	family, style := MapFontFamily(el.FontFamily)
	color := el.Color
	if color == "" {
		color = "#000000"
	}
	red, green, blue, _ := ParseHexColor(color)

	width := PageWidth - el.X
	if el.Width != nil {
		width = *el.Width
	}
	if width < 1 {
		width = 1
	}

	c.pdf.SetFont(family, style, size)
	c.pdf.SetTextColor(red, green, blue)
	c.pdf.SetXY(el.X, el.Y)
	c.pdf.MultiCell(width, size*1.2, c.tr(text), "", alignCode(el.Align), false)
}

func alignCode(align string) string {
	switch align {
	case "center":
		return "C"
	case "right":
		return "R"
	}
	return "L"
}

// MapFontFamily memetakan nama font gaya PostScript (Helvetica-Bold, Times-Roman, ...) ke core font gofpdf
func MapFontFamily(name string) (family, style string) {
	n := strings.ToLower(name)

	switch {
	case strings.Contains(n, "times"):
		family = "Times"
	case strings.Contains(n, "courier"):
		family = "Courier"
	default:
		family = "Helvetica"
	}

	if strings.Contains(n, "bold") {
		style += "B"
	}
	if strings.Contains(n, "oblique") || strings.Contains(n, "italic") {
		style += "I"
	}
	return family, style
}

// ParseHexColor menerima #rgb atau #rrggbb; warna tidak valid menjadi hitam
func ParseHexColor(s string) (r, g, b int, ok bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

// DescriptionFor adalah kalimat deskripsi layout default per tipe sertifikat
func DescriptionFor(t model.CertificateType, title string) string {
	switch t {
	case model.CertificateEvent:
		if title == "" {
			title = "Evento Cultural"
		}
		return fmt.Sprintf("participou do evento \"%s\"", title)
	case model.CertificateTrail:
		if title == "" {
			title = "Trilha Cultural"
		}
		return fmt.Sprintf("concluiu a trilha \"%s\"", title)
	default:
		return "concluiu com êxito a participação nas atividades culturais."
	}
}

func (r *CertificateRenderer) renderDefault(ctx context.Context, c *pdfCanvas, data CertificateRenderData) error {
	if bg := r.fetch(ctx, data.BackgroundURL, "default_background"); bg != nil {
		c.image(bg, 0, 0, PageWidth, PageHeight)
	} else {
		drawFallbackFrame(c)
	}

	name := data.VisitorName
	if name == "" {
		name = "Visitante"
	}

	c.centered("CERTIFICADO", "Helvetica", "B", 40, "#2c3e50", 100)
	c.centered("Certificamos que", "Helvetica", "", 20, "#34495e", 180)
	c.centered(name, "Helvetica", "B", 35, "#000000", 220)

	c.pdf.SetFont("Helvetica", "", 16)
	c.pdf.SetTextColor(0, 0, 0)
	c.pdf.SetXY(100, 280)
	c.pdf.MultiCell(640, 20, c.tr(DescriptionFor(data.Type, data.Title)), "", "C", false)

	c.pdf.SetFont("Helvetica", "", 14)
	lines := []string{
		"Data: " + data.GeneratedAt.Format(DateLayoutBR),
		"Emissor: " + data.TenantName,
		"Código: " + data.Code,
	}
	for i, line := range lines {
		c.pdf.SetXY(100, 400+float64(i)*20)
		c.pdf.CellFormat(400, 16, c.tr(line), "", 0, "L", false, 0, "")
	}

	if err := c.qr(data.VerifyURL, 650, 380, 120, 120); err != nil {
		return err
	}
	c.pdf.SetFont("Helvetica", "", 10)
	c.pdf.SetXY(650, 510)
	c.pdf.MultiCell(120, 12, c.tr("Verifique a autenticidade"), "", "C", false)
	return nil
}

// drawFallbackFrame: halaman off-white dengan bingkai emas
func drawFallbackFrame(c *pdfCanvas) {
	c.fill("#fdfbf7")
	r, g, b, _ := ParseHexColor("#d4af37")
	c.pdf.SetDrawColor(r, g, b)
	c.pdf.SetLineWidth(10)
	c.pdf.Rect(20, 20, 801, 555, "D")
}

// RenderParticipation menghasilkan sertifikat partisipasi acara.
// Logo, tanda tangan, dan background diambil paralel; yang gagal dilewati.
func (r *CertificateRenderer) RenderParticipation(ctx context.Context, data ParticipationRenderData) ([]byte, error) {
	var logo, signature, background *FetchedImage

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logo = r.fetch(gctx, data.LogoURL, "logo")
		return nil
	})
	g.Go(func() error {
		signature = r.fetch(gctx, data.SignatureURL, "signature")
		return nil
	})
	g.Go(func() error {
		background = r.fetch(gctx, data.BackgroundURL, "participation_background")
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := newCanvas(r.compress)
	if background != nil {
		c.image(background, 0, 0, PageWidth, PageHeight)
	} else {
		drawFallbackFrame(c)
	}

	if logo != nil {
		c.image(logo, PageWidth/2-60, 40, 120, 0)
	}

	name := data.VisitorName
	if name == "" {
		name = "Visitante"
	}
	title := data.Title
	if title == "" {
		title = "Evento Cultural"
	}

	c.centered("CERTIFICADO DE PARTICIPAÇÃO", "Helvetica", "B", 32, "#2c3e50", 130)
	c.centered("Certificamos que", "Helvetica", "", 18, "#34495e", 190)
	c.centered(name, "Helvetica", "B", 32, "#000000", 225)

	desc := fmt.Sprintf("participou do evento \"%s\", realizado em %s", title, data.EventDate.Format(DateLayoutBR))
	if data.CulturalHours != nil {
		desc += fmt.Sprintf(", com carga horária de %d horas", *data.CulturalHours)
	}
	desc += "."

	c.pdf.SetFont("Helvetica", "", 15)
	c.pdf.SetTextColor(0, 0, 0)
	c.pdf.SetXY(100, 285)
	c.pdf.MultiCell(640, 20, c.tr(desc), "", "C", false)

	// Tanda tangan di atas garis, nama tenant di bawahnya
	if signature != nil {
		c.image(signature, PageWidth/2-75, 390, 150, 0)
	}
	c.pdf.SetDrawColor(44, 62, 80)
	c.pdf.SetLineWidth(1)
	c.pdf.Line(PageWidth/2-110, 450, PageWidth/2+110, 450)
	c.centered(data.TenantName, "Helvetica", "", 12, "#34495e", 456)

	c.pdf.SetFont("Helvetica", "", 10)
	c.pdf.SetTextColor(0, 0, 0)
	c.pdf.SetXY(60, 520)
	c.pdf.CellFormat(300, 12, c.tr("Código: "+data.Code), "", 0, "L", false, 0, "")

	if err := c.qr(data.VerifyURL, 700, 440, 90, 90); err != nil {
		return nil, err
	}

	return c.output()
}
