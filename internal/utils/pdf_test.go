package utils

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubFetcher struct {
	mu    sync.Mutex
	calls []string
	img   *FetchedImage
	err   error
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (*FetchedImage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.img, nil
}

type countingRecorder struct {
	mu    sync.Mutex
	kinds []string
}

func (r *countingRecorder) IncrImageFetchFailure(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, kind)
}

func testPNG(t *testing.T) *FetchedImage {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &FetchedImage{Data: buf.Bytes(), Type: "PNG"}
}

func baseRenderData() CertificateRenderData {
	return CertificateRenderData{
		Code:        "ABCD-EFGH-JKLM",
		Type:        model.CertificateTrail,
		VisitorName: "Ana Souza",
		TenantName:  "Museu do Ipiranga",
		GeneratedAt: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		Title:       "Modernismo",
		VerifyURL:   "https://museus.app/verify/ABCD-EFGH-JKLM",
	}
}

func uncompressedRenderer(f ImageFetcher, rec FetchFailureRecorder) *CertificateRenderer {
	r := NewCertificateRenderer(f, zap.NewNop(), rec)
	r.compress = false
	return r
}

func TestRenderEmptyTemplateProducesPDF(t *testing.T) {
	data := baseRenderData()
	data.Template = &model.CertificateTemplate{ID: uuid.New(), Elements: model.TemplateElements{}}

	out, err := NewCertificateRenderer(nil, zap.NewNop(), nil).Render(context.Background(), data)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.True(t, bytes.Contains(out, []byte("%%EOF")))
}

func TestRenderTemplateSubstitutesPlaceholders(t *testing.T) {
	size := 20.0
	data := baseRenderData()
	data.Template = &model.CertificateTemplate{
		ID: uuid.New(),
		Elements: model.TemplateElements{
			{Type: model.ElementText, X: 100, Y: 200, FontSize: &size, FontFamily: "Helvetica-Bold", Text: "{{nome_visitante}}"},
			{Type: model.ElementText, X: 100, Y: 260, Text: "Trilha {{nome_trilha}} {{token_livre}}"},
			{Type: model.ElementQRCode, X: 650, Y: 380},
		},
	}

	out, err := uncompressedRenderer(nil, nil).Render(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(out, []byte("Ana Souza")))
	assert.True(t, bytes.Contains(out, []byte("Trilha Modernismo {{token_livre}}")))
	assert.False(t, bytes.Contains(out, []byte("{{nome_visitante}}")))
}

func TestRenderTemplateSkipsInvalidElements(t *testing.T) {
	data := baseRenderData()
	data.Template = &model.CertificateTemplate{
		ID: uuid.New(),
		Elements: model.TemplateElements{
			{Type: "video", X: 10, Y: 10, Text: "ignored element"},
			{Type: model.ElementText, X: 10, Y: 10, Text: "kept element"},
		},
	}

	out, err := uncompressedRenderer(nil, nil).Render(context.Background(), data)
	require.NoError(t, err)
	assert.False(t, bytes.Contains(out, []byte("ignored element")))
	assert.True(t, bytes.Contains(out, []byte("kept element")))
}

func TestRenderTemplateBackgroundFailureFallsBack(t *testing.T) {
	bg := "https://cdn.example.org/bg.png"
	data := baseRenderData()
	data.Template = &model.CertificateTemplate{ID: uuid.New(), BackgroundURL: &bg}

	fetcher := &stubFetcher{err: errors.New("connection refused")}
	rec := &countingRecorder{}

	out, err := uncompressedRenderer(fetcher, rec).Render(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, []string{bg}, fetcher.calls)
	assert.Equal(t, []string{"template_background"}, rec.kinds)
}

func TestRenderDefaultLayout(t *testing.T) {
	data := baseRenderData()
	data.BackgroundURL = "https://cdn.example.org/tenant.png"

	fetcher := &stubFetcher{img: testPNG(t)}
	out, err := uncompressedRenderer(fetcher, nil).Render(context.Background(), data)
	require.NoError(t, err)

	assert.True(t, bytes.Contains(out, []byte("CERTIFICADO")))
	assert.True(t, bytes.Contains(out, []byte(`concluiu a trilha "Modernismo"`)))
	assert.True(t, bytes.Contains(out, []byte("Emissor: Museu do Ipiranga")))
	assert.True(t, bytes.Contains(out, []byte("/Subtype /Image")))
}

func TestRenderEmbedsSixteenBitPNGBackground(t *testing.T) {
	deep := image.NewRGBA64(image.Rect(0, 0, 32, 20))
	for x := 0; x < 32; x++ {
		deep.SetRGBA64(x, x%20, color.RGBA64{B: 0xffff, A: 0xffff})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, deep))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)

	bg := srv.URL + "/bg16.png"
	fetcher := NewHTTPImageFetcher(2*time.Second, 1<<20)

	t.Run("template", func(t *testing.T) {
		data := baseRenderData()
		data.Template = &model.CertificateTemplate{ID: uuid.New(), BackgroundURL: &bg}

		rec := &countingRecorder{}
		out, err := uncompressedRenderer(fetcher, rec).Render(context.Background(), data)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
		assert.True(t, bytes.Contains(out, []byte("/Subtype /Image")))
		assert.Empty(t, rec.kinds)
	})

	t.Run("default layout", func(t *testing.T) {
		data := baseRenderData()
		data.BackgroundURL = bg

		out, err := uncompressedRenderer(fetcher, nil).Render(context.Background(), data)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
		assert.True(t, bytes.Contains(out, []byte("/Subtype /Image")))
	})
}

func TestRenderDefaultWithoutBackground(t *testing.T) {
	data := baseRenderData()
	data.VisitorName = ""
	data.Type = model.CertificateCustom

	rec := &countingRecorder{}
	out, err := uncompressedRenderer(&stubFetcher{}, rec).Render(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(out, []byte("Visitante")))
	// tanpa URL tidak ada fetch, jadi tidak dihitung sebagai kegagalan
	assert.Empty(t, rec.kinds)
}

func TestRenderParticipationFetchesAssetsConcurrently(t *testing.T) {
	hours := 3
	data := ParticipationRenderData{
		CertificateRenderData: baseRenderData(),
		EventDate:             time.Date(2024, 5, 18, 0, 0, 0, 0, time.UTC),
		LogoURL:               "https://cdn.example.org/logo.png",
		SignatureURL:          "https://cdn.example.org/sig.png",
	}
	data.Type = model.CertificateEvent
	data.Title = "Noite dos Museus"
	data.CulturalHours = &hours

	fetcher := &stubFetcher{img: testPNG(t)}
	out, err := uncompressedRenderer(fetcher, nil).RenderParticipation(context.Background(), data)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{data.LogoURL, data.SignatureURL}, fetcher.calls)
	assert.True(t, bytes.Contains(out, []byte("Noite dos Museus")))
	assert.True(t, bytes.Contains(out, []byte("18/05/2024")))
}

func TestDescriptionFor(t *testing.T) {
	assert.Equal(t, `participou do evento "Evento Cultural"`, DescriptionFor(model.CertificateEvent, ""))
	assert.Equal(t, `concluiu a trilha "Trilha Cultural"`, DescriptionFor(model.CertificateTrail, ""))
	assert.Equal(t, "concluiu com êxito a participação nas atividades culturais.", DescriptionFor(model.CertificateCustom, "x"))
}

func TestParseHexColor(t *testing.T) {
	r, g, b, ok := ParseHexColor("#d4af37")
	assert.True(t, ok)
	assert.Equal(t, []int{212, 175, 55}, []int{r, g, b})

	r, g, b, ok = ParseHexColor("#fff")
	assert.True(t, ok)
	assert.Equal(t, []int{255, 255, 255}, []int{r, g, b})

	_, _, _, ok = ParseHexColor("blue")
	assert.False(t, ok)
}

func TestMapFontFamily(t *testing.T) {
	tests := []struct{ in, family, style string }{
		{"", "Helvetica", ""},
		{"Helvetica-Bold", "Helvetica", "B"},
		{"Times-Roman", "Times", ""},
		{"Times-BoldItalic", "Times", "BI"},
		{"Courier-Oblique", "Courier", "I"},
	}
	for _, tt := range tests {
		family, style := MapFontFamily(tt.in)
		assert.Equal(t, tt.family, family, tt.in)
		assert.Equal(t, tt.style, style, tt.in)
	}
}
