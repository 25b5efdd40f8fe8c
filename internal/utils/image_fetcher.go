package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
	"github.com/sony/gobreaker"
	_ "golang.org/x/image/webp" // decoder webp untuk background yang diunggah dari browser
)

// Batas resolusi gambar sebelum di-embed ke PDF (A4 landscape ~300dpi)
const (
	maxImageWidth  = 3508
	maxImageHeight = 2480
)

var ErrImageFetch = errors.New("gagal mengambil gambar")

// FetchedImage siap dipakai gofpdf: Type adalah "JPG" atau "PNG"
type FetchedImage struct {
	Data []byte
	Type string
}

// ImageFetcher mengambil gambar remote (background, logo, tanda tangan)
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*FetchedImage, error)
}

type HTTPImageFetcher struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	maxSize int64
}

func NewHTTPImageFetcher(timeout time.Duration, maxSize int64) *HTTPImageFetcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if maxSize <= 0 {
		maxSize = 8 << 20
	}
	return &HTTPImageFetcher{
		client:  &http.Client{Timeout: timeout},
		breaker: newFetchBreaker("image-fetch"),
		maxSize: maxSize,
	}
}

// newFetchBreaker membuka sirkuit saat host gambar terus gagal,
// sehingga render langsung memakai fallback tanpa menunggu timeout.
func newFetchBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
	})
}

func (f *HTTPImageFetcher) Fetch(ctx context.Context, url string) (*FetchedImage, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: URL kosong", ErrImageFetch)
	}

	result, err := f.breaker.Execute(func() (interface{}, error) {
		return f.download(ctx, url)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageFetch, err)
	}

	return NormalizeImage(result.([]byte))
}

func (f *HTTPImageFetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.maxSize {
		return nil, fmt.Errorf("ukuran gambar melebihi %d byte", f.maxSize)
	}
	return data, nil
}

// NormalizeImage memastikan bytes bisa di-embed gofpdf.
// JPEG dan PNG 8-bit non-interlaced berukuran wajar diteruskan apa adanya;
// PNG 16-bit/interlaced, format lain (webp, gif, bmp, tiff) atau gambar
// terlalu besar di-encode ulang ke 8-bit.
func NormalizeImage(data []byte) (*FetchedImage, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: format tidak dikenali: %v", ErrImageFetch, err)
	}

	oversized := cfg.Width > maxImageWidth || cfg.Height > maxImageHeight
	if !oversized {
		switch format {
		case "jpeg":
			return &FetchedImage{Data: data, Type: "JPG"}, nil
		case "png":
			if gofpdfCompatiblePNG(data) {
				return &FetchedImage{Data: data, Type: "PNG"}, nil
			}
		}
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageFetch, err)
	}
	if oversized {
		img = imaging.Fit(img, maxImageWidth, maxImageHeight, imaging.Lanczos)
	} else {
		// Clone menghasilkan NRGBA 8-bit; png.Encode atas RGBA64 tetap menulis 16-bit
		img = imaging.Clone(img)
	}

	var buf bytes.Buffer
	if format == "jpeg" {
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
			return nil, err
		}
		return &FetchedImage{Data: buf.Bytes(), Type: "JPG"}, nil
	}

	// PNG mempertahankan transparansi logo/tanda tangan
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return &FetchedImage{Data: buf.Bytes(), Type: "PNG"}, nil
}

// gofpdfCompatiblePNG membaca IHDR: gofpdf hanya menerima bit depth 8 tanpa interlace.
// Layout IHDR: signature(8) length(4) "IHDR"(4) width(4) height(4) depth color compression filter interlace.
func gofpdfCompatiblePNG(data []byte) bool {
	const (
		bitDepthOffset  = 24
		interlaceOffset = 28
	)
	if len(data) <= interlaceOffset || string(data[12:16]) != "IHDR" {
		return false
	}
	return data[bitDepthOffset] == 8 && data[interlaceOffset] == 0
}
