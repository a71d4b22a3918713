package vectorize

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// The tga package registers itself with an empty magic string, which makes
// it the first sniff match for every payload and breaks image.Decode for
// the other formats. Decoders are tried explicitly instead of going through
// the format registry, with TGA last since it cannot be sniffed.
var configDecoders = []func(io.Reader) (image.Config, error){
	png.DecodeConfig,
	jpeg.DecodeConfig,
	gif.DecodeConfig,
	webp.DecodeConfig,
	tga.DecodeConfig,
}

var imageDecoders = []func(io.Reader) (image.Image, error){
	png.Decode,
	jpeg.Decode,
	gif.Decode,
	webp.Decode,
	tga.Decode,
}

func decodeConfig(data []byte) (image.Config, error) {
	for _, decode := range configDecoders {
		if cfg, err := decode(bytes.NewReader(data)); err == nil {
			return cfg, nil
		}
	}
	return image.Config{}, image.ErrFormat
}

func decodeImage(data []byte) (image.Image, error) {
	for _, decode := range imageDecoders {
		if img, err := decode(bytes.NewReader(data)); err == nil {
			return img, nil
		}
	}
	return nil, image.ErrFormat
}

// maxFetchBytes caps a fetched image payload at 16 MiB.
const maxFetchBytes = 16 << 20

// maxSourceDim is the largest dimension sent to the vectorizer; bigger
// sources are downscaled first, which both bounds upload size and keeps the
// vectorizer's contour count sane.
const maxSourceDim = 1024

// FetchImage downloads an image with a bounded, per-request timeout.
// The fallback base64 payload, when provided, is used after a fetch
// failure before giving up.
func FetchImage(ctx context.Context, hc *http.Client, url, fallbackBase64 string) ([]byte, error) {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}

	data, err := fetchOnce(ctx, hc, url)
	if err == nil {
		return data, nil
	}

	if fallbackBase64 != "" {
		if decoded, derr := base64.StdEncoding.DecodeString(fallbackBase64); derr == nil {
			return decoded, nil
		}
	}
	return nil, err
}

func fetchOnce(ctx context.Context, hc *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, &FetchError{URL: url, Err: errEmptyURL}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{URL: url, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return data, nil
}

// ImageSize decodes only the image header and returns its dimensions.
func ImageSize(data []byte) (w, h int, err error) {
	cfg, err := decodeConfig(data)
	if err != nil {
		return 0, 0, &DecodeError{What: "image header", Err: err}
	}
	return cfg.Width, cfg.Height, nil
}

// NormalizeImage decodes an image, downscales it so its largest dimension
// does not exceed maxSourceDim, and re-encodes it as PNG for the
// vectorizer. Images already within bounds pass through untouched.
func NormalizeImage(data []byte) ([]byte, error) {
	w, h, err := ImageSize(data)
	if err != nil {
		return nil, err
	}
	if w <= maxSourceDim && h <= maxSourceDim {
		return data, nil
	}

	src, err := decodeImage(data)
	if err != nil {
		return nil, &DecodeError{What: "image", Err: err}
	}

	scale := float64(maxSourceDim) / float64(max(w, h))
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, &DecodeError{What: "png encode", Err: err}
	}
	return buf.Bytes(), nil
}
