package vectorize

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ftrvxmtrx/tga"
)

func TestHTTPClient_Vectorize(t *testing.T) {
	img := []byte("fake-image-bytes")
	tuning := DefaultTuning()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vectorize" {
			t.Errorf("path = %q, want /vectorize", r.URL.Path)
		}
		var req vectorizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		decoded, err := base64.StdEncoding.DecodeString(req.Image)
		if err != nil || !bytes.Equal(decoded, img) {
			t.Errorf("image payload did not round-trip")
		}
		if req.Tuning.EdgeLowThreshold != tuning.EdgeLowThreshold {
			t.Errorf("tuning not forwarded: %+v", req.Tuning)
		}
		json.NewEncoder(w).Encode(vectorizeResponse{
			Polylines: [][][2]float64{
				{{0, 0}, {10, 0}, {10, 10}},
				{{5, 5}, {6, 6}},
			},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, nil)
	polys, err := c.Vectorize(context.Background(), img, tuning)
	if err != nil {
		t.Fatalf("Vectorize: %v", err)
	}
	if len(polys) != 2 {
		t.Fatalf("got %d polylines, want 2", len(polys))
	}
	if len(polys[0]) != 3 || polys[0][1].X != 10 {
		t.Errorf("first polyline = %+v", polys[0])
	}
}

func TestHTTPClient_Vectorize_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, nil)
	_, err := c.Vectorize(context.Background(), []byte("x"), DefaultTuning())

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v, want *FetchError", err)
	}
	if fe.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", fe.Status)
	}
}

func TestFetchImage(t *testing.T) {
	payload := []byte("image-payload")

	t.Run("successful fetch", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(payload)
		}))
		defer srv.Close()

		data, err := FetchImage(context.Background(), nil, srv.URL, "")
		if err != nil {
			t.Fatalf("FetchImage: %v", err)
		}
		if !bytes.Equal(data, payload) {
			t.Errorf("payload mismatch")
		}
	})

	t.Run("base64 fallback after failed fetch", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		fallback := base64.StdEncoding.EncodeToString(payload)
		data, err := FetchImage(context.Background(), nil, srv.URL, fallback)
		if err != nil {
			t.Fatalf("FetchImage with fallback: %v", err)
		}
		if !bytes.Equal(data, payload) {
			t.Errorf("fallback payload mismatch")
		}
	})

	t.Run("empty url with fallback", func(t *testing.T) {
		fallback := base64.StdEncoding.EncodeToString(payload)
		data, err := FetchImage(context.Background(), nil, "", fallback)
		if err != nil {
			t.Fatalf("FetchImage: %v", err)
		}
		if !bytes.Equal(data, payload) {
			t.Errorf("fallback payload mismatch")
		}
	})

	t.Run("failure without fallback surfaces the fetch error", func(t *testing.T) {
		_, err := FetchImage(context.Background(), nil, "", "")
		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("error = %v, want *FetchError", err)
		}
	})
}

// encodePNG renders a w x h PNG for decode tests.
func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 0, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestImageSize(t *testing.T) {
	// The tga decoder is linked in and registers an empty sniff magic, so
	// every format here exercises the explicit decoder list rather than
	// the stdlib registry.
	encoders := map[string]func(w io.Writer, m image.Image) error{
		"png": png.Encode,
		"jpeg": func(w io.Writer, m image.Image) error {
			return jpeg.Encode(w, m, nil)
		},
		"tga": tga.Encode,
	}
	for name, encode := range encoders {
		t.Run(name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, 120, 80))
			var buf bytes.Buffer
			if err := encode(&buf, img); err != nil {
				t.Fatalf("encode %s: %v", name, err)
			}
			w, h, err := ImageSize(buf.Bytes())
			if err != nil {
				t.Fatalf("ImageSize: %v", err)
			}
			if w != 120 || h != 80 {
				t.Errorf("size = %dx%d, want 120x80", w, h)
			}
		})
	}

	if _, _, err := ImageSize([]byte("not an image")); err == nil {
		t.Error("ImageSize on garbage returned nil error")
	}
}

func TestNormalizeImage(t *testing.T) {
	t.Run("small image passes through", func(t *testing.T) {
		data := encodePNG(t, 100, 50)
		out, err := NormalizeImage(data)
		if err != nil {
			t.Fatalf("NormalizeImage: %v", err)
		}
		if !bytes.Equal(out, data) {
			t.Error("small image was re-encoded")
		}
	})

	t.Run("oversized image is downscaled", func(t *testing.T) {
		data := encodePNG(t, 2048, 1024)
		out, err := NormalizeImage(data)
		if err != nil {
			t.Fatalf("NormalizeImage: %v", err)
		}
		w, h, err := ImageSize(out)
		if err != nil {
			t.Fatalf("ImageSize after normalize: %v", err)
		}
		if w > maxSourceDim || h > maxSourceDim {
			t.Errorf("normalized size = %dx%d, want within %d", w, h, maxSourceDim)
		}
		// Aspect ratio survives.
		if w != 2*h {
			t.Errorf("aspect ratio lost: %dx%d", w, h)
		}
	})
}

// countingClient records how many times Vectorize runs.
type countingClient struct {
	calls int
	polys []Polyline
	err   error
}

func (c *countingClient) Vectorize(ctx context.Context, imageBytes []byte, tuning Tuning) ([]Polyline, error) {
	c.calls++
	return c.polys, c.err
}

func TestMemo(t *testing.T) {
	inner := &countingClient{polys: []Polyline{{{X: 1, Y: 2}}}}
	m := NewMemo(inner, 8)
	ctx := context.Background()
	img := []byte("image")

	for i := 0; i < 3; i++ {
		polys, err := m.Vectorize(ctx, img, DefaultTuning())
		if err != nil {
			t.Fatalf("Vectorize: %v", err)
		}
		if len(polys) != 1 {
			t.Fatalf("got %d polylines, want 1", len(polys))
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner ran %d times, want 1 (memoized)", inner.calls)
	}

	// A different tuning misses the cache.
	tuning := DefaultTuning()
	tuning.BlurKernel = 9
	if _, err := m.Vectorize(ctx, img, tuning); err != nil {
		t.Fatalf("Vectorize: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner ran %d times after tuning change, want 2", inner.calls)
	}
}

func TestMemo_DoesNotCacheErrors(t *testing.T) {
	inner := &countingClient{err: errors.New("transient")}
	m := NewMemo(inner, 8)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := m.Vectorize(ctx, []byte("x"), DefaultTuning()); err == nil {
			t.Fatal("Vectorize returned nil error")
		}
	}
	if inner.calls != 2 {
		t.Errorf("inner ran %d times, want 2 (errors never cached)", inner.calls)
	}
}
