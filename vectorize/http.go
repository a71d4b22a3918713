package vectorize

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/scribeware/chalk"
)

// DefaultTimeout bounds every vectorization and fetch request.
const DefaultTimeout = 30 * time.Second

// HTTPClient is the HTTP implementation of Client.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
}

// NewHTTPClient creates a client for a vectorizer service at baseURL.
// A nil httpClient uses a default client with DefaultTimeout.
func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &HTTPClient{baseURL: baseURL, hc: httpClient}
}

// vectorizeRequest is the wire request: base64 image plus opaque tuning.
type vectorizeRequest struct {
	Image  string `json:"image"`
	Tuning Tuning `json:"tuning"`
}

// vectorizeResponse is the wire response: one array of [x, y] pairs per
// extracted contour.
type vectorizeResponse struct {
	Polylines [][][2]float64 `json:"polylines"`
}

// Vectorize posts image bytes to the service and returns the extracted
// polylines in image-pixel space.
func (c *HTTPClient) Vectorize(ctx context.Context, imageBytes []byte, tuning Tuning) ([]Polyline, error) {
	reqBody, err := json.Marshal(vectorizeRequest{
		Image:  base64.StdEncoding.EncodeToString(imageBytes),
		Tuning: tuning,
	})
	if err != nil {
		return nil, &DecodeError{What: "request", Err: err}
	}

	url := c.baseURL + "/vectorize"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{URL: url, Status: resp.StatusCode}
	}

	var wire vectorizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, &DecodeError{What: "response", Err: err}
	}

	polys := make([]Polyline, 0, len(wire.Polylines))
	for _, wp := range wire.Polylines {
		pl := make(Polyline, len(wp))
		for i, xy := range wp {
			pl[i] = chalk.Point{X: xy[0], Y: xy[1]}
		}
		polys = append(polys, pl)
	}

	chalk.Logger().Debug("vectorize: extracted polylines",
		"count", len(polys), "elapsed", time.Since(start))
	return polys, nil
}
