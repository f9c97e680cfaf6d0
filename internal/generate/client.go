package generate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/example/codraw/internal/logging"
)

// DefaultEndpoint is the route path served by Handler.
const DefaultEndpoint = "http://localhost:3000/api/generate"

// wireRequest and wireResponse are the JSON bodies of /api/generate.
type wireRequest struct {
	Prompt      string `json:"prompt"`
	DrawingData string `json:"drawingData,omitempty"`
	SaveToFile  bool   `json:"saveToFile,omitempty"`
}

type wireResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	ImageData string `json:"imageData,omitempty"`
	Error     string `json:"error,omitempty"`
	FileName  string `json:"fileName,omitempty"`
	FilePath  string `json:"filePath,omitempty"`
}

// Client calls a remote /api/generate route.
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
	// SaveToFile asks the server to archive the generated image.
	SaveToFile bool
}

// NewClient returns a client for endpoint with a generous timeout; image
// generation routinely takes tens of seconds.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{Endpoint: endpoint, HTTPClient: &http.Client{Timeout: 2 * time.Minute}}
}

// Generate implements Service.
func (c *Client) Generate(ctx context.Context, req Request) (Response, error) {
	body := wireRequest{Prompt: req.Prompt, SaveToFile: c.SaveToFile}
	if len(req.Image) > 0 {
		body.DrawingData = base64.StdEncoding.EncodeToString(req.Image)
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(buf))
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	logging.Logger().Debug("generate request", "endpoint", c.Endpoint, "prompt", req.Prompt, "image_bytes", len(req.Image))
	resp, err := hc.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("%w: read body: %v", ErrGenerationFailed, err)
	}
	var wr wireResponse
	if err := json.Unmarshal(raw, &wr); err != nil {
		return Response{}, fmt.Errorf("%w: malformed response (status %d): %v", ErrGenerationFailed, resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		reason := wr.Error
		if reason == "" {
			reason = resp.Status
		}
		return Response{Error: reason}, Failed(reason)
	}
	out := Response{Success: wr.Success, Message: wr.Message, Error: wr.Error}
	if wr.ImageData != "" {
		img, err := base64.StdEncoding.DecodeString(wr.ImageData)
		if err != nil {
			return out, fmt.Errorf("%w: image data: %v", ErrGenerationFailed, err)
		}
		out.Image = img
	}
	if wr.FileName != "" {
		logging.Logger().Info("server archived image", "file", wr.FileName, "path", wr.FilePath)
	}
	return out, nil
}
