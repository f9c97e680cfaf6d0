package generate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/codraw/internal/logging"
)

const (
	DefaultGeminiModel   = "gemini-2.0-flash-exp-image-generation"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// Gemini calls the generateContent endpoint of the Gemini API.
type Gemini struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// NewGemini returns a backend with the default model and endpoint.
func NewGemini(apiKey string) *Gemini {
	return &Gemini{
		APIKey:     apiKey,
		Model:      DefaultGeminiModel,
		BaseURL:    DefaultGeminiBaseURL,
		HTTPClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

type geminiInline struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string        `json:"text,omitempty"`
	InlineData *geminiInline `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		ResponseModalities []string `json:"responseModalities"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content *geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *Gemini) buildRequest(req Request) geminiRequest {
	var parts []geminiPart
	if len(req.Image) > 0 {
		parts = []geminiPart{
			{InlineData: &geminiInline{MimeType: "image/png", Data: base64.StdEncoding.EncodeToString(req.Image)}},
			{Text: StylePrompt(req.Prompt)},
		}
	} else {
		parts = []geminiPart{{Text: req.Prompt}}
	}
	var body geminiRequest
	body.Contents = []geminiContent{{Role: "user", Parts: parts}}
	body.GenerationConfig.ResponseModalities = []string{"Text", "Image"}
	return body
}

func (g *Gemini) endpoint() string {
	base := strings.TrimRight(g.BaseURL, "/")
	if base == "" {
		base = DefaultGeminiBaseURL
	}
	model := g.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	return base + "/models/" + url.PathEscape(model) + ":generateContent"
}

// Generate implements Service.
func (g *Gemini) Generate(ctx context.Context, req Request) (Response, error) {
	if g.APIKey == "" {
		return Response{}, Failed("missing Gemini API key")
	}
	buf, err := json.Marshal(g.buildRequest(req))
	if err != nil {
		return Response{}, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), bytes.NewReader(buf))
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.APIKey)

	hc := g.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	log := logging.Logger()
	log.Debug("calling gemini", "model", g.Model, "prompt", req.Prompt, "with_drawing", len(req.Image) > 0)
	resp, err := hc.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("%w: read body: %v", ErrGenerationFailed, err)
	}

	var gr geminiResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return Response{}, fmt.Errorf("%w: malformed response (status %d): %v", ErrGenerationFailed, resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		reason := resp.Status
		if gr.Error != nil && gr.Error.Message != "" {
			reason = gr.Error.Message
		}
		return Response{Error: reason}, Failed(reason)
	}
	if len(gr.Candidates) == 0 || gr.Candidates[0].Content == nil || len(gr.Candidates[0].Content.Parts) == 0 {
		const reason = "Invalid API response structure"
		return Response{Error: reason}, Failed(reason)
	}

	out := Response{Success: true}
	for _, part := range gr.Candidates[0].Content.Parts {
		switch {
		case part.Text != "":
			out.Message = part.Text
		case part.InlineData != nil:
			img, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return Response{}, fmt.Errorf("%w: inline image: %v", ErrGenerationFailed, err)
			}
			out.Image = img
		}
	}
	log.Debug("gemini responded", "image_bytes", len(out.Image), "message", out.Message)
	return out, nil
}
