// Package generate talks to the image-generation service.
//
// Service is the logical contract: a prompt plus an optional PNG goes in, a
// success flag, an optional image and optional text come back. Client speaks
// the JSON wire format of the /api/generate route, Gemini calls the Gemini
// REST API directly and Handler exposes any Service as that route.
package generate

import (
	"context"
	"errors"
	"fmt"
)

// ErrGenerationFailed covers service-reported failures, malformed
// responses and transport errors.
var ErrGenerationFailed = errors.New("generation failed")

// Request is one submission.
type Request struct {
	Prompt string
	// Image is the flattened drawing as PNG. Empty means text-only.
	Image []byte
}

// Response is what the service returned.
type Response struct {
	Success bool
	Image   []byte
	Message string
	Error   string
}

// Service generates an image from a prompt and an optional drawing.
type Service interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// ServiceFunc adapts a function to Service.
type ServiceFunc func(ctx context.Context, req Request) (Response, error)

// Generate calls f.
func (f ServiceFunc) Generate(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// Failed wraps reason in ErrGenerationFailed.
func Failed(reason string) error {
	return fmt.Errorf("%w: %s", ErrGenerationFailed, reason)
}

// Check converts an unsuccessful or imageless response into an error.
func Check(resp Response) error {
	if !resp.Success {
		reason := resp.Error
		if reason == "" {
			reason = "service reported failure"
		}
		return Failed(reason)
	}
	if len(resp.Image) == 0 {
		return Failed("no image in response")
	}
	return nil
}

// StylePrompt is the text sent alongside a drawing.
func StylePrompt(prompt string) string {
	return prompt + ". Keep the same minimal line doodle style."
}
