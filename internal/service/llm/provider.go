// Package llm is the boundary to the generative-AI provider. Callers see two
// request shapes, a text completion and an image description, regardless of
// which vendor SDK serves them.
package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
)

type Provider interface {
	// Name identifies the backend, e.g. "openai".
	Name() string

	// Complete runs a system/user chat turn and returns the reply text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Describe sends an image with an instruction prompt and returns the
	// model's free-text answer.
	Describe(ctx context.Context, req VisionRequest) (string, error)
}

type CompletionRequest struct {
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature float64
	// JSON asks the provider for a JSON object reply where supported.
	JSON bool
}

type VisionRequest struct {
	Model     string
	Prompt    string
	Image     Image
	MaxTokens int
}

type Image struct {
	MimeType string
	Data     []byte
}

func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

func (i Image) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MimeType, i.Base64())
}

type Options struct {
	Name       string
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// New builds the provider named in opts.
func New(opts Options) (Provider, error) {
	switch opts.Name {
	case "openai":
		return NewOpenAI(opts), nil
	case "anthropic":
		return NewAnthropic(opts), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", opts.Name)
	}
}
