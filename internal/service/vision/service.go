package vision

import (
	"context"
	"strings"
	"time"

	"github.com/ChaseRain/lpgen/internal/infra/logger"
	"github.com/ChaseRain/lpgen/internal/service/llm"
	"github.com/ChaseRain/lpgen/pkg/errors"
)

const analysisPrompt = `Analyze this advertisement image and extract:
1. Key visual themes and elements
2. Emotional tone and mood
3. Target audience implied
4. Main message or call to action
5. Colors, composition, and style

Provide a detailed description that can be used for personalized marketing content generation.`

type Service struct {
	provider  llm.Provider
	model     string
	maxTokens int
	logger    *logger.Logger
}

func New(provider llm.Provider, model string, maxTokens int, log *logger.Logger) *Service {
	return &Service{
		provider:  provider,
		model:     model,
		maxTokens: maxTokens,
		logger:    log,
	}
}

// Analyze describes an advertisement image. declaredType is the client's
// Content-Type; it is used when it names an image, otherwise the type is
// sniffed from the bytes.
func (s *Service) Analyze(ctx context.Context, imageBytes []byte, declaredType string) (string, error) {
	if len(imageBytes) == 0 {
		return "", errors.New(errors.ErrCodeValidation, "image is empty")
	}

	img := llm.Image{
		MimeType: resolveMimeType(imageBytes, declaredType),
		Data:     imageBytes,
	}

	start := time.Now()
	desc, err := s.provider.Describe(ctx, llm.VisionRequest{
		Model:     s.model,
		Prompt:    analysisPrompt,
		Image:     img,
		MaxTokens: s.maxTokens,
	})
	if err != nil {
		s.logger.Error("image analysis failed",
			"provider", s.provider.Name(),
			"model", s.model,
			"error", err,
		)
		return "", errors.Wrap(err, errors.ErrCodeProvider, "Image analysis failed")
	}

	desc = strings.TrimSpace(desc)
	if desc == "" {
		return "", errors.New(errors.ErrCodeProvider, "Image analysis failed: empty description")
	}

	s.logger.Info("image analyzed",
		"provider", s.provider.Name(),
		"mime_type", img.MimeType,
		"size_bytes", len(imageBytes),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return desc, nil
}

func resolveMimeType(data []byte, declared string) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(declared, ';'); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if strings.HasPrefix(declared, "image/") && declared != "image/" {
		return declared
	}
	return detectMimeType(data)
}

func detectMimeType(data []byte) string {
	if len(data) < 4 {
		return "image/jpeg"
	}

	if data[0] == 0xFF && data[1] == 0xD8 {
		return "image/jpeg"
	}
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return "image/png"
	}
	if data[0] == 0x47 && data[1] == 0x49 && data[2] == 0x46 {
		return "image/gif"
	}
	if len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return "image/webp"
	}

	return "image/jpeg"
}
