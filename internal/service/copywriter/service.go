// Package copywriter turns an image description, marketing insights and the
// original landing-page copy into a personalized headline and subheadline.
package copywriter

import (
	"context"
	"time"

	"github.com/ChaseRain/lpgen/internal/infra/logger"
	"github.com/ChaseRain/lpgen/internal/service/llm"
	"github.com/ChaseRain/lpgen/internal/service/markup"
	"github.com/ChaseRain/lpgen/pkg/errors"
)

type Request struct {
	ImageDescription    string
	OriginalHeadline    string
	OriginalSubheadline string
	MarketingInsights   string
}

type Result struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
}

type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
	Strategy    Strategy
	// StrictParse rejects a tagged reply that carries neither tag instead
	// of returning empty copy.
	StrictParse bool
}

type Service struct {
	provider llm.Provider
	opts     Options
	logger   *logger.Logger
}

func New(provider llm.Provider, opts Options, log *logger.Logger) *Service {
	if opts.Strategy == "" {
		opts.Strategy = StrategyTemplate
	}
	return &Service{
		provider: provider,
		opts:     opts,
		logger:   log,
	}
}

func (s *Service) Strategy() Strategy {
	return s.opts.Strategy
}

func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	var (
		res *Result
		err error
	)
	switch s.opts.Strategy {
	case StrategyHTML:
		res, err = s.generateHTML(ctx, req)
	default:
		res, err = s.generateFromTemplate(ctx, req)
	}
	if err != nil {
		s.logger.Error("content generation failed",
			"strategy", s.opts.Strategy,
			"provider", s.provider.Name(),
			"error", err,
		)
		return nil, err
	}

	s.logger.Info("content generated",
		"strategy", s.opts.Strategy,
		"provider", s.provider.Name(),
		"model", s.opts.Model,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (s *Service) generateFromTemplate(ctx context.Context, req Request) (*Result, error) {
	p := composeTemplatePrompt(req)

	reply, err := s.complete(ctx, p.text, false)
	if err != nil {
		return nil, err
	}

	parsed, matched := parseTagged(reply)
	if !matched {
		if s.opts.StrictParse {
			return nil, errors.New(errors.ErrCodeParse, "Content generation failed: reply has no HEADLINE or SUBHEADLINE line")
		}
		s.logger.Warn("model reply has no tagged lines", "reply", reply)
	}

	return &Result{
		Headline:    fillTemplate(p.headline, parsed.Headline),
		Subheadline: fillTemplate(p.subheadline, parsed.Subheadline),
	}, nil
}

// fillTemplate returns text as-is when the original copy had no text slot,
// so plain-text input yields the new copy rather than the old.
func fillTemplate(t markup.Template, text string) string {
	if markup.Placeholders(t.Template) == 0 {
		return text
	}
	return markup.Fill(t.Template, text)
}

func (s *Service) generateHTML(ctx context.Context, req Request) (*Result, error) {
	reply, err := s.complete(ctx, composeHTMLPrompt(req), true)
	if err != nil {
		return nil, err
	}

	parsed, err := ParseJSON(reply)
	if err != nil {
		return nil, err
	}

	if !markup.SameTags(req.OriginalHeadline, parsed.Headline) || !markup.SameTags(req.OriginalSubheadline, parsed.Subheadline) {
		s.logger.Warn("generated HTML changed tag structure")
	}
	return &parsed, nil
}

func (s *Service) complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	reply, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model:       s.opts.Model,
		System:      systemPrompt,
		User:        prompt,
		MaxTokens:   s.opts.MaxTokens,
		Temperature: s.opts.Temperature,
		JSON:        jsonMode,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeProvider, "Content generation failed")
	}
	return reply, nil
}
