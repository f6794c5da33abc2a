package orchestrator

import (
	"context"

	"github.com/ChaseRain/lpgen/internal/infra/logger"
	"github.com/ChaseRain/lpgen/internal/service/copywriter"
)

// Analyzer describes an uploaded advertisement image.
type Analyzer interface {
	Analyze(ctx context.Context, imageBytes []byte, contentType string) (string, error)
}

// Generator writes personalized copy from an image description.
type Generator interface {
	Generate(ctx context.Context, req copywriter.Request) (*copywriter.Result, error)
}

type GenerateRequest struct {
	RequestID           string
	ImageBytes          []byte
	ContentType         string
	OriginalHeadline    string
	OriginalSubheadline string
	MarketingInsights   string
}

type GenerateResponse struct {
	RequestID     string
	ImageAnalysis string
	Headline      string
	Subheadline   string
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Stage    string
	Message  string
	Progress int
	Data     interface{}
}

const (
	StageAnalyzing  = "analyzing"
	StageAnalyzed   = "analyzed"
	StageGenerating = "generating"
	StageComplete   = "complete"
)

// ProgressCallback 进度回调函数
type ProgressCallback func(event ProgressEvent)

type Orchestrator struct {
	analyzer  Analyzer
	generator Generator
	logger    *logger.Logger
}

func New(analyzer Analyzer, generator Generator, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		analyzer:  analyzer,
		generator: generator,
		logger:    log,
	}
}

// GenerateFromImage 同步生成
func (o *Orchestrator) GenerateFromImage(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	return o.GenerateFromImageWithProgress(ctx, req, nil)
}

// GenerateFromImageWithProgress 带进度回调的生成
func (o *Orchestrator) GenerateFromImageWithProgress(ctx context.Context, req *GenerateRequest, onProgress ProgressCallback) (*GenerateResponse, error) {
	emit := func(stage, message string, progress int, data interface{}) {
		if onProgress != nil {
			onProgress(ProgressEvent{
				Stage:    stage,
				Message:  message,
				Progress: progress,
				Data:     data,
			})
		}
	}

	o.logger.Info("starting generation from image",
		"request_id", req.RequestID,
		"size_bytes", len(req.ImageBytes),
	)

	// Step 1: analyze the advertisement
	emit(StageAnalyzing, "Analyzing image...", 10, nil)

	desc, err := o.analyzer.Analyze(ctx, req.ImageBytes, req.ContentType)
	if err != nil {
		o.logger.Error("failed to analyze image", "request_id", req.RequestID, "error", err)
		return nil, err
	}

	emit(StageAnalyzed, "Image analysis complete", 45, map[string]string{
		"image_analysis": desc,
	})

	// Step 2: personalize the copy
	emit(StageGenerating, "Generating personalized content...", 55, nil)

	result, err := o.generator.Generate(ctx, copywriter.Request{
		ImageDescription:    desc,
		OriginalHeadline:    req.OriginalHeadline,
		OriginalSubheadline: req.OriginalSubheadline,
		MarketingInsights:   req.MarketingInsights,
	})
	if err != nil {
		o.logger.Error("failed to generate content", "request_id", req.RequestID, "error", err)
		return nil, err
	}

	resp := &GenerateResponse{
		RequestID:     req.RequestID,
		ImageAnalysis: desc,
		Headline:      result.Headline,
		Subheadline:   result.Subheadline,
	}

	emit(StageComplete, "Generation complete", 100, resp)

	o.logger.Info("generation from image completed", "request_id", req.RequestID)

	return resp, nil
}
