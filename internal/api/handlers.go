package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ChaseRain/lpgen/internal/infra/logger"
	"github.com/ChaseRain/lpgen/internal/service/copywriter"
	"github.com/ChaseRain/lpgen/internal/service/orchestrator"
	"github.com/ChaseRain/lpgen/pkg/errors"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	analyzer     orchestrator.Analyzer
	generator    orchestrator.Generator
	orchestrator *orchestrator.Orchestrator
	logger       *logger.Logger
}

func NewHandler(analyzer orchestrator.Analyzer, generator orchestrator.Generator, log *logger.Logger) *Handler {
	return &Handler{
		analyzer:     analyzer,
		generator:    generator,
		orchestrator: orchestrator.New(analyzer, generator, log),
		logger:       log,
	}
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{Message: rootMessage})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *Handler) AnalyzeImage(c *gin.Context) {
	requestID := requestIDFrom(c)

	data, contentType, err := readImage(c)
	if err != nil {
		h.handleError(c, requestID, err)
		return
	}

	desc, err := h.analyzer.Analyze(c.Request.Context(), data, contentType)
	if err != nil {
		h.handleError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, AnalyzeImageResponse{ImageDescription: desc})
}

func (h *Handler) GenerateContent(c *gin.Context) {
	requestID := requestIDFrom(c)

	var req GenerateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, requestID, bindError(err))
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), copywriter.Request{
		ImageDescription:    *req.ImageDescription,
		OriginalHeadline:    *req.OriginalHeadline,
		OriginalSubheadline: *req.OriginalSubheadline,
		MarketingInsights:   *req.MarketingInsights,
	})
	if err != nil {
		h.handleError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, GenerateContentResponse{
		Headline:    result.Headline,
		Subheadline: result.Subheadline,
	})
}

func (h *Handler) GenerateFromImage(c *gin.Context) {
	requestID := requestIDFrom(c)

	data, contentType, err := readImage(c)
	if err != nil {
		h.handleError(c, requestID, err)
		return
	}

	req := &orchestrator.GenerateRequest{
		RequestID:           requestID,
		ImageBytes:          data,
		ContentType:         contentType,
		OriginalHeadline:    formValue(c, "original_headline"),
		OriginalSubheadline: formValue(c, "original_subheadline"),
		MarketingInsights:   formValue(c, "marketing_insights"),
	}

	// 流式输出
	if c.Query("stream") == "true" {
		h.handleStreamingResponse(c, requestID, req)
		return
	}

	result, err := h.orchestrator.GenerateFromImage(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, GenerateFromImageResponse{
		ImageAnalysis: result.ImageAnalysis,
		Headline:      result.Headline,
		Subheadline:   result.Subheadline,
	})
}

func (h *Handler) handleStreamingResponse(c *gin.Context, requestID string, req *orchestrator.GenerateRequest) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	sendEvent := func(eventType string, data interface{}) {
		event := StreamEvent{
			Event:     eventType,
			Data:      data,
			RequestID: requestID,
		}
		jsonData, _ := json.Marshal(event)
		fmt.Fprintf(c.Writer, "event: %s\n", eventType)
		fmt.Fprintf(c.Writer, "data: %s\n\n", jsonData)
		c.Writer.Flush()
	}

	onProgress := func(event orchestrator.ProgressEvent) {
		switch event.Stage {
		case orchestrator.StageAnalyzing:
			sendEvent(EventTypeAnalyzing, EventProgress{Message: event.Message, Progress: event.Progress})
		case orchestrator.StageAnalyzed:
			desc := ""
			if m, ok := event.Data.(map[string]string); ok {
				desc = m["image_analysis"]
			}
			sendEvent(EventTypeAnalyzed, EventAnalyzed{
				Message:       event.Message,
				ImageAnalysis: desc,
				Progress:      event.Progress,
			})
		case orchestrator.StageGenerating:
			sendEvent(EventTypeGenerating, EventProgress{Message: event.Message, Progress: event.Progress})
		case orchestrator.StageComplete:
			if resp, ok := event.Data.(*orchestrator.GenerateResponse); ok {
				sendEvent(EventTypeComplete, EventComplete{
					Message:       event.Message,
					ImageAnalysis: resp.ImageAnalysis,
					Headline:      resp.Headline,
					Subheadline:   resp.Subheadline,
				})
			}
		}
	}

	_, err := h.orchestrator.GenerateFromImageWithProgress(c.Request.Context(), req, onProgress)
	if err != nil {
		code, message := errorDetail(err)
		h.logger.Error("streamed generation failed", "request_id", requestID, "error", err)
		sendEvent(EventTypeError, EventError{Code: code, Message: message})
	}
}

func (h *Handler) handleError(c *gin.Context, requestID string, err error) {
	code, message := errorDetail(err)
	status := errors.HTTPStatus(code)

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "request_id", requestID, "code", code, "error", err)
	} else {
		h.logger.Warn("request rejected", "request_id", requestID, "code", code, "error", err)
	}

	c.JSON(status, ErrorResponse{
		RequestID: requestID,
		Error: &ErrorBody{
			Code:    code,
			Message: message,
		},
	})
}

func errorDetail(err error) (code, message string) {
	if appErr, ok := errors.As(err); ok {
		return appErr.Code, appErr.Detail()
	}
	return errors.ErrCodeInternal, err.Error()
}

// readImage loads the multipart "file" field. A missing field is a
// validation error; a non-image content type is a bad request.
func readImage(c *gin.Context) ([]byte, string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			return nil, "", errors.Wrap(err, errors.ErrCodeTooLarge, "upload exceeds size limit")
		}
		return nil, "", errors.Wrap(err, errors.ErrCodeValidation, "file is required")
	}

	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", errors.New(errors.ErrCodeInvalidReq, "File must be an image.")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeInternal, "failed to open upload")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeInternal, "failed to read upload")
	}

	return data, contentType, nil
}

func bindError(err error) error {
	if isBodyTooLarge(err) {
		return errors.Wrap(err, errors.ErrCodeTooLarge, "request body exceeds size limit")
	}
	return errors.Wrap(err, errors.ErrCodeValidation, "invalid request body")
}

func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return stderrors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}

// formValue reads a multipart field, falling back to the query string.
func formValue(c *gin.Context, key string) string {
	if v, ok := c.GetPostForm(key); ok {
		return v
	}
	return c.Query(key)
}
