package api

// GenerateContentRequest fields are pointers so that presence, not
// non-emptiness, is what "required" checks.
type GenerateContentRequest struct {
	ImageDescription    *string `json:"image_description" binding:"required"`
	OriginalHeadline    *string `json:"original_headline" binding:"required"`
	OriginalSubheadline *string `json:"original_subheadline" binding:"required"`
	MarketingInsights   *string `json:"marketing_insights" binding:"required"`
}

type GenerateContentResponse struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
}

type AnalyzeImageResponse struct {
	ImageDescription string `json:"image_description"`
}

type GenerateFromImageResponse struct {
	ImageAnalysis string `json:"image_analysis"`
	Headline      string `json:"headline"`
	Subheadline   string `json:"subheadline"`
}

type RootResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	RequestID string     `json:"request_id,omitempty"`
	Error     *ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SSE 流式事件类型
type StreamEvent struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id"`
}

type EventProgress struct {
	Message  string `json:"message"`
	Progress int    `json:"progress"`
}

type EventAnalyzed struct {
	Message       string `json:"message"`
	ImageAnalysis string `json:"image_analysis"`
	Progress      int    `json:"progress"`
}

type EventComplete struct {
	Message       string `json:"message"`
	ImageAnalysis string `json:"image_analysis"`
	Headline      string `json:"headline"`
	Subheadline   string `json:"subheadline"`
}

type EventError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	rootMessage = "Landing Page Generator API is up."

	EventTypeAnalyzing  = "analyzing"
	EventTypeAnalyzed   = "analyzed"
	EventTypeGenerating = "generating"
	EventTypeComplete   = "complete"
	EventTypeError      = "error"
)
