package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ChaseRain/lpgen/internal/infra/logger"
	"github.com/ChaseRain/lpgen/internal/service/copywriter"
	"github.com/ChaseRain/lpgen/internal/service/llm"
	"github.com/ChaseRain/lpgen/internal/service/vision"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

// scriptedProvider answers vision and completion calls with fixed text.
type scriptedProvider struct {
	description string
	completion  string

	visionCalls []llm.VisionRequest
	textCalls   []llm.CompletionRequest
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	p.textCalls = append(p.textCalls, req)
	return p.completion, nil
}

func (p *scriptedProvider) Describe(ctx context.Context, req llm.VisionRequest) (string, error) {
	p.visionCalls = append(p.visionCalls, req)
	return p.description, nil
}

func newPipelineRouter(p llm.Provider, strategy copywriter.Strategy) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	analyzer := vision.New(p, "gpt-4o-mini", 500, log)
	generator := copywriter.New(p, copywriter.Options{
		Model:       "gpt-4",
		MaxTokens:   300,
		Temperature: 0.7,
		Strategy:    strategy,
		StrictParse: true,
	}, log)
	return NewRouter(NewHandler(analyzer, generator, log), RouterOptions{MaxUploadBytes: 1 << 20}, log)
}

func TestPipelineAnalyzeThenGenerate(t *testing.T) {
	p := &scriptedProvider{
		description: "  Mocked analysis\n",
		completion:  "Sure!\nHEADLINE: Run Faster Today\nSUBHEADLINE: 'Shoes built for speed'",
	}
	r := newPipelineRouter(p, copywriter.StrategyTemplate)

	body, ct := multipartBody(t, "image/png", pngBytes, nil)
	w := postMultipart(r, "/analyze-image", body, ct)
	assert.Equal(t, http.StatusOK, w.Code)

	var analysis AnalyzeImageResponse
	json.Unmarshal(w.Body.Bytes(), &analysis)
	assert.Equal(t, "Mocked analysis", analysis.ImageDescription)
	assert.Equal(t, 1, len(p.visionCalls))
	assert.Equal(t, "image/png", p.visionCalls[0].Image.MimeType)
	assert.Equal(t, 500, p.visionCalls[0].MaxTokens)

	payload, _ := json.Marshal(map[string]string{
		"image_description":    analysis.ImageDescription,
		"original_headline":    "<h1>Run Fast</h1>",
		"original_subheadline": "<p>Go now</p>",
		"marketing_insights":   "Marathon runners",
	})
	w = postJSON(r, "/generate-content", string(payload))
	assert.Equal(t, http.StatusOK, w.Code)

	var generated GenerateContentResponse
	json.Unmarshal(w.Body.Bytes(), &generated)
	assert.Equal(t, "<h1>Run Faster Today</h1>", generated.Headline)
	assert.Equal(t, "<p>Shoes built for speed</p>", generated.Subheadline)
	assert.Equal(t, 1, len(p.textCalls))
	assert.Equal(t, "gpt-4", p.textCalls[0].Model)
}

func TestPipelineUntaggedReplyIsParseError(t *testing.T) {
	p := &scriptedProvider{description: "desc", completion: "I cannot help with that."}
	r := newPipelineRouter(p, copywriter.StrategyTemplate)

	w := postJSON(r, "/generate-content",
		`{"image_description":"d","original_headline":"<h1>A</h1>","original_subheadline":"<p>B</p>","marketing_insights":"m"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "PARSE_ERROR", decodeError(t, w).Error.Code)
}

func TestPipelineHTMLStrategy(t *testing.T) {
	p := &scriptedProvider{
		description: "A runner at dawn",
		completion:  "```json\n{\"headline\": \"<h1 class=\\\"hero\\\">Dawn Runner</h1>\", \"subheadline\": \"<p>Light and quick</p>\"}\n```",
	}
	r := newPipelineRouter(p, copywriter.StrategyHTML)

	body, ct := multipartBody(t, "image/jpeg", pngBytes, map[string]string{
		"original_headline":    `<h1 class="hero">Run Fast</h1>`,
		"original_subheadline": "<p>Go now</p>",
		"marketing_insights":   "Early risers",
	})
	w := postMultipart(r, "/generate-from-image", body, ct)
	assert.Equal(t, http.StatusOK, w.Code)

	var res GenerateFromImageResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "A runner at dawn", res.ImageAnalysis)
	assert.Equal(t, `<h1 class="hero">Dawn Runner</h1>`, res.Headline)
	assert.Equal(t, "<p>Light and quick</p>", res.Subheadline)
	assert.Equal(t, true, p.textCalls[0].JSON)
}
