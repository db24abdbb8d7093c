package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/errors"
	"go.uber.org/zap"

	apperrors "github.com/lexlens/lexlens/internal/errors"
	"github.com/lexlens/lexlens/internal/lexlink"
	"github.com/lexlens/lexlens/internal/lexlink/content"
	"github.com/lexlens/lexlens/internal/metrics"
	"github.com/lexlens/lexlens/internal/observability"
	"github.com/lexlens/lexlens/internal/server/middleware"
)

// AnalyzeOptions carries per-request overrides of the configured defaults.
type AnalyzeOptions struct {
	Host           string   `json:"host,omitempty"`
	VisionModel    string   `json:"vision_model,omitempty"`
	ReasoningModel string   `json:"reasoning_model,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty"`
}

// AnalyzeRequest is the POST /v1/analyze body. Either message or messages
// must be present; messages may carry multimodal content parts with inline
// base64 images.
type AnalyzeRequest struct {
	Message  string            `json:"message"`
	Messages []content.Message `json:"messages"`
	Options  *AnalyzeOptions   `json:"options,omitempty"`
}

// PipelineFactory builds a pipeline for one request, honoring option
// overrides. The returned strategy names the interpreter used, for metrics.
type PipelineFactory func(opts AnalyzeOptions) (pipeline *lexlink.Pipeline, strategy string, err error)

// AnalyzeRecord is a completed exchange handed to the transcript sink.
type AnalyzeRecord struct {
	RequestID     string
	Question      string
	Model         string
	ImageCount    int
	FragmentCount int
	Response      string
}

var (
	pipelineFactory PipelineFactory
	transcriptSink  func(context.Context, AnalyzeRecord)
)

// SetPipelineFactory injects the per-request pipeline constructor.
func SetPipelineFactory(factory PipelineFactory) {
	pipelineFactory = factory
}

// SetTranscriptSink injects the optional transcript recorder. A nil sink
// disables recording.
func SetTranscriptSink(sink func(context.Context, AnalyzeRecord)) {
	transcriptSink = sink
}

type analyzeFragment struct {
	Response string `json:"response"`
}

// AnalyzeHandler streams legal-analysis output as NDJSON, one fragment per
// line. Backend failures that occur after streaming has begun arrive as
// diagnostic text fragments, not HTTP errors.
func AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if pipelineFactory == nil {
		respondWithError(w, r, errors.NewErrorEnvelope("SERVICE_UNAVAILABLE", "analysis pipeline not initialized"))
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "request body is not valid JSON"))
		return
	}
	if strings.TrimSpace(req.Message) == "" && len(req.Messages) == 0 {
		respondWithError(w, r, apperrors.NewInvalidInputError("either message or messages is required"))
		return
	}

	opts := AnalyzeOptions{}
	if req.Options != nil {
		opts = *req.Options
	}

	pipeline, strategy, err := pipelineFactory(opts)
	if err != nil {
		respondWithError(w, r, apperrors.WrapConfigInvalid(r.Context(), err, "invalid analysis options"))
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	encoder := json.NewEncoder(w)

	start := time.Now()
	run := pipeline.Run(r.Context(), req.Message, req.Messages)
	defer func() { _ = run.Close() }()

	var transcript strings.Builder
	fragments := 0
	for run.Next() {
		if err := encoder.Encode(analyzeFragment{Response: run.Text()}); err != nil {
			// Client went away; the deferred Close aborts the backend call.
			break
		}
		if flusher != nil {
			flusher.Flush()
		}
		transcript.WriteString(run.Text())
		fragments++
	}

	metrics.RecordImagesExtracted(run.ImageCount())
	metrics.RecordFragments(fragments)
	metrics.RecordPipelineRun(strategy, !run.Failed(), time.Since(start))
	if run.Failed() {
		metrics.RecordBackendError(pipeline.ReasoningModel())
	}
	if run.InterpreterFailed() {
		metrics.RecordInterpreterFailure(strategy)
	}

	if transcriptSink != nil && fragments > 0 {
		record := AnalyzeRecord{
			RequestID:     middleware.GetRequestID(r.Context()),
			Question:      analyzeQuestion(req),
			Model:         pipeline.ReasoningModel(),
			ImageCount:    run.ImageCount(),
			FragmentCount: fragments,
			Response:      transcript.String(),
		}
		sinkCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		transcriptSink(sinkCtx, record)
	}

	if observability.ServerLogger != nil {
		observability.ServerLogger.Debug("analysis stream completed",
			zap.Int("fragments", fragments),
			zap.Int("images", run.ImageCount()),
			zap.Duration("duration", time.Since(start)))
	}
}

func analyzeQuestion(req AnalyzeRequest) string {
	if strings.TrimSpace(req.Message) != "" {
		return req.Message
	}
	return content.Extract(req.Messages).Text
}
