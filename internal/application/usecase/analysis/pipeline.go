package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/adapter"
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
	domainerror "github.com/doron007/subscription-dashboard-sub001/internal/domain/error"
)

// PipelineStep records the duration of one pipeline stage for observability.
type PipelineStep struct {
	Name     string
	Duration time.Duration
}

// RunPipelineInput represents the input for the analysis pipeline.
type RunPipelineInput struct {
	Images []adapter.InvoiceImage
}

// RunPipelineOutput represents the outcome of one pipeline run. Success is
// false when extraction failed; DiagnosticLog always carries the accumulated
// step log, failure or not.
type RunPipelineOutput struct {
	Success       bool
	Data          *entity.AnalyzedInvoice
	DiagnosticLog []string
	Steps         []PipelineStep
	ErrorMessage  string
}

// RunPipelineUseCase wraps extraction and aggregation behind a traced
// pipeline with step timings and a log accumulator.
type RunPipelineUseCase struct {
	extractor adapter.ExtractionService
}

// NewRunPipelineUseCase creates a new RunPipelineUseCase instance.
func NewRunPipelineUseCase(extractor adapter.ExtractionService) *RunPipelineUseCase {
	return &RunPipelineUseCase{extractor: extractor}
}

// Execute runs extraction and aggregation over the given invoice images.
// Extraction failures are reported in the output (Success=false) rather than
// as an error return, so callers always receive the diagnostic log.
func (uc *RunPipelineUseCase) Execute(ctx context.Context, input RunPipelineInput) (*RunPipelineOutput, error) {
	if len(input.Images) == 0 {
		return nil, domainerror.NewExtractionError(
			domainerror.ErrCodeNoImages,
			"at least one invoice image is required",
			domainerror.ErrNoImages,
		)
	}

	trace := newPipelineTrace()
	trace.logf("pipeline started with %d image(s)", len(input.Images))

	stepStart := time.Now()
	raw, err := uc.extractor.Extract(ctx, input.Images)
	trace.step("extract", stepStart)
	if err != nil {
		trace.logf("extraction failed: %v", err)
		slog.Error("Invoice extraction failed", "error", err)
		return &RunPipelineOutput{
			Success:       false,
			DiagnosticLog: trace.lines,
			Steps:         trace.steps,
			ErrorMessage:  fmt.Sprintf("extraction failed: %v", err),
		}, nil
	}
	trace.logf("extracted vendor %q with %d line(s), confidence %.2f",
		raw.VendorName, len(raw.LineItems), raw.ConfidenceScore)

	if len(raw.LineItems) == 0 {
		trace.logf("extraction produced no line items")
		return &RunPipelineOutput{
			Success:       false,
			DiagnosticLog: trace.lines,
			Steps:         trace.steps,
			ErrorMessage:  domainerror.ErrEmptyExtraction.Error(),
		}, nil
	}

	stepStart = time.Now()
	analyzed := AggregateRawInvoice(raw)
	trace.step("aggregate", stepStart)
	trace.logf("aggregated into %d service(s) under invoice %s (%s)",
		analyzed.Summary.ServiceCount,
		analyzed.Invoice.Identity.Number,
		analyzed.Invoice.Identity.Kind,
	)

	return &RunPipelineOutput{
		Success:       true,
		Data:          analyzed,
		DiagnosticLog: trace.lines,
		Steps:         trace.steps,
	}, nil
}

// pipelineTrace accumulates log lines and step timings during one run.
type pipelineTrace struct {
	lines []string
	steps []PipelineStep
}

func newPipelineTrace() *pipelineTrace {
	return &pipelineTrace{}
}

func (t *pipelineTrace) logf(format string, args ...any) {
	line := fmt.Sprintf("[%s] %s", time.Now().UTC().Format(time.RFC3339), fmt.Sprintf(format, args...))
	t.lines = append(t.lines, line)
}

func (t *pipelineTrace) step(name string, start time.Time) {
	t.steps = append(t.steps, PipelineStep{Name: name, Duration: time.Since(start)})
}
