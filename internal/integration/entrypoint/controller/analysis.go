package controller

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/adapter"
	"github.com/doron007/subscription-dashboard-sub001/internal/application/usecase/analysis"
	domainerror "github.com/doron007/subscription-dashboard-sub001/internal/domain/error"
	"github.com/doron007/subscription-dashboard-sub001/internal/integration/entrypoint/dto"
)

// maxImageBytes caps each uploaded invoice page.
const maxImageBytes = 10 << 20

// AnalysisController handles invoice analysis endpoints.
type AnalysisController struct {
	runPipelineUseCase *analysis.RunPipelineUseCase
}

// NewAnalysisController creates a new analysis controller instance.
func NewAnalysisController(runPipelineUseCase *analysis.RunPipelineUseCase) *AnalysisController {
	return &AnalysisController{
		runPipelineUseCase: runPipelineUseCase,
	}
}

// Analyze handles POST /analysis/invoices requests. The request is multipart
// with one or more "images" parts, the pages of a single invoice document.
func (c *AnalysisController) Analyze(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid multipart form: " + err.Error(),
		})
		return
	}

	files := form.File["images"]
	images := make([]adapter.InvoiceImage, 0, len(files))
	for _, fileHeader := range files {
		image, err := readImagePart(fileHeader)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Could not read image " + fileHeader.Filename + ": " + err.Error(),
			})
			return
		}
		images = append(images, image)
	}

	input := analysis.RunPipelineInput{Images: images}
	output, err := c.runPipelineUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleAnalysisError(ctx, err)
		return
	}

	response := dto.AnalyzeInvoiceResponseDTO{
		Success:       output.Success,
		Error:         output.ErrorMessage,
		DiagnosticLog: output.DiagnosticLog,
		Steps:         make([]dto.PipelineStepDTO, len(output.Steps)),
	}
	for i, step := range output.Steps {
		response.Steps[i] = dto.PipelineStepDTO{
			Name:       step.Name,
			DurationMS: step.Duration.Milliseconds(),
		}
	}
	if output.Data != nil {
		response.Data = dto.ToAnalyzedInvoiceDTO(output.Data)
	}

	// Pipeline failures still return the diagnostic log with a 422 so the
	// caller can show what happened.
	status := http.StatusOK
	if !output.Success {
		status = http.StatusUnprocessableEntity
	}
	ctx.JSON(status, response)
}

func readImagePart(fileHeader *multipart.FileHeader) (adapter.InvoiceImage, error) {
	if fileHeader.Size > maxImageBytes {
		return adapter.InvoiceImage{}, errors.New("image exceeds the 10MB limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return adapter.InvoiceImage{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		return adapter.InvoiceImage{}, err
	}

	return adapter.InvoiceImage{
		Data:     data,
		MIMEType: imageMIMEType(fileHeader),
	}, nil
}

func imageMIMEType(fileHeader *multipart.FileHeader) string {
	if contentType := fileHeader.Header.Get("Content-Type"); contentType != "" {
		return contentType
	}
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// handleAnalysisError handles analysis errors and returns appropriate HTTP responses.
func (c *AnalysisController) handleAnalysisError(ctx *gin.Context, err error) {
	var extErr *domainerror.ExtractionError
	if errors.As(err, &extErr) {
		statusCode := c.getStatusCodeForAnalysisError(extErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: extErr.Message,
			Code:  string(extErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForAnalysisError maps extraction error codes to HTTP status codes.
func (c *AnalysisController) getStatusCodeForAnalysisError(code domainerror.ExtractionErrorCode) int {
	switch code {
	case domainerror.ErrCodeNoImages:
		return http.StatusBadRequest
	case domainerror.ErrCodeExtractorUnavailable:
		return http.StatusServiceUnavailable
	case domainerror.ErrCodeExtractionFailed,
		domainerror.ErrCodeEmptyExtraction:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
