package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/usecase/importer"
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
	domainerror "github.com/doron007/subscription-dashboard-sub001/internal/domain/error"
	"github.com/doron007/subscription-dashboard-sub001/internal/integration/entrypoint/dto"
)

// maxCSVBytes caps the uploaded CSV file.
const maxCSVBytes = 20 << 20

// ImportController handles bulk CSV import endpoints.
type ImportController struct {
	reconcileUseCase    *importer.ReconcileUseCase
	executeBatchUseCase *importer.ExecuteBatchUseCase
	listRunsUseCase     *importer.ListRunsUseCase
}

// NewImportController creates a new import controller instance.
func NewImportController(
	reconcileUseCase *importer.ReconcileUseCase,
	executeBatchUseCase *importer.ExecuteBatchUseCase,
	listRunsUseCase *importer.ListRunsUseCase,
) *ImportController {
	return &ImportController{
		reconcileUseCase:    reconcileUseCase,
		executeBatchUseCase: executeBatchUseCase,
		listRunsUseCase:     listRunsUseCase,
	}
}

// Reconcile handles POST /import/reconcile requests. The request is multipart
// with a "file" part carrying the CSV; nothing is written.
func (c *ImportController) Reconcile(ctx *gin.Context) {
	rows, ok := c.readCSVRows(ctx)
	if !ok {
		return
	}

	input := importer.ReconcileInput{Rows: rows}
	output, err := c.reconcileUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleImportError(ctx, err)
		return
	}

	response := dto.ReconcileResponseDTO{
		Invoices: make([]dto.InvoiceDiffDTO, len(output.Invoices)),
		Totals:   dto.ToDiffStatsDTO(output.Totals),
	}
	for i, diff := range output.Invoices {
		response.Invoices[i] = dto.ToInvoiceDiffDTO(diff)
	}

	ctx.JSON(http.StatusOK, response)
}

// Execute handles POST /import/execute requests. The request is multipart
// with a "file" part carrying the CSV and an optional "options" part carrying
// the execute parameters as JSON.
func (c *ImportController) Execute(ctx *gin.Context) {
	rows, ok := c.readCSVRows(ctx)
	if !ok {
		return
	}

	var options dto.ExecuteImportOptionsDTO
	if raw := ctx.PostForm("options"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &options); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid options payload: " + err.Error(),
			})
			return
		}
	}

	input := importer.ExecuteBatchInput{
		Rows:           rows,
		BatchIndex:     options.BatchIndex,
		BatchSize:      options.BatchSize,
		GlobalStrategy: entity.MergeStrategy(options.Strategy),
		Decisions:      toImportDecisions(options.Decisions),
	}

	output, err := c.executeBatchUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleImportError(ctx, err)
		return
	}

	response := dto.ExecuteImportResponseDTO{
		Success:      output.Success,
		BatchIndex:   output.BatchIndex,
		TotalBatches: output.TotalBatches,
		Counts:       dto.ToImportCountsDTO(output.Counts),
		Errors:       output.Errors,
	}

	ctx.JSON(http.StatusOK, response)
}

// ListRuns handles GET /import/runs requests.
func (c *ImportController) ListRuns(ctx *gin.Context) {
	limit := 0
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	output, err := c.listRunsUseCase.Execute(ctx.Request.Context(), importer.ListRunsInput{Limit: limit})
	if err != nil {
		c.handleImportError(ctx, err)
		return
	}

	response := dto.ListImportRunsResponseDTO{
		Runs: make([]dto.ImportRunDTO, len(output.Runs)),
	}
	for i, run := range output.Runs {
		response.Runs[i] = dto.ToImportRunDTO(run)
	}

	ctx.JSON(http.StatusOK, response)
}

// readCSVRows parses the uploaded CSV into import rows. On failure it writes
// the error response and returns false.
func (c *ImportController) readCSVRows(ctx *gin.Context) ([]importer.ImportRow, bool) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "A CSV file is required in the 'file' field",
		})
		return nil, false
	}
	if fileHeader.Size > maxCSVBytes {
		ctx.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{
			Error: "CSV file exceeds the 20MB limit",
		})
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Could not open uploaded file: " + err.Error(),
		})
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxCSVBytes))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Could not read uploaded file: " + err.Error(),
		})
		return nil, false
	}

	var rowDTOs []dto.ImportRowDTO
	if err := gocsv.UnmarshalBytes(data, &rowDTOs); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Could not parse CSV: " + err.Error(),
		})
		return nil, false
	}

	rows := make([]importer.ImportRow, len(rowDTOs))
	for i, row := range rowDTOs {
		rows[i] = importer.ImportRow{
			Vendor:       row.Vendor,
			Invoice:      row.Invoice,
			InvoiceDate:  row.InvoiceDate,
			ServiceMonth: row.ServiceMonth,
			LineItem:     row.LineItem,
			Quantity:     row.Quantity,
			UnitPrice:    row.UnitPrice,
			TotalPrice:   row.TotalPrice,
			Paid:         row.Paid,
		}
	}
	return rows, true
}

func toImportDecisions(decisions map[string]dto.ImportDecisionDTO) map[string]entity.ImportDecision {
	if len(decisions) == 0 {
		return nil
	}

	result := make(map[string]entity.ImportDecision, len(decisions))
	for key, decision := range decisions {
		mapped := entity.ImportDecision{
			Skip:         decision.Skip,
			ImportVoided: decision.ImportVoided,
			Strategy:     entity.MergeStrategy(decision.Strategy),
		}
		if len(decision.SkipLines) > 0 {
			mapped.SkipLines = make(map[string]bool, len(decision.SkipLines))
			for _, lineKey := range decision.SkipLines {
				mapped.SkipLines[lineKey] = true
			}
		}
		result[key] = mapped
	}
	return result
}

// handleImportError handles import errors and returns appropriate HTTP responses.
func (c *ImportController) handleImportError(ctx *gin.Context, err error) {
	var impErr *domainerror.ImportError
	if errors.As(err, &impErr) {
		statusCode := c.getStatusCodeForImportError(impErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: impErr.Message,
			Code:  string(impErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForImportError maps import error codes to HTTP status codes.
func (c *ImportController) getStatusCodeForImportError(code domainerror.ImportErrorCode) int {
	switch code {
	case domainerror.ErrCodeEmptyImportRows,
		domainerror.ErrCodeMissingColumns,
		domainerror.ErrCodeInvalidInvoiceDate,
		domainerror.ErrCodeInvalidServiceMonth,
		domainerror.ErrCodeInvalidTargetMonth,
		domainerror.ErrCodeInvalidBatchWindow,
		domainerror.ErrCodeInvalidStrategy:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
