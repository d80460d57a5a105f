package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/usecase/period"
	domainerror "github.com/doron007/subscription-dashboard-sub001/internal/domain/error"
	"github.com/doron007/subscription-dashboard-sub001/internal/integration/entrypoint/dto"
)

// PeriodController handles billing period move endpoints.
type PeriodController struct {
	movePeriodUseCase *period.MovePeriodUseCase
}

// NewPeriodController creates a new period controller instance.
func NewPeriodController(movePeriodUseCase *period.MovePeriodUseCase) *PeriodController {
	return &PeriodController{
		movePeriodUseCase: movePeriodUseCase,
	}
}

// Move handles POST /periods/move requests.
func (c *PeriodController) Move(ctx *gin.Context) {
	var req dto.MovePeriodRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	input := period.MovePeriodInput{
		Granularity: period.Granularity(req.Granularity),
		Pattern:     req.Pattern,
		SourceMonth: req.SourceMonth,
		TargetMonth: req.TargetMonth,
	}

	if req.InvoiceID != "" {
		invoiceID, err := uuid.Parse(req.InvoiceID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid invoice ID format",
			})
			return
		}
		input.InvoiceID = invoiceID
	}
	if req.LineItemID != "" {
		lineItemID, err := uuid.Parse(req.LineItemID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid line item ID format",
			})
			return
		}
		input.LineItemID = lineItemID
	}

	output, err := c.movePeriodUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handlePeriodError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MovePeriodResponseDTO{
		LinesMoved: output.LinesMoved,
	})
}

// handlePeriodError handles period move errors and returns appropriate HTTP responses.
func (c *PeriodController) handlePeriodError(ctx *gin.Context, err error) {
	if errors.Is(err, domainerror.ErrInvoiceNotFound) || errors.Is(err, domainerror.ErrLineItemNotFound) {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	var impErr *domainerror.ImportError
	if errors.As(err, &impErr) {
		status := http.StatusBadRequest
		if impErr.Code == domainerror.ErrCodeImportInternal {
			status = http.StatusInternalServerError
		}
		ctx.JSON(status, dto.ErrorResponse{
			Error: impErr.Message,
			Code:  string(impErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}
