package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/usecase/merge"
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
	domainerror "github.com/doron007/subscription-dashboard-sub001/internal/domain/error"
	"github.com/doron007/subscription-dashboard-sub001/internal/integration/entrypoint/dto"
)

// MergeController handles duplicate-record merge endpoints.
type MergeController struct {
	previewUseCase *merge.PreviewMergeUseCase
	executeUseCase *merge.ExecuteMergeUseCase
}

// NewMergeController creates a new merge controller instance.
func NewMergeController(
	previewUseCase *merge.PreviewMergeUseCase,
	executeUseCase *merge.ExecuteMergeUseCase,
) *MergeController {
	return &MergeController{
		previewUseCase: previewUseCase,
		executeUseCase: executeUseCase,
	}
}

// Preview handles POST /merge/preview requests.
func (c *MergeController) Preview(ctx *gin.Context) {
	var req dto.PreviewMergeRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	sourceID, err := uuid.Parse(req.SourceID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid source ID format",
		})
		return
	}

	input := merge.PreviewMergeInput{
		Entity:   entity.MergeEntity(req.Entity),
		SourceID: sourceID,
	}

	output, err := c.previewUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleMergeError(ctx, err)
		return
	}

	response := dto.PreviewMergeResponseDTO{
		Entity:   req.Entity,
		SourceID: req.SourceID,
		Impact:   dto.ToMergeImpactDTO(output.Impact),
	}

	ctx.JSON(http.StatusOK, response)
}

// Execute handles POST /merge/execute requests.
func (c *MergeController) Execute(ctx *gin.Context) {
	var req dto.ExecuteMergeRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	sourceID, err := uuid.Parse(req.SourceID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid source ID format",
		})
		return
	}
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid target ID format",
		})
		return
	}

	input := merge.ExecuteMergeInput{
		Entity:   entity.MergeEntity(req.Entity),
		SourceID: sourceID,
		TargetID: targetID,
		NewName:  req.NewName,
	}

	output, err := c.executeUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleMergeError(ctx, err)
		return
	}

	response := dto.ExecuteMergeResponseDTO{
		SourceID: output.Result.SourceID.String(),
		TargetID: output.Result.TargetID.String(),
		Moved:    dto.ToMergeImpactDTO(output.Result.Moved),
		Renamed:  output.Result.Renamed,
	}

	ctx.JSON(http.StatusOK, response)
}

// handleMergeError handles merge errors and returns appropriate HTTP responses.
func (c *MergeController) handleMergeError(ctx *gin.Context, err error) {
	var mrgErr *domainerror.MergeError
	if errors.As(err, &mrgErr) {
		statusCode := c.getStatusCodeForMergeError(mrgErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: mrgErr.Message,
			Code:  string(mrgErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForMergeError maps merge error codes to HTTP status codes.
func (c *MergeController) getStatusCodeForMergeError(code domainerror.MergeErrorCode) int {
	switch code {
	case domainerror.ErrCodeMergeSourceMissing,
		domainerror.ErrCodeMergeTargetMissing:
		return http.StatusNotFound
	case domainerror.ErrCodeSelfMerge,
		domainerror.ErrCodeUnsupportedEntity:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
