package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/usecase/billing"
	domainerror "github.com/doron007/subscription-dashboard-sub001/internal/domain/error"
	"github.com/doron007/subscription-dashboard-sub001/internal/integration/entrypoint/dto"
)

// VendorController handles vendor reporting endpoints.
type VendorController struct {
	getVendorCycleUseCase *billing.GetVendorCycleUseCase
}

// NewVendorController creates a new vendor controller instance.
func NewVendorController(getVendorCycleUseCase *billing.GetVendorCycleUseCase) *VendorController {
	return &VendorController{
		getVendorCycleUseCase: getVendorCycleUseCase,
	}
}

// GetBillingCycle handles GET /vendors/:id/billing-cycle requests.
// The optional refresh query parameter bypasses the cache.
func (c *VendorController) GetBillingCycle(ctx *gin.Context) {
	vendorID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid vendor ID format",
		})
		return
	}

	input := billing.GetVendorCycleInput{
		VendorID: vendorID,
		Refresh:  ctx.Query("refresh") == "true",
	}

	output, err := c.getVendorCycleUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		if errors.Is(err, domainerror.ErrVendorNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
				Error: "Vendor not found",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
		})
		return
	}

	response := dto.ToVendorCycleResponseDTO(output.VendorID.String(), output.Inference, output.FromCache)
	ctx.JSON(http.StatusOK, response)
}
