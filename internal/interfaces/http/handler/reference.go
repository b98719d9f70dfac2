package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/application/planting"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/interfaces/http/middleware"
)

// ReferenceService is the read-only catalog surface the handler depends on
type ReferenceService interface {
	ListVegetables(ctx context.Context, filter planting.VegetableFilter) ([]planting.VegetableResponse, error)
	GetVegetable(ctx context.Context, id string) (*planting.VegetableResponse, error)
	RotationGroups(ctx context.Context) planting.RotationGroupsResponse
	Compatibility(ctx context.Context, a, b string) (*planting.CompatibilityResponse, error)
	ListStrategies(ctx context.Context) []planting.StrategyResponse
}

// ReferenceHandler serves the vegetable catalog, rotation groups,
// companion lookups and the planting strategy list
type ReferenceHandler struct {
	BaseHandler
	service ReferenceService
}

// NewReferenceHandler creates a new ReferenceHandler
func NewReferenceHandler(service ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

// ListVegetables godoc
// @Summary      List vegetables
// @Description  List catalog vegetables, optionally filtered
// @Tags         reference
// @Produce      json
// @Param        category query string false "Vegetable category"
// @Param        difficulty query string false "Difficulty" Enums(beginner, intermediate, advanced)
// @Param        rotation_group query string false "Rotation group" Enums(brassicas, legumes, roots, solanaceae, alliums, cucurbits, permanent)
// @Param        q query string false "Name search"
// @Success      200 {object} dto.Response{data=[]planting.VegetableResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /vegetables [get]
func (h *ReferenceHandler) ListVegetables(c *gin.Context) {
	var filter planting.VegetableFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	vegetables, err := h.service.ListVegetables(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, vegetables, int64(len(vegetables)), 1, len(vegetables))
}

// GetVegetable godoc
// @Summary      Get vegetable by ID
// @Description  Retrieve one catalog vegetable with its companion lists
// @Tags         reference
// @Produce      json
// @Param        id path string true "Vegetable ID"
// @Success      200 {object} dto.Response{data=planting.VegetableResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /vegetables/{id} [get]
func (h *ReferenceHandler) GetVegetable(c *gin.Context) {
	vegetable, err := h.service.GetVegetable(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, vegetable)
}

// RotationGroups godoc
// @Summary      List rotation groups
// @Description  Rotation groups in cycle order with their successors
// @Tags         reference
// @Produce      json
// @Success      200 {object} dto.Response{data=planting.RotationGroupsResponse}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /rotation/groups [get]
func (h *ReferenceHandler) RotationGroups(c *gin.Context) {
	h.Success(c, h.service.RotationGroups(c.Request.Context()))
}

// Compatibility godoc
// @Summary      Companion compatibility
// @Description  Look up how two vegetables grow next to each other
// @Tags         reference
// @Produce      json
// @Param        a query string true "First vegetable ID"
// @Param        b query string true "Second vegetable ID"
// @Success      200 {object} dto.Response{data=planting.CompatibilityResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /companions/compatibility [get]
func (h *ReferenceHandler) Compatibility(c *gin.Context) {
	result, err := h.service.Compatibility(c.Request.Context(), c.Query("a"), c.Query("b"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListStrategies godoc
// @Summary      List planting strategies
// @Description  Registered auto-fill scoring strategies
// @Tags         reference
// @Produce      json
// @Success      200 {object} dto.Response{data=[]planting.StrategyResponse}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /strategies [get]
func (h *ReferenceHandler) ListStrategies(c *gin.Context) {
	h.Success(c, h.service.ListStrategies(c.Request.Context()))
}
