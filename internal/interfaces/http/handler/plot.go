package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/application/planting"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/interfaces/http/middleware"
)

// PlotService is the plot management surface the handler depends on
type PlotService interface {
	Create(ctx context.Context, req planting.CreatePlotRequest) (*planting.PlotResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*planting.PlotResponse, error)
	List(ctx context.Context, filter planting.PlotListFilter) (shared.Paginated[planting.PlotListResponse], error)
	Update(ctx context.Context, id uuid.UUID, req planting.UpdatePlotRequest) (*planting.PlotResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	PlantCell(ctx context.Context, id uuid.UUID, row, col int, req planting.PlantCellRequest) (*planting.PlantCellResponse, error)
	ClearCell(ctx context.Context, id uuid.UUID, row, col int) (*planting.PlotResponse, error)
}

// PlotHandler handles plot CRUD and cell planting
type PlotHandler struct {
	BaseHandler
	service PlotService
}

// NewPlotHandler creates a new PlotHandler
func NewPlotHandler(service PlotService) *PlotHandler {
	return &PlotHandler{service: service}
}

// Create godoc
// @Summary      Create a plot
// @Description  Create a plot with an empty grid
// @Tags         plots
// @Accept       json
// @Produce      json
// @Param        request body planting.CreatePlotRequest true "Plot creation request"
// @Success      201 {object} dto.Response{data=planting.PlotResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /plots [post]
func (h *PlotHandler) Create(c *gin.Context) {
	var req planting.CreatePlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	plot, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, plot)
}

// List godoc
// @Summary      List plots
// @Description  Retrieve a paginated list of plots
// @Tags         plots
// @Produce      json
// @Param        search query string false "Name search"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        sort_by query string false "Sort field" default(created_at)
// @Param        sort_order query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response{data=[]planting.PlotListResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /plots [get]
func (h *PlotHandler) List(c *gin.Context) {
	var filter planting.PlotListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID godoc
// @Summary      Get plot by ID
// @Description  Retrieve a plot with its cells in row-major order
// @Tags         plots
// @Produce      json
// @Param        id path string true "Plot ID" format(uuid)
// @Success      200 {object} dto.Response{data=planting.PlotResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /plots/{id} [get]
func (h *PlotHandler) GetByID(c *gin.Context) {
	id, ok := h.bindPlotID(c)
	if !ok {
		return
	}

	plot, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plot)
}

// Update godoc
// @Summary      Update a plot
// @Description  Rename a plot or edit its notes
// @Tags         plots
// @Accept       json
// @Produce      json
// @Param        id path string true "Plot ID" format(uuid)
// @Param        request body planting.UpdatePlotRequest true "Plot update request"
// @Success      200 {object} dto.Response{data=planting.PlotResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /plots/{id} [put]
func (h *PlotHandler) Update(c *gin.Context) {
	id, ok := h.bindPlotID(c)
	if !ok {
		return
	}
	var req planting.UpdatePlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	plot, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plot)
}

// Delete godoc
// @Summary      Delete a plot
// @Description  Delete a plot together with its rotation history
// @Tags         plots
// @Produce      json
// @Param        id path string true "Plot ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /plots/{id} [delete]
func (h *PlotHandler) Delete(c *gin.Context) {
	id, ok := h.bindPlotID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PlantCell godoc
// @Summary      Plant a cell
// @Description  Plant a catalog vegetable in a cell and return companion and rotation advice
// @Tags         plots
// @Accept       json
// @Produce      json
// @Param        id path string true "Plot ID" format(uuid)
// @Param        row path int true "Cell row" minimum(0)
// @Param        col path int true "Cell column" minimum(0)
// @Param        request body planting.PlantCellRequest true "Planting request"
// @Success      200 {object} dto.Response{data=planting.PlantCellResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /plots/{id}/cells/{row}/{col} [put]
func (h *PlotHandler) PlantCell(c *gin.Context) {
	id, row, col, ok := h.bindCell(c)
	if !ok {
		return
	}
	var req planting.PlantCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.PlantCell(c.Request.Context(), id, row, col, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ClearCell godoc
// @Summary      Clear a cell
// @Description  Remove the planting from a cell
// @Tags         plots
// @Produce      json
// @Param        id path string true "Plot ID" format(uuid)
// @Param        row path int true "Cell row" minimum(0)
// @Param        col path int true "Cell column" minimum(0)
// @Success      200 {object} dto.Response{data=planting.PlotResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /plots/{id}/cells/{row}/{col} [delete]
func (h *PlotHandler) ClearCell(c *gin.Context) {
	id, row, col, ok := h.bindCell(c)
	if !ok {
		return
	}

	plot, err := h.service.ClearCell(c.Request.Context(), id, row, col)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plot)
}
