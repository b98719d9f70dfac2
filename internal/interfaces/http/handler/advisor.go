package handler

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/application/planting"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/interfaces/http/dto"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/interfaces/http/middleware"
)

// AdvisorService is the rotation, companion and auto-fill surface the handler depends on
type AdvisorService interface {
	Placement(ctx context.Context, id uuid.UUID, row, col int, vegetableID string) (*planting.PlacementResponse, error)
	SuggestedRotation(ctx context.Context, id uuid.UUID, year int) (*planting.RotationSuggestionResponse, error)
	CheckRotation(ctx context.Context, id uuid.UUID, vegetableID string, year int) (*planting.RotationCheckResponse, error)
	RotationHistory(ctx context.Context, id uuid.UUID, limit int) ([]garden.RotationHistoryRecord, error)
	RecordHistory(ctx context.Context, id uuid.UUID, req planting.RecordHistoryRequest) (*garden.RotationHistoryRecord, error)
	CloseSeason(ctx context.Context, id uuid.UUID, year int) (*garden.RotationHistoryRecord, error)
	RotationStats(ctx context.Context, id uuid.UUID, year int) (*planting.RotationStatsResponse, error)
	DominantGroup(ctx context.Context, id uuid.UUID) (*planting.DominantGroupResponse, error)
	PreviewAutoFill(ctx context.Context, id uuid.UUID, req planting.AutoFillRequest) (*planting.AutoFillPreviewResponse, error)
	AutoFill(ctx context.Context, id uuid.UUID, req planting.AutoFillRequest) (*planting.AutoFillResponse, error)
}

// AdvisorHandler serves rotation advice, placement checks and auto-fill
type AdvisorHandler struct {
	BaseHandler
	service AdvisorService
}

// NewAdvisorHandler creates a new AdvisorHandler
func NewAdvisorHandler(service AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{service: service}
}

// Placement godoc
// @Summary      Check a placement
// @Description  Companion and rotation advice for planting a vegetable in one cell
// @Tags         advisor
// @Produce      json
// @Param        id path string true "Plot ID" format(uuid)
// @Param        vegetable_id query string true "Vegetable ID"
// @Param        row query int true "Cell row" minimum(0)
// @Param        col query int true "Cell column" minimum(0)
// @Success      200 {object} dto.Response{data=planting.PlacementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /plots/{id}/placement [get]
func (h *AdvisorHandler) Placement(c *gin.Context) {
	id, ok := h.bindPlotID(c)
	if !ok {
		return
	}
	var query dto.PlacementQuery
	if !h.bindQuery(c, &query) {
		return
	}

	result, err := h.service.Placement(c.Request.Context(), id, *query.Row, *query.Col, query.VegetableID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SuggestedRotation godoc
// @Summary      Suggest next rotation group
// @Description  Rotation group the plot should grow next season
// @Tags         rotation
// @Produce      json
// @Param        id path string true "Plot ID" format(uuid)
// @Param        year query int false "Season year, defaults to the current year"
// @Success      200 {object} dto.Response{data=planting.RotationSuggestionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /plots/{id}/rotation/suggestion [get]
func (h *AdvisorHandler) SuggestedRotation(c *gin.Context) {
	id, ok := h.bindPlotID(c)
	if !ok {
		return
	}
	year, ok := h.queryInt(c, "year")
	if !ok {
		return
	}

	result, err := h.service.SuggestedRotation(c.Request.Context(), id, year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// CheckRotation godoc
// @Summary      Check rotation for a vegetable
// @Description  Whether a vegetable follows the plot rotation for a season
// @Tags         rotation
// @Produce      json
// @Param        id path string true "Plot ID" format(uuid)
// @Param        vegetable_id query string true "Vegetable ID"
// @Param        year query int false "Season year, defaults to the current year"
// @Success      200 {object} dto.Response{data=planting.RotationCheckResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /plots/{id}/rotation/check [get]
func (h *AdvisorHandler) CheckRotation(c *gin.Context) {
	id, ok := h.bindPlotID(c)
	if !ok {
		return
	}
	year, ok := h.queryInt(c, "year")
	if !ok {
		return
	}
	vegetableID := c.Query("vegetable_id")
	if vegetableID == "" {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeValidationRequired), dto.ErrCodeValidationRequired, "vegetable_id is required")
		return
	}

	result, err := h.service.CheckRotation(c.Request.Context(), id, vegetableID, year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RotationHistory godoc
// @Summary      Rotation history
// @Description  Most recent rotation records, newest first
// @Tags         rotation
// @Produce      json
// @Param        id path string true "Plot ID" format(uuid)
// @Param        limit query int false "Maximum records, all when omitted" minimum(0)
// @Success      200 {object} dto.Response{data=[]garden.RotationHistoryRecord}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /plots/{id}/rotation/history [get]
func (h *AdvisorHandler) RotationHistory(c *gin.Context) {
	id, ok := h.bindPlotID(c)
	if !ok {
		return
	}
	limit, ok := h.queryInt(c, "limit")
	if !ok {
		return
	}

	records, err := h.service.RotationHistory(c.Request.Context(), id, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// RecordHistory godoc
// @Summary      Record a season
// @Description  Store the rotation group grown in a past season
// @Tags         rotation
// @Accept       json
// @Produce      json
// @Param        id path string true "Plot ID" format(uuid)
// @Param        request body planting.RecordHistoryRequest true "Season record"
// @Success      201 {object} dto.Response{data=garden.RotationHistoryRecord}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /plots/{id}/rotation/history [post]
func (h *AdvisorHandler) RecordHistory(c *gin.Context) {
	id, ok := h.bindPlotID(c)
	if !ok {
		return
	}
	var req planting.RecordHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	record, err := h.service.RecordHistory(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record)
}

// CloseSeason godoc
// @Summary      Close a season
// @Description  Record the season from what the plot currently grows
// @Tags         rotation
// @Produce      json
// @Param        id path string true "Plot ID" format(uuid)
// @Param        year path int true "Season year"
// @Success      201 {object} dto.Response{data=garden.RotationHistoryRecord}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /plots/{id}/seasons/{year}/close [post]
func (h *AdvisorHandler) CloseSeason(c *gin.Context) {
	id, ok := h.bindPlotID(c)
	if !ok {
		return
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidYear), dto.ErrCodeInvalidYear, "year must be an integer")
		return
	}

	record, err := h.service.CloseSeason(c.Request.Context(), id, year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record)
}

// RotationStats godoc
// @Summary      Rotation statistics
// @Description  Per-plot rotation statistics for a season
// @Tags         rotation
// @Produce      json
// @Param        id path string true "Plot ID" format(uuid)
// @Param        year query int false "Season year, defaults to the current year"
// @Success      200 {object} dto.Response{data=planting.RotationStatsResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /plots/{id}/rotation/stats [get]
func (h *AdvisorHandler) RotationStats(c *gin.Context) {
	id, ok := h.bindPlotID(c)
	if !ok {
		return
	}
	year, ok := h.queryInt(c, "year")
	if !ok {
		return
	}

	stats, err := h.service.RotationStats(c.Request.Context(), id, year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// DominantGroup godoc
// @Summary      Dominant rotation group
// @Description  Rotation group with the most planted cells
// @Tags         rotation
// @Produce      json
// @Param        id path string true "Plot ID" format(uuid)
// @Success      200 {object} dto.Response{data=planting.DominantGroupResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /plots/{id}/dominant-group [get]
func (h *AdvisorHandler) DominantGroup(c *gin.Context) {
	id, ok := h.bindPlotID(c)
	if !ok {
		return
	}

	result, err := h.service.DominantGroup(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// PreviewAutoFill godoc
// @Summary      Preview auto-fill
// @Description  List what auto-fill would plant without saving
// @Tags         autofill
// @Accept       json
// @Produce      json
// @Param        id path string true "Plot ID" format(uuid)
// @Param        request body planting.AutoFillRequest false "Auto-fill options"
// @Success      200 {object} dto.Response{data=planting.AutoFillPreviewResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /plots/{id}/autofill/preview [post]
func (h *AdvisorHandler) PreviewAutoFill(c *gin.Context) {
	id, req, ok := h.bindAutoFill(c)
	if !ok {
		return
	}

	preview, err := h.service.PreviewAutoFill(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// AutoFill godoc
// @Summary      Auto-fill a plot
// @Description  Plant the empty cells of a plot and save the result
// @Tags         autofill
// @Accept       json
// @Produce      json
// @Param        id path string true "Plot ID" format(uuid)
// @Param        request body planting.AutoFillRequest false "Auto-fill options"
// @Success      200 {object} dto.Response{data=planting.AutoFillResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /plots/{id}/autofill [post]
func (h *AdvisorHandler) AutoFill(c *gin.Context) {
	id, req, ok := h.bindAutoFill(c)
	if !ok {
		return
	}

	result, err := h.service.AutoFill(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// bindAutoFill reads the plot id and the optional auto-fill body. An empty
// body means all defaults.
func (h *AdvisorHandler) bindAutoFill(c *gin.Context) (uuid.UUID, planting.AutoFillRequest, bool) {
	var req planting.AutoFillRequest
	id, ok := h.bindPlotID(c)
	if !ok {
		return uuid.Nil, req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		middleware.HandleValidationError(c, err)
		return uuid.Nil, req, false
	}
	return id, req, true
}
