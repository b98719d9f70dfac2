package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/application/planting"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/interfaces/http/dto"
)

func plotRoutes(h *PlotHandler) func(r *gin.Engine) {
	return func(r *gin.Engine) {
		r.POST("/plots", h.Create)
		r.GET("/plots", h.List)
		r.GET("/plots/:id", h.GetByID)
		r.PUT("/plots/:id", h.Update)
		r.DELETE("/plots/:id", h.Delete)
		r.PUT("/plots/:id/cells/:row/:col", h.PlantCell)
		r.DELETE("/plots/:id/cells/:row/:col", h.ClearCell)
	}
}

func TestPlotHandler_Create(t *testing.T) {
	svc := new(MockPlotService)
	h := NewPlotHandler(svc)

	req := planting.CreatePlotRequest{Name: "Bed A", Rows: 3, Cols: 4}
	id := uuid.New()
	svc.On("Create", mock.Anything, req).Return(&planting.PlotResponse{ID: id, Name: "Bed A", Rows: 3, Cols: 4, Version: 1}, nil)

	w := performRequest(t, plotRoutes(h), http.MethodPost, "/plots", req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var got planting.PlotResponse
	decodeData(t, w, &got)
	assert.Equal(t, id, got.ID)
	svc.AssertExpectations(t)
}

func TestPlotHandler_Create_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"rows": 2, "cols": 2}},
		{"rows too large", map[string]any{"name": "Bed", "rows": 21, "cols": 2}},
		{"zero cols", map[string]any{"name": "Bed", "rows": 2, "cols": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockPlotService)
			h := NewPlotHandler(svc)

			w := performRequest(t, plotRoutes(h), http.MethodPost, "/plots", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeResponse(t, w)
			assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Details)
			svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestPlotHandler_Create_Duplicate(t *testing.T) {
	svc := new(MockPlotService)
	h := NewPlotHandler(svc)

	svc.On("Create", mock.Anything, mock.Anything).
		Return(nil, shared.NewDomainError("ALREADY_EXISTS", "Plot with this name already exists"))

	w := performRequest(t, plotRoutes(h), http.MethodPost, "/plots",
		planting.CreatePlotRequest{Name: "Bed A", Rows: 2, Cols: 2})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrCodeAlreadyExists, decodeResponse(t, w).Error.Code)
}

func TestPlotHandler_List_DefaultsPaging(t *testing.T) {
	svc := new(MockPlotService)
	h := NewPlotHandler(svc)

	svc.On("List", mock.Anything, planting.PlotListFilter{Search: "bed"}).
		Return(shared.NewPaginated([]planting.PlotListResponse{{ID: uuid.New(), Name: "Bed A"}}, 41, 1, 20), nil)

	w := performRequest(t, plotRoutes(h), http.MethodGet, "/plots?search=bed", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	if assert.NotNil(t, resp.Meta) {
		assert.Equal(t, int64(41), resp.Meta.Total)
		assert.Equal(t, 1, resp.Meta.Page)
		assert.Equal(t, 20, resp.Meta.PageSize)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	}
	svc.AssertExpectations(t)
}

func TestPlotHandler_List_InvalidPageSize(t *testing.T) {
	svc := new(MockPlotService)
	h := NewPlotHandler(svc)

	w := performRequest(t, plotRoutes(h), http.MethodGet, "/plots?page_size=500", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestPlotHandler_GetByID(t *testing.T) {
	svc := new(MockPlotService)
	h := NewPlotHandler(svc)

	id := uuid.New()
	missing := uuid.New()
	svc.On("GetByID", mock.Anything, id).Return(&planting.PlotResponse{ID: id, Name: "Bed A"}, nil)
	svc.On("GetByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)

	w := performRequest(t, plotRoutes(h), http.MethodGet, "/plots/"+id.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(t, plotRoutes(h), http.MethodGet, "/plots/"+missing.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(t, plotRoutes(h), http.MethodGet, "/plots/bed-a", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlotHandler_Update(t *testing.T) {
	svc := new(MockPlotService)
	h := NewPlotHandler(svc)

	id := uuid.New()
	name := "Bed B"
	version := 2
	req := planting.UpdatePlotRequest{Name: &name, Version: &version}
	svc.On("Update", mock.Anything, id, req).Return(nil, shared.ErrConcurrencyConflict)

	w := performRequest(t, plotRoutes(h), http.MethodPut, "/plots/"+id.String(), req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrCodeConcurrencyConflict, decodeResponse(t, w).Error.Code)
	svc.AssertExpectations(t)
}

func TestPlotHandler_Delete(t *testing.T) {
	svc := new(MockPlotService)
	h := NewPlotHandler(svc)

	id := uuid.New()
	svc.On("Delete", mock.Anything, id).Return(nil)

	w := performRequest(t, plotRoutes(h), http.MethodDelete, "/plots/"+id.String(), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestPlotHandler_Delete_StoreFailure(t *testing.T) {
	svc := new(MockPlotService)
	h := NewPlotHandler(svc)

	id := uuid.New()
	svc.On("Delete", mock.Anything, id).Return(errors.New("database is locked"))

	w := performRequest(t, plotRoutes(h), http.MethodDelete, "/plots/"+id.String(), nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)
}

func TestPlotHandler_PlantCell(t *testing.T) {
	svc := new(MockPlotService)
	h := NewPlotHandler(svc)

	id := uuid.New()
	req := planting.PlantCellRequest{VegetableID: "tomato", Year: 2025}
	svc.On("PlantCell", mock.Anything, id, 1, 2, req).Return(&planting.PlantCellResponse{
		Plot:      &planting.PlotResponse{ID: id},
		Placement: garden.PlacementResult{IsValid: true, Compatibility: garden.CompatibilityNeutral},
		Rotation: &garden.Violation{
			Type: garden.ViolationTypeRotation, Severity: garden.SeverityError, PlotID: id,
			VegetableID: "tomato", OffendingYear: 2024,
		},
	}, nil)

	w := performRequest(t, plotRoutes(h), http.MethodPut, "/plots/"+id.String()+"/cells/1/2", req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got planting.PlantCellResponse
	decodeData(t, w, &got)
	assert.True(t, got.Placement.IsValid)
	if assert.NotNil(t, got.Rotation) {
		assert.Equal(t, garden.SeverityError, got.Rotation.Severity)
	}
	svc.AssertExpectations(t)
}

func TestPlotHandler_PlantCell_Errors(t *testing.T) {
	id := uuid.New()

	t.Run("missing vegetable id", func(t *testing.T) {
		svc := new(MockPlotService)
		w := performRequest(t, plotRoutes(NewPlotHandler(svc)), http.MethodPut,
			"/plots/"+id.String()+"/cells/0/0", map[string]any{"year": 2025})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "PlantCell", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("negative row", func(t *testing.T) {
		svc := new(MockPlotService)
		w := performRequest(t, plotRoutes(NewPlotHandler(svc)), http.MethodPut,
			"/plots/"+id.String()+"/cells/-1/0", planting.PlantCellRequest{VegetableID: "kale"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown vegetable", func(t *testing.T) {
		svc := new(MockPlotService)
		svc.On("PlantCell", mock.Anything, id, 0, 0, mock.Anything).
			Return(nil, shared.NewDomainError("UNKNOWN_VEGETABLE", "Unknown vegetable: triffid"))
		w := performRequest(t, plotRoutes(NewPlotHandler(svc)), http.MethodPut,
			"/plots/"+id.String()+"/cells/0/0", planting.PlantCellRequest{VegetableID: "triffid"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeUnknownVegetable, decodeResponse(t, w).Error.Code)
	})

	t.Run("cell out of range", func(t *testing.T) {
		svc := new(MockPlotService)
		svc.On("PlantCell", mock.Anything, id, 9, 9, mock.Anything).
			Return(nil, shared.NewDomainError("CELL_NOT_FOUND", "No cell at row 9, col 9"))
		w := performRequest(t, plotRoutes(NewPlotHandler(svc)), http.MethodPut,
			"/plots/"+id.String()+"/cells/9/9", planting.PlantCellRequest{VegetableID: "kale"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeCellNotFound, decodeResponse(t, w).Error.Code)
	})
}

func TestPlotHandler_ClearCell(t *testing.T) {
	svc := new(MockPlotService)
	h := NewPlotHandler(svc)

	id := uuid.New()
	svc.On("ClearCell", mock.Anything, id, 0, 3).Return(&planting.PlotResponse{ID: id}, nil)

	w := performRequest(t, plotRoutes(h), http.MethodDelete, "/plots/"+id.String()+"/cells/0/3", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
