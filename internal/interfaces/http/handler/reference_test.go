package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/application/planting"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/interfaces/http/dto"
)

func referenceRoutes(h *ReferenceHandler) func(r *gin.Engine) {
	return func(r *gin.Engine) {
		r.GET("/vegetables", h.ListVegetables)
		r.GET("/vegetables/:id", h.GetVegetable)
		r.GET("/rotation/groups", h.RotationGroups)
		r.GET("/companions/compatibility", h.Compatibility)
		r.GET("/strategies", h.ListStrategies)
	}
}

func TestReferenceHandler_ListVegetables(t *testing.T) {
	svc := new(MockReferenceService)
	h := NewReferenceHandler(svc)

	filter := planting.VegetableFilter{Category: "brassica", Difficulty: "beginner", Query: "kale"}
	svc.On("ListVegetables", mock.Anything, filter).Return([]planting.VegetableResponse{
		{ID: "kale", Name: "Kale", Category: "brassica", RotationGroup: "brassicas"},
	}, nil)

	w := performRequest(t, referenceRoutes(h), http.MethodGet,
		"/vegetables?category=brassica&difficulty=beginner&q=kale", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	if assert.NotNil(t, resp.Meta) {
		assert.Equal(t, int64(1), resp.Meta.Total)
	}
	var got []planting.VegetableResponse
	decodeData(t, w, &got)
	assert.Equal(t, "kale", got[0].ID)
	svc.AssertExpectations(t)
}

func TestReferenceHandler_ListVegetables_InvalidFilter(t *testing.T) {
	svc := new(MockReferenceService)
	h := NewReferenceHandler(svc)

	svc.On("ListVegetables", mock.Anything, mock.Anything).
		Return(nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown category: tubers"))

	w := performRequest(t, referenceRoutes(h), http.MethodGet, "/vegetables?category=tubers", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidFilter, decodeResponse(t, w).Error.Code)
}

func TestReferenceHandler_GetVegetable(t *testing.T) {
	svc := new(MockReferenceService)
	h := NewReferenceHandler(svc)

	svc.On("GetVegetable", mock.Anything, "carrot").
		Return(&planting.VegetableResponse{ID: "carrot", Name: "Carrot", RotationGroup: "roots"}, nil)
	svc.On("GetVegetable", mock.Anything, "dragonfruit").Return(nil, shared.ErrNotFound)

	w := performRequest(t, referenceRoutes(h), http.MethodGet, "/vegetables/carrot", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var got planting.VegetableResponse
	decodeData(t, w, &got)
	assert.Equal(t, "roots", got.RotationGroup)

	w = performRequest(t, referenceRoutes(h), http.MethodGet, "/vegetables/dragonfruit", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, w).Error.Code)
}

func TestReferenceHandler_RotationGroups(t *testing.T) {
	svc := new(MockReferenceService)
	h := NewReferenceHandler(svc)

	svc.On("RotationGroups", mock.Anything).Return(planting.RotationGroupsResponse{
		Groups: []planting.RotationGroupInfo{
			{Group: garden.RotationLegumes, DisplayName: "Legumes", InCycle: true, Next: garden.RotationBrassicas},
		},
		Cycle: garden.RotationCycle(),
	})

	w := performRequest(t, referenceRoutes(h), http.MethodGet, "/rotation/groups", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var got planting.RotationGroupsResponse
	decodeData(t, w, &got)
	assert.Equal(t, garden.RotationCycle(), got.Cycle)
	assert.Equal(t, garden.RotationBrassicas, got.Groups[0].Next)
}

func TestReferenceHandler_Compatibility(t *testing.T) {
	svc := new(MockReferenceService)
	h := NewReferenceHandler(svc)

	svc.On("Compatibility", mock.Anything, "tomato", "basil").Return(&planting.CompatibilityResponse{
		VegetableA: "tomato", VegetableB: "basil", Compatibility: garden.CompatibilityGood,
	}, nil)
	svc.On("Compatibility", mock.Anything, "tomato", "").
		Return(nil, shared.NewDomainError("INVALID_INPUT", "Both vegetables are required"))

	w := performRequest(t, referenceRoutes(h), http.MethodGet, "/companions/compatibility?a=tomato&b=basil", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var got planting.CompatibilityResponse
	decodeData(t, w, &got)
	assert.Equal(t, garden.CompatibilityGood, got.Compatibility)

	w = performRequest(t, referenceRoutes(h), http.MethodGet, "/companions/compatibility?a=tomato", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidInput, decodeResponse(t, w).Error.Code)
}

func TestReferenceHandler_ListStrategies(t *testing.T) {
	svc := new(MockReferenceService)
	h := NewReferenceHandler(svc)

	svc.On("ListStrategies", mock.Anything).Return([]planting.StrategyResponse{
		{Name: "balanced", RotationWeight: decimal.RequireFromString("0.5"), CompanionWeight: decimal.RequireFromString("0.5"), IsDefault: true},
		{Name: "rotation-first", RotationWeight: decimal.RequireFromString("0.7"), CompanionWeight: decimal.RequireFromString("0.3")},
	})

	w := performRequest(t, referenceRoutes(h), http.MethodGet, "/strategies", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []planting.StrategyResponse
	decodeData(t, w, &got)
	assert.Len(t, got, 2)
	assert.True(t, got[0].IsDefault)
	assert.True(t, got[1].RotationWeight.Equal(decimal.RequireFromString("0.7")))
}
