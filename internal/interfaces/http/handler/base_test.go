package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/interfaces/http/dto"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/interfaces/http/middleware"
)

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Success(c, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandlerSuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.SuccessWithMeta(c, []string{"item1", "item2"}, 45, 2, 20)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	if assert.NotNil(t, resp.Meta) {
		assert.Equal(t, int64(45), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.Page)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	}
}

func TestBaseHandlerCreated(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Created(c, map[string]string{"id": "123"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestBaseHandlerNoContent(t *testing.T) {
	h := &BaseHandler{}

	router := gin.New()
	router.DELETE("/test", func(c *gin.Context) {
		h.NoContent(c)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/test", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestBaseHandlerErrorMethods(t *testing.T) {
	tests := []struct {
		name         string
		method       func(*BaseHandler, *gin.Context)
		expectedCode int
		expectedErr  string
	}{
		{
			name:         "BadRequest",
			method:       func(h *BaseHandler, c *gin.Context) { h.BadRequest(c, "Invalid request") },
			expectedCode: http.StatusBadRequest,
			expectedErr:  dto.ErrCodeBadRequest,
		},
		{
			name:         "NotFound",
			method:       func(h *BaseHandler, c *gin.Context) { h.NotFound(c, "Resource not found") },
			expectedCode: http.StatusNotFound,
			expectedErr:  dto.ErrCodeNotFound,
		},
		{
			name:         "InternalError",
			method:       func(h *BaseHandler, c *gin.Context) { h.InternalError(c, "Server error") },
			expectedCode: http.StatusInternalServerError,
			expectedErr:  dto.ErrCodeInternal,
		},
		{
			name: "ErrorWithCode",
			method: func(h *BaseHandler, c *gin.Context) {
				h.ErrorWithCode(c, dto.ErrCodeConcurrencyConflict, "stale version")
			},
			expectedCode: http.StatusConflict,
			expectedErr:  dto.ErrCodeConcurrencyConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set(middleware.RequestIDKey, "req-123")

			tt.method(h, c)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			if assert.NotNil(t, resp.Error) {
				assert.Equal(t, tt.expectedErr, resp.Error.Code)
				assert.Equal(t, "req-123", resp.Error.RequestID)
			}
		})
	}
}

func TestBaseHandlerHandleError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped not found", fmt.Errorf("find plot: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
		{"cell not found", shared.NewDomainError("CELL_NOT_FOUND", "no cell"), http.StatusNotFound, dto.ErrCodeCellNotFound},
		{"already exists", shared.NewDomainError("ALREADY_EXISTS", "dup"), http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"concurrency", shared.ErrConcurrencyConflict, http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		{"invalid state", shared.NewDomainError("INVALID_STATE", "nothing planted"), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"invalid year", shared.NewDomainError("INVALID_YEAR", "bad year"), http.StatusBadRequest, dto.ErrCodeInvalidYear},
		{"unknown vegetable", shared.NewDomainError("UNKNOWN_VEGETABLE", "who"), http.StatusBadRequest, dto.ErrCodeUnknownVegetable},
		{"invalid strategy", shared.NewDomainError("INVALID_STRATEGY", "no"), http.StatusBadRequest, dto.ErrCodeInvalidStrategy},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeResponse(t, w)
			if assert.NotNil(t, resp.Error) {
				assert.Equal(t, tt.expectedCode, resp.Error.Code)
				assert.NotContains(t, resp.Error.Message, "connection reset")
			}
		})
	}
}

func TestBaseHandlerHandleErrorNil(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.HandleError(c, nil)

	assert.Empty(t, w.Body.Bytes())
}

func TestBindPlotID_RejectsNonUUID(t *testing.T) {
	h := &BaseHandler{}
	w := performRequest(t, func(r *gin.Engine) {
		r.GET("/plots/:id", func(c *gin.Context) {
			if _, ok := h.bindPlotID(c); ok {
				h.Success(c, nil)
			}
		})
	}, http.MethodGet, "/plots/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	if assert.NotNil(t, resp.Error) {
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.Details)
	}
}

func TestQueryInt(t *testing.T) {
	h := &BaseHandler{}
	var got int
	register := func(r *gin.Engine) {
		r.GET("/q", func(c *gin.Context) {
			v, ok := h.queryInt(c, "year")
			if !ok {
				return
			}
			got = v
			h.Success(c, v)
		})
	}

	w := performRequest(t, register, http.MethodGet, "/q?year=2025", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2025, got)

	got = -1
	w = performRequest(t, register, http.MethodGet, "/q", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, got)

	w = performRequest(t, register, http.MethodGet, "/q?year=next", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidationFormat, decodeResponse(t, w).Error.Code)
}
