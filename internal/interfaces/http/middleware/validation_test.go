package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/interfaces/http/dto"
)

type testHistoryRequest struct {
	Year          int    `json:"year" binding:"required,min=1900,max=2200"`
	RotationGroup string `json:"rotation_group" binding:"required,rotation_group"`
	Filter        string `json:"difficulty_filter" binding:"omitempty,difficulty_filter"`
	Name          string `json:"name" binding:"omitempty,max=5"`
}

func validationRouter() *gin.Engine {
	SetupValidator()
	r := gin.New()
	r.Use(RequestID())
	r.POST("/test", func(c *gin.Context) {
		var req testHistoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req))
	})
	return r
}

func postJSON(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleValidationError(t *testing.T) {
	r := validationRouter()

	t.Run("lists each invalid field by json name", func(t *testing.T) {
		w := postJSON(r, `{"year": 1800, "rotation_group": "fungi", "difficulty_filter": "expert", "name": "too long"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)

		byField := make(map[string]string)
		for _, d := range resp.Error.Details {
			byField[d.Field] = d.Message
		}
		assert.Equal(t, "Must be at least 1900", byField["year"])
		assert.Equal(t, "Unknown rotation group", byField["rotation_group"])
		assert.Equal(t, "Must be one of: all beginner-only", byField["difficulty_filter"])
		assert.Equal(t, "Must be at most 5 characters", byField["name"])
	})

	t.Run("malformed json", func(t *testing.T) {
		w := postJSON(r, `{"year":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeInvalidJSON)
	})

	t.Run("valid request", func(t *testing.T) {
		w := postJSON(r, `{"year": 2024, "rotation_group": "legumes", "difficulty_filter": "beginner-only"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
