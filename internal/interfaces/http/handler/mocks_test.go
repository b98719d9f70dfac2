package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/application/planting"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/interfaces/http/dto"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// MockReferenceService is a mock implementation of ReferenceService
type MockReferenceService struct {
	mock.Mock
}

func (m *MockReferenceService) ListVegetables(ctx context.Context, filter planting.VegetableFilter) ([]planting.VegetableResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]planting.VegetableResponse), args.Error(1)
}

func (m *MockReferenceService) GetVegetable(ctx context.Context, id string) (*planting.VegetableResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planting.VegetableResponse), args.Error(1)
}

func (m *MockReferenceService) RotationGroups(ctx context.Context) planting.RotationGroupsResponse {
	args := m.Called(ctx)
	return args.Get(0).(planting.RotationGroupsResponse)
}

func (m *MockReferenceService) Compatibility(ctx context.Context, a, b string) (*planting.CompatibilityResponse, error) {
	args := m.Called(ctx, a, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planting.CompatibilityResponse), args.Error(1)
}

func (m *MockReferenceService) ListStrategies(ctx context.Context) []planting.StrategyResponse {
	args := m.Called(ctx)
	return args.Get(0).([]planting.StrategyResponse)
}

// MockPlotService is a mock implementation of PlotService
type MockPlotService struct {
	mock.Mock
}

func (m *MockPlotService) Create(ctx context.Context, req planting.CreatePlotRequest) (*planting.PlotResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planting.PlotResponse), args.Error(1)
}

func (m *MockPlotService) GetByID(ctx context.Context, id uuid.UUID) (*planting.PlotResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planting.PlotResponse), args.Error(1)
}

func (m *MockPlotService) List(ctx context.Context, filter planting.PlotListFilter) (shared.Paginated[planting.PlotListResponse], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[planting.PlotListResponse]), args.Error(1)
}

func (m *MockPlotService) Update(ctx context.Context, id uuid.UUID, req planting.UpdatePlotRequest) (*planting.PlotResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planting.PlotResponse), args.Error(1)
}

func (m *MockPlotService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPlotService) PlantCell(ctx context.Context, id uuid.UUID, row, col int, req planting.PlantCellRequest) (*planting.PlantCellResponse, error) {
	args := m.Called(ctx, id, row, col, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planting.PlantCellResponse), args.Error(1)
}

func (m *MockPlotService) ClearCell(ctx context.Context, id uuid.UUID, row, col int) (*planting.PlotResponse, error) {
	args := m.Called(ctx, id, row, col)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planting.PlotResponse), args.Error(1)
}

// MockAdvisorService is a mock implementation of AdvisorService
type MockAdvisorService struct {
	mock.Mock
}

func (m *MockAdvisorService) Placement(ctx context.Context, id uuid.UUID, row, col int, vegetableID string) (*planting.PlacementResponse, error) {
	args := m.Called(ctx, id, row, col, vegetableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planting.PlacementResponse), args.Error(1)
}

func (m *MockAdvisorService) SuggestedRotation(ctx context.Context, id uuid.UUID, year int) (*planting.RotationSuggestionResponse, error) {
	args := m.Called(ctx, id, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planting.RotationSuggestionResponse), args.Error(1)
}

func (m *MockAdvisorService) CheckRotation(ctx context.Context, id uuid.UUID, vegetableID string, year int) (*planting.RotationCheckResponse, error) {
	args := m.Called(ctx, id, vegetableID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planting.RotationCheckResponse), args.Error(1)
}

func (m *MockAdvisorService) RotationHistory(ctx context.Context, id uuid.UUID, limit int) ([]garden.RotationHistoryRecord, error) {
	args := m.Called(ctx, id, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]garden.RotationHistoryRecord), args.Error(1)
}

func (m *MockAdvisorService) RecordHistory(ctx context.Context, id uuid.UUID, req planting.RecordHistoryRequest) (*garden.RotationHistoryRecord, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*garden.RotationHistoryRecord), args.Error(1)
}

func (m *MockAdvisorService) CloseSeason(ctx context.Context, id uuid.UUID, year int) (*garden.RotationHistoryRecord, error) {
	args := m.Called(ctx, id, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*garden.RotationHistoryRecord), args.Error(1)
}

func (m *MockAdvisorService) RotationStats(ctx context.Context, id uuid.UUID, year int) (*planting.RotationStatsResponse, error) {
	args := m.Called(ctx, id, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planting.RotationStatsResponse), args.Error(1)
}

func (m *MockAdvisorService) DominantGroup(ctx context.Context, id uuid.UUID) (*planting.DominantGroupResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planting.DominantGroupResponse), args.Error(1)
}

func (m *MockAdvisorService) PreviewAutoFill(ctx context.Context, id uuid.UUID, req planting.AutoFillRequest) (*planting.AutoFillPreviewResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planting.AutoFillPreviewResponse), args.Error(1)
}

func (m *MockAdvisorService) AutoFill(ctx context.Context, id uuid.UUID, req planting.AutoFillRequest) (*planting.AutoFillResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planting.AutoFillResponse), args.Error(1)
}

// MockPinger is a mock implementation of Pinger
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type staticBackend string

func (b staticBackend) Backend() string { return string(b) }

// performRequest runs one request through a router with the request id
// middleware installed
func performRequest(t *testing.T, register func(r *gin.Engine), method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	r := gin.New()
	r.Use(middleware.RequestID())
	register(r)

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeResponse unmarshals the envelope of a recorded response
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// decodeData unmarshals the data field of a success envelope into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}
