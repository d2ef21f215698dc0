package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/loading"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/reporting/mocks"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/validating"
	"github.com/vfg2006/sales-analytics-api/pkg/apiErrors"
)

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) apiErrors.APIError {
	t.Helper()
	var apiErr apiErrors.APIError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
	return apiErr
}

func TestGetReport_ErrorMapping(t *testing.T) {
	tests := []struct {
		name           string
		pipelineErr    error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "source failure maps to bad gateway",
			pipelineErr:    loading.NewSourceError(loading.ErrNoSales, ""),
			expectedStatus: http.StatusBadGateway,
			expectedCode:   apiErrors.ErrSourceRead,
		},
		{
			name:           "empty dataset maps to unprocessable entity",
			pipelineErr:    aggregating.ErrEmptyDataset,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   apiErrors.ErrEmptyDataset,
		},
		{
			name:           "validation failure maps to unprocessable entity",
			pipelineErr:    &validating.ValidationError{Check: "top_products", Reason: "out of order"},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   apiErrors.ErrReportValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := mocks.NewMockReportService(ctrl)
			service.EXPECT().Generate(gomock.Any()).Return(validating.Validated{}, tt.pipelineErr)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/v1/report", nil)

			GetReport(service).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedCode, decodeAPIError(t, rec).Code)
		})
	}
}

func TestGetLatestReport(t *testing.T) {
	t.Run("no snapshot yet", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := mocks.NewMockReportService(ctrl)
		service.EXPECT().LatestSnapshot(gomock.Any()).Return(nil, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/report/latest", nil)

		GetLatestReport(service).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("returns the stored snapshot", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := mocks.NewMockReportService(ctrl)
		service.EXPECT().LatestSnapshot(gomock.Any()).Return(&domain.ReportSnapshot{
			ID:      "abc123",
			RunDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		}, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/report/latest", nil)

		GetLatestReport(service).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "abc123")
	})
}

func TestGetReportByDate(t *testing.T) {
	t.Run("missing date parameter", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := mocks.NewMockReportService(ctrl)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/report/snapshot", nil)

		GetReportByDate(service).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed date parameter", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := mocks.NewMockReportService(ctrl)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/report/snapshot?date=01-06-2025", nil)

		GetReportByDate(service).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apiErrors.ErrInvalidRequest, decodeAPIError(t, rec).Code)
	})

	t.Run("returns the snapshot for the date", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		runDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		service := mocks.NewMockReportService(ctrl)
		service.EXPECT().SnapshotByDate(gomock.Any(), runDate).Return(&domain.ReportSnapshot{
			ID:      "xyz789",
			RunDate: runDate,
		}, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/report/snapshot?date=2025-06-01", nil)

		GetReportByDate(service).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "xyz789")
	})
}
