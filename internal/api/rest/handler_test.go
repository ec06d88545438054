package rest_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-confirmator/internal/api/rest"
	"github.com/feral-file/ff-confirmator/internal/api/rest/dto"
	"github.com/feral-file/ff-confirmator/internal/domain"
	"github.com/feral-file/ff-confirmator/internal/logger"
	"github.com/feral-file/ff-confirmator/internal/mocks"
)

const (
	contractA = "0xBC4CA0EdA7647A8aB7C2061c2E118A18a936f13D"
	contractB = "0x60E4d786628Fea6478F785A6d7e704777c86a7c6"
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

type testHandlerMocks struct {
	service *mocks.MockService
	pinger  *mocks.MockPinger
	router  *gin.Engine
}

func setupTest(t *testing.T, contracts ...string) *testHandlerMocks {
	ctrl := gomock.NewController(t)
	tm := &testHandlerMocks{
		service: mocks.NewMockService(ctrl),
		pinger:  mocks.NewMockPinger(ctrl),
		router:  gin.New(),
	}

	rest.SetupRoutes(tm.router, rest.NewHandler(tm.service, tm.pinger, contracts), prometheus.NewRegistry())

	return tm
}

func (tm *testHandlerMocks) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	tm.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) rest.APIError {
	var body rest.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestListConfirmations(t *testing.T) {
	tm := setupTest(t, contractA, contractB)

	statuses := []domain.ConfirmationStatus{
		{Event: "Transfer", TransactionHash: "0xa1", Confirmations: 3, TargetConfirmation: 5},
	}
	tm.service.EXPECT().Find(gomock.Any(), contractA).Return(statuses, nil)

	// Act: the query is matched case-insensitively
	w := tm.get("/api/v1/confirmations?contract=0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var body dto.ConfirmationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, contractA, body.ContractAddress)
	assert.Equal(t, statuses, body.Confirmations)
}

func TestListConfirmations_DefaultsToSingleContract(t *testing.T) {
	tm := setupTest(t, contractA)

	tm.service.EXPECT().Find(gomock.Any(), contractA).Return([]domain.ConfirmationStatus{}, nil)

	// Act
	w := tm.get("/api/v1/confirmations")

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"contract_address":"`+contractA+`","confirmations":[]}`, w.Body.String())
}

func TestListConfirmations_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		code   rest.ErrorCode
	}{
		{
			name:   "missing contract with several tracked",
			path:   "/api/v1/confirmations",
			status: http.StatusBadRequest,
			code:   rest.ErrCodeBadRequest,
		},
		{
			name:   "malformed contract",
			path:   "/api/v1/confirmations?contract=not-an-address",
			status: http.StatusBadRequest,
			code:   rest.ErrCodeValidationFailed,
		},
		{
			name:   "untracked contract",
			path:   "/api/v1/confirmations?contract=0x0000000000000000000000000000000000000001",
			status: http.StatusNotFound,
			code:   rest.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTest(t, contractA, contractB)

			// Act
			w := tm.get(tt.path)

			// Assert
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestListConfirmations_ServiceError(t *testing.T) {
	tm := setupTest(t, contractA)

	tm.service.EXPECT().Find(gomock.Any(), contractA).Return(nil, errors.New("rpc down"))

	// Act
	w := tm.get("/api/v1/confirmations?contract=" + contractA)

	// Assert
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	apiErr := decodeError(t, w)
	assert.Equal(t, rest.ErrCodeInternalError, apiErr.Code)
	assert.NotContains(t, apiErr.Details, "rpc down")
}

func TestListContracts(t *testing.T) {
	tm := setupTest(t, contractA, contractB, strings.ToLower(contractA))

	// Act
	w := tm.get("/api/v1/contracts")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var body dto.ContractsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{contractA, contractB}, body.Contracts)
}

func TestListContracts_KeepsConfiguredOrder(t *testing.T) {
	tm := setupTest(t, contractB, contractA)

	// Act
	w := tm.get("/api/v1/contracts")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var body dto.ContractsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{contractB, contractA}, body.Contracts)
}

func TestHealthCheck(t *testing.T) {
	tm := setupTest(t, contractA)

	tm.pinger.EXPECT().Ping(gomock.Any()).Return(nil)

	// Act
	w := tm.get("/health")

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"ff-confirmator"}`, w.Body.String())
}

func TestHealthCheck_DatabaseDown(t *testing.T) {
	tm := setupTest(t, contractA)

	tm.pinger.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))

	// Act
	w := tm.get("/health")

	// Assert
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, rest.ErrCodeServiceUnavailable, decodeError(t, w).Code)
}

func TestMetrics(t *testing.T) {
	tm := setupTest(t, contractA)

	// Act
	w := tm.get("/metrics")

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
}
