package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	config "food-demand-chat-api/configs"
	"food-demand-chat-api/pkg/models"
	"food-demand-chat-api/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedPredictor struct{}

func (fixedPredictor) Predict(_ context.Context, day, _, dish string) (*models.PredictionResult, error) {
	return &models.PredictionResult{Dish: dish, Day: day, Mean: 42, Low: 30, High: 56}, nil
}

func newTestRouter(apiKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(Dependencies{
		Config: &config.Config{
			Environment:           "test",
			APIKey:                apiKey,
			AdminUsername:         "admin",
			AdminPassword:         "secret",
			SageMakerEndpointName: "food-demand",
			PredictTimeout:        time.Second,
		},
		Predictor:  fixedPredictor{},
		Sessions:   services.NewSessionStore(0),
		Monitoring: services.NewMonitoringService(),
	})
}

func request(r *gin.Engine, method, path, apiKey string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-KEY", apiKey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter("")

	w := request(r, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestSessionsAreIsolated(t *testing.T) {
	r := newTestRouter("")

	var a, b models.SessionResponse
	w := request(r, http.MethodPost, "/api/v1/sessions", "", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
	w = request(r, http.MethodPost, "/api/v1/sessions", "", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))

	w = request(r, http.MethodPost, "/api/v1/sessions/"+a.SessionID+"/predict", "",
		models.PredictRequest{Day: "monday", Weather: "sunny", Dish: "pizza"})
	require.Equal(t, http.StatusOK, w.Code)

	w = request(r, http.MethodPost, "/api/v1/sessions/"+a.SessionID+"/ask", "", models.AskRequest{Question: "low and range please"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "The low estimate (P10) for pizza on monday is 30.")

	// 別セッションには予測がない
	w = request(r, http.MethodPost, "/api/v1/sessions/"+b.SessionID+"/ask", "", models.AskRequest{Question: "mean"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAPIKeyRequired(t *testing.T) {
	r := newTestRouter("top-secret")

	w := request(r, http.MethodGet, "/api/v1/categories", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(r, http.MethodGet, "/api/v1/categories", "top-secret", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// /healthは認証不要
	w = request(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMaintenanceBlocksForecastRoutes(t *testing.T) {
	r := newTestRouter("")
	creds := map[string]string{"username": "admin", "password": "secret"}

	w := request(r, http.MethodPost, "/api/v1/admin/maintenance/start", "", creds)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(r, http.MethodGet, "/api/v1/categories", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = request(r, http.MethodGet, "/api/v1/admin/health-status", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isMaintenanceMode":true`)
}

func TestMonitoringCountsForecastRequests(t *testing.T) {
	r := newTestRouter("")
	request(r, http.MethodGet, "/api/v1/categories", "", nil)

	w := request(r, http.MethodGet, "/api/v1/monitoring/logs?period=1h", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var data services.DashboardData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.Equal(t, 1, data.Endpoints["/api/v1/categories"])
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(context.Background(), &config.Config{SageMakerEndpointName: "", PredictTimeout: time.Second})
	assert.Error(t, err)
}
