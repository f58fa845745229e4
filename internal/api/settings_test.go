package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/models"
	"github.com/netpersona/popcorn/internal/schedule"
)

func setupSettingsTestRouter(repos *db.Repositories, service *schedule.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	apiGroup := router.Group("/api")
	SetupSettingsRoutes(apiGroup, repos, service)
	return router
}

func TestSettings(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()

	service, _ := setupEngine(t, repos)
	router := setupSettingsTestRouter(repos, service)

	t.Run("defaults to weekly before any reshuffle", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp SettingsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, models.FrequencyWeekly, resp.Frequency)
		assert.Nil(t, resp.LastReshuffledAt)
	})

	t.Run("frequency can be changed", func(t *testing.T) {
		body, _ := json.Marshal(UpdateSettingsRequest{Frequency: models.FrequencyDaily})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp SettingsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, models.FrequencyDaily, resp.Frequency)
	})

	t.Run("unknown frequency is rejected", func(t *testing.T) {
		body, _ := json.Marshal(UpdateSettingsRequest{Frequency: "hourly"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("forced reshuffle records the trigger time", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/schedules/reshuffle", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/api/settings", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var resp SettingsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotNil(t, resp.LastReshuffledAt)
	})
}

func TestSettingsEnsureDefault(t *testing.T) {
	t.Run("first start seeds the configured frequency", func(t *testing.T) {
		_, repos, cleanup := setupTestDB(t)
		defer cleanup()

		settings, err := repos.Settings.EnsureDefault(context.Background(), models.FrequencyDaily)
		require.NoError(t, err)
		assert.Equal(t, models.FrequencyDaily, settings.Frequency)

		// An existing row wins over the configured default on restart
		settings, err = repos.Settings.EnsureDefault(context.Background(), models.FrequencyMonthly)
		require.NoError(t, err)
		assert.Equal(t, models.FrequencyDaily, settings.Frequency)
	})

	t.Run("unknown values fall back to weekly", func(t *testing.T) {
		_, repos, cleanup := setupTestDB(t)
		defer cleanup()

		settings, err := repos.Settings.EnsureDefault(context.Background(), "hourly")
		require.NoError(t, err)
		assert.Equal(t, models.FrequencyWeekly, settings.Frequency)
	})
}
