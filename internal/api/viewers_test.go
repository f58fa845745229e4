package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netpersona/popcorn/internal/db"
)

func setupViewerTestRouter(repos *db.Repositories) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	apiGroup := router.Group("/api")
	SetupViewerRoutes(apiGroup, repos)
	return router
}

func TestViewerPreferences(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()

	router := setupViewerTestRouter(repos)

	t.Run("unknown viewers default to live offset on", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/viewers/living-room/preferences", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp ViewerPreferenceResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "living-room", resp.ViewerID)
		assert.True(t, resp.LiveOffset)
	})

	t.Run("preference updates persist", func(t *testing.T) {
		off := false
		body, _ := json.Marshal(UpdateViewerPreferenceRequest{LiveOffset: &off})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/viewers/living-room/preferences", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/api/viewers/living-room/preferences", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var resp ViewerPreferenceResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.LiveOffset)
	})

	t.Run("missing body is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/viewers/living-room/preferences", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
