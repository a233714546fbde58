package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"provenance-api/internal/articles"
	"provenance-api/internal/cache"
	"provenance-api/internal/metrics"
	"provenance-api/internal/models"
	"provenance-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	gw := articles.NewGateway(db)
	require.NoError(t, gw.Seed(context.Background(), articles.DefaultSeed))

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	lister := articles.NewCachedLister(gw, cache.NewSynchronized[string, []models.ArticleInfo](), time.Minute, m, nil)
	return SetupRoutes(Dependencies{
		Articles: lister,
		Metrics:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestArticlesMountedTwice(t *testing.T) {
	r := newTestRouter(t)
	for _, path := range []string{"/articles", "/available", "/api/articles", "/api/available"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)
		require.Contains(t, w.Body.String(), "10101", path)
	}
}

func TestMetricsExposeCacheCounters(t *testing.T) {
	r := newTestRouter(t)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/articles", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "provenance_article_cache_hits_total 1")
	require.Contains(t, w.Body.String(), "provenance_article_cache_misses_total 1")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/endpoints", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/articles", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
