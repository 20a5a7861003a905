package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/cache"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/pipeline"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/plant"
)

var (
	site = orb.Polygon{{{5.1000, 52.0900}, {5.1030, 52.0900}, {5.1030, 52.0920}, {5.1000, 52.0920}, {5.1000, 52.0900}}}
	hall = orb.Polygon{{{5.1005, 52.0905}, {5.1008, 52.0905}, {5.1008, 52.0907}, {5.1005, 52.0907}, {5.1005, 52.0905}}}
)

func newTestServer() *Server {
	logger := log.New(io.Discard)
	return New(Config{Version: "test"}, pipeline.NewRunner(nil, logger), logger)
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if _, raw := body.(string); !raw && body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestCatalog(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/api/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cat []plant.ProcessType
	decode(t, rec, &cat)
	assert.Len(t, cat, len(plant.DefaultCatalog()))
}

func TestGenerate(t *testing.T) {
	s := newTestServer()
	rec := do(t, s, http.MethodPost, "/api/generate", map[string]any{
		"site":   geojson.NewGeometry(site),
		"types":  []string{"receiving"},
		"config": map[string]any{"placement_margin": 10, "seed": 1, "max_blocks": 3},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Layout *geojson.FeatureCollection `json:"layout"`
		Stats  struct {
			Accepted int `json:"accepted"`
		} `json:"stats"`
		Cached bool `json:"cached"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Layout.Features)
	assert.Equal(t, "site", resp.Layout.Features[0].Properties["role"])
	assert.Equal(t, 3, resp.Stats.Accepted)
	assert.Len(t, resp.Layout.Features, 4)
	for _, f := range resp.Layout.Features[1:] {
		assert.Equal(t, "receiving", f.Properties["type"])
		assert.NotEmpty(t, f.Properties["id"])
	}
	assert.False(t, resp.Cached)
}

func TestGenerateCachedSecondTime(t *testing.T) {
	logger := log.New(io.Discard)
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	s := New(Config{}, pipeline.NewRunner(c, logger), logger)

	body := map[string]any{"site": geojson.NewGeometry(site), "types": []string{"cold_store"}}
	first := do(t, s, http.MethodPost, "/api/generate", body)
	second := do(t, s, http.MethodPost, "/api/generate", body)
	require.Equal(t, http.StatusOK, second.Code)

	var a, b map[string]any
	decode(t, first, &a)
	decode(t, second, &b)
	assert.Equal(t, false, a["cached"])
	assert.Equal(t, true, b["cached"])
	assert.Equal(t, a["layout"], b["layout"])
}

func TestGenerateErrors(t *testing.T) {
	s := newTestServer()
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"missing site", map[string]any{}, http.StatusBadRequest, "INVALID_INPUT"},
		{"point site", map[string]any{"site": geojson.NewGeometry(orb.Point{1, 2})}, http.StatusBadRequest, "INVALID_GEOMETRY"},
		{"unknown type", map[string]any{"site": geojson.NewGeometry(site), "types": []string{"brewery"}}, http.StatusBadRequest, "INVALID_INPUT"},
		{"malformed json", "{", http.StatusBadRequest, "BAD_REQUEST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec *httptest.ResponseRecorder
			if raw, ok := tt.body.(string); ok {
				req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(raw))
				req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
				rec = httptest.NewRecorder()
				s.Echo().ServeHTTP(rec, req)
			} else {
				rec = do(t, s, http.MethodPost, "/api/generate", tt.body)
			}
			assert.Equal(t, tt.wantStatus, rec.Code)
			var apiErr APIError
			decode(t, rec, &apiErr)
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}
}

func TestValidate(t *testing.T) {
	blocks := plant.BlockCollection([]plant.Block{
		{Type: "processing", Polygon: hall},
		{Type: "packaging", Polygon: hall},
	})
	rec := do(t, newTestServer(), http.MethodPost, "/api/validate", map[string]any{
		"site":       geojson.NewGeometry(site),
		"blocks":     blocks,
		"thresholds": map[string]any{"min_aisle": 5},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Counts map[string]int `json:"counts"`
		Report struct {
			Valid bool `json:"valid"`
		} `json:"report"`
		Issues *geojson.FeatureCollection `json:"issues"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, 1, resp.Counts["clash"])
	assert.Equal(t, 1, resp.Counts["aisle"])
	assert.False(t, resp.Report.Valid)
	assert.Len(t, resp.Issues.Features, 2)
}

func TestHeat(t *testing.T) {
	s := newTestServer()
	rec := do(t, s, http.MethodPost, "/api/heat", map[string]any{
		"site":       geojson.NewGeometry(site),
		"sources":    []orb.Point{{5.1005, 52.0905}, {5.1025, 52.0915}},
		"cell_m":     20,
		"catchments": true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Cells      *geojson.FeatureCollection `json:"cells"`
		Min        float64                    `json:"min"`
		Max        float64                    `json:"max"`
		Catchments []map[string]any           `json:"catchments"`
	}
	decode(t, rec, &resp)
	assert.NotEmpty(t, resp.Cells.Features)
	assert.Less(t, resp.Min, resp.Max)
	assert.Len(t, resp.Catchments, 2)

	rec = do(t, s, http.MethodPost, "/api/heat", map[string]any{"site": geojson.NewGeometry(site), "cell_m": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScene(t *testing.T) {
	s := newTestServer()
	rec := do(t, s, http.MethodPost, "/api/scene", map[string]any{
		"name":    "demo",
		"site":    geojson.NewGeometry(site),
		"types":   []string{"receiving"},
		"config":  map[string]any{"placement_margin": 10, "seed": 1, "max_blocks": 2},
		"sources": []orb.Point{{5.1005, 52.0905}},
		"cell_m":  25,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Scene struct {
			Metadata struct {
				Project    string  `json:"project"`
				BlockCount int     `json:"block_count"`
				SiteAreaM2 float64 `json:"site_area_m2"`
			} `json:"metadata"`
			Blocks []struct {
				Type  string `json:"type"`
				Label string `json:"label"`
			} `json:"blocks"`
			Heat *struct {
				Cells []map[string]any `json:"cells"`
			} `json:"heat"`
		} `json:"scene"`
		Cache map[string]bool `json:"cache"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "demo", resp.Scene.Metadata.Project)
	assert.Equal(t, 2, resp.Scene.Metadata.BlockCount)
	assert.Greater(t, resp.Scene.Metadata.SiteAreaM2, 0.0)
	require.Len(t, resp.Scene.Blocks, 2)
	assert.Equal(t, "Receiving & Intake", resp.Scene.Blocks[0].Label)
	require.NotNil(t, resp.Scene.Heat)
	assert.NotEmpty(t, resp.Scene.Heat.Cells)
	assert.Contains(t, resp.Cache, pipeline.StageLayout)

	rec = do(t, s, http.MethodPost, "/api/scene", map[string]any{"site": geojson.NewGeometry(site), "types": []string{"nope"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSnap(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(hall))
	rec := do(t, newTestServer(), http.MethodPost, "/api/snap", map[string]any{
		"features": fc,
		"options":  map[string]any{"spacing_m": 5, "origin": []float64{5.1, 52.09}, "orthogonal": true},
		"close":    true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out, err := geojson.UnmarshalFeatureCollection(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, out.Features, 1)
	ring := out.Features[0].Geometry.(orb.Polygon)[0]
	assert.Equal(t, ring[0], ring[len(ring)-1])
}

func TestImport(t *testing.T) {
	s := newTestServer()
	wkt := "POLYGON((5.1 52.09,5.103 52.09,5.103 52.092,5.1 52.092,5.1 52.09))\nPOINT(5.101 52.091)"
	rec := do(t, s, http.MethodPost, "/api/import", wkt)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Format  string                     `json:"format"`
		Layout  *geojson.FeatureCollection `json:"layout"`
		Sources []orb.Point                `json:"sources"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "wkt", resp.Format)
	require.Len(t, resp.Layout.Features, 1)
	assert.Equal(t, "site", resp.Layout.Features[0].Properties["role"])
	assert.Equal(t, []orb.Point{{5.101, 52.091}}, resp.Sources)

	rec = do(t, s, http.MethodPost, "/api/import", "this is not geometry")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var apiErr APIError
	decode(t, rec, &apiErr)
	assert.Equal(t, "INVALID_FORMAT", apiErr.Code)

	rec = do(t, s, http.MethodPost, "/api/import?snap_m=abc", wkt)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport(t *testing.T) {
	s := newTestServer()
	body := map[string]any{
		"site":   geojson.NewGeometry(site),
		"blocks": plant.BlockCollection([]plant.Block{{Type: "wwtp", Polygon: hall}}),
	}
	first := do(t, s, http.MethodPost, "/api/export", body)
	second := do(t, s, http.MethodPost, "/api/export", body)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.Equal(t, first.Body.String(), second.Body.String())

	out, err := geojson.UnmarshalFeatureCollection(first.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, out.Features, 2)
	assert.Equal(t, "wwtp", out.Features[1].Properties["type"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer()
	do(t, s, http.MethodGet, "/health", nil)
	rec := do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "plantlayout_requests_total")
}

func TestUnknownRoute(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var apiErr APIError
	decode(t, rec, &apiErr)
	assert.Equal(t, "HTTP_ERROR", apiErr.Code)
}

func TestToAPIError(t *testing.T) {
	apiErr := toAPIError(fmt.Errorf("disk on fire"))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "INTERNAL_ERROR", apiErr.Code)
	assert.Equal(t, "disk on fire", apiErr.Details)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LAYOUT_PORT", "9191")
	t.Setenv("LAYOUT_CACHE_DIR", "/tmp/layouts")
	t.Setenv("REDIS_HOST", "")
	cfg := ConfigFromEnv("")
	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, cache.BackendFile, cfg.CacheConfig().Backend)

	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_DB", "2")
	cfg = ConfigFromEnv("")
	assert.Equal(t, "cache.internal:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, cache.BackendRedis, cfg.CacheConfig().Backend)

	t.Setenv("LAYOUT_PORT", "not-a-port")
	t.Setenv("LAYOUT_CACHE_DIR", "")
	t.Setenv("REDIS_HOST", "")
	cfg = ConfigFromEnv("")
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, cache.BackendNone, cfg.CacheConfig().Backend)
}
