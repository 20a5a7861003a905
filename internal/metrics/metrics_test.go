package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/validation"
)

func TestHooksCount(t *testing.T) {
	h := Hooks{}

	before := testutil.ToFloat64(IssuesTotal.WithLabelValues("clash"))
	h.OnValidate(map[validation.Kind]int{validation.KindClash: 2, validation.KindAisle: 1})
	if got := testutil.ToFloat64(IssuesTotal.WithLabelValues("clash")) - before; got != 2 {
		t.Errorf("clash issues increased by %v, want 2", got)
	}

	hits := testutil.ToFloat64(CacheHitsTotal.WithLabelValues("layout"))
	misses := testutil.ToFloat64(CacheMissesTotal.WithLabelValues("layout"))
	h.OnCache("layout", true)
	h.OnCache("layout", false)
	h.OnCache("layout", false)
	if got := testutil.ToFloat64(CacheHitsTotal.WithLabelValues("layout")) - hits; got != 1 {
		t.Errorf("hits increased by %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheMissesTotal.WithLabelValues("layout")) - misses; got != 2 {
		t.Errorf("misses increased by %v, want 2", got)
	}

	h.OnGenerate(3*time.Millisecond, 12)
	h.OnHeat(time.Millisecond, 40)
}

func TestHandlerServesCollectors(t *testing.T) {
	Hooks{}.OnCache("heat", true)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "plantlayout_cache_hits_total") {
		t.Error("metrics output lacks plantlayout_cache_hits_total")
	}
}
