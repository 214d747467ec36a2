package dispatch

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fleetops_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

func newHandlerHarness(t *testing.T) (*gin.Engine, *Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New("development")
	registry := NewRegistry(func() *Planner {
		return newTestPlanner(idleGeocoder(), noRouter())
	}, 0, log)
	t.Cleanup(registry.Close)

	h := NewHandler(registry, log)
	engine := gin.New()
	group := engine.Group("/dispatch/planners")
	group.POST("", h.CreatePlanner)
	fields := group.Group("/:id/fields/:field")
	fields.POST("/prefill", h.Prefill)

	return engine, registry
}

func postJSON(engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestPrefillAcceptsZeroCoordinate(t *testing.T) {
	engine, registry := newHandlerHarness(t)

	planner, err := registry.Create()
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Greenwich sits on the prime meridian; lon 0 is a valid coordinate.
	w := postJSON(engine, "/dispatch/planners/"+planner.ID().String()+"/fields/origin/prefill",
		`{"name":"Royal Observatory, Greenwich, London","lat":51.4769,"lon":0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for lon=0 prefill, got %d (%s)", w.Code, w.Body.String())
	}

	resolved := planner.Resolved(FieldOrigin)
	if resolved == nil {
		t.Fatalf("expected field resolved after prefill")
	}
	if resolved.Lon != 0 || resolved.Lat != 51.4769 {
		t.Fatalf("unexpected coordinates: %+v", resolved)
	}
}

func TestPrefillRejectsMissingCoordinate(t *testing.T) {
	engine, registry := newHandlerHarness(t)

	planner, err := registry.Create()
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	w := postJSON(engine, "/dispatch/planners/"+planner.ID().String()+"/fields/origin/prefill",
		`{"name":"Nowhere","lat":51.4769}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing lon, got %d", w.Code)
	}
	if planner.Resolved(FieldOrigin) != nil {
		t.Fatalf("expected field untouched by rejected prefill")
	}
}

func TestCreatePlannerAfterRegistryClose(t *testing.T) {
	engine, registry := newHandlerHarness(t)
	registry.Close()

	w := postJSON(engine, "/dispatch/planners", `{}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 after registry close, got %d", w.Code)
	}
}
