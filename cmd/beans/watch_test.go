package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mercator-hq/beans/pkg/beans/manager"
	"mercator-hq/beans/pkg/config"
	"mercator-hq/beans/pkg/telemetry/health"
)

func newTestApp(t *testing.T, sources ...string) *app {
	t.Helper()
	cfg := config.NewDefault()
	cfg.Beans.Sources = sources
	cfg.Telemetry.Logging.Level = "error"

	a, err := newApp(cfg, io.Discard)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	a := newTestApp(t, "testdata/app.xml")
	h := a.routes()

	if rec := get(t, h, "/ready"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /ready before load = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if rec := get(t, h, "/health"); rec.Code != http.StatusOK {
		t.Errorf("GET /health = %d, want %d", rec.Code, http.StatusOK)
	}

	if err := a.manager.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	rec := get(t, h, "/ready")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /ready after load = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var report health.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("GET /ready body is not JSON: %v", err)
	}
	for _, name := range []string{"registry", "journal"} {
		if report.Checks[name].Status != health.StatusOK {
			t.Errorf("check %q = %+v, want ok", name, report.Checks[name])
		}
	}

	rec = get(t, h, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	for _, metric := range []string{
		`beans_loader_loads_total{status="success",trigger="initial"} 1`,
		"beans_loader_definitions 2",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("GET /metrics missing %q", metric)
		}
	}

	rec = get(t, h, "/version")
	var info health.VersionInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("GET /version body is not JSON: %v", err)
	}
	if info.Version != Version {
		t.Errorf("GET /version = %q, want %q", info.Version, Version)
	}
}

func TestRegistryCheck(t *testing.T) {
	a := newTestApp(t, "testdata/duplicate.xml")

	if err := a.registryCheck(context.Background()); !errors.Is(err, manager.ErrNotLoaded) {
		t.Errorf("registryCheck() before load = %v, want ErrNotLoaded", err)
	}

	if err := a.manager.Load(context.Background()); err == nil {
		t.Fatal("Load() with duplicate ids should return error")
	}
	err := a.registryCheck(context.Background())
	if !errors.Is(err, manager.ErrNotLoaded) || !strings.Contains(err.Error(), "clock") {
		t.Errorf("registryCheck() after failed load = %v, want ErrNotLoaded naming the cause", err)
	}
}
