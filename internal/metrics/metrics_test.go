package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Scrape returned status %d", rec.Code)
	}
	return rec.Body.String()
}

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("smart-mock", "ok", 3, 25*time.Millisecond)
	m.ObserveRequest("smart-mock", "ok", 2, 10*time.Millisecond)
	m.ObserveRequest("ollama", "error", 0, time.Second)

	body := scrape(t, m)
	if !strings.Contains(body, `detect_requests_total{engine="smart-mock",status="ok"} 2`) {
		t.Errorf("Request counter missing or wrong:\n%s", body)
	}
	if !strings.Contains(body, `detect_requests_total{engine="ollama",status="error"} 1`) {
		t.Errorf("Error counter missing:\n%s", body)
	}
	if !strings.Contains(body, "detections_total 5") {
		t.Errorf("Detection counter missing:\n%s", body)
	}
}

func TestObserveFallback(t *testing.T) {
	m := New()
	m.ObserveFallback()

	if !strings.Contains(scrape(t, m), "backend_fallbacks_total 1") {
		t.Error("Fallback counter missing")
	}
}

func TestRegistryIsPrivate(t *testing.T) {
	body := scrape(t, New())
	if strings.Contains(body, "go_goroutines") {
		t.Error("Default Go collectors must not be registered")
	}
}

func TestSampleProcess(t *testing.T) {
	m := New()
	m.sampleProcess()

	body := scrape(t, m)
	if !strings.Contains(body, "process_memory_megabytes") {
		t.Errorf("Memory gauge missing:\n%s", body)
	}
}
