package routing_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/km-arc/go-entob/framework/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func quietRouter() *routing.Router {
	return routing.New(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func do(t *testing.T, router *routing.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Verbs(t *testing.T) {
	r := quietRouter()
	r.Get("/hello", okHandler)
	r.Post("/payments", okHandler)
	r.Put("/payments/{id}", okHandler)
	r.Patch("/payments/{id}", okHandler)
	r.Delete("/payments/{id}", okHandler)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/hello"},
		{http.MethodPost, "/payments"},
		{http.MethodPut, "/payments/1"},
		{http.MethodPatch, "/payments/1"},
		{http.MethodDelete, "/payments/1"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			if rr := do(t, r, tt.method, tt.path); rr.Code != http.StatusOK {
				t.Errorf("got %d want 200", rr.Code)
			}
		})
	}
}

func TestRouter_Any(t *testing.T) {
	r := quietRouter()
	r.Any("/ping", okHandler)

	for _, method := range []string{"GET", "POST", "PUT", "PATCH", "DELETE"} {
		rr := do(t, r, method, "/ping")
		if rr.Code != http.StatusOK {
			t.Errorf("ANY %s /ping: got %d want 200", method, rr.Code)
		}
	}
}

// ── 404 / 405 ────────────────────────────────────────────────────────────────

func TestRouter_NotFoundIsJSON(t *testing.T) {
	rr := do(t, quietRouter(), http.MethodGet, "/not-registered")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["message"] != "Not found." {
		t.Errorf("message: got %v", body["message"])
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	r := quietRouter()
	r.Get("/payments", okHandler)

	rr := do(t, r, http.MethodDelete, "/payments")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Method not allowed.") {
		t.Errorf("unexpected body %q", rr.Body.String())
	}
}

// ── Route params ─────────────────────────────────────────────────────────────

func TestRouter_Param(t *testing.T) {
	r := quietRouter()
	r.Get("/payments/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(routing.Param(req, "id")))
	})

	rr := do(t, r, http.MethodGet, "/payments/42")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200", rr.Code)
	}
	if rr.Body.String() != "42" {
		t.Errorf("got body %q want %q", rr.Body.String(), "42")
	}
}

// ── Prefix / Group ───────────────────────────────────────────────────────────

func TestRouter_Prefix(t *testing.T) {
	r := quietRouter()
	r.Prefix("/api/v1", func(api *routing.Router) {
		api.Get("/payments", okHandler)
	})

	if rr := do(t, r, http.MethodGet, "/api/v1/payments"); rr.Code != http.StatusOK {
		t.Errorf("GET /api/v1/payments: got %d want 200", rr.Code)
	}
	if rr := do(t, r, http.MethodGet, "/payments"); rr.Code != http.StatusNotFound {
		t.Errorf("GET /payments: expected 404, got %d", rr.Code)
	}
}

func TestRouter_Group_Middleware(t *testing.T) {
	called := false
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	}

	r := quietRouter()
	r.Group(func(g *routing.Router) {
		g.Middleware(mw)
		g.Get("/protected", okHandler)
	})

	do(t, r, http.MethodGet, "/protected")
	if !called {
		t.Error("expected middleware to be called")
	}
}

// ── Logging / recovery ───────────────────────────────────────────────────────

func TestRouter_LogsRequests(t *testing.T) {
	var buf bytes.Buffer
	r := routing.New(slog.New(slog.NewTextHandler(&buf, nil)))
	r.Get("/hello", okHandler)

	do(t, r, http.MethodGet, "/hello")

	line := buf.String()
	for _, want := range []string{"msg=request", "method=GET", "path=/hello", "status=200", "request_id="} {
		if !strings.Contains(line, want) {
			t.Errorf("log %q missing %q", line, want)
		}
	}
}

func TestRouter_RecoversPanics(t *testing.T) {
	r := quietRouter()
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	if rr := do(t, r, http.MethodGet, "/boom"); rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rr.Code)
	}
}

// ── Routes ───────────────────────────────────────────────────────────────────

func TestRouter_Routes(t *testing.T) {
	r := quietRouter()
	r.Prefix("/api/v1", func(api *routing.Router) {
		api.Post("/payments", okHandler)
		api.Get("/payments", okHandler)
	})
	r.Get("/health", okHandler)

	got, err := r.Routes()
	if err != nil {
		t.Fatalf("Routes: %v", err)
	}
	want := []string{"GET /api/v1/payments", "GET /health", "POST /api/v1/payments"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Routes: got %v want %v", got, want)
	}
}

func TestRouter_HandlerInterface(t *testing.T) {
	r := quietRouter()
	r.Get("/ping", okHandler)
	var _ http.Handler = r.Handler()
}
