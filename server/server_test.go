package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speakeralign/component"
	apperrors "github.com/kbukum/speakeralign/errors"
	"github.com/kbukum/speakeralign/logger"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := Config{Host: "127.0.0.1", Port: 0}
	cfg.ApplyDefaults()
	cfg.Port = 0
	return New(cfg, logger.NewWithWriter(io.Discard, "test"))
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Port != 8001 {
		t.Errorf("port = %d, want 8001", cfg.Port)
	}
	if cfg.MaxBodySize != "100MB" {
		t.Errorf("max body = %q", cfg.MaxBodySize)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range port")
	}
}

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		components []component.Health
		wantCode   int
		wantStatus string
	}{
		{"no components", nil, http.StatusOK, "ok"},
		{"all healthy", []component.Health{{Name: "whisper", Status: component.StatusHealthy}}, http.StatusOK, "ok"},
		{"degraded", []component.Health{
			{Name: "whisper", Status: component.StatusHealthy},
			{Name: "pyannote", Status: component.StatusDegraded},
		}, http.StatusOK, "degraded"},
		{"unhealthy", []component.Health{{Name: "whisper", Status: component.StatusUnhealthy}}, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.RegisterDefaultEndpoints("speakeralign", func(context.Context) []component.Health {
				return tt.components
			})

			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/health", http.NoBody))

			if rr.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", rr.Code, tt.wantCode)
			}
			var body struct {
				Status     string             `json:"status"`
				Components []component.Health `json:"components"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", body.Status, tt.wantStatus)
			}
			if len(body.Components) != len(tt.components) {
				t.Errorf("components = %d, want %d", len(body.Components), len(tt.components))
			}
		})
	}
}

func TestVersionEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.RegisterDefaultEndpoints("speakeralign", nil)

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/version", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("code = %d", rr.Code)
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Error("middleware stack not applied")
	}
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody apperrors.ErrorCode
	}{
		{"app error", apperrors.UnsupportedFormat(".txt", []string{".wav"}), http.StatusUnsupportedMediaType, apperrors.ErrCodeUnsupportedFormat},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError, apperrors.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.Engine().GET("/fail", func(c *gin.Context) { RespondWithError(c, tt.err) })

			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/fail", http.NoBody))
			if rr.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", rr.Code, tt.wantCode)
			}
			var body apperrors.ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error.Code != tt.wantBody {
				t.Errorf("error code = %q, want %q", body.Error.Code, tt.wantBody)
			}
			if id := rr.Header().Get("X-Request-Id"); id == "" || body.Error.RequestID != id {
				t.Errorf("request_id = %q, header %q", body.Error.RequestID, id)
			}
		})
	}
}

func TestStartStop(t *testing.T) {
	s := newTestServer(t)
	s.RegisterDefaultEndpoints("speakeralign", nil)

	if h := s.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("before start: %s", h.Status)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if h := s.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("after start: %s", h.Status)
	}

	resp, err := http.Get("http://" + s.Addr() + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("code = %d", resp.StatusCode)
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if h := s.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("after stop: %s", h.Status)
	}
}

func TestStartPortInUse(t *testing.T) {
	first := newTestServer(t)
	if err := first.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer first.Stop(context.Background())

	_, port, _ := net.SplitHostPort(first.Addr())
	cfg := Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	cfg.Port, _ = strconv.Atoi(port)
	second := New(cfg, logger.NewWithWriter(io.Discard, "test"))
	if err := second.Start(context.Background()); err == nil {
		second.Stop(context.Background())
		t.Fatal("expected bind error")
	}
}
