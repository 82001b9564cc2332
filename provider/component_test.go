package provider

import (
	"context"
	"testing"

	"github.com/kbukum/speakeralign/component"
)

func TestComponentHealth(t *testing.T) {
	tests := []struct {
		name     string
		backends map[string]*fakeBackend
		optional bool
		want     component.HealthStatus
	}{
		{"empty required", nil, false, component.StatusUnhealthy},
		{"empty optional", nil, true, component.StatusDegraded},
		{"one healthy", map[string]*fakeBackend{"a": {name: "a"}, "b": {name: "b", available: true}}, false, component.StatusHealthy},
		{"all down required", map[string]*fakeBackend{"a": {name: "a"}}, false, component.StatusUnhealthy},
		{"all down optional", map[string]*fakeBackend{"a": {name: "a"}}, true, component.StatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newManager()
			for name, b := range tt.backends {
				m.Add(name, b)
			}
			c := NewComponent("transcription", m, tt.optional)
			if err := c.Start(context.Background()); err != nil {
				t.Fatalf("Start: %v", err)
			}
			h := c.Health(context.Background())
			if h.Status != tt.want {
				t.Errorf("status = %s, want %s (%s)", h.Status, tt.want, h.Message)
			}
			if h.Name != "transcription" {
				t.Errorf("name = %s", h.Name)
			}
		})
	}
}

func TestComponentHealthDegradedBackend(t *testing.T) {
	m := NewManager[Provider](nil)
	m.Add("pyannote", &degradedBackend{fakeBackend{name: "pyannote", available: true}})

	h := NewComponent("diarization", m, true).Health(context.Background())
	if h.Status != component.StatusDegraded {
		t.Fatalf("status = %s", h.Status)
	}
	if h.Message != "pyannote: model not loaded" {
		t.Errorf("message = %q", h.Message)
	}
}
