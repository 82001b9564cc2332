// Package pyannote implements diarization.Provider against a
// pyannote.audio HTTP sidecar (POST /diarize, GET /health).
package pyannote

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kbukum/speakeralign/alignment"
	"github.com/kbukum/speakeralign/diarization"
	"github.com/kbukum/speakeralign/errors"
	"github.com/kbukum/speakeralign/httpclient"
	"github.com/kbukum/speakeralign/provider"
)

const (
	// ProviderName is the registered name for the Pyannote provider.
	ProviderName = "pyannote"

	defaultURL     = "http://localhost:8388"
	defaultModel   = "pyannote/speaker-diarization-3.1"
	defaultTimeout = 15 * time.Minute
)

// Config holds configuration for the Pyannote diarization provider.
type Config struct {
	URL     string        `yaml:"url" mapstructure:"url"`
	Model   string        `yaml:"model" mapstructure:"model"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults fills in unset fields.
func (c *Config) ApplyDefaults() {
	if c.URL == "" {
		c.URL = defaultURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Provider implements diarization.Provider using the Pyannote HTTP sidecar.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

var _ diarization.Provider = (*Provider)(nil)

// NewProvider creates a new Pyannote diarization provider.
func NewProvider(cfg Config) (*Provider, error) {
	cfg.ApplyDefaults()
	client, err := httpclient.New(ProviderName, httpclient.Config{BaseURL: cfg.URL, Timeout: cfg.Timeout})
	if err != nil {
		return nil, err
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the Pyannote sidecar is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return p.client.Ping(ctx, "/health") == nil
}

// Health reports degraded while the sidecar is up but its pipeline is still
// loading, which on first start can take minutes.
func (p *Provider) Health(ctx context.Context) provider.HealthStatus {
	var h healthResponse
	if err := p.client.GetJSON(ctx, "/health", &h); err != nil {
		return provider.HealthStatus{Status: provider.StatusUnavailable, Message: err.Error()}
	}
	details := map[string]any{"model": p.cfg.Model}
	if h.PipelineLoaded != nil && !*h.PipelineLoaded {
		return provider.HealthStatus{Status: provider.StatusDegraded, Message: "pipeline not loaded", Details: details}
	}
	return provider.HealthStatus{Status: provider.StatusHealthy, Details: details}
}

// Diarize uploads the audio and returns speaker turns with millisecond
// precision.
func (p *Provider) Diarize(ctx context.Context, req diarization.DiarizationRequest) (*diarization.DiarizationResponse, error) {
	fields := map[string]string{"model": p.cfg.Model}
	if req.NumSpeakers > 0 {
		fields["num_speakers"] = strconv.Itoa(req.NumSpeakers)
	}
	if req.MinSpeakers > 0 {
		fields["min_speakers"] = strconv.Itoa(req.MinSpeakers)
	}
	if req.MaxSpeakers > 0 {
		fields["max_speakers"] = strconv.Itoa(req.MaxSpeakers)
	}

	var result pyannoteResponse
	err := p.client.PostMultipart(ctx, "/diarize", &httpclient.MultipartBody{
		Fields: fields,
		Files:  []httpclient.FileField{{FieldName: "audio", Path: req.AudioPath}},
	}, &result)
	if err != nil {
		return nil, err
	}

	// The sidecar reports pipeline failures in the body of a 200.
	if result.Error != "" {
		return nil, errors.ExternalServiceError(ProviderName, fmt.Errorf("diarization failed: %s", result.Error))
	}
	return toDiarizationResponse(&result), nil
}

// --- sidecar wire types ---

type healthResponse struct {
	Status         string `json:"status"`
	PipelineLoaded *bool  `json:"pipeline_loaded,omitempty"`
}

type pyannoteResponse struct {
	Segments    []pyannoteSegment `json:"segments"`
	NumSpeakers int               `json:"num_speakers"`
	Error       string            `json:"error,omitempty"`
}

type pyannoteSegment struct {
	Speaker  string   `json:"speaker"`
	Start    float64  `json:"start"`
	End      float64  `json:"end"`
	Duration *float64 `json:"duration,omitempty"`
}

func toDiarizationResponse(resp *pyannoteResponse) *diarization.DiarizationResponse {
	segments := make([]diarization.Segment, len(resp.Segments))
	for i, seg := range resp.Segments {
		duration := seg.End - seg.Start
		if seg.Duration != nil {
			duration = *seg.Duration
		}
		segments[i] = diarization.Segment{
			Speaker:  seg.Speaker,
			Start:    alignment.Round(seg.Start, 3),
			End:      alignment.Round(seg.End, 3),
			Duration: alignment.Round(duration, 3),
		}
	}

	numSpeakers := resp.NumSpeakers
	if numSpeakers == 0 {
		numSpeakers = diarization.CountSpeakers(segments)
	}
	return &diarization.DiarizationResponse{Segments: segments, NumSpeakers: numSpeakers}
}
