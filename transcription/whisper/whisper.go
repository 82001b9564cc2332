// Package whisper implements transcription.Provider against a
// faster-whisper HTTP sidecar.
//
// The sidecar accepts POST /transcribe (multipart "audio" plus model,
// language, word_timestamps and beam_size fields) and answers with the
// faster-whisper segment list. GET /health reports readiness.
package whisper

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/speakeralign/alignment"
	"github.com/kbukum/speakeralign/httpclient"
	"github.com/kbukum/speakeralign/provider"
	"github.com/kbukum/speakeralign/transcription"
	"github.com/kbukum/speakeralign/util"
)

const (
	// ProviderName is the registered name for the Whisper provider.
	ProviderName = "whisper"

	defaultURL      = "http://localhost:8387"
	defaultModel    = "large-v3"
	defaultBeamSize = 5
	defaultTimeout  = 15 * time.Minute
)

// Config holds configuration for the Whisper transcription provider.
type Config struct {
	URL      string        `yaml:"url" mapstructure:"url"`
	Model    string        `yaml:"model" mapstructure:"model"`
	Language string        `yaml:"language" mapstructure:"language"`
	BeamSize int           `yaml:"beam_size" mapstructure:"beam_size"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults fills in unset fields.
func (c *Config) ApplyDefaults() {
	if c.URL == "" {
		c.URL = defaultURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.BeamSize <= 0 {
		c.BeamSize = defaultBeamSize
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Provider implements transcription.Provider using a faster-whisper sidecar.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates a new Whisper transcription provider.
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

// IsAvailable checks if the Whisper sidecar answers its health probe.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return p.client.Ping(ctx, "/health") == nil
}

// Health reports degraded when the sidecar is up but its model is not
// loaded yet.
func (p *Provider) Health(ctx context.Context) provider.HealthStatus {
	var h healthResponse
	if err := p.client.GetJSON(ctx, "/health", &h); err != nil {
		return provider.HealthStatus{Status: provider.StatusUnavailable, Message: err.Error()}
	}
	if h.ModelLoaded != nil && !*h.ModelLoaded {
		return provider.HealthStatus{Status: provider.StatusDegraded, Message: "model not loaded", Details: map[string]any{"model": p.cfg.Model}}
	}
	return provider.HealthStatus{Status: provider.StatusHealthy, Details: map[string]any{"model": p.cfg.Model}}
}

// Transcribe uploads the audio file and returns word-timestamped text.
func (p *Provider) Transcribe(ctx context.Context, req transcription.TranscriptionRequest) (*transcription.TranscriptionResponse, error) {
	fields := map[string]string{
		"model":           util.Coalesce(req.Model, p.cfg.Model),
		"word_timestamps": strconv.FormatBool(req.WordTimestamps),
		"beam_size":       strconv.Itoa(p.cfg.BeamSize),
	}
	if lang := util.Coalesce(req.Language, p.cfg.Language); lang != "" {
		fields["language"] = lang
	}

	var result whisperResponse
	err := p.client.PostMultipart(ctx, "/transcribe", &httpclient.MultipartBody{
		Fields: fields,
		Files:  []httpclient.FileField{{FieldName: "audio", Path: req.AudioPath}},
	}, &result)
	if err != nil {
		return nil, err
	}
	return toTranscriptionResponse(&result), nil
}

// --- sidecar wire types ---

type healthResponse struct {
	Status      string `json:"status"`
	ModelLoaded *bool  `json:"model_loaded,omitempty"`
}

type whisperResponse struct {
	Language            string           `json:"language"`
	LanguageProbability float64          `json:"language_probability"`
	Duration            float64          `json:"duration"`
	Segments            []whisperSegment `json:"segments"`
}

type whisperSegment struct {
	Text  string        `json:"text"`
	Start float64       `json:"start"`
	End   float64       `json:"end"`
	Words []whisperWord `json:"words"`
}

type whisperWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// toTranscriptionResponse trims texts and words and rounds word
// timestamps to milliseconds. Words left blank by trimming are kept.
func toTranscriptionResponse(resp *whisperResponse) *transcription.TranscriptionResponse {
	out := &transcription.TranscriptionResponse{
		Language:            resp.Language,
		LanguageProbability: alignment.Round(resp.LanguageProbability, 3),
		Duration:            resp.Duration,
		Segments:            make([]transcription.Segment, 0, len(resp.Segments)),
		Words:               []transcription.Word{},
	}

	parts := make([]string, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text != "" {
			parts = append(parts, text)
		}
		out.Segments = append(out.Segments, transcription.Segment{Start: seg.Start, End: seg.End, Text: text})

		for _, w := range seg.Words {
			out.Words = append(out.Words, transcription.Word{
				Word:  strings.TrimSpace(w.Word),
				Start: alignment.Round(w.Start, 3),
				End:   alignment.Round(w.End, 3),
			})
		}
	}
	out.Text = strings.Join(parts, " ")

	if out.Duration == 0 && len(resp.Segments) > 0 {
		out.Duration = resp.Segments[len(resp.Segments)-1].End
	}
	return out
}
