package speech

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/kbukum/speakeralign/alignment"
	"github.com/kbukum/speakeralign/diarization"
	"github.com/kbukum/speakeralign/errors"
	"github.com/kbukum/speakeralign/fillers"
	"github.com/kbukum/speakeralign/logger"
	"github.com/kbukum/speakeralign/observability"
	"github.com/kbukum/speakeralign/provider"
	"github.com/kbukum/speakeralign/resilience"
	"github.com/kbukum/speakeralign/transcription"
	"github.com/kbukum/speakeralign/util"
)

const (
	opTranscribeFull = "transcribe_full"
	opDiarize        = "diarize"

	stageTranscribe = "transcribe"
	stageDiarize    = "diarize"
	stageAlign      = "align"
	stageFillers    = "fillers"
)

// Service orchestrates the pipeline. It is safe for concurrent use.
type Service struct {
	transcribers *provider.Manager[transcription.Provider]
	diarizers    *provider.Manager[diarization.Provider]
	detector     *fillers.Detector
	cfg          Config
	bulkhead     *resilience.Bulkhead
	metrics      *observability.Metrics
	log          *logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records pipeline metrics on m instead of the global meter.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger overrides the component logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService wires the pipeline. diarizers may be nil, in which case full
// transcriptions carry a single UNKNOWN speaker and Diarize fails. A nil
// detector uses the vocabulary from cfg, or the built-in one.
func NewService(
	transcribers *provider.Manager[transcription.Provider],
	diarizers *provider.Manager[diarization.Provider],
	detector *fillers.Detector,
	cfg Config,
	opts ...Option,
) *Service {
	cfg.ApplyDefaults()
	if detector == nil {
		if len(cfg.FillerWords) > 0 {
			detector = fillers.New(cfg.FillerWords)
		} else {
			detector = fillers.NewDefault()
		}
	}

	s := &Service{
		transcribers: transcribers,
		diarizers:    diarizers,
		detector:     detector,
		cfg:          cfg,
		log:          logger.Get("speech"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.metrics == nil {
		if m, err := observability.NewMetrics(observability.Meter()); err == nil {
			s.metrics = m
		} else {
			s.log.Warn("Pipeline metrics disabled", logger.ErrorFields("new_metrics", err))
		}
	}

	s.bulkhead = resilience.NewBulkhead("speech", 1,
		resilience.WithMaxWait(cfg.maxWait()),
		resilience.WithRejectHook(func(name string, err error) {
			s.log.Warn("Pipeline busy, request rejected", map[string]interface{}{
				"bulkhead":        name,
				logger.FieldError: err.Error(),
			})
		}),
	)
	return s
}

// TranscribeFull transcribes, diarizes, aligns and annotates fillers.
// Transcription failure is returned; diarization failure is not.
func (s *Service) TranscribeFull(ctx context.Context, req Request) (*Result, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribeFull)
	defer span.End()

	start := time.Now()
	result, err := resilience.ExecuteWithResult(s.bulkhead, ctx, func() (*Result, error) {
		return s.transcribeFull(ctx, req)
	})
	if err != nil {
		err = toAppError(opTranscribeFull, err)
		observability.SetSpanError(ctx, err)
		s.recordRun(ctx, opTranscribeFull, err, time.Since(start))
		return nil, err
	}

	observability.SetSpanAttributes(ctx,
		observability.AttrSegments.Int(len(result.Segments)),
		observability.AttrSpeakers.Int(result.NumSpeakers),
	)
	s.recordRun(ctx, opTranscribeFull, nil, time.Since(start))
	s.log.WithContext(ctx).Info("Transcription completed", map[string]interface{}{
		logger.FieldAudioPath: req.AudioPath,
		logger.FieldLanguage:  result.Language,
		logger.FieldSegments:  len(result.Segments),
		logger.FieldSpeakers:  result.NumSpeakers,
		logger.FieldDuration:  time.Since(start).Milliseconds(),
	})
	return result, nil
}

func (s *Service) transcribeFull(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	transcript, err := s.transcribe(ctx, req)
	if err != nil {
		return nil, err
	}

	var turns []alignment.SpeakerTurn
	if !s.diarizationEnabled() {
		s.log.WithContext(ctx).Debug("Diarization disabled, skipping speaker attribution", map[string]interface{}{
			logger.FieldAudioPath: req.AudioPath,
		})
	} else if diarized, err := s.diarize(ctx, req.AudioPath, req.NumSpeakers); err != nil {
		s.log.WithContext(ctx).Warn("Diarization failed, continuing without speakers", map[string]interface{}{
			logger.FieldAudioPath: req.AudioPath,
			logger.FieldError:     err.Error(),
		})
	} else {
		turns = diarization.Turns(diarized.Segments)
	}

	aligned := s.Align(ctx, transcript.AlignmentWords(), turns)
	segments := s.annotate(ctx, aligned, req.DetectFillers)

	return &Result{
		Language:              transcript.Language,
		FullText:              transcript.Text,
		Segments:              segments,
		NumSpeakers:           countSpeakers(segments),
		ProcessingTimeSeconds: alignment.Round(time.Since(start).Seconds(), 2),
	}, nil
}

// Diarize runs diarization alone. Unlike TranscribeFull, failures are
// returned to the caller.
func (s *Service) Diarize(ctx context.Context, audioPath string, numSpeakers int) (*diarization.DiarizationResponse, error) {
	start := time.Now()
	resp, err := resilience.ExecuteWithResult(s.bulkhead, ctx, func() (*diarization.DiarizationResponse, error) {
		return s.diarize(ctx, audioPath, numSpeakers)
	})
	if err != nil {
		err = toAppError(opDiarize, err)
		s.recordRun(ctx, opDiarize, err, time.Since(start))
		return nil, err
	}

	resp.NumSpeakers = diarization.CountSpeakers(resp.Segments)
	s.recordRun(ctx, opDiarize, nil, time.Since(start))
	return resp, nil
}

// ProcessText splits text into sentences and runs filler processing on
// each non-blank one.
func (s *Service) ProcessText(req TextRequest) TextResult {
	out := TextResult{Segments: []fillers.Result{}}
	for _, sentence := range fillers.SplitSentences(req.Text) {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		r := s.detector.Process(sentence, req.DetectFillers, req.RemoveFillers)
		out.TotalFillers += len(r.FillersFound)
		out.Segments = append(out.Segments, r)
	}
	return out
}

// Align attributes words to speakers. It never fails and does not take the
// pipeline slot.
func (s *Service) Align(ctx context.Context, words []alignment.Word, turns []alignment.SpeakerTurn) []alignment.Segment {
	ctx, span := observability.StartSpan(ctx, observability.SpanAlign)
	defer span.End()

	start := time.Now()
	segments := alignment.Align(words, turns)
	s.recordStage(ctx, stageAlign, start)

	observability.SetSpanAttributes(ctx,
		observability.AttrWords.Int(len(words)),
		observability.AttrTurns.Int(len(turns)),
		observability.AttrSegments.Int(len(segments)),
	)
	if s.metrics != nil {
		s.metrics.RecordSegments(ctx, len(segments))
	}
	return segments
}

func (s *Service) transcribe(ctx context.Context, req Request) (*transcription.TranscriptionResponse, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribe)
	defer span.End()
	start := time.Now()

	p, err := s.transcribers.Get(ctx)
	if err != nil {
		return nil, s.stageError(ctx, stageTranscribe, errors.ServiceUnavailable("transcription service").WithCause(err))
	}
	observability.SetSpanAttributes(ctx, observability.AttrProvider.String(p.Name()))

	tr := transcription.TranscriptionRequest{
		AudioPath:      req.AudioPath,
		Language:       util.Coalesce(req.Language, s.cfg.DefaultLanguage),
		WordTimestamps: true,
	}

	resp, err := resilience.Retry(ctx, s.retryPolicy(stageTranscribe, p.Name()), func() (*transcription.TranscriptionResponse, error) {
		return p.Transcribe(ctx, tr)
	})
	s.recordStage(ctx, stageTranscribe, start)
	if err != nil {
		return nil, s.stageError(ctx, stageTranscribe, err)
	}

	observability.SetSpanAttributes(ctx,
		observability.AttrLanguage.String(resp.Language),
		observability.AttrWords.Int(len(resp.Words)),
	)
	s.log.WithContext(ctx).Debug("Transcription stage done", map[string]interface{}{
		logger.FieldProvider: p.Name(),
		logger.FieldLanguage: resp.Language,
		logger.FieldWords:    len(resp.Words),
	})
	return resp, nil
}

// diarizationEnabled reports whether any diarization backend is configured.
func (s *Service) diarizationEnabled() bool {
	return s.diarizers != nil && len(s.diarizers.Available()) > 0
}

func (s *Service) diarize(ctx context.Context, audioPath string, numSpeakers int) (*diarization.DiarizationResponse, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanDiarize)
	defer span.End()
	start := time.Now()

	if s.diarizers == nil {
		return nil, s.stageError(ctx, stageDiarize, errors.ServiceUnavailable("diarization service").WithDetail("reason", "disabled"))
	}
	p, err := s.diarizers.Get(ctx)
	if err != nil {
		return nil, s.stageError(ctx, stageDiarize, errors.ServiceUnavailable("diarization service").WithCause(err))
	}
	observability.SetSpanAttributes(ctx, observability.AttrProvider.String(p.Name()))

	dr := diarization.DiarizationRequest{AudioPath: audioPath, NumSpeakers: numSpeakers}
	resp, err := resilience.Retry(ctx, s.retryPolicy(stageDiarize, p.Name()), func() (*diarization.DiarizationResponse, error) {
		return p.Diarize(ctx, dr)
	})
	s.recordStage(ctx, stageDiarize, start)
	if err != nil {
		return nil, s.stageError(ctx, stageDiarize, err)
	}

	observability.SetSpanAttributes(ctx, observability.AttrTurns.Int(len(resp.Segments)))
	s.log.WithContext(ctx).Debug("Diarization stage done", map[string]interface{}{
		logger.FieldProvider: p.Name(),
		logger.FieldTurns:    len(resp.Segments),
	})
	return resp, nil
}

// annotate attaches filler detection to each aligned segment.
func (s *Service) annotate(ctx context.Context, aligned []alignment.Segment, detect bool) []Segment {
	_, span := observability.StartSpan(ctx, observability.SpanFillers)
	defer span.End()
	start := time.Now()

	segments := make([]Segment, len(aligned))
	for i, seg := range aligned {
		segments[i] = Segment{Segment: seg, FillersFound: []string{}}
		if !detect {
			continue
		}
		r := s.detector.Process(seg.Text, true, false)
		segments[i].HasFillers = r.HasFillers
		segments[i].FillersFound = r.FillersFound
	}

	s.recordStage(ctx, stageFillers, start)
	return segments
}

func (s *Service) retryPolicy(stage, providerName string) resilience.Policy {
	p := resilience.DefaultPolicy()
	p.Attempts = s.cfg.RetryAttempts
	p.Backoff.Initial = s.cfg.RetryBackoff
	p.Retryable = errors.IsRetryable
	p.OnRetry = func(attempt int, err error, backoff time.Duration) {
		s.log.Warn("Provider call failed, retrying", map[string]interface{}{
			"stage":              stage,
			"attempt":            attempt,
			"backoff_ms":         backoff.Milliseconds(),
			logger.FieldProvider: providerName,
			logger.FieldError:    err.Error(),
		})
	}
	return p
}

// toAppError maps bulkhead and context failures to AppErrors. Provider
// errors are already AppErrors and pass through.
func toAppError(op string, err error) *errors.AppError {
	switch {
	case errors.IsAppError(err):
		return errors.Wrap(err)
	case resilience.IsRejection(err):
		return errors.ServiceUnavailable("speech pipeline").WithCause(err).WithDetail("operation", op)
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(err, context.Canceled):
		return errors.Timeout(op).WithCause(err)
	default:
		return errors.Internal(err)
	}
}

func (s *Service) stageError(ctx context.Context, stage string, err error) error {
	appErr := toAppError(stage, err)
	observability.SetSpanError(ctx, appErr)
	observability.SetSpanAttributes(ctx, observability.AttrErrorCode.String(string(appErr.Code)))
	if s.metrics != nil {
		s.metrics.RecordError(ctx, stage, string(appErr.Code))
	}
	return appErr
}

func (s *Service) recordStage(ctx context.Context, stage string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordStage(ctx, stage, time.Since(start))
	}
}

func (s *Service) recordRun(ctx context.Context, op string, err error, d time.Duration) {
	if s.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
		if appErr, ok := errors.AsAppError(err); ok {
			status = string(appErr.Code)
		}
	}
	s.metrics.RecordRun(ctx, op, status, d)
}

func countSpeakers(segments []Segment) int {
	seen := make(map[string]struct{}, len(segments))
	for _, seg := range segments {
		seen[seg.Speaker] = struct{}{}
	}
	return len(seen)
}
