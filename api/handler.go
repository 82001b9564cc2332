package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/speakeralign/errors"
	"github.com/kbukum/speakeralign/logger"
	"github.com/kbukum/speakeralign/server"
	"github.com/kbukum/speakeralign/speech"
	"github.com/kbukum/speakeralign/util"
	"github.com/kbukum/speakeralign/validation"
)

// Handler serves the pipeline endpoints.
type Handler struct {
	svc     *speech.Service
	log     *logger.Logger
	tempDir string
}

// Option configures a Handler.
type Option func(*Handler)

// WithTempDir spools uploads into dir instead of the OS temp directory.
func WithTempDir(dir string) Option {
	return func(h *Handler) { h.tempDir = dir }
}

// WithLogger overrides the component logger.
func WithLogger(l *logger.Logger) Option {
	return func(h *Handler) { h.log = l }
}

// NewHandler creates a Handler for svc.
func NewHandler(svc *speech.Service, opts ...Option) *Handler {
	h := &Handler{svc: svc, log: logger.Get("api")}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the endpoints on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/diarize", h.Diarize)
	r.POST("/transcribe-full", h.TranscribeFull)
	r.POST("/process-text", h.ProcessText)
	r.POST("/align", h.Align)
}

// Diarize handles POST /diarize.
func (h *Handler) Diarize(c *gin.Context) {
	var q diarizeQuery
	if !h.bindQuery(c, &q) {
		return
	}

	path, cleanup, err := h.spoolUpload(c, ".ogg")
	if err != nil {
		h.fail(c, "diarize", err)
		return
	}
	defer cleanup()

	resp, err := h.svc.Diarize(c.Request.Context(), path, util.Deref(q.NumSpeakers))
	if err != nil {
		h.fail(c, "diarize", err)
		return
	}
	server.RespondOK(c, resp)
}

// TranscribeFull handles POST /transcribe-full.
func (h *Handler) TranscribeFull(c *gin.Context) {
	var q transcribeQuery
	if !h.bindQuery(c, &q) {
		return
	}

	path, cleanup, err := h.spoolUpload(c, ".wav")
	if err != nil {
		h.fail(c, "transcribe_full", err)
		return
	}
	defer cleanup()

	result, err := h.svc.TranscribeFull(c.Request.Context(), speech.Request{
		AudioPath:     path,
		Language:      q.Language,
		NumSpeakers:   util.Deref(q.NumSpeakers),
		DetectFillers: util.DerefOr(q.DetectFillers, true),
	})
	if err != nil {
		h.fail(c, "transcribe_full", err)
		return
	}
	server.RespondOK(c, result)
}

// ProcessText handles POST /process-text.
func (h *Handler) ProcessText(c *gin.Context) {
	var req processTextRequest
	if !h.bindJSON(c, &req) {
		return
	}

	server.RespondOK(c, h.svc.ProcessText(speech.TextRequest{
		Text:          *req.Text,
		DetectFillers: util.DerefOr(req.DetectFillers, true),
		RemoveFillers: req.RemoveFillers,
	}))
}

// Align handles POST /align.
func (h *Handler) Align(c *gin.Context) {
	var req alignRequest
	if !h.bindJSON(c, &req) {
		return
	}
	server.RespondOK(c, alignResponse{
		Segments: h.svc.Align(c.Request.Context(), req.Words, req.SpeakerTurns),
	})
}

func (h *Handler) bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		h.fail(c, "bind_query", errors.Validation("Invalid query parameters.").WithCause(err))
		return false
	}
	if err := validation.Validate(dst); err != nil {
		h.fail(c, "validate_query", err)
		return false
	}
	return true
}

func (h *Handler) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.fail(c, "bind_json", errors.Validation("Request body must be valid JSON.").WithCause(err))
		return false
	}
	if err := validation.Validate(dst); err != nil {
		h.fail(c, "validate_body", err)
		return false
	}
	return true
}

// fail logs at error for server-side failures and at warn for client
// mistakes, then renders the envelope.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	appErr := errors.Wrap(err)
	fields := logger.ErrorFields(op, err)
	fields[logger.FieldStatus] = appErr.HTTPStatus
	fields["code"] = string(appErr.Code)

	log := h.log.WithContext(c.Request.Context())
	if appErr.HTTPStatus >= 500 {
		log.Error("Request failed", fields)
	} else {
		log.Warn("Request rejected", fields)
	}
	server.RespondWithError(c, appErr)
}
