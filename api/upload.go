package api

import (
	stderrors "errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speakeralign/errors"
	"github.com/kbukum/speakeralign/logger"
	"github.com/kbukum/speakeralign/validation"
)

const audioField = "audio"

// spoolUpload copies the "audio" part into a temporary file that keeps the
// upload's extension, or defaultExt when it has none. The returned cleanup
// removes the file and must always be called.
func (h *Handler) spoolUpload(c *gin.Context, defaultExt string) (string, func(), error) {
	header, err := c.FormFile(audioField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.As(err, &tooLarge):
			return "", nil, errors.New(errors.ErrCodeInvalidInput, "The uploaded file is too large.", http.StatusRequestEntityTooLarge).
				WithDetail("limit_bytes", tooLarge.Limit)
		case stderrors.Is(err, http.ErrMissingFile):
			return "", nil, errors.MissingField(audioField)
		default:
			return "", nil, errors.InvalidInput(audioField, "expected a multipart/form-data upload").WithCause(err)
		}
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = defaultExt
	}
	if !validation.IsAudioFile("upload" + ext) {
		return "", nil, errors.UnsupportedFormat(ext, validation.AudioExtensions)
	}

	src, err := header.Open()
	if err != nil {
		return "", nil, errors.AudioUnreadable(err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.CreateTemp(h.tempDir, "speakeralign-*"+ext)
	if err != nil {
		return "", nil, errors.Internal(err)
	}
	path := dst.Name()
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			h.log.Warn("Failed to remove upload", logger.ErrorFields("remove_upload", err))
		}
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		cleanup()
		return "", nil, errors.AudioUnreadable(err)
	}
	if err := dst.Close(); err != nil {
		cleanup()
		return "", nil, errors.AudioUnreadable(err)
	}

	h.log.WithContext(c.Request.Context()).Debug("Upload spooled", map[string]interface{}{
		logger.FieldAudioPath: path,
		"filename":            header.Filename,
		"size":                header.Size,
	})
	return path, cleanup, nil
}
