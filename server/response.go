package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/speakeralign/errors"
	"github.com/kbukum/speakeralign/logger"
)

// RespondWithError inspects err: an *apperrors.AppError supplies status and
// body; anything else becomes a generic 500. The envelope echoes the
// request ID so a failed upload can be matched to the service logs.
func RespondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Internal(err)
	}
	resp := appErr.ToResponse()
	resp.Error.RequestID = logger.RequestIDFromContext(c.Request.Context())
	c.AbortWithStatusJSON(appErr.HTTPStatus, resp)
}

// RespondOK sends a 200 response with body as-is. The service answers with
// bare result objects, not a data envelope.
func RespondOK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}
