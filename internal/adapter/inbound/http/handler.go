// Package http exposes the order process engine over a thin gin API:
// state transitions, shipping quotes, promotion evaluation and order
// merging.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/commercekit/server/internal/port/outbound"
	"github.com/commercekit/server/internal/shared/errors"
)

// idempotencyTTL is how long a claimed Idempotency-Key blocks replays.
const idempotencyTTL = 24 * time.Hour

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, errors.BadRequest("invalid "+param).ToResponse())
		return uuid.Nil, false
	}
	return id, true
}

func handleError(c *gin.Context, logger *zap.Logger, err error) {
	status := errors.GetStatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	if appErr, ok := err.(*errors.AppError); ok {
		c.JSON(status, appErr.ToResponse())
		return
	}
	c.JSON(status, errors.ErrorResponse{
		Error: errors.ErrorDetail{Code: "ERROR", Message: err.Error()},
	})
}

// claimIdempotencyKey honors an optional Idempotency-Key header. It
// reports whether the request should proceed; a replayed key answers
// 409 and stops the handler.
func claimIdempotencyKey(c *gin.Context, logger *zap.Logger, idempotency outbound.IdempotencyPort) bool {
	key := c.GetHeader("Idempotency-Key")
	if key == "" || idempotency == nil {
		return true
	}

	claimed, err := idempotency.Claim(c.Request.Context(), key, idempotencyTTL)
	if err != nil {
		handleError(c, logger, err)
		return false
	}
	if !claimed {
		c.JSON(http.StatusConflict, errors.Conflict("request already processed").ToResponse())
		return false
	}
	return true
}

// releaseIdempotencyKey frees the key after a failed mutation so the
// caller may retry.
func releaseIdempotencyKey(c *gin.Context, logger *zap.Logger, idempotency outbound.IdempotencyPort) {
	key := c.GetHeader("Idempotency-Key")
	if key == "" || idempotency == nil {
		return
	}
	if err := idempotency.Release(c.Request.Context(), key); err != nil {
		logger.Warn("failed to release idempotency key", zap.Error(err))
	}
}
