package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const HeaderRequestID = "X-Request-ID"

// RequestID tags every request with an ID, echoed in the response header,
// and logs the request once it completes.
func RequestID(log *zap.Logger) fiber.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(ctx *fiber.Ctx) error {
		id := ctx.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		ctx.Locals("requestID", id)
		ctx.Set(HeaderRequestID, id)

		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		log.Info("request",
			zap.String("request_id", id),
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		)
		return err
	}
}

func RequestIDOf(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals("requestID").(string)
	return id
}
