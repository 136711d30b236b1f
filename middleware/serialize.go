package middleware

import (
	"sync"

	"github.com/gofiber/fiber/v2"
)

// Serialize lets one writing request through at a time. Reads pass
// without taking the lock.
func Serialize() fiber.Handler {
	var mu sync.Mutex
	return func(ctx *fiber.Ctx) error {
		switch ctx.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return ctx.Next()
		}
		mu.Lock()
		defer mu.Unlock()
		return ctx.Next()
	}
}
