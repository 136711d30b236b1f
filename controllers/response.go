package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"stockledger/middleware"
	"stockledger/notify"
	"stockledger/types"
)

// handler carries what every controller needs to answer a request.
type handler struct {
	log     *zap.Logger
	alerter notify.Alerter
}

func newHandler(log *zap.Logger, alerter notify.Alerter) handler {
	if log == nil {
		log = zap.NewNop()
	}
	if alerter == nil {
		alerter = notify.Nop{}
	}
	return handler{log: log, alerter: alerter}
}

// StatusOf maps an engine error to its HTTP status.
func StatusOf(err error) int {
	switch types.KindOf(err) {
	case types.KindValidation:
		return fiber.StatusBadRequest
	case types.KindNotFound:
		return fiber.StatusNotFound
	case types.KindConflict:
		return fiber.StatusConflict
	case types.KindInsufficientBalance:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func (h handler) ok(ctx *fiber.Ctx, data interface{}) error {
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": data})
}

func (h handler) created(ctx *fiber.Ctx, message string, data interface{}) error {
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": message, "data": data})
}

func (h handler) badRequest(ctx *fiber.Ctx, message string, err error) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": message, "error": err.Error()})
}

// fail answers with the status of err. A durability failure also returns
// data, since the change it describes did commit, and alerts an operator.
func (h handler) fail(ctx *fiber.Ctx, err error, data interface{}) error {
	status := StatusOf(err)
	body := fiber.Map{
		"success": false,
		"kind":    types.KindOf(err).String(),
		"message": err.Error(),
	}

	var e *types.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case types.KindValidation:
			body["fields"] = e.Fields
		case types.KindNotFound:
			body["entity"] = e.Entity
			body["code"] = e.Code
		case types.KindInsufficientBalance:
			body["item_code"] = e.Code
			body["requested"] = e.Requested
			body["available"] = e.Available
		case types.KindDurability:
			body["committed"] = true
			body["data"] = data
			operation := ctx.Method() + " " + ctx.Path()
			if aerr := h.alerter.DurabilityFailure(operation, err); aerr != nil {
				h.log.Error("durability alert not delivered", zap.Error(aerr))
			}
		}
	}

	if status == fiber.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("request_id", middleware.RequestIDOf(ctx)),
			zap.String("path", ctx.Path()),
			zap.Error(err),
		)
	}
	return ctx.Status(status).JSON(body)
}
