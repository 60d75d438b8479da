package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/docrequest-service/internal/observability"
	"github.com/spec-kit/docrequest-service/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
// The request logger sits outermost so it sees the status written by the error handler.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(observability.RequestLogger(logger, metrics))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = util.NewInternalError(nil)
			}
			if err != nil {
				domainErr := toDomainError(err)
				metrics.RecordError(c.Route().Path, c.Method(), domainErr.Code)
				response := fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}}
				if len(domainErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.String("path", c.Path()), zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}

// toDomainError also maps fiber's own errors, such as unknown routes.
func toDomainError(err error) *util.DomainError {
	var fiberErr *fiber.Error
	if !errors.As(err, &fiberErr) {
		return util.ToDomainError(err)
	}
	code := util.CodeValidation
	switch {
	case fiberErr.Code == fiber.StatusNotFound:
		code = util.CodeNotFound
	case fiberErr.Code == fiber.StatusUnauthorized:
		code = util.CodeUnauthenticated
	case fiberErr.Code >= fiber.StatusInternalServerError:
		code = util.CodeInternal
	}
	return &util.DomainError{Code: code, Message: fiberErr.Message, HTTPStatus: fiberErr.Code, Err: err}
}
