package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/storefront-api/pkg/logger"
)

// MaxUploadBytes límite del cuerpo (cubre logo + banner en el signup).
const MaxUploadBytes = 12 << 20

// NewApp crea la app Fiber con recover, log de peticiones y errores en formato ErrorResponse.
func NewApp(name string, log *logger.Logger) *fiber.App {
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    MaxUploadBytes,
		ErrorHandler: ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(RequestLogger(log.Component("http")))
	return app
}

// RequestLogger registra método, ruta, estado y latencia de cada petición.
// 5xx a nivel error con la causa, 4xx a nivel warn.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		if cause, ok := c.Locals(localError).(error); ok {
			ev = ev.Err(cause)
		}
		if storeID := GetStoreID(c); storeID != "" {
			ev = ev.Str("store_id", storeID)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return nil
	}
}
