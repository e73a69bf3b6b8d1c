package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/afip-mock/pkg/afip"
	"github.com/jhoicas/afip-mock/pkg/logger"
)

// HTTPObserver recibe una observación por petición (métricas).
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
}

// RequestLogger registra método, ruta, estado y duración de cada petición.
// Los errores se resuelven aquí con el ErrorHandler de la app para conocer el estado final.
func RequestLogger(log *logger.Logger, observer HTTPObserver) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		if observer != nil {
			observer.ObserveHTTP(c.Method(), route, status, elapsed)
		}
		evt := log.Info()
		if status >= fiber.StatusInternalServerError {
			evt = log.Error()
		} else if status >= fiber.StatusBadRequest {
			evt = log.Warn()
		}
		evt.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", elapsed).
			Str("ip", c.IP()).
			Msg("petición HTTP")
		return nil
	}
}

// DelaySource entrega las demoras vigentes.
type DelaySource interface {
	Current() *afip.Rules
}

// SimulatedDelay demora la respuesta según la regla elegida por pick.
// Se corta si el contexto de la petición termina.
func SimulatedDelay(rules DelaySource, pick func(afip.ResponseDelays) time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := pick(rules.Current().Delays())
		if d <= 0 {
			return c.Next()
		}
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-c.UserContext().Done():
			return c.UserContext().Err()
		}
		return c.Next()
	}
}

func authDelay(d afip.ResponseDelays) time.Duration       { return d.Auth }
func invoiceDelay(d afip.ResponseDelays) time.Duration    { return d.Invoice }
func validationDelay(d afip.ResponseDelays) time.Duration { return d.Validation }
