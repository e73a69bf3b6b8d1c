package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/afip-mock/internal/application/auth"
	"github.com/jhoicas/afip-mock/internal/application/billing"
	"github.com/jhoicas/afip-mock/internal/application/validation"
	"github.com/jhoicas/afip-mock/pkg/afip"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WSAA       *auth.WSAAUseCase
	WSFE       *billing.WSFEUseCase
	Invoices   *billing.InvoiceService
	InvoicePDF *billing.PDFUseCase
	Validation *validation.UseCase
	Rules      RulesReloader
	Storage    Pinger
	Gatherer   prometheus.Gatherer
	Info       SystemInfo
	// DefaultCUIT emisor de FECAESolicitar sin token ni bloque Auth.
	DefaultCUIT string
}

// Router registra las rutas del simulador.
func Router(app *fiber.App, deps RouterDeps) {
	delay := func(pick func(afip.ResponseDelays) time.Duration) fiber.Handler {
		if !deps.Info.SimulateDelays {
			return func(c *fiber.Ctx) error { return c.Next() }
		}
		return SimulatedDelay(deps.Rules, pick)
	}
	wsaaAuth := AuthMiddleware(deps.WSAA)

	// Sistema
	system := NewSystemHandler(deps.Info, deps.Rules, deps.Storage)
	app.Get("/health", system.Health)
	app.Get("/config", system.Config)
	app.Post("/config/reload", system.ReloadConfig)
	app.Get("/metrics", MetricsHandler(deps.Gatherer))

	// WSAA (público)
	wsaa := app.Group("/wsaa")
	wsaaHandler := NewWSAAHandler(deps.WSAA)
	wsaa.Post("/auth", delay(authDelay), wsaaHandler.Auth)
	wsaa.Post("/loginCms", delay(authDelay), wsaaHandler.LoginCms)
	wsaa.Get("/status", wsaaHandler.Status)

	// WSFEv1 (token WSAA si AFIP_REQUIRE_AUTH)
	wsfe := app.Group("/wsfev1", wsaaAuth)
	wsfeHandler := NewWSFEHandler(deps.WSFE, deps.DefaultCUIT)
	wsfe.Post("/FECAESolicitar", delay(invoiceDelay), wsfeHandler.FECAESolicitar)
	wsfe.Get("/FECompUltimoAutorizado", wsfeHandler.FECompUltimoAutorizado)
	wsfe.Get("/FECompConsultar", wsfeHandler.FECompConsultar)
	wsfe.Post("/FEParamGetPtosVenta", wsfeHandler.FEParamGetPtosVenta)
	wsfe.Post("/FEParamGetTiposCbte", wsfeHandler.FEParamGetTiposCbte)
	wsfe.Post("/FEParamGetCondicionIvaReceptor", wsfeHandler.FEParamGetCondicionIvaReceptor)

	// Validación de CUIT y padrón A5 (público)
	validationHandler := NewValidationHandler(deps.Validation)
	validate := app.Group("/validate")
	validate.Post("/cuit", delay(validationDelay), validationHandler.ValidateCUIT)
	validate.Get("/cuit/:cuit", delay(validationDelay), validationHandler.ValidateCUITParam)
	padron := app.Group("/ws_sr_padron_a5")
	padron.Post("/getPersona", delay(validationDelay), validationHandler.GetPersona)
	padron.Post("/getPersonaList", delay(validationDelay), validationHandler.GetPersonaList)

	// API JSON de comprobantes (token WSAA si AFIP_REQUIRE_AUTH)
	invoices := app.Group("/api/invoices", wsaaAuth)
	invoiceHandler := NewInvoiceHandler(deps.Invoices, deps.InvoicePDF)
	invoices.Post("/", delay(invoiceDelay), invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/stats", invoiceHandler.Stats)
	invoices.Get("/:cae/pdf", invoiceHandler.PDF)
}
