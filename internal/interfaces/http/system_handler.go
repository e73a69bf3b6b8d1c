package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/afip-mock/internal/application/dto"
	"github.com/jhoicas/afip-mock/pkg/afip"
)

// Version versión publicada en /health.
const Version = "1.0.0"

// RulesReloader reglas vigentes con recarga en caliente.
type RulesReloader interface {
	Current() *afip.Rules
	Reload() (*afip.Rules, error)
}

// Pinger verifica el almacenamiento (pgxpool.Pool, memory.Store).
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemInfo datos estáticos del proceso.
type SystemInfo struct {
	ServiceName    string
	StoreDriver    string
	AuthRequired   bool
	SimulateDelays bool
	StartedAt      time.Time
}

// SystemHandler salud, configuración y métricas.
type SystemHandler struct {
	info    SystemInfo
	rules   RulesReloader
	storage Pinger
}

// NewSystemHandler construye el handler. storage puede ser nil.
func NewSystemHandler(info SystemInfo, rules RulesReloader, storage Pinger) *SystemHandler {
	if info.StartedAt.IsZero() {
		info.StartedAt = time.Now()
	}
	return &SystemHandler{info: info, rules: rules, storage: storage}
}

// Health GET /health
func (h *SystemHandler) Health(c *fiber.Ctx) error {
	out := dto.HealthResponse{
		Status:        "healthy",
		Service:       h.info.ServiceName,
		Version:       Version,
		Store:         h.info.StoreDriver,
		Storage:       "connected",
		Timestamp:     time.Now().UTC(),
		UptimeSeconds: time.Since(h.info.StartedAt).Seconds(),
	}
	if h.storage != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.storage.Ping(ctx); err != nil {
			out.Status = "degraded"
			out.Storage = "disconnected"
			return c.Status(fiber.StatusServiceUnavailable).JSON(out)
		}
	}
	return c.JSON(out)
}

// Config GET /config
func (h *SystemHandler) Config(c *fiber.Ctx) error {
	return c.JSON(dto.NewConfigResponse(h.rules.Current(), h.info.AuthRequired, h.info.SimulateDelays))
}

// ReloadConfig POST /config/reload: vuelve a leer el archivo de reglas.
// Si falla, siguen vigentes las reglas anteriores.
func (h *SystemHandler) ReloadConfig(c *fiber.Ctx) error {
	rules, err := h.rules.Reload()
	if err != nil {
		return err
	}
	return c.JSON(dto.NewConfigResponse(rules, h.info.AuthRequired, h.info.SimulateDelays))
}

// MetricsHandler expone gatherer en formato Prometheus.
func MetricsHandler(gatherer prometheus.Gatherer) fiber.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
