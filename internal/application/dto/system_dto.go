package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/afip-mock/pkg/afip"
)

// HealthResponse estado del servicio.
type HealthResponse struct {
	Status        string    `json:"status"`
	Service       string    `json:"service"`
	Version       string    `json:"version"`
	Store         string    `json:"store"`
	Storage       string    `json:"storage"` // connected | disconnected
	Timestamp     time.Time `json:"timestamp"`
	UptimeSeconds float64   `json:"uptime_seconds"`
}

// ValidationRulesResponse umbrales vigentes.
type ValidationRulesResponse struct {
	MinInvoiceAmount  decimal.Decimal `json:"min_invoice_amount"`
	MaxInvoiceAmount  decimal.Decimal `json:"max_invoice_amount"`
	CAEExpirationDays int             `json:"cae_expiration_days"`
}

// ResponseDelaysResponse demoras simuladas en milisegundos.
type ResponseDelaysResponse struct {
	Auth       int64 `json:"auth"`
	Invoice    int64 `json:"invoice"`
	Validation int64 `json:"validation"`
}

// ConfigResponse instantánea de reglas expuesta en GET /config.
type ConfigResponse struct {
	TaxCategories   []afip.TaxCategory      `json:"tax_categories"`
	InvoiceTypes    []afip.InvoiceType      `json:"invoice_types"`
	ValidationRules ValidationRulesResponse `json:"validation_rules"`
	ResponseDelays  ResponseDelaysResponse  `json:"response_delays"`
	AuthRequired    bool                    `json:"auth_required"`
	SimulateDelays  bool                    `json:"simulate_delays"`
}

// NewConfigResponse mapea las reglas vigentes.
func NewConfigResponse(rules *afip.Rules, authRequired, simulateDelays bool) ConfigResponse {
	v := rules.Validation()
	d := rules.Delays()
	return ConfigResponse{
		TaxCategories: rules.TaxCategories(),
		InvoiceTypes:  rules.InvoiceTypes(),
		ValidationRules: ValidationRulesResponse{
			MinInvoiceAmount:  v.MinInvoiceAmount,
			MaxInvoiceAmount:  v.MaxInvoiceAmount,
			CAEExpirationDays: v.CAEExpirationDays,
		},
		ResponseDelays: ResponseDelaysResponse{
			Auth:       d.Auth.Milliseconds(),
			Invoice:    d.Invoice.Milliseconds(),
			Validation: d.Validation.Milliseconds(),
		},
		AuthRequired:   authRequired,
		SimulateDelays: simulateDelays,
	}
}
