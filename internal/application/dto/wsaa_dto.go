package dto

import "time"

// WSAAAuthRequest body para POST /wsaa/auth.
type WSAAAuthRequest struct {
	CUIT FlexString `json:"cuit"`
}

// WSAALoginCmsRequest body para POST /wsaa/loginCms. El CMS no se verifica.
type WSAALoginCmsRequest struct {
	CMS  string     `json:"cms"`
	CUIT FlexString `json:"cuit,omitempty"`
}

// TicketResponse ticket de acceso simulado.
type TicketResponse struct {
	Token       string    `json:"token"`
	Sign        string    `json:"sign"`
	Expiration  time.Time `json:"expiration"`
	GeneratedAt time.Time `json:"generated_at"`
	Service     string    `json:"service"`
	CUIT        string    `json:"cuit"`
	Source      string    `json:"source,omitempty"`
}

// WSAAStatusResponse estado del servicio de autenticación.
type WSAAStatusResponse struct {
	Status          string `json:"status"`
	Service         string `json:"service"`
	TokenTTLHours   int    `json:"token_ttl_hours"`
	AuthRequired    bool   `json:"auth_required"`
	ServerTimestamp string `json:"server_timestamp"`
}
