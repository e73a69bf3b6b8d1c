package dto

// ValidateCUITRequest body para POST /validate/cuit.
type ValidateCUITRequest struct {
	CUIT FlexString `json:"cuit"`
}

// CheckDigitDetails dígitos verificador informado y esperado.
type CheckDigitDetails struct {
	ProvidedCheckDigit int `json:"provided_check_digit"`
	ExpectedCheckDigit int `json:"expected_check_digit"`
}

// CUITValidationResponse resultado de la validación.
type CUITValidationResponse struct {
	Valid        bool               `json:"valid"`
	CUIT         string             `json:"cuit"`
	Formatted    string             `json:"formatted,omitempty"`
	Type         string             `json:"type,omitempty"`
	DocumentType string             `json:"document_type,omitempty"` // CUIT | CUIL
	Error        string             `json:"error,omitempty"`
	Details      *CheckDigitDetails `json:"details,omitempty"`
}

// ── Padrón A5 ─────────────────────────────────────────────────────────────────

// GetPersonaRequest body para POST /ws_sr_padron_a5/getPersona.
type GetPersonaRequest struct {
	CUIT FlexString `json:"cuit"`
}

// GetPersonaListRequest body para POST /ws_sr_padron_a5/getPersonaList (máximo 100).
type GetPersonaListRequest struct {
	CUITs []FlexString `json:"cuits"`
}

// DomicilioFiscal domicilio simulado.
type DomicilioFiscal struct {
	Direccion    string `json:"direccion"`
	Localidad    string `json:"localidad"`
	Provincia    string `json:"provincia"`
	CodigoPostal string `json:"codigoPostal"`
	Pais         string `json:"pais"`
}

// Persona datos del contribuyente, deterministas a partir del CUIT.
type Persona struct {
	CUIT              string          `json:"cuit"`
	IDPersona         int64           `json:"idPersona"`
	TipoPersona       string          `json:"tipoPersona"` // FISICA | JURIDICA
	TipoCuit          string          `json:"tipoCuit"`    // CUIT | CUIL
	Clasificacion     string          `json:"clasificacion"`
	NumeroDocumento   int64           `json:"numeroDocumento"`
	RazonSocial       *string         `json:"razonSocial"`
	Nombre            *string         `json:"nombre"`
	Apellido          *string         `json:"apellido"`
	DomicilioFiscal   DomicilioFiscal `json:"domicilioFiscal"`
	CategoriaAutonomo *string         `json:"categoriaAutonomo"`
	EstadoCuit        string          `json:"estadoCuit"`
}

// GetPersonaResponse cuerpo de respuesta de getPersona.
type GetPersonaResponse struct {
	Persona Persona `json:"persona"`
}

// PersonaListItem resultado por CUIT; Error != nil si el dígito verificador no coincide.
type PersonaListItem struct {
	CUIT    string   `json:"cuit"`
	Error   *string  `json:"error"`
	Persona *Persona `json:"persona"`
}

// GetPersonaListResponse cuerpo de respuesta de getPersonaList.
type GetPersonaListResponse struct {
	Personas []PersonaListItem `json:"personas"`
}
