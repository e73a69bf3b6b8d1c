package afip

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// CAELength cantidad de dígitos del Código de Autorización Electrónico.
const CAELength = 14

// DefaultCAEExpirationDays vigencia por defecto del CAE en días corridos.
const DefaultCAEExpirationDays = 10

// DateLayout formato de fechas AFIP (YYYYMMDD).
const DateLayout = "20060102"

// ArgentinaZone hora oficial argentina (UTC-3, sin horario de verano).
var ArgentinaZone = time.FixedZone("ART", -3*60*60)

// CAEData código emitido junto con sus fechas.
type CAEData struct {
	CAE            string `json:"cae"`
	CAEExpiration  string `json:"cae_expiration"`
	GenerationDate string `json:"generation_date"`
	ExpirationDays int    `json:"expiration_days"`
}

// CAECheck resultado de validar un CAE y su vencimiento.
type CAECheck struct {
	Valid       bool `json:"valid"`
	FormatValid bool `json:"format_valid"`
	Expired     bool `json:"expired"`
}

// CAEGenerator emite CAE: fecha YYYYMMDD + sufijo aleatorio de 6 dígitos.
// Sin estado mutable; seguro para uso concurrente.
type CAEGenerator struct {
	expirationDays int
	now            func() time.Time
	suffix         func() (int, error)
}

// CAEOption configura el generador.
type CAEOption func(*CAEGenerator)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) CAEOption {
	return func(g *CAEGenerator) { g.now = now }
}

// WithSuffixSource reemplaza la fuente del sufijo aleatorio (tests).
func WithSuffixSource(src func() (int, error)) CAEOption {
	return func(g *CAEGenerator) { g.suffix = src }
}

// NewCAEGenerator construye el generador. expirationDays <= 0 usa DefaultCAEExpirationDays.
func NewCAEGenerator(expirationDays int, opts ...CAEOption) *CAEGenerator {
	if expirationDays <= 0 {
		expirationDays = DefaultCAEExpirationDays
	}
	g := &CAEGenerator{
		expirationDays: expirationDays,
		now:            time.Now,
		suffix:         randomSuffix,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ExpirationDays días de vigencia configurados.
func (g *CAEGenerator) ExpirationDays() int { return g.expirationDays }

// Now hora actual en zona argentina según el reloj del generador.
func (g *CAEGenerator) Now() time.Time { return g.now().In(ArgentinaZone) }

// Generate devuelve un CAE para la fecha dada, tomada en su propia zona.
// Fecha cero usa la actual en hora argentina.
func (g *CAEGenerator) Generate(date time.Time) (string, error) {
	if date.IsZero() {
		date = g.Now()
	}
	n, err := g.suffix()
	if err != nil {
		return "", fmt.Errorf("afip: generar sufijo CAE: %w", err)
	}
	if n < 0 || n > 999_999 {
		return "", fmt.Errorf("afip: sufijo CAE fuera de rango: %d", n)
	}
	return fmt.Sprintf("%s%06d", date.Format(DateLayout), n), nil
}

// ExpirationOf suma days días corridos a date (en su propia zona) y devuelve YYYYMMDD.
func ExpirationOf(date time.Time, days int) string {
	return date.AddDate(0, 0, days).Format(DateLayout)
}

// GenerateWithExpiration emite un CAE para date con su vencimiento; fecha cero = hoy.
func (g *CAEGenerator) GenerateWithExpiration(date time.Time) (CAEData, error) {
	if date.IsZero() {
		date = g.Now()
	}
	cae, err := g.Generate(date)
	if err != nil {
		return CAEData{}, err
	}
	return CAEData{
		CAE:            cae,
		CAEExpiration:  ExpirationOf(date, g.expirationDays),
		GenerationDate: date.Format(DateLayout),
		ExpirationDays: g.expirationDays,
	}, nil
}

// ValidateCAEFormat exige 14 dígitos y que los 8 primeros sean una fecha real entre 2000 y 2100.
func ValidateCAEFormat(cae string) bool {
	_, ok := ExtractCAEDate(cae)
	return ok
}

// ExtractCAEDate devuelve la fecha de emisión codificada en el CAE.
func ExtractCAEDate(cae string) (time.Time, bool) {
	if len(cae) != CAELength || !allDigits(cae) {
		return time.Time{}, false
	}
	return ParseDate(cae[:8])
}

// ParseDate interpreta YYYYMMDD en zona argentina. Rechaza fechas inexistentes
// y años fuera de [2000, 2100].
func ParseDate(s string) (time.Time, bool) {
	if len(s) != 8 || !allDigits(s) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, s, ArgentinaZone)
	if err != nil {
		return time.Time{}, false
	}
	if t.Year() < 2000 || t.Year() > 2100 {
		return time.Time{}, false
	}
	return t, true
}

// IsExpiredAt compara solo fechas: vencido si now es posterior al vencimiento.
// Un vencimiento ilegible se considera vencido.
func IsExpiredAt(expiration string, now time.Time) bool {
	exp, ok := ParseDate(expiration)
	if !ok {
		return true
	}
	today := now.In(ArgentinaZone).Format(DateLayout)
	return today > exp.Format(DateLayout)
}

// IsExpired IsExpiredAt con la fecha actual.
func IsExpired(expiration string) bool {
	return IsExpiredAt(expiration, time.Now())
}

// CheckCAE valida formato y vencimiento en una sola llamada.
func (g *CAEGenerator) CheckCAE(cae, expiration string) CAECheck {
	formatOK := ValidateCAEFormat(cae)
	expired := IsExpiredAt(expiration, g.Now())
	return CAECheck{
		Valid:       formatOK && !expired,
		FormatValid: formatOK,
		Expired:     expired,
	}
}

func randomSuffix() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
