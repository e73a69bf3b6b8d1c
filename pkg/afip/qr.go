package afip

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// QRData contenido del código QR de comprobantes electrónicos (versión 1).
type QRData struct {
	Ver        int     `json:"ver"`
	Fecha      string  `json:"fecha"` // YYYY-MM-DD
	Cuit       int64   `json:"cuit"`
	PtoVta     int     `json:"ptoVta"`
	TipoCmp    int     `json:"tipoCmp"`
	NroCmp     int64   `json:"nroCmp"`
	Importe    float64 `json:"importe"`
	Moneda     string  `json:"moneda"`
	Ctz        int     `json:"ctz"`
	TipoDocRec int     `json:"tipoDocRec,omitempty"`
	NroDocRec  int64   `json:"nroDocRec,omitempty"`
	TipoCodAut string  `json:"tipoCodAut"`
	CodAut     int64   `json:"codAut"`
}

// QRURL devuelve QRBaseURL seguido del JSON en base64.
func (q QRData) QRURL() (string, error) {
	raw, err := json.Marshal(q)
	if err != nil {
		return "", fmt.Errorf("afip: serializar QR: %w", err)
	}
	return QRBaseURL + base64.StdEncoding.EncodeToString(raw), nil
}

// NewQRData arma el contenido del QR. invoiceDate en YYYYMMDD.
func NewQRData(cuit string, pos, cbteTipo int, number int64, invoiceDate string, total decimal.Decimal,
	docTipo int, docNro, cae string) (QRData, error) {
	d, ok := ParseDate(invoiceDate)
	if !ok {
		return QRData{}, fmt.Errorf("afip: fecha de comprobante inválida %q", invoiceDate)
	}
	cuitN, err := strconv.ParseInt(CleanCUIT(cuit), 10, 64)
	if err != nil {
		return QRData{}, fmt.Errorf("afip: CUIT inválido %q", cuit)
	}
	caeN, err := strconv.ParseInt(cae, 10, 64)
	if err != nil {
		return QRData{}, fmt.Errorf("afip: CAE inválido %q", cae)
	}
	q := QRData{
		Ver:        1,
		Fecha:      d.Format("2006-01-02"),
		Cuit:       cuitN,
		PtoVta:     pos,
		TipoCmp:    cbteTipo,
		NroCmp:     number,
		Importe:    total.Round(2).InexactFloat64(),
		Moneda:     MonedaPesos,
		Ctz:        1,
		TipoCodAut: "E",
		CodAut:     caeN,
	}
	if docNro != "" {
		if n, err := strconv.ParseInt(CleanCUIT(docNro), 10, 64); err == nil {
			q.TipoDocRec = docTipo
			q.NroDocRec = n
		}
	}
	return q, nil
}
