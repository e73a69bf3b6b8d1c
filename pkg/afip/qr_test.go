package afip_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/afip-mock/pkg/afip"
)

func TestNewQRData(t *testing.T) {
	q, err := afip.NewQRData("20-12345678-6", 1, afip.CbteFacturaA, 15, "20240315",
		decimal.RequireFromString("121.005"), afip.DocTipoCUIT, "30712345671", "20240315123456")
	require.NoError(t, err)

	assert.Equal(t, 1, q.Ver)
	assert.Equal(t, "2024-03-15", q.Fecha)
	assert.Equal(t, int64(20123456786), q.Cuit)
	assert.Equal(t, int64(15), q.NroCmp)
	assert.Equal(t, 121.01, q.Importe)
	assert.Equal(t, afip.MonedaPesos, q.Moneda)
	assert.Equal(t, afip.DocTipoCUIT, q.TipoDocRec)
	assert.Equal(t, int64(30712345671), q.NroDocRec)
	assert.Equal(t, "E", q.TipoCodAut)
	assert.Equal(t, int64(20240315123456), q.CodAut)

	url, err := q.QRURL()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, afip.QRBaseURL))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, afip.QRBaseURL))
	require.NoError(t, err)
	var decoded afip.QRData
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, q, decoded)
}

func TestNewQRData_SinReceptor(t *testing.T) {
	q, err := afip.NewQRData("20123456786", 2, afip.CbteFacturaB, 1, "20240315",
		decimal.RequireFromString("100"), afip.DocTipoSinIdentificar, "", "20240315000001")
	require.NoError(t, err)
	assert.Zero(t, q.TipoDocRec)
	assert.Zero(t, q.NroDocRec)

	url, err := q.QRURL()
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, afip.QRBaseURL))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "nroDocRec")
}

func TestNewQRData_Errores(t *testing.T) {
	_, err := afip.NewQRData("20123456786", 1, 6, 1, "2024-03-15", decimal.NewFromInt(1), 99, "", "20240315000001")
	assert.Error(t, err)

	_, err = afip.NewQRData("abc", 1, 6, 1, "20240315", decimal.NewFromInt(1), 99, "", "20240315000001")
	assert.Error(t, err)

	_, err = afip.NewQRData("20123456786", 1, 6, 1, "20240315", decimal.NewFromInt(1), 99, "", "cae")
	assert.Error(t, err)
}
