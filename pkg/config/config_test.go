package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/afip-mock/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreMemory, cfg.Store.Driver)
	assert.Equal(t, 24, cfg.WSAA.TTLHours)
	assert.Equal(t, "wsfe", cfg.WSAA.Service)
	assert.Equal(t, "20123456786", cfg.AFIP.DefaultCUIT)
	assert.Equal(t, 1, cfg.AFIP.DefaultTaxCategory)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("STORE_DRIVER", "POSTGRES")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("AFIP_REQUIRE_AUTH", "true")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StorePostgres, cfg.Store.Driver)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.True(t, cfg.AFIP.RequireAuth)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "afip", Password: "p@ss:w/rd", DBName: "afip_mock", SSLMode: "disable"}
	assert.Equal(t, "postgres://afip:p%40ss%3Aw%2Frd@db:5432/afip_mock?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

func TestLoadRules_Embebidas(t *testing.T) {
	rules, err := config.LoadRules("")
	require.NoError(t, err)

	cat, ok := rules.TaxCategory(1)
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("0.21").Equal(cat.IVARate))
	assert.Len(t, rules.InvoiceTypes(), 9)
	assert.Equal(t, 10, rules.Validation().CAEExpirationDays)
	assert.Equal(t, 200*time.Millisecond, rules.Delays().Invoice)
}

func TestLoadRules_ArchivoYRecarga(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.json")
	write := func(rate string) {
		body := `{
			"tax_categories": {"1": {"name": "RI", "iva_rate": ` + rate + `}},
			"invoice_types": {"6": {"name": "Factura B"}},
			"validation_rules": {"min_invoice_amount": 1, "max_invoice_amount": 1000, "cae_expiration_days": 5},
			"response_delays": {"auth": 0, "invoice": 0, "validation": 0}
		}`
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}

	write("0.21")
	first, err := config.LoadRules(path)
	require.NoError(t, err)

	write("0.105")
	second, err := config.LoadRules(path)
	require.NoError(t, err)

	c1, _ := first.TaxCategory(1)
	c2, _ := second.TaxCategory(1)
	assert.True(t, decimal.RequireFromString("0.21").Equal(c1.IVARate), "la instantánea previa no cambia")
	assert.True(t, decimal.RequireFromString("0.105").Equal(c2.IVARate))
	assert.Equal(t, 5, second.Validation().CAEExpirationDays)
}

func TestLoadRules_Invalidas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	body := `{
		"tax_categories": {"1": {"name": "RI", "iva_rate": 1.5}},
		"invoice_types": {},
		"validation_rules": {"min_invoice_amount": 10, "max_invoice_amount": 1}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	_, err := config.LoadRules(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iva_rate")
	assert.Contains(t, err.Error(), "invoice_types vacío")

	_, err = config.LoadRules(filepath.Join(t.TempDir(), "no-existe.json"))
	assert.Error(t, err)
}

func TestRulesStore_RecargaConservaLaAnteriorSiFalla(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	valid := `{
		"tax_categories": {"1": {"name": "RI", "iva_rate": 0.21}},
		"invoice_types": {"6": {"name": "Factura B"}},
		"validation_rules": {"min_invoice_amount": 1, "max_invoice_amount": 1000, "cae_expiration_days": 10}
	}`
	require.NoError(t, os.WriteFile(path, []byte(valid), 0o600))

	store, err := config.NewRulesStore(path)
	require.NoError(t, err)
	before := store.Current()

	require.NoError(t, os.WriteFile(path, []byte(`{"tax_categories": {}}`), 0o600))
	_, err = store.Reload()
	require.Error(t, err)
	assert.Same(t, before, store.Current())

	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(valid, "0.21", "0.27", 1)), 0o600))
	after, err := store.Reload()
	require.NoError(t, err)
	assert.Same(t, after, store.Current())
	cat, _ := store.Current().TaxCategory(1)
	assert.True(t, decimal.RequireFromString("0.27").Equal(cat.IVARate))
}

func TestRulesStore_Estatico(t *testing.T) {
	rules, err := config.LoadRules("")
	require.NoError(t, err)
	store := config.NewStaticRulesStore(rules)

	got, err := store.Reload()
	require.NoError(t, err)
	assert.Same(t, rules, got)
	assert.Same(t, rules, store.Current())
}
