package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/jhoicas/afip-mock/pkg/afip"
)

//go:embed rules.default.json
var defaultRulesJSON []byte

type rulesFile struct {
	TaxCategories map[string]struct {
		Name    string  `mapstructure:"name"`
		IVARate float64 `mapstructure:"iva_rate"`
	} `mapstructure:"tax_categories"`
	InvoiceTypes map[string]struct {
		Name string `mapstructure:"name"`
	} `mapstructure:"invoice_types"`
	ValidationRules struct {
		MinInvoiceAmount  float64 `mapstructure:"min_invoice_amount"`
		MaxInvoiceAmount  float64 `mapstructure:"max_invoice_amount"`
		CAEExpirationDays int     `mapstructure:"cae_expiration_days"`
	} `mapstructure:"validation_rules"`
	ResponseDelays struct {
		Auth       int `mapstructure:"auth"`
		Invoice    int `mapstructure:"invoice"`
		Validation int `mapstructure:"validation"`
	} `mapstructure:"response_delays"`
}

// LoadRules lee las reglas de negocio (categorías de IVA, tipos de comprobante,
// umbrales y demoras) desde path, en JSON o YAML. Con path vacío usa las reglas embebidas.
// Cada llamada devuelve una instantánea nueva; recargar es volver a llamar.
func LoadRules(path string) (*afip.Rules, error) {
	v := viper.New()
	if path == "" {
		v.SetConfigType("json")
		if err := v.ReadConfig(bytes.NewReader(defaultRulesJSON)); err != nil {
			return nil, fmt.Errorf("config: leer reglas embebidas: %w", err)
		}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: leer reglas %s: %w", path, err)
		}
	}

	var raw rulesFile
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("config: decodificar reglas: %w", err)
	}
	return raw.toRules()
}

func (f rulesFile) toRules() (*afip.Rules, error) {
	var errs []error

	categories := make([]afip.TaxCategory, 0, len(f.TaxCategories))
	for key, c := range f.TaxCategories {
		code, err := strconv.Atoi(key)
		if err != nil {
			errs = append(errs, fmt.Errorf("tax_categories: código %q no numérico", key))
			continue
		}
		if c.IVARate < 0 || c.IVARate > 1 {
			errs = append(errs, fmt.Errorf("tax_categories[%d]: iva_rate fuera de [0,1]: %v", code, c.IVARate))
			continue
		}
		categories = append(categories, afip.TaxCategory{
			Code:    code,
			Name:    c.Name,
			IVARate: decimal.NewFromFloat(c.IVARate),
		})
	}

	types := make([]afip.InvoiceType, 0, len(f.InvoiceTypes))
	for key, t := range f.InvoiceTypes {
		code, err := strconv.Atoi(key)
		if err != nil {
			errs = append(errs, fmt.Errorf("invoice_types: código %q no numérico", key))
			continue
		}
		types = append(types, afip.InvoiceType{Code: code, Name: t.Name})
	}

	if len(categories) == 0 {
		errs = append(errs, errors.New("tax_categories vacío"))
	}
	if len(types) == 0 {
		errs = append(errs, errors.New("invoice_types vacío"))
	}

	minAmount := decimal.NewFromFloat(f.ValidationRules.MinInvoiceAmount)
	maxAmount := decimal.NewFromFloat(f.ValidationRules.MaxInvoiceAmount)
	if maxAmount.LessThan(minAmount) {
		errs = append(errs, fmt.Errorf("validation_rules: max_invoice_amount (%s) menor que min_invoice_amount (%s)", maxAmount, minAmount))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("config: reglas inválidas: %w", err)
	}

	return afip.NewRules(categories, types,
		afip.ValidationRules{
			MinInvoiceAmount:  minAmount,
			MaxInvoiceAmount:  maxAmount,
			CAEExpirationDays: f.ValidationRules.CAEExpirationDays,
		},
		afip.ResponseDelays{
			Auth:       time.Duration(f.ResponseDelays.Auth) * time.Millisecond,
			Invoice:    time.Duration(f.ResponseDelays.Invoice) * time.Millisecond,
			Validation: time.Duration(f.ResponseDelays.Validation) * time.Millisecond,
		},
	), nil
}

// RulesStore guarda la instantánea de reglas vigente. Las lecturas no bloquean;
// Reload reemplaza la instantánea completa o, si falla, conserva la anterior.
type RulesStore struct {
	path    string
	current atomic.Pointer[afip.Rules]
}

// NewRulesStore carga las reglas de path (vacío = embebidas).
func NewRulesStore(path string) (*RulesStore, error) {
	rules, err := LoadRules(path)
	if err != nil {
		return nil, err
	}
	s := &RulesStore{path: path}
	s.current.Store(rules)
	return s, nil
}

// NewStaticRulesStore envuelve una instantánea fija; Reload no la cambia.
func NewStaticRulesStore(rules *afip.Rules) *RulesStore {
	s := &RulesStore{}
	s.current.Store(rules)
	return s
}

// Current instantánea vigente.
func (s *RulesStore) Current() *afip.Rules { return s.current.Load() }

// Reload vuelve a leer el archivo de reglas.
func (s *RulesStore) Reload() (*afip.Rules, error) {
	if s.path == "" {
		return s.Current(), nil
	}
	rules, err := LoadRules(s.path)
	if err != nil {
		return nil, err
	}
	s.current.Store(rules)
	return rules, nil
}
