package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/afip-mock/internal/domain"
	domafip "github.com/jhoicas/afip-mock/internal/domain/afip"
	"github.com/jhoicas/afip-mock/internal/domain/entity"
	"github.com/jhoicas/afip-mock/internal/domain/repository"
	"github.com/jhoicas/afip-mock/pkg/afip"
	"github.com/jhoicas/afip-mock/pkg/logger"
)

// Stage etapa de la emisión de un comprobante.
type Stage string

const (
	StageValidating    Stage = "validating"
	StageSequencing    Stage = "sequencing"
	StageTaxComputing  Stage = "tax_computing"
	StageCAEGenerating Stage = "cae_generating"
	StagePersisting    Stage = "persisting"
	StageDone          Stage = "done"
	StageRejected      Stage = "rejected"
)

// intentos ante colisión de CAE (mismo día y mismo sufijo aleatorio).
const maxCAEAttempts = 3

// InvoiceService orquesta validación, numeración, IVA, CAE y persistencia.
type InvoiceService struct {
	txRunner    IssuanceTxRunner
	invoiceRepo repository.InvoiceRepository
	sequencer   *InvoiceSequencer
	rules       RulesSource
	caeGen      *afip.CAEGenerator
	metrics     Metrics
	log         *logger.Logger
}

// NewInvoiceService construye el servicio. metrics puede ser nil.
func NewInvoiceService(
	txRunner IssuanceTxRunner,
	invoiceRepo repository.InvoiceRepository,
	sequencer *InvoiceSequencer,
	rules RulesSource,
	caeGen *afip.CAEGenerator,
	metrics Metrics,
	log *logger.Logger,
) *InvoiceService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &InvoiceService{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		sequencer:   sequencer,
		rules:       rules,
		caeGen:      caeGen,
		metrics:     metrics,
		log:         log.Named("billing"),
	}
}

// Rules instantánea de reglas vigente.
func (s *InvoiceService) Rules() *afip.Rules { return s.rules.Current() }

// Issue emite un comprobante. Errores posibles:
//   - *domain.ValidationError (errors.Is ErrValidationFailed) si alguna regla falla; no consume número.
//   - domain.ErrInvalidSequence si ExpectedNumber no es el próximo; no consume número.
//   - cualquier otro error de almacenamiento; la transacción se revierte.
func (s *InvoiceService) Issue(ctx context.Context, req entity.InvoiceRequest) (*entity.Invoice, error) {
	rules := s.rules.Current()
	started := time.Now()

	s.trace(StageValidating, req.POS)
	if err := domafip.ValidateInvoiceRequest(req, rules); err != nil {
		s.trace(StageRejected, req.POS)
		s.metrics.InvoiceRejected("validation")
		s.log.Warn().Err(err).Int("pos", req.POS).Str("cuit_emisor", req.CUITEmisor).Msg("comprobante rechazado")
		return nil, err
	}
	s.metrics.StageDuration(StageValidating, time.Since(started))

	suppliedIVA := domafip.IVAFor(req, rules)
	base := afip.SplitTotal(req.TotalAmount, suppliedIVA)
	invoiceDate := req.InvoiceDate
	if invoiceDate == "" {
		invoiceDate = s.caeGen.Now().Format(afip.DateLayout)
	}

	var (
		inv *entity.Invoice
		err error
	)
	for attempt := 1; attempt <= maxCAEAttempts; attempt++ {
		inv, err = s.issueOnce(ctx, req, rules, base, invoiceDate)
		if err == nil || !errors.Is(err, domain.ErrDuplicate) {
			break
		}
		s.log.Warn().Int("attempt", attempt).Int("pos", req.POS).Msg("colisión de CAE, reintentando")
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSequence) {
			s.metrics.InvoiceRejected("sequence")
			s.log.Warn().Err(err).Int("pos", req.POS).Msg("comprobante rechazado")
			return nil, err
		}
		s.metrics.InvoiceRejected("internal")
		s.log.Error().Err(err).Int("pos", req.POS).Msg("emisión fallida")
		return nil, err
	}

	s.trace(StageDone, req.POS)
	s.metrics.InvoiceIssued(inv.InvoiceType)
	s.metrics.StageDuration(StageDone, time.Since(started))
	s.log.Info().
		Str("cae", inv.CAE).
		Int("pos", inv.POS).
		Int64("invoice_number", inv.InvoiceNumber).
		Str("total", inv.TotalAmount.StringFixed(2)).
		Msg("comprobante autorizado")
	return inv, nil
}

func (s *InvoiceService) issueOnce(
	ctx context.Context,
	req entity.InvoiceRequest,
	rules *afip.Rules,
	base decimal.Decimal,
	invoiceDate string,
) (*entity.Invoice, error) {
	var inv *entity.Invoice
	clock := &stageClock{svc: s, pos: req.POS}
	err := s.txRunner.RunIssuance(ctx, func(
		posRepo repository.POSConfigRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		clock.enter(StageSequencing)
		number, err := s.sequencer.Reserve(ctx, posRepo, req.POS)
		if err != nil {
			return err
		}
		if req.ExpectedNumber != 0 && req.ExpectedNumber != number {
			return fmt.Errorf("%w: próximo %d, informado %d", domain.ErrInvalidSequence, number, req.ExpectedNumber)
		}

		clock.enter(StageTaxComputing)
		breakdown, err := afip.NewTaxCalculator(rules).CalculateIVA(base, req.TaxCategory)
		if err != nil {
			return err
		}

		clock.enter(StageCAEGenerating)
		caeData, err := s.caeGen.GenerateWithExpiration(time.Time{})
		if err != nil {
			return err
		}

		clock.enter(StagePersisting)
		inv = &entity.Invoice{
			ID:            uuid.New().String(),
			CAE:           caeData.CAE,
			CAEExpiration: caeData.CAEExpiration,
			InvoiceNumber: number,
			POS:           req.POS,
			InvoiceDate:   invoiceDate,
			InvoiceType:   req.InvoiceType,
			Concept:       req.Concept,
			TotalAmount:   breakdown.TotalAmount,
			IVAAmount:     breakdown.IVAAmount,
			CUITEmisor:    afip.CleanCUIT(req.CUITEmisor),
			CUITReceptor:  afip.CleanCUIT(req.CUITReceptor),
			DocTipo:       req.DocTipo,
			DocNro:        req.DocNro,
			TaxCategory:   req.TaxCategory,
			Currency:      afip.MonedaPesos,
			CreatedAt:     time.Now().UTC(),
		}
		return invoiceRepo.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	clock.stop()
	return inv, nil
}

// stageClock mide la duración de cada etapa de un intento de emisión.
// La etapa persisting incluye el commit.
type stageClock struct {
	svc   *InvoiceService
	pos   int
	stage Stage
	start time.Time
}

// enter cierra la etapa en curso y abre next.
func (c *stageClock) enter(next Stage) {
	c.stop()
	c.stage, c.start = next, time.Now()
	c.svc.trace(next, c.pos)
}

func (c *stageClock) stop() {
	if c.stage != "" {
		c.svc.metrics.StageDuration(c.stage, time.Since(c.start))
	}
	c.stage = ""
}

func (s *InvoiceService) trace(stage Stage, pos int) {
	s.log.Debug().Str("stage", string(stage)).Int("pos", pos).Msg("emisión")
}
