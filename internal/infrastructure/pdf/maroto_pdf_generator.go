// Package pdf implementa la representación impresa de un comprobante
// autorizado con CAE (RG 4291: código QR obligatorio).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de comprobante + letra │ PtoVta-Número + Fecha │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: CUIT + condición frente al IVA                      │
//	│  RECEPTOR: Documento                                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Neto gravado / IVA / TOTAL                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER AFIP: QR + CAE + Vencimiento                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	appbilling "github.com/jhoicas/afip-mock/internal/application/billing"
	"github.com/jhoicas/afip-mock/internal/domain/entity"
	"github.com/jhoicas/afip-mock/pkg/afip"
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador; importes con formato es-AR.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.MustParse("es-AR"))}
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(ctx context.Context, inv *entity.Invoice, rules *afip.Rules) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	qr, err := afip.NewQRData(inv.CUITEmisor, inv.POS, inv.InvoiceType, inv.InvoiceNumber,
		inv.InvoiceDate, inv.TotalAmount, inv.DocTipo, inv.DocNro, inv.CAE)
	if err != nil {
		return nil, fmt.Errorf("pdf: datos QR: %w", err)
	}
	qrURL, err := qr.QRURL()
	if err != nil {
		return nil, fmt.Errorf("pdf: URL QR: %w", err)
	}

	typeName := fmt.Sprintf("Comprobante %d", inv.InvoiceType)
	if t, ok := rules.InvoiceType(inv.InvoiceType); ok {
		typeName = t.Name
	}
	categoryName := "-"
	if c, ok := rules.TaxCategory(inv.TaxCategory); ok {
		categoryName = c.Name
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(typeName+" "+voucherNumber(inv), true).
		WithAuthor(inv.CUITEmisor, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv, typeName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emisorRow(inv, categoryName))
	m.AddRows(receptorRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(inv))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(afipFooterRow(inv, qrURL))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(inv *entity.Invoice, typeName string) core.Row {
	fecha := inv.InvoiceDate
	if d, ok := afip.ParseDate(inv.InvoiceDate); ok {
		fecha = d.Format("02/01/2006")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(typeName, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Cód. %02d", inv.InvoiceType), props.Text{
				Size: 8, Top: 10, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("N° "+voucherNumber(inv), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 2,
			}),
			text.New("Fecha de emisión: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func emisorRow(inv *entity.Invoice, categoryName string) core.Row {
	cuit, _ := afip.FormatCUIT(inv.CUITEmisor)
	return row.New(12).Add(
		col.New(12).Add(
			text.New("EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("CUIT: %s   |   Condición frente al IVA: %s", cuit, categoryName),
				props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func receptorRow(inv *entity.Invoice) core.Row {
	doc := "Consumidor final sin identificar"
	switch {
	case inv.CUITReceptor != "":
		f, _ := afip.FormatCUIT(inv.CUITReceptor)
		doc = "CUIT: " + f
	case inv.DocNro != "":
		doc = fmt.Sprintf("Documento (%d): %s", inv.DocTipo, inv.DocNro)
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("RECEPTOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(doc, props.Text{Size: 9, Top: 6}),
		),
	)
}

func (g *MarotoPDFGenerator) totalsRow(inv *entity.Invoice) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(s string, right float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: right,
		})
	}

	return row.New(26).Add(
		col.New(4),
		col.New(4).Add(
			label("Importe neto gravado:"),
			label("IVA:"),
			grand("IMPORTE TOTAL:", 2),
		),
		col.New(4).Add(
			value(g.money(inv.BaseAmount())),
			value(g.money(inv.IVAAmount)),
			grand(g.money(inv.TotalAmount), 1),
		),
	)
}

func afipFooterRow(inv *entity.Invoice, qrURL string) core.Row {
	vto := inv.CAEExpiration
	if d, ok := afip.ParseDate(inv.CAEExpiration); ok {
		vto = d.Format("02/01/2006")
	}
	return row.New(45).Add(
		col.New(4).Add(code.NewQr(qrURL, props.Rect{Percent: 95, Center: true})),
		col.New(8).Add(
			text.New("Comprobante Autorizado", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 4, Left: 3, Color: colorPrimary,
			}),
			text.New("CAE N°: "+inv.CAE, props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 14, Left: 3,
			}),
			text.New("Fecha de Vto. de CAE: "+vto, props.Text{
				Size: 9, Top: 20, Left: 3,
			}),
			text.New("Entorno de simulación: este comprobante no tiene validez fiscal.", props.Text{
				Size: 7, Top: 32, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// voucherNumber formato PPPPP-NNNNNNNN.
func voucherNumber(inv *entity.Invoice) string {
	return fmt.Sprintf("%05d-%08d", inv.POS, inv.InvoiceNumber)
}

// money "$ 1.234,56".
func (g *MarotoPDFGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("$ %v", number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}
