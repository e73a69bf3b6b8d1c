package billing

import (
	"context"
	"fmt"
)

// PDFUseCase genera la representación impresa de un comprobante autorizado.
type PDFUseCase struct {
	invoices  *InvoiceService
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(invoices *InvoiceService, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{invoices: invoices, generator: generator}
}

// DownloadInvoicePDF busca el comprobante por CAE y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrInvalidInput     si el CAE no tiene 14 dígitos.
//   - domain.ErrNotFound         si no existe.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, cae string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoices.GetByCAE(ctx, cae)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, uc.invoices.Rules())
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("comprobante_%02d_%05d-%08d.pdf", inv.InvoiceType, inv.POS, inv.InvoiceNumber)
	return pdfBytes, filename, nil
}
