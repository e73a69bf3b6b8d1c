package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/afip-mock/internal/application/billing"
	"github.com/jhoicas/afip-mock/internal/application/dto"
	"github.com/jhoicas/afip-mock/internal/domain"
	"github.com/jhoicas/afip-mock/internal/domain/entity"
	"github.com/jhoicas/afip-mock/internal/domain/repository"
)

// InvoiceHandler API JSON directa sobre el servicio de emisión.
type InvoiceHandler struct {
	invoices *billing.InvoiceService
	pdf      *billing.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(invoices *billing.InvoiceService, pdf *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, pdf: pdf}
}

// Create godoc
// @Summary      Emitir comprobante
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "comprobante"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	req := in.ToEntity()
	if cuit := GetCUIT(c); cuit != "" {
		req.CUITEmisor = cuit
	}
	inv, err := h.invoices.Issue(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewInvoiceResponse(inv))
}

// List GET /api/invoices?cuit_emisor= | ?from=&to= con limit, offset, order_by, order.
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return fmt.Errorf("%w: parámetros de paginación", domain.ErrInvalidInput)
	}
	opts := repository.ListOptions{
		Limit:   page.Limit,
		Offset:  page.Offset,
		OrderBy: page.OrderBy,
		Asc:     strings.EqualFold(page.Order, "asc"),
	}

	var (
		list []*entity.Invoice
		err  error
	)
	cuit := c.Query("cuit_emisor")
	from, to := c.Query("from"), c.Query("to")
	switch {
	case cuit != "":
		list, err = h.invoices.ListByIssuer(c.UserContext(), cuit, opts)
		opts = opts.Normalize(repository.OrderByCreatedAt)
	case from != "" && to != "":
		list, err = h.invoices.ListByDateRange(c.UserContext(), from, to, opts)
		opts = opts.Normalize(repository.OrderByInvoiceDate)
	default:
		return fmt.Errorf("%w: se requiere cuit_emisor o from y to", domain.ErrInvalidInput)
	}
	if err != nil {
		return err
	}

	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, dto.NewInvoiceResponse(inv))
	}
	return c.JSON(dto.InvoiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: opts.Limit, Offset: opts.Offset, Count: len(items)},
	})
}

// Stats GET /api/invoices/stats?cuit_emisor=
func (h *InvoiceHandler) Stats(c *fiber.Ctx) error {
	cuit := c.Query("cuit_emisor")
	if cuit == "" {
		cuit = GetCUIT(c)
	}
	if cuit == "" {
		return fmt.Errorf("%w: cuit_emisor es obligatorio", domain.ErrInvalidInput)
	}
	st, err := h.invoices.Stats(c.UserContext(), cuit)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewInvoiceStatsResponse(st))
}

// PDF GET /api/invoices/:cae/pdf
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdf.DownloadInvoicePDF(c.UserContext(), c.Params("cae"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}
