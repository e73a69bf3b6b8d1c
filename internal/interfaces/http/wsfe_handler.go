package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/afip-mock/internal/application/billing"
	"github.com/jhoicas/afip-mock/internal/application/dto"
)

// WSFEHandler endpoints de facturación electrónica WSFEv1.
type WSFEHandler struct {
	uc          *billing.WSFEUseCase
	defaultCUIT string
}

// NewWSFEHandler construye el handler. defaultCUIT es el emisor cuando la
// petición no trae token ni bloque Auth.
func NewWSFEHandler(uc *billing.WSFEUseCase, defaultCUIT string) *WSFEHandler {
	return &WSFEHandler{uc: uc, defaultCUIT: defaultCUIT}
}

// FECAESolicitar godoc
// @Summary      Solicitar CAE para un lote de comprobantes
// @Tags         wsfev1
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FECAESolicitarRequest  true  "Auth, FeCAEReq"
// @Success      200   {object}  dto.FECAESolicitarResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /wsfev1/FECAESolicitar [post]
func (h *WSFEHandler) FECAESolicitar(c *fiber.Ctx) error {
	var in dto.FECAESolicitarRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SolicitarCAE(c.UserContext(), h.issuerCUIT(c, in.Auth), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// FECompUltimoAutorizado GET /wsfev1/FECompUltimoAutorizado?pos=&tipo_cbte=
func (h *WSFEHandler) FECompUltimoAutorizado(c *fiber.Ctx) error {
	out, err := h.uc.UltimoAutorizado(c.UserContext(), c.QueryInt("pos"), c.QueryInt("tipo_cbte"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// FECompConsultar GET /wsfev1/FECompConsultar?cae= | ?pos=&invoice_number=
func (h *WSFEHandler) FECompConsultar(c *fiber.Ctx) error {
	out, err := h.uc.Consultar(c.UserContext(), c.Query("cae"), c.QueryInt("pos"), int64(c.QueryInt("invoice_number")))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// FEParamGetPtosVenta POST /wsfev1/FEParamGetPtosVenta
func (h *WSFEHandler) FEParamGetPtosVenta(c *fiber.Ctx) error {
	out, err := h.uc.PuntosDeVenta(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// FEParamGetTiposCbte POST /wsfev1/FEParamGetTiposCbte
func (h *WSFEHandler) FEParamGetTiposCbte(c *fiber.Ctx) error {
	return c.JSON(h.uc.TiposComprobante())
}

// FEParamGetCondicionIvaReceptor POST /wsfev1/FEParamGetCondicionIvaReceptor
func (h *WSFEHandler) FEParamGetCondicionIvaReceptor(c *fiber.Ctx) error {
	return c.JSON(h.uc.CondicionesIva())
}

// issuerCUIT token WSAA, luego bloque Auth, luego el CUIT por defecto.
func (h *WSFEHandler) issuerCUIT(c *fiber.Ctx, a *dto.WSAuth) string {
	if cuit := GetCUIT(c); cuit != "" {
		return cuit
	}
	if a != nil && a.Cuit.String() != "" {
		return a.Cuit.String()
	}
	return h.defaultCUIT
}
