package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/afip-mock/internal/application/auth"
	"github.com/jhoicas/afip-mock/internal/application/dto"
)

// WSAAHandler endpoints de autenticación simulada.
type WSAAHandler struct {
	uc *auth.WSAAUseCase
}

// NewWSAAHandler construye el handler de WSAA.
func NewWSAAHandler(uc *auth.WSAAUseCase) *WSAAHandler {
	return &WSAAHandler{uc: uc}
}

// Auth godoc
// @Summary      Obtener ticket de acceso
// @Tags         wsaa
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WSAAAuthRequest  true  "cuit"
// @Success      200   {object}  dto.TicketResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /wsaa/auth [post]
func (h *WSAAHandler) Auth(c *fiber.Ctx) error {
	var in dto.WSAAAuthRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Login(in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// LoginCms godoc
// @Summary      Login con CMS (firma no verificada)
// @Tags         wsaa
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WSAALoginCmsRequest  true  "cms"
// @Success      200   {object}  dto.TicketResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /wsaa/loginCms [post]
func (h *WSAAHandler) LoginCms(c *fiber.Ctx) error {
	var in dto.WSAALoginCmsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.LoginCms(in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Status GET /wsaa/status
func (h *WSAAHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.uc.Status())
}
