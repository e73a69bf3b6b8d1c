package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/afip-mock/internal/application/dto"
	"github.com/jhoicas/afip-mock/internal/application/validation"
)

// ValidationHandler validación de CUIT y padrón A5 simulado.
type ValidationHandler struct {
	uc *validation.UseCase
}

// NewValidationHandler construye el handler.
func NewValidationHandler(uc *validation.UseCase) *ValidationHandler {
	return &ValidationHandler{uc: uc}
}

// ValidateCUIT godoc
// @Summary      Validar dígito verificador de CUIT/CUIL
// @Tags         validation
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateCUITRequest  true  "cuit"
// @Success      200   {object}  dto.CUITValidationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /validate/cuit [post]
func (h *ValidationHandler) ValidateCUIT(c *fiber.Ctx) error {
	var in dto.ValidateCUITRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.validate(c, in.CUIT.String())
}

// ValidateCUITParam GET /validate/cuit/:cuit
func (h *ValidationHandler) ValidateCUITParam(c *fiber.Ctx) error {
	return h.validate(c, c.Params("cuit"))
}

func (h *ValidationHandler) validate(c *fiber.Ctx, raw string) error {
	out, err := h.uc.ValidateCUIT(raw)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetPersona POST /ws_sr_padron_a5/getPersona
func (h *ValidationHandler) GetPersona(c *fiber.Ctx) error {
	var in dto.GetPersonaRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.GetPersona(in.CUIT.String())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetPersonaList POST /ws_sr_padron_a5/getPersonaList
func (h *ValidationHandler) GetPersonaList(c *fiber.Ctx) error {
	var in dto.GetPersonaListRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	raws := make([]string, 0, len(in.CUITs))
	for _, cuit := range in.CUITs {
		raws = append(raws, cuit.String())
	}
	out, err := h.uc.GetPersonaList(raws)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
