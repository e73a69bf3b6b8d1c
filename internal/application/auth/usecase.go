package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/afip-mock/internal/application/dto"
	"github.com/jhoicas/afip-mock/internal/domain"
	"github.com/jhoicas/afip-mock/pkg/afip"
	"github.com/jhoicas/afip-mock/pkg/jwt"
	"github.com/jhoicas/afip-mock/pkg/logger"
)

// SourceCMS marca los tickets emitidos por loginCms.
const SourceCMS = "cms"

// WSAAConfig configuración para generación de tickets.
type WSAAConfig struct {
	Secret       string
	TTL          time.Duration
	Service      string
	Issuer       string
	DefaultCUIT  string // CUIT del ticket cuando loginCms no informa uno
	AuthRequired bool
}

// WSAAUseCase emite y valida tickets de acceso simulados.
type WSAAUseCase struct {
	cfg WSAAConfig
	now func() time.Time
	log *logger.Logger
}

// NewWSAAUseCase construye el caso de uso de autenticación.
func NewWSAAUseCase(cfg WSAAConfig, log *logger.Logger) *WSAAUseCase {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Service == "" {
		cfg.Service = "wsfe"
	}
	if log == nil {
		log = logger.Nop()
	}
	return &WSAAUseCase{cfg: cfg, now: time.Now, log: log.Named("wsaa")}
}

// Login emite un ticket para el CUIT. Solo se exige formato de 11 dígitos.
func (uc *WSAAUseCase) Login(in dto.WSAAAuthRequest) (*dto.TicketResponse, error) {
	raw := in.CUIT.String()
	if raw == "" {
		return nil, fmt.Errorf("%w: CUIT es obligatorio", domain.ErrInvalidInput)
	}
	cuit := afip.CleanCUIT(raw)
	if err := afip.VerifyCUIT(cuit); errors.Is(err, afip.ErrCUITFormat) {
		return nil, fmt.Errorf("%w (XX-XXXXXXXX-X o XXXXXXXXXXX)", err)
	}
	return uc.issue(cuit, "")
}

// LoginCms emite un ticket a partir de un CMS; la firma no se verifica.
func (uc *WSAAUseCase) LoginCms(in dto.WSAALoginCmsRequest) (*dto.TicketResponse, error) {
	if in.CMS == "" {
		return nil, fmt.Errorf("%w: la firma CMS es obligatoria", domain.ErrInvalidInput)
	}
	cuit := afip.CleanCUIT(in.CUIT.String())
	if cuit == "" {
		cuit = uc.cfg.DefaultCUIT
	}
	return uc.issue(cuit, SourceCMS)
}

// Authenticate valida el token y devuelve el CUIT autenticado.
func (uc *WSAAUseCase) Authenticate(token string) (string, error) {
	claims, err := jwt.Parse(uc.cfg.Secret, token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return claims.CUIT, nil
}

// AuthRequired indica si los servicios de negocio exigen token.
func (uc *WSAAUseCase) AuthRequired() bool { return uc.cfg.AuthRequired }

// Status estado del servicio.
func (uc *WSAAUseCase) Status() dto.WSAAStatusResponse {
	return dto.WSAAStatusResponse{
		Status:          "operational",
		Service:         uc.cfg.Service,
		TokenTTLHours:   int(uc.cfg.TTL / time.Hour),
		AuthRequired:    uc.cfg.AuthRequired,
		ServerTimestamp: uc.now().UTC().Format(time.RFC3339),
	}
}

func (uc *WSAAUseCase) issue(cuit, source string) (*dto.TicketResponse, error) {
	ticket, err := jwt.Generate(uc.cfg.Secret, cuit, uc.cfg.Service, uc.cfg.Issuer, uc.now().UTC(), uc.cfg.TTL)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("cuit", cuit).Str("source", source).Time("expiration", ticket.ExpiresAt).Msg("ticket emitido")
	return &dto.TicketResponse{
		Token:       ticket.Token,
		Sign:        uuid.NewString(),
		Expiration:  ticket.ExpiresAt,
		GeneratedAt: ticket.GeneratedAt,
		Service:     uc.cfg.Service,
		CUIT:        cuit,
		Source:      source,
	}, nil
}
