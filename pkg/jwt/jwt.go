package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims token de acceso WSAA: el subject es el CUIT autenticado.
type Claims struct {
	jwt.RegisteredClaims
	CUIT    string `json:"cuit"`
	Service string `json:"service"`
}

// Ticket token firmado junto con sus fechas.
type Ticket struct {
	Token       string
	GeneratedAt time.Time
	ExpiresAt   time.Time
}

// Generate emite un token HS256 para cuit/service con vigencia ttl a partir de now.
func Generate(secret, cuit, service, issuer string, now time.Time, ttl time.Duration) (Ticket, error) {
	if secret == "" {
		return Ticket{}, errors.New("jwt: secret vacío")
	}
	exp := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   cuit,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		CUIT:    cuit,
		Service: service,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return Ticket{}, fmt.Errorf("jwt: firmar token: %w", err)
	}
	return Ticket{Token: signed, GeneratedAt: now, ExpiresAt: exp}, nil
}

// Parse valida firma y vencimiento y devuelve los claims.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, errors.New("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.CUIT == "" {
		return nil, errors.New("jwt: claims inválidos")
	}
	return claims, nil
}
