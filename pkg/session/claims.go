package session

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Claims es la información que se puede leer de un token JWT sin
// verificarlo. Solo sirve para mostrarla; el servidor es quien decide si
// el token sigue siendo válido.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// ErrOpaqueToken indica que el token no es un JWT legible.
var ErrOpaqueToken = errors.New("token opaco")

// ReadClaims decodifica el token sin comprobar la firma.
func ReadClaims(token string) (Claims, error) {
	var sc jwt.StandardClaims
	if _, _, err := new(jwt.Parser).ParseUnverified(token, &sc); err != nil {
		return Claims{}, ErrOpaqueToken
	}
	c := Claims{Subject: sc.Subject}
	if sc.ExpiresAt != 0 {
		c.ExpiresAt = time.Unix(sc.ExpiresAt, 0)
	}
	if sc.IssuedAt != 0 {
		c.IssuedAt = time.Unix(sc.IssuedAt, 0)
	}
	return c, nil
}
