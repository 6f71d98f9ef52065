package jwt

import (
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/kanavsharmaa/pdf-annotator/errors"
)

const issuer = "pdf-annotator"

// Claims identify the bearer by role.
type Claims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

type EncodeDecoder struct {
	key []byte
	ttl time.Duration
}

// NewEncodeDecoder returns an encoder signing tokens with key. Tokens expire
// after ttl, or never if ttl is 0.
func NewEncodeDecoder(key []byte, ttl time.Duration) *EncodeDecoder {
	return &EncodeDecoder{
		key: key,
		ttl: ttl,
	}
}

func (e *EncodeDecoder) Encode(role string) (string, error) {
	claims := Claims{
		Role: role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt: time.Now().Unix(),
			Issuer:   issuer,
		},
	}
	if e.ttl != 0 {
		claims.ExpiresAt = time.Now().Add(e.ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(e.key)
}

func (e *EncodeDecoder) Decode(bearer string) (string, error) {
	claims := Claims{}

	token, err := jwt.ParseWithClaims(bearer, &claims, e.keyFunc)
	if err != nil {
		return "", errors.New("invalid token", errors.Unauthorized(), errors.WithCause(err))
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims.Role, nil
	}

	return "", errors.New("could not get claims", errors.Unauthorized())
}

func (e *EncodeDecoder) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method", errors.Unauthorized())
	}
	return e.key, nil
}
