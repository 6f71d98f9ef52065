package jwt

import (
	"context"

	"github.com/dgrijalva/jwt-go"

	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/go-kit/kit/endpoint"

	"github.com/kanavsharmaa/pdf-annotator/errors"
)

// Middleware parses the token put in the context by the transport and stores
// its Claims in the context under kitjwt.JWTClaimsContextKey. Any parsing
// failure is returned as a 401 error.
func Middleware(key []byte) endpoint.Middleware {
	parser := kitjwt.NewParser(func(token *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.SigningMethodHS256, func() jwt.Claims {
		return &Claims{}
	})

	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			parsed := false
			res, err := parser(func(ctx context.Context, req interface{}) (interface{}, error) {
				parsed = true
				return next(ctx, req)
			})(ctx, req)

			if err != nil && !parsed {
				return nil, errors.New("invalid token", errors.Unauthorized(), errors.WithCause(err))
			}
			return res, err
		}
	}
}
