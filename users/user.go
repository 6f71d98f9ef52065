package users

import (
	"context"

	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/go-kit/kit/endpoint"

	"github.com/kanavsharmaa/pdf-annotator/annotation"
	"github.com/kanavsharmaa/pdf-annotator/errors"
	"github.com/kanavsharmaa/pdf-annotator/jwt"
)

type contextKey string

const userContextKey contextKey = "user"

// User is the authenticated caller. Every service operation receives one.
type User struct {
	Role annotation.Role
}

// NewContext returns a copy of ctx carrying user.
func NewContext(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func FromContext(ctx context.Context) (User, error) {
	v := ctx.Value(userContextKey)
	if v == nil {
		return User{}, errors.New("no user", errors.Unauthorized())
	}

	user, ok := v.(User)
	if !ok {
		return User{}, errors.New("invalid user", errors.Unauthorized())
	}

	return user, nil
}

func extractRole(ctx context.Context) (annotation.Role, error) {
	claims := ctx.Value(kitjwt.JWTClaimsContextKey)
	if claims == nil {
		return "", errors.New("no user", errors.Unauthorized())
	}

	roleClaims, ok := claims.(*jwt.Claims)
	if !ok {
		return "", errors.New("invalid claims", errors.Unauthorized())
	}

	role, err := annotation.ParseRole(roleClaims.Role)
	if err != nil {
		return "", errors.New("unauthorized: invalid user role", errors.Unauthorized(), errors.WithCause(err))
	}
	return role, nil
}

// Authenticator turns the token claims parsed by jwt.Middleware into a User.
type Authenticator struct{}

func NewAuthenticator() *Authenticator {
	return &Authenticator{}
}

// Authenticated lets any known role through.
func (a *Authenticator) Authenticated(next endpoint.Endpoint) endpoint.Endpoint {
	return a.require(next, func(annotation.Role) bool { return true }, "")
}

// Annotator only lets through the roles that can annotate.
func (a *Authenticator) Annotator(next endpoint.Endpoint) endpoint.Endpoint {
	return a.require(next, annotation.Role.CanAnnotate, "access forbidden: you do not have permission to annotate")
}

// Admin only lets the admin through.
func (a *Authenticator) Admin(next endpoint.Endpoint) endpoint.Endpoint {
	return a.require(next, annotation.Role.IsAdmin, "admin only")
}

func (a *Authenticator) require(next endpoint.Endpoint, allowed func(annotation.Role) bool, msg string) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		role, err := extractRole(ctx)
		if err != nil {
			return nil, err
		}

		if !allowed(role) {
			return nil, errors.New(msg, errors.Forbidden())
		}

		return next(NewContext(ctx, User{Role: role}), req)
	}
}
