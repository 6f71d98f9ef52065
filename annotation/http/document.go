package http

import (
	"context"
	"net/http"

	kitjwt "github.com/go-kit/kit/auth/jwt"
	kithttp "github.com/go-kit/kit/transport/http"

	"github.com/kanavsharmaa/pdf-annotator/annotation/endpoints"
	"github.com/kanavsharmaa/pdf-annotator/annotation/services"
	"github.com/kanavsharmaa/pdf-annotator/jwt"
	"github.com/kanavsharmaa/pdf-annotator/users"
)

func RegisterDocumentEndpoints(srv Server, service *services.DocumentService, jwtKey []byte) {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(encodeError),
		kithttp.ServerBefore(kitjwt.HTTPToContext()),
	}

	authenticator := users.NewAuthenticator()
	jwtMiddleware := jwt.Middleware(jwtKey)

	// Create endpoint
	ep := endpoints.NewDocumentEndpoint(service)

	// List documents handler
	listHandler := kithttp.NewServer(
		jwtMiddleware(authenticator.Authenticated(ep.List)),
		decodeEmptyRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	// Create document handler
	createHandler := kithttp.NewServer(
		jwtMiddleware(authenticator.Admin(ep.Create)),
		decodeCreateDocumentRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	// Delete document handler
	deleteHandler := kithttp.NewServer(
		jwtMiddleware(authenticator.Admin(ep.Delete)),
		decodeIDRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	// Register all handlers
	srv.RegisterHandler("/annotation/v1/documents", "GET", listHandler)
	srv.RegisterHandler("/annotation/v1/documents", "POST", createHandler)
	srv.RegisterHandler("/annotation/v1/documents/:id", "DELETE", deleteHandler)
}

func decodeCreateDocumentRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	var req endpoints.CreateDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	return req, nil
}

func decodeEmptyRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	return nil, nil
}
