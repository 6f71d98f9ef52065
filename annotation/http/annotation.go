package http

import (
	"context"
	"net/http"
	"strconv"

	kitjwt "github.com/go-kit/kit/auth/jwt"
	kithttp "github.com/go-kit/kit/transport/http"

	"github.com/kanavsharmaa/pdf-annotator/annotation"
	"github.com/kanavsharmaa/pdf-annotator/annotation/endpoints"
	"github.com/kanavsharmaa/pdf-annotator/annotation/services"
	"github.com/kanavsharmaa/pdf-annotator/errors"
	"github.com/kanavsharmaa/pdf-annotator/gin"
	"github.com/kanavsharmaa/pdf-annotator/jwt"
	"github.com/kanavsharmaa/pdf-annotator/users"
)

func RegisterAnnotationEndpoints(srv Server, service *services.AnnotationService, jwtKey []byte) {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(encodeError),
		kithttp.ServerBefore(kitjwt.HTTPToContext()),
	}

	authenticator := users.NewAuthenticator()
	jwtMiddleware := jwt.Middleware(jwtKey)

	// Create endpoint
	ep := endpoints.NewAnnotationEndpoint(service)

	// Fetch annotations handler
	fetchHandler := kithttp.NewServer(
		jwtMiddleware(authenticator.Authenticated(ep.Fetch)),
		decodeFetchRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	// Search annotations handler
	searchHandler := kithttp.NewServer(
		jwtMiddleware(authenticator.Authenticated(ep.Search)),
		decodeSearchRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	// Erase handler
	eraseHandler := kithttp.NewServer(
		jwtMiddleware(authenticator.Annotator(ep.Erase)),
		decodeEraseRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	// Create annotation handler
	createHandler := kithttp.NewServer(
		jwtMiddleware(authenticator.Annotator(ep.Create)),
		decodeCreateRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	// Update annotation handler
	updateHandler := kithttp.NewServer(
		jwtMiddleware(authenticator.Annotator(ep.Update)),
		decodeUpdateRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	// Delete annotation handler
	deleteHandler := kithttp.NewServer(
		jwtMiddleware(authenticator.Annotator(ep.Delete)),
		decodeIDRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	// Register all handlers
	srv.RegisterHandler("/annotation/v1/documents/:id/annotations", "GET", fetchHandler)
	srv.RegisterHandler("/annotation/v1/documents/:id/annotations/search", "GET", searchHandler)
	srv.RegisterHandler("/annotation/v1/documents/:id/erase", "POST", eraseHandler)
	srv.RegisterHandler("/annotation/v1/annotations", "POST", createHandler)
	srv.RegisterHandler("/annotation/v1/annotations/:id", "PUT", updateHandler)
	srv.RegisterHandler("/annotation/v1/annotations/:id", "DELETE", deleteHandler)
}

func decodeIDRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	return gin.Param(ctx, "id"), nil
}

func decodeFetchRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	req := endpoints.FetchRequest{
		DocumentID: gin.Param(ctx, "id"),
	}
	return req, nil
}

func decodeSearchRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	req := endpoints.SearchRequest{
		DocumentID: gin.Param(ctx, "id"),
		Q:          r.URL.Query().Get("q"),
	}
	return req, nil
}

func decodeCreateRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	var draft annotation.Draft
	if err := decodeJSON(r, &draft); err != nil {
		return nil, err
	}

	req := draft
	return req, nil
}

func decodeUpdateRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	var patch annotation.Patch
	if err := decodeJSON(r, &patch); err != nil {
		return nil, err
	}

	req := endpoints.UpdateRequest{
		ID:    gin.Param(ctx, "id"),
		Patch: patch,
	}
	return req, nil
}

func decodeEraseRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	var body struct {
		Page *int     `json:"page"`
		X    *float64 `json:"x"`
		Y    *float64 `json:"y"`
	}
	if err := decodeJSON(r, &body); err != nil {
		return nil, err
	}
	if body.Page == nil || body.X == nil || body.Y == nil {
		return nil, errors.New("missing required fields: page, x, or y", errors.BadRequest())
	}
	if *body.Page < 1 {
		return nil, errors.New("invalid parameter: page "+strconv.Itoa(*body.Page), errors.BadRequest())
	}

	req := endpoints.EraseRequest{
		DocumentID: gin.Param(ctx, "id"),
		Page:       *body.Page,
		Point:      annotation.Point{X: *body.X, Y: *body.Y},
	}
	return req, nil
}
