package endpoints

import (
	"context"
	"net/http"

	"github.com/kanavsharmaa/pdf-annotator/annotation"
	"github.com/kanavsharmaa/pdf-annotator/annotation/services"
	"github.com/kanavsharmaa/pdf-annotator/errors"
	"github.com/kanavsharmaa/pdf-annotator/users"
)

// Variables and functions for specific errors
var (
	errInvalidRequest = errors.New("invalid request", errors.BadRequest())
)

type AnnotationEndpoint struct {
	service *services.AnnotationService
}

func NewAnnotationEndpoint(service *services.AnnotationService) *AnnotationEndpoint {
	return &AnnotationEndpoint{
		service: service,
	}
}

type FetchRequest struct {
	DocumentID string
}

type SearchRequest struct {
	DocumentID string
	Q          string
}

type UpdateRequest struct {
	ID    string
	Patch annotation.Patch
}

type EraseRequest struct {
	DocumentID string
	Page       int
	Point      annotation.Point
}

func (ep *AnnotationEndpoint) Fetch(ctx context.Context, r interface{}) (interface{}, error) {
	user, err := users.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	req, ok := r.(FetchRequest)
	if !ok {
		return nil, errInvalidRequest
	}

	as, err := ep.service.Fetch(user, req.DocumentID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": as,
	}, nil
}

func (ep *AnnotationEndpoint) Search(ctx context.Context, r interface{}) (interface{}, error) {
	user, err := users.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	req, ok := r.(SearchRequest)
	if !ok {
		return nil, errInvalidRequest
	}

	as, err := ep.service.Search(user, req.DocumentID, req.Q)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": as,
	}, nil
}

func (ep *AnnotationEndpoint) Create(ctx context.Context, r interface{}) (interface{}, error) {
	user, err := users.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	draft, ok := r.(annotation.Draft)
	if !ok {
		return nil, errInvalidRequest
	}

	a, err := ep.service.Create(user, draft)
	if err != nil {
		return nil, err
	}

	return created{Data: a}, nil
}

func (ep *AnnotationEndpoint) Update(ctx context.Context, r interface{}) (interface{}, error) {
	user, err := users.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	req, ok := r.(UpdateRequest)
	if !ok {
		return nil, errInvalidRequest
	}

	a, err := ep.service.Update(user, req.ID, req.Patch)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": a,
	}, nil
}

func (ep *AnnotationEndpoint) Delete(ctx context.Context, r interface{}) (interface{}, error) {
	user, err := users.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	id, ok := r.(string)
	if !ok {
		return nil, errInvalidRequest
	}

	err = ep.service.Delete(user, id)
	if err != nil {
		return nil, err
	}

	return statusCoder{code: http.StatusNoContent}, nil
}

// Erase answers with the id of the deleted annotation, or null when the
// gesture hit nothing.
func (ep *AnnotationEndpoint) Erase(ctx context.Context, r interface{}) (interface{}, error) {
	user, err := users.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	req, ok := r.(EraseRequest)
	if !ok {
		return nil, errInvalidRequest
	}

	id, err := ep.service.Erase(user, req.DocumentID, req.Page, req.Point)
	if err != nil {
		return nil, err
	}

	var data interface{}
	if id != "" {
		data = map[string]string{"id": id}
	}
	return map[string]interface{}{
		"data": data,
	}, nil
}

// statusCoder is useful to return http responses with a status that is not 200 but is not
// an error either.
type statusCoder struct {
	code int
}

func (s statusCoder) StatusCode() int { return s.code }

// created wraps the data of a 201 response.
type created struct {
	Data interface{} `json:"data"`
}

func (created) StatusCode() int { return http.StatusCreated }
