package endpoints

import (
	"context"

	"github.com/kanavsharmaa/pdf-annotator/annotation/services"
	"github.com/kanavsharmaa/pdf-annotator/users"
)

type DocumentEndpoint struct {
	service *services.DocumentService
}

func NewDocumentEndpoint(service *services.DocumentService) *DocumentEndpoint {
	return &DocumentEndpoint{
		service: service,
	}
}

type CreateDocumentRequest struct {
	FileName string `json:"fileName"`
}

func (ep *DocumentEndpoint) List(ctx context.Context, r interface{}) (interface{}, error) {
	user, err := users.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	docs, err := ep.service.List(user)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": docs,
	}, nil
}

func (ep *DocumentEndpoint) Create(ctx context.Context, r interface{}) (interface{}, error) {
	user, err := users.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	req, ok := r.(CreateDocumentRequest)
	if !ok {
		return nil, errInvalidRequest
	}

	doc, err := ep.service.Create(user, req.FileName)
	if err != nil {
		return nil, err
	}

	return created{Data: doc}, nil
}

func (ep *DocumentEndpoint) Delete(ctx context.Context, r interface{}) (interface{}, error) {
	user, err := users.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	id, ok := r.(string)
	if !ok {
		return nil, errInvalidRequest
	}

	n, err := ep.service.Delete(user, id)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": map[string]interface{}{
			"id":                 id,
			"deletedAnnotations": n,
		},
	}, nil
}
