package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/kanavsharmaa/pdf-annotator/annotation"
	"github.com/kanavsharmaa/pdf-annotator/errors"
)

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Client calls the annotation service on behalf of the role its token was
// issued for.
type Client struct {
	baseURL string
	client  HTTPClient
	token   string
}

func NewClient(c HTTPClient, baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  c,
		token:   token,
	}
}

func (c *Client) Fetch(ctx context.Context, documentID string) ([]annotation.Annotation, error) {
	var as []annotation.Annotation
	path := fmt.Sprintf("/annotation/v1/documents/%s/annotations", url.PathEscape(documentID))
	if err := c.do(ctx, "GET", path, nil, &as); err != nil {
		return nil, err
	}
	return as, nil
}

func (c *Client) Search(ctx context.Context, documentID, q string) ([]annotation.Annotation, error) {
	var as []annotation.Annotation
	path := fmt.Sprintf("/annotation/v1/documents/%s/annotations/search?q=%s", url.PathEscape(documentID), url.QueryEscape(q))
	if err := c.do(ctx, "GET", path, nil, &as); err != nil {
		return nil, err
	}
	return as, nil
}

func (c *Client) Create(ctx context.Context, draft annotation.Draft) (annotation.Annotation, error) {
	var a annotation.Annotation
	if err := c.do(ctx, "POST", "/annotation/v1/annotations", draft, &a); err != nil {
		return annotation.Annotation{}, err
	}
	return a, nil
}

func (c *Client) Update(ctx context.Context, id string, patch annotation.Patch) (annotation.Annotation, error) {
	var a annotation.Annotation
	path := fmt.Sprintf("/annotation/v1/annotations/%s", url.PathEscape(id))
	if err := c.do(ctx, "PUT", path, patch, &a); err != nil {
		return annotation.Annotation{}, err
	}
	return a, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	path := fmt.Sprintf("/annotation/v1/annotations/%s", url.PathEscape(id))
	return c.do(ctx, "DELETE", path, nil, nil)
}

// Erase asks the service to erase at p on page. It returns the id of the
// deleted annotation, or "" if nothing was hit.
func (c *Client) Erase(ctx context.Context, documentID string, page int, p annotation.Point) (string, error) {
	body := map[string]interface{}{
		"page": page,
		"x":    p.X,
		"y":    p.Y,
	}

	var res *struct {
		ID string `json:"id"`
	}
	path := fmt.Sprintf("/annotation/v1/documents/%s/erase", url.PathEscape(documentID))
	if err := c.do(ctx, "POST", path, body, &res); err != nil {
		return "", err
	}
	if res == nil {
		return "", nil
	}
	return res.ID, nil
}

func (c *Client) Documents(ctx context.Context) ([]annotation.Document, error) {
	var docs []annotation.Document
	if err := c.do(ctx, "GET", "/annotation/v1/documents", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *Client) CreateDocument(ctx context.Context, fileName string) (annotation.Document, error) {
	var doc annotation.Document
	body := map[string]string{"fileName": fileName}
	if err := c.do(ctx, "POST", "/annotation/v1/documents", body, &doc); err != nil {
		return annotation.Document{}, err
	}
	return doc, nil
}

// DeleteDocument deletes a document and returns the number of annotations
// deleted with it.
func (c *Client) DeleteDocument(ctx context.Context, id string) (int, error) {
	var res struct {
		DeletedAnnotations int `json:"deletedAnnotations"`
	}
	path := fmt.Sprintf("/annotation/v1/documents/%s", url.PathEscape(id))
	if err := c.do(ctx, "DELETE", path, nil, &res); err != nil {
		return 0, err
	}
	return res.DeletedAnnotations, nil
}

// do sends a request and decodes the data field of the response into out.
// Transport failures are returned as 503 errors, error responses carry the
// status code and message sent by the service.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf := bytes.Buffer{}
		if err := json.NewEncoder(&buf).Encode(in); err != nil {
			return err
		}
		body = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.client.Do(req)
	if err != nil {
		return errors.New("could not reach the annotation service", errors.Unavailable(), errors.WithCause(err))
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return decodeError(res)
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}

	resBody := struct {
		Data interface{} `json:"data"`
	}{Data: out}
	if err := json.NewDecoder(res.Body).Decode(&resBody); err != nil {
		return errors.New("invalid response from the annotation service", errors.Unavailable(), errors.WithCause(err))
	}
	return nil
}

func decodeError(res *http.Response) error {
	var callErr struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&callErr); err != nil || callErr.Error == "" {
		return errors.New(http.StatusText(res.StatusCode), errors.WithCode(res.StatusCode))
	}

	return errors.New(callErr.Error, errors.WithCode(res.StatusCode))
}
