package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanavsharmaa/pdf-annotator/annotation"
	"github.com/kanavsharmaa/pdf-annotator/annotation/bleve"
	"github.com/kanavsharmaa/pdf-annotator/annotation/bolt"
	"github.com/kanavsharmaa/pdf-annotator/annotation/client"
	"github.com/kanavsharmaa/pdf-annotator/annotation/services"
	"github.com/kanavsharmaa/pdf-annotator/errors"
	"github.com/kanavsharmaa/pdf-annotator/gin"
	"github.com/kanavsharmaa/pdf-annotator/jwt"
	"github.com/kanavsharmaa/pdf-annotator/log"
	"github.com/kanavsharmaa/pdf-annotator/session"
	"github.com/kanavsharmaa/pdf-annotator/users"
)

var key = []byte("test-key")

type fixture struct {
	server  *httptest.Server
	encoder *jwt.EncodeDecoder
}

func createFixture(t *testing.T) *fixture {
	t.Helper()

	driver := &bolt.Driver{}
	require.NoError(t, driver.Open(filepath.Join(t.TempDir(), "annotations.db")))
	t.Cleanup(func() { driver.Close() })

	index := &bleve.Index{}
	require.NoError(t, index.OpenMem())
	t.Cleanup(func() { index.Close() })

	documents := &bolt.DocumentRepository{Driver: driver}
	as := services.NewAnnotationService(&bolt.AnnotationRepository{Driver: driver}, documents, index)
	ds := services.NewDocumentService(documents, as, log.Discard())

	srv := gin.NewServer("test", log.Discard())
	RegisterAnnotationEndpoints(srv, as, key)
	RegisterDocumentEndpoints(srv, ds, key)

	server := httptest.NewServer(srv)
	t.Cleanup(server.Close)

	return &fixture{
		server:  server,
		encoder: jwt.NewEncodeDecoder(key, 0),
	}
}

func (f *fixture) client(t *testing.T, role annotation.Role) *client.Client {
	token, err := f.encoder.Encode(string(role))
	require.NoError(t, err)
	return client.NewClient(f.server.Client(), f.server.URL, token)
}

func TestAnnotations_EndToEnd(t *testing.T) {
	f := createFixture(t)
	ctx := context.Background()

	doc, err := f.client(t, annotation.Admin).CreateDocument(ctx, "paper.pdf")
	require.NoError(t, err)

	_, err = f.client(t, annotation.Annotator1).CreateDocument(ctx, "paper.pdf")
	errors.AssertCode(t, err, http.StatusForbidden)

	d1 := session.New(f.client(t, annotation.Annotator1), users.User{Role: annotation.Annotator1}, doc.ID, log.Discard())
	require.NoError(t, d1.Refresh(ctx))

	// Private highlight on page 2.
	private, err := d1.Create(ctx, annotation.Draft{
		Type: annotation.TypeHighlight,
		Data: annotation.HighlightData{
			PageNumber: 2,
			Text:       "attention is all you need",
			Rects:      []annotation.Rect{{X: 10, Y: 10, Width: 100, Height: 12}},
		},
	})
	require.NoError(t, err)
	assert.False(t, session.IsTemporaryID(private.ID))

	// Comment shared with D2.
	shared := false
	comment, err := d1.Create(ctx, annotation.Draft{
		Type:       annotation.TypeComment,
		Data:       annotation.CommentData{PageNumber: 1, X: 5, Y: 5, Text: "attention"},
		IsPrivate:  &shared,
		Visibility: []annotation.Role{annotation.Annotator2},
	})
	require.NoError(t, err)

	tts := map[annotation.Role][]string{
		annotation.Annotator1: {private.ID, comment.ID},
		annotation.Annotator2: {comment.ID},
		annotation.Admin:      {comment.ID},
		annotation.Reader:     {},
	}
	for role, expected := range tts {
		as, err := f.client(t, role).Fetch(ctx, doc.ID)
		require.NoError(t, err, role)

		got := make([]string, len(as))
		for i, a := range as {
			got[i] = a.ID
		}
		assert.Equal(t, expected, got, role)
	}

	res, err := f.client(t, annotation.Annotator2).Search(ctx, doc.ID, "attention")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, comment.ID, res[0].ID)

	// D2 can see the comment but not delete it.
	d2 := session.New(f.client(t, annotation.Annotator2), users.User{Role: annotation.Annotator2}, doc.ID, log.Discard())
	require.NoError(t, d2.Refresh(ctx))
	err = d2.Delete(ctx, comment.ID)
	errors.AssertCode(t, err, http.StatusForbidden)

	err = f.client(t, annotation.Annotator2).Delete(ctx, comment.ID)
	errors.AssertCode(t, err, http.StatusForbidden)

	// Erase the highlight on the server.
	id, err := f.client(t, annotation.Annotator1).Erase(ctx, doc.ID, 2, annotation.Point{X: 110, Y: 22})
	require.NoError(t, err)
	assert.Equal(t, private.ID, id)

	id, err = f.client(t, annotation.Annotator1).Erase(ctx, doc.ID, 2, annotation.Point{X: 110, Y: 22})
	require.NoError(t, err)
	assert.Empty(t, id)

	n, err := f.client(t, annotation.Admin).DeleteDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAnnotations_UpdateThroughClient(t *testing.T) {
	f := createFixture(t)
	ctx := context.Background()

	doc, err := f.client(t, annotation.Admin).CreateDocument(ctx, "paper.pdf")
	require.NoError(t, err)

	d1 := session.New(f.client(t, annotation.Annotator1), users.User{Role: annotation.Annotator1}, doc.ID, log.Discard())
	require.NoError(t, d1.Refresh(ctx))

	shared := false
	comment, err := d1.Create(ctx, annotation.Draft{
		Type:       annotation.TypeComment,
		Data:       annotation.CommentData{PageNumber: 1, X: 5, Y: 5, Text: "first"},
		IsPrivate:  &shared,
		Visibility: []annotation.Role{annotation.Annotator2},
	})
	require.NoError(t, err)

	as, err := f.client(t, annotation.Annotator2).Fetch(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, as, 1)

	// Clearing the visibility list hides the comment from D2.
	updated, err := d1.Update(ctx, comment.ID, annotation.Patch{Visibility: []annotation.Role{}})
	require.NoError(t, err)
	assert.Empty(t, updated.Visibility)

	as, err = f.client(t, annotation.Annotator2).Fetch(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, as)

	// Data sent without a type is decoded against the stored type.
	updated, err = d1.Update(ctx, comment.ID, annotation.Patch{
		Data: annotation.CommentData{PageNumber: 3, X: 1, Y: 1, Text: "second"},
	})
	require.NoError(t, err)
	assert.Equal(t, "second", updated.Data.(annotation.CommentData).Text)

	as, err = f.client(t, annotation.Annotator1).Fetch(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, as, 1)
	assert.Equal(t, annotation.CommentData{PageNumber: 3, X: 1, Y: 1, Text: "second"}, as[0].Data)
}

func TestAnnotations_Errors(t *testing.T) {
	f := createFixture(t)

	d1Token, err := f.encoder.Encode(string(annotation.Annotator1))
	require.NoError(t, err)
	readerToken, err := f.encoder.Encode(string(annotation.Reader))
	require.NoError(t, err)
	unknownToken, err := f.encoder.Encode("Z9")
	require.NoError(t, err)
	otherKeyToken, err := jwt.NewEncodeDecoder([]byte("other"), 0).Encode(string(annotation.Annotator1))
	require.NoError(t, err)

	doc, err := f.client(t, annotation.Admin).CreateDocument(context.Background(), "paper.pdf")
	require.NoError(t, err)

	documentID := doc.ID
	draft := `{"documentId": "` + documentID + `", "type": "Comment", "data": {"pageNumber": 1, "x": 1, "y": 1, "text": "hi"}}`

	var tts = map[string]struct {
		method string
		path   string
		token  string
		body   string
		code   int
	}{
		"no token":         {"GET", "/annotation/v1/documents/" + documentID + "/annotations", "", "", http.StatusUnauthorized},
		"wrong key":        {"GET", "/annotation/v1/documents/" + documentID + "/annotations", otherKeyToken, "", http.StatusUnauthorized},
		"unknown role":     {"GET", "/annotation/v1/documents/" + documentID + "/annotations", unknownToken, "", http.StatusUnauthorized},
		"bad document id":  {"GET", "/annotation/v1/documents/nope/annotations", d1Token, "", http.StatusBadRequest},
		"reader creates":   {"POST", "/annotation/v1/annotations", readerToken, draft, http.StatusForbidden},
		"invalid json":     {"POST", "/annotation/v1/annotations", d1Token, "{", http.StatusBadRequest},
		"missing fields":   {"POST", "/annotation/v1/annotations", d1Token, `{"type": "Comment"}`, http.StatusBadRequest},
		"created":          {"POST", "/annotation/v1/annotations", d1Token, draft, http.StatusCreated},
		"unknown document": {"POST", "/annotation/v1/annotations", d1Token, strings.Replace(draft, documentID, annotation.NewID(), 1), http.StatusNotFound},
		"unknown id":       {"DELETE", "/annotation/v1/annotations/" + annotation.NewID(), d1Token, "", http.StatusNotFound},
		"erase no page":    {"POST", "/annotation/v1/documents/" + documentID + "/erase", d1Token, `{"x": 1, "y": 1}`, http.StatusBadRequest},
		"reader lists":     {"GET", "/annotation/v1/documents", readerToken, "", http.StatusOK},
		"reader deletes":   {"DELETE", "/annotation/v1/documents/" + documentID, readerToken, "", http.StatusForbidden},
	}

	for name, tt := range tts {
		req, err := http.NewRequest(tt.method, f.server.URL+tt.path, strings.NewReader(tt.body))
		require.NoError(t, err, name)
		if tt.token != "" {
			req.Header.Set("Authorization", "Bearer "+tt.token)
		}

		res, err := f.server.Client().Do(req)
		require.NoError(t, err, name)
		res.Body.Close()

		assert.Equal(t, tt.code, res.StatusCode, name)
	}
}

func TestClient_Unavailable(t *testing.T) {
	f := createFixture(t)
	c := f.client(t, annotation.Annotator1)
	f.server.Close()

	_, err := c.Fetch(context.Background(), annotation.NewID())
	errors.AssertCode(t, err, http.StatusServiceUnavailable)
}
