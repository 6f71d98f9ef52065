package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kanavsharmaa/pdf-annotator/annotation"
	"github.com/kanavsharmaa/pdf-annotator/annotation/bleve"
	"github.com/kanavsharmaa/pdf-annotator/annotation/bolt"
	"github.com/kanavsharmaa/pdf-annotator/log"
	"github.com/kanavsharmaa/pdf-annotator/users"
)

const documentID = "6f1c1a52-3d3e-4c8b-9a0e-1f2d3c4b5a69"

var (
	admin  = users.User{Role: annotation.Admin}
	d1     = users.User{Role: annotation.Annotator1}
	d2     = users.User{Role: annotation.Annotator2}
	reader = users.User{Role: annotation.Reader}
)

type fixture struct {
	annotations *AnnotationService
	documents   *DocumentService
	repository  *bolt.AnnotationRepository
	docs        *bolt.DocumentRepository
	index       *bleve.Index
}

func createFixture(t *testing.T) *fixture {
	t.Helper()

	driver := &bolt.Driver{}
	require.NoError(t, driver.Open(filepath.Join(t.TempDir(), "annotations.db")))
	t.Cleanup(func() { driver.Close() })

	index := &bleve.Index{}
	require.NoError(t, index.OpenMem())
	t.Cleanup(func() { index.Close() })

	// Every fixture starts with the document annotations are attached to.
	documents := &bolt.DocumentRepository{Driver: driver}
	require.NoError(t, documents.Insert(&annotation.Document{
		ID:           documentID,
		FileName:     "fixture.pdf",
		UploaderRole: annotation.Admin,
	}))

	repo := &bolt.AnnotationRepository{Driver: driver}
	as := NewAnnotationService(repo, documents, index)
	ds := NewDocumentService(documents, as, log.Discard())

	return &fixture{
		annotations: as,
		documents:   ds,
		repository:  repo,
		docs:        documents,
		index:       index,
	}
}

func boolPtr(b bool) *bool { return &b }

func highlightDraft(page int, text string, rect annotation.Rect) annotation.Draft {
	return annotation.Draft{
		DocumentID: documentID,
		Type:       annotation.TypeHighlight,
		Data: annotation.HighlightData{
			PageNumber: page,
			Text:       text,
			Color:      "#ffff00",
			Rects:      []annotation.Rect{rect},
		},
	}
}

func commentDraft(page int, text string) annotation.Draft {
	return annotation.Draft{
		DocumentID: documentID,
		Type:       annotation.TypeComment,
		Data: annotation.CommentData{
			PageNumber: page,
			X:          10,
			Y:          10,
			Text:       text,
			Color:      "#ff0000",
		},
	}
}

func ids(as []annotation.Annotation) []string {
	res := make([]string, len(as))
	for i, a := range as {
		res[i] = a.ID
	}
	return res
}
