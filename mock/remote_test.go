package mock

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanavsharmaa/pdf-annotator/annotation"
	"github.com/kanavsharmaa/pdf-annotator/errors"
)

const documentID = "6f1c1a52-3d3e-4c8b-9a0e-1f2d3c4b5a69"

func TestRemote(t *testing.T) {
	ctx := context.Background()
	r := NewRemote(annotation.Annotator1)

	a, err := r.Create(ctx, annotation.Draft{
		DocumentID: documentID,
		Type:       annotation.TypeComment,
		Data:       annotation.CommentData{PageNumber: 1, Text: "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, annotation.Annotator1, a.CreatedBy)
	assert.True(t, a.IsPrivate)

	as, err := r.Fetch(ctx, documentID)
	require.NoError(t, err)
	assert.Len(t, as, 1)

	as, err = r.Fetch(ctx, annotation.NewID())
	require.NoError(t, err)
	assert.Empty(t, as, "other documents are filtered out")

	shared := false
	a, err = r.Update(ctx, a.ID, annotation.Patch{IsPrivate: &shared})
	require.NoError(t, err)
	assert.False(t, a.IsPrivate)

	require.NoError(t, r.Delete(ctx, a.ID))
	errors.AssertCode(t, r.Delete(ctx, a.ID), http.StatusNotFound)

	_, err = r.Update(ctx, a.ID, annotation.Patch{})
	errors.AssertCode(t, err, http.StatusNotFound)

	r.Fail = fmt.Errorf("down")
	assert.Error(t, r.Delete(ctx, a.ID))
	assert.Equal(t, 6, r.Calls())
}
