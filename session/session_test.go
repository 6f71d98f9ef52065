package session

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanavsharmaa/pdf-annotator/annotation"
	"github.com/kanavsharmaa/pdf-annotator/errors"
	"github.com/kanavsharmaa/pdf-annotator/log"
	"github.com/kanavsharmaa/pdf-annotator/mock"
	"github.com/kanavsharmaa/pdf-annotator/users"
)

const documentID = "6f1c1a52-3d3e-4c8b-9a0e-1f2d3c4b5a69"

func comment(id string, author annotation.Role, text string) annotation.Annotation {
	return annotation.Annotation{
		ID:         id,
		DocumentID: documentID,
		CreatedBy:  author,
		Type:       annotation.TypeComment,
		Data:       annotation.CommentData{PageNumber: 1, X: 1, Y: 1, Text: text},
		IsPrivate:  true,
		Visibility: []annotation.Role{},
	}
}

func highlight(id string, author annotation.Role, rect annotation.Rect) annotation.Annotation {
	return annotation.Annotation{
		ID:         id,
		DocumentID: documentID,
		CreatedBy:  author,
		Type:       annotation.TypeHighlight,
		Data:       annotation.HighlightData{PageNumber: 1, Text: "text", Rects: []annotation.Rect{rect}},
		IsPrivate:  false,
		Visibility: []annotation.Role{annotation.Annotator1, annotation.Annotator2},
	}
}

func draft(text string) annotation.Draft {
	return annotation.Draft{
		Type: annotation.TypeComment,
		Data: annotation.CommentData{PageNumber: 1, X: 5, Y: 5, Text: text},
	}
}

func newSession(t *testing.T, r *mock.Remote, role annotation.Role) *Session {
	s := New(r, users.User{Role: role}, documentID, log.Discard())
	require.NoError(t, s.Refresh(context.Background()))
	return s
}

func ids(as []annotation.Annotation) []string {
	res := make([]string, len(as))
	for i, a := range as {
		res[i] = a.ID
	}
	return res
}

func TestSession_Refresh(t *testing.T) {
	r := mock.NewRemote(annotation.Annotator1,
		comment("a", annotation.Annotator1, "mine"),
		comment("b", annotation.Annotator2, "private to D2"),
		highlight("c", annotation.Annotator2, annotation.Rect{Width: 1, Height: 1}),
	)

	s := newSession(t, r, annotation.Annotator1)
	assert.Equal(t, []string{"a", "c"}, ids(s.Annotations()), "the fetched set is filtered again locally")

	s = newSession(t, r, annotation.Reader)
	assert.Empty(t, s.Annotations())
}

func TestSession_Create_Commit(t *testing.T) {
	r := mock.NewRemote(annotation.Annotator1, comment("a", annotation.Annotator1, "first"))
	s := newSession(t, r, annotation.Annotator1)

	a, err := s.Create(context.Background(), draft("second"))
	require.NoError(t, err)
	assert.False(t, IsTemporaryID(a.ID))

	got := s.Annotations()
	require.Len(t, got, 2, "the temporary record is replaced, not duplicated")
	assert.Equal(t, "a", got[0].ID)
	if diff := cmp.Diff(a, got[1]); diff != "" {
		t.Errorf("committed annotation mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_Create_Rollback(t *testing.T) {
	r := mock.NewRemote(annotation.Annotator1, comment("a", annotation.Annotator1, "first"))
	s := newSession(t, r, annotation.Annotator1)
	before := s.Annotations()

	r.Fail = fmt.Errorf("connection refused")
	_, err := s.Create(context.Background(), draft("second"))
	errors.AssertCode(t, err, http.StatusServiceUnavailable)

	if diff := cmp.Diff(before, s.Annotations()); diff != "" {
		t.Errorf("set changed after rollback (-want +got):\n%s", diff)
	}
}

func TestSession_Create_Optimistic(t *testing.T) {
	r := mock.NewRemote(annotation.Annotator1)
	r.Hold = make(chan struct{})
	s := newSession(t, r, annotation.Annotator1)

	done := make(chan error)
	go func() {
		_, err := s.Create(context.Background(), draft("pending"))
		done <- err
	}()

	require.Eventually(t, func() bool { return len(s.Annotations()) == 1 }, time.Second, time.Millisecond)
	temp := s.Annotations()[0]
	assert.True(t, IsTemporaryID(temp.ID))
	assert.True(t, temp.IsPrivate)

	// A pending annotation cannot be targeted.
	assert.Equal(t, ErrPending, s.Delete(context.Background(), temp.ID))

	close(r.Hold)
	require.NoError(t, <-done)

	got := s.Annotations()
	require.Len(t, got, 1)
	assert.False(t, IsTemporaryID(got[0].ID))
}

func TestSession_Create_Validation(t *testing.T) {
	r := mock.NewRemote(annotation.Annotator1)
	s := newSession(t, r, annotation.Annotator1)

	_, err := s.Create(context.Background(), annotation.Draft{Type: annotation.TypeComment})
	errors.AssertCode(t, err, http.StatusBadRequest)

	other := draft("text")
	other.DocumentID = annotation.NewID()
	_, err = s.Create(context.Background(), other)
	errors.AssertCode(t, err, http.StatusBadRequest)

	assert.Empty(t, s.Annotations(), "no optimistic state on validation errors")
	assert.Equal(t, 0, r.Calls())

	s = newSession(t, r, annotation.Reader)
	_, err = s.Create(context.Background(), draft("text"))
	errors.AssertCode(t, err, http.StatusForbidden)
}

func TestSession_Delete(t *testing.T) {
	r := mock.NewRemote(annotation.Annotator1,
		comment("a", annotation.Annotator1, "first"),
		comment("b", annotation.Annotator1, "second"),
		highlight("c", annotation.Annotator2, annotation.Rect{Width: 1, Height: 1}),
	)
	s := newSession(t, r, annotation.Annotator1)
	before := s.Annotations()

	// Failure puts the record back where it was.
	r.Fail = fmt.Errorf("timeout")
	err := s.Delete(context.Background(), "b")
	errors.AssertCode(t, err, http.StatusServiceUnavailable)
	if diff := cmp.Diff(before, s.Annotations()); diff != "" {
		t.Errorf("set not restored (-want +got):\n%s", diff)
	}

	// Not the author nor the admin: nothing changes and the remote is not called.
	r.Fail = nil
	calls := r.Calls()
	err = s.Delete(context.Background(), "c")
	errors.AssertCode(t, err, http.StatusForbidden)
	assert.Equal(t, calls, r.Calls())
	assert.Equal(t, []string{"a", "b", "c"}, ids(s.Annotations()))

	err = s.Delete(context.Background(), "unknown")
	errors.AssertCode(t, err, http.StatusNotFound)

	require.NoError(t, s.Delete(context.Background(), "b"))
	assert.Equal(t, []string{"a", "c"}, ids(s.Annotations()))
}

func TestSession_Delete_NotFound(t *testing.T) {
	r := mock.NewRemote(annotation.Annotator1, comment("a", annotation.Annotator1, "first"))
	s := newSession(t, r, annotation.Annotator1)

	// Deleted by someone else in the meantime.
	r.Reset()

	err := s.Delete(context.Background(), "a")
	errors.AssertCode(t, err, http.StatusNotFound)
	assert.Empty(t, s.Annotations(), "the local copy is discarded")
}

func TestSession_Update(t *testing.T) {
	r := mock.NewRemote(annotation.Annotator1, comment("a", annotation.Annotator1, "first"))
	s := newSession(t, r, annotation.Annotator1)

	shared := false
	a, err := s.Update(context.Background(), "a", annotation.Patch{
		IsPrivate:  &shared,
		Visibility: []annotation.Role{annotation.Annotator2},
	})
	require.NoError(t, err)
	assert.False(t, a.IsPrivate)
	assert.Equal(t, []annotation.Role{annotation.Annotator2}, s.Annotations()[0].Visibility)

	// Failure restores the previous version.
	r.Fail = fmt.Errorf("timeout")
	private := true
	_, err = s.Update(context.Background(), "a", annotation.Patch{IsPrivate: &private})
	errors.AssertCode(t, err, http.StatusServiceUnavailable)
	assert.False(t, s.Annotations()[0].IsPrivate)

	// Invalid patches never reach the remote.
	r.Fail = nil
	calls := r.Calls()
	_, err = s.Update(context.Background(), "a", annotation.Patch{Type: annotation.TypeDraw})
	errors.AssertCode(t, err, http.StatusBadRequest)
	assert.Equal(t, calls, r.Calls())

	// Gone on the remote: the local copy is discarded.
	r.Reset()
	_, err = s.Update(context.Background(), "a", annotation.Patch{IsPrivate: &private})
	errors.AssertCode(t, err, http.StatusNotFound)
	assert.Empty(t, s.Annotations())
}

func TestSession_Erase(t *testing.T) {
	rect := annotation.Rect{X: 0, Y: 0, Width: 100, Height: 20}
	r := mock.NewRemote(annotation.Annotator1,
		highlight("theirs", annotation.Annotator2, rect),
		highlight("mine", annotation.Annotator1, rect),
	)
	s := newSession(t, r, annotation.Annotator1)

	id, err := s.Erase(context.Background(), 1, annotation.Point{X: 10, Y: 10})
	require.NoError(t, err)
	assert.Equal(t, "mine", id, "the earlier annotation is skipped as it cannot be deleted")
	assert.Equal(t, []string{"theirs"}, ids(s.Annotations()))

	id, err = s.Erase(context.Background(), 1, annotation.Point{X: 10, Y: 10})
	require.NoError(t, err)
	assert.Empty(t, id)

	id, err = s.Erase(context.Background(), 2, annotation.Point{X: 10, Y: 10})
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestSession_Close(t *testing.T) {
	r := mock.NewRemote(annotation.Annotator1)
	r.Hold = make(chan struct{})
	r.Fail = fmt.Errorf("navigation")
	s := newSession(t, r, annotation.Annotator1)

	done := make(chan struct{})
	go func() {
		s.Create(context.Background(), draft("pending"))
		close(done)
	}()

	require.Eventually(t, func() bool { return len(s.Annotations()) == 1 }, time.Second, time.Millisecond)
	s.Close()
	close(r.Hold)
	<-done

	// The result arrived after the teardown and was discarded.
	assert.Len(t, s.Annotations(), 1)

	_, err := s.Create(context.Background(), draft("late"))
	assert.Error(t, err)
}
