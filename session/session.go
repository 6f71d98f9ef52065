package session

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kanavsharmaa/pdf-annotator/annotation"
	"github.com/kanavsharmaa/pdf-annotator/errors"
	"github.com/kanavsharmaa/pdf-annotator/log"
	"github.com/kanavsharmaa/pdf-annotator/users"
)

// TemporaryIDPrefix starts the id of every annotation that has not been
// acknowledged by the remote yet. Server ids are plain uuids.
const TemporaryIDPrefix = "temp-"

// ErrPending is returned when a gesture targets an annotation whose previous
// write has not been committed or rolled back yet.
var ErrPending = errors.New("a write on this annotation is still pending", errors.WithCode(http.StatusConflict))

func IsTemporaryID(id string) bool {
	return strings.HasPrefix(id, TemporaryIDPrefix)
}

func newTemporaryID() string {
	return TemporaryIDPrefix + uuid.NewString()
}

// Remote is the authoritative store of annotations. client.Client
// implements it over HTTP.
type Remote interface {
	Fetch(ctx context.Context, documentID string) ([]annotation.Annotation, error)
	Create(ctx context.Context, draft annotation.Draft) (annotation.Annotation, error)
	Update(ctx context.Context, id string, patch annotation.Patch) (annotation.Annotation, error)
	Delete(ctx context.Context, id string) error
}

// Session holds the annotations of one document as seen by one user, and
// applies writes to them optimistically: the local set changes right away,
// and is reconciled or rolled back once the remote answers.
//
// The set is only changed by the methods of Session. The lock is never held
// during a remote call.
type Session struct {
	remote     Remote
	user       users.User
	documentID string
	logger     log.Logger

	mu          sync.Mutex
	annotations []annotation.Annotation
	pending     map[string]bool
	closed      bool
}

func New(remote Remote, user users.User, documentID string, logger log.Logger) *Session {
	return &Session{
		remote:     remote,
		user:       user,
		documentID: documentID,
		logger:     logger.WithField("document", documentID).WithField("role", string(user.Role)),

		annotations: make([]annotation.Annotation, 0),
		pending:     make(map[string]bool),
	}
}

// Refresh fetches the annotations of the document and replaces the local set
// with the ones the user can see. Visibility is checked again locally even
// though the remote filters too.
func (s *Session) Refresh(ctx context.Context) error {
	as, err := s.remote.Fetch(ctx, s.documentID)
	if err != nil {
		return networkError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.annotations = annotation.Visible(as, s.user.Role)
	return nil
}

// Annotations returns a copy of the local set, in order.
func (s *Session) Annotations() []annotation.Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]annotation.Annotation, len(s.annotations))
	copy(res, s.annotations)
	return res
}

// Page returns the annotations of the local set drawn on page, in order.
func (s *Session) Page(page int) []annotation.Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()

	return annotation.OnPage(s.annotations, page)
}

// Create inserts a temporary annotation built from draft and sends the draft
// to the remote. On success the temporary annotation is replaced in place by
// the one the remote returned, on failure it is removed.
func (s *Session) Create(ctx context.Context, draft annotation.Draft) (annotation.Annotation, error) {
	if !s.user.Role.CanAnnotate() {
		return annotation.Annotation{}, errors.New("you do not have permission to annotate", errors.Forbidden())
	}

	if draft.DocumentID == "" {
		draft.DocumentID = s.documentID
	} else if draft.DocumentID != s.documentID {
		return annotation.Annotation{}, errors.New("annotation does not belong to this document", errors.BadRequest())
	}

	if err := draft.Validate(); err != nil {
		return annotation.Annotation{}, err
	}

	temp := draft.Annotation(s.user.Role)
	temp.ID = newTemporaryID()
	temp.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return annotation.Annotation{}, errClosed
	}
	s.annotations = append(s.annotations, temp)
	s.pending[temp.ID] = true
	s.mu.Unlock()

	a, err := s.remote.Create(ctx, draft)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, temp.ID)
	if s.closed {
		return a, err
	}

	i := s.indexOf(temp.ID)
	if err != nil {
		if i >= 0 {
			s.removeAt(i)
		}
		s.logger.Warnf("rolled back creation of %s: %v", temp.ID, err)
		return annotation.Annotation{}, networkError(err)
	}

	switch {
	case i >= 0:
		s.annotations[i] = a
	case s.indexOf(a.ID) < 0:
		// The set was refreshed while the creation was pending.
		s.annotations = append(s.annotations, a)
	}
	return a, nil
}

// Update applies patch to the local copy of the annotation and sends it to
// the remote. On failure the previous version is restored, unless the
// annotation no longer exists.
func (s *Session) Update(ctx context.Context, id string, patch annotation.Patch) (annotation.Annotation, error) {
	s.mu.Lock()
	prev, i, err := s.target(id)
	if err != nil {
		s.mu.Unlock()
		return annotation.Annotation{}, err
	}

	next, err := patch.Apply(prev)
	if err != nil {
		s.mu.Unlock()
		return annotation.Annotation{}, err
	}
	s.annotations[i] = next
	s.pending[id] = true
	s.mu.Unlock()

	a, err := s.remote.Update(ctx, id, patch)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, id)
	if s.closed {
		return a, err
	}

	i = s.indexOf(id)
	if err != nil {
		switch {
		case errors.IsNotFound(err):
			if i >= 0 {
				s.removeAt(i)
			}
		case i >= 0:
			s.annotations[i] = prev
		}
		s.logger.Warnf("rolled back update of %s: %v", id, err)
		return annotation.Annotation{}, networkError(err)
	}

	if i >= 0 {
		if annotation.IsVisible(a, s.user.Role) {
			s.annotations[i] = a
		} else {
			s.removeAt(i)
		}
	}
	return a, nil
}

// Delete removes the annotation from the local set and deletes it on the
// remote. On failure the annotation is put back where it was, unless the
// remote does not know it anymore.
func (s *Session) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	prev, i, err := s.target(id)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.removeAt(i)
	s.pending[id] = true
	s.mu.Unlock()

	err = s.remote.Delete(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, id)
	if s.closed || err == nil {
		return err
	}

	if !errors.IsNotFound(err) && s.indexOf(id) < 0 {
		s.insertAt(i, prev)
	}
	s.logger.Warnf("rolled back deletion of %s: %v", id, err)
	return networkError(err)
}

// Erase deletes the annotation an eraser gesture at p on page hits, if any.
// It returns the id of the deleted annotation, or "" if nothing was hit.
func (s *Session) Erase(ctx context.Context, page int, p annotation.Point) (string, error) {
	if !s.user.Role.CanAnnotate() {
		return "", errors.New("you do not have permission to annotate", errors.Forbidden())
	}

	id, ok := annotation.ResolveHit(p, s.Page(page), s.user.Role)
	if !ok {
		return "", nil
	}

	if err := s.Delete(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

// Close tears the session down. Results of writes still pending are
// discarded when they arrive, and no further write is accepted.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
}

var errClosed = errors.New("session closed", errors.BadRequest())

// target finds the annotation a write targets and checks the user may
// change it. It must be called with the lock held.
func (s *Session) target(id string) (annotation.Annotation, int, error) {
	if s.closed {
		return annotation.Annotation{}, -1, errClosed
	}

	if IsTemporaryID(id) || s.pending[id] {
		return annotation.Annotation{}, -1, ErrPending
	}

	i := s.indexOf(id)
	if i < 0 {
		return annotation.Annotation{}, -1, errors.New("annotation "+id+" not found", errors.NotFound())
	}

	a := s.annotations[i]
	if !annotation.CanMutate(a, s.user.Role) {
		return annotation.Annotation{}, -1, errors.New("you do not have permission to modify this annotation", errors.Forbidden())
	}

	return a, i, nil
}

func (s *Session) indexOf(id string) int {
	for i, a := range s.annotations {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) removeAt(i int) {
	s.annotations = append(s.annotations[:i:i], s.annotations[i+1:]...)
}

func (s *Session) insertAt(i int, a annotation.Annotation) {
	if i > len(s.annotations) {
		i = len(s.annotations)
	}

	res := make([]annotation.Annotation, 0, len(s.annotations)+1)
	res = append(res, s.annotations[:i]...)
	res = append(res, a)
	res = append(res, s.annotations[i:]...)
	s.annotations = res
}

// networkError gives a 503 code to errors that do not come with one, such as
// transport failures.
func networkError(err error) error {
	if _, ok := err.(errors.Error); ok {
		return err
	}
	return errors.New("annotation service unavailable", errors.Unavailable(), errors.WithCause(err))
}
