package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kanavsharmaa/pdf-annotator/annotation"
	"github.com/kanavsharmaa/pdf-annotator/errors"
)

// Remote is an in-memory annotation store answering like the service does,
// without permission checks. When Fail is set every write fails with it.
// When Hold is set writes block until it is closed.
type Remote struct {
	Author annotation.Role
	Fail   error
	Hold   chan struct{}

	mu          sync.Mutex
	annotations []annotation.Annotation
	calls       int
}

func NewRemote(author annotation.Role, as ...annotation.Annotation) *Remote {
	return &Remote{
		Author:      author,
		annotations: as,
	}
}

// Calls returns the number of writes received so far.
func (r *Remote) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.calls
}

// Reset replaces the stored annotations.
func (r *Remote) Reset(as ...annotation.Annotation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.annotations = as
}

func (r *Remote) Fetch(ctx context.Context, documentID string) ([]annotation.Annotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]annotation.Annotation, 0, len(r.annotations))
	for _, a := range r.annotations {
		if a.DocumentID == documentID {
			res = append(res, a)
		}
	}
	return res, nil
}

func (r *Remote) Create(ctx context.Context, draft annotation.Draft) (annotation.Annotation, error) {
	if err := r.wait(); err != nil {
		return annotation.Annotation{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a := draft.Annotation(r.Author)
	a.ID = annotation.NewID()
	a.CreatedAt = time.Now().UTC()
	r.annotations = append(r.annotations, a)
	return a, nil
}

func (r *Remote) Update(ctx context.Context, id string, patch annotation.Patch) (annotation.Annotation, error) {
	if err := r.wait(); err != nil {
		return annotation.Annotation{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return annotation.Annotation{}, errNotFound(id)
	}

	a, err := patch.Apply(r.annotations[i])
	if err != nil {
		return annotation.Annotation{}, err
	}
	r.annotations[i] = a
	return a, nil
}

func (r *Remote) Delete(ctx context.Context, id string) error {
	if err := r.wait(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return errNotFound(id)
	}
	r.annotations = append(r.annotations[:i], r.annotations[i+1:]...)
	return nil
}

func (r *Remote) wait() error {
	r.mu.Lock()
	r.calls++
	hold, fail := r.Hold, r.Fail
	r.mu.Unlock()

	if hold != nil {
		<-hold
	}
	return fail
}

func (r *Remote) indexOf(id string) int {
	for i, a := range r.annotations {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func errNotFound(id string) error {
	return errors.New("annotation "+id+" not found", errors.NotFound())
}
