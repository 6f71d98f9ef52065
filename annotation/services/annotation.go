package services

import (
	"fmt"

	"github.com/kanavsharmaa/pdf-annotator/annotation"
	"github.com/kanavsharmaa/pdf-annotator/errors"
	"github.com/kanavsharmaa/pdf-annotator/users"
)

func errAnnotationNotFound(id string) error {
	return errors.New(fmt.Sprintf("annotation %s not found", id), errors.NotFound())
}

func errDocumentNotFound(id string) error {
	return errors.New(fmt.Sprintf("document %s not found", id), errors.NotFound())
}

type AnnotationService struct {
	repository annotation.Repository
	documents  annotation.DocumentRepository
	index      annotation.Index
}

func NewAnnotationService(repo annotation.Repository, documents annotation.DocumentRepository, index annotation.Index) *AnnotationService {
	return &AnnotationService{
		repository: repo,
		documents:  documents,
		index:      index,
	}
}

// Fetch returns the annotations of a document the user can see, in insertion
// order. Visibility is computed from the stored records on every call.
func (s *AnnotationService) Fetch(user users.User, documentID string) ([]annotation.Annotation, error) {
	if err := annotation.ValidateID(documentID, "document"); err != nil {
		return nil, err
	}

	// Short-circuit: the reader role never sees anything.
	if user.Role == annotation.Reader {
		return []annotation.Annotation{}, nil
	}

	all, err := s.repository.List(documentID)
	if err != nil {
		return nil, err
	}

	return annotation.Visible(all, user.Role), nil
}

// Search returns the visible annotations of a document whose text matches q.
func (s *AnnotationService) Search(user users.User, documentID, q string) ([]annotation.Annotation, error) {
	visible, err := s.Fetch(user, documentID)
	if err != nil || len(visible) == 0 {
		return visible, err
	}

	visibleIDs := make([]string, len(visible))
	for i, a := range visible {
		visibleIDs[i] = a.ID
	}

	ids, err := s.index.Search(documentID, q, visibleIDs)
	if err != nil {
		return nil, err
	}

	hits := make(map[string]bool, len(ids))
	for _, id := range ids {
		hits[id] = true
	}

	res := make([]annotation.Annotation, 0, len(ids))
	for _, a := range visible {
		if hits[a.ID] {
			res = append(res, a)
		}
	}
	return res, nil
}

func (s *AnnotationService) Create(user users.User, draft annotation.Draft) (annotation.Annotation, error) {
	if !user.Role.CanAnnotate() {
		return annotation.Annotation{}, errors.New("you do not have permission to annotate", errors.Forbidden())
	}

	if err := draft.Validate(); err != nil {
		return annotation.Annotation{}, err
	}

	docs, err := s.documents.Get(draft.DocumentID)
	if err != nil {
		return annotation.Annotation{}, err
	} else if len(docs) != 1 {
		return annotation.Annotation{}, errDocumentNotFound(draft.DocumentID)
	}

	a := draft.Annotation(user.Role)
	if err := s.repository.Insert(&a); err != nil {
		return annotation.Annotation{}, err
	}

	// A failed creation leaves nothing stored.
	if err := s.index.Index(&a); err != nil {
		if rerr := s.repository.Delete(a.ID); rerr != nil {
			return annotation.Annotation{}, errors.New("could not index annotation", errors.WithCause(rerr))
		}
		return annotation.Annotation{}, err
	}

	return a, nil
}

func (s *AnnotationService) Update(user users.User, id string, patch annotation.Patch) (annotation.Annotation, error) {
	a, err := s.get(id)
	if err != nil {
		return annotation.Annotation{}, err
	}

	if err := aclCanMutate(user, a); err != nil {
		return annotation.Annotation{}, err
	}

	a, err = patch.Apply(a)
	if err != nil {
		return annotation.Annotation{}, err
	}

	if err := s.repository.Update(&a); err != nil {
		return annotation.Annotation{}, err
	}

	if err := s.index.Index(&a); err != nil {
		return annotation.Annotation{}, err
	}

	return a, nil
}

func (s *AnnotationService) Delete(user users.User, id string) error {
	a, err := s.get(id)
	if err != nil {
		return err
	}

	if err := aclCanMutate(user, a); err != nil {
		return err
	}

	if err := s.repository.Delete(id); err != nil {
		return err
	}

	return s.index.Delete(id)
}

// Erase deletes the annotation an eraser gesture at p on page targets, among
// those the user can see. It returns the id of the deleted annotation, or an
// empty id when nothing was hit.
func (s *AnnotationService) Erase(user users.User, documentID string, page int, p annotation.Point) (string, error) {
	if !user.Role.CanAnnotate() {
		return "", errors.New("you do not have permission to annotate", errors.Forbidden())
	}

	visible, err := s.Fetch(user, documentID)
	if err != nil {
		return "", err
	}

	id, ok := annotation.ResolveHit(p, annotation.OnPage(visible, page), user.Role)
	if !ok {
		return "", nil
	}

	if err := s.Delete(user, id); err != nil {
		return "", err
	}
	return id, nil
}

// DeleteDocument removes every annotation of a document. It is called when
// the document itself is deleted and returns the number of annotations
// removed.
func (s *AnnotationService) DeleteDocument(documentID string) (int, error) {
	ids, err := s.repository.DeleteDocument(documentID)
	if err != nil {
		return 0, err
	}

	if len(ids) > 0 {
		if err := s.index.Delete(ids...); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

func (s *AnnotationService) get(id string) (annotation.Annotation, error) {
	if err := annotation.ValidateID(id, "annotation"); err != nil {
		return annotation.Annotation{}, err
	}

	as, err := s.repository.Get(id)
	if err != nil {
		return annotation.Annotation{}, err
	} else if len(as) != 1 {
		return annotation.Annotation{}, errAnnotationNotFound(id)
	}

	return as[0], nil
}

func aclCanMutate(user users.User, a annotation.Annotation) error {
	if !annotation.CanMutate(a, user.Role) {
		return errors.New("you do not have permission to modify this annotation", errors.Forbidden())
	}
	return nil
}
