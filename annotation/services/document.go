package services

import (
	"strings"

	"github.com/kanavsharmaa/pdf-annotator/annotation"
	"github.com/kanavsharmaa/pdf-annotator/errors"
	"github.com/kanavsharmaa/pdf-annotator/log"
	"github.com/kanavsharmaa/pdf-annotator/users"
)

type DocumentService struct {
	repository  annotation.DocumentRepository
	annotations *AnnotationService
	logger      log.Logger
}

func NewDocumentService(repo annotation.DocumentRepository, as *AnnotationService, logger log.Logger) *DocumentService {
	return &DocumentService{
		repository:  repo,
		annotations: as,
		logger:      logger,
	}
}

// List returns every registered document. All roles, the reader included,
// can list documents.
func (s *DocumentService) List(user users.User) ([]annotation.Document, error) {
	return s.repository.List()
}

// Create registers a document. Only the admin can.
func (s *DocumentService) Create(user users.User, fileName string) (annotation.Document, error) {
	if !user.Role.IsAdmin() {
		return annotation.Document{}, errors.New("only the admin can register documents", errors.Forbidden())
	}

	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return annotation.Document{}, errors.New("missing file name", errors.BadRequest())
	}

	doc := annotation.Document{
		FileName:     fileName,
		UploaderRole: user.Role,
	}
	if err := s.repository.Insert(&doc); err != nil {
		return annotation.Document{}, err
	}

	return doc, nil
}

// Delete removes a document and all its annotations. Only the admin can.
func (s *DocumentService) Delete(user users.User, id string) (int, error) {
	if !user.Role.IsAdmin() {
		return 0, errors.New("only the admin can delete documents", errors.Forbidden())
	}

	if err := annotation.ValidateID(id, "document"); err != nil {
		return 0, err
	}

	docs, err := s.repository.Get(id)
	if err != nil {
		return 0, err
	} else if len(docs) != 1 {
		return 0, errDocumentNotFound(id)
	}

	// Annotations go first so that a failure leaves a document that can be
	// deleted again.
	n, err := s.annotations.DeleteDocument(id)
	if err != nil {
		return 0, err
	}
	s.logger.Infof("deleted %d annotations for document %s", n, id)

	if err := s.repository.Delete(id); err != nil {
		return n, err
	}
	return n, nil
}
