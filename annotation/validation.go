package annotation

import (
	"github.com/google/uuid"

	"github.com/kanavsharmaa/pdf-annotator/errors"
)

func errValidation(msg string) error {
	return errors.New(msg, errors.BadRequest())
}

// NewID returns a new server identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidateID checks that id is a well-formed identifier. kind names the
// identified object in the error message.
func ValidateID(id, kind string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid "+kind+" id format", errors.BadRequest(), errors.WithCause(err))
	}
	return nil
}
