package annotation

import (
	"fmt"

	"github.com/kanavsharmaa/pdf-annotator/errors"
)

// Role is the permission class of the acting party. It is read from an
// authenticated identity, never from a bare request header.
type Role string

const (
	Admin      Role = "A1"
	Annotator1 Role = "D1"
	Annotator2 Role = "D2"
	Reader     Role = "R1"
)

// Roles lists every known role.
var Roles = []Role{Admin, Annotator1, Annotator2, Reader}

// ParseRole returns the role named by s, or an error if s is not one of
// Roles.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", errors.New(fmt.Sprintf("unknown role %q", s), errors.BadRequest())
}

// CanAnnotate reports whether r may create annotations at all. The reader
// role may only view documents.
func (r Role) CanAnnotate() bool {
	switch r {
	case Admin, Annotator1, Annotator2:
		return true
	}
	return false
}

func (r Role) IsAdmin() bool { return r == Admin }
