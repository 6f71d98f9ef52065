package annotation

import (
	"encoding/json"
	"time"
)

// Annotation is a highlight, comment or drawing attached to one page of a
// document.
//
// A private annotation is only visible to its author and always has an empty
// visibility list. A shared one is visible to its author, to the admin and to
// the roles listed in Visibility.
type Annotation struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	CreatedBy  Role      `json:"createdBy"`
	Type       Type      `json:"type"`
	Data       Payload   `json:"data"`
	IsPrivate  bool      `json:"isPrivate"`
	Visibility []Role    `json:"visibility"`
	CreatedAt  time.Time `json:"createdAt"`
}

type annotationJSON struct {
	ID         string          `json:"id"`
	DocumentID string          `json:"documentId"`
	CreatedBy  Role            `json:"createdBy"`
	Type       Type            `json:"type"`
	Data       json.RawMessage `json:"data"`
	IsPrivate  bool            `json:"isPrivate"`
	Visibility []Role          `json:"visibility"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func (a *Annotation) UnmarshalJSON(b []byte) error {
	var raw annotationJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	data, err := DecodePayload(raw.Type, raw.Data)
	if err != nil {
		return err
	}

	*a = Annotation{
		ID:         raw.ID,
		DocumentID: raw.DocumentID,
		CreatedBy:  raw.CreatedBy,
		Type:       raw.Type,
		Data:       data,
		IsPrivate:  raw.IsPrivate,
		Visibility: raw.Visibility,
		CreatedAt:  raw.CreatedAt,
	}
	return nil
}

// Page returns the page the annotation is drawn on.
func (a Annotation) Page() int {
	if a.Data == nil {
		return 0
	}
	return a.Data.Page()
}

// Draft is an annotation as submitted by its author, before an id and a
// creation date are assigned.
type Draft struct {
	DocumentID string  `json:"documentId"`
	Type       Type    `json:"type"`
	Data       Payload `json:"data"`
	IsPrivate  *bool   `json:"isPrivate,omitempty"`
	Visibility []Role  `json:"visibility,omitempty"`
}

type draftJSON struct {
	DocumentID string          `json:"documentId"`
	Type       Type            `json:"type"`
	Data       json.RawMessage `json:"data"`
	IsPrivate  *bool           `json:"isPrivate"`
	Visibility []Role          `json:"visibility"`
}

func (d *Draft) UnmarshalJSON(b []byte) error {
	var raw draftJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*d = Draft{
		DocumentID: raw.DocumentID,
		Type:       raw.Type,
		IsPrivate:  raw.IsPrivate,
		Visibility: raw.Visibility,
	}

	// Missing fields are reported by Validate.
	if raw.Type == "" || len(raw.Data) == 0 || string(raw.Data) == "null" {
		return nil
	}

	data, err := DecodePayload(raw.Type, raw.Data)
	if err != nil {
		return err
	}
	d.Data = data
	return nil
}

// Validate checks that the draft can become an annotation.
func (d Draft) Validate() error {
	if d.DocumentID == "" || d.Type == "" || d.Data == nil {
		return errValidation("missing required fields: documentId, type, or data")
	}
	if err := ValidateID(d.DocumentID, "document"); err != nil {
		return err
	}
	if !d.Type.valid() {
		return errValidation("unknown annotation type " + string(d.Type))
	}
	if d.Data.Type() != d.Type {
		return errValidation("annotation data does not match type " + string(d.Type))
	}
	if err := d.Data.validate(); err != nil {
		return err
	}
	return validateVisibility(d.Visibility)
}

// Annotation builds the record authored by author from the draft. Drafts are
// private unless stated otherwise. The id and creation date are left to the
// caller.
func (d Draft) Annotation(author Role) Annotation {
	private := true
	if d.IsPrivate != nil {
		private = *d.IsPrivate
	}

	return Annotation{
		DocumentID: d.DocumentID,
		CreatedBy:  author,
		Type:       d.Type,
		Data:       d.Data,
		IsPrivate:  private,
		Visibility: normalizeVisibility(private, d.Visibility),
	}
}

// Patch lists the fields of an annotation to change. Nil fields are left
// untouched, an empty visibility list clears it. The type of an annotation
// cannot change.
type Patch struct {
	Type       Type
	Data       Payload
	IsPrivate  *bool
	Visibility []Role

	// raw holds data received without a type, decoded against the type of
	// the patched annotation.
	raw json.RawMessage
}

type patchJSON struct {
	Type       Type            `json:"type"`
	Data       json.RawMessage `json:"data"`
	IsPrivate  *bool           `json:"isPrivate"`
	Visibility []Role          `json:"visibility"`
}

// MarshalJSON only writes the fields the patch sets. A visibility list is
// written even when empty.
func (p Patch) MarshalJSON() ([]byte, error) {
	out := struct {
		Type       Type            `json:"type,omitempty"`
		Data       json.RawMessage `json:"data,omitempty"`
		IsPrivate  *bool           `json:"isPrivate,omitempty"`
		Visibility *[]Role         `json:"visibility,omitempty"`
	}{
		Type:      p.Type,
		Data:      p.raw,
		IsPrivate: p.IsPrivate,
	}

	if p.Data != nil {
		data, err := json.Marshal(p.Data)
		if err != nil {
			return nil, err
		}
		out.Data = data
	}
	if p.Visibility != nil {
		out.Visibility = &p.Visibility
	}

	return json.Marshal(out)
}

func (p *Patch) UnmarshalJSON(b []byte) error {
	var raw patchJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*p = Patch{
		Type:       raw.Type,
		IsPrivate:  raw.IsPrivate,
		Visibility: raw.Visibility,
	}
	if len(raw.Data) == 0 || string(raw.Data) == "null" {
		return nil
	}
	if raw.Type == "" {
		p.raw = raw.Data
		return nil
	}

	data, err := DecodePayload(raw.Type, raw.Data)
	if err != nil {
		return err
	}
	p.Data = data
	return nil
}

// Apply returns a copy of a with the patch applied.
func (p Patch) Apply(a Annotation) (Annotation, error) {
	if p.Type != "" && p.Type != a.Type {
		return Annotation{}, errValidation("the type of an annotation cannot be changed")
	}

	data := p.Data
	if data == nil && len(p.raw) > 0 {
		var err error
		data, err = DecodePayload(a.Type, p.raw)
		if err != nil {
			return Annotation{}, err
		}
	}
	if data != nil {
		if data.Type() != a.Type {
			return Annotation{}, errValidation("the type of an annotation cannot be changed")
		}
		if err := data.validate(); err != nil {
			return Annotation{}, err
		}
		a.Data = data
	}

	if p.IsPrivate != nil {
		a.IsPrivate = *p.IsPrivate
	}

	visibility := a.Visibility
	if p.Visibility != nil {
		if err := validateVisibility(p.Visibility); err != nil {
			return Annotation{}, err
		}
		visibility = p.Visibility
	}
	a.Visibility = normalizeVisibility(a.IsPrivate, visibility)

	return a, nil
}

func normalizeVisibility(private bool, roles []Role) []Role {
	if private {
		return []Role{}
	}

	out := make([]Role, 0, len(roles))
	for _, r := range roles {
		if !containsRole(out, r) {
			out = append(out, r)
		}
	}
	return out
}

func validateVisibility(roles []Role) error {
	for _, r := range roles {
		if _, err := ParseRole(string(r)); err != nil {
			return errValidation("invalid role in visibility: " + string(r))
		}
	}
	return nil
}

// Document is the metadata of an uploaded PDF. The file itself is stored
// elsewhere.
type Document struct {
	ID           string    `json:"id"`
	FileName     string    `json:"fileName"`
	UploaderRole Role      `json:"uploaderRole"`
	UploadDate   time.Time `json:"uploadDate"`
}

// Repository stores annotations. List returns the annotations of a document
// in insertion order.
type Repository interface {
	Get(ids ...string) ([]Annotation, error)
	List(documentID string) ([]Annotation, error)
	Insert(*Annotation) error
	Update(*Annotation) error
	Delete(id string) error
	DeleteDocument(documentID string) ([]string, error)
}

// Index is the full-text index over the text of highlights and comments.
type Index interface {
	Index(*Annotation) error
	Search(documentID, q string, ids []string) ([]string, error)
	Delete(ids ...string) error
}

type DocumentRepository interface {
	Get(ids ...string) ([]Document, error)
	List() ([]Document, error)
	Insert(*Document) error
	Delete(id string) error
}
