package annotation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kanavsharmaa/pdf-annotator/errors"
)

// Type tags the payload variant of an annotation.
type Type string

const (
	TypeHighlight Type = "Highlight"
	TypeComment   Type = "Comment"
	TypeDraw      Type = "Draw"
)

func (t Type) valid() bool {
	switch t {
	case TypeHighlight, TypeComment, TypeDraw:
		return true
	}
	return false
}

// Payload is the variant data of an annotation. It is implemented by
// HighlightData, CommentData and DrawData only.
type Payload interface {
	Type() Type
	Page() int

	validate() error
}

// HighlightData marks a run of selected text with one rectangle per line box.
type HighlightData struct {
	PageNumber int    `json:"pageNumber"`
	Text       string `json:"text"`
	Color      string `json:"color"`
	Rects      []Rect `json:"rects"`
}

func (HighlightData) Type() Type  { return TypeHighlight }
func (d HighlightData) Page() int { return d.PageNumber }

// Contains reports whether p is inside one of the highlight rectangles.
func (d HighlightData) Contains(p Point) bool {
	for _, r := range d.Rects {
		if r.Contains(p) {
			return true
		}
	}
	return false
}

func (d HighlightData) validate() error {
	if err := validatePage(d.PageNumber); err != nil {
		return err
	}
	if len(d.Rects) == 0 {
		return errValidation("a highlight needs at least one rectangle")
	}
	for _, r := range d.Rects {
		if r.Width < 0 || r.Height < 0 {
			return errValidation("highlight rectangles cannot have a negative size")
		}
	}
	return nil
}

// CommentData pins a note to a point of the page.
type CommentData struct {
	PageNumber int     `json:"pageNumber"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Text       string  `json:"text"`
	Color      string  `json:"color"`
}

func (CommentData) Type() Type  { return TypeComment }
func (d CommentData) Page() int { return d.PageNumber }

// Anchor is the point the comment marker is drawn at.
func (d CommentData) Anchor() Point { return Point{X: d.X, Y: d.Y} }

func (d CommentData) validate() error {
	if err := validatePage(d.PageNumber); err != nil {
		return err
	}
	if strings.TrimSpace(d.Text) == "" {
		return errValidation("a comment cannot be empty")
	}
	return nil
}

// DrawData is a freehand drawing made of one or more strokes.
type DrawData struct {
	PageNumber int    `json:"pageNumber"`
	Paths      []Path `json:"paths"`
}

func (DrawData) Type() Type  { return TypeDraw }
func (d DrawData) Page() int { return d.PageNumber }

// Near reports whether p is within radius of a vertex of any stroke.
func (d DrawData) Near(p Point, radius float64) bool {
	for _, path := range d.Paths {
		if path.Near(p, radius) {
			return true
		}
	}
	return false
}

func (d DrawData) validate() error {
	if err := validatePage(d.PageNumber); err != nil {
		return err
	}
	if len(d.Paths) == 0 {
		return errValidation("a drawing needs at least one stroke")
	}
	for _, path := range d.Paths {
		if len(path.Points) == 0 {
			return errValidation("a stroke needs at least one point")
		}
	}
	return nil
}

func validatePage(page int) error {
	if page < 1 {
		return errValidation(fmt.Sprintf("invalid page number %d", page))
	}
	return nil
}

// DecodePayload decodes raw as the payload variant named by t.
func DecodePayload(t Type, raw json.RawMessage) (Payload, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errValidation("missing annotation data")
	}

	var (
		p   Payload
		err error
	)
	switch t {
	case TypeHighlight:
		var d HighlightData
		err = json.Unmarshal(raw, &d)
		p = d
	case TypeComment:
		var d CommentData
		err = json.Unmarshal(raw, &d)
		p = d
	case TypeDraw:
		var d DrawData
		err = json.Unmarshal(raw, &d)
		p = d
	default:
		return nil, errValidation(fmt.Sprintf("unknown annotation type %q", t))
	}
	if err != nil {
		return nil, errors.New(fmt.Sprintf("invalid %s data", t), errors.BadRequest(), errors.WithCause(err))
	}

	return p, nil
}
