package annotation

// OnPage returns the annotations of as drawn on page, in order.
func OnPage(as []Annotation, page int) []Annotation {
	res := make([]Annotation, 0, len(as))
	for _, a := range as {
		if a.Page() == page {
			res = append(res, a)
		}
	}
	return res
}

// ResolveHit returns the id of the annotation an eraser gesture at p targets
// on a page, and false if nothing is hit.
//
// Annotations are tried in order and the first one actor may delete and that
// contains p wins, even when later ones overlap it. Highlights are hit inside
// their rectangles, drawings within EraserRadius of a stroke vertex. Comments
// are never erased this way: they are deleted explicitly.
func ResolveHit(p Point, page []Annotation, actor Role) (string, bool) {
	for _, a := range page {
		if !CanMutate(a, actor) {
			continue
		}
		if hit(a.Data, p) {
			return a.ID, true
		}
	}
	return "", false
}

func hit(data Payload, p Point) bool {
	switch d := data.(type) {
	case HighlightData:
		return d.Contains(p)
	case DrawData:
		return d.Near(p, EraserRadius)
	case CommentData:
		return false
	}
	return false
}
