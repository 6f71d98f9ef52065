package annotation

// IsVisible reports whether viewer may see a. The first matching rule wins:
//
//  1. the reader role sees nothing, not even its own annotations
//  2. authors always see their own annotations
//  3. private annotations are hidden from everyone else, admin included
//  4. the admin sees every shared annotation
//  5. any other role sees a shared annotation if it is listed in Visibility
//
// Visibility lists are mutable, so the result must be computed again on
// every read and never stored.
func IsVisible(a Annotation, viewer Role) bool {
	switch {
	case viewer == Reader:
		return false
	case viewer == a.CreatedBy:
		return true
	case a.IsPrivate:
		return false
	case viewer.IsAdmin():
		return true
	}
	return containsRole(a.Visibility, viewer)
}

// Visible returns the annotations of as that viewer may see, in order.
func Visible(as []Annotation, viewer Role) []Annotation {
	visible := make([]Annotation, 0, len(as))
	for _, a := range as {
		if IsVisible(a, viewer) {
			visible = append(visible, a)
		}
	}
	return visible
}

// CanMutate reports whether actor may update or delete a: only its author
// and the admin can.
func CanMutate(a Annotation, actor Role) bool {
	return actor == a.CreatedBy || actor.IsAdmin()
}

func containsRole(roles []Role, r Role) bool {
	for _, v := range roles {
		if v == r {
			return true
		}
	}
	return false
}
