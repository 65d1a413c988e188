package interaction

// Selection is the operator's current pick. It may name an id that is no
// longer in the latest snapshot; consumers tolerate that.
type Selection struct {
	ID  string
	Set bool
}

// Select picks id.
func (s *Selection) Select(id string) {
	s.ID = id
	s.Set = true
}

// Clear drops the pick.
func (s *Selection) Clear() {
	s.ID = ""
	s.Set = false
}

// Is reports whether id is the current pick.
func (s Selection) Is(id string) bool {
	return s.Set && s.ID == id
}
