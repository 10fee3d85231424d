package tasks

import "context"

// Session is the single in-progress edit of a task's text. The target is
// held by id, so inserts and deletes elsewhere in the list never retarget it.
type Session struct {
	store  *Store
	id     string
	text   string
	active bool
}

// NewSession returns an inactive session over store.
func NewSession(store *Store) *Session {
	return &Session{store: store}
}

// Begin starts editing id with its current text as the scratch buffer,
// replacing any session in progress. It reports false, leaving the
// session inactive, if id is unknown.
func (s *Session) Begin(id string) bool {
	t, ok := s.store.Get(id)
	if !ok {
		s.Cancel()
		return false
	}
	s.id = t.ID
	s.text = t.Text
	s.active = true
	return true
}

// BeginAt starts editing the task at display position pos.
func (s *Session) BeginAt(pos int) bool {
	return s.Begin(s.store.IDAt(pos))
}

// SetText replaces the scratch buffer. No validation is applied.
func (s *Session) SetText(text string) {
	if !s.active {
		return
	}
	s.text = text
}

// Commit writes the scratch buffer to the target and ends the session.
// If the target was deleted meanwhile the edit is dropped.
func (s *Session) Commit(ctx context.Context) (bool, error) {
	if !s.active {
		return false, nil
	}
	id, text := s.id, s.text
	s.Cancel()
	return s.store.Edit(ctx, id, text)
}

// Cancel ends the session without saving.
func (s *Session) Cancel() {
	s.id = ""
	s.text = ""
	s.active = false
}

// Active reports whether an edit is in progress.
func (s *Session) Active() bool {
	return s.active
}

// Target returns the id being edited, or "".
func (s *Session) Target() string {
	return s.id
}

// Text returns the scratch buffer.
func (s *Session) Text() string {
	return s.text
}

// Editing reports whether id is the task being edited.
func (s *Session) Editing(id string) bool {
	return s.active && s.id == id
}
