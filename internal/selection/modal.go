package selection

// Modal describes the customer form overlay. EditingID is empty when the
// form creates a new customer.
type Modal struct {
	Open      bool
	EditingID string
	ViewOnly  bool
}

// Creating reports whether the open form adds a new customer.
func (m Modal) Creating() bool {
	return m.Open && m.EditingID == ""
}

// Store is the shared selection and modal state. Its zero value is usable.
// It is owned by the UI goroutine and is not safe for concurrent use.
type Store struct {
	Selected Set
	modal    Modal
}

// Modal returns the current modal state.
func (s *Store) Modal() Modal {
	return s.modal
}

// OpenModal opens the form for id, or for a new customer when id is empty.
// The view-only flag is reset.
func (s *Store) OpenModal(id string) {
	s.modal = Modal{Open: true, EditingID: id}
}

// OpenViewer opens the read-only details view for id.
func (s *Store) OpenViewer(id string) {
	s.modal = Modal{Open: true, EditingID: id, ViewOnly: true}
}

// SetViewOnly toggles read-only mode on the open modal.
func (s *Store) SetViewOnly(viewOnly bool) {
	if !s.modal.Open {
		return
	}
	s.modal.ViewOnly = viewOnly
}

// CloseModal closes the modal and forgets the editing id.
func (s *Store) CloseModal() {
	s.modal = Modal{}
}
