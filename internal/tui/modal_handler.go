package tui

import tea "github.com/charmbracelet/bubbletea"

// Modal is a self-contained modal that owns its own Update/View lifecycle.
// Modals are managed via a stack on App; the topmost modal receives all
// input and renders full-screen.
type Modal interface {
	// ID returns a unique identifier used to deduplicate pushes.
	ID() string
	// Update processes a message. Return pop=true to close the modal.
	Update(msg tea.Msg) (pop bool, cmd tea.Cmd)
	// View renders the modal content for the given terminal dimensions.
	View(width, height int) string
}

// modalStack holds open modals, topmost last.
type modalStack struct {
	modals []Modal
}

// push adds a modal unless one with the same ID is already open.
func (s *modalStack) push(m Modal) {
	for _, existing := range s.modals {
		if existing.ID() == m.ID() {
			return
		}
	}
	s.modals = append(s.modals, m)
}

func (s *modalStack) pop() {
	if len(s.modals) > 0 {
		s.modals = s.modals[:len(s.modals)-1]
	}
}

func (s *modalStack) top() Modal {
	if len(s.modals) == 0 {
		return nil
	}
	return s.modals[len(s.modals)-1]
}
