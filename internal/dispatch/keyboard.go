package dispatch

// handleKeyLocked translates directional/selection/escape input into state
// machine transitions. With a closed or empty dropdown only Escape acts.
func (p *Planner) handleKeyLocked(f *field, key Key) {
	n := len(f.suggestions)
	if !f.isOpen || n == 0 {
		if key == KeyEscape {
			f.isOpen = false
		}
		return
	}

	switch key {
	case KeyArrowDown:
		f.activeIndex = (f.activeIndex + 1) % n
	case KeyArrowUp:
		f.activeIndex = (f.activeIndex - 1 + n) % n
	case KeyEnter:
		if f.activeIndex >= 0 && f.activeIndex < n {
			p.selectLocked(f, f.suggestions[f.activeIndex])
		}
	case KeyEscape:
		// Close and blur; text, suggestions, and any resolution stay intact.
		f.isOpen = false
	}
}

// hoverLocked highlights a suggestion without selecting it.
func (f *field) hoverLocked(index int) error {
	if !f.isOpen || index < 0 || index >= len(f.suggestions) {
		return ErrIndexOutOfRange
	}
	f.activeIndex = index
	return nil
}
