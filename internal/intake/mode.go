package intake

// InputMode selects where the email comes from.
type InputMode int

const (
	ModeText InputMode = iota
	ModeFile
)

func (m InputMode) String() string {
	switch m {
	case ModeFile:
		return "file"
	default:
		return "text"
	}
}

// Tab identifies a tab control in the mode bar. Mode selection receives the
// activated tab directly.
type Tab struct {
	ID    string
	Label string
	Mode  InputMode
}

var (
	TextTab = Tab{ID: "text-option", Label: "Paste text", Mode: ModeText}
	FileTab = Tab{ID: "file-option", Label: "Upload file", Mode: ModeFile}
)

var tabOrder = []Tab{TextTab, FileTab}

// Tabs returns the tab controls in display order.
func Tabs() []Tab {
	return append([]Tab(nil), tabOrder...)
}

// ModeState owns the active input mode and the tab that activated it.
type ModeState struct {
	mode   InputMode
	active string
}

// NewModeState starts in text mode.
func NewModeState() *ModeState {
	return &ModeState{mode: TextTab.Mode, active: TextTab.ID}
}

// Select activates tab and deactivates whichever tab was active before. It
// reports whether the state changed.
func (s *ModeState) Select(tab Tab) bool {
	if s.active == tab.ID && s.mode == tab.Mode {
		return false
	}
	s.mode = tab.Mode
	s.active = tab.ID
	return true
}

// Mode returns the active input mode.
func (s *ModeState) Mode() InputMode {
	return s.mode
}

// Active reports whether tab carries the active indicator.
func (s *ModeState) Active(tab Tab) bool {
	return s.active == tab.ID
}

// Visible reports whether the panel for mode is shown. Exactly one panel is
// visible at a time.
func (s *ModeState) Visible(mode InputMode) bool {
	return s.mode == mode
}

// Cycle returns the tab delta positions away from the active one, wrapping
// around the tab bar.
func (s *ModeState) Cycle(delta int) Tab {
	idx := 0
	for i, tab := range tabOrder {
		if tab.ID == s.active {
			idx = i
			break
		}
	}
	n := len(tabOrder)
	idx = ((idx+delta)%n + n) % n
	return tabOrder[idx]
}
