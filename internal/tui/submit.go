package tui

import "github.com/charmbracelet/lipgloss"

// submitControl is the rendered submit button. While busy, submit keys are
// no-ops so only one submission is in flight.
type submitControl struct {
	busy     bool
	disables int
	enables  int
}

// Disable marks the control busy. It returns false when a submission is
// already in flight.
func (c *submitControl) Disable() bool {
	if c.busy {
		return false
	}
	c.busy = true
	c.disables++
	return true
}

// Enable restores the idle label. It is a no-op when the control is idle.
func (c *submitControl) Enable() {
	if !c.busy {
		return
	}
	c.busy = false
	c.enables++
}

func (c *submitControl) Busy() bool {
	return c.busy
}

func (c *submitControl) Label() string {
	if c.busy {
		return submitBusyLabel
	}
	return submitIdleLabel
}

func (c *submitControl) View(spinnerFrame string) string {
	if c.busy {
		return lipgloss.JoinHorizontal(lipgloss.Center,
			buttonBusyStyle.Render(c.Label()),
			helperStyle.Render(" "+spinnerFrame),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		buttonStyle.Render(c.Label()),
		helperStyle.Render("  ctrl+s"),
	)
}
