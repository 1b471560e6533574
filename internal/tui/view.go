package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/mailtriage/internal/intake"
)

func (m *model) View() string {
	if m.alert != nil {
		return joinNonEmpty([]string{m.heroView(), m.alertView()})
	}
	return joinNonEmpty([]string{
		m.heroView(),
		m.tabBarView(),
		m.panelView(),
		m.control.View(m.spinner.View()),
		m.statusLine(),
		m.resultView(),
		m.keyLegendView(),
	})
}

func (m *model) heroView() string {
	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		heroTitleStyle.Render("✉ mailtriage"),
		"  ",
		taglineStyle.Render(heroTagline),
	)
}

func (m *model) alertView() string {
	box := m.alert.View(m.layout.contentWidth)
	if m.layout.windowWidth == 0 || m.layout.windowHeight == 0 {
		return box
	}
	height := m.layout.windowHeight - 3
	if height < lipgloss.Height(box) {
		return box
	}
	return lipgloss.Place(m.layout.windowWidth, height, lipgloss.Center, lipgloss.Center, box)
}

func (m *model) tabBarView() string {
	tabs := intake.Tabs()
	rendered := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		style := inactiveTabStyle
		if m.modes.Active(tab) {
			style = activeTabStyle
		}
		rendered = append(rendered, style.Render(tab.Label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, rendered...)
}

// panelView renders the panel of the active mode. The other panel is not
// rendered at all.
func (m *model) panelView() string {
	if m.modes.Visible(intake.ModeText) {
		return panelStyle.Render(strings.Join([]string{
			sectionHeaderStyle.Render("Email text"),
			m.textarea.View(),
		}, "\n"))
	}

	label := m.files.Label()
	if label == "" {
		label = helperStyle.Render("No file selected")
	} else {
		label = successStyle.Render(label)
	}
	accepted := fmt.Sprintf("Accepted: %s • %s", m.config.Builder.Extensions().Describe(), policyNote(m.config.Builder.Policy()))
	return panelStyle.Render(strings.Join([]string{
		sectionHeaderStyle.Render("Email file"),
		helperStyle.Render(m.picker.CurrentDirectory),
		m.picker.View(),
		label,
		helperStyle.Render(accepted),
	}, "\n"))
}

func policyNote(policy intake.FilePolicy) string {
	switch policy {
	case intake.PolicyPlaceholder:
		return "only the file name is sent"
	case intake.PolicyExtract:
		return "text is extracted locally"
	default:
		return "the file is uploaded"
	}
}

func (m *model) statusLine() string {
	var parts []string
	switch m.probe {
	case probePending:
		parts = append(parts, helperStyle.Render("Checking service…"))
	case probeOnline:
		parts = append(parts, successStyle.Render("● Service online"))
	case probeOffline:
		parts = append(parts, errorStyle.Render("● Service offline, submissions may fail"))
	}
	parts = append(parts, helperStyle.Render("Endpoint: "+m.endpoint()))
	if badge := m.jobStatusBadge(); badge != "" {
		parts = append(parts, statusBarStyle.Render(badge))
	}
	return strings.Join(parts, "  ")
}

func (m *model) jobStatusBadge() string {
	snapshot, ok := m.lastJobs[jobKindSubmit]
	if !ok || snapshot.Status == jobStatusRunning {
		return ""
	}
	return fmt.Sprintf("last %s %s in %s", snapshot.Kind, snapshot.Status, snapshot.Duration.Round(time.Millisecond))
}

func (m *model) resultView() string {
	if !m.presenter.Visible() {
		return ""
	}
	header := lipgloss.JoinHorizontal(
		lipgloss.Center,
		sectionHeaderStyle.Render("Result"),
		"  ",
		m.presenter.copyLabel(),
	)
	return strings.Join([]string{header, resultBoxStyle.Render(m.viewport.View())}, "\n")
}

func (m *model) keyLegendView() string {
	bindings := m.keys.legend(m.modes.Visible(intake.ModeFile), m.presenter.Visible())
	const columns = 4
	var rows []string
	var cells []string
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" {
			continue
		}
		cells = append(cells, lipgloss.JoinHorizontal(
			lipgloss.Top,
			keyStyle.Render(help.Key),
			keyDescStyle.Render(" "+help.Desc+"  "),
		))
		if len(cells) == columns {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
			cells = nil
		}
	}
	if len(cells) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}
