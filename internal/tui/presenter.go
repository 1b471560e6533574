package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/mailtriage/internal/classify"
)

// presenter owns the result area. The area stays hidden until the first
// successful classification and is never hidden again by a later failure.
type presenter struct {
	result        *classify.Result
	visible       bool
	pendingScroll bool
	copied        bool
	copySeq       int
}

// Present shows a successful result and asks the viewport to scroll to it.
// Anything else leaves the area untouched and returns false so the caller can
// raise an alert.
func (p *presenter) Present(result *classify.Result) bool {
	if result == nil || result.Status != classify.StatusSuccess {
		return false
	}
	p.result = result
	p.visible = true
	p.pendingScroll = true
	p.copied = false
	return true
}

func (p *presenter) Visible() bool {
	return p.visible
}

func (p *presenter) Category() string {
	if p.result == nil {
		return ""
	}
	return p.result.Category
}

func (p *presenter) Response() string {
	if p.result == nil {
		return ""
	}
	return p.result.Response
}

// takeScroll reports a pending scroll request and clears it.
func (p *presenter) takeScroll() bool {
	pending := p.pendingScroll
	p.pendingScroll = false
	return pending
}

// markCopied shows the confirmation and schedules its removal. Older timers
// are ignored by expireCopy so a second copy restarts the countdown.
func (p *presenter) markCopied() tea.Cmd {
	p.copied = true
	p.copySeq++
	return copyNoticeExpiry(p.copySeq)
}

func (p *presenter) expireCopy(seq int) {
	if seq == p.copySeq {
		p.copied = false
	}
}

func (p *presenter) copyLabel() string {
	if p.copied {
		return copyDoneStyle.Render(copyDoneLabel)
	}
	return helperStyle.Render(copyIdleLabel)
}

func (p *presenter) content(wrap int) displayView {
	cb := &contentBuilder{}
	anchors := map[string]int{anchorResult: 0}
	if p.result == nil {
		return displayView{anchors: anchors}
	}
	cb.WriteString(sectionHeaderStyle.Render("Category"))
	cb.WriteRune('\n')
	cb.WriteString(indentMultiline(categoryStyle.Render(p.result.Category), "  "))
	cb.WriteRune('\n')
	if p.result.ContentLength > 0 {
		cb.WriteString(helperStyle.Render(fmt.Sprintf("  %d characters analyzed", p.result.ContentLength)))
		cb.WriteRune('\n')
	}
	cb.WriteRune('\n')
	cb.WriteString(sectionHeaderStyle.Render("Suggested reply"))
	cb.WriteRune('\n')
	reply := strings.TrimRight(p.result.Response, "\n")
	cb.WriteString(indentMultiline(wordwrap.String(reply, wrap), "  "))
	cb.WriteRune('\n')
	return displayView{content: cb.String(), anchors: anchors}
}
