package tui

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/csheth/mailtriage/internal/classify"
	"github.com/csheth/mailtriage/internal/clipboard"
	"github.com/csheth/mailtriage/internal/intake"
)

// alert is the modal overlay. While one is shown every key except the
// dismiss keys is swallowed.
type alert struct {
	title   string
	message string
	hint    string
}

func alertFor(err error, endpoint string) *alert {
	var (
		verr *intake.ValidationError
		herr *classify.HTTPError
		serr *classify.ServerReportedError
	)
	switch {
	case errors.As(err, &verr):
		return &alert{title: "Check your input", message: sentence(verr.Error())}
	case errors.Is(err, classify.ErrUnreachable):
		return &alert{
			title:   "Service unreachable",
			message: fmt.Sprintf("Could not connect to %s.", endpoint),
			hint:    "Check that the classification service is running and that the endpoint URL is correct.",
		}
	case errors.Is(err, classify.ErrNetwork):
		return &alert{
			title:   "Network error",
			message: "The request failed before the service answered.",
			hint:    "Check your connection and try again.",
		}
	case errors.As(err, &herr):
		message := fmt.Sprintf("The service answered with status %d.", herr.Status)
		if body := strings.TrimSpace(herr.Body); body != "" {
			message += "\n" + body
		}
		return &alert{title: "Service error", message: message}
	case errors.Is(err, classify.ErrMalformedResponse):
		return &alert{
			title:   "Unexpected response",
			message: "The service returned a response that could not be read.",
		}
	case errors.As(err, &serr):
		return &alert{title: "Classification failed", message: sentence(serr.Message)}
	case errors.Is(err, clipboard.ErrCopyFailed):
		return &alert{
			title:   "Copy failed",
			message: "The reply could not be copied to the clipboard.",
			hint:    "Select the text in the result area and copy it manually.",
		}
	default:
		return &alert{title: "Something went wrong", message: sentence(err.Error())}
	}
}

func (a *alert) View(width int) string {
	if a == nil {
		return ""
	}
	boxWidth := width - 8
	if boxWidth > 72 {
		boxWidth = 72
	}
	if boxWidth < 30 {
		boxWidth = 30
	}
	lines := []string{alertTitleStyle.Render(a.title), "", a.message}
	if a.hint != "" {
		lines = append(lines, "", helperStyle.Render(a.hint))
	}
	lines = append(lines, "", helperStyle.Render("enter or esc to dismiss"))
	return alertBoxStyle.Width(boxWidth).Render(strings.Join(lines, "\n"))
}

// sentence upper-cases the first letter and ends the text with a period.
func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	s = string(unicode.ToUpper(r)) + s[size:]
	if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "!") && !strings.HasSuffix(s, "?") {
		s += "."
	}
	return s
}
