package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/mailtriage/internal/classify"
	"github.com/csheth/mailtriage/internal/clipboard"
	"github.com/csheth/mailtriage/internal/intake"
)

type submitResultMsg struct {
	mode   intake.InputMode
	result *classify.Result
	err    error
}

type probeResultMsg struct {
	online bool
}

type copyResultMsg struct {
	method clipboard.Method
	err    error
}

type copyNoticeExpiredMsg struct {
	seq int
}

// submitJob validates and sends one submission. Validation failures return
// before the classifier is called.
func submitJob(builder *intake.Builder, classifier Classifier, mode intake.InputMode, text string, files intake.FileInput) jobRunner {
	files = append(intake.FileInput(nil), files...)
	return func(ctx context.Context) (tea.Msg, error) {
		sub, err := builder.Build(mode, text, files)
		if err != nil {
			return submitResultMsg{mode: mode, err: err}, err
		}
		result, err := classifier.Submit(ctx, sub)
		return submitResultMsg{mode: mode, result: result, err: err}, err
	}
}

func probeJob(classifier Classifier) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 5*time.Second)
		defer cancel()
		online := classifier.Probe(ctx)
		if !online {
			return probeResultMsg{online: false}, errors.New("service offline")
		}
		return probeResultMsg{online: true}, nil
	}
}

func copyJob(copier Copier, text string) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		method, err := copier.Copy(text)
		return copyResultMsg{method: method, err: err}, err
	}
}

func copyNoticeExpiry(seq int) tea.Cmd {
	return tea.Tick(copyNoticeDuration, func(time.Time) tea.Msg {
		return copyNoticeExpiredMsg{seq: seq}
	})
}
