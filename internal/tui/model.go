package tui

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/csheth/mailtriage/internal/classify"
	"github.com/csheth/mailtriage/internal/clipboard"
	"github.com/csheth/mailtriage/internal/intake"
)

// Classifier sends submissions to the classification service.
type Classifier interface {
	Submit(ctx context.Context, sub intake.Submission) (*classify.Result, error)
	Probe(ctx context.Context) bool
	Endpoint() string
}

// Copier puts text on the clipboard.
type Copier interface {
	Copy(text string) (clipboard.Method, error)
}

// Config wires runtime options into the TUI program.
type Config struct {
	Classifier Classifier
	Builder    *intake.Builder
	Copier     Copier
	Logger     *zap.Logger
	// StartDir is where the file picker opens. Defaults to the directory of
	// InitialFile, then the working directory.
	StartDir    string
	InitialFile string
	Probe       bool
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	return newModel(config)
}

type model struct {
	config Config
	logger *zap.Logger
	keys   keyMap
	layout pageLayout

	modes *intake.ModeState
	files intake.FileObserver

	textarea textarea.Model
	picker   filepicker.Model
	spinner  spinner.Model
	viewport viewport.Model

	jobs      *jobBus
	control   submitControl
	presenter presenter
	alert     *alert
	probe     probeState
	lastJobs  map[jobKind]jobSnapshot
}

func newModel(config Config) *model {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Builder == nil {
		config.Builder = intake.NewBuilder(intake.BuilderConfig{})
	}
	layout := newPageLayout()

	input := textarea.New()
	input.Placeholder = textPlaceholder
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.MaxHeight = 0
	input.SetWidth(layout.contentWidth - 4)
	input.SetHeight(layout.inputHeight)
	input.Focus()

	startDir := config.StartDir
	if startDir == "" && config.InitialFile != "" {
		startDir = filepath.Dir(config.InitialFile)
	}
	if startDir == "" {
		startDir = "."
	}
	picker := filepicker.New()
	picker.CurrentDirectory = startDir
	picker.AllowedTypes = config.Builder.Extensions().List()
	picker.AutoHeight = false
	picker.Height = layout.inputHeight

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(layout.contentWidth-4, layout.resultHeight)

	m := &model{
		config:   config,
		logger:   logger.Named("tui"),
		keys:     defaultKeyMap(),
		layout:   layout,
		modes:    intake.NewModeState(),
		textarea: input,
		picker:   picker,
		spinner:  spin,
		viewport: vp,
		jobs:     newJobBus(logger),
		probe:    probeSkipped,
		lastJobs: map[jobKind]jobSnapshot{},
	}
	if config.Probe && config.Classifier != nil {
		m.probe = probePending
	}
	if config.InitialFile != "" {
		m.selectFile(config.InitialFile)
		m.selectTab(intake.FileTab)
	}
	return m
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, m.picker.Init()}
	if m.probe == probePending {
		cmds = append(cmds, m.jobs.Start(jobKindProbe, probeJob(m.config.Classifier)))
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		if m.control.Busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case jobSignalMsg:
		m.lastJobs[msg.Snapshot.Kind] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		m.lastJobs[msg.Snapshot.Kind] = msg.Snapshot
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case submitResultMsg:
		return m, m.handleSubmitResult(msg)
	case probeResultMsg:
		if msg.online {
			m.probe = probeOnline
		} else {
			m.probe = probeOffline
		}
		return m, nil
	case copyResultMsg:
		if msg.err != nil {
			m.logger.Warn("copy failed", zap.Error(msg.err))
			m.alert = alertFor(msg.err, m.endpoint())
			return m, nil
		}
		m.logger.Debug("reply copied", zap.String("method", string(msg.method)))
		return m, m.presenter.markCopied()
	case copyNoticeExpiredMsg:
		m.presenter.expireCopy(msg.seq)
		return m, nil
	}

	// Directory listings and cursor blinks.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	cmds = append(cmds, cmd)
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.alert != nil {
		if key.Matches(msg, m.keys.Dismiss) {
			m.alert = nil
		}
		return m, nil
	}

	fileMode := m.modes.Visible(intake.ModeFile)
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.NextTab, m.keys.PrevTab) && !fileMode:
		return m, m.insertTab(msg)
	case key.Matches(msg, m.keys.NextTab):
		return m, m.selectTab(m.modes.Cycle(1))
	case key.Matches(msg, m.keys.PrevTab):
		return m, m.selectTab(m.modes.Cycle(-1))
	case key.Matches(msg, m.keys.TextTab):
		return m, m.selectTab(intake.TextTab)
	case key.Matches(msg, m.keys.FileTab):
		return m, m.selectTab(intake.FileTab)
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyResponse()
	case key.Matches(msg, m.keys.ScrollUp):
		if m.presenter.Visible() {
			m.viewport.LineUp(1)
		}
		return m, nil
	case key.Matches(msg, m.keys.ScrollDown):
		if m.presenter.Visible() {
			m.viewport.LineDown(1)
		}
		return m, nil
	}

	if fileMode {
		return m.handleFileKey(msg)
	}
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// insertTab keeps tab characters from pasted email text in the textarea.
// Tabs only cycle the input tabs while the file panel has focus.
func (m *model) insertTab(msg tea.KeyMsg) tea.Cmd {
	if msg.Type != tea.KeyTab {
		return nil
	}
	m.textarea.InsertRune('\t')
	return nil
}

func (m *model) handleFileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ClearFile) && len(m.files.Files()) > 0 {
		m.files.Clear()
		m.logger.Debug("file selection cleared")
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	// Files outside the accepted set are recorded too; the extension is
	// checked when the email is submitted.
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.selectFile(path)
	} else if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.selectFile(path)
	}
	return m, cmd
}

func (m *model) selectTab(tab intake.Tab) tea.Cmd {
	if !m.modes.Select(tab) {
		return nil
	}
	m.logger.Debug("input mode changed", zap.String("tab", tab.ID))
	if tab.Mode == intake.ModeText {
		return m.textarea.Focus()
	}
	m.textarea.Blur()
	return nil
}

func (m *model) selectFile(path string) {
	file := intake.FileFromPath(path)
	m.files.Observe(intake.FileInput{file})
	m.logger.Debug("file selected", zap.String("name", file.Name))
}

// submit disables the control before validation. Every path through the
// submit job ends in exactly one submitResultMsg, which re-enables it.
func (m *model) submit() tea.Cmd {
	if m.config.Classifier == nil || !m.control.Disable() {
		return nil
	}
	mode := m.modes.Mode()
	m.logger.Info("submission started", zap.String("mode", mode.String()))
	runner := submitJob(m.config.Builder, m.config.Classifier, mode, m.textarea.Value(), m.files.Files())
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindSubmit, runner))
}

func (m *model) handleSubmitResult(msg submitResultMsg) tea.Cmd {
	m.control.Enable()
	if msg.err == nil && m.presenter.Present(msg.result) {
		m.logger.Info("classification presented",
			zap.String("mode", msg.mode.String()),
			zap.String("category", msg.result.Category),
		)
		m.refreshResult()
		return nil
	}
	err := msg.err
	if err == nil {
		err = &classify.MalformedResponseError{Cause: errors.New("no result")}
	}
	if errors.Is(err, intake.ErrValidation) {
		m.logger.Info("submission rejected", zap.Stringer("reason", intake.KindOf(err)))
	} else {
		m.logger.Warn("submission failed", zap.String("mode", msg.mode.String()), zap.Error(err))
	}
	m.alert = alertFor(err, m.endpoint())
	return nil
}

func (m *model) copyResponse() tea.Cmd {
	if !m.presenter.Visible() || m.config.Copier == nil {
		return nil
	}
	return m.jobs.Start(jobKindCopy, copyJob(m.config.Copier, m.presenter.Response()))
}

func (m *model) refreshResult() {
	view := m.presenter.content(wrapWidth(m.viewport.Width, 4))
	m.viewport.SetContent(view.content)
	if m.presenter.takeScroll() {
		m.viewport.SetYOffset(view.anchors[anchorResult])
	}
}

func (m *model) resize(width, height int) {
	m.layout.Update(width, height)
	m.textarea.SetWidth(m.layout.contentWidth - 4)
	m.textarea.SetHeight(m.layout.inputHeight)
	m.picker.Height = m.layout.inputHeight
	m.viewport.Width = m.layout.contentWidth - 4
	m.viewport.Height = m.layout.resultHeight
	if m.presenter.Visible() {
		m.refreshResult()
	}
}

func (m *model) endpoint() string {
	if m.config.Classifier == nil {
		return ""
	}
	return m.config.Classifier.Endpoint()
}
