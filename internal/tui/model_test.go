package tui

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/mailtriage/internal/classify"
	"github.com/csheth/mailtriage/internal/intake"
)

func TestSubmitSuccessPresentsResult(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","category":"Produtivo","response":"Olá! Recebemos sua solicitação."}`))
	}))
	t.Cleanup(server.Close)

	client, err := classify.New(classify.Config{Endpoint: server.URL + "/classify"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	m := newTestModel(t, Config{Classifier: client})
	m.textarea.SetValue("  Preciso do status do chamado 4312  ")

	cmd := m.submit()
	if cmd == nil {
		t.Fatal("submit should start a job")
	}
	if !m.control.Busy() || m.control.Label() != submitBusyLabel {
		t.Fatalf("control should be busy with %q, got %q", submitBusyLabel, m.control.Label())
	}
	drive(m, cmd)

	if m.control.disables != 1 || m.control.enables != 1 {
		t.Fatalf("control toggled %d/%d times, want 1/1", m.control.disables, m.control.enables)
	}
	if m.control.Label() != submitIdleLabel {
		t.Fatalf("label not restored: %q", m.control.Label())
	}
	if m.alert != nil {
		t.Fatalf("unexpected alert: %+v", m.alert)
	}
	if !m.presenter.Visible() || m.presenter.Category() != "Produtivo" {
		t.Fatalf("result not presented: visible=%v category=%q", m.presenter.Visible(), m.presenter.Category())
	}
	if m.presenter.Response() != "Olá! Recebemos sua solicitação." {
		t.Fatalf("response not verbatim: %q", m.presenter.Response())
	}
	if m.viewport.YOffset != 0 {
		t.Fatalf("viewport should scroll to the result, offset %d", m.viewport.YOffset)
	}
	view := m.View()
	if !strings.Contains(view, "Produtivo") || !strings.Contains(view, "Recebemos sua solicitação") {
		t.Fatalf("view missing result:\n%s", view)
	}
}

func TestSubmitValidationFailureSkipsNetwork(t *testing.T) {
	t.Parallel()

	classifier := &fakeClassifier{}
	m := newTestModel(t, Config{Classifier: classifier})
	m.textarea.SetValue(" \n\t ")

	drive(m, m.submit())

	if classifier.calls != 0 {
		t.Fatalf("classifier called %d times for invalid input", classifier.calls)
	}
	if m.control.disables != 1 || m.control.enables != 1 {
		t.Fatalf("control toggled %d/%d times, want 1/1", m.control.disables, m.control.enables)
	}
	if m.alert == nil || m.alert.title != "Check your input" {
		t.Fatalf("expected validation alert, got %+v", m.alert)
	}
	if m.presenter.Visible() {
		t.Fatal("result area should stay hidden")
	}
}

func TestSubmitFileWithoutSelectionRaisesAlert(t *testing.T) {
	t.Parallel()

	classifier := &fakeClassifier{}
	m := newTestModel(t, Config{Classifier: classifier})
	m.Update(keyMsg(tea.KeyCtrlO))

	drive(m, m.submit())

	if classifier.calls != 0 {
		t.Fatal("no request should be sent without a file")
	}
	if m.alert == nil || !strings.Contains(m.alert.message, "Please select a file") {
		t.Fatalf("unexpected alert %+v", m.alert)
	}
}

func TestSubmitServerReportedErrorKeepsAreaHidden(t *testing.T) {
	t.Parallel()

	classifier := &fakeClassifier{
		result: &classify.Result{Status: classify.StatusError, Message: "limite excedido"},
		err:    &classify.ServerReportedError{Message: "limite excedido"},
	}
	m := newTestModel(t, Config{Classifier: classifier})
	m.textarea.SetValue("hello")

	drive(m, m.submit())

	if m.presenter.Visible() {
		t.Fatal("result area should stay hidden on a server reported error")
	}
	if m.alert == nil || m.alert.title != "Classification failed" {
		t.Fatalf("unexpected alert %+v", m.alert)
	}
	if !strings.Contains(strings.ToLower(m.alert.message), "limite excedido") {
		t.Fatalf("alert should carry the server reason, got %q", m.alert.message)
	}
	if m.control.disables != 1 || m.control.enables != 1 {
		t.Fatalf("control toggled %d/%d times, want 1/1", m.control.disables, m.control.enables)
	}
}

func TestSubmitConnectionRefusedReEnablesControl(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()
	_ = listener.Close()

	client, err := classify.New(classify.Config{Endpoint: "http://" + addr + "/classify"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	m := newTestModel(t, Config{Classifier: client})
	m.textarea.SetValue("hello")

	drive(m, m.submit())

	if m.control.Busy() {
		t.Fatal("control should be re-enabled")
	}
	if m.control.disables != 1 || m.control.enables != 1 {
		t.Fatalf("control toggled %d/%d times, want 1/1", m.control.disables, m.control.enables)
	}
	if m.alert == nil || m.alert.title != "Service unreachable" {
		t.Fatalf("expected unreachable alert, got %+v", m.alert)
	}
	if !strings.Contains(m.alert.message, addr) {
		t.Fatalf("alert should name the endpoint, got %q", m.alert.message)
	}
}

func TestSubmitIgnoredWhileBusy(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Config{Classifier: &fakeClassifier{}})
	m.textarea.SetValue("hello")

	if cmd := m.submit(); cmd == nil {
		t.Fatal("first submit should start a job")
	}
	if cmd := m.submit(); cmd != nil {
		t.Fatal("second submit should be a no-op while busy")
	}
	if _, cmd := m.Update(keyMsg(tea.KeyCtrlS)); cmd != nil {
		t.Fatal("submit key should be a no-op while busy")
	}
	if m.control.disables != 1 {
		t.Fatalf("control disabled %d times", m.control.disables)
	}
}

func TestPreviousResultSurvivesLaterError(t *testing.T) {
	t.Parallel()

	classifier := &fakeClassifier{result: &classify.Result{Status: classify.StatusSuccess, Category: "Improdutivo", Response: "Obrigado!"}}
	m := newTestModel(t, Config{Classifier: classifier})
	m.textarea.SetValue("Feliz natal")
	drive(m, m.submit())

	classifier.result = nil
	classifier.err = &classify.HTTPError{Status: 500, Body: "boom"}
	drive(m, m.submit())

	if !m.presenter.Visible() || m.presenter.Category() != "Improdutivo" {
		t.Fatal("earlier result should remain visible")
	}
	if m.alert == nil || m.alert.title != "Service error" {
		t.Fatalf("unexpected alert %+v", m.alert)
	}
}

func TestTabKeysSwitchPanels(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Config{Classifier: &fakeClassifier{}})
	if !m.modes.Visible(intake.ModeText) || !m.textarea.Focused() {
		t.Fatal("text panel should be active and focused on start")
	}

	m.Update(keyMsg(tea.KeyCtrlO))
	if !m.modes.Visible(intake.ModeFile) || m.modes.Visible(intake.ModeText) {
		t.Fatal("ctrl+o should show only the file panel")
	}
	if m.textarea.Focused() {
		t.Fatal("textarea should blur in file mode")
	}
	view := m.View()
	if !strings.Contains(view, "Email file") || strings.Contains(view, "Email text") {
		t.Fatalf("file panel not rendered alone:\n%s", view)
	}

	m.Update(keyMsg(tea.KeyTab))
	if !m.modes.Active(intake.TextTab) {
		t.Fatal("tab should wrap back to the text tab")
	}
	m.Update(keyMsg(tea.KeyCtrlO))
	m.Update(keyMsg(tea.KeyShiftTab))
	if !m.modes.Active(intake.TextTab) {
		t.Fatal("shift+tab should move back to the text tab")
	}
	m.Update(keyMsg(tea.KeyCtrlO))
	m.Update(keyMsg(tea.KeyCtrlT))
	if !m.modes.Active(intake.TextTab) || !m.textarea.Focused() {
		t.Fatal("ctrl+t should activate and focus the text tab")
	}
}

func TestPastedTabStaysInText(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Config{Classifier: &fakeClassifier{}})
	for _, msg := range []tea.KeyMsg{runeMsg('a'), keyMsg(tea.KeyTab), runeMsg('b'), keyMsg(tea.KeyShiftTab)} {
		m.Update(msg)
	}
	if !m.modes.Active(intake.TextTab) {
		t.Fatal("tab in the text panel should not change the mode")
	}
	// The textarea expands tabs to four spaces.
	if got := m.textarea.Value(); got != "a    b" {
		t.Fatalf("textarea value = %q, want %q", got, "a    b")
	}
	if !m.textarea.Focused() {
		t.Fatal("textarea should keep focus")
	}
}

func TestClearFileKey(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Config{Classifier: &fakeClassifier{}})
	m.Update(keyMsg(tea.KeyCtrlO))
	m.selectFile("/tmp/mail/Report.PDF")
	if got := m.files.Label(); got != "Selected file: Report.PDF" {
		t.Fatalf("label = %q", got)
	}

	m.Update(keyMsg(tea.KeyBackspace))
	if got := m.files.Label(); got != "Selected file: Report.PDF" {
		t.Fatalf("backspace should leave the selection, got %q", got)
	}

	m.Update(runeMsg('x'))
	if got := m.files.Label(); got != "" {
		t.Fatalf("label should clear, got %q", got)
	}

	m.selectFile("/tmp/mail/Report.PDF")
	m.Update(keyMsg(tea.KeyDelete))
	if len(m.files.Files()) != 0 {
		t.Fatal("delete should clear the selection")
	}
	if len(m.files.Files()) != 0 {
		t.Fatal("selection should be empty")
	}
}

func TestInitialFileOpensFileTab(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Config{Classifier: &fakeClassifier{}, InitialFile: "/tmp/mail/inbox.txt"})
	if !m.modes.Active(intake.FileTab) {
		t.Fatal("initial file should activate the file tab")
	}
	if m.picker.CurrentDirectory != "/tmp/mail" {
		t.Fatalf("picker should open next to the file, got %q", m.picker.CurrentDirectory)
	}
	if m.files.Label() != "Selected file: inbox.txt" {
		t.Fatalf("label = %q", m.files.Label())
	}
}

func TestAlertSwallowsKeysUntilDismissed(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, Config{Classifier: &fakeClassifier{}})
	m.alert = &alert{title: "Network error", message: "offline"}

	m.Update(keyMsg(tea.KeyCtrlO))
	if !m.modes.Active(intake.TextTab) {
		t.Fatal("keys should be swallowed while the alert is shown")
	}
	if !strings.Contains(m.View(), "Network error") {
		t.Fatal("alert should be rendered")
	}

	m.Update(keyMsg(tea.KeyEnter))
	if m.alert != nil {
		t.Fatal("enter should dismiss the alert")
	}
}

func TestCopyConfirmationReverts(t *testing.T) {
	t.Parallel()

	copier := &fakeCopier{method: "system"}
	m := newTestModel(t, Config{Classifier: &fakeClassifier{}, Copier: copier})
	if cmd := m.copyResponse(); cmd != nil {
		t.Fatal("copy should be unavailable before a result is shown")
	}

	m.presenter.Present(&classify.Result{Status: classify.StatusSuccess, Category: "Produtivo", Response: "Segue o relatório."})
	m.refreshResult()

	drive(m, m.copyResponse())
	if len(copier.texts) != 1 || copier.texts[0] != "Segue o relatório." {
		t.Fatalf("copied %q", copier.texts)
	}
	if !m.presenter.copied || !strings.Contains(m.View(), copyDoneLabel) {
		t.Fatal("confirmation should be shown")
	}

	first := m.presenter.copySeq
	drive(m, m.copyResponse())
	m.Update(copyNoticeExpiredMsg{seq: first})
	if !m.presenter.copied {
		t.Fatal("a stale timer must not clear a newer confirmation")
	}
	m.Update(copyNoticeExpiredMsg{seq: m.presenter.copySeq})
	if m.presenter.copied {
		t.Fatal("confirmation should revert")
	}
}

func TestCopyDoubleFailureRaisesAlert(t *testing.T) {
	t.Parallel()

	copier := &fakeCopier{err: errCopy}
	m := newTestModel(t, Config{Classifier: &fakeClassifier{}, Copier: copier})
	m.presenter.Present(&classify.Result{Status: classify.StatusSuccess, Category: "Produtivo", Response: "ok"})

	drive(m, m.copyResponse())
	if m.alert == nil || m.alert.title != "Copy failed" {
		t.Fatalf("expected copy alert, got %+v", m.alert)
	}
	if m.presenter.copied {
		t.Fatal("no confirmation on failure")
	}
}

func TestProbeUpdatesStatusLine(t *testing.T) {
	t.Parallel()

	classifier := &fakeClassifier{online: false}
	m := newTestModel(t, Config{Classifier: classifier, Probe: true})
	if m.probe != probePending {
		t.Fatalf("probe state = %v", m.probe)
	}

	msg, err := probeJob(classifier)(testContext(t))
	if err == nil {
		t.Fatal("offline probe should report an error to the job bus")
	}
	m.Update(msg)
	if !strings.Contains(m.statusLine(), "Service offline") {
		t.Fatalf("status line = %q", m.statusLine())
	}
	if cmd := m.submit(); cmd == nil {
		t.Fatal("an offline probe must not disable submission")
	}
}
