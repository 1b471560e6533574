package tui

import (
	"context"
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/mailtriage/internal/classify"
	"github.com/csheth/mailtriage/internal/clipboard"
	"github.com/csheth/mailtriage/internal/intake"
)

const testEndpoint = "http://localhost:5000/classify"

type fakeClassifier struct {
	result *classify.Result
	err    error
	online bool
	calls  int
	last   intake.Submission
}

func (f *fakeClassifier) Submit(ctx context.Context, sub intake.Submission) (*classify.Result, error) {
	f.calls++
	f.last = sub
	return f.result, f.err
}

func (f *fakeClassifier) Probe(ctx context.Context) bool { return f.online }

func (f *fakeClassifier) Endpoint() string { return testEndpoint }

type fakeCopier struct {
	method clipboard.Method
	err    error
	texts  []string
}

func (f *fakeCopier) Copy(text string) (clipboard.Method, error) {
	f.texts = append(f.texts, text)
	return f.method, f.err
}

func newTestModel(t *testing.T, cfg Config) *model {
	t.Helper()
	if cfg.Builder == nil {
		cfg.Builder = intake.NewBuilder(intake.BuilderConfig{})
	}
	teaModel, ok := New(cfg).(*model)
	if !ok {
		t.Fatalf("expected *model, got %T", teaModel)
	}
	return teaModel
}

var cmdType = reflect.TypeOf(tea.Cmd(nil))

// collect runs cmd and flattens batched and sequenced commands into the
// messages they produce, in order.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	value := reflect.ValueOf(msg)
	if value.Kind() == reflect.Slice && value.Type().Elem() == cmdType {
		var msgs []tea.Msg
		for i := 0; i < value.Len(); i++ {
			inner, _ := value.Index(i).Interface().(tea.Cmd)
			msgs = append(msgs, collect(inner)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

// drive feeds every message produced by cmd back into the model. Commands
// returned by Update are not run.
func drive(m *model, cmd tea.Cmd) {
	for _, msg := range collect(cmd) {
		m.Update(msg)
	}
}

func keyMsg(keyType tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: keyType}
}

func runeMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// testContext returns a context canceled when the test finishes
// (equivalent of testing.T.Context, added in Go 1.24).
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
