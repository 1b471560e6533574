package tui

import (
	"strings"
	"testing"

	"github.com/csheth/mailtriage/internal/classify"
)

func TestPresenterRevealsOnlyOnSuccess(t *testing.T) {
	var p presenter
	if p.Present(&classify.Result{Status: classify.StatusError, Message: "limite excedido"}) {
		t.Fatal("error results must not be presented")
	}
	if p.Present(nil) || p.Visible() {
		t.Fatal("area should stay hidden")
	}

	if !p.Present(&classify.Result{Status: classify.StatusSuccess, Category: "Produtivo", Response: "Olá", ContentLength: 128}) {
		t.Fatal("success should be presented")
	}
	if !p.Visible() || !p.takeScroll() {
		t.Fatal("success should reveal the area and request a scroll")
	}
	if p.takeScroll() {
		t.Fatal("scroll request should be consumed once")
	}

	view := p.content(60)
	for _, want := range []string{"Category", "Produtivo", "128 characters analyzed", "Suggested reply", "Olá"} {
		if !strings.Contains(view.content, want) {
			t.Fatalf("content missing %q:\n%s", want, view.content)
		}
	}
	if line, ok := view.anchors[anchorResult]; !ok || line != 0 {
		t.Fatalf("result anchor = %d, %v", line, ok)
	}
}

func TestSubmitControlTogglesOnce(t *testing.T) {
	var c submitControl
	c.Enable()
	if c.enables != 0 {
		t.Fatal("enabling an idle control is a no-op")
	}
	if !c.Disable() || c.Disable() {
		t.Fatal("only the first disable should succeed")
	}
	c.Enable()
	c.Enable()
	if c.disables != 1 || c.enables != 1 || c.Busy() {
		t.Fatalf("unexpected counters %d/%d", c.disables, c.enables)
	}
}
