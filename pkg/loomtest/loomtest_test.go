package loomtest

import (
	"testing"

	"github.com/loom-dev/loom/pkg/dom"
	"github.com/loom-dev/loom/pkg/loom"
	"github.com/loom-dev/loom/pkg/store"
)

func TestFixtureFlushAppliesBatch(t *testing.T) {
	count := store.New(0)
	f := Render(t, loom.Tpl([]string{"<p>", "</p>"}, count))

	f.ExpectHTML("<p>0</p>")
	count.Set(1)
	f.ExpectHTML("<p>0</p>")
	f.Flush().ExpectHTML("<p>1</p>")
}

func TestFixtureClick(t *testing.T) {
	clicks := store.New(0)
	f := Render(t, loom.Tpl(
		[]string{`<div><button ref:go onclick=`, `>go</button><span>`, `</span></div>`},
		loom.OnEvent(func(_ *dom.Event) { clicks.Update(func(v any) any { return v.(int) + 1 }) }),
		clicks))

	f.Click("go").ExpectContains("<span>1</span>")
	f.Click("go").ExpectContains("<span>2</span>")
}

func TestFixtureWatch(t *testing.T) {
	frags := []string{"<p>", "</p>"}
	name := store.New("ada")

	f := Watch(t, func(track loom.Track) *loom.Template {
		track(name)
		return loom.Tpl(frags, name.Get())
	})
	f.ExpectContains("ada")

	name.Set("grace")
	f.Flush().ExpectContains("grace").ExpectNotContains("ada")
}

func TestRenderToString(t *testing.T) {
	got := RenderToString(loom.Tpl([]string{"<em>", "</em>"}, "hi"))
	if got != "<em>hi</em>" {
		t.Errorf("unexpected output: %s", got)
	}
}
