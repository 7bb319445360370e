package main

import (
	"strings"
	"testing"
)

func TestFileTemplateSplitsNamedSlots(t *testing.T) {
	tpl, err := fileTemplate(`<p>#{greeting}, #{name}</p>`, map[string]any{
		"greeting": "hello",
		"name":     "world",
	})
	if err != nil {
		t.Fatalf("fileTemplate: %v", err)
	}
	if len(tpl.Values) != 2 || tpl.Values[0] != "hello" || tpl.Values[1] != "world" {
		t.Errorf("unexpected values: %v", tpl.Values)
	}
	if len(tpl.Fragments) != 3 {
		t.Errorf("unexpected fragments: %v", tpl.Fragments)
	}
}

func TestApplySets(t *testing.T) {
	values := map[string]any{"title": "from-file"}
	if err := applySets(values, []string{"title=Hello", "count=3"}); err != nil {
		t.Fatalf("applySets: %v", err)
	}
	if values["title"] != "Hello" || values["count"] != "3" {
		t.Errorf("unexpected values: %v", values)
	}
	if err := applySets(values, []string{"no-equals"}); err == nil {
		t.Error("expected an error for a pair without =")
	}
}

func TestFileTemplateMissingSlot(t *testing.T) {
	_, err := fileTemplate(`<p>#{nope}</p>`, map[string]any{})
	if err == nil || !strings.Contains(err.Error(), "nope") {
		t.Errorf("expected a missing-slot error, got %v", err)
	}
}
