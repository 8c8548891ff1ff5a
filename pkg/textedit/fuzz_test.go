package textedit_test

import (
	"testing"

	"github.com/yaklabco/reparse/pkg/textedit"
)

func FuzzApplySpan(f *testing.F) {
	f.Add("hello world", 0, 5, "hi", 6, 11, "there")
	f.Add("", 0, 0, "x", 0, 0, "y")
	f.Add("abc", 1, 2, "", 2, 3, "Z")

	f.Fuzz(func(t *testing.T, content string, s1, e1 int, t1 string, s2, e2 int, t2 string) {
		edits := []textedit.Edit{
			{Start: s1, End: e1, NewText: t1},
			{Start: s2, End: e2, NewText: t2},
		}
		prepared, err := textedit.Prepare(edits, len(content))
		if err != nil {
			return
		}

		applied := textedit.Apply(content, prepared)
		start, end, ok := textedit.Span(prepared)
		if !ok {
			t.Fatal("span of a non-empty batch")
		}

		tail := len(content) - end
		if len(applied) < start+tail {
			t.Fatalf("applied text %q too short for span [%d, %d)", applied, start, end)
		}
		if applied[:start] != content[:start] || applied[len(applied)-tail:] != content[end:] {
			t.Fatalf("edits changed text outside span [%d, %d)", start, end)
		}
	})
}
