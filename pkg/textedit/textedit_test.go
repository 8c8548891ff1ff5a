package textedit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/reparse/pkg/textedit"
)

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		edits   []textedit.Edit
		want    string
	}{
		{
			name:    "no edits returns original",
			content: "hello world",
			want:    "hello world",
		},
		{
			name:    "single replacement",
			content: "hello world",
			edits:   []textedit.Edit{{Start: 0, End: 5, NewText: "hi"}},
			want:    "hi world",
		},
		{
			name:    "insertion",
			content: "hello world",
			edits:   []textedit.Edit{{Start: 5, End: 5, NewText: " big"}},
			want:    "hello big world",
		},
		{
			name:    "deletion",
			content: "hello world",
			edits:   []textedit.Edit{{Start: 5, End: 11}},
			want:    "hello",
		},
		{
			name:    "several edits",
			content: "hello world",
			edits: []textedit.Edit{
				{Start: 0, End: 5, NewText: "hi"},
				{Start: 6, End: 11, NewText: "there"},
			},
			want: "hi there",
		},
		{
			name:    "adjacent edits",
			content: "abcdef",
			edits: []textedit.Edit{
				{Start: 0, End: 2, NewText: "X"},
				{Start: 2, End: 4, NewText: "Y"},
			},
			want: "XYef",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, textedit.Apply(tt.content, tt.edits))
		})
	}
}

func TestPrepare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		edits     []textedit.Edit
		want      []textedit.Edit
		wantValid bool
		wantClash bool
	}{
		{
			name:  "empty",
			edits: nil,
			want:  nil,
		},
		{
			name: "sorts by start then end",
			edits: []textedit.Edit{
				{Start: 6, End: 8},
				{Start: 0, End: 2},
				{Start: 2, End: 2, NewText: "a"},
			},
			want: []textedit.Edit{
				{Start: 0, End: 2},
				{Start: 2, End: 2, NewText: "a"},
				{Start: 6, End: 8},
			},
		},
		{
			name: "insertions at one offset keep their order",
			edits: []textedit.Edit{
				{Start: 3, End: 3, NewText: "b"},
				{Start: 3, End: 3, NewText: "a"},
			},
			want: []textedit.Edit{
				{Start: 3, End: 3, NewText: "b"},
				{Start: 3, End: 3, NewText: "a"},
			},
		},
		{
			name:      "negative start",
			edits:     []textedit.Edit{{Start: -1, End: 2}},
			wantValid: true,
		},
		{
			name:      "end before start",
			edits:     []textedit.Edit{{Start: 4, End: 2}},
			wantValid: true,
		},
		{
			name:      "past the end",
			edits:     []textedit.Edit{{Start: 4, End: 11}},
			wantValid: true,
		},
		{
			name: "overlap",
			edits: []textedit.Edit{
				{Start: 0, End: 4},
				{Start: 3, End: 6},
			},
			wantClash: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := textedit.Prepare(tt.edits, 10)
			switch {
			case tt.wantValid:
				var validationErr *textedit.ValidationError
				require.ErrorAs(t, err, &validationErr)
			case tt.wantClash:
				var conflictErr *textedit.ConflictError
				require.ErrorAs(t, err, &conflictErr)
				assert.Contains(t, err.Error(), "overlapping edits")
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestPrepareDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	edits := []textedit.Edit{{Start: 5, End: 6}, {Start: 0, End: 1}}
	_, err := textedit.Prepare(edits, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, edits[0].Start)
}

func TestSpan(t *testing.T) {
	t.Parallel()

	_, _, ok := textedit.Span(nil)
	assert.False(t, ok)

	const content = "0123456789"
	edits := []textedit.Edit{
		{Start: 2, End: 3, NewText: "ab"},
		{Start: 6, End: 8},
	}
	start, end, ok := textedit.Span(edits)
	require.True(t, ok)
	assert.Equal(t, 2, start)
	assert.Equal(t, 8, end)

	// Replacing the span alone gives the same text as applying the batch.
	applied := textedit.Apply(content, edits)
	inserted := applied[start : len(applied)-(len(content)-end)]
	assert.Equal(t, applied, content[:start]+inserted+content[end:])
	assert.Equal(t, "01ab34589", applied)
}

func TestApplyAll(t *testing.T) {
	t.Parallel()

	got, err := textedit.ApplyAll("abc", []textedit.Edit{{Start: 2, End: 3, NewText: "C"}, {Start: 0, End: 1, NewText: "A"}})
	require.NoError(t, err)
	assert.Equal(t, "AbC", got)

	_, err = textedit.ApplyAll("abc", []textedit.Edit{{Start: 0, End: 9}})
	require.Error(t, err)
}

func TestBuilder(t *testing.T) {
	t.Parallel()

	b := textedit.NewBuilder()
	b.Replace(0, 1, "x")
	b.Insert(3, "y")
	b.Delete(4, 5)

	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []textedit.Edit{
		{Start: 0, End: 1, NewText: "x"},
		{Start: 3, End: 3, NewText: "y"},
		{Start: 4, End: 5},
	}, b.Edits())
	assert.Equal(t, -1, b.Edits()[2].Delta())
}
