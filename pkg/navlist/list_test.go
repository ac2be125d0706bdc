package navlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_Empty(t *testing.T) {
	l := New[string](nil)

	_, ok := l.Cursor()
	assert.False(t, ok, "empty list should have no cursor")

	l.Next()
	l.Previous()
	_, ok = l.Selected()
	assert.False(t, ok, "Next/Previous on an empty list must not create a selection")
	assert.Equal(t, 0, l.Len())
}

func TestList_NextWrapsAfterLen(t *testing.T) {
	for _, n := range []int{1, 2, 5, 17} {
		items := make([]int, n)
		for i := range items {
			items[i] = i * 10
		}
		l := New(items)

		for start := 0; start < n; start++ {
			for l.cursor != start {
				l.Next()
			}
			for i := 0; i < n; i++ {
				l.Next()
			}
			cur, ok := l.Cursor()
			require.True(t, ok)
			assert.Equal(t, start, cur, "n=%d: %d Next calls should return to the start", n, n)
		}
	}
}

func TestList_NextThenPreviousIsIdentity(t *testing.T) {
	l := New([]string{"a.txt", "b.png", "c.md"})

	for i := 0; i < 3; i++ {
		before, _ := l.Cursor()
		l.Next()
		l.Previous()
		after, _ := l.Cursor()
		assert.Equal(t, before, after)
		l.Next()
	}
}

func TestList_PreviousWrapsToLast(t *testing.T) {
	l := New([]string{"a", "b", "c"})

	l.Previous()
	item, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, "c", item)
}

func TestList_ReplaceResetsCursor(t *testing.T) {
	l := New([]string{"a", "b", "c", "d"})
	l.Next()
	l.Next()

	l.Replace([]string{"x", "y"})
	cur, ok := l.Cursor()
	require.True(t, ok)
	assert.Equal(t, 0, cur)
	item, _ := l.Selected()
	assert.Equal(t, "x", item)

	l.Next()
	l.Replace(nil)
	_, ok = l.Cursor()
	assert.False(t, ok, "replacing with nothing should clear the cursor")
}

func TestList_ReplaceCopiesInput(t *testing.T) {
	src := []string{"a", "b"}
	l := New(src)
	src[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, l.Items())
}
