// Package navlist holds an ordered collection with a single, circular cursor.
package navlist

// List is an ordered sequence of items plus an optional selected index.
// The cursor is absent only when the list is empty.
type List[T any] struct {
	items  []T
	cursor int // -1 when empty
}

// New creates a list holding items with the cursor on the first one.
func New[T any](items []T) *List[T] {
	l := &List[T]{cursor: -1}
	l.Replace(items)
	return l
}

// Replace discards the old contents and resets the cursor to 0,
// or to no selection if items is empty.
func (l *List[T]) Replace(items []T) {
	l.items = append([]T(nil), items...)
	if len(l.items) == 0 {
		l.cursor = -1
		return
	}
	l.cursor = 0
}

// Next advances the cursor, wrapping to the first item after the last one.
func (l *List[T]) Next() {
	if len(l.items) == 0 {
		return
	}
	l.cursor = (l.cursor + 1) % len(l.items)
}

// Previous moves the cursor back, wrapping to the last item before the first one.
func (l *List[T]) Previous() {
	if len(l.items) == 0 {
		return
	}
	l.cursor = (l.cursor - 1 + len(l.items)) % len(l.items)
}

// Selected returns the item under the cursor.
func (l *List[T]) Selected() (T, bool) {
	var zero T
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return zero, false
	}
	return l.items[l.cursor], true
}

// Cursor returns the selected index, or false when the list is empty.
func (l *List[T]) Cursor() (int, bool) {
	return l.cursor, l.cursor >= 0
}

func (l *List[T]) Len() int {
	return len(l.items)
}

// Items returns a copy of the items in order.
func (l *List[T]) Items() []T {
	return append([]T(nil), l.items...)
}
