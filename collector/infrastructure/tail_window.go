package infrastructure

// tailWindow keeps the most recent items pushed into it, up to a fixed
// limit, evicting the oldest first. Storage grows with the number of items
// actually pushed, never beyond the limit, so a huge requested count on a
// short log costs nothing up front.
type tailWindow[T any] struct {
	items []T
	// start indexes the oldest item once the window is full.
	start int
	limit int
}

func newTailWindow[T any](limit int) *tailWindow[T] {
	return &tailWindow[T]{limit: limit}
}

// Push adds item as the newest element.
func (w *tailWindow[T]) Push(item T) {
	if w.limit <= 0 {
		return
	}
	if len(w.items) < w.limit {
		w.items = append(w.items, item)
		return
	}
	w.items[w.start] = item
	w.start = (w.start + 1) % w.limit
}

// Items returns the retained elements, oldest first.
func (w *tailWindow[T]) Items() []T {
	out := make([]T, 0, len(w.items))
	out = append(out, w.items[w.start:]...)
	return append(out, w.items[:w.start]...)
}

// Len returns the number of retained elements.
func (w *tailWindow[T]) Len() int {
	return len(w.items)
}
