// Package window owns the scroll-derived active item index and the small
// render window around it. Only items inside the window are materialized;
// everything else renders as a same-size placeholder, bounding work to a
// constant regardless of feed length.
package window

import "math"

// Radius is how many items on each side of the active one are materialized.
const Radius = 2

// Index tracks the active feed position. It is mutated only by scroll-settle
// events, explicit scroll-to calls, or a reset on feed change, never by
// fetch completion.
type Index struct {
	active int
	count  int
}

// Active returns the current item index.
func (w *Index) Active() int {
	return w.active
}

// Count returns the number of items the index ranges over.
func (w *Index) Count() int {
	return w.count
}

// SetCount updates the item count, clamping the active index into range.
// Appending items never moves the active position.
func (w *Index) SetCount(n int) {
	if n < 0 {
		n = 0
	}
	w.count = n
	w.active = w.clamp(w.active)
}

// Reset returns to item 0, used when the feed selection changes.
func (w *Index) Reset() {
	w.active = 0
}

// Settle derives the item index from a settled scroll position and reports
// whether it changed. The caller clears the sticky pause on change.
func (w *Index) Settle(scrollOffset, viewportSize float64) bool {
	if viewportSize <= 0 {
		return false
	}
	return w.move(int(math.Round(scrollOffset / viewportSize)))
}

// ScrollTo moves to an explicit item index, clamped into range, and reports
// whether the active item changed.
func (w *Index) ScrollTo(i int) bool {
	return w.move(i)
}

// Materialized reports whether the item at i should render full content.
func (w *Index) Materialized(i int) bool {
	d := i - w.active
	if d < 0 {
		d = -d
	}
	return d <= Radius
}

func (w *Index) move(i int) bool {
	i = w.clamp(i)
	if i == w.active {
		return false
	}
	w.active = i
	return true
}

func (w *Index) clamp(i int) int {
	if w.count == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i > w.count-1 {
		return w.count - 1
	}
	return i
}
