// Package pause derives the single authoritative "playback paused" signal
// from its independent sources. Every UI surface contributes through the
// arbiter instead of poking shared booleans, so the OR-combination and the
// LIFO overlay rule live in one testable place.
package pause

import "fmt"

// Overlay names one of the mutually independent overlay surfaces. Several may
// be open at once; they stack in open order.
type Overlay int

const (
	OverlayComments Overlay = iota
	OverlayShare
	OverlayContextMenu
	OverlaySettings
	OverlayLibrary
	OverlayIdentity
	OverlayLinks
	OverlayManageFeeds
	OverlayProfile
	OverlaySideMenu
	OverlayNotifications
)

func (o Overlay) String() string {
	switch o {
	case OverlayComments:
		return "comments"
	case OverlayShare:
		return "share"
	case OverlayContextMenu:
		return "context-menu"
	case OverlaySettings:
		return "settings"
	case OverlayLibrary:
		return "library"
	case OverlayIdentity:
		return "identity"
	case OverlayLinks:
		return "links"
	case OverlayManageFeeds:
		return "manage-feeds"
	case OverlayProfile:
		return "profile"
	case OverlaySideMenu:
		return "side-menu"
	case OverlayNotifications:
		return "notifications"
	default:
		return fmt.Sprintf("overlay(%d)", int(o))
	}
}

// Arbiter combines the pause sources. The derived signals are recomputed on
// read; every mutation is synchronous, so a read immediately after a change
// always sees it.
type Arbiter struct {
	manual         bool
	fullScreenHeld bool
	focusLocked    bool
	stack          []Overlay
}

// New returns an arbiter with nothing paused and no overlays open.
func New() *Arbiter {
	return &Arbiter{}
}

// Paused is the one authoritative playback-paused signal.
func (a *Arbiter) Paused() bool {
	return a.manual || len(a.stack) > 0 || a.fullScreenHeld || a.focusLocked
}

// ChromeHidden reports the globally-focused state that suppresses UI chrome.
func (a *Arbiter) ChromeHidden() bool {
	return a.focusLocked
}

// Manual returns the sticky user-intent pause flag.
func (a *Arbiter) Manual() bool {
	return a.manual
}

// ToggleManual flips the sticky pause flag and returns the new value. It is
// independent of overlay churn.
func (a *Arbiter) ToggleManual() bool {
	a.manual = !a.manual
	return a.manual
}

// NoteItemChange clears the sticky pause: scrolling to a new item is an
// implicit resume. An explicit pause applies to the item it was made on, not
// the next one.
func (a *Arbiter) NoteItemChange() {
	a.manual = false
}

// HoldFullScreen sets or releases the hold-to-pause state.
func (a *Arbiter) HoldFullScreen(held bool) {
	a.fullScreenHeld = held
}

// FullScreenHeld reports whether the hold-to-pause state is engaged.
func (a *Arbiter) FullScreenHeld() bool {
	return a.fullScreenHeld
}

// SetFocusLock engages or releases the focus lock.
func (a *Arbiter) SetFocusLock(locked bool) {
	a.focusLocked = locked
}

// FocusLocked reports whether the focus lock is engaged.
func (a *Arbiter) FocusLocked() bool {
	return a.focusLocked
}

// Open pushes an overlay onto the stack. Re-opening one that is already open
// raises it to the top instead of duplicating it.
func (a *Arbiter) Open(o Overlay) {
	a.remove(o)
	a.stack = append(a.stack, o)
}

// Close removes the overlay wherever it sits in the stack. Closing one that
// is not open is a no-op.
func (a *Arbiter) Close(o Overlay) {
	a.remove(o)
}

// CloseTop dismisses exactly the most recently opened overlay, never more
// than one. The closed overlay is returned so the caller can tear down its
// surface.
func (a *Arbiter) CloseTop() (Overlay, bool) {
	if len(a.stack) == 0 {
		return 0, false
	}
	top := a.stack[len(a.stack)-1]
	a.stack = a.stack[:len(a.stack)-1]
	return top, true
}

// Top returns the most recently opened overlay without closing it.
func (a *Arbiter) Top() (Overlay, bool) {
	if len(a.stack) == 0 {
		return 0, false
	}
	return a.stack[len(a.stack)-1], true
}

// IsOpen reports whether the overlay is anywhere in the stack.
func (a *Arbiter) IsOpen(o Overlay) bool {
	for _, open := range a.stack {
		if open == o {
			return true
		}
	}
	return false
}

// OpenCount returns how many overlays are open.
func (a *Arbiter) OpenCount() int {
	return len(a.stack)
}

func (a *Arbiter) remove(o Overlay) {
	for i, open := range a.stack {
		if open == o {
			a.stack = append(a.stack[:i], a.stack[i+1:]...)
			return
		}
	}
}
