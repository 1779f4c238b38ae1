// Package gesture interprets raw pointer samples into pull-to-refresh,
// side-menu, or plain vertical scroll gestures. The tracker is a pure value
// machine: it owns no visuals, it only reports offsets and outcomes for the
// rendering layer to apply.
package gesture

import "math"

// Phase is the per-gesture state. Once a lock is chosen it holds until the
// gesture ends.
type Phase int

const (
	// PhaseIdle means no gesture is being tracked.
	PhaseIdle Phase = iota
	// PhaseSampling means a touch started but no lock has been chosen yet.
	PhaseSampling
	// PhaseLockedVertical means the gesture was released to native scrolling.
	PhaseLockedVertical
	// PhaseLockedPull means the gesture drives the pull-to-refresh indicator.
	PhaseLockedPull
	// PhaseLockedMenu means the gesture drives the side menu panel.
	PhaseLockedMenu
)

const (
	deadZone     = 10.0
	pullDamping  = 0.5
	pullMax      = 200.0
	pullFullAt   = 150.0
	pullCommitAt = 70.0
	menuCommitAt = 60.0
)

// IndicatorRest is the offset the pull indicator holds at after a committed
// release, until the refresh resolves.
const IndicatorRest = 48.0

// Context describes where the scroll container is when a touch starts. Pull
// only arms at the top edge; the menu swipe only arms on the home page.
type Context struct {
	AtTop      bool
	AtHome     bool
	PanelWidth float64
}

// Frame is the visual state derived from the gesture, fed to the renderer.
type Frame struct {
	Phase         Phase
	PullOffset    float64
	PullIntensity float64
	MenuOffset    float64
}

// Outcome is what a released gesture commits to.
type Outcome int

const (
	// OutcomeNone means the gesture canceled or snapped back.
	OutcomeNone Outcome = iota
	// OutcomeRefresh means the pull passed its commit threshold.
	OutcomeRefresh
	// OutcomeOpenMenu means the drag passed the menu commit threshold.
	OutcomeOpenMenu
)

// Tracker converts one touch sequence into a locked gesture. It never
// persists across gestures; Release and Cancel both return it to idle.
type Tracker struct {
	phase      Phase
	startX     float64
	startY     float64
	deltaX     float64
	deltaY     float64
	atTop      bool
	atHome     bool
	panelWidth float64
}

// Phase returns the current gesture phase.
func (t *Tracker) Phase() Phase {
	return t.phase
}

// Start begins tracking a touch. Gestures that can never become a pull or a
// menu swipe are ignored entirely so ordinary scrolling proceeds untouched.
func (t *Tracker) Start(x, y float64, ctx Context) bool {
	if !ctx.AtTop && !ctx.AtHome {
		t.reset()
		return false
	}
	t.phase = PhaseSampling
	t.startX, t.startY = x, y
	t.deltaX, t.deltaY = 0, 0
	t.atTop = ctx.AtTop
	t.atHome = ctx.AtHome
	t.panelWidth = ctx.PanelWidth
	return true
}

// Move feeds the next pointer sample and returns the frame to render. The
// first movement past the dead zone fixes the lock for the rest of the
// gesture.
func (t *Tracker) Move(x, y float64) Frame {
	switch t.phase {
	case PhaseSampling:
		t.deltaX = x - t.startX
		t.deltaY = y - t.startY
		if math.Abs(t.deltaX) < deadZone && math.Abs(t.deltaY) < deadZone {
			return t.Frame()
		}
		t.lock()
	case PhaseLockedPull, PhaseLockedMenu:
		t.deltaX = x - t.startX
		t.deltaY = y - t.startY
	}
	return t.Frame()
}

// lock chooses the permanent direction for this gesture: vertical-dominant
// movement is a pull only when dragging down from the top edge, otherwise it
// is handed back to native scrolling; horizontal movement opens the menu only
// from the home page.
func (t *Tracker) lock() {
	if math.Abs(t.deltaY) >= math.Abs(t.deltaX) {
		if t.deltaY > 0 && t.atTop {
			t.phase = PhaseLockedPull
			return
		}
		t.phase = PhaseLockedVertical
		return
	}
	if t.atHome {
		t.phase = PhaseLockedMenu
		return
	}
	t.phase = PhaseLockedVertical
}

// Frame returns the current visual state without consuming a sample.
func (t *Tracker) Frame() Frame {
	f := Frame{Phase: t.phase}
	switch t.phase {
	case PhaseLockedPull:
		f.PullOffset = Damp(math.Max(t.deltaY, 0))
		f.PullIntensity = math.Min(f.PullOffset/pullFullAt, 1)
	case PhaseLockedMenu:
		f.MenuOffset = clamp(t.deltaX, -t.panelWidth, 0)
	}
	return f
}

// Release ends the gesture and reports what it committed to. The tracker is
// idle afterwards regardless of outcome.
func (t *Tracker) Release() Outcome {
	frame := t.Frame()
	phase := t.phase
	t.reset()
	switch phase {
	case PhaseLockedPull:
		if frame.PullOffset > pullCommitAt {
			return OutcomeRefresh
		}
	case PhaseLockedMenu:
		if -frame.MenuOffset > menuCommitAt {
			return OutcomeOpenMenu
		}
	}
	return OutcomeNone
}

// Cancel abandons the gesture with no side effects, e.g. on multi-touch or
// focus loss. Partial drags resolve back to the closed/zero visual state.
func (t *Tracker) Cancel() {
	t.reset()
}

func (t *Tracker) reset() {
	*t = Tracker{}
}

// Damp maps a raw pull distance to indicator travel: diminishing extension
// with a hard cap so the visual never runs away from the finger.
func Damp(d float64) float64 {
	return math.Min(d*pullDamping, pullMax)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
