package pause

import "testing"

func TestEffectivePauseCombinesSources(t *testing.T) {
	a := New()
	if a.Paused() {
		t.Fatal("fresh arbiter must not be paused")
	}

	a.ToggleManual()
	if !a.Paused() {
		t.Fatal("manual pause must pause playback")
	}
	a.ToggleManual()

	a.HoldFullScreen(true)
	if !a.Paused() {
		t.Fatal("full-screen hold must pause playback")
	}
	a.HoldFullScreen(false)

	a.SetFocusLock(true)
	if !a.Paused() || !a.ChromeHidden() {
		t.Fatal("focus lock must pause playback and hide chrome")
	}
	a.SetFocusLock(false)

	a.Open(OverlayShare)
	if !a.Paused() {
		t.Fatal("an open overlay must pause playback")
	}
}

func TestOverlayLIFOCloseReleasesPause(t *testing.T) {
	a := New()
	a.Open(OverlayComments)
	a.Open(OverlaySettings)

	// Closing in reverse order of opening, one dismiss per overlay.
	if top, ok := a.CloseTop(); !ok || top != OverlaySettings {
		t.Fatalf("first dismiss closed %v, want settings", top)
	}
	if !a.Paused() {
		t.Fatal("pause released while an overlay is still open")
	}
	if top, ok := a.CloseTop(); !ok || top != OverlayComments {
		t.Fatalf("second dismiss closed %v, want comments", top)
	}
	if a.Paused() {
		t.Fatal("pause must release when the last overlay closes and manual is false")
	}
}

func TestCloseTopNeverClosesTwo(t *testing.T) {
	a := New()
	a.Open(OverlayComments)
	a.Open(OverlayShare)
	a.Open(OverlayContextMenu)

	a.CloseTop()
	if a.OpenCount() != 2 {
		t.Fatalf("open overlays after one dismiss = %d, want 2", a.OpenCount())
	}
}

func TestManualPauseStickyAcrossOverlays(t *testing.T) {
	a := New()
	a.ToggleManual()
	a.Open(OverlayComments)
	a.CloseTop()
	if !a.Paused() {
		t.Fatal("manual pause must survive overlay open/close")
	}
}

func TestScrollClearsManualPause(t *testing.T) {
	a := New()
	a.ToggleManual()
	a.NoteItemChange()
	if a.Paused() {
		t.Fatal("scrolling to a new item must clear the sticky pause")
	}
}

func TestOutOfOrderCloseStillDerivesPause(t *testing.T) {
	a := New()
	a.Open(OverlayComments)
	a.Open(OverlayShare)

	a.Close(OverlayComments) // not the top
	if !a.Paused() {
		t.Fatal("share is still open, pause must hold")
	}
	if top, ok := a.Top(); !ok || top != OverlayShare {
		t.Fatalf("top = %v, want share", top)
	}
	a.Close(OverlayShare)
	if a.Paused() {
		t.Fatal("all overlays closed, pause must release")
	}
}

func TestReopenRaisesWithoutDuplicating(t *testing.T) {
	a := New()
	a.Open(OverlayComments)
	a.Open(OverlayShare)
	a.Open(OverlayComments)

	if a.OpenCount() != 2 {
		t.Fatalf("open overlays = %d, want 2", a.OpenCount())
	}
	if top, _ := a.Top(); top != OverlayComments {
		t.Fatalf("top = %v, want comments raised", top)
	}
}

func TestCloseTopOnEmptyStack(t *testing.T) {
	a := New()
	if _, ok := a.CloseTop(); ok {
		t.Fatal("dismiss with no overlays open must be a no-op")
	}
}
