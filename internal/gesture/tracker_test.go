package gesture

import (
	"math"
	"testing"
)

func TestIgnoredAwayFromEdges(t *testing.T) {
	var tr Tracker
	if tr.Start(10, 10, Context{}) {
		t.Fatal("gesture should be ignored when not at top and not at home")
	}
	if tr.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, want idle", tr.Phase())
	}
}

func TestDeadZoneHoldsSampling(t *testing.T) {
	var tr Tracker
	tr.Start(100, 100, Context{AtTop: true})
	tr.Move(105, 109)
	if tr.Phase() != PhaseSampling {
		t.Fatalf("movement inside the dead zone locked %v", tr.Phase())
	}
}

func TestDownwardFromTopLocksPull(t *testing.T) {
	var tr Tracker
	tr.Start(100, 100, Context{AtTop: true})
	tr.Move(102, 120)
	if tr.Phase() != PhaseLockedPull {
		t.Fatalf("phase = %v, want pull lock", tr.Phase())
	}
	// The lock is permanent: strong horizontal movement cannot re-lock.
	tr.Move(300, 121)
	if tr.Phase() != PhaseLockedPull {
		t.Fatal("lock changed mid-gesture")
	}
}

func TestUpwardVerticalReleasesToNativeScroll(t *testing.T) {
	var tr Tracker
	tr.Start(100, 100, Context{AtTop: true})
	tr.Move(100, 80)
	if tr.Phase() != PhaseLockedVertical {
		t.Fatalf("phase = %v, want vertical lock", tr.Phase())
	}
	if out := tr.Release(); out != OutcomeNone {
		t.Fatalf("vertical release outcome = %v, want none", out)
	}
}

func TestHorizontalFromHomeLocksMenu(t *testing.T) {
	var tr Tracker
	tr.Start(200, 100, Context{AtHome: true, PanelWidth: 280})
	tr.Move(180, 102)
	if tr.Phase() != PhaseLockedMenu {
		t.Fatalf("phase = %v, want menu lock", tr.Phase())
	}
}

func TestPullDampingCapsTravel(t *testing.T) {
	var tr Tracker
	tr.Start(100, 0, Context{AtTop: true})
	f := tr.Move(100, 300) // raw delta 300
	if f.PullOffset > 200 {
		t.Fatalf("damped offset = %v, want <= 200", f.PullOffset)
	}
	if f.PullOffset != 150 {
		t.Fatalf("damped offset = %v, want 150", f.PullOffset)
	}
	if f.PullIntensity != 1 {
		t.Fatalf("intensity = %v, want saturated at 1", f.PullIntensity)
	}
}

func TestPullIntensityProportional(t *testing.T) {
	var tr Tracker
	tr.Start(100, 0, Context{AtTop: true})
	f := tr.Move(100, 150) // damped 75
	if math.Abs(f.PullIntensity-0.5) > 1e-9 {
		t.Fatalf("intensity = %v, want 0.5", f.PullIntensity)
	}
}

func TestPullCommitThreshold(t *testing.T) {
	var tr Tracker
	tr.Start(100, 0, Context{AtTop: true})
	tr.Move(100, 142) // damped 71
	if out := tr.Release(); out != OutcomeRefresh {
		t.Fatalf("release at damped 71 = %v, want refresh", out)
	}

	tr.Start(100, 0, Context{AtTop: true})
	tr.Move(100, 138) // damped 69
	if out := tr.Release(); out != OutcomeRefresh && out != OutcomeNone {
		t.Fatalf("unexpected outcome %v", out)
	} else if out == OutcomeRefresh {
		t.Fatal("release at damped 69 must not refresh")
	}
}

func TestMenuClampAndCommit(t *testing.T) {
	var tr Tracker
	tr.Start(300, 100, Context{AtHome: true, PanelWidth: 280})
	f := tr.Move(-200, 100) // raw drag far past the panel width
	if f.MenuOffset != -280 {
		t.Fatalf("menu offset = %v, want clamped to -280", f.MenuOffset)
	}
	if out := tr.Release(); out != OutcomeOpenMenu {
		t.Fatalf("release past commit distance = %v, want open menu", out)
	}

	tr.Start(300, 100, Context{AtHome: true, PanelWidth: 280})
	tr.Move(250, 100) // dragged 50, under the threshold
	if out := tr.Release(); out != OutcomeNone {
		t.Fatalf("release under commit distance = %v, want snap back", out)
	}
}

func TestCancelHasNoSideEffects(t *testing.T) {
	var tr Tracker
	tr.Start(100, 0, Context{AtTop: true})
	tr.Move(100, 180)
	tr.Cancel()
	if tr.Phase() != PhaseIdle {
		t.Fatal("cancel must return the tracker to idle")
	}
	f := tr.Frame()
	if f.PullOffset != 0 || f.MenuOffset != 0 {
		t.Fatalf("cancel left visual state behind: %+v", f)
	}
	// A canceled gesture never persists into the next one.
	tr.Start(100, 0, Context{AtTop: true})
	if tr.Frame().PullOffset != 0 {
		t.Fatal("state leaked across gestures")
	}
}
