package tui

import (
	"github.com/flicktui/flick/internal/atp"
	"github.com/flicktui/flick/internal/feed"
)

// Gesture distances arrive in abstract units; these scales map terminal cells
// onto them so the thresholds in the gesture package stay unit-agnostic.
const (
	unitsPerCol = 8.0
	unitsPerRow = 16.0

	// menuPanelWidth is the side menu's travel range in gesture units.
	menuPanelWidth = 280.0
)

const (
	minViewWidth  = 40
	feedPageLimit = 30
)

type sessionMsg struct {
	authed bool
	saved  atp.SavedSession
}

type loginMsg struct {
	saved atp.SavedSession
	err   error
}

// timelineMsg carries a fetched page back to the session it was issued for.
// The tag decides on arrival whether the response is still wanted.
type timelineMsg struct {
	tag     feed.Tag
	more    bool
	refresh bool
	page    *atp.TimelinePage
	err     error
}

type bookmarksMsg struct {
	saved map[string]string
	err   error
}

type bookmarkCreatedMsg struct {
	postURI   string
	recordURI string
	err       error
}

type bookmarkDeletedMsg struct {
	postURI   string
	recordURI string
	err       error
}

type sessionClearedMsg struct {
	err error
}

type savedFeedsMsg struct {
	feeds []atp.Feed
	err   error
}

type feedToggledMsg struct {
	feedURI string
	err     error
}

type profileMsg struct {
	profile *atp.Profile
	err     error
}

type preferencesMsg struct {
	prefs []atp.Preference
	err   error
}

type preferenceSetMsg struct {
	pref atp.Preference
	err  error
}

type prefsSavedMsg struct {
	err error
}
