package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/flicktui/flick/internal/atp"
	"github.com/flicktui/flick/internal/feed"
	"github.com/flicktui/flick/internal/gesture"
	"github.com/flicktui/flick/internal/pause"
	"github.com/flicktui/flick/internal/prefs"
)

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// A keypress during a drag abandons the gesture with no side effects.
	if m.tracker.Phase() != gesture.PhaseIdle {
		m.tracker.Cancel()
		m.gestureFrame = gesture.Frame{}
	}

	if top, ok := m.arbiter.Top(); ok {
		switch top {
		case pause.OverlayIdentity:
			return m.handleLoginKey(msg)
		case pause.OverlayManageFeeds:
			return m.handleManageFeedsKey(msg)
		case pause.OverlaySettings:
			if msg.String() == "a" {
				return m, m.toggleAdultContent()
			}
		}
		if msg.Type == tea.KeyEsc || msg.String() == "q" {
			m.arbiter.CloseTop()
			return m, nil
		}
		// Remaining overlays are read-only panels; any other key falls
		// through so navigation stays live underneath.
	}

	switch msg.String() {
	case "esc":
		if _, closed := m.arbiter.CloseTop(); closed {
			return m, nil
		}
		if m.arbiter.FocusLocked() {
			m.arbiter.SetFocusLock(false)
			return m, nil
		}
		return m, tea.Quit
	case "q":
		if m.arbiter.OpenCount() == 0 {
			return m, tea.Quit
		}
		m.arbiter.CloseTop()
		return m, nil
	case "j", "down":
		return m, m.moveItem(1)
	case "k", "up":
		return m, m.moveItem(-1)
	case "g":
		return m, m.settleScroll(0, 1)
	case "G":
		if n := m.window.Count(); n > 0 {
			if m.window.ScrollTo(n - 1) {
				m.arbiter.NoteItemChange()
			}
			return m, m.maybeLoadMore()
		}
		return m, nil
	case " ":
		m.arbiter.ToggleManual()
		return m, nil
	case "enter":
		m.arbiter.SetFocusLock(!m.arbiter.FocusLocked())
		return m, nil
	case "x":
		m.arbiter.HoldFullScreen(!m.arbiter.FullScreenHeld())
		return m, nil
	case "s":
		return m, m.toggleSave()
	case "r":
		return m, m.refresh()
	case "u":
		m.muted = !m.muted
		return m, m.persistPrefs()
	case "1":
		return m, m.selectFeed(feed.Following(), nil)
	case "2":
		if len(m.savedFeeds) == 0 {
			m.infoMessage = "No saved feeds. Press f to browse."
			return m, nil
		}
		f := m.savedFeeds[0]
		return m, m.selectFeed(feed.ForYou(f.URI, f.Name), nil)
	case "3":
		return m, m.selectFeed(feed.Stories(), nil)
	case "f":
		m.arbiter.Open(pause.OverlayManageFeeds)
		m.feedFilter.SetValue("")
		m.feedFilter.Focus()
		m.feedCursor = 0
		return m, tea.Batch(textinput.Blink, m.jobs.Start(jobKindFeeds, savedFeedsJob(m.config.Client)))
	case "m":
		m.arbiter.Open(pause.OverlaySideMenu)
		return m, nil
	case "l":
		m.arbiter.Open(pause.OverlayLibrary)
		return m, m.jobs.Start(jobKindBookmark, listBookmarksJob(m.config.Client))
	case "p":
		m.arbiter.Open(pause.OverlayProfile)
		if post, ok := m.activePost(); ok {
			m.profile = nil
			return m, m.jobs.Start(jobKindProfile, fetchProfileJob(m.config.Client, post.Author.DID))
		}
		return m, nil
	case "c":
		m.arbiter.Open(pause.OverlayComments)
		return m, nil
	case "o":
		m.arbiter.Open(pause.OverlayShare)
		return m, nil
	case "e":
		m.arbiter.Open(pause.OverlayLinks)
		return m, nil
	case "n":
		m.arbiter.Open(pause.OverlayNotifications)
		return m, nil
	case "t":
		m.arbiter.Open(pause.OverlayContextMenu)
		return m, nil
	case "d":
		m.arbiter.Open(pause.OverlaySettings)
		return m, m.jobs.Start(jobKindPrefs, listPreferencesJob(m.config.Client))
	case "i":
		m.arbiter.Open(pause.OverlayIdentity)
		m.loginFocus = 0
		m.loginID.Focus()
		m.loginPW.Blur()
		return m, textinput.Blink
	case "?", "h":
		m.helpVisible = !m.helpVisible
		return m, nil
	}
	return m, nil
}

func (m *model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.arbiter.Close(pause.OverlayIdentity)
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyDown, tea.KeyUp:
		m.loginFocus = 1 - m.loginFocus
		if m.loginFocus == 0 {
			m.loginID.Focus()
			m.loginPW.Blur()
		} else {
			m.loginID.Blur()
			m.loginPW.Focus()
		}
		return m, textinput.Blink
	case tea.KeyEnter:
		id := strings.TrimSpace(m.loginID.Value())
		pw := strings.TrimSpace(m.loginPW.Value())
		if id == "" || pw == "" {
			m.errorMessage = "Both fields are required."
			return m, nil
		}
		m.infoMessage = "Logging in…"
		m.errorMessage = ""
		return m, tea.Batch(
			m.jobs.Start(jobKindLogin, loginJob(m.config.Client, id, pw)),
			m.spinner.Tick,
		)
	}
	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.loginID, cmd = m.loginID.Update(msg)
	} else {
		m.loginPW, cmd = m.loginPW.Update(msg)
	}
	return m, cmd
}

func (m *model) handleManageFeedsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	matches := m.filteredFeeds()
	switch msg.Type {
	case tea.KeyEsc:
		m.arbiter.Close(pause.OverlayManageFeeds)
		m.feedFilter.Blur()
		return m, nil
	case tea.KeyDown:
		if m.feedCursor < len(matches)-1 {
			m.feedCursor++
		}
		return m, nil
	case tea.KeyUp:
		if m.feedCursor > 0 {
			m.feedCursor--
		}
		return m, nil
	case tea.KeyEnter:
		if m.feedCursor >= len(matches) {
			return m, nil
		}
		selected := matches[m.feedCursor]
		m.arbiter.Close(pause.OverlayManageFeeds)
		m.feedFilter.Blur()
		return m, m.selectFeed(feed.ForYou(selected.URI, selected.Name), &selected)
	case tea.KeyCtrlP:
		// Pin the temporary feed so it survives the next navigation.
		if f, ok := m.session.PinTemporary(); ok {
			return m, m.jobs.Start(jobKindFeeds, toggleSavedFeedJob(m.config.Client, f.URI))
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.feedFilter, cmd = m.feedFilter.Update(msg)
	m.feedCursor = 0
	return m, cmd
}

// filteredFeeds ranks the saved feeds against the filter input. An empty
// filter returns them in server order.
func (m *model) filteredFeeds() []atp.Feed {
	query := strings.TrimSpace(m.feedFilter.Value())
	if query == "" {
		return m.savedFeeds
	}
	titles := make([]string, len(m.savedFeeds))
	for i, f := range m.savedFeeds {
		titles[i] = f.Name
	}
	ranks := fuzzy.RankFindFold(query, titles)
	sort.Sort(ranks)
	out := make([]atp.Feed, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, m.savedFeeds[r.OriginalIndex])
	}
	return out
}

// toggleAdultContent flips the account-level adult-content preference and
// writes it back to the server. The settings panel re-lists preferences once
// the write lands, so no local copy is mutated here.
func (m *model) toggleAdultContent() tea.Cmd {
	enabled := false
	for _, p := range m.preferences {
		if p.Type == atp.PrefAdultContent {
			enabled = p.Value == "true"
		}
	}
	next := "true"
	if enabled {
		next = "false"
	}
	return m.jobs.Start(jobKindPrefs, setPreferenceJob(m.config.Client, atp.Preference{
		Type:  atp.PrefAdultContent,
		Key:   "enabled",
		Value: next,
	}))
}

func (m *model) persistPrefs() tea.Cmd {
	sel := m.session.Selector()
	return m.jobs.Start(jobKindPrefs, savePrefsJob(m.config.PrefsPath, prefs.Prefs{
		FeedKind:  sel.Kind.String(),
		FeedURI:   sel.URI,
		FeedTitle: sel.Title,
		Muted:     m.muted,
	}))
}

func (m *model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x := float64(msg.X) * unitsPerCol
	y := float64(msg.Y) * unitsPerRow

	switch msg.Type {
	case tea.MouseWheelUp:
		return m, m.moveItem(-1)
	case tea.MouseWheelDown:
		return m, m.moveItem(1)
	case tea.MouseLeft, tea.MouseMotion:
		if m.tracker.Phase() == gesture.PhaseIdle {
			if msg.Type != tea.MouseLeft {
				return m, nil
			}
			m.tracker.Start(x, y, gesture.Context{
				AtTop:      m.window.Active() == 0,
				AtHome:     m.arbiter.OpenCount() == 0,
				PanelWidth: menuPanelWidth,
			})
			return m, nil
		}
		m.gestureFrame = m.tracker.Move(x, y)
		return m, nil
	case tea.MouseRelease:
		if m.tracker.Phase() == gesture.PhaseIdle {
			return m, nil
		}
		outcome := m.tracker.Release()
		m.gestureFrame = gesture.Frame{}
		switch outcome {
		case gesture.OutcomeRefresh:
			if cmd := m.refresh(); cmd != nil {
				m.pullHeld = true
				return m, tea.Batch(cmd, m.spinner.Tick)
			}
			return m, nil
		case gesture.OutcomeOpenMenu:
			m.arbiter.Open(pause.OverlaySideMenu)
			return m, nil
		}
		return m, nil
	}
	return m, nil
}
