// Package tui mounts the feed client into a bubbletea program. The model owns
// the core state machines (feed session, gesture tracker, pause arbiter,
// bookmark ledger, render window) and translates input events and async job
// results into calls on them. All mutation happens on the event loop.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/flicktui/flick/internal/atp"
	"github.com/flicktui/flick/internal/bookmarks"
	"github.com/flicktui/flick/internal/feed"
	"github.com/flicktui/flick/internal/gesture"
	"github.com/flicktui/flick/internal/pause"
	"github.com/flicktui/flick/internal/prefs"
	"github.com/flicktui/flick/internal/window"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Client      atp.Client
	Prefs       prefs.Prefs
	PrefsPath   string
	SessionPath string
	Identifier  string
	Password    string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	feedFilter := textinput.New()
	feedFilter.Placeholder = "Filter feeds…"
	feedFilter.CharLimit = 60
	feedFilter.Width = 40

	loginID := textinput.New()
	loginID.Placeholder = "handle or did"
	loginID.CharLimit = 253
	loginID.Width = 40
	loginID.SetValue(config.Identifier)

	loginPW := textinput.New()
	loginPW.Placeholder = "app password"
	loginPW.EchoMode = textinput.EchoPassword
	loginPW.CharLimit = 60
	loginPW.Width = 40

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &model{
		config:      config,
		jobs:        newJobBus(),
		session:     feed.NewSession(),
		ledger:      bookmarks.New(),
		arbiter:     pause.New(),
		feedFilter:  feedFilter,
		loginID:     loginID,
		loginPW:     loginPW,
		spinner:     spin,
		muted:       config.Prefs.Muted,
		infoMessage: "Connecting…",
	}
}

type model struct {
	config Config
	jobs   *jobBus

	session *feed.Session
	ledger  *bookmarks.Ledger
	arbiter *pause.Arbiter
	window  window.Index
	tracker gesture.Tracker

	// gestureFrame is the last visual state reported by the tracker; the view
	// applies it as offsets. pullHeld keeps the indicator at its resting
	// offset between a committed release and the refresh resolving.
	gestureFrame gesture.Frame
	pullHeld     bool

	savedFeeds  []atp.Feed
	profile     *atp.Profile
	preferences []atp.Preference

	feedFilter textinput.Model
	feedCursor int
	loginID    textinput.Model
	loginPW    textinput.Model
	loginFocus int
	spinner    spinner.Model

	width  int
	height int

	authed bool
	muted  bool

	infoMessage  string
	errorMessage string
	helpVisible  bool
	lastJob      jobSnapshot
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.jobs.Start(jobKindSession, checkSessionJob(m.config.Client)),
	)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.loading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.width < minViewWidth {
			m.width = minViewWidth
		}
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case jobResultEnvelope:
		m.lastJob = msg.Snapshot
		return m.Update(msg.Payload)
	case sessionMsg:
		if !msg.authed {
			// The saved tokens no longer resume; drop the file so the next
			// run goes straight to login.
			clear := m.jobs.Start(jobKindSession, clearSessionJob(m.config.SessionPath))
			mdl, cmd := m.needLogin("")
			return mdl, tea.Batch(clear, cmd)
		}
		return m, m.bootAuthenticated()
	case sessionClearedMsg:
		return m, nil
	case loginMsg:
		if msg.err != nil {
			return m.needLogin("Login failed. Check the handle and app password.")
		}
		m.arbiter.Close(pause.OverlayIdentity)
		m.errorMessage = ""
		return m, tea.Batch(
			m.jobs.Start(jobKindSession, saveSessionJob(m.config.SessionPath, msg.saved)),
			m.bootAuthenticated(),
		)
	case timelineMsg:
		return m.applyTimeline(msg)
	case bookmarksMsg:
		if msg.err == nil {
			m.ledger.Load(msg.saved)
		}
		return m, nil
	case bookmarkCreatedMsg:
		if msg.err != nil {
			m.ledger.FailCreate(msg.postURI)
			m.infoMessage = "Save failed."
			return m, nil
		}
		if act := m.ledger.ResolveCreate(msg.postURI, msg.recordURI); act.Kind == bookmarks.ActionDelete {
			return m, m.jobs.Start(jobKindBookmark, deleteBookmarkJob(m.config.Client, act.PostURI, act.RecordURI))
		}
		return m, nil
	case bookmarkDeletedMsg:
		// Delete failures are not rolled back; a re-save that raced the
		// delete resolves inside the ledger instead.
		if act := m.ledger.ResolveDelete(msg.postURI, msg.err != nil); act.Kind == bookmarks.ActionCreate {
			return m, m.jobs.Start(jobKindBookmark, createBookmarkJob(m.config.Client, act.PostURI, act.CID))
		}
		return m, nil
	case savedFeedsMsg:
		if msg.err != nil {
			return m, nil
		}
		m.savedFeeds = msg.feeds
		uris := make([]string, 0, len(msg.feeds))
		for _, f := range msg.feeds {
			uris = append(uris, f.URI)
		}
		m.session.SetKnownFeeds(uris)
		return m, nil
	case feedToggledMsg:
		if msg.err != nil {
			m.infoMessage = "Could not update saved feeds."
			return m, nil
		}
		return m, m.jobs.Start(jobKindFeeds, savedFeedsJob(m.config.Client))
	case profileMsg:
		if msg.err == nil {
			m.profile = msg.profile
		}
		return m, nil
	case preferencesMsg:
		if msg.err == nil {
			m.preferences = msg.prefs
		}
		return m, nil
	case preferenceSetMsg:
		if msg.err != nil {
			m.infoMessage = "Preference update failed."
			return m, nil
		}
		return m, m.jobs.Start(jobKindPrefs, listPreferencesJob(m.config.Client))
	case prefsSavedMsg:
		return m, nil
	}
	return m, nil
}

// bootAuthenticated kicks off the initial loads once a session exists: the
// remembered feed, the save records, and the account's feed list.
func (m *model) bootAuthenticated() tea.Cmd {
	m.authed = true
	m.session.SetAuthenticated(true)
	m.infoMessage = "Loading feed…"

	cmds := []tea.Cmd{
		m.jobs.Start(jobKindBookmark, listBookmarksJob(m.config.Client)),
		m.jobs.Start(jobKindFeeds, savedFeedsJob(m.config.Client)),
	}
	if cmd := m.selectFeed(m.rememberedSelector(), nil); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *model) rememberedSelector() feed.Selector {
	kind, ok := feed.ParseKind(m.config.Prefs.FeedKind)
	if !ok {
		return feed.Following()
	}
	switch kind {
	case feed.KindForYou:
		if m.config.Prefs.FeedURI == "" {
			return feed.Following()
		}
		title := m.config.Prefs.FeedTitle
		if title == "" {
			title = "Feed"
		}
		return feed.ForYou(m.config.Prefs.FeedURI, title)
	case feed.KindStories:
		return feed.Stories()
	default:
		return feed.Following()
	}
}

func (m *model) needLogin(message string) (tea.Model, tea.Cmd) {
	m.authed = false
	m.session.SetAuthenticated(false)
	if message != "" {
		m.errorMessage = message
	}
	if m.config.Identifier != "" && m.config.Password != "" && message == "" {
		m.infoMessage = "Logging in…"
		return m, m.jobs.Start(jobKindLogin, loginJob(m.config.Client, m.config.Identifier, m.config.Password))
	}
	m.arbiter.Open(pause.OverlayIdentity)
	m.loginFocus = 0
	m.loginID.Focus()
	m.loginPW.Blur()
	m.infoMessage = "Sign in to continue."
	return m, textinput.Blink
}

// selectFeed routes a feed switch through the session and schedules the
// initial fetch. Invalid selectors fall out as a nil cmd. Re-selecting the
// feed already on screen refreshes it instead of reloading from blank.
func (m *model) selectFeed(sel feed.Selector, carried *atp.Feed) tea.Cmd {
	if m.session.Selector().Equal(sel) && m.session.Page().Len() > 0 {
		return m.refresh()
	}
	intent, ok := m.session.SelectFeed(sel, carried)
	if !ok {
		return nil
	}
	m.window.SetCount(0)
	m.window.Reset()
	m.infoMessage = fmt.Sprintf("Loading %s…", sel.Title)
	return tea.Batch(
		m.jobs.Start(jobKindTimeline, fetchTimelineJob(m.config.Client, intent)),
		m.jobs.Start(jobKindPrefs, savePrefsJob(m.config.PrefsPath, prefs.Prefs{
			FeedKind:  sel.Kind.String(),
			FeedURI:   sel.URI,
			FeedTitle: sel.Title,
			Muted:     m.muted,
		})),
		m.spinner.Tick,
	)
}

func (m *model) applyTimeline(msg timelineMsg) (tea.Model, tea.Cmd) {
	if msg.more {
		m.session.ApplyMore(msg.tag, msg.page, msg.err)
		m.window.SetCount(m.itemCount())
		return m, nil
	}

	live := m.session.Live(msg.tag)
	applied := m.session.ApplyInitial(msg.tag, msg.page, msg.err)
	if m.pullHeld && !m.session.Refreshing() {
		// The indicator rests until the refresh resolves, success or not.
		m.pullHeld = false
	}
	m.window.SetCount(m.itemCount())
	if applied {
		if msg.refresh {
			m.window.Reset()
		}
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("%s · %d posts", m.session.Selector().Title, m.session.Page().Len())
		return m, m.maybeLoadMore()
	}
	if msg.err != nil && live {
		m.infoMessage = "Feed unavailable. It will retry on your next action."
	}
	return m, nil
}

func (m *model) maybeLoadMore() tea.Cmd {
	intent, ok := m.session.BeginMore(m.window.Active())
	if !ok {
		return nil
	}
	return m.jobs.Start(jobKindTimeline, fetchTimelineJob(m.config.Client, intent))
}

// moveItem shifts the active item and applies the scroll rules: sticky pause
// clears on a new item, and pagination triggers near the end.
func (m *model) moveItem(delta int) tea.Cmd {
	if !m.window.ScrollTo(m.window.Active() + delta) {
		return nil
	}
	m.arbiter.NoteItemChange()
	return m.maybeLoadMore()
}

// settleScroll derives the item index from a settled scroll offset, e.g.
// after a native vertical drag ends.
func (m *model) settleScroll(offset, viewport float64) tea.Cmd {
	if !m.window.Settle(offset, viewport) {
		return nil
	}
	m.arbiter.NoteItemChange()
	return m.maybeLoadMore()
}

// refresh re-fetches the first page. Safe to call repeatedly; concurrent
// requests collapse inside the session.
func (m *model) refresh() tea.Cmd {
	intent, ok := m.session.Refresh()
	if !ok {
		return nil
	}
	return m.jobs.Start(jobKindTimeline, fetchTimelineJob(m.config.Client, intent))
}

// itemCount is the number of rows the window scrolls over: author groups in
// Stories, posts everywhere else.
func (m *model) itemCount() int {
	if m.session.Selector().Kind == feed.KindStories {
		return len(m.session.StoriesGroups())
	}
	return m.session.Page().Len()
}

func (m *model) activePost() (atp.Post, bool) {
	i := m.window.Active()
	if m.session.Selector().Kind == feed.KindStories {
		groups := m.session.StoriesGroups()
		if i < 0 || i >= len(groups) || len(groups[i].Posts) == 0 {
			return atp.Post{}, false
		}
		return groups[i].Posts[0], true
	}
	items := m.session.Items()
	if i < 0 || i >= len(items) {
		return atp.Post{}, false
	}
	return items[i], true
}

// toggleSave flips the bookmark on the active post through the ledger.
func (m *model) toggleSave() tea.Cmd {
	post, ok := m.activePost()
	if !ok {
		return nil
	}
	act := m.ledger.Toggle(post.URI, post.CID)
	switch act.Kind {
	case bookmarks.ActionCreate:
		return m.jobs.Start(jobKindBookmark, createBookmarkJob(m.config.Client, act.PostURI, act.CID))
	case bookmarks.ActionDelete:
		return m.jobs.Start(jobKindBookmark, deleteBookmarkJob(m.config.Client, act.PostURI, act.RecordURI))
	default:
		return nil
	}
}

func (m *model) loading() bool {
	return m.session.Page().InitialLoading || m.session.Page().FetchingMore || m.session.Refreshing()
}
