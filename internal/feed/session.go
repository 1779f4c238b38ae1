package feed

import "github.com/flicktui/flick/internal/atp"

// moreThreshold is how close to the end of the loaded items the active index
// must be before the next page is requested.
const moreThreshold = 3

// Tag identifies which feed session a fetch belongs to. Results arriving with
// a stale tag are discarded; there is no harder cancellation primitive.
type Tag struct {
	Gen      int
	Selector Selector
}

// Intent describes a fetch the caller should issue on the session's behalf.
type Intent struct {
	Tag     Tag
	FeedURI string
	Cursor  string
	Refresh bool
}

// Session coordinates the active feed: selector, loaded page, temporary feed
// slot, and the in-flight bookkeeping that keeps late responses from
// corrupting a newer session.
type Session struct {
	selector   Selector
	page       Page
	temporary  Ref
	known      map[string]bool
	gen        int
	refreshing bool
	authed     bool
}

// NewSession returns a session with no feed selected.
func NewSession() *Session {
	return &Session{known: map[string]bool{}}
}

// SetAuthenticated records whether the account holds a valid session. Load
// more is refused while unauthenticated.
func (s *Session) SetAuthenticated(ok bool) {
	s.authed = ok
}

// SetKnownFeeds replaces the set of saved feed URIs. If the temporary slot now
// names a saved feed it is released: a pinned feed never occupies the slot.
func (s *Session) SetKnownFeeds(uris []string) {
	s.known = make(map[string]bool, len(uris))
	for _, uri := range uris {
		s.known[uri] = true
	}
	if !s.temporary.IsZero() && s.known[s.temporary.URI()] {
		s.temporary = Ref{}
	}
}

// Selector returns the active selector.
func (s *Session) Selector() Selector {
	return s.selector
}

// Page exposes the loaded page for rendering.
func (s *Session) Page() *Page {
	return &s.page
}

// Items returns the loaded posts in server order.
func (s *Session) Items() []atp.Post {
	return s.page.Items
}

// Temporary returns the unpinned feed occupying the temporary slot, if any.
func (s *Session) Temporary() (*atp.Feed, bool) {
	return s.temporary.Feed()
}

// SelectFeed switches the active feed. The page is always reset and a tagged
// initial fetch intent returned; any in-flight fetch for the previous
// selection becomes stale. Invalid selectors are a no-op.
func (s *Session) SelectFeed(sel Selector, carried *atp.Feed) (Intent, bool) {
	if err := sel.Validate(); err != nil {
		return Intent{}, false
	}

	switch {
	case sel.Kind != KindForYou:
		s.temporary = Ref{}
	case s.known[sel.URI]:
		s.temporary = Ref{}
	case carried != nil:
		s.temporary = Ephemeral(carried)
	case s.temporary.URI() != sel.URI:
		s.temporary = Ref{}
	}

	s.selector = sel
	s.gen++
	s.refreshing = false
	s.page.Reset()
	return Intent{Tag: s.tag(), FeedURI: s.fetchURI()}, true
}

// Refresh re-requests the first page while keeping the rendered items until
// new data arrives. Concurrent refreshes collapse into the in-flight one.
func (s *Session) Refresh() (Intent, bool) {
	if s.refreshing {
		return Intent{}, false
	}
	s.gen++
	s.refreshing = true
	s.page.FetchingMore = false
	return Intent{Tag: s.tag(), FeedURI: s.fetchURI(), Refresh: true}, true
}

// Refreshing reports whether a refresh is in flight, for the pull indicator.
func (s *Session) Refreshing() bool {
	return s.refreshing
}

// Live reports whether a tag belongs to the current generation. A stale tag's
// result has already been superseded by a newer selection or refresh.
func (s *Session) Live(tag Tag) bool {
	return tag.Gen == s.gen
}

// ApplyInitial installs the result of an initial or refresh fetch. Stale tags
// are dropped. The loading flags always clear for a live tag, so the UI can
// never be stuck loading after an error.
func (s *Session) ApplyInitial(tag Tag, page *atp.TimelinePage, err error) bool {
	if tag.Gen != s.gen {
		return false
	}
	s.page.InitialLoading = false
	s.refreshing = false
	if err != nil || page == nil {
		// Transient failure. A plain load keeps its empty page; a refresh
		// keeps whatever was on screen. Either way the same trigger retries.
		return false
	}
	s.page.Replace(page.Posts, page.Cursor)
	return true
}

// MoreNeeded reports whether the active index has drifted close enough to the
// end to request the next page. Stories never paginate through this path.
func (s *Session) MoreNeeded(active int) bool {
	if !s.authed || s.selector.Kind == KindStories {
		return false
	}
	if s.page.InitialLoading || s.page.FetchingMore || !s.page.HasMore() {
		return false
	}
	n := s.page.Len()
	if n == 0 {
		return false
	}
	return n-1-active <= moreThreshold
}

// BeginMore marks a load-more in flight and returns its intent. Refused while
// one is already pending, when no cursor remains, or when unauthenticated.
func (s *Session) BeginMore(active int) (Intent, bool) {
	if !s.MoreNeeded(active) {
		return Intent{}, false
	}
	s.page.FetchingMore = true
	return Intent{Tag: s.tag(), FeedURI: s.fetchURI(), Cursor: s.page.Cursor}, true
}

// ApplyMore appends a follow-up page. Stale tags are dropped; failures leave
// the page unchanged so the same trigger condition can retry.
func (s *Session) ApplyMore(tag Tag, page *atp.TimelinePage, err error) bool {
	if tag.Gen != s.gen {
		return false
	}
	s.page.FetchingMore = false
	if err != nil || page == nil {
		return false
	}
	s.page.Append(page.Posts, page.Cursor)
	return true
}

// PinTemporary marks the temporary feed as saved, releasing the slot. The
// caller is responsible for the remote toggle.
func (s *Session) PinTemporary() (*atp.Feed, bool) {
	f, ok := s.temporary.Feed()
	if !ok {
		return nil, false
	}
	s.known[f.URI] = true
	s.temporary = Ref{}
	return f, true
}

func (s *Session) tag() Tag {
	return Tag{Gen: s.gen, Selector: s.selector}
}

// fetchURI maps the selector to the collaborator's feed argument. Stories
// reuse the following timeline; grouping happens client side.
func (s *Session) fetchURI() string {
	if s.selector.Kind == KindForYou {
		return s.selector.URI
	}
	return ""
}
