package feed

import (
	"errors"
	"fmt"
	"testing"

	"github.com/flicktui/flick/internal/atp"
)

func makePosts(prefix string, n int) []atp.Post {
	posts := make([]atp.Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, atp.Post{
			URI:    fmt.Sprintf("at://did:plc:%s/app.bsky.feed.post/%d", prefix, i),
			Author: atp.Author{DID: "did:plc:" + prefix, Handle: prefix + ".test"},
		})
	}
	return posts
}

func authedSession(t *testing.T) (*Session, Intent) {
	t.Helper()
	s := NewSession()
	s.SetAuthenticated(true)
	intent, ok := s.SelectFeed(Following(), nil)
	if !ok {
		t.Fatal("selecting the following feed should produce a fetch intent")
	}
	return s, intent
}

func TestSelectFeedRejectsInvalidSelector(t *testing.T) {
	s := NewSession()
	if _, ok := s.SelectFeed(Selector{Kind: KindForYou}, nil); ok {
		t.Fatal("foryou selector without uri must be a no-op")
	}
	if _, ok := s.SelectFeed(Selector{Kind: KindFollowing, URI: "at://x"}, nil); ok {
		t.Fatal("following selector with uri must be a no-op")
	}
}

func TestLoadMoreSingleFlightAndDedupe(t *testing.T) {
	s, initial := authedSession(t)
	if !s.ApplyInitial(initial.Tag, &atp.TimelinePage{Posts: makePosts("a", 20), Cursor: "c1"}, nil) {
		t.Fatal("initial page should apply")
	}

	more, ok := s.BeginMore(18)
	if !ok {
		t.Fatal("load more should fire near the end of the page")
	}
	if more.Cursor != "c1" {
		t.Fatalf("load more cursor = %q, want c1", more.Cursor)
	}

	// While the first request is in flight every further trigger is refused.
	for i := 0; i < 5; i++ {
		if _, ok := s.BeginMore(19); ok {
			t.Fatal("second load more issued while one is in flight")
		}
	}

	// The next page overlaps the first by two posts; duplicates must not land.
	next := append(makePosts("a", 20)[18:], makePosts("b", 20)...)
	if !s.ApplyMore(more.Tag, &atp.TimelinePage{Posts: next, Cursor: "c2"}, nil) {
		t.Fatal("follow-up page should apply")
	}
	if got := s.Page().Len(); got != 40 {
		t.Fatalf("items after overlap append = %d, want 40", got)
	}
	seen := map[string]bool{}
	for _, p := range s.Items() {
		if seen[p.URI] {
			t.Fatalf("duplicate post %s in items", p.URI)
		}
		seen[p.URI] = true
	}
	if s.Page().Cursor != "c2" {
		t.Fatalf("cursor = %q, want c2", s.Page().Cursor)
	}
}

func TestLoadMoreGuards(t *testing.T) {
	s, initial := authedSession(t)
	s.ApplyInitial(initial.Tag, &atp.TimelinePage{Posts: makePosts("a", 10), Cursor: ""}, nil)
	if _, ok := s.BeginMore(9); ok {
		t.Fatal("load more must refuse when the cursor is absent")
	}

	s.ApplyInitial(initial.Tag, nil, errors.New("boom"))
	s.SetAuthenticated(false)
	if _, ok := s.BeginMore(9); ok {
		t.Fatal("load more must refuse while unauthenticated")
	}
}

func TestLoadMoreFailureIsRetryable(t *testing.T) {
	s, initial := authedSession(t)
	s.ApplyInitial(initial.Tag, &atp.TimelinePage{Posts: makePosts("a", 10), Cursor: "c1"}, nil)

	more, _ := s.BeginMore(9)
	s.ApplyMore(more.Tag, nil, errors.New("timeout"))

	if s.Page().Len() != 10 || s.Page().Cursor != "c1" {
		t.Fatal("failed load more must leave the page unchanged")
	}
	if _, ok := s.BeginMore(9); !ok {
		t.Fatal("the same trigger condition must be able to retry")
	}
}

func TestSwitchBackBeforeFirstFetchResolves(t *testing.T) {
	s, intentA1 := authedSession(t)
	s.SelectFeed(ForYou("at://did:plc:gen/app.bsky.feed.generator/b", "B"), &atp.Feed{URI: "at://did:plc:gen/app.bsky.feed.generator/b"})
	intentA2, _ := s.SelectFeed(Following(), nil)

	// The first following fetch resolves only now. Same selector, older
	// generation: still stale, because the page was reset in between.
	if s.ApplyInitial(intentA1.Tag, &atp.TimelinePage{Posts: makePosts("old", 5)}, nil) {
		t.Fatal("response from the first selection must be discarded")
	}
	if !s.ApplyInitial(intentA2.Tag, &atp.TimelinePage{Posts: makePosts("new", 5)}, nil) {
		t.Fatal("response for the live selection should apply")
	}
	if s.Items()[0].Author.Handle != "new.test" {
		t.Fatal("stale items displaced the live session's items")
	}
}

func TestStaleInitialDroppedAfterSwitch(t *testing.T) {
	s := NewSession()
	s.SetAuthenticated(true)
	s.SetKnownFeeds([]string{"at://did:plc:gen/app.bsky.feed.generator/feedx"})

	intentA, _ := s.SelectFeed(Following(), nil)
	intentB, _ := s.SelectFeed(ForYou("at://did:plc:gen/app.bsky.feed.generator/feedx", "Feed X"), nil)

	// A's response arrives after the switch to B: it must be discarded.
	if s.ApplyInitial(intentA.Tag, &atp.TimelinePage{Posts: makePosts("a", 5)}, nil) {
		t.Fatal("stale response for the abandoned session was applied")
	}
	if s.Page().Len() != 0 {
		t.Fatal("stale items leaked into the new session")
	}

	if !s.ApplyInitial(intentB.Tag, &atp.TimelinePage{Posts: makePosts("b", 5)}, nil) {
		t.Fatal("live response should apply")
	}
	for _, p := range s.Items() {
		if p.Author.Handle != "b.test" {
			t.Fatalf("item from the wrong session: %s", p.URI)
		}
	}
}

func TestRefreshCollapsesAndDropsInFlightMore(t *testing.T) {
	s, initial := authedSession(t)
	s.ApplyInitial(initial.Tag, &atp.TimelinePage{Posts: makePosts("a", 20), Cursor: "c1"}, nil)
	more, _ := s.BeginMore(18)

	refresh, ok := s.Refresh()
	if !ok {
		t.Fatal("refresh should start")
	}
	if _, ok := s.Refresh(); ok {
		t.Fatal("concurrent refresh must collapse into the in-flight one")
	}
	// Items stay on screen until the refresh resolves.
	if s.Page().Len() != 20 {
		t.Fatal("refresh must not flash the page to empty")
	}

	// The old load-more lands late; it belongs to the replaced session.
	if s.ApplyMore(more.Tag, &atp.TimelinePage{Posts: makePosts("c", 20), Cursor: "c2"}, nil) {
		t.Fatal("load-more response for the pre-refresh session was applied")
	}

	if !s.ApplyInitial(refresh.Tag, &atp.TimelinePage{Posts: makePosts("d", 20), Cursor: "r1"}, nil) {
		t.Fatal("refresh response should apply")
	}
	if s.Refreshing() {
		t.Fatal("refresh flag stuck after resolution")
	}
	if s.Items()[0].Author.Handle != "d.test" {
		t.Fatal("refresh did not replace from scratch")
	}
}

func TestRefreshFailureKeepsItems(t *testing.T) {
	s, initial := authedSession(t)
	s.ApplyInitial(initial.Tag, &atp.TimelinePage{Posts: makePosts("a", 20), Cursor: "c1"}, nil)

	refresh, _ := s.Refresh()
	s.ApplyInitial(refresh.Tag, nil, errors.New("offline"))

	if s.Page().Len() != 20 {
		t.Fatal("failed refresh must keep prior items")
	}
	if s.Refreshing() || s.Page().InitialLoading {
		t.Fatal("loading flags stuck after failed refresh")
	}
	if _, ok := s.Refresh(); !ok {
		t.Fatal("refresh must be retryable after a failure")
	}
}

func TestScenarioScrollPaginateThenSwitchFeed(t *testing.T) {
	s, initial := authedSession(t)
	s.ApplyInitial(initial.Tag, &atp.TimelinePage{Posts: makePosts("a", 20), Cursor: "c1"}, nil)

	if !s.MoreNeeded(18) {
		t.Fatal("index 18 of 20 is within the trigger distance")
	}
	more, _ := s.BeginMore(18)
	s.ApplyMore(more.Tag, &atp.TimelinePage{Posts: makePosts("b", 20), Cursor: "c2"}, nil)
	if s.Page().Len() != 40 || s.Page().Cursor != "c2" {
		t.Fatalf("after append: len=%d cursor=%q", s.Page().Len(), s.Page().Cursor)
	}

	sel := ForYou("at://did:plc:gen/app.bsky.feed.generator/feedx", "Feed X")
	intent, ok := s.SelectFeed(sel, &atp.Feed{URI: sel.URI, Name: "Feed X"})
	if !ok {
		t.Fatal("feed switch should produce a fetch intent")
	}
	if s.Page().Len() != 0 || !s.Page().InitialLoading {
		t.Fatal("feed switch must reset the page")
	}
	if intent.FeedURI != sel.URI || intent.Cursor != "" {
		t.Fatalf("initial fetch intent = %+v", intent)
	}
}

func TestMoreNeededThreshold(t *testing.T) {
	s, initial := authedSession(t)
	s.ApplyInitial(initial.Tag, &atp.TimelinePage{Posts: makePosts("a", 20), Cursor: "c1"}, nil)

	if s.MoreNeeded(15) {
		t.Fatal("index 15 of 20 is outside the trigger distance")
	}
	if !s.MoreNeeded(16) {
		t.Fatal("index 16 of 20 is within the trigger distance")
	}
}

func TestStoriesNeverPaginate(t *testing.T) {
	s := NewSession()
	s.SetAuthenticated(true)
	intent, _ := s.SelectFeed(Stories(), nil)
	s.ApplyInitial(intent.Tag, &atp.TimelinePage{Posts: makePosts("a", 20), Cursor: "c1"}, nil)

	if s.MoreNeeded(19) {
		t.Fatal("stories must not paginate through the load-more path")
	}
}

func TestStoriesGroupsByAuthorFirstAppearance(t *testing.T) {
	s := NewSession()
	s.SetAuthenticated(true)
	intent, _ := s.SelectFeed(Stories(), nil)

	posts := []atp.Post{
		{URI: "at://p/1", Author: atp.Author{DID: "did:plc:alice", Handle: "alice"}},
		{URI: "at://p/2", Author: atp.Author{DID: "did:plc:bob", Handle: "bob"}},
		{URI: "at://p/3", Author: atp.Author{DID: "did:plc:alice", Handle: "alice"}},
	}
	s.ApplyInitial(intent.Tag, &atp.TimelinePage{Posts: posts}, nil)

	groups := s.StoriesGroups()
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].Author.Handle != "alice" || len(groups[0].Posts) != 2 {
		t.Fatalf("first group = %+v", groups[0])
	}
	if groups[1].Author.Handle != "bob" || len(groups[1].Posts) != 1 {
		t.Fatalf("second group = %+v", groups[1])
	}
}

func TestTemporarySlotLifecycle(t *testing.T) {
	s := NewSession()
	s.SetAuthenticated(true)
	uri := "at://did:plc:gen/app.bsky.feed.generator/new"

	s.SelectFeed(ForYou(uri, "New Feed"), &atp.Feed{URI: uri, Name: "New Feed"})
	if _, ok := s.Temporary(); !ok {
		t.Fatal("unknown feed should occupy the temporary slot")
	}

	// Pinning releases the slot and the feed becomes known.
	if _, ok := s.PinTemporary(); !ok {
		t.Fatal("pin should consume the temporary feed")
	}
	if _, ok := s.Temporary(); ok {
		t.Fatal("temporary slot not cleared on pin")
	}
	s.SelectFeed(ForYou(uri, "New Feed"), nil)
	if _, ok := s.Temporary(); ok {
		t.Fatal("a known feed must never occupy the temporary slot")
	}
}

func TestTemporarySlotClearedByKnownNavigation(t *testing.T) {
	s := NewSession()
	s.SetAuthenticated(true)
	known := "at://did:plc:gen/app.bsky.feed.generator/known"
	s.SetKnownFeeds([]string{known})

	unknown := "at://did:plc:gen/app.bsky.feed.generator/unknown"
	s.SelectFeed(ForYou(unknown, "Unknown"), &atp.Feed{URI: unknown})
	if _, ok := s.Temporary(); !ok {
		t.Fatal("slot should hold the unpinned feed")
	}

	s.SelectFeed(ForYou(known, "Known"), nil)
	if _, ok := s.Temporary(); ok {
		t.Fatal("navigating to a known feed must clear the slot")
	}
}

func TestSetKnownFeedsReleasesPinnedTemporary(t *testing.T) {
	s := NewSession()
	uri := "at://did:plc:gen/app.bsky.feed.generator/f"
	s.SelectFeed(ForYou(uri, "F"), &atp.Feed{URI: uri})

	// Saved-feeds sync discovers the feed is pinned elsewhere.
	s.SetKnownFeeds([]string{uri})
	if _, ok := s.Temporary(); ok {
		t.Fatal("pinned feed left in the temporary slot after sync")
	}
}
