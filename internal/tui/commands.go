package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flicktui/flick/internal/atp"
	"github.com/flicktui/flick/internal/feed"
	"github.com/flicktui/flick/internal/prefs"
)

const (
	fetchTimeout    = 20 * time.Second
	mutationTimeout = 15 * time.Second
)

func checkSessionJob(client atp.Client) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		if !client.HasSession(ctx) {
			return sessionMsg{authed: false}, nil
		}
		return sessionMsg{authed: true, saved: client.Session()}, nil
	}
}

func loginJob(client atp.Client, identifier, password string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		if err := client.Login(ctx, identifier, password); err != nil {
			return loginMsg{err: err}, err
		}
		return loginMsg{saved: client.Session()}, nil
	}
}

// fetchTimelineJob issues the fetch described by a session intent. The
// intent's tag rides along so the arrival handler can discard it if the feed
// selection moved on in the meantime.
func fetchTimelineJob(client atp.Client, intent feed.Intent) jobRunner {
	more := intent.Cursor != ""
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		page, err := client.FetchTimeline(ctx, intent.FeedURI, intent.Cursor, feedPageLimit)
		if err != nil {
			return timelineMsg{tag: intent.Tag, more: more, refresh: intent.Refresh, err: err}, err
		}
		return timelineMsg{tag: intent.Tag, more: more, refresh: intent.Refresh, page: page}, nil
	}
}

func listBookmarksJob(client atp.Client) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		saved, err := client.ListBookmarks(ctx)
		if err != nil {
			return bookmarksMsg{err: err}, err
		}
		return bookmarksMsg{saved: saved}, nil
	}
}

func createBookmarkJob(client atp.Client, postURI, cid string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, mutationTimeout)
		defer cancel()
		recordURI, err := client.CreateBookmark(ctx, postURI, cid)
		if err != nil {
			return bookmarkCreatedMsg{postURI: postURI, err: err}, err
		}
		return bookmarkCreatedMsg{postURI: postURI, recordURI: recordURI}, nil
	}
}

func deleteBookmarkJob(client atp.Client, postURI, recordURI string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, mutationTimeout)
		defer cancel()
		if err := client.DeleteBookmark(ctx, recordURI); err != nil {
			return bookmarkDeletedMsg{postURI: postURI, recordURI: recordURI, err: err}, err
		}
		return bookmarkDeletedMsg{postURI: postURI, recordURI: recordURI}, nil
	}
}

func savedFeedsJob(client atp.Client) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		feeds, err := client.ListSavedFeeds(ctx)
		if err != nil {
			return savedFeedsMsg{err: err}, err
		}
		return savedFeedsMsg{feeds: feeds}, nil
	}
}

func toggleSavedFeedJob(client atp.Client, feedURI string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, mutationTimeout)
		defer cancel()
		if err := client.ToggleSavedFeed(ctx, feedURI); err != nil {
			return feedToggledMsg{feedURI: feedURI, err: err}, err
		}
		return feedToggledMsg{feedURI: feedURI}, nil
	}
}

func fetchProfileJob(client atp.Client, actor string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		profile, err := client.FetchProfile(ctx, actor)
		if err != nil {
			return profileMsg{err: err}, err
		}
		return profileMsg{profile: profile}, nil
	}
}

func listPreferencesJob(client atp.Client) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		out, err := client.Preferences(ctx)
		if err != nil {
			return preferencesMsg{err: err}, err
		}
		return preferencesMsg{prefs: out}, nil
	}
}

func setPreferenceJob(client atp.Client, pref atp.Preference) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, mutationTimeout)
		defer cancel()
		if err := client.SetPreference(ctx, pref); err != nil {
			return preferenceSetMsg{pref: pref, err: err}, err
		}
		return preferenceSetMsg{pref: pref}, nil
	}
}

func savePrefsJob(path string, p prefs.Prefs) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		if err := prefs.Save(path, p); err != nil {
			return prefsSavedMsg{err: err}, err
		}
		return prefsSavedMsg{}, nil
	}
}

func saveSessionJob(path string, saved atp.SavedSession) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		err := atp.SaveSession(path, saved)
		return prefsSavedMsg{err: err}, err
	}
}

func clearSessionJob(path string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		err := atp.ClearSession(path)
		return sessionClearedMsg{err: err}, err
	}
}
