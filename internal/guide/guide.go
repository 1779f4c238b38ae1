// Package guide builds the contextual hint list shown in the help overlay.
package guide

import (
	"fmt"
	"strings"
)

// Step is one actionable hint.
type Step struct {
	Title       string
	Description string
}

// State carries just enough session context to personalize the hints.
type State struct {
	Authenticated bool
	FeedTitle     string
	SavedFeeds    int
	SavedPosts    int
}

// Build returns the hints in reading order, tailored to the current state.
func Build(state State) []Step {
	if !state.Authenticated {
		return []Step{
			{
				Title:       "Sign in",
				Description: "Press i and enter your handle and an app password, or set FLICK_APP_PASSWORD and an identifier in the config to sign in automatically.",
			},
		}
	}

	feed := strings.TrimSpace(state.FeedTitle)
	if feed == "" {
		feed = "the feed"
	}

	steps := []Step{
		{
			Title:       "Scroll",
			Description: fmt.Sprintf("j/k or the mouse wheel move through %s. Drag down from the first post to refresh; drag left on the feed for the menu.", feed),
		},
		{
			Title:       "Pause and focus",
			Description: "space pauses the current video until you scroll on. enter locks focus full-bleed; esc releases it.",
		},
		{
			Title:       "Save",
			Description: "s saves the current post to your library (l). A save that fails simply reverts, tap s again to retry.",
		},
	}

	switch {
	case state.SavedFeeds == 0:
		steps = append(steps, Step{
			Title:       "Find feeds",
			Description: "Press f to browse feeds, type to filter, enter to open one. An opened feed stays temporary until pinned with ctrl+p.",
		})
	default:
		steps = append(steps, Step{
			Title:       "Switch feeds",
			Description: fmt.Sprintf("1 following, 2 your first saved feed, 3 stories. f filters all %d saved feeds.", state.SavedFeeds),
		})
	}

	if state.SavedPosts > 0 {
		steps = append(steps, Step{
			Title:       "Library",
			Description: fmt.Sprintf("l lists your %d saved posts.", state.SavedPosts),
		})
	}
	return steps
}
