// Package feed holds the feed session state machine: which content stream is
// active, its pagination cursor, and the rules for when more content loads.
// All state here is mutated only from the UI event loop; network calls are
// described as intents and applied back through generation-tagged results.
package feed

import (
	"errors"
	"fmt"
)

// Kind is the tri-state feed type.
type Kind int

const (
	// KindFollowing is the default following timeline.
	KindFollowing Kind = iota
	// KindForYou is a named feed generator.
	KindForYou
	// KindStories groups already-loaded posts by author and never paginates.
	KindStories
)

func (k Kind) String() string {
	switch k {
	case KindFollowing:
		return "following"
	case KindForYou:
		return "foryou"
	case KindStories:
		return "stories"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a stored preference string back to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "following":
		return KindFollowing, true
	case "foryou":
		return KindForYou, true
	case "stories":
		return KindStories, true
	default:
		return KindFollowing, false
	}
}

// Selector identifies which content stream is active. URI is set exactly when
// Kind is KindForYou.
type Selector struct {
	Kind  Kind
	URI   string
	Title string
}

// Following returns the selector for the default timeline.
func Following() Selector {
	return Selector{Kind: KindFollowing, Title: "Following"}
}

// ForYou returns the selector for a named feed generator.
func ForYou(uri, title string) Selector {
	return Selector{Kind: KindForYou, URI: uri, Title: title}
}

// Stories returns the selector for the author-grouped stories view.
func Stories() Selector {
	return Selector{Kind: KindStories, Title: "Stories"}
}

var errSelectorURI = errors.New("feed selector: uri set iff kind is foryou")

// Validate enforces the selector invariant.
func (s Selector) Validate() error {
	if (s.Kind == KindForYou) != (s.URI != "") {
		return errSelectorURI
	}
	return nil
}

// Equal reports whether two selectors name the same stream. Titles are
// presentation only and do not participate.
func (s Selector) Equal(o Selector) bool {
	return s.Kind == o.Kind && s.URI == o.URI
}
