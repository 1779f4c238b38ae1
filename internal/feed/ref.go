package feed

import "github.com/flicktui/flick/internal/atp"

// Ref carries the full feed object for a feed the user navigated to but has
// not pinned yet. Saved feeds never need a Ref; the session tracks them by
// URI.
type Ref struct {
	uri       string
	ephemeral *atp.Feed
}

// Ephemeral references a feed by its carried object.
func Ephemeral(f *atp.Feed) Ref {
	if f == nil {
		return Ref{}
	}
	return Ref{uri: f.URI, ephemeral: f}
}

// URI returns the feed URI regardless of variant. Empty for the zero Ref.
func (r Ref) URI() string {
	return r.uri
}

// Feed returns the carried feed object when the ref is ephemeral.
func (r Ref) Feed() (*atp.Feed, bool) {
	return r.ephemeral, r.ephemeral != nil
}

// IsZero reports whether the ref points at nothing.
func (r Ref) IsZero() bool {
	return r.uri == "" && r.ephemeral == nil
}
