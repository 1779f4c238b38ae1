package atp

import "time"

// Author identifies the account behind a post.
type Author struct {
	DID         string
	Handle      string
	DisplayName string
	Avatar      string
}

// Post is the flattened view of a feed post that the rest of the client
// consumes. Non-video posts still carry their text; Video fields are empty.
type Post struct {
	URI       string
	CID       string
	Author    Author
	Text      string
	CreatedAt time.Time
	IndexedAt time.Time

	VideoPlaylist string
	VideoThumb    string
	AspectWidth   int64
	AspectHeight  int64

	Likes   int64
	Replies int64
	Reposts int64
}

// HasVideo reports whether the post carries a playable video embed.
func (p Post) HasVideo() bool {
	return p.VideoPlaylist != ""
}

// TimelinePage is one page of a feed, in server order.
type TimelinePage struct {
	Posts  []Post
	Cursor string
}

// Feed describes a feed generator the user can browse.
type Feed struct {
	URI         string
	CID         string
	Name        string
	Description string
	Avatar      string
	Saved       bool
	Pinned      bool
}

// Profile is the subset of account profile data the client renders.
type Profile struct {
	DID         string
	Handle      string
	DisplayName string
	Description string
	Avatar      string
	Followers   int64
	Follows     int64
	Posts       int64
}

// Preference is one typed preference record from the account's settings.
// Key/Value carry the single field this client edits for a given type;
// unrecognized types round-trip untouched.
type Preference struct {
	Type  string
	Key   string
	Value string
}

// PrefAdultContent is the preference type for the adult-content toggle.
const PrefAdultContent = "app.bsky.actor.defs#adultContentPref"
