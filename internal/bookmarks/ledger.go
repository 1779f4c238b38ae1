// Package bookmarks tracks save/unsave state per post with optimistic
// updates. Each key moves through a small machine: absent -> pending ->
// committed, with pending -> absent on create failure. The displayed
// saved/unsaved boolean is always derived from the ledger, never set
// directly.
package bookmarks

// pendingSentinel marks an entry whose create round trip has not resolved.
// Record URIs are at:// strings, so the sentinel cannot collide.
const pendingSentinel = "pending"

// ActionKind says what network mutation a toggle or resolution requires.
type ActionKind int

const (
	// ActionNone means no request is needed right now. Either nothing
	// changed, or the work is deferred until an in-flight create resolves.
	ActionNone ActionKind = iota
	// ActionCreate means a save record must be created.
	ActionCreate
	// ActionDelete means the save record must be deleted.
	ActionDelete
)

// Action is the network mutation the caller should issue.
type Action struct {
	Kind      ActionKind
	PostURI   string
	CID       string
	RecordURI string
}

// Ledger maps post URIs to their save state. At most one mutation is in
// flight per post, create or delete; a toggle during that window rewrites the
// optimistic state and the resolution issues whatever follow-up the remote
// record still needs.
type Ledger struct {
	entries  map[string]string
	inFlight map[string]bool
	doomed   map[string]bool
	deleting map[string]string
	revive   map[string]string
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		entries:  map[string]string{},
		inFlight: map[string]bool{},
		doomed:   map[string]bool{},
		deleting: map[string]string{},
		revive:   map[string]string{},
	}
}

// Load replaces the committed entries with the server's save records,
// typically at startup. Pending state is untouched, and entries with an
// unresolved delete are skipped: the list predates the unsave, and applying
// it would resurrect the entry.
func (l *Ledger) Load(saved map[string]string) {
	for postURI, recordURI := range saved {
		if l.entries[postURI] == pendingSentinel {
			continue
		}
		if _, ok := l.deleting[postURI]; ok {
			continue
		}
		l.entries[postURI] = recordURI
	}
}

// Saved reports the UI-visible saved state. Pending counts as saved so the
// toggle never flickers during the round trip.
func (l *Ledger) Saved(postURI string) bool {
	_, ok := l.entries[postURI]
	return ok
}

// Pending reports whether a create round trip is unresolved for the post.
func (l *Ledger) Pending(postURI string) bool {
	return l.entries[postURI] == pendingSentinel
}

// Toggle flips the optimistic save state and returns the mutation to issue.
// It acts on the ledger's current optimistic state, so rapid repeated toggles
// stay coherent even while a create is in flight.
func (l *Ledger) Toggle(postURI, cid string) Action {
	if entry, ok := l.entries[postURI]; ok {
		delete(l.entries, postURI)
		if entry == pendingSentinel {
			if _, deferred := l.revive[postURI]; deferred {
				// The revived create was never sent; dropping the wish is
				// enough, the in-flight delete finishes the job.
				delete(l.revive, postURI)
				return Action{Kind: ActionNone}
			}
			// The record URI is unknown until the create resolves; the
			// delete is issued from ResolveCreate instead.
			l.doomed[postURI] = true
			return Action{Kind: ActionNone}
		}
		l.deleting[postURI] = entry
		return Action{Kind: ActionDelete, PostURI: postURI, RecordURI: entry}
	}

	l.entries[postURI] = pendingSentinel
	if _, ok := l.deleting[postURI]; ok {
		// A delete is on the wire for this post; the create waits for it
		// so only one mutation is ever in flight per URI.
		l.revive[postURI] = cid
		return Action{Kind: ActionNone}
	}
	if l.inFlight[postURI] {
		// A create is already on the wire; adopt its result instead of
		// sending a second one.
		delete(l.doomed, postURI)
		return Action{Kind: ActionNone}
	}
	l.inFlight[postURI] = true
	return Action{Kind: ActionCreate, PostURI: postURI, CID: cid}
}

// ResolveCreate installs the record URI returned by a successful create. If
// the entry was toggled off while the create was in flight, the follow-up
// delete for the fresh record is returned.
func (l *Ledger) ResolveCreate(postURI, recordURI string) Action {
	delete(l.inFlight, postURI)
	if l.doomed[postURI] {
		delete(l.doomed, postURI)
		l.deleting[postURI] = recordURI
		return Action{Kind: ActionDelete, PostURI: postURI, RecordURI: recordURI}
	}
	if l.entries[postURI] == pendingSentinel {
		l.entries[postURI] = recordURI
	}
	return Action{Kind: ActionNone}
}

// ResolveDelete clears the in-flight delete. If the post was re-saved while
// the delete was on the wire, the deferred mutation comes back: a fresh
// create after a successful delete, or the surviving record re-adopted after
// a failed one. Deletes without a revived entry are never rolled back; the
// next toggle reconciles against the server.
func (l *Ledger) ResolveDelete(postURI string, failed bool) Action {
	recordURI, ok := l.deleting[postURI]
	if !ok {
		return Action{Kind: ActionNone}
	}
	delete(l.deleting, postURI)

	cid, revived := l.revive[postURI]
	if !revived {
		return Action{Kind: ActionNone}
	}
	delete(l.revive, postURI)
	if l.entries[postURI] != pendingSentinel {
		return Action{Kind: ActionNone}
	}
	if failed {
		l.entries[postURI] = recordURI
		return Action{Kind: ActionNone}
	}
	l.inFlight[postURI] = true
	return Action{Kind: ActionCreate, PostURI: postURI, CID: cid}
}

// FailCreate rolls the optimistic entry back to absent, restoring the
// pre-toggle appearance.
func (l *Ledger) FailCreate(postURI string) {
	delete(l.inFlight, postURI)
	delete(l.doomed, postURI)
	if l.entries[postURI] == pendingSentinel {
		delete(l.entries, postURI)
	}
}

// Count returns how many posts are currently saved (pending included).
func (l *Ledger) Count() int {
	return len(l.entries)
}

// RecordURIs returns the committed postURI -> recordURI entries, e.g. for the
// library overlay. Pending entries are excluded; their record does not exist
// yet.
func (l *Ledger) RecordURIs() map[string]string {
	out := make(map[string]string, len(l.entries))
	for postURI, entry := range l.entries {
		if entry != pendingSentinel {
			out[postURI] = entry
		}
	}
	return out
}
