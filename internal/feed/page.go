package feed

import "github.com/flicktui/flick/internal/atp"

// Page is the loaded slice of the active feed. Items are unique by post URI
// and kept in server order. An empty cursor means no further pages exist.
type Page struct {
	Items          []atp.Post
	Cursor         string
	InitialLoading bool
	FetchingMore   bool

	seen map[string]struct{}
}

// Reset empties the page and marks it loading.
func (p *Page) Reset() {
	p.Items = nil
	p.Cursor = ""
	p.InitialLoading = true
	p.FetchingMore = false
	p.seen = nil
}

// Replace installs a fresh first page, discarding anything loaded before.
func (p *Page) Replace(posts []atp.Post, cursor string) {
	p.Items = nil
	p.seen = make(map[string]struct{}, len(posts))
	p.Cursor = ""
	p.append(posts)
	p.Cursor = cursor
}

// Append adds a follow-up page, dropping posts already present, and advances
// the cursor. An empty cursor ends pagination.
func (p *Page) Append(posts []atp.Post, cursor string) {
	if p.seen == nil {
		p.seen = make(map[string]struct{}, len(p.Items))
		for _, post := range p.Items {
			p.seen[post.URI] = struct{}{}
		}
	}
	p.append(posts)
	p.Cursor = cursor
}

func (p *Page) append(posts []atp.Post) {
	for _, post := range posts {
		if _, dup := p.seen[post.URI]; dup {
			continue
		}
		p.seen[post.URI] = struct{}{}
		p.Items = append(p.Items, post)
	}
}

// HasMore reports whether another page can be requested.
func (p *Page) HasMore() bool {
	return p.Cursor != ""
}

// Len returns the number of loaded items.
func (p *Page) Len() int {
	return len(p.Items)
}
