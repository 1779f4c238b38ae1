package feed

import "github.com/flicktui/flick/internal/atp"

// StoryGroup is one author's run of loaded posts, in server order.
type StoryGroup struct {
	Author atp.Author
	Posts  []atp.Post
}

// StoriesGroups buckets the loaded items by author, ordered by each author's
// first appearance. Stories never fetch on their own; they reshape whatever
// the session already holds.
func (s *Session) StoriesGroups() []StoryGroup {
	var groups []StoryGroup
	index := map[string]int{}
	for _, post := range s.page.Items {
		did := post.Author.DID
		i, ok := index[did]
		if !ok {
			i = len(groups)
			index[did] = i
			groups = append(groups, StoryGroup{Author: post.Author})
		}
		groups[i].Posts = append(groups[i].Posts, post)
	}
	return groups
}
