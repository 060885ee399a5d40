// ABOUTME: Tag view over the charm mirror.
// ABOUTME: Tags live inline on posts; this aggregates them with counts.

package charm

import (
	"sort"
	"strings"
)

type TagWithCount struct {
	ID    string
	Label string
	Count int
}

// RemoteTags returns every tag used by a mirrored post, ordered by label.
func (c *Client) RemoteTags() ([]TagWithCount, error) {
	posts, err := c.PullPosts()
	if err != nil {
		return nil, err
	}
	return countTags(posts), nil
}

func countTags(posts []*PostData) []TagWithCount {
	byID := make(map[string]*TagWithCount)
	for _, p := range posts {
		for _, t := range p.Tags {
			tc, ok := byID[t.ID]
			if !ok {
				tc = &TagWithCount{ID: t.ID, Label: t.Label}
				byID[t.ID] = tc
			}
			tc.Count++
		}
	}

	out := make([]TagWithCount, 0, len(byID))
	for _, tc := range byID {
		out = append(out, *tc)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Label) < strings.ToLower(out[j].Label)
	})
	return out
}
