package postscache

import (
	"fmt"
	"time"

	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
)

// normalizePosts drops posts without a title (deleted or invalid upstream)
// and guarantees every remaining post carries a usable id. Applied to every
// fetch result before it touches cache state.
func normalizePosts(posts []entity.Post) []entity.Post {
	out := make([]entity.Post, 0, len(posts))
	for _, p := range posts {
		if p.Title == "" {
			continue
		}
		ensurePostID(&p, len(out))
		out = append(out, p)
	}
	return out
}

// ensurePostID synthesizes an id when the upstream post has none. Author and
// permlink uniquely identify a post on chain; the timestamp form is a last
// resort kept unique within a batch by the discriminator.
func ensurePostID(p *entity.Post, discriminator int) {
	if p.ID != "" {
		return
	}
	if p.Author != "" && p.Permlink != "" {
		p.ID = p.Author + "-" + p.Permlink
		return
	}
	p.ID = fmt.Sprintf("post-%d-%d", time.Now().Unix(), discriminator)
}

// classifyNew returns the subset of posts whose ids are not yet in seen, in
// fetched order, and records every fetched id. The seen set only grows.
func classifyNew(seen map[string]struct{}, posts []entity.Post) []entity.Post {
	var fresh []entity.Post
	for _, p := range posts {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		fresh = append(fresh, p)
	}
	return fresh
}
