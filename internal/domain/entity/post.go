package entity

import "time"

// Post represents a single blockchain post as served by the feed cache.
// Posts are canonical on chain; this is the normalized read-side shape.
type Post struct {
	ID             string    `json:"id"`
	Author         string    `json:"author"`
	Permlink       string    `json:"permlink"`
	Title          string    `json:"title"`
	Body           string    `json:"body,omitempty"`
	Category       string    `json:"category,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	Created        time.Time `json:"created"`
	PendingPayout  string    `json:"pending_payout_value,omitempty"`
	VoteCount      int       `json:"vote_count"`
	CommentCount   int       `json:"comment_count"`
	ImageURL       string    `json:"image,omitempty"`
	FromBlockchain bool      `json:"from_blockchain,omitempty"`
}

// HasTag reports whether the post carries the given tag.
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
