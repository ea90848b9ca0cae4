package hive

import (
	"encoding/json"
	"io"
	"time"

	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
)

// createdLayout is the timestamp format used by Hive API nodes.
const createdLayout = "2006-01-02T15:04:05"

// rawPost is the wire shape of one post as returned by the bridge API.
// json_metadata arrives either as an object or a JSON-encoded string.
type rawPost struct {
	Author             string          `json:"author"`
	Permlink           string          `json:"permlink"`
	Title              string          `json:"title"`
	Body               string          `json:"body"`
	Category           string          `json:"category"`
	Created            string          `json:"created"`
	PendingPayoutValue string          `json:"pending_payout_value"`
	Children           int             `json:"children"`
	NetVotes           int             `json:"net_votes"`
	ActiveVotes        json.RawMessage `json:"active_votes"`
	JSONMetadata       json.RawMessage `json:"json_metadata"`
}

type postMetadata struct {
	Tags  []string `json:"tags"`
	Image []string `json:"image"`
}

// decodeRankedPosts handles both response shapes the bridge API produces:
// a bare array, or an object with a "result" array.
func decodeRankedPosts(r io.Reader) ([]rawPost, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Result []rawPost `json:"result"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Result != nil {
		return wrapped.Result, nil
	}

	var plain []rawPost
	if err := json.Unmarshal(data, &plain); err != nil {
		return nil, err
	}
	return plain, nil
}

// formatPost normalizes a raw API post into the entity shape. Posts without
// author or permlink cannot be identified and are rejected.
func formatPost(raw rawPost) (entity.Post, bool) {
	if raw.Author == "" || raw.Permlink == "" {
		return entity.Post{}, false
	}

	meta := parseMetadata(raw.JSONMetadata)
	tags := meta.Tags
	if len(tags) == 0 && raw.Category != "" {
		tags = []string{raw.Category}
	}
	image := ""
	if len(meta.Image) > 0 {
		image = meta.Image[0]
	}

	created, _ := time.Parse(createdLayout, raw.Created)

	votes := raw.NetVotes
	if len(raw.ActiveVotes) > 0 {
		var av []json.RawMessage
		if err := json.Unmarshal(raw.ActiveVotes, &av); err == nil {
			votes = len(av)
		}
	}

	return entity.Post{
		ID:             raw.Author + "-" + raw.Permlink,
		Author:         raw.Author,
		Permlink:       raw.Permlink,
		Title:          raw.Title,
		Body:           raw.Body,
		Category:       raw.Category,
		Tags:           tags,
		Created:        created,
		PendingPayout:  raw.PendingPayoutValue,
		VoteCount:      votes,
		CommentCount:   raw.Children,
		ImageURL:       image,
		FromBlockchain: true,
	}, true
}

// parseMetadata tolerates the string-or-object encoding of json_metadata.
func parseMetadata(raw json.RawMessage) postMetadata {
	var meta postMetadata
	if len(raw) == 0 {
		return meta
	}
	if err := json.Unmarshal(raw, &meta); err == nil {
		return meta
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil && encoded != "" {
		_ = json.Unmarshal([]byte(encoded), &meta)
	}
	return meta
}
