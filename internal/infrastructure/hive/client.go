// Package hive implements the blockchain API client used to populate the
// posts cache. The cache treats it as a black box: a call either returns a
// list of posts within a bounded time or fails.
package hive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"context"

	"github.com/hivebuzz/hivebuzz/internal/domain/contract"
	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
	usecasecontract "github.com/hivebuzz/hivebuzz/internal/usecase/contract"
)

const requestTimeout = 15 * time.Second

// feedSorts maps cache feed types to bridge API sort orders.
var feedSorts = map[string]string{
	"trending": "trending",
	"hot":      "hot",
	"new":      "created",
	"promoted": "promoted",
}

// Client talks to a Hive bridge API node.
type Client struct {
	apiURL     string
	httpClient *http.Client
	logger     usecasecontract.IAppLogger
}

// NewClient creates a Hive API client for the given node URL.
func NewClient(apiURL string, appLogger usecasecontract.IAppLogger) *Client {
	return &Client{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     appLogger,
	}
}

var _ contract.IFeedFetcher = (*Client)(nil)

// FetchFeed fetches ranked posts for a feed type and optional tag. The
// "new" feed is sorted newest-first by creation time before returning.
func (c *Client) FetchFeed(ctx context.Context, feedType, tag string, limit int) ([]entity.Post, error) {
	sortOrder, ok := feedSorts[feedType]
	if !ok {
		sortOrder = "trending"
	}

	payload, err := json.Marshal(map[string]interface{}{
		"sort":  sortOrder,
		"tag":   tag,
		"limit": limit,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding feed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiURL+"/bridge.get_ranked_posts", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s posts: %w", feedType, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s posts: unexpected status %d", feedType, resp.StatusCode)
	}

	rawPosts, err := decodeRankedPosts(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding %s posts: %w", feedType, err)
	}

	posts := make([]entity.Post, 0, len(rawPosts))
	for _, raw := range rawPosts {
		post, ok := formatPost(raw)
		if !ok {
			c.logger.Warningf("skipping post missing author/permlink")
			continue
		}
		posts = append(posts, post)
	}

	if feedType == "new" {
		sort.Slice(posts, func(i, j int) bool {
			return posts[i].Created.After(posts[j].Created)
		})
	}

	c.logger.Infof("returning %d formatted posts from blockchain", len(posts))
	return posts, nil
}
