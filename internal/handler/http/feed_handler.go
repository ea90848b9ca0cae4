package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hivebuzz/hivebuzz/internal/handler/http/dto"
	usecasecontract "github.com/hivebuzz/hivebuzz/internal/usecase/contract"
)

// the longest a request is allowed to wait on a feed still loading
const maxFeedWait = 15 * time.Second

// FeedHandlerInterface defines the methods for Feed handler to allow interface-based dependency injection (for testing/mocking)
type FeedHandlerInterface interface {
	GetPostsHandler(*gin.Context)
	GetNewPostsHandler(*gin.Context)
	MergeNewPostsHandler(*gin.Context)
	FeedStatusHandler(*gin.Context)
	CacheStatusHandler(*gin.Context)
	ClearCacheHandler(*gin.Context)
}

// Ensure FeedHandler implements FeedHandlerInterface
var _ FeedHandlerInterface = (*FeedHandler)(nil)

type FeedHandler struct {
	feedUsecase usecasecontract.IFeedUseCase
}

func NewFeedHandler(feedUsecase usecasecontract.IFeedUseCase) *FeedHandler {
	return &FeedHandler{
		feedUsecase: feedUsecase,
	}
}

// GetPostsHandler serves a page of cached posts for a feed.
func (h *FeedHandler) GetPostsHandler(cxt *gin.Context) {
	feedType := cxt.DefaultQuery("feed", "trending")
	tag := cxt.Query("tag")

	limit, err := strconv.Atoi(cxt.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		ErrorHandler(cxt, http.StatusBadRequest, "Invalid limit parameter")
		return
	}

	// wait= lets the first page block briefly while a priority feed is
	// still loading instead of flashing an empty screen
	var wait time.Duration
	if raw := cxt.Query("wait"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs < 0 {
			ErrorHandler(cxt, http.StatusBadRequest, "Invalid wait parameter")
			return
		}
		wait = time.Duration(secs) * time.Second
		if wait > maxFeedWait {
			wait = maxFeedWait
		}
	}

	includeNew := cxt.Query("include_new") == "true"

	page, err := h.feedUsecase.GetFeed(cxt.Request.Context(), feedType, tag, limit, wait, includeNew)
	if err != nil {
		ErrorHandler(cxt, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}

	SuccessHandler(cxt, http.StatusOK, dto.ToFeedResponse(page))
}

// GetNewPostsHandler serves the posts that arrived since the user last
// merged, without disturbing the visible list.
func (h *FeedHandler) GetNewPostsHandler(cxt *gin.Context) {
	feedType := cxt.DefaultQuery("feed", "trending")
	tag := cxt.Query("tag")

	limit, err := strconv.Atoi(cxt.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		ErrorHandler(cxt, http.StatusBadRequest, "Invalid limit parameter")
		return
	}

	posts, newCount, err := h.feedUsecase.GetNewPosts(cxt.Request.Context(), feedType, tag, limit)
	if err != nil {
		ErrorHandler(cxt, http.StatusInternalServerError, "Failed to fetch new posts")
		return
	}

	SuccessHandler(cxt, http.StatusOK, dto.NewPostsResponse{
		Posts:    posts,
		FeedType: feedType,
		Tag:      tag,
		NewCount: newCount,
	})
}

// MergeNewPostsHandler promotes buffered new posts to the top of the feed.
func (h *FeedHandler) MergeNewPostsHandler(cxt *gin.Context) {
	var req dto.MergeRequest
	if err := BindAndValidate(cxt, &req); err != nil {
		return
	}

	// username is set by the auth middleware when a session is present;
	// merging works for anonymous visitors too
	username := cxt.GetString("username")

	merged, err := h.feedUsecase.MergeNewPosts(cxt.Request.Context(), username, req.Feed, req.Tag)
	if err != nil {
		ErrorHandler(cxt, http.StatusBadRequest, err.Error())
		return
	}

	SuccessHandler(cxt, http.StatusOK, dto.MergeResponse{
		Merged:   merged,
		FeedType: req.Feed,
		Tag:      req.Tag,
	})
}

// FeedStatusHandler reports readiness flags the frontend polls while the
// cache warms up.
func (h *FeedHandler) FeedStatusHandler(cxt *gin.Context) {
	feedType := cxt.DefaultQuery("feed", "trending")
	tag := cxt.Query("tag")

	ready, hasContent, updating, startupComplete := h.feedUsecase.FeedStatus(feedType, tag)

	SuccessHandler(cxt, http.StatusOK, dto.FeedStatusResponse{
		FeedType:        feedType,
		Tag:             tag,
		Ready:           ready,
		HasContent:      hasContent,
		Updating:        updating,
		StartupComplete: startupComplete,
	})
}

// CacheStatusHandler returns the full cache status document.
func (h *FeedHandler) CacheStatusHandler(cxt *gin.Context) {
	SuccessHandler(cxt, http.StatusOK, h.feedUsecase.CacheStatus())
}

// ClearCacheHandler deletes persisted snapshot files older than the given
// age. Zero means delete everything.
func (h *FeedHandler) ClearCacheHandler(cxt *gin.Context) {
	var req dto.ClearCacheRequest
	if err := cxt.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		ErrorHandler(cxt, http.StatusBadRequest, err.Error())
		return
	}
	if req.OlderThanSeconds < 0 {
		ErrorHandler(cxt, http.StatusBadRequest, "older_than_seconds must not be negative")
		return
	}

	removed, err := h.feedUsecase.ClearCacheFiles(time.Duration(req.OlderThanSeconds) * time.Second)
	if err != nil {
		ErrorHandler(cxt, http.StatusInternalServerError, "Failed to clear cache files")
		return
	}

	SuccessHandler(cxt, http.StatusOK, dto.ClearCacheResponse{Removed: removed})
}
