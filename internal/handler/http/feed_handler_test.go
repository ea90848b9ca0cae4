package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	handler "github.com/hivebuzz/hivebuzz/internal/handler/http"
	dto "github.com/hivebuzz/hivebuzz/internal/handler/http/dto"
	mocks "github.com/hivebuzz/hivebuzz/internal/handler/http/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupFeedRouter(h handler.FeedHandlerInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	r.GET("/posts", h.GetPostsHandler)
	r.GET("/posts/new", h.GetNewPostsHandler)
	r.POST("/posts/merge", h.MergeNewPostsHandler)
	r.GET("/feed-status", h.FeedStatusHandler)
	r.GET("/status", h.CacheStatusHandler)
	r.POST("/maintenance/clear-cache", h.ClearCacheHandler)
	return r
}

func TestGetPosts(t *testing.T) {
	mockUsecase := mocks.NewMockFeedUsecase()
	h := handler.NewFeedHandler(mockUsecase)
	r := setupFeedRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts?feed=hot&tag=travel&limit=10&wait=5&include_new=true", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.FeedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "hot", resp.FeedType)
	assert.Equal(t, "travel", resp.Tag)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "hot", mockUsecase.LastFeedType)
	assert.Equal(t, 10, mockUsecase.LastLimit)
	assert.True(t, mockUsecase.LastIncludeNew)
}

func TestGetPosts_Defaults(t *testing.T) {
	mockUsecase := mocks.NewMockFeedUsecase()
	h := handler.NewFeedHandler(mockUsecase)
	r := setupFeedRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "trending", mockUsecase.LastFeedType)
	assert.Equal(t, 20, mockUsecase.LastLimit)
	assert.Zero(t, mockUsecase.LastWait)
}

func TestGetPosts_InvalidLimit(t *testing.T) {
	mockUsecase := mocks.NewMockFeedUsecase()
	h := handler.NewFeedHandler(mockUsecase)
	r := setupFeedRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts?limit=nope", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid limit parameter")
}

func TestGetPosts_Fail(t *testing.T) {
	mockUsecase := mocks.NewMockFeedUsecase()
	mockUsecase.ShouldFailGetFeed = true
	h := handler.NewFeedHandler(mockUsecase)
	r := setupFeedRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetNewPosts(t *testing.T) {
	mockUsecase := mocks.NewMockFeedUsecase()
	mockUsecase.MockNewPosts = mockUsecase.MockPosts[:1]
	mockUsecase.MockNewCount = 1
	h := handler.NewFeedHandler(mockUsecase)
	r := setupFeedRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts/new?feed=trending", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.NewPostsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Posts, 1)
	assert.Equal(t, 1, resp.NewCount)
}

func TestMergeNewPosts(t *testing.T) {
	mockUsecase := mocks.NewMockFeedUsecase()
	mockUsecase.MockMerged = 3
	h := handler.NewFeedHandler(mockUsecase)
	r := setupFeedRouter(h)

	payload := dto.MergeRequest{Feed: "trending", Tag: "travel"}
	body, _ := json.Marshal(payload)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/merge", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.MergeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Merged)
	assert.Equal(t, "trending", mockUsecase.LastFeedType)
	assert.Equal(t, "travel", mockUsecase.LastTag)
}

func TestMergeNewPosts_MissingFeed(t *testing.T) {
	mockUsecase := mocks.NewMockFeedUsecase()
	h := handler.NewFeedHandler(mockUsecase)
	r := setupFeedRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/merge", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Field validation for 'Feed' failed on the 'required' tag")
}

func TestFeedStatus(t *testing.T) {
	mockUsecase := mocks.NewMockFeedUsecase()
	mockUsecase.MockUpdating = true
	h := handler.NewFeedHandler(mockUsecase)
	r := setupFeedRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/feed-status?feed=hot", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.FeedStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "hot", resp.FeedType)
	assert.True(t, resp.Ready)
	assert.True(t, resp.Updating)
	assert.True(t, resp.StartupComplete)
}

func TestCacheStatus(t *testing.T) {
	mockUsecase := mocks.NewMockFeedUsecase()
	mockUsecase.MockStatus.Initialized = true
	h := handler.NewFeedHandler(mockUsecase)
	r := setupFeedRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/status", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"initialized":true`)
}

func TestClearCache(t *testing.T) {
	mockUsecase := mocks.NewMockFeedUsecase()
	mockUsecase.MockRemoved = 4
	h := handler.NewFeedHandler(mockUsecase)
	r := setupFeedRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/maintenance/clear-cache", bytesReader(`{"older_than_seconds": 3600}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.ClearCacheResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Removed)
}

func TestClearCache_NegativeAge(t *testing.T) {
	mockUsecase := mocks.NewMockFeedUsecase()
	h := handler.NewFeedHandler(mockUsecase)
	r := setupFeedRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/maintenance/clear-cache", bytesReader(`{"older_than_seconds": -1}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func bytesReader(s string) *bytes.Buffer {
	return bytes.NewBufferString(s)
}
