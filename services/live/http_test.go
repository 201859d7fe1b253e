package live

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(w *Watcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHTTPHandler(HTTPOptions{Service: w, Router: router.Group("/live/v1")})
	return router
}

func TestListAndGetMatches(t *testing.T) {
	w := NewWatcher(WatcherOptions{})
	w.SetPublicIDs([]string{"g1", "g2"})
	require.NoError(t, w.ApplyChange("g2", obj(t, `{"teams": {"A": {"name": "Darmstadt Athenas"}}}`), nil, nil))
	router := newTestRouter(w)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live/v1/matches", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Matches []MatchView `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Matches, 2)
	assert.Equal(t, "Darmstadt Athenas", list.Matches[1].Teams[0].Name)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live/v1/matches/g2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"public_id":"g2"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live/v1/matches/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStreamRejectsUnknownKind(t *testing.T) {
	router := newTestRouter(NewWatcher(WatcherOptions{}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live/v1/stream?kind=goal", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStreamForwardsNotifications(t *testing.T) {
	w := NewWatcher(WatcherOptions{})
	w.SetPublicIDs([]string{"g1", "g2"})
	server := httptest.NewServer(newTestRouter(w))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/live/v1/stream?kind=score&public_id=g1", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// subscriptions exist once the headers are flushed
	require.NoError(t, w.ApplyChange("g2", obj(t, `{"score": {"A": {"total": 99}}}`), nil, nil))
	require.NoError(t, w.ApplyChange("g1", obj(t, `{"score": {"A": {"total": 10, "snitch_points": 30}}}`), nil, nil))

	scanner := bufio.NewScanner(resp.Body)
	var event, data string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event:") {
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		}
		if strings.HasPrefix(line, "data:") {
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			break
		}
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, "score", event)

	var payload streamEvent
	require.NoError(t, json.Unmarshal([]byte(data), &payload))
	assert.Equal(t, "g1", payload.PublicID)
	assert.Equal(t, SideA, payload.Side)
	assert.Equal(t, "10*", payload.Value)
}
