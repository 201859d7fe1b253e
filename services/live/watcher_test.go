package live

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherApplyChange(t *testing.T) {
	audit := &memAudit{}
	w := NewWatcher(WatcherOptions{Audit: audit, Now: fixedClock})
	w.SetPublicIDs([]string{"g2", "g1", "g2"})
	assert.Equal(t, []string{"g2", "g1"}, w.PublicIDs())

	var got []Notification
	w.Listen(NotifyScore, func(n Notification) { got = append(got, n) })

	err := w.ApplyChange("g1", obj(t, `{"score": {"B": {"total": 20}}}`), nil, nil)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, SideB, got[0].Side)
	assert.Equal(t, "20", got[0].Value)
	assert.Equal(t, "g1", got[0].Match.PublicID)

	view, ok := w.View("g1")
	require.True(t, ok)
	assert.Equal(t, 20, view.Team(SideB).PointsTotal)

	views := w.Views()
	require.Len(t, views, 2)
	assert.Equal(t, "g2", views[0].PublicID)
	assert.Equal(t, "0", views[0].Team(SideA).ScoreStr)
	assert.Len(t, audit.states, 1)
}

func TestWatcherUnknownMatch(t *testing.T) {
	w := NewWatcher(WatcherOptions{})
	w.SetPublicIDs([]string{"g1"})

	err := w.ApplyChange("nope", obj(t, `{}`), nil, nil)
	assert.ErrorIs(t, err, ErrUnknownMatch)
	assert.EqualError(t, err, "nope: match not registered")

	_, ok := w.View("nope")
	assert.False(t, ok)
}

func TestWatcherReplacingIDsDropsReplicas(t *testing.T) {
	w := NewWatcher(WatcherOptions{})
	w.SetPublicIDs([]string{"g1"})
	require.NoError(t, w.ApplyChange("g1", obj(t, `{"data_available": true}`), nil, nil))

	w.SetPublicIDs([]string{"g1", "g3"})
	view, ok := w.View("g1")
	require.True(t, ok)
	assert.False(t, view.DataAvailable)

	assert.ErrorIs(t, w.ApplyChange("g2", obj(t, `{}`), nil, nil), ErrUnknownMatch)
}

func TestWatcherViewsAreCopies(t *testing.T) {
	w := NewWatcher(WatcherOptions{})
	w.SetPublicIDs([]string{"g1"})
	require.NoError(t, w.ApplyChange("g1", obj(t, `{}`), obj(t, `{"events": {"score": [{"player_name": "Kim"}]}}`), nil))

	before, _ := w.View("g1")
	require.NoError(t, w.ApplyChange("g1", obj(t, `{}`), obj(t, `{"events": {"score": {"0": {"player_name": "Lee"}}}}`), nil))

	assert.Equal(t, "Kim", *before.Events.Of(EventScore)[0].PlayerName)
	after, _ := w.View("g1")
	assert.Equal(t, "Lee", *after.Events.Of(EventScore)[0].PlayerName)
}

func TestWatcherUnlisten(t *testing.T) {
	w := NewWatcher(WatcherOptions{})
	w.SetPublicIDs([]string{"g1"})
	calls := 0
	id := w.Listen(NotifyDataAvailable, func(Notification) { calls++ })

	require.NoError(t, w.ApplyChange("g1", obj(t, `{"data_available": true}`), nil, nil))
	assert.True(t, w.Unlisten(id))
	require.NoError(t, w.ApplyChange("g1", obj(t, `{"data_available": false}`), nil, nil))
	assert.Equal(t, 1, calls)
}

func TestWatcherListenersSeePublishedView(t *testing.T) {
	w := NewWatcher(WatcherOptions{})
	w.SetPublicIDs([]string{"g1"})

	var seen []bool
	w.Listen(NotifyGameOver, func(n Notification) {
		v, ok := w.View(n.Match.PublicID)
		require.True(t, ok)
		seen = append(seen, v.GameOver)
	})

	require.NoError(t, w.ApplyChange("g1", obj(t, `{"game_over": true}`), nil, nil))
	assert.Equal(t, []bool{true}, seen)
}
