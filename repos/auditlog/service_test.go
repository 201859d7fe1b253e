package auditlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvbf/quadball-live-sync/pkg/ordered"
	"github.com/nvbf/quadball-live-sync/services/live"
)

var testNow = time.Date(2024, 5, 11, 14, 30, 0, 0, time.Local)

func obj(t *testing.T, s string) ordered.Object {
	t.Helper()
	o, err := ordered.DecodeObject([]byte(s))
	require.NoError(t, err)
	return o
}

func TestAuditTrailGolden(t *testing.T) {
	svc, err := NewService(t.TempDir())
	require.NoError(t, err)

	w := live.NewWatcher(live.WatcherOptions{Audit: svc, Now: func() time.Time { return testNow }})
	w.SetPublicIDs([]string{"g1"})

	require.NoError(t, w.ApplyChange("g1",
		obj(t, `{"data_available": true,
			"teams": {"A": {"name": "Berlin, Bluecaps", "id": 12}, "B": {"name": "Hippogriffs"}},
			"score": {"A": {"total": 10}}}`),
		obj(t, `{"events": {"score": [{"period": 1, "gametime": 65, "team": "A", "player_number": "7", "player_name": "Alex, Jr.", "increment": 10}]}}`),
		nil,
	))
	require.NoError(t, w.ApplyChange("g1",
		obj(t, `{"score": {"B": {"snitch_caught": true, "snitch_points": 30, "total": 30}}, "game_over": true}`),
		obj(t, `{"events": {"snitch": {"0": {"period": 1, "team": "B", "increment": 30}}, "score": {"0": {"reason": "line1\nline2"}}}}`),
		obj(t, `{"events": {"score": []}}`),
	))

	state, err := os.ReadFile(svc.StatePath("g1"))
	require.NoError(t, err)
	events, err := os.ReadFile(svc.EventPath("g1"))
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "state_log", state)
	g.Assert(t, "event_log", events)
}

func TestAppendNeverTruncates(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(dir)
	require.NoError(t, err)

	existing := eventHeader + "\nold,row\n"
	require.NoError(t, os.WriteFile(svc.EventPath("g7"), []byte(existing), 0o644))

	rec := live.EventRecord{PublicID: "g7", Op: live.OpDel, Kind: live.EventPenalty, Index: 3}
	require.NoError(t, svc.LogEvent(testNow, rec))
	require.NoError(t, svc.LogEvent(testNow, rec))

	data, err := os.ReadFile(svc.EventPath("g7"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, eventHeader, lines[0])
	assert.Equal(t, "old,row", lines[1])
	assert.Equal(t, "2024-05-11T14:30:00.000000,del,penalty,3,,,,,,,,", lines[2])
	assert.Equal(t, lines[2], lines[3])
}

func TestHeaderWrittenOncePerFile(t *testing.T) {
	svc, err := NewService(filepath.Join(t.TempDir(), "nested", "logs"))
	require.NoError(t, err)

	m := live.NewMatch("g1").View()
	require.NoError(t, svc.LogState(testNow, m))
	require.NoError(t, svc.LogState(testNow, m))

	data, err := os.ReadFile(svc.StatePath("g1"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "PublicId"))
	assert.Equal(t, 3, strings.Count(string(data), "\n"))
}

func TestFileNameIsSanitized(t *testing.T) {
	svc, err := NewService(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(svc.dir, "a_b.csv"), svc.StatePath("a/b"))
	assert.Equal(t, filepath.Join(svc.dir, "__events.csv"), svc.EventPath(".."))
}

func TestWriteFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(dir)
	require.NoError(t, err)

	// a directory where the log file should be makes the open fail
	require.NoError(t, os.Mkdir(svc.StatePath("g1"), 0o755))
	assert.Error(t, svc.LogState(testNow, live.NewMatch("g1").View()))
}
