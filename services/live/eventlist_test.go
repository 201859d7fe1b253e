package live

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xorcare/pointer"
)

func TestEventListPositions(t *testing.T) {
	l := newEventList(EventPenalty)
	for i := 0; i < 4; i++ {
		assert.Equal(t, i, l.Append(&Event{Kind: EventPenalty, Increment: pointer.Int(i)}))
	}

	removed, err := l.RemoveAt(1)
	require.NoError(t, err)
	assert.Equal(t, 1, *removed.Increment)
	assert.Equal(t, []int{0, 2, 3}, increments(l))

	// position 1 now holds what was at 2
	removed, err = l.RemoveAt(1)
	require.NoError(t, err)
	assert.Equal(t, 2, *removed.Increment)
	assert.Equal(t, []int{0, 3}, increments(l))

	_, err = l.RemoveAt(2)
	assert.True(t, IsIndexOutOfRange(err))
	_, err = l.RemoveAt(-1)
	assert.True(t, IsIndexOutOfRange(err))

	_, ok := l.At(5)
	assert.False(t, ok)
}

func TestEventListClearKeepsOrder(t *testing.T) {
	l := newEventList(EventTimeout)
	l.Append(&Event{Increment: pointer.Int(7)})
	l.Append(&Event{Increment: pointer.Int(8)})

	removed := l.Clear()
	require.Len(t, removed, 2)
	assert.Equal(t, 7, *removed[0].Increment)
	assert.Equal(t, 8, *removed[1].Increment)
	assert.Equal(t, 0, l.Len())
}

func TestEventListSnapshotIsACopy(t *testing.T) {
	l := newEventList(EventScore)
	e := &Event{Kind: EventScore, PlayerName: pointer.String("Kim")}
	l.Append(e)

	snap := l.Snapshot()
	*e.PlayerName = "Lee"
	assert.Equal(t, "Kim", *snap[0].PlayerName)
}

func TestParseEventKind(t *testing.T) {
	for _, k := range EventKinds {
		parsed, ok := ParseEventKind(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, parsed)
	}
	_, ok := ParseEventKind("red_card")
	assert.False(t, ok)

	assert.Equal(t, "snitch_under_review", EventSnitchUnderReview.String())
}
