package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/racelytics/f1-analysis-service-go/pkg/model"
)

func snapAt(sec int) *model.Snapshot {
	return &model.Snapshot{
		Timestamp: time.Unix(int64(sec), 0),
	}
}

func TestHistoryEviction(t *testing.T) {
	h := newHistory(5)
	for i := 1; i <= 10; i++ {
		h.add(snapAt(i))
	}
	require.Equal(t, 5, h.size())
	// the five most recent remain, oldest first
	got := h.last(h.size())
	for i, snap := range got {
		assert.Equal(t, time.Unix(int64(i+6), 0), snap.Timestamp)
	}
	// the evicted ones are unrecoverable
	assert.Equal(t, time.Unix(6, 0), got[0].Timestamp)
	assert.Equal(t, time.Unix(10, 0), h.latest().Timestamp)
}

func TestHistoryLast(t *testing.T) {
	h := newHistory(10)
	for i := 1; i <= 4; i++ {
		h.add(snapAt(i))
	}
	assert.Nil(t, h.last(0))
	assert.Len(t, h.last(2), 2)
	assert.Equal(t, time.Unix(3, 0), h.last(2)[0].Timestamp)
	// asking for more than retained yields everything
	assert.Len(t, h.last(99), 4)
}

func TestHistoryEmpty(t *testing.T) {
	h := newHistory(3)
	assert.Nil(t, h.latest())
	assert.Nil(t, h.last(5))
	assert.Equal(t, 0, h.size())
}
