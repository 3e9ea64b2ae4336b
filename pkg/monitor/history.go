package monitor

import "github.com/racelytics/f1-analysis-service-go/pkg/model"

// history is the bounded snapshot window: ordered by timestamp (the single
// writer inserts in increasing order), capacity-limited with strict FIFO
// eviction. Not safe for concurrent use on its own; the monitor guards it
// with its lock so that readers never see a half-applied insert+evict.
type history struct {
	capacity int
	entries  []*model.Snapshot // oldest first
}

func newHistory(capacity int) *history {
	return &history{capacity: capacity}
}

// add appends the snapshot and evicts the single oldest entry when the
// capacity is exceeded.
func (h *history) add(snap *model.Snapshot) {
	h.entries = append(h.entries, snap)
	if len(h.entries) > h.capacity {
		h.entries = h.entries[1:]
	}
}

func (h *history) size() int {
	return len(h.entries)
}

// latest returns the most recent snapshot, nil when empty.
func (h *history) latest() *model.Snapshot {
	if len(h.entries) == 0 {
		return nil
	}
	return h.entries[len(h.entries)-1]
}

// last returns the up to n most recent snapshots in time order.
func (h *history) last(n int) []*model.Snapshot {
	if n <= 0 || len(h.entries) == 0 {
		return nil
	}
	if n > len(h.entries) {
		n = len(h.entries)
	}
	out := make([]*model.Snapshot, n)
	copy(out, h.entries[len(h.entries)-n:])
	return out
}
