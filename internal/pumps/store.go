package pumps

import (
	"sort"
	"sync"
	"time"
)

type frameStore struct {
	mu     sync.RWMutex
	frames map[int]Frame
	now    func() time.Time
}

func NewStore() Store {
	return &frameStore{
		frames: make(map[int]Frame),
		now:    time.Now,
	}
}

func (s *frameStore) Merge(frames []Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	receivedAt := s.now()
	for _, frame := range frames {
		frame.LastUpdated = receivedAt
		s.frames[frame.PumpID] = frame
	}
}

func (s *frameStore) Get(pumpID int) (Frame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	frame, ok := s.frames[pumpID]
	return frame, ok
}

func (s *frameStore) Snapshot() []Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]Frame, 0, len(s.frames))
	for _, frame := range s.frames {
		snapshot = append(snapshot, frame)
	}
	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].PumpID < snapshot[j].PumpID
	})
	return snapshot
}

func (s *frameStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.frames)
}

// PrimaryMetrics picks the figures block a pump tile should display. The
// realtime block is only meaningful mid-fill; once the fill is complete the
// transaction summary takes over until the controller clears it. The
// last_transaction block is a display-only fallback and never primary.
func PrimaryMetrics(frame Frame) *Metrics {
	if frame.Status == StatusDispensing && frame.Realtime != nil {
		return frame.Realtime
	}
	if frame.Transaction != nil {
		return frame.Transaction
	}
	return nil
}
