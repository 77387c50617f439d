package session

import (
	"log"
	"sync"

	"github.com/SinaZyx/timesheet/pkg/timegrid"
	"github.com/google/uuid"
)

// snapshot is one queued persistence write. A nil grid removes the week's
// row instead of saving one.
type snapshot struct {
	userID  uuid.UUID
	weekKey string
	grid    *timegrid.Grid
}

// saver serializes persistence writes per (subject, week) key: at most one
// save is in flight per key, and snapshots enqueued meanwhile coalesce into
// a single pending slot. Every save carries a whole snapshot, so the
// persisted state always converges on the last issued one.
type saver struct {
	store Store

	mu       sync.Mutex
	inflight map[string]bool
	pending  map[string]snapshot
	wg       sync.WaitGroup
}

func newSaver(store Store) *saver {
	return &saver{
		store:    store,
		inflight: make(map[string]bool),
		pending:  make(map[string]snapshot),
	}
}

// Enqueue schedules an asynchronous write of the snapshot: a save, or a
// removal when grid is nil. The grid must already be a clone; the saver
// never touches a live grid. Removals ride the same per-key queue, so a
// clear can never be overtaken by an earlier save still in flight.
func (s *saver) Enqueue(userID uuid.UUID, weekKey string, grid *timegrid.Grid) {
	snap := snapshot{userID: userID, weekKey: weekKey, grid: grid}
	key := userID.String() + "|" + weekKey

	s.mu.Lock()
	if s.inflight[key] {
		s.pending[key] = snap
		s.mu.Unlock()
		return
	}
	s.inflight[key] = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(key, snap)
}

func (s *saver) run(key string, snap snapshot) {
	defer s.wg.Done()
	for {
		var err error
		if snap.grid == nil {
			err = s.store.Delete(snap.userID, snap.weekKey)
		} else {
			err = s.store.Save(snap.userID, snap.weekKey, snap.grid)
		}
		if err != nil {
			// Non-fatal: the grid stays editable and any later edit retries.
			log.Printf("timesheet persist failed (week %s): %v", snap.weekKey, err)
		}

		s.mu.Lock()
		next, ok := s.pending[key]
		if !ok {
			delete(s.inflight, key)
			s.mu.Unlock()
			return
		}
		delete(s.pending, key)
		s.mu.Unlock()
		snap = next
	}
}

// Wait blocks until every scheduled save has completed. Used on shutdown
// and by tests.
func (s *saver) Wait() {
	s.wg.Wait()
}
