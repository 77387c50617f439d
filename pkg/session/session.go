// Package session holds the server-side editing state of the interactive
// grid: one Editor per signed-in subject, owning the grid of the week
// currently displayed and the paint controller mutating it. Persistence is
// fire-and-forget from the editor's point of view; the in-memory grid stays
// the source of truth while edits continue.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/SinaZyx/timesheet/pkg/models"
	"github.com/SinaZyx/timesheet/pkg/timegrid"
	"github.com/google/uuid"
)

// Store is the persistence collaborator the session layer writes through.
type Store interface {
	Load(userID uuid.UUID, weekKey string) (*timegrid.Grid, error)
	Save(userID uuid.UUID, weekKey string, grid *timegrid.Grid) error
	Delete(userID uuid.UUID, weekKey string) error
}

// Editor is one subject's active editing session. All methods take the
// editor lock; the grid is mutated by nothing else.
type Editor struct {
	userID uuid.UUID
	store  Store
	saver  *saver

	mu      sync.Mutex
	weekKey string
	grid    *timegrid.Grid
	ctrl    *timegrid.Controller
	dirty   bool
}

// NewEditor creates an editor with no week open yet.
func NewEditor(userID uuid.UUID, store Store, sv *saver) *Editor {
	grid := timegrid.New()
	return &Editor{
		userID: userID,
		store:  store,
		saver:  sv,
		grid:   grid,
		ctrl:   timegrid.NewController(grid),
	}
}

// Open navigates the editor to the week containing ref. A dirty grid is
// flushed before it is replaced. The load result is applied only if the
// editor still shows the requested week when it arrives; a response for a
// week the user has already left is discarded.
func (e *Editor) Open(ref time.Time) error {
	key := timegrid.Key(ref)

	e.mu.Lock()
	if e.weekKey == key {
		e.mu.Unlock()
		return nil
	}
	if e.dirty {
		e.saver.Enqueue(e.userID, e.weekKey, e.grid.Clone())
		e.dirty = false
	}
	e.weekKey = key
	e.grid = timegrid.New()
	e.ctrl.Rebind(e.grid)
	e.mu.Unlock()

	loaded, err := e.store.Load(e.userID, key)
	if err != nil {
		// A failed load leaves the empty default editable; not fatal.
		return fmt.Errorf("load week %s: %w", key, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.weekKey != key || loaded == nil {
		return nil
	}
	e.grid = loaded
	e.ctrl.Rebind(e.grid)
	return nil
}

// Apply feeds a gesture event stream into the paint controller. Indices are
// validated here, at the transport edge; past this point an out-of-bounds
// index is a defect and panics. Each release flushes the snapshot.
func (e *Editor) Apply(strokes []models.Stroke) error {
	for _, st := range strokes {
		switch st.Type {
		case models.StrokePress, models.StrokeEnter:
			if st.Day < 0 || st.Day >= timegrid.DaysPerWeek ||
				st.Slot < 0 || st.Slot >= timegrid.TotalSlots {
				return fmt.Errorf("stroke out of bounds: day %d slot %d", st.Day, st.Slot)
			}
		case models.StrokeRelease:
		default:
			return fmt.Errorf("unknown stroke type %q", st.Type)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, st := range strokes {
		switch st.Type {
		case models.StrokePress:
			e.ctrl.Press(st.Day, st.Slot)
			e.dirty = true
		case models.StrokeEnter:
			e.ctrl.Enter(st.Day, st.Slot)
		case models.StrokeRelease:
			if e.ctrl.Release() {
				e.saver.Enqueue(e.userID, e.weekKey, e.grid.Clone())
				e.dirty = false
			}
		}
	}
	return nil
}

// Replace installs a whole snapshot for the open week and flushes it.
func (e *Editor) Replace(grid *timegrid.Grid) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.grid = grid.Clone()
	e.ctrl.Rebind(e.grid)
	e.dirty = false
	e.saver.Enqueue(e.userID, e.weekKey, e.grid.Clone())
}

// Clear empties the grid and removes the persisted snapshot for the week.
// The removal is queued behind any save already in flight for the same
// week, so a late save cannot resurrect the cleared snapshot.
func (e *Editor) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.grid.Clear()
	e.ctrl.Rebind(e.grid)
	e.dirty = false
	e.saver.Enqueue(e.userID, e.weekKey, nil)
}

// Grid returns a snapshot of the current grid, safe to read while editing
// continues.
func (e *Editor) Grid() *timegrid.Grid {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Clone()
}

// WeekKey returns the canonical Monday date of the open week.
func (e *Editor) WeekKey() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.weekKey
}
