package timegrid

// Controller translates a continuous pointer gesture (press, moves over
// cells, release) into grid mutations. Whether the gesture paints or erases
// is latched from the origin cell: pressing an occupied cell starts an
// erasing drag, pressing a free cell a painting one.
//
// The controller is not safe for concurrent use; it mirrors the single
// input stream of one editing session.
type Controller struct {
	grid *Grid

	dragging   bool
	originDay  int
	originSlot int
	erase      bool
}

// NewController binds a controller to the grid it mutates.
func NewController(g *Grid) *Controller {
	return &Controller{grid: g}
}

// Press starts a gesture at (day, slot) and toggles the origin cell as the
// first visible feedback.
func (c *Controller) Press(day, slot int) {
	current := c.grid.Get(day, slot)
	c.dragging = true
	c.originDay = day
	c.originSlot = slot
	c.erase = current
	c.grid.SetRange(day, slot, slot, !current)
}

// Enter extends the active gesture to (day, slot). The drag is confined to
// the column where it began: entering another day has no effect. On the
// origin day the full origin-to-current span is re-applied, which is
// idempotent for cells already holding the painting value.
func (c *Controller) Enter(day, slot int) {
	if !c.dragging || day != c.originDay {
		return
	}
	c.grid.SetRange(c.originDay, c.originSlot, slot, !c.erase)
}

// Release ends the gesture and reports whether one was active, in which
// case the caller owes a persistence flush of the current snapshot. A
// press-and-release on a single cell leaves the origin toggle standing.
func (c *Controller) Release() bool {
	if !c.dragging {
		return false
	}
	c.dragging = false
	return true
}

// Dragging reports whether a gesture is in progress.
func (c *Controller) Dragging() bool {
	return c.dragging
}

// Rebind points the controller at a different grid, dropping any gesture in
// progress. Used when the session navigates to another week.
func (c *Controller) Rebind(g *Grid) {
	c.grid = g
	c.dragging = false
}
