package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ironsheep/seamcarve-mcp/internal/carving"
)

// Slot names one of the three grids in a workspace.
type Slot int

// Workspace slots. The numbering matches the 1/2/3 view keys.
const (
	SlotSource Slot = iota + 1
	SlotMask
	SlotResult
)

func (s Slot) String() string {
	switch s {
	case SlotSource:
		return "source"
	case SlotMask:
		return "mask"
	case SlotResult:
		return "result"
	default:
		return "slot(" + strconv.Itoa(int(s)) + ")"
	}
}

// ParseSlot accepts a slot name or its number.
func ParseSlot(s string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "source", "1":
		return SlotSource, nil
	case "mask", "2":
		return SlotMask, nil
	case "result", "3":
		return SlotResult, nil
	}
	return 0, fmt.Errorf("%w: unknown slot %q (want source, mask or result)", carving.ErrInvalidArgument, s)
}

// Workspace is one image being carved interactively.
type Workspace struct {
	ID      string
	Created time.Time

	mu       sync.RWMutex
	source   *carving.Grid
	mask     *carving.Grid
	result   *carving.Grid
	selected Slot

	// seams were removed from a result seamBase columns wide.
	seams    []carving.Seam
	seamBase int
}

// Info describes a workspace without copying any pixels.
type Info struct {
	ID           string    `json:"workspace_id"`
	Created      time.Time `json:"created"`
	SourceWidth  int       `json:"source_width"`
	ResultWidth  int       `json:"result_width"`
	Height       int       `json:"height"`
	Removed      int       `json:"removed"`
	MaxRemovable int       `json:"max_removable"`
	Selected     string    `json:"selected"`
}

func newWorkspace(id string, source, mask *carving.Grid) *Workspace {
	return &Workspace{
		ID:       id,
		Created:  time.Now(),
		source:   source.Clone(),
		mask:     mask.Clone(),
		result:   source.Clone(),
		selected: SlotResult,
		seamBase: source.Width,
	}
}

// Info returns the current state of the workspace.
func (w *Workspace) Info() Info {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Info{
		ID:           w.ID,
		Created:      w.Created,
		SourceWidth:  w.source.Width,
		ResultWidth:  w.result.Width,
		Height:       w.result.Height,
		Removed:      w.source.Width - w.result.Width,
		MaxRemovable: w.result.Width - 1,
		Selected:     w.selected.String(),
	}
}

// Snapshot returns a copy of the grid in slot.
func (w *Workspace) Snapshot(slot Slot) (*carving.Grid, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	g, err := w.slot(slot)
	if err != nil {
		return nil, err
	}
	return g.Clone(), nil
}

// Select records slot as the one being viewed.
func (w *Workspace) Select(slot Slot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.slot(slot); err != nil {
		return err
	}
	w.selected = slot
	return nil
}

// Selected returns the slot last passed to Select. A new workspace views its
// result.
func (w *Workspace) Selected() Slot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.selected
}

// Seams returns the seams removed since the last Reset or Publish, projected
// onto the columns the result had at that point. After a Reset those are the
// source's columns.
func (w *Workspace) Seams() ([]carving.Seam, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return carving.ProjectSeams(w.seamBase, w.seams)
}

// Carve removes pixels more columns from the current result using c. The mask
// is read at its original size, so repeated carves see the same mask a single
// long carve would. The carved grid is published as the new result.
//
// On error, including cancellation of ctx, the result is left as it was.
func (w *Workspace) Carve(ctx context.Context, c *carving.Cropper, pixels int) (*carving.CropResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	res, err := c.Resume(ctx, w.result, w.mask, pixels)
	if err != nil {
		return nil, err
	}
	if err := w.publishLocked(res.Grid); err != nil {
		return nil, err
	}
	w.seams = append(w.seams, res.Seams...)
	return &carving.CropResult{Grid: res.Grid.Clone(), Seams: res.Seams}, nil
}

// Publish replaces the result with a copy of g. g must have the source's
// height and be no wider than the source. Seams recorded so far are dropped
// and later ones are projected onto g's columns.
func (w *Workspace) Publish(g *carving.Grid) error {
	if err := g.Validate(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.publishLocked(g.Clone()); err != nil {
		return err
	}
	w.seams = nil
	w.seamBase = g.Width
	return nil
}

// publishLocked makes g the result without copying it. w.mu must be held.
func (w *Workspace) publishLocked(g *carving.Grid) error {
	if g.Height != w.source.Height || g.Width > w.source.Width {
		return fmt.Errorf("%w: published %dx%d, source %dx%d",
			carving.ErrDimensionMismatch, g.Width, g.Height, w.source.Width, w.source.Height)
	}
	w.result = g
	return nil
}

// Reset makes the result a fresh copy of the source.
func (w *Workspace) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.result = w.source.Clone()
	w.seams = nil
	w.seamBase = w.source.Width
}

func (w *Workspace) slot(s Slot) (*carving.Grid, error) {
	switch s {
	case SlotSource:
		return w.source, nil
	case SlotMask:
		return w.mask, nil
	case SlotResult:
		return w.result, nil
	}
	return nil, fmt.Errorf("%w: unknown slot %d", carving.ErrInvalidArgument, int(s))
}
