// internal/board/surface.go
//
// Presentation and audio hooks the board drives.
//
// Responsibilities:
//   - Surface: everything the player sees change.
//   - Sound: the correct / incorrect cue.
//   - NopSurface, NopSound: defaults for headless boards.

package board

import "github.com/robalobadob/matchboard/internal/dataset"

// Surface is the presentation side of the board. The board calls it after
// every state change; implementations only draw and never call back.
type Surface interface {
	// RenderGrid draws headers and empty cells. Called once per board.
	RenderGrid(g *Grid)
	// RenderPool replaces the pool with items, in display order.
	RenderPool(items []dataset.Item)
	// MoveItem puts the item's element inside the cell.
	MoveItem(id string, to CellKey)
	// MarkItem sets the item's correctness marking, replacing any other.
	MarkItem(id string, fb Feedback)
	SetDragging(id string, on bool)
	SetCandidate(key CellKey, on bool)
	ShowCounter(n int)
	// ClearCells empties every cell's contents.
	ClearCells()
}

// Sound plays audio cues. Errors and panics are swallowed by the board.
type Sound interface {
	Play(c Cue) error
}

// NopSurface draws nothing.
type NopSurface struct{}

func (NopSurface) RenderGrid(*Grid) {}
func (NopSurface) RenderPool([]dataset.Item) {}
func (NopSurface) MoveItem(string, CellKey) {}
func (NopSurface) MarkItem(string, Feedback) {}
func (NopSurface) SetDragging(string, bool) {}
func (NopSurface) SetCandidate(CellKey, bool) {}
func (NopSurface) ShowCounter(int) {}
func (NopSurface) ClearCells() {}

// NopSound is silent.
type NopSound struct{}

func (NopSound) Play(Cue) error { return nil }
