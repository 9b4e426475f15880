// internal/board/types.go
//
// Core type definitions for the matching board.
// Defines:
//   - ItemState: where a draggable item is in its lifecycle.
//   - Feedback / Cue: the correctness marking and audio cue for a placement.
//   - Status / Outcome: the result of a drop.
//   - DragContext: the explicit drag payload threaded from drag start to drop.

package board

import "github.com/robalobadob/matchboard/internal/dataset"

// CellKey identifies a grid cell by its (knowledge area, process group) pair.
type CellKey = dataset.Location

// ItemState is the per-item interaction state.
//   - "in-pool":          waiting in the shuffled pool.
//   - "dragging":         picked up, not yet dropped.
//   - "placed-correct":   sitting in its correct cell.
//   - "placed-incorrect": sitting in some other cell.
type ItemState string

const (
	StateInPool          ItemState = "in-pool"
	StateDragging        ItemState = "dragging"
	StatePlacedCorrect   ItemState = "placed-correct"
	StatePlacedIncorrect ItemState = "placed-incorrect"
)

// Feedback is the correctness marking shown on an item.
// An item carries at most one marking at a time.
type Feedback string

const (
	FeedbackNone      Feedback = ""
	FeedbackCorrect   Feedback = "correct"
	FeedbackIncorrect Feedback = "incorrect"
)

// Cue names an audio cue.
type Cue string

const (
	CueCorrect   Cue = "correct"
	CueIncorrect Cue = "incorrect"
)

// Status is the coarse result of a drop.
type Status string

const (
	StatusCorrect   Status = "correct"
	StatusIncorrect Status = "incorrect"
	StatusIgnored   Status = "ignored"
)

// Reasons reported with StatusIgnored.
const (
	ReasonUnknownItem = "unknown_item"
	ReasonNotACell    = "not_a_cell"
)

// DragContext carries the identifier of the item being dragged.
type DragContext struct {
	ItemID string `json:"itemId"`
}

// Outcome describes what a drop did.
type Outcome struct {
	Status    Status    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	ItemID    string    `json:"itemId"`
	Cell      CellKey   `json:"cell"`
	State     ItemState `json:"state,omitempty"`
	Incorrect int       `json:"incorrect"`
	Cue       Cue       `json:"cue,omitempty"`
}

// Applied reports whether the drop changed the board.
func (o Outcome) Applied() bool { return o.Status != StatusIgnored }
