// internal/board/board.go
//
// The matching board for a single player.
// Responsibilities:
//   - Build the grid once and populate a shuffled pool.
//   - Run the drag/drop state machine:
//     in-pool → dragging → {in-pool | placed-correct | placed-incorrect}.
//   - Judge each drop against the item's correct location and keep the
//     incorrect-attempt counter.
//   - Reset: zero the counter, empty the cells, reshuffle the pool.
//
// Notes:
//   - A Board is not safe for concurrent use. Callers serialize events
//     (see store.Update), the same way a UI event loop would.
//   - Every item is always in exactly one place: the pool or one cell.
//   - Interactions never fail. Unknown items or cells yield an ignored
//     Outcome and leave the board untouched.
package board

import (
	"math/rand"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/matchboard/internal/dataset"
)

// Board holds the state of one game.
type Board struct {
	ID string

	ds   *dataset.Dataset // read-only item set
	grid *Grid

	pool      []string            // ids in display order
	where     map[string]*Cell    // placed ids; absent means in the pool
	feedback  map[string]Feedback // marking per placed id
	incorrect int

	dragging   string // id currently picked up, "" if none
	candidates mapset.Set[CellKey]

	rng     *rand.Rand
	surface Surface
	sound   Sound
	log     zerolog.Logger
}

// Option configures a Board.
type Option func(*Board)

// WithID sets the board identifier.
func WithID(id string) Option { return func(b *Board) { b.ID = id } }

// WithRand fixes the shuffle source (tests use a seeded one).
func WithRand(r *rand.Rand) Option { return func(b *Board) { b.rng = r } }

// WithSurface attaches a presentation surface.
func WithSurface(s Surface) Option { return func(b *Board) { b.surface = s } }

// WithSound attaches an audio player.
func WithSound(s Sound) Option { return func(b *Board) { b.sound = s } }

// WithLogger overrides the logger.
func WithLogger(l zerolog.Logger) Option { return func(b *Board) { b.log = l } }

// New builds the grid and the first shuffled pool for ds.
func New(ds *dataset.Dataset, opts ...Option) *Board {
	b := &Board{
		ds:         ds,
		where:      make(map[string]*Cell),
		feedback:   make(map[string]Feedback),
		candidates: mapset.New[CellKey](),
		surface:    NopSurface{},
		sound:      NopSound{},
		log:        log.Logger,
	}
	for _, o := range opts {
		o(b)
	}
	if b.rng == nil {
		b.rng = newRand()
	}
	b.log = b.log.With().Str("board", b.ID).Logger()

	b.grid = BuildGrid(ds.KnowledgeAreas, ds.ProcessGroups)
	b.surface.RenderGrid(b.grid)
	b.populate(ds.Processes)
	b.surface.ShowCounter(0)
	return b
}

// Grid exposes the board's grid. Callers must not modify it.
func (b *Board) Grid() *Grid { return b.grid }

// Dataset returns the item set the board was built from.
func (b *Board) Dataset() *dataset.Dataset { return b.ds }

// Incorrect returns the number of wrong placements since the last reset.
func (b *Board) Incorrect() int { return b.incorrect }

// Pool returns the ids currently in the pool, in display order.
func (b *Board) Pool() []string { return append([]string(nil), b.pool...) }

// Dragging returns the id currently being dragged, if any.
func (b *Board) Dragging() (string, bool) { return b.dragging, b.dragging != "" }

// State reports the interaction state of an item.
func (b *Board) State(id string) (ItemState, bool) {
	if _, ok := b.ds.Lookup(id); !ok {
		return "", false
	}
	return b.stateOf(id), true
}

// Location returns the cell holding id, or false when it is in the pool.
func (b *Board) Location(id string) (CellKey, bool) {
	c, ok := b.where[id]
	if !ok {
		return CellKey{}, false
	}
	return c.Key, true
}

// Marking returns the correctness marking of an item.
func (b *Board) Marking(id string) Feedback { return b.feedback[id] }

// Candidate reports whether key is flagged as a drop target.
func (b *Board) Candidate(key CellKey) bool { return b.candidates.Has(key) }

// DragStart picks up an item. It fails for unknown ids.
func (b *Board) DragStart(id string) (DragContext, bool) {
	if _, ok := b.ds.Lookup(id); !ok {
		b.log.Debug().Str("item", id).Msg("drag start for unknown item")
		return DragContext{}, false
	}
	if b.dragging != "" && b.dragging != id {
		b.surface.SetDragging(b.dragging, false)
	}
	b.dragging = id
	b.surface.SetDragging(id, true)
	return DragContext{ItemID: id}, true
}

// DragEnd releases the item without a drop. It stays where it was.
func (b *Board) DragEnd(dc DragContext) {
	if dc.ItemID == "" || b.dragging != dc.ItemID {
		return
	}
	b.dragging = ""
	b.surface.SetDragging(dc.ItemID, false)
}

// DragOver flags key as a drop candidate. Repeating it is harmless.
func (b *Board) DragOver(key CellKey) bool {
	if _, ok := b.grid.Cell(key); !ok {
		return false
	}
	if !b.candidates.Has(key) {
		b.candidates.Put(key)
		b.surface.SetCandidate(key, true)
	}
	return true
}

// DragLeave clears the candidate flag on key.
func (b *Board) DragLeave(key CellKey) {
	if !b.candidates.Has(key) {
		return
	}
	b.candidates.Remove(key)
	b.surface.SetCandidate(key, false)
}

// Drop places the dragged item into the cell at key and judges it.
func (b *Board) Drop(dc DragContext, key CellKey) Outcome {
	out := Outcome{ItemID: dc.ItemID, Cell: key, Status: StatusIgnored, Incorrect: b.incorrect}

	cell, ok := b.grid.Cell(key)
	if !ok {
		out.Reason = ReasonNotACell
		b.log.Debug().Str("item", dc.ItemID).Str("reason", out.Reason).Msg("drop ignored")
		return out
	}
	b.DragLeave(key)

	item, ok := b.ds.Lookup(dc.ItemID)
	if !ok {
		out.Reason = ReasonUnknownItem
		b.log.Debug().Str("item", dc.ItemID).Str("reason", out.Reason).Msg("drop ignored")
		return out
	}

	b.feedback[item.ID] = FeedbackNone
	b.surface.MarkItem(item.ID, FeedbackNone)

	if matches(item, key) {
		b.feedback[item.ID] = FeedbackCorrect
		b.surface.MarkItem(item.ID, FeedbackCorrect)
		out.Status, out.Cue = StatusCorrect, CueCorrect
	} else {
		b.incorrect++
		b.surface.ShowCounter(b.incorrect)
		b.feedback[item.ID] = FeedbackIncorrect
		b.surface.MarkItem(item.ID, FeedbackIncorrect)
		out.Status, out.Cue = StatusIncorrect, CueIncorrect
	}

	b.moveTo(item.ID, cell)
	if b.dragging == item.ID {
		b.dragging = ""
		b.surface.SetDragging(item.ID, false)
	}
	b.play(out.Cue)

	out.State = b.stateOf(item.ID)
	out.Incorrect = b.incorrect
	b.log.Debug().
		Str("item", item.ID).
		Str("knowledgeArea", key.KnowledgeArea).
		Str("processGroup", key.ProcessGroup).
		Str("status", string(out.Status)).
		Int("incorrect", b.incorrect).
		Msg("drop")
	return out
}

// Place is a whole drag gesture in one call: pick up id and drop it on key.
func (b *Board) Place(id string, key CellKey) Outcome {
	dc, ok := b.DragStart(id)
	if !ok {
		return Outcome{ItemID: id, Cell: key, Status: StatusIgnored, Reason: ReasonUnknownItem, Incorrect: b.incorrect}
	}
	out := b.Drop(dc, key)
	b.DragEnd(dc)
	return out
}

// Reset zeroes the counter, empties every cell and repopulates the pool
// from the original item order with a fresh shuffle.
func (b *Board) Reset() {
	b.incorrect = 0
	b.surface.ShowCounter(0)

	b.grid.clear()
	b.surface.ClearCells()

	b.candidates.Each(func(k CellKey) { b.surface.SetCandidate(k, false) })
	b.candidates = mapset.New[CellKey]()
	if b.dragging != "" {
		b.surface.SetDragging(b.dragging, false)
		b.dragging = ""
	}

	b.populate(b.ds.Processes)
	b.log.Debug().Msg("reset")
}

// Solved reports whether every item sits in its correct cell.
func (b *Board) Solved() bool {
	if b.ds.Len() == 0 {
		return false
	}
	for _, it := range b.ds.Processes {
		if b.feedback[it.ID] != FeedbackCorrect {
			return false
		}
	}
	return true
}

// matches compares an item's answer with a cell. Items with an incomplete
// location never match.
func matches(it dataset.Item, key CellKey) bool {
	return it.CorrectLocation.Complete() && it.CorrectLocation == key
}

func (b *Board) stateOf(id string) ItemState {
	if b.dragging == id {
		return StateDragging
	}
	switch b.feedback[id] {
	case FeedbackCorrect:
		return StatePlacedCorrect
	case FeedbackIncorrect:
		return StatePlacedIncorrect
	}
	return StateInPool
}

// moveTo detaches id from the pool or its current cell and appends it to cell.
func (b *Board) moveTo(id string, cell *Cell) {
	if prev, ok := b.where[id]; ok {
		prev.Items = without(prev.Items, id)
	} else {
		b.pool = without(b.pool, id)
	}
	cell.Items = append(cell.Items, id)
	b.where[id] = cell
	b.surface.MoveItem(id, cell.Key)
}

// play fires a cue. Audio can never break a placement.
func (b *Board) play(c Cue) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Warn().Interface("panic", r).Str("cue", string(c)).Msg("sound panicked")
		}
	}()
	if err := b.sound.Play(c); err != nil {
		b.log.Debug().Err(err).Str("cue", string(c)).Msg("sound failed")
	}
}

func without(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
