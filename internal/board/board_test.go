package board

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/matchboard/internal/dataset"
)

// fakeSurface records what the board asked it to draw.
type fakeSurface struct {
	grids     int
	pools     [][]string
	moves     []string
	marks     map[string][]Feedback
	dragging  map[string]bool
	candidate map[CellKey]bool
	counter   []int
	clears    int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		marks:     make(map[string][]Feedback),
		dragging:  make(map[string]bool),
		candidate: make(map[CellKey]bool),
	}
}

func (f *fakeSurface) RenderGrid(*Grid) { f.grids++ }
func (f *fakeSurface) RenderPool(items []dataset.Item) {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	f.pools = append(f.pools, ids)
}
func (f *fakeSurface) MoveItem(id string, to CellKey) {
	f.moves = append(f.moves, id+"@"+to.KnowledgeArea+"/"+to.ProcessGroup)
}
func (f *fakeSurface) MarkItem(id string, fb Feedback) { f.marks[id] = append(f.marks[id], fb) }
func (f *fakeSurface) SetDragging(id string, on bool) { f.dragging[id] = on }
func (f *fakeSurface) SetCandidate(k CellKey, on bool) { f.candidate[k] = on }
func (f *fakeSurface) ShowCounter(n int) { f.counter = append(f.counter, n) }
func (f *fakeSurface) ClearCells() { f.clears++ }

type fakeSound struct {
	played []Cue
	err    error
	panics bool
}

func (s *fakeSound) Play(c Cue) error {
	if s.panics {
		panic("no audio device")
	}
	s.played = append(s.played, c)
	return s.err
}

var (
	cellInitiating = CellKey{KnowledgeArea: "Planning", ProcessGroup: "Initiating"}
	cellExecuting  = CellKey{KnowledgeArea: "Planning", ProcessGroup: "Executing"}
)

func charterDataset() *dataset.Dataset {
	ds, _ := dataset.Parse([]byte(`{
		"knowledgeAreas": ["Planning"],
		"processGroups": ["Initiating", "Executing"],
		"processes": [
			{"id": "p1", "name": "Develop Charter",
			 "correctLocation": {"knowledgeArea": "Planning", "processGroup": "Initiating"}}
		]
	}`), dataset.FormatJSON)
	return ds
}

func bigDataset() *dataset.Dataset {
	ds := &dataset.Dataset{
		KnowledgeAreas: []string{"Scope", "Cost", "Risk"},
		ProcessGroups:  []string{"Planning", "Executing"},
	}
	for i, ka := range ds.KnowledgeAreas {
		for j, pg := range ds.ProcessGroups {
			ds.Processes = append(ds.Processes, dataset.Item{
				ID:              string(rune('a'+i)) + string(rune('0'+j)),
				Name:            ka + " " + pg,
				CorrectLocation: dataset.Location{KnowledgeArea: ka, ProcessGroup: pg},
			})
		}
	}
	return ds
}

// assertSinglePlacement checks every item is in exactly one place.
func assertSinglePlacement(t *testing.T, b *Board) {
	t.Helper()
	seen := make(map[string]int)
	for _, id := range b.Pool() {
		seen[id]++
	}
	b.Grid().Each(func(c *Cell) {
		for _, id := range c.Items {
			seen[id]++
		}
	})
	for _, it := range b.Dataset().Processes {
		assert.Equal(t, 1, seen[it.ID], "item %s", it.ID)
	}
	assert.Len(t, seen, b.Dataset().Len())
}

func TestCharterScenario(t *testing.T) {
	snd := &fakeSound{}
	b := New(charterDataset(), WithSound(snd), WithRand(rand.New(rand.NewSource(1))))

	out := b.Place("p1", cellInitiating)
	assert.Equal(t, StatusCorrect, out.Status)
	assert.Equal(t, StatePlacedCorrect, out.State)
	assert.Equal(t, 0, b.Incorrect())
	assertSinglePlacement(t, b)

	out = b.Place("p1", cellExecuting)
	assert.Equal(t, StatusIncorrect, out.Status)
	assert.Equal(t, StatePlacedIncorrect, out.State)
	assert.Equal(t, 1, out.Incorrect)
	assert.Equal(t, 1, b.Incorrect())
	assertSinglePlacement(t, b)

	b.Reset()
	assert.Equal(t, 0, b.Incorrect())
	assert.Equal(t, []string{"p1"}, b.Pool())
	b.Grid().Each(func(c *Cell) { assert.Empty(t, c.Items) })
	st, ok := b.State("p1")
	require.True(t, ok)
	assert.Equal(t, StateInPool, st)

	assert.Equal(t, []Cue{CueCorrect, CueIncorrect}, snd.played)
}

func TestDropJudgesEveryCell(t *testing.T) {
	ds := bigDataset()
	for _, it := range ds.Processes {
		b := New(ds, WithRand(rand.New(rand.NewSource(7))))
		b.Grid().Each(func(c *Cell) {
			before := b.Incorrect()
			out := b.Place(it.ID, c.Key)
			if c.Key == it.CorrectLocation {
				assert.Equal(t, StatePlacedCorrect, out.State)
				assert.Equal(t, before, b.Incorrect())
			} else {
				assert.Equal(t, StatePlacedIncorrect, out.State)
				assert.Equal(t, before+1, b.Incorrect())
			}
			assertSinglePlacement(t, b)
		})
	}
}

func TestRedropReplacesMarking(t *testing.T) {
	surf := newFakeSurface()
	b := New(charterDataset(), WithSurface(surf))

	b.Place("p1", cellExecuting)
	b.Place("p1", cellInitiating)

	assert.Equal(t, FeedbackCorrect, b.Marking("p1"))
	// Each drop clears the marking before applying the new one.
	assert.Equal(t, []Feedback{FeedbackNone, FeedbackIncorrect, FeedbackNone, FeedbackCorrect}, surf.marks["p1"])
	loc, ok := b.Location("p1")
	require.True(t, ok)
	assert.Equal(t, cellInitiating, loc)

	c, _ := b.Grid().Cell(cellExecuting)
	assert.Empty(t, c.Items)
	assertSinglePlacement(t, b)
}

func TestCounterNeverDecreasesUntilReset(t *testing.T) {
	ds := bigDataset()
	b := New(ds, WithRand(rand.New(rand.NewSource(3))))
	rng := rand.New(rand.NewSource(99))

	prev := 0
	for i := 0; i < 200; i++ {
		it := ds.Processes[rng.Intn(len(ds.Processes))]
		cell, _ := b.Grid().At(rng.Intn(3), rng.Intn(2))
		b.Place(it.ID, cell.Key)
		require.GreaterOrEqual(t, b.Incorrect(), prev)
		require.LessOrEqual(t, b.Incorrect(), prev+1)
		prev = b.Incorrect()
	}
	require.Greater(t, prev, 0)

	b.Reset()
	assert.Equal(t, 0, b.Incorrect())
	b.Reset()
	assert.Equal(t, 0, b.Incorrect())
}

func TestUnknownItemDropIsIgnored(t *testing.T) {
	surf := newFakeSurface()
	b := New(charterDataset(), WithSurface(surf))
	b.Place("p1", cellExecuting)
	moves := len(surf.moves)

	out := b.Drop(DragContext{ItemID: "nope"}, cellInitiating)
	assert.Equal(t, StatusIgnored, out.Status)
	assert.Equal(t, ReasonUnknownItem, out.Reason)
	assert.False(t, out.Applied())
	assert.Equal(t, 1, b.Incorrect())
	assert.Len(t, surf.moves, moves)

	_, ok := b.DragStart("nope")
	assert.False(t, ok)
	out = b.Place("nope", cellInitiating)
	assert.Equal(t, StatusIgnored, out.Status)
}

func TestDropOutsideGridKeepsItem(t *testing.T) {
	b := New(charterDataset())
	dc, ok := b.DragStart("p1")
	require.True(t, ok)

	out := b.Drop(dc, CellKey{KnowledgeArea: "Planning", ProcessGroup: "Closing"})
	assert.Equal(t, StatusIgnored, out.Status)
	assert.Equal(t, ReasonNotACell, out.Reason)

	st, _ := b.State("p1")
	assert.Equal(t, StateDragging, st)
	b.DragEnd(dc)
	st, _ = b.State("p1")
	assert.Equal(t, StateInPool, st)
	assert.Equal(t, []string{"p1"}, b.Pool())
}

func TestDragEndAfterPlacementKeepsCell(t *testing.T) {
	b := New(charterDataset())
	b.Place("p1", cellExecuting)

	dc, _ := b.DragStart("p1")
	st, _ := b.State("p1")
	assert.Equal(t, StateDragging, st)
	b.DragEnd(dc)

	st, _ = b.State("p1")
	assert.Equal(t, StatePlacedIncorrect, st)
	loc, ok := b.Location("p1")
	require.True(t, ok)
	assert.Equal(t, cellExecuting, loc)
}

func TestMalformedItemAlwaysIncorrect(t *testing.T) {
	ds := &dataset.Dataset{
		KnowledgeAreas: []string{"Scope", ""},
		ProcessGroups:  []string{"Planning", ""},
		Processes:      []dataset.Item{{ID: "x", Name: "No location"}},
	}
	b := New(ds)
	b.Grid().Each(func(c *Cell) {
		out := b.Place("x", c.Key)
		assert.Equal(t, StatusIncorrect, out.Status, "cell %v", c.Key)
	})
	assert.Equal(t, 4, b.Incorrect())
}

func TestDragOverIsReentrant(t *testing.T) {
	surf := newFakeSurface()
	b := New(charterDataset(), WithSurface(surf))

	assert.True(t, b.DragOver(cellExecuting))
	assert.True(t, b.DragOver(cellExecuting))
	assert.True(t, b.DragOver(cellExecuting))
	assert.True(t, b.Candidate(cellExecuting))
	assert.Len(t, surf.candidate, 1)
	assert.Equal(t, 0, b.Incorrect())
	assert.Equal(t, []string{"p1"}, b.Pool())

	b.DragLeave(cellExecuting)
	assert.False(t, b.Candidate(cellExecuting))
	assert.False(t, surf.candidate[cellExecuting])

	assert.False(t, b.DragOver(CellKey{KnowledgeArea: "x", ProcessGroup: "y"}))
}

func TestDropClearsCandidate(t *testing.T) {
	b := New(charterDataset())
	dc, _ := b.DragStart("p1")
	b.DragOver(cellInitiating)
	b.Drop(dc, cellInitiating)
	assert.False(t, b.Candidate(cellInitiating))
	_, dragging := b.Dragging()
	assert.False(t, dragging)
}

func TestResetReshufflesFullPool(t *testing.T) {
	ds := bigDataset()
	surf := newFakeSurface()
	b := New(ds, WithSurface(surf), WithRand(rand.New(rand.NewSource(11))))

	for _, it := range ds.Processes[:3] {
		b.Place(it.ID, it.CorrectLocation)
	}
	dc, _ := b.DragStart(ds.Processes[4].ID)
	b.DragOver(cellKeyOf(ds.Processes[4]))

	b.Reset()
	assert.Equal(t, 0, b.Incorrect())
	assert.Len(t, b.Pool(), ds.Len())
	b.Grid().Each(func(c *Cell) { assert.Empty(t, c.Items) })
	_, dragging := b.Dragging()
	assert.False(t, dragging)
	assert.False(t, b.Candidate(cellKeyOf(ds.Processes[4])))
	assert.Equal(t, 1, surf.clears)
	assert.Len(t, surf.pools, 2)
	assert.Equal(t, 1, surf.grids)
	assertSinglePlacement(t, b)
	b.DragEnd(dc)

	orders := make(map[string]bool)
	for i := 0; i < 500; i++ {
		b.Reset()
		key := ""
		for _, id := range b.Pool() {
			key += id + ","
		}
		orders[key] = true
	}
	// 6 items: 720 permutations; 500 resets should hit well over one.
	assert.Greater(t, len(orders), 100)
}

func TestSoundFailureDoesNotBlockPlacement(t *testing.T) {
	for _, snd := range []*fakeSound{{err: errors.New("muted")}, {panics: true}} {
		b := New(charterDataset(), WithSound(snd))
		out := b.Place("p1", cellExecuting)
		assert.Equal(t, StatusIncorrect, out.Status)
		assert.Equal(t, 1, b.Incorrect())
	}
}

func TestUnlimitedItemsPerCell(t *testing.T) {
	ds := bigDataset()
	b := New(ds)
	target := ds.Processes[0].CorrectLocation
	for _, it := range ds.Processes {
		b.Place(it.ID, target)
	}
	c, _ := b.Grid().Cell(target)
	assert.Len(t, c.Items, ds.Len())
	assert.Empty(t, b.Pool())
	assert.Equal(t, ds.Len()-1, b.Incorrect())
}

func TestSolvedAndSnapshot(t *testing.T) {
	ds := bigDataset()
	b := New(ds, WithID("board-1"))
	assert.False(t, b.Solved())

	for _, it := range ds.Processes {
		b.Place(it.ID, it.CorrectLocation)
	}
	assert.True(t, b.Solved())

	s := b.Snapshot()
	assert.Equal(t, "board-1", s.ID)
	assert.Equal(t, 3, s.Columns)
	assert.Len(t, s.Cells, 6)
	assert.Empty(t, s.Pool)
	assert.True(t, s.Solved)
	for id, v := range s.Items {
		assert.Equal(t, StatePlacedCorrect, v.State, id)
		require.NotNil(t, v.Cell)
	}
}

func TestEmptyAxesBoard(t *testing.T) {
	ds := &dataset.Dataset{ProcessGroups: []string{"Planning"}}
	b := New(ds)
	assert.Equal(t, 0, b.Grid().Len())
	assert.Equal(t, 2, b.Grid().Columns())
	out := b.Place("x", CellKey{KnowledgeArea: "a", ProcessGroup: "Planning"})
	assert.Equal(t, StatusIgnored, out.Status)
	b.Reset()
	assert.False(t, b.Solved())
}

func cellKeyOf(it dataset.Item) CellKey { return it.CorrectLocation }

func TestResetThenHoverFlagsAgain(t *testing.T) {
	surf := newFakeSurface()
	b := New(charterDataset(), WithSurface(surf))
	b.DragStart("p1")
	require.True(t, b.DragOver(cellExecuting))

	b.Reset()
	assert.False(t, b.Candidate(cellExecuting))
	assert.False(t, surf.candidate[cellExecuting])

	b.DragStart("p1")
	require.True(t, b.DragOver(cellExecuting))
	assert.True(t, b.Candidate(cellExecuting))
	assert.True(t, surf.candidate[cellExecuting])
	b.DragLeave(cellExecuting)
	assert.False(t, b.Candidate(cellExecuting))
}

func TestDuplicateIdsPooledOnce(t *testing.T) {
	ds := &dataset.Dataset{
		KnowledgeAreas: []string{"Planning"},
		ProcessGroups:  []string{"Initiating", "Executing"},
		Processes: []dataset.Item{
			{ID: "p1", Name: "first", CorrectLocation: cellInitiating},
			{ID: "p1", Name: "second", CorrectLocation: cellExecuting},
		},
	}
	surf := newFakeSurface()
	b := New(ds, WithSurface(surf))
	assert.Equal(t, []string{"p1"}, b.Pool())
	assert.Equal(t, [][]string{{"p1"}}, surf.pools)

	out := b.Place("p1", cellInitiating)
	assert.Equal(t, StatusCorrect, out.Status)
	assert.Empty(t, b.Pool())
	c, _ := b.Grid().Cell(cellInitiating)
	assert.Equal(t, []string{"p1"}, c.Items)

	b.Reset()
	assert.Equal(t, []string{"p1"}, b.Pool())
}

func TestBoardsShareLiteralDataset(t *testing.T) {
	ds := bigDataset()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b := New(ds)
			for _, it := range ds.Processes {
				b.Place(it.ID, it.CorrectLocation)
			}
			assert.True(t, b.Solved())
		}()
	}
	wg.Wait()
}
