// internal/board/snapshot.go
//
// JSON view of a board for the HTTP API.

package board

// Snapshot is a serializable view of a board, used by the HTTP API.
type Snapshot struct {
	ID             string              `json:"id"`
	KnowledgeAreas []string            `json:"knowledgeAreas"`
	ProcessGroups  []string            `json:"processGroups"`
	Columns        int                 `json:"columns"`
	Cells          []CellView          `json:"cells"`
	Pool           []PoolItem          `json:"pool"`
	Items          map[string]ItemView `json:"items"`
	Incorrect      int                 `json:"incorrect"`
	Dragging       string              `json:"dragging,omitempty"`
	Solved         bool                `json:"solved"`
}

// CellView is one data cell with its contents.
type CellView struct {
	KnowledgeArea string   `json:"knowledgeArea"`
	ProcessGroup  string   `json:"processGroup"`
	Items         []string `json:"items"`
	Candidate     bool     `json:"candidate,omitempty"`
}

// PoolItem is an item waiting in the pool.
type PoolItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ItemView is the per-item state.
type ItemView struct {
	Name    string    `json:"name"`
	State   ItemState `json:"state"`
	Marking Feedback  `json:"marking,omitempty"`
	Cell    *CellKey  `json:"cell,omitempty"`
}

// Snapshot captures the current board.
func (b *Board) Snapshot() Snapshot {
	s := Snapshot{
		ID:             b.ID,
		KnowledgeAreas: b.grid.RowHeaders,
		ProcessGroups:  b.grid.ColumnHeaders,
		Columns:        b.grid.Columns(),
		Cells:          make([]CellView, 0, b.grid.Len()),
		Pool:           make([]PoolItem, 0, len(b.pool)),
		Items:          make(map[string]ItemView, b.ds.Len()),
		Incorrect:      b.incorrect,
		Dragging:       b.dragging,
		Solved:         b.Solved(),
	}
	b.grid.Each(func(c *Cell) {
		s.Cells = append(s.Cells, CellView{
			KnowledgeArea: c.Key.KnowledgeArea,
			ProcessGroup:  c.Key.ProcessGroup,
			Items:         append([]string{}, c.Items...),
			Candidate:     b.candidates.Has(c.Key),
		})
	})
	for _, id := range b.pool {
		it, _ := b.ds.Lookup(id)
		s.Pool = append(s.Pool, PoolItem{ID: it.ID, Name: it.Name})
	}
	for _, it := range b.ds.Processes {
		v := ItemView{Name: it.Name, State: b.stateOf(it.ID), Marking: b.feedback[it.ID]}
		if c, ok := b.where[it.ID]; ok {
			key := c.Key
			v.Cell = &key
		}
		s.Items[it.ID] = v
	}
	return s
}
