// internal/board/grid.go
//
// Grid Builder: cells keyed by (knowledge area, process group), in axis order.

package board

// Cell is one interactive grid cell. Items holds the ids dropped into it,
// in drop order. There is no capacity limit.
type Cell struct {
	Key   CellKey
	Row   int
	Col   int
	Items []string
}

// Grid is the two-axis board surface. Rows follow the knowledge areas,
// columns follow the process groups, both in the order supplied.
type Grid struct {
	RowHeaders    []string
	ColumnHeaders []string
	Cells         [][]*Cell // [row][col]

	index map[CellKey]*Cell
}

// BuildGrid creates headers and one cell per (axisA, axisB) pair.
// Empty axes give a grid with headers only.
func BuildGrid(axisA, axisB []string) *Grid {
	g := &Grid{
		RowHeaders:    append([]string(nil), axisA...),
		ColumnHeaders: append([]string(nil), axisB...),
		Cells:         make([][]*Cell, len(axisA)),
		index:         make(map[CellKey]*Cell, len(axisA)*len(axisB)),
	}
	for r, ka := range axisA {
		row := make([]*Cell, len(axisB))
		for c, pg := range axisB {
			cell := &Cell{Key: CellKey{KnowledgeArea: ka, ProcessGroup: pg}, Row: r, Col: c}
			row[c] = cell
			// Repeated labels resolve to the first cell.
			if _, ok := g.index[cell.Key]; !ok {
				g.index[cell.Key] = cell
			}
		}
		g.Cells[r] = row
	}
	return g
}

// Cell returns the cell tagged with key.
func (g *Grid) Cell(key CellKey) (*Cell, bool) {
	c, ok := g.index[key]
	return c, ok
}

// At returns the cell at a zero-based row/column.
func (g *Grid) At(row, col int) (*Cell, bool) {
	if row < 0 || row >= len(g.Cells) || col < 0 || col >= len(g.Cells[row]) {
		return nil, false
	}
	return g.Cells[row][col], true
}

// Columns is the layout width: the row-header column plus one per process group.
func (g *Grid) Columns() int { return 1 + len(g.ColumnHeaders) }

// Len is the number of data cells.
func (g *Grid) Len() int { return len(g.RowHeaders) * len(g.ColumnHeaders) }

// Each visits cells in row-major order.
func (g *Grid) Each(fn func(*Cell)) {
	for _, row := range g.Cells {
		for _, c := range row {
			fn(c)
		}
	}
}

// clear empties every cell. Headers are untouched.
func (g *Grid) clear() {
	g.Each(func(c *Cell) { c.Items = nil })
}
