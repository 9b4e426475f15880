// internal/tui/surface.go
//
// Terminal rendition of the board.
// Responsibilities:
//   - Narrate board events (moves, markings, counter, hovering) as lines.
//   - Draw the full grid and the pool on request.
//   - Ring the terminal bell as the audio cue.
//
// Renderer never calls back into the board; the Game owns the board and
// asks it for state when drawing.

package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"

	"github.com/robalobadob/matchboard/internal/board"
	"github.com/robalobadob/matchboard/internal/dataset"
)

type styles struct {
	header    color.Style
	index     color.Style
	correct   color.Style
	incorrect color.Style
	dragging  color.Style
	candidate color.Style
	subtle    color.Style
	counter   color.Style
}

func newStyles(enabled bool) styles {
	if !enabled {
		return styles{}
	}
	return styles{
		header:    color.Style{color.FgCyan, color.OpBold},
		index:     color.Style{color.FgGray},
		correct:   color.Style{color.FgGreen, color.OpBold},
		incorrect: color.Style{color.FgRed, color.OpBold},
		dragging:  color.Style{color.FgYellow, color.OpBold},
		candidate: color.Style{color.FgBlue, color.OpUnderscore},
		subtle:    color.Style{color.FgGray, color.OpBold},
		counter:   color.Style{color.FgMagenta, color.OpBold},
	}
}

// Renderer implements board.Surface and board.Sound on a text stream.
type Renderer struct {
	out   io.Writer
	ds    *dataset.Dataset
	msg   Catalogue
	st    styles
	width int
	bell  bool

	grid    *board.Grid
	counter int
	live    bool // false while the board is being constructed
}

var (
	_ board.Surface = (*Renderer)(nil)
	_ board.Sound   = (*Renderer)(nil)
)

func newRenderer(out io.Writer, ds *dataset.Dataset, msg Catalogue, opts Options) *Renderer {
	width := opts.Width
	if width <= 0 {
		width = Width(out)
	}
	return &Renderer{out: out, ds: ds, msg: msg, st: newStyles(opts.Color), width: width, bell: opts.Bell}
}

func (r *Renderer) println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}

func (r *Renderer) say(style color.Style, key string, vars ...interface{}) {
	for _, line := range strings.Split(r.msg.Get(key, vars...), "\n") {
		r.println(style.Sprint(truncate(line, r.width)))
	}
}

func (r *Renderer) name(id string) string {
	if it, ok := r.ds.Lookup(id); ok && it.Name != "" {
		return it.Name
	}
	return id
}

// ------------------------------ board.Surface --------------------------------

func (r *Renderer) RenderGrid(g *board.Grid) { r.grid = g }

func (r *Renderer) RenderPool(items []dataset.Item) {
	if r.live {
		r.say(r.st.subtle, "POOL_SHUFFLED", len(items))
	}
}

func (r *Renderer) MoveItem(id string, to board.CellKey) {
	r.say(color.Style{}, "MOVED", r.name(id), to.KnowledgeArea, to.ProcessGroup)
}

func (r *Renderer) MarkItem(id string, fb board.Feedback) {
	switch fb {
	case board.FeedbackCorrect:
		r.say(r.st.correct, "MARK_CORRECT")
	case board.FeedbackIncorrect:
		r.say(r.st.incorrect, "MARK_INCORRECT")
	}
}

func (r *Renderer) SetDragging(id string, on bool) {
	if on {
		r.say(r.st.dragging, "PICKED_UP", r.name(id))
	}
}

func (r *Renderer) SetCandidate(key board.CellKey, on bool) {
	if on {
		r.say(r.st.candidate, "HOVER", key.KnowledgeArea, key.ProcessGroup)
	}
}

func (r *Renderer) ShowCounter(n int) {
	if n == r.counter {
		return
	}
	r.counter = n
	r.say(r.st.counter, "COUNTER", n)
}

func (r *Renderer) ClearCells() {
	if r.live {
		r.say(r.st.subtle, "GRID_CLEARED")
	}
}

// Play rings the bell. The cue itself is already visible as a marking.
func (r *Renderer) Play(board.Cue) error {
	if !r.bell {
		return nil
	}
	_, err := io.WriteString(r.out, "\a")
	return err
}

// ------------------------------- drawing ------------------------------------

// drawGrid prints rows as numbered knowledge areas with their numbered
// process-group cells nested underneath.
func (r *Renderer) drawGrid(b *board.Board) {
	r.say(r.st.counter, "COUNTER", b.Incorrect())
	g := b.Grid()
	if g.Len() == 0 {
		return
	}
	for ri, row := range g.Cells {
		r.println(r.st.index.Sprintf("[%d] ", ri+1) + r.st.header.Sprint(truncate(g.RowHeaders[ri], r.width-5)))
		for ci, c := range row {
			label := fmt.Sprintf("    [%d] %s", ci+1, g.ColumnHeaders[ci])
			style := r.st.subtle
			if b.Candidate(c.Key) {
				style = r.st.candidate
			}
			r.println(style.Sprint(truncate(label, r.width)))
			for _, id := range c.Items {
				r.println(r.item(b, id, "        "))
			}
		}
	}
}

func (r *Renderer) drawPool(b *board.Board) {
	pool := b.Pool()
	if len(pool) == 0 {
		r.say(r.st.subtle, "POOL_EMPTY")
		return
	}
	r.say(r.st.header, "POOL_HEADER", len(pool))
	for _, id := range pool {
		r.println(r.item(b, id, "  "))
	}
}

func (r *Renderer) item(b *board.Board, id, indent string) string {
	text := truncate(fmt.Sprintf("%s%s (%s)", indent, r.name(id), id), r.width)
	if cur, ok := b.Dragging(); ok && cur == id {
		return r.st.dragging.Sprint(text)
	}
	switch b.Marking(id) {
	case board.FeedbackCorrect:
		return r.st.correct.Sprint(text)
	case board.FeedbackIncorrect:
		return r.st.incorrect.Sprint(text)
	}
	return text
}

func (r *Renderer) rule() {
	r.println(r.st.index.Sprint(strings.Repeat("─", min(r.width, 60))))
}
