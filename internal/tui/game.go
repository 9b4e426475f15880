// internal/tui/game.go
//
// Line-oriented command loop for playing a board in a terminal.
// A terminal has no pointer, so each drag gesture is spelled out:
// "drag p4-1", "over 1 1", "drop 1 1", or "move p4-1 1 1" for the whole
// gesture at once. Rows and columns are 1-based header indexes.

package tui

import (
	"bufio"
	"context"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/robalobadob/matchboard/internal/board"
	"github.com/robalobadob/matchboard/internal/dataset"
)

// Options tunes the terminal game.
type Options struct {
	Lang   string     // catalogue language, default "en"
	Color  bool       // ANSI colours
	Bell   bool       // ring the bell as the audio cue
	Width  int        // override the detected width
	Rand   *rand.Rand // shuffle source; nil seeds from the clock
	Logger *zerolog.Logger
}

// Game couples one board with a Renderer and tracks the current drag.
type Game struct {
	b  *board.Board
	r  *Renderer
	dc board.DragContext
}

// NewGame builds a board for ds that draws to out.
func NewGame(ds *dataset.Dataset, out io.Writer, opts Options) (*Game, error) {
	if opts.Lang == "" {
		opts.Lang = "en"
	}
	msg, err := LoadCatalogue(opts.Lang)
	if err != nil {
		return nil, err
	}
	r := newRenderer(out, ds, msg, opts)

	bopts := []board.Option{board.WithID("terminal"), board.WithSurface(r), board.WithSound(r)}
	if opts.Rand != nil {
		bopts = append(bopts, board.WithRand(opts.Rand))
	}
	if opts.Logger != nil {
		bopts = append(bopts, board.WithLogger(*opts.Logger))
	}
	g := &Game{b: board.New(ds, bopts...), r: r}
	r.live = true
	return g, nil
}

// Board exposes the underlying board.
func (g *Game) Board() *board.Board { return g.b }

// Run reads commands from in until "quit", EOF or ctx is done.
func (g *Game) Run(ctx context.Context, in io.Reader) error {
	ds := g.b.Dataset()
	g.r.say(g.r.st.header, "TITLE", ds.Len(), len(ds.KnowledgeAreas), len(ds.ProcessGroups))
	g.r.say(g.r.st.subtle, "HELP")
	g.r.rule()
	g.r.drawGrid(g.b)
	g.r.drawPool(g.b)

	sc := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, _ = io.WriteString(g.r.out, g.r.msg.Get("PROMPT"))
		if !sc.Scan() {
			return sc.Err()
		}
		if quit := g.Exec(sc.Text()); quit {
			g.r.say(g.r.st.subtle, "BYE")
			return nil
		}
	}
}

// Exec runs one command line and reports whether it asked to quit.
func (g *Game) Exec(line string) bool {
	f := strings.Fields(line)
	if len(f) == 0 {
		return false
	}
	cmd, args := strings.ToLower(f[0]), f[1:]

	switch cmd {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		g.r.say(g.r.st.subtle, "HELP")
	case "show", "ls":
		g.r.drawGrid(g.b)
	case "pool":
		g.r.drawPool(g.b)
	case "drag":
		if len(args) != 1 {
			g.usage("drag <id>")
			return false
		}
		g.drag(args[0])
	case "over", "leave":
		if len(args) != 2 {
			g.usage(cmd + " <row> <col>")
			return false
		}
		key, ok := g.cellAt(args[0], args[1])
		if !ok {
			g.r.say(g.r.st.incorrect, "NOT_A_CELL", args[0], args[1])
			return false
		}
		if cmd == "over" {
			g.b.DragOver(key)
		} else {
			g.b.DragLeave(key)
		}
	case "drop":
		if len(args) != 2 {
			g.usage("drop <row> <col>")
			return false
		}
		g.drop(args[0], args[1])
	case "end":
		g.end()
	case "move":
		if len(args) != 3 {
			g.usage("move <id> <row> <col>")
			return false
		}
		key, ok := g.cellAt(args[1], args[2])
		if !ok {
			g.r.say(g.r.st.incorrect, "NOT_A_CELL", args[1], args[2])
			return false
		}
		g.dc = board.DragContext{}
		g.report(g.b.Place(args[0], key), args[1], args[2])
	case "reset":
		g.dc = board.DragContext{}
		g.b.Reset()
		g.r.drawPool(g.b)
	default:
		g.r.say(g.r.st.incorrect, "UNKNOWN_COMMAND", f[0])
	}
	return false
}

func (g *Game) drag(id string) {
	dc, ok := g.b.DragStart(id)
	if !ok {
		g.r.say(g.r.st.incorrect, "UNKNOWN_ITEM", id)
		return
	}
	g.dc = dc
}

func (g *Game) drop(row, col string) {
	if g.dc.ItemID == "" {
		g.r.say(g.r.st.incorrect, "NOT_DRAGGING")
		return
	}
	key, ok := g.cellAt(row, col)
	if !ok {
		// the drag stays active, as it does after a drop outside the grid
		g.r.say(g.r.st.incorrect, "NOT_A_CELL", row, col)
		return
	}
	out := g.b.Drop(g.dc, key)
	if out.Applied() {
		g.dc = board.DragContext{}
	}
	g.report(out, row, col)
}

// end releases the dragged item where it is.
func (g *Game) end() {
	if g.dc.ItemID == "" {
		g.r.say(g.r.st.incorrect, "NOT_DRAGGING")
		return
	}
	g.b.DragEnd(g.dc)
	g.r.say(g.r.st.subtle, "RELEASED", g.r.name(g.dc.ItemID))
	g.dc = board.DragContext{}
}

func (g *Game) report(out board.Outcome, row, col string) {
	switch {
	case out.Reason == board.ReasonNotACell:
		g.r.say(g.r.st.incorrect, "NOT_A_CELL", row, col)
	case out.Reason == board.ReasonUnknownItem:
		g.r.say(g.r.st.incorrect, "UNKNOWN_ITEM", out.ItemID)
	case g.b.Solved():
		g.r.say(g.r.st.correct, "SOLVED")
	}
}

// cellAt resolves 1-based row/column strings to a cell key.
func (g *Game) cellAt(row, col string) (board.CellKey, bool) {
	r, err := strconv.Atoi(row)
	if err != nil {
		return board.CellKey{}, false
	}
	c, err := strconv.Atoi(col)
	if err != nil {
		return board.CellKey{}, false
	}
	cell, ok := g.b.Grid().At(r-1, c-1)
	if !ok {
		return board.CellKey{}, false
	}
	return cell.Key, true
}

func (g *Game) usage(s string) {
	g.r.say(g.r.st.subtle, "USAGE", s)
}
