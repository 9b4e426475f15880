// internal/httpserver/routes_board.go
//
// HTTP routes for the player's board, mounted under /api/board:
//   - POST /              → start a new board (sets the session cookie);
//                            ?daily=1 gives the shared board of the day
//   - GET  /              → current snapshot
//   - POST /drag/start    → pick up an item
//   - POST /drag/end      → release it without dropping
//   - POST /drag/over     → flag a cell as drop candidate
//   - POST /drag/leave    → clear the candidate flag
//   - POST /drop          → place an item in a cell and judge it
//   - POST /reset         → zero the counter, empty the grid, reshuffle
//   - GET  /history       → journal of drops and resets for this board
//
// Every request except POST / needs a valid session token. Board events are
// applied through store.Update, one at a time per board.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/matchboard/internal/board"
	"github.com/robalobadob/matchboard/internal/daily"
	"github.com/robalobadob/matchboard/internal/journal"
	"github.com/robalobadob/matchboard/internal/store"
)

type ctxBoardKey struct{}

// mountBoard registers all /api/board routes.
func (s *Server) mountBoard(r chi.Router) {
	r.Use(jsonContentType)
	r.Post("/", s.handleNewBoard)

	r.Group(func(r chi.Router) {
		r.Use(s.requireBoard)
		r.Get("/", s.handleSnapshot)
		r.Post("/drag/start", s.handleDragStart)
		r.Post("/drag/end", s.handleDragEnd)
		r.Post("/drag/over", s.handleDragOver)
		r.Post("/drag/leave", s.handleDragLeave)
		r.Post("/drop", s.handleDrop)
		r.Post("/reset", s.handleReset)
		r.Get("/history", s.handleHistory)
	})
}

// requireBoard resolves the session token to a board id.
func (s *Server) requireBoard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := s.sessions.FromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "no_board")
			return
		}
		ctx := context.WithValue(r.Context(), ctxBoardKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func boardID(r *http.Request) string {
	id, _ := r.Context().Value(ctxBoardKey{}).(string)
	return id
}

// withBoard runs fn on the request's board and maps store errors to responses.
// It reports whether fn ran.
func (s *Server) withBoard(w http.ResponseWriter, r *http.Request, fn func(b *board.Board)) bool {
	err := s.store.Update(r.Context(), boardID(r), func(b *board.Board) error {
		fn(b)
		return nil
	})
	switch {
	case err == nil:
		return true
	case errors.Is(err, store.ErrNotFound):
		s.sessions.ClearCookie(w)
		writeError(w, http.StatusUnauthorized, "no_board")
	default:
		log.Error().Err(err).Str("board", boardID(r)).Msg("board update")
		writeError(w, http.StatusServiceUnavailable, "board_busy")
	}
	return false
}

// ------------------------------- payloads -----------------------------------

type newBoardRes struct {
	Token string         `json:"token"`
	Daily string         `json:"daily,omitempty"` // YYYY-MM-DD for daily boards
	Board board.Snapshot `json:"board"`
}

type itemReq struct {
	ItemID string `json:"itemId"`
}

type cellReq struct {
	KnowledgeArea string `json:"knowledgeArea"`
	ProcessGroup  string `json:"processGroup"`
}

func (c cellReq) key() board.CellKey {
	return board.CellKey{KnowledgeArea: c.KnowledgeArea, ProcessGroup: c.ProcessGroup}
}

type dropReq struct {
	ItemID string `json:"itemId"`
	cellReq
}

type dragRes struct {
	OK    bool            `json:"ok"`
	Item  string          `json:"itemId,omitempty"`
	State board.ItemState `json:"state,omitempty"`
}

type candidateRes struct {
	OK        bool `json:"ok"`
	Candidate bool `json:"candidate"`
}

type historyRes struct {
	Board   string          `json:"board"`
	Entries []journal.Entry `json:"entries"`
}

// ------------------------------- handlers -----------------------------------

// handleNewBoard builds a fresh board and binds it to the caller.
// A board already bound to the caller is discarded first.
func (s *Server) handleNewBoard(w http.ResponseWriter, r *http.Request) {
	if old, err := s.sessions.FromRequest(r); err == nil {
		_ = s.store.Delete(r.Context(), old)
	}

	var (
		opts []board.Option
		day  string
	)
	if v := r.URL.Query().Get("daily"); v == "1" || v == "true" {
		now := s.opts.Now()
		day = daily.DateKey(now)
		opts = append(opts, board.WithRand(daily.Rand(now, s.opts.DailySalt)))
	}

	b, err := s.store.Create(r.Context(), opts...)
	if err != nil {
		log.Error().Err(err).Msg("create board")
		writeError(w, http.StatusInternalServerError, "create_failed")
		return
	}
	tok, exp, err := s.sessions.Issue(b.ID)
	if err != nil {
		_ = s.store.Delete(r.Context(), b.ID)
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.sessions.SetCookie(w, tok, exp)

	var snap board.Snapshot
	_ = s.store.Update(r.Context(), b.ID, func(b *board.Board) error {
		snap = b.Snapshot()
		return nil
	})
	log.Info().Str("board", b.ID).Str("daily", day).Int("boards", s.store.Len()).Msg("board created")
	writeJSON(w, http.StatusCreated, newBoardRes{Token: tok, Daily: day, Board: snap})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap board.Snapshot
	if s.withBoard(w, r, func(b *board.Board) { snap = b.Snapshot() }) {
		writeJSON(w, http.StatusOK, snap)
	}
}

func (s *Server) handleDragStart(w http.ResponseWriter, r *http.Request) {
	var req itemReq
	if !decode(w, r, &req) {
		return
	}
	var res dragRes
	ok := s.withBoard(w, r, func(b *board.Board) {
		if dc, started := b.DragStart(req.ItemID); started {
			res = dragRes{OK: true, Item: dc.ItemID, State: board.StateDragging}
		}
	})
	if ok {
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleDragEnd(w http.ResponseWriter, r *http.Request) {
	var req itemReq
	if !decode(w, r, &req) {
		return
	}
	var res dragRes
	ok := s.withBoard(w, r, func(b *board.Board) {
		b.DragEnd(board.DragContext{ItemID: req.ItemID})
		if st, known := b.State(req.ItemID); known {
			res = dragRes{OK: true, Item: req.ItemID, State: st}
		}
	})
	if ok {
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleDragOver(w http.ResponseWriter, r *http.Request) {
	var req cellReq
	if !decode(w, r, &req) {
		return
	}
	var res candidateRes
	ok := s.withBoard(w, r, func(b *board.Board) {
		valid := b.DragOver(req.key())
		res = candidateRes{OK: valid, Candidate: valid}
	})
	if ok {
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleDragLeave(w http.ResponseWriter, r *http.Request) {
	var req cellReq
	if !decode(w, r, &req) {
		return
	}
	if s.withBoard(w, r, func(b *board.Board) { b.DragLeave(req.key()) }) {
		writeJSON(w, http.StatusOK, candidateRes{OK: true})
	}
}

// handleDrop judges a placement. Unknown items and cells are not errors:
// the outcome comes back with status "ignored" and nothing changes.
func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req dropReq
	if !decode(w, r, &req) {
		return
	}
	var out board.Outcome
	ok := s.withBoard(w, r, func(b *board.Board) {
		out = b.Drop(board.DragContext{ItemID: req.ItemID}, req.key())
	})
	if !ok {
		return
	}
	if out.Applied() {
		s.record(r, journal.Entry{
			Kind:          journal.KindDrop,
			ItemID:        out.ItemID,
			KnowledgeArea: out.Cell.KnowledgeArea,
			ProcessGroup:  out.Cell.ProcessGroup,
			Status:        string(out.Status),
			Incorrect:     out.Incorrect,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var snap board.Snapshot
	ok := s.withBoard(w, r, func(b *board.Board) {
		b.Reset()
		snap = b.Snapshot()
	})
	if !ok {
		return
	}
	s.record(r, journal.Entry{Kind: journal.KindReset})
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := boardID(r)
	entries, err := s.journal.History(r.Context(), id, 0)
	if err != nil {
		log.Error().Err(err).Str("board", id).Msg("journal history")
		writeError(w, http.StatusInternalServerError, "history_failed")
		return
	}
	writeJSON(w, http.StatusOK, historyRes{Board: id, Entries: entries})
}

// record writes a journal entry. Failures are logged and otherwise ignored.
func (s *Server) record(r *http.Request, e journal.Entry) {
	e.BoardID = boardID(r)
	if err := s.journal.Record(r.Context(), e); err != nil {
		log.Warn().Err(err).Str("board", e.BoardID).Str("kind", e.Kind).Msg("journal write")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return false
	}
	return true
}
