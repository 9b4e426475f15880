// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Holds one *board.Board per player session; state is lost on restart.
//
// Characteristics:
//   - Boards keyed by a random UUID.
//   - The map is guarded by an RWMutex; each board additionally has its own
//     mutex so events for one board run one at a time while different
//     boards proceed in parallel.
//   - Idle boards are dropped by Sweep.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/matchboard/internal/board"
)

// ErrNotFound is returned for unknown board ids.
var ErrNotFound = errors.New("store: board not found")

// Factory builds a fresh board with the given id. opts are extra
// per-board options supplied to Create.
type Factory func(id string, opts ...board.Option) *board.Board

// Store defines the persistence interface for board sessions.
type Store interface {
	// Create builds and registers a new board.
	Create(ctx context.Context, opts ...board.Option) (*board.Board, error)

	// Update runs fn with exclusive access to the board.
	// fn must not retain the board after returning.
	Update(ctx context.Context, id string, fn func(b *board.Board) error) error

	// Delete forgets a board. Unknown ids are not an error.
	Delete(ctx context.Context, id string) error

	// Sweep removes boards idle for longer than maxIdle and reports how many.
	Sweep(ctx context.Context, maxIdle time.Duration) int

	// Len reports the number of live boards.
	Len() int
}

type entry struct {
	mu       sync.Mutex // serializes events for this board
	b        *board.Board
	lastSeen time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu     sync.RWMutex      // guards boards
	boards map[string]*entry // keyed by Board.ID
	build  Factory
	now    func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore(build Factory) Store {
	return &memory{
		boards: make(map[string]*entry),
		build:  build,
		now:    time.Now,
	}
}

func (m *memory) Create(ctx context.Context, opts ...board.Option) (*board.Board, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	b := m.build(id, opts...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.boards[id] = &entry{b: b, lastSeen: m.now()}
	return b, nil
}

func (m *memory) Update(ctx context.Context, id string, fn func(b *board.Board) error) error {
	m.mu.RLock()
	e, ok := m.boards[id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	e.lastSeen = m.now()
	return fn(e.b)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.boards, id)
	return nil
}

func (m *memory) Sweep(ctx context.Context, maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.boards {
		e.mu.Lock()
		idle := e.lastSeen.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(m.boards, id)
			n++
		}
	}
	return n
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.boards)
}
