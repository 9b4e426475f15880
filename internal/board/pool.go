// internal/board/pool.go
//
// Pool Builder: the shuffled list of items not yet placed.

package board

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/matchboard/internal/dataset"
)

// populate replaces the pool with every item in a fresh random order.
// Previous pool contents and placements are discarded. Repeated ids keep
// only their first item, the one Lookup resolves.
func (b *Board) populate(items []dataset.Item) {
	shuffled := Shuffle(b.rng, unique(items))

	b.pool = make([]string, 0, len(shuffled))
	for _, it := range shuffled {
		b.pool = append(b.pool, it.ID)
	}
	for id := range b.where {
		delete(b.where, id)
	}
	for id := range b.feedback {
		delete(b.feedback, id)
	}
	b.surface.RenderPool(shuffled)
}

func unique(items []dataset.Item) []dataset.Item {
	seen := mapset.New[string]()
	out := make([]dataset.Item, 0, len(items))
	for _, it := range items {
		if seen.Has(it.ID) {
			continue
		}
		seen.Put(it.ID)
		out = append(out, it)
	}
	return out
}
