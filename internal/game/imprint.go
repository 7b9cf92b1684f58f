package game

import (
	"math/rand/v2"
	"sort"

	"github.com/google/uuid"
)

// SelectImprint pools the strokes of a drawing and the imprint it was drawn
// over, then keeps up to n of them chosen uniformly without replacement.
// Stroke order within the pool is preserved. An empty pool yields nil.
func SelectImprint(drawing, prior Drawing, n int, rng *rand.Rand) Drawing {
	pool := make(Drawing, 0, len(drawing)+len(prior))
	pool = append(pool, drawing...)
	pool = append(pool, prior...)
	if n > len(pool) {
		n = len(pool)
	}
	if n <= 0 {
		return nil
	}

	picked := rng.Perm(len(pool))[:n]
	sort.Ints(picked)
	out := make(Drawing, 0, n)
	for _, idx := range picked {
		out = append(out, pool[idx])
	}
	return out
}

// RedistributeImprints shuffles the imprints across the same set of players.
// A player may get their own imprint back.
func RedistributeImprints(imprints map[uuid.UUID]Drawing, rng *rand.Rand) map[uuid.UUID]Drawing {
	keys := make([]uuid.UUID, 0, len(imprints))
	for id := range imprints {
		keys = append(keys, id)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	values := make([]Drawing, len(keys))
	for i, id := range keys {
		values[i] = imprints[id]
	}
	rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})

	out := make(map[uuid.UUID]Drawing, len(keys))
	for i, id := range keys {
		out[id] = values[i]
	}
	return out
}
