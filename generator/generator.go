// Package generator produces random solvable 15-puzzle boards.
package generator

import (
	"encoding/binary"

	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/r4f4/game15/board"
)

// DefaultScrambleLen is the number of random moves walked from the goal.
// Enough to mix the board well past its ~80-move diameter.
const DefaultScrambleLen = 200

// Generator produces solvable boards by random-walking the blank from
// the goal configuration. Solvability is invariant under legal moves, so
// the result is solvable by construction; it is still validated before
// being returned.
type Generator struct {
	rng         *frand.RNG
	scrambleLen int
}

// New returns a generator seeded from system entropy.
func New() *Generator {
	return &Generator{rng: frand.New(), scrambleLen: DefaultScrambleLen}
}

// NewSeeded returns a deterministic generator: the same seed always
// produces the same sequence of boards.
func NewSeeded(seed uint64) *Generator {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	return &Generator{
		rng:         frand.NewCustom(key[:], 1024, 12),
		scrambleLen: DefaultScrambleLen,
	}
}

// SetScrambleLen overrides the walk length. Values below 1 are ignored.
func (g *Generator) SetScrambleLen(n int) {
	if n >= 1 {
		g.scrambleLen = n
	}
}

// Generate returns a random solvable board.
func (g *Generator) Generate() board.Board {
	b := board.New()
	var last board.Direction
	for i := 0; i < g.scrambleLen; i++ {
		moves := b.LegalMoves()
		if i > 0 {
			// Never immediately undo the previous move; that would just
			// oscillate instead of mixing.
			prev := last
			moves = lo.Filter(moves, func(d board.Direction, _ int) bool {
				return !d.Opposes(prev)
			})
		}
		d := moves[g.rng.Intn(len(moves))]
		b = b.MustSlide(d)
		last = d
	}
	if !b.Solvable() {
		// Legal moves preserve solvability; reaching this means the board
		// package is broken.
		panic("generated board is not solvable")
	}
	return b
}
