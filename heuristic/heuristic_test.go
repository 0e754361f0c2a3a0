package heuristic

import (
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/r4f4/game15/board"
)

func mustBoard(t *testing.T, tiles []uint8) board.Board {
	t.Helper()
	b, err := board.FromTiles(tiles)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestEstimateGoalIsZero(t *testing.T) {
	is := is.New(t)
	e := New()
	is.Equal(e.Estimate(board.New()), 0)
	e.SetLinearConflict(false)
	is.Equal(e.Estimate(board.New()), 0)
}

func TestEstimateOneMoveAway(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, []uint8{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 0, 15})
	is.Equal(New().Estimate(b), 1)
}

func TestEstimateKnownValues(t *testing.T) {
	e := New()
	e.SetLinearConflict(false)
	cases := []struct {
		name  string
		tiles []uint8
		want  int
	}{
		// Tiles 9 and 11 one column off, 10 two columns off.
		{"rotated triple", []uint8{1, 2, 3, 4, 5, 6, 7, 8, 10, 11, 9, 12, 13, 14, 15, 0}, 4},
		// Blank does not contribute to the distance.
		{"blank moved", []uint8{1, 2, 3, 4, 0, 5, 6, 7, 8, 10, 11, 9, 12, 13, 14, 15}, 17},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			is.Equal(e.Estimate(mustBoard(t, tc.tiles)), tc.want)
		})
	}
}

func TestLinearConflictSinglePair(t *testing.T) {
	is := is.New(t)
	// 14 and 15 are both in their goal row but reversed: one tile has to
	// leave the row.
	b := mustBoard(t, []uint8{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 15, 14, 0})
	plain := &Estimator{}
	is.Equal(plain.Estimate(b), 2)
	is.Equal(New().Estimate(b), 4)
}

func TestLinearConflictReversedTriple(t *testing.T) {
	is := is.New(t)
	// 13, 14, 15 fully reversed in their goal row: three reversed pairs,
	// but only two tiles need to leave the row, so the correction is +4,
	// not +6.
	b := mustBoard(t, []uint8{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 15, 14, 13, 0})
	plain := &Estimator{}
	is.Equal(plain.Estimate(b), 4)
	is.Equal(New().Estimate(b), 8)
}

func TestLinearConflictReversedColumn(t *testing.T) {
	is := is.New(t)
	// 4, 8, 12 reversed in goal column 3.
	b := mustBoard(t, []uint8{1, 2, 3, 12, 5, 6, 7, 8, 9, 10, 11, 4, 13, 14, 15, 0})
	plain := &Estimator{}
	is.Equal(plain.Estimate(b), 4)
	is.Equal(New().Estimate(b), 8)
}

func TestLinearConflictNeverBelowManhattan(t *testing.T) {
	is := is.New(t)
	plain := &Estimator{}
	lc := New()
	rng := frand.New()
	b := board.New()
	for i := 0; i < 500; i++ {
		moves := b.LegalMoves()
		b = b.MustSlide(moves[rng.Intn(len(moves))])
		is.True(lc.Estimate(b) >= plain.Estimate(b))
	}
}

// bfsDistances enumerates every board within maxDepth moves of the goal
// with its true optimal distance.
func bfsDistances(maxDepth int) map[uint64]int {
	goal := board.New()
	dist := map[uint64]int{goal.Pack(): 0}
	queue := []board.Board{goal}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		d := dist[cur.Pack()]
		if d == maxDepth {
			continue
		}
		for _, m := range cur.LegalMoves() {
			nb := cur.MustSlide(m)
			if _, seen := dist[nb.Pack()]; seen {
				continue
			}
			dist[nb.Pack()] = d + 1
			queue = append(queue, nb)
		}
	}
	return dist
}

// Exhaustive admissibility check against brute-force distances: the
// estimate must never exceed the true optimal distance, with or without
// the linear-conflict correction.
func TestAdmissibleNearGoal(t *testing.T) {
	lc := New()
	plain := &Estimator{}
	for key, d := range bfsDistances(16) {
		b := board.Unpack(key)
		if est := lc.Estimate(b); est > d {
			t.Fatalf("linear-conflict estimate %d exceeds true distance %d for board\n%s", est, d, b)
		}
		if est := plain.Estimate(b); est > d {
			t.Fatalf("manhattan estimate %d exceeds true distance %d for board\n%s", est, d, b)
		}
	}
}

// A walk of k moves from the goal bounds the optimal distance by k, so an
// admissible estimator must never exceed the walk length.
func TestAdmissibleOnRandomWalks(t *testing.T) {
	is := is.New(t)
	e := New()
	rng := frand.New()
	for trial := 0; trial < 200; trial++ {
		b := board.New()
		steps := rng.Intn(20)
		last := board.Direction(0)
		for i := 0; i < steps; i++ {
			moves := b.LegalMoves()
			if i > 0 {
				filtered := moves[:0:len(moves)]
				for _, d := range moves {
					if !d.Opposes(last) {
						filtered = append(filtered, d)
					}
				}
				moves = filtered
			}
			d := moves[rng.Intn(len(moves))]
			b = b.MustSlide(d)
			last = d
		}
		is.True(e.Estimate(b) <= steps)
	}
}
