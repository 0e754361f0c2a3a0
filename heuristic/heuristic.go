// Package heuristic provides admissible lower bounds on the number of
// moves from a board to the goal.
package heuristic

import (
	"github.com/r4f4/game15/board"
)

// Estimator computes a lower bound on moves-to-goal. It is a pure
// function of the board; the solver calls it at every explored node.
type Estimator struct {
	linearConflict bool
}

// New returns an estimator with the linear-conflict correction enabled.
func New() *Estimator {
	return &Estimator{linearConflict: true}
}

// SetLinearConflict toggles the linear-conflict correction. With it off
// the estimate is the plain Manhattan distance.
func (e *Estimator) SetLinearConflict(on bool) {
	e.linearConflict = on
}

// Estimate returns an admissible estimate of the remaining move count.
// Estimate(goal) is 0.
func (e *Estimator) Estimate(b board.Board) int {
	tiles := b.Tiles()
	est := manhattan(&tiles)
	if e.linearConflict {
		est += linearConflicts(&tiles)
	}
	return est
}

// manhattan sums, over the 15 non-blank tiles, the row and column
// distances from each tile's position to its goal position. Admissible:
// every move changes exactly one tile's position by one step.
func manhattan(tiles *[board.NumCells]uint8) int {
	sum := 0
	for pos, t := range tiles {
		if t == 0 {
			continue
		}
		goal := int(t) - 1
		rowDist := pos/board.Dim - goal/board.Dim
		if rowDist < 0 {
			rowDist = -rowDist
		}
		colDist := pos%board.Dim - goal%board.Dim
		if colDist < 0 {
			colDist = -colDist
		}
		sum += rowDist + colDist
	}
	return sum
}

// linearConflicts adds 2 for each tile that must temporarily leave its
// goal row (or goal column) so the tiles in that line can get past each
// other. Counting departing tiles, not conflicting pairs, is what keeps
// the correction admissible: a fully reversed triple has three reversed
// pairs but only needs two departures.
func linearConflicts(tiles *[board.NumCells]uint8) int {
	conflicts := 0
	goals := make([]int, 0, board.Dim)
	for line := 0; line < board.Dim; line++ {
		// Goal row `line`: in-line tiles by their goal column.
		goals = goals[:0]
		for c := 0; c < board.Dim; c++ {
			t := tiles[line*board.Dim+c]
			if t != 0 && int(t-1)/board.Dim == line {
				goals = append(goals, int(t-1)%board.Dim)
			}
		}
		conflicts += lineConflicts(goals)

		// Goal column `line`: in-line tiles by their goal row.
		goals = goals[:0]
		for r := 0; r < board.Dim; r++ {
			t := tiles[r*board.Dim+line]
			if t != 0 && int(t-1)%board.Dim == line {
				goals = append(goals, int(t-1)/board.Dim)
			}
		}
		conflicts += lineConflicts(goals)
	}
	return conflicts
}

// lineConflicts takes the goal coordinates of one line's in-line tiles,
// in their current order, and returns 2 per tile in the minimum set of
// removals that leaves the rest conflict-free. Greedy removal of the
// tile with the most conflicts is exact for lines this short.
func lineConflicts(goals []int) int {
	n := len(goals)
	var gone [board.Dim]bool
	removed := 0
	for {
		var conf [board.Dim]int
		for a := 0; a < n; a++ {
			if gone[a] {
				continue
			}
			for b := a + 1; b < n; b++ {
				if !gone[b] && goals[a] > goals[b] {
					conf[a]++
					conf[b]++
				}
			}
		}
		worstIdx := -1
		worst := 0
		for i := 0; i < n; i++ {
			if conf[i] > worst {
				worst = conf[i]
				worstIdx = i
			}
		}
		if worstIdx < 0 {
			return 2 * removed
		}
		gone[worstIdx] = true
		removed++
	}
}
