// Package board implements the 15-puzzle board: a 4×4 grid holding the
// tiles 1–15 and one blank, with pure operations for move legality,
// sliding, solvability, and a collision-free 64-bit encoding.
package board

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Dim is the width and height of the grid.
	Dim = 4
	// NumCells is the total number of cells on the board.
	NumCells = Dim * Dim
)

var (
	// ErrIllegalMove is returned by Slide when the move would push the
	// blank off the grid. The solver always checks CanSlide first, so
	// seeing this error from the engine indicates a bug.
	ErrIllegalMove = errors.New("illegal move")
	// ErrMalformedBoard is wrapped by all board validation failures.
	ErrMalformedBoard = errors.New("malformed board")
)

// Board is an immutable puzzle configuration. The zero value is not a
// valid board; use New or FromTiles. Boards are small values meant to be
// copied freely; no operation mutates its receiver.
type Board struct {
	tiles [NumCells]uint8
	blank uint8
}

// New returns the goal configuration: tiles 1..15 in ascending order with
// the blank in the bottom-right corner.
func New() Board {
	var b Board
	for i := 0; i < NumCells-1; i++ {
		b.tiles[i] = uint8(i + 1)
	}
	b.blank = NumCells - 1
	return b
}

// FromTiles builds a board from 16 row-major values, where 0 denotes the
// blank. It validates that the values form a permutation of 0..15.
func FromTiles(tiles []uint8) (Board, error) {
	var b Board
	if len(tiles) != NumCells {
		return b, fmt.Errorf("%w: expected %d tiles, got %d",
			ErrMalformedBoard, NumCells, len(tiles))
	}
	var seen [NumCells]bool
	for i, t := range tiles {
		if t >= NumCells {
			return b, fmt.Errorf("%w: tile value %d out of range [0, %d]",
				ErrMalformedBoard, t, NumCells-1)
		}
		if seen[t] {
			return b, fmt.Errorf("%w: duplicate tile %d", ErrMalformedBoard, t)
		}
		seen[t] = true
		b.tiles[i] = t
		if t == 0 {
			b.blank = uint8(i)
		}
	}
	return b, nil
}

// Tiles returns the row-major tile values.
func (b Board) Tiles() [NumCells]uint8 {
	return b.tiles
}

// Blank returns the linear position of the blank cell.
func (b Board) Blank() int {
	return int(b.blank)
}

// CanSlide reports whether the blank can move in direction d without
// leaving the grid.
func (b Board) CanSlide(d Direction) bool {
	pos := int(b.blank) + d.delta()
	if pos < 0 || pos >= NumCells {
		return false
	}
	// Horizontal moves must not wrap around a row edge.
	if d == Left || d == Right {
		return pos/Dim == int(b.blank)/Dim
	}
	return true
}

// Slide returns the board with the blank moved in direction d, or
// ErrIllegalMove if that would leave the grid.
func (b Board) Slide(d Direction) (Board, error) {
	if !b.CanSlide(d) {
		return b, fmt.Errorf("%w: %s with blank at %d", ErrIllegalMove, d, b.blank)
	}
	return b.slide(d), nil
}

// MustSlide is Slide for callers that have already checked CanSlide; it
// panics on an illegal move.
func (b Board) MustSlide(d Direction) Board {
	if !b.CanSlide(d) {
		panic(fmt.Sprintf("illegal move %s with blank at %d", d, b.blank))
	}
	return b.slide(d)
}

func (b Board) slide(d Direction) Board {
	pos := int(b.blank) + d.delta()
	b.tiles[b.blank], b.tiles[pos] = b.tiles[pos], b.tiles[b.blank]
	b.blank = uint8(pos)
	return b
}

// LegalMoves returns the 2–4 directions the blank can move in, in the
// canonical Up, Down, Left, Right order.
func (b Board) LegalMoves() []Direction {
	moves := make([]Direction, 0, 4)
	for _, d := range AllDirections {
		if b.CanSlide(d) {
			moves = append(moves, d)
		}
	}
	return moves
}

// Solved reports whether the board is the goal configuration.
func (b Board) Solved() bool {
	return b == New()
}

// Solvable reports whether the goal is reachable from this board. A
// configuration is solvable iff the number of inversions among the
// non-blank tiles plus the blank's row distance from its goal row is
// even. O(n²) over 15 tiles, no search.
func (b Board) Solvable() bool {
	inversions := 0
	for i := 0; i < NumCells; i++ {
		if b.tiles[i] == 0 {
			continue
		}
		for j := i + 1; j < NumCells; j++ {
			if b.tiles[j] != 0 && b.tiles[j] < b.tiles[i] {
				inversions++
			}
		}
	}
	blankRowDist := (Dim - 1) - int(b.blank)/Dim
	return (inversions+blankRowDist)%2 == 0
}

// Pack encodes the board as a 64-bit integer, 4 bits per cell in
// row-major order. The mapping is bijective over all permutations, so
// packed values are collision-free search keys.
func (b Board) Pack() uint64 {
	var key uint64
	for i := 0; i < NumCells; i++ {
		key |= uint64(b.tiles[i]) << (4 * i)
	}
	return key
}

// Unpack is the inverse of Pack. It assumes the key came from Pack on a
// valid board.
func Unpack(key uint64) Board {
	var b Board
	for i := 0; i < NumCells; i++ {
		t := uint8(key >> (4 * i) & 0xF)
		b.tiles[i] = t
		if t == 0 {
			b.blank = uint8(i)
		}
	}
	return b
}

// String renders the board as four bracketed rows, e.g. "[1 2 3 4]".
func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < Dim; r++ {
		sb.WriteByte('[')
		for c := 0; c < Dim; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d", b.tiles[r*Dim+c])
		}
		sb.WriteByte(']')
		if r != Dim-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
