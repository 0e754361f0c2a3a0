package board

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse reads a board configuration: 16 whitespace- or line-separated
// integers in row-major order, with 0 for the blank. All format
// violations wrap ErrMalformedBoard.
func Parse(r io.Reader) (Board, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return Board{}, fmt.Errorf("%w: %v", ErrMalformedBoard, err)
	}
	fields := strings.Fields(string(buf))
	tiles := make([]uint8, 0, NumCells)
	for _, f := range fields {
		n, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return Board{}, fmt.Errorf("%w: %q is not a tile number",
				ErrMalformedBoard, f)
		}
		tiles = append(tiles, uint8(n))
	}
	return FromTiles(tiles)
}
