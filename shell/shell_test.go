package shell

import (
	"testing"

	"github.com/matryer/is"
)

func TestParseTiles(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		fields []string
		exp    []uint8
		expErr bool
	}
	cases := []testdata{
		{nil, []uint8{}, false},
		{[]string{"1", "2", "0"}, []uint8{1, 2, 0}, false},
		{[]string{"1", "x"}, nil, true},
		{[]string{"256"}, nil, true},
		{[]string{"-1"}, nil, true},
	}
	for _, tc := range cases {
		tiles, err := parseTiles(tc.fields)
		is.Equal(err != nil, tc.expErr)
		if !tc.expErr {
			is.Equal(tiles, tc.exp)
		}
	}
}
