package config

import (
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	is.Equal(c.GetBool("debug"), false)
	is.Equal(c.GetInt("threads"), 1)
	is.Equal(c.GetInt("scramble-length"), 200)
	is.Equal(c.GetBool("linear-conflict"), true)
	is.Equal(c.GetInt("heuristic-weight"), 1)
	is.Equal(c.GetUint64("node-limit"), uint64(0))
}

func TestLoadFlags(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	err := c.Load([]string{
		"--random", "--seed", "42", "--threads", "4", "--no-linear-conflict=false",
	})
	// pflag rejects unknown flags; --no-linear-conflict doesn't exist.
	is.True(err != nil)

	c = &Config{}
	err = c.Load([]string{"--random", "--seed", "42", "--threads", "4",
		"--linear-conflict=false", "--replay"})
	is.NoErr(err)
	is.Equal(c.GetBool("random"), true)
	is.Equal(c.GetBool("replay"), true)
	is.Equal(c.GetUint64("seed"), uint64(42))
	is.Equal(c.GetInt("threads"), 4)
	is.Equal(c.GetBool("linear-conflict"), false)
}

func TestSetOverrides(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	c.Set("threads", 8)
	is.Equal(c.GetInt("threads"), 8)
}
