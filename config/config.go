// Package config holds the runtime configuration for the game15
// binaries: flags, GAME15_* environment overrides, and an optional yaml
// config file, all merged through viper.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	v *viper.Viper
}

func defaultViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("debug", false)
	v.SetDefault("random", false)
	v.SetDefault("replay", false)
	v.SetDefault("seed", uint64(0))
	v.SetDefault("threads", 1)
	v.SetDefault("scramble-length", 200)
	v.SetDefault("linear-conflict", true)
	v.SetDefault("heuristic-weight", 1)
	v.SetDefault("node-limit", uint64(0))
	v.SetDefault("bound-cache", false)
	v.SetDefault("bound-cache-mem-fraction", 0.05)

	v.SetEnvPrefix("game15")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultConfig returns a config with defaults only, no flag or file
// parsing. Handy for tests.
func DefaultConfig() Config {
	return Config{v: defaultViper()}
}

// Load parses command-line args and merges them over the environment,
// the optional config file, and the defaults.
func (c *Config) Load(args []string) error {
	c.v = defaultViper()

	fs := pflag.NewFlagSet("game15", pflag.ContinueOnError)
	fs.Bool("debug", false, "debug logging")
	fs.Bool("random", false, "solve a randomly generated board instead of reading stdin")
	fs.Bool("replay", false, "print the board after each move of the solution")
	fs.Uint64("seed", 0, "seed for the random board generator; 0 uses system entropy")
	fs.Int("threads", 1, "worker goroutines used to split the root search")
	fs.Int("scramble-length", 200, "number of random moves used to scramble a generated board")
	fs.Bool("linear-conflict", true, "tighten the Manhattan heuristic with linear-conflict counting")
	fs.Int("heuristic-weight", 1, "heuristic weight; >1 trades optimality for speed")
	fs.Uint64("node-limit", 0, "abort the search after this many nodes; 0 means no limit")
	fs.Bool("bound-cache", false, "cache proven lower bounds per position")
	fs.Float64("bound-cache-mem-fraction", 0.05, "fraction of system memory for the bound cache")
	fs.String("config-file", "", "path to a yaml config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.v.BindPFlags(fs); err != nil {
		return err
	}

	if cf, err := fs.GetString("config-file"); err == nil && cf != "" {
		c.v.SetConfigFile(cf)
		if err := c.v.ReadInConfig(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

func (c *Config) GetUint64(key string) uint64 {
	return c.v.GetUint64(key)
}

func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

func (c *Config) AllSettings() map[string]any {
	return c.v.AllSettings()
}
