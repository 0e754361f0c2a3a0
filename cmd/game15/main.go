// game15 solves a 15-puzzle instance. With --random it generates a
// solvable board; otherwise it reads 16 whitespace-separated numbers in
// row-major order (0 is the blank) from stdin. The solution is printed
// to stdout one move name per line; diagnostics go to stderr.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/r4f4/game15/board"
	"github.com/r4f4/game15/config"
	"github.com/r4f4/game15/generator"
	"github.com/r4f4/game15/solver"
)

func setupLogging(cfg *config.Config) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if cfg.GetBool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	log.Logger = logger
}

func newSolver(cfg *config.Config, b board.Board) *solver.Solver {
	s := new(solver.Solver)
	s.Init(b)
	s.SetLinearConflict(cfg.GetBool("linear-conflict"))
	s.SetHeuristicWeight(cfg.GetInt("heuristic-weight"))
	s.SetThreads(cfg.GetInt("threads"))
	s.SetNodeLimit(cfg.GetUint64("node-limit"))
	s.SetBoundCache(cfg.GetBool("bound-cache"))
	s.SetCacheFraction(cfg.GetFloat64("bound-cache-mem-fraction"))
	return s
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogging(cfg)
	log.Debug().Interface("settings", cfg.AllSettings()).Msg("loaded config")

	var b board.Board
	if cfg.GetBool("random") {
		var gen *generator.Generator
		if seed := cfg.GetUint64("seed"); seed != 0 {
			gen = generator.NewSeeded(seed)
		} else {
			gen = generator.New()
		}
		gen.SetScrambleLen(cfg.GetInt("scramble-length"))
		b = gen.Generate()
	} else {
		var err error
		b, err = board.Parse(os.Stdin)
		if err != nil {
			log.Error().Err(err).Msg("invalid board")
			os.Exit(1)
		}
	}
	fmt.Println(b)

	if !b.Solvable() {
		log.Error().Msg("board cannot be solved")
		os.Exit(1)
	}

	moves, err := newSolver(cfg, b).Solve(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("could not solve board")
		os.Exit(1)
	}

	if cfg.GetBool("replay") {
		cur := b
		for _, d := range moves {
			cur = cur.MustSlide(d)
			fmt.Println(d)
			fmt.Println(cur)
		}
	} else {
		for _, d := range moves {
			fmt.Println(d)
		}
	}
}
