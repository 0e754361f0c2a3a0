// Package shell is an interactive front end for the solver: load or
// generate boards, solve them, and replay solutions, readline-style.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/r4f4/game15/board"
	"github.com/r4f4/game15/config"
	"github.com/r4f4/game15/generator"
	"github.com/r4f4/game15/solver"
)

type ShellController struct {
	l   *readline.Instance
	cfg *config.Config

	curBoard     board.Board
	haveBoard    bool
	lastSolution []board.Direction
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("show"),
		readline.PcItem("load"),
		readline.PcItem("random"),
		readline.PcItem("solve"),
		readline.PcItem("replay"),
		readline.PcItem("set"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mgame15>\033[0m ",
		HistoryFile:     "/tmp/game15_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    completer(),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	return &ShellController{l: l, cfg: cfg}
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.l.Stderr())
}

func parseTiles(fields []string) ([]uint8, error) {
	tiles := make([]uint8, 0, board.NumCells)
	for _, f := range fields {
		n, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%q is not a tile number", f)
		}
		tiles = append(tiles, uint8(n))
	}
	return tiles, nil
}

func (sc *ShellController) loadBoard(fields []string) error {
	tiles, err := parseTiles(fields)
	if err != nil {
		return err
	}
	b, err := board.FromTiles(tiles)
	if err != nil {
		return err
	}
	sc.curBoard = b
	sc.haveBoard = true
	sc.lastSolution = nil
	sc.showMessage(b.String())
	if !b.Solvable() {
		sc.showMessage("warning: this board is not solvable")
	}
	return nil
}

func (sc *ShellController) randomBoard(fields []string) error {
	var gen *generator.Generator
	if len(fields) > 0 {
		seed, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad seed %q", fields[0])
		}
		gen = generator.NewSeeded(seed)
	} else if seed := sc.cfg.GetUint64("seed"); seed != 0 {
		gen = generator.NewSeeded(seed)
	} else {
		gen = generator.New()
	}
	gen.SetScrambleLen(sc.cfg.GetInt("scramble-length"))
	sc.curBoard = gen.Generate()
	sc.haveBoard = true
	sc.lastSolution = nil
	sc.showMessage(sc.curBoard.String())
	return nil
}

func (sc *ShellController) newSolver() *solver.Solver {
	s := new(solver.Solver)
	s.Init(sc.curBoard)
	s.SetLinearConflict(sc.cfg.GetBool("linear-conflict"))
	s.SetHeuristicWeight(sc.cfg.GetInt("heuristic-weight"))
	s.SetThreads(sc.cfg.GetInt("threads"))
	s.SetNodeLimit(sc.cfg.GetUint64("node-limit"))
	s.SetBoundCache(sc.cfg.GetBool("bound-cache"))
	s.SetCacheFraction(sc.cfg.GetFloat64("bound-cache-mem-fraction"))
	return s
}

func (sc *ShellController) solve() error {
	if !sc.haveBoard {
		return errors.New("load or generate a board first")
	}
	s := sc.newSolver()
	moves, err := s.Solve(context.Background())
	if err != nil {
		return err
	}
	sc.lastSolution = moves
	sc.showMessage(fmt.Sprintf("number of moves needed: %d", len(moves)))
	for _, d := range moves {
		sc.showMessage(d.String())
	}
	return nil
}

func (sc *ShellController) replay() error {
	if sc.lastSolution == nil {
		if err := sc.solve(); err != nil {
			return err
		}
	}
	b := sc.curBoard
	for _, d := range sc.lastSolution {
		nb, err := b.Slide(d)
		if err != nil {
			return err
		}
		b = nb
		sc.showMessage(d.String())
		sc.showMessage(b.String())
	}
	return nil
}

func usage(w io.Writer) {
	showMessage(`Commands:
  show                 print the current board
  load <16 numbers>    set the board; 0 is the blank, row-major order
  random [seed]        generate a random solvable board
  solve                print the move list that solves the current board
  replay               print the board after each move of the solution
  set <key> <value>    override a config value (threads, heuristic-weight, ...)
  help                 this message
  exit                 leave the shell`, w)
}

func (sc *ShellController) dispatch(line string, sig chan os.Signal) error {
	fields, err := shellquote.Split(line)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "show":
		if !sc.haveBoard {
			return errors.New("no board loaded")
		}
		sc.showMessage(sc.curBoard.String())
	case "load":
		return sc.loadBoard(args)
	case "random":
		return sc.randomBoard(args)
	case "solve":
		return sc.solve()
	case "replay":
		return sc.replay()
	case "set":
		if len(args) != 2 {
			return errors.New("usage: set <key> <value>")
		}
		sc.cfg.Set(args[0], args[1])
		sc.showMessage(fmt.Sprintf("%s = %s", args[0], args[1]))
	case "help":
		usage(sc.l.Stderr())
	case "bye", "exit":
		sig <- syscall.SIGINT
		return errors.New("sending quit signal")
	default:
		if strings.TrimSpace(line) != "" {
			log.Debug().Msgf("you said: %v", strconv.Quote(line))
			sc.showMessage(fmt.Sprintf("unknown command %q; try help", cmd))
		}
	}
	return nil
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		if err := sc.dispatch(line, sig); err != nil {
			if err.Error() == "sending quit signal" {
				break
			}
			log.Error().Err(err).Msg("")
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
