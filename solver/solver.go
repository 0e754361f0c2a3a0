// Package solver implements an Iterative-Deepening-A* engine for the
// 15-puzzle. Memory use is linear in the current search depth: the only
// per-iteration state is the move path, not a frontier of visited nodes.
package solver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/r4f4/game15/board"
	"github.com/r4f4/game15/heuristic"
)

// Infinity exceeds any reachable f value on a 4×4 board.
const Infinity = 1 << 30

// ctxCheckMask: the context and node cap are checked every 1024 nodes to
// keep the hot loop cheap.
const ctxCheckMask = 1<<10 - 1

// maxSolutionLength bounds the path allocation; no 4×4 position needs
// more than 80 moves.
const maxSolutionLength = 80

var (
	// ErrUnsolvable means the board is a valid permutation that provably
	// cannot reach the goal. No search is attempted.
	ErrUnsolvable = errors.New("board is unsolvable")
	// ErrSearchAborted means a deadline, cancellation, or node cap cut
	// the search short.
	ErrSearchAborted = errors.New("search aborted")

	// errSolutionFound cancels sibling root workers once one of them has
	// reached the goal. Never surfaced to callers.
	errSolutionFound = errors.New("solution found")
)

// Solver owns a single solve invocation: a root board, a heuristic
// estimator, and the iterative-deepening state. It is not safe for
// concurrent use; run independent Solvers for independent boards.
type Solver struct {
	root board.Board
	est  *heuristic.Estimator

	boundCacheOptim bool
	weight          int
	threads         int
	nodeLimit       uint64
	cacheFraction   float64

	btable *BoundTable

	nodes        atomic.Uint64
	solutionMu   sync.Mutex
	solution     []board.Direction
	haveSolution bool
}

// Init prepares the solver for the given board. Linear conflict is on,
// weight is 1 (strictly optimal solutions), single-threaded.
func (s *Solver) Init(b board.Board) error {
	s.root = b
	s.est = heuristic.New()
	s.weight = 1
	s.threads = 1
	s.cacheFraction = 0.05
	return nil
}

// SetLinearConflict toggles the linear-conflict heuristic refinement.
func (s *Solver) SetLinearConflict(on bool) {
	if s.est != nil {
		s.est.SetLinearConflict(on)
	}
}

// SetHeuristicWeight sets w in f = g + w·h. Weight 1 keeps strict
// optimality; w > 1 is weighted IDA*, returning solutions at most w times
// the optimal length but exploring far fewer nodes.
func (s *Solver) SetHeuristicWeight(w int) {
	if w < 1 {
		w = 1
	}
	s.weight = w
}

// SetBoundCache toggles the transposition-style bound cache. Off by
// default; the engine stays correct and memory-bounded without it.
func (s *Solver) SetBoundCache(on bool) {
	s.boundCacheOptim = on
}

// SetCacheFraction sets the fraction of system memory the bound cache
// may claim when enabled.
func (s *Solver) SetCacheFraction(f float64) {
	if f > 0 {
		s.cacheFraction = f
	}
}

// SetThreads sets the number of worker goroutines used to explore root
// subtrees within one iteration. 1 (the default) is fully sequential and
// deterministic.
func (s *Solver) SetThreads(n int) {
	if n < 1 {
		n = 1
	}
	s.threads = n
}

// SetNodeLimit caps the number of explored nodes; 0 means no cap.
// Exceeding the cap surfaces ErrSearchAborted.
func (s *Solver) SetNodeLimit(n uint64) {
	s.nodeLimit = n
}

// Nodes returns the number of nodes explored by the last Solve call.
func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

// Solve runs IDA* and returns the move sequence from the root board to
// the goal. It refuses unsolvable boards with ErrUnsolvable before any
// search. With weight 1 the returned sequence is optimal.
func (s *Solver) Solve(ctx context.Context) ([]board.Direction, error) {
	if s.est == nil {
		return nil, errors.New("solver not initialized; call Init first")
	}
	if !s.root.Solvable() {
		return nil, ErrUnsolvable
	}
	tstart := time.Now()
	s.nodes.Store(0)
	s.solution = nil
	s.haveSolution = false
	if s.boundCacheOptim {
		s.btable = GlobalBoundTable
		s.btable.Reset(s.cacheFraction)
	}

	g := &errgroup.Group{}
	done := make(chan bool)

	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		var lastNodes uint64
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				nodes := s.nodes.Load()
				log.Debug().Uint64("nps", nodes-lastNodes).Msg("nodes-per-second")
				lastNodes = nodes
			}
		}
	})

	g.Go(func() error {
		err := s.iterativelyDeepen(ctx)
		done <- true
		return err
	})

	err := g.Wait()

	ev := log.Info().
		Uint64("nodes", s.nodes.Load()).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds())
	if s.btable != nil {
		ev = ev.
			Uint64("bound-cache-lookups", s.btable.Lookups()).
			Uint64("bound-cache-hits", s.btable.Hits())
	}
	ev.Int("solution-length", len(s.solution)).Msg("solve-returning")

	if err != nil {
		return nil, err
	}
	return s.solution, nil
}

// iterativelyDeepen runs bounded depth-first iterations with a
// monotonically increasing threshold, starting at the root estimate.
func (s *Solver) iterativelyDeepen(ctx context.Context) error {
	if s.root.Solved() {
		s.solution = []board.Direction{}
		s.haveSolution = true
		return nil
	}
	threshold := s.weight * s.est.Estimate(s.root)
	for {
		log.Debug().Int("threshold", threshold).Msg("deepening-iteratively")
		var (
			found bool
			next  int
			err   error
		)
		if s.threads > 1 {
			found, next, err = s.searchRootParallel(ctx, threshold)
		} else {
			path := make([]board.Direction, 0, maxSolutionLength)
			next, found, err = s.search(ctx, s.root, 0, threshold, 0, false, &path)
			if found {
				s.solution = append([]board.Direction(nil), path...)
				s.haveSolution = true
			}
		}
		if err != nil {
			return err
		}
		if found {
			return nil
		}
		if next >= Infinity {
			// Unreachable for a solvable board; the solvability gate in
			// Solve makes sure of that.
			return errors.New("search space exhausted without a solution")
		}
		threshold = next
	}
}

// search is one depth-first descent. path holds the moves from the root
// to the current node; on success it holds the full solution. The first
// return value is the smallest f that exceeded the threshold in this
// subtree, for the next iteration's bound.
func (s *Solver) search(ctx context.Context, b board.Board, g, threshold int,
	last board.Direction, hasLast bool, path *[]board.Direction) (int, bool, error) {

	n := s.nodes.Add(1)
	if n&ctxCheckMask == 0 {
		if err := ctx.Err(); err != nil {
			return 0, false, fmt.Errorf("%w: %v", ErrSearchAborted, err)
		}
	}
	if s.nodeLimit > 0 && n > s.nodeLimit {
		return 0, false, fmt.Errorf("%w: node limit %d exceeded", ErrSearchAborted, s.nodeLimit)
	}

	h := s.weight * s.est.Estimate(b)
	var key uint64
	if s.boundCacheOptim {
		key = b.Pack()
		if cached := s.btable.Lookup(key); cached > h {
			h = cached
		}
	}
	f := g + h
	if f > threshold {
		return f, false, nil
	}
	if b.Solved() {
		return f, true, nil
	}

	min := Infinity
	for _, d := range board.AllDirections {
		// Never undo the move that produced this node.
		if hasLast && d.Opposes(last) {
			continue
		}
		if !b.CanSlide(d) {
			continue
		}
		child := b.MustSlide(d)
		*path = append(*path, d)
		next, found, err := s.search(ctx, child, g+1, threshold, d, true, path)
		if err != nil {
			return 0, false, err
		}
		if found {
			return next, true, nil
		}
		*path = (*path)[:len(*path)-1]
		if next < min {
			min = next
		}
	}
	if s.boundCacheOptim && min < Infinity {
		// The whole subtree failed below f = min, so min - g bounds this
		// state's cost-to-go — except that the return to the arrival
		// parent was never searched. The optimal continuation from here
		// can run through that parent when the state is reached from a
		// different direction, so cap the stored bound with the skipped
		// child's own estimate before caching.
		bound := min - g
		if hasLast {
			parent := b.MustSlide(last.Opposite())
			if limit := 1 + s.weight*s.est.Estimate(parent); limit < bound {
				bound = limit
			}
		}
		s.btable.Store(key, bound)
	}
	return min, false, nil
}

// searchRootParallel splits the root successors across worker goroutines
// for a single iteration. Sound because every goal admitted at the
// deciding threshold is optimal, so the first one found wins; the next
// threshold is the atomic minimum over all subtrees.
func (s *Solver) searchRootParallel(ctx context.Context, threshold int) (bool, int, error) {
	type rootChild struct {
		d board.Direction
		b board.Board
	}
	children := lo.FilterMap(board.AllDirections[:], func(d board.Direction, _ int) (rootChild, bool) {
		if !s.root.CanSlide(d) {
			return rootChild{}, false
		}
		return rootChild{d: d, b: s.root.MustSlide(d)}, true
	})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.threads)
	var nextBound atomic.Int64
	nextBound.Store(Infinity)
	var found atomic.Bool

	for _, c := range children {
		c := c
		g.Go(func() error {
			if found.Load() {
				return nil
			}
			path := make([]board.Direction, 1, maxSolutionLength)
			path[0] = c.d
			next, ok, err := s.search(gctx, c.b, 1, threshold, c.d, true, &path)
			if err != nil {
				if found.Load() {
					// Cancelled because a sibling already won.
					return nil
				}
				return err
			}
			if ok {
				s.solutionMu.Lock()
				if !s.haveSolution {
					s.solution = append([]board.Direction(nil), path...)
					s.haveSolution = true
				}
				s.solutionMu.Unlock()
				found.Store(true)
				return errSolutionFound
			}
			for {
				cur := nextBound.Load()
				if int64(next) >= cur || nextBound.CompareAndSwap(cur, int64(next)) {
					break
				}
			}
			return nil
		})
	}
	err := g.Wait()
	if found.Load() {
		return true, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	return false, int(nextBound.Load()), nil
}
