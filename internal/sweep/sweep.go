// internal/sweep/sweep.go
package sweep

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	cfgpkg "github.com/tamzrod/adf435x/internal/config"
	"github.com/tamzrod/adf435x/internal/pll"
)

// Synth abstracts the solver and encoder the sweeper needs.
type Synth interface {
	Registers(freqMHz float64) (pll.Registers, pll.DividerSolution, error)
}

// Config is the minimal runtime config the sweeper needs.
type Config struct {
	StartMHz float64
	StopMHz  float64 // inclusive
	StepMHz  float64
	Interval time.Duration
	Repeat   bool
}

// Sweeper is a clock-driven frequency stepper. It computes words; it
// never talks to hardware.
type Sweeper struct {
	cfg   Config
	synth Synth
	n     int // points per pass

	mu   sync.Mutex
	next int
	done bool
}

// New creates a sweeper with immutable config.
func New(cfg Config, synth Synth) (*Sweeper, error) {
	if synth == nil {
		return nil, errors.New("sweep: synthesizer required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("sweep: interval must be > 0")
	}
	if !(cfg.StepMHz > 0) {
		return nil, errors.New("sweep: step must be > 0")
	}
	if !(cfg.StartMHz > 0) {
		return nil, errors.New("sweep: start must be > 0")
	}
	if !(cfg.StartMHz <= cfg.StopMHz) {
		return nil, errors.New("sweep: start must not exceed stop")
	}
	if math.IsInf(cfg.StopMHz, 0) {
		return nil, errors.New("sweep: stop must be finite")
	}

	n, ok := cfgpkg.SweepPointCount(cfg.StartMHz, cfg.StopMHz, cfg.StepMHz)
	if !ok {
		return nil, fmt.Errorf("sweep: step %g MHz gives more than %d points", cfg.StepMHz, cfgpkg.MaxSweepPoints)
	}

	return &Sweeper{
		cfg:   cfg,
		synth: synth,
		n:     n,
	}, nil
}

// point is start + i*step, computed from the index and rounded to 1 Hz so
// repeated steps do not accumulate error.
func (s *Sweeper) point(i int) float64 {
	return math.Round((s.cfg.StartMHz+float64(i)*s.cfg.StepMHz)*1e6) / 1e6
}

// Len returns the number of points in one pass.
func (s *Sweeper) Len() int { return s.n }

// Frequencies lists the planned points, start to stop inclusive.
func (s *Sweeper) Frequencies() []float64 {
	out := make([]float64, s.n)
	for i := range out {
		out[i] = s.point(i)
	}
	return out
}

// Done reports whether a non-repeating sweep has used every point.
func (s *Sweeper) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Step computes the words for the next point.
// All-or-nothing: on error the result carries no words.
func (s *Sweeper) Step() Result {
	s.mu.Lock()
	i := s.next
	s.next++
	if s.next >= s.n {
		if s.cfg.Repeat {
			s.next = 0
		} else {
			s.next = s.n
			s.done = true
		}
	}
	s.mu.Unlock()

	if i >= s.n {
		return Result{At: time.Now(), Index: -1, Err: errors.New("sweep: finished")}
	}

	res := Result{
		FreqMHz: s.point(i),
		At:      time.Now(),
		Index:   i,
	}

	regs, sol, err := s.synth.Registers(res.FreqMHz)
	if err != nil {
		res.Err = err
		return res
	}

	// Commit only if solve and encode both succeeded
	res.Regs = regs
	res.Solution = sol
	return res
}
