// internal/sweep/sweep_test.go
package sweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tamzrod/adf435x/internal/config"
	"github.com/tamzrod/adf435x/internal/pll"
)

type fakeSynth struct {
	failAt map[float64]bool
	calls  []float64
}

func (f *fakeSynth) Registers(freq float64) (pll.Registers, pll.DividerSolution, error) {
	f.calls = append(f.calls, freq)
	if f.failAt[freq] {
		return pll.Registers{}, pll.DividerSolution{}, errors.New("no solution")
	}
	return pll.Registers{uint32(freq)}, pll.DividerSolution{INT: uint32(freq)}, nil
}

func baseConfig() Config {
	return Config{
		StartMHz: 50,
		StopMHz:  53,
		StepMHz:  1,
		Interval: time.Millisecond,
	}
}

func TestNew_Validation(t *testing.T) {
	bad := []func(*Config){
		func(c *Config) { c.Interval = 0 },
		func(c *Config) { c.StepMHz = 0 },
		func(c *Config) { c.StartMHz = 0 },
		func(c *Config) { c.StopMHz = 49 },
	}
	for i, m := range bad {
		cfg := baseConfig()
		m(&cfg)
		if _, err := New(cfg, &fakeSynth{}); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
	if _, err := New(baseConfig(), nil); err == nil {
		t.Fatalf("expected error for nil synth")
	}
}

func TestNew_RejectsTooManyPoints(t *testing.T) {
	for _, step := range []float64{1e-6, 1e-12} {
		cfg := Config{StartMHz: 35, StopMHz: 4400, StepMHz: step, Interval: time.Millisecond}
		if _, err := New(cfg, pll.NewSynthesizer()); err == nil {
			t.Fatalf("step %g: expected error", step)
		}
	}
}

func TestNew_LargePlanComputedPerStep(t *testing.T) {
	cfg := Config{StartMHz: 35, StopMHz: 4400, StepMHz: 0.005, Interval: time.Millisecond}
	s, err := New(cfg, &fakeSynth{})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	if s.Len() != 873001 {
		t.Fatalf("Len() = %d", s.Len())
	}

	s.Step()
	if res := s.Step(); res.FreqMHz != 35.005 || res.Index != 1 {
		t.Fatalf("unexpected second step %+v", res)
	}
}

func TestFrequencies_Inclusive(t *testing.T) {
	s, err := New(baseConfig(), &fakeSynth{})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	got := s.Frequencies()
	want := []float64{50, 51, 52, 53}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFrequencies_FractionalStepNoDrift(t *testing.T) {
	cfg := baseConfig()
	cfg.StartMHz = 50
	cfg.StopMHz = 51
	cfg.StepMHz = 0.1

	s, err := New(cfg, &fakeSynth{})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	got := s.Frequencies()
	if len(got) != 11 {
		t.Fatalf("expected 11 points, got %d: %v", len(got), got)
	}
	if got[3] != 50.3 || got[10] != 51 {
		t.Fatalf("unexpected points %v", got)
	}
}

func TestFrequencies_SinglePoint(t *testing.T) {
	cfg := baseConfig()
	cfg.StopMHz = cfg.StartMHz

	s, err := New(cfg, &fakeSynth{})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	if got := s.Frequencies(); len(got) != 1 || got[0] != 50 {
		t.Fatalf("got %v", got)
	}
}

func TestStep_OnceThrough(t *testing.T) {
	s, err := New(baseConfig(), &fakeSynth{})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	for i, want := range []float64{50, 51, 52, 53} {
		if s.Done() {
			t.Fatalf("done before step %d", i)
		}
		res := s.Step()
		if res.Err != nil {
			t.Fatalf("step %d err=%v", i, res.Err)
		}
		if res.FreqMHz != want || res.Index != i || res.Regs[0] != uint32(want) {
			t.Fatalf("step %d: %+v", i, res)
		}
	}
	if !s.Done() {
		t.Fatalf("expected done")
	}
	if res := s.Step(); res.Err == nil {
		t.Fatalf("expected error after finish")
	}
}

func TestStep_RepeatWraps(t *testing.T) {
	cfg := baseConfig()
	cfg.Repeat = true

	s, err := New(cfg, &fakeSynth{})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	var got []float64
	for i := 0; i < 6; i++ {
		got = append(got, s.Step().FreqMHz)
	}
	want := []float64{50, 51, 52, 53, 50, 51}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if s.Done() {
		t.Fatalf("repeating sweep reported done")
	}
}

func TestStep_FailureCarriesNoWords(t *testing.T) {
	synth := &fakeSynth{failAt: map[float64]bool{51: true}}
	s, err := New(baseConfig(), synth)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	_ = s.Step()
	res := s.Step()
	if res.Err == nil {
		t.Fatalf("expected error")
	}
	if res.Regs != (pll.Registers{}) || res.Solution != (pll.DividerSolution{}) {
		t.Fatalf("failed step carried words: %+v", res)
	}
	// the sweep continues past a bad point
	if res := s.Step(); res.Err != nil || res.FreqMHz != 52 {
		t.Fatalf("unexpected %+v", res)
	}
}

func TestRun_FinishesAndCloses(t *testing.T) {
	s, err := New(baseConfig(), &fakeSynth{})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	out := make(chan Result)
	go s.Run(context.Background(), out)

	var got []float64
	for res := range out {
		got = append(got, res.FreqMHz)
	}
	if len(got) != 4 || got[0] != 50 || got[3] != 53 {
		t.Fatalf("got %v", got)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := baseConfig()
	cfg.Repeat = true

	s, err := New(cfg, &fakeSynth{})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan Result)
	go s.Run(ctx, out)

	<-out
	<-out
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-out:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("runner did not stop")
		}
	}
}

func TestBuild_FromProfile(t *testing.T) {
	c := config.Default()
	c.Sweep.StopMHz = 51

	s, err := Build(&c)
	if err != nil {
		t.Fatalf("Build() err=%v", err)
	}
	if got := s.Frequencies(); len(got) != 2 {
		t.Fatalf("unexpected points %v", got)
	}

	res := s.Step()
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Solution.INT != 128 || res.Solution.OutputDivider != 64 {
		t.Fatalf("unexpected solution %+v", res.Solution)
	}
	if res.Regs[0] != 128<<15 {
		t.Fatalf("r0 = 0x%08x", res.Regs[0])
	}
}
