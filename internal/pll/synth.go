// internal/pll/synth.go
package pll

// Synthesizer binds a device variant and reference clock to a register
// profile. The R counter, reference doubler/divider, feedback path and
// band select clock mode used by the solver are taken from Config so the
// solved dividers always match the programmed words.
type Synthesizer struct {
	Variant    DeviceVariant
	RefFreqMHz float64

	// 0 derives the divider from the PFD frequency.
	BandSelectClockDivider uint8
	EnableGCD              bool

	Config RegisterConfig
}

// NewSynthesizer returns an ADF4351 with a 25 MHz reference, GCD reduction
// and the default register profile.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{
		Variant:    ADF4351,
		RefFreqMHz: 25.0,
		EnableGCD:  true,
		Config:     DefaultRegisterConfig(),
	}
}

func (s *Synthesizer) request(freqMHz float64) SolveRequest {
	return SolveRequest{
		Variant:                s.Variant,
		TargetFreqMHz:          freqMHz,
		RefFreqMHz:             s.RefFreqMHz,
		RCounter:               s.Config.RCounter,
		RefDoubler:             s.Config.RefDoubler,
		RefDiv2:                s.Config.RefDiv2,
		FeedbackSelect:         s.Config.FeedbackSelect,
		BandSelectClockDivider: s.BandSelectClockDivider,
		BandSelectClockMode:    s.Config.BandSelectClockMode,
		EnableGCD:              s.EnableGCD,
	}
}

// PFDFreqMHz returns the PFD frequency implied by the reference path.
func (s *Synthesizer) PFDFreqMHz() float64 {
	if s.Config.RCounter == 0 {
		return 0
	}
	return PFDFreqMHz(s.RefFreqMHz, s.Config.RCounter, s.Config.RefDoubler, s.Config.RefDiv2)
}

// Solve runs the divider solver for freqMHz.
func (s *Synthesizer) Solve(freqMHz float64) (DividerSolution, error) {
	return Solve(s.request(freqMHz))
}

// Registers solves and encodes in one step.
func (s *Synthesizer) Registers(freqMHz float64) (Registers, DividerSolution, error) {
	sol, err := s.Solve(freqMHz)
	if err != nil {
		return Registers{}, DividerSolution{}, err
	}
	regs, err := Encode(s.Variant, sol, s.Config)
	if err != nil {
		return Registers{}, DividerSolution{}, err
	}
	return regs, sol, nil
}

// Encode packs explicit dividers with the synthesizer's profile.
func (s *Synthesizer) Encode(d DividerSolution) (Registers, error) {
	return Encode(s.Variant, d, s.Config)
}
