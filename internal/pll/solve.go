// internal/pll/solve.go
package pll

import (
	"fmt"
	"math"
)

const (
	vcoMinMHz            = 2200.0
	maxLog2OutputDivider = 6

	maxFracPFDMHz = 32.0 // FRAC != 0, both variants
	maxIntPFDMHz  = 90.0 // FRAC == 0, ADF4351

	maxBandSelectKHz    = 500.0
	maxBandSelectLowKHz = 125.0
	maxBandSelectDiv    = 255
)

// SolveRequest is everything the divider solver needs. Frequencies are MHz.
type SolveRequest struct {
	Variant       DeviceVariant
	TargetFreqMHz float64
	RefFreqMHz    float64

	RCounter   uint16
	RefDoubler bool
	RefDiv2    bool

	FeedbackSelect FeedbackSelect

	// BandSelectClockDivider of 0 means derive it. Only low mode has a
	// derivation; high mode requires an explicit divider.
	BandSelectClockDivider uint8
	BandSelectClockMode    BandSelectClockMode

	// EnableGCD reduces MOD and FRAC by their greatest common divisor.
	EnableGCD bool
}

// DividerSolution is the solver output consumed by Encode.
// 0 <= FRAC < MOD, MOD >= 2, OutputDivider is a power of two in [1,64].
type DividerSolution struct {
	INT  uint32
	MOD  uint32
	FRAC uint32

	OutputDivider          uint32
	BandSelectClockDivider uint32
}

// OutputFreqMHz returns the frequency the solution actually produces for
// the given PFD and feedback path.
func (d DividerSolution) OutputFreqMHz(pfdMHz float64, fb FeedbackSelect) float64 {
	if d.MOD == 0 || d.OutputDivider == 0 {
		return 0
	}
	n := float64(d.INT) + float64(d.FRAC)/float64(d.MOD)
	if fb == FeedbackFundamental {
		return n * pfdMHz / float64(d.OutputDivider)
	}
	return n * pfdMHz
}

// PFDFreqMHz returns the phase frequency detector input frequency.
func PFDFreqMHz(refMHz float64, rCounter uint16, doubler, div2 bool) float64 {
	num := refMHz
	if doubler {
		num *= 2
	}
	den := float64(rCounter)
	if div2 {
		den *= 2
	}
	return num / den
}

/*
Solve derives INT, FRAC and MOD for the requested output frequency together
with the output divider and the band select clock divider.

MOD is the PFD frequency in kHz, so the frequency resolution is one part in
1000 of the PFD. Rounding is half-to-even throughout; FRAC is carried into
INT when it rounds up to MOD.

Any violated electrical limit yields a *ConfigurationError and no solution.
*/
func Solve(req SolveRequest) (DividerSolution, error) {
	if !req.Variant.Valid() {
		return DividerSolution{}, &ConfigurationError{Limit: fmt.Sprintf("unknown device variant %d", req.Variant)}
	}
	if !(req.TargetFreqMHz > 0) {
		return DividerSolution{}, &ConfigurationError{Limit: "output frequency must be positive", Value: req.TargetFreqMHz, Unit: "MHz"}
	}
	if !(req.RefFreqMHz > 0) {
		return DividerSolution{}, &ConfigurationError{Limit: "reference frequency must be positive", Value: req.RefFreqMHz, Unit: "MHz"}
	}
	if req.RCounter == 0 {
		return DividerSolution{}, &ConfigurationError{Limit: "R counter must be at least 1"}
	}

	pfd := PFDFreqMHz(req.RefFreqMHz, req.RCounter, req.RefDoubler, req.RefDiv2)

	outDiv, err := outputDivider(req.TargetFreqMHz)
	if err != nil {
		return DividerSolution{}, err
	}

	var n float64
	if req.FeedbackSelect == FeedbackFundamental {
		n = req.TargetFreqMHz * float64(outDiv) / pfd
	} else {
		n = req.TargetFreqMHz / pfd
	}
	if n >= math.MaxUint32 {
		return DividerSolution{}, &ConfigurationError{Limit: "feedback divider out of range", Value: n}
	}

	mod := math.RoundToEven(1000 * pfd)
	if mod < 1 {
		return DividerSolution{}, &ConfigurationError{Limit: "PFD frequency must be at least 1 kHz", Value: pfd, Unit: "MHz"}
	}
	if mod > math.MaxUint32 {
		return DividerSolution{}, &ConfigurationError{Limit: "PFD frequency out of range", Value: pfd, Unit: "MHz"}
	}

	intN := math.Floor(n)
	frac := math.RoundToEven((n - intN) * mod)
	if frac >= mod {
		intN++
		frac = 0
	}

	sol := DividerSolution{
		INT:           uint32(intN),
		MOD:           uint32(mod),
		FRAC:          uint32(frac),
		OutputDivider: outDiv,
	}

	if req.EnableGCD {
		g := gcd(sol.MOD, sol.FRAC)
		sol.MOD /= g
		sol.FRAC /= g
	}
	// MOD = 1 has no register encoding.
	if sol.MOD == 1 {
		sol.MOD = 2
	}

	if pfd > maxFracPFDMHz {
		if sol.FRAC != 0 {
			return DividerSolution{}, &ConfigurationError{
				Limit: "maximum PFD frequency in Frac-N mode (FRAC != 0) is 32 MHz",
				Value: pfd,
				Unit:  "MHz",
			}
		}
		if req.Variant == ADF4351 {
			if pfd > maxIntPFDMHz {
				return DividerSolution{}, &ConfigurationError{
					Limit: "maximum PFD frequency in Int-N mode (FRAC = 0) is 90 MHz",
					Value: pfd,
					Unit:  "MHz",
				}
			}
			if req.BandSelectClockMode == BandSelectLow {
				return DividerSolution{}, &ConfigurationError{
					Limit: "band select clock mode must be high when PFD is above 32 MHz in Int-N mode (FRAC = 0)",
					Value: pfd,
					Unit:  "MHz",
				}
			}
		}
	}

	bsDiv := uint32(req.BandSelectClockDivider)
	if bsDiv == 0 {
		if req.BandSelectClockMode != BandSelectLow {
			return DividerSolution{}, &ConfigurationError{
				Limit: "band select clock divider must be given in high band select clock mode",
			}
		}
		bsDiv = uint32(math.Min(math.Ceil(8*pfd), maxBandSelectDiv))
	}
	sol.BandSelectClockDivider = bsDiv

	bsFreq := 1000 * pfd / float64(bsDiv)
	if bsFreq > maxBandSelectKHz {
		return DividerSolution{}, &ConfigurationError{
			Limit: "band select clock frequency must be 500 kHz or less",
			Value: bsFreq,
			Unit:  "kHz",
		}
	}
	if bsFreq > maxBandSelectLowKHz {
		if req.Variant != ADF4351 {
			return DividerSolution{}, &ConfigurationError{
				Limit: "band select clock frequency must be 125 kHz or less",
				Value: bsFreq,
				Unit:  "kHz",
			}
		}
		if req.BandSelectClockMode == BandSelectLow {
			return DividerSolution{}, &ConfigurationError{
				Limit: "band select clock frequency must be 125 kHz or less, or band select clock mode set to high",
				Value: bsFreq,
				Unit:  "kHz",
			}
		}
	}

	return sol, nil
}

// outputDivider picks the smallest power-of-two divider that keeps the VCO
// at or above its 2200 MHz floor.
func outputDivider(freqMHz float64) (uint32, error) {
	for k := 0; k <= maxLog2OutputDivider; k++ {
		d := uint32(1) << k
		if vcoMinMHz/float64(d) <= freqMHz {
			return d, nil
		}
	}
	return 0, &ConfigurationError{
		Limit: fmt.Sprintf("minimum output frequency is %g MHz", vcoMinMHz/(1<<maxLog2OutputDivider)),
		Value: freqMHz,
		Unit:  "MHz",
	}
}

// gcd treats gcd(0, x) as x.
func gcd(a, b uint32) uint32 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
