// internal/pll/encode.go
package pll

import (
	"fmt"
	"math/bits"
	"strings"
)

// Register field limits.
const (
	maxINT          = 1<<16 - 1
	maxFRAC         = 1<<12 - 1
	maxMOD          = 1<<12 - 1
	maxPhase        = 1<<12 - 1
	maxRCounter     = 1<<10 - 1
	maxClockDivider = 1<<12 - 1
	maxOutputDiv    = 64
)

// Bit offsets. The low 3 bits of every word hold its register address.
const (
	// R0
	r0INT  = 15
	r0FRAC = 3

	// R1
	r1PhaseAdjust = 28
	r1Prescaler   = 27
	r1Phase       = 15
	r1MOD         = 3

	// R2
	r2NoiseMode    = 29
	r2MuxOut       = 26
	r2RefDoubler   = 25
	r2RefDiv2      = 24
	r2RCounter     = 14
	r2DoubleBuffer = 13
	r2ChargePump   = 9
	r2LDF          = 8
	r2LDP          = 7
	r2PDPolarity   = 6
	r2PowerDown    = 5
	r2CPThreeState = 4
	r2CounterReset = 3

	// R3
	r3BandSelectMode = 23
	r3ABP            = 22
	r3ChargeCancel   = 21
	r3CSR            = 18
	r3ClkDivMode     = 15
	r3ClockDivider   = 3

	// R4
	r4Feedback      = 23
	r4OutputDivider = 20
	r4BandSelectDiv = 12
	r4VCOPowerDown  = 11
	r4MTLD          = 10
	r4AuxSelect     = 9
	r4AuxEnable     = 8
	r4AuxPower      = 6
	r4OutputEnable  = 5
	r4OutputPower   = 3

	// R5
	r5LDPinMode = 22
	r5Reserved  = 19
)

// r5ReservedValue must be written to R5 [20:19].
const r5ReservedValue = 3

// Registers holds the six register words indexed by register address.
type Registers [6]uint32

// TransmitOrder returns the words highest address first. R0 goes last
// because writing it starts the VCO band selection.
func (r Registers) TransmitOrder() []uint32 {
	out := make([]uint32, len(r))
	for i := range r {
		out[i] = r[len(r)-1-i]
	}
	return out
}

func (r Registers) String() string {
	parts := make([]string, len(r))
	for i, w := range r {
		parts[i] = fmt.Sprintf("r%d=0x%08x", i, w)
	}
	return strings.Join(parts, " ")
}

/*
Encode packs dividers and register configuration into the six register
words of the selected variant.

Every field is validated before any word is built; the first field outside
its domain is reported as a *FieldError and no words are returned.
*/
func Encode(v DeviceVariant, d DividerSolution, c RegisterConfig) (Registers, error) {
	if err := validate(v, d, c); err != nil {
		return Registers{}, err
	}

	// lookups cannot fail after validate
	cp, _ := lookup("charge_pump_current", chargePumpCurrent, c.ChargePumpCurrent)
	abp, _ := lookup("abp", antibacklashPulseWidth, c.AntibacklashPulseWidth)
	auxPower, _ := lookup("aux_output_power", outputPower, c.AuxOutputPower)
	rfPower, _ := lookup("output_power", outputPower, c.OutputPower)

	var r Registers

	r[0] = d.INT<<r0INT |
		d.FRAC<<r0FRAC |
		0x0

	phase := uint32(1)
	if c.PhaseValue != nil {
		phase = uint32(*c.PhaseValue)
	}
	r[1] = bit(c.PhaseValue != nil)<<r1PhaseAdjust |
		bit(c.Prescaler == Prescaler8_9)<<r1Prescaler |
		phase<<r1Phase |
		d.MOD<<r1MOD |
		0x1

	r[2] = uint32(c.LowNoiseSpurMode)<<r2NoiseMode |
		uint32(c.MuxOut)<<r2MuxOut |
		bit(c.RefDoubler)<<r2RefDoubler |
		bit(c.RefDiv2)<<r2RefDiv2 |
		uint32(c.RCounter)<<r2RCounter |
		bit(c.DoubleBufferR4)<<r2DoubleBuffer |
		cp<<r2ChargePump |
		bit(d.FRAC != 0)<<r2LDF |
		bit(c.LockDetectPrecision != lockDetectPrecisionDefault)<<r2LDP |
		uint32(c.PDPolarity)<<r2PDPolarity |
		bit(c.PowerDown)<<r2PowerDown |
		bit(c.CPThreeState)<<r2CPThreeState |
		bit(c.CounterReset)<<r2CounterReset |
		0x2

	r[3] = bit(c.CycleSlipReduction)<<r3CSR |
		uint32(c.ClkDivMode)<<r3ClkDivMode |
		uint32(c.ClockDividerValue)<<r3ClockDivider |
		0x3
	if v == ADF4351 {
		r[3] |= uint32(c.BandSelectClockMode)<<r3BandSelectMode |
			abp<<r3ABP |
			bit(c.ChargeCancel)<<r3ChargeCancel
	}

	r[4] = uint32(c.FeedbackSelect)<<r4Feedback |
		uint32(bits.TrailingZeros32(d.OutputDivider))<<r4OutputDivider |
		d.BandSelectClockDivider<<r4BandSelectDiv |
		bit(c.VCOPowerDown)<<r4VCOPowerDown |
		bit(c.MuteTillLockDetect)<<r4MTLD |
		uint32(c.AuxOutputSelect)<<r4AuxSelect |
		bit(c.AuxOutputEnable)<<r4AuxEnable |
		auxPower<<r4AuxPower |
		bit(c.OutputEnable)<<r4OutputEnable |
		rfPower<<r4OutputPower |
		0x4

	r[5] = uint32(c.LDPinMode)<<r5LDPinMode |
		r5ReservedValue<<r5Reserved |
		0x5

	return r, nil
}

func validate(v DeviceVariant, d DividerSolution, c RegisterConfig) error {
	if !v.Valid() {
		return &FieldError{Field: "device_type", Constraint: "adf4350 or adf4351"}
	}

	// dividers
	if err := checkUint("INT", d.INT, maxINT); err != nil {
		return err
	}
	if err := checkUint("FRAC", d.FRAC, maxFRAC); err != nil {
		return err
	}
	if err := checkUint("MOD", d.MOD, maxMOD); err != nil {
		return err
	}
	if d.OutputDivider == 0 || d.OutputDivider > maxOutputDiv || bits.OnesCount32(d.OutputDivider) != 1 {
		return &FieldError{Field: "output_divider", Constraint: "a power of 2 between 1 and 64"}
	}
	if d.BandSelectClockDivider == 0 || d.BandSelectClockDivider > maxBandSelectDiv {
		return &FieldError{Field: "band_select_clock_divider", Constraint: "an integer between 1 and 255"}
	}

	// lookup tables
	if _, err := lookup("charge_pump_current", chargePumpCurrent, c.ChargePumpCurrent); err != nil {
		return err
	}
	if _, err := lookup("abp", antibacklashPulseWidth, c.AntibacklashPulseWidth); err != nil {
		return err
	}
	if _, err := lookup("aux_output_power", outputPower, c.AuxOutputPower); err != nil {
		return err
	}
	if _, err := lookup("output_power", outputPower, c.OutputPower); err != nil {
		return err
	}

	// plain ranges
	if c.RCounter == 0 || c.RCounter > maxRCounter {
		return &FieldError{Field: "r_counter", Constraint: "an integer between 1 and 1023"}
	}
	if c.PhaseValue != nil {
		if err := checkUint("phase_value", uint32(*c.PhaseValue), maxPhase); err != nil {
			return err
		}
	}
	if err := checkUint("clock_divider_value", uint32(c.ClockDividerValue), maxClockDivider); err != nil {
		return err
	}

	// enumerations
	switch {
	case !c.Prescaler.Valid():
		return &FieldError{Field: "prescaler", Constraint: "4/5 or 8/9"}
	case !c.LowNoiseSpurMode.Valid():
		return &FieldError{Field: "low_noise_spur_mode", Constraint: "one of " + strings.Join(noiseModeNames, ", ")}
	case !c.MuxOut.Valid():
		return &FieldError{Field: "mux_out", Constraint: "one of " + strings.Join(muxOutNames, ", ")}
	case !c.PDPolarity.Valid():
		return &FieldError{Field: "pd_polarity", Constraint: "negative or positive"}
	case !c.ClkDivMode.Valid():
		return &FieldError{Field: "clk_div_mode", Constraint: "one of " + strings.Join(clkDivModeNames, ", ")}
	case !c.BandSelectClockMode.Valid():
		return &FieldError{Field: "band_select_clock_mode", Constraint: "low or high"}
	case !c.FeedbackSelect.Valid():
		return &FieldError{Field: "feedback_select", Constraint: "divided or fundamental"}
	case !c.AuxOutputSelect.Valid():
		return &FieldError{Field: "aux_output_select", Constraint: "divided or fundamental"}
	case !c.LDPinMode.Valid():
		return &FieldError{Field: "ld_pin_mode", Constraint: "low, digital-lock-detect or high"}
	}

	return nil
}

func checkUint(field string, v, max uint32) error {
	if v > max {
		return &FieldError{
			Field:      field,
			Constraint: fmt.Sprintf("an integer greater than or equal to 0, and less than or equal to %d", max),
		}
	}
	return nil
}

func bit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
