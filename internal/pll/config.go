// internal/pll/config.go
package pll

// RegisterConfig holds every register field that is not a divider.
// Numeric fields constrained by a lookup table carry physical units:
// ChargePumpCurrent in mA, LockDetectPrecision and AntibacklashPulseWidth
// in ns, output powers in dBm.
type RegisterConfig struct {
	// R1. A nil PhaseValue disables phase adjust and programs phase 1.
	PhaseValue *uint16   `yaml:"phase_value"`
	Prescaler  Prescaler `yaml:"prescaler"`

	// R2
	LowNoiseSpurMode    LowNoiseSpurMode `yaml:"low_noise_spur_mode"`
	MuxOut              MuxOut           `yaml:"mux_out"`
	RefDoubler          bool             `yaml:"ref_doubler"`
	RefDiv2             bool             `yaml:"ref_div2"`
	RCounter            uint16           `yaml:"r_counter"`
	DoubleBufferR4      bool             `yaml:"double_buff_r4"`
	ChargePumpCurrent   float64          `yaml:"charge_pump_current"`
	LockDetectPrecision float64          `yaml:"ldp"`
	PDPolarity          PDPolarity       `yaml:"pd_polarity"`
	PowerDown           bool             `yaml:"powerdown"`
	CPThreeState        bool             `yaml:"cp_three_state"`
	CounterReset        bool             `yaml:"counter_reset"`

	// R3. The last three are ADF4351 only.
	CycleSlipReduction     bool                `yaml:"csr"`
	ClkDivMode             ClkDivMode          `yaml:"clk_div_mode"`
	ClockDividerValue      uint16              `yaml:"clock_divider_value"`
	BandSelectClockMode    BandSelectClockMode `yaml:"band_select_clock_mode"`
	AntibacklashPulseWidth float64             `yaml:"abp"`
	ChargeCancel           bool                `yaml:"charge_cancel"`

	// R4
	FeedbackSelect     FeedbackSelect  `yaml:"feedback_select"`
	VCOPowerDown       bool            `yaml:"vco_powerdown"`
	MuteTillLockDetect bool            `yaml:"mute_till_lock_detect"`
	AuxOutputSelect    AuxOutputSelect `yaml:"aux_output_select"`
	AuxOutputEnable    bool            `yaml:"aux_output_enable"`
	AuxOutputPower     float64         `yaml:"aux_output_power"`
	OutputEnable       bool            `yaml:"output_enable"`
	OutputPower        float64         `yaml:"output_power"`

	// R5
	LDPinMode LDPinMode `yaml:"ld_pin_mode"`
}

// DefaultRegisterConfig returns the power-on profile: RF output enabled at
// +5 dBm, 2.5 mA charge pump, digital lock detect on the LD pin.
func DefaultRegisterConfig() RegisterConfig {
	return RegisterConfig{
		Prescaler:              Prescaler8_9,
		LowNoiseSpurMode:       LowNoiseMode,
		MuxOut:                 MuxThreeState,
		RCounter:               1,
		ChargePumpCurrent:      2.50,
		LockDetectPrecision:    10.0,
		PDPolarity:             PDPositive,
		AntibacklashPulseWidth: 10,
		ClkDivMode:             ClockDividerOff,
		ClockDividerValue:      150,
		BandSelectClockMode:    BandSelectLow,
		FeedbackSelect:         FeedbackFundamental,
		AuxOutputSelect:        AuxDividedOutput,
		AuxOutputPower:         -4.0,
		OutputEnable:           true,
		OutputPower:            5.0,
		LDPinMode:              LDPinDigitalLockDetect,
	}
}

// DefaultDividers are programmed when no frequency is requested.
func DefaultDividers() DividerSolution {
	return DividerSolution{
		INT:                    100,
		MOD:                    2,
		FRAC:                   0,
		OutputDivider:          1,
		BandSelectClockDivider: 200,
	}
}
