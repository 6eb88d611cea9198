// internal/pll/enums.go
package pll

import (
	"fmt"
	"strconv"
	"strings"
)

// Every enumeration below parses from its lower-case name or from its
// numeric register code, so YAML profiles and CLI flags share one syntax.

// ---- DEVICE VARIANT ----

// DeviceVariant selects the chip. ADF4351 is the extended part: it adds the
// band select clock mode, ABP and charge cancel bits in R3 and raises the
// Int-N PFD ceiling to 90 MHz.
type DeviceVariant uint8

const (
	ADF4350 DeviceVariant = iota
	ADF4351
)

var variantNames = []string{"adf4350", "adf4351"}

func (v DeviceVariant) String() string { return enumName(variantNames, uint8(v)) }
func (v DeviceVariant) Valid() bool    { return known(variantNames, uint8(v)) }

func (v *DeviceVariant) UnmarshalText(b []byte) error {
	x, err := parseEnum("device variant", string(b), variantNames)
	if err != nil {
		return err
	}
	*v = DeviceVariant(x)
	return nil
}

// ---- R1 ----

// Prescaler is the dual-modulus prescaler in front of the N counter.
type Prescaler uint8

const (
	Prescaler4_5 Prescaler = iota
	Prescaler8_9
)

var prescalerNames = []string{"4/5", "8/9"}

func (p Prescaler) String() string { return enumName(prescalerNames, uint8(p)) }
func (p Prescaler) Valid() bool    { return known(prescalerNames, uint8(p)) }

func (p *Prescaler) UnmarshalText(b []byte) error {
	x, err := parseEnum("prescaler", string(b), prescalerNames)
	if err != nil {
		return err
	}
	*p = Prescaler(x)
	return nil
}

// ---- R2 ----

type LowNoiseSpurMode uint8

const (
	LowNoiseMode LowNoiseSpurMode = iota
	LowSpurMode
)

var noiseModeNames = []string{"low-noise", "low-spur"}

func (m LowNoiseSpurMode) String() string { return enumName(noiseModeNames, uint8(m)) }
func (m LowNoiseSpurMode) Valid() bool    { return known(noiseModeNames, uint8(m)) }

func (m *LowNoiseSpurMode) UnmarshalText(b []byte) error {
	x, err := parseEnum("low noise/spur mode", string(b), noiseModeNames)
	if err != nil {
		return err
	}
	*m = LowNoiseSpurMode(x)
	return nil
}

// MuxOut selects what drives the MUXOUT pin.
type MuxOut uint8

const (
	MuxThreeState MuxOut = iota
	MuxDVdd
	MuxDGND
	MuxRCounterOutput
	MuxNDividerOutput
	MuxAnalogLockDetect
	MuxDigitalLockDetect
)

var muxOutNames = []string{
	"three-state",
	"dvdd",
	"dgnd",
	"r-counter",
	"n-divider",
	"analog-lock-detect",
	"digital-lock-detect",
}

func (m MuxOut) String() string { return enumName(muxOutNames, uint8(m)) }
func (m MuxOut) Valid() bool    { return known(muxOutNames, uint8(m)) }

func (m *MuxOut) UnmarshalText(b []byte) error {
	x, err := parseEnum("mux output", string(b), muxOutNames)
	if err != nil {
		return err
	}
	*m = MuxOut(x)
	return nil
}

type PDPolarity uint8

const (
	PDNegative PDPolarity = iota
	PDPositive
)

var pdPolarityNames = []string{"negative", "positive"}

func (p PDPolarity) String() string { return enumName(pdPolarityNames, uint8(p)) }
func (p PDPolarity) Valid() bool    { return known(pdPolarityNames, uint8(p)) }

func (p *PDPolarity) UnmarshalText(b []byte) error {
	x, err := parseEnum("phase detector polarity", string(b), pdPolarityNames)
	if err != nil {
		return err
	}
	*p = PDPolarity(x)
	return nil
}

// ---- R3 ----

// BandSelectClockMode is ADF4351 only. High mode allows band select clocks
// above 125 kHz and is mandatory for Int-N operation above a 32 MHz PFD.
type BandSelectClockMode uint8

const (
	BandSelectLow BandSelectClockMode = iota
	BandSelectHigh
)

var bandSelectModeNames = []string{"low", "high"}

func (m BandSelectClockMode) String() string { return enumName(bandSelectModeNames, uint8(m)) }
func (m BandSelectClockMode) Valid() bool    { return known(bandSelectModeNames, uint8(m)) }

func (m *BandSelectClockMode) UnmarshalText(b []byte) error {
	x, err := parseEnum("band select clock mode", string(b), bandSelectModeNames)
	if err != nil {
		return err
	}
	*m = BandSelectClockMode(x)
	return nil
}

type ClkDivMode uint8

const (
	ClockDividerOff ClkDivMode = iota
	FastLockEnable
	ResyncEnable
)

var clkDivModeNames = []string{"off", "fast-lock", "resync"}

func (m ClkDivMode) String() string { return enumName(clkDivModeNames, uint8(m)) }
func (m ClkDivMode) Valid() bool    { return known(clkDivModeNames, uint8(m)) }

func (m *ClkDivMode) UnmarshalText(b []byte) error {
	x, err := parseEnum("clock divider mode", string(b), clkDivModeNames)
	if err != nil {
		return err
	}
	*m = ClkDivMode(x)
	return nil
}

// ---- R4 ----

// FeedbackSelect picks where the N counter takes its input: after the
// output divider, or straight from the VCO.
type FeedbackSelect uint8

const (
	FeedbackDivided FeedbackSelect = iota
	FeedbackFundamental
)

var feedbackNames = []string{"divided", "fundamental"}

func (f FeedbackSelect) String() string { return enumName(feedbackNames, uint8(f)) }
func (f FeedbackSelect) Valid() bool    { return known(feedbackNames, uint8(f)) }

func (f *FeedbackSelect) UnmarshalText(b []byte) error {
	x, err := parseEnum("feedback select", string(b), feedbackNames)
	if err != nil {
		return err
	}
	*f = FeedbackSelect(x)
	return nil
}

type AuxOutputSelect uint8

const (
	AuxDividedOutput AuxOutputSelect = iota
	AuxFundamental
)

var auxSelectNames = []string{"divided", "fundamental"}

func (a AuxOutputSelect) String() string { return enumName(auxSelectNames, uint8(a)) }
func (a AuxOutputSelect) Valid() bool    { return known(auxSelectNames, uint8(a)) }

func (a *AuxOutputSelect) UnmarshalText(b []byte) error {
	x, err := parseEnum("aux output select", string(b), auxSelectNames)
	if err != nil {
		return err
	}
	*a = AuxOutputSelect(x)
	return nil
}

// ---- R5 ----

// LDPinMode drives the LD pin. Code 2 is reserved by the part.
type LDPinMode uint8

const (
	LDPinLow               LDPinMode = 0
	LDPinDigitalLockDetect LDPinMode = 1
	LDPinHigh              LDPinMode = 3
)

var ldPinModeNames = []string{"low", "digital-lock-detect", "", "high"}

func (m LDPinMode) String() string { return enumName(ldPinModeNames, uint8(m)) }
func (m LDPinMode) Valid() bool    { return known(ldPinModeNames, uint8(m)) }

func (m *LDPinMode) UnmarshalText(b []byte) error {
	x, err := parseEnum("LD pin mode", string(b), ldPinModeNames)
	if err != nil {
		return err
	}
	*m = LDPinMode(x)
	return nil
}

// ---- helpers ----

func known(names []string, v uint8) bool {
	return int(v) < len(names) && names[v] != ""
}

func enumName(names []string, v uint8) string {
	if known(names, v) {
		return names[v]
	}
	return strconv.Itoa(int(v))
}

func parseEnum(kind, s string, names []string) (uint8, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n != "" && n == s {
			return uint8(i), nil
		}
	}
	if v, err := strconv.ParseUint(s, 0, 8); err == nil && known(names, uint8(v)) {
		return uint8(v), nil
	}
	return 0, fmt.Errorf("pll: unknown %s %q", kind, s)
}
