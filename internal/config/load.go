// internal/config/load.go
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tamzrod/adf435x/internal/pll"
)

const (
	DefaultUSBVendorID  uint16 = 0x0456
	DefaultUSBProductID uint16 = 0xb40d
)

// Default returns the profile used when no file is given: ADF4351 on the
// FX2 USB adapter, 25 MHz reference, reference register defaults.
func Default() Config {
	d := pll.DefaultDividers()
	return Config{
		Device: DeviceConfig{Variant: pll.ADF4351},
		Synth: SynthConfig{
			RefFreqMHz: 25.0,
			GCD:        true,
		},
		Dividers: DividersConfig{
			INT:                    d.INT,
			FRAC:                   d.FRAC,
			MOD:                    d.MOD,
			OutputDivider:          d.OutputDivider,
			BandSelectClockDivider: d.BandSelectClockDivider,
		},
		Registers: pll.DefaultRegisterConfig(),
		Transport: TransportConfig{
			Interface: "usb",
			Order:     "descending",
			USB: USBConfig{
				VendorID:  DefaultUSBVendorID,
				ProductID: DefaultUSBProductID,
				TimeoutMs: 1000,
			},
			SPI:    SPIConfig{SpeedHz: 1_000_000},
			Serial: SerialConfig{BaudRate: 115200, TimeoutMs: 500},
			Modbus: ModbusConfig{UnitID: 1, BaudRate: 115200, TimeoutMs: 1000},
			Ingest: IngestConfig{UnitID: 1, TimeoutMs: 2000},
		},
		Sweep: SweepConfig{
			StartMHz:   50,
			StopMHz:    99,
			StepMHz:    1,
			IntervalMs: 100,
			Repeat:     true,
		},
	}
}

// Load reads a YAML profile on top of Default. Unknown keys are rejected.
// The result is validated and normalized.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode is Load for an already open profile.
func Decode(r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if len(bytes.TrimSpace(raw)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, err
		}
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	Normalize(&cfg)

	return &cfg, nil
}

// ---- DERIVED VIEWS ----

// Synthesizer returns the solver/encoder bound to this profile.
func (c *Config) Synthesizer() *pll.Synthesizer {
	return &pll.Synthesizer{
		Variant:                c.Device.Variant,
		RefFreqMHz:             c.Synth.RefFreqMHz,
		BandSelectClockDivider: c.Synth.BandSelectClockDivider,
		EnableGCD:              c.Synth.GCD,
		Config:                 c.Registers,
	}
}

// RawDividers returns the dividers programmed when FreqMHz is 0.
func (c *Config) RawDividers() pll.DividerSolution {
	return pll.DividerSolution{
		INT:                    c.Dividers.INT,
		FRAC:                   c.Dividers.FRAC,
		MOD:                    c.Dividers.MOD,
		OutputDivider:          c.Dividers.OutputDivider,
		BandSelectClockDivider: c.Dividers.BandSelectClockDivider,
	}
}

// Words computes the register words the profile programs: solved from
// FreqMHz when set, otherwise encoded from the raw dividers. Overrides are
// not applied.
func (c *Config) Words() (pll.Registers, pll.DividerSolution, error) {
	s := c.Synthesizer()
	if c.Synth.FreqMHz > 0 {
		return s.Registers(c.Synth.FreqMHz)
	}
	d := c.RawDividers()
	regs, err := s.Encode(d)
	if err != nil {
		return pll.Registers{}, pll.DividerSolution{}, err
	}
	return regs, d, nil
}

// OverrideWords parses the raw word overrides. A nil entry keeps the
// computed word.
func (c *Config) OverrideWords() ([6]*uint32, error) {
	var out [6]*uint32
	for i, s := range c.Overrides.list() {
		w, ok, err := ParseWord(s)
		if err != nil {
			return out, fmt.Errorf("config: overrides.r%d: %w", i, err)
		}
		if ok {
			out[i] = &w
		}
	}
	return out, nil
}

func (o OverridesConfig) list() [6]string {
	return [6]string{o.R0, o.R1, o.R2, o.R3, o.R4, o.R5}
}

// Set assigns the override for register addr.
func (o *OverridesConfig) Set(addr int, v string) error {
	switch addr {
	case 0:
		o.R0 = v
	case 1:
		o.R1 = v
	case 2:
		o.R2 = v
	case 3:
		o.R3 = v
	case 4:
		o.R4 = v
	case 5:
		o.R5 = v
	default:
		return fmt.Errorf("config: no register r%d", addr)
	}
	return nil
}

// ParseWord parses a 32-bit register word. Empty input reports ok=false.
func ParseWord(s string) (uint32, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) {
			err = ne.Err
		}
		return 0, false, fmt.Errorf("invalid register word %q: %w", s, err)
	}
	return uint32(v), true, nil
}
