// internal/config/validate.go
package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/tamzrod/adf435x/internal/pll"
)

// interfaceAliases maps every accepted transport name to its canonical form.
var interfaceAliases = map[string]string{
	"usb":    "usb",
	"fx2":    "usb",
	"stm32":  "usb",
	"spi":    "spi",
	"serial": "serial",
	"uart":   "serial",
	"modbus": "modbus",
	"ingest": "ingest",
}

// CanonicalInterface resolves a transport name or alias. ok is false for
// unknown names.
func CanonicalInterface(name string) (string, bool) {
	c, ok := interfaceAliases[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// MaxSweepPoints bounds the number of frequencies in one sweep pass.
const MaxSweepPoints = 1 << 20

// SweepPointCount returns how many points start..stop (inclusive) holds at
// step. ok is false when the count is not finite or exceeds MaxSweepPoints.
func SweepPointCount(start, stop, step float64) (int, bool) {
	n := math.Floor((stop-start)/step+1e-9) + 1
	if math.IsNaN(n) || n < 1 || n > MaxSweepPoints {
		return 0, false
	}
	return int(n), true
}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil configuration")
	}

	// ------------------------------------------------------------
	// DEVICE / SYNTH
	// ------------------------------------------------------------

	if !cfg.Device.Variant.Valid() {
		return fmt.Errorf("config: device.variant %d is not adf4350 or adf4351", cfg.Device.Variant)
	}
	if !(cfg.Synth.RefFreqMHz > 0) || math.IsInf(cfg.Synth.RefFreqMHz, 0) {
		return fmt.Errorf("config: synth.ref_freq_mhz must be positive, got %g", cfg.Synth.RefFreqMHz)
	}
	if cfg.Synth.FreqMHz < 0 || math.IsNaN(cfg.Synth.FreqMHz) || math.IsInf(cfg.Synth.FreqMHz, 0) {
		return fmt.Errorf("config: synth.freq_mhz must be positive or 0, got %g", cfg.Synth.FreqMHz)
	}

	// register field domains belong to the encoder
	if _, err := pll.Encode(cfg.Device.Variant, pll.DefaultDividers(), cfg.Registers); err != nil {
		return fmt.Errorf("config: registers: %w", err)
	}

	// Raw dividers only matter when the solver is off.
	if cfg.Synth.FreqMHz == 0 {
		if _, err := pll.Encode(cfg.Device.Variant, cfg.RawDividers(), cfg.Registers); err != nil {
			return fmt.Errorf("config: dividers: %w", err)
		}
	}

	// ------------------------------------------------------------
	// OVERRIDES
	// ------------------------------------------------------------

	if _, err := cfg.OverrideWords(); err != nil {
		return err
	}

	// ------------------------------------------------------------
	// TRANSPORT
	// ------------------------------------------------------------

	t := cfg.Transport
	iface, ok := CanonicalInterface(t.Interface)
	if !ok {
		return fmt.Errorf("config: transport.interface %q is not one of usb, fx2, stm32, spi, serial, modbus, ingest", t.Interface)
	}

	switch strings.ToLower(strings.TrimSpace(t.Order)) {
	case "", "descending", "ascending":
	default:
		return fmt.Errorf("config: transport.order %q is not descending or ascending", t.Order)
	}

	switch iface {
	case "usb":
		if t.USB.TimeoutMs < 0 {
			return fmt.Errorf("config: transport.usb.timeout_ms must not be negative")
		}
	case "spi":
		if t.SPI.SpeedHz < 0 {
			return fmt.Errorf("config: transport.spi.speed_hz must not be negative")
		}
	case "serial":
		if t.Serial.Port == "" {
			return fmt.Errorf("config: transport.serial.port required")
		}
	case "modbus":
		if t.Modbus.Endpoint == "" && t.Modbus.Port == "" {
			return fmt.Errorf("config: transport.modbus requires endpoint (tcp) or port (rtu)")
		}
		if t.Modbus.Endpoint != "" && t.Modbus.Port != "" {
			return fmt.Errorf("config: transport.modbus endpoint and port are mutually exclusive")
		}
		// six words, two registers each
		if int(t.Modbus.Address)+12 > math.MaxUint16+1 {
			return fmt.Errorf("config: transport.modbus.address %d leaves no room for 12 registers", t.Modbus.Address)
		}
	case "ingest":
		if t.Ingest.Endpoint == "" {
			return fmt.Errorf("config: transport.ingest.endpoint required")
		}
	}

	// ------------------------------------------------------------
	// SWEEP
	// ------------------------------------------------------------

	s := cfg.Sweep
	if !(s.StartMHz > 0) {
		return fmt.Errorf("config: sweep.start_mhz must be positive, got %g", s.StartMHz)
	}
	if !(s.StopMHz >= s.StartMHz) {
		return fmt.Errorf("config: sweep.stop_mhz %g is below start_mhz %g", s.StopMHz, s.StartMHz)
	}
	if !(s.StepMHz > 0) {
		return fmt.Errorf("config: sweep.step_mhz must be positive, got %g", s.StepMHz)
	}
	if s.IntervalMs <= 0 {
		return fmt.Errorf("config: sweep.interval_ms must be positive, got %d", s.IntervalMs)
	}
	if _, ok := SweepPointCount(s.StartMHz, s.StopMHz, s.StepMHz); !ok {
		return fmt.Errorf("config: sweep.step_mhz %g gives more than %d points from %g to %g MHz",
			s.StepMHz, MaxSweepPoints, s.StartMHz, s.StopMHz)
	}

	return nil
}
