// internal/config/validate_test.go
package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/tamzrod/adf435x/internal/pll"
)

// helper to build a config quickly
func valid() *Config {
	cfg := Default()
	return &cfg
}

// ---- tests ----

func TestValidate_DefaultIsValid(t *testing.T) {
	if err := Validate(valid()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	cfg := valid()
	cfg.Transport.Interface = "FX2"
	cfg.Transport.Order = ""

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Transport.Interface != "FX2" || cfg.Transport.Order != "" {
		t.Fatalf("validate mutated transport: %+v", cfg.Transport)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"variant", func(c *Config) { c.Device.Variant = 7 }, "device.variant"},
		{"ref freq", func(c *Config) { c.Synth.RefFreqMHz = 0 }, "ref_freq_mhz"},
		{"negative freq", func(c *Config) { c.Synth.FreqMHz = -1 }, "freq_mhz"},
		{"register field", func(c *Config) { c.Registers.OutputPower = 4 }, "output_power"},
		{"raw divider", func(c *Config) { c.Dividers.OutputDivider = 3 }, "output_divider"},
		{"override", func(c *Config) { c.Overrides.R2 = "0xZZ" }, "overrides.r2"},
		{"override too wide", func(c *Config) { c.Overrides.R0 = "0x100000000" }, "overrides.r0"},
		{"interface", func(c *Config) { c.Transport.Interface = "carrier-pigeon" }, "transport.interface"},
		{"order", func(c *Config) { c.Transport.Order = "random" }, "transport.order"},
		{"serial port", func(c *Config) { c.Transport.Interface = "serial" }, "serial.port"},
		{"modbus target", func(c *Config) { c.Transport.Interface = "modbus" }, "transport.modbus"},
		{"modbus both", func(c *Config) {
			c.Transport.Interface = "modbus"
			c.Transport.Modbus.Endpoint = "127.0.0.1:502"
			c.Transport.Modbus.Port = "/dev/ttyUSB0"
		}, "mutually exclusive"},
		{"modbus address", func(c *Config) {
			c.Transport.Interface = "modbus"
			c.Transport.Modbus.Endpoint = "127.0.0.1:502"
			c.Transport.Modbus.Address = 65530
		}, "modbus.address"},
		{"ingest endpoint", func(c *Config) { c.Transport.Interface = "ingest" }, "ingest.endpoint"},
		{"sweep start", func(c *Config) { c.Sweep.StartMHz = 0 }, "start_mhz"},
		{"sweep stop", func(c *Config) { c.Sweep.StopMHz = 10 }, "stop_mhz"},
		{"sweep step", func(c *Config) { c.Sweep.StepMHz = 0 }, "step_mhz"},
		{"sweep interval", func(c *Config) { c.Sweep.IntervalMs = 0 }, "interval_ms"},
		{"sweep too many points", func(c *Config) {
			c.Sweep.StartMHz = 35
			c.Sweep.StopMHz = 4400
			c.Sweep.StepMHz = 1e-6
		}, "step_mhz"},
	}

	for _, tt := range tests {
		cfg := valid()
		tt.mutate(cfg)

		err := Validate(cfg)
		if err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Fatalf("%s: error %q does not mention %q", tt.name, err, tt.want)
		}
	}
}

func TestValidate_RegisterErrorKeepsType(t *testing.T) {
	cfg := valid()
	cfg.Registers.ChargePumpCurrent = 9

	err := Validate(cfg)
	if !errors.Is(err, pll.ErrInvalidField) {
		t.Fatalf("expected pll.ErrInvalidField, got %v", err)
	}
}

func TestValidate_RawDividersIgnoredWhenSolving(t *testing.T) {
	cfg := valid()
	cfg.Synth.FreqMHz = 100
	cfg.Dividers.OutputDivider = 3

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNormalize_Interface(t *testing.T) {
	for _, name := range []string{"fx2", "STM32", " usb "} {
		cfg := valid()
		cfg.Transport.Interface = name
		cfg.Transport.Order = ""

		if err := Validate(cfg); err != nil {
			t.Fatalf("%q: unexpected error: %v", name, err)
		}
		Normalize(cfg)

		if cfg.Transport.Interface != "usb" {
			t.Fatalf("%q: normalized to %q", name, cfg.Transport.Interface)
		}
		if cfg.Transport.Order != "descending" {
			t.Fatalf("%q: order %q", name, cfg.Transport.Order)
		}
	}
}

func TestNormalize_FillsTransportDefaults(t *testing.T) {
	cfg := &Config{}
	Normalize(cfg)

	if cfg.Transport.USB.VendorID != DefaultUSBVendorID || cfg.Transport.USB.ProductID != DefaultUSBProductID {
		t.Fatalf("usb ids not defaulted: %+v", cfg.Transport.USB)
	}
	if cfg.Transport.SPI.SpeedHz != 1_000_000 {
		t.Fatalf("spi speed %d", cfg.Transport.SPI.SpeedHz)
	}
	if cfg.Transport.Modbus.TimeoutMs != 1000 || cfg.Transport.Ingest.TimeoutMs != 2000 {
		t.Fatalf("timeouts not defaulted: %+v", cfg.Transport)
	}
}

func TestOverrideWords(t *testing.T) {
	cfg := valid()
	cfg.Overrides.R0 = "0x00320000"
	cfg.Overrides.R5 = "5767173"

	got, err := cfg.OverrideWords()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0] == nil || *got[0] != 0x00320000 {
		t.Fatalf("r0 override %v", got[0])
	}
	if got[5] == nil || *got[5] != 0x00580005 {
		t.Fatalf("r5 override %v", got[5])
	}
	for i := 1; i < 5; i++ {
		if got[i] != nil {
			t.Fatalf("r%d unexpectedly overridden", i)
		}
	}
}

func TestOverridesSet(t *testing.T) {
	var o OverridesConfig
	if err := o.Set(3, "0x4b3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.R3 != "0x4b3" {
		t.Fatalf("r3 = %q", o.R3)
	}
	if err := o.Set(6, "1"); err == nil {
		t.Fatalf("expected error for r6")
	}
}

func TestSweepPointCount(t *testing.T) {
	if n, ok := SweepPointCount(50, 99, 1); !ok || n != 50 {
		t.Fatalf("got %d %v, want 50 true", n, ok)
	}
	if n, ok := SweepPointCount(50, 50, 1); !ok || n != 1 {
		t.Fatalf("got %d %v, want 1 true", n, ok)
	}
	if _, ok := SweepPointCount(35, 4400, 1e-12); ok {
		t.Fatalf("expected rejection for 1e-12 step")
	}
	if _, ok := SweepPointCount(35, 4400, 1e-300); ok {
		t.Fatalf("expected rejection for 1e-300 step")
	}
}
