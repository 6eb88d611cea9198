// cmd/adf435x/main_test.go
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tamzrod/adf435x/internal/config"
	"github.com/tamzrod/adf435x/internal/pll"
)

func TestRun_DryRunPrintsDefaultWords(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"--dry-run"}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "r0 = 0x00320000\n" +
		"r1 = 0x08008011\n" +
		"r2 = 0x00004e42\n" +
		"r3 = 0x000004b3\n" +
		"r4 = 0x008c803c\n" +
		"r5 = 0x00580005\n"
	if out.String() != want {
		t.Fatalf("got\n%s\nwant\n%s", out.String(), want)
	}
}

func TestRun_FrequencyAndOverride(t *testing.T) {
	var out bytes.Buffer
	args := []string{"--freq", "100", "--r3=0x12345673", "--dry-run"}
	if err := run(args, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := out.String()
	if !strings.Contains(s, "INT=") {
		t.Fatalf("solution line missing:\n%s", s)
	}
	if !strings.Contains(s, "r3 = 0x12345673\n") {
		t.Fatalf("override not applied:\n%s", s)
	}
}

func TestRun_ConfigFileThenFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	profile := "device:\n  variant: adf4350\nregisters:\n  output_power: -4\n"
	if err := os.WriteFile(path, []byte(profile), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	args := []string{"--config", path, "--output-power", "2", "--dry-run"}
	if err := run(args, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// +2 dBm is code 2 in R4 bits 4:3
	if !strings.Contains(out.String(), "r4 = 0x008c8034\n") {
		t.Fatalf("flag did not override profile:\n%s", out.String())
	}
}

func TestRun_Help(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"-h"}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "usage: adf435x") {
		t.Fatalf("got %q", out.String())
	}
}

func TestRun_RejectsStrayArguments(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"--dry-run", "100"}, &out); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRun_InvalidFieldFails(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"--dry-run", "--charge-pump-current", "2.6"}, &out); err == nil {
		t.Fatalf("expected error")
	}
	if out.Len() != 0 {
		t.Fatalf("words printed on error: %q", out.String())
	}
}

func TestApplyParms_RegisterFields(t *testing.T) {
	c := config.Default()
	err := applyParms(&c, map[string]string{
		"--r-counter":      "0x10",
		"--mux-out":        "digital-lock-detect",
		"--prescaler":      "4/5",
		"--output-power":   "-4",
		"--ref-doubler":    "true",
		"--phase-value":    "7",
		"--variant":        "adf4350",
		"--freq":           "433.92",
		"--output-divider": "8",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := c.Registers
	if r.RCounter != 16 || r.MuxOut != pll.MuxDigitalLockDetect || r.Prescaler != pll.Prescaler4_5 {
		t.Fatalf("registers not applied: %+v", r)
	}
	if r.OutputPower != -4 || !r.RefDoubler {
		t.Fatalf("registers not applied: %+v", r)
	}
	if r.PhaseValue == nil || *r.PhaseValue != 7 {
		t.Fatalf("phase value not applied")
	}
	if c.Device.Variant != pll.ADF4350 || c.Synth.FreqMHz != 433.92 || c.Dividers.OutputDivider != 8 {
		t.Fatalf("profile not applied: %+v %+v %+v", c.Device, c.Synth, c.Dividers)
	}

	// untouched keys keep their defaults
	if r.ChargePumpCurrent != 2.5 || c.Synth.RefFreqMHz != 25 {
		t.Fatalf("defaults lost: %+v", r)
	}
}

func TestApplyParms_PortFollowsInterface(t *testing.T) {
	c := config.Default()
	err := applyParms(&c, map[string]string{
		"--interface": "uart",
		"--port":      "/dev/ttyUSB0",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Transport.Interface != "uart" || c.Transport.Serial.Port != "/dev/ttyUSB0" {
		t.Fatalf("got %+v", c.Transport)
	}

	c = config.Default()
	err = applyParms(&c, map[string]string{"--endpoint": "10.0.0.5:502", "--interface": "modbus"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Transport.Modbus.Endpoint != "10.0.0.5:502" {
		t.Fatalf("got %+v", c.Transport.Modbus)
	}
}

func TestApplyParms_PortUnusedByUSB(t *testing.T) {
	c := config.Default()
	if err := applyParms(&c, map[string]string{"--port": "/dev/ttyUSB0"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestApplyParms_Errors(t *testing.T) {
	cases := []map[string]string{
		{"--mux-out": "bogus"},
		{"--r-counter": "many"},
		{"--r2": "0x1ffffffff"},
	}
	for _, m := range cases {
		c := config.Default()
		err := applyParms(&c, m)
		if m["--r2"] != "" {
			// raw words are checked by Validate
			if err == nil {
				err = config.Validate(&c)
			}
		}
		if err == nil {
			t.Fatalf("%v: expected error", m)
		}
	}
}

func TestParmNames_CoverRegisterFields(t *testing.T) {
	seen := map[string]bool{}
	for _, n := range parmNames() {
		if s, ok := n.(string); ok {
			seen[s] = true
		}
	}
	for _, f := range registerFields {
		name := "--" + strings.ReplaceAll(f, "_", "-")
		if !seen[name] {
			t.Fatalf("%s missing", name)
		}
	}
	for _, n := range []string{"--config", "--r0", "--r5", "--freq", "--interface"} {
		if !seen[n] {
			t.Fatalf("%s missing", n)
		}
	}
}
