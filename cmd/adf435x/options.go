// cmd/adf435x/options.go
package main

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tamzrod/adf435x/internal/config"
)

// option binds a command line parameter to a profile key.
type option struct {
	parm string
	path []string
}

// registerFields are the register keys of a profile. Each is also a
// parameter: r_counter is --r-counter.
var registerFields = []string{
	"phase_value", "prescaler",
	"low_noise_spur_mode", "mux_out", "ref_doubler", "ref_div2", "r_counter",
	"double_buff_r4", "charge_pump_current", "ldp", "pd_polarity", "powerdown",
	"cp_three_state", "counter_reset",
	"csr", "clk_div_mode", "clock_divider_value", "band_select_clock_mode",
	"abp", "charge_cancel",
	"feedback_select", "vco_powerdown", "mute_till_lock_detect",
	"aux_output_select", "aux_output_enable", "aux_output_power",
	"output_enable", "output_power",
	"ld_pin_mode",
}

var options = buildOptions()

func buildOptions() []option {
	out := []option{
		{"--variant", []string{"device", "variant"}},
		{"--ref-freq", []string{"synth", "ref_freq_mhz"}},
		{"--freq", []string{"synth", "freq_mhz"}},
		{"--band-select-clock-divider", []string{"synth", "band_select_clock_divider"}},
		{"--gcd", []string{"synth", "gcd"}},

		{"--int", []string{"dividers", "int"}},
		{"--frac", []string{"dividers", "frac"}},
		{"--mod", []string{"dividers", "mod"}},
		{"--output-divider", []string{"dividers", "output_divider"}},
		{"--raw-band-select-clock-divider", []string{"dividers", "band_select_clock_divider"}},

		{"--interface", []string{"transport", "interface"}},
		{"--order", []string{"transport", "order"}},
		{"--port", nil}, // routed by interface
		{"--endpoint", nil},
	}
	for _, f := range registerFields {
		out = append(out, option{"--" + strings.ReplaceAll(f, "_", "-"), []string{"registers", f}})
	}
	return out
}

// parmNames lists every parameter for parms.New. --variant is also
// accepted as --device-type.
func parmNames() []interface{} {
	names := []interface{}{"--config"}
	for _, o := range options {
		if o.parm == "--variant" {
			names = append(names, []string{o.parm, "--device-type"})
			continue
		}
		names = append(names, o.parm)
	}
	for i := 0; i < 6; i++ {
		names = append(names, fmt.Sprintf("--r%d", i))
	}
	return names
}

// applyParms overlays every non-empty parameter onto c. Values go through
// the profile decoder, so enum names and 0x literals work as in YAML.
func applyParms(c *config.Config, byName map[string]string) error {
	for _, o := range options {
		v := byName[o.parm]
		if v == "" {
			continue
		}
		path := o.path
		if path == nil {
			path = transportPath(c.Transport.Interface, o.parm)
			if path == nil {
				return fmt.Errorf("%s: not used by interface %q", o.parm, c.Transport.Interface)
			}
		}
		if err := overlay(c, path, v); err != nil {
			return fmt.Errorf("%s %s: %w", o.parm, v, err)
		}
	}

	for i := 0; i < 6; i++ {
		name := fmt.Sprintf("--r%d", i)
		if v := byName[name]; v != "" {
			if err := c.Overrides.Set(i, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// transportPath maps --port and --endpoint to the selected transport.
func transportPath(iface, parm string) []string {
	canon, ok := config.CanonicalInterface(iface)
	if !ok {
		return nil
	}
	key := strings.TrimPrefix(parm, "--")
	switch {
	case key == "port" && (canon == "spi" || canon == "serial" || canon == "modbus"):
	case key == "endpoint" && (canon == "modbus" || canon == "ingest"):
	default:
		return nil
	}
	return []string{"transport", canon, key}
}

// overlay decodes {path[0]: {path[1]: ... value}} onto c.
func overlay(c *config.Config, path []string, value string) error {
	node := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
	for i := len(path) - 1; i >= 0; i-- {
		node = &yaml.Node{
			Kind: yaml.MappingNode,
			Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Value: path[i]},
				node,
			},
		}
	}
	return node.Decode(c)
}
