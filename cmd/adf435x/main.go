// cmd/adf435x/main.go
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/parms"

	"github.com/tamzrod/adf435x/internal/config"
	"github.com/tamzrod/adf435x/internal/writer"
)

const usage = `usage: adf435x [-v] [--dry-run] [--config FILE] [--interface NAME]
               [--freq MHZ] [--ref-freq MHZ] [--FIELD VALUE]... [--rN WORD]...

Computes the six ADF4350/1 register words and sends them to the device.
Flags override the profile named by --config. --rN replaces register N
verbatim. -v prints the words, --dry-run prints and sends nothing.`

func main() {
	log.SetFlags(0)
	log.SetPrefix("adf435x: ")

	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	flag, args := flags.New(args, "-v", "--verbose", "--dry-run", "-h", "--help")
	parm, args := parms.New(args, parmNames()...)

	if flag.ByName["-h"] || flag.ByName["--help"] {
		fmt.Fprintln(stdout, usage)
		return nil
	}
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	verbose := flag.ByName["-v"] || flag.ByName["--verbose"]
	dryRun := flag.ByName["--dry-run"]

	// --------------------
	// Profile + flag overlay
	// --------------------

	c := config.Default()
	if path := parm.ByName["--config"]; path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		c = *loaded
	}

	if err := applyParms(&c, parm.ByName); err != nil {
		return err
	}
	if err := config.Validate(&c); err != nil {
		return err
	}
	config.Normalize(&c)

	// --------------------
	// Compute
	// --------------------

	regs, sol, err := c.Words()
	if err != nil {
		return err
	}

	plan, err := writer.BuildPlan(&c)
	if err != nil {
		return err
	}

	if verbose || dryRun {
		if c.Synth.FreqMHz > 0 {
			fmt.Fprintf(stdout, "# %s %g MHz: INT=%d FRAC=%d MOD=%d RF divider=%d band select divider=%d\n",
				c.Device.Variant, c.Synth.FreqMHz, sol.INT, sol.FRAC, sol.MOD, sol.OutputDivider, sol.BandSelectClockDivider)
		}
		for i, w := range plan.Apply(regs) {
			fmt.Fprintf(stdout, "r%d = 0x%08x\n", i, w)
		}
	}
	if dryRun {
		return nil
	}

	// --------------------
	// Send
	// --------------------

	cli, closeClient, err := writer.BuildEndpointClient(c.Transport)
	if err != nil {
		return err
	}
	defer closeClient()

	return writer.New(plan, cli).Write(regs)
}
