// internal/writer/delta.go
package writer

import (
	"errors"
	"fmt"

	"github.com/tamzrod/adf435x/internal/pll"
)

// deltaWriter resends only words that changed since the last successful
// write. R0 is always sent because writing it latches the new dividers.
// Any failure forces a full write on the next call.
type deltaWriter struct {
	plan Plan
	cli  EndpointClient

	needFull bool
	last     pll.Registers
}

func newDeltaWriter(plan Plan, cli EndpointClient) *deltaWriter {
	return &deltaWriter{
		plan:     plan,
		cli:      cli,
		needFull: true, // full write on first call
	}
}

func (w *deltaWriter) Write(regs pll.Registers) error {
	if w.cli == nil {
		return errors.New("writer: missing client")
	}

	regs = w.plan.Apply(regs)

	// ------------------------------------------------------------
	// Full write (first call or after a failure)
	// ------------------------------------------------------------
	if w.needFull {
		if err := w.cli.SetRegs(w.plan.Sequence(regs)); err != nil {
			return fmt.Errorf("writer: %s: full write failed: %w", w.plan.Interface, err)
		}
		w.needFull = false
		w.last = regs
		return nil
	}

	// ------------------------------------------------------------
	// Changed words only
	// ------------------------------------------------------------
	var words []uint32
	for _, addr := range w.plan.addresses() {
		if addr == 0 || w.last[addr] != regs[addr] {
			words = append(words, regs[addr])
		}
	}

	if err := w.cli.SetRegs(words); err != nil {
		// partial delivery leaves the device state unknown
		w.needFull = true
		return fmt.Errorf("writer: %s: %w", w.plan.Interface, err)
	}

	w.last = regs
	return nil
}
