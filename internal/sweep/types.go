// internal/sweep/types.go
package sweep

import (
	"time"

	"github.com/tamzrod/adf435x/internal/pll"
)

// Result is what one sweep step produced.
type Result struct {
	FreqMHz float64
	At      time.Time

	// Index is the position of FreqMHz in the pass.
	Index int

	Regs     pll.Registers
	Solution pll.DividerSolution
	Err      error // non-nil means no words were produced
}
