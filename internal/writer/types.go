// internal/writer/types.go
package writer

import (
	"fmt"

	"github.com/tamzrod/adf435x/internal/pll"
)

// Order is the register address order words are sent in.
type Order int

const (
	// Descending sends R5 first and R0 last. Writing R0 latches the new
	// frequency, so this is the order the part expects.
	Descending Order = iota
	Ascending
)

func (o Order) String() string {
	if o == Ascending {
		return "ascending"
	}
	return "descending"
}

// ParseOrder accepts "descending" (or "") and "ascending".
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "descending":
		return Descending, nil
	case "ascending":
		return Ascending, nil
	}
	return Descending, fmt.Errorf("writer: unknown order %q", s)
}

// Plan is the fully-built write plan for one device.
type Plan struct {
	Interface string
	Order     Order

	// Overrides replace computed words verbatim. nil keeps the word.
	Overrides [6]*uint32

	// Delta sends only changed words after the first full write.
	Delta bool
}

// Apply returns regs with the overrides substituted.
func (p Plan) Apply(regs pll.Registers) pll.Registers {
	for i, o := range p.Overrides {
		if o != nil {
			regs[i] = *o
		}
	}
	return regs
}

// Sequence returns the words of regs, overrides applied, in plan order.
func (p Plan) Sequence(regs pll.Registers) []uint32 {
	regs = p.Apply(regs)
	if p.Order == Ascending {
		out := make([]uint32, len(regs))
		copy(out, regs[:])
		return out
	}
	return regs.TransmitOrder()
}

// addresses lists register addresses in plan order.
func (p Plan) addresses() []int {
	out := make([]int, 6)
	for i := range out {
		if p.Order == Ascending {
			out[i] = i
		} else {
			out[i] = 5 - i
		}
	}
	return out
}

// Writer delivers one register set to the device.
type Writer interface {
	Write(regs pll.Registers) error
}
