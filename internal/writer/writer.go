// internal/writer/writer.go
package writer

import (
	"errors"
	"fmt"

	"github.com/tamzrod/adf435x/internal/pll"
)

// EndpointClient is the exact contract the writer uses.
// SetRegs sends words in slice order and stops at the first failure.
type EndpointClient interface {
	SetRegs(words []uint32) error
	Close() error
}

type writerImpl struct {
	plan Plan
	cli  EndpointClient
}

// New returns the writer for plan. With plan.Delta set the returned writer
// skips words unchanged since its last successful write.
func New(plan Plan, cli EndpointClient) Writer {
	if plan.Delta {
		return newDeltaWriter(plan, cli)
	}
	return &writerImpl{
		plan: plan,
		cli:  cli,
	}
}

func (w *writerImpl) Write(regs pll.Registers) error {
	if w.cli == nil {
		return errors.New("writer: missing client")
	}

	words := w.plan.Sequence(regs)
	if err := w.cli.SetRegs(words); err != nil {
		return fmt.Errorf("writer: %s: %w", w.plan.Interface, err)
	}
	return nil
}
