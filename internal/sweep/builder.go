// internal/sweep/builder.go
package sweep

import (
	"time"

	cfg "github.com/tamzrod/adf435x/internal/config"
)

// Build constructs a Sweeper bound to the profile's synthesizer.
func Build(c *cfg.Config) (*Sweeper, error) {
	return New(
		Config{
			StartMHz: c.Sweep.StartMHz,
			StopMHz:  c.Sweep.StopMHz,
			StepMHz:  c.Sweep.StepMHz,
			Interval: time.Duration(c.Sweep.IntervalMs) * time.Millisecond,
			Repeat:   c.Sweep.Repeat,
		},
		c.Synthesizer(),
	)
}
