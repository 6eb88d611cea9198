// cmd/adf435x-sweep/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tamzrod/adf435x/internal/config"
	"github.com/tamzrod/adf435x/internal/sweep"
	"github.com/tamzrod/adf435x/internal/writer"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: adf435x-sweep <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Build pipeline
	// --------------------

	// ---- sweeper ----
	sw, err := sweep.Build(cfg)
	if err != nil {
		log.Fatalf("sweep build failed: %v", err)
	}

	// ---- writer plan ----
	plan, err := writer.BuildPlan(cfg)
	if err != nil {
		log.Fatalf("writer plan failed: %v", err)
	}

	// ---- writer client ----
	cli, closeWriter, err := writer.BuildEndpointClient(cfg.Transport)
	if err != nil {
		log.Fatalf("writer client failed (interface=%s): %v", plan.Interface, err)
	}
	defer closeWriter()

	w := writer.New(plan, cli)

	log.Printf("sweeping %s %g..%g MHz step %g MHz every %d ms over %s (%d points)",
		cfg.Device.Variant, cfg.Sweep.StartMHz, cfg.Sweep.StopMHz, cfg.Sweep.StepMHz,
		cfg.Sweep.IntervalMs, plan.Interface, sw.Len())

	// ---- channel between sweeper and writer ----
	out := make(chan sweep.Result)

	// sweeper producer; closes out when done
	go sw.Run(ctx, out)

	// --------------------
	// Deliver until the sweep ends or a signal arrives
	// --------------------

	var tracker sweep.Tracker
	for res := range out {
		err := res.Err
		if err == nil {
			err = w.Write(res.Regs)
		}

		if tracker.Observe(res.FreqMHz, err) {
			snap := tracker.Snapshot()
			if snap.Health == sweep.HealthOK {
				log.Printf("sweep healthy at %g MHz", snap.LastFreqMHz)
			} else {
				log.Printf("sweep error at %g MHz: %s", snap.LastFreqMHz, snap.LastErrorText)
			}
		} else if err != nil {
			log.Printf("step failed at %g MHz: %v", res.FreqMHz, err)
		}
	}

	snap := tracker.Snapshot()
	log.Printf("sweep stopped: %d steps written, health %s", snap.StepsWritten, snap.Health)
}
