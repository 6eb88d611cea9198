// internal/sweep/status.go
package sweep

// ---- HEALTH CODES ----

// Health is the sweep's delivery state as seen by the daemon.
type Health uint8

const (
	HealthUnknown Health = iota // boot, nothing written yet
	HealthOK
	HealthError
)

func (h Health) String() string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	}
	return "unknown"
}

// Snapshot is the current delivery state. It holds no history beyond the
// counters.
type Snapshot struct {
	Health        Health
	LastFreqMHz   float64
	StepsInError  uint32
	StepsWritten  uint64
	LastErrorText string
}

// Tracker folds per-step outcomes into a Snapshot.
type Tracker struct {
	snap Snapshot
}

// Observe records the outcome of one step: err is the solve or write
// error, nil on success. It reports whether Health changed, which is when
// the daemon logs.
func (t *Tracker) Observe(freqMHz float64, err error) bool {
	prev := t.snap.Health
	t.snap.LastFreqMHz = freqMHz

	if err == nil {
		t.snap.Health = HealthOK
		t.snap.StepsWritten++
		t.snap.StepsInError = 0
		t.snap.LastErrorText = ""
		return prev != HealthOK
	}

	t.snap.Health = HealthError
	if t.snap.StepsInError < ^uint32(0) {
		t.snap.StepsInError++
	}
	t.snap.LastErrorText = err.Error()
	return prev != HealthError
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot { return t.snap }
