package fuzzing

import (
	"time"

	"github.com/shopspring/decimal"
)

// FuzzerMetrics represents a struct tracking metrics for a Fuzzer run.
type FuzzerMetrics struct {
	// harness is the Harness whose counters are reported.
	harness *Harness

	// startTime describes the time the campaign started.
	startTime time.Time
}

// newFuzzerMetrics obtains a new FuzzerMetrics struct reporting on harness, starting now.
func newFuzzerMetrics(harness *Harness) *FuzzerMetrics {
	return &FuzzerMetrics{
		harness:   harness,
		startTime: time.Now(),
	}
}

// InputsTested returns the amount of inputs that were decoded and compared.
func (m *FuzzerMetrics) InputsTested() uint64 {
	return m.harness.Executed()
}

// InputsSkipped returns the amount of inputs too short to decode.
func (m *FuzzerMetrics) InputsSkipped() uint64 {
	return m.harness.Skipped()
}

// Comparisons returns the amount of oracle comparisons made.
func (m *FuzzerMetrics) Comparisons() uint64 {
	return m.harness.Comparisons()
}

// Elapsed returns the time since the campaign started.
func (m *FuzzerMetrics) Elapsed() time.Duration {
	return time.Since(m.startTime)
}

// Rate returns count divided by the seconds in elapsed, rounded to one decimal place. A zero duration yields zero.
func Rate(count uint64, elapsed time.Duration) decimal.Decimal {
	if elapsed <= 0 {
		return decimal.Zero
	}
	seconds := decimal.NewFromFloat(elapsed.Seconds())
	return decimal.NewFromInt(int64(count)).Div(seconds).Round(1)
}
