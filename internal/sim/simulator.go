// Package sim produces simulated resource telemetry for bot execution units.
//
// There is no real container runtime behind this system; usage numbers are
// drawn from bounded uniform distributions standing in for cgroup readings.
// A real collector can replace Simulator as long as it keeps the same units
// (percent of one allotted core-fraction, MB) and one-decimal precision.
package sim

import (
	"math"
	"math/rand/v2"

	"github.com/edvin/botfarm/internal/model"
)

// Sampling bounds. They sit strictly inside the model's hard ceilings
// (10% CPU, 50MB memory) so the clamp on write is defensive only.
const (
	cpuMin = 1.0
	cpuMax = 9.0
	memMin = 5.0
	memMax = 40.0
)

// Sampler yields one usage reading per call.
type Sampler interface {
	Sample() model.ResourceUsage
}

// Simulator is the default Sampler, backed by math/rand.
type Simulator struct {
	rng *rand.Rand
}

// New creates a Simulator with its own PCG source.
func New() *Simulator {
	return &Simulator{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeeded creates a deterministic Simulator for tests.
func NewSeeded(seed1, seed2 uint64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

func (s *Simulator) Sample() model.ResourceUsage {
	return model.ResourceUsage{
		CPU:    round1(cpuMin + s.rng.Float64()*(cpuMax-cpuMin)),
		Memory: round1(memMin + s.rng.Float64()*(memMax-memMin)),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
