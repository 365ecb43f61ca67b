package sim

import (
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical scenario
// MUST produce identical traces.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemEstimate draws the jitter applied to issue estimates.
	SubsystemEstimate = "estimate"

	// SubsystemProductivity draws per-period productivity factors.
	SubsystemProductivity = "productivity"
)

// === Stream ===

// Stream is one deterministic sequence of random draws.
type Stream struct {
	rng *rand.Rand
}

// Uniform returns a value in [low, high).
func (s *Stream) Uniform(low, high float64) float64 {
	return low + (high-low)*s.rng.Float64()
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated streams per subsystem so that
// adding draws in one subsystem never shifts the sequence seen by another.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName).
//
// Each simulation owns its own PartitionedRNG; there is no global source.
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*Stream
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*Stream),
	}
}

// ForSubsystem returns the stream for the named subsystem.
// The same subsystem name always returns the same *Stream (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *Stream {
	if s, ok := p.subsystems[name]; ok {
		return s
	}
	derivedSeed := int64(p.key) ^ fnv1a64(name)
	s := &Stream{rng: rand.New(rand.NewSource(derivedSeed))}
	p.subsystems[name] = s
	return s
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
