// Package vm is the client API: word read and word write on a virtual
// address, wrapping the translation core with the out-of-range check and
// a coarse outer mutex that serializes concurrent callers.
package vm

import (
	"context"
	"fmt"
	"sync"

	"github.com/madhatguy/hpagetable/corevm"
	"github.com/madhatguy/hpagetable/geometry"
	"github.com/madhatguy/hpagetable/obslog"
	"github.com/madhatguy/hpagetable/stats"
)

// Memory is the client-facing handle onto one translation core instance.
type Memory struct {
	mu   sync.Mutex
	core *corevm.Core
	geo  geometry.Geometry
}

// New wraps a physical memory driver and geometry into a client-ready
// Memory. Initialize must be called before any Read or Write.
func New(mem corevm.PhysicalMemory, geo geometry.Geometry, counters *stats.Counters) *Memory {
	return &Memory{
		core: corevm.New(mem, geo, counters),
		geo:  geo,
	}
}

// Stats exposes the underlying core's metrics counters.
func (m *Memory) Stats() *stats.Counters {
	return m.core.Stats()
}

// Survey runs one read-only DFS pass over the live page-table tree, for
// inspection tooling. It never drives an eviction.
func (m *Memory) Survey(ctx context.Context) (corevm.SurveyResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.core.Survey(ctx)
}

// Initialize zeroes the root page table. Must be called before any
// read/write.
func (m *Memory) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.core.Initialize(ctx)
}

// Read returns the word at virtualAddress. ok is false, with no side
// effects, if virtualAddress is out of range.
func (m *Memory) Read(ctx context.Context, virtualAddress uint64) (value uint64, ok bool, err error) {
	if virtualAddress >= m.geo.VirtualAddressSpace() {
		return 0, false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	physAddr, err := m.core.Translate(ctx, virtualAddress)
	if err != nil {
		obslog.Error.Error("translation failed", "virtual_address", virtualAddress, "error", err)
		return 0, false, fmt.Errorf("translating 0x%x: %w", virtualAddress, err)
	}
	value, err = m.core.ReadPhysical(ctx, physAddr)
	if err != nil {
		return 0, false, fmt.Errorf("reading physical address 0x%x: %w", physAddr, err)
	}
	m.core.Stats().IncReads()
	return value, true, nil
}

// Write stores value at virtualAddress. ok is false, with no side
// effects, if virtualAddress is out of range.
func (m *Memory) Write(ctx context.Context, virtualAddress uint64, value uint64) (ok bool, err error) {
	if virtualAddress >= m.geo.VirtualAddressSpace() {
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	physAddr, err := m.core.Translate(ctx, virtualAddress)
	if err != nil {
		obslog.Error.Error("translation failed", "virtual_address", virtualAddress, "error", err)
		return false, fmt.Errorf("translating 0x%x: %w", virtualAddress, err)
	}
	if err := m.core.WritePhysical(ctx, physAddr, value); err != nil {
		return false, fmt.Errorf("writing physical address 0x%x: %w", physAddr, err)
	}
	m.core.Stats().IncWrites()
	return true, nil
}
