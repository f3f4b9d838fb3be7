// Package corevm is the translation core: the multi-level walk, the
// on-demand construction of page-table pages, the frame-selection policy
// and the invariants tying them together. Everything else in the module
// is a collaborator the core calls through the interfaces below.
package corevm

//go:generate mockgen -destination mocks/physmem_mock.go -package mocks github.com/madhatguy/hpagetable/corevm PhysicalMemory

import (
	"context"
	"errors"

	"github.com/madhatguy/hpagetable/geometry"
	"github.com/madhatguy/hpagetable/stats"
)

// PhysicalMemory is the physical memory driver contract the translation
// core calls through. Word addresses are frameIndex*PageSize + offset.
type PhysicalMemory interface {
	Read(ctx context.Context, wordAddr uint64) (uint64, error)
	Write(ctx context.Context, wordAddr uint64, value uint64) error
	Evict(ctx context.Context, frameIndex uint32, virtualPage uint64) error
	Restore(ctx context.Context, frameIndex uint32, virtualPage uint64) error
}

// ErrDriverFailure wraps any failure reported by the physical memory
// driver. Driver failures are unrecoverable: the core assumes the driver
// does not fail in normal operation, so it propagates the error to the
// caller rather than retrying.
var ErrDriverFailure = errors.New("physical memory driver failure")

// Core is the translation engine. The root frame (index 0) is reserved and
// assumed zeroed by Initialize before any translation runs.
type Core struct {
	mem   PhysicalMemory
	geo   geometry.Geometry
	stats *stats.Counters
}

// New builds a translation core over a physical memory driver for a given
// geometry. counters may be nil, in which case the core allocates its own.
func New(mem PhysicalMemory, geo geometry.Geometry, counters *stats.Counters) *Core {
	if counters == nil {
		counters = &stats.Counters{}
	}
	return &Core{mem: mem, geo: geo, stats: counters}
}

// Stats exposes the core's metrics counters for read-only inspection.
func (c *Core) Stats() *stats.Counters {
	return c.stats
}

// Initialize zeroes the root page table. Must be called before any
// translation.
func (c *Core) Initialize(ctx context.Context) error {
	return c.clearTable(ctx, 0)
}

// ReadPhysical and WritePhysical pass a resolved physical word address
// straight through to the driver. Client packages call Translate first.
func (c *Core) ReadPhysical(ctx context.Context, wordAddr uint64) (uint64, error) {
	v, err := c.mem.Read(ctx, wordAddr)
	if err != nil {
		return 0, wrapDriverErr(err)
	}
	return v, nil
}

func (c *Core) WritePhysical(ctx context.Context, wordAddr uint64, value uint64) error {
	if err := c.mem.Write(ctx, wordAddr, value); err != nil {
		return wrapDriverErr(err)
	}
	return nil
}

func wrapDriverErr(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrDriverFailure, err)
}
