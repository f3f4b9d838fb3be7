// Package stats is a metrics snapshot for the translation core: counters
// an operator can read without perturbing translation.
package stats

import "sync"

// Counters accumulates translation-core events. Safe for concurrent use;
// the core increments it under whatever lock already serializes
// translation, and tools read it independently.
type Counters struct {
	mu sync.Mutex

	Reads            uint64
	Writes           uint64
	TableAllocations uint64
	TableRecycles    uint64
	Evictions        uint64
	Restores         uint64
	HighWaterMark    uint32
}

// Snapshot is a point-in-time, lock-free copy of Counters for JSON
// serialization and display.
type Snapshot struct {
	Reads            uint64 `json:"reads"`
	Writes           uint64 `json:"writes"`
	TableAllocations uint64 `json:"table_allocations"`
	TableRecycles    uint64 `json:"table_recycles"`
	Evictions        uint64 `json:"evictions"`
	Restores         uint64 `json:"restores"`
	HighWaterMark    uint32 `json:"high_water_mark"`
}

func (c *Counters) IncReads() {
	c.mu.Lock()
	c.Reads++
	c.mu.Unlock()
}

func (c *Counters) IncWrites() {
	c.mu.Lock()
	c.Writes++
	c.mu.Unlock()
}

func (c *Counters) IncTableAllocations() {
	c.mu.Lock()
	c.TableAllocations++
	c.mu.Unlock()
}

func (c *Counters) IncTableRecycles() {
	c.mu.Lock()
	c.TableRecycles++
	c.mu.Unlock()
}

func (c *Counters) IncEvictions() {
	c.mu.Lock()
	c.Evictions++
	c.mu.Unlock()
}

func (c *Counters) IncRestores() {
	c.mu.Lock()
	c.Restores++
	c.mu.Unlock()
}

func (c *Counters) SetHighWaterMark(frame uint32) {
	c.mu.Lock()
	if frame > c.HighWaterMark {
		c.HighWaterMark = frame
	}
	c.mu.Unlock()
}

// Snapshot returns a consistent copy of the current counters.
func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Reads:            c.Reads,
		Writes:           c.Writes,
		TableAllocations: c.TableAllocations,
		TableRecycles:    c.TableRecycles,
		Evictions:        c.Evictions,
		Restores:         c.Restores,
		HighWaterMark:    c.HighWaterMark,
	}
}
