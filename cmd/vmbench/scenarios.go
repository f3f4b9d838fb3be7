package main

import (
	"context"
	"fmt"

	"github.com/madhatguy/hpagetable/vm"
)

// scenario is a worked example: a scripted sequence of reads and writes
// against a Memory, checked against the expected outcome at each step.
// The run and stats commands initialize one Memory and run the selected
// scenarios on it in sequence, so later scenarios see the state (page
// tables, resident pages, counters) the earlier ones left behind.
type scenario struct {
	name        string
	description string
	run         func(ctx context.Context, m *vm.Memory) error
}

var scenarios = []scenario{
	{
		name:        "write-then-read",
		description: "a write immediately followed by a read of the same address returns the written value",
		run: func(ctx context.Context, m *vm.Memory) error {
			if ok, err := m.Write(ctx, 13, 7); err != nil || !ok {
				return fmt.Errorf("write: ok=%v err=%w", ok, err)
			}
			value, ok, err := m.Read(ctx, 13)
			if err != nil || !ok || value != 7 {
				return fmt.Errorf("read back: value=%d ok=%v err=%w", value, ok, err)
			}
			return nil
		},
	},
	{
		name:        "two-distinct-leaves",
		description: "writes to two addresses under different leaves do not clobber each other",
		run: func(ctx context.Context, m *vm.Memory) error {
			if ok, err := m.Write(ctx, 13, 3); err != nil || !ok {
				return fmt.Errorf("write 13: ok=%v err=%w", ok, err)
			}
			if ok, err := m.Write(ctx, 31, 5); err != nil || !ok {
				return fmt.Errorf("write 31: ok=%v err=%w", ok, err)
			}
			v1, ok1, err1 := m.Read(ctx, 13)
			if err1 != nil || !ok1 || v1 != 3 {
				return fmt.Errorf("read 13: value=%d ok=%v err=%w", v1, ok1, err1)
			}
			v2, ok2, err2 := m.Read(ctx, 31)
			if err2 != nil || !ok2 || v2 != 5 {
				return fmt.Errorf("read 31: value=%d ok=%v err=%w", v2, ok2, err2)
			}
			return nil
		},
	},
	{
		name:        "eviction-round-trip",
		description: "writing far more pages than frames forces eviction, and the earliest page still reads back correctly",
		run: func(ctx context.Context, m *vm.Memory) error {
			for v := uint64(0); v < 256; v++ {
				if ok, err := m.Write(ctx, v, v); err != nil || !ok {
					return fmt.Errorf("write %d: ok=%v err=%w", v, ok, err)
				}
			}
			value, ok, err := m.Read(ctx, 0)
			if err != nil || !ok || value != 0 {
				return fmt.Errorf("read back page 0: value=%d ok=%v err=%w", value, ok, err)
			}
			return nil
		},
	},
	{
		name:        "high-address",
		description: "the highest in-range word address resolves and round-trips",
		run: func(ctx context.Context, m *vm.Memory) error {
			if ok, err := m.Write(ctx, 4095, 42); err != nil || !ok {
				return fmt.Errorf("write: ok=%v err=%w", ok, err)
			}
			value, ok, err := m.Read(ctx, 4095)
			if err != nil || !ok || value != 42 {
				return fmt.Errorf("read back: value=%d ok=%v err=%w", value, ok, err)
			}
			return nil
		},
	},
	{
		name:        "out-of-range",
		description: "an address past the virtual address space reports ok=false with no side effects",
		run: func(ctx context.Context, m *vm.Memory) error {
			readsBefore := m.Stats().Snapshot().Reads
			value, ok, err := m.Read(ctx, 4096)
			if err != nil || ok || value != 0 {
				return fmt.Errorf("expected ok=false value=0, got value=%d ok=%v err=%w", value, ok, err)
			}
			if m.Stats().Snapshot().Reads != readsBefore {
				return fmt.Errorf("out-of-range read must not increment the reads counter")
			}
			return nil
		},
	},
	{
		name:        "forced-eviction-first-page",
		description: "writing four distinct pages, more than the frames left for data pages, forces eviction and the first page still reads back",
		run: func(ctx context.Context, m *vm.Memory) error {
			for _, addr := range []uint64{0, 16, 32, 48} {
				if ok, err := m.Write(ctx, addr, addr/16+1); err != nil || !ok {
					return fmt.Errorf("write %d: ok=%v err=%w", addr, ok, err)
				}
			}
			value, ok, err := m.Read(ctx, 0)
			if err != nil || !ok || value != 1 {
				return fmt.Errorf("read back page 0: value=%d ok=%v err=%w", value, ok, err)
			}
			return nil
		},
	},
}

func findScenario(name string) (scenario, bool) {
	for _, s := range scenarios {
		if s.name == name {
			return s, true
		}
	}
	return scenario{}, false
}
