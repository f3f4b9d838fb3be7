// Package physmem is the physical memory driver: word-granular read/write
// into a fixed-size frame array, plus eviction and restore against a
// SQLite-backed secondary store.
package physmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/madhatguy/hpagetable/obslog"
)

// Driver is the concrete physical memory: NumFrames frames of PageSize
// words each, backed by a SQLite-resident secondary store for evicted
// pages. It satisfies corevm.PhysicalMemory.
type Driver struct {
	mu        sync.Mutex
	words     []uint64
	pageSize  uint32
	store     *backingStore
	swapDelay time.Duration
}

// Open builds a Driver sized for numFrames frames of pageSize words,
// backed by a SQLite database at swapDBPath.
func Open(swapDBPath string, numFrames uint32, pageSize uint32) (*Driver, error) {
	store, err := openBackingStore(swapDBPath, pageSize)
	if err != nil {
		return nil, err
	}
	obslog.Info.Info("physical memory opened",
		"num_frames", numFrames, "page_size", pageSize, "swap_db", swapDBPath)
	return &Driver{
		words:    make([]uint64, uint64(numFrames)*uint64(pageSize)),
		pageSize: pageSize,
		store:    store,
	}, nil
}

// SetSwapDelay makes Evict and Restore sleep for delay before touching the
// backing store, to simulate the latency of a real swap device. Zero (the
// default) disables the delay.
func (d *Driver) SetSwapDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.swapDelay = delay
}

func (d *Driver) applySwapDelay(operation string) {
	d.mu.Lock()
	delay := d.swapDelay
	d.mu.Unlock()
	if delay <= 0 {
		return
	}
	obslog.Info.Debug("applying simulated swap delay", "operation", operation, "delay", delay)
	time.Sleep(delay)
}

// Close releases the backing store. vmbench registers it as an atexit
// hook; vminspect defers it.
func (d *Driver) Close() error {
	return d.store.close()
}

// Read returns the word at a physical word address.
func (d *Driver) Read(_ context.Context, wordAddr uint64) (uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if wordAddr >= uint64(len(d.words)) {
		return 0, fmt.Errorf("physical read out of range: %d", wordAddr)
	}
	return d.words[wordAddr], nil
}

// Write stores a word at a physical word address.
func (d *Driver) Write(_ context.Context, wordAddr uint64, value uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if wordAddr >= uint64(len(d.words)) {
		return fmt.Errorf("physical write out of range: %d", wordAddr)
	}
	d.words[wordAddr] = value
	return nil
}

// Evict persists the contents of frameIndex to the backing store under
// virtualPage and does not otherwise disturb the frame's words; the core
// is responsible for detaching the page-table entry that pointed at it.
func (d *Driver) Evict(ctx context.Context, frameIndex uint32, virtualPage uint64) error {
	d.applySwapDelay("evict")

	d.mu.Lock()
	start := uint64(frameIndex) * uint64(d.pageSize)
	page := make([]uint64, d.pageSize)
	copy(page, d.words[start:start+uint64(d.pageSize)])
	d.mu.Unlock()

	obslog.Info.Info("evicting page", "frame", frameIndex, "virtual_page", virtualPage)
	if err := d.store.put(ctx, virtualPage, page); err != nil {
		return fmt.Errorf("evicting frame %d: %w", frameIndex, err)
	}
	return nil
}

// Restore overwrites frameIndex with the backing store's contents for
// virtualPage, or zeros if the page was never evicted.
func (d *Driver) Restore(ctx context.Context, frameIndex uint32, virtualPage uint64) error {
	d.applySwapDelay("restore")

	page, err := d.store.get(ctx, virtualPage)
	if err != nil {
		return fmt.Errorf("restoring frame %d: %w", frameIndex, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	start := uint64(frameIndex) * uint64(d.pageSize)
	copy(d.words[start:start+uint64(d.pageSize)], page)

	obslog.Info.Info("restored page", "frame", frameIndex, "virtual_page", virtualPage)
	return nil
}
