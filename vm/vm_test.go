package vm_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/madhatguy/hpagetable/geometry"
	"github.com/madhatguy/hpagetable/physmem"
	"github.com/madhatguy/hpagetable/vm"
)

// scenarioGeometry is a small, worked-example geometry: OFFSET_WIDTH=4,
// TABLES_DEPTH=2, PAGE_SIZE=16, NUM_FRAMES=4.
func scenarioGeometry() geometry.Geometry {
	return geometry.Geometry{
		OffsetWidth: 4,
		TablesDepth: 2,
		NumFrames:   4,
		WeightEven:  1,
		WeightOdd:   7,
	}
}

func newTestMemory(t *testing.T) *vm.Memory {
	t.Helper()
	geo := scenarioGeometry()
	require.NoError(t, geo.Validate())

	dbPath := filepath.Join(t.TempDir(), "swap.db")
	driver, err := physmem.Open(dbPath, geo.NumFrames, geo.PageSize())
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })

	m := vm.New(driver, geo, nil)
	require.NoError(t, m.Initialize(context.Background()))
	return m
}

func TestWriteThenImmediateRead(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	ok, err := m.Write(ctx, 13, 7)
	require.NoError(t, err)
	require.True(t, ok)

	value, ok, err := m.Read(ctx, 13)
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 7, value)
}

func TestTwoDistinctLeaves(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	ok, err := m.Write(ctx, 13, 3)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = m.Write(ctx, 31, 5)
	require.NoError(t, err)
	require.True(t, ok)

	value, ok, err := m.Read(ctx, 13)
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 3, value)

	value, ok, err = m.Read(ctx, 31)
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 5, value)
}

func TestRepeatedEvictionRoundTripsThroughBackingStore(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	for v := uint64(0); v < 256; v++ {
		ok, err := m.Write(ctx, v, v)
		require.NoError(t, err)
		require.True(t, ok)
	}

	value, ok, err := m.Read(ctx, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 0, value)

	snap := m.Stats().Snapshot()
	require.Greater(t, snap.Evictions, uint64(0), "16 pages over 4 frames must force eviction")
	require.Greater(t, snap.Restores, uint64(0))
}

func TestHighAddressWithinRange(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	ok, err := m.Write(ctx, 4095, 42)
	require.NoError(t, err)
	require.True(t, ok)

	value, ok, err := m.Read(ctx, 4095)
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 42, value)
}

func TestOutOfRangeAddressFails(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	value, ok, err := m.Read(ctx, 4096)
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, value)

	snap := m.Stats().Snapshot()
	require.Zero(t, snap.Reads, "out-of-range access must have no side effects")
}

func TestFillsMoreDataPagesThanFramesKeepsFirstPageReadable(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	writes := []struct {
		addr, value uint64
	}{
		{0, 1}, {16, 2}, {32, 3}, {48, 4},
	}
	for _, w := range writes {
		ok, err := m.Write(ctx, w.addr, w.value)
		require.NoError(t, err)
		require.True(t, ok)
	}

	value, ok, err := m.Read(ctx, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 1, value)
}
