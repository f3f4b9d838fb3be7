package corevm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/madhatguy/hpagetable/corevm"
	"github.com/madhatguy/hpagetable/corevm/mocks"
	"github.com/madhatguy/hpagetable/geometry"
	"github.com/madhatguy/hpagetable/stats"
)

func tinyGeometry() geometry.Geometry {
	return geometry.Geometry{OffsetWidth: 2, TablesDepth: 1, NumFrames: 3, WeightEven: 1, WeightOdd: 5}
}

// wireFakeWords backs a MockPhysicalMemory with a plain map so the mock still
// records every call (and lets tests assert on Evict/Restore invocations)
// without hand-scripting the exact Read/Write sequence the DFS surveyor
// issues.
func wireFakeWords(mem *mocks.MockPhysicalMemory) map[uint64]uint64 {
	words := make(map[uint64]uint64)
	mem.EXPECT().Read(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, addr uint64) (uint64, error) {
			return words[addr], nil
		}).AnyTimes()
	mem.EXPECT().Write(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, addr, value uint64) error {
			words[addr] = value
			return nil
		}).AnyTimes()
	return words
}

func TestTranslateAllocatesFreshFrameAndRestoresLeaf(t *testing.T) {
	ctrl := gomock.NewController(t)
	mem := mocks.NewMockPhysicalMemory(ctrl)
	wireFakeWords(mem)

	geo := tinyGeometry()
	mem.EXPECT().Restore(gomock.Any(), uint32(1), uint64(2)).Return(nil).Times(1)

	core := corevm.New(mem, geo, &stats.Counters{})
	require.NoError(t, core.Initialize(context.Background()))

	// vaddr 9 = 0b1001: offset bits (low 2) = 1, vpn = 2, slice at the
	// single table level = 2.
	phys, err := core.Translate(context.Background(), 9)
	require.NoError(t, err)
	require.EqualValues(t, 1*4+1, phys)

	snap := core.Stats().Snapshot()
	require.EqualValues(t, 1, snap.Restores)
	require.EqualValues(t, 1, snap.HighWaterMark)
}

func TestTranslateNeverReturnsTheFrameHoldingItsOwnParentEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	mem := mocks.NewMockPhysicalMemory(ctrl)
	wireFakeWords(mem)
	mem.EXPECT().Restore(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mem.EXPECT().Evict(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	geo := tinyGeometry()
	core := corevm.New(mem, geo, &stats.Counters{})
	require.NoError(t, core.Initialize(context.Background()))

	// Exhaust every frame beyond the root (NumFrames=3: frames 1 and 2
	// available) with distinct leaves, then fault a third time to force
	// eviction. No resulting translation should ever resolve into frame 0,
	// the reserved root.
	ctx := context.Background()
	for _, vaddr := range []uint64{0, 4, 8} {
		phys, err := core.Translate(ctx, vaddr)
		require.NoError(t, err)
		frame := uint32(phys / uint64(geo.PageSize()))
		require.NotZero(t, frame)
	}

	snap := core.Stats().Snapshot()
	require.GreaterOrEqual(t, snap.Evictions, uint64(1))
}
