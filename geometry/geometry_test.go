package geometry_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/madhatguy/hpagetable/geometry"
)

func TestValidateRejectsZeroOffsetWidth(t *testing.T) {
	g := geometry.Geometry{OffsetWidth: 0, TablesDepth: 1, NumFrames: 4, WeightEven: 1, WeightOdd: 2}
	require.ErrorIs(t, g.Validate(), geometry.ErrGeometryMisconfigured)
}

func TestValidateRejectsZeroTablesDepth(t *testing.T) {
	g := geometry.Geometry{OffsetWidth: 2, TablesDepth: 0, NumFrames: 4, WeightEven: 1, WeightOdd: 2}
	require.ErrorIs(t, g.Validate(), geometry.ErrGeometryMisconfigured)
}

func TestValidateRejectsTooFewFrames(t *testing.T) {
	g := geometry.Geometry{OffsetWidth: 2, TablesDepth: 2, NumFrames: 2, WeightEven: 1, WeightOdd: 2}
	require.ErrorIs(t, g.Validate(), geometry.ErrGeometryMisconfigured)
}

func TestValidateRejectsEqualWeights(t *testing.T) {
	g := geometry.Geometry{OffsetWidth: 2, TablesDepth: 1, NumFrames: 4, WeightEven: 3, WeightOdd: 3}
	require.ErrorIs(t, g.Validate(), geometry.ErrGeometryMisconfigured)
}

func TestValidateAcceptsMinimalValidGeometry(t *testing.T) {
	g := geometry.Geometry{OffsetWidth: 2, TablesDepth: 1, NumFrames: 2, WeightEven: 1, WeightOdd: 2}
	require.NoError(t, g.Validate())
}

func TestDerivedQuantities(t *testing.T) {
	g := geometry.Geometry{OffsetWidth: 4, TablesDepth: 2, NumFrames: 4, WeightEven: 1, WeightOdd: 7}
	require.EqualValues(t, 16, g.PageSize())
	require.EqualValues(t, 12, g.VirtualAddressWidth())
	require.EqualValues(t, 1<<12, g.VirtualAddressSpace())
}

func TestLoadDecodesFileAndAppliesEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geometry.json")

	g := geometry.Geometry{OffsetWidth: 4, TablesDepth: 2, NumFrames: 4, WeightEven: 1, WeightOdd: 7, LogLevel: "info"}
	enc, err := json.Marshal(g)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, enc, 0644))

	t.Setenv("HPAGETABLE_LOG_LEVEL", "debug")
	t.Setenv("HPAGETABLE_SWAP_DB_PATH", filepath.Join(dir, "override.db"))

	loaded, err := geometry.Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", loaded.LogLevel)
	require.Equal(t, filepath.Join(dir, "override.db"), loaded.SwapDBPath)
}

func TestLoadRejectsMisconfiguredGeometry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geometry.json")

	bad := geometry.Geometry{OffsetWidth: 0, TablesDepth: 2, NumFrames: 4, WeightEven: 1, WeightOdd: 7}
	enc, err := json.Marshal(bad)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, enc, 0644))

	_, err = geometry.Load(path)
	require.ErrorIs(t, err, geometry.ErrGeometryMisconfigured)
}
