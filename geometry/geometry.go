// Package geometry is the parameter provider: it loads the compile-time-or-
// boot-time constants that size the page-table tree and picks the
// eviction weights, and validates them before anything else in the module
// is allowed to run.
package geometry

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/madhatguy/hpagetable/obslog"
)

// Geometry carries the externally supplied constants that size the
// page-table tree and pick the eviction weights.
type Geometry struct {
	OffsetWidth uint   `json:"offset_width"`
	TablesDepth uint   `json:"tables_depth"`
	NumFrames   uint32 `json:"num_frames"`
	WeightEven  uint32 `json:"weight_even"`
	WeightOdd   uint32 `json:"weight_odd"`

	LogLevel    string `json:"log_level"`
	SwapDBPath  string `json:"swap_db_path"`
	SwapDelayMS uint   `json:"swap_delay_ms"`
}

// PageSize is 2^OffsetWidth: entries per table, words per data page.
func (g Geometry) PageSize() uint32 {
	return 1 << g.OffsetWidth
}

// VirtualAddressWidth is OffsetWidth * (TablesDepth + 1).
func (g Geometry) VirtualAddressWidth() uint {
	return g.OffsetWidth * (g.TablesDepth + 1)
}

// VirtualAddressSpace is 2^VirtualAddressWidth, the exclusive upper bound
// on valid virtual addresses.
func (g Geometry) VirtualAddressSpace() uint64 {
	return 1 << g.VirtualAddressWidth()
}

// ErrGeometryMisconfigured reports a geometry that fails validation.
// Detected at initialization, it is fatal and prevents startup.
var ErrGeometryMisconfigured = fmt.Errorf("geometry misconfigured")

// Validate checks that there are enough frames to ever complete one
// translation: one per table level (the reserved root being the first of
// them), plus the data page.
func (g Geometry) Validate() error {
	if g.OffsetWidth == 0 {
		return fmt.Errorf("%w: offset width must be positive", ErrGeometryMisconfigured)
	}
	if g.TablesDepth == 0 {
		return fmt.Errorf("%w: tables depth must be positive", ErrGeometryMisconfigured)
	}
	minFrames := uint32(g.TablesDepth + 1)
	if g.NumFrames < minFrames {
		return fmt.Errorf("%w: num_frames=%d below minimum %d for tables_depth=%d",
			ErrGeometryMisconfigured, g.NumFrames, minFrames, g.TablesDepth)
	}
	if g.WeightEven == g.WeightOdd {
		return fmt.Errorf("%w: weight_even and weight_odd must differ", ErrGeometryMisconfigured)
	}
	return nil
}

// Load decodes a JSON geometry file, overlays any matching environment
// variables (loaded from path + ".env", e.g. geometry.json.env, if
// present), and
// validates the result.
func Load(path string) (Geometry, error) {
	obslog.Info.Info("loading geometry", "path", path)

	_ = godotenv.Load(path + ".env")

	file, err := os.Open(path)
	if err != nil {
		return Geometry{}, fmt.Errorf("opening geometry file %q: %w", path, err)
	}
	defer file.Close()

	var g Geometry
	if err := json.NewDecoder(file).Decode(&g); err != nil {
		return Geometry{}, fmt.Errorf("decoding geometry file %q: %w", path, err)
	}

	applyEnvOverrides(&g)

	if err := g.Validate(); err != nil {
		obslog.Error.Error("geometry validation failed", "error", err)
		return Geometry{}, err
	}

	obslog.Info.Info("geometry loaded",
		"offset_width", g.OffsetWidth,
		"tables_depth", g.TablesDepth,
		"num_frames", g.NumFrames,
		"page_size", g.PageSize(),
		"virtual_address_width", g.VirtualAddressWidth())

	return g, nil
}

func applyEnvOverrides(g *Geometry) {
	if v, ok := os.LookupEnv("HPAGETABLE_LOG_LEVEL"); ok {
		g.LogLevel = v
	}
	if v, ok := os.LookupEnv("HPAGETABLE_SWAP_DB_PATH"); ok {
		g.SwapDBPath = v
	}
	if v, ok := os.LookupEnv("HPAGETABLE_SWAP_DELAY_MS"); ok {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			g.SwapDelayMS = uint(n)
		}
	}
}
