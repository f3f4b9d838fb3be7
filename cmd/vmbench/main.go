// Command vmbench replays a set of worked scenarios against a fresh
// translation core and reports whether each one holds, driven from a
// JSON configuration file and a small set of CLI verbs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/xid"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/madhatguy/hpagetable/geometry"
	"github.com/madhatguy/hpagetable/obslog"
	"github.com/madhatguy/hpagetable/physmem"
	"github.com/madhatguy/hpagetable/vm"
)

var geometryPath string

func main() {
	root := &cobra.Command{
		Use:   "vmbench",
		Short: "Replay the translation core's worked scenarios against a geometry file",
	}
	root.PersistentFlags().StringVar(&geometryPath, "geometry", "geometry.json", "path to a geometry JSON file")

	root.AddCommand(runCmd(), statsCmd(), listCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [scenario]",
		Short: "Run one named scenario, or every scenario if none is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := xid.New().String()
			obslog.Info.Info("vmbench run starting", "run_id", runID)

			m, cleanup, err := newMemory()
			if err != nil {
				return err
			}
			atexit.Register(cleanup)

			ctx := context.Background()
			targets := scenarios
			if len(args) == 1 {
				s, ok := findScenario(args[0])
				if !ok {
					return fmt.Errorf("unknown scenario %q", args[0])
				}
				targets = []scenario{s}
			}

			failed := 0
			for _, s := range targets {
				if err := s.run(ctx, m); err != nil {
					fmt.Printf("FAIL %-28s %s: %v\n", s.name, s.description, err)
					failed++
					continue
				}
				fmt.Printf("PASS %-28s %s\n", s.name, s.description)
			}

			snap := m.Stats().Snapshot()
			enc, _ := json.MarshalIndent(snap, "", "  ")
			fmt.Println(string(enc))

			if failed > 0 {
				return fmt.Errorf("%d scenario(s) failed", failed)
			}
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Run every scenario and print the resulting metrics snapshot as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, cleanup, err := newMemory()
			if err != nil {
				return err
			}
			atexit.Register(cleanup)

			ctx := context.Background()
			for _, s := range scenarios {
				if err := s.run(ctx, m); err != nil {
					obslog.Error.Error("scenario failed during stats run", "scenario", s.name, "error", err)
				}
			}

			enc, err := json.MarshalIndent(m.Stats().Snapshot(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(enc))
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available scenario names",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range scenarios {
				fmt.Printf("%-28s %s\n", s.name, s.description)
			}
			return nil
		},
	}
}

// newMemory loads the configured geometry, opens a physical memory driver
// backed by the SQLite file named by swap_db_path (or vmbench-swap.db next
// to the geometry file when that is empty), and wires up a fresh
// client-facing Memory. The SQLite file is not removed afterwards. The
// returned cleanup closes the driver; the caller registers it with atexit.
func newMemory() (*vm.Memory, func(), error) {
	geo, err := geometry.Load(geometryPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading geometry: %w", err)
	}
	obslog.Init(geo.LogLevel, "vmbench")

	dbPath := geo.SwapDBPath
	if dbPath == "" {
		dbPath = filepath.Join(filepath.Dir(geometryPath), "vmbench-swap.db")
	}
	driver, err := physmem.Open(dbPath, geo.NumFrames, geo.PageSize())
	if err != nil {
		return nil, nil, fmt.Errorf("opening physical memory: %w", err)
	}
	if geo.SwapDelayMS > 0 {
		driver.SetSwapDelay(time.Duration(geo.SwapDelayMS) * time.Millisecond)
	}

	m := vm.New(driver, geo, nil)
	if err := m.Initialize(context.Background()); err != nil {
		_ = driver.Close()
		return nil, nil, fmt.Errorf("initializing memory: %w", err)
	}

	return m, func() {
		if err := driver.Close(); err != nil {
			obslog.Error.Error("closing physical memory driver", "error", err)
		}
	}, nil
}
