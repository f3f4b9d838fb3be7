// Command vminspect is a read-only terminal inspector: it loads a geometry
// file, opens its backing store, builds and initializes its own Memory
// over a fresh in-process frame array, and renders the DFS surveyor's
// high-water mark and current candidates plus the metrics counters,
// refreshed on a timer, in the same gocui layout style the rest of the
// example pack uses for its emulator consoles. It does not attach to the
// physical memory of another running process.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/jroimartin/gocui"

	"github.com/madhatguy/hpagetable/corevm"
	"github.com/madhatguy/hpagetable/geometry"
	"github.com/madhatguy/hpagetable/obslog"
	"github.com/madhatguy/hpagetable/physmem"
	"github.com/madhatguy/hpagetable/vm"
)

func main() {
	geometryPath := flag.String("geometry", "geometry.json", "path to a geometry JSON file")
	flag.Parse()

	geo, err := geometry.Load(*geometryPath)
	if err != nil {
		log.Fatalf("loading geometry: %v", err)
	}
	obslog.Init(geo.LogLevel, "vminspect")

	driver, err := physmem.Open(geo.SwapDBPath, geo.NumFrames, geo.PageSize())
	if err != nil {
		log.Fatalf("opening physical memory: %v", err)
	}
	defer func() {
		if err := driver.Close(); err != nil {
			obslog.Error.Error("closing physical memory driver", "error", err)
		}
	}()

	m := vm.New(driver, geo, nil)
	if err := m.Initialize(context.Background()); err != nil {
		log.Fatalf("initializing memory: %v", err)
	}

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Panicln("couldn't create gui")
	}
	defer g.Close()

	g.SetManagerFunc(layout)
	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		log.Panicln(err)
	}

	refreshSurvey(m, g)

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
}

// refreshSurvey polls the DFS surveyor on a timer and repaints the
// "survey" view. gocui only allows view mutation from inside g.Execute/
// g.Update, so the ticker runs in its own goroutine.
func refreshSurvey(m *vm.Memory, g *gocui.Gui) {
	ticker := time.NewTicker(time.Second)
	go func() {
		for range ticker.C {
			result, err := m.Survey(context.Background())
			snap := m.Stats().Snapshot()
			g.Update(func(g *gocui.Gui) error {
				v, err2 := g.View("survey")
				if err2 != nil {
					return err2
				}
				v.Clear()
				if err != nil {
					fmt.Fprintf(v, "survey failed: %v\n", err)
					return nil
				}
				fmt.Fprintf(v, "high water mark:   frame %d\n", result.MaxUsed)
				fmt.Fprintf(v, "empty table:        %s\n", emptyTableLine(result))
				fmt.Fprintf(v, "eviction candidate: %s\n", victimLine(result))
				fmt.Fprintln(v)
				fmt.Fprintf(v, "reads=%d writes=%d allocations=%d recycles=%d evictions=%d restores=%d\n",
					snap.Reads, snap.Writes, snap.TableAllocations, snap.TableRecycles, snap.Evictions, snap.Restores)
				return nil
			})
		}
	}()
}

func emptyTableLine(r corevm.SurveyResult) string {
	if !r.HasEmptyTable {
		return "none"
	}
	return fmt.Sprintf("frame %d", r.EmptyTableFrame)
}

func victimLine(r corevm.SurveyResult) string {
	if !r.HasVictim {
		return "none"
	}
	return fmt.Sprintf("frame %d (vpn %d, score %d)", r.VictimFrame, r.VictimVirtualPage, r.VictimScore)
}

func layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	if v, err := g.SetView("survey", 0, 0, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "DFS surveyor (read-only, refreshes every second)"
		v.Wrap = true
	}
	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
