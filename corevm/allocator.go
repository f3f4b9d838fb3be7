package corevm

import (
	"context"
	"fmt"
)

// allocateFrame picks a frame in priority order: a fresh frame beyond the
// high-water mark, else a recyclable empty intermediate table, else the
// DFS surveyor's eviction victim. avoid is the frame currently holding
// the parent pointer about to be filled in, and must never be returned.
func (c *Core) allocateFrame(ctx context.Context, avoid uint32, virtualPage uint64) (uint32, error) {
	st, err := c.survey(ctx, avoid)
	if err != nil {
		return 0, err
	}
	c.stats.SetHighWaterMark(st.maxUsed)

	if st.maxUsed+1 < c.geo.NumFrames {
		c.stats.SetHighWaterMark(st.maxUsed + 1)
		return st.maxUsed + 1, nil
	}

	if st.haveEmpty {
		if err := c.detach(ctx, st.emptyParentEntry); err != nil {
			return 0, err
		}
		c.stats.IncTableRecycles()
		return st.emptyFrame, nil
	}

	if !st.haveVictim {
		return 0, fmt.Errorf("no frame available: physical memory holds no resident leaf to evict")
	}
	if err := c.evictLeaf(ctx, st.victimFrame, st.victimParentEntry, st.victimVirtualPage); err != nil {
		return 0, err
	}
	return st.victimFrame, nil
}
