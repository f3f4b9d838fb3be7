package corevm

import "context"

// clearTable writes zero into every entry of frame f.
func (c *Core) clearTable(ctx context.Context, f uint32) error {
	base := uint64(f) * uint64(c.geo.PageSize())
	for i := uint64(0); i < uint64(c.geo.PageSize()); i++ {
		if err := c.mem.Write(ctx, base+i, 0); err != nil {
			return wrapDriverErr(err)
		}
	}
	return nil
}

// linkAndPrepare writes f into the parent entry at parentEntryAddr, then
// either restores f from the backing store (leaf level) or clears it
// (table level) — exactly one of the two, never both.
func (c *Core) linkAndPrepare(ctx context.Context, parentEntryAddr uint64, f uint32, isLeafLevel bool, virtualPage uint64) error {
	if err := c.mem.Write(ctx, parentEntryAddr, uint64(f)); err != nil {
		return wrapDriverErr(err)
	}
	if isLeafLevel {
		if err := c.mem.Restore(ctx, f, virtualPage); err != nil {
			return wrapDriverErr(err)
		}
		c.stats.IncRestores()
		return nil
	}
	c.stats.IncTableAllocations()
	return c.clearTable(ctx, f)
}

// detach writes zero into the parent entry at parentEntryAddr.
func (c *Core) detach(ctx context.Context, parentEntryAddr uint64) error {
	if err := c.mem.Write(ctx, parentEntryAddr, 0); err != nil {
		return wrapDriverErr(err)
	}
	return nil
}

// evictLeaf detaches a resident data-page frame from its parent entry and
// asks the driver to evict it under its current virtual page number.
func (c *Core) evictLeaf(ctx context.Context, frame uint32, parentEntryAddr uint64, virtualPage uint64) error {
	if err := c.detach(ctx, parentEntryAddr); err != nil {
		return err
	}
	if err := c.mem.Evict(ctx, frame, virtualPage); err != nil {
		return wrapDriverErr(err)
	}
	c.stats.IncEvictions()
	return nil
}
