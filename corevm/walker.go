package corevm

import (
	"context"
	"fmt"
)

// Translate resolves a virtual address to a physical word address,
// descending the radix tree one level per address slice and installing
// whatever is missing along the way. The caller is responsible for the
// out-of-range check; Translate assumes virtualAddress already fits
// within the configured address width.
func (c *Core) Translate(ctx context.Context, virtualAddress uint64) (uint64, error) {
	pageSize := uint64(c.geo.PageSize())
	currentFrame := uint32(0)

	for level := uint(0); level < c.geo.TablesDepth; level++ {
		shift := (c.geo.TablesDepth - level) * c.geo.OffsetWidth
		slice := (virtualAddress >> shift) & uint64(c.geo.PageSize()-1)
		entryAddr := uint64(currentFrame)*pageSize + slice

		entry, err := c.mem.Read(ctx, entryAddr)
		if err != nil {
			return 0, wrapDriverErr(err)
		}

		if entry == 0 {
			isLeafLevel := level+1 == c.geo.TablesDepth
			virtualPage := virtualAddress >> c.geo.OffsetWidth

			frame, err := c.allocateFrame(ctx, currentFrame, virtualPage)
			if err != nil {
				return 0, err
			}
			if frame == currentFrame {
				// The allocator contract forbids this; guard against a
				// corrupted invariant 3 rather than silently looping.
				return 0, fmt.Errorf("allocator returned the frame holding its own parent entry: %d", frame)
			}
			if err := c.linkAndPrepare(ctx, entryAddr, frame, isLeafLevel, virtualPage); err != nil {
				return 0, err
			}
			entry = uint64(frame)
		}

		currentFrame = uint32(entry)
	}

	offset := virtualAddress & uint64(c.geo.PageSize()-1)
	return uint64(currentFrame)*pageSize + offset, nil
}
