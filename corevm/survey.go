package corevm

import "context"

// surveyState accumulates the results of one DFS pass over the live
// page-table tree: the high-water mark, an empty intermediate table
// eligible for recycling, and the best eviction candidate, all computed
// in a single traversal.
type surveyState struct {
	avoid uint32

	maxUsed uint32

	haveEmpty        bool
	emptyFrame       uint32
	emptyParentEntry uint64

	haveVictim        bool
	victimScore       uint32
	victimFrame       uint32
	victimParentEntry uint64
	victimVirtualPage uint64
}

// survey runs the DFS surveyor rooted at frame 0, excluding avoid from
// empty-table recycling (the frame currently holding the pointer the
// allocator is about to fill in).
func (c *Core) survey(ctx context.Context, avoid uint32) (*surveyState, error) {
	st := &surveyState{avoid: avoid}
	if _, err := c.surveyNode(ctx, st, 0, 0, 0, 0); err != nil {
		return nil, err
	}
	return st, nil
}

// surveyNode visits one frame of the tree. Its boolean return means
// different things depending on the caller's depth: for a node one level
// above the leaves, it means "this leaf just became the best eviction
// candidate"; for any other intermediate node, it means "this table is
// empty and recyclable". The caller knows which applies from its own
// depth, exactly as the two cases never overlap in a single traversal.
func (c *Core) surveyNode(ctx context.Context, st *surveyState, frame uint32, curScore uint32, vpnPrefix uint64, depth uint) (bool, error) {
	nodeWeight := c.geo.WeightEven
	if frame%2 == 1 {
		nodeWeight = c.geo.WeightOdd
	}

	if depth == c.geo.TablesDepth {
		leafWeight := c.geo.WeightEven
		if vpnPrefix%2 == 1 {
			leafWeight = c.geo.WeightOdd
		}
		score := curScore + nodeWeight + leafWeight
		if !st.haveVictim || score > st.victimScore || (score == st.victimScore && vpnPrefix < st.victimVirtualPage) {
			st.victimScore = score
			st.haveVictim = true
			return true, nil
		}
		return false, nil
	}

	isEmpty := true
	base := uint64(frame) * uint64(c.geo.PageSize())
	for i := uint32(0); i < c.geo.PageSize(); i++ {
		entryAddr := base + uint64(i)
		child, err := c.mem.Read(ctx, entryAddr)
		if err != nil {
			return false, wrapDriverErr(err)
		}
		if child == 0 {
			continue
		}
		isEmpty = false

		childFrame := uint32(child)
		if childFrame > st.maxUsed {
			st.maxUsed = childFrame
		}
		childVPN := (vpnPrefix << c.geo.OffsetWidth) | uint64(i)

		signal, err := c.surveyNode(ctx, st, childFrame, curScore+nodeWeight, childVPN, depth+1)
		if err != nil {
			return false, err
		}
		if !signal {
			continue
		}
		if depth+1 == c.geo.TablesDepth {
			st.victimFrame = childFrame
			st.victimParentEntry = entryAddr
			st.victimVirtualPage = childVPN
		} else {
			st.emptyFrame = childFrame
			st.emptyParentEntry = entryAddr
			st.haveEmpty = true
		}
	}

	return isEmpty && frame != st.avoid, nil
}

// SurveyResult is the read-only view of a DFS pass exposed to inspection
// tooling. It never drives an eviction itself.
type SurveyResult struct {
	MaxUsed           uint32
	HasEmptyTable     bool
	EmptyTableFrame   uint32
	HasVictim         bool
	VictimFrame       uint32
	VictimScore       uint32
	VictimVirtualPage uint64
}

// Survey exposes a single DFS pass for read-only tooling (cmd/vminspect),
// using frame 0 as the avoid parameter since no allocation is in flight.
func (c *Core) Survey(ctx context.Context) (SurveyResult, error) {
	st, err := c.survey(ctx, 0)
	if err != nil {
		return SurveyResult{}, err
	}
	return SurveyResult{
		MaxUsed:           st.maxUsed,
		HasEmptyTable:     st.haveEmpty,
		EmptyTableFrame:   st.emptyFrame,
		HasVictim:         st.haveVictim,
		VictimFrame:       st.victimFrame,
		VictimScore:       st.victimScore,
		VictimVirtualPage: st.victimVirtualPage,
	}, nil
}
