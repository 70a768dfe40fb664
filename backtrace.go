// Copyright © 2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package sigalign

import "sort"

// backtraceSide names which side of an anchor a wavefront was expanded
// into. spec.md §9 notes the left and right backtrace routines are
// near-duplicates; this package unifies them behind this flag instead
// of carrying two copies.
type backtraceSide uint8

const (
	SideLeft backtraceSide = iota
	SideRight
)

// BackTraceResult summarizes one side's reconstructed extension: how
// long it is (query bases consumed plus target-only Insertion steps,
// i.e. Fr - k + Dels of the endpoint cell) and what penalty it
// cost, mirroring the original's BackTraceResult.
type BackTraceResult struct {
	LengthOfExtension  uint32
	PenaltyOfExtension uint32
}

// TraversedAnchor names an anchor table entry that this backtrace
// walked straight through: its pattern slot and target position, the
// cumulative penalty spent reaching it, and whether the driver should
// now mark it Skipped so it is never independently re-extended.
// Grounded on original_source's wave_front/backtrace.rs TraversedAnchor
// (SPEC_FULL.md §12.3).
type TraversedAnchor struct {
	PatternIndex    uint32
	TargetPosition  uint32
	CumPenaltyDelta int64
	ToSkip          bool
}

// Backtrace reconstructs the operations of the side extension ending at
// wavefront cell (s, k, M), appending them (in the order the backward
// walk discovers them — the reverse of genomic order for this side) to
// ops, and reports any anchor-table entries this side's alignment path
// passes straight through via traversed. anchorTable/baseTargetPosition
// together let the walk translate (penalty, query offset) pairs along
// the path into (pattern index, target position) lookups.
func Backtrace(
	wf *WaveFront,
	s uint32,
	k int32,
	penalty Penalty,
	patternSize uint32,
	anchorTable *AnchorTable,
	basePatternIndex uint32,
	baseTargetPosition uint32,
	side backtraceSide,
	ops *AlignmentOperations,
	traversed *[]TraversedAnchor,
) BackTraceResult {
	cell := wf.Get(s, k, CompM)
	result := BackTraceResult{
		LengthOfExtension:  uint32(cell.Fr - k + cell.Dels),
		PenaltyOfExtension: s,
	}

	curS, curK, curComp := s, k, CompM
	for {
		switch curComp {
		case CompM:
			c := wf.Get(curS, curK, CompM)
			if c.Bt == BtStart {
				ops.AddN(OpMatch, uint32(c.Fr))
				checkTraversedAnchor(anchorTable, patternSize, basePatternIndex, baseTargetPosition, side,
					0, 0, int64(curS), traversed)
				return result
			}
			qOff := c.Fr - curK
			checkTraversedAnchor(anchorTable, patternSize, basePatternIndex, baseTargetPosition, side,
				qOff, c.Fr, int64(curS), traversed)
			switch c.Bt {
			case BtFromM:
				src := wf.Get(curS-penalty.Mismatch, curK, CompM)
				raw := src.Fr + 1
				if ml := c.Fr - raw; ml > 0 {
					ops.AddN(OpMatch, uint32(ml))
				}
				ops.AddN(OpSubst, 1)
				curS, curK, curComp = curS-penalty.Mismatch, curK, CompM
			case BtFromI:
				srcI := wf.Get(curS, curK, CompI)
				if ml := c.Fr - srcI.Fr; ml > 0 {
					ops.AddN(OpMatch, uint32(ml))
				}
				curComp = CompI
			case BtFromD:
				srcD := wf.Get(curS, curK, CompD)
				if ml := c.Fr - srcD.Fr; ml > 0 {
					ops.AddN(OpMatch, uint32(ml))
				}
				curComp = CompD
			}
		case CompI:
			c := wf.Get(curS, curK, CompI)
			ops.AddN(OpInsertion, 1)
			switch c.Bt {
			case BtFromM:
				curS, curK, curComp = curS-penalty.GapOpen-penalty.GapExtend, curK-1, CompM
			default:
				curS, curK, curComp = curS-penalty.GapExtend, curK-1, CompI
			}
		case CompD:
			c := wf.Get(curS, curK, CompD)
			ops.AddN(OpDeletion, 1)
			switch c.Bt {
			case BtFromM:
				curS, curK, curComp = curS-penalty.GapOpen-penalty.GapExtend, curK+1, CompM
			default:
				curS, curK, curComp = curS-penalty.GapExtend, curK+1, CompD
			}
		}
	}
}

// checkTraversedAnchor tests whether the walk's current point (an M
// cell reached at diagonal k, target offset h, query offset qOff, and
// cumulative penalty s) coincides with a pattern-aligned anchor already
// present in anchorTable, per spec.md §4.5's
// q_next = ceil(q0/patternSize) * patternSize alignment check. A match
// means this extension has already covered that anchor end to end, so
// it is recorded (and later marked Skipped by the driver) instead of
// being independently re-extended.
func checkTraversedAnchor(
	anchorTable *AnchorTable,
	patternSize uint32,
	basePatternIndex uint32,
	baseTargetPosition uint32,
	side backtraceSide,
	qOff, h int32,
	cumPenalty int64,
	traversed *[]TraversedAnchor,
) {
	if anchorTable == nil || qOff <= 0 || uint32(qOff)%patternSize != 0 {
		return
	}
	steps := uint32(qOff) / patternSize

	var patternIndex, targetPosition uint32
	switch side {
	case SideRight:
		patternIndex = basePatternIndex + steps
		targetPosition = baseTargetPosition + uint32(h)
	case SideLeft:
		if steps > basePatternIndex {
			return
		}
		patternIndex = basePatternIndex - steps
		if uint32(h) > baseTargetPosition {
			return
		}
		targetPosition = baseTargetPosition - uint32(h)
	}

	if int(patternIndex) >= anchorTable.PatternCount() {
		return
	}
	slot := anchorTable.Slot(int(patternIndex))
	i := sort.Search(len(slot), func(k int) bool { return slot[k].TargetPosition >= targetPosition })
	if i < len(slot) && slot[i].TargetPosition == targetPosition && !slot[i].Extended {
		*traversed = append(*traversed, TraversedAnchor{
			PatternIndex:    patternIndex,
			TargetPosition:  targetPosition,
			CumPenaltyDelta: cumPenalty,
			ToSkip:          true,
		})
	}
}
