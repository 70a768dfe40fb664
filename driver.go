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

import "sync"

// BufferedPatternLocator is the external, caller-supplied exact-match
// index (spec.md §6): given a pattern_size-length pattern, it returns
// the ascending, deduplicated positions in the currently loaded target
// buffer where that pattern occurs exactly. Building the production
// version of this (an FM-index or suffix array) is explicitly out of
// scope (§1 Non-goals); locator/ provides two concrete implementations.
type BufferedPatternLocator interface {
	Locate(pattern []byte) []uint32
}

// AlignmentMode selects whether extension must consume the whole
// remaining query/target on each side (SemiGlobal) or may stop wherever
// the VPC selection finds the best cutoff-satisfying endpoint (Local).
type AlignmentMode uint8

const (
	ModeSemiGlobal AlignmentMode = iota
	ModeLocal
)

// AnchorAlignmentResult is one reported alignment: where it starts on
// query and target, its total length and penalty, and its operations.
type AnchorAlignmentResult struct {
	Penalty        uint32
	Length         uint32
	QueryPosition  uint32
	TargetPosition uint32
	Operations     *AlignmentOperations
}

// Comparable projects an AnchorAlignmentResult into a value usable with
// Go's == and as a map key, for tests that want to compare results
// independent of which *AlignmentOperations instance produced them.
// Grounded on original_source's to_cmp helpers (SPEC_FULL.md §12.2).
type Comparable struct {
	Penalty        uint32
	Length         uint32
	QueryPosition  uint32
	TargetPosition uint32
	Operations     string
}

// Comparable returns r's comparable projection.
func (r AnchorAlignmentResult) Comparable() Comparable {
	ops := ""
	if r.Operations != nil {
		ops = r.Operations.String()
	}
	return Comparable{
		Penalty:        r.Penalty,
		Length:         r.Length,
		QueryPosition:  r.QueryPosition,
		TargetPosition: r.TargetPosition,
		Operations:     ops,
	}
}

// QueryAlignment is every reported alignment of one query against one
// target buffer.
type QueryAlignment []AnchorAlignmentResult

// TargetAlignment pairs a target's index (as the caller numbers its own
// target collection) with the alignments found against it. The package
// does not orchestrate multi-target batching itself (spec.md §1
// Non-goals); TargetAlignment exists so a caller looping over targets
// has a natural place to collect results.
type TargetAlignment struct {
	TargetIndex uint32
	Alignments  QueryAlignment
}

// Aligner bundles every scratch buffer the extension driver needs for
// one (query, target) pair, so it can be pooled and reused exactly the
// way the teacher pools its own Aligner (wfa.go). AdaptiveReduction is
// nil unless the caller explicitly opts into the heuristic (SPEC_FULL.md
// §12.4).
type Aligner struct {
	Regulator *Regulator

	sparePenalty *SparePenaltyCalculator
	anchorTable  *AnchorTable
	leftWF       *WaveFront
	rightWF      *WaveFront
	frontier     *VpcFrontier
	traversed    []TraversedAnchor
	leftOps      *AlignmentOperations
	rightOps     *AlignmentOperations

	leftQueryBuf  []byte
	leftTargetBuf []byte

	AdaptiveReduction *AdaptiveReductionOption
}

var poolAligner = &sync.Pool{New: func() interface{} {
	return &Aligner{
		anchorTable: NewAnchorTable(),
		leftWF:      NewWaveFront(),
		rightWF:     NewWaveFront(),
		frontier:    NewVpcFrontier(),
		leftOps:     NewAlignmentOperations(),
		rightOps:    NewAlignmentOperations(),
	}
}}

// NewAligner returns an Aligner from the object pool, bound to
// regulator. Call RecycleAligner when done.
func NewAligner(regulator *Regulator) *Aligner {
	al := poolAligner.Get().(*Aligner)
	al.Regulator = regulator
	al.sparePenalty = NewSparePenaltyCalculator(regulator)
	al.anchorTable.Reset()
	al.frontier.Reset()
	al.traversed = al.traversed[:0]
	al.AdaptiveReduction = nil
	return al
}

// RecycleAligner returns al to the object pool.
func RecycleAligner(al *Aligner) {
	if al != nil {
		poolAligner.Put(al)
	}
}

// SemiGlobalAlignment aligns query against the target buffer reachable
// through locator, requiring every reported alignment to extend each
// anchor to the edge of the query or the target on both sides.
func SemiGlobalAlignment(al *Aligner, query, target []byte, locator BufferedPatternLocator) (QueryAlignment, error) {
	return semiGlobalOrLocalWithLimit(al, query, target, locator, ModeSemiGlobal, -1)
}

// SemiGlobalAlignmentWithLimit is SemiGlobalAlignment bounded to at most
// limit reported alignments. limit == 0 returns an empty QueryAlignment
// immediately without touching any scratch buffer (spec.md §9).
func SemiGlobalAlignmentWithLimit(al *Aligner, query, target []byte, locator BufferedPatternLocator, limit int) (QueryAlignment, error) {
	return semiGlobalOrLocalWithLimit(al, query, target, locator, ModeSemiGlobal, limit)
}

// LocalAlignment aligns query against the target buffer reachable
// through locator, reporting the VPC-selected best-scoring local
// alignment per anchor chain that satisfies the cutoff.
func LocalAlignment(al *Aligner, query, target []byte, locator BufferedPatternLocator) (QueryAlignment, error) {
	return semiGlobalOrLocalWithLimit(al, query, target, locator, ModeLocal, -1)
}

// LocalAlignmentWithLimit is LocalAlignment bounded to at most limit
// reported alignments. limit == 0 returns an empty QueryAlignment
// immediately without touching any scratch buffer (spec.md §9).
func LocalAlignmentWithLimit(al *Aligner, query, target []byte, locator BufferedPatternLocator, limit int) (QueryAlignment, error) {
	return semiGlobalOrLocalWithLimit(al, query, target, locator, ModeLocal, limit)
}

func semiGlobalOrLocalWithLimit(al *Aligner, query, target []byte, locator BufferedPatternLocator, mode AlignmentMode, limit int) (QueryAlignment, error) {
	if limit == 0 {
		return QueryAlignment{}, nil
	}
	if len(query) == 0 {
		return nil, ErrEmptyQuery
	}
	if len(query) > MaxSequenceLength || len(target) > MaxSequenceLength {
		return nil, ErrSequenceTooLong
	}

	r := al.Regulator
	patternSize := r.PatternSize
	patternCount := len(query) / int(patternSize)
	if patternCount == 0 {
		return QueryAlignment{}, nil
	}

	al.anchorTable.Build(patternSize, patternCount, func(patternIndex int) []uint32 {
		start := patternIndex * int(patternSize)
		return locator.Locate(query[start : start+int(patternSize)])
	})
	al.sparePenalty.ChangeLastPatternIndex(uint32(patternCount - 1))

	var out QueryAlignment
	for patternIndex := 0; patternIndex < patternCount; patternIndex++ {
		slot := al.anchorTable.Slot(patternIndex)
		for slotIndex := range slot {
			idx := AnchorIndex{PatternIndex: uint32(patternIndex), SlotIndex: uint32(slotIndex)}
			anchor := al.anchorTable.At(idx)
			if anchor.Extended || anchor.Skipped {
				continue
			}
			result, ok := al.extendAnchor(query, target, uint32(patternIndex), anchor, mode)
			anchor.Extended = true
			markTraversedAnchorsAsSkipped(al.anchorTable, al.traversed)
			al.traversed = al.traversed[:0]
			if !ok {
				continue
			}
			anchor.ExtensionIndex = uint32(len(out))
			out = append(out, result)
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
		}
	}
	return out, nil
}

// extendAnchor extends one anchor to both sides, first the right side
// (using a worst-case spare-penalty budget that assumes nothing is
// committed on the left) and then the left side (using the actual
// committed length/penalty the right side used, tightening its
// budget), per spec.md §4.1/§4.7. It reports ok=false if either side
// fails to find an endpoint meeting the mode's requirement.
func (al *Aligner) extendAnchor(query, target []byte, patternIndex uint32, anchor *Anchor, mode AlignmentMode) (AnchorAlignmentResult, bool) {
	r := al.Regulator
	patternSize := r.PatternSize
	anchorSize := anchor.PatternCount * patternSize
	qStart := patternIndex * patternSize
	qEnd := qStart + anchorSize
	tStart := anchor.TargetPosition
	tEnd := tStart + anchorSize

	rightQuery := query[qEnd:]
	rightTarget := target[tEnd:]

	al.leftQueryBuf = reverseInto(al.leftQueryBuf, query[:qStart])
	al.leftTargetBuf = reverseInto(al.leftTargetBuf, target[:tStart])

	rightSpare := al.sparePenalty.GetSparePenalty(anchor.PatternCount, 0, 0, uint32(len(rightQuery)), uint32(len(rightTarget)))
	al.rightWF.Reset()
	Expand(al.rightWF, rightTarget, rightQuery, r.Penalty, rightSpare, al.AdaptiveReduction)
	// Nothing is committed on the left yet, so the right side's own
	// ScaledPenaltyDelta must clear the cutoff on its own (threshold 0).
	rightVpc, ok := al.selectEndpoint(al.rightWF, mode, 0)
	if !ok {
		return AnchorAlignmentResult{}, false
	}

	leftSpare := al.sparePenalty.GetSparePenalty(anchor.PatternCount, rightVpc.Length, rightVpc.Penalty, uint32(len(al.leftQueryBuf)), uint32(len(al.leftTargetBuf)))
	al.leftWF.Reset()
	Expand(al.leftWF, al.leftTargetBuf, al.leftQueryBuf, r.Penalty, leftSpare, al.AdaptiveReduction)
	// The left side only needs to cover whatever slack the right side
	// didn't already spend: its own delta plus the right's must clear 0.
	leftVpc, ok := al.selectEndpoint(al.leftWF, mode, -rightVpc.ScaledPenaltyDelta)
	if !ok {
		return AnchorAlignmentResult{}, false
	}

	al.leftOps.reset()
	al.rightOps.reset()

	Backtrace(al.leftWF, leftVpc.Penalty, leftVpc.K, r.Penalty, patternSize, al.anchorTable,
		patternIndex, tStart, SideLeft, al.leftOps, &al.traversed)
	Backtrace(al.rightWF, rightVpc.Penalty, rightVpc.K, r.Penalty, patternSize, al.anchorTable,
		patternIndex+anchor.PatternCount, tEnd, SideRight, al.rightOps, &al.traversed)

	final := NewAlignmentOperations()
	// Backtrace walks backward from its (s,k) endpoint to BtStart. For the
	// left side that endpoint is the far edge of the sequence (in reversed
	// coordinates) and BtStart sits right next to the anchor, so the walk
	// already discovers runs in far-to-near order, i.e. already left-to-
	// right genomic order — no reversal needed.
	for _, r := range al.leftOps.Runs {
		final.AddN(r.Kind, r.Count)
	}
	final.AddN(OpMatch, anchorSize)
	// For the right side the endpoint is the far edge and BtStart sits
	// right next to the anchor on the OTHER side, so the walk discovers
	// runs far-to-near, i.e. reverse genomic order; emit back to front.
	for i := len(al.rightOps.Runs) - 1; i >= 0; i-- {
		r := al.rightOps.Runs[i]
		final.AddN(r.Kind, r.Count)
	}

	length := final.Length()
	penalty := leftVpc.Penalty + rightVpc.Penalty
	if length < r.Cutoff.MinimumLength || uint64(penalty)*uint64(Scale) > uint64(length)*uint64(r.Cutoff.MaximumScaledPenaltyPerLength) {
		RecycleAlignmentOperations(final)
		return AnchorAlignmentResult{}, false
	}

	// leftVpc.QueryLength/leftVpc.K are how far the left-side wavefront
	// actually reached into al.leftQueryBuf/al.leftTargetBuf (the reversed
	// query[:qStart]/target[:tStart]), not the full buffer: the buffers
	// are sized to the anchor's start and never trimmed, so len(buf) is
	// always qStart/tStart regardless of how much the expansion consumed.
	return AnchorAlignmentResult{
		Penalty:        penalty,
		Length:         length,
		QueryPosition:  qStart - leftVpc.QueryLength,
		TargetPosition: tStart - uint32(int32(leftVpc.QueryLength)+leftVpc.K),
		Operations:     final,
	}, true
}

// selectEndpoint picks the wavefront cell to backtrace from, according
// to mode. SemiGlobal requires the recorded EndPoint (one side's
// sequence was fully consumed); Local runs VPC selection over every
// score reached and retains candidates whose ScaledPenaltyDelta clears
// minScaledPenaltyDelta (spec.md §4.4's slack check against whatever the
// opposite side already committed), ignored in SemiGlobal mode.
func (al *Aligner) selectEndpoint(wf *WaveFront, mode AlignmentMode, minScaledPenaltyDelta int64) (Vpc, bool) {
	switch mode {
	case ModeSemiGlobal:
		if !wf.EndPoint.Valid {
			return Vpc{}, false
		}
		c := wf.Get(wf.EndPoint.Penalty, wf.EndPoint.K, CompM)
		length := uint32(c.Fr - wf.EndPoint.K + c.Dels)
		return Vpc{
			QueryLength: uint32(c.Fr - wf.EndPoint.K),
			Length:      length,
			Penalty:     wf.EndPoint.Penalty,
			K:           wf.EndPoint.K,
			Dels:        c.Dels,
		}, true
	default:
		al.frontier.Reset()
		cutoff := al.Regulator.Cutoff
		for s := uint32(0); s < uint32(len(wf.Scores)); s++ {
			wfs := &wf.Scores[s]
			best := Vpc{QueryLength: 0}
			found := false
			for k := -wfs.MaxK; k <= wfs.MaxK; k++ {
				c := wfs.getRaw(k, CompM)
				if c.Fr == emptyFr {
					continue
				}
				ql := uint32(c.Fr - k)
				if !found || ql > best.QueryLength {
					length := uint32(c.Fr - k + c.Dels)
					best = Vpc{
						QueryLength:        ql,
						Length:             length,
						Penalty:            s,
						K:                  k,
						Dels:               c.Dels,
						ScaledPenaltyDelta: int64(Scale)*int64(length) - int64(s)*int64(cutoff.MaximumScaledPenaltyPerLength),
					}
					found = true
				}
			}
			if found {
				al.frontier.Insert(best)
			}
		}
		return al.frontier.SelectBest(minScaledPenaltyDelta)
	}
}

// markTraversedAnchorsAsSkipped flips Skipped on every anchor named by
// traversed, so the outer loop in semiGlobalOrLocalWithLimit never
// extends them independently (spec.md §4.5/§4.7).
func markTraversedAnchorsAsSkipped(table *AnchorTable, traversed []TraversedAnchor) {
	for _, t := range traversed {
		if !t.ToSkip {
			continue
		}
		slot := table.Slot(int(t.PatternIndex))
		for i := range slot {
			if slot[i].TargetPosition == t.TargetPosition {
				slot[i].Skipped = true
				break
			}
		}
	}
}

// reverseInto writes the reverse of src into dst's backing array
// (growing it if needed) and returns the resulting slice, letting
// callers reuse one scratch buffer across anchors instead of
// allocating a fresh reversed copy per side extension.
func reverseInto(dst []byte, src []byte) []byte {
	if cap(dst) < len(src) {
		dst = make([]byte, len(src))
	} else {
		dst = dst[:len(src)]
	}
	n := len(src)
	for i := 0; i < n; i++ {
		dst[i] = src[n-1-i]
	}
	return dst
}
