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

// Vpc (valid position candidate) names one M-cell considered as a
// possible local-alignment endpoint: QueryLength is how far it reaches
// along the query, Penalty is the score it took to get there, K is the
// diagonal it lives on (needed to recover the cell during Backtrace),
// and ScaledPenaltyDelta is its signed slack against the cutoff ratio
// (Scale*length - Penalty*maximum_scaled_penalty_per_length): positive
// means still comfortably inside budget, negative means it has already
// overspent it.
type Vpc struct {
	QueryLength        uint32
	Length             uint32
	Penalty            uint32
	ScaledPenaltyDelta int64
	K                  int32
	Dels               int32
}

// VpcFrontier maintains the Pareto-optimal set of Vpc candidates
// observed so far: an entry is dominated when another entry reaches at
// least as far along the query with at least as large a
// ScaledPenaltyDelta. The kept entries are ordered by strictly
// increasing QueryLength and therefore strictly decreasing
// ScaledPenaltyDelta, and Insert finds its place with a linear scan from
// the tail (spec.md §9's design note), not a full reinsertion sort.
type VpcFrontier struct {
	items []Vpc
}

// NewVpcFrontier returns an empty frontier.
func NewVpcFrontier() *VpcFrontier {
	return &VpcFrontier{}
}

// Reset empties the frontier without releasing its backing array.
func (f *VpcFrontier) Reset() {
	f.items = f.items[:0]
}

// Insert adds v at its QueryLength position and removes every entry v
// dominates; if an existing entry already dominates v, the frontier is
// left unchanged.
func (f *VpcFrontier) Insert(v Vpc) {
	i := len(f.items)
	for i > 0 && f.items[i-1].QueryLength > v.QueryLength {
		i--
	}
	start := i
	for start > 0 && f.items[start-1].ScaledPenaltyDelta <= v.ScaledPenaltyDelta {
		start--
	}
	if (i < len(f.items) && f.items[i].ScaledPenaltyDelta >= v.ScaledPenaltyDelta) ||
		(start > 0 && f.items[start-1].QueryLength >= v.QueryLength) {
		return
	}
	f.items = append(f.items[:start], append([]Vpc{v}, f.items[i:]...)...)
}

// Len returns the number of Pareto-optimal candidates currently held.
func (f *VpcFrontier) Len() int {
	return len(f.items)
}

// At returns the i-th candidate, ascending by QueryLength.
func (f *VpcFrontier) At(i int) Vpc {
	return f.items[i]
}

// SelectBest scans the frontier from the tail (largest query length,
// smallest ScaledPenaltyDelta) towards the head and returns the first candidate
// whose ScaledPenaltyDelta clears minScaledPenaltyDelta, preferring the
// longest alignment that still fits. Per spec.md §4.4 this is a slack
// check against the budget left over once the opposite side's own
// ScaledPenaltyDelta is accounted for, not a re-application of the
// whole-alignment cutoff: the combined MinimumLength/ratio test runs
// once, on the stitched alignment, in extendAnchor. Pass 0 for a side
// with nothing yet committed on the other side, or the negation of the
// opposite side's already-selected ScaledPenaltyDelta otherwise. ok is
// false if no candidate clears the threshold.
func (f *VpcFrontier) SelectBest(minScaledPenaltyDelta int64) (Vpc, bool) {
	for i := len(f.items) - 1; i >= 0; i-- {
		v := f.items[i]
		if v.ScaledPenaltyDelta >= minScaledPenaltyDelta {
			return v, true
		}
	}
	return Vpc{}, false
}
