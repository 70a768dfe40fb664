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

// AnchorIndex locates one Anchor inside an AnchorTable: the pattern slot
// it was found at, and its position within that slot's ascending-by
// -target-position slice.
type AnchorIndex struct {
	PatternIndex uint32
	SlotIndex    uint32
}

// Anchor is one candidate seed: an exact match of PatternCount
// consecutive query patterns against a contiguous run of the target
// starting at TargetPosition. Extended and Skipped track the extension
// driver's state machine (spec.md §4.7); ExtensionIndex names the
// Extension that resulted once Extended is true.
type Anchor struct {
	PatternCount   uint32
	TargetPosition uint32
	Extended       bool
	Skipped        bool
	ExtensionIndex uint32
}

// AnchorTable is a per-query scratch buffer: one slot per pattern index,
// each slot holding the anchors found at that pattern sorted ascending
// by TargetPosition. It is grow-only and reused across queries via
// Reset, matching spec.md §5's scratch-buffer ownership model.
type AnchorTable struct {
	slots [][]Anchor
}

// NewAnchorTable returns an empty, ready-to-use AnchorTable.
func NewAnchorTable() *AnchorTable {
	return &AnchorTable{}
}

// Reset empties the table without releasing the backing slot slices.
func (t *AnchorTable) Reset() {
	for i := range t.slots {
		t.slots[i] = t.slots[i][:0]
	}
	t.slots = t.slots[:0]
}

// PatternCount is the number of pattern slots in the table, i.e. the
// query length divided by the regulator's PatternSize.
func (t *AnchorTable) PatternCount() int {
	return len(t.slots)
}

// Slot returns the anchors found at pattern index i, ascending by
// TargetPosition.
func (t *AnchorTable) Slot(patternIndex int) []Anchor {
	return t.slots[patternIndex]
}

// At returns a pointer to the anchor named by idx, so callers (the
// extension driver) can flip Extended/Skipped/ExtensionIndex in place.
func (t *AnchorTable) At(idx AnchorIndex) *Anchor {
	return &t.slots[idx.PatternIndex][idx.SlotIndex]
}

// Build populates table for a query with patternCount pattern slots,
// each slot's occurrences supplied ascending and deduplicated by hits,
// then runs the right-to-left coalescing merge pass of spec.md §4.2.
func (t *AnchorTable) Build(patternSize uint32, patternCount int, hits func(patternIndex int) []uint32) {
	t.Reset()
	if cap(t.slots) < patternCount {
		t.slots = make([][]Anchor, patternCount)
	} else {
		t.slots = t.slots[:patternCount]
	}
	for i := 0; i < patternCount; i++ {
		positions := hits(i)
		slot := t.slots[i][:0]
		for _, pos := range positions {
			slot = append(slot, Anchor{PatternCount: 1, TargetPosition: pos})
		}
		t.slots[i] = slot
	}
	mergeAdjacentAnchors(t, patternSize)
}

// mergeAdjacentAnchors coalesces anchors whose target ranges are exactly
// contiguous across adjacent pattern slots into a single wider anchor,
// so the extension driver never re-extends the same region twice. A
// single right-to-left pass suffices: when slot i is checked against
// slot i+1, slot i+1 has already absorbed everything it can from slot
// i+2 (processed in the previous loop iteration), so its anchors are
// final by the time slot i looks at them.
func mergeAdjacentAnchors(t *AnchorTable, patternSize uint32) {
	n := len(t.slots)
	for i := n - 2; i >= 0; i-- {
		left := t.slots[i]
		right := t.slots[i+1]
		if len(left) == 0 || len(right) == 0 {
			continue
		}
		removed := make([]bool, len(right))
		for li := range left {
			want := left[li].TargetPosition + left[li].PatternCount*patternSize
			ri := sort.Search(len(right), func(k int) bool { return right[k].TargetPosition >= want })
			if ri < len(right) && right[ri].TargetPosition == want && !removed[ri] {
				left[li].PatternCount += right[ri].PatternCount
				removed[ri] = true
			}
		}
		newRight := right[:0]
		for k, a := range right {
			if !removed[k] {
				newRight = append(newRight, a)
			}
		}
		t.slots[i] = left
		t.slots[i+1] = newRight
	}
}
