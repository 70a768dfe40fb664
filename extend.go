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

import (
	"encoding/binary"
	"math/bits"
)

// AdaptiveReductionOption enables the optional heuristic pruning of
// trailing wavefront diagonals ported from the teacher's
// AdaptiveReductionOption/reduce: diagonals whose furthest-reach value
// trails the best diagonal at the same score by more than MaxDistDiff
// are dropped, bounding runtime on long, divergent sequences at the
// cost of sometimes missing the very edge of the optimal path. Off by
// default (nil option) since it is not required by any of this
// package's correctness invariants.
type AdaptiveReductionOption struct {
	MinWFLen    uint32
	MaxDistDiff uint32
}

// DefaultAdaptiveReductionOption matches the teacher's defaults.
var DefaultAdaptiveReductionOption = AdaptiveReductionOption{MinWFLen: 10, MaxDistDiff: 30}

// Expand runs gap-affine wavefront expansion of target against query,
// writing every reached cell into wf, up to sparePenalty or until one
// side's sequence is exhausted (spec.md §4.3). wf must have been Reset
// (NewWaveFront does this). ar may be nil to disable adaptive
// reduction.
func Expand(wf *WaveFront, target, query []byte, penalty Penalty, sparePenalty uint32, ar *AdaptiveReductionOption) {
	o, e, x := penalty.GapOpen, penalty.GapExtend, penalty.Mismatch

	wfs0 := wf.ensureScore(0, maxKForScore(0, o, e))
	lcp := int32(matchRun(target, query))
	wfs0.Set(0, CompM, Cell{Fr: lcp, Bt: BtStart})
	if lcp >= int32(len(target)) || lcp >= int32(len(query)) {
		wf.EndPoint = EndPoint{Penalty: 0, K: 0, Valid: true}
		return
	}

	for s := uint32(1); s <= sparePenalty; s++ {
		maxK := maxKForScore(s, o, e)
		wfs := wf.ensureScore(s, maxK)

		for k := -maxK; k <= maxK; k++ {
			// CompI holds target-only consumption (query offset held,
			// target offset +1): sourced from M and I at k-1 with Fr+1,
			// matching spec's I recurrence.
			bestI := Cell{Fr: emptyFr}
			if s >= o+e {
				if c := wf.Get(s-o-e, k-1, CompM); c.Fr != emptyFr {
					bestI = Cell{Fr: c.Fr + 1, Dels: c.Dels + 1, Bt: BtFromM}
				}
			}
			if s >= e {
				if c := wf.Get(s-e, k-1, CompI); c.Fr != emptyFr && c.Fr+1 >= bestI.Fr {
					bestI = Cell{Fr: c.Fr + 1, Dels: c.Dels + 1, Bt: BtFromI}
				}
			}
			if bestI.Fr != emptyFr {
				wfs.Set(k, CompI, bestI)
			}

			// CompD holds query-only consumption (query offset +1, target
			// offset held): sourced from M and D at k+1 with Fr unchanged,
			// matching spec's D recurrence.
			bestD := Cell{Fr: emptyFr}
			if s >= o+e {
				if c := wf.Get(s-o-e, k+1, CompM); c.Fr != emptyFr {
					bestD = Cell{Fr: c.Fr, Dels: c.Dels, Bt: BtFromM}
				}
			}
			if s >= e {
				if c := wf.Get(s-e, k+1, CompD); c.Fr != emptyFr && c.Fr >= bestD.Fr {
					bestD = Cell{Fr: c.Fr, Dels: c.Dels, Bt: BtFromD}
				}
			}
			if bestD.Fr != emptyFr {
				wfs.Set(k, CompD, bestD)
			}

			bestM := Cell{Fr: emptyFr}
			if s >= x {
				if c := wf.Get(s-x, k, CompM); c.Fr != emptyFr {
					bestM = Cell{Fr: c.Fr + 1, Dels: c.Dels, Bt: BtFromM}
				}
			}
			if bestI.Fr != emptyFr && bestI.Fr >= bestM.Fr {
				bestM = Cell{Fr: bestI.Fr, Dels: bestI.Dels, Bt: BtFromI}
			}
			if bestD.Fr != emptyFr && bestD.Fr >= bestM.Fr {
				bestM = Cell{Fr: bestD.Fr, Dels: bestD.Dels, Bt: BtFromD}
			}
			if bestM.Fr == emptyFr {
				continue
			}

			h, v := bestM.Fr, bestM.Fr-k
			if v < 0 {
				continue
			}
			if h <= int32(len(target)) && v <= int32(len(query)) {
				if run := matchRun(target[h:], query[v:]); run > 0 {
					bestM.Fr += int32(run)
					h += int32(run)
					v += int32(run)
				}
			}
			wfs.Set(k, CompM, bestM)

			if h >= int32(len(target)) || v >= int32(len(query)) {
				wf.EndPoint = EndPoint{Penalty: s, K: k, Valid: true}
				return
			}
		}

		if ar != nil {
			reduce(wfs, maxK, ar)
		}
	}
}

// reduce drops M/I/D cells whose M furthest-reach trails the best
// diagonal at this score by more than ar.MaxDistDiff, once the score's
// diagonal count has grown past ar.MinWFLen. Ported from the teacher's
// reduce (wfa.go), generalized from three Components to one unified
// WaveFrontScore.
func reduce(wfs *WaveFrontScore, maxK int32, ar *AdaptiveReductionOption) {
	n := uint32(2*maxK + 1)
	if n < ar.MinWFLen {
		return
	}
	best := emptyFr
	for k := -maxK; k <= maxK; k++ {
		if c := wfs.getRaw(k, CompM); c.Fr > best {
			best = c.Fr
		}
	}
	if best == emptyFr {
		return
	}
	for k := -maxK; k <= maxK; k++ {
		c := wfs.getRaw(k, CompM)
		if c.Fr == emptyFr {
			continue
		}
		if uint32(best-c.Fr) > ar.MaxDistDiff {
			wfs.Set(k, CompM, Cell{Fr: emptyFr})
			wfs.Set(k, CompI, Cell{Fr: emptyFr})
			wfs.Set(k, CompD, Cell{Fr: emptyFr})
		}
	}
}

func (wfs *WaveFrontScore) getRaw(k int32, c Component) Cell {
	arr := wfs.component(c)
	i := k2i(k)
	if i < 0 || int(i) >= len(arr) {
		return Cell{Fr: emptyFr}
	}
	return arr[i]
}

// matchRun returns the length of the common prefix of a and b, using
// the teacher's 8-byte block-compare trick (wfa.go's extend): compare
// 64-bit chunks with a single XOR and fall back to the leading-zero
// count to locate the first differing byte, byte-by-byte only for the
// final partial chunk.
func matchRun(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i+8 <= n {
		va := binary.BigEndian.Uint64(a[i:])
		vb := binary.BigEndian.Uint64(b[i:])
		if va == vb {
			i += 8
			continue
		}
		x := va ^ vb
		i += bits.LeadingZeros64(x) / 8
		return i
	}
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
