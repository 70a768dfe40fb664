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

// Component selects one of the three gap-affine DP matrices.
type Component uint8

const (
	CompM Component = iota
	CompI
	CompD
)

// BackTraceMarker records, for one cell, which component supplied its
// furthest-reach value, so Backtrace can walk the DAG backward without
// recomputing it.
type BackTraceMarker uint8

const (
	BtEmpty BackTraceMarker = iota
	BtStart
	BtFromM
	BtFromI
	BtFromD
)

// emptyFr marks a cell that has not been reached at its score/diagonal.
const emptyFr int32 = -1

// Cell is one (score, diagonal) entry of one component. Fr is the
// furthest-reach offset (how far the alignment has advanced along the
// target at this score/diagonal/component); Dels is the cumulative
// number of target-only-consumption steps (CompI, spec.md's Insertion)
// folded into that offset, carried alongside Fr because it cannot be
// recovered from Fr and the diagonal alone once insertions and
// deletions are interleaved: length = (Fr - k) + Dels, the query offset
// plus the steps the query offset alone can't account for. Bt names
// which predecessor produced this cell.
type Cell struct {
	Fr   int32
	Dels int32
	Bt   BackTraceMarker
}

// WaveFrontScore holds all three components for a single penalty score,
// as one dense array per component indexed by k2i(diagonal). MaxK is the
// largest diagonal magnitude legal at this score (spec.md's max_k(s)).
type WaveFrontScore struct {
	MaxK int32
	M, I, D []Cell
}

// WaveFront is the full grow-only scratch buffer spanning every penalty
// score reached during one side's expansion. It is owned by the caller
// (spec.md §5) and reused across (query, target) pairs via Reset, which
// clears cell contents but never shrinks the backing slices.
type WaveFront struct {
	Scores   []WaveFrontScore
	EndPoint EndPoint
}

// EndPoint records where expansion stopped because one side's sequence
// was exhausted, i.e. the boundary condition of spec.md §4.3. Valid is
// false if expansion instead ran out of spare penalty budget first.
type EndPoint struct {
	Penalty uint32
	K       int32
	Valid   bool
}

var poolWaveFront = &sync.Pool{New: func() interface{} {
	return &WaveFront{Scores: make([]WaveFrontScore, 0, 64)}
}}

// NewWaveFront returns a WaveFront from the object pool, already reset.
func NewWaveFront() *WaveFront {
	wf := poolWaveFront.Get().(*WaveFront)
	wf.Reset()
	return wf
}

// RecycleWaveFront returns wf to the object pool.
func RecycleWaveFront(wf *WaveFront) {
	if wf != nil {
		poolWaveFront.Put(wf)
	}
}

// Reset clears every cell back to "unreached" without releasing the
// backing arrays, so a subsequent Expand starts from a clean slate at
// whatever capacity previous (query, target) pairs already grew it to.
func (w *WaveFront) Reset() {
	for i := range w.Scores {
		clearCells(w.Scores[i].M)
		clearCells(w.Scores[i].I)
		clearCells(w.Scores[i].D)
	}
	w.EndPoint = EndPoint{}
}

func clearCells(cells []Cell) {
	for i := range cells {
		cells[i] = Cell{Fr: emptyFr}
	}
}

// maxKForScore is spec.md's max_k(s) = floor((s-o)/e) + 1, clamped to 0.
func maxKForScore(s uint32, o, e uint32) int32 {
	if s < o {
		return 0
	}
	v := int32((s-o)/e) + 1
	if v < 0 {
		v = 0
	}
	return v
}

// k2i maps a diagonal to a non-negative slice index: non-negative
// diagonals interleave with negative ones so the whole legal range
// packs into a contiguous array of length 2*maxK+1. Lifted from the
// teacher's WaveFront.k2i (wfa_wavefront.go).
func k2i(k int32) int32 {
	if k >= 0 {
		return 2 * k
	}
	return -2*k - 1
}

// ensureScore grows w.Scores to include index s (appending zero-valued,
// i.e. already-empty, WaveFrontScores as needed) and grows that score's
// component arrays to hold diagonals in [-maxK, maxK], never shrinking
// either.
func (w *WaveFront) ensureScore(s uint32, maxK int32) *WaveFrontScore {
	for uint32(len(w.Scores)) <= s {
		w.Scores = append(w.Scores, WaveFrontScore{})
	}
	wfs := &w.Scores[s]
	need := int(2*maxK + 1)
	if len(wfs.M) < need {
		growComponent(&wfs.M, need)
		growComponent(&wfs.I, need)
		growComponent(&wfs.D, need)
	}
	if maxK > wfs.MaxK {
		wfs.MaxK = maxK
	}
	return wfs
}

func growComponent(cells *[]Cell, need int) {
	old := len(*cells)
	if cap(*cells) >= need {
		*cells = (*cells)[:need]
	} else {
		grown := make([]Cell, need)
		copy(grown, *cells)
		*cells = grown
	}
	for i := old; i < need; i++ {
		(*cells)[i] = Cell{Fr: emptyFr}
	}
}

// Get returns the cell at (s, k) for component c, or an empty cell if s
// or k fall outside what has been computed so far.
func (w *WaveFront) Get(s uint32, k int32, c Component) Cell {
	if int(s) >= len(w.Scores) {
		return Cell{Fr: emptyFr}
	}
	wfs := &w.Scores[s]
	arr := wfs.component(c)
	i := k2i(k)
	if i < 0 || int(i) >= len(arr) {
		return Cell{Fr: emptyFr}
	}
	return arr[i]
}

// Set writes the cell at (s, k) for component c. The caller must have
// already grown the score via ensureScore with a large enough maxK.
func (wfs *WaveFrontScore) Set(k int32, c Component, cell Cell) {
	arr := wfs.component(c)
	arr[k2i(k)] = cell
}

func (wfs *WaveFrontScore) component(c Component) []Cell {
	switch c {
	case CompM:
		return wfs.M
	case CompI:
		return wfs.I
	case CompD:
		return wfs.D
	default:
		return nil
	}
}
