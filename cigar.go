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
	"bytes"
	"strconv"
	"sync"
)

// OpKind is one CIGAR-like operation kind.
type OpKind byte

const (
	OpMatch     OpKind = 'M'
	OpSubst     OpKind = 'X'
	OpInsertion OpKind = 'I'
	OpDeletion  OpKind = 'D'
)

// AlignmentOperations is a run-length-encoded sequence of alignment
// operations: no two adjacent runs ever share a Kind (spec.md's
// adjacency-merge invariant). It is pool-backed the way the teacher
// pools its CIGAR/CIGARRecord pair, since one of these is built per
// extension and discarded or merged into an AnchorAlignmentResult.
type AlignmentOperations struct {
	Runs []OpRun

	reversed bool
}

// OpRun is one run of a single operation kind.
type OpRun struct {
	Kind  OpKind
	Count uint32
}

// NewAlignmentOperations returns an AlignmentOperations from the object
// pool, already reset.
func NewAlignmentOperations() *AlignmentOperations {
	ops := poolAlignmentOperations.Get().(*AlignmentOperations)
	ops.reset()
	return ops
}

func (ops *AlignmentOperations) reset() {
	ops.Runs = ops.Runs[:0]
	ops.reversed = false
}

// RecycleAlignmentOperations returns ops to the object pool.
func RecycleAlignmentOperations(ops *AlignmentOperations) {
	if ops != nil {
		poolAlignmentOperations.Put(ops)
	}
}

var poolAlignmentOperations = &sync.Pool{New: func() interface{} {
	return &AlignmentOperations{Runs: make([]OpRun, 0, 128)}
}}

// Len returns the number of runs currently recorded.
func (ops *AlignmentOperations) Len() int {
	return len(ops.Runs)
}

// Add appends one operation of the given kind.
func (ops *AlignmentOperations) Add(kind OpKind) {
	ops.AddN(kind, 1)
}

// AddN appends n operations of the given kind, merging into the
// trailing run if it is already the same kind (so the adjacency-merge
// invariant holds without a separate compaction pass).
func (ops *AlignmentOperations) AddN(kind OpKind, n uint32) {
	if n == 0 {
		return
	}
	if l := len(ops.Runs); l > 0 && ops.Runs[l-1].Kind == kind {
		ops.Runs[l-1].Count += n
		return
	}
	ops.Runs = append(ops.Runs, OpRun{Kind: kind, Count: n})
}

// Update adds n to the last run's count; used when a caller has already
// guaranteed the last run's kind matches.
func (ops *AlignmentOperations) Update(n uint32) {
	if l := len(ops.Runs); l > 0 {
		ops.Runs[l-1].Count += n
	}
}

// Reverse reverses the order of runs in place; idempotent per call
// sequence since the reversed flag prevents a double-reverse (the
// teacher's CIGAR.reverse does the same).
func (ops *AlignmentOperations) Reverse() {
	if ops.reversed {
		return
	}
	s := ops.Runs
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
	ops.reversed = true
}

// Length is the sum of all run counts: matches + substitutions +
// insertions + deletions.
func (ops *AlignmentOperations) Length() uint32 {
	var n uint32
	for _, r := range ops.Runs {
		n += r.Count
	}
	return n
}

// Append appends other's runs onto ops, merging the boundary run if
// both sides end/start with the same kind.
func (ops *AlignmentOperations) Append(other *AlignmentOperations) {
	for _, r := range other.Runs {
		ops.AddN(r.Kind, r.Count)
	}
}

// String renders the run list as a CIGAR-like string, e.g. "12M1X4D3M".
func (ops *AlignmentOperations) String() string {
	var buf bytes.Buffer
	for _, r := range ops.Runs {
		buf.WriteString(strconv.Itoa(int(r.Count)))
		buf.WriteByte(byte(r.Kind))
	}
	return buf.String()
}

// Equal reports whether ops and other describe exactly the same run
// sequence. Grounded on the original's to_cmp comparison helpers
// (SPEC_FULL.md §12.2): compares results independent of which scratch
// buffers produced them.
func (ops *AlignmentOperations) Equal(other *AlignmentOperations) bool {
	if len(ops.Runs) != len(other.Runs) {
		return false
	}
	for i, r := range ops.Runs {
		if r != other.Runs[i] {
			return false
		}
	}
	return true
}
