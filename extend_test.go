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

import "testing"

func TestMatchRunIdentical(t *testing.T) {
	a := []byte("ACGTACGTACGTACGT")
	if n := matchRun(a, a); n != len(a) {
		t.Fatalf("matchRun(identical) = %d, want %d", n, len(a))
	}
}

func TestMatchRunDiffersMidBlock(t *testing.T) {
	a := []byte("ACGTACGTACGTACGT")
	b := []byte("ACGTACGAACGTACGT")
	if n := matchRun(a, b); n != 7 {
		t.Fatalf("matchRun = %d, want 7", n)
	}
}

func TestMatchRunDiffersOnFinalPartialChunk(t *testing.T) {
	a := []byte("ACGTACGTACG")
	b := []byte("ACGTACGTATG")
	if n := matchRun(a, b); n != 9 {
		t.Fatalf("matchRun = %d, want 9", n)
	}
}

func TestMatchRunShorterOperand(t *testing.T) {
	a := []byte("ACGTACGT")
	b := []byte("ACGT")
	if n := matchRun(a, b); n != 4 {
		t.Fatalf("matchRun = %d, want 4 (bounded by shorter operand)", n)
	}
}

func TestExpandIdenticalSequencesReachesZeroPenaltyEndpoint(t *testing.T) {
	target := []byte("ACGTACGTACGTACGT")
	query := []byte("ACGTACGTACGTACGT")

	wf := NewWaveFront()
	defer RecycleWaveFront(wf)

	Expand(wf, target, query, DefaultPenalty, 20, nil)

	if !wf.EndPoint.Valid {
		t.Fatal("EndPoint not reached for identical sequences")
	}
	if wf.EndPoint.Penalty != 0 {
		t.Fatalf("EndPoint.Penalty = %d, want 0 for identical sequences", wf.EndPoint.Penalty)
	}
	c := wf.Get(0, 0, CompM)
	if int(c.Fr) != len(target) {
		t.Fatalf("Fr at s=0,k=0 = %d, want %d", c.Fr, len(target))
	}
}

func TestExpandSingleMismatchCostsOneMismatchPenalty(t *testing.T) {
	target := []byte("ACGTACGTACGT")
	query := []byte("ACGTTCGTACGT") // one substitution at position 4

	wf := NewWaveFront()
	defer RecycleWaveFront(wf)

	Expand(wf, target, query, DefaultPenalty, 20, nil)

	if !wf.EndPoint.Valid {
		t.Fatal("EndPoint not reached")
	}
	if wf.EndPoint.Penalty != DefaultPenalty.Mismatch {
		t.Fatalf("EndPoint.Penalty = %d, want %d (one mismatch)", wf.EndPoint.Penalty, DefaultPenalty.Mismatch)
	}
}

// Insertion is a target-only consumption step (see backtrace_test.go).
func TestExpandSingleInsertionCostsGapOpenPlusExtend(t *testing.T) {
	target := []byte("ACGTGACGTACGT") // target has an extra, non-repeating base relative to query
	query := []byte("ACGTACGTACGT")

	wf := NewWaveFront()
	defer RecycleWaveFront(wf)

	Expand(wf, target, query, DefaultPenalty, 20, nil)

	if !wf.EndPoint.Valid {
		t.Fatal("EndPoint not reached")
	}
	want := DefaultPenalty.GapOpen + DefaultPenalty.GapExtend
	if wf.EndPoint.Penalty != want {
		t.Fatalf("EndPoint.Penalty = %d, want %d (one gap open+extend)", wf.EndPoint.Penalty, want)
	}
}

// Deletion is a query-only consumption step (see backtrace_test.go).
func TestExpandSingleDeletionCostsGapOpenPlusExtend(t *testing.T) {
	target := []byte("ACGTACGTACGT")
	query := []byte("ACGTGACGTACGT") // query has an extra, non-repeating base relative to target

	wf := NewWaveFront()
	defer RecycleWaveFront(wf)

	Expand(wf, target, query, DefaultPenalty, 20, nil)

	if !wf.EndPoint.Valid {
		t.Fatal("EndPoint not reached")
	}
	want := DefaultPenalty.GapOpen + DefaultPenalty.GapExtend
	if wf.EndPoint.Penalty != want {
		t.Fatalf("EndPoint.Penalty = %d, want %d (one gap open+extend)", wf.EndPoint.Penalty, want)
	}
}
