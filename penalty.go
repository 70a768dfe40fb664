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

// Scale is the fixed-point precision used to compare penalty-per-length
// ratios without floating point. A "scaled penalty per length" value of
// Scale corresponds to a penalty-per-length ratio of 1.0.
const Scale uint32 = 10000

// Penalty holds the gap-affine cost model: x is the mismatch penalty, o
// is the gap-open penalty, e is the per-base gap-extend penalty.
type Penalty struct {
	Mismatch  uint32
	GapOpen   uint32
	GapExtend uint32
}

// DefaultPenalty is the cost model used by the tests and the benchmark
// command: mismatch 4, gap open 6, gap extend 2 (a one-base gap costs 8).
var DefaultPenalty = Penalty{Mismatch: 4, GapOpen: 6, GapExtend: 2}

// Cutoff bounds which alignments are reported: an alignment must reach
// at least MinimumLength and its penalty, scaled by Scale and divided by
// length, must not exceed MaximumScaledPenaltyPerLength.
type Cutoff struct {
	MinimumLength                 uint32
	MaximumScaledPenaltyPerLength uint32
}

// MinPenaltyForPattern is the minimum penalty an optimal alignment must
// pay to cross a gap of an odd, respectively even, number of
// pattern-sized blocks without an exact match landing inside it. Odd is
// the smaller of one mismatch and a one-base gap (o+e); Even is the
// smaller of two mismatches and a two-base gap (o+2e). It is what lets the spare-penalty
// budget bound how many un-anchored blocks an extension can still
// tolerate.
type MinPenaltyForPattern struct {
	Odd  uint32
	Even uint32
}

func minPenaltyForPattern(p Penalty) MinPenaltyForPattern {
	odd := p.Mismatch
	if v := p.GapOpen + p.GapExtend; v < odd {
		odd = v
	}
	even := 2 * p.Mismatch
	if v := p.GapOpen + 2*p.GapExtend; v < even {
		even = v
	}
	return MinPenaltyForPattern{Odd: odd, Even: even}
}

// Regulator is the validated, derived combination of Penalty and Cutoff
// that the rest of the package consumes. It is built once per query (or
// reused across many queries sharing the same cost model) and is
// immutable once constructed.
type Regulator struct {
	Penalty              Penalty
	Cutoff               Cutoff
	MinPenaltyForPattern  MinPenaltyForPattern
	PatternSize          uint32
}

// NewRegulator validates penalty and cutoff and derives the pigeonhole
// pattern size: the largest exact-match pattern length p such that any
// alignment meeting Cutoff is guaranteed to contain at least one
// occurrence of an exact p-length match to the target, evenly spaced
// along the query. Returns ErrInvalidRegulator if no such p exists
// (Scale*GapExtend must exceed MaximumScaledPenaltyPerLength, and both
// base penalties must be non-zero) or a safe value below 1.
func NewRegulator(penalty Penalty, cutoff Cutoff) (*Regulator, error) {
	if penalty.Mismatch == 0 {
		return nil, invalidRegulatorf("mismatch penalty must be non-zero")
	}
	if penalty.GapExtend == 0 {
		return nil, invalidRegulatorf("gap-extend penalty must be non-zero")
	}
	if cutoff.MinimumLength == 0 {
		return nil, invalidRegulatorf("minimum length must be at least 1")
	}
	if Scale*penalty.GapExtend <= cutoff.MaximumScaledPenaltyPerLength {
		return nil, invalidRegulatorf(
			"gap-extend penalty too small for cutoff: scale*e=%d <= cutoff_per_length=%d",
			Scale*penalty.GapExtend, cutoff.MaximumScaledPenaltyPerLength)
	}

	patternSize := derivePatternSize(cutoff, penalty)
	if patternSize < 1 {
		return nil, invalidRegulatorf("derived pattern size is zero for cutoff=%+v penalty=%+v", cutoff, penalty)
	}

	return &Regulator{
		Penalty:              penalty,
		Cutoff:               cutoff,
		MinPenaltyForPattern:  minPenaltyForPattern(penalty),
		PatternSize:          patternSize,
	}, nil
}

// derivePatternSize implements the pigeonhole bound from spec.md §6: the
// largest p such that floor(minimum_length / p) patterns, each allowed
// to miss an exact match only by paying at least e*Scale per unit
// length in excess of the cutoff ratio, still forces one exact hit.
func derivePatternSize(cutoff Cutoff, penalty Penalty) uint32 {
	e := uint64(penalty.GapExtend)
	minLen := uint64(cutoff.MinimumLength)
	cpl := uint64(cutoff.MaximumScaledPenaltyPerLength)
	scale := uint64(Scale)

	num := minLen * (e*scale - cpl)
	den := cpl + e*scale
	if den == 0 {
		return 0
	}
	p := num / den
	if p < 1 {
		p = 1
	}
	return uint32(p)
}

func minUint32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
