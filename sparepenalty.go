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

// SparePenaltyCalculator derives the per-extension penalty budget: how
// far a single-side wavefront expansion is allowed to climb in penalty
// before it can no longer possibly contribute to an alignment that
// still satisfies the regulator's cutoff, given what has already been
// committed on the opposite side.
//
// It also records the index of the last pattern slot in the current
// query's anchor table (ChangeLastPatternIndex). GetSparePenalty does not
// read that value: the budget depends only on its arguments and the
// regulator.
type SparePenaltyCalculator struct {
	regulator       *Regulator
	lastPatternIndex uint32
}

// NewSparePenaltyCalculator builds a calculator bound to regulator. The
// driver sets the last pattern index once per query via
// ChangeLastPatternIndex; GetSparePenalty gives the same result whether
// or not it has been set.
func NewSparePenaltyCalculator(regulator *Regulator) *SparePenaltyCalculator {
	return &SparePenaltyCalculator{regulator: regulator}
}

// ChangeLastPatternIndex records the index of the last pattern slot of
// the anchor table currently being extended, i.e. AnchorTable's pattern
// count minus one.
func (c *SparePenaltyCalculator) ChangeLastPatternIndex(lastPatternIndex uint32) {
	c.lastPatternIndex = lastPatternIndex
}

// GetSparePenalty returns the maximum penalty a side extension starting
// with patternCount already-covered patterns (anchor_size =
// patternCount * PatternSize) may spend, given that the opposite side
// has already committed oppositeLength aligned bases for oppositePenalty
// penalty, and queryLenThisSide/targetLenThisSide bases of query/target
// remain to extend into on this side. Implements spec.md §4.1 verbatim:
//
//	max( o, ceil( (e*(cutoff_per_length*L_opp - Scale*P_opp) +
//	              cutoff_per_length*(e*(anchor_size+min(q,t)) - o)) /
//	              (Scale*e - cutoff_per_length) ) + 1 )
func (c *SparePenaltyCalculator) GetSparePenalty(
	patternCount uint32,
	oppositeLength, oppositePenalty uint32,
	queryLenThisSide, targetLenThisSide uint32,
) uint32 {
	r := c.regulator
	e := int64(r.Penalty.GapExtend)
	o := int64(r.Penalty.GapOpen)
	cpl := int64(r.Cutoff.MaximumScaledPenaltyPerLength)
	scale := int64(Scale)

	anchorSize := int64(patternCount) * int64(r.PatternSize)
	minQT := int64(queryLenThisSide)
	if int64(targetLenThisSide) < minQT {
		minQT = int64(targetLenThisSide)
	}

	lOpp := int64(oppositeLength)
	pOpp := int64(oppositePenalty)

	numerator := e*(cpl*lOpp-scale*pOpp) + cpl*(e*(anchorSize+minQT)-o)
	denominator := scale*e - cpl

	spare := ceilDivInt64(numerator, denominator) + 1
	if spare < o {
		spare = o
	}
	return uint32(spare)
}

// ceilDivInt64 computes ceil(a/b) for b > 0 and any sign of a, using
// truncating division (Go's native integer division already rounds
// toward zero, which is the correct ceiling behaviour for a <= 0).
func ceilDivInt64(a, b int64) int64 {
	if b <= 0 {
		return 0
	}
	q := a / b
	r := a % b
	if r != 0 && a > 0 {
		q++
	}
	return q
}
