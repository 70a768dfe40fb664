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

package locator

import "github.com/coregx/ahocorasick"

// AhoCorasickLocator answers Locate by building a single-pattern
// Aho-Corasick automaton per call and scanning Target for every
// occurrence, advancing past each hit's start so overlapping
// occurrences are all reported. It stands in for a real FM-index/suffix
// array (building one is out of scope for the core package) while still
// exercising a genuine multi-pattern-capable matcher. Each Locate call
// builds a fresh one-pattern automaton; patterns are not batched across
// calls.
type AhoCorasickLocator struct {
	Target []byte
}

// NewAhoCorasickLocator wraps target for exact pattern lookup.
func NewAhoCorasickLocator(target []byte) *AhoCorasickLocator {
	return &AhoCorasickLocator{Target: target}
}

// Locate builds an automaton over the single pattern and returns every
// ascending position in l.Target it matches.
func (l *AhoCorasickLocator) Locate(pattern []byte) []uint32 {
	if len(pattern) == 0 {
		return nil
	}
	builder := ahocorasick.NewBuilder()
	builder.AddPattern(pattern)
	auto, err := builder.Build()
	if err != nil {
		return nil
	}

	var out []uint32
	at := 0
	for at <= len(l.Target) {
		m := auto.Find(l.Target, at)
		if m == nil {
			break
		}
		out = append(out, uint32(m.Start))
		at = m.Start + 1
	}
	return out
}
