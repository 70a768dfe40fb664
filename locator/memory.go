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

// Package locator holds reference implementations of the
// sigalign.BufferedPatternLocator interface used to find exact
// pattern-sized seeds inside a target buffer. Building a production
// index (an FM-index or suffix array) is out of scope for the core
// alignment package; these exist for tests and small-scale use.
package locator

import "bytes"

// InMemoryLocator answers Locate with a linear scan via bytes.Index over
// a single in-memory target buffer. Too small a concern (a single
// substring search) to justify an ecosystem dependency; intended for
// tests and small targets, not production-scale lookups.
type InMemoryLocator struct {
	Target []byte
}

// NewInMemoryLocator wraps target for exact pattern lookup.
func NewInMemoryLocator(target []byte) *InMemoryLocator {
	return &InMemoryLocator{Target: target}
}

// Locate returns every ascending, non-overlapping-scan position in
// l.Target where pattern occurs (overlapping occurrences are all
// reported; only the scan cursor avoids reconsidering already-matched
// bytes before resuming one past the previous hit's start).
func (l *InMemoryLocator) Locate(pattern []byte) []uint32 {
	if len(pattern) == 0 {
		return nil
	}
	var out []uint32
	start := 0
	for {
		i := bytes.Index(l.Target[start:], pattern)
		if i < 0 {
			break
		}
		pos := start + i
		out = append(out, uint32(pos))
		start = pos + 1
	}
	return out
}
