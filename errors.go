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

import "github.com/pkg/errors"

// Sentinel errors returned by the regulator and the extension driver.
// Use errors.Is to test for these; wrapped instances still compare equal.
var (
	// ErrInvalidRegulator is returned by NewRegulator when the supplied
	// Penalty/Cutoff combination cannot guarantee pigeonhole coverage,
	// or carries a zero base penalty.
	ErrInvalidRegulator = errors.New("sigalign: invalid regulator parameters")

	// ErrEmptyQuery is returned when a query of length zero is passed to
	// an alignment entry point.
	ErrEmptyQuery = errors.New("sigalign: empty query sequence")

	// ErrSequenceTooLong is returned when a query or target exceeds
	// MaxSequenceLength.
	ErrSequenceTooLong = errors.New("sigalign: sequence exceeds MaxSequenceLength")
)

// MaxSequenceLength bounds query/target length so diagonal indices and
// offsets fit comfortably in int32 arithmetic used throughout the
// wavefront buffers.
const MaxSequenceLength = 1 << 28

func invalidRegulatorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidRegulator, format, args...)
}
