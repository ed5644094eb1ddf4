// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package stream

import "time"

// Stats keeps an exponentially weighted moving average of the processing
// time per item of an inbound path
type Stats struct {
	alpha   float64
	perItem float64
	samples int
}

// NewStats creates a Stats giving the weight alpha to the newest sample
func NewStats(alpha float64) *Stats {
	return &Stats{alpha: alpha}
}

// Record adds a measurement of items processed within the given duration
func (s *Stats) Record(elapsed time.Duration, items int) {
	if items <= 0 {
		return
	}
	sample := float64(max(elapsed, 0)) / float64(items)
	if s.samples == 0 {
		s.perItem = sample
	} else {
		s.perItem = s.alpha*sample + (1-s.alpha)*s.perItem
	}
	s.samples++
}

// Samples returns the number of recorded measurements
func (s *Stats) Samples() int {
	return s.samples
}

// PerItem returns the average processing time of one item
func (s *Stats) PerItem() time.Duration {
	return time.Duration(s.perItem)
}

// DesiredCredit returns how many items fit in the given processing time,
// within [1, maxCredit]. Without measurements it returns the initial credit.
func (s *Stats) DesiredCredit(complexity time.Duration, initial, maxCredit int) int {
	if s.samples == 0 {
		return min(initial, maxCredit)
	}
	if s.perItem < 1 {
		return maxCredit
	}
	desired := float64(complexity) / s.perItem
	if desired >= float64(maxCredit) {
		return maxCredit
	}
	return max(1, int(desired))
}
