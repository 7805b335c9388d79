// Copyright 2026 The OpenMetrics Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package omparse

import "github.com/promtools/om-ingest/model"

// familyState is the aggregator's working memory for one metric family: the
// MetricFamily being built, plus the bookkeeping needed to enforce the
// cross-line invariants (interleaving, monotonic timestamps, duplicate
// samples) and to group bucket/quantile lines for reconciliation at
// "# EOF".
type familyState struct {
	mf *model.MetricFamily

	typeSet   bool // an explicit "# TYPE" line has been seen
	sawSample bool // any sample line seen; gates MetaAfterSample

	series map[model.Fingerprint][]*seriesState

	histograms map[model.Fingerprint][]*histogramGroup
	summaries  map[model.Fingerprint][]*summaryGroup
}

func newFamilyState(mf *model.MetricFamily) *familyState {
	return &familyState{
		mf:         mf,
		series:     make(map[model.Fingerprint][]*seriesState),
		histograms: make(map[model.Fingerprint][]*histogramGroup),
		summaries:  make(map[model.Fingerprint][]*summaryGroup),
	}
}

// seriesState tracks the last timestamp observed for one exact label set, so
// the aggregator can enforce monotonic timestamps and reject duplicate
// samples. labels is kept alongside the fingerprint so a hash
// collision against a different series can be told apart by full equality.
type seriesState struct {
	labels       model.LabelSet
	hasLast      bool
	lastTS       model.Timestamp
	lastHadNoTS  bool
}

// histogramGroup accumulates the bucket/count/sum lines that share a
// label set minus "le", for structural validation at "# EOF".
type histogramGroup struct {
	labels           model.LabelSet // group labels, without "le"
	buckets          map[float64]model.Number
	hasCount, hasSum bool
	count, sum       model.Number
}

// summaryGroup accumulates the quantile/count/sum lines that share a
// label set minus "quantile", for structural validation at "# EOF".
type summaryGroup struct {
	labels           model.LabelSet // group labels, without "quantile"
	quantiles        map[float64]model.Number
	hasCount, hasSum bool
	count, sum       model.Number
}

// familyFor returns the family state for name, creating the MetricFamily and
// registering it with the document in first-seen order if this is the first
// line mentioning it (mirrors setOrCreateCurrentMF).
func (p *parser) familyFor(name string) *familyState {
	if fs, ok := p.fam[name]; ok {
		return fs
	}
	mf := p.doc.EnsureFamily(name)
	fs := newFamilyState(mf)
	p.fam[name] = fs
	return fs
}

// checkInterleave enforces Options.NoInterleaveMetric: the samples of any
// one family must form a contiguous range in document order. Once the
// parser has moved on from family name to a different family,
// seeing another sample for name again is an error.
func (p *parser) checkInterleave(name string) bool {
	if !p.opts.NoInterleaveMetric {
		return true
	}
	if p.lastFamilyTouched == "" || p.lastFamilyTouched == name {
		return true
	}
	if fs, ok := p.fam[name]; ok && fs.sawSample {
		p.err = InterleavedFamily{pos: p.pos(), Family: name}
		return false
	}
	return true
}

// recordSeries updates monotonicity/duplicate bookkeeping for one sample
// about to be appended to fs, identified by its full label set. Fingerprint
// collisions against an unrelated label set are resolved by full equality,
// never merged into the wrong series' state.
func (p *parser) recordSeries(fs *familyState, familyName string, labels model.LabelSet, ts *model.Timestamp) bool {
	fp := p.opts.fingerprint(labels)
	var s *seriesState
	for _, cand := range fs.series[fp] {
		if cand.labels.Equal(labels) {
			s = cand
			break
		}
	}
	if s == nil {
		s = &seriesState{labels: labels.Clone()}
		fs.series[fp] = append(fs.series[fp], s)
	}
	switch {
	case ts == nil:
		if s.hasLast && s.lastHadNoTS {
			p.err = DuplicateSample{pos: p.pos(), Family: familyName, Labels: labels}
			return false
		}
		s.lastHadNoTS = true
		s.hasLast = true
	default:
		if s.hasLast && !s.lastHadNoTS {
			switch {
			case ts.Equal(s.lastTS):
				p.err = DuplicateSample{pos: p.pos(), Family: familyName, Labels: labels}
				return false
			case ts.Before(s.lastTS):
				if p.opts.EnforceTimestampMonotonic {
					p.err = TimestampRegression{pos: p.pos(), Family: familyName, Labels: labels}
					return false
				}
			}
		}
		s.lastTS = *ts
		s.lastHadNoTS = false
		s.hasLast = true
	}
	return true
}

// groupLabels returns labels with the given reserved label name removed,
// used to compute the histogram/summary group key.
func groupLabels(labels model.LabelSet, drop model.LabelName) model.LabelSet {
	out := make(model.LabelSet, len(labels))
	for k, v := range labels {
		if k == drop {
			continue
		}
		out[k] = v
	}
	return out
}

func (fs *familyState) histogramGroupFor(p *parser, labels model.LabelSet) *histogramGroup {
	gl := groupLabels(labels, model.BucketLabel)
	fp := p.opts.fingerprint(gl)
	for _, cand := range fs.histograms[fp] {
		if cand.labels.Equal(gl) {
			return cand
		}
	}
	g := &histogramGroup{labels: gl, buckets: make(map[float64]model.Number)}
	fs.histograms[fp] = append(fs.histograms[fp], g)
	return g
}

func (fs *familyState) summaryGroupFor(p *parser, labels model.LabelSet) *summaryGroup {
	gl := groupLabels(labels, model.QuantileLabel)
	fp := p.opts.fingerprint(gl)
	for _, cand := range fs.summaries[fp] {
		if cand.labels.Equal(gl) {
			return cand
		}
	}
	g := &summaryGroup{labels: gl, quantiles: make(map[float64]model.Number)}
	fs.summaries[fp] = append(fs.summaries[fp], g)
	return g
}
