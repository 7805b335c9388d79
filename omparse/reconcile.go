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

import (
	"errors"
	"math"
	"sort"

	"github.com/promtools/om-ingest/model"
)

// reconcileFamily runs the structural checks that can only be made once an
// entire family's samples are known: histogram/gaugehistogram
// bucket monotonicity and the "+Inf" bucket, summary quantile range and
// "_count" values, and Info sample values. Families with zero samples are
// skipped and stay in the Document.
func (p *parser) reconcileFamily(fs *familyState) error {
	if len(fs.mf.Samples) == 0 {
		return nil
	}
	switch fs.mf.Type {
	case model.MetricHistogram, model.MetricGaugeHistogram:
		for _, bucket := range fs.histograms {
			for _, g := range bucket {
				if err := p.reconcileHistogramGroup(fs.mf.Name, fs.mf.Type, g); err != nil {
					return err
				}
			}
		}
	case model.MetricSummary:
		for _, bucket := range fs.summaries {
			for _, g := range bucket {
				if err := p.reconcileSummaryGroup(fs.mf.Name, g); err != nil {
					return err
				}
			}
		}
	case model.MetricInfo:
		if err := p.reconcileInfoFamily(fs.mf); err != nil {
			return err
		}
	}
	return nil
}

// reconcileInfoFamily enforces the convention that every sample of an Info
// family carries value 1. Not part of the core taxonomy's invariant list,
// but expected of a complete reader of the format.
func (p *parser) reconcileInfoFamily(mf *model.MetricFamily) error {
	for _, s := range mf.Samples {
		if s.Value != 1 {
			msg := "info sample value must be 1, got " + s.Value.String()
			if p.opts.GenericParseError {
				return GenericParseError{pos: p.pos(), Msg: msg}
			}
			return errors.New(p.pos().format(msg))
		}
	}
	return nil
}

func (p *parser) reconcileHistogramGroup(family string, typ model.MetricType, g *histogramGroup) error {
	if len(g.buckets) == 0 {
		return nil
	}
	bounds := make([]float64, 0, len(g.buckets))
	for le := range g.buckets {
		bounds = append(bounds, le)
	}
	sort.Float64s(bounds)

	sawInf := false
	prevCount := model.Number(math.Inf(-1))
	for _, le := range bounds {
		count := g.buckets[le]
		if count < prevCount {
			return HistogramInvariant{
				pos: p.pos(), Family: family, Group: g.labels,
				Reason: "cumulative bucket counts are not monotonically non-decreasing",
			}
		}
		prevCount = count
		if math.IsInf(le, 1) {
			sawInf = true
		}
	}
	if !sawInf {
		return HistogramInvariant{
			pos: p.pos(), Family: family, Group: g.labels,
			Reason: "missing required \"+Inf\" bucket",
		}
	}
	if g.hasCount && !isNonNegativeIntegerCount(g.count) {
		return HistogramInvariant{
			pos: p.pos(), Family: family, Group: g.labels,
			Reason: "\"_count\" must be a non-negative integer",
		}
	}
	if p.opts.ValidateHistogramCount && g.hasCount {
		infCount := g.buckets[math.Inf(1)]
		if !infCount.Equal(g.count) {
			return HistogramInvariant{
				pos: p.pos(), Family: family, Group: g.labels,
				Reason: "\"_count\" does not match the \"+Inf\" bucket value",
			}
		}
	}
	if typ == model.MetricHistogram && !g.hasSum {
		return HistogramInvariant{
			pos: p.pos(), Family: family, Group: g.labels,
			Reason: "histogram group is missing its \"_sum\" sample",
		}
	}
	return nil
}

func (p *parser) reconcileSummaryGroup(family string, g *summaryGroup) error {
	if len(g.quantiles) == 0 {
		return nil
	}
	// Duplicate quantile values within one group are rejected at
	// aggregation time (appendCurrentSample), before they ever reach a
	// map key collision here; g.quantiles is therefore already distinct.
	for q := range g.quantiles {
		if q < 0 || q > 1 {
			return SummaryInvariant{
				pos: p.pos(), Family: family, Group: g.labels,
				Reason: "quantile label outside [0, 1]",
			}
		}
	}
	if g.hasCount && !isNonNegativeIntegerCount(g.count) {
		return SummaryInvariant{
			pos: p.pos(), Family: family, Group: g.labels,
			Reason: "\"_count\" must be a non-negative integer",
		}
	}
	return nil
}

// isNonNegativeIntegerCount reports whether n is fit to serve as a
// "_count" sample: non-negative, finite, and with no fractional part.
func isNonNegativeIntegerCount(n model.Number) bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0 && f == math.Trunc(f)
}
