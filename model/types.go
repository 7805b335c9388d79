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

package model

// MetricType is the closed set of family types the OpenMetrics exposition
// format defines. The zero value is MetricUnknown, matching a family whose
// "# TYPE" line has not (yet) been seen.
//
// This mirrors dto.MetricType, but the name Unknown is used in
// place of the historical UNTYPED: the wire protobuf calls the "no type
// declared" case UNTYPED, the OpenMetrics text spec calls it unknown.
type MetricType int

const (
	MetricUnknown MetricType = iota
	MetricCounter
	MetricGauge
	MetricHistogram
	MetricGaugeHistogram
	MetricSummary
	MetricStateSet
	MetricInfo
)

// String renders the lower-case token that appears after "# TYPE <name>" in
// the exposition format.
func (t MetricType) String() string {
	switch t {
	case MetricCounter:
		return "counter"
	case MetricGauge:
		return "gauge"
	case MetricHistogram:
		return "histogram"
	case MetricGaugeHistogram:
		return "gaugehistogram"
	case MetricSummary:
		return "summary"
	case MetricStateSet:
		return "stateset"
	case MetricInfo:
		return "info"
	default:
		return "unknown"
	}
}

// ParseMetricType maps the token following "# TYPE <name>" to a MetricType.
// It is case-sensitive ; the caller is expected to have
// already rejected embedded whitespace.
func ParseMetricType(s string) (MetricType, bool) {
	switch s {
	case "counter":
		return MetricCounter, true
	case "gauge":
		return MetricGauge, true
	case "histogram":
		return MetricHistogram, true
	case "gaugehistogram":
		return MetricGaugeHistogram, true
	case "summary":
		return MetricSummary, true
	case "stateset":
		return MetricStateSet, true
	case "info":
		return MetricInfo, true
	case "unknown":
		return MetricUnknown, true
	default:
		return MetricUnknown, false
	}
}

// Reserved label and pseudo-label names used by the grammar. BucketLabel and
// QuantileLabel stay in a Sample's LabelSet as written; the aggregator also
// reads them to build bucket/quantile groupings.
const (
	MetricNameLabel = LabelName("__name__")
	BucketLabel     = LabelName("le")
	QuantileLabel   = LabelName("quantile")
)
