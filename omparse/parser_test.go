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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/promtools/om-ingest/model"
)

func TestParseSimpleGauge(t *testing.T) {
	doc, err := Parse("# TYPE a gauge\n# HELP a help\na 1\n# EOF\n", DefaultOptions())
	require.NoError(t, err)
	mf, ok := doc.Family("a")
	require.True(t, ok)
	require.Equal(t, model.MetricGauge, mf.Type)
	require.NotNil(t, mf.Help)
	require.Equal(t, "help", *mf.Help)
	require.Len(t, mf.Samples, 1)
	require.Equal(t, model.Number(1), mf.Samples[0].Value)
	require.Nil(t, mf.Samples[0].Timestamp)
	require.Empty(t, mf.Samples[0].Labels)
}

func TestParseCounterWithLabelsAndTimestamp(t *testing.T) {
	in := "# TYPE http_requests counter\n" +
		"http_requests_total{method=\"GET\"} 3 1680000000.5\n" +
		"# EOF\n"
	doc, err := Parse(in, DefaultOptions())
	require.NoError(t, err)
	mf, ok := doc.Family("http_requests")
	require.True(t, ok)
	require.Equal(t, model.MetricCounter, mf.Type)
	require.Len(t, mf.Samples, 1)
	s := mf.Samples[0]
	require.Equal(t, model.Number(3), s.Value)
	require.Equal(t, model.LabelValue("GET"), s.Labels["method"])
	require.True(t, s.HasTimestamp())
	require.Equal(t, model.Timestamp(1680000000.5), *s.Timestamp)
}

func TestParseInterleavedFamilyIsRejectedByDefault(t *testing.T) {
	in := "# TYPE a gauge\n" +
		"a 1\n" +
		"# TYPE b gauge\n" +
		"b 1\n" +
		"a 2\n" +
		"# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
	ie, ok := err.(InterleavedFamily)
	require.True(t, ok, "%T", err)
	require.Equal(t, "a", ie.Family)
}

func TestParseInterleavedFamilyAllowedWhenDisabled(t *testing.T) {
	in := "# TYPE a gauge\n" +
		"a 1 1\n" +
		"# TYPE b gauge\n" +
		"b 1\n" +
		"a 2 2\n" +
		"# EOF\n"
	opts := DefaultOptions()
	opts.NoInterleaveMetric = false
	doc, err := Parse(in, opts)
	require.NoError(t, err)
	mf, _ := doc.Family("a")
	require.Len(t, mf.Samples, 2)
}

func TestParseHistogramValid(t *testing.T) {
	in := "# TYPE a histogram\n" +
		"a_bucket{le=\"0.1\"} 5\n" +
		"a_bucket{le=\"1\"} 10\n" +
		"a_bucket{le=\"+Inf\"} 12\n" +
		"a_count 12\n" +
		"a_sum 7.5\n" +
		"# EOF\n"
	doc, err := Parse(in, DefaultOptions())
	require.NoError(t, err)
	mf, ok := doc.Family("a")
	require.True(t, ok)
	require.Equal(t, model.MetricHistogram, mf.Type)
	require.Len(t, mf.Samples, 5)
}

func TestParseHistogramCountMismatch(t *testing.T) {
	in := "# TYPE a histogram\n" +
		"a_bucket{le=\"0.1\"} 5\n" +
		"a_bucket{le=\"1\"} 10\n" +
		"a_bucket{le=\"+Inf\"} 12\n" +
		"a_count 13\n" +
		"a_sum 7.5\n" +
		"# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
	_, ok := err.(HistogramInvariant)
	require.True(t, ok, "%T", err)
}

func TestParseHistogramCountMismatchAllowedWhenDisabled(t *testing.T) {
	in := "# TYPE a histogram\n" +
		"a_bucket{le=\"0.1\"} 5\n" +
		"a_bucket{le=\"1\"} 10\n" +
		"a_bucket{le=\"+Inf\"} 12\n" +
		"a_count 13\n" +
		"a_sum 7.5\n" +
		"# EOF\n"
	opts := DefaultOptions()
	opts.ValidateHistogramCount = false
	_, err := Parse(in, opts)
	require.NoError(t, err)
}

func TestParseHistogramMissingInfBucket(t *testing.T) {
	in := "# TYPE a histogram\n" +
		"a_bucket{le=\"0.1\"} 5\n" +
		"a_count 5\n" +
		"a_sum 0.2\n" +
		"# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
	hi, ok := err.(HistogramInvariant)
	require.True(t, ok, "%T", err)
	require.Contains(t, hi.Reason, "+Inf")
}

func TestParseHistogramNonMonotonicBuckets(t *testing.T) {
	in := "# TYPE a histogram\n" +
		"a_bucket{le=\"0.1\"} 10\n" +
		"a_bucket{le=\"1\"} 5\n" +
		"a_bucket{le=\"+Inf\"} 12\n" +
		"a_count 12\n" +
		"a_sum 7.5\n" +
		"# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
	_, ok := err.(HistogramInvariant)
	require.True(t, ok, "%T", err)
}

func TestParseHistogramDuplicateBucketBound(t *testing.T) {
	in := "# TYPE a histogram\n" +
		"a_bucket{le=\"1\"} 5 1\n" +
		"a_bucket{le=\"1\"} 6 2\n" +
		"a_bucket{le=\"+Inf\"} 6\n" +
		"a_count 6\n" +
		"a_sum 1\n" +
		"# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
	_, ok := err.(HistogramInvariant)
	require.True(t, ok, "%T", err)
}

func TestParseGaugeHistogramSumOptional(t *testing.T) {
	in := "# TYPE a gaugehistogram\n" +
		"a_bucket{le=\"+Inf\"} 1\n" +
		"a_gcount 1\n" +
		"# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.NoError(t, err)
}

func TestParseHistogramMissingSumIsError(t *testing.T) {
	in := "# TYPE a histogram\n" +
		"a_bucket{le=\"+Inf\"} 1\n" +
		"a_count 1\n" +
		"# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
	_, ok := err.(HistogramInvariant)
	require.True(t, ok, "%T", err)
}

func TestParseSummaryOrderingAndDuplicateQuantile(t *testing.T) {
	in := "# TYPE a summary\n" +
		"a{quantile=\"0.5\"} 1\n" +
		"a{quantile=\"0.9\"} 2\n" +
		"a_count 2\n" +
		"a_sum 3\n" +
		"# EOF\n"
	doc, err := Parse(in, DefaultOptions())
	require.NoError(t, err)
	mf, _ := doc.Family("a")
	require.Equal(t, model.MetricSummary, mf.Type)

	dupe := "# TYPE a summary\n" +
		"a{quantile=\"0.5\"} 1\n" +
		"a{quantile=\"0.5\"} 2 1\n" +
		"# EOF\n"
	_, err = Parse(dupe, DefaultOptions())
	require.Error(t, err)
}

func TestParseSummaryQuantileOutOfRange(t *testing.T) {
	in := "# TYPE a summary\n" +
		"a{quantile=\"1.5\"} 1\n" +
		"# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
	_, ok := err.(SummaryInvariant)
	require.True(t, ok, "%T", err)
}

func TestParseMissingEOFIsError(t *testing.T) {
	_, err := Parse("a 1\n", DefaultOptions())
	require.Error(t, err)
	_, ok := err.(UnexpectedEof)
	require.True(t, ok, "%T", err)
}

func TestParseTrailingInputIsError(t *testing.T) {
	_, err := Parse("x 1\n# EOF\nextra\n", DefaultOptions())
	require.Error(t, err)
	_, ok := err.(TrailingInput)
	require.True(t, ok, "%T", err)
}

func TestParseTrailingBlankLineAfterEOFIsError(t *testing.T) {
	_, err := Parse("x 1\n# EOF\n\n", DefaultOptions())
	require.Error(t, err)
	_, ok := err.(TrailingInput)
	require.True(t, ok, "%T", err)
}

func TestParseEmptyLabelListAndTrailingComma(t *testing.T) {
	doc, err := Parse("# TYPE a gauge\na{} 1\n# EOF\n", DefaultOptions())
	require.NoError(t, err)
	mf, _ := doc.Family("a")
	require.Empty(t, mf.Samples[0].Labels)

	doc, err = Parse("# TYPE a gauge\na{x=\"1\",} 1\n# EOF\n", DefaultOptions())
	require.NoError(t, err)
	mf, _ = doc.Family("a")
	require.Equal(t, model.LabelValue("1"), mf.Samples[0].Labels["x"])
}

func TestParseNaNSampleValue(t *testing.T) {
	doc, err := Parse("# TYPE a gauge\na NaN\n# EOF\n", DefaultOptions())
	require.NoError(t, err)
	mf, _ := doc.Family("a")
	require.True(t, mf.Samples[0].Value.String() == "NaN")
}

func TestParseHelpTextEscapes(t *testing.T) {
	doc, err := Parse("# HELP a line one\\nline two\n# TYPE a gauge\na 1\n# EOF\n", DefaultOptions())
	require.NoError(t, err)
	mf, _ := doc.Family("a")
	require.Equal(t, "line one\nline two", *mf.Help)
}

func TestParseHelpInvalidEscape(t *testing.T) {
	_, err := Parse("# HELP a bad \\x escape\n# EOF\n", DefaultOptions())
	require.Error(t, err)
	_, ok := err.(LexicalError)
	require.True(t, ok, "%T", err)
}

func TestParseDuplicateTypeLine(t *testing.T) {
	in := "# TYPE a gauge\n# TYPE a gauge\na 1\n# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
	_, ok := err.(DuplicateMeta)
	require.True(t, ok, "%T", err)
}

func TestParseMetaAfterSampleIsError(t *testing.T) {
	in := "# TYPE a gauge\na 1\n# HELP a too late\n# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
	_, ok := err.(MetaAfterSample)
	require.True(t, ok, "%T", err)
}

func TestParseUnknownMetricTypeToken(t *testing.T) {
	_, err := Parse("# TYPE a bogus\n# EOF\n", DefaultOptions())
	require.Error(t, err)
	_, ok := err.(UnknownMetricType)
	require.True(t, ok, "%T", err)
}

func TestParseUnitMismatch(t *testing.T) {
	in := "# TYPE a_seconds gauge\n# UNIT a_seconds bananas\n# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
	_, ok := err.(UnitMismatch)
	require.True(t, ok, "%T", err)
}

func TestParseUnitMatch(t *testing.T) {
	in := "# TYPE a_seconds gauge\n# UNIT a_seconds seconds\na_seconds 1\n# EOF\n"
	doc, err := Parse(in, DefaultOptions())
	require.NoError(t, err)
	mf, _ := doc.Family("a_seconds")
	require.Equal(t, "seconds", *mf.Unit)
}

func TestParseDuplicateLabelNameInOneList(t *testing.T) {
	in := "# TYPE a gauge\na{x=\"1\",x=\"2\"} 1\n# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
	_, ok := err.(DuplicateLabelName)
	require.True(t, ok, "%T", err)
}

func TestParseTimestampRegressionIsError(t *testing.T) {
	in := "# TYPE a gauge\na 1 2\na 2 1\n# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
	_, ok := err.(TimestampRegression)
	require.True(t, ok, "%T", err)
}

func TestParseTimestampRegressionAllowedWhenDisabled(t *testing.T) {
	in := "# TYPE a gauge\na 1 2\na 2 1\n# EOF\n"
	opts := DefaultOptions()
	opts.EnforceTimestampMonotonic = false
	doc, err := Parse(in, opts)
	require.NoError(t, err)
	mf, _ := doc.Family("a")
	require.Len(t, mf.Samples, 2)
}

func TestParseDuplicateSampleSameTimestamp(t *testing.T) {
	in := "# TYPE a gauge\na 1 2\na 2 2\n# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
	_, ok := err.(DuplicateSample)
	require.True(t, ok, "%T", err)
}

func TestParseDuplicateSampleNoTimestamp(t *testing.T) {
	in := "# TYPE a gauge\na 1\na 2\n# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
	_, ok := err.(DuplicateSample)
	require.True(t, ok, "%T", err)
}

func TestParseCarriageReturnRejected(t *testing.T) {
	_, err := Parse("# TYPE a gauge\r\na 1\n# EOF\n", DefaultOptions())
	require.Error(t, err)
	_, ok := err.(LexicalError)
	require.True(t, ok, "%T", err)
}

func TestParseExemplarOnCounter(t *testing.T) {
	in := "# TYPE a counter\n" +
		"a_total 1 # {trace_id=\"abc\"} 1 2\n" +
		"# EOF\n"
	doc, err := Parse(in, DefaultOptions())
	require.NoError(t, err)
	mf, _ := doc.Family("a")
	require.NotNil(t, mf.Samples[0].Exemplar)
	require.Equal(t, model.LabelValue("abc"), mf.Samples[0].Exemplar.Labels["trace_id"])
}

func TestParseExemplarOnGaugeIsError(t *testing.T) {
	in := "# TYPE a gauge\na 1 # {x=\"1\"} 1\n# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
}

func TestParseCreatedSampleDoesNotBecomeARegularSample(t *testing.T) {
	in := "# TYPE a counter\n" +
		"a_total 1\n" +
		"a_created 1000\n" +
		"# EOF\n"
	doc, err := Parse(in, DefaultOptions())
	require.NoError(t, err)
	mf, _ := doc.Family("a")
	require.Len(t, mf.Samples, 1)
	fp := model.LabelSet{}.Fingerprint()
	ts, ok := mf.Created(fp)
	require.True(t, ok)
	require.Equal(t, model.Timestamp(1000), ts)
}

func TestParseInfoSampleMustBeOne(t *testing.T) {
	in := "# TYPE a info\na_info{version=\"1\"} 1\n# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.NoError(t, err)

	bad := "# TYPE a info\na_info{version=\"1\"} 2\n# EOF\n"
	_, err = Parse(bad, DefaultOptions())
	require.Error(t, err)
}

func TestParseIsPureFunctionOfInput(t *testing.T) {
	in := "# TYPE a counter\na_total{x=\"1\"} 3 5\n# EOF\n"
	d1, err1 := Parse(in, DefaultOptions())
	d2, err2 := Parse(in, DefaultOptions())
	require.NoError(t, err1)
	require.NoError(t, err2)
	require.Equal(t, d1.Names(), d2.Names())
	mf1, _ := d1.Family("a")
	mf2, _ := d2.Family("a")
	require.Equal(t, mf1.Samples, mf2.Samples)
}

func TestParseDocumentOrderMatchesFirstAppearance(t *testing.T) {
	in := "# TYPE z gauge\nz 1\n# TYPE a gauge\na 1\n# EOF\n"
	doc, err := Parse(in, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, []string{"z", "a"}, doc.Names())
}

func TestParseCounterWithoutTotalSuffixIsError(t *testing.T) {
	in := "# TYPE a counter\na 1\n# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
}

func TestParseReservedLabelNameRejected(t *testing.T) {
	in := "# TYPE a gauge\na{__name__=\"x\"} 1\n# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
}

func TestParseHistogramNaNBucketBoundRejected(t *testing.T) {
	in := "# TYPE a histogram\n" +
		"a_bucket{le=\"NaN\"} 5\n" +
		"a_bucket{le=\"1\"} 1\n" +
		"a_bucket{le=\"+Inf\"} 1\n" +
		"a_count 1\n" +
		"a_sum 1\n" +
		"# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
	_, ok := err.(LexicalError)
	require.True(t, ok, "%T", err)
}

func TestParseHistogramBucketBoundRejectsNonExactInfSpelling(t *testing.T) {
	in := "# TYPE a histogram\n" +
		"a_bucket{le=\"inf\"} 1\n" +
		"a_count 1\n" +
		"a_sum 1\n" +
		"# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
	_, ok := err.(LexicalError)
	require.True(t, ok, "%T", err)
}

func TestParseHistogramFractionalCountIsError(t *testing.T) {
	in := "# TYPE a histogram\n" +
		"a_bucket{le=\"+Inf\"} 12.5\n" +
		"a_count 12.5\n" +
		"a_sum 7.5\n" +
		"# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
	hi, ok := err.(HistogramInvariant)
	require.True(t, ok, "%T", err)
	require.Contains(t, hi.Reason, "non-negative integer")
}

func TestParseHistogramNegativeCountIsError(t *testing.T) {
	in := "# TYPE a histogram\n" +
		"a_bucket{le=\"+Inf\"} -3\n" +
		"a_count -3\n" +
		"a_sum 0\n" +
		"# EOF\n"
	opts := DefaultOptions()
	opts.ValidateHistogramCount = false
	_, err := Parse(in, opts)
	require.Error(t, err)
	hi, ok := err.(HistogramInvariant)
	require.True(t, ok, "%T", err)
	require.Contains(t, hi.Reason, "non-negative integer")
}

func TestParseSummaryFractionalCountIsError(t *testing.T) {
	in := "# TYPE a summary\n" +
		"a{quantile=\"0.5\"} 1\n" +
		"a_count 2.5\n" +
		"a_sum 3\n" +
		"# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
	si, ok := err.(SummaryInvariant)
	require.True(t, ok, "%T", err)
	require.Contains(t, si.Reason, "non-negative integer")
}

func TestParseLabelValueCarriageReturnRejected(t *testing.T) {
	in := "# TYPE a gauge\na{x=\"foo\rbar\"} 1\n# EOF\n"
	_, err := Parse(in, DefaultOptions())
	require.Error(t, err)
	_, ok := err.(LexicalError)
	require.True(t, ok, "%T", err)
}
