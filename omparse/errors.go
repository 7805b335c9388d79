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
	"fmt"

	"github.com/promtools/om-ingest/model"
)

// pos carries the line number and byte offset every error in the taxonomy
// reports. Line is 1-based; Offset is the number of bytes
// consumed from the start of the input when the error was raised.
type pos struct {
	Line   int
	Offset int
}

func (p pos) format(msg string) string {
	return fmt.Sprintf("openmetrics parse error at line %d, byte %d: %s", p.Line, p.Offset, msg)
}

// omError is implemented by every member of the error taxonomy, so callers
// can distinguish "one of ours" from a bug surfaced as a bare error without
// enumerating every concrete type.
type omError interface {
	error
	omParseError()
}

// LexicalError reports a malformed identifier, number, string, or escape
// sequence.
type LexicalError struct {
	pos
	Token string
	Msg   string
}

func (e LexicalError) Error() string { return e.format(e.Msg) }
func (LexicalError) omParseError()   {}

// UnexpectedToken reports a grammar mismatch at a known position.
type UnexpectedToken struct {
	pos
	Found string
	Msg   string
}

func (e UnexpectedToken) Error() string { return e.format(e.Msg) }
func (UnexpectedToken) omParseError()   {}

// DuplicateMeta reports more than one TYPE/HELP/UNIT line for a family.
type DuplicateMeta struct {
	pos
	Family string
	Meta   string // "TYPE", "HELP", or "UNIT"
}

func (e DuplicateMeta) Error() string {
	return e.format(fmt.Sprintf("second %s line for metric family %q", e.Meta, e.Family))
}
func (DuplicateMeta) omParseError() {}

// MetaAfterSample reports a meta-line for a family that already has samples.
type MetaAfterSample struct {
	pos
	Family string
	Meta   string
}

func (e MetaAfterSample) Error() string {
	return e.format(fmt.Sprintf("%s line for metric family %q arrived after its samples", e.Meta, e.Family))
}
func (MetaAfterSample) omParseError() {}

// UnknownMetricType reports a "# TYPE" line naming an unrecognized type
// token.
type UnknownMetricType struct {
	pos
	Family string
	Token  string
}

func (e UnknownMetricType) Error() string {
	return e.format(fmt.Sprintf("unknown metric type %q for family %q", e.Token, e.Family))
}
func (UnknownMetricType) omParseError() {}

// UnitMismatch reports a "# UNIT" line whose family name does not carry the
// declared unit as a suffix.
type UnitMismatch struct {
	pos
	Family string
	Unit   string
}

func (e UnitMismatch) Error() string {
	return e.format(fmt.Sprintf("family %q does not end in unit suffix \"_%s\"", e.Family, e.Unit))
}
func (UnitMismatch) omParseError() {}

// DuplicateLabelName reports a label name appearing twice in one label
// list.
type DuplicateLabelName struct {
	pos
	Family string
	Label  string
}

func (e DuplicateLabelName) Error() string {
	return e.format(fmt.Sprintf("duplicate label name %q for family %q", e.Label, e.Family))
}
func (DuplicateLabelName) omParseError() {}

// InterleavedFamily reports that a sample for a family arrived after
// another family's samples had already begun, while
// Options.NoInterleaveMetric forbids that.
type InterleavedFamily struct {
	pos
	Family string
}

func (e InterleavedFamily) Error() string {
	return e.format(fmt.Sprintf("samples for family %q are not contiguous", e.Family))
}
func (InterleavedFamily) omParseError() {}

// TimestampRegression reports a timestamp that decreased within a series,
// while Options.EnforceTimestampMonotonic requires non-decreasing
// timestamps.
type TimestampRegression struct {
	pos
	Family string
	Labels model.LabelSet
}

func (e TimestampRegression) Error() string {
	return e.format(fmt.Sprintf("timestamp regressed for family %q series %s", e.Family, e.Labels))
}
func (TimestampRegression) omParseError() {}

// DuplicateSample reports two samples in the same series with identical
// timestamps, or both missing a timestamp.
type DuplicateSample struct {
	pos
	Family string
	Labels model.LabelSet
}

func (e DuplicateSample) Error() string {
	return e.format(fmt.Sprintf("duplicate sample for family %q series %s", e.Family, e.Labels))
}
func (DuplicateSample) omParseError() {}

// HistogramInvariant reports a structural failure of a histogram or
// gaugehistogram grouping discovered during reconciliation.
type HistogramInvariant struct {
	pos
	Family string
	Group  model.LabelSet
	Reason string
}

func (e HistogramInvariant) Error() string {
	return e.format(fmt.Sprintf("histogram family %q group %s: %s", e.Family, e.Group, e.Reason))
}
func (HistogramInvariant) omParseError() {}

// SummaryInvariant reports a structural failure of a summary grouping
// discovered during reconciliation.
type SummaryInvariant struct {
	pos
	Family string
	Group  model.LabelSet
	Reason string
}

func (e SummaryInvariant) Error() string {
	return e.format(fmt.Sprintf("summary family %q group %s: %s", e.Family, e.Group, e.Reason))
}
func (SummaryInvariant) omParseError() {}

// UnexpectedEof reports that input ended without a "# EOF" marker.
type UnexpectedEof struct {
	pos
}

func (e UnexpectedEof) Error() string { return e.format("unexpected end of input, missing \"# EOF\"") }
func (UnexpectedEof) omParseError()   {}

// TrailingInput reports data found after a "# EOF" marker.
type TrailingInput struct {
	pos
}

func (e TrailingInput) Error() string { return e.format("trailing input after \"# EOF\"") }
func (TrailingInput) omParseError()   {}

// GenericParseError is a catchall, emitted only when Options.GenericParseError
// is true and no more specific taxonomy member applies.
type GenericParseError struct {
	pos
	Msg string
}

func (e GenericParseError) Error() string { return e.format(e.Msg) }
func (GenericParseError) omParseError()   {}
