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
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"

	"github.com/promtools/om-ingest/model"
)

// Options toggles the parser's configuration surface. The zero value is not
// ready to use directly for most callers; DefaultOptions returns the
// recommended starting point.
type Options struct {
	// NaiveWideCharSupport, when set, makes runeWidth count one unit per two
	// bytes of each character's UTF-8 encoding (rounded up) instead of one
	// unit per Unicode code point. Default: off.
	NaiveWideCharSupport bool

	// NoInterleaveMetric forbids returning to a family once another
	// family's samples have appeared. Default: on.
	NoInterleaveMetric bool

	// EnforceTimestampMonotonic requires non-decreasing timestamps within
	// each series. Default: on.
	EnforceTimestampMonotonic bool

	// ValidateHistogramCount requires a histogram's "_count" sample to
	// equal its "+Inf" bucket's value. Default: on.
	ValidateHistogramCount bool

	// NaiveLabelHash selects LabelSet.FastFingerprint (xxhash) instead of
	// the cryptographic default. Default: off.
	NaiveLabelHash bool

	// HashFNV selects LabelSet.FNVFingerprint instead of the cryptographic
	// default. Mutually exclusive with NaiveLabelHash in effect (if both
	// are set, NaiveLabelHash wins). Default: off.
	HashFNV bool

	// GenericParseError enables the GenericParseError catchall taxonomy
	// member for failures that don't fit a more specific case. Default: on.
	GenericParseError bool

	// ExemplarLabelsMaxRunes caps an exemplar's serialized label set
	// length, counted by runeWidth. 0 disables the check. Default: 128,
	// the limit the OpenMetrics specification recommends upstream.
	ExemplarLabelsMaxRunes int

	// Logger, if set, receives one structured Debug-level line when a Parse
	// call starts. Family recognition and reconciliation are not logged.
	// Parsing never logs at Info level or above; errors are values, not
	// log lines.
	Logger log.Logger

	// CorrelationID tags every log line emitted for one Parse call. If
	// Logger is set and CorrelationID is nil, one is generated.
	CorrelationID *uuid.UUID
}

// DefaultOptions returns the recommended default for every toggle.
func DefaultOptions() Options {
	return Options{
		NoInterleaveMetric:        true,
		EnforceTimestampMonotonic: true,
		ValidateHistogramCount:    true,
		GenericParseError:         true,
		ExemplarLabelsMaxRunes:    128,
	}
}

// fingerprint picks the configured hashing strategy for a label set.
func (o Options) fingerprint(ls model.LabelSet) model.Fingerprint {
	switch {
	case o.NaiveLabelHash:
		return ls.FastFingerprint()
	case o.HashFNV:
		return ls.FNVFingerprint()
	default:
		return ls.Fingerprint()
	}
}

// debugLog emits a Debug-level trace line through Options.Logger, if set,
// tagging it with the correlation ID. No-op when Logger is nil.
func (o Options) debugLog(corr uuid.UUID, msg string, keyvals ...interface{}) {
	if o.Logger == nil {
		return
	}
	kv := append([]interface{}{"correlation_id", corr.String(), "msg", msg}, keyvals...)
	_ = level.Debug(o.Logger).Log(kv...)
}
