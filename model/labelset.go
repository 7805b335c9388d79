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

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"regexp"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// LabelName is a label key. Unlike plain strings, it carries the grammar
// `[a-zA-Z_][a-zA-Z0-9_]*`, with names starting with
// "__" (such as MetricNameLabel) reserved for family-internal use.
type LabelName string

var labelNameRE = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// IsValid reports whether ln matches the label name grammar. It does not
// reject reserved "__"-prefixed names; callers that need to forbid a caller
// from setting one directly (as the parser does for "__name__") check that
// separately, since a handful of reserved names are legitimately produced by
// the aggregator itself.
func (ln LabelName) IsValid() bool {
	return labelNameRE.MatchString(string(ln))
}

// LabelValue is a label value: an arbitrary UTF-8 string once unescaped.
// Any string, including the empty string, is a valid LabelValue; nothing
// restricts the *content* of a value, only how it is lexed.
type LabelValue string

// IsValid reports whether lv is valid UTF-8.
func (lv LabelValue) IsValid() bool {
	return strings.ToValidUTF8(string(lv), "�") == string(lv)
}

// metricNameRE is the grammar for metric (family) names, which additionally
// permit ':'.
var metricNameRE = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)

// IsValidMetricName reports whether name matches the metric name grammar.
func IsValidMetricName(name string) bool {
	return metricNameRE.MatchString(name)
}

// LabelSet is an unordered collection of LabelName/LabelValue pairs. Two
// label sets are equal iff they carry the same keys with the same values;
// insertion order is never semantic.
type LabelSet map[LabelName]LabelValue

// Validate checks that every name and value in the set is well-formed.
func (ls LabelSet) Validate() error {
	for ln, lv := range ls {
		if !ln.IsValid() {
			return fmt.Errorf("invalid label name %q", ln)
		}
		if !lv.IsValid() {
			return fmt.Errorf("invalid label value %q", lv)
		}
	}
	return nil
}

// Equal returns true iff both label sets have exactly the same key/value
// pairs.
func (ls LabelSet) Equal(o LabelSet) bool {
	if len(ls) != len(o) {
		return false
	}
	for ln, lv := range ls {
		olv, ok := o[ln]
		if !ok || olv != lv {
			return false
		}
	}
	return true
}

// Clone returns a copy of the label set.
func (ls LabelSet) Clone() LabelSet {
	cloned := make(LabelSet, len(ls))
	for ln, lv := range ls {
		cloned[ln] = lv
	}
	return cloned
}

// Merge non-destructively merges two label sets; values in other win.
func (ls LabelSet) Merge(other LabelSet) LabelSet {
	result := make(LabelSet, len(ls)+len(other))
	for ln, lv := range ls {
		result[ln] = lv
	}
	for ln, lv := range other {
		result[ln] = lv
	}
	return result
}

// String renders the label set the way it would appear inside a sample
// line's '{...}', with names sorted for determinism.
func (ls LabelSet) String() string {
	names := make([]string, 0, len(ls))
	for ln := range ls {
		names = append(names, string(ln))
	}
	sort.Strings(names)
	pairs := make([]string, 0, len(names))
	for _, n := range names {
		pairs = append(pairs, fmt.Sprintf("%s=%q", n, ls[LabelName(n)]))
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

// canonicalBytes produces the byte stream all three fingerprint strategies
// hash: sorted "name\xffvalue\xff..." so that distinct label sets practically
// never collide on the separator itself.
func (ls LabelSet) canonicalBytes() []byte {
	names := make([]string, 0, len(ls))
	for ln := range ls {
		names = append(names, string(ln))
	}
	sort.Strings(names)
	var b strings.Builder
	for _, n := range names {
		b.WriteString(n)
		b.WriteByte(0xff)
		b.WriteString(string(ls[LabelName(n)]))
		b.WriteByte(0xff)
	}
	return []byte(b.String())
}

// Fingerprint is a stable hash of a LabelSet's contents, used to key the
// per-series and per-group maps the aggregator and reconciler build.
// Fingerprints computed by different strategies are not comparable to one
// another.
type Fingerprint uint64

// Fingerprint returns the LabelSet's fingerprint using the default,
// cryptographic-strength hash (SHA-256, folded to 64 bits). This is the
// strategy used unless Options.NaiveLabelHash or Options.HashFNV select an
// alternative.
func (ls LabelSet) Fingerprint() Fingerprint {
	sum := sha256.Sum256(ls.canonicalBytes())
	return Fingerprint(binary.BigEndian.Uint64(sum[:8]))
}

// FastFingerprint returns the LabelSet's fingerprint computed with xxhash, a
// fast non-cryptographic hash that is more susceptible to collisions than
// Fingerprint. The aggregator's series and group maps fall back to full
// LabelSet.Equal on a collision; MetricFamily's "_created" timestamps are
// keyed by fingerprint alone.
func (ls LabelSet) FastFingerprint() Fingerprint {
	return Fingerprint(xxhash.Sum64(ls.canonicalBytes()))
}

// FNVFingerprint returns the LabelSet's fingerprint computed with 64-bit
// FNV-1a, the classic fast hash historically used throughout the Prometheus
// ecosystem for this purpose. Offered as Options.HashFNV, distinct from
// FastFingerprint's xxhash so callers can pick whichever non-cryptographic
// hash matches what the rest of their pipeline already uses.
func (ls LabelSet) FNVFingerprint() Fingerprint {
	h := fnv.New64a()
	h.Write(ls.canonicalBytes())
	return Fingerprint(h.Sum64())
}
