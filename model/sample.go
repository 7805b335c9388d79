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
	"math"
	"strconv"
	"strings"
)

// Number is an IEEE-754 double. The three special tokens the exposition
// format admits (+Inf, -Inf, NaN) are represented the same way any other
// Go float64 would be; String renders them back as the literal tokens.
type Number float64

// Equal does a straight v == o, except that NaN is considered equal to NaN
// here (the format treats repeated NaN samples as ordinary duplicates, not
// as "different" values that happen to never compare equal).
func (v Number) Equal(o Number) bool {
	if math.IsNaN(float64(v)) && math.IsNaN(float64(o)) {
		return true
	}
	return v == o
}

// String renders v the way it would appear as a sample value.
func (v Number) String() string {
	switch {
	case math.IsNaN(float64(v)):
		return "NaN"
	case math.IsInf(float64(v), 1):
		return "+Inf"
	case math.IsInf(float64(v), -1):
		return "-Inf"
	default:
		return strconv.FormatFloat(float64(v), 'g', -1, 64)
	}
}

// ParseNumber parses a sample or label value token, recognizing the three
// case-sensitive literal tokens (+Inf, -Inf, NaN) before falling back to
// strconv.ParseFloat. Unlike strconv.ParseFloat on its own, any other casing
// or spelling of an infinity/NaN token ("inf", "Infinity", "nan", ...) is
// rejected rather than silently accepted, since the format admits exactly
// the three literal tokens above and nothing else.
func ParseNumber(s string) (Number, error) {
	switch s {
	case "+Inf":
		return Number(math.Inf(1)), nil
	case "-Inf":
		return Number(math.Inf(-1)), nil
	case "NaN":
		return Number(math.NaN()), nil
	}
	if looksLikeNonFiniteToken(s) {
		return 0, strconv.ErrSyntax
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return Number(f), nil
}

// looksLikeNonFiniteToken reports whether s is some spelling of an
// infinity or NaN token that strconv.ParseFloat would accept case- and
// spelling-insensitively (e.g. "inf", "Infinity", "NAN") but that isn't one
// of the three exact literal tokens this format permits.
func looksLikeNonFiniteToken(s string) bool {
	t := s
	if len(t) > 0 && (t[0] == '+' || t[0] == '-') {
		t = t[1:]
	}
	return strings.EqualFold(t, "inf") || strings.EqualFold(t, "infinity") || strings.EqualFold(t, "nan")
}

// Exemplar is a reference point attached to a histogram bucket or counter
// sample. Exemplars are only legal on those two sample kinds;
// the grammar layer enforces that, not this type.
type Exemplar struct {
	Labels    LabelSet
	Value     Number
	Timestamp *Timestamp
}

// Sample is one observation: a label set, a value, and optionally a
// timestamp and an exemplar.
type Sample struct {
	Labels    LabelSet
	Value     Number
	Timestamp *Timestamp
	Exemplar  *Exemplar
}

// HasTimestamp reports whether s carries an explicit timestamp.
func (s Sample) HasTimestamp() bool {
	return s.Timestamp != nil
}
