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

// Package omconfig is the YAML-loadable mirror of omparse.Options. Callers
// who only want the programmatic struct depend on omparse directly; this
// package exists so the seven toggles can be loaded from a config file the
// way every other knob in this ecosystem is, without forcing a YAML
// dependency on callers who don't need one.
package omconfig

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v2"

	"github.com/promtools/om-ingest/omparse"
)

// Options is the YAML-shaped mirror of omparse.Options. Field names use
// snake_case tags matching the table documented alongside the parser.
type Options struct {
	NaiveWideCharSupport      bool `yaml:"naive_wide_char_support"`
	NoInterleaveMetric        bool `yaml:"no_interleave_metric"`
	EnforceTimestampMonotonic bool `yaml:"enforce_timestamp_monotonic"`
	ValidateHistogramCount    bool `yaml:"validate_histogram_count"`
	NaiveLabelHash            bool `yaml:"naive_label_hash"`
	HashFNV                   bool `yaml:"hash_fnv"`
	GenericParseError         bool `yaml:"generic_parse_error"`
	ExemplarLabelsMaxRunes    int  `yaml:"exemplar_labels_max_runes"`
}

// DefaultOptions mirrors omparse.DefaultOptions in YAML-shaped form.
func DefaultOptions() Options {
	d := omparse.DefaultOptions()
	return Options{
		NaiveWideCharSupport:      d.NaiveWideCharSupport,
		NoInterleaveMetric:        d.NoInterleaveMetric,
		EnforceTimestampMonotonic: d.EnforceTimestampMonotonic,
		ValidateHistogramCount:    d.ValidateHistogramCount,
		NaiveLabelHash:            d.NaiveLabelHash,
		HashFNV:                   d.HashFNV,
		GenericParseError:         d.GenericParseError,
		ExemplarLabelsMaxRunes:    d.ExemplarLabelsMaxRunes,
	}
}

// Validate rejects a configuration that asks for both non-cryptographic
// fingerprint strategies at once; NaiveLabelHash would silently win, which
// is surprising enough in a config file to reject outright rather than in
// code that merely picks one.
func (o *Options) Validate() error {
	if o.NaiveLabelHash && o.HashFNV {
		return fmt.Errorf("at most one of naive_label_hash & hash_fnv must be configured")
	}
	if o.ExemplarLabelsMaxRunes < 0 {
		return fmt.Errorf("exemplar_labels_max_runes must be non-negative")
	}
	return nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface, seeding o with
// DefaultOptions before applying the document and validating the result.
func (o *Options) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plain Options
	*o = (Options)(DefaultOptions())
	if err := unmarshal((*plain)(o)); err != nil {
		return err
	}
	return o.Validate()
}

// ToParserOptions converts o to the programmatic omparse.Options, leaving
// Logger and CorrelationID unset for the caller to fill in.
func (o Options) ToParserOptions() omparse.Options {
	return omparse.Options{
		NaiveWideCharSupport:      o.NaiveWideCharSupport,
		NoInterleaveMetric:        o.NoInterleaveMetric,
		EnforceTimestampMonotonic: o.EnforceTimestampMonotonic,
		ValidateHistogramCount:    o.ValidateHistogramCount,
		NaiveLabelHash:            o.NaiveLabelHash,
		HashFNV:                   o.HashFNV,
		GenericParseError:         o.GenericParseError,
		ExemplarLabelsMaxRunes:    o.ExemplarLabelsMaxRunes,
	}
}

// Load parses a YAML document into an Options, applying defaults for any
// toggle the document leaves unset and validating the result.
func Load(data []byte) (Options, error) {
	o := DefaultOptions()
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Options{}, err
	}
	return o, nil
}

// LoadFile reads and parses the YAML document at path.
func LoadFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, err
	}
	return Load(data)
}
