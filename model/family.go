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

// MetricFamily groups every sample that shares a base metric name and a
// declared (or defaulted) type.
type MetricFamily struct {
	Name string
	Type MetricType
	Help *string
	Unit *string

	// Samples is in order of first occurrence in the document.
	Samples []Sample

	// created, keyed by series fingerprint, holds each series' optional
	// "_created" timestamp. Absence is never an error.
	created map[Fingerprint]Timestamp
}

// Created returns the "_created" timestamp recorded for the series
// identified by fp, if one was present in the document.
func (mf *MetricFamily) Created(fp Fingerprint) (Timestamp, bool) {
	if mf.created == nil {
		return 0, false
	}
	t, ok := mf.created[fp]
	return t, ok
}

// SetCreated records a "_created" timestamp for the series identified by fp.
// It is called by the aggregator, never by application code.
func (mf *MetricFamily) SetCreated(fp Fingerprint, t Timestamp) {
	if mf.created == nil {
		mf.created = make(map[Fingerprint]Timestamp)
	}
	mf.created[fp] = t
}

// Document is the finalized, immutable result of a successful parse: an
// ordered mapping from family name to MetricFamily. Order is
// the order in which each family was first mentioned in the source text.
type Document struct {
	families map[string]*MetricFamily
	order    []string
}

// NewDocument returns an empty, mutable Document. Only the parser package
// constructs these; application code receives them already finalized.
func NewDocument() *Document {
	return &Document{families: make(map[string]*MetricFamily)}
}

// Family returns the named family, or (nil, false) if the document does not
// contain it.
func (d *Document) Family(name string) (*MetricFamily, bool) {
	mf, ok := d.families[name]
	return mf, ok
}

// EnsureFamily returns the family named name, creating an Unknown-typed one
// and recording its position in document order if this is its first
// mention.
func (d *Document) EnsureFamily(name string) *MetricFamily {
	if mf, ok := d.families[name]; ok {
		return mf
	}
	mf := &MetricFamily{Name: name, Type: MetricUnknown}
	d.families[name] = mf
	d.order = append(d.order, name)
	return mf
}

// Names returns the family names in order of first appearance.
func (d *Document) Names() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Len returns the number of families in the document.
func (d *Document) Len() int {
	return len(d.families)
}

// Range calls fn for every family in document order, stopping early if fn
// returns false.
func (d *Document) Range(fn func(name string, mf *MetricFamily) bool) {
	for _, name := range d.order {
		if !fn(name, d.families[name]) {
			return
		}
	}
}
