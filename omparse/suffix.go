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

import "strings"

// Suffix recognition for the handful of reserved metric-name endings the
// exposition format attaches special meaning to. Each predicate only looks
// at the tail of the name; whether the suffix actually applies depends on
// the family's declared type, which callers check separately.

func isTotal(name string) bool   { return strings.HasSuffix(name, "_total") }
func isCreated(name string) bool { return strings.HasSuffix(name, "_created") }
func isCount(name string) bool   { return strings.HasSuffix(name, "_count") }
func isSum(name string) bool     { return strings.HasSuffix(name, "_sum") }
func isBucket(name string) bool  { return strings.HasSuffix(name, "_bucket") }
func isGCount(name string) bool  { return strings.HasSuffix(name, "_gcount") }
func isGSum(name string) bool    { return strings.HasSuffix(name, "_gsum") }
func isInfo(name string) bool    { return strings.HasSuffix(name, "_info") }

// infoBaseName strips an info family's "_info" suffix, if present, to
// recover the base name.
func infoBaseName(name string) string {
	if isInfo(name) {
		return strings.TrimSuffix(name, "_info")
	}
	return name
}

// counterBaseName strips a counter family's "_total" suffix, if present, to
// recover the base name used as the MetricFamily key.
func counterBaseName(name string) string {
	if isTotal(name) {
		return strings.TrimSuffix(name, "_total")
	}
	return name
}

// histogramBaseName strips any of the suffixes a histogram or
// gaugehistogram sample line may carry, to recover the base family name.
func histogramBaseName(name string) string {
	switch {
	case isGCount(name):
		return strings.TrimSuffix(name, "_gcount")
	case isGSum(name):
		return strings.TrimSuffix(name, "_gsum")
	case isCount(name):
		return strings.TrimSuffix(name, "_count")
	case isSum(name):
		return strings.TrimSuffix(name, "_sum")
	case isBucket(name):
		return strings.TrimSuffix(name, "_bucket")
	default:
		return name
	}
}

// summaryBaseName strips a summary family's "_count"/"_sum" suffix, if
// present, to recover the base name.
func summaryBaseName(name string) string {
	switch {
	case isCount(name):
		return strings.TrimSuffix(name, "_count")
	case isSum(name):
		return strings.TrimSuffix(name, "_sum")
	default:
		return name
	}
}
