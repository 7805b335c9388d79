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
	"io"
	"math"
	"strings"

	"github.com/promtools/om-ingest/model"
)

// startOfLine is entered at the start of every line (or the leading
// whitespace before it).
func (p *parser) startOfLine() stateFn {
	p.lineCount++
	p.skipBlankTab()
	if p.err != nil {
		// io.EOF here is the expected, non-error end of a well-formed
		// document that will be rejected below by the missing-"# EOF"
		// check in Parse, unless "# EOF" has already been seen.
		if errors.Is(p.err, io.EOF) {
			p.err = nil
		}
		return nil
	}
	switch p.currentByte {
	case '#':
		return p.startComment
	case '\n':
		return p.startOfLine
	}
	return p.readingMetricName
}

// startComment is entered at the start of a "#"-introduced line (or the
// whitespace before its keyword).
func (p *parser) startComment() stateFn {
	p.skipBlankTab()
	if p.err != nil {
		return nil
	}
	if p.currentByte == '\n' {
		return p.startOfLine
	}
	p.readTokenUntilWhitespace()
	if p.err != nil {
		return nil
	}
	keyword := p.currentToken.String()
	if keyword != "HELP" && keyword != "TYPE" && keyword != "UNIT" && keyword != "EOF" {
		// Free-form comment: fast-forward to end of line.
		for p.currentByte != '\n' {
			if p.currentByte, p.err = p.readByte(); p.err != nil {
				return nil
			}
		}
		return p.startOfLine
	}

	if keyword == "EOF" {
		return p.finishEOFLine()
	}

	p.skipBlankTab()
	if p.err != nil {
		return nil
	}
	p.readTokenAsMetricName()
	if p.err != nil {
		return nil
	}
	if p.currentToken.Len() == 0 {
		p.lexicalError(string(p.currentByte), "invalid metric name in meta line")
		return nil
	}
	name := p.currentToken.String()
	fs := p.familyFor(name)
	if fs.sawSample {
		p.err = MetaAfterSample{pos: p.pos(), Family: name, Meta: keyword}
		return nil
	}
	p.currentMF = fs.mf
	p.currentFam = fs
	if p.currentByte == '\n' {
		return p.startOfLine
	}
	if !isBlankOrTab(p.currentByte) {
		p.unexpectedToken(string(p.currentByte), "expected whitespace after metric name")
		return nil
	}
	p.skipBlankTab()
	if p.err != nil {
		return nil
	}
	if p.currentByte == '\n' {
		return p.startOfLine
	}
	switch keyword {
	case "HELP":
		return p.readingHelp
	case "TYPE":
		return p.readingType
	case "UNIT":
		return p.readingUnit
	}
	panic("omparse: unreachable meta keyword " + keyword)
}

// finishEOFLine validates that nothing but the line terminator follows the
// "# EOF" keyword, and that no further content follows the line at all.
func (p *parser) finishEOFLine() stateFn {
	p.sawEOFMarker = true
	if isBlankOrTab(p.currentByte) {
		p.skipBlankTab()
		if p.err != nil {
			if errors.Is(p.err, io.EOF) {
				p.err = nil
				return nil
			}
			return nil
		}
	}
	if p.currentByte != '\n' {
		p.err = TrailingInput{p.pos()}
		return nil
	}
	if _, err := p.buf.ReadByte(); err == nil {
		p.err = TrailingInput{p.pos()}
	} else if !errors.Is(err, io.EOF) {
		p.err = err
	}
	return nil
}

// readingHelp is entered with p.currentByte holding the first byte of the
// docstring following "# HELP <name> ".
func (p *parser) readingHelp() stateFn {
	if p.currentMF.Help != nil {
		p.err = DuplicateMeta{pos: p.pos(), Family: p.currentMF.Name, Meta: "HELP"}
		return nil
	}
	p.readTokenUntilNewline(true)
	if p.err != nil {
		return nil
	}
	help := p.currentToken.String()
	p.currentMF.Help = &help
	return p.startOfLine
}

// readingType is entered with p.currentByte holding the first byte of the
// type token following "# TYPE <name> ".
func (p *parser) readingType() stateFn {
	if p.currentFam.typeSet {
		p.err = DuplicateMeta{pos: p.pos(), Family: p.currentMF.Name, Meta: "TYPE"}
		return nil
	}
	p.readTokenUntilNewline(false)
	if p.err != nil {
		return nil
	}
	token := p.currentToken.String()
	typ, ok := model.ParseMetricType(strings.ToLower(token))
	if !ok {
		p.err = UnknownMetricType{pos: p.pos(), Family: p.currentMF.Name, Token: token}
		return nil
	}
	p.currentMF.Type = typ
	p.currentFam.typeSet = true
	return p.startOfLine
}

// readingUnit is entered with p.currentByte holding the first byte of the
// unit token following "# UNIT <name> ".
func (p *parser) readingUnit() stateFn {
	if p.currentMF.Unit != nil {
		p.err = DuplicateMeta{pos: p.pos(), Family: p.currentMF.Name, Meta: "UNIT"}
		return nil
	}
	p.readTokenUntilNewline(true)
	if p.err != nil {
		return nil
	}
	unit := p.currentToken.String()
	if unit != "" && !strings.HasSuffix(p.currentMF.Name, "_"+unit) {
		p.err = UnitMismatch{pos: p.pos(), Family: p.currentMF.Name, Unit: unit}
		return nil
	}
	p.currentMF.Unit = &unit
	return p.startOfLine
}

// readingMetricName is entered with p.currentByte holding the first byte of
// a sample line's metric name.
func (p *parser) readingMetricName() stateFn {
	p.readTokenAsMetricName()
	if p.err != nil {
		return nil
	}
	if p.currentToken.Len() == 0 {
		p.lexicalError(string(p.currentByte), "invalid metric name")
		return nil
	}
	token := p.currentToken.String()

	fs, isCreated, isCnt, isSum_, isGCnt, isGSum := p.resolveSampleFamily(token)
	if fs.mf.Type == model.MetricCounter && !isCreated && !isTotal(token) {
		p.unexpectedToken(token, "counter sample name must end in \"_total\"")
		return nil
	}
	if !p.checkInterleave(fs.mf.Name) {
		return nil
	}

	p.currentMF = fs.mf
	p.currentFam = fs
	p.currentIsCreated = isCreated
	p.currentIsCount = isCnt
	p.currentIsSum = isSum_
	p.currentIsGCount = isGCnt
	p.currentIsGSum = isGSum
	p.currentIsExemplar = false
	p.currentExemplar = nil
	p.currentLabels = model.LabelSet{}
	p.seenLabelNames = make(map[string]struct{})
	p.hasQuantile = false
	p.hasBucketLe = false
	p.currentSample = model.Sample{}
	p.lastFamilyTouched = fs.mf.Name

	p.skipBlankTabIfCurrentBlankTab()
	if p.err != nil {
		return nil
	}
	return p.readingLabels
}

// resolveSampleFamily maps a sample line's literal metric-name token to the
// family it belongs to, recognizing the reserved type-specific suffixes
// ("_total", "_count", "_sum", "_bucket", "_gcount", "_gsum", "_created").
func (p *parser) resolveSampleFamily(token string) (fs *familyState, isCreatedVariant, isCnt, isSumVariant, isGCnt, isGSumVariant bool) {
	name := token
	if isCreated(token) {
		isCreatedVariant = true
		name = strings.TrimSuffix(token, "_created")
	}
	if f, ok := p.fam[name]; ok {
		return f, isCreatedVariant, false, false, false, false
	}
	if f, ok := p.fam[counterBaseName(name)]; ok && f.mf.Type == model.MetricCounter {
		return f, isCreatedVariant, false, false, false, false
	}
	if f, ok := p.fam[summaryBaseName(name)]; ok && f.mf.Type == model.MetricSummary {
		return f, isCreatedVariant, isCount(name), isSum(name), false, false
	}
	if f, ok := p.fam[histogramBaseName(name)]; ok {
		switch f.mf.Type {
		case model.MetricHistogram:
			return f, isCreatedVariant, isCount(name), isSum(name), false, false
		case model.MetricGaugeHistogram:
			return f, isCreatedVariant, false, false, isGCount(name), isGSum(name)
		}
	}
	if f, ok := p.fam[infoBaseName(name)]; ok && f.mf.Type == model.MetricInfo {
		return f, isCreatedVariant, false, false, false, false
	}
	return p.familyFor(name), isCreatedVariant, false, false, false, false
}

// readingLabels is entered with p.currentByte holding either the opening
// "{" of a label list, or the first byte of the sample value.
func (p *parser) readingLabels() stateFn {
	if p.currentIsExemplar {
		if p.currentByte != '{' {
			p.unexpectedToken(string(p.currentByte), "exemplar must carry a label set")
			return nil
		}
	} else if p.currentByte != '{' {
		return p.readingValue
	}
	return p.startLabelName
}

// startLabelName is entered at the start of a label name (or the
// whitespace before it).
func (p *parser) startLabelName() stateFn {
	p.skipBlankTab()
	if p.err != nil {
		return nil
	}
	if p.currentByte == '}' {
		p.skipBlankTab()
		if p.err != nil {
			return nil
		}
		return p.readingValue
	}
	p.readTokenAsLabelName()
	if p.err != nil {
		return nil
	}
	if p.currentToken.Len() == 0 {
		p.unexpectedToken(string(p.currentByte), "expected label name or '}'")
		return nil
	}
	name := p.currentToken.String()
	if name == string(model.MetricNameLabel) {
		p.unexpectedToken(name, "label name \"__name__\" is reserved")
		return nil
	}
	p.currentLabelName = name
	if !p.currentIsExemplar {
		if _, dup := p.seenLabelNames[name]; dup {
			p.err = DuplicateLabelName{pos: p.pos(), Family: p.currentFam.mf.Name, Label: name}
			return nil
		}
		p.seenLabelNames[name] = struct{}{}
	}
	p.skipBlankTabIfCurrentBlankTab()
	if p.err != nil {
		return nil
	}
	if p.currentByte != '=' {
		p.unexpectedToken(string(p.currentByte), "expected '=' after label name")
		return nil
	}
	return p.startLabelValue
}

// startLabelValue is entered at the start of a (quoted) label value, or the
// whitespace before it.
func (p *parser) startLabelValue() stateFn {
	p.skipBlankTab()
	if p.err != nil {
		return nil
	}
	if p.currentByte != '"' {
		p.unexpectedToken(string(p.currentByte), "expected opening quote for label value")
		return nil
	}
	p.readTokenAsLabelValue()
	if p.err != nil {
		return nil
	}
	value := p.currentToken.String()
	if !model.LabelValue(value).IsValid() {
		p.lexicalError(value, "invalid label value")
		return nil
	}
	name := p.currentLabelName

	switch {
	case p.currentFam.mf.Type == model.MetricSummary && name == string(model.QuantileLabel):
		q, err := model.ParseNumber(value)
		if err != nil {
			p.lexicalError(value, "expected a numeric \"quantile\" label value")
			return nil
		}
		p.currentQuantile = float64(q)
		p.hasQuantile = true
	case (p.currentFam.mf.Type == model.MetricHistogram || p.currentFam.mf.Type == model.MetricGaugeHistogram) && name == string(model.BucketLabel):
		le, err := model.ParseNumber(value)
		if err != nil || math.IsNaN(float64(le)) {
			p.lexicalError(value, "expected a finite-ordered \"le\" label value")
			return nil
		}
		p.currentBucketLe = float64(le)
		p.hasBucketLe = true
	}

	if p.currentIsExemplar {
		p.currentExemplar.Labels[model.LabelName(name)] = model.LabelValue(value)
	} else {
		p.currentLabels[model.LabelName(name)] = model.LabelValue(value)
	}

	p.skipBlankTab()
	if p.err != nil {
		return nil
	}
	switch p.currentByte {
	case ',':
		return p.startLabelName
	case '}':
		p.skipBlankTab()
		if p.err != nil {
			return nil
		}
		return p.readingValue
	default:
		p.unexpectedToken(string(p.currentByte), "expected ',' or '}' after label value")
		return nil
	}
}

// readingValue is entered with p.currentByte holding the first byte of the
// sample (or exemplar) value.
func (p *parser) readingValue() stateFn {
	p.readTokenUntilWhitespace()
	if p.err != nil {
		return nil
	}
	valStr := p.currentToken.String()
	value, err := model.ParseNumber(valStr)
	if err != nil {
		p.lexicalError(valStr, "expected a numeric value")
		return nil
	}
	if p.currentIsExemplar {
		if ok := p.checkExemplarLabelWidth(); !ok {
			return nil
		}
		p.currentExemplar.Value = value
	} else {
		p.currentSample.Labels = p.currentLabels
		p.currentSample.Value = value
	}

	switch p.currentByte {
	case '\n':
		return p.endOfSampleLine()
	case '#':
		return p.startExemplar
	default:
		return p.startTimestamp
	}
}

// checkExemplarLabelWidth enforces Options.ExemplarLabelsMaxRunes, if set, on
// the exemplar's rendered label set.
func (p *parser) checkExemplarLabelWidth() bool {
	if p.opts.ExemplarLabelsMaxRunes <= 0 {
		return true
	}
	if p.opts.runeWidth(p.currentExemplar.Labels.String()) > p.opts.ExemplarLabelsMaxRunes {
		p.unexpectedToken(p.currentExemplar.Labels.String(), "exemplar label set exceeds the configured width limit")
		return false
	}
	return true
}

// startExemplar is entered with p.currentByte holding the "#" introducing an
// exemplar.
func (p *parser) startExemplar() stateFn {
	typ := p.currentFam.mf.Type
	onBucket := (typ == model.MetricHistogram || typ == model.MetricGaugeHistogram) && p.hasBucketLe
	if typ != model.MetricCounter && !onBucket {
		p.unexpectedToken(p.currentFam.mf.Name, "exemplars are only permitted on counter and histogram bucket samples")
		return nil
	}
	p.skipBlankTab()
	if p.err != nil {
		return nil
	}
	p.currentIsExemplar = true
	p.currentExemplar = &model.Exemplar{Labels: model.LabelSet{}}
	return p.readingLabels
}

// startTimestamp is entered with p.currentByte holding the first byte after
// a sample or exemplar value (which may be blank/tab, "#", or the start of a
// timestamp token).
func (p *parser) startTimestamp() stateFn {
	p.skipBlankTab()
	if p.err != nil {
		return nil
	}
	if p.currentByte == '#' {
		return p.startExemplar
	}
	p.readTokenUntilWhitespace()
	if p.err != nil {
		return nil
	}
	tsStr := p.currentToken.String()
	ts, err := model.ParseTimestamp(tsStr)
	if err != nil {
		p.lexicalError(tsStr, "expected a numeric timestamp")
		return nil
	}
	if p.currentIsExemplar {
		p.currentExemplar.Timestamp = &ts
	} else {
		p.currentSample.Timestamp = &ts
	}
	p.skipBlankTabIfCurrentBlankTab()
	if p.err != nil {
		return nil
	}
	switch p.currentByte {
	case '\n':
		return p.endOfSampleLine()
	case '#':
		return p.startExemplar
	default:
		p.unexpectedToken(string(p.currentByte), "unexpected trailing content after timestamp")
		return nil
	}
}

// endOfSampleLine is reached once a full sample line, including any trailing
// exemplar, has been parsed. It runs the aggregator bookkeeping and returns
// to startOfLine.
func (p *parser) endOfSampleLine() stateFn {
	if !p.appendCurrentSample() {
		return nil
	}
	return p.startOfLine
}

// appendCurrentSample commits the in-progress sample to its family,
// enforcing the series-level invariants and feeding the
// histogram/summary reconciliation accumulators. It reports
// false (with p.err set) on invariant violation.
func (p *parser) appendCurrentSample() bool {
	s := p.currentSample
	if p.currentIsExemplar {
		s.Exemplar = p.currentExemplar
	}
	fam := p.currentFam
	name := fam.mf.Name

	if p.currentIsCreated {
		fp := p.opts.fingerprint(s.Labels)
		fam.mf.SetCreated(fp, model.Timestamp(s.Value))
		fam.sawSample = true
		return true
	}

	// "_count"/"_sum"/"_gcount"/"_gsum" lines are series of their own.
	seriesLabels := s.Labels
	var suffix string
	switch {
	case p.currentIsCount:
		suffix = "_count"
	case p.currentIsSum:
		suffix = "_sum"
	case p.currentIsGCount:
		suffix = "_gcount"
	case p.currentIsGSum:
		suffix = "_gsum"
	}
	if suffix != "" {
		seriesLabels = s.Labels.Merge(model.LabelSet{model.MetricNameLabel: model.LabelValue(name + suffix)})
	}
	if !p.recordSeries(fam, name, seriesLabels, s.Timestamp) {
		return false
	}
	fam.mf.Samples = append(fam.mf.Samples, s)
	fam.sawSample = true

	switch fam.mf.Type {
	case model.MetricHistogram, model.MetricGaugeHistogram:
		g := fam.histogramGroupFor(p, s.Labels)
		switch {
		case p.hasBucketLe:
			if _, dup := g.buckets[p.currentBucketLe]; dup {
				p.err = HistogramInvariant{
					pos: p.pos(), Family: name, Group: g.labels,
					Reason: "duplicate \"le\" bucket bound",
				}
				return false
			}
			g.buckets[p.currentBucketLe] = s.Value
		case p.currentIsCount, p.currentIsGCount:
			g.hasCount = true
			g.count = s.Value
		case p.currentIsSum, p.currentIsGSum:
			g.hasSum = true
			g.sum = s.Value
		}
	case model.MetricSummary:
		g := fam.summaryGroupFor(p, s.Labels)
		switch {
		case p.hasQuantile:
			if _, dup := g.quantiles[p.currentQuantile]; dup {
				p.err = SummaryInvariant{
					pos: p.pos(), Family: name, Group: g.labels,
					Reason: "duplicate quantile value in summary group",
				}
				return false
			}
			g.quantiles[p.currentQuantile] = s.Value
		case p.currentIsCount:
			g.hasCount = true
			g.count = s.Value
		case p.currentIsSum:
			g.hasSum = true
			g.sum = s.Value
		}
	}
	return true
}
