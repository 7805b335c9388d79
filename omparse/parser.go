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

// Package omparse implements an ingesting parser for the OpenMetrics text
// exposition format. Parse reads a complete, already-buffered document (this
// package does not support chunked or streaming input) and returns a
// model.Document with every sample grouped into its MetricFamily, or the
// first error encountered.
package omparse

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/promtools/om-ingest/model"
)

// stateFn is one state of the recognizer. It returns the next state, or nil
// when parsing is finished (successfully or not; check parser.err).
type stateFn func() stateFn

// parser holds all mutable state for a single Parse call. A parser must not
// be reused across goroutines, mirroring OpenMetricsParser.
type parser struct {
	opts Options
	corr uuid.UUID

	buf         *bufio.Reader
	err         error
	lineCount   int
	byteCount   int
	currentByte byte
	currentToken bytes.Buffer

	sawEOFMarker bool

	doc *model.Document
	fam map[string]*familyState

	// Per-line scratch state, reset at the start of readingMetricName.
	currentMF         *model.MetricFamily
	currentFam        *familyState
	currentLabels     model.LabelSet
	seenLabelNames    map[string]struct{}
	currentLabelName  string
	currentIsCreated  bool
	currentIsCount    bool
	currentIsSum      bool
	currentIsGCount   bool
	currentIsGSum     bool
	currentIsExemplar bool
	currentExemplar   *model.Exemplar
	hasQuantile       bool
	currentQuantile   float64
	hasBucketLe       bool
	currentBucketLe   float64
	currentSample     model.Sample

	lastFamilyTouched string
}

// Parse parses in as a complete OpenMetrics text document according to opts
// and returns the resulting Document, or the first error encountered.
func Parse(in string, opts Options) (*model.Document, error) {
	p := &parser{opts: opts}
	if opts.CorrelationID != nil {
		p.corr = *opts.CorrelationID
	} else {
		p.corr = uuid.New()
	}
	p.reset(strings.NewReader(in))
	for nextState := p.startOfLine; nextState != nil; nextState = nextState() {
	}
	if p.err != nil {
		if errors.Is(p.err, io.EOF) {
			// Input ended part-way through a line.
			return nil, UnexpectedEof{p.pos()}
		}
		return nil, p.err
	}
	if !p.sawEOFMarker {
		e := UnexpectedEof{pos{Line: p.lineCount, Offset: p.byteCount}}
		return nil, e
	}
	if err := p.finalize(); err != nil {
		return nil, err
	}
	return p.doc, nil
}

func (p *parser) reset(in io.Reader) {
	p.buf = bufio.NewReader(in)
	p.err = nil
	p.lineCount = 0
	p.byteCount = 0
	p.doc = model.NewDocument()
	p.fam = make(map[string]*familyState)
	p.sawEOFMarker = false
	p.opts.debugLog(p.corr, "parse started")
}

// readByte reads the next byte, tracking the running byte offset used for
// error positions. A carriage return anywhere in the input is reported as a
// LexicalError.
func (p *parser) readByte() (byte, error) {
	b, err := p.buf.ReadByte()
	if err == nil {
		p.byteCount++
		if b == '\r' {
			return b, LexicalError{pos: p.pos(), Token: "\\r", Msg: "carriage return not permitted, use \\n escape or LF line endings"}
		}
	}
	return b, err
}

func (p *parser) pos() pos {
	return pos{Line: p.lineCount, Offset: p.byteCount}
}

func (p *parser) lexicalError(token, msg string) {
	p.err = LexicalError{pos: p.pos(), Token: token, Msg: msg}
}

func (p *parser) unexpectedToken(found, msg string) {
	p.err = UnexpectedToken{pos: p.pos(), Found: found, Msg: msg}
}

func (p *parser) generic(msg string) {
	if p.opts.GenericParseError {
		p.err = GenericParseError{pos: p.pos(), Msg: msg}
		return
	}
	p.err = errors.New(p.pos().format(msg))
}

// finalize runs cross-family reconciliation (histogram/summary structural
// checks) over every family accumulated during the scan. Families with no
// samples are not checked and stay in the Document.
func (p *parser) finalize() error {
	names := make([]string, 0, len(p.fam))
	p.doc.Range(func(name string, mf *model.MetricFamily) bool {
		names = append(names, name)
		return true
	})
	for _, name := range names {
		fs := p.fam[name]
		if fs == nil {
			continue
		}
		if err := p.reconcileFamily(fs); err != nil {
			return err
		}
	}
	return nil
}
