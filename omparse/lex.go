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
	"unicode/utf8"
)

// isBlankOrTab reports whether b is one of the two bytes the grammar treats
// as insignificant horizontal whitespace.
func isBlankOrTab(b byte) bool {
	return b == ' ' || b == '\t'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isValidMetricNameStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' || b == ':'
}

func isValidMetricNameContinuation(b byte) bool {
	return isValidMetricNameStart(b) || isDigit(b)
}

func isValidLabelNameStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isValidLabelNameContinuation(b byte) bool {
	return isValidLabelNameStart(b) || isDigit(b)
}

// skipBlankTab reads (and discards) bytes until it finds one that is
// neither ' ' nor '\t'. That byte is left in p.currentByte.
func (p *parser) skipBlankTab() {
	for {
		if p.currentByte, p.err = p.readByte(); p.err != nil || !isBlankOrTab(p.currentByte) {
			return
		}
	}
}

// skipBlankTabIfCurrentBlankTab works like skipBlankTab but is a no-op if
// p.currentByte is not already blank or tab.
func (p *parser) skipBlankTabIfCurrentBlankTab() {
	if isBlankOrTab(p.currentByte) {
		p.skipBlankTab()
	}
}

// readTokenUntilWhitespace copies bytes into p.currentToken, starting with
// the already-read p.currentByte. The terminating whitespace or newline byte
// is left in p.currentByte but not appended to the token.
func (p *parser) readTokenUntilWhitespace() {
	p.currentToken.Reset()
	for p.err == nil && !isBlankOrTab(p.currentByte) && p.currentByte != '\n' {
		p.currentToken.WriteByte(p.currentByte)
		p.currentByte, p.err = p.readByte()
	}
}

// readTokenUntilNewline copies bytes into p.currentToken until an unescaped
// newline, starting with the already-read p.currentByte. When
// recognizeEscapeSequence is true, "\\" and "\n" are unescaped; any other
// escape sequence is a LexicalError.
func (p *parser) readTokenUntilNewline(recognizeEscapeSequence bool) {
	p.currentToken.Reset()
	escaped := false
	for p.err == nil {
		if recognizeEscapeSequence && escaped {
			switch p.currentByte {
			case '\\':
				p.currentToken.WriteByte('\\')
			case 'n':
				p.currentToken.WriteByte('\n')
			default:
				p.lexicalError(string(p.currentByte), "invalid escape sequence")
				return
			}
			escaped = false
		} else {
			switch p.currentByte {
			case '\n':
				return
			case '\\':
				if recognizeEscapeSequence {
					escaped = true
				} else {
					p.currentToken.WriteByte(p.currentByte)
				}
			case '\r':
				p.lexicalError("\\r", "carriage return not permitted, use \\n escape or LF line endings")
				return
			default:
				p.currentToken.WriteByte(p.currentByte)
			}
		}
		p.currentByte, p.err = p.readByte()
	}
}

// readTokenAsMetricName copies a metric name into p.currentToken, starting
// with the already-read p.currentByte.
func (p *parser) readTokenAsMetricName() {
	p.currentToken.Reset()
	if !isValidMetricNameStart(p.currentByte) {
		return
	}
	for {
		p.currentToken.WriteByte(p.currentByte)
		p.currentByte, p.err = p.readByte()
		if p.err != nil || !isValidMetricNameContinuation(p.currentByte) {
			return
		}
	}
}

// readTokenAsLabelName copies a label name into p.currentToken, starting
// with the already-read p.currentByte.
func (p *parser) readTokenAsLabelName() {
	p.currentToken.Reset()
	if !isValidLabelNameStart(p.currentByte) {
		return
	}
	for {
		p.currentToken.WriteByte(p.currentByte)
		p.currentByte, p.err = p.readByte()
		if p.err != nil || !isValidLabelNameContinuation(p.currentByte) {
			return
		}
	}
}

// readTokenAsLabelValue copies a quoted label value into p.currentToken. It
// ignores the already-read p.currentByte (the opening quote) and starts by
// reading the next byte. The closing quote is consumed but not appended.
func (p *parser) readTokenAsLabelValue() {
	p.currentToken.Reset()
	escaped := false
	for {
		if p.currentByte, p.err = p.readByte(); p.err != nil {
			return
		}
		if escaped {
			switch p.currentByte {
			case '"', '\\':
				p.currentToken.WriteByte(p.currentByte)
			case 'n':
				p.currentToken.WriteByte('\n')
			default:
				p.lexicalError(string(p.currentByte), "invalid escape sequence in label value")
				return
			}
			escaped = false
			continue
		}
		switch p.currentByte {
		case '"':
			return
		case '\n':
			p.lexicalError(p.currentToken.String(), "label value contains unescaped newline")
			return
		case '\r':
			p.lexicalError("\\r", "carriage return not permitted, use \\n escape or LF line endings")
			return
		case '\\':
			escaped = true
		default:
			p.currentToken.WriteByte(p.currentByte)
		}
	}
}

// runeWidth measures a string the way Options.ExemplarLabelsMaxRunes counts
// it: by default, one unit per Unicode code point; under
// Options.NaiveWideCharSupport, one unit per two bytes of UTF-8 encoding
// (crediting wide CJK-style characters with their visual width instead of
// their code point count).
func (o Options) runeWidth(s string) int {
	if !o.NaiveWideCharSupport {
		return utf8.RuneCountInString(s)
	}
	width := 0
	for _, r := range s {
		width += (utf8.RuneLen(r) + 1) / 2
	}
	return width
}
