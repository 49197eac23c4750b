// Package parser implements the indentation-sensitive structured-text format
// used by spec documents. It produces a generic Value tree with no knowledge
// of the domain schema; the binder projects the tree into typed specs.
//
// The format supports block mappings, block sequences, inline scalars,
// single literal block scalars (|), and line comments. It is deliberately
// not a general-purpose format implementation.
package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError describes a structural failure at a specific source line.
// Parsing is all-or-nothing: the first structural error aborts the whole
// document with no partial results.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Parse parses a whole document as a single top-level mapping.
func Parse(text string) (*Value, error) {
	p := &parser{raw: strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")}

	if ln, ok := p.peek(); ok && ln.indent != 0 {
		return nil, p.syntaxErr(ln, "top-level content must start at column zero")
	}

	root := NewMapping()
	if err := p.parseMappingInto(root, 0); err != nil {
		return nil, err
	}
	return root, nil
}

// parser is a cursor over raw source lines. There is no pre-tokenization:
// structure is recovered line by line from indentation.
type parser struct {
	raw []string
	pos int
}

type lineInfo struct {
	num    int    // 1-based source line number
	indent int    // leading spaces
	text   string // line content without indentation, right-trimmed
}

// peek returns the next structural line, skipping blank and comment lines.
// Skipped lines are consumed; structural lines are not.
func (p *parser) peek() (lineInfo, bool) {
	for p.pos < len(p.raw) {
		raw := p.raw[p.pos]
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			p.pos++
			continue
		}
		ind := indentOf(raw)
		return lineInfo{
			num:    p.pos + 1,
			indent: ind,
			text:   strings.TrimRight(raw[ind:], " \t\r"),
		}, true
	}
	return lineInfo{}, false
}

func (p *parser) syntaxErr(ln lineInfo, msg string) error {
	return &ParseError{Line: ln.num, Msg: msg}
}

// parseMapping parses a block of sibling mapping entries at the given
// indentation. The block ends at the first line indented less than that.
func (p *parser) parseMapping(indent int) (*Value, error) {
	m := NewMapping()
	if err := p.parseMappingInto(m, indent); err != nil {
		return nil, err
	}
	return m, nil
}

func (p *parser) parseMappingInto(m *Value, indent int) error {
	for {
		ln, ok := p.peek()
		if !ok || ln.indent < indent {
			return nil
		}
		if ln.indent > indent {
			// Deeper lines belong to entry values and are consumed by
			// recursion; reaching one here means the document is malformed.
			return p.syntaxErr(ln, "unexpected indentation")
		}
		p.pos++

		key, rest, bad := splitKeyLine(ln.text)
		if bad {
			return p.syntaxErr(ln, fmt.Sprintf("missing ':' in mapping entry %q", ln.text))
		}
		if strings.HasPrefix(rest, "#") {
			rest = ""
		}
		if err := p.parseEntry(m, key, rest, ln.indent); err != nil {
			return err
		}
	}
}

// parseEntry resolves the value for one mapping entry whose key line sat at
// entryIndent with inline remainder rest, and stores it in m.
func (p *parser) parseEntry(m *Value, key, rest string, entryIndent int) error {
	var val *Value
	var err error
	switch {
	case rest == "":
		val, err = p.nestedValue(entryIndent)
	case strings.HasPrefix(rest, "|"):
		val = p.parseBlockScalar(entryIndent)
	default:
		val = parseScalar(rest)
	}
	if err != nil {
		return err
	}
	m.Set(key, val)
	return nil
}

// nestedValue determines the value of an entry with nothing after the colon:
// a strictly deeper line starting with '-' opens a sequence, any other
// strictly deeper line opens a mapping, and anything else means null.
func (p *parser) nestedValue(entryIndent int) (*Value, error) {
	next, ok := p.peek()
	if !ok || next.indent <= entryIndent {
		return Null(), nil
	}
	if isDashLine(next.text) {
		return p.parseSequence(next.indent)
	}
	return p.parseMapping(next.indent)
}

// parseSequence parses a block of '-' items at the given indentation.
func (p *parser) parseSequence(indent int) (*Value, error) {
	seq := NewSequence()
	for {
		ln, ok := p.peek()
		if !ok || ln.indent < indent {
			return seq, nil
		}
		if ln.indent > indent {
			return nil, p.syntaxErr(ln, "unexpected indentation")
		}
		if !isDashLine(ln.text) {
			return nil, p.syntaxErr(ln, "expected '-' sequence item")
		}
		p.pos++

		afterDash := ln.text[1:]
		trimmed := strings.TrimLeft(afterDash, " ")
		// Column of the first token after the dash; a same-line nested
		// mapping continues on following lines at this column.
		keyCol := ln.indent + 1 + (len(afterDash) - len(trimmed))
		rest := strings.TrimRight(trimmed, " \t")
		if strings.HasPrefix(rest, "#") {
			rest = ""
		}

		switch {
		case rest == "":
			// Bare dash: a nested mapping block indented past the dash.
			next, ok := p.peek()
			if ok && next.indent > indent {
				item, err := p.parseMapping(next.indent)
				if err != nil {
					return nil, err
				}
				seq.Append(item)
			} else {
				seq.Append(Null())
			}
		default:
			if key, val, isEntry := splitInlineEntry(rest); isEntry {
				item := NewMapping()
				if err := p.parseEntry(item, key, val, keyCol); err != nil {
					return nil, err
				}
				if err := p.parseMappingInto(item, keyCol); err != nil {
					return nil, err
				}
				seq.Append(item)
			} else {
				seq.Append(parseScalar(rest))
			}
		}
	}
}

// parseBlockScalar consumes a literal block scalar. The indentation of the
// first non-blank content line fixes the content indentation; the block ends
// at the first line dedented below it. Interior blank lines are preserved as
// empty lines; trailing blanks are clipped. The result carries a trailing
// newline; an empty block is the empty string, not null.
func (p *parser) parseBlockScalar(keyIndent int) *Value {
	var content []string
	contentIndent := -1
	pendingBlanks := 0

	for p.pos < len(p.raw) {
		raw := p.raw[p.pos]
		if strings.TrimSpace(raw) == "" {
			p.pos++
			if contentIndent >= 0 {
				pendingBlanks++
			}
			continue
		}
		ind := indentOf(raw)
		if contentIndent < 0 {
			if ind <= keyIndent {
				break
			}
			contentIndent = ind
		}
		if ind < contentIndent {
			break
		}
		for ; pendingBlanks > 0; pendingBlanks-- {
			content = append(content, "")
		}
		content = append(content, strings.TrimRight(raw[contentIndent:], "\r"))
		p.pos++
	}

	if len(content) == 0 {
		return String("")
	}
	return String(strings.Join(content, "\n") + "\n")
}

// splitKeyLine splits a `key: value` line at the first colon that ends the
// key (followed by a space or the end of line). bad is true when the line
// has no such colon, which is fatal for the whole document.
func splitKeyLine(text string) (key, rest string, bad bool) {
	for i := 0; i < len(text); i++ {
		if text[i] == ':' && (i == len(text)-1 || text[i+1] == ' ') {
			return strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+1:]), false
		}
	}
	return "", "", true
}

// splitInlineEntry recognizes a `key: value` pair in a sequence item
// remainder. The key must be a single token; anything else is an inline
// scalar (so `- echo a: b` stays a command string).
func splitInlineEntry(rest string) (key, val string, ok bool) {
	idx := strings.IndexByte(rest, ':')
	if idx <= 0 {
		return "", "", false
	}
	if idx < len(rest)-1 && rest[idx+1] != ' ' {
		return "", "", false
	}
	key = rest[:idx]
	if strings.ContainsAny(key, " \t") {
		return "", "", false
	}
	return key, strings.TrimSpace(rest[idx+1:]), true
}

// parseScalar coerces an inline scalar: quoted strings keep their content
// with escapes applied; unquoted text is comment-stripped, trimmed, and
// coerced to bool, integer, or string; empty means null.
func parseScalar(s string) *Value {
	if len(s) > 0 && (s[0] == '"' || s[0] == '\'') {
		return String(unquote(s))
	}
	s = strings.TrimSpace(stripComment(s))
	if s == "" {
		return Null()
	}
	if strings.EqualFold(s, "true") {
		return Bool(true)
	}
	if strings.EqualFold(s, "false") {
		return Bool(false)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(n)
	}
	return String(s)
}

// unquote interprets a quoted scalar, applying the supported escapes
// (\n \t \r \\ \" \'). Text after the closing quote is ignored, which is
// where trailing comments on quoted values end up.
func unquote(s string) string {
	quote := s[0]
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case '\'':
				b.WriteByte('\'')
			default:
				b.WriteByte('\\')
				b.WriteByte(s[i])
			}
			continue
		}
		if c == quote {
			break
		}
		b.WriteByte(c)
	}
	return b.String()
}

// stripComment removes a trailing line comment from unquoted scalar text.
// A '#' only opens a comment at the start of the text or after whitespace.
func stripComment(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '#' && (i == 0 || s[i-1] == ' ' || s[i-1] == '\t') {
			return s[:i]
		}
	}
	return s
}

func indentOf(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}

func isDashLine(text string) bool {
	return text == "-" || strings.HasPrefix(text, "- ")
}
