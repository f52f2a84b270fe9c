package extract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// parser materializes a restricted object-literal grammar: objects with
// quoted or unquoted keys, single- and double-quoted strings, numbers,
// booleans, null, arrays and nested objects, with trailing commas and
// comments tolerated. It replaces the dynamic evaluation a naive
// implementation would reach for; input is never executed.
type parser struct {
	src string
	pos int
}

var errUnexpectedEnd = errors.New("unexpected end of input")

// parseLiteral parses one value starting at src[0] and returns it together
// with the offset of the first byte after the literal.
func parseLiteral(src string) (any, int, error) {
	p := &parser{src: src}
	p.skipSpace()
	value, err := p.parseValue()
	if err != nil {
		return nil, 0, err
	}
	return value, p.pos, nil
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

// skipSpace advances past whitespace and JS-style comments.
func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.pos++
		case c == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '/':
			for p.pos < len(p.src) && p.src[p.pos] != '\n' {
				p.pos++
			}
		case c == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '*':
			end := strings.Index(p.src[p.pos+2:], "*/")
			if end < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += end + 4
		default:
			return
		}
	}
}

func (p *parser) parseValue() (any, error) {
	c, ok := p.peek()
	if !ok {
		return nil, errUnexpectedEnd
	}
	switch {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"' || c == '\'':
		return p.parseString()
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return p.parseWord()
	}
}

func (p *parser) parseObject() (map[string]any, error) {
	p.pos++ // consume '{'
	obj := make(map[string]any)
	for {
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, errUnexpectedEnd
		}
		if c == '}' {
			p.pos++
			return obj, nil
		}
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if c, ok := p.peek(); !ok || c != ':' {
			return nil, p.errorf("expected ':' after key %q", key)
		}
		p.pos++
		p.skipSpace()
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj[key] = value
		p.skipSpace()
		c, ok = p.peek()
		if !ok {
			return nil, errUnexpectedEnd
		}
		switch c {
		case ',':
			p.pos++
		case '}':
			// handled on next iteration
		default:
			return nil, p.errorf("expected ',' or '}' after value for %q", key)
		}
	}
}

func (p *parser) parseKey() (string, error) {
	c, ok := p.peek()
	if !ok {
		return "", errUnexpectedEnd
	}
	if c == '"' || c == '\'' {
		return p.parseString()
	}
	start := p.pos
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			p.pos += size
			continue
		}
		break
	}
	if p.pos == start {
		return "", p.errorf("expected object key")
	}
	return p.src[start:p.pos], nil
}

func (p *parser) parseArray() ([]any, error) {
	p.pos++ // consume '['
	items := []any{}
	for {
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, errUnexpectedEnd
		}
		if c == ']' {
			p.pos++
			return items, nil
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, value)
		p.skipSpace()
		c, ok = p.peek()
		if !ok {
			return nil, errUnexpectedEnd
		}
		switch c {
		case ',':
			p.pos++
		case ']':
			// handled on next iteration
		default:
			return nil, p.errorf("expected ',' or ']' in array")
		}
	}
}

func (p *parser) parseString() (string, error) {
	quote := p.src[p.pos]
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case quote:
			p.pos++
			return b.String(), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.src) {
				return "", errUnexpectedEnd
			}
			esc := p.src[p.pos]
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'u':
				if p.pos+4 >= len(p.src) {
					return "", errUnexpectedEnd
				}
				code, err := strconv.ParseUint(p.src[p.pos+1:p.pos+5], 16, 32)
				if err != nil {
					return "", p.errorf("invalid unicode escape")
				}
				b.WriteRune(rune(code))
				p.pos += 4
			default:
				// covers \\, \", \', \/ and anything else verbatim
				b.WriteByte(esc)
			}
			p.pos++
		case '\n':
			return "", p.errorf("unterminated string")
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", errUnexpectedEnd
}

func (p *parser) parseNumber() (float64, error) {
	start := p.pos
	if c, _ := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' ||
			((c == '-' || c == '+') && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E')) {
			p.pos++
			continue
		}
		break
	}
	value, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, p.errorf("invalid number %q", p.src[start:p.pos])
	}
	return value, nil
}

func (p *parser) parseWord() (any, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			p.pos++
			continue
		}
		break
	}
	switch p.src[start:p.pos] {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null", "undefined":
		return nil, nil
	default:
		p.pos = start
		return nil, p.errorf("unexpected token")
	}
}
