package triple

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const fieldCount = 3

// ParseLine parses one line of the form ("Subject", "relation", "Object").
// Blank lines return ok == false and a nil error. Any other line either
// yields a Triple or a *ParseError.
func ParseLine(line string) (Triple, bool, error) {
	s := strings.TrimSpace(line)
	if s == "" {
		return Triple{}, false, nil
	}

	fail := func(format string, args ...any) (Triple, bool, error) {
		return Triple{}, false, &ParseError{Text: line, Reason: fmt.Sprintf(format, args...)}
	}

	// fields are exact-match keys, so bytes must not be rewritten
	if !utf8.ValidString(s) {
		return fail("invalid UTF-8")
	}

	if !strings.HasPrefix(s, "(") {
		return fail("unbalanced parentheses: missing '('")
	}
	if !strings.HasSuffix(s, ")") {
		return fail("unbalanced parentheses: missing ')'")
	}

	var fields []string
	rest := s[1 : len(s)-1]

	for {
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			break
		}

		if len(fields) > 0 {
			if rest[0] != ',' {
				if rest[0] == '(' || rest[0] == ')' {
					return fail("unbalanced parentheses")
				}
				return fail("unexpected %q after field %d", rest[0], len(fields))
			}
			// a trailing comma is accepted, as in a tuple literal
			rest = strings.TrimLeft(rest[1:], " \t")
			if rest == "" {
				break
			}
		}

		if rest[0] != '"' {
			if rest[0] == '(' || rest[0] == ')' {
				return fail("unbalanced parentheses")
			}
			return fail("expected quoted field, found %q", rest[0])
		}

		value, n, err := unquote(rest)
		if err != nil {
			return fail("field %d: %v", len(fields)+1, err)
		}

		fields = append(fields, strings.TrimSpace(value))
		rest = rest[n:]
	}

	if len(fields) != fieldCount {
		return fail("expected %d quoted fields, found %d", fieldCount, len(fields))
	}

	for i, f := range fields {
		if f == "" {
			return fail("field %d is empty", i+1)
		}
	}

	return Triple{Subject: fields[0], Relation: fields[1], Object: fields[2]}, true, nil
}

// unquote decodes the double-quoted literal at the start of s and reports
// how many bytes it consumed.
func unquote(s string) (string, int, error) {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			value, err := unescape(s[1:i])
			if err != nil {
				return "", 0, fmt.Errorf("invalid escape in %s: %w", s[:i+1], err)
			}
			return value, i + 1, nil
		}
	}

	return "", 0, fmt.Errorf("unterminated quote")
}

var simpleEscapes = map[byte]byte{
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
}

// unescape decodes single-character, octal, \xHH, \uXXXX and \UXXXXXXXX
// escapes. Unknown sequences such as \d are kept verbatim.
func unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}

		i++
		e := s[i]

		if v, ok := simpleEscapes[e]; ok {
			b.WriteByte(v)
			continue
		}

		switch {
		case isOctal(e):
			n, j := 0, i
			for ; j < len(s) && j < i+3 && isOctal(s[j]); j++ {
				n = n*8 + int(s[j]-'0')
			}
			b.WriteRune(rune(n))
			i = j - 1
		case hexWidth(e) > 0:
			width := hexWidth(e)
			if i+1+width > len(s) {
				return "", fmt.Errorf("truncated \\%c escape", e)
			}
			n, err := strconv.ParseUint(s[i+1:i+1+width], 16, 32)
			if err != nil {
				return "", fmt.Errorf("malformed \\%c escape", e)
			}
			if n > utf8.MaxRune || (n >= 0xD800 && n <= 0xDFFF) {
				return "", fmt.Errorf("code point %#x out of range", n)
			}
			b.WriteRune(rune(n))
			i += width
		default:
			b.WriteByte('\\')
			b.WriteByte(e)
		}
	}

	return b.String(), nil
}

func hexWidth(c byte) int {
	switch c {
	case 'x':
		return 2
	case 'u':
		return 4
	case 'U':
		return 8
	}
	return 0
}

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}
