package asm

import (
	"strings"

	"github.com/ezrec/lc3/cpu"
)

// escapes maps backslash escapes to their characters.
var escapes = map[byte]byte{
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'e':  '\033',
	'0':  0,
	'\\': '\\',
	'"':  '"',
	'\'': '\'',
}

// isSeparator returns true for characters between tokens.
func isSeparator(c byte) bool {
	return c == ' ' || c == '\t' || c == ',' || c == '\r'
}

// Lex splits a line of source into tokens. Comments are removed,
// quoted strings, character literals and $(...) expressions are kept
// whole.
func Lex(line string, lineno int) (tokens []cpu.Token, err error) {
	n := 0
	for n < len(line) {
		c := line[n]
		if isSeparator(c) {
			n++
			continue
		}
		if c == ';' {
			break
		}

		start := n
		switch {
		case c == '"':
			n, err = scanQuoted(line, n, '"')
			if err != nil {
				err = ErrStringUnterminated
				return
			}
		case c == '\'':
			end, qerr := scanQuoted(line, n, '\'')
			if qerr != nil {
				n = scanWord(line, n+1)
			} else {
				n = end
			}
		case strings.HasPrefix(line[n:], "$("):
			depth := 0
			for n < len(line) {
				if line[n] == '(' {
					depth++
				} else if line[n] == ')' {
					depth--
					if depth == 0 {
						n++
						break
					}
				}
				n++
			}
			if depth != 0 {
				err = ErrParseExpression(line[start:])
				return
			}
		default:
			n = scanWord(line, n)
		}

		tokens = append(tokens, cpu.Token{Text: line[start:n], Line: lineno, Column: start + 1})
	}

	return
}

// scanWord returns the end of a plain word.
func scanWord(line string, n int) int {
	for n < len(line) && !isSeparator(line[n]) && line[n] != ';' && line[n] != '"' {
		n++
	}
	return n
}

// scanQuoted returns the end of a quoted run, just past the closing quote.
func scanQuoted(line string, n int, quote byte) (end int, err error) {
	for end = n + 1; end < len(line); end++ {
		switch line[end] {
		case '\\':
			end++
		case quote:
			end++
			return
		}
	}

	err = ErrStringUnterminated
	return
}

// unquote removes the quotes from a string literal, and expands escapes.
func unquote(text string) (str string, err error) {
	if len(text) < 2 || text[0] != text[len(text)-1] || (text[0] != '"' && text[0] != '\'') {
		err = ErrStringSyntax
		return
	}

	var sb strings.Builder
	body := text[1 : len(text)-1]
	for n := 0; n < len(body); n++ {
		c := body[n]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		n++
		if n == len(body) {
			err = ErrStringEscape
			return
		}
		c, ok := escapes[body[n]]
		if !ok {
			err = ErrStringEscape
			return
		}
		sb.WriteByte(c)
	}

	str = sb.String()
	return
}
