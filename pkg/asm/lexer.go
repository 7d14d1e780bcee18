// Package asm implements the two assembler front ends (§4.7): lexing,
// numeric-literal parsing, and arity validation for the register and stack
// dialects, producing reg.Program and stack.Program respectively.
//
// Grounded on _examples/original_source/util.cpp's split_words (comment
// stripping, quote-aware whitespace/comma splitting) and the two dialects'
// tokenise_line functions in register_machine.cpp / stack_machine.cpp.
package asm

import "strings"

// splitWords strips a `;`-prefixed comment, then splits line on whitespace
// and commas, keeping double-quoted runs intact as single words.
func splitWords(line string) []string {
	if idx := strings.IndexByte(line, ';'); idx >= 0 {
		line = line[:idx]
	}

	var words []string
	var cur strings.Builder
	inQuotes := false
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case inQuotes:
			cur.WriteRune(r)
		case r == ' ' || r == '\t' || r == ',':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return words
}

// splitLines splits source on '\n', trimming a trailing '\r' from each line
// (tolerating CRLF input).
func splitLines(source string) []string {
	raw := strings.Split(source, "\n")
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func isHexDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')) {
			return false
		}
	}
	return true
}

func isDecimalDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
