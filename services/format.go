package services

import (
	"fmt"
	"strings"
	"time"
)

// Number format templates use a fixed placeholder set:
//
//	{YYYY}  four-digit year
//	{YY}    two-digit year
//	{###}   the sequence number, zero-padded to the number of # characters
//
// Templates are parsed into tokens once per render instead of applied by
// sequential string replacement, so literal text can never be mistaken for a
// placeholder.

type formatTokenKind int

const (
	tokenLiteral formatTokenKind = iota
	tokenYearFull
	tokenYearShort
	tokenSequence
)

type formatToken struct {
	kind  formatTokenKind
	text  string // literal text for tokenLiteral
	width int    // zero-pad width for tokenSequence
}

// parseNumberFormat tokenizes a format template. An unrecognized braced group
// is kept as literal text.
func parseNumberFormat(format string) []formatToken {
	var tokens []formatToken
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			tokens = append(tokens, formatToken{kind: tokenLiteral, text: literal.String()})
			literal.Reset()
		}
	}

	runes := []rune(format)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '{' {
			literal.WriteRune(runes[i])
			continue
		}

		end := -1
		for j := i + 1; j < len(runes); j++ {
			if runes[j] == '}' {
				end = j
				break
			}
		}
		if end < 0 {
			// Unterminated brace, treat the rest as literal.
			literal.WriteString(string(runes[i:]))
			break
		}

		body := string(runes[i+1 : end])
		switch {
		case body == "YYYY":
			flush()
			tokens = append(tokens, formatToken{kind: tokenYearFull})
		case body == "YY":
			flush()
			tokens = append(tokens, formatToken{kind: tokenYearShort})
		case body != "" && strings.Count(body, "#") == len(body):
			flush()
			tokens = append(tokens, formatToken{kind: tokenSequence, width: len(body)})
		default:
			literal.WriteString(string(runes[i : end+1]))
		}
		i = end
	}
	flush()

	return tokens
}

// renderNumberFormat substitutes the sequence number and year into the parsed
// template. A template without a sequence placeholder gets the number
// appended so two consecutive allocations can never render identically.
func renderNumberFormat(tokens []formatToken, seq int, now time.Time) string {
	var out strings.Builder
	hasSequence := false

	for _, token := range tokens {
		switch token.kind {
		case tokenLiteral:
			out.WriteString(token.text)
		case tokenYearFull:
			out.WriteString(fmt.Sprintf("%04d", now.Year()))
		case tokenYearShort:
			out.WriteString(fmt.Sprintf("%02d", now.Year()%100))
		case tokenSequence:
			hasSequence = true
			out.WriteString(fmt.Sprintf("%0*d", token.width, seq))
		}
	}

	if !hasSequence {
		out.WriteString(fmt.Sprintf("%d", seq))
	}
	return out.String()
}
