package nlp

import (
	"strings"
	"unicode"
)

// Normalize collapses every whitespace run into a single space and trims the result.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	return strings.Join(strings.FieldsFunc(text, unicode.IsSpace), " ")
}

type Token struct {
	Text  string
	Start int
	End   int
}

// Tokenize splits text into lower-cased word tokens. Letters and digits form
// tokens; '+', '#' and '.' stay inside a token when they follow a letter or
// digit so forms like "c++", "c#" and "node.js" survive. Trailing dots are
// trimmed. Start and End are byte offsets into text, not into its lower-cased form.
func Tokenize(text string) []Token {
	out := make([]Token, 0, len(text)/5+1)

	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		raw := strings.TrimRight(text[start:end], ".")
		if raw != "" {
			out = append(out, Token{Text: strings.ToLower(raw), Start: start, End: start + len(raw)})
		}
		start = -1
	}

	for i, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			if start < 0 {
				start = i
			}
		case start >= 0 && (r == '+' || r == '#' || r == '.'):
		default:
			flush(i)
		}
	}
	flush(len(text))

	return out
}

// Words returns the token texts of Tokenize.
func Words(text string) []string {
	toks := Tokenize(text)
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Text)
	}
	return out
}
