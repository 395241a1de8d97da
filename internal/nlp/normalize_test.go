package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "only whitespace", in: " \t\n ", want: ""},
		{name: "collapses runs", in: "Python\n\n  SQL\tData   Analysis", want: "Python SQL Data Analysis"},
		{name: "trims", in: "  go  ", want: "go"},
		{name: "keeps punctuation", in: "Node.js,  C++ ", want: "Node.js, C++"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"  leading and trailing  ",
		"multi\n\nline\r\ntext\twith nbsp",
		"Experienced in Node.js and ReactJS development",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "Experienced in Node.js and ReactJS development.", want: []string{"experienced", "in", "node.js", "and", "reactjs", "development"}},
		{in: "C++ / C# and team-player", want: []string{"c++", "c#", "and", "team", "player"}},
		{in: "scikit-learn, power bi", want: []string{"scikit", "learn", "power", "bi"}},
		{in: "", want: []string{}},
		{in: "+++", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Words(tt.in))
		})
	}
}

func TestTokenize_Offsets(t *testing.T) {
	text := "Go and SQL"
	toks := Tokenize(text)
	if assert.Len(t, toks, 3) {
		assert.Equal(t, "SQL", text[toks[2].Start:toks[2].End])
	}
}

func TestTokenize_OffsetsSurviveCaseLengthChange(t *testing.T) {
	// 'İ' is two bytes; its lower-case form is three.
	text := "İstanbul team uses Node.js."
	toks := Tokenize(text)
	require.Len(t, toks, 4)
	assert.Equal(t, "Node.js", text[toks[3].Start:toks[3].End])
	assert.Equal(t, "node.js", toks[3].Text)
	assert.Equal(t, "İstanbul", text[toks[0].Start:toks[0].End])
}
