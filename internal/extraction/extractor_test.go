package extraction

import (
	"testing"

	"skill-gap/internal/domain/skill"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T, table skill.Table) *skill.Registry {
	t.Helper()
	r, err := skill.NewRegistry(table)
	require.NoError(t, err)
	return r
}

func TestExtract_NodeAndReact(t *testing.T) {
	reg := newRegistry(t, skill.Table{
		{Canonical: "node.js", Aliases: []string{"node.js", "node", "nodejs"}},
		{Canonical: "react", Aliases: []string{"react", "reactjs", "react.js"}},
	})

	got := New(reg).Extract("Experienced in Node.js and ReactJS development")

	assert.Equal(t, []string{"node.js", "react"}, got.Strings())
}

func TestExtract_ShortAliasIsAccepted(t *testing.T) {
	reg := newRegistry(t, skill.Table{
		{Canonical: "tensorflow", Aliases: []string{"tensorflow", "tf"}},
	})

	assert.Equal(t, []string{"tensorflow"}, New(reg).Extract("tf").Strings())
}

func TestExtract_PermissiveVersusStrictSubstring(t *testing.T) {
	reg := newRegistry(t, skill.Table{
		{Canonical: "tensorflow", Aliases: []string{"tensorflow", "tf"}},
	})
	text := "Three years at Netflix"

	assert.Equal(t, []string{"tensorflow"}, New(reg).Extract(text).Strings(), "default pass matches tf inside Netflix")
	assert.Empty(t, New(reg, WithStrictSubstring()).Extract(text).Strings())
	assert.Equal(t, []string{"tensorflow"}, New(reg, WithStrictSubstring()).Extract("Keras/TF models").Strings())
}

func TestExtract_DefaultRegistry(t *testing.T) {
	ex := New(skill.MustNewRegistry(skill.DefaultTable()))

	got := ex.Extract("Built ETL jobs in Python and PostgreSQL;\n\n strong C++ background, Power BI dashboards, problem-solving.")

	for _, want := range []skill.Canonical{"python", "sql", "c++", "power bi", "problem solving"} {
		assert.True(t, got.Has(want), "expected %q in %v", want, got.Strings())
	}
	assert.False(t, got.Has("java"))
}

func TestExtract_EmptyAndUnreadable(t *testing.T) {
	ex := New(skill.MustNewRegistry(skill.DefaultTable()))

	assert.Empty(t, ex.Extract(""))
	assert.Empty(t, ex.Extract("   \n\t "))
	assert.Empty(t, ex.Extract("python \xff\xfe sql"))
	assert.Empty(t, ex.Extract("nothing recognisable here"))
}

func TestExtract_IsASet(t *testing.T) {
	ex := New(skill.MustNewRegistry(skill.DefaultTable()))

	got := ex.Extract("python python PYTHON py")

	assert.Equal(t, []string{"python"}, got.Strings())
}

func TestPasses_AreIndependent(t *testing.T) {
	reg := newRegistry(t, skill.Table{
		{Canonical: "teamwork", Category: skill.CategorySoft, Aliases: []string{"teamwork", "team-player"}},
		{Canonical: "python", Aliases: []string{"python"}},
	})

	phrase := NewPhrasePass(reg)
	substring := NewSubstringPass(reg, false)

	// Tokenization joins "team player" with "team-player"; containment does not.
	assert.True(t, phrase.Find("a true team player").Has("teamwork"))
	assert.False(t, substring.Find("a true team player").Has("teamwork"))

	// Containment sees "python" inside "pythonic"; whole tokens do not.
	assert.False(t, phrase.Find("pythonic code").Has("python"))
	assert.True(t, substring.Find("pythonic code").Has("python"))

	got := New(reg).Extract("a true team player writing pythonic code")
	assert.Equal(t, []string{"python", "teamwork"}, got.Strings())
}

type fixedPass struct{ out skill.Set }

func (p fixedPass) Name() string          { return "fixed" }
func (p fixedPass) Find(string) skill.Set { return p.out }

func TestWithPasses(t *testing.T) {
	reg := newRegistry(t, skill.Table{{Canonical: "go", Aliases: []string{"go"}}})

	ex := New(reg, WithPasses(fixedPass{out: skill.NewSet("go")}, fixedPass{out: skill.NewSet("rust")}))

	assert.Equal(t, []string{"go", "rust"}, ex.Extract("anything").Strings())
}

func TestExtractCategorized(t *testing.T) {
	ex := New(skill.MustNewRegistry(skill.DefaultTable()))

	res := ex.ExtractCategorized("Django developer with great communication")

	assert.True(t, res.Technical.Has("django"))
	assert.True(t, res.Soft.Has("communication"))
	assert.Equal(t, res.All.Len(), res.Technical.Len()+res.Soft.Len())
}
