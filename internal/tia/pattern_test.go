package tia

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPattern(t *testing.T) {
	cases := []struct {
		name string
		ids  []string
		want string
	}{
		{"empty", nil, ""},
		{"blank lines only", []string{"", "  "}, ""},
		{"classes keep order", []string{"FooTest", "BarTest"}, "FooTest,BarTest"},
		{"duplicates dropped", []string{"FooTest", "FooTest", "BarTest"}, "FooTest,BarTest"},
		{"methods merged", []string{"a.FooTest#one", "a.BarTest", "a.FooTest#two"}, "a.FooTest#one+two,a.BarTest"},
		{"whole class wins", []string{"a.FooTest#one", "a.FooTest"}, "a.FooTest"},
		{"empty method is whole class", []string{"a.FooTest#"}, "a.FooTest"},
		{"missing class skipped", []string{"#orphan", "X"}, "X"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatPattern(tc.ids))
		})
	}
}

// The rendered pattern must select exactly the given identifiers out of a
// universe of tests, as the test runner would.
func TestFormatPattern_SelectsExactlyTheIdentifiers(t *testing.T) {
	universe := []string{
		"com.acme.FooTest",
		"com.acme.FooTest#one",
		"com.acme.FooTest#two",
		"com.acme.BarTest#fast",
		"com.acme.BarTest#slow",
		"com.acme.web.PageTest",
		"org.other.BazTest",
	}
	cases := [][]string{
		{"com.acme.FooTest"},
		{"com.acme.BarTest#fast"},
		{"com.acme.BarTest#fast", "com.acme.web.PageTest"},
		{"org.other.BazTest", "com.acme.FooTest#two"},
	}
	for _, ids := range cases {
		sel, err := ParseSelection(FormatPattern(ids))
		require.NoError(t, err)
		for _, id := range ids {
			assert.True(t, sel.Selects(id), "pattern %q must select %s", FormatPattern(ids), id)
		}
		for _, other := range universe {
			if sel.Selects(other) && !coveredBy(other, ids) {
				t.Errorf("pattern %q unexpectedly selects %s", FormatPattern(ids), other)
			}
		}
	}
}

// coveredBy reports whether id is one of ids or a method of a whole class in ids.
func coveredBy(id string, ids []string) bool {
	for _, want := range ids {
		if id == want || len(id) > len(want) && id[:len(want)+1] == want+"#" {
			return true
		}
	}
	return false
}

func TestParseSelection_Grammar(t *testing.T) {
	sel, err := ParseSelection("com/acme/**/*Test.java, !*Slow*, Foo#test*One+two?")
	require.NoError(t, err)

	assert.True(t, sel.Selects("com.acme.web.PageTest"))
	assert.False(t, sel.Selects("com.acme.web.PageSlowTest"))
	assert.True(t, sel.Selects("x.Foo#testAOne"))
	assert.True(t, sel.Selects("x.Foo#twoX"))
	assert.False(t, sel.Selects("x.Foo#three"))
	assert.False(t, sel.Selects("x.Foo"))
	assert.False(t, sel.Selects("org.Other"))
}

func TestParseSelection_Regex(t *testing.T) {
	sel, err := ParseSelection("%regex[com.acme.*Test#fast.*]")
	require.NoError(t, err)
	assert.True(t, sel.Selects("com.acme.BarTest#fastPath"))
	assert.False(t, sel.Selects("com.acme.BarTest#slow"))

	_, err = ParseSelection("%regex[(]")
	assert.Error(t, err)
	_, err = ParseSelection("%regex[abc")
	assert.Error(t, err)
}

func TestParseSelection_RunNothingSelectsNothing(t *testing.T) {
	sel, err := ParseSelection(RunNothing)
	require.NoError(t, err)
	for _, id := range []string{"FooTest", "com.acme.BarTest#m", "a/b/C.java"} {
		assert.False(t, sel.Selects(id), id)
	}
}

func TestSelection_Filter(t *testing.T) {
	sel, err := ParseSelection("FooTest,BarTest")
	require.NoError(t, err)
	got := sel.Filter([]string{"a.FooTest", "a.BazTest", "b.BarTest#m"})
	assert.Equal(t, []string{"a.FooTest", "b.BarTest#m"}, got)
}
