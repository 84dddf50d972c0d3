package selector_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sinclairtarget/git-kudos/internal/selector"
)

func TestParseMatchMode(t *testing.T) {
	tests := map[string]selector.MatchMode{
		"":          selector.SubstringMode,
		"substring": selector.SubstringMode,
		"Glob":      selector.GlobMode,
		"regex":     selector.RegexMode,
		"regexp":    selector.RegexMode,
	}

	for s, expected := range tests {
		mode, err := selector.ParseMatchMode(s)
		require.NoError(t, err)
		require.Equal(t, expected, mode, "mode for %q", s)
	}

	_, err := selector.ParseMatchMode("fuzzy")
	require.True(t, errors.Is(err, selector.ErrUnknownMatchMode))
}

func TestNewMatcherNoPatterns(t *testing.T) {
	matcher, err := selector.NewMatcher(selector.GlobMode, nil)
	require.NoError(t, err)
	require.Nil(t, matcher)
}

func TestNewMatcherInvalidPatterns(t *testing.T) {
	_, err := selector.NewMatcher(selector.GlobMode, []string{"src/[a-"})
	require.Error(t, err)

	_, err = selector.NewMatcher(selector.RegexMode, []string{"("})
	require.Error(t, err)
}

func TestGlobMatch(t *testing.T) {
	glob := selector.Glob{"src/**/test/*.cpp", "*.{h,hpp}"}

	tests := map[string]bool{
		"src/a/b/test/x.cpp":      true,
		"repo/src/a/test/x.cpp":   true,
		"src/test/x.cpp":          true,
		"src/a/test/deep/x.cpp":   false,
		"include/menu/menu.h":     true,
		"include/menu/menu.hpp":   true,
		"include/menu/menu.hxx":   false,
		"src/a/b/test/x.cpp.orig": false,
	}

	for path, expected := range tests {
		require.Equal(t, expected, glob.Match(path), "match for %s", path)
	}
}

func TestSubstringMatch(t *testing.T) {
	substring := selector.Substring{"test"}

	require.True(t, substring.Match("src/test/a.go"))
	require.True(t, substring.Match("src/a_test.go"))
	require.False(t, substring.Match("src/a.go"))
}
