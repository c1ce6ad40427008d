package assembler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPickLogoPrefersExactLang(t *testing.T) {
	logos := `{"fr":"/fr.svg","en":"/en.svg","und":"/und.svg"}`
	require.Equal(t, "/fr.svg", pickLogo(logos, "fr"))
}

func TestPickLogoFallsBackToEnglish(t *testing.T) {
	logos := `{"en":"/en.svg","und":"/und.svg"}`
	require.Equal(t, "/en.svg", pickLogo(logos, "de"))
}

func TestPickLogoFallsBackToUnd(t *testing.T) {
	logos := `{"und":"/und.svg","ja":"/ja.svg"}`
	require.Equal(t, "/und.svg", pickLogo(logos, "de"))
}

func TestPickLogoFallsBackToAnyValue(t *testing.T) {
	logos := `{"ja":"/ja.svg"}`
	require.Equal(t, "/ja.svg", pickLogo(logos, "de"))
}

func TestPickLogoEmptyOnEmptyInput(t *testing.T) {
	require.Equal(t, "", pickLogo("", "en"))
}

func TestPickLogoEmptyOnUnparseable(t *testing.T) {
	require.Equal(t, "", pickLogo("not json", "en"))
}

func TestPickLogoSkipsEmptyValues(t *testing.T) {
	logos := `{"fr":"","en":"/en.svg"}`
	require.Equal(t, "/en.svg", pickLogo(logos, "fr"))
}
