package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestAddToggleFlagParsesValues(t *testing.T) {
	testCases := []struct {
		name              string
		arguments         []string
		expectedValue     bool
		expectedChanged   bool
		expectedPositions []string
	}{
		{name: "DefaultFalse", arguments: []string{}, expectedValue: false, expectedChanged: false},
		{name: "ImplicitTrue", arguments: []string{"--toggle"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitYes", arguments: []string{"--toggle", "yes"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitTrueUppercase", arguments: []string{"--toggle", "TRUE"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitNo", arguments: []string{"--toggle", "no"}, expectedValue: false, expectedChanged: true},
		{name: "AssignedOff", arguments: []string{"--toggle=off"}, expectedValue: false, expectedChanged: true},
		{name: "PositionalKept", arguments: []string{"--toggle", "v1.0"}, expectedValue: true, expectedChanged: true, expectedPositions: []string{"v1.0"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			command := &cobra.Command{}

			var toggleValue bool
			AddToggleFlag(command.Flags(), &toggleValue, "toggle", false, "Toggle flag")

			parseError := command.ParseFlags(NormalizeToggleArguments(testCase.arguments))
			require.NoError(t, parseError)

			require.Equal(t, testCase.expectedValue, toggleValue)

			flag := command.Flags().Lookup("toggle")
			require.NotNil(t, flag)
			require.Equal(t, testCase.expectedChanged, flag.Changed)
			if testCase.expectedPositions != nil {
				require.Equal(t, testCase.expectedPositions, command.Flags().Args())
			}
		})
	}
}

func TestAddToggleFlagRejectsUnknownLiteral(t *testing.T) {
	command := &cobra.Command{}
	var toggleValue bool
	AddToggleFlag(command.Flags(), &toggleValue, "strict-toggle", true, "")

	require.Error(t, command.ParseFlags([]string{"--strict-toggle=maybe"}))
	require.Equal(t, "`<YES|no>`", command.Flags().Lookup("strict-toggle").Usage)
}
