package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/relman/internal/gitrepo"
)

func TestParseRemoteURL(testInstance *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected gitrepo.RemoteURL
	}{
		{
			name:     "scp_like",
			input:    "git@github.com:example/project.git",
			expected: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSCP, User: "git", Host: "github.com", Path: "example/project.git"},
		},
		{
			name:     "ssh_url",
			input:    "ssh://git@example.com/scm/project/core",
			expected: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSSH, User: "git", Host: "example.com", Path: "scm/project/core"},
		},
		{
			name:     "https_nested",
			input:    "https://example.com/org/project/modules/api/",
			expected: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolHTTPS, Host: "example.com", Path: "org/project/modules/api"},
		},
		{
			name:     "http_with_port",
			input:    "http://localhost:8080/repo.git",
			expected: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolHTTP, Host: "localhost:8080", Path: "repo.git"},
		},
		{
			name:     "file",
			input:    "file:///srv/git/project.git",
			expected: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolFile, Path: "/srv/git/project.git"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			parsed, parseError := gitrepo.ParseRemoteURL(testCase.input)
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expected, parsed)
		})
	}
}

func TestParseRemoteURLRejectsInvalidInput(testInstance *testing.T) {
	invalidInputs := []string{
		"",
		"   ",
		"svn://example.com/repo",
		"https://example.com",
		"https:///repo",
		"git@github.com:",
		"relative/path",
		"https://example.com/with space",
		"file://",
	}

	for _, invalidInput := range invalidInputs {
		testInstance.Run(invalidInput, func(testInstance *testing.T) {
			_, parseError := gitrepo.ParseRemoteURL(invalidInput)
			require.Error(testInstance, parseError)
			require.IsType(testInstance, gitrepo.RemoteURLParseError{}, parseError)
		})
	}
}

func TestFormatRemoteURL(testInstance *testing.T) {
	formatted, formatError := gitrepo.FormatRemoteURL(gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSCP, User: "git", Host: "github.com", Path: "example/project.git"})
	require.NoError(testInstance, formatError)
	require.Equal(testInstance, "git@github.com:example/project.git", formatted)

	formatted, formatError = gitrepo.FormatRemoteURL(gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolHTTPS, Host: "example.com", Path: "org/project"})
	require.NoError(testInstance, formatError)
	require.Equal(testInstance, "https://example.com/org/project", formatted)

	_, formatError = gitrepo.FormatRemoteURL(gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocol("svn"), Host: "example.com", Path: "repo"})
	require.IsType(testInstance, gitrepo.UnsupportedProtocolError{}, formatError)
}
