package pathutils

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetermineWorkingDirectory(t *testing.T) {
	testCases := []struct {
		name              string
		checkoutDirectory string
		relativePath      string
		expected          string
	}{
		{name: "EmptyRelativePath", checkoutDirectory: "/work/checkout", relativePath: "", expected: "/work/checkout"},
		{name: "NestedProject", checkoutDirectory: "/work/checkout", relativePath: "project/core", expected: "/work/checkout/project/core"},
		{name: "TrailingSeparators", checkoutDirectory: "/work/checkout/", relativePath: "project/", expected: "/work/checkout/project"},
		{name: "SlashOnly", checkoutDirectory: "/work/checkout", relativePath: "/", expected: "/work/checkout"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, filepath.FromSlash(testCase.expected), DetermineWorkingDirectory(filepath.FromSlash(testCase.checkoutDirectory), testCase.relativePath))
		})
	}
}

func TestRelativeDepth(t *testing.T) {
	require.Equal(t, 0, RelativeDepth("/work/project", "/work/project"))
	require.Equal(t, 1, RelativeDepth("/work/project", "/work/project/core"))
	require.Equal(t, 2, RelativeDepth("/work", "/work/project/core/"))
	require.Equal(t, 0, RelativeDepth("/work/project", "/elsewhere"))
}

func TestCommonBaseDirectory(t *testing.T) {
	require.Equal(t, "", CommonBaseDirectory(nil))
	require.Equal(t, filepath.FromSlash("/work/project"), CommonBaseDirectory([]string{"/work/project"}))
	require.Equal(t, filepath.FromSlash("/work/project"), CommonBaseDirectory([]string{"/work/project", "/work/project/core", "/work/project/api"}))
	require.Equal(t, filepath.FromSlash("/work"), CommonBaseDirectory([]string{"/work/parent", "/work/core"}))
	require.Equal(t, filepath.FromSlash("/work"), CommonBaseDirectory([]string{"/work/project-a", "/work/project-b"}))
}

func TestDirectoryResolverResolve(t *testing.T) {
	resolver := NewDirectoryResolver(
		NewHomeExpanderWithProvider(func() (string, error) { return "/home/releaser", nil }),
		func() (string, error) { return "/work", nil },
	)

	testCases := []struct {
		name      string
		candidate string
		expected  string
	}{
		{name: "Empty", candidate: "  ", expected: "/work"},
		{name: "Relative", candidate: "project/../project/core", expected: "/work/project/core"},
		{name: "Absolute", candidate: "/srv/repo/", expected: "/srv/repo"},
		{name: "Home", candidate: "~/src/repo", expected: "/home/releaser/src/repo"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			resolved, resolveError := resolver.Resolve(testCase.candidate)
			require.NoError(t, resolveError)
			require.Equal(t, filepath.FromSlash(testCase.expected), resolved)
		})
	}

	failingResolver := NewDirectoryResolver(nil, func() (string, error) { return "", errors.New("no cwd") })
	_, resolveError := failingResolver.Resolve("relative")
	require.Error(t, resolveError)
}

func TestHomeExpanderExpand(t *testing.T) {
	lookups := 0
	expander := NewHomeExpanderWithProvider(func() (string, error) {
		lookups++
		return "/home/releaser", nil
	})

	require.Equal(t, filepath.FromSlash("/home/releaser"), expander.Expand("~"))
	require.Equal(t, filepath.FromSlash("/home/releaser/work/reactor.yaml"), expander.Expand("~/work/reactor.yaml"))
	require.Equal(t, "~other/reactor.yaml", expander.Expand("~other/reactor.yaml"))
	require.Equal(t, "relative/path", expander.Expand("relative/path"))
	require.Equal(t, 1, lookups)

	missingHome := NewHomeExpanderWithProvider(func() (string, error) { return "", errors.New("no home") })
	require.Equal(t, "~/reactor.yaml", missingHome.Expand("~/reactor.yaml"))

	var nilExpander *HomeExpander
	require.Equal(t, "~/reactor.yaml", nilExpander.Expand("~/reactor.yaml"))
}
