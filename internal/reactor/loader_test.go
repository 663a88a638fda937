package reactor_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/relman/internal/reactor"
)

const (
	reactorFileNameConstant          = "reactor.yaml"
	reactorSourceNameConstant        = "inline"
	reactorBaseDirectoryConstant     = "/workspace/project"
	validReactorContentConstant      = "modules:\n  - group: org.example\n    artifact: parent\n    basedir: .\n    scm:\n      connection: scm:git:https://example.com/org/project.git\n      developer_connection: scm:git:git@example.com:org/project.git\n  - group: org.example\n    artifact: core\n    basedir: core\n    parent: org.example:parent\n    build_file: build.xml\n  - group: org.example\n    artifact: tools\n    basedir: /opt/tools\n"
	unknownKeyReactorContentConstant = "modules:\n  - group: org.example\n    artifact: core\n    version: 1.0\n"
	duplicateReactorContentConstant  = "modules:\n  - group: org.example\n    artifact: core\n  - group: org.example\n    artifact: core\n"
	missingArtifactContentConstant   = "modules:\n  - group: org.example\n"
	missingGroupContentConstant      = "modules:\n  - artifact: core\n"
	selfParentContentConstant        = "modules:\n  - group: org.example\n    artifact: core\n    parent: org.example:core\n"
	emptyReactorContentConstant      = "modules: []\n"
	malformedReactorContentConstant  = "modules: [unterminated"
)

type stubFileReader struct {
	content       []byte
	readError     error
	requestedPath string
}

func (reader *stubFileReader) ReadFile(path string) ([]byte, error) {
	reader.requestedPath = path
	if reader.readError != nil {
		return nil, reader.readError
	}
	return reader.content, nil
}

func TestDecodeResolvesModules(testInstance *testing.T) {
	modules, decodeError := reactor.Decode(reactorSourceNameConstant, []byte(validReactorContentConstant), reactorBaseDirectoryConstant)
	require.NoError(testInstance, decodeError)
	require.Len(testInstance, modules, 3)

	require.Equal(testInstance, []string{"org.example:parent", "org.example:core", "org.example:tools"}, reactor.Keys(modules))
	require.Equal(testInstance, reactorBaseDirectoryConstant, modules[0].BaseDirectory)
	require.Equal(testInstance, filepath.Join(reactorBaseDirectoryConstant, "core"), modules[1].BaseDirectory)
	require.Equal(testInstance, "/opt/tools", modules[2].BaseDirectory)

	require.Equal(testInstance, "scm:git:git@example.com:org/project.git", modules[0].Scm.DeveloperConnection)
	require.Equal(testInstance, "org.example:parent", modules[1].ParentKey)
	require.Equal(testInstance, reactor.DefaultBuildFileNameConstant, modules[0].BuildFileName())
	require.Equal(testInstance, "build.xml", modules[1].BuildFileName())
}

func TestDecodeRejectsInvalidDefinitions(testInstance *testing.T) {
	testCases := []struct {
		name            string
		content         string
		expectedMessage string
	}{
		{
			name:            "unknown_key",
			content:         unknownKeyReactorContentConstant,
			expectedMessage: "version",
		},
		{
			name:            "duplicate_module",
			content:         duplicateReactorContentConstant,
			expectedMessage: "module org.example:core is listed more than once",
		},
		{
			name:            "missing_artifact",
			content:         missingArtifactContentConstant,
			expectedMessage: "module #1 has no artifact",
		},
		{
			name:            "missing_group",
			content:         missingGroupContentConstant,
			expectedMessage: "module #1 has no group",
		},
		{
			name:            "self_parent",
			content:         selfParentContentConstant,
			expectedMessage: "module org.example:core names itself as parent",
		},
		{
			name:            "malformed_yaml",
			content:         malformedReactorContentConstant,
			expectedMessage: "unable to parse reactor file inline",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			modules, decodeError := reactor.Decode(reactorSourceNameConstant, []byte(testCase.content), reactorBaseDirectoryConstant)
			require.Error(testInstance, decodeError)
			require.Nil(testInstance, modules)
			require.Contains(testInstance, decodeError.Error(), testCase.expectedMessage)
		})
	}
}

func TestDecodeRejectsEmptyReactor(testInstance *testing.T) {
	_, decodeError := reactor.Decode(reactorSourceNameConstant, []byte(emptyReactorContentConstant), reactorBaseDirectoryConstant)
	require.ErrorIs(testInstance, decodeError, reactor.ErrEmptyReactor)
}

func TestLoaderLoadFileResolvesAgainstFileDirectory(testInstance *testing.T) {
	reader := &stubFileReader{content: []byte(validReactorContentConstant)}
	loader := reactor.NewLoader(reader)

	reactorPath := filepath.Join(reactorBaseDirectoryConstant, "build", reactorFileNameConstant)
	modules, loadError := loader.LoadFile(reactorPath)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, reactorPath, reader.requestedPath)
	require.Equal(testInstance, filepath.Join(reactorBaseDirectoryConstant, "build", "core"), modules[1].BaseDirectory)
}

func TestLoaderLoadFileReportsMissingFile(testInstance *testing.T) {
	loader := reactor.NewLoader(nil)

	_, loadError := loader.LoadFile(filepath.Join(testInstance.TempDir(), reactorFileNameConstant))
	require.Error(testInstance, loadError)
	require.True(testInstance, reactor.IsNotExist(loadError))
}

func TestLoaderLoadFileReadsFromDisk(testInstance *testing.T) {
	reactorPath := filepath.Join(testInstance.TempDir(), reactorFileNameConstant)
	require.NoError(testInstance, os.WriteFile(reactorPath, []byte(validReactorContentConstant), 0o600))

	modules, loadError := reactor.NewLoader(nil).LoadFile(reactorPath)
	require.NoError(testInstance, loadError)
	require.Len(testInstance, modules, 3)
	require.Equal(testInstance, filepath.Dir(reactorPath), modules[0].BaseDirectory)
}

func TestLoaderLoadFileWrapsReaderErrors(testInstance *testing.T) {
	readFailure := errors.New("permission denied")
	loader := reactor.NewLoader(&stubFileReader{readError: readFailure})

	_, loadError := loader.LoadFile(reactorFileNameConstant)
	require.ErrorIs(testInstance, loadError, readFailure)
	require.False(testInstance, reactor.IsNotExist(loadError))
}
