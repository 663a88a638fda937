package reactor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

const (
	readReactorTemplateConstant     = "unable to read reactor file %s: %w"
	parseReactorTemplateConstant    = "unable to parse reactor file %s: %w"
	decodeReactorTemplateConstant   = "invalid reactor file %s: %w"
	emptyReactorMessageConstant     = "reactor lists no modules"
	missingGroupTemplateConstant    = "module #%d has no group"
	missingArtifactTemplateConstant = "module #%d has no artifact"
	duplicateModuleTemplateConstant = "module %s is listed more than once"
	selfParentTemplateConstant      = "module %s names itself as parent"
	currentDirectoryConstant        = "."
)

// ErrEmptyReactor indicates a reactor definition without modules.
var ErrEmptyReactor = errors.New(emptyReactorMessageConstant)

// Definition is the document stored in a reactor file.
type Definition struct {
	Modules []Module `mapstructure:"modules"`
}

// FileReader reads reactor files.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

type osFileReader struct{}

func (osFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader reads reactor files and resolves module directories.
type Loader struct {
	reader FileReader
}

// NewLoader constructs a Loader. A nil reader reads from the operating system.
func NewLoader(reader FileReader) *Loader {
	if reader == nil {
		reader = osFileReader{}
	}
	return &Loader{reader: reader}
}

// LoadFile reads and validates the reactor file. Relative module base directories
// are resolved against the directory containing the file.
func (loader *Loader) LoadFile(reactorPath string) ([]Module, error) {
	content, readError := loader.reader.ReadFile(reactorPath)
	if readError != nil {
		return nil, fmt.Errorf(readReactorTemplateConstant, reactorPath, readError)
	}
	return Decode(reactorPath, content, filepath.Dir(reactorPath))
}

// Decode parses reactor YAML. Unknown keys are rejected.
func Decode(sourceName string, content []byte, baseDirectory string) ([]Module, error) {
	var rawDocument map[string]any
	if unmarshalError := yaml.Unmarshal(content, &rawDocument); unmarshalError != nil {
		return nil, fmt.Errorf(parseReactorTemplateConstant, sourceName, unmarshalError)
	}

	definition := Definition{}
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &definition,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if decoderError != nil {
		return nil, decoderError
	}
	if decodeError := decoder.Decode(rawDocument); decodeError != nil {
		return nil, fmt.Errorf(decodeReactorTemplateConstant, sourceName, decodeError)
	}

	modules, validationError := normalize(definition.Modules, baseDirectory)
	if validationError != nil {
		return nil, fmt.Errorf(decodeReactorTemplateConstant, sourceName, validationError)
	}
	return modules, nil
}

func normalize(modules []Module, baseDirectory string) ([]Module, error) {
	if len(modules) == 0 {
		return nil, ErrEmptyReactor
	}

	normalized := make([]Module, 0, len(modules))
	seenKeys := make(map[string]struct{}, len(modules))
	for moduleIndex, module := range modules {
		module.Group = strings.TrimSpace(module.Group)
		module.Artifact = strings.TrimSpace(module.Artifact)
		module.ParentKey = strings.TrimSpace(module.ParentKey)
		module.BuildFile = strings.TrimSpace(module.BuildFile)
		module.Scm.Connection = strings.TrimSpace(module.Scm.Connection)
		module.Scm.DeveloperConnection = strings.TrimSpace(module.Scm.DeveloperConnection)

		if len(module.Group) == 0 {
			return nil, fmt.Errorf(missingGroupTemplateConstant, moduleIndex+1)
		}
		if len(module.Artifact) == 0 {
			return nil, fmt.Errorf(missingArtifactTemplateConstant, moduleIndex+1)
		}

		moduleKey := module.Key()
		if _, duplicate := seenKeys[moduleKey]; duplicate {
			return nil, fmt.Errorf(duplicateModuleTemplateConstant, moduleKey)
		}
		if module.ParentKey == moduleKey {
			return nil, fmt.Errorf(selfParentTemplateConstant, moduleKey)
		}
		seenKeys[moduleKey] = struct{}{}

		module.BaseDirectory = resolveDirectory(baseDirectory, module.BaseDirectory)
		normalized = append(normalized, module)
	}
	return normalized, nil
}

func resolveDirectory(baseDirectory string, moduleDirectory string) string {
	trimmedDirectory := strings.TrimSpace(moduleDirectory)
	if len(trimmedDirectory) == 0 {
		trimmedDirectory = currentDirectoryConstant
	}
	if filepath.IsAbs(trimmedDirectory) {
		return filepath.Clean(trimmedDirectory)
	}
	return filepath.Join(baseDirectory, filepath.FromSlash(trimmedDirectory))
}

// IsNotExist reports whether the error came from a missing reactor file.
func IsNotExist(loadError error) bool {
	return errors.Is(loadError, fs.ErrNotExist)
}
