package reactor

import "strings"

const (
	// DefaultBuildFileNameConstant is the build descriptor name assumed when a module does not set one.
	DefaultBuildFileNameConstant = "pom.xml"
	moduleKeySeparatorConstant   = ":"
)

// Scm holds the connection strings of a module.
type Scm struct {
	Connection          string `mapstructure:"connection" yaml:"connection,omitempty"`
	DeveloperConnection string `mapstructure:"developer_connection" yaml:"developer_connection,omitempty"`
}

// Module is one node of the reactor.
type Module struct {
	Group         string `mapstructure:"group"`
	Artifact      string `mapstructure:"artifact"`
	BaseDirectory string `mapstructure:"basedir"`
	ParentKey     string `mapstructure:"parent"`
	BuildFile     string `mapstructure:"build_file"`
	Scm           Scm    `mapstructure:"scm"`
}

// Key returns the group:artifact identity of the module.
func (module Module) Key() string {
	return ModuleKey(module.Group, module.Artifact)
}

// BuildFileName returns the build descriptor name, falling back to pom.xml.
func (module Module) BuildFileName() string {
	if trimmed := strings.TrimSpace(module.BuildFile); len(trimmed) > 0 {
		return trimmed
	}
	return DefaultBuildFileNameConstant
}

// ModuleKey joins group and artifact into a module key.
func ModuleKey(group string, artifact string) string {
	return strings.TrimSpace(group) + moduleKeySeparatorConstant + strings.TrimSpace(artifact)
}

// Keys lists the module keys in reactor order.
func Keys(modules []Module) []string {
	keys := make([]string, 0, len(modules))
	for _, module := range modules {
		keys = append(keys, module.Key())
	}
	return keys
}
