package cli

import (
	"bytes"
	_ "embed"
)

//go:embed default_config.yaml
var releaseDefaultsDocument []byte

// EmbeddedDefaultConfiguration returns a private copy of the built-in relman
// configuration together with its viper config type.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return bytes.Clone(releaseDefaultsDocument), configurationTypeConstant
}
