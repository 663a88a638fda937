package release

import (
	"fmt"

	"github.com/temirov/relman/internal/release/releaseerrors"
)

const (
	commandErrorTemplateConstant = "%s: %w"
)

var kindMessages = map[releaseerrors.Kind]string{
	releaseerrors.KindConfigurationFailure:    "release configuration problem",
	releaseerrors.KindRepositoryConfiguration: "invalid scm repository",
	releaseerrors.KindUnsupportedProvider:     "unsupported scm provider",
	releaseerrors.KindScmExecution:            "scm provider failure",
	releaseerrors.KindScmCommandFailed:        "scm command failed",
	releaseerrors.KindConfigStore:             "release descriptor store failure",
	releaseerrors.KindUnknown:                 "release failed",
}

// describeFailure prefixes the error with a message naming its kind.
func describeFailure(failure error) error {
	if failure == nil {
		return nil
	}
	message, known := kindMessages[releaseerrors.KindOf(failure)]
	if !known {
		message = kindMessages[releaseerrors.KindUnknown]
	}
	return fmt.Errorf(commandErrorTemplateConstant, message, failure)
}
