package phase

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/temirov/relman/internal/reactor"
	"github.com/temirov/relman/internal/release/descriptor"
	"github.com/temirov/relman/internal/release/releaseerrors"
	"github.com/temirov/relman/internal/scm"
)

// Phase names.
const (
	CheckModificationsPhaseNameConstant     = "scm-check-modifications"
	CommitReleasePhaseNameConstant          = "scm-commit-release"
	TagPhaseNameConstant                    = "scm-tag"
	BranchPhaseNameConstant                 = "scm-branch"
	CommitDevelopmentPhaseNameConstant      = "scm-commit-development"
	EndReleasePhaseNameConstant             = "end-release"
	VerifyCompletedPreparePhaseNameConstant = "verify-completed-prepare-phases"
	CheckoutProjectPhaseNameConstant        = "checkout-project-from-scm"
)

const (
	logFieldPhaseConstant  = "phase"
	logFieldModuleConstant = "module"
)

// ResultCode is the outcome of a phase.
type ResultCode int

// Result codes. Failures are conditions the user can fix; errors are unexpected breakage.
const (
	ResultCodeSuccess ResultCode = iota
	ResultCodeFailure
	ResultCodeError
)

// String returns the lowercase name of the code.
func (code ResultCode) String() string {
	switch code {
	case ResultCodeSuccess:
		return "success"
	case ResultCodeFailure:
		return "failure"
	default:
		return "error"
	}
}

// Result is the outcome of a phase invocation with the messages it logged.
type Result struct {
	Code     ResultCode
	Messages []string
	Err      error
}

// Copy returns a result whose messages do not alias the receiver's.
func (result Result) Copy() Result {
	result.Messages = slices.Clone(result.Messages)
	return result
}

// Environment carries the per-run collaborators of a phase.
type Environment struct {
	Credentials scm.Credentials
	Reporter    Reporter
	Logger      *zap.Logger
}

// ResolveCredentials overlays the environment credentials on the descriptor credentials.
func (environment Environment) ResolveCredentials(releaseDescriptor descriptor.ReleaseDescriptor) scm.Credentials {
	credentials := releaseDescriptor.Credentials()
	if len(environment.Credentials.Username) > 0 {
		credentials.Username = environment.Credentials.Username
	}
	if len(environment.Credentials.Password) > 0 {
		credentials.Password = environment.Credentials.Password
	}
	if len(environment.Credentials.PrivateKey) > 0 {
		credentials.PrivateKey = environment.Credentials.PrivateKey
	}
	if len(environment.Credentials.Passphrase) > 0 {
		credentials.Passphrase = environment.Credentials.Passphrase
	}
	return credentials
}

// Phase is one step of a release workflow. Phases receive the descriptor by value and
// never modify the caller's copy.
type Phase interface {
	Name() string
	Execute(executionContext context.Context, releaseDescriptor descriptor.ReleaseDescriptor, environment Environment, modules []reactor.Module) (Result, error)
	Simulate(executionContext context.Context, releaseDescriptor descriptor.ReleaseDescriptor, environment Environment, modules []reactor.Module) (Result, error)
	Clean(executionContext context.Context, releaseDescriptor descriptor.ReleaseDescriptor, modules []reactor.Module)
}

// recorder logs phase messages and keeps them for the Result.
type recorder struct {
	logger   *zap.Logger
	reporter Reporter
	messages []string
}

func newRecorder(phaseName string, environment Environment) *recorder {
	logger := environment.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reporter := environment.Reporter
	if reporter == nil {
		reporter = noopReporter{}
	}
	return &recorder{logger: logger.With(zap.String(logFieldPhaseConstant, phaseName)), reporter: reporter}
}

func (phaseRecorder *recorder) info(message string, fields ...zap.Field) {
	phaseRecorder.logger.Info(message, fields...)
	phaseRecorder.reporter.Printf(reportLineTemplateConstant, message)
	phaseRecorder.messages = append(phaseRecorder.messages, message)
}

func (phaseRecorder *recorder) success() (Result, error) {
	return Result{Code: ResultCodeSuccess, Messages: slices.Clone(phaseRecorder.messages)}, nil
}

func (phaseRecorder *recorder) fail(phaseError error) (Result, error) {
	phaseRecorder.logger.Warn(phaseError.Error())
	code := ResultCodeFailure
	switch releaseerrors.KindOf(phaseError) {
	case releaseerrors.KindScmExecution, releaseerrors.KindUnsupportedProvider, releaseerrors.KindUnknown:
		code = ResultCodeError
	}
	return Result{Code: code, Messages: slices.Clone(phaseRecorder.messages), Err: phaseError}, phaseError
}
