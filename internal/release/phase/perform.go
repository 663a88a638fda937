package phase

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/temirov/relman/internal/reactor"
	"github.com/temirov/relman/internal/release/descriptor"
	"github.com/temirov/relman/internal/release/releaseerrors"
	"github.com/temirov/relman/internal/release/strategy"
	"github.com/temirov/relman/internal/scm"
	pathutils "github.com/temirov/relman/internal/utils/path"
)

const (
	preparationVerifiedMessageConstant   = "Release preparation completed, performing the release."
	checkingOutTemplateConstant          = "Checking out the project to perform the release from %s with label '%s'..."
	checkoutExecutionMessageConstant     = "An error is occurred in the checkout process"
	checkoutRefusedMessageConstant       = "Unable to checkout from SCM"
	checkoutCleanupTemplateConstant      = "unable to prepare the checkout directory %s: %w"
	simulateCheckoutTemplateConstant     = "Full run would be checking out %s with label '%s' into %s"
	performDirectoryTemplateConstant     = "Release will be performed in %s"
	releaseCompletedMessageConstant      = "Release preparation complete."
	checkoutDirectoryPermissionsConstant = 0o755
)

var defaultCheckoutDirectorySegments = []string{"target", "checkout"}

// VerifyCompletedPreparePhase refuses to perform a release whose preparation did not finish.
type VerifyCompletedPreparePhase struct {
	finalPreparePhaseName string
}

// NewVerifyCompletedPreparePhase constructs the phase expecting the given final prepare phase marker.
func NewVerifyCompletedPreparePhase(finalPreparePhaseName string) VerifyCompletedPreparePhase {
	return VerifyCompletedPreparePhase{finalPreparePhaseName: finalPreparePhaseName}
}

// Name returns verify-completed-prepare-phases.
func (phase VerifyCompletedPreparePhase) Name() string {
	return VerifyCompletedPreparePhaseNameConstant
}

// Execute checks the completed phase marker.
func (phase VerifyCompletedPreparePhase) Execute(_ context.Context, releaseDescriptor descriptor.ReleaseDescriptor, environment Environment, _ []reactor.Module) (Result, error) {
	phaseRecorder := newRecorder(phase.Name(), environment)
	if releaseDescriptor.CompletedPhase != phase.finalPreparePhaseName {
		return phaseRecorder.fail(&releaseerrors.IncompletePrepareError{Phase: phase.Name(), CompletedPhase: releaseDescriptor.CompletedPhase})
	}
	phaseRecorder.info(preparationVerifiedMessageConstant)
	return phaseRecorder.success()
}

// Simulate performs the same check as Execute.
func (phase VerifyCompletedPreparePhase) Simulate(executionContext context.Context, releaseDescriptor descriptor.ReleaseDescriptor, environment Environment, modules []reactor.Module) (Result, error) {
	return phase.Execute(executionContext, releaseDescriptor, environment, modules)
}

// Clean does nothing.
func (VerifyCompletedPreparePhase) Clean(context.Context, descriptor.ReleaseDescriptor, []reactor.Module) {}

// CheckoutProjectPhase checks the released tag out into a fresh checkout directory.
type CheckoutProjectPhase struct {
	support scmSupport
}

func newCheckoutProjectPhase(dependencies Dependencies) *CheckoutProjectPhase {
	return &CheckoutProjectPhase{support: scmSupport{phaseName: CheckoutProjectPhaseNameConstant, dependencies: dependencies}}
}

// Name returns checkout-project-from-scm.
func (phase *CheckoutProjectPhase) Name() string {
	return CheckoutProjectPhaseNameConstant
}

// Execute replaces the checkout directory with a checkout of the release label.
func (phase *CheckoutProjectPhase) Execute(executionContext context.Context, releaseDescriptor descriptor.ReleaseDescriptor, environment Environment, modules []reactor.Module) (Result, error) {
	phaseRecorder := newRecorder(phase.Name(), environment)
	if len(releaseDescriptor.ReleaseLabel) == 0 {
		return phaseRecorder.fail(&releaseerrors.MissingReleaseLabelError{Phase: phase.Name()})
	}

	checkoutDirectory := CheckoutDirectory(releaseDescriptor)
	phaseRecorder.info(fmt.Sprintf(checkingOutTemplateConstant, releaseDescriptor.ScmSourceURL, releaseDescriptor.ReleaseLabel))

	repository, provider, repositoryError := phase.support.repository(releaseDescriptor.ScmSourceURL, "", releaseDescriptor, environment)
	if repositoryError != nil {
		return phaseRecorder.fail(repositoryError)
	}

	fileSystem := phase.support.dependencies.FileSystem
	if removeError := fileSystem.RemoveAll(checkoutDirectory); removeError != nil {
		return phaseRecorder.fail(fmt.Errorf(checkoutCleanupTemplateConstant, checkoutDirectory, removeError))
	}
	if mkdirError := fileSystem.MkdirAll(filepath.Dir(checkoutDirectory), checkoutDirectoryPermissionsConstant); mkdirError != nil {
		return phaseRecorder.fail(fmt.Errorf(checkoutCleanupTemplateConstant, checkoutDirectory, mkdirError))
	}

	checkoutResult, checkoutError := phase.support.dependencies.Executor.Checkout(executionContext, phase.support.scope(""), repository, provider, scm.NewFileSet(checkoutDirectory), scm.CheckoutParameters{Revision: releaseDescriptor.ReleaseLabel})
	if classifiedError := phase.support.classify("", checkoutResult, checkoutError, checkoutExecutionMessageConstant, checkoutRefusedMessageConstant); classifiedError != nil {
		return phaseRecorder.fail(classifiedError)
	}

	phaseRecorder.info(fmt.Sprintf(performDirectoryTemplateConstant, PerformWorkingDirectory(releaseDescriptor, modules)))
	return phaseRecorder.success()
}

// Simulate reports the checkout Execute would make.
func (phase *CheckoutProjectPhase) Simulate(_ context.Context, releaseDescriptor descriptor.ReleaseDescriptor, environment Environment, modules []reactor.Module) (Result, error) {
	phaseRecorder := newRecorder(phase.Name(), environment)
	if len(releaseDescriptor.ReleaseLabel) == 0 {
		return phaseRecorder.fail(&releaseerrors.MissingReleaseLabelError{Phase: phase.Name()})
	}
	phaseRecorder.info(fmt.Sprintf(simulateCheckoutTemplateConstant, releaseDescriptor.ScmSourceURL, releaseDescriptor.ReleaseLabel, CheckoutDirectory(releaseDescriptor)))
	phaseRecorder.info(fmt.Sprintf(performDirectoryTemplateConstant, PerformWorkingDirectory(releaseDescriptor, modules)))
	return phaseRecorder.success()
}

// Clean leaves the checkout in place.
func (phase *CheckoutProjectPhase) Clean(context.Context, descriptor.ReleaseDescriptor, []reactor.Module) {}

// CheckoutDirectory returns the configured checkout directory or target/checkout under the working directory.
func CheckoutDirectory(releaseDescriptor descriptor.ReleaseDescriptor) string {
	if len(releaseDescriptor.CheckoutDirectory) > 0 {
		return releaseDescriptor.CheckoutDirectory
	}
	return filepath.Join(append([]string{releaseDescriptor.WorkingDirectory}, defaultCheckoutDirectorySegments...)...)
}

// PerformWorkingDirectory locates the released project inside the checkout. The project sits
// at the same path below the checkout as the working directory sits below the reactor's common base.
func PerformWorkingDirectory(releaseDescriptor descriptor.ReleaseDescriptor, modules []reactor.Module) string {
	relativePath := ""
	if commonBaseDirectory := strategy.CommonBaseDirectory(modules); len(commonBaseDirectory) > 0 && pathutils.RelativeDepth(commonBaseDirectory, releaseDescriptor.WorkingDirectory) > 0 {
		if relativeDirectory, relativeError := filepath.Rel(commonBaseDirectory, releaseDescriptor.WorkingDirectory); relativeError == nil {
			relativePath = relativeDirectory
		}
	}
	return pathutils.DetermineWorkingDirectory(CheckoutDirectory(releaseDescriptor), relativePath)
}

// EndReleasePhase marks the end of the prepare workflow.
type EndReleasePhase struct{}

// Name returns end-release.
func (EndReleasePhase) Name() string {
	return EndReleasePhaseNameConstant
}

// Execute logs that preparation is complete.
func (phase EndReleasePhase) Execute(_ context.Context, _ descriptor.ReleaseDescriptor, environment Environment, _ []reactor.Module) (Result, error) {
	phaseRecorder := newRecorder(phase.Name(), environment)
	phaseRecorder.info(releaseCompletedMessageConstant)
	return phaseRecorder.success()
}

// Simulate logs the same message as Execute.
func (phase EndReleasePhase) Simulate(executionContext context.Context, releaseDescriptor descriptor.ReleaseDescriptor, environment Environment, modules []reactor.Module) (Result, error) {
	return phase.Execute(executionContext, releaseDescriptor, environment, modules)
}

// Clean does nothing.
func (EndReleasePhase) Clean(context.Context, descriptor.ReleaseDescriptor, []reactor.Module) {}
