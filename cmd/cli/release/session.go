package release

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/relman/internal/dependencies"
	"github.com/temirov/relman/internal/filesystem"
	"github.com/temirov/relman/internal/reactor"
	"github.com/temirov/relman/internal/release/descriptor"
	"github.com/temirov/relman/internal/release/manager"
	"github.com/temirov/relman/internal/release/phase"
	"github.com/temirov/relman/internal/release/strategy"
	"github.com/temirov/relman/internal/scm/gitprovider"
	"github.com/temirov/relman/internal/utils"
	flagutils "github.com/temirov/relman/internal/utils/flags"
	pathutils "github.com/temirov/relman/internal/utils/path"
)

const (
	workingDirectoryErrorTemplateConstant = "unable to resolve working directory: %w"
	reactorPathErrorTemplateConstant      = "unable to resolve reactor path: %w"
	reactorMissingTemplateConstant        = "reactor file %s not found; pass --reactor or set tools.release.reactor"
	rootModuleMissingMessageConstant      = "reactor has no root module"
	sessionReadyMessageConstant           = "release session prepared"
	logFieldReactorConstant               = "reactor"
	logFieldModuleCountConstant           = "module_count"
	logFieldWorkingDirectoryConstant      = "working_directory"
	logFieldDescriptorFileConstant        = "descriptor_file"
)

var errRootModuleMissing = errors.New(rootModuleMissingMessageConstant)

// Dependencies allows callers to replace the collaborators built for a release command.
type Dependencies struct {
	GitExecutor              gitprovider.GitExecutor
	FileSystem               filesystem.FileSystem
	Sleeper                  phase.Sleeper
	Store                    descriptor.Store
	Clock                    manager.Clock
	NewRunID                 func() string
	WorkingDirectoryProvider func() (string, error)
}

// session holds everything one release command run needs.
type session struct {
	configuration CommandConfiguration
	logger        *zap.Logger
	output        io.Writer
	modules       []reactor.Module
	descriptor    descriptor.ReleaseDescriptor
	environment   phase.Environment
	manager       *manager.Manager
	executionFlag utils.ExecutionFlags
}

func (builder *GroupBuilder) newSession(command *cobra.Command, releaseFlags *flagutils.ReleaseFlagValues) (*session, error) {
	configuration := builder.resolveConfiguration()
	logger := resolveLogger(builder.LoggerProvider)
	humanReadable := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadable = builder.HumanReadableLoggingProvider()
	}

	executionFlags := utils.ExecutionFlags{DryRun: configuration.DryRun, Resume: configuration.Resume}
	if resolvedFlags, available := flagutils.ResolveExecutionFlags(command); available {
		if resolvedFlags.DryRunSet {
			executionFlags.DryRun = resolvedFlags.DryRun
		}
		if resolvedFlags.ResumeSet {
			executionFlags.Resume = resolvedFlags.Resume
		}
	}

	flagValues := flagutils.ReleaseFlagValues{}
	if releaseFlags != nil {
		flagValues = releaseFlags.Sanitized()
	}

	workingDirectoryProvider := builder.Dependencies.WorkingDirectoryProvider
	if workingDirectoryProvider == nil {
		workingDirectoryProvider = os.Getwd
	}
	workingDirectory, workingDirectoryError := pathutils.NewDirectoryResolver(nil, workingDirectoryProvider).Resolve(configuration.WorkingDirectory)
	if workingDirectoryError != nil {
		return nil, fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectoryError)
	}
	withinWorkingDirectory := pathutils.NewDirectoryResolver(nil, func() (string, error) { return workingDirectory, nil })

	reactorPath := configuration.Reactor
	if len(flagValues.ReactorPath) > 0 {
		reactorPath = flagValues.ReactorPath
	}
	resolvedReactorPath, reactorPathError := withinWorkingDirectory.Resolve(reactorPath)
	if reactorPathError != nil {
		return nil, fmt.Errorf(reactorPathErrorTemplateConstant, reactorPathError)
	}

	fileSystem := dependencies.ResolveFileSystem(builder.Dependencies.FileSystem)
	modules, loadError := reactor.NewLoader(fileSystem).LoadFile(resolvedReactorPath)
	if loadError != nil {
		if reactor.IsNotExist(loadError) {
			return nil, fmt.Errorf(reactorMissingTemplateConstant, resolvedReactorPath)
		}
		return nil, loadError
	}
	rootModule, rootFound := strategy.RootModule(modules)
	if !rootFound {
		return nil, errRootModuleMissing
	}

	checkoutDirectory := ""
	if len(configuration.CheckoutDirectory) > 0 {
		resolvedCheckout, checkoutError := withinWorkingDirectory.Resolve(configuration.CheckoutDirectory)
		if checkoutError != nil {
			return nil, fmt.Errorf(workingDirectoryErrorTemplateConstant, checkoutError)
		}
		checkoutDirectory = resolvedCheckout
	}

	releaseDescriptor := configuration.Descriptor(workingDirectory, checkoutDirectory, rootModule)
	if len(flagValues.ReleaseLabel) > 0 {
		releaseDescriptor.ReleaseLabel = flagValues.ReleaseLabel
	}
	if len(flagValues.ModuleLabels) > 0 {
		releaseDescriptor.ReleaseLabels = flagValues.ModuleLabels
	}

	workflowOverrides := manager.Workflows{}.Merge(manager.Workflows(configuration.Workflows))
	if len(configuration.WorkflowFile) > 0 {
		workflowPath, workflowPathError := withinWorkingDirectory.Resolve(configuration.WorkflowFile)
		if workflowPathError != nil {
			return nil, fmt.Errorf(workingDirectoryErrorTemplateConstant, workflowPathError)
		}
		loadedWorkflows, workflowError := manager.LoadWorkflowFile(fileSystem, workflowPath)
		if workflowError != nil {
			return nil, workflowError
		}
		workflowOverrides = workflowOverrides.Merge(loadedWorkflows)
	}
	workflows := manager.DefaultWorkflows().Merge(workflowOverrides)

	console := utils.NewFlushingWriter(command.ErrOrStderr())
	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.Dependencies.GitExecutor, logger, humanReadable, console)
	if executorError != nil {
		return nil, executorError
	}
	scmCollaborators, scmError := dependencies.ResolveScmCollaborators(gitExecutor, logger)
	if scmError != nil {
		return nil, scmError
	}

	phases, phasesError := phase.NewDefaultPhases(phase.Dependencies{
		Configurator:       scmCollaborators.Configurator,
		Executor:           scmCollaborators.Executor,
		FileSystem:         fileSystem,
		Sleeper:            dependencies.ResolveSleeper(builder.Dependencies.Sleeper),
		Logger:             logger,
		DescriptorFileName: configuration.DescriptorFile,
	}, finalPreparePhase(workflows.FinalPhase(manager.PrepareWorkflowNameConstant)))
	if phasesError != nil {
		return nil, phasesError
	}

	releaseManager, managerError := manager.NewManager(manager.Dependencies{
		Phases:    phases,
		Workflows: workflowOverrides,
		Store:     dependencies.ResolveDescriptorStore(builder.Dependencies.Store, fileSystem, configuration.DescriptorFile),
		Logger:    logger,
		Clock:     builder.Dependencies.Clock,
		NewRunID:  builder.Dependencies.NewRunID,
	})
	if managerError != nil {
		return nil, managerError
	}

	output := utils.NewFlushingWriter(command.OutOrStdout())
	logger.Debug(
		sessionReadyMessageConstant,
		zap.String(logFieldWorkingDirectoryConstant, workingDirectory),
		zap.String(logFieldReactorConstant, resolvedReactorPath),
		zap.Int(logFieldModuleCountConstant, len(modules)),
		zap.String(logFieldDescriptorFileConstant, configuration.DescriptorFile),
	)

	return &session{
		configuration: configuration,
		logger:        logger,
		output:        output,
		modules:       modules,
		descriptor:    releaseDescriptor,
		environment:   phase.Environment{Reporter: phase.NewWriterReporter(output), Logger: logger},
		manager:       releaseManager,
		executionFlag: executionFlags,
	}, nil
}
