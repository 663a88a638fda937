package manager

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/temirov/relman/internal/reactor"
	"github.com/temirov/relman/internal/release/descriptor"
	"github.com/temirov/relman/internal/release/phase"
	"github.com/temirov/relman/internal/release/releaseerrors"
)

const (
	storeMissingMessageConstant          = "release manager requires a descriptor store"
	nilPhaseMessageConstant              = "release manager received a nil phase"
	duplicatePhaseTemplateConstant       = "release manager received phase %s more than once"
	missingWorkflowTemplateConstant      = "workflow %s is not defined"
	unknownWorkflowPhaseTemplateConstant = "workflow %s names unregistered phase %s"
	storeReadOperationConstant           = "read"
	storeWriteOperationConstant          = "write"
	alreadyCompletedTemplateConstant     = "[%s] already completed"
	resumingTemplateConstant             = "Resuming release from phase '%s'"
	workflowCompletedTemplateConstant    = "Workflow %s was already completed; nothing to do."
	unknownMarkerTemplateConstant        = "Completed phase '%s' is not part of workflow %s; running every phase."
	freshStartMessageConstant            = "No persisted release descriptor found; starting from the first phase."
	reportLineTemplateConstant           = "%s\n"
	workflowStartedMessageConstant       = "release workflow started"
	workflowFinishedMessageConstant      = "release workflow finished"
	phaseStartedMessageConstant          = "release phase started"
	markerPersistedMessageConstant       = "completed phase persisted"
	cleanFailedMessageConstant           = "unable to delete release descriptor"
	logFieldRunIdentifierConstant        = "run_id"
	logFieldWorkflowConstant             = "workflow"
	logFieldPhaseConstant                = "phase"
	logFieldSimulateConstant             = "simulate"
	logFieldStatusConstant               = "status"
	logFieldDurationConstant             = "duration"
	logFieldWorkingDirectoryConstant     = "working_directory"
	cleanWorkflowNameConstant            = "clean"
)

var errStoreMissing = errors.New(storeMissingMessageConstant)

// Dependencies configures the collaborators of a Manager.
type Dependencies struct {
	Phases    []phase.Phase
	Workflows Workflows
	Store     descriptor.Store
	Logger    *zap.Logger
	Clock     Clock
	NewRunID  func() string
}

// Result summarizes one workflow run.
type Result struct {
	Status    phase.ResultCode
	Messages  []string
	RunID     string
	StartTime time.Time
	EndTime   time.Time
}

// Duration returns the wall time of the run.
func (result Result) Duration() time.Duration {
	return result.EndTime.Sub(result.StartTime)
}

// PrepareRequest describes a prepare run.
type PrepareRequest struct {
	Descriptor  descriptor.ReleaseDescriptor
	Environment phase.Environment
	Modules     []reactor.Module
	Resume      bool
	Simulate    bool
}

// BranchRequest describes a branch run.
type BranchRequest struct {
	Descriptor  descriptor.ReleaseDescriptor
	Environment phase.Environment
	Modules     []reactor.Module
	Simulate    bool
}

// PerformRequest describes a perform run. Clean removes the persisted descriptor and scratch
// files after a successful perform.
type PerformRequest struct {
	Descriptor  descriptor.ReleaseDescriptor
	Environment phase.Environment
	Modules     []reactor.Module
	Clean       bool
	Simulate    bool
}

// CleanRequest describes a clean run.
type CleanRequest struct {
	Descriptor  descriptor.ReleaseDescriptor
	Environment phase.Environment
	Modules     []reactor.Module
}

// Manager runs release workflows.
type Manager struct {
	phases     map[string]phase.Phase
	phaseOrder []string
	workflows  Workflows
	store      descriptor.Store
	logger     *zap.Logger
	clock      Clock
	newRunID   func() string
}

// NewManager validates the phases and workflows and constructs a Manager.
func NewManager(dependencies Dependencies) (*Manager, error) {
	if dependencies.Store == nil {
		return nil, errStoreMissing
	}

	phases := make(map[string]phase.Phase, len(dependencies.Phases))
	phaseOrder := make([]string, 0, len(dependencies.Phases))
	for _, registered := range dependencies.Phases {
		if registered == nil {
			return nil, errors.New(nilPhaseMessageConstant)
		}
		if _, exists := phases[registered.Name()]; exists {
			return nil, fmt.Errorf(duplicatePhaseTemplateConstant, registered.Name())
		}
		phases[registered.Name()] = registered
		phaseOrder = append(phaseOrder, registered.Name())
	}

	workflows := DefaultWorkflows().Merge(dependencies.Workflows)
	for _, workflowName := range workflows.Names() {
		for _, phaseName := range workflows[workflowName] {
			if _, registered := phases[phaseName]; !registered {
				return nil, fmt.Errorf(unknownWorkflowPhaseTemplateConstant, workflowName, phaseName)
			}
		}
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := dependencies.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	newRunID := dependencies.NewRunID
	if newRunID == nil {
		newRunID = uuid.NewString
	}

	return &Manager{
		phases:     phases,
		phaseOrder: phaseOrder,
		workflows:  workflows,
		store:      dependencies.Store,
		logger:     logger,
		clock:      clock,
		newRunID:   newRunID,
	}, nil
}

// Workflow returns the phase names of the workflow.
func (manager *Manager) Workflow(workflowName string) []string {
	return slices.Clone(manager.workflows[workflowName])
}

// Prepare runs the prepare workflow. A resumed run continues after the persisted
// completed-phase marker; every successful phase of an executed run is persisted.
func (manager *Manager) Prepare(executionContext context.Context, request PrepareRequest) (Result, error) {
	run := manager.startRun(PrepareWorkflowNameConstant, request.Environment, request.Simulate)

	releaseDescriptor := request.Descriptor.Clone()
	if request.Resume {
		persisted, readError := manager.store.Read(releaseDescriptor.WorkingDirectory)
		switch {
		case readError == nil:
			releaseDescriptor = descriptor.MergeForResume(persisted, releaseDescriptor)
		case errors.Is(readError, fs.ErrNotExist):
			run.info(freshStartMessageConstant)
			releaseDescriptor.CompletedPhase = ""
		default:
			return run.finish(manager.storeError(storeReadOperationConstant, releaseDescriptor.WorkingDirectory, readError))
		}
	} else {
		releaseDescriptor.CompletedPhase = ""
	}
	releaseDescriptor.CaptureOriginalScmInfo(request.Modules)

	return run.finish(manager.runWorkflow(executionContext, run, &releaseDescriptor, request.Modules, workflowOptions{
		simulate:     request.Simulate,
		honorMarker:  true,
		persistPhase: !request.Simulate,
	}))
}

// Branch runs the branch workflow from the first phase without persisting progress.
func (manager *Manager) Branch(executionContext context.Context, request BranchRequest) (Result, error) {
	run := manager.startRun(BranchWorkflowNameConstant, request.Environment, request.Simulate)

	releaseDescriptor := request.Descriptor.Clone()
	releaseDescriptor.CompletedPhase = ""
	releaseDescriptor.CaptureOriginalScmInfo(request.Modules)

	return run.finish(manager.runWorkflow(executionContext, run, &releaseDescriptor, request.Modules, workflowOptions{simulate: request.Simulate}))
}

// Perform runs the perform workflow against the persisted descriptor of a finished prepare.
func (manager *Manager) Perform(executionContext context.Context, request PerformRequest) (Result, error) {
	run := manager.startRun(PerformWorkflowNameConstant, request.Environment, request.Simulate)

	persisted, readError := manager.store.Read(request.Descriptor.WorkingDirectory)
	if readError != nil {
		return run.finish(manager.storeError(storeReadOperationConstant, request.Descriptor.WorkingDirectory, readError))
	}
	releaseDescriptor := descriptor.MergeForResume(persisted, request.Descriptor.Clone())

	workflowError := manager.runWorkflow(executionContext, run, &releaseDescriptor, request.Modules, workflowOptions{simulate: request.Simulate})
	if workflowError == nil && request.Clean && !request.Simulate {
		manager.clean(executionContext, run, releaseDescriptor, request.Modules)
	}
	return run.finish(workflowError)
}

// Clean removes the scratch files of every registered phase and the persisted descriptor.
// Clean never fails; problems are logged.
func (manager *Manager) Clean(executionContext context.Context, request CleanRequest) Result {
	run := manager.startRun(cleanWorkflowNameConstant, request.Environment, false)
	manager.clean(executionContext, run, request.Descriptor.Clone(), request.Modules)
	result, _ := run.finish(nil)
	return result
}

func (manager *Manager) clean(executionContext context.Context, run *workflowRun, releaseDescriptor descriptor.ReleaseDescriptor, modules []reactor.Module) {
	for _, phaseName := range manager.phaseOrder {
		manager.phases[phaseName].Clean(executionContext, releaseDescriptor.Clone(), modules)
	}
	if deleteError := manager.store.Delete(releaseDescriptor.WorkingDirectory); deleteError != nil {
		run.logger.Warn(cleanFailedMessageConstant, zap.String(logFieldWorkingDirectoryConstant, releaseDescriptor.WorkingDirectory), zap.Error(deleteError))
	}
}

type workflowOptions struct {
	simulate     bool
	honorMarker  bool
	persistPhase bool
}

func (manager *Manager) runWorkflow(executionContext context.Context, run *workflowRun, releaseDescriptor *descriptor.ReleaseDescriptor, modules []reactor.Module, options workflowOptions) error {
	phaseNames, defined := manager.workflows[run.workflowName]
	if !defined {
		return fmt.Errorf(missingWorkflowTemplateConstant, run.workflowName)
	}

	startIndex := 0
	if options.honorMarker {
		startIndex = run.resolveStart(phaseNames, releaseDescriptor.CompletedPhase)
	}

	for _, phaseName := range phaseNames[startIndex:] {
		selectedPhase := manager.phases[phaseName]
		run.logger.Debug(phaseStartedMessageConstant, zap.String(logFieldPhaseConstant, phaseName))

		var (
			phaseResult phase.Result
			phaseError  error
		)
		if options.simulate {
			phaseResult, phaseError = selectedPhase.Simulate(executionContext, releaseDescriptor.Clone(), run.environment, modules)
		} else {
			phaseResult, phaseError = selectedPhase.Execute(executionContext, releaseDescriptor.Clone(), run.environment, modules)
		}
		run.absorb(phaseResult, phaseError)
		if phaseError != nil {
			return phaseError
		}

		if !options.persistPhase {
			continue
		}
		releaseDescriptor.CompletedPhase = phaseName
		if writeError := manager.store.Write(*releaseDescriptor); writeError != nil {
			return manager.storeError(storeWriteOperationConstant, releaseDescriptor.WorkingDirectory, writeError)
		}
		run.logger.Debug(markerPersistedMessageConstant, zap.String(logFieldPhaseConstant, phaseName))
	}
	return nil
}

func (manager *Manager) storeError(operation string, workingDirectory string, cause error) error {
	return &releaseerrors.ConfigStoreError{Operation: operation, Path: manager.store.Path(workingDirectory), Err: cause}
}

func (manager *Manager) startRun(workflowName string, environment phase.Environment, simulate bool) *workflowRun {
	runIdentifier := manager.newRunID()
	baseLogger := environment.Logger
	if baseLogger == nil {
		baseLogger = manager.logger
	}
	logger := baseLogger.With(zap.String(logFieldRunIdentifierConstant, runIdentifier), zap.String(logFieldWorkflowConstant, workflowName))
	environment.Logger = logger

	run := &workflowRun{
		workflowName: workflowName,
		environment:  environment,
		logger:       logger,
		clock:        manager.clock,
		result:       Result{RunID: runIdentifier, StartTime: manager.clock.Now()},
	}
	logger.Info(workflowStartedMessageConstant, zap.Bool(logFieldSimulateConstant, simulate))
	return run
}

type workflowRun struct {
	workflowName string
	environment  phase.Environment
	logger       *zap.Logger
	clock        Clock
	result       Result
	failureCode  *phase.ResultCode
}

func (run *workflowRun) resolveStart(phaseNames []string, completedPhase string) int {
	if len(completedPhase) == 0 {
		return 0
	}

	markerIndex := slices.Index(phaseNames, completedPhase)
	if markerIndex < 0 {
		run.warn(fmt.Sprintf(unknownMarkerTemplateConstant, completedPhase, run.workflowName))
		return 0
	}

	for _, completedName := range phaseNames[:markerIndex+1] {
		run.info(fmt.Sprintf(alreadyCompletedTemplateConstant, completedName))
	}
	nextIndex := markerIndex + 1
	if nextIndex == len(phaseNames) {
		run.info(fmt.Sprintf(workflowCompletedTemplateConstant, run.workflowName))
	} else {
		run.info(fmt.Sprintf(resumingTemplateConstant, phaseNames[nextIndex]))
	}
	return nextIndex
}

func (run *workflowRun) info(message string) {
	run.logger.Info(message)
	run.report(message)
}

func (run *workflowRun) warn(message string) {
	run.logger.Warn(message)
	run.report(message)
}

func (run *workflowRun) report(message string) {
	if run.environment.Reporter != nil {
		run.environment.Reporter.Printf(reportLineTemplateConstant, message)
	}
	run.result.Messages = append(run.result.Messages, message)
}

func (run *workflowRun) absorb(phaseResult phase.Result, phaseError error) {
	run.result.Messages = append(run.result.Messages, phaseResult.Messages...)
	if phaseError == nil {
		return
	}
	code := phaseResult.Code
	if code == phase.ResultCodeSuccess {
		code = phase.ResultCodeError
	}
	run.failureCode = &code
}

func (run *workflowRun) finish(runError error) (Result, error) {
	run.result.EndTime = run.clock.Now()
	switch {
	case runError == nil:
		run.result.Status = phase.ResultCodeSuccess
	case run.failureCode != nil:
		run.result.Status = *run.failureCode
	default:
		run.result.Status = phase.ResultCodeError
	}

	fields := []zap.Field{
		zap.String(logFieldStatusConstant, run.result.Status.String()),
		zap.Duration(logFieldDurationConstant, run.result.Duration()),
	}
	if runError != nil {
		run.logger.Warn(workflowFinishedMessageConstant, append(fields, zap.Error(runError))...)
	} else {
		run.logger.Info(workflowFinishedMessageConstant, fields...)
	}

	result := run.result
	result.Messages = slices.Clone(run.result.Messages)
	return result, runError
}
