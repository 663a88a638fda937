package strategy

import (
	"errors"
	"strings"

	"github.com/temirov/relman/internal/reactor"
	"github.com/temirov/relman/internal/release/descriptor"
	"github.com/temirov/relman/internal/release/releaseerrors"
	pathutils "github.com/temirov/relman/internal/utils/path"
)

const (
	urlSeparatorConstant = "/"
)

// WorkUnit is one target of an SCM operation.
type WorkUnit struct {
	WorkingDirectory string
	SourceURL        string
	ReleaseLabel     string
	ModuleKey        string
	Modules          []reactor.Module
}

// IterationPolicy decides what happens after a unit fails.
type IterationPolicy int

// Supported policies.
const (
	StopAtFirstFailure IterationPolicy = iota
	ContinueOnFailure
)

// Planner builds work units for a phase.
type Planner struct {
	phaseName string
}

// NewPlanner constructs a Planner whose errors name the phase.
func NewPlanner(phaseName string) Planner {
	return Planner{phaseName: phaseName}
}

// Plan returns the work units for the reactor. Commit-by-project requires a label and
// original SCM info for every module; the aggregate unit uses the global label.
func (planner Planner) Plan(releaseDescriptor descriptor.ReleaseDescriptor, modules []reactor.Module) ([]WorkUnit, error) {
	if releaseDescriptor.CommitByProject {
		return planner.planPerModule(releaseDescriptor, modules)
	}
	return []WorkUnit{planner.planAggregate(releaseDescriptor, modules)}, nil
}

// PlanWithoutLabels is Plan for phases that do not need release labels.
func (planner Planner) PlanWithoutLabels(releaseDescriptor descriptor.ReleaseDescriptor, modules []reactor.Module) ([]WorkUnit, error) {
	if !releaseDescriptor.CommitByProject {
		return []WorkUnit{planner.planAggregate(releaseDescriptor, modules)}, nil
	}
	units := make([]WorkUnit, 0, len(modules))
	for _, module := range modules {
		sourceURL, resolveError := planner.moduleSourceURL(releaseDescriptor, module)
		if resolveError != nil {
			return nil, resolveError
		}
		label, _ := releaseDescriptor.ReleaseLabelFor(module.Key())
		units = append(units, moduleUnit(module, sourceURL, label))
	}
	return units, nil
}

func (planner Planner) planPerModule(releaseDescriptor descriptor.ReleaseDescriptor, modules []reactor.Module) ([]WorkUnit, error) {
	units := make([]WorkUnit, 0, len(modules))
	for _, module := range modules {
		label, found := releaseDescriptor.ReleaseLabelFor(module.Key())
		if !found {
			return nil, &releaseerrors.MissingReleaseLabelError{Phase: planner.phaseName, ModuleKey: module.Key()}
		}
		sourceURL, resolveError := planner.moduleSourceURL(releaseDescriptor, module)
		if resolveError != nil {
			return nil, resolveError
		}
		units = append(units, moduleUnit(module, sourceURL, label))
	}
	return units, nil
}

func (planner Planner) moduleSourceURL(releaseDescriptor descriptor.ReleaseDescriptor, module reactor.Module) (string, error) {
	scmInfo, found := releaseDescriptor.OriginalScmInfoFor(module.Key())
	if !found || len(strings.TrimSpace(scmInfo.DeveloperConnection)) == 0 {
		return "", &releaseerrors.MissingOriginalScmInfoError{Phase: planner.phaseName, ModuleKey: module.Key()}
	}
	return scmInfo.DeveloperConnection, nil
}

func (planner Planner) planAggregate(releaseDescriptor descriptor.ReleaseDescriptor, modules []reactor.Module) WorkUnit {
	commonBaseDirectory := CommonBaseDirectory(modules)
	if len(commonBaseDirectory) == 0 {
		commonBaseDirectory = releaseDescriptor.WorkingDirectory
	}
	parentLevels := pathutils.RelativeDepth(commonBaseDirectory, releaseDescriptor.WorkingDirectory)
	return WorkUnit{
		WorkingDirectory: commonBaseDirectory,
		SourceURL:        RealignURL(releaseDescriptor.ScmSourceURL, parentLevels),
		ReleaseLabel:     releaseDescriptor.ReleaseLabel,
		Modules:          modules,
	}
}

func moduleUnit(module reactor.Module, sourceURL string, label string) WorkUnit {
	return WorkUnit{
		WorkingDirectory: module.BaseDirectory,
		SourceURL:        sourceURL,
		ReleaseLabel:     label,
		ModuleKey:        module.Key(),
		Modules:          []reactor.Module{module},
	}
}

// CommonBaseDirectory returns the deepest directory containing every module.
func CommonBaseDirectory(modules []reactor.Module) string {
	directories := make([]string, 0, len(modules))
	for _, module := range modules {
		directories = append(directories, module.BaseDirectory)
	}
	return pathutils.CommonBaseDirectory(directories)
}

// RealignURL drops one trailing path segment per parent level, keeping a trailing slash.
func RealignURL(sourceURL string, parentLevels int) string {
	if len(sourceURL) == 0 || parentLevels <= 0 {
		return sourceURL
	}

	index := len(sourceURL)
	suffix := ""
	if strings.HasSuffix(sourceURL, urlSeparatorConstant) {
		index--
		suffix = urlSeparatorConstant
	}
	for level := 0; level < parentLevels && index > 0; level++ {
		index = strings.LastIndex(sourceURL[:index], urlSeparatorConstant)
	}
	if index <= 0 {
		return sourceURL
	}
	return sourceURL[:index] + suffix
}

// RootModule returns the first module whose parent is not part of the reactor.
func RootModule(modules []reactor.Module) (reactor.Module, bool) {
	present := make(map[string]struct{}, len(modules))
	for _, module := range modules {
		present[module.Key()] = struct{}{}
	}
	for _, module := range modules {
		if _, parentInReactor := present[module.ParentKey]; !parentInReactor {
			return module, true
		}
	}
	return reactor.Module{}, false
}

// Iterate applies the action to each unit in order. StopAtFirstFailure returns the first
// error; ContinueOnFailure visits every unit and joins the errors.
func Iterate(units []WorkUnit, policy IterationPolicy, action func(unit WorkUnit) error) error {
	var failures []error
	for _, unit := range units {
		actionError := action(unit)
		if actionError == nil {
			continue
		}
		if policy == StopAtFirstFailure {
			return actionError
		}
		failures = append(failures, actionError)
	}
	return errors.Join(failures...)
}
