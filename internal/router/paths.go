package router

import (
	"strings"

	"papercast/internal/workflow"
)

// stepPaths is the canonical bidirectional mapping between pipeline steps
// and location paths. The root path doubles as the landing step.
var stepPaths = map[workflow.Step]string{
	workflow.StepLanding:          "/",
	workflow.StepAPISetup:         "/api-setup",
	workflow.StepPaperUpload:      "/paper-upload",
	workflow.StepScriptGeneration: "/script-generation",
	workflow.StepSlideCreation:    "/slide-creation",
	workflow.StepMediaGeneration:  "/media-generation",
	workflow.StepResults:          "/results",
}

var pathSteps = func() map[string]workflow.Step {
	m := make(map[string]workflow.Step, len(stepPaths))
	for step, path := range stepPaths {
		m[path] = step
	}
	return m
}()

// PathForStep returns the location path for a pipeline step. Unknown steps
// map to the root path.
func PathForStep(step workflow.Step) string {
	if path, ok := stepPaths[step]; ok {
		return path
	}
	return "/"
}

// StepForPath returns the pipeline step a location path denotes, and whether
// the path is a known workflow path at all.
func StepForPath(path string) (workflow.Step, bool) {
	step, ok := pathSteps[normalizePath(path)]
	return step, ok
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
