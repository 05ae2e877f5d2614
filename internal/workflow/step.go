package workflow

import "strings"

// Step identifies one stage of the fixed paper-to-video pipeline.
// StepLanding (0) is the entry state before any pipeline work begins.
type Step int

const (
	StepLanding          Step = 0
	StepAPISetup         Step = 1
	StepPaperUpload      Step = 2
	StepScriptGeneration Step = 3
	StepSlideCreation    Step = 4
	StepMediaGeneration  Step = 5
	StepResults          Step = 6
)

// FirstStep and LastStep bound the pipeline; ProgressToNextStep clamps at LastStep.
const (
	FirstStep = StepAPISetup
	LastStep  = StepResults
)

var stepNames = map[Step]string{
	StepLanding:          "landing",
	StepAPISetup:         "api-setup",
	StepPaperUpload:      "paper-upload",
	StepScriptGeneration: "script-generation",
	StepSlideCreation:    "slide-creation",
	StepMediaGeneration:  "media-generation",
	StepResults:          "results",
}

// AllSteps returns the ordered pipeline steps, excluding the landing state.
func AllSteps() []Step {
	return []Step{
		StepAPISetup,
		StepPaperUpload,
		StepScriptGeneration,
		StepSlideCreation,
		StepMediaGeneration,
		StepResults,
	}
}

// Valid reports whether s is a known step identifier (landing included).
func (s Step) Valid() bool {
	_, ok := stepNames[s]
	return ok
}

// String returns the canonical lowercase name for the step.
func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStep converts a step name into a known Step.
func ParseStep(value string) (Step, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for step, name := range stepNames {
		if name == normalized {
			return step, true
		}
	}
	return StepLanding, false
}

// RoutingMode governs whether workflow-state changes drive the location
// surface (auto) or the location surface drives workflow state (manual).
// The two modes are mutually exclusive by construction.
type RoutingMode string

const (
	RoutingAuto   RoutingMode = "auto"
	RoutingManual RoutingMode = "manual"
)

// ParseRoutingMode converts a stored string into a known RoutingMode,
// defaulting to manual for unknown values.
func ParseRoutingMode(value string) RoutingMode {
	if RoutingMode(strings.ToLower(strings.TrimSpace(value))) == RoutingAuto {
		return RoutingAuto
	}
	return RoutingManual
}
