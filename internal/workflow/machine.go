package workflow

import (
	"log/slog"
	"sync"
)

// Machine owns the workflow state for one session. All mutation flows
// through its named transitions; callers read state via Snapshot. Methods
// are safe for use from interleaved goroutines, though the expected caller
// is a single command dispatch loop.
type Machine struct {
	mu     sync.Mutex
	state  State
	logger *slog.Logger
}

// NewMachine constructs a machine holding the initial state.
func NewMachine(logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		state:  initialState(),
		logger: logger,
	}
}

// Snapshot returns a deep copy of the current state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Restore replaces the current state with a previously persisted snapshot.
// Transient flags are reset; the routing mode carries over.
func (m *Machine) Restore(state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	restored := state.clone()
	if restored.Completed == nil {
		restored.Completed = make(map[Step]struct{})
	}
	if !restored.CurrentStep.Valid() {
		restored.CurrentStep = StepLanding
	}
	restored.Loading = false
	restored.LastError = ""
	m.state = restored
	m.logger.Debug("workflow state restored", "step", restored.CurrentStep.String())
}

// SetStep force-jumps to the given step and marks routing manual. Used when
// the user picks a step directly or the location surface implies one.
// Invalid steps are ignored.
func (m *Machine) SetStep(step Step) {
	if !step.Valid() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.CurrentStep = step
	m.state.Routing = RoutingManual
	m.logger.Debug("workflow step set", "step", step.String())
}

// ProgressToNextStep advances one step (clamped at the final step), records
// the pre-advance step as completed, and marks routing automatic. At the
// landing step it advances into the pipeline without recording a completion.
func (m *Machine) ProgressToNextStep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	current := m.state.CurrentStep
	if current >= FirstStep {
		m.state.Completed[current] = struct{}{}
	}
	if current < LastStep {
		m.state.CurrentStep = current + 1
	}
	m.state.Routing = RoutingAuto
	m.logger.Debug("workflow progressed", "from", current.String(), "to", m.state.CurrentStep.String())
}

// MarkStepCompleted records a step as completed without changing the
// current step. Used for steps finished out of linear order.
func (m *Machine) MarkStepCompleted(step Step) {
	if !step.Valid() || step < FirstStep {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Completed[step] = struct{}{}
}

// EnableAutoProgress switches routing to automatic without a step change.
func (m *Machine) EnableAutoProgress() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Routing = RoutingAuto
}

// DisableAutoProgress switches routing to manual without a step change.
func (m *Machine) DisableAutoProgress() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Routing = RoutingManual
}

// SetPaperID records the backend pipeline instance this session refers to.
func (m *Machine) SetPaperID(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.PaperID = id
}

// SetMetadata merges a partial metadata update into the current record.
// Fields absent from the patch retain their prior values.
func (m *Machine) SetMetadata(patch MetadataPatch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if patch.Title != nil {
		m.state.Metadata.Title = *patch.Title
	}
	if patch.Authors != nil {
		m.state.Metadata.Authors = *patch.Authors
	}
	if patch.Date != nil {
		m.state.Metadata.Date = *patch.Date
	}
}

// SetScripts replaces the server script snapshot and resets the working
// copy to match, establishing the no-pending-edits baseline.
func (m *Machine) SetScripts(scripts map[Section]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Scripts = cloneSectionMap(scripts)
	m.state.EditedScripts = cloneSectionMap(scripts)
}

// SetEditedScripts replaces the working script copy only; the server
// snapshot is left alone so divergence stays observable.
func (m *Machine) SetEditedScripts(scripts map[Section]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.EditedScripts = cloneSectionMap(scripts)
}

// SetEditedScript updates the working copy for a single section.
func (m *Machine) SetEditedScript(section Section, script string) {
	if !section.Valid() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.EditedScripts[section] = script
}

// SetBulletPoints replaces the per-section bullet point lists.
func (m *Machine) SetBulletPoints(points map[Section][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make(map[Section][]string, len(points))
	for section, list := range points {
		cp[section] = append([]string(nil), list...)
	}
	m.state.BulletPoints = cp
}

// SetImages replaces the ordered list of available image identifiers.
func (m *Machine) SetImages(images []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Images = append([]string(nil), images...)
}

// SetSelectedImage merges one section's image choice into the selection
// map. An empty name clears the section's selection.
func (m *Machine) SetSelectedImage(section Section, imageName string) {
	if !section.Valid() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if imageName == "" {
		delete(m.state.SelectedImages, section)
		return
	}
	m.state.SelectedImages[section] = imageName
}

// SetSlides replaces the ordered list of rendered slide references.
func (m *Machine) SetSlides(slides []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Slides = append([]string(nil), slides...)
}

// SetAudioFiles replaces the list of generated audio artifacts.
func (m *Machine) SetAudioFiles(files []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.AudioFiles = append([]string(nil), files...)
}

// SetVideoPath records the generated video artifact reference.
func (m *Machine) SetVideoPath(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.VideoPath = path
}

// SetLoading toggles the transient loading flag.
func (m *Machine) SetLoading(loading bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Loading = loading
}

// SetError records a transient error message; empty clears it.
func (m *Machine) SetError(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.LastError = message
}

// ClearPaperState atomically clears the paper identifier and every field
// derived from it, leaving step position and routing mode untouched. Used
// when the backend reports the referenced paper no longer exists.
func (m *Machine) ClearPaperState() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.PaperID = ""
	m.state.Metadata = Metadata{}
	m.state.Scripts = make(map[Section]string)
	m.state.EditedScripts = make(map[Section]string)
	m.state.BulletPoints = make(map[Section][]string)
	m.state.Images = nil
	m.state.SelectedImages = make(map[Section]string)
	m.logger.Debug("paper-scoped state cleared")
}

// Reset replaces the entire record with the initial state. This is the only
// transition that clears artifacts from the later pipeline stages together
// with the paper-scoped fields.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = initialState()
	m.logger.Debug("workflow reset")
}
