package workflow

import "sort"

// Metadata holds the editable descriptive fields for an ingested paper.
type Metadata struct {
	Title   string `json:"title"`
	Authors string `json:"authors"`
	Date    string `json:"date"`
}

// IsZero reports whether no metadata field is set.
func (m Metadata) IsZero() bool {
	return m == Metadata{}
}

// MetadataPatch carries a partial metadata update. Nil fields retain the
// prior value; non-nil fields overwrite it, including with the empty string.
type MetadataPatch struct {
	Title   *string
	Authors *string
	Date    *string
}

// PatchFrom builds a patch that would reproduce m when applied to any state.
func PatchFrom(m Metadata) MetadataPatch {
	title, authors, date := m.Title, m.Authors, m.Date
	return MetadataPatch{Title: &title, Authors: &authors, Date: &date}
}

// State is the complete workflow record for one pipeline session. It is
// mutated only through Machine transitions; callers observe it via Snapshot.
type State struct {
	CurrentStep    Step
	Completed      map[Step]struct{}
	Routing        RoutingMode
	PaperID        string
	Metadata       Metadata
	Scripts        map[Section]string
	EditedScripts  map[Section]string
	BulletPoints   map[Section][]string
	Images         []string
	SelectedImages map[Section]string
	Slides         []string
	AudioFiles     []string
	VideoPath      string

	// Transient flags; never persisted by the session store.
	Loading   bool
	LastError string
}

// initialState returns the documented starting record: landing step, nothing
// completed, manual routing, no paper-scoped data.
func initialState() State {
	return State{
		CurrentStep:    StepLanding,
		Completed:      make(map[Step]struct{}),
		Routing:        RoutingManual,
		Scripts:        make(map[Section]string),
		EditedScripts:  make(map[Section]string),
		BulletPoints:   make(map[Section][]string),
		SelectedImages: make(map[Section]string),
	}
}

// StepCompleted reports whether the given step is in the completed set.
func (s State) StepCompleted(step Step) bool {
	_, ok := s.Completed[step]
	return ok
}

// CompletedSteps returns the completed set as a sorted slice.
func (s State) CompletedSteps() []Step {
	steps := make([]Step, 0, len(s.Completed))
	for step := range s.Completed {
		steps = append(steps, step)
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i] < steps[j] })
	return steps
}

// HasPendingEdits reports whether the working script copy diverges from the
// last server snapshot for any section.
func (s State) HasPendingEdits() bool {
	if len(s.Scripts) != len(s.EditedScripts) {
		return true
	}
	for section, script := range s.Scripts {
		if edited, ok := s.EditedScripts[section]; !ok || edited != script {
			return true
		}
	}
	return false
}

func (s State) clone() State {
	cp := s
	cp.Completed = make(map[Step]struct{}, len(s.Completed))
	for step := range s.Completed {
		cp.Completed[step] = struct{}{}
	}
	cp.Scripts = cloneSectionMap(s.Scripts)
	cp.EditedScripts = cloneSectionMap(s.EditedScripts)
	cp.SelectedImages = cloneSectionMap(s.SelectedImages)
	cp.BulletPoints = make(map[Section][]string, len(s.BulletPoints))
	for section, points := range s.BulletPoints {
		cp.BulletPoints[section] = append([]string(nil), points...)
	}
	cp.Images = append([]string(nil), s.Images...)
	cp.Slides = append([]string(nil), s.Slides...)
	cp.AudioFiles = append([]string(nil), s.AudioFiles...)
	return cp
}

func cloneSectionMap(src map[Section]string) map[Section]string {
	cp := make(map[Section]string, len(src))
	for section, value := range src {
		cp[section] = value
	}
	return cp
}
