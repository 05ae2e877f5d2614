package session

import (
	"encoding/json"
	"fmt"

	"papercast/internal/workflow"
)

// stateSnapshot is the durable JSON shape of a workflow state. Transient
// fields (loading, last error) are deliberately absent so a resumed session
// never replays a stale spinner or error banner.
type stateSnapshot struct {
	CurrentStep    int                 `json:"current_step"`
	CompletedSteps []int               `json:"completed_steps"`
	Routing        string              `json:"routing"`
	PaperID        string              `json:"paper_id,omitempty"`
	Metadata       workflow.Metadata   `json:"metadata"`
	Scripts        map[string]string   `json:"scripts,omitempty"`
	EditedScripts  map[string]string   `json:"edited_scripts,omitempty"`
	BulletPoints   map[string][]string `json:"bullet_points,omitempty"`
	Images         []string            `json:"images,omitempty"`
	SelectedImages map[string]string   `json:"selected_images,omitempty"`
	Slides         []string            `json:"slides,omitempty"`
	AudioFiles     []string            `json:"audio_files,omitempty"`
	VideoPath      string              `json:"video_path,omitempty"`
}

func encodeState(state workflow.State) (string, error) {
	if !state.CurrentStep.Valid() {
		return "", fmt.Errorf("encode session state: unknown step %d", int(state.CurrentStep))
	}
	snapshot := stateSnapshot{
		CurrentStep:    int(state.CurrentStep),
		CompletedSteps: make([]int, 0, len(state.Completed)),
		Routing:        string(state.Routing),
		PaperID:        state.PaperID,
		Metadata:       state.Metadata,
		Scripts:        sectionMapToWire(state.Scripts),
		EditedScripts:  sectionMapToWire(state.EditedScripts),
		SelectedImages: sectionMapToWire(state.SelectedImages),
		Images:         state.Images,
		Slides:         state.Slides,
		AudioFiles:     state.AudioFiles,
		VideoPath:      state.VideoPath,
	}
	for _, step := range state.CompletedSteps() {
		snapshot.CompletedSteps = append(snapshot.CompletedSteps, int(step))
	}
	if len(state.BulletPoints) > 0 {
		snapshot.BulletPoints = make(map[string][]string, len(state.BulletPoints))
		for section, points := range state.BulletPoints {
			snapshot.BulletPoints[string(section)] = points
		}
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("encode session state: %w", err)
	}
	return string(data), nil
}

func decodeState(data string) (workflow.State, error) {
	var snapshot stateSnapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return workflow.State{}, fmt.Errorf("decode session state: %w", err)
	}

	state := workflow.State{
		Metadata:       snapshot.Metadata,
		PaperID:        snapshot.PaperID,
		Routing:        workflow.ParseRoutingMode(snapshot.Routing),
		Completed:      make(map[workflow.Step]struct{}, len(snapshot.CompletedSteps)),
		Scripts:        make(map[workflow.Section]string),
		EditedScripts:  make(map[workflow.Section]string),
		BulletPoints:   make(map[workflow.Section][]string),
		SelectedImages: make(map[workflow.Section]string),
		Images:         snapshot.Images,
		Slides:         snapshot.Slides,
		AudioFiles:     snapshot.AudioFiles,
		VideoPath:      snapshot.VideoPath,
	}

	step := workflow.Step(snapshot.CurrentStep)
	if !step.Valid() {
		return workflow.State{}, fmt.Errorf("decode session state: unknown step %d", snapshot.CurrentStep)
	}
	state.CurrentStep = step

	for _, raw := range snapshot.CompletedSteps {
		completed := workflow.Step(raw)
		if !completed.Valid() {
			return workflow.State{}, fmt.Errorf("decode session state: unknown completed step %d", raw)
		}
		state.Completed[completed] = struct{}{}
	}

	var err error
	if state.Scripts, err = sectionMapFromWire(snapshot.Scripts); err != nil {
		return workflow.State{}, err
	}
	if state.EditedScripts, err = sectionMapFromWire(snapshot.EditedScripts); err != nil {
		return workflow.State{}, err
	}
	if state.SelectedImages, err = sectionMapFromWire(snapshot.SelectedImages); err != nil {
		return workflow.State{}, err
	}
	for raw, points := range snapshot.BulletPoints {
		section, err := workflow.ParseSection(raw)
		if err != nil {
			return workflow.State{}, fmt.Errorf("decode session state: %w", err)
		}
		state.BulletPoints[section] = points
	}

	return state, nil
}

func sectionMapToWire(src map[workflow.Section]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for section, value := range src {
		out[string(section)] = value
	}
	return out
}

func sectionMapFromWire(src map[string]string) (map[workflow.Section]string, error) {
	out := make(map[workflow.Section]string, len(src))
	for raw, value := range src {
		section, err := workflow.ParseSection(raw)
		if err != nil {
			return nil, fmt.Errorf("decode session state: %w", err)
		}
		out[section] = value
	}
	return out, nil
}
