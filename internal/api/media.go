package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// VoiceConfig selects the narration voice for audio generation.
type VoiceConfig struct {
	Voice string  `json:"voice,omitempty"`
	Speed float64 `json:"speed,omitempty"`
}

// VideoConfig controls final video assembly.
type VideoConfig struct {
	Resolution   string `json:"resolution,omitempty"`
	IncludeAudio bool   `json:"include_audio"`
}

// MediaStatus reports which media artifacts exist for a paper. The zero
// value is the documented "nothing generated yet" state.
type MediaStatus struct {
	PaperID     string   `json:"paper_id"`
	AudioFiles  []string `json:"audio_files"`
	VideoPath   string   `json:"video_path"`
	AudioStatus string   `json:"audio_status"`
	VideoStatus string   `json:"video_status"`
}

// Media exposes the audio/video resource family.
type Media struct {
	client *Client
}

// NewMedia builds the media facade on the shared client.
func NewMedia(client *Client) *Media {
	return &Media{client: client}
}

// GenerateAudio triggers narration audio synthesis.
func (m *Media) GenerateAudio(ctx context.Context, paperID string, cfg VoiceConfig) error {
	return m.client.doJSON(ctx, http.MethodPost, fmt.Sprintf("/media/%s/generate-audio", paperID), nil, cfg, nil)
}

// GenerateVideo triggers final video assembly.
func (m *Media) GenerateVideo(ctx context.Context, paperID string, cfg VideoConfig) error {
	return m.client.doJSON(ctx, http.MethodPost, fmt.Sprintf("/media/%s/generate-video", paperID), nil, cfg, nil)
}

// Status reads media generation progress. A suppressed 404 (no media stage
// reached yet) resolves to an empty-but-valid status for the paper.
func (m *Media) Status(ctx context.Context, paperID string) (MediaStatus, error) {
	var out MediaStatus
	err := m.client.getJSON(ctx, fmt.Sprintf("/media/%s/status", paperID), nil, &out)
	if err != nil {
		if IsSuppressed(err) {
			return MediaStatus{PaperID: paperID}, nil
		}
		return MediaStatus{}, err
	}
	return out, nil
}

// AudioStreamURL computes the playback address for one narration file
// without any network traffic.
func (m *Media) AudioStreamURL(paperID, file string) string {
	return fmt.Sprintf("%s/media/%s/stream-audio/%s", m.client.BaseURL(), paperID, url.PathEscape(file))
}

// VideoStreamURL computes the playback address for the final video.
func (m *Media) VideoStreamURL(paperID string) string {
	return fmt.Sprintf("%s/media/%s/stream-video", m.client.BaseURL(), paperID)
}
