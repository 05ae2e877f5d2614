package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// SectionContent is one section's narration payload on the wire.
type SectionContent struct {
	Script        string   `json:"script"`
	BulletPoints  []string `json:"bullet_points"`
	AssignedImage string   `json:"assigned_image,omitempty"`
}

// SectionsResponse is the read/write shape of the sections route.
type SectionsResponse struct {
	PaperID  string                    `json:"paper_id"`
	Sections map[string]SectionContent `json:"sections"`
}

// Scripts exposes the narration script resource family.
type Scripts struct {
	client *Client
}

// NewScripts builds the scripts facade on the shared client.
func NewScripts(client *Client) *Scripts {
	return &Scripts{client: client}
}

// Generate triggers backend script generation. The route is idempotent, so
// the client's 5xx retry policy applies safely.
func (s *Scripts) Generate(ctx context.Context, paperID string) error {
	return s.client.doJSON(ctx, http.MethodPost, fmt.Sprintf("/scripts/%s/generate", paperID), nil, nil, nil)
}

// GetSections reads all generated sections. A suppressed 404 (scripts not
// generated yet) resolves to an empty sections map instead of failing; all
// other failures propagate.
func (s *Scripts) GetSections(ctx context.Context, paperID string) (SectionsResponse, error) {
	var out SectionsResponse
	err := s.client.getJSON(ctx, fmt.Sprintf("/scripts/%s/sections", paperID), nil, &out)
	if err != nil {
		if IsSuppressed(err) {
			return SectionsResponse{PaperID: paperID, Sections: map[string]SectionContent{}}, nil
		}
		return SectionsResponse{}, err
	}
	if out.Sections == nil {
		out.Sections = map[string]SectionContent{}
	}
	return out, nil
}

// UpdateSections persists a subset of sections; sections absent from the
// map are left untouched on the backend.
func (s *Scripts) UpdateSections(ctx context.Context, paperID string, sections map[string]SectionContent) error {
	body := SectionsResponse{PaperID: paperID, Sections: sections}
	return s.client.doJSON(ctx, http.MethodPut, fmt.Sprintf("/scripts/%s/sections", paperID), nil, body, nil)
}

// AssignImage assigns an image to a section. An empty image name clears the
// assignment; the query parameter is omitted entirely in that case.
func (s *Scripts) AssignImage(ctx context.Context, paperID, section, imageName string) error {
	var query url.Values
	if imageName != "" {
		query = url.Values{"image_name": []string{imageName}}
	}
	path := fmt.Sprintf("/scripts/%s/sections/%s/image", paperID, url.PathEscape(section))
	return s.client.doJSON(ctx, http.MethodPut, path, query, nil, nil)
}
