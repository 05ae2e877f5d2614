package api

import (
	"context"
	"fmt"
	"net/http"
)

// Slides exposes the rendered-slide resource family.
type Slides struct {
	client *Client
}

// NewSlides builds the slides facade on the shared client.
func NewSlides(client *Client) *Slides {
	return &Slides{client: client}
}

// Generate triggers slide rendering for the paper.
func (s *Slides) Generate(ctx context.Context, paperID string) error {
	return s.client.doJSON(ctx, http.MethodPost, fmt.Sprintf("/slides/%s/generate", paperID), nil, nil, nil)
}

// Preview lists the rendered slide image names.
func (s *Slides) Preview(ctx context.Context, paperID string) ([]string, error) {
	var out struct {
		PaperID string   `json:"paper_id"`
		Slides  []string `json:"slides"`
	}
	if err := s.client.getJSON(ctx, fmt.Sprintf("/slides/%s/preview", paperID), nil, &out); err != nil {
		return nil, err
	}
	return out.Slides, nil
}

// Download returns the compiled slide deck as opaque bytes.
func (s *Slides) Download(ctx context.Context, paperID string) ([]byte, error) {
	return s.client.getBlob(ctx, fmt.Sprintf("/slides/%s/download", paperID))
}

// DownloadSource returns the slide deck's LaTeX sources as opaque bytes.
func (s *Slides) DownloadSource(ctx context.Context, paperID string) ([]byte, error) {
	return s.client.getBlob(ctx, fmt.Sprintf("/slides/%s/download-latex", paperID))
}
