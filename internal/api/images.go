package api

import (
	"context"
	"fmt"
	"net/url"
)

// Images exposes the extracted-figure resource family.
type Images struct {
	client *Client
}

// NewImages builds the images facade on the shared client.
func NewImages(client *Client) *Images {
	return &Images{client: client}
}

// ListAvailable returns the image identifiers extracted from the paper.
func (i *Images) ListAvailable(ctx context.Context, paperID string) ([]string, error) {
	var out struct {
		PaperID string   `json:"paper_id"`
		Images  []string `json:"images"`
	}
	if err := i.client.getJSON(ctx, fmt.Sprintf("/images/%s/available", paperID), nil, &out); err != nil {
		return nil, err
	}
	return out.Images, nil
}

// Fetch downloads one image as opaque bytes.
func (i *Images) Fetch(ctx context.Context, paperID, imageName string) ([]byte, error) {
	return i.client.getBlob(ctx, fmt.Sprintf("/images/%s/%s", paperID, url.PathEscape(imageName)))
}

// URLFor computes the fetchable address for an image without any network
// traffic; slide and media previews embed it directly.
func (i *Images) URLFor(paperID, imageName string) string {
	return fmt.Sprintf("%s/images/%s/%s", i.client.BaseURL(), paperID, url.PathEscape(imageName))
}
