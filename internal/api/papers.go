package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// PaperMetadata is the editable descriptive record for an ingested paper.
type PaperMetadata struct {
	Title   string `json:"title"`
	Authors string `json:"authors"`
	Date    string `json:"date"`
}

// IngestResult is returned by every paper ingestion route.
type IngestResult struct {
	PaperID    string        `json:"paper_id"`
	Metadata   PaperMetadata `json:"metadata"`
	ImageFiles []string      `json:"image_files"`
}

// Papers exposes the paper resource family.
type Papers struct {
	client *Client
}

// NewPapers builds the papers facade on the shared client.
func NewPapers(client *Client) *Papers {
	return &Papers{client: client}
}

// CheckExists probes whether the backend still knows the paper. It never
// fails: any error, including auth and network failures, reads as "gone".
func (p *Papers) CheckExists(ctx context.Context, paperID string) bool {
	_, err := p.Metadata(ctx, paperID)
	return err == nil
}

// Metadata fetches the paper's descriptive record. A 404 here is a hard
// error; missing papers are never an expected absence.
func (p *Papers) Metadata(ctx context.Context, paperID string) (PaperMetadata, error) {
	var out PaperMetadata
	err := p.client.getJSON(ctx, fmt.Sprintf("/papers/%s/metadata", paperID), nil, &out)
	return out, err
}

// UploadArchive ingests a zip archive containing the paper sources.
func (p *Papers) UploadArchive(ctx context.Context, filename string, content io.Reader) (IngestResult, error) {
	var out IngestResult
	err := p.client.upload(ctx, "/papers/upload-zip", "file", filename, content, &out)
	return out, err
}

// UploadPDF ingests a single PDF.
func (p *Papers) UploadPDF(ctx context.Context, filename string, content io.Reader) (IngestResult, error) {
	var out IngestResult
	err := p.client.upload(ctx, "/papers/upload-pdf", "file", filename, content, &out)
	return out, err
}

// ImportFromURL asks the backend to scrape an arXiv page.
func (p *Papers) ImportFromURL(ctx context.Context, arxivURL string) (IngestResult, error) {
	var out IngestResult
	body := map[string]string{"arxiv_url": arxivURL}
	err := p.client.doJSON(ctx, http.MethodPost, "/papers/scrape-arxiv", nil, body, &out)
	return out, err
}

// UpdateMetadata persists a partial metadata update. Only non-nil fields of
// the patch are sent, so untouched fields keep their backend values.
func (p *Papers) UpdateMetadata(ctx context.Context, paperID string, patch MetadataPatch) (PaperMetadata, error) {
	var out PaperMetadata
	err := p.client.doJSON(ctx, http.MethodPut, fmt.Sprintf("/papers/%s/metadata", paperID), nil, patch, &out)
	return out, err
}

// MetadataPatch carries a partial metadata update; nil fields are omitted
// from the request body entirely.
type MetadataPatch struct {
	Title   *string `json:"title,omitempty"`
	Authors *string `json:"authors,omitempty"`
	Date    *string `json:"date,omitempty"`
}
