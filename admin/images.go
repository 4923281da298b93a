package admin

import (
	"context"
	"fmt"
	"log"

	"dollardash/agi"
	"dollardash/filemgr"
	"dollardash/imagestore"
)

// Analyzer guesses product metadata from a photo.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte, mimeType string) (*agi.Analysis, error)
}

// Images implements the three ways of attaching a product photo.
type Images struct {
	uploader imagestore.Uploader
	vision   Analyzer
}

func NewImages(uploader imagestore.Uploader, vision Analyzer) *Images {
	return &Images{uploader: uploader, vision: vision}
}

// AnalyzedImage is the result of the AI-assisted path.
type AnalyzedImage struct {
	URL      string        `json:"url"`
	Analysis *agi.Analysis `json:"analysis,omitempty"`
}

// FromURL accepts a pasted link, rewriting legacy Drive links.
func (im *Images) FromURL(raw string) (string, error) {
	url, err := imagestore.NormalizeURL(raw)
	if err != nil {
		return "", newValidationError("%v", err)
	}
	return url, nil
}

// Backend names the configured storage and whether it can take uploads.
func (im *Images) Backend() (string, bool) {
	if im.uploader == nil {
		return "", false
	}
	return im.uploader.Name(), im.uploader.Connected()
}

// Upload stores u after stripping metadata and squaring it.
func (im *Images) Upload(ctx context.Context, u filemgr.Upload) (string, error) {
	if im.uploader == nil || !im.uploader.Connected() {
		return "", imagestore.ErrNotConnected
	}
	prepared, err := filemgr.Prepare(u)
	if err != nil {
		return "", newValidationError("%v", err)
	}
	return im.uploader.Upload(ctx, prepared)
}

// Analyze asks the vision model about u and, when storage is connected,
// uploads the squared photo. Without storage the analysis comes back with an
// empty URL. A failed analysis still returns the uploaded URL with a nil
// Analysis.
func (im *Images) Analyze(ctx context.Context, u filemgr.Upload) (AnalyzedImage, error) {
	prepared, err := filemgr.Prepare(u)
	if err != nil {
		return AnalyzedImage{}, newValidationError("%v", err)
	}

	var analysis *agi.Analysis
	if im.vision != nil {
		analysis, err = im.vision.Analyze(ctx, prepared.Data, prepared.MIME)
		if err != nil {
			log.Printf("[Admin] image analysis failed: %v", err)
			analysis = nil
		}
	}

	if im.uploader == nil || !im.uploader.Connected() {
		return AnalyzedImage{Analysis: analysis}, nil
	}
	url, err := im.uploader.Upload(ctx, prepared)
	if err != nil {
		return AnalyzedImage{}, fmt.Errorf("upload analyzed image: %w", err)
	}
	return AnalyzedImage{URL: url, Analysis: analysis}, nil
}
