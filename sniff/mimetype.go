package sniff

import (
	"context"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
)

// Mimetype detects media types with github.com/gabriel-vasile/mimetype,
// which recognises many more formats than the signature table of [Magic].
type Mimetype struct {
	// Limit is the number of leading bytes handed to the detector.
	Limit int
}

// NewMimetype returns a detector inspecting [DefaultHeaderLimit] bytes.
func NewMimetype() *Mimetype {
	return &Mimetype{Limit: DefaultHeaderLimit}
}

// Name implements Detector.
func (m *Mimetype) Name() string { return "mimetype" }

// Detect implements Detector.
func (m *Mimetype) Detect(ctx context.Context, path string) (string, error) {
	header, err := readHeader(ctx, path, m.Limit)
	if err != nil {
		return "", err
	}
	mediaType := bareType(mimetype.Detect(header).String())
	if mediaType == "image/bmp" && !isBMP(header) {
		return bareType(http.DetectContentType(header)), nil
	}
	return mediaType, nil
}
