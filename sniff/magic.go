package sniff

import (
	"bytes"
	"context"
	"encoding/binary"
	"net/http"
)

// signature is a byte pattern found at a fixed offset of a file.
type signature struct {
	mediaType string
	offset    int
	magic     []byte
}

// signatures is checked in order; more specific patterns come first.
var signatures = []signature{
	// images
	{"image/jpeg", 0, []byte{0xFF, 0xD8, 0xFF}},
	{"image/png", 0, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}},
	{"image/gif", 0, []byte("GIF87a")},
	{"image/gif", 0, []byte("GIF89a")},
	{"image/webp", 8, []byte("WEBP")},
	{"image/bmp", 0, []byte("BM")},
	{"image/tiff", 0, []byte{'I', 'I', 0x2A, 0x00}},
	{"image/tiff", 0, []byte{'M', 'M', 0x00, 0x2A}},
	{"image/x-icon", 0, []byte{0x00, 0x00, 0x01, 0x00}},
	{"image/heic", 4, []byte("ftypheic")},
	{"image/heic", 4, []byte("ftypmif1")},
	{"image/avif", 4, []byte("ftypavif")},

	// documents and archives
	{"application/pdf", 0, []byte("%PDF-")},
	{"application/zip", 0, []byte{'P', 'K', 0x03, 0x04}},
	{"application/zip", 0, []byte{'P', 'K', 0x05, 0x06}},
	{"application/gzip", 0, []byte{0x1F, 0x8B}},
	{"application/x-tar", 257, []byte("ustar")},
	{"application/x-7z-compressed", 0, []byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}},
	{"application/x-rar-compressed", 0, []byte("Rar!\x1a\x07")},

	// audio and video
	{"audio/mpeg", 0, []byte("ID3")},
	{"audio/flac", 0, []byte("fLaC")},
	{"audio/ogg", 0, []byte("OggS")},
	{"audio/wav", 0, []byte("RIFF")},
	{"video/webm", 0, []byte{0x1A, 0x45, 0xDF, 0xA3}},
	{"video/mp4", 4, []byte("ftyp")},

	// executables
	{"application/x-msdownload", 0, []byte("MZ")},
	{"application/x-executable", 0, []byte{0x7F, 'E', 'L', 'F'}},
	{"application/x-mach-binary", 0, []byte{0xCF, 0xFA, 0xED, 0xFE}},
}

// Magic detects media types from a table of well-known file signatures and
// falls back to [http.DetectContentType] for everything else.
type Magic struct {
	// Limit is the number of leading bytes inspected.
	Limit int
}

// NewMagic returns a signature detector reading the first 512 bytes, which
// covers every signature in its table.
func NewMagic() *Magic {
	return &Magic{Limit: 512}
}

// Name implements Detector.
func (m *Magic) Name() string { return "magic" }

// Detect implements Detector.
func (m *Magic) Detect(ctx context.Context, path string) (string, error) {
	header, err := readHeader(ctx, path, m.Limit)
	if err != nil {
		return "", err
	}
	return DetectBytes(header), nil
}

// DetectBytes returns the media type of a file whose leading bytes are data.
func DetectBytes(data []byte) string {
	if len(data) == 0 {
		return "application/octet-stream"
	}

	for _, sig := range signatures {
		end := sig.offset + len(sig.magic)
		if end > len(data) {
			continue
		}
		if !bytes.Equal(data[sig.offset:end], sig.magic) {
			continue
		}
		if sig.mediaType == "image/bmp" && !isBMP(data) {
			continue
		}
		return refine(data, sig.mediaType)
	}

	return bareType(http.DetectContentType(data))
}

// refine separates formats that share a container signature.
func refine(data []byte, mediaType string) string {
	switch mediaType {
	case "audio/wav":
		// RIFF carries the real format at offset 8
		if len(data) >= 12 {
			switch string(data[8:12]) {
			case "AVI ":
				return "video/x-msvideo"
			case "WEBP":
				return "image/webp"
			}
		}
	case "video/mp4":
		if len(data) >= 12 {
			switch string(data[8:12]) {
			case "M4A ":
				return "audio/mp4"
			case "qt  ":
				return "video/quicktime"
			case "3gp4", "3gp5", "3gp6":
				return "video/3gpp"
			}
		}
	}
	return mediaType
}

// isBMP checks the DIB header size that follows the 14 byte BMP file header,
// since "BM" alone also starts ordinary text.
func isBMP(data []byte) bool {
	if len(data) < 18 || data[0] != 'B' || data[1] != 'M' {
		return false
	}
	switch binary.LittleEndian.Uint32(data[14:18]) {
	case 12, 16, 40, 52, 56, 64, 108, 124:
		return true
	}
	return false
}
