package sniff

import (
	"strings"
	"testing"
)

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		mediaType string
		want      string
	}{
		{"image/jpeg", "jpg"},
		{"image/png", "png"},
		{"text/plain; charset=utf-8", "txt"},
		{"application/x-rar-compressed", "rar"},
		{"application/x-no-such-type", ""},
	}

	for _, tt := range tests {
		if got := ExtensionFor(tt.mediaType); got != tt.want {
			t.Errorf("ExtensionFor(%q) = %q, want %q", tt.mediaType, got, tt.want)
		}
	}
}

func TestMatchesExtension(t *testing.T) {
	tests := []struct {
		mediaType string
		ext       string
		want      bool
	}{
		{"image/jpeg", "jpeg", true},
		{"image/jpeg", ".JPG", true},
		{"image/jpeg", "png", false},
		{"image/png", "", false},
		{"application/x-no-such-type", "bin", false},
	}

	for _, tt := range tests {
		if got := MatchesExtension(tt.mediaType, tt.ext); got != tt.want {
			t.Errorf("MatchesExtension(%q, %q) = %v, want %v", tt.mediaType, tt.ext, got, tt.want)
		}
	}
}

func TestExtensionForDetectedTypes(t *testing.T) {
	// every image type the magic table can produce has a usual extension
	for _, sig := range signatures {
		if !strings.HasPrefix(sig.mediaType, "image/") {
			continue
		}
		if ExtensionFor(sig.mediaType) == "" {
			t.Errorf("no extension for %s", sig.mediaType)
		}
	}
}
